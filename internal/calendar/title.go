package calendar

import (
	"fmt"
	"time"
)

// Title formats the header shown above the grid for the given view.
//
// Month view: "September 2026". Day view: "1 September 2026". Week view
// collapses to "7–13 September 2026" when the week stays inside one month
// and expands to "28 September – 4 October 2026" when it crosses a
// boundary; the year shown is the reference date's year either way.
func Title(ref time.Time, g Granularity) string {
	switch g {
	case GranularityMonth:
		return fmt.Sprintf("%s %d", ref.Month(), ref.Year())
	case GranularityWeek:
		days := WeekDays(ref)
		start, end := days[0], days[6]
		if start.Month() == end.Month() {
			return fmt.Sprintf("%d–%d %s %d", start.Day(), end.Day(), start.Month(), ref.Year())
		}
		return fmt.Sprintf("%d %s – %d %s %d",
			start.Day(), start.Month(), end.Day(), end.Month(), ref.Year())
	default:
		return fmt.Sprintf("%d %s %d", ref.Day(), ref.Month(), ref.Year())
	}
}
