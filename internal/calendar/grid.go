// Package calendar projects a navigation date, a view granularity, and a
// list of events into month/week/day grid structures. Everything in this
// package is pure: the same inputs always produce the same grids.
package calendar

import (
	"sort"
	"time"

	"github.com/temperhq/taskcal/internal/model"
)

// Granularity selects the calendar projection shape.
type Granularity int

const (
	GranularityMonth Granularity = iota
	GranularityWeek
	GranularityDay
)

// String returns the lowercase name of the granularity.
func (g Granularity) String() string {
	switch g {
	case GranularityMonth:
		return "month"
	case GranularityWeek:
		return "week"
	case GranularityDay:
		return "day"
	default:
		return "unknown"
	}
}

const (
	// MonthGridCells is the fixed size of the month grid: 6 rows of 7.
	MonthGridCells = 42

	// HoursPerDay is the number of one-hour slots in week and day grids.
	HoursPerDay = 24

	// MaxEventsPerCell is the month-cell overflow cap; events beyond it
	// are collapsed into the cell's More count.
	MaxEventsPerCell = 3
)

// MonthCell is one cell of the 42-cell month grid. Blank padding cells
// have Day == 0 and a zero Date.
type MonthCell struct {
	// Day is the day-of-month, or 0 for a leading/trailing blank.
	Day int

	// Date is the full date of the cell.
	Date time.Time

	// Events holds at most MaxEventsPerCell events for the day,
	// ordered by start time ascending.
	Events []model.Event

	// More is the number of additional events hidden by the cap.
	More int
}

// HourRow is one one-hour slot of a week or day grid.
type HourRow struct {
	Hour   int
	Events []model.Event
}

// LeadingBlanks returns the number of blank cells before day 1 of the
// month containing ref. The grid is Monday-aligned, so the count equals
// (weekday of day 1 + 6) mod 7 with Sunday = 0 in time.Weekday terms.
func LeadingBlanks(ref time.Time) int {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return (int(first.Weekday()) + 6) % 7
}

// MonthGrid builds the fixed 42-cell grid for the month containing ref,
// bucketing each event into the cell matching its local calendar date.
func MonthGrid(ref time.Time, events []model.Event) []MonthCell {
	year, month := ref.Year(), ref.Month()
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, ref.Location()).Day()

	cells := make([]MonthCell, 0, MonthGridCells)
	for i := 0; i < LeadingBlanks(ref); i++ {
		cells = append(cells, MonthCell{})
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, ref.Location())
		dayEvents := EventsForDay(events, date)

		more := 0
		if len(dayEvents) > MaxEventsPerCell {
			more = len(dayEvents) - MaxEventsPerCell
			dayEvents = dayEvents[:MaxEventsPerCell]
		}
		cells = append(cells, MonthCell{
			Day:    day,
			Date:   date,
			Events: dayEvents,
			More:   more,
		})
	}
	for len(cells) < MonthGridCells {
		cells = append(cells, MonthCell{})
	}
	return cells
}

// WeekStart returns the Monday that starts the week containing ref.
// A Sunday counts as day 7 of the prior week and shifts back six days.
func WeekStart(ref time.Time) time.Time {
	day := startOfDay(ref)
	shift := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		shift = 6
	}
	return day.AddDate(0, 0, -shift)
}

// WeekDays returns the seven consecutive days of the week containing ref,
// starting on Monday.
func WeekDays(ref time.Time) []time.Time {
	start := WeekStart(ref)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// DayGrid returns the 24 hour rows for the given day with events
// bucketed by hour. All-day events land in slot 0 only.
func DayGrid(day time.Time, events []model.Event) []HourRow {
	dayEvents := EventsForDay(events, day)
	rows := make([]HourRow, HoursPerDay)
	for hour := range rows {
		rows[hour] = HourRow{Hour: hour}
	}
	for _, e := range dayEvents {
		slot := e.HourSlot()
		rows[slot].Events = append(rows[slot].Events, e)
	}
	return rows
}

// EventsForDay returns the events whose local calendar date equals day,
// ordered by start time ascending. The sort is stable, so events sharing
// a start keep their original fetch order.
func EventsForDay(events []model.Event, day time.Time) []model.Event {
	y, m, d := day.Date()
	var out []model.Event
	for _, e := range events {
		ey, em, ed := e.Start.Date()
		if ey == y && em == m && ed == d {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// EventsForHour returns the events of day that occupy the given hour slot,
// preserving EventsForDay ordering.
func EventsForHour(events []model.Event, day time.Time, hour int) []model.Event {
	var out []model.Event
	for _, e := range EventsForDay(events, day) {
		if e.HourSlot() == hour {
			out = append(out, e)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
