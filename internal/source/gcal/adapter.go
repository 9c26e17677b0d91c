package gcal

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/temperhq/taskcal/internal/model"
)

// allDayLayout is the wire format of a date-only event boundary.
const allDayLayout = "2006-01-02"

// eventFromAPI converts one wire event into the application model.
// It returns false for events that cannot be placed on the grid: nil
// entries, cancelled instances, and events without a usable start.
func eventFromAPI(item *calendar.Event, loc *time.Location) (model.Event, bool) {
	if item == nil || item.Start == nil {
		return model.Event{}, false
	}
	if item.Status == "cancelled" {
		return model.Event{}, false
	}

	ev := model.Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		ColorID:     item.ColorId,
	}
	if ev.Summary == "" {
		ev.Summary = "(untitled event)"
	}

	start, allDay, ok := parseBoundary(item.Start, loc)
	if !ok {
		return model.Event{}, false
	}
	ev.Start = start
	ev.AllDay = allDay

	if item.End != nil {
		if end, _, ok := parseBoundary(item.End, loc); ok {
			ev.End = end
		}
	}
	return ev, true
}

// parseBoundary reads a start or end marker, which carries either a
// date-time instant or an all-day date, never both.
func parseBoundary(b *calendar.EventDateTime, loc *time.Location) (time.Time, bool, bool) {
	if b.DateTime != "" {
		t, err := time.Parse(time.RFC3339, b.DateTime)
		if err != nil {
			return time.Time{}, false, false
		}
		return t.In(loc), false, true
	}
	if b.Date != "" {
		t, err := time.ParseInLocation(allDayLayout, b.Date, loc)
		if err != nil {
			return time.Time{}, false, false
		}
		return t, true, true
	}
	return time.Time{}, false, false
}
