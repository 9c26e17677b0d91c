package model

import "time"

// Event is a single calendar event instance from the external calendar
// provider. Events are read-only in this client: they are fetched fresh on
// each load and never persisted.
//
// For timed events Start and End carry the full instant. For all-day
// events AllDay is true and Start/End hold midnight of the event's date in
// the local timezone.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	ColorID     string
}

// Day returns the local calendar date the event belongs to, which is the
// date of its start instant.
func (e Event) Day() time.Time {
	y, m, d := e.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.Start.Location())
}

// HourSlot returns the hour-grid slot the event occupies within its day.
// All-day events always occupy slot 0.
func (e Event) HourSlot() int {
	if e.AllDay {
		return 0
	}
	return e.Start.Hour()
}
