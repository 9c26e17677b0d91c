package gcal

import (
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
)

func TestEventFromAPITimed(t *testing.T) {
	item := &calendar.Event{
		Id:      "ev1",
		Summary: "planning",
		Start:   &calendar.EventDateTime{DateTime: "2025-08-15T14:30:00Z"},
		End:     &calendar.EventDateTime{DateTime: "2025-08-15T15:00:00Z"},
	}

	ev, ok := eventFromAPI(item, time.UTC)
	if !ok {
		t.Fatal("timed event rejected")
	}
	if ev.AllDay {
		t.Error("timed event marked all-day")
	}
	if ev.HourSlot() != 14 {
		t.Errorf("hour slot = %d, want 14", ev.HourSlot())
	}
	if got := ev.Day(); got.Day() != 15 || got.Month() != time.August {
		t.Errorf("day = %s, want 2025-08-15", got.Format("2006-01-02"))
	}
}

func TestEventFromAPIAllDay(t *testing.T) {
	item := &calendar.Event{
		Id:    "ev2",
		Start: &calendar.EventDateTime{Date: "2025-08-15"},
		End:   &calendar.EventDateTime{Date: "2025-08-16"},
	}

	ev, ok := eventFromAPI(item, time.UTC)
	if !ok {
		t.Fatal("all-day event rejected")
	}
	if !ev.AllDay {
		t.Error("date-only event not marked all-day")
	}
	if ev.HourSlot() != 0 {
		t.Errorf("all-day hour slot = %d, want 0", ev.HourSlot())
	}
	if ev.Summary != "(untitled event)" {
		t.Errorf("summary = %q, want the untitled placeholder", ev.Summary)
	}
}

func TestEventFromAPISkipsUnusable(t *testing.T) {
	tests := []struct {
		name string
		item *calendar.Event
	}{
		{"nil event", nil},
		{"missing start", &calendar.Event{Id: "x"}},
		{"cancelled", &calendar.Event{
			Id:     "x",
			Status: "cancelled",
			Start:  &calendar.EventDateTime{Date: "2025-08-15"},
		}},
		{"empty boundary", &calendar.Event{
			Id:    "x",
			Start: &calendar.EventDateTime{},
		}},
		{"garbled date", &calendar.Event{
			Id:    "x",
			Start: &calendar.EventDateTime{DateTime: "yesterday"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := eventFromAPI(tt.item, time.UTC); ok {
				t.Error("unusable event accepted")
			}
		})
	}
}
