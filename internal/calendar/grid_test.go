package calendar

import (
	"testing"
	"time"

	"github.com/temperhq/taskcal/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timed(id string, y int, m time.Month, d, hh, mm int) model.Event {
	return model.Event{
		ID:      id,
		Summary: id,
		Start:   time.Date(y, m, d, hh, mm, 0, 0, time.UTC),
		End:     time.Date(y, m, d, hh+1, mm, 0, 0, time.UTC),
	}
}

func allDay(id string, y int, m time.Month, d int) model.Event {
	return model.Event{
		ID:      id,
		Summary: id,
		Start:   date(y, m, d),
		End:     date(y, m, d+1),
		AllDay:  true,
	}
}

func TestMonthGridAlwaysHas42Cells(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			cells := MonthGrid(date(year, month, 15), nil)
			if len(cells) != MonthGridCells {
				t.Errorf("%s %d: got %d cells, want %d",
					month, year, len(cells), MonthGridCells)
			}
		}
	}
}

func TestLeadingBlanksMondayAligned(t *testing.T) {
	tests := []struct {
		ref  time.Time
		want int
	}{
		{date(2025, time.September, 10), 0}, // 1 Sep 2025 is a Monday
		{date(2025, time.August, 1), 4},     // 1 Aug 2025 is a Friday
		{date(2025, time.June, 20), 6},      // 1 Jun 2025 is a Sunday
		{date(2025, time.February, 28), 5},  // 1 Feb 2025 is a Saturday
	}
	for _, tt := range tests {
		if got := LeadingBlanks(tt.ref); got != tt.want {
			t.Errorf("LeadingBlanks(%s) = %d, want %d",
				tt.ref.Format("2006-01"), got, tt.want)
		}
		// The formula from the grid contract must agree.
		first := date(tt.ref.Year(), tt.ref.Month(), 1)
		if want := (int(first.Weekday()) + 6) % 7; want != tt.want {
			t.Fatalf("test fixture wrong for %s: weekday formula gives %d",
				tt.ref.Format("2006-01"), want)
		}
	}
}

func TestMonthGridBucketsEventIntoExactlyOneCell(t *testing.T) {
	ev := timed("meeting", 2025, time.August, 15, 14, 30)
	cells := MonthGrid(date(2025, time.August, 1), []model.Event{ev})

	found := 0
	for _, cell := range cells {
		for _, got := range cell.Events {
			if got.ID == ev.ID {
				found++
				if cell.Day != 15 {
					t.Errorf("event landed on day %d, want 15", cell.Day)
				}
			}
		}
	}
	if found != 1 {
		t.Errorf("event appears in %d cells, want exactly 1", found)
	}
}

func TestDayGridHourSlot(t *testing.T) {
	day := date(2025, time.August, 15)
	ev := timed("standup", 2025, time.August, 15, 14, 30)

	rows := DayGrid(day, []model.Event{ev})
	if len(rows) != HoursPerDay {
		t.Fatalf("got %d hour rows, want %d", len(rows), HoursPerDay)
	}
	for _, row := range rows {
		switch row.Hour {
		case 14:
			if len(row.Events) != 1 || row.Events[0].ID != "standup" {
				t.Errorf("slot 14 events = %v, want the 14:30 event", row.Events)
			}
		default:
			if len(row.Events) != 0 {
				t.Errorf("slot %d has %d events, want 0", row.Hour, len(row.Events))
			}
		}
	}
}

func TestDayGridAllDayEventInSlotZeroOnly(t *testing.T) {
	day := date(2025, time.August, 15)
	rows := DayGrid(day, []model.Event{allDay("holiday", 2025, time.August, 15)})

	for _, row := range rows {
		want := 0
		if row.Hour == 0 {
			want = 1
		}
		if len(row.Events) != want {
			t.Errorf("slot %d has %d events, want %d", row.Hour, len(row.Events), want)
		}
	}
}

func TestEventsForDayOrderedByStartStable(t *testing.T) {
	day := date(2025, time.August, 15)
	events := []model.Event{
		timed("late", 2025, time.August, 15, 16, 0),
		timed("tie-a", 2025, time.August, 15, 9, 0),
		timed("tie-b", 2025, time.August, 15, 9, 0),
		timed("early", 2025, time.August, 15, 8, 0),
		timed("other-day", 2025, time.August, 16, 8, 0),
	}

	got := EventsForDay(events, day)
	want := []string{"early", "tie-a", "tie-b", "late"}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestMonthCellOverflowCap(t *testing.T) {
	events := []model.Event{
		timed("e1", 2025, time.August, 15, 9, 0),
		timed("e2", 2025, time.August, 15, 10, 0),
		timed("e3", 2025, time.August, 15, 11, 0),
		timed("e4", 2025, time.August, 15, 12, 0),
		timed("e5", 2025, time.August, 15, 13, 0),
	}
	cells := MonthGrid(date(2025, time.August, 1), events)

	for _, cell := range cells {
		if cell.Day != 15 {
			continue
		}
		if len(cell.Events) != MaxEventsPerCell {
			t.Errorf("cell shows %d events, want %d", len(cell.Events), MaxEventsPerCell)
		}
		if cell.More != 2 {
			t.Errorf("cell.More = %d, want 2", cell.More)
		}
		return
	}
	t.Fatal("day 15 cell not found")
}

func TestWeekDaysAreSevenConsecutive(t *testing.T) {
	days := WeekDays(date(2025, time.August, 13))
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	if days[0].Weekday() != time.Monday {
		t.Errorf("week starts on %s, want Monday", days[0].Weekday())
	}
	for i := 1; i < 7; i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			t.Errorf("day %d (%s) does not follow day %d", i, days[i], i-1)
		}
	}
}
