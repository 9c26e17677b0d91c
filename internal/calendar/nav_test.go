package calendar

import (
	"testing"
	"time"
)

func TestWeekStartSundayShiftsBackSixDays(t *testing.T) {
	// Sunday 31 Aug 2025 counts as day 7 of the prior week.
	got := WeekStart(date(2025, time.August, 31))
	want := date(2025, time.August, 25)
	if !got.Equal(want) {
		t.Errorf("WeekStart(Sun 2025-08-31) = %s, want Monday 2025-08-25",
			got.Format("2006-01-02"))
	}
}

func TestWeekStartMidWeek(t *testing.T) {
	tests := []struct {
		ref, want time.Time
	}{
		{date(2025, time.August, 25), date(2025, time.August, 25)}, // Monday stays
		{date(2025, time.August, 27), date(2025, time.August, 25)}, // Wednesday
		{date(2025, time.August, 30), date(2025, time.August, 25)}, // Saturday
	}
	for _, tt := range tests {
		if got := WeekStart(tt.ref); !got.Equal(tt.want) {
			t.Errorf("WeekStart(%s) = %s, want %s",
				tt.ref.Format("2006-01-02"),
				got.Format("2006-01-02"),
				tt.want.Format("2006-01-02"))
		}
	}
}

func TestNextThenPrevRoundTrips(t *testing.T) {
	refs := []time.Time{
		date(2025, time.January, 15),
		date(2025, time.August, 31),
		date(2024, time.February, 29),
		date(2025, time.December, 28),
	}
	grans := []Granularity{GranularityMonth, GranularityWeek, GranularityDay}

	for _, ref := range refs {
		for _, g := range grans {
			// Day-of-month values above 28 are not preserved by a
			// month round-trip through a shorter month; skip those.
			if g == GranularityMonth && ref.Day() > 28 {
				continue
			}
			if got := Prev(Next(ref, g), g); !got.Equal(ref) {
				t.Errorf("%s: next/prev from %s lands on %s",
					g, ref.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		}
	}
}

func TestMonthStepClampsToLastDay(t *testing.T) {
	// 31 Jan has no counterpart in February.
	got := Next(date(2025, time.January, 31), GranularityMonth)
	want := date(2025, time.February, 28)
	if !got.Equal(want) {
		t.Errorf("Next(2025-01-31, month) = %s, want %s",
			got.Format("2006-01-02"), want.Format("2006-01-02"))
	}

	got = Prev(date(2025, time.March, 31), GranularityMonth)
	if !got.Equal(want) {
		t.Errorf("Prev(2025-03-31, month) = %s, want %s",
			got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestWeekStepIsSevenDays(t *testing.T) {
	ref := date(2025, time.August, 31)
	if got := Next(ref, GranularityWeek); !got.Equal(date(2025, time.September, 7)) {
		t.Errorf("Next week from 2025-08-31 = %s", got.Format("2006-01-02"))
	}
	if got := Prev(ref, GranularityWeek); !got.Equal(date(2025, time.August, 24)) {
		t.Errorf("Prev week from 2025-08-31 = %s", got.Format("2006-01-02"))
	}
}

func TestTodayMatchesCurrentDate(t *testing.T) {
	now := time.Now()
	got := Today(nil)

	y1, m1, d1 := got.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		t.Errorf("Today() = %s, current date is %s",
			got.Format("2006-01-02"), now.Format("2006-01-02"))
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("Today() carries a time component: %s", got)
	}
}
