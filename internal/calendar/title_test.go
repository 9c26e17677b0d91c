package calendar

import (
	"testing"
	"time"
)

func TestTitleFormats(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		g    Granularity
		want string
	}{
		{
			name: "month view",
			ref:  date(2025, time.August, 15),
			g:    GranularityMonth,
			want: "August 2025",
		},
		{
			name: "day view",
			ref:  date(2025, time.August, 15),
			g:    GranularityDay,
			want: "15 August 2025",
		},
		{
			name: "week inside one month collapses",
			ref:  date(2025, time.August, 13),
			g:    GranularityWeek,
			want: "11–17 August 2025",
		},
		{
			name: "week crossing a month boundary expands",
			ref:  date(2025, time.July, 31),
			g:    GranularityWeek,
			want: "28 July – 3 August 2025",
		},
		{
			name: "sunday reference stays in its own week",
			ref:  date(2025, time.August, 31),
			g:    GranularityWeek,
			want: "25–31 August 2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.ref, tt.g); got != tt.want {
				t.Errorf("Title(%s, %s) = %q, want %q",
					tt.ref.Format("2006-01-02"), tt.g, got, tt.want)
			}
		})
	}
}
