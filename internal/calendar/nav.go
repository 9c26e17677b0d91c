package calendar

import "time"

// Next moves ref forward by one unit of the given granularity.
func Next(ref time.Time, g Granularity) time.Time {
	return step(ref, g, 1)
}

// Prev moves ref backward by one unit of the given granularity.
func Prev(ref time.Time, g Granularity) time.Time {
	return step(ref, g, -1)
}

// Today returns the current calendar date in loc with the time zeroed.
// Passing nil uses the local zone.
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return startOfDay(time.Now().In(loc))
}

func step(ref time.Time, g Granularity, dir int) time.Time {
	switch g {
	case GranularityMonth:
		return addMonths(ref, dir)
	case GranularityWeek:
		return ref.AddDate(0, 0, 7*dir)
	default:
		return ref.AddDate(0, 0, dir)
	}
}

// addMonths shifts ref by n calendar months, preserving the day-of-month
// where the target month has it and clamping to the target month's last
// day otherwise (31 Jan -> 28/29 Feb, never 2/3 Mar).
func addMonths(ref time.Time, n int) time.Time {
	y, m, d := ref.Date()
	hh, mm, ss := ref.Clock()

	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, ref.Location())
	lastDay := time.Date(firstOfTarget.Year(), firstOfTarget.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, ref.Nanosecond(), ref.Location())
}
