package marketdata

import "time"

// LastNTradingDays returns the last n NYSE trading days ending at (and
// including, when it qualifies) the given day, most recent first.
func LastNTradingDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	d := truncateToDate(from.In(Eastern))

	for len(out) < n {
		if IsTradingDay(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsTradingDay reports whether the NYSE is open on the given date.
// It excludes weekends and full-day market holidays.
func IsTradingDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !isMarketHoliday(truncateToDate(d))
}

// isMarketHoliday covers the NYSE full-closure schedule: fixed-date holidays
// with weekend observation shifts, floating Monday/Thursday holidays, and
// Good Friday.
func isMarketHoliday(d time.Time) bool {
	y := d.Year()

	// Fixed-date holidays, shifted when they land on a weekend
	// (Saturday observed Friday, Sunday observed Monday).
	fixed := []time.Time{
		observed(time.Date(y, time.January, 1, 0, 0, 0, 0, d.Location())),   // New Year's Day
		observed(time.Date(y, time.June, 19, 0, 0, 0, 0, d.Location())),     // Juneteenth
		observed(time.Date(y, time.July, 4, 0, 0, 0, 0, d.Location())),      // Independence Day
		observed(time.Date(y, time.December, 25, 0, 0, 0, 0, d.Location())), // Christmas
	}
	for _, h := range fixed {
		if d.Equal(h) {
			return true
		}
	}

	// Floating holidays.
	floating := []time.Time{
		nthWeekday(y, time.January, time.Monday, 3, d.Location()),   // MLK Day
		nthWeekday(y, time.February, time.Monday, 3, d.Location()),  // Washington's Birthday
		lastWeekday(y, time.May, time.Monday, d.Location()),         // Memorial Day
		nthWeekday(y, time.September, time.Monday, 1, d.Location()), // Labor Day
		nthWeekday(y, time.November, time.Thursday, 4, d.Location()), // Thanksgiving
	}
	for _, h := range floating {
		if d.Equal(h) {
			return true
		}
	}

	// Good Friday (2 days before Easter Sunday).
	goodFriday := truncateToDate(easterSunday(y, d.Location()).AddDate(0, 0, -2))
	return d.Equal(goodFriday)
}

// observed shifts a weekend holiday to its observed weekday.
func observed(h time.Time) time.Time {
	switch h.Weekday() {
	case time.Saturday:
		return h.AddDate(0, 0, -1)
	case time.Sunday:
		return h.AddDate(0, 0, 1)
	default:
		return h
	}
}

// nthWeekday returns the nth given weekday of a month (n starts at 1).
func nthWeekday(year int, month time.Month, wd time.Weekday, n int, loc *time.Location) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(wd) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the last given weekday of a month.
func lastWeekday(year int, month time.Month, wd time.Weekday, loc *time.Location) time.Time {
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	offset := (int(d.Weekday()) - int(wd) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}
