// Package holiday implements the Swedish public-holiday calendar
// ("röda dagar") used to weight holiday shifts.
package holiday

import (
	"sort"
	"time"
)

// Holiday is one public holiday in a given year.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

const dateLayout = "2006-01-02"

// Calendar answers holiday lookups for Sweden. The zero value is ready
// to use and safe for concurrent lookups.
type Calendar struct{}

// IsHoliday reports whether the date is a Swedish public holiday.
func (Calendar) IsHoliday(date time.Time) bool {
	key := date.Format(dateLayout)
	for _, h := range ForYear(date.Year()) {
		if h.Date == key {
			return true
		}
	}
	return false
}

// ForYear returns the Swedish public holidays of a year in calendar
// order.
func ForYear(year int) []Holiday {
	easter := easterSunday(year)
	days := []Holiday{
		{day(year, time.January, 1), "Nyårsdagen"},
		{day(year, time.January, 6), "Trettondedag jul"},
		{offset(easter, -2), "Långfredagen"},
		{offset(easter, 0), "Påskdagen"},
		{offset(easter, 1), "Annandag påsk"},
		{day(year, time.May, 1), "Första maj"},
		{offset(easter, 39), "Kristi himmelsfärdsdag"},
		{offset(easter, 49), "Pingstdagen"},
		{day(year, time.June, 6), "Sveriges nationaldag"},
		{saturdayFrom(year, time.June, 20), "Midsommardagen"},
		{saturdayFrom(year, time.October, 31), "Alla helgons dag"},
		{day(year, time.December, 25), "Juldagen"},
		{day(year, time.December, 26), "Annandag jul"},
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func day(year int, month time.Month, d int) string {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

func offset(from time.Time, days int) string {
	return from.AddDate(0, 0, days).Format(dateLayout)
}

// saturdayFrom returns the first Saturday on or after the given date.
// Midsummer Day floats over June 20-26 and All Saints' Day over
// October 31 - November 6.
func saturdayFrom(year int, month time.Month, d int) string {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Saturday {
		t = t.AddDate(0, 0, 1)
	}
	return t.Format(dateLayout)
}

// easterSunday computes Western Easter with the anonymous Gregorian
// algorithm.
func easterSunday(year int) time.Time {
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
	dayOfMonth := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}