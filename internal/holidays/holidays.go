// Package holidays computes the named days printed at the bottom of a day
// cell.
package holidays

import (
	"sort"
	"strings"
	"time"

	"papercal/internal/model"
)

// Kind tags how a Definition finds its date in a given year.
type Kind string

const (
	KindFixed  Kind = "fixed"
	KindNth    Kind = "nth"
	KindLast   Kind = "last"
	KindLookup Kind = "lookup"
)

// Definition is a yearless holiday rule. Offset shifts the computed date by
// whole days and may cross into a neighbouring month.
type Definition struct {
	Name    string
	Kind    Kind
	Month   int
	Day     int
	N       int
	Weekday time.Weekday
	Table   Table
	Offset  int
}

func Fixed(name string, month, day int) Definition {
	return Definition{Name: name, Kind: KindFixed, Month: month, Day: day}
}

// Nth is the nth weekday of month, e.g. the 4th Thursday of November.
func Nth(name string, n int, weekday time.Weekday, month int) Definition {
	return Definition{Name: name, Kind: KindNth, Month: month, N: n, Weekday: weekday}
}

// Last is the final weekday of month, e.g. the last Monday of May.
func Last(name string, weekday time.Weekday, month int) Definition {
	return Definition{Name: name, Kind: KindLast, Month: month, Weekday: weekday}
}

// Lookup reads its date from a finite per-year table.
func Lookup(name string, table Table) Definition {
	return Definition{Name: name, Kind: KindLookup, Table: table}
}

// Plus returns a copy of d shifted by days.
func (d Definition) Plus(days int) Definition {
	d.Offset += days
	return d
}

// Date returns the date d falls on in year. ok is false when the rule has no
// date that year, such as a lookup table that does not cover it or a 5th
// weekday the month does not have.
func (d Definition) Date(year int) (month, day int, ok bool) {
	var t time.Time
	switch d.Kind {
	case KindFixed:
		if !model.IsValidDay(d.Month, d.Day) || d.Day > model.DaysIn(year, d.Month) {
			return 0, 0, false
		}
		t = date(year, d.Month, d.Day)
	case KindNth:
		dom, found := nthWeekday(year, d.Month, d.Weekday, d.N)
		if !found {
			return 0, 0, false
		}
		t = date(year, d.Month, dom)
	case KindLast:
		if d.Month < 1 || d.Month > 12 {
			return 0, 0, false
		}
		dom := model.DaysIn(year, d.Month)
		for date(year, d.Month, dom).Weekday() != d.Weekday {
			dom--
		}
		t = date(year, d.Month, dom)
	case KindLookup:
		md, found := d.Table.Lookup(year)
		if !found {
			return 0, 0, false
		}
		t = date(year, md.Month, md.Day)
	default:
		return 0, 0, false
	}
	if d.Offset != 0 {
		t = t.AddDate(0, 0, d.Offset)
		if t.Year() != year {
			return 0, 0, false
		}
	}
	return int(t.Month()), t.Day(), true
}

// ForMonth returns the holidays from defs that fall in month of year, sorted
// by day with ties kept in definition order. Names in disabled are skipped,
// compared case-insensitively.
func ForMonth(defs []Definition, year, month int, disabled []string) []model.Holiday {
	off := make(map[string]struct{}, len(disabled))
	for _, name := range disabled {
		off[strings.ToUpper(strings.TrimSpace(name))] = struct{}{}
	}

	var out []model.Holiday
	for _, d := range defs {
		if _, skip := off[strings.ToUpper(d.Name)]; skip {
			continue
		}
		m, day, ok := d.Date(year)
		if !ok || m != month {
			continue
		}
		out = append(out, model.Holiday{Name: d.Name, Month: m, Day: day})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Names lists the definition names in order.
func Names(defs []Definition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// nthWeekday returns the day of month of the nth weekday, or false when the
// month has fewer than n of them.
func nthWeekday(year, month int, weekday time.Weekday, n int) (int, bool) {
	if month < 1 || month > 12 || n < 1 {
		return 0, false
	}
	first := date(year, month, 1).Weekday()
	dom := 1 + (int(weekday)-int(first)+7)%7 + (n-1)*7
	if dom > model.DaysIn(year, month) {
		return 0, false
	}
	return dom, true
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
