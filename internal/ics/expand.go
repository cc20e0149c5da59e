package ics

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "papercal/internal/log"
	"papercal/internal/model"
)

// maxPerEntry caps how many instances one entry may produce in a month; an
// hourly rule would otherwise yield hundreds of identical days.
const maxPerEntry = 62

// Occurrence is an entry landing on a day of the requested month.
type Occurrence struct {
	UID     string
	Summary string
	Day     int
}

// Expand returns the days in month of year on which entries occur, in entry
// order and then by day. RRULE and EXDATE are honoured; an entry hits a
// given day at most once. Month windows are taken in each entry's own
// location so the written date is what counts.
func Expand(entries []Entry, year, month int) []Occurrence {
	var out []Occurrence
	for _, e := range entries {
		days := entryDays(e, year, month)
		for _, d := range days {
			out = append(out, Occurrence{UID: e.UID, Summary: e.Summary, Day: d})
		}
	}
	return out
}

func entryDays(e Entry, year, month int) []int {
	loc := e.Start.Location()
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if e.RawRRule == "" {
		if e.Start.Before(first) || e.Start.After(last) {
			return nil
		}
		return []int{e.Start.Day()}
	}

	r, err := rrule.StrToRRule(e.RawRRule)
	if err != nil {
		appLog.Warn("ics rrule rejected", "uid", e.UID, "rrule", e.RawRRule, "cause", err.Error())
		return nil
	}
	r.DTStart(e.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range e.ExDates {
		// EXDATE values are read as UTC wall-clock; move them onto the
		// entry's clock without changing the written time.
		set.ExDate(time.Date(ex.Year(), ex.Month(), ex.Day(), ex.Hour(), ex.Minute(), ex.Second(), 0, loc))
	}

	times := set.Between(first, last, true)
	if len(times) > maxPerEntry {
		appLog.Warn("ics occurrences capped", "uid", e.UID, "count", len(times), "cap", maxPerEntry)
		times = times[:maxPerEntry]
	}

	var days []int
	seen := make(map[int]bool)
	for _, t := range times {
		d := t.In(loc).Day()
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	return days
}

// Holidays turns every occurrence of entries in month into a Holiday, sorted
// by day with feed order kept on ties.
func Holidays(entries []Entry, year, month int) []model.Holiday {
	occs := Expand(entries, year, month)
	out := make([]model.Holiday, 0, len(occs))
	for _, o := range occs {
		if o.Summary == "" {
			continue
		}
		out = append(out, model.Holiday{Name: o.Summary, Month: month, Day: o.Day})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
