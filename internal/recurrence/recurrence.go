// Package recurrence turns abstract weekly / nth-weekday rules into concrete
// days of a given month.
package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"

	"papercal/internal/model"
)

// Occurrence is one expanded appearance of a recurring event.
type Occurrence struct {
	Name string
	Day  int
}

var weekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Expand returns the occurrences of every recurring event in events for
// (year, month). Results are grouped per event in input order, each group in
// ascending day order. Non-recurring events and recurring events without a
// usable rule are skipped.
func Expand(events []model.Event, year, month int) []Occurrence {
	daysInMonth := model.DaysIn(year, month)
	// Noon keeps 0001-01-01 from reading as an unset Dtstart.
	first := time.Date(year, time.Month(month), 1, 12, 0, 0, 0, time.UTC)
	last := time.Date(year, time.Month(month), daysInMonth, 12, 0, 0, 0, time.UTC)

	var out []Occurrence
	for _, ev := range events {
		if ev.Type != model.TypeRecurring || ev.Recurrence == nil {
			continue
		}
		for _, day := range ruleDays(*ev.Recurrence, year, month, first, last) {
			out = append(out, Occurrence{Name: ev.Name, Day: day})
		}
	}
	return out
}

func ruleDays(rule model.Rule, year, month int, first, last time.Time) []int {
	// rrule-go cannot iterate years before 1.
	if year < 1 {
		if !valid(rule) {
			return nil
		}
		return scan(rule, year, month)
	}
	r, err := compile(rule, first, last)
	if err != nil {
		return nil
	}
	var out []int
	for _, t := range r.Between(first, last, true) {
		out = append(out, t.Day())
	}
	return out
}

// scan walks the month directly: every matching weekday from the first one,
// or only the nth of them.
func scan(rule model.Rule, year, month int) []int {
	start := model.StartWeekday(year, month)
	n := model.DaysIn(year, month)
	var matches []int
	for d := 1 + (rule.DayOfWeek-start+7)%7; d <= n; d += 7 {
		matches = append(matches, d)
	}
	if rule.Kind == model.RuleNthWeekday {
		if rule.N > len(matches) {
			return nil
		}
		return matches[rule.N-1 : rule.N]
	}
	return matches
}

func valid(rule model.Rule) bool {
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return false
	}
	switch rule.Kind {
	case model.RuleWeekly:
		return true
	case model.RuleNthWeekday:
		return rule.N >= 1 && rule.N <= 5
	}
	return false
}

// ToRRule renders rule as an iCalendar RRULE value, e.g.
// "FREQ=MONTHLY;BYDAY=+2MO".
func ToRRule(rule model.Rule) (string, error) {
	r, err := compile(rule, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), time.Time{})
	if err != nil {
		return "", err
	}
	return r.OrigOptions.RRuleString(), nil
}

// compile builds a monthly rule bounded to [dtstart, until]. Weekly rules
// become "every <dow> of the month", which is the same set of days.
func compile(rule model.Rule, dtstart, until time.Time) (*rrule.RRule, error) {
	if !valid(rule) {
		return nil, errInvalidRule
	}
	wd := weekdays[rule.DayOfWeek]
	if rule.Kind == model.RuleNthWeekday {
		wd = wd.Nth(rule.N)
	}

	return rrule.NewRRule(rrule.ROption{
		Freq:      rrule.MONTHLY,
		Byweekday: []rrule.Weekday{wd},
		Dtstart:   dtstart,
		Until:     until,
	})
}
