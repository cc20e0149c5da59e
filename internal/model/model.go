package model

import "fmt"

// EventType distinguishes the kinds of entries shown on the calendar.
type EventType string

const (
	// TypeBirthday and TypeAnniversary are dated once-a-year events.
	TypeBirthday    EventType = "B"
	TypeAnniversary EventType = "A"
	// TypeRecurring events carry a Rule instead of a month/day.
	TypeRecurring EventType = "R"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case TypeBirthday, TypeAnniversary, TypeRecurring:
		return true
	}
	return false
}

// Event is a caller-owned calendar entry. The grid builder only reads it.
type Event struct {
	ID     string
	Name   string
	Type   EventType
	Month  int // 1-12, ignored for recurring events
	Day    int // 1-31, ignored for recurring events
	Groups []string

	// Recurrence is set only for TypeRecurring. A recurring event without a
	// rule is malformed and expands to nothing.
	Recurrence *Rule
}

// Dated reports whether the event is pinned to a month/day.
func (e Event) Dated() bool {
	return e.Type == TypeBirthday || e.Type == TypeAnniversary
}

// RuleKind tags the variant held by a Rule.
type RuleKind string

const (
	RuleWeekly     RuleKind = "weekly"
	RuleNthWeekday RuleKind = "nth"
)

// Rule is a year/month independent recurrence pattern.
//
//   - Weekly(dow): every dow of the month.
//   - NthWeekday(n, dow): the nth (1..5) dow of the month, if it exists.
//
// DayOfWeek is 0=Sunday..6=Saturday.
type Rule struct {
	Kind      RuleKind
	N         int
	DayOfWeek int
}

func Weekly(dayOfWeek int) *Rule {
	return &Rule{Kind: RuleWeekly, DayOfWeek: dayOfWeek}
}

func NthWeekday(n, dayOfWeek int) *Rule {
	return &Rule{Kind: RuleNthWeekday, N: n, DayOfWeek: dayOfWeek}
}

func (r Rule) String() string {
	if r.Kind == RuleWeekly {
		return fmt.Sprintf("weekly(%d)", r.DayOfWeek)
	}
	return fmt.Sprintf("nth(%d,%d)", r.N, r.DayOfWeek)
}

// Holiday is a named day within a specific month.
type Holiday struct {
	Name  string
	Month int
	Day   int
}

// MoonPhaseKind is the printed label of a lunar phase.
type MoonPhaseKind string

const (
	NewMoon      MoonPhaseKind = "New Moon"
	FirstQuarter MoonPhaseKind = "First Qtr"
	FullMoon     MoonPhaseKind = "Full Moon"
	LastQuarter  MoonPhaseKind = "Last Qtr"
)

// MoonPhase marks the day a lunar phase falls on.
type MoonPhase struct {
	Kind  MoonPhaseKind
	Month int
	Day   int
}
