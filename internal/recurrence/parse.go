package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"papercal/internal/model"
)

var errInvalidRule = errors.New("recurrence: invalid rule")

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ParseRule reads the text form of a rule:
//
//	weekly:<day>      e.g. weekly:sunday
//	nth:<n>:<day>     e.g. nth:2:monday (n in 1..5)
//
// Matching is case-insensitive. Malformed input yields nil, never an error.
func ParseRule(raw string) *model.Rule {
	if raw == "" {
		return nil
	}
	parts := strings.Split(strings.ToLower(strings.TrimSpace(raw)), ":")

	switch parts[0] {
	case "weekly":
		if len(parts) != 2 {
			return nil
		}
		dow, ok := parseDay(parts[1])
		if !ok {
			return nil
		}
		return model.Weekly(dow)

	case "nth":
		if len(parts) != 3 {
			return nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 || n > 5 {
			return nil
		}
		dow, ok := parseDay(parts[2])
		if !ok {
			return nil
		}
		return model.NthWeekday(n, dow)
	}
	return nil
}

// Serialize is the inverse of ParseRule.
func Serialize(rule model.Rule) string {
	if rule.Kind == model.RuleWeekly {
		return "weekly:" + dayNames[rule.DayOfWeek]
	}
	return fmt.Sprintf("nth:%d:%s", rule.N, dayNames[rule.DayOfWeek])
}

// Format renders a rule for people: "Every Sunday", "2nd Monday of month".
func Format(rule model.Rule) string {
	if rule.Kind == model.RuleWeekly {
		return "Every " + dayNames[rule.DayOfWeek]
	}
	return ordinal(rule.N) + " " + dayNames[rule.DayOfWeek] + " of month"
}

func parseDay(s string) (int, bool) {
	for i, name := range dayNames {
		if strings.EqualFold(s, name) {
			return i, true
		}
	}
	return 0, false
}

func ordinal(n int) string {
	suffix := "th"
	switch n {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
