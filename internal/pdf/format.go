package pdf

import (
	"fmt"
	"strconv"
	"strings"

	"papercal/internal/model"
)

// FormatEvent renders a dated event as "<TYPE>: <NAME>".
func FormatEvent(ev model.Event) string {
	return fmt.Sprintf("%s: %s", ev.Type, strings.ToUpper(ev.Name))
}

// FormatOverflowEvent renders an event whose day is missing from the month
// as "<TYPE>: <NAME> <MON> <DAY>", e.g. "B: LEAP BABY FEB 29".
func FormatOverflowEvent(ev model.Event) string {
	return fmt.Sprintf("%s: %s %s %d", ev.Type, strings.ToUpper(ev.Name), model.MonthAbbrev(ev.Month), ev.Day)
}

// FormatMoonPhase renders a phase label, e.g. "FULL MOON".
func FormatMoonPhase(kind model.MoonPhaseKind) string {
	return strings.ToUpper(string(kind))
}

// FormatTitle returns "FEBRUARY 2026", or "CUSTOM — FEBRUARY 2026" when a
// custom heading is given.
func FormatTitle(custom string, year, month int) string {
	base := strings.ToUpper(model.MonthName(month)) + " " + strconv.Itoa(year)
	custom = strings.TrimSpace(custom)
	if custom == "" {
		return base
	}
	return strings.ToUpper(custom) + " — " + base
}

// Filename returns "<title>.pdf" with path separators replaced.
func Filename(title string) string {
	r := strings.NewReplacer("/", "-", `\`, "-")
	return r.Replace(title) + ".pdf"
}
