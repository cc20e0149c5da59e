// Package ics reads calendar feeds into events and holidays and writes the
// event list back out as a VCALENDAR.
package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "papercal/internal/log"
)

// Entry is one VEVENT reduced to what the calendar uses. Start keeps the
// wall-clock date the feed wrote; all-day dates are in UTC.
type Entry struct {
	Source Source

	UID        string
	Summary    string
	Categories []string

	Start  time.Time
	AllDay bool

	RawRRule string
	ExDates  []time.Time
}

// Parse decodes body and returns its VEVENTs. Events without a UID or a
// usable DTSTART are logged and skipped.
func Parse(src Source, body []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("ics: empty body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, ve := range cal.Events() {
		e, err := parseVEvent(src, ve)
		if err != nil {
			appLog.Warn("ics vevent skipped", "id", src.ID, "cause", err.Error())
			continue
		}
		entries = append(entries, e)
	}
	appLog.Debug("ics parsed", "id", src.ID, "entries", len(entries))
	return entries, nil
}

func parseVEvent(src Source, ve *ical.VEvent) (Entry, error) {
	e := Entry{Source: src}

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return e, errors.New("missing UID")
	}
	e.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Summary = unescape(p.Value)
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyCategories) {
		for _, c := range strings.Split(p.Value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				e.Categories = append(e.Categories, c)
			}
		}
	}

	dtstart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtstart == nil {
		return e, errors.New("missing DTSTART")
	}
	if isDateValue(dtstart) {
		t, err := parseICSTime(dtstart.Value)
		if err != nil {
			return e, err
		}
		e.Start, e.AllDay = t, true
	} else {
		t, err := ve.GetStartAt()
		if err != nil {
			return e, err
		}
		e.Start = t
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		e.RawRRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part); err == nil {
				e.ExDates = append(e.ExDates, t)
			}
		}
	}
	return e, nil
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// parseICSTime reads DATE and DATE-TIME values. Floating and dated values are
// read as UTC wall-clock so the written date never shifts.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.UTC)
	}
	return time.ParseInLocation("20060102", v, time.UTC)
}

var unescaper = strings.NewReplacer(`\,`, ",", `\;`, ";", `\n`, " ", `\N`, " ", `\\`, `\`)

func unescape(s string) string {
	return strings.TrimSpace(unescaper.Replace(s))
}

func (e Entry) hasCategory(name string) bool {
	for _, c := range e.Categories {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
