package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	appLog "papercal/internal/log"
	"papercal/internal/model"
	"papercal/internal/recurrence"
)

// Category names used to tag exported events and recognise imported ones.
const (
	CategoryBirthday    = "BIRTHDAY"
	CategoryAnniversary = "ANNIVERSARY"
	CategoryRecurring   = "RECURRING"
)

const productID = "-//papercal//calendar events//EN"

// Events converts entries from an events feed. Yearly entries and entries
// tagged BIRTHDAY or ANNIVERSARY become dated events; weekly and nth-weekday
// monthly rules become recurring events. Anything else cannot be printed on
// a yearless calendar and is skipped. Categories other than the type tags
// become groups; without any, the source ID is the group.
func Events(entries []Entry) []model.Event {
	var out []model.Event
	for _, e := range entries {
		ev, ok := toEvent(e)
		if !ok {
			appLog.Debug("ics entry not representable", "uid", e.UID, "rrule", e.RawRRule)
			continue
		}
		out = append(out, ev)
	}
	return out
}

func toEvent(e Entry) (model.Event, bool) {
	ev := model.Event{ID: e.UID, Name: e.Summary}
	if ev.Name == "" {
		return ev, false
	}
	for _, c := range e.Categories {
		if !reserved(c) {
			ev.Groups = append(ev.Groups, c)
		}
	}
	if len(ev.Groups) == 0 && e.Source.ID != "" {
		ev.Groups = []string{e.Source.ID}
	}

	var opt *rrule.ROption
	if e.RawRRule != "" {
		var err error
		if opt, err = rrule.StrToROption(e.RawRRule); err != nil {
			return ev, false
		}
	}

	tagged := e.hasCategory(CategoryBirthday) || e.hasCategory(CategoryAnniversary)
	if (opt == nil && tagged) || (opt != nil && opt.Freq == rrule.YEARLY) {
		ev.Type = model.TypeBirthday
		if e.hasCategory(CategoryAnniversary) {
			ev.Type = model.TypeAnniversary
		}
		ev.Month, ev.Day = int(e.Start.Month()), e.Start.Day()
		return ev, true
	}
	if opt == nil || opt.Interval > 1 || len(opt.Byweekday) != 1 {
		return ev, false
	}

	wd := opt.Byweekday[0]
	dow := (wd.Day() + 1) % 7 // rrule counts from Monday
	switch {
	case opt.Freq == rrule.WEEKLY && wd.N() == 0,
		opt.Freq == rrule.MONTHLY && wd.N() == 0:
		ev.Recurrence = model.Weekly(dow)
	case opt.Freq == rrule.MONTHLY && wd.N() >= 1 && wd.N() <= 5:
		ev.Recurrence = model.NthWeekday(wd.N(), dow)
	default:
		return ev, false
	}
	ev.Type = model.TypeRecurring
	return ev, true
}

func reserved(category string) bool {
	for _, r := range []string{CategoryBirthday, CategoryAnniversary, CategoryRecurring} {
		if strings.EqualFold(category, r) {
			return true
		}
	}
	return false
}

// Export writes events as a VCALENDAR anchored at year: dated events repeat
// yearly from their date in year (or the previous leap year for 29 February)
// and recurring events repeat monthly from 1 January.
func Export(w io.Writer, events []model.Event, year int) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	stamp := time.Now().UTC()

	for _, ev := range events {
		uid := ev.ID
		if uid == "" {
			uid = uuid.NewString() + "@papercal"
		}

		var start time.Time
		var rule, category string
		switch {
		case ev.Dated():
			y := year
			if ev.Month == 2 && ev.Day == 29 {
				for model.DaysIn(y, 2) != 29 {
					y--
				}
			}
			start = time.Date(y, time.Month(ev.Month), ev.Day, 0, 0, 0, 0, time.UTC)
			rule = "FREQ=YEARLY"
			category = CategoryBirthday
			if ev.Type == model.TypeAnniversary {
				category = CategoryAnniversary
			}
		case ev.Type == model.TypeRecurring && ev.Recurrence != nil:
			r, err := recurrence.ToRRule(*ev.Recurrence)
			if err != nil {
				return fmt.Errorf("ics: export %q: %w", ev.Name, err)
			}
			start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
			rule = r
			category = CategoryRecurring
		default:
			continue
		}

		vev := cal.AddEvent(uid)
		vev.SetDtStampTime(stamp)
		vev.SetSummary(ev.Name)
		vev.SetAllDayStartAt(start)
		vev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		vev.SetProperty(ical.ComponentPropertyRrule, rule)
		vev.SetProperty(ical.ComponentPropertyCategories, strings.Join(append([]string{category}, ev.Groups...), ","))
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}
