// Package calendar builds the week-major day grid for a single month.
//
// Grid positions are *DaySlot; a nil position is an empty cell before day 1,
// after the last day, or in a padding row. Row 0, column 0 is the Sunday of
// the first week shown.
package calendar

import (
	"papercal/internal/model"
	"papercal/internal/recurrence"
)

// Cols is the number of weekday columns, Sunday first.
const Cols = 7

// DefaultMinRows is the body row count the page compositor pads up to.
const DefaultMinRows = 5

// DaySlot holds everything placed on one day of the month.
type DaySlot struct {
	Day             int
	Events          []model.Event
	Holidays        []model.Holiday
	MoonPhases      []model.MoonPhase
	RecurringEvents []string
}

// Grid is the result of Build for one (year, month).
type Grid struct {
	Year  int
	Month int
	Weeks [][]*DaySlot

	// OverflowEvents are dated events of this month whose day does not
	// exist in it (Feb 29 in a common year, day 31 in April, ...), in input
	// order.
	OverflowEvents []model.Event
}

// Build lays out (year, month) and places events, holidays, moon phases and
// expanded recurring entries into their day slots.
//
// Entries whose month differs from month are ignored. A dated event on a day
// the month lacks goes to OverflowEvents; holidays and moon phases on such a
// day are dropped. Input order is preserved within every slot list. Build
// panics when month is outside 1-12.
func Build(year, month int, events []model.Event, holidays []model.Holiday, moonPhases []model.MoonPhase, recurring []recurrence.Occurrence) *Grid {
	daysInMonth := model.DaysIn(year, month)
	weeks, index := layoutDays(year, month, daysInMonth)

	g := &Grid{Year: year, Month: month, Weeks: weeks}

	for _, ev := range events {
		if !ev.Dated() || ev.Month != month {
			continue
		}
		if ev.Day < 1 || ev.Day > daysInMonth {
			g.OverflowEvents = append(g.OverflowEvents, ev)
			continue
		}
		slot := index[ev.Day]
		slot.Events = append(slot.Events, ev)
	}

	for _, h := range holidays {
		if h.Month != month || h.Day < 1 || h.Day > daysInMonth {
			continue
		}
		slot := index[h.Day]
		slot.Holidays = append(slot.Holidays, h)
	}

	for _, p := range moonPhases {
		if p.Month != month || p.Day < 1 || p.Day > daysInMonth {
			continue
		}
		slot := index[p.Day]
		slot.MoonPhases = append(slot.MoonPhases, p)
	}

	for _, occ := range recurring {
		if occ.Day < 1 || occ.Day > daysInMonth {
			continue
		}
		slot := index[occ.Day]
		slot.RecurringEvents = append(slot.RecurringEvents, occ.Name)
	}

	return g
}

// BuildFromEvents expands the recurring events in events for the month and
// then calls Build with the result.
func BuildFromEvents(year, month int, events []model.Event, holidays []model.Holiday, moonPhases []model.MoonPhase) *Grid {
	return Build(year, month, events, holidays, moonPhases, recurrence.Expand(events, year, month))
}

// layoutDays allocates as many week rows as the month needs (4 to 6) and
// returns them with a day -> slot index.
func layoutDays(year, month, daysInMonth int) ([][]*DaySlot, []*DaySlot) {
	startDow := model.StartWeekday(year, month)
	index := make([]*DaySlot, daysInMonth+1)

	var weeks [][]*DaySlot
	col := startDow
	for day := 1; day <= daysInMonth; day++ {
		if day == 1 || col == Cols {
			weeks = append(weeks, make([]*DaySlot, Cols))
			if day != 1 {
				col = 0
			}
		}
		slot := &DaySlot{Day: day}
		weeks[len(weeks)-1][col] = slot
		index[day] = slot
		col++
	}
	return weeks, index
}

// Slot returns the slot for day, or nil if the grid has no such day.
func (g *Grid) Slot(day int) *DaySlot {
	for _, week := range g.Weeks {
		for _, slot := range week {
			if slot != nil && slot.Day == day {
				return slot
			}
		}
	}
	return nil
}

// PadRows returns a copy of weeks with empty rows appended until it has at
// least minRows rows. Longer grids are copied unchanged, never truncated.
// Slots are shared with the input; only the row slices are new.
func PadRows(weeks [][]*DaySlot, minRows int) [][]*DaySlot {
	n := len(weeks)
	if n < minRows {
		n = minRows
	}
	padded := make([][]*DaySlot, 0, n)
	for _, row := range weeks {
		padded = append(padded, append([]*DaySlot(nil), row...))
	}
	for len(padded) < minRows {
		padded = append(padded, make([]*DaySlot, Cols))
	}
	return padded
}
