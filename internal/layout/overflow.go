package layout

import (
	"fmt"

	"papercal/internal/calendar"
	"papercal/internal/model"
)

// OverflowPolicy decides what happens to overflow events that find no empty
// cell of their own.
type OverflowPolicy string

const (
	// OverflowDrop leaves the excess events undrawn.
	OverflowDrop OverflowPolicy = "drop"
	// OverflowStack appends the excess events to the last assigned cell,
	// where normal line truncation applies.
	OverflowStack OverflowPolicy = "stack"
)

// ParseOverflowPolicy accepts "drop" or "stack"; empty means drop.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch OverflowPolicy(s) {
	case "", OverflowDrop:
		return OverflowDrop, nil
	case OverflowStack:
		return OverflowStack, nil
	}
	return "", fmt.Errorf("layout: unknown overflow policy %q", s)
}

// PlaceOverflow picks up to count empty cells for overflow events, scanning
// rows from last to first and each row left to right. Fewer positions than
// count come back when the grid runs out of empty cells.
func PlaceOverflow(weeks [][]*calendar.DaySlot, count int) []Position {
	if count <= 0 {
		return nil
	}
	out := make([]Position, 0, count)
	for r := len(weeks) - 1; r >= 0; r-- {
		for c, slot := range weeks[r] {
			if slot != nil {
				continue
			}
			out = append(out, Position{Row: r, Col: c})
			if len(out) == count {
				return out
			}
		}
	}
	return out
}

// OverflowCell is an empty grid cell hosting one or more overflow events.
type OverflowCell struct {
	Position
	Events []model.Event
}

// AssignOverflow pairs overflow events with the cells PlaceOverflow finds,
// in order. It returns the populated cells and any events left undrawn.
func AssignOverflow(weeks [][]*calendar.DaySlot, events []model.Event, policy OverflowPolicy) ([]OverflowCell, []model.Event) {
	positions := PlaceOverflow(weeks, len(events))
	cells := make([]OverflowCell, len(positions))
	for i, pos := range positions {
		cells[i] = OverflowCell{Position: pos, Events: []model.Event{events[i]}}
	}

	rest := events[len(positions):]
	if len(rest) == 0 {
		return cells, nil
	}
	if policy == OverflowStack && len(cells) > 0 {
		last := &cells[len(cells)-1]
		last.Events = append(last.Events, rest...)
		return cells, nil
	}
	return cells, append([]model.Event(nil), rest...)
}
