package layout

import (
	"papercal/internal/calendar"
	"papercal/internal/model"
)

// Plan is every placement decision for one printed month. Overflow cells are
// chosen first and reserved, so the title region never covers them.
type Plan struct {
	Weeks    [][]*calendar.DaySlot
	Overflow []OverflowCell
	Dropped  []model.Event
	Title    Region
}

// NewPlan pads g to minRows and runs overflow placement followed by the
// free-region search.
func NewPlan(g *calendar.Grid, minRows int, policy OverflowPolicy) Plan {
	weeks := calendar.PadRows(g.Weeks, minRows)
	cells, dropped := AssignOverflow(weeks, g.OverflowEvents, policy)

	reserved := make([]Position, len(cells))
	for i, cell := range cells {
		reserved[i] = cell.Position
	}

	return Plan{
		Weeks:    weeks,
		Overflow: cells,
		Dropped:  dropped,
		Title:    FindFreeRegion(weeks, reserved),
	}
}
