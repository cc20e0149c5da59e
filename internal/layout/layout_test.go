package layout

import (
	"reflect"
	"testing"

	"papercal/internal/calendar"
	"papercal/internal/model"
)

// gridOf builds weeks from rows of '#' (day) and '.' (empty).
func gridOf(rows ...string) [][]*calendar.DaySlot {
	weeks := make([][]*calendar.DaySlot, len(rows))
	day := 1
	for r, row := range rows {
		weeks[r] = make([]*calendar.DaySlot, len(row))
		for c, ch := range row {
			if ch == '#' {
				weeks[r][c] = &calendar.DaySlot{Day: day}
				day++
			}
		}
	}
	return weeks
}

func TestFindFreeRegion(t *testing.T) {
	tests := []struct {
		name     string
		weeks    [][]*calendar.DaySlot
		reserved []Position
		want     Region
	}{
		{
			name:  "no empty cells",
			weeks: gridOf("#######", "#######"),
			want:  Region{},
		},
		{
			name:  "entirely empty",
			weeks: gridOf(".......", ".......", ".......", ".......", "......."),
			want:  Region{0, 0, 4, 6, 35},
		},
		{
			name:  "ties go to the first found",
			weeks: gridOf("......#", "#######", "#......"),
			want:  Region{0, 0, 0, 5, 6},
		},
		{
			name:  "taller beats wider once area is larger",
			weeks: gridOf("....###", "..#####", "..#####"),
			want:  Region{0, 0, 2, 1, 6},
		},
		{
			name:  "equal area keeps the wide first row",
			weeks: gridOf("....###", "..#####", "#######"),
			want:  Region{0, 0, 0, 3, 4},
		},
		{
			name:     "reserved cells are not free",
			weeks:    gridOf("#######", "......."),
			reserved: []Position{{1, 0}},
			want:     Region{1, 1, 1, 6, 6},
		},
		{
			name:     "everything reserved",
			weeks:    gridOf("##.####"),
			reserved: []Position{{0, 2}},
			want:     Region{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindFreeRegion(tt.weeks, tt.reserved)
			if got != tt.want {
				t.Errorf("FindFreeRegion = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFindFreeRegionRealMonths(t *testing.T) {
	jan := calendar.Build(2025, 1, nil, nil, nil, nil)
	if got, want := FindFreeRegion(jan.Weeks, nil), (Region{0, 0, 0, 2, 3}); got != want {
		t.Errorf("Jan 2025 = %+v, want %+v", got, want)
	}

	nov := calendar.Build(2025, 11, nil, nil, nil, nil)
	if got, want := FindFreeRegion(nov.Weeks, nil), (Region{0, 0, 0, 5, 6}); got != want {
		t.Errorf("Nov 2025 = %+v, want %+v", got, want)
	}

	feb := calendar.Build(2026, 2, nil, nil, nil, nil)
	if got := FindFreeRegion(feb.Weeks, nil); !got.Empty() {
		t.Errorf("unpadded Feb 2026 should have no room, got %+v", got)
	}
	padded := calendar.PadRows(feb.Weeks, calendar.DefaultMinRows)
	if got, want := FindFreeRegion(padded, nil), (Region{4, 0, 4, 6, 7}); got != want {
		t.Errorf("padded Feb 2026 = %+v, want %+v", got, want)
	}
}

func TestRegionHelpers(t *testing.T) {
	r := Region{1, 2, 3, 4, 9}
	if r.Rows() != 3 || r.Cols() != 3 {
		t.Errorf("Rows/Cols = %d/%d", r.Rows(), r.Cols())
	}
	if !r.Contains(2, 3) || r.Contains(0, 3) || r.Contains(2, 5) {
		t.Error("Contains is wrong")
	}
	if (Region{}).Contains(0, 0) {
		t.Error("empty region contains nothing")
	}
	if got := r.String(); got != "(1,2)-(3,4)" {
		t.Errorf("String = %q", got)
	}
}

func TestPlaceOverflow(t *testing.T) {
	weeks := gridOf("..#####", "#######", "###....")

	got := PlaceOverflow(weeks, 5)
	want := []Position{{2, 3}, {2, 4}, {2, 5}, {2, 6}, {0, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PlaceOverflow = %v, want %v", got, want)
	}

	if got := PlaceOverflow(weeks, 10); len(got) != 6 {
		t.Errorf("shortfall should return every empty cell, got %d", len(got))
	}
	if got := PlaceOverflow(weeks, 0); got != nil {
		t.Errorf("count 0 = %v", got)
	}
}

func TestAssignOverflow(t *testing.T) {
	weeks := gridOf("#####..")
	events := []model.Event{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	cells, dropped := AssignOverflow(weeks, events, OverflowDrop)
	if len(cells) != 2 || cells[0].Events[0].Name != "a" || cells[1].Events[0].Name != "b" {
		t.Fatalf("cells = %+v", cells)
	}
	if cells[0].Position != (Position{0, 5}) {
		t.Errorf("first cell at %v", cells[0].Position)
	}
	if len(dropped) != 1 || dropped[0].Name != "c" {
		t.Errorf("dropped = %v", dropped)
	}

	cells, dropped = AssignOverflow(weeks, events, OverflowStack)
	if len(dropped) != 0 {
		t.Errorf("stack policy dropped %v", dropped)
	}
	if got := len(cells[1].Events); got != 2 {
		t.Errorf("last cell holds %d events, want 2", got)
	}

	_, dropped = AssignOverflow(gridOf("#######"), events, OverflowStack)
	if len(dropped) != 3 {
		t.Errorf("no room should drop everything, dropped %d", len(dropped))
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	for in, want := range map[string]OverflowPolicy{"": OverflowDrop, "drop": OverflowDrop, "stack": OverflowStack} {
		got, err := ParseOverflowPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseOverflowPolicy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseOverflowPolicy("page"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestNewPlanReservesOverflowBeforeTitle(t *testing.T) {
	leap := model.Event{Name: "Leap Baby", Type: model.TypeBirthday, Month: 2, Day: 29}
	g := calendar.Build(2026, 2, []model.Event{leap}, nil, nil, nil)

	plan := NewPlan(g, calendar.DefaultMinRows, OverflowDrop)
	if len(plan.Weeks) != 5 {
		t.Fatalf("plan rows = %d", len(plan.Weeks))
	}
	if len(plan.Overflow) != 1 || plan.Overflow[0].Position != (Position{4, 0}) {
		t.Fatalf("overflow = %+v", plan.Overflow)
	}
	if want := (Region{4, 1, 4, 6, 6}); plan.Title != want {
		t.Errorf("title = %+v, want %+v", plan.Title, want)
	}
	if plan.Title.Contains(4, 0) {
		t.Error("title overlaps the overflow cell")
	}
	if len(g.Weeks) != 4 {
		t.Error("NewPlan mutated the grid")
	}
}
