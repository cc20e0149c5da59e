// Package layout decides where free-floating content goes on a padded month
// grid: which empty cells host overflow events, and the largest empty
// rectangle left over for the title.
package layout

import (
	"fmt"

	"papercal/internal/calendar"
)

// Position addresses one grid cell.
type Position struct {
	Row int
	Col int
}

// Region is an inclusive rectangle of grid cells. Area is the number of
// cells it covers; a zero Area means no free cell was found and the
// coordinates are all zero.
type Region struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
	Area     int
}

// Empty reports whether the region holds no cells.
func (r Region) Empty() bool { return r.Area <= 0 }

// Contains reports whether (row, col) lies inside a non-empty region.
func (r Region) Contains(row, col int) bool {
	return !r.Empty() &&
		row >= r.StartRow && row <= r.EndRow &&
		col >= r.StartCol && col <= r.EndCol
}

func (r Region) Rows() int { return r.EndRow - r.StartRow + 1 }
func (r Region) Cols() int { return r.EndCol - r.StartCol + 1 }

func (r Region) String() string {
	if r.Empty() {
		return "none"
	}
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.StartRow, r.StartCol, r.EndRow, r.EndCol)
}

// FindFreeRegion returns the largest rectangle of cells that hold no day and
// are not reserved. Candidates are scanned by top-left corner in row-major
// order and then by growing height; the first rectangle with the greatest
// area wins ties.
func FindFreeRegion(weeks [][]*calendar.DaySlot, reserved []Position) Region {
	taken := make(map[Position]bool, len(reserved))
	for _, p := range reserved {
		taken[p] = true
	}
	free := func(r, c int) bool {
		return c < len(weeks[r]) && weeks[r][c] == nil && !taken[Position{r, c}]
	}

	var best Region
	for r := range weeks {
		for c := range weeks[r] {
			if !free(r, c) {
				continue
			}
			right := len(weeks[r]) - 1
			for r2 := r; r2 < len(weeks); r2++ {
				if !free(r2, c) {
					break
				}
				end := c
				for end+1 <= right && free(r2, end+1) {
					end++
				}
				right = end

				area := (r2 - r + 1) * (right - c + 1)
				if area > best.Area {
					best = Region{StartRow: r, StartCol: c, EndRow: r2, EndCol: right, Area: area}
				}
			}
		}
	}
	return best
}
