package pdf

import (
	"strconv"
	"strings"

	"papercal/internal/calendar"
	"papercal/internal/layout"
)

// Page geometry for landscape US Letter, in millimetres.
const (
	PageWidth       = 279.4
	PageHeight      = 215.9
	Margin          = 5.0
	HeaderRowHeight = 8.0
	CellPadding     = 1.5

	gridWidth  = PageWidth - 2*Margin
	gridHeight = PageHeight - 2*Margin
	colWidth   = gridWidth / calendar.Cols
)

// Font sizes in points.
const (
	HeaderFontSize       = 9
	DayNumberFontSize    = 14
	ContentFontSize      = 7
	DefaultTitleFontSize = 26
	DefaultMinFontSize   = 5
)

// moonGap separates the day number from the moon phase label.
const moonGap = 2.0

var dayNames = [calendar.Cols]string{"SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"}

// section is one block of text flowing down a day cell.
type section int

const (
	sectionRecurring section = iota
	sectionDated
)

// flowOrder is the top-down order of text in a day cell. Holidays are not
// part of the flow; they are anchored to the bottom of the cell.
var flowOrder = [...]section{sectionRecurring, sectionDated}

// page draws one month plan onto a canvas.
type page struct {
	c         canvas
	plan      layout.Plan
	opts      Options
	rowHeight float64
}

func newPage(c canvas, plan layout.Plan, opts Options) *page {
	return &page{
		c:         c,
		plan:      plan,
		opts:      opts,
		rowHeight: (gridHeight - HeaderRowHeight) / float64(len(plan.Weeks)),
	}
}

// compose draws the whole page and returns the font size used for the
// title, or 0 when no title was drawn.
func (p *page) compose() float64 {
	p.drawGrid()
	p.drawHeaderRow()
	for r, week := range p.plan.Weeks {
		for col, slot := range week {
			if slot == nil {
				continue
			}
			x, y := p.cellOrigin(r, col)
			p.drawDayCell(slot, x, y, colWidth, p.rowHeight)
		}
	}
	for _, cell := range p.plan.Overflow {
		x, y := p.cellOrigin(cell.Row, cell.Col)
		lines := make([]string, 0, len(cell.Events))
		for _, ev := range cell.Events {
			lines = append(lines, FormatOverflowEvent(ev))
		}
		p.c.SetFont("", ContentFontSize)
		p.flowText(lines, x, y+CellPadding, y+p.rowHeight-CellPadding, colWidth-2*CellPadding)
	}
	return p.drawTitle()
}

func (p *page) cellOrigin(row, col int) (float64, float64) {
	return Margin + float64(col)*colWidth, Margin + HeaderRowHeight + float64(row)*p.rowHeight
}

type segment struct {
	x1, y1, x2, y2 float64
}

// gridSegments returns the interior lines of the body grid, one segment per
// cell edge, leaving out edges that lie inside the title region.
func (p *page) gridSegments() []segment {
	title := p.plan.Title
	rows := len(p.plan.Weeks)
	top := Margin + HeaderRowHeight

	var segs []segment
	for r := 0; r+1 < rows; r++ {
		y := top + float64(r+1)*p.rowHeight
		for col := 0; col < calendar.Cols; col++ {
			if title.Contains(r, col) && title.Contains(r+1, col) {
				continue
			}
			x := Margin + float64(col)*colWidth
			segs = append(segs, segment{x, y, x + colWidth, y})
		}
	}
	for col := 0; col+1 < calendar.Cols; col++ {
		x := Margin + float64(col+1)*colWidth
		segs = append(segs, segment{x, Margin, x, top})
		for r := 0; r < rows; r++ {
			if title.Contains(r, col) && title.Contains(r, col+1) {
				continue
			}
			y := top + float64(r)*p.rowHeight
			segs = append(segs, segment{x, y, x, y + p.rowHeight})
		}
	}
	return segs
}

func (p *page) drawGrid() {
	p.c.Rect(Margin, Margin, gridWidth, gridHeight)
	headerBottom := Margin + HeaderRowHeight
	p.c.Line(Margin, headerBottom, Margin+gridWidth, headerBottom)
	for _, s := range p.gridSegments() {
		p.c.Line(s.x1, s.y1, s.x2, s.y2)
	}
}

func (p *page) drawHeaderRow() {
	p.c.SetFont("B", HeaderFontSize)
	y := Margin + HeaderRowHeight/2
	for col, name := range dayNames {
		w := p.c.StringWidth(name)
		x := Margin + float64(col)*colWidth + (colWidth-w)/2
		p.c.TextMiddle(x, y, name)
	}
}

func (p *page) drawDayCell(slot *calendar.DaySlot, x, y, w, h float64) {
	maxWidth := w - 2*CellPadding
	cursor := y + CellPadding

	p.c.SetFont("B", DayNumberFontSize)
	day := strconv.Itoa(slot.Day)
	p.c.TextTop(x+CellPadding, cursor, day)
	dayWidth := p.c.StringWidth(day)
	dayLine := lineHeight(p.c)

	if len(slot.MoonPhases) > 0 {
		p.c.SetFont("", ContentFontSize)
		p.c.TextTop(x+CellPadding+dayWidth+moonGap, cursor+1, FormatMoonPhase(slot.MoonPhases[0].Kind))
	}
	cursor += dayLine

	p.c.SetFont("", ContentFontSize)
	lh := lineHeight(p.c)

	bottom := y + h - CellPadding
	var holidayLines []string
	for _, hol := range slot.Holidays {
		holidayLines = append(holidayLines, p.c.SplitText(hol.Name, maxWidth)...)
	}
	// Holidays sit on the bottom edge but never rise above the day number.
	holidayTop := max(bottom-float64(len(holidayLines))*lh, cursor)

	var entries []string
	for _, s := range flowOrder {
		switch s {
		case sectionRecurring:
			for _, name := range slot.RecurringEvents {
				entries = append(entries, strings.ToUpper(name))
			}
		case sectionDated:
			for _, ev := range slot.Events {
				entries = append(entries, FormatEvent(ev))
			}
		}
	}
	p.flowText(entries, x, cursor, holidayTop, maxWidth)
	p.drawLines(holidayLines, x, holidayTop, bottom)
}

// flowText draws entries top-down from y, wrapping each to maxWidth, and
// stops at the first line that would extend below bottom.
func (p *page) flowText(entries []string, x, y, bottom, maxWidth float64) {
	var lines []string
	for _, entry := range entries {
		lines = append(lines, p.c.SplitText(entry, maxWidth)...)
	}
	p.drawLines(lines, x, y, bottom)
}

// drawLines draws lines top-down from y until one would extend below bottom.
// The tolerance absorbs rounding when holiday lines are stacked up from the
// bottom edge.
func (p *page) drawLines(lines []string, x, y, bottom float64) {
	const eps = 1e-9
	lh := lineHeight(p.c)
	for _, line := range lines {
		if y+lh > bottom+eps {
			return
		}
		p.c.TextTop(x+CellPadding, y, line)
		y += lh
	}
}

// drawTitle centres the title in the free region, shrinking the font until
// it fits the region width or the floor size is reached.
func (p *page) drawTitle() float64 {
	title := p.opts.Title
	if title == "" {
		return 0
	}

	region := p.plan.Title
	start := p.opts.TitleFontSize
	if region.Empty() {
		if p.opts.TitlePolicy != TitleFloor {
			return 0
		}
		region = layout.Region{Area: 1}
		start = p.opts.MinTitleFontSize
	}

	x, y := p.cellOrigin(region.StartRow, region.StartCol)
	w := float64(region.Cols()) * colWidth
	h := float64(region.Rows()) * p.rowHeight

	size := fitFontSize(func(size float64) float64 {
		p.c.SetFont("B", size)
		return p.c.StringWidth(title)
	}, w-2*CellPadding, start, p.opts.MinTitleFontSize)

	p.c.SetFont("B", size)
	tw := p.c.StringWidth(title)
	p.c.TextMiddle(x+(w-tw)/2, y+h/2, title)
	return size
}
