package pdf

import (
	"unicode"

	"github.com/go-pdf/fpdf"
)

// canvas is the drawing surface the compositor needs. Coordinates are in
// millimetres from the top-left of the page.
type canvas interface {
	SetFont(style string, size float64)
	// FontHeight is the current font size in millimetres.
	FontHeight() float64
	StringWidth(s string) float64
	// SplitText wraps s into lines no wider than w in the current font.
	SplitText(s string, w float64) []string
	// TextTop draws s with the top of its line at y.
	TextTop(x, y float64, s string)
	// TextMiddle draws s vertically centred on y.
	TextMiddle(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64)
}

const fontFamily = "Helvetica"

// fpdfCanvas draws onto a go-pdf document using the core Helvetica font.
// Strings go through the cp1252 translator before measuring or drawing.
type fpdfCanvas struct {
	f  *fpdf.Fpdf
	tr func(string) string
}

func newFpdfCanvas(f *fpdf.Fpdf) *fpdfCanvas {
	return &fpdfCanvas{f: f, tr: f.UnicodeTranslatorFromDescriptor("")}
}

func (c *fpdfCanvas) SetFont(style string, size float64) {
	c.f.SetFont(fontFamily, style, size)
}

func (c *fpdfCanvas) FontHeight() float64 {
	_, unit := c.f.GetFontSize()
	return unit
}

func (c *fpdfCanvas) StringWidth(s string) float64 {
	return c.f.GetStringWidth(c.tr(s))
}

// SplitText measures with the cp1252 width table, so fpdf is given the
// translated text one rune per byte. The translator maps every rune to one
// byte, which lets the lines be cut back out of s by rune offset.
func (c *fpdfCanvas) SplitText(s string, w float64) []string {
	src := []rune(s)
	enc := c.tr(s)
	if len(enc) != len(src) {
		return []string{s}
	}
	cp := make([]rune, len(enc))
	for i := 0; i < len(enc); i++ {
		cp[i] = rune(enc[i])
	}

	// SplitText keeps a cell margin on each side; the caller already padded.
	lines := c.f.SplitText(string(cp), w+2*c.f.GetCellMargin())
	out := make([]string, 0, len(lines))
	pos := 0
	for _, line := range lines {
		n := len([]rune(line))
		if pos+n > len(src) {
			break
		}
		out = append(out, string(src[pos:pos+n]))
		pos += n
		// A break on whitespace drops that rune.
		if pos < len(cp) && unicode.IsSpace(cp[pos]) {
			pos++
		}
	}
	return out
}

func (c *fpdfCanvas) TextTop(x, y float64, s string) {
	c.cell(x, y, s, "LT")
}

func (c *fpdfCanvas) TextMiddle(x, y float64, s string) {
	c.cell(x, y, s, "LM")
}

// cell draws s in a zero-height cell so fpdf anchors it to y. The cell is
// shifted left by the cell margin so the text starts at x.
func (c *fpdfCanvas) cell(x, y float64, s, align string) {
	m := c.f.GetCellMargin()
	t := c.tr(s)
	c.f.SetXY(x-m, y)
	c.f.CellFormat(c.f.GetStringWidth(t)+2*m, 0, t, "", 0, align, false, 0, "")
}

func (c *fpdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.f.Line(x1, y1, x2, y2)
}

func (c *fpdfCanvas) Rect(x, y, w, h float64) {
	c.f.Rect(x, y, w, h, "D")
}

// lineHeightRatio is the leading between wrapped lines.
const lineHeightRatio = 1.15

func lineHeight(c canvas) float64 {
	return c.FontHeight() * lineHeightRatio
}
