// Package pdf composes a month grid onto a single landscape Letter page.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"papercal/internal/calendar"
	"papercal/internal/layout"
)

// TitlePolicy decides what to do when the grid has no free cell for the
// title.
type TitlePolicy string

const (
	// TitleSkip draws no title when the free region is empty.
	TitleSkip TitlePolicy = "skip"
	// TitleFloor draws the title at the floor size centred on cell (0,0).
	TitleFloor TitlePolicy = "floor"
)

// ParseTitlePolicy accepts "skip" or "floor"; empty means skip.
func ParseTitlePolicy(s string) (TitlePolicy, error) {
	switch TitlePolicy(s) {
	case "", TitleSkip:
		return TitleSkip, nil
	case TitleFloor:
		return TitleFloor, nil
	}
	return "", fmt.Errorf("pdf: unknown title policy %q", s)
}

// Options controls a single render.
type Options struct {
	// Title is the fully formatted heading, see FormatTitle.
	Title string

	MinRows          int
	TitleFontSize    float64
	MinTitleFontSize float64
	OverflowPolicy   layout.OverflowPolicy
	TitlePolicy      TitlePolicy
}

func (o Options) withDefaults() Options {
	if o.MinRows <= 0 {
		o.MinRows = calendar.DefaultMinRows
	}
	if o.TitleFontSize <= 0 {
		o.TitleFontSize = DefaultTitleFontSize
	}
	if o.MinTitleFontSize <= 0 {
		o.MinTitleFontSize = DefaultMinFontSize
	}
	if o.MinTitleFontSize > o.TitleFontSize {
		o.MinTitleFontSize = o.TitleFontSize
	}
	if o.OverflowPolicy == "" {
		o.OverflowPolicy = layout.OverflowDrop
	}
	if o.TitlePolicy == "" {
		o.TitlePolicy = TitleSkip
	}
	return o
}

// Document is a composed page ready to be written out.
type Document struct {
	Title string
	Plan  layout.Plan

	// TitleFontSize is the size the title was drawn at, 0 if it was not.
	TitleFontSize float64

	f    *fpdf.Fpdf
	data []byte
}

// Generate lays out grid and draws it onto a fresh document. The document
// must not be shared between goroutines.
func Generate(grid *calendar.Grid, opts Options) (*Document, error) {
	if grid == nil {
		return nil, errors.New("pdf: grid is nil")
	}
	opts = opts.withDefaults()
	plan := layout.NewPlan(grid, opts.MinRows, opts.OverflowPolicy)

	f := fpdf.New("L", "mm", "Letter", "")
	f.SetMargins(0, 0, 0)
	f.SetAutoPageBreak(false, 0)
	f.SetTitle(opts.Title, true)
	f.SetCreator("papercal", false)
	f.AddPage()
	f.SetDrawColor(0, 0, 0)
	f.SetLineWidth(0.3)

	size := newPage(newFpdfCanvas(f), plan, opts).compose()
	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("pdf: compose: %w", err)
	}

	return &Document{
		Title:         opts.Title,
		Plan:          plan,
		TitleFontSize: size,
		f:             f,
	}, nil
}

// Bytes returns the encoded PDF. The document is finalised on first call.
func (d *Document) Bytes() ([]byte, error) {
	if d.data != nil {
		return d.data, nil
	}
	var buf bytes.Buffer
	if err := d.f.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output: %w", err)
	}
	d.data = buf.Bytes()
	return d.data, nil
}

// WriteTo writes the encoded PDF to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Save writes doc to filename via a temp file in the same directory and a
// rename, so readers never see a half-written PDF.
func Save(doc *Document, filename string) error {
	if filename == "" {
		return errors.New("pdf: filename is empty")
	}
	data, err := doc.Bytes()
	if err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".papercal-*.pdf.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, filename)
}
