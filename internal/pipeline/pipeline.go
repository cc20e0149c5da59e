// Package pipeline gathers every source configured for papercal and turns
// a requested month into a grid and a PDF.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"papercal/internal/calendar"
	"papercal/internal/config"
	"papercal/internal/eventcsv"
	"papercal/internal/holidays"
	"papercal/internal/ics"
	appLog "papercal/internal/log"
	"papercal/internal/model"
	"papercal/internal/moon"
	"papercal/internal/pdf"
	"papercal/internal/recurrence"
)

// Request selects the month to render. Empty Title and nil Groups fall back
// to the config.
type Request struct {
	Year   int
	Month  int
	Title  string
	Groups []string
}

// Validate checks the month and year ranges.
func (r Request) Validate() error {
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("pipeline: month %d out of range 1-12", r.Month)
	}
	if r.Year < 1 || r.Year > 9999 {
		return fmt.Errorf("pipeline: year %d out of range", r.Year)
	}
	return nil
}

// Inputs are the loaded sources, independent of the month.
type Inputs struct {
	Events       []model.Event
	HolidayFeeds []ics.Entry

	RowErrors  []eventcsv.RowError
	FeedErrors []error
}

// Output is one rendered month.
type Output struct {
	Grid     *calendar.Grid
	Document *pdf.Document
	Inputs   *Inputs
}

// Renderer is safe for concurrent use; each call builds its own grid and
// document.
type Renderer struct {
	cfg     *config.Config
	fetcher *ics.Fetcher

	// loadMu serialises source loading so feed cache files are not written
	// by two renders at once.
	loadMu sync.Mutex
}

func New(cfg *config.Config) *Renderer {
	return &Renderer{cfg: cfg, fetcher: ics.NewFetcher(cfg.CacheDir)}
}

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() *config.Config { return r.cfg }

// Load reads the CSV files and ICS feeds. Missing CSV files and failing
// feeds are logged and reported in Inputs; only unreadable CSV files abort.
func (r *Renderer) Load(ctx context.Context) (*Inputs, error) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	in := &Inputs{}
	for _, path := range r.cfg.Events {
		events, rowErrs, err := eventcsv.ParseFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				appLog.Warn("events file missing", "path", path)
				continue
			}
			return nil, err
		}
		for _, re := range rowErrs {
			appLog.Warn("events row skipped", "file", re.File, "line", re.Line, "cause", re.Err.Error())
		}
		in.Events = append(in.Events, events...)
		in.RowErrors = append(in.RowErrors, rowErrs...)
		appLog.Debug("events file loaded", "path", path, "events", len(events), "skipped", len(rowErrs))
	}

	sources := make([]ics.Source, 0, len(r.cfg.ICS))
	for _, c := range r.cfg.ICS {
		sources = append(sources, c.Source())
	}
	results, errs := r.fetcher.FetchAll(ctx, sources)
	in.FeedErrors = append(in.FeedErrors, errs...)
	for _, res := range results {
		entries, err := ics.Parse(res.Source, res.Body)
		if err != nil {
			appLog.Error("ics parse failed", err, "id", res.Source.ID)
			in.FeedErrors = append(in.FeedErrors, fmt.Errorf("ics: %s: %w", res.Source.ID, err))
			continue
		}
		switch res.Source.Kind {
		case ics.KindHolidays:
			in.HolidayFeeds = append(in.HolidayFeeds, entries...)
		default:
			in.Events = append(in.Events, ics.Events(entries)...)
		}
	}
	return in, nil
}

// Grid builds the month grid from loaded inputs: group filter, built-in
// and feed holidays, moon phases and recurrence expansion.
func (r *Renderer) Grid(in *Inputs, req Request) (*calendar.Grid, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	groups := req.Groups
	if groups == nil {
		groups = r.cfg.Groups
	}
	events := model.FilterByGroups(in.Events, groups)

	var hols []model.Holiday
	if r.cfg.HolidaysEnabled() {
		hols = holidays.ForMonth(holidays.Defaults, req.Year, req.Month, r.cfg.Holidays.Disabled)
	}
	hols = append(hols, ics.Holidays(in.HolidayFeeds, req.Year, req.Month)...)

	var phases []model.MoonPhase
	if r.cfg.MoonPhasesEnabled() {
		phases = moon.Phases(req.Year, req.Month)
	}

	recurring := recurrence.Expand(events, req.Year, req.Month)
	return calendar.Build(req.Year, req.Month, events, hols, phases, recurring), nil
}

// Title formats the heading for req.
func (r *Renderer) Title(req Request) string {
	custom := req.Title
	if custom == "" {
		custom = r.cfg.Title
	}
	return pdf.FormatTitle(custom, req.Year, req.Month)
}

// Render loads the sources and composes the PDF for req.
func (r *Renderer) Render(ctx context.Context, req Request) (*Output, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	in, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return r.RenderInputs(in, req)
}

// RenderInputs composes the PDF for req from already loaded inputs.
func (r *Renderer) RenderInputs(in *Inputs, req Request) (*Output, error) {
	g, err := r.Grid(in, req)
	if err != nil {
		return nil, err
	}
	title := r.Title(req)
	opts, err := r.cfg.PDFOptions(title)
	if err != nil {
		return nil, err
	}
	doc, err := pdf.Generate(g, opts)
	if err != nil {
		return nil, err
	}

	for _, ev := range doc.Plan.Dropped {
		appLog.Warn("overflow event not drawn", "name", ev.Name, "month", ev.Month, "day", ev.Day)
	}
	if doc.TitleFontSize == 0 && title != "" {
		appLog.Warn("title not drawn, no free cells", "title", title)
	}
	appLog.Info("month rendered",
		"year", req.Year,
		"month", req.Month,
		"events", len(in.Events),
		"overflow", len(g.OverflowEvents),
		"dropped", len(doc.Plan.Dropped),
		"title_size", doc.TitleFontSize,
	)
	return &Output{Grid: g, Document: doc, Inputs: in}, nil
}

// RenderToFile renders req and saves it under the configured output
// directory, returning the written path.
func (r *Renderer) RenderToFile(ctx context.Context, req Request) (string, error) {
	out, err := r.Render(ctx, req)
	if err != nil {
		return "", err
	}
	path := filepath.Join(r.cfg.OutputDir, pdf.Filename(out.Document.Title))
	if err := pdf.Save(out.Document, path); err != nil {
		return "", fmt.Errorf("pipeline: save %s: %w", path, err)
	}
	appLog.Info("pdf saved", "path", path)
	return path, nil
}
