package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"papercal/internal/calendar"
	"papercal/internal/config"
	"papercal/internal/layout"
	appLog "papercal/internal/log"
	"papercal/internal/model"
	"papercal/internal/pdf"
	"papercal/internal/pipeline"
)

// inputsCacheTTL bounds how long loaded CSV and ICS sources are reused
// between requests.
const inputsCacheTTL = 30 * time.Second

// Server exposes the calendar over HTTP: a JSON view of the month grid and
// a freshly rendered PDF per request.
type Server struct {
	cfg      *config.Config
	renderer *pipeline.Renderer
	mux      *http.ServeMux

	// now is replaced in tests.
	now func() time.Time

	inputsMu    sync.RWMutex
	inputsCache *inputsCache
}

type inputsCache struct {
	in        *pipeline.Inputs
	updatedAt time.Time
}

// NewServer constructs a new Server.
func NewServer(r *pipeline.Renderer) *Server {
	s := &Server{
		cfg:      r.Config(),
		renderer: r,
		mux:      http.NewServeMux(),
		now:      time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="papercal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Start serves on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func Start(ctx context.Context, r *pipeline.Renderer) error {
	s := NewServer(r)
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/grid", s.handleGrid)
	s.mux.HandleFunc("/calendar.pdf", s.handlePDF)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// gridResponse is the JSON response shape for /api/grid.
type gridResponse struct {
	Year     int         `json:"year"`
	Month    int         `json:"month"`
	Title    string      `json:"title"`
	Weeks    [][]*dayDTO `json:"weeks"`
	Overflow []eventDTO  `json:"overflow"`
	Layout   layoutDTO   `json:"layout"`
	Warnings []string    `json:"warnings,omitempty"`
}

// dayDTO is null for padding cells.
type dayDTO struct {
	Day        int        `json:"day"`
	Events     []eventDTO `json:"events"`
	Holidays   []string   `json:"holidays"`
	MoonPhases []string   `json:"moon_phases"`
	Recurring  []string   `json:"recurring"`
}

type eventDTO struct {
	ID     string   `json:"id,omitempty"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Month  int      `json:"month"`
	Day    int      `json:"day"`
	Groups []string `json:"groups,omitempty"`
	Label  string   `json:"label"`
}

type positionDTO struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type overflowCellDTO struct {
	positionDTO
	Events []string `json:"events"`
}

type regionDTO struct {
	StartRow int `json:"start_row"`
	StartCol int `json:"start_col"`
	EndRow   int `json:"end_row"`
	EndCol   int `json:"end_col"`
	Area     int `json:"area"`
}

type layoutDTO struct {
	Rows          int               `json:"rows"`
	OverflowCells []overflowCellDTO `json:"overflow_cells"`
	Dropped       []string          `json:"dropped"`
	TitleRegion   *regionDTO        `json:"title_region"`
}

// handleGrid returns the month grid and its layout plan.
//
// GET /api/grid?year=2026&month=2&groups=family,work
//   - year, month: default to the current month
//   - groups:      comma-separated; absent means the configured groups
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, err := s.parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := s.inputs(r.Context())
	if err != nil {
		appLog.Error("api grid: load failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	g, err := s.renderer.Grid(in, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	policy, err := layout.ParseOverflowPolicy(s.cfg.Layout.OverflowPolicy)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	plan := layout.NewPlan(g, s.cfg.Layout.MinRows, policy)

	resp := gridResponse{
		Year:     g.Year,
		Month:    g.Month,
		Title:    s.renderer.Title(req),
		Weeks:    weeksDTO(g.Weeks),
		Overflow: eventsDTO(g.OverflowEvents),
		Layout:   planDTO(plan),
	}
	for _, re := range in.RowErrors {
		resp.Warnings = append(resp.Warnings, re.Error())
	}
	for _, fe := range in.FeedErrors {
		resp.Warnings = append(resp.Warnings, fe.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePDF renders a fresh document for every request and streams it.
//
// GET /calendar.pdf?year=2026&month=2&title=Smith%20Family&groups=family
func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, err := s.parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := s.inputs(r.Context())
	if err != nil {
		appLog.Error("calendar pdf: load failed", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	out, err := s.renderer.RenderInputs(in, req)
	if err != nil {
		appLog.Error("calendar pdf: render failed", err, "year", req.Year, "month", req.Month)
		writeError(w, http.StatusInternalServerError, "failed to render calendar")
		return
	}
	data, err := out.Document.Bytes()
	if err != nil {
		appLog.Error("calendar pdf: output failed", err)
		writeError(w, http.StatusInternalServerError, "failed to render calendar")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", `inline; filename="`+pdf.Filename(out.Document.Title)+`"`)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := out.Document.WriteTo(w); err != nil {
		appLog.Warn("calendar pdf: client write failed", "err", err.Error())
	}
}

func (s *Server) parseRequest(r *http.Request) (pipeline.Request, error) {
	q := r.URL.Query()
	now := s.now()
	req := pipeline.Request{
		Year:  now.Year(),
		Month: int(now.Month()),
		Title: strings.TrimSpace(q.Get("title")),
	}
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("year must be a number")
		}
		req.Year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("month must be a number")
		}
		req.Month = n
	}
	if q.Has("groups") {
		req.Groups = splitList(q.Get("groups"))
	}
	return req, req.Validate()
}

// inputs returns recently loaded sources, reloading them once the cache
// is older than inputsCacheTTL.
func (s *Server) inputs(ctx context.Context) (*pipeline.Inputs, error) {
	s.inputsMu.RLock()
	ic := s.inputsCache
	s.inputsMu.RUnlock()
	if ic != nil && s.now().Sub(ic.updatedAt) < inputsCacheTTL {
		return ic.in, nil
	}

	in, err := s.renderer.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.inputsMu.Lock()
	s.inputsCache = &inputsCache{in: in, updatedAt: s.now()}
	s.inputsMu.Unlock()
	return in, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func weeksDTO(weeks [][]*calendar.DaySlot) [][]*dayDTO {
	out := make([][]*dayDTO, len(weeks))
	for i, week := range weeks {
		row := make([]*dayDTO, len(week))
		for j, slot := range week {
			if slot == nil {
				continue
			}
			d := &dayDTO{
				Day:        slot.Day,
				Events:     eventsDTO(slot.Events),
				Holidays:   []string{},
				MoonPhases: []string{},
				Recurring:  append([]string{}, slot.RecurringEvents...),
			}
			for _, h := range slot.Holidays {
				d.Holidays = append(d.Holidays, h.Name)
			}
			for _, p := range slot.MoonPhases {
				d.MoonPhases = append(d.MoonPhases, string(p.Kind))
			}
			row[j] = d
		}
		out[i] = row
	}
	return out
}

func eventsDTO(events []model.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, eventDTO{
			ID:     ev.ID,
			Name:   ev.Name,
			Type:   string(ev.Type),
			Month:  ev.Month,
			Day:    ev.Day,
			Groups: ev.Groups,
			Label:  pdf.FormatEvent(ev),
		})
	}
	return out
}

func planDTO(p layout.Plan) layoutDTO {
	dto := layoutDTO{
		Rows:          len(p.Weeks),
		OverflowCells: make([]overflowCellDTO, 0, len(p.Overflow)),
		Dropped:       []string{},
	}
	for _, cell := range p.Overflow {
		c := overflowCellDTO{positionDTO: positionDTO{Row: cell.Row, Col: cell.Col}}
		for _, ev := range cell.Events {
			c.Events = append(c.Events, pdf.FormatOverflowEvent(ev))
		}
		dto.OverflowCells = append(dto.OverflowCells, c)
	}
	for _, ev := range p.Dropped {
		dto.Dropped = append(dto.Dropped, ev.Name)
	}
	if !p.Title.Empty() {
		dto.TitleRegion = &regionDTO{
			StartRow: p.Title.StartRow,
			StartCol: p.Title.StartCol,
			EndRow:   p.Title.EndRow,
			EndCol:   p.Title.EndCol,
			Area:     p.Title.Area,
		}
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
