// Package eventcsv reads and writes the event list as CSV with the header
// Name,Type,Month,Day,Groups,Recurrence.
package eventcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"papercal/internal/model"
	"papercal/internal/recurrence"
)

// Header is the column order written by Write.
var Header = []string{"Name", "Type", "Month", "Day", "Groups", "Recurrence"}

var required = []string{"name", "type", "month", "day"}

// RowError reports a row that was skipped.
type RowError struct {
	File string
	Line int
	Err  error
}

func (e RowError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

var (
	ErrEmptyName   = errors.New("name is empty")
	ErrBadType     = errors.New("type must be B, A or R")
	ErrBadMonth    = errors.New("month must be 1-12")
	ErrBadDay      = errors.New("day is not valid for month")
	ErrMissingRule = errors.New("recurring event needs a recurrence rule")
)

// Parse reads events from r. Column names are matched case-insensitively and
// may appear in any order; Groups and Recurrence are optional. Rows that fail
// validation are returned as RowErrors and left out of the events. A
// returned error means the input itself could not be read.
func Parse(r io.Reader) ([]model.Event, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("eventcsv: read header: %w", err)
	}

	columns := make(map[string]int)
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("eventcsv: column %q not found in header %v", name, header)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var events []model.Event
	var rowErrs []RowError
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rowErrs = append(rowErrs, RowError{Line: perr.Line, Err: perr.Err})
				continue
			}
			return nil, nil, fmt.Errorf("eventcsv: read: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}

		ev, err := parseRow(
			field(record, "name"),
			field(record, "type"),
			field(record, "month"),
			field(record, "day"),
			field(record, "groups"),
			field(record, "recurrence"),
		)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		events = append(events, ev)
	}
	return events, rowErrs, nil
}

// ParseFile is Parse on a file; RowErrors carry the path.
func ParseFile(path string) ([]model.Event, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("eventcsv: open: %w", err)
	}
	defer f.Close()

	events, rowErrs, err := Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range rowErrs {
		rowErrs[i].File = path
	}
	return events, rowErrs, nil
}

func parseRow(name, typ, month, day, groups, rule string) (model.Event, error) {
	ev := model.Event{
		ID:     uuid.NewString(),
		Name:   name,
		Type:   model.EventType(strings.ToUpper(typ)),
		Groups: splitGroups(groups),
	}
	if ev.Name == "" {
		return ev, ErrEmptyName
	}
	if !ev.Type.Valid() {
		return ev, fmt.Errorf("%w, got %q", ErrBadType, typ)
	}

	if ev.Type == model.TypeRecurring {
		ev.Recurrence = recurrence.ParseRule(rule)
		if ev.Recurrence == nil {
			return ev, fmt.Errorf("%w, got %q", ErrMissingRule, rule)
		}
		return ev, nil
	}

	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ev, fmt.Errorf("%w, got %q", ErrBadMonth, month)
	}
	d, err := strconv.Atoi(day)
	if err != nil || !model.IsValidDay(m, d) {
		return ev, fmt.Errorf("%w, got %q for month %d", ErrBadDay, day, m)
	}
	ev.Month, ev.Day = m, d
	return ev, nil
}

func splitGroups(raw string) []string {
	var out []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Write writes events with Header, skipping later duplicates of the same
// name, type and date (or rule, for recurring events).
func Write(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("eventcsv: write header: %w", err)
	}

	seen := make(map[string]struct{}, len(events))
	for _, ev := range events {
		rule := ""
		if ev.Recurrence != nil {
			rule = recurrence.Serialize(*ev.Recurrence)
		}
		key := strings.Join([]string{ev.Name, string(ev.Type), strconv.Itoa(ev.Month), strconv.Itoa(ev.Day), rule}, "\x00")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		month, day := "", ""
		if ev.Dated() {
			month, day = strconv.Itoa(ev.Month), strconv.Itoa(ev.Day)
		}
		row := []string{ev.Name, string(ev.Type), month, day, strings.Join(ev.Groups, ","), rule}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("eventcsv: write: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("eventcsv: flush: %w", err)
	}
	return nil
}
