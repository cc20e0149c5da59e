package eventcsv

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"papercal/internal/model"
)

const sample = `Name,Type,Month,Day,Groups,Recurrence
Alice,B,2,29,"family, cousins",
Bob & Carol,a,6,12,family,
Choir,R,,,church,weekly:sunday
Book Club,R,,,,nth:2:monday
`

func TestParse(t *testing.T) {
	events, rowErrs, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrs)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events", len(events))
	}

	alice := events[0]
	if alice.Type != model.TypeBirthday || alice.Month != 2 || alice.Day != 29 {
		t.Errorf("alice = %+v", alice)
	}
	if !reflect.DeepEqual(alice.Groups, []string{"family", "cousins"}) {
		t.Errorf("groups = %q", alice.Groups)
	}
	if events[1].Type != model.TypeAnniversary {
		t.Errorf("lower-case type not accepted: %+v", events[1])
	}
	if r := events[2].Recurrence; r == nil || *r != *model.Weekly(0) {
		t.Errorf("choir rule = %v", r)
	}
	if r := events[3].Recurrence; r == nil || *r != *model.NthWeekday(2, 1) {
		t.Errorf("book club rule = %v", r)
	}

	ids := map[string]bool{}
	for _, ev := range events {
		if ev.ID == "" || ids[ev.ID] {
			t.Errorf("missing or duplicate id %q", ev.ID)
		}
		ids[ev.ID] = true
	}
}

func TestParseRowErrors(t *testing.T) {
	input := `type,name,day,month
B,,1,1
X,Bad Type,1,1
B,Bad Month,1,13
B,Bad Day,31,4
B,Not A Number,x,4
R,No Rule,,
R,Bad Rule,,
B,Good,30,4
`
	events, rowErrs, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Name != "Good" || events[0].Day != 30 {
		t.Errorf("events = %+v", events)
	}

	want := []struct {
		line int
		err  error
	}{
		{2, ErrEmptyName},
		{3, ErrBadType},
		{4, ErrBadMonth},
		{5, ErrBadDay},
		{6, ErrBadDay},
		{7, ErrMissingRule},
		{8, ErrMissingRule},
	}
	if len(rowErrs) != len(want) {
		t.Fatalf("row errors = %v", rowErrs)
	}
	for i, w := range want {
		if rowErrs[i].Line != w.line || !errors.Is(rowErrs[i], w.err) {
			t.Errorf("row error %d = %v, want line %d %v", i, rowErrs[i], w.line, w.err)
		}
	}
}

func TestParseHeaderProblems(t *testing.T) {
	if events, rowErrs, err := Parse(strings.NewReader("")); err != nil || events != nil || rowErrs != nil {
		t.Errorf("empty input = %v %v %v", events, rowErrs, err)
	}
	if _, _, err := Parse(strings.NewReader("Name,Type,Month\nA,B,1\n")); err == nil {
		t.Error("missing Day column should fail")
	}
	events, _, err := Parse(strings.NewReader("\ufeffName,Type,Month,Day\nA,B,1,1\n,,,\n"))
	if err != nil || len(events) != 1 {
		t.Errorf("BOM header / blank row: %v %v", events, err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	if err := os.WriteFile(path, []byte("Name,Type,Month,Day\nA,B,2,30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, rowErrs, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rowErrs) != 1 || !strings.HasPrefix(rowErrs[0].Error(), path+":2:") {
		t.Errorf("row errors = %v", rowErrs)
	}
	if _, _, err := ParseFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestWriteDeduplicatesAndRoundTrips(t *testing.T) {
	events := []model.Event{
		{Name: "Alice", Type: model.TypeBirthday, Month: 3, Day: 4, Groups: []string{"family", "work"}},
		{Name: "Alice", Type: model.TypeBirthday, Month: 3, Day: 4, Groups: []string{"other"}},
		{Name: "Alice", Type: model.TypeAnniversary, Month: 3, Day: 4},
		{Name: "Choir", Type: model.TypeRecurring, Recurrence: model.Weekly(0)},
		{Name: "Choir", Type: model.TypeRecurring, Recurrence: model.NthWeekday(1, 3)},
	}
	var buf bytes.Buffer
	if err := Write(&buf, events); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Name,Type,Month,Day,Groups,Recurrence" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[1] != `Alice,B,3,4,"family,work",` {
		t.Errorf("row = %q", lines[1])
	}
	if lines[3] != "Choir,R,,,,weekly:Sunday" {
		t.Errorf("recurring row = %q", lines[3])
	}

	back, rowErrs, err := Parse(&buf)
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("re-parse: %v %v", rowErrs, err)
	}
	if len(back) != 4 || !reflect.DeepEqual(back[0].Groups, []string{"family", "work"}) {
		t.Errorf("round trip = %+v", back)
	}
}
