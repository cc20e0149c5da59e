package holidays

import (
	"reflect"
	"testing"
	"time"

	"papercal/internal/model"
)

func TestDefaultsMatchPrintedCalendars(t *testing.T) {
	byName := make(map[string]Definition, len(Defaults))
	for _, d := range Defaults {
		if _, dup := byName[d.Name]; dup {
			t.Fatalf("duplicate definition %q", d.Name)
		}
		byName[d.Name] = d
	}

	tests := []struct {
		name             string
		year, month, day int
	}{
		{"NEW YEARS DAY", 2024, 1, 1},
		{"MARTIN LUTHER KING DAY", 2024, 1, 15},
		{"GROUND HOG DAY", 2026, 2, 2},
		{"LINCOLN'S BIRTHDAY", 2026, 2, 12},
		{"PRESIDENTS' DAY", 2026, 2, 16},
		{"WASHINGTON'S BIRTHDAY", 2026, 2, 22},
		{"ASH WEDNESDAY", 2025, 3, 5},
		{"ST PATRICK'S DAY", 2025, 3, 17},
		{"SPRING BEGINS", 2025, 3, 20},
		{"ALL FOOLS' DAY", 2025, 4, 1},
		{"PALM SUNDAY", 2025, 4, 13},
		{"PASSOVER BEGINS", 2025, 4, 13},
		{"GOOD FRIDAY", 2025, 4, 18},
		{"EASTER SUNDAY", 2025, 4, 20},
		{"EARTH DAY", 2025, 4, 22},
		{"PROFESSIONALS DAY", 2025, 4, 23},
		{"NATIONAL DAY OF PRAYER", 2024, 5, 2},
		{"ASCENSION DAY", 2024, 5, 9},
		{"MOTHER'S DAY", 2024, 5, 12},
		{"ARMED FORCES DAY", 2024, 5, 18},
		{"MEMORIAL DAY", 2024, 5, 27},
		{"FLAG DAY", 2024, 6, 14},
		{"FATHER'S DAY", 2024, 6, 16},
		{"SUMMER BEGINS", 2024, 6, 20},
		{"INDEPENDENCE DAY", 2025, 7, 4},
		{"LABOR DAY", 2024, 9, 2},
		{"GRANDPARENTS DAY", 2024, 9, 8},
		{"PATRIOT DAY", 2024, 9, 11},
		{"AUTUMN BEGINS", 2024, 9, 22},
		{"COLUMBUS DAY", 2024, 10, 14},
		{"NATIONAL BOSS DAY", 2024, 10, 16},
		{"HALLOWEEN", 2024, 10, 31},
		{"ALL SAINTS' DAY", 2025, 11, 1},
		{"ELECTION DAY", 2025, 11, 4},
		{"VETERANS DAY", 2025, 11, 11},
		{"THANKSGIVING DAY", 2025, 11, 27},
		{"PEARL HARBOR DAY", 2025, 12, 7},
		{"HANUKKAH BEGINS", 2025, 12, 15},
		{"WINTER BEGINS", 2025, 12, 21},
		{"CHRISTMAS DAY", 2025, 12, 25},
	}
	for _, tt := range tests {
		d, ok := byName[tt.name]
		if !ok {
			t.Errorf("no definition for %q", tt.name)
			continue
		}
		m, day, ok := d.Date(tt.year)
		if !ok || m != tt.month || day != tt.day {
			t.Errorf("%s %d = %d/%d (ok=%v), want %d/%d", tt.name, tt.year, m, day, ok, tt.month, tt.day)
		}
	}
}

// computus is the anonymous Gregorian algorithm, used to check the table.
func computus(year int) (int, int) {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	return (h + l - 7*m + 114) / 31, (h+l-7*m+114)%31 + 1
}

func TestEasterTableAgreesWithComputus(t *testing.T) {
	first, last := EasterSunday.Span()
	if first == 0 || last < first {
		t.Fatalf("span = %d..%d", first, last)
	}
	for y := first; y <= last; y++ {
		md, ok := EasterSunday.Lookup(y)
		if !ok {
			t.Errorf("year %d missing from table", y)
			continue
		}
		m, d := computus(y)
		if md.Month != m || md.Day != d {
			t.Errorf("Easter %d = %d/%d, computus says %d/%d", y, md.Month, md.Day, m, d)
		}
		if got := time.Date(y, time.Month(md.Month), md.Day, 0, 0, 0, 0, time.UTC).Weekday(); got != time.Sunday {
			t.Errorf("Easter %d falls on %s", y, got)
		}
	}
}

func TestLookupOutsideTableHasNoDate(t *testing.T) {
	easter := Lookup("EASTER SUNDAY", EasterSunday)
	if _, _, ok := easter.Date(1999); ok {
		t.Error("1999 is not covered and must yield no date")
	}
	if _, _, ok := Lookup("X", nil).Date(2025); ok {
		t.Error("nil table must yield no date")
	}
	if got := ForMonth([]Definition{easter}, 2199, 4, nil); len(got) != 0 {
		t.Errorf("ForMonth outside coverage = %v", got)
	}
}

func TestDateEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		year int
		ok   bool
		m, d int
	}{
		{"leap day in leap year", Fixed("LEAP", 2, 29), 2024, true, 2, 29},
		{"leap day in common year", Fixed("LEAP", 2, 29), 2025, false, 0, 0},
		{"bad month", Fixed("BAD", 13, 1), 2025, false, 0, 0},
		{"fifth monday exists", Nth("M5", 5, time.Monday, 3), 2025, true, 3, 31},
		{"fifth monday missing", Nth("M5", 5, time.Monday, 2), 2025, false, 0, 0},
		{"last friday", Last("LF", time.Friday, 1), 2025, true, 1, 31},
		{"offset crosses month", Fixed("X", 1, 31).Plus(1), 2025, true, 2, 1},
		{"offset crosses year", Fixed("X", 12, 31).Plus(1), 2025, false, 0, 0},
		{"unknown kind", Definition{Name: "?"}, 2025, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, d, ok := tt.def.Date(tt.year)
			if ok != tt.ok || m != tt.m || d != tt.d {
				t.Errorf("Date = %d/%d %v, want %d/%d %v", m, d, ok, tt.m, tt.d, tt.ok)
			}
		})
	}
}

func TestForMonth(t *testing.T) {
	got := ForMonth(Defaults, 2026, 2, nil)
	want := []model.Holiday{
		{Name: "GROUND HOG DAY", Month: 2, Day: 2},
		{Name: "LINCOLN'S BIRTHDAY", Month: 2, Day: 12},
		{Name: "VALENTINE'S DAY", Month: 2, Day: 14},
		{Name: "PRESIDENTS' DAY", Month: 2, Day: 16},
		{Name: "ASH WEDNESDAY", Month: 2, Day: 18},
		{Name: "WASHINGTON'S BIRTHDAY", Month: 2, Day: 22},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ForMonth(Feb 2026) = %+v", got)
	}

	got = ForMonth(Defaults, 2026, 2, []string{"valentine's day", " Ash Wednesday "})
	if len(got) != 4 {
		t.Errorf("disabled holidays still present: %+v", got)
	}
}

func TestForMonthKeepsDefinitionOrderOnTies(t *testing.T) {
	got := ForMonth(Defaults, 2025, 4, nil)
	var sameDay []string
	for _, h := range got {
		if h.Day == 13 {
			sameDay = append(sameDay, h.Name)
		}
	}
	if want := []string{"PALM SUNDAY", "PASSOVER BEGINS"}; !reflect.DeepEqual(sameDay, want) {
		t.Errorf("April 13 2025 = %v, want %v", sameDay, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Day < got[i-1].Day {
			t.Fatalf("not sorted: %+v", got)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names(Defaults)
	if len(names) != len(Defaults) || names[0] != "NEW YEARS DAY" {
		t.Errorf("Names = %v", names[:3])
	}
}
