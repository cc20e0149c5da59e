package recurrence

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"papercal/internal/model"
)

func recurring(name string, rule *model.Rule) model.Event {
	return model.Event{Name: name, Type: model.TypeRecurring, Recurrence: rule}
}

func days(occ []Occurrence) []int {
	out := make([]int, 0, len(occ))
	for _, o := range occ {
		out = append(out, o.Day)
	}
	return out
}

func TestExpandWeekly(t *testing.T) {
	// January 2025 starts on a Wednesday.
	got := Expand([]model.Event{recurring("CHURCH", model.Weekly(0))}, 2025, 1)
	if want := []int{5, 12, 19, 26}; !reflect.DeepEqual(days(got), want) {
		t.Fatalf("weekly Sunday Jan 2025 = %v, want %v", days(got), want)
	}
	for _, o := range got {
		if o.Name != "CHURCH" {
			t.Errorf("occurrence name = %q", o.Name)
		}
	}
}

func TestExpandWeeklyFiveMatches(t *testing.T) {
	// January 2025 has five Wednesdays, Thursdays and Fridays.
	got := Expand([]model.Event{recurring("CHOIR", model.Weekly(3))}, 2025, 1)
	if want := []int{1, 8, 15, 22, 29}; !reflect.DeepEqual(days(got), want) {
		t.Errorf("weekly Wednesday Jan 2025 = %v, want %v", days(got), want)
	}
}

func TestExpandNthWeekday(t *testing.T) {
	tests := []struct {
		name        string
		rule        *model.Rule
		year, month int
		want        []int
	}{
		{"second monday", model.NthWeekday(2, 1), 2025, 1, []int{13}},
		{"first wednesday is the 1st", model.NthWeekday(1, 3), 2025, 1, []int{1}},
		{"fifth friday exists", model.NthWeekday(5, 5), 2025, 1, []int{31}},
		{"fifth sunday missing in feb 2025", model.NthWeekday(5, 0), 2025, 2, nil},
		{"fifth sunday in leap feb 2032", model.NthWeekday(5, 0), 2032, 2, []int{29}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand([]model.Event{recurring("X", tt.rule)}, tt.year, tt.month)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", days(got), tt.want)
			}
			if len(tt.want) > 0 && !reflect.DeepEqual(days(got), tt.want) {
				t.Errorf("got %v, want %v", days(got), tt.want)
			}
		})
	}
}

// weekdayScan lists the days of the month falling on dow by checking each
// date in turn.
func weekdayScan(year, month, dow int) []int {
	var out []int
	for d := 1; d <= model.DaysIn(year, month); d++ {
		if int(time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC).Weekday()) == dow {
			out = append(out, d)
		}
	}
	return out
}

func TestExpandMatchesWeekdayScanAcrossYears(t *testing.T) {
	for _, year := range []int{-1, 0, 1, 2, 1600, 1899, 1900, 2000, 2024, 2025, 2100, 9999} {
		for month := 1; month <= 12; month++ {
			for dow := 0; dow < 7; dow++ {
				all := weekdayScan(year, month, dow)

				got := days(Expand([]model.Event{recurring("W", model.Weekly(dow))}, year, month))
				if !reflect.DeepEqual(got, all) {
					t.Errorf("%d-%02d weekly(%d) = %v, want %v", year, month, dow, got, all)
				}
				for n := 1; n <= 5; n++ {
					want := []int{}
					if n <= len(all) {
						want = all[n-1 : n]
					}
					got := days(Expand([]model.Event{recurring("N", model.NthWeekday(n, dow))}, year, month))
					if !reflect.DeepEqual(got, want) {
						t.Errorf("%d-%02d nth(%d,%d) = %v, want %v", year, month, n, dow, got, want)
					}
				}
			}
		}
	}
}

func TestExpandSkipsInvalidRulesBeforeYearOne(t *testing.T) {
	events := []model.Event{
		recurring("BAD DAY", &model.Rule{Kind: model.RuleWeekly, DayOfWeek: 7}),
		recurring("BAD N", &model.Rule{Kind: model.RuleNthWeekday, N: 6, DayOfWeek: 1}),
		recurring("OK", model.NthWeekday(1, 0)),
	}
	got := Expand(events, 0, 1)
	if len(got) != 1 || got[0].Name != "OK" {
		t.Errorf("Expand year 0 = %v", got)
	}
}

func TestExpandOrderIsPerEvent(t *testing.T) {
	events := []model.Event{
		recurring("LATE", model.NthWeekday(4, 6)),
		{Name: "Alice", Type: model.TypeBirthday, Month: 1, Day: 2},
		recurring("BROKEN", nil),
		recurring("EARLY", model.Weekly(6)),
		recurring("BAD DAY", &model.Rule{Kind: model.RuleWeekly, DayOfWeek: 9}),
	}
	got := Expand(events, 2025, 1)
	want := []Occurrence{
		{"LATE", 25},
		{"EARLY", 4}, {"EARLY", 11}, {"EARLY", 18}, {"EARLY", 25},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		raw  string
		want *model.Rule
	}{
		{"weekly:sunday", model.Weekly(0)},
		{"WEEKLY:Saturday", model.Weekly(6)},
		{"nth:2:monday", model.NthWeekday(2, 1)},
		{"nth:5:Friday", model.NthWeekday(5, 5)},
		{"nth:6:friday", nil},
		{"nth:0:friday", nil},
		{"nth:x:friday", nil},
		{"nth:2", nil},
		{"weekly", nil},
		{"weekly:funday", nil},
		{"daily:monday", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := ParseRule(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseRule(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	for _, rule := range []*model.Rule{model.Weekly(0), model.NthWeekday(3, 4)} {
		text := Serialize(*rule)
		if got := ParseRule(text); !reflect.DeepEqual(got, rule) {
			t.Errorf("ParseRule(Serialize(%v)) = %v via %q", rule, got, text)
		}
	}
	if got := Serialize(*model.NthWeekday(2, 1)); got != "nth:2:Monday" {
		t.Errorf("Serialize = %q", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		rule *model.Rule
		want string
	}{
		{model.Weekly(0), "Every Sunday"},
		{model.NthWeekday(1, 2), "1st Tuesday of month"},
		{model.NthWeekday(2, 1), "2nd Monday of month"},
		{model.NthWeekday(3, 3), "3rd Wednesday of month"},
		{model.NthWeekday(5, 5), "5th Friday of month"},
	}
	for _, tt := range tests {
		if got := Format(*tt.rule); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.rule, got, tt.want)
		}
	}
}

func TestToRRule(t *testing.T) {
	s, err := ToRRule(*model.NthWeekday(2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s, "FREQ=MONTHLY") || !strings.Contains(s, "MO") {
		t.Errorf("ToRRule = %q", s)
	}
	if _, err := ToRRule(model.Rule{Kind: "daily"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}
