package model

var maxDays = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// MaxDay returns the largest day a yearless date may have in month. February
// allows 29 because leap-day events are valid. Returns 0 for a bad month.
func MaxDay(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return maxDays[month-1]
}

// IsValidDay reports whether day fits month without knowing the year.
func IsValidDay(month, day int) bool {
	return day >= 1 && day <= MaxDay(month)
}

// FilterByGroups keeps events that belong to at least one selected group,
// plus events with no group at all. An empty selection means no filter is
// configured and keeps everything; it does not narrow the calendar to
// ungrouped events only. The input slice is not modified.
func FilterByGroups(events []Event, selected []string) []Event {
	if len(selected) == 0 {
		return append([]Event(nil), events...)
	}
	want := make(map[string]struct{}, len(selected))
	for _, g := range selected {
		want[g] = struct{}{}
	}

	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if len(ev.Groups) == 0 {
			out = append(out, ev)
			continue
		}
		for _, g := range ev.Groups {
			if _, ok := want[g]; ok {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// Groups returns the distinct group labels in first-seen order.
func Groups(events []Event) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ev := range events {
		for _, g := range ev.Groups {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}
