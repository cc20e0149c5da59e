package holidays

import "time"

// MonthDay is a date without a year.
type MonthDay struct {
	Month int
	Day   int
}

// Table maps a year to the date a movable observance falls on. Years not in
// the table have no date; extending coverage means adding rows.
type Table map[int]MonthDay

// Lookup returns the date for year, or false when year is not covered.
func (t Table) Lookup(year int) (MonthDay, bool) {
	md, ok := t[year]
	return md, ok
}

// Span returns the first and last covered years, or 0, 0 for an empty table.
func (t Table) Span() (first, last int) {
	for y := range t {
		if first == 0 || y < first {
			first = y
		}
		if y > last {
			last = y
		}
	}
	return first, last
}

// EasterSunday holds Gregorian Easter dates.
var EasterSunday = Table{
	2020: {4, 12}, 2021: {4, 4}, 2022: {4, 17}, 2023: {4, 9},
	2024: {3, 31}, 2025: {4, 20}, 2026: {4, 5}, 2027: {3, 28},
	2028: {4, 16}, 2029: {4, 1}, 2030: {4, 21}, 2031: {4, 13},
	2032: {3, 28}, 2033: {4, 17}, 2034: {4, 9}, 2035: {3, 25},
	2036: {4, 13}, 2037: {4, 5}, 2038: {4, 25}, 2039: {4, 10},
	2040: {4, 1},
}

// Equinox and solstice dates as observed in US Eastern time.
var (
	SpringBegins = Table{
		2024: {3, 19}, 2025: {3, 20}, 2026: {3, 20}, 2027: {3, 20},
		2028: {3, 19}, 2029: {3, 20}, 2030: {3, 20},
	}
	SummerBegins = Table{
		2024: {6, 20}, 2025: {6, 20}, 2026: {6, 21}, 2027: {6, 21},
		2028: {6, 20}, 2029: {6, 20}, 2030: {6, 21},
	}
	AutumnBegins = Table{
		2024: {9, 22}, 2025: {9, 22}, 2026: {9, 22}, 2027: {9, 23},
		2028: {9, 22}, 2029: {9, 22}, 2030: {9, 22},
	}
	WinterBegins = Table{
		2024: {12, 21}, 2025: {12, 21}, 2026: {12, 21}, 2027: {12, 21},
		2028: {12, 21}, 2029: {12, 21}, 2030: {12, 21},
	}
)

// First full day of the Hebrew calendar observances.
var (
	PassoverBegins = Table{
		2024: {4, 23}, 2025: {4, 13}, 2026: {4, 2}, 2027: {4, 22},
		2028: {4, 11}, 2029: {3, 31}, 2030: {4, 18},
	}
	HanukkahBegins = Table{
		2024: {12, 26}, 2025: {12, 15}, 2026: {12, 5}, 2027: {12, 25},
		2028: {12, 13}, 2029: {12, 2}, 2030: {12, 21},
	}
)

// Defaults is the built-in US holiday set.
var Defaults = []Definition{
	Fixed("NEW YEARS DAY", 1, 1),
	Nth("MARTIN LUTHER KING DAY", 3, time.Monday, 1),
	Fixed("GROUND HOG DAY", 2, 2),
	Fixed("LINCOLN'S BIRTHDAY", 2, 12),
	Fixed("VALENTINE'S DAY", 2, 14),
	Nth("PRESIDENTS' DAY", 3, time.Monday, 2),
	Fixed("WASHINGTON'S BIRTHDAY", 2, 22),
	Lookup("ASH WEDNESDAY", EasterSunday).Plus(-46),
	Fixed("ST PATRICK'S DAY", 3, 17),
	Lookup("SPRING BEGINS", SpringBegins),
	Fixed("ALL FOOLS' DAY", 4, 1),
	Lookup("PALM SUNDAY", EasterSunday).Plus(-7),
	Lookup("PASSOVER BEGINS", PassoverBegins),
	Lookup("GOOD FRIDAY", EasterSunday).Plus(-2),
	Lookup("EASTER SUNDAY", EasterSunday),
	Fixed("EARTH DAY", 4, 22),
	// Wednesday of the last full Sunday-Saturday week of April.
	Last("PROFESSIONALS DAY", time.Saturday, 4).Plus(-3),
	Nth("NATIONAL DAY OF PRAYER", 1, time.Thursday, 5),
	Lookup("ASCENSION DAY", EasterSunday).Plus(39),
	Nth("MOTHER'S DAY", 2, time.Sunday, 5),
	Nth("ARMED FORCES DAY", 3, time.Saturday, 5),
	Last("MEMORIAL DAY", time.Monday, 5),
	Fixed("FLAG DAY", 6, 14),
	Nth("FATHER'S DAY", 3, time.Sunday, 6),
	Lookup("SUMMER BEGINS", SummerBegins),
	Fixed("INDEPENDENCE DAY", 7, 4),
	Nth("LABOR DAY", 1, time.Monday, 9),
	Nth("GRANDPARENTS DAY", 1, time.Monday, 9).Plus(6),
	Fixed("PATRIOT DAY", 9, 11),
	Lookup("AUTUMN BEGINS", AutumnBegins),
	Nth("COLUMBUS DAY", 2, time.Monday, 10),
	Fixed("NATIONAL BOSS DAY", 10, 16),
	Fixed("HALLOWEEN", 10, 31),
	Fixed("ALL SAINTS' DAY", 11, 1),
	Nth("ELECTION DAY", 1, time.Monday, 11).Plus(1),
	Fixed("VETERANS DAY", 11, 11),
	Nth("THANKSGIVING DAY", 4, time.Thursday, 11),
	Fixed("PEARL HARBOR DAY", 12, 7),
	Lookup("HANUKKAH BEGINS", HanukkahBegins),
	Lookup("WINTER BEGINS", WinterBegins),
	Fixed("CHRISTMAS DAY", 12, 25),
}
