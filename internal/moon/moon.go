// Package moon finds the days of the principal lunar phases in a month.
//
// Phase instants come from the mean lunation with the periodic corrections
// of Meeus, Astronomical Algorithms ch. 49, and are converted to UTC calendar
// days. Accuracy is a few minutes, so a phase within minutes of midnight UTC
// may land on the neighbouring day.
package moon

import (
	"math"
	"sort"
	"time"

	"papercal/internal/model"
)

const (
	synodicMonth = 29.530588861
	jdUnixEpoch  = 2440587.5
	// deltaT approximates TT-UT for the current era.
	deltaT = 69.0 / 86400
)

var kinds = [4]model.MoonPhaseKind{model.NewMoon, model.FirstQuarter, model.FullMoon, model.LastQuarter}

// Phases returns the lunar phases falling in month of year, sorted by day.
// A kind appears at most once per day.
func Phases(year, month int) []model.MoonPhase {
	days := model.DaysIn(year, month)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	// Lunation index a little before the month so the first days are covered.
	k0 := math.Floor((decimalYear(start)-2000)*12.3685) - 1

	type key struct {
		kind model.MoonPhaseKind
		day  int
	}
	seen := make(map[key]struct{})
	var out []model.MoonPhase
	for i := 0; i < 16; i++ {
		quarter := i % 4
		k := k0 + float64(i/4) + float64(quarter)/4
		t := Instant(k)
		if t.Year() != year || int(t.Month()) != month || t.Day() > days {
			continue
		}
		kk := key{kinds[quarter], t.Day()}
		if _, dup := seen[kk]; dup {
			continue
		}
		seen[kk] = struct{}{}
		out = append(out, model.MoonPhase{Kind: kinds[quarter], Month: month, Day: t.Day()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Instant returns the UTC time of the phase with lunation index k. Integer k
// is a new moon; .25, .5 and .75 are first quarter, full moon and last
// quarter. k=0 is the new moon of 6 January 2000.
func Instant(k float64) time.Time {
	return fromJulian(julianEphemeris(k) - deltaT)
}

func julianEphemeris(k float64) float64 {
	T := k / 1236.85
	T2, T3, T4 := T*T, T*T*T, T*T*T*T

	jde := 2451550.09766 + synodicMonth*k + 0.00015437*T2 - 0.000000150*T3 + 0.00000000073*T4

	e := 1 - 0.002516*T - 0.0000074*T2
	a := args{
		m:  2.5534 + 29.10535670*k - 0.0000014*T2 - 0.00000011*T3,
		mp: 201.5643 + 385.81693528*k + 0.0107582*T2 + 0.00001238*T3 - 0.000000058*T4,
		f:  160.7108 + 390.67050284*k - 0.0016118*T2 - 0.00000227*T3 + 0.000000011*T4,
		o:  124.7746 - 1.56375588*k + 0.0020672*T2 + 0.00000215*T3,
	}

	quarter := int(math.Round((k-math.Floor(k))*4)) % 4
	switch quarter {
	case 0:
		jde += a.sum(newMoonTerms, e)
	case 2:
		jde += a.sum(fullMoonTerms, e)
	default:
		jde += a.sum(quarterTerms, e)
		w := 0.00306 - 0.00038*e*cos(a.m) + 0.00026*cos(a.mp) -
			0.00002*cos(a.mp-a.m) + 0.00002*cos(a.mp+a.m) + 0.00002*cos(2*a.f)
		if quarter == 1 {
			jde += w
		} else {
			jde -= w
		}
	}

	for i, p := range planetary {
		angle := p.base + p.rate*k
		if i == 0 {
			angle -= 0.009173 * T2
		}
		jde += p.coef * sin(angle)
	}
	return jde
}

func decimalYear(t time.Time) float64 {
	return float64(t.Year()) + float64(t.YearDay()-1)/365.25
}

func fromJulian(jd float64) time.Time {
	secs := (jd - jdUnixEpoch) * 86400
	return time.Unix(0, 0).UTC().Add(time.Duration(secs * float64(time.Second)))
}

func sin(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }
func cos(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }
