package moon

// args holds the fundamental arguments in degrees: the Sun's mean anomaly m,
// the Moon's mean anomaly mp, its argument of latitude f and the longitude
// of the ascending node o.
type args struct {
	m, mp, f, o float64
}

// term is coef * E^ePow * sin(mp*Mp + m*M + f*F + o*Ω).
type term struct {
	coef        float64
	ePow        int
	mp, m, f, o float64
}

func (a args) sum(terms []term, e float64) float64 {
	var total float64
	for _, t := range terms {
		v := t.coef * sin(t.mp*a.mp+t.m*a.m+t.f*a.f+t.o*a.o)
		for i := 0; i < t.ePow; i++ {
			v *= e
		}
		total += v
	}
	return total
}

var newMoonTerms = []term{
	{-0.40720, 0, 1, 0, 0, 0},
	{0.17241, 1, 0, 1, 0, 0},
	{0.01608, 0, 2, 0, 0, 0},
	{0.01039, 0, 0, 0, 2, 0},
	{0.00739, 1, 1, -1, 0, 0},
	{-0.00514, 1, 1, 1, 0, 0},
	{0.00208, 2, 0, 2, 0, 0},
	{-0.00111, 0, 1, 0, -2, 0},
	{-0.00057, 0, 1, 0, 2, 0},
	{0.00056, 1, 2, 1, 0, 0},
	{-0.00042, 0, 3, 0, 0, 0},
	{0.00042, 1, 0, 1, 2, 0},
	{0.00038, 1, 0, 1, -2, 0},
	{-0.00024, 1, 2, -1, 0, 0},
	{-0.00017, 0, 0, 0, 0, 1},
	{-0.00007, 0, 1, 2, 0, 0},
	{0.00004, 0, 2, 0, -2, 0},
	{0.00004, 0, 0, 3, 0, 0},
	{0.00003, 0, 1, 1, -2, 0},
	{0.00003, 0, 2, 0, 2, 0},
	{-0.00003, 0, 1, 1, 2, 0},
	{0.00003, 0, 1, -1, 2, 0},
	{-0.00002, 0, 1, -1, -2, 0},
	{-0.00002, 0, 3, 1, 0, 0},
	{0.00002, 0, 4, 0, 0, 0},
}

var fullMoonTerms = []term{
	{-0.40614, 0, 1, 0, 0, 0},
	{0.17302, 1, 0, 1, 0, 0},
	{0.01614, 0, 2, 0, 0, 0},
	{0.01043, 0, 0, 0, 2, 0},
	{0.00734, 1, 1, -1, 0, 0},
	{-0.00515, 1, 1, 1, 0, 0},
	{0.00209, 2, 0, 2, 0, 0},
	{-0.00111, 0, 1, 0, -2, 0},
	{-0.00057, 0, 1, 0, 2, 0},
	{0.00056, 1, 2, 1, 0, 0},
	{-0.00042, 0, 3, 0, 0, 0},
	{0.00042, 1, 0, 1, 2, 0},
	{0.00038, 1, 0, 1, -2, 0},
	{-0.00024, 1, 2, -1, 0, 0},
	{-0.00017, 0, 0, 0, 0, 1},
	{-0.00007, 0, 1, 2, 0, 0},
	{0.00004, 0, 2, 0, -2, 0},
	{0.00004, 0, 0, 3, 0, 0},
	{0.00003, 0, 1, 1, -2, 0},
	{0.00003, 0, 2, 0, 2, 0},
	{-0.00003, 0, 1, 1, 2, 0},
	{0.00003, 0, 1, -1, 2, 0},
	{-0.00002, 0, 1, -1, -2, 0},
	{-0.00002, 0, 3, 1, 0, 0},
	{0.00002, 0, 4, 0, 0, 0},
}

var quarterTerms = []term{
	{-0.62801, 0, 1, 0, 0, 0},
	{0.17172, 1, 0, 1, 0, 0},
	{-0.01183, 1, 1, 1, 0, 0},
	{0.00862, 0, 2, 0, 0, 0},
	{0.00804, 0, 0, 0, 2, 0},
	{0.00454, 1, 1, -1, 0, 0},
	{0.00204, 2, 0, 2, 0, 0},
	{-0.00180, 0, 1, 0, -2, 0},
	{-0.00070, 0, 1, 0, 2, 0},
	{-0.00040, 0, 3, 0, 0, 0},
	{-0.00034, 1, 2, -1, 0, 0},
	{0.00032, 1, 0, 1, 2, 0},
	{0.00032, 1, 0, 1, -2, 0},
	{-0.00028, 2, 1, 2, 0, 0},
	{0.00027, 1, 2, 1, 0, 0},
	{-0.00017, 0, 0, 0, 0, 1},
	{-0.00005, 0, 1, -1, -2, 0},
	{0.00004, 0, 2, 0, 2, 0},
	{-0.00004, 0, 1, 1, 2, 0},
	{0.00004, 0, 1, -2, 0, 0},
	{0.00003, 0, 1, 1, -2, 0},
	{0.00003, 0, 0, 3, 0, 0},
	{0.00002, 0, 2, 0, -2, 0},
	{0.00002, 0, 1, -1, 2, 0},
	{-0.00002, 0, 3, 1, 0, 0},
}

// planetary arguments A1..A14, shared by all phases.
var planetary = []struct {
	base, rate, coef float64
}{
	{299.77, 0.107408, 0.000325},
	{251.88, 0.016321, 0.000165},
	{251.83, 26.651886, 0.000164},
	{349.42, 36.412478, 0.000126},
	{84.66, 18.206239, 0.000110},
	{141.74, 53.303771, 0.000062},
	{207.14, 2.453732, 0.000060},
	{154.84, 7.306860, 0.000056},
	{34.52, 27.261239, 0.000047},
	{207.19, 0.121824, 0.000042},
	{291.34, 1.844379, 0.000040},
	{161.72, 24.198154, 0.000037},
	{239.56, 25.513099, 0.000035},
	{331.55, 3.592518, 0.000023},
}
