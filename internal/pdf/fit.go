package pdf

// fitFontSize starts at start and steps down by one point until width(size)
// fits available or floor is reached. It never returns less than floor.
func fitFontSize(width func(size float64) float64, available, start, floor float64) float64 {
	size := start
	for size > floor && width(size) > available {
		size--
	}
	if size < floor {
		size = floor
	}
	return size
}
