package native

// BestVideoMode picks the monitor's highest-resolution mode, preferring the
// higher refresh rate between modes of equal area. Used for plain exclusive
// fullscreen.
func BestVideoMode(m *Monitor) (VideoMode, bool) {
	if m == nil || len(m.VideoModes) == 0 {
		return VideoMode{}, false
	}

	best := m.VideoModes[0]
	for _, vm := range m.VideoModes[1:] {
		if better(vm, best) {
			best = vm
		}
	}
	return best, true
}

func better(a, b VideoMode) bool {
	areaA := a.Width * a.Height
	areaB := b.Width * b.Height
	if areaA != areaB {
		return areaA > areaB
	}
	return a.RefreshMilliHz > b.RefreshMilliHz
}

// FittingVideoMode picks the mode closest to the requested size, breaking
// ties on refresh rate. Used for sized fullscreen.
func FittingVideoMode(m *Monitor, width, height int) (VideoMode, bool) {
	if m == nil || len(m.VideoModes) == 0 {
		return VideoMode{}, false
	}

	fit := m.VideoModes[0]
	fitDist := distance(fit, width, height)
	for _, vm := range m.VideoModes[1:] {
		d := distance(vm, width, height)
		if d < fitDist || (d == fitDist && vm.RefreshMilliHz > fit.RefreshMilliHz) {
			fit = vm
			fitDist = d
		}
	}
	return fit, true
}

func distance(vm VideoMode, width, height int) int {
	dw := vm.Width - width
	dh := vm.Height - height
	return dw*dw + dh*dh
}
