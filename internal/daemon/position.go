package daemon

import (
	"log/slog"
	"math"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/window"
)

// resolvePosition turns a desired window position into an absolute physical
// position using the monitor topology. Automatic placement returns false:
// the window manager decides.
func resolvePosition(
	pos *window.Position,
	res *window.Resolution,
	available []native.Monitor,
	primary *native.Monitor,
	current *native.Monitor,
	logger *slog.Logger,
) (window.PhysicalPoint, bool) {
	switch pos.Kind {
	case window.PositionAutomatic:
		return window.PhysicalPoint{}, false

	case window.PositionAt:
		return pos.At, true

	case window.PositionCentered:
		var mon *native.Monitor
		switch pos.Monitor {
		case window.MonitorCurrent:
			mon = current
		case window.MonitorPrimary:
			mon = primary
		case window.MonitorIndex:
			if pos.Index >= 0 && pos.Index < len(available) {
				mon = &available[pos.Index]
			}
		}
		if mon == nil {
			logger.Warn("could not select monitor for centered position", "selection", pos.Monitor, "index", pos.Index)
			return window.PhysicalPoint{}, false
		}

		scale := res.ScaleFactor()
		w := int(math.Round(res.Width() * scale))
		h := int(math.Round(res.Height() * scale))
		return window.PhysicalPoint{
			X: mon.X + (mon.Width-w)/2,
			Y: mon.Y + (mon.Height-h)/2,
		}, true
	}

	return window.PhysicalPoint{}, false
}
