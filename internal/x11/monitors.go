package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winstate/internal/native"
)

// Monitors retrieves all active monitors and their mode lines using RandR.
func (c *Connection) Monitors() ([]native.Monitor, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	modesByID := make(map[uint32]randr.ModeInfo, len(resources.Modes))
	for _, mode := range resources.Modes {
		modesByID[mode.Id] = mode
	}

	var monitors []native.Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		var videoModes []native.VideoMode
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			name = string(outputInfo.Name)
			for _, modeID := range outputInfo.Modes {
				mode, ok := modesByID[uint32(modeID)]
				if !ok {
					continue
				}
				videoModes = append(videoModes, native.VideoMode{
					Width:          int(mode.Width),
					Height:         int(mode.Height),
					RefreshMilliHz: modeRefreshMilliHz(mode),
				})
			}
		}

		monitors = append(monitors, native.Monitor{
			ID:          i,
			Name:        name,
			X:           int(crtcInfo.X),
			Y:           int(crtcInfo.Y),
			Width:       int(crtcInfo.Width),
			Height:      int(crtcInfo.Height),
			ScaleFactor: c.scaleFactor,
			VideoModes:  videoModes,
		})
	}

	return monitors, nil
}

// PrimaryMonitor returns the monitor driven by the RandR primary output.
func (c *Connection) PrimaryMonitor() (*native.Monitor, bool) {
	primary, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply()
	if err != nil || primary.Output == 0 {
		return nil, false
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, false
	}
	outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), primary.Output, resources.ConfigTimestamp).Reply()
	if err != nil || outputInfo.Crtc == 0 {
		return nil, false
	}
	crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), outputInfo.Crtc, resources.ConfigTimestamp).Reply()
	if err != nil {
		return nil, false
	}

	monitors, err := c.Monitors()
	if err != nil {
		return nil, false
	}
	for i := range monitors {
		if monitors[i].X == int(crtcInfo.X) && monitors[i].Y == int(crtcInfo.Y) &&
			monitors[i].Width == int(crtcInfo.Width) && monitors[i].Height == int(crtcInfo.Height) {
			return &monitors[i], true
		}
	}
	return nil, false
}

// monitorAt returns the monitor containing the given root-space point.
func (c *Connection) monitorAt(x, y int) (*native.Monitor, bool) {
	monitors, err := c.Monitors()
	if err != nil {
		return nil, false
	}
	for i := range monitors {
		mon := &monitors[i]
		if x >= mon.X && x < mon.X+mon.Width && y >= mon.Y && y < mon.Y+mon.Height {
			return mon, true
		}
	}
	return nil, false
}

// setCrtcMode switches the CRTC behind a monitor to the mode line matching
// the requested video mode. Used for exclusive fullscreen.
func (c *Connection) setCrtcMode(mon *native.Monitor, vm native.VideoMode) error {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return fmt.Errorf("failed to get screen resources: %w", err)
	}

	modesByID := make(map[uint32]randr.ModeInfo, len(resources.Modes))
	for _, mode := range resources.Modes {
		modesByID[mode.Id] = mode
	}

	for _, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil || len(crtcInfo.Outputs) == 0 {
			continue
		}
		if int(crtcInfo.X) != mon.X || int(crtcInfo.Y) != mon.Y {
			continue
		}

		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		for _, modeID := range outputInfo.Modes {
			mode, ok := modesByID[uint32(modeID)]
			if !ok {
				continue
			}
			if int(mode.Width) != vm.Width || int(mode.Height) != vm.Height ||
				modeRefreshMilliHz(mode) != vm.RefreshMilliHz {
				continue
			}
			_, err := randr.SetCrtcConfig(
				c.XUtil.Conn(), crtc,
				xproto.TimeCurrentTime, resources.ConfigTimestamp,
				crtcInfo.X, crtcInfo.Y,
				modeID, crtcInfo.Rotation, crtcInfo.Outputs,
			).Reply()
			if err != nil {
				return fmt.Errorf("failed to set crtc mode: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("no mode line %dx%d@%dmHz on monitor %s", vm.Width, vm.Height, vm.RefreshMilliHz, mon.Name)
}

// modeRefreshMilliHz computes the refresh rate of a RandR mode line in
// millihertz from its dot clock and totals.
func modeRefreshMilliHz(mode randr.ModeInfo) int {
	htotal := int64(mode.Htotal)
	vtotal := int64(mode.Vtotal)
	if htotal == 0 || vtotal == 0 {
		return 0
	}
	return int(int64(mode.DotClock) * 1000 / (htotal * vtotal))
}
