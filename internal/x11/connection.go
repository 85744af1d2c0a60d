// Package x11 implements the native windowing backend over X11 using xgb and
// xgbutil. It provides window creation and manipulation via ICCCM and EWMH,
// monitor topology via RandR, and input-region control via the Shape
// extension.
package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	scaleFactor float64
}

// NewConnection establishes a connection to the X11 server and initializes
// the extensions the backend depends on.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	if err := shape.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("shape init failed: %w", err)
	}

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	c.scaleFactor = c.readScaleFactor()
	return c, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// ScaleFactor returns the display scale factor derived from the Xft.dpi
// resource at the conventional 96dpi baseline. Missing or unparsable
// resources mean scale 1.
func (c *Connection) ScaleFactor() float64 {
	return c.scaleFactor
}

func (c *Connection) readScaleFactor() float64 {
	reply, err := xprop.GetProperty(c.XUtil, c.Root, "RESOURCE_MANAGER")
	if err != nil || reply == nil {
		return 1
	}
	resources, err := xprop.PropValStr(reply, nil)
	if err != nil {
		return 1
	}
	if dpi, ok := parseXftDPI(resources); ok {
		return dpi / 96
	}
	return 1
}

// parseXftDPI extracts the Xft.dpi value from an X resource database dump.
func parseXftDPI(resources string) (float64, bool) {
	for _, line := range strings.Split(resources, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(key) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || dpi <= 0 {
			return 0, false
		}
		return dpi, true
	}
	return 0, false
}
