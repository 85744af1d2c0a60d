// Package config loads the daemon configuration: synchronization settings,
// logging, and the windows opened at startup.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/winstate/internal/window"
)

// Config is the effective daemon configuration.
type Config struct {
	Daemon  DaemonConfig   `yaml:"daemon"`
	Logging LoggingConfig  `yaml:"logging"`
	Windows []WindowConfig `yaml:"windows"`
}

// DaemonConfig tunes the synchronization loop.
type DaemonConfig struct {
	// SyncIntervalMS is the cycle interval in milliseconds.
	SyncIntervalMS int `yaml:"sync_interval_ms"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, auto
}

// PositionConfig is the declarative form of a window position.
type PositionConfig struct {
	Kind    string `yaml:"kind"`    // auto, centered, at
	Monitor string `yaml:"monitor"` // current, primary, index
	Index   int    `yaml:"index"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
}

// WindowConfig describes one window record to open at startup. Unset fields
// keep the record defaults.
type WindowConfig struct {
	Title         string         `yaml:"title"`
	Mode          string         `yaml:"mode"` // windowed, borderless, fullscreen, sized_fullscreen
	Width         float64        `yaml:"width"`
	Height        float64        `yaml:"height"`
	Position      PositionConfig `yaml:"position"`
	Decorations   *bool          `yaml:"decorations"`
	Resizable     *bool          `yaml:"resizable"`
	Visible       *bool          `yaml:"visible"`
	Transparent   bool           `yaml:"transparent"`
	Level         string         `yaml:"level"` // normal, always_on_top, always_on_bottom
	Theme         string         `yaml:"theme"` // system, light, dark
	Class         string         `yaml:"class"`
	MinWidth      float64        `yaml:"min_width"`
	MinHeight     float64        `yaml:"min_height"`
	MaxWidth      float64        `yaml:"max_width"`
	MaxHeight     float64        `yaml:"max_height"`
	ScaleOverride float64        `yaml:"scale_override"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Daemon:  DaemonConfig{SyncIntervalMS: 50},
		Logging: LoggingConfig{Level: "info", Format: "auto"},
	}
}

// SyncInterval returns the cycle interval as a duration.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Daemon.SyncIntervalMS) * time.Millisecond
}

// SlogLevel maps the configured level string to a slog level.
func (c *LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Daemon.SyncIntervalMS < 0 {
		return fmt.Errorf("daemon.sync_interval_ms: must not be negative, got %d", c.Daemon.SyncIntervalMS)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q (want debug, info, warn, or error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q (want auto, text, or json)", c.Logging.Format)
	}
	for i := range c.Windows {
		if err := c.Windows[i].validate(); err != nil {
			return fmt.Errorf("windows[%d]: %w", i, err)
		}
	}
	return nil
}

func (w *WindowConfig) validate() error {
	switch w.Mode {
	case "", "windowed", "borderless", "fullscreen", "sized_fullscreen":
	default:
		return fmt.Errorf("mode: unknown mode %q", w.Mode)
	}
	if w.Width < 0 || w.Height < 0 {
		return fmt.Errorf("width/height: must not be negative")
	}
	if (w.Width == 0) != (w.Height == 0) {
		return fmt.Errorf("width/height: set both or neither")
	}
	switch w.Position.Kind {
	case "", "auto", "centered", "at":
	default:
		return fmt.Errorf("position.kind: unknown kind %q (want auto, centered, or at)", w.Position.Kind)
	}
	if w.Position.Kind == "centered" {
		switch w.Position.Monitor {
		case "", "current", "primary", "index":
		default:
			return fmt.Errorf("position.monitor: unknown selection %q (want current, primary, or index)", w.Position.Monitor)
		}
		if w.Position.Monitor == "index" && w.Position.Index < 0 {
			return fmt.Errorf("position.index: must not be negative, got %d", w.Position.Index)
		}
	}
	switch w.Level {
	case "", "normal", "always_on_top", "always_on_bottom":
	default:
		return fmt.Errorf("level: unknown level %q", w.Level)
	}
	switch w.Theme {
	case "", "system", "light", "dark":
	default:
		return fmt.Errorf("theme: unknown theme %q (want system, light, or dark)", w.Theme)
	}
	if w.MinWidth < 0 || w.MinHeight < 0 || w.MaxWidth < 0 || w.MaxHeight < 0 {
		return fmt.Errorf("size constraints: must not be negative")
	}
	if w.MaxWidth > 0 && w.MinWidth > w.MaxWidth {
		return fmt.Errorf("min_width %g exceeds max_width %g", w.MinWidth, w.MaxWidth)
	}
	if w.MaxHeight > 0 && w.MinHeight > w.MaxHeight {
		return fmt.Errorf("min_height %g exceeds max_height %g", w.MinHeight, w.MaxHeight)
	}
	if w.ScaleOverride < 0 {
		return fmt.Errorf("scale_override: must not be negative, got %g", w.ScaleOverride)
	}
	return nil
}

// Record builds a window record from the configuration, starting from the
// record defaults.
func (w *WindowConfig) Record() *window.Window {
	rec := window.New()
	if w.Title != "" {
		rec.Title = w.Title
	}
	switch w.Mode {
	case "borderless":
		rec.Mode = window.ModeBorderlessFullscreen
	case "fullscreen":
		rec.Mode = window.ModeFullscreen
	case "sized_fullscreen":
		rec.Mode = window.ModeSizedFullscreen
	}
	if w.ScaleOverride > 0 {
		rec.Resolution.SetScaleFactorOverride(w.ScaleOverride)
	}
	if w.Width > 0 {
		rec.Resolution.Set(w.Width, w.Height)
	}
	switch w.Position.Kind {
	case "at":
		rec.Position = window.AtPosition(w.Position.X, w.Position.Y)
	case "centered":
		sel := window.MonitorCurrent
		switch w.Position.Monitor {
		case "primary":
			sel = window.MonitorPrimary
		case "index":
			sel = window.MonitorIndex
		}
		rec.Position = window.CenteredPosition(sel)
		rec.Position.Index = w.Position.Index
	}
	if w.Decorations != nil {
		rec.Decorations = *w.Decorations
	}
	if w.Resizable != nil {
		rec.Resizable = *w.Resizable
	}
	if w.Visible != nil {
		rec.Visible = *w.Visible
	}
	rec.Transparent = w.Transparent
	switch w.Level {
	case "always_on_top":
		rec.Level = window.LevelAlwaysOnTop
	case "always_on_bottom":
		rec.Level = window.LevelAlwaysOnBottom
	}
	switch w.Theme {
	case "light":
		t := window.ThemeLight
		rec.Theme = &t
	case "dark":
		t := window.ThemeDark
		rec.Theme = &t
	}
	if w.Class != "" {
		rec.Class = w.Class
	}
	if w.MinWidth > 0 {
		rec.Constraints.MinWidth = w.MinWidth
	}
	if w.MinHeight > 0 {
		rec.Constraints.MinHeight = w.MinHeight
	}
	if w.MaxWidth > 0 {
		rec.Constraints.MaxWidth = w.MaxWidth
	}
	if w.MaxHeight > 0 {
		rec.Constraints.MaxHeight = w.MaxHeight
	}
	return rec
}
