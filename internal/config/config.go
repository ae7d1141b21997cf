package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dshills/surface/internal/geo"
	"github.com/dshills/surface/internal/pacer"
	"github.com/dshills/surface/internal/renderer/core"
)

// Config is the complete surface configuration.
type Config struct {
	Window     WindowConfig    `toml:"window" yaml:"window"`
	Frame      FrameConfig     `toml:"frame" yaml:"frame"`
	Input      InputConfig     `toml:"input" yaml:"input"`
	Log        LogConfig       `toml:"log" yaml:"log"`
	Background string          `toml:"background" yaml:"background"`
	Elements   []ElementConfig `toml:"elements" yaml:"elements"`
}

// WindowConfig sizes the headless and replay windows. The terminal window
// always uses the terminal's own size.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  uint32 `toml:"width" yaml:"width"`
	Height uint32 `toml:"height" yaml:"height"`
}

// FrameConfig controls frame pacing.
type FrameConfig struct {
	FPS      int `toml:"fps" yaml:"fps"`
	MarginMS int `toml:"margin_ms" yaml:"margin_ms"`
}

// InputConfig controls mouse interpretation.
type InputConfig struct {
	// HoldFrames is how many consecutive pressed frames start a drag.
	HoldFrames uint32 `toml:"hold_frames" yaml:"hold_frames"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	// File receives log output. Empty discards logs while the terminal is
	// in use.
	File string `toml:"file" yaml:"file"`
}

// ElementConfig describes one draggable rectangle.
type ElementConfig struct {
	X         uint32 `toml:"x" yaml:"x"`
	Y         uint32 `toml:"y" yaml:"y"`
	Width     uint32 `toml:"width" yaml:"width"`
	Height    uint32 `toml:"height" yaml:"height"`
	Color     string `toml:"color" yaml:"color"`
	Highlight string `toml:"highlight" yaml:"highlight"`
}

// Default returns the built-in configuration: one blue rectangle in the
// top-left corner of an 80x24 window at 60 frames per second.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "surface",
			Width:  80,
			Height: 24,
		},
		Frame: FrameConfig{
			FPS:      60,
			MarginMS: 3,
		},
		Input: InputConfig{
			HoldFrames: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
		Background: "#000000",
		Elements:   DefaultElements(),
	}
}

// DefaultElements returns the element list used when none is configured.
func DefaultElements() []ElementConfig {
	return []ElementConfig{{
		X:         0,
		Y:         0,
		Width:     30,
		Height:    10,
		Color:     "#0000FF",
		Highlight: "#FFC800",
	}}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Elements = append([]ElementConfig(nil), c.Elements...)
	return &out
}

// FrameTarget returns the frame duration for the configured FPS.
func (c *Config) FrameTarget() (time.Duration, error) {
	return pacer.TargetForFPS(c.Frame.FPS)
}

// FrameMargin returns the pacer's coarse sleep margin.
func (c *Config) FrameMargin() time.Duration {
	return time.Duration(c.Frame.MarginMS) * time.Millisecond
}

// BackgroundColor parses the background color.
func (c *Config) BackgroundColor() (core.Color, error) {
	return core.ColorFromHex(c.Background)
}

// Rect returns the element's bounds.
func (e ElementConfig) Rect() geo.Rect {
	return geo.R(geo.Vec(e.X, e.Y), geo.Sz(e.Width, e.Height))
}

// Colors parses the fill and highlight colors.
func (e ElementConfig) Colors() (fill, highlight core.Color, err error) {
	if fill, err = core.ColorFromHex(e.Color); err != nil {
		return fill, highlight, fmt.Errorf("color: %w", err)
	}
	if highlight, err = core.ColorFromHex(e.Highlight); err != nil {
		return fill, highlight, fmt.Errorf("highlight: %w", err)
	}
	return fill, highlight, nil
}

// Validate checks every setting and returns all problems found.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.Window.Width == 0 || c.Window.Height == 0 {
		add("window", "size must be non-zero", geo.Sz(c.Window.Width, c.Window.Height))
	}

	target, err := c.FrameTarget()
	if err != nil {
		add("frame.fps", err.Error(), c.Frame.FPS)
	} else if m := c.FrameMargin(); m < 0 || m > target {
		add("frame.margin_ms", fmt.Sprintf("must be in [0, %d]", target.Milliseconds()), c.Frame.MarginMS)
	}

	if c.Input.HoldFrames == 0 {
		add("input.hold_frames", "must be at least 1", c.Input.HoldFrames)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		add("log.level", err.Error(), c.Log.Level)
	}

	if _, err := c.BackgroundColor(); err != nil {
		add("background", err.Error(), c.Background)
	}

	for i, e := range c.Elements {
		path := fmt.Sprintf("elements[%d]", i)
		if e.Width == 0 || e.Height == 0 {
			add(path, "size must be non-zero", geo.Sz(e.Width, e.Height))
		}
		if uint64(e.X)+uint64(e.Width) > math.MaxUint32 || uint64(e.Y)+uint64(e.Height) > math.MaxUint32 {
			add(path, "extends past the coordinate range", e.Rect())
		}
		if _, _, err := e.Colors(); err != nil {
			add(path, err.Error(), e)
		}
	}

	return errors.Join(errs...)
}
