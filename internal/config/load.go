package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "SURFACE_"

// Format is a config file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf picks the decoder for path by extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load builds a Config from defaults, the file at path (if path is not
// empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a config file over the defaults without validating it.
func LoadFile(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes r over the defaults. Unknown keys are rejected. A file
// without any elements keeps the default element list.
func Parse(r io.Reader, format Format) (*Config, error) {
	cfg := Default()
	cfg.Elements = nil

	var err error
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err = dec.Decode(cfg); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Path: "<reader>", Message: err.Error(), Err: err}
	}

	if cfg.Elements == nil {
		cfg.Elements = DefaultElements()
	}
	return cfg, nil
}

// envSetting maps one environment variable onto a field.
type envSetting struct {
	name string
	set  func(c *Config, v string) error
}

func envSettings() []envSetting {
	return []envSetting{
		{"LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = v; return nil }},
		{"LOG_FILE", func(c *Config, v string) error { c.Log.File = v; return nil }},
		{"BACKGROUND", func(c *Config, v string) error { c.Background = v; return nil }},
		{"WINDOW_TITLE", func(c *Config, v string) error { c.Window.Title = v; return nil }},
		{"WINDOW_WIDTH", uintSetter(func(c *Config) *uint32 { return &c.Window.Width })},
		{"WINDOW_HEIGHT", uintSetter(func(c *Config) *uint32 { return &c.Window.Height })},
		{"INPUT_HOLD_FRAMES", uintSetter(func(c *Config) *uint32 { return &c.Input.HoldFrames })},
		{"FRAME_FPS", intSetter(func(c *Config) *int { return &c.Frame.FPS })},
		{"FRAME_MARGIN_MS", intSetter(func(c *Config) *int { return &c.Frame.MarginMS })},
	}
}

func uintSetter(field func(*Config) *uint32) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return err
		}
		*field(c) = uint32(n)
		return nil
	}
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

// ApplyEnv overrides settings from SURFACE_* variables found by lookup.
// Empty values are treated as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, s := range envSettings() {
		name := EnvPrefix + s.name
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := s.set(c, v); err != nil {
			return fmt.Errorf("environment %s: %w", name, err)
		}
	}
	return nil
}
