package backend

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/surface/internal/input/mouse"
)

// Default replay window size.
const (
	DefaultScriptWidth  = 80
	DefaultScriptHeight = 24
)

// Script is a recorded input sequence replayed one sample per frame.
//
//	width: 80
//	height: 24
//	steps:
//	  - {x: 5, y: 3, left: true, frames: 6}
//	  - {x: 20, y: 9, left: true}
//	  - {x: 20, y: 9}
type Script struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
	Steps  []Step `yaml:"steps"`
}

// Step is one mouse snapshot held for Frames frames (default 1).
type Step struct {
	X      uint32 `yaml:"x"`
	Y      uint32 `yaml:"y"`
	Left   bool   `yaml:"left"`
	Right  bool   `yaml:"right"`
	Frames uint32 `yaml:"frames"`
}

// LoadScript reads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script %s: %w", path, err)
	}
	defer f.Close()

	s, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes a YAML script and fills defaults.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	if s.Width == 0 {
		s.Width = DefaultScriptWidth
	}
	if s.Height == 0 {
		s.Height = DefaultScriptHeight
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("no steps")
	}
	return &s, nil
}

// Samples expands the steps into one sample per frame.
func (s *Script) Samples() []mouse.Sample {
	var out []mouse.Sample
	for _, st := range s.Steps {
		sample := mouse.NewSample(st.X, st.Y)
		sample.Left = st.Left
		sample.Right = st.Right

		n := max(st.Frames, 1)
		for range n {
			out = append(out, sample)
		}
	}
	return out
}

// NewScriptBackend returns a headless backend that replays the script and
// requests quit once every sample has been delivered.
func NewScriptBackend(s *Script) *NullBackend {
	b := NewNullBackend(s.Width, s.Height)
	b.Queue(s.Samples()...)
	b.QuitWhenDrained(true)
	return b
}
