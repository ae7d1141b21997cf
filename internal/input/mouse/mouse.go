package mouse

import (
	"fmt"

	"github.com/dshills/surface/internal/geo"
)

// Frame counts loop iterations. It increases by exactly one per frame and is
// never reset while the process runs.
type Frame uint64

// Button identifies a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Sample is the raw mouse snapshot of one frame.
type Sample struct {
	// Position is the pointer in window-client coordinates.
	Position geo.Vector2

	// Left is true while the left button is down.
	Left bool

	// Right is true while the right button is down.
	Right bool
}

// NewSample creates a sample at (x, y) with the given buttons down.
func NewSample(x, y uint32, buttons ...Button) Sample {
	s := Sample{Position: geo.Vec(x, y)}
	for _, b := range buttons {
		s = s.With(b)
	}
	return s
}

// With returns a copy of the sample with the button held down.
func (s Sample) With(b Button) Sample {
	switch b {
	case ButtonLeft:
		s.Left = true
	case ButtonRight:
		s.Right = true
	}
	return s
}

// Without returns a copy of the sample with the button released.
func (s Sample) Without(b Button) Sample {
	switch b {
	case ButtonLeft:
		s.Left = false
	case ButtonRight:
		s.Right = false
	}
	return s
}

// AnyDown returns true if either button is down.
func (s Sample) AnyDown() bool {
	return s.Left || s.Right
}

func (s Sample) String() string {
	return fmt.Sprintf("%v left=%t right=%t", s.Position, s.Left, s.Right)
}
