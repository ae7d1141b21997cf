// Package backend provides the window collaborators of the frame loop.
//
// A Backend owns one window's input snapshot and presents finished frames.
// The frame loop calls Drain once per frame; after Drain returns, Mouse and
// Size stay stable until the next Drain.
package backend

import (
	"errors"

	"github.com/dshills/surface/internal/input/mouse"
	"github.com/dshills/surface/internal/renderer/bitmap"
)

// Backend errors.
var (
	// ErrNotInitialized indicates Init has not been called.
	ErrNotInitialized = errors.New("backend not initialized")

	// ErrNilBitmap indicates Present was called without a frame.
	ErrNilBitmap = errors.New("nil bitmap")
)

// Backend defines the interface for windows and other display surfaces.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current window dimensions.
	Size() (width, height uint32)

	// Drain processes every pending input message without blocking and
	// updates the mouse snapshot and size.
	Drain()

	// Mouse returns the mouse snapshot taken by the last Drain.
	Mouse() mouse.Sample

	// Present displays a fully rendered frame. The backend must not retain
	// the bitmap after returning.
	Present(b *bitmap.Bitmap) error

	// QuitRequested returns true once the user asked to close the window.
	QuitRequested() bool
}

// ColorDepth is implemented by backends that know whether they can show
// 24-bit color. Backends without it are assumed to.
type ColorDepth interface {
	HasTrueColor() bool
}
