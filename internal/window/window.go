// Package window keeps the arena of open windows and exposes the per-window
// operations the frame loop consumes, keyed by a stable Handle.
//
// The arena is owned by the caller and passed by reference into the loop;
// there is no process-wide registry. Looking up a handle that is not open
// returns an error wrapping ErrWindowNotFound.
package window

import (
	"errors"
	"fmt"

	"github.com/dshills/surface/internal/geo"
	"github.com/dshills/surface/internal/input/mouse"
	"github.com/dshills/surface/internal/renderer/backend"
	"github.com/dshills/surface/internal/renderer/bitmap"
)

// ErrWindowNotFound indicates a handle with no matching open window.
var ErrWindowNotFound = errors.New("window not found")

// Handle identifies an open window. The zero Handle is never issued.
type Handle uint32

// Window is one open window and the backend that drives it.
type Window struct {
	handle  Handle
	title   string
	backend backend.Backend
}

// Handle returns the window's handle.
func (w *Window) Handle() Handle { return w.handle }

// Title returns the window's title.
func (w *Window) Title() string { return w.title }

// Backend returns the backend driving the window.
func (w *Window) Backend() backend.Backend { return w.backend }

// Platform is the arena of open windows.
type Platform struct {
	windows []*Window
	next    Handle
}

// NewPlatform creates an empty arena.
func NewPlatform() *Platform {
	return &Platform{next: 1}
}

// Open initializes b and registers it as a new window.
func (p *Platform) Open(title string, b backend.Backend) (Handle, error) {
	if b == nil {
		return 0, errors.New("open window: nil backend")
	}
	if err := b.Init(); err != nil {
		return 0, fmt.Errorf("open window %q: %w", title, err)
	}

	h := p.next
	p.next++
	p.windows = append(p.windows, &Window{handle: h, title: title, backend: b})
	return h, nil
}

// Lookup returns the window for h.
func (p *Platform) Lookup(h Handle) (*Window, error) {
	for _, w := range p.windows {
		if w.handle == h {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: handle %d", ErrWindowNotFound, h)
}

// Len returns the number of open windows.
func (p *Platform) Len() int {
	return len(p.windows)
}

// DrainInputMessages processes every pending input message for h without
// blocking.
func (p *Platform) DrainInputMessages(h Handle) error {
	w, err := p.Lookup(h)
	if err != nil {
		return err
	}
	w.backend.Drain()
	return nil
}

// CurrentMouseSample returns the snapshot taken by the last drain of h.
func (p *Platform) CurrentMouseSample(h Handle) (mouse.Sample, error) {
	w, err := p.Lookup(h)
	if err != nil {
		return mouse.Sample{}, err
	}
	return w.backend.Mouse(), nil
}

// WindowSize returns the client size of h.
func (p *Platform) WindowSize(h Handle) (geo.Size, error) {
	w, err := p.Lookup(h)
	if err != nil {
		return geo.Size{}, err
	}
	width, height := w.backend.Size()
	return geo.Sz(width, height), nil
}

// Present hands a rendered frame to h's backend. A lookup miss wraps
// ErrWindowNotFound; any other error comes from the backend.
func (p *Platform) Present(h Handle, b *bitmap.Bitmap) error {
	w, err := p.Lookup(h)
	if err != nil {
		return err
	}
	return w.backend.Present(b)
}

// HasTrueColor reports whether h can show 24-bit color.
func (p *Platform) HasTrueColor(h Handle) (bool, error) {
	w, err := p.Lookup(h)
	if err != nil {
		return false, err
	}
	if cd, ok := w.backend.(backend.ColorDepth); ok {
		return cd.HasTrueColor(), nil
	}
	return true, nil
}

// QuitRequested reports whether the user asked to close h.
func (p *Platform) QuitRequested(h Handle) (bool, error) {
	w, err := p.Lookup(h)
	if err != nil {
		return false, err
	}
	return w.backend.QuitRequested(), nil
}

// Close shuts down h's backend and removes it from the arena.
func (p *Platform) Close(h Handle) error {
	for i, w := range p.windows {
		if w.handle == h {
			w.backend.Shutdown()
			p.windows = append(p.windows[:i], p.windows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: handle %d", ErrWindowNotFound, h)
}

// CloseAll shuts down every open window.
func (p *Platform) CloseAll() {
	for _, w := range p.windows {
		w.backend.Shutdown()
	}
	p.windows = nil
}
