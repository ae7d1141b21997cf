package backend

import (
	"github.com/dshills/surface/internal/input/mouse"
	"github.com/dshills/surface/internal/renderer/bitmap"
)

// NullBackend is a headless backend for testing. Queued samples are
// delivered one per Drain, as if each frame received exactly one batch of
// input messages.
type NullBackend struct {
	width, height uint32
	ready         bool

	mouse   mouse.Sample
	pending []mouse.Sample

	presented   int
	last        *bitmap.Bitmap
	presentErrs []error

	quit            bool
	quitWhenDrained bool
	paletteOnly     bool
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height uint32) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
	}
}

func (b *NullBackend) Init() error {
	b.ready = true
	return nil
}

func (b *NullBackend) Shutdown() {
	b.ready = false
}

func (b *NullBackend) Size() (uint32, uint32) {
	return b.width, b.height
}

func (b *NullBackend) Drain() {
	if len(b.pending) == 0 {
		return
	}
	b.mouse = b.pending[0]
	b.pending = b.pending[1:]
}

func (b *NullBackend) Mouse() mouse.Sample {
	return b.mouse
}

func (b *NullBackend) Present(bm *bitmap.Bitmap) error {
	if bm == nil {
		return ErrNilBitmap
	}
	if !b.ready {
		return ErrNotInitialized
	}
	if len(b.presentErrs) > 0 {
		err := b.presentErrs[0]
		b.presentErrs = b.presentErrs[1:]
		return err
	}
	b.presented++
	b.last = bm.Clone()
	return nil
}

func (b *NullBackend) QuitRequested() bool {
	return b.quit || (b.quitWhenDrained && len(b.pending) == 0)
}

// Queue appends samples to be delivered by subsequent Drain calls.
func (b *NullBackend) Queue(samples ...mouse.Sample) {
	b.pending = append(b.pending, samples...)
}

// SetMouse replaces the snapshot immediately.
func (b *NullBackend) SetMouse(s mouse.Sample) {
	b.mouse = s
}

// Pending returns the number of samples not yet delivered.
func (b *NullBackend) Pending() int {
	return len(b.pending)
}

// Resize simulates a window resize.
func (b *NullBackend) Resize(width, height uint32) {
	b.width = width
	b.height = height
}

// FailPresent makes the next len(errs) Present calls return errs in order.
func (b *NullBackend) FailPresent(errs ...error) {
	b.presentErrs = append(b.presentErrs, errs...)
}

// Presented returns the number of successfully presented frames.
func (b *NullBackend) Presented() int {
	return b.presented
}

// LastFrame returns a copy of the last presented frame, or nil.
func (b *NullBackend) LastFrame() *bitmap.Bitmap {
	return b.last
}

// RequestQuit simulates the user closing the window.
func (b *NullBackend) RequestQuit() {
	b.quit = true
}

// QuitWhenDrained makes QuitRequested report true once the queue is empty.
func (b *NullBackend) QuitWhenDrained(v bool) {
	b.quitWhenDrained = v
}

// HasTrueColor is true unless LimitColors was called.
func (b *NullBackend) HasTrueColor() bool {
	return !b.paletteOnly
}

// LimitColors simulates a display without 24-bit color.
func (b *NullBackend) LimitColors(v bool) {
	b.paletteOnly = v
}
