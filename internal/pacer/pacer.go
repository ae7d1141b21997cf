// Package pacer holds the frame loop to a fixed frame duration.
//
// Each frame is paced on its own against its start time. When the frame's
// work leaves room, the pacer does one coarse sleep of target minus margin
// and then spins until the target has elapsed. When the work already used
// more than target minus margin, it only spins. There is no catch-up: a
// late frame is not made up for by shortening the next one.
package pacer

import (
	"fmt"
	"time"
)

// Defaults for a 60 Hz loop.
const (
	DefaultTarget = 16 * time.Millisecond
	DefaultMargin = 3 * time.Millisecond
)

// Clock is the time source used by a Pacer.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Result describes one paced frame.
type Result struct {
	// Work is the time spent before Wait was called.
	Work time.Duration
	// Total is the time from frame start until Wait returned.
	Total time.Duration
	// Overrun is true when the work left no room for the coarse sleep.
	Overrun bool
}

// Pacer blocks until a frame's target duration has elapsed.
type Pacer struct {
	target time.Duration
	margin time.Duration
	clock  Clock
}

// Option configures a Pacer.
type Option func(*Pacer)

// WithTarget sets the frame duration.
func WithTarget(d time.Duration) Option {
	return func(p *Pacer) {
		p.target = d
	}
}

// WithMargin sets how much earlier than the target the coarse sleep ends.
func WithMargin(d time.Duration) Option {
	return func(p *Pacer) {
		p.margin = d
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(p *Pacer) {
		p.clock = c
	}
}

// New creates a pacer with the 60 Hz defaults.
func New(opts ...Option) *Pacer {
	p := &Pacer{
		target: DefaultTarget,
		margin: DefaultMargin,
		clock:  SystemClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.margin = clampMargin(p.margin, p.target)
	return p
}

// TargetForFPS returns the whole-millisecond frame duration for fps frames
// per second, so 60 gives 16ms.
func TargetForFPS(fps int) (time.Duration, error) {
	if fps <= 0 || fps > 1000 {
		return 0, fmt.Errorf("fps %d out of range [1, 1000]", fps)
	}
	return time.Duration(1000/fps) * time.Millisecond, nil
}

// Target returns the frame duration.
func (p *Pacer) Target() time.Duration { return p.target }

// Margin returns the coarse sleep margin.
func (p *Pacer) Margin() time.Duration { return p.margin }

// Clock returns the pacer's time source.
func (p *Pacer) Clock() Clock { return p.clock }

// SetTarget changes the frame duration and margin from the next Wait on.
func (p *Pacer) SetTarget(target, margin time.Duration) {
	p.target = target
	p.margin = clampMargin(margin, target)
}

// Wait blocks until the target has elapsed since start.
func (p *Pacer) Wait(start time.Time) Result {
	work := p.clock.Now().Sub(start)
	coarse := p.target - p.margin

	res := Result{Work: work, Overrun: work > coarse}
	if !res.Overrun && coarse > 0 {
		p.clock.Sleep(coarse)
	}

	elapsed := p.clock.Now().Sub(start)
	for elapsed < p.target {
		elapsed = p.clock.Now().Sub(start)
	}

	res.Total = elapsed
	return res
}

func clampMargin(margin, target time.Duration) time.Duration {
	return min(max(margin, 0), max(target, 0))
}
