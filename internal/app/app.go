// Package app runs the surface's frame loop. Each frame it drains window
// input, advances the mouse state machine, updates and renders every
// element, paces the frame and presents the result.
//
// The loop is single-threaded. Config reloads arrive on channels and are
// applied at the start of a frame, so element and machine state are only
// touched by the loop goroutine.
package app

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"

	"github.com/dshills/surface/internal/config"
	"github.com/dshills/surface/internal/element"
	"github.com/dshills/surface/internal/geo"
	"github.com/dshills/surface/internal/input/mouse"
	"github.com/dshills/surface/internal/pacer"
	"github.com/dshills/surface/internal/renderer/bitmap"
	"github.com/dshills/surface/internal/renderer/core"
	"github.com/dshills/surface/internal/window"
)

// DefaultMetricsInterval is how many frames pass between metrics log lines.
const DefaultMetricsInterval = 600

// Options configures a UI.
type Options struct {
	// HoldFrames is the drag threshold. Zero uses mouse.HoldFrames.
	HoldFrames mouse.Frame

	// Pacer paces frames. Nil uses a 60 Hz pacer on the system clock.
	Pacer *pacer.Pacer

	// Background clears the bitmap each frame.
	Background core.Color

	// Logger defaults to NullLogger.
	Logger *Logger

	// Metrics defaults to a fresh tracker.
	Metrics *Metrics

	// MetricsInterval is the frame count between metrics debug logs.
	// Zero uses DefaultMetricsInterval.
	MetricsInterval uint64

	// Reloads delivers new configs to apply at the next frame boundary.
	Reloads <-chan *config.Config

	// ReloadErrors delivers config reload failures to log.
	ReloadErrors <-chan error
}

// UI drives one window.
type UI struct {
	platform *window.Platform
	handle   window.Handle

	machine  *mouse.Machine
	elements element.List
	pacer    *pacer.Pacer
	bitmap   *bitmap.Bitmap

	logger   *Logger
	metrics  *Metrics
	interval uint64

	reloads    <-chan *config.Config
	reloadErrs <-chan error

	running atomic.Bool
}

// New creates a UI for the window h. The handle is checked up front.
func New(p *window.Platform, h window.Handle, elements element.List, opts Options) (*UI, error) {
	if p == nil {
		return nil, NewComponentError("window", "new ui", ErrNoPlatform)
	}
	if _, err := p.Lookup(h); err != nil {
		return nil, NewComponentError("window", "new ui", err)
	}

	ui := &UI{
		platform:   p,
		handle:     h,
		elements:   elements,
		pacer:      opts.Pacer,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		interval:   opts.MetricsInterval,
		reloads:    opts.Reloads,
		reloadErrs: opts.ReloadErrors,
	}
	if ui.pacer == nil {
		ui.pacer = pacer.New()
	}
	if ui.logger == nil {
		ui.logger = NullLogger
	}
	if ui.metrics == nil {
		ui.metrics = NewMetrics()
	}
	if ui.interval == 0 {
		ui.interval = DefaultMetricsInterval
	}

	hold := opts.HoldFrames
	if hold == 0 {
		hold = mouse.HoldFrames
	}
	ui.machine = mouse.NewMachine(
		mouse.WithHoldFrames(hold),
		mouse.WithObserver(ui.observeTransition),
	)

	size, err := p.WindowSize(h)
	if err != nil {
		return nil, NewComponentError("window", "size", err)
	}
	ui.bitmap = bitmap.New(size, opts.Background)

	if tc, err := p.HasTrueColor(h); err == nil && !tc {
		ui.logger.Warn("window has no 24-bit color; element colors are approximated")
	}

	return ui, nil
}

// Add registers an element. Elements update and render in the order added.
func (ui *UI) Add(e element.Element) {
	ui.elements = append(ui.elements, e)
}

// Elements returns the registered elements.
func (ui *UI) Elements() element.List { return ui.elements }

// Machine returns the mouse state machine.
func (ui *UI) Machine() *mouse.Machine { return ui.machine }

// Pacer returns the frame pacer.
func (ui *UI) Pacer() *pacer.Pacer { return ui.pacer }

// Bitmap returns the frame buffer. Its contents are those of the last
// rendered frame.
func (ui *UI) Bitmap() *bitmap.Bitmap { return ui.bitmap }

// Metrics returns the metrics tracker.
func (ui *UI) Metrics() *Metrics { return ui.metrics }

// Logger returns the UI's logger.
func (ui *UI) Logger() *Logger { return ui.logger }

// IsRunning returns true while Run is executing.
func (ui *UI) IsRunning() bool { return ui.running.Load() }

// Run steps frames until the context is cancelled or the window asks to
// quit, which return nil. Any other error ends the loop and is returned;
// a panic in a frame is recovered and returned as a RecoveredPanicError.
func (ui *UI) Run(ctx context.Context) (err error) {
	if !ui.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer ui.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
			ui.logger.Error("frame %d panicked: %v", ui.machine.Frame(), r)
		}
	}()

	ui.logger.WithField("elements", len(ui.elements)).Info("surface started")

	for {
		err := ui.Step(ctx)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrQuit) {
			ui.logger.WithFields(ui.metrics.Snapshot().Fields()).Info("surface stopped")
			return nil
		}
		ui.logger.Error("frame loop failed: %v", err)
		return err
	}
}

// Step runs one frame. It returns ErrQuit when the loop should stop.
// A window lookup failure is returned; a failed present is logged and
// counted as a dropped frame.
func (ui *UI) Step(ctx context.Context) error {
	start := ui.pacer.Clock().Now()

	if ctx.Err() != nil {
		return ErrQuit
	}
	ui.applyPending()

	if quit, err := ui.platform.QuitRequested(ui.handle); err != nil {
		return NewFrameError(ui.machine.Frame()+1, "quit check", err)
	} else if quit {
		return ErrQuit
	}

	if err := ui.platform.DrainInputMessages(ui.handle); err != nil {
		return NewFrameError(ui.machine.Frame()+1, "drain", err)
	}
	sample, err := ui.platform.CurrentMouseSample(ui.handle)
	if err != nil {
		return NewFrameError(ui.machine.Frame()+1, "mouse", err)
	}

	state := ui.machine.Tick(sample)
	frame := ui.machine.Frame()
	ui.elements.Update(state, sample.Position)

	res := ui.pacer.Wait(start)
	ui.metrics.RecordFrame(res)
	if res.Overrun {
		ui.logger.Debug("frame %d overran: work %v of %v", frame, res.Work, ui.pacer.Target())
	}

	size, err := ui.platform.WindowSize(ui.handle)
	if err != nil {
		return NewFrameError(frame, "size", err)
	}
	ui.prepareBitmap(size)
	ui.elements.Render(ui.bitmap)

	if err := ui.platform.Present(ui.handle, ui.bitmap); err != nil {
		if errors.Is(err, window.ErrWindowNotFound) {
			return NewFrameError(frame, "present", err)
		}
		ui.metrics.RecordDroppedFrame()
		ui.logger.Warn("%v", NewFrameError(frame, "present", err))
	}

	if uint64(frame)%ui.interval == 0 && ui.logger.Enabled(LogLevelDebug) {
		ui.logger.WithFields(ui.metrics.Snapshot().Fields()).Debug("frame metrics")
	}
	return nil
}

func (ui *UI) prepareBitmap(size geo.Size) {
	if ui.bitmap.Size() != size {
		ui.bitmap.Resize(size)
		return
	}
	ui.bitmap.Clear()
}

func (ui *UI) observeTransition(frame mouse.Frame, from, to mouse.State) {
	ui.metrics.RecordTransition()
	if ui.logger.Enabled(LogLevelDebug) {
		ui.logger.WithFields(map[string]any{
			"frame": uint64(frame),
			"from":  from.String(),
		}).Debug("-> %s", to)
	}
}
