package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/surface/internal/config"
	"github.com/dshills/surface/internal/element"
	"github.com/dshills/surface/internal/geo"
	"github.com/dshills/surface/internal/input/mouse"
	"github.com/dshills/surface/internal/pacer"
	"github.com/dshills/surface/internal/renderer/backend"
	"github.com/dshills/surface/internal/renderer/bitmap"
	"github.com/dshills/surface/internal/renderer/core"
	"github.com/dshills/surface/internal/window"
)

// stepClock advances a fixed step on every Now call so pacing never blocks.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *stepClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}

var (
	blue   = core.ColorBlue
	yellow = core.RGB(255, 200, 0)
)

type harness struct {
	ui       *UI
	platform *window.Platform
	handle   window.Handle
	backend  *backend.NullBackend
	rect     *element.Rectangle
	logs     *observer.ObservedLogs
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()

	nb := backend.NewNullBackend(80, 24)
	p := window.NewPlatform()
	h, err := p.Open("test", nb)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(p.CloseAll)

	rect := element.NewRectangle(geo.Vec(0, 0), geo.Sz(30, 10), blue)
	rect.SetHighlight(yellow)

	obs, logs := observer.New(zapcore.DebugLevel)
	if opts.Logger == nil {
		opts.Logger = NewLogger(LoggerConfig{Level: LogLevelDebug, Core: obs, RunID: "test"})
	}
	if opts.Pacer == nil {
		opts.Pacer = pacer.New(pacer.WithClock(&stepClock{now: time.Unix(0, 0)}))
	}

	ui, err := New(p, h, element.List{rect}, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return &harness{ui: ui, platform: p, handle: h, backend: nb, rect: rect, logs: logs}
}

func (h *harness) step(t *testing.T, n int) {
	t.Helper()
	for i := range n {
		if err := h.ui.Step(context.Background()); err != nil {
			t.Fatalf("Step %d failed: %v", i+1, err)
		}
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, 1, nil, Options{}); !errors.Is(err, ErrNoPlatform) {
		t.Errorf("New(nil platform) = %v, want ErrNoPlatform", err)
	}

	p := window.NewPlatform()
	_, err := New(p, 42, nil, Options{})
	if !errors.Is(err, window.ErrWindowNotFound) {
		t.Errorf("New(unknown handle) = %v, want ErrWindowNotFound", err)
	}
	var ce *ComponentError
	if !errors.As(err, &ce) || ce.Component != "window" {
		t.Errorf("expected window ComponentError, got %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	nb := backend.NewNullBackend(10, 5)
	p := window.NewPlatform()
	h, _ := p.Open("test", nb)

	ui, err := New(p, h, nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if ui.Machine().HoldFrames() != mouse.HoldFrames {
		t.Errorf("HoldFrames() = %d, want %d", ui.Machine().HoldFrames(), mouse.HoldFrames)
	}
	if ui.Pacer().Target() != pacer.DefaultTarget {
		t.Errorf("pacer target = %v", ui.Pacer().Target())
	}
	if ui.Logger() != NullLogger || ui.Metrics() == nil {
		t.Error("expected null logger and fresh metrics")
	}
	if ui.Bitmap().Size() != geo.Sz(10, 5) {
		t.Errorf("bitmap size = %v, want 10x5", ui.Bitmap().Size())
	}
}

func TestStepDragsElement(t *testing.T) {
	h := newHarness(t, Options{})

	press := mouse.NewSample(5, 5, mouse.ButtonLeft)
	for range 6 {
		h.backend.Queue(press)
	}
	h.backend.Queue(mouse.NewSample(15, 8, mouse.ButtonLeft))

	h.step(t, 5)
	if !h.ui.Machine().State().Is(mouse.KindDragStarted) {
		t.Fatalf("state after 5 frames = %v", h.ui.Machine().State())
	}

	h.step(t, 1)
	if d := h.rect.Drag(); !d.Moving || d.Offset != geo.Vec(5, 5) {
		t.Fatalf("drag after capture frame = %v", d)
	}

	h.step(t, 1)
	if h.rect.Position() != geo.Vec(10, 3) {
		t.Errorf("position = %v, want (10,3)", h.rect.Position())
	}

	frame := h.backend.LastFrame()
	if c, _ := frame.At(10, 3); !c.Equals(yellow) {
		t.Errorf("border corner = %v, want highlight", c)
	}
	if c, _ := frame.At(20, 7); !c.Equals(blue) {
		t.Errorf("interior = %v, want fill", c)
	}
	if c, _ := frame.At(5, 1); !c.Equals(core.ColorBlack) {
		t.Errorf("old position = %v, want cleared background", c)
	}
	if h.backend.Presented() != 7 {
		t.Errorf("Presented() = %d, want 7", h.backend.Presented())
	}
	if h.ui.Machine().Frame() != 7 {
		t.Errorf("Frame() = %d, want 7", h.ui.Machine().Frame())
	}
}

func TestStepReleaseResetsCapture(t *testing.T) {
	h := newHarness(t, Options{HoldFrames: 2})

	press := mouse.NewSample(1, 1, mouse.ButtonLeft)
	h.backend.Queue(press, press, press, mouse.NewSample(1, 1))

	h.step(t, 3)
	if !h.rect.Drag().Moving {
		t.Fatal("not captured with hold threshold 2")
	}
	h.step(t, 1)
	if h.rect.Drag().Moving {
		t.Error("still captured after release")
	}
	if h.backend.LastFrame().Count(yellow) != 0 {
		t.Error("border drawn after release")
	}
}

func TestStepShortPressIsClick(t *testing.T) {
	h := newHarness(t, Options{})

	press := mouse.NewSample(5, 5, mouse.ButtonRight)
	h.backend.Queue(press, press, mouse.NewSample(5, 5))

	h.step(t, 3)
	st := h.ui.Machine().State()
	if !st.Is(mouse.KindClick) || !st.Right {
		t.Errorf("state = %v, want right click", st)
	}
	if h.rect.Drag().Moving {
		t.Error("a click captured the element")
	}
}

func TestStepPresentFailureIsRecoverable(t *testing.T) {
	h := newHarness(t, Options{})
	h.backend.FailPresent(errors.New("swap failed"))

	h.step(t, 2)

	if got := h.ui.Metrics().Snapshot().DroppedFrames; got != 1 {
		t.Errorf("DroppedFrames = %d, want 1", got)
	}
	if h.backend.Presented() != 1 {
		t.Errorf("Presented() = %d, want 1", h.backend.Presented())
	}
	warn := h.logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warn) != 1 || !strings.Contains(warn[0].Message, "swap failed") {
		t.Errorf("warn logs = %v", warn)
	}
}

func TestStepWindowMissingIsFatal(t *testing.T) {
	h := newHarness(t, Options{})
	h.step(t, 1)

	if err := h.platform.Close(h.handle); err != nil {
		t.Fatal(err)
	}

	err := h.ui.Step(context.Background())
	if !errors.Is(err, window.ErrWindowNotFound) {
		t.Fatalf("Step after close = %v, want ErrWindowNotFound", err)
	}
	var fe *FrameError
	if !errors.As(err, &fe) {
		t.Errorf("expected FrameError, got %T", err)
	}

	if err := h.ui.Run(context.Background()); !errors.Is(err, window.ErrWindowNotFound) {
		t.Errorf("Run = %v, want ErrWindowNotFound", err)
	}
}

func TestStepFollowsResize(t *testing.T) {
	h := newHarness(t, Options{})
	h.step(t, 1)

	h.backend.Resize(40, 12)
	h.step(t, 1)

	if h.ui.Bitmap().Size() != geo.Sz(40, 12) {
		t.Errorf("bitmap size = %v, want 40x12", h.ui.Bitmap().Size())
	}
	if h.backend.LastFrame().Size() != geo.Sz(40, 12) {
		t.Errorf("presented size = %v", h.backend.LastFrame().Size())
	}
}

func TestStepLogsTransitions(t *testing.T) {
	h := newHarness(t, Options{})

	press := mouse.NewSample(5, 5, mouse.ButtonLeft)
	h.backend.Queue(press, mouse.NewSample(5, 5))
	h.step(t, 3)

	var msgs []string
	for _, e := range h.logs.FilterLevelExact(zapcore.DebugLevel).All() {
		if strings.HasPrefix(e.Message, "->") {
			msgs = append(msgs, e.Message)
		}
	}
	want := []string{"-> holding(since=1)", "-> click(left=true, right=false)", "-> idle"}
	if strings.Join(msgs, "|") != strings.Join(want, "|") {
		t.Errorf("transition logs = %q, want %q", msgs, want)
	}
	if got := h.ui.Metrics().Snapshot().Transitions; got != 3 {
		t.Errorf("Transitions = %d, want 3", got)
	}
}

func TestRunUntilQuit(t *testing.T) {
	h := newHarness(t, Options{})

	s := &backend.Script{Width: 80, Height: 24, Steps: []backend.Step{
		{X: 2, Y: 2, Left: true, Frames: 7},
		{X: 12, Y: 4, Left: true},
		{X: 12, Y: 4},
	}}
	h.backend.Queue(s.Samples()...)
	h.backend.QuitWhenDrained(true)

	if err := h.ui.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	if h.ui.IsRunning() {
		t.Error("IsRunning() after Run returned")
	}
	if got := h.ui.Metrics().Snapshot().FrameCount; got != 9 {
		t.Errorf("FrameCount = %d, want 9", got)
	}
	if h.rect.Position() != geo.Vec(10, 2) {
		t.Errorf("position = %v, want (10,2)", h.rect.Position())
	}
	if h.logs.FilterMessage("surface stopped").Len() != 1 {
		t.Error("expected a shutdown log with metrics")
	}
}

func TestRunContextCancelled(t *testing.T) {
	h := newHarness(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.ui.Run(ctx); err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
	if h.backend.Presented() != 0 {
		t.Errorf("Presented() = %d, want 0", h.backend.Presented())
	}
}

func TestRunQuitRequested(t *testing.T) {
	h := newHarness(t, Options{})
	h.backend.RequestQuit()

	if err := h.ui.Step(context.Background()); !errors.Is(err, ErrQuit) {
		t.Errorf("Step = %v, want ErrQuit", err)
	}
	if err := h.ui.Run(context.Background()); err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
}

func TestRunAlreadyRunning(t *testing.T) {
	h := newHarness(t, Options{})
	h.ui.running.Store(true)

	if err := h.ui.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run = %v, want ErrAlreadyRunning", err)
	}
}

type panicky struct{}

func (panicky) Update(mouse.State, geo.Vector2) { panic("boom") }
func (panicky) Render(*bitmap.Bitmap)           {}

func TestRunRecoversPanic(t *testing.T) {
	h := newHarness(t, Options{})
	h.ui.Add(panicky{})

	err := h.ui.Run(context.Background())
	var pe *RecoveredPanicError
	if !errors.As(err, &pe) || pe.Value != "boom" {
		t.Fatalf("Run = %v, want recovered panic", err)
	}
	if h.ui.IsRunning() {
		t.Error("IsRunning() after panic")
	}
}

func TestAddKeepsOrder(t *testing.T) {
	h := newHarness(t, Options{})
	top := element.NewRectangle(geo.Vec(10, 5), geo.Sz(5, 5), core.ColorGreen)
	h.ui.Add(top)

	if len(h.ui.Elements()) != 2 || h.ui.Elements()[1] != top {
		t.Fatalf("Elements() = %v", h.ui.Elements())
	}

	h.step(t, 1)
	if c, _ := h.backend.LastFrame().At(12, 7); !c.Equals(core.ColorGreen) {
		t.Errorf("overlap = %v, want later element on top", c)
	}
}

func TestElementsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Elements = append(cfg.Elements, config.ElementConfig{
		X: 40, Y: 10, Width: 5, Height: 3, Color: "#00FF00", Highlight: "#FFFFFF",
	})

	list, err := ElementsFromConfig(cfg)
	if err != nil {
		t.Fatalf("ElementsFromConfig failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d elements, want 2", len(list))
	}
	r := list[1].(*element.Rectangle)
	if r.Position() != geo.Vec(40, 10) || r.Size() != geo.Sz(5, 3) {
		t.Errorf("rectangle = %v", r)
	}
	if !r.Color().Equals(core.ColorGreen) || !r.Highlight().Equals(core.ColorWhite) {
		t.Errorf("colors = %v / %v", r.Color(), r.Highlight())
	}

	cfg.Elements[0].Color = "nope"
	if _, err := ElementsFromConfig(cfg); err == nil || !strings.Contains(err.Error(), "element 0") {
		t.Errorf("ElementsFromConfig(bad color) = %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Frame.FPS = 30
	cfg.Input.HoldFrames = 8
	cfg.Background = "#101010"

	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig failed: %v", err)
	}
	if opts.HoldFrames != 8 {
		t.Errorf("HoldFrames = %d", opts.HoldFrames)
	}
	if opts.Pacer.Target() != 33*time.Millisecond || opts.Pacer.Margin() != 3*time.Millisecond {
		t.Errorf("pacer = %v/%v", opts.Pacer.Target(), opts.Pacer.Margin())
	}
	if !opts.Background.Equals(core.RGB(16, 16, 16)) {
		t.Errorf("Background = %v", opts.Background)
	}

	cfg.Frame.FPS = 0
	if _, err := OptionsFromConfig(cfg); err == nil {
		t.Error("expected error for fps 0")
	}
}

func TestReloadAppliedAtFrameBoundary(t *testing.T) {
	reloads := make(chan *config.Config, 1)
	reloadErrs := make(chan error, 1)
	h := newHarness(t, Options{Reloads: reloads, ReloadErrors: reloadErrs})

	cfg := config.Default()
	cfg.Frame.FPS = 30
	cfg.Input.HoldFrames = 9
	cfg.Log.Level = "warn"
	cfg.Background = "#202020"
	cfg.Elements[0].Color = "#FF0000"
	cfg.Elements[0].Highlight = "#00FF00"
	reloads <- cfg
	reloadErrs <- errors.New("disk on fire")

	if h.ui.Machine().HoldFrames() != mouse.HoldFrames {
		t.Fatal("config applied before the next frame")
	}
	h.step(t, 1)

	if h.ui.Machine().HoldFrames() != 9 {
		t.Errorf("HoldFrames = %d, want 9", h.ui.Machine().HoldFrames())
	}
	if h.ui.Pacer().Target() != 33*time.Millisecond {
		t.Errorf("pacer target = %v, want 33ms", h.ui.Pacer().Target())
	}
	if h.ui.Logger().Enabled(LogLevelInfo) {
		t.Error("log level not applied")
	}
	if !h.rect.Color().Equals(core.ColorRed) || !h.rect.Highlight().Equals(core.ColorGreen) {
		t.Errorf("element colors = %v / %v", h.rect.Color(), h.rect.Highlight())
	}
	if c, _ := h.backend.LastFrame().At(50, 20); !c.Equals(core.RGB(32, 32, 32)) {
		t.Errorf("background = %v, want #202020", c)
	}
	if h.logs.FilterMessage("config reload failed: disk on fire").Len() != 1 {
		t.Error("reload error not logged")
	}
}

func TestApplyConfigRejectsInvalid(t *testing.T) {
	h := newHarness(t, Options{})
	cfg := config.Default()
	cfg.Input.HoldFrames = 0

	err := h.ui.ApplyConfig(cfg)
	if !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("ApplyConfig = %v, want ErrValidationFailed", err)
	}
	if h.ui.Machine().HoldFrames() != mouse.HoldFrames {
		t.Error("invalid config partially applied")
	}
}

func TestApplyConfigElementCountMismatch(t *testing.T) {
	h := newHarness(t, Options{})
	cfg := config.Default()
	cfg.Elements = append(cfg.Elements, cfg.Elements[0])

	if err := h.ui.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig failed: %v", err)
	}
	if h.logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Error("expected a warning about the element count")
	}
	if len(h.ui.Elements()) != 1 {
		t.Errorf("element count changed to %d", len(h.ui.Elements()))
	}
}

func TestReloadChannelClosed(t *testing.T) {
	reloads := make(chan *config.Config)
	close(reloads)
	h := newHarness(t, Options{Reloads: reloads})

	h.step(t, 2)
	if h.ui.reloads != nil {
		t.Error("closed reload channel still polled")
	}
}

func TestNewWarnsWithoutTrueColor(t *testing.T) {
	nb := backend.NewNullBackend(10, 5)
	nb.LimitColors(true)
	p := window.NewPlatform()
	h, _ := p.Open("test", nb)

	obs, logs := observer.New(zapcore.DebugLevel)
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Core: obs, RunID: "test"})
	if _, err := New(p, h, nil, Options{Logger: logger}); err != nil {
		t.Fatalf("New failed: %v", err)
	}

	warn := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warn) != 1 || !strings.Contains(warn[0].Message, "24-bit") {
		t.Errorf("warn logs = %v", warn)
	}
}
