package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/surface/internal/geo"
	"github.com/dshills/surface/internal/input/mouse"
	"github.com/dshills/surface/internal/renderer/bitmap"
	"github.com/dshills/surface/internal/renderer/core"
)

// Terminal implements Backend using tcell. One terminal cell is one bitmap
// unit; mouse coordinates are cell coordinates.
type Terminal struct {
	mu sync.Mutex

	screen tcell.Screen
	ready  bool

	width, height uint32
	mouse         mouse.Sample
	quit          bool
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen in tests.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}

	t.screen.EnableMouse()
	t.screen.HideCursor()
	t.screen.Clear()

	w, h := t.screen.Size()
	t.width, t.height = clampDim(w), clampDim(h)
	t.ready = true

	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		return
	}
	t.ready = false
	t.screen.DisableMouse()
	t.screen.Fini()
}

func (t *Terminal) Size() (uint32, uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.width, t.height
}

func (t *Terminal) Drain() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		return
	}
	for t.screen.HasPendingEvent() {
		t.apply(t.screen.PollEvent())
	}
}

// apply folds one tcell event into the snapshot.
func (t *Terminal) apply(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		x, y := e.Position()
		buttons := e.Buttons()
		t.mouse = mouse.Sample{
			Position: geo.Vec(clampDim(x), clampDim(y)),
			Left:     buttons&tcell.ButtonPrimary != 0,
			Right:    buttons&tcell.ButtonSecondary != 0,
		}

	case *tcell.EventResize:
		w, h := e.Size()
		t.width, t.height = clampDim(w), clampDim(h)
		t.screen.Sync()

	case *tcell.EventKey:
		if isQuitKey(e) {
			t.quit = true
		}
	}
}

func (t *Terminal) Mouse() mouse.Sample {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.mouse
}

// Present paints every unit as a blank cell with the unit's color as the
// background, then flushes the screen.
func (t *Terminal) Present(b *bitmap.Bitmap) error {
	if b == nil {
		return ErrNilBitmap
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		return ErrNotInitialized
	}

	size := b.Size()
	w, h := min(size.Width, t.width), min(size.Height, t.height)
	for y := uint32(0); y < h; y++ {
		row := b.Row(y)
		for x := uint32(0); x < w; x++ {
			t.screen.SetContent(int(x), int(y), ' ', nil, cellStyle(row[x]))
		}
	}
	t.screen.Show()

	return nil
}

func (t *Terminal) QuitRequested() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.quit
}

// HasTrueColor returns true if the terminal supports 24-bit color.
func (t *Terminal) HasTrueColor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Colors() > 256
}

// cellStyle converts a bitmap color to a background-only style.
func cellStyle(c core.Color) tcell.Style {
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// isQuitKey matches Escape, Ctrl+C and 'q'. Raw mode swallows SIGINT, so
// these are the only way to leave an interactive session from the keyboard.
func isQuitKey(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return e.Rune() == 'q' || e.Rune() == 'Q'
	}
	return false
}

func clampDim(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
