// Package bitmap provides the frame buffer elements render into.
//
// A Bitmap is a width × height grid of colors. Drawing outside the grid is
// clipped silently. The frame loop reuses one Bitmap across frames and calls
// Resize when the window size changes.
package bitmap

import (
	"github.com/dshills/surface/internal/geo"
	"github.com/dshills/surface/internal/renderer/core"
)

// Bitmap is a grid of colored units.
type Bitmap struct {
	width, height uint32
	background    core.Color
	pixels        []core.Color
}

// New creates a bitmap of the given size filled with background.
func New(size geo.Size, background core.Color) *Bitmap {
	b := &Bitmap{background: background}
	b.Resize(size)
	return b
}

// Resize changes the dimensions and clears the bitmap. The backing storage
// is reused when it is large enough.
func (b *Bitmap) Resize(size geo.Size) {
	n := int(size.Area())
	if cap(b.pixels) >= n {
		b.pixels = b.pixels[:n]
	} else {
		b.pixels = make([]core.Color, n)
	}
	b.width = size.Width
	b.height = size.Height
	b.Clear()
}

// Size returns the bitmap dimensions.
func (b *Bitmap) Size() geo.Size {
	return geo.Sz(b.width, b.height)
}

// Background returns the clear color.
func (b *Bitmap) Background() core.Color {
	return b.background
}

// SetBackground changes the clear color used by the next Clear.
func (b *Bitmap) SetBackground(c core.Color) {
	b.background = c
}

// Clear fills the whole bitmap with the background color.
func (b *Bitmap) Clear() {
	for i := range b.pixels {
		b.pixels[i] = b.background
	}
}

// DrawPoint sets a single unit.
func (b *Bitmap) DrawPoint(p geo.Vector2, c core.Color) {
	if p.X >= b.width || p.Y >= b.height {
		return
	}
	b.pixels[b.index(p.X, p.Y)] = c
}

// DrawFilledRect fills [origin, origin+size) with c, clipped to the bitmap.
func (b *Bitmap) DrawFilledRect(origin geo.Vector2, size geo.Size, c core.Color) {
	if origin.X >= b.width || origin.Y >= b.height {
		return
	}
	right := min(uint64(origin.X)+uint64(size.Width), uint64(b.width))
	bottom := min(uint64(origin.Y)+uint64(size.Height), uint64(b.height))

	for y := uint64(origin.Y); y < bottom; y++ {
		row := b.index(0, uint32(y))
		for x := uint64(origin.X); x < right; x++ {
			b.pixels[row+int(x)] = c
		}
	}
}

// At returns the color at (x, y). The second result is false outside the
// bitmap.
func (b *Bitmap) At(x, y uint32) (core.Color, bool) {
	if x >= b.width || y >= b.height {
		return core.Color{}, false
	}
	return b.pixels[b.index(x, y)], true
}

// Row returns the colors of row y. The slice aliases the bitmap and is only
// valid until the next Resize.
func (b *Bitmap) Row(y uint32) []core.Color {
	if y >= b.height {
		return nil
	}
	start := b.index(0, y)
	return b.pixels[start : start+int(b.width)]
}

// Clone returns an independent copy.
func (b *Bitmap) Clone() *Bitmap {
	c := &Bitmap{
		width:      b.width,
		height:     b.height,
		background: b.background,
		pixels:     make([]core.Color, len(b.pixels)),
	}
	copy(c.pixels, b.pixels)
	return c
}

// Count returns how many units currently hold c.
func (b *Bitmap) Count(c core.Color) int {
	n := 0
	for _, p := range b.pixels {
		if p == c {
			n++
		}
	}
	return n
}

func (b *Bitmap) index(x, y uint32) int {
	return int(y)*int(b.width) + int(x)
}
