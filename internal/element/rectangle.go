package element

import (
	"fmt"
	"math"

	"github.com/dshills/surface/internal/geo"
	"github.com/dshills/surface/internal/input/mouse"
	"github.com/dshills/surface/internal/renderer/bitmap"
	"github.com/dshills/surface/internal/renderer/core"
)

// BorderWidth is the thickness of the capture highlight.
const BorderWidth uint32 = 3

// DefaultHighlight is the border color used when none is configured.
var DefaultHighlight = core.RGB(255, 200, 0)

// DragState tracks whether a rectangle is captured by a drag.
type DragState struct {
	Moving bool
	// Offset is the pointer position relative to the origin at capture time.
	Offset geo.Vector2
}

func (d DragState) String() string {
	if !d.Moving {
		return "NotMoving"
	}
	return fmt.Sprintf("Moving%s", d.Offset)
}

// Rectangle is a filled rectangle that can be dragged with the mouse.
type Rectangle struct {
	pos          geo.Vector2
	size         geo.Size
	color        core.Color
	defaultColor core.Color
	highlight    core.Color
	drag         DragState
}

// NewRectangle creates a rectangle at pos filled with color.
func NewRectangle(pos geo.Vector2, size geo.Size, color core.Color) *Rectangle {
	return &Rectangle{
		pos:          pos,
		size:         size,
		color:        color,
		defaultColor: color,
		highlight:    DefaultHighlight,
	}
}

// SetHighlight changes the capture border color.
func (r *Rectangle) SetHighlight(c core.Color) {
	r.highlight = c
}

// SetColor changes the default fill color. It takes effect on the next Update.
func (r *Rectangle) SetColor(c core.Color) {
	r.defaultColor = c
}

// Position returns the rectangle's origin.
func (r *Rectangle) Position() geo.Vector2 { return r.pos }

// Size returns the rectangle's extent.
func (r *Rectangle) Size() geo.Size { return r.size }

// Color returns the current fill color.
func (r *Rectangle) Color() core.Color { return r.color }

// Highlight returns the capture border color.
func (r *Rectangle) Highlight() core.Color { return r.highlight }

// Drag returns the drag state.
func (r *Rectangle) Drag() DragState { return r.drag }

// Bounds returns the rectangle as a geo.Rect.
func (r *Rectangle) Bounds() geo.Rect {
	return geo.R(r.pos, r.size)
}

// Contains reports whether p lies inside the rectangle, lower edges
// inclusive and upper edges exclusive.
func (r *Rectangle) Contains(p geo.Vector2) bool {
	return r.Bounds().Contains(p)
}

// Update captures the rectangle when a drag is in progress over it and
// moves it with the pointer until the drag stops. A captured rectangle does
// not hit-test again until released.
func (r *Rectangle) Update(state mouse.State, pointer geo.Vector2) {
	r.color = r.defaultColor

	switch {
	case !r.drag.Moving:
		if state.Is(mouse.KindDragging) && r.Contains(pointer) {
			r.drag = DragState{Moving: true, Offset: pointer.Sub(r.pos)}
		}
	case state.Is(mouse.KindDragging):
		r.pos = pointer.Sub(r.drag.Offset)
	default:
		r.drag = DragState{}
	}
}

// Render fills the rectangle and, while captured, draws the highlight
// border inside its edges.
func (r *Rectangle) Render(b *bitmap.Bitmap) {
	b.DrawFilledRect(r.pos, r.size, r.color)
	if !r.drag.Moving {
		return
	}

	w, h := r.size.Width, r.size.Height
	bw := min(BorderWidth, w)
	bh := min(BorderWidth, h)

	// top, left
	b.DrawFilledRect(r.pos, geo.Sz(w, bh), r.highlight)
	b.DrawFilledRect(r.pos, geo.Sz(bw, h), r.highlight)

	// bottom, right; a strip past the coordinate range is off every bitmap
	if y, ok := farEdge(r.pos.Y, h, bh); ok {
		b.DrawFilledRect(geo.Vec(r.pos.X, y), geo.Sz(w, bh), r.highlight)
	}
	if x, ok := farEdge(r.pos.X, w, bw); ok {
		b.DrawFilledRect(geo.Vec(x, r.pos.Y), geo.Sz(bw, h), r.highlight)
	}
}

// farEdge returns origin+extent-strip, or false when it exceeds uint32.
func farEdge(origin, extent, strip uint32) (uint32, bool) {
	v := uint64(origin) + uint64(extent) - uint64(strip)
	if v > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true
}

func (r *Rectangle) String() string {
	return fmt.Sprintf("Rectangle{%s %s %s %s}", r.pos, r.size, r.color, r.drag)
}
