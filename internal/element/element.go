// Package element holds the things drawn on the surface. Every element
// observes the mouse once per frame and renders itself into the frame's
// bitmap; the loop calls both in registration order.
package element

import (
	"github.com/dshills/surface/internal/geo"
	"github.com/dshills/surface/internal/input/mouse"
	"github.com/dshills/surface/internal/renderer/bitmap"
)

// Element is a drawable that reacts to the mouse.
type Element interface {
	// Update observes this frame's interaction state and pointer position.
	Update(state mouse.State, pointer geo.Vector2)

	// Render paints the element. It must not change the element.
	Render(b *bitmap.Bitmap)
}

// List is an ordered set of elements. Later elements render on top.
type List []Element

// Update calls Update on each element in order.
func (l List) Update(state mouse.State, pointer geo.Vector2) {
	for _, e := range l {
		e.Update(state, pointer)
	}
}

// Render calls Render on each element in order.
func (l List) Render(b *bitmap.Bitmap) {
	for _, e := range l {
		e.Render(b)
	}
}
