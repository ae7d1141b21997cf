// Package geo provides the integer geometry used by the surface: points in
// window-client coordinates and rectangle extents.
//
// All coordinates are unsigned. Subtraction saturates at zero instead of
// wrapping, so a vector difference never produces a position far off-screen.
package geo

import "fmt"

// Vector2 is a point or offset in window-client coordinates.
type Vector2 struct {
	X uint32
	Y uint32
}

// Vec creates a Vector2.
func Vec(x, y uint32) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o, clamping each axis at zero.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: subClamp(v.X, o.X), Y: subClamp(v.Y, o.Y)}
}

// Equal returns true if two vectors are equal.
func (v Vector2) Equal(o Vector2) bool {
	return v.X == o.X && v.Y == o.Y
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}

// Size is the extent of a rectangle.
type Size struct {
	Width  uint32
	Height uint32
}

// Sz creates a Size.
func Sz(width, height uint32) Size {
	return Size{Width: width, Height: height}
}

// Area returns the number of units covered.
func (s Size) Area() uint64 {
	return uint64(s.Width) * uint64(s.Height)
}

// Empty returns true if either dimension is zero.
func (s Size) Empty() bool {
	return s.Width == 0 || s.Height == 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is an origin plus a size.
type Rect struct {
	Origin Vector2
	Size   Size
}

// R creates a Rect.
func R(origin Vector2, size Size) Rect {
	return Rect{Origin: origin, Size: size}
}

// Contains reports whether p lies in [x, x+width) × [y, y+height).
func (r Rect) Contains(p Vector2) bool {
	if p.X < r.Origin.X || p.Y < r.Origin.Y {
		return false
	}
	return uint64(p.X-r.Origin.X) < uint64(r.Size.Width) &&
		uint64(p.Y-r.Origin.Y) < uint64(r.Size.Height)
}

func subClamp(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}
