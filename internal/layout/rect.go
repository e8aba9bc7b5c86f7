package layout

import "math"

// Rect represents a rectangle with integer pixel position and dimensions.
type Rect struct {
	X, Y, Width, Height int
}

// NewRect creates a new Rect with the given position and dimensions.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// IsEmpty returns true if the rectangle covers no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if the point (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsRect returns true if other lies entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Loc returns the rectangle's top-left corner.
func (r Rect) Loc() Point {
	return Point{X: r.X, Y: r.Y}
}

// At returns a copy of r repositioned at p.
func (r Rect) At(p Point) Rect {
	return Rect{X: p.X, Y: p.Y, Width: r.Width, Height: r.Height}
}

// Inset returns a new Rect shrunk by the given edges.
// Width and height never go negative.
func (r Rect) Inset(e Edges) Rect {
	out := Rect{
		X:      r.X + int(math.Round(e.Left)),
		Y:      r.Y + int(math.Round(e.Top)),
		Width:  r.Width - int(math.Round(e.Left+e.Right)),
		Height: r.Height - int(math.Round(e.Top+e.Bottom)),
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Outset returns a new Rect grown by the given edges.
func (r Rect) Outset(e Edges) Rect {
	return Rect{
		X:      r.X - int(math.Round(e.Left)),
		Y:      r.Y - int(math.Round(e.Top)),
		Width:  r.Width + int(math.Round(e.Left+e.Right)),
		Height: r.Height + int(math.Round(e.Top+e.Bottom)),
	}
}

// Union returns the smallest Rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	right := max(r.Right(), other.Right())
	bottom := max(r.Bottom(), other.Bottom())
	return Rect{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Edges represents spacing on four sides in pixels.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(v float64) Edges {
	return Edges{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns the combined left and right edge size.
func (e Edges) Horizontal() float64 {
	return e.Left + e.Right
}

// Vertical returns the combined top and bottom edge size.
func (e Edges) Vertical() float64 {
	return e.Top + e.Bottom
}
