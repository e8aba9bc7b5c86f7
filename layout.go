// layout.go re-exports layout types from internal/layout.
// Any changes to internal/layout types must be mirrored here.
package strata

import "github.com/stratawm/strata/internal/layout"

// Direction specifies the main axis for laying out children.
type Direction = layout.Direction

const (
	Row    = layout.Row
	Column = layout.Column
)

// Value represents a dimension value (fixed, percent, or auto).
type Value = layout.Value

// LayoutStyle holds the layout properties a node declares.
type LayoutStyle = layout.Style

// LayoutNode is one node of a client-declared layout tree.
type LayoutNode = layout.Node

// LayoutTree is the solver representation of the current layout generation.
type LayoutTree = layout.Tree

// Rect represents a rectangle with position and dimensions in pixels.
type Rect = layout.Rect

// Edges represents spacing on four sides.
type Edges = layout.Edges

// Point represents an x/y coordinate.
type Point = layout.Point

// Fixed creates a Value with an absolute pixel count.
func Fixed(px float64) Value {
	return layout.Fixed(px)
}

// Percent creates a Value representing a percentage of available space.
func Percent(p float64) Value {
	return layout.Percent(p)
}

// Auto creates a Value resolved from the sibling split.
func Auto() Value {
	return layout.Auto()
}

// DefaultLayoutStyle returns a LayoutStyle with default values.
func DefaultLayoutStyle() LayoutStyle {
	return layout.DefaultStyle()
}

// NewLayoutNode creates a childless LayoutNode with the given style.
func NewLayoutNode(style LayoutStyle) *LayoutNode {
	return layout.NewNode(style)
}

// NewLayoutTree builds a fresh solver tree from a validated LayoutNode.
func NewLayoutTree(root *LayoutNode, rootID uint32, innerGap, outerGap float64) *LayoutTree {
	return layout.New(root, rootID, innerGap, outerGap)
}

// NewRect creates a new Rect with the given position and dimensions.
func NewRect(x, y, width, height int) Rect {
	return layout.NewRect(x, y, width, height)
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(v float64) Edges {
	return layout.EdgeAll(v)
}
