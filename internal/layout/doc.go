// Package layout implements the constraint tree that turns a client-declared
// layout description into absolute pixel rectangles.
//
// It supports row/column flex directions, percentage flex-basis, min/max
// constraints, padding, margin, and inner/outer gap insertion. Positions are
// accumulated in floating point and rounded exactly once when a leaf
// rectangle is emitted.
//
// The main entry points are [New], which builds a solver tree from a [Node],
// and [Tree.ComputeGeos], which resolves it against an output's usable area.
// [Tree.Diff] replaces the tree's content in place, reusing solver nodes for
// ids that survive across generations.
package layout
