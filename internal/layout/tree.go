package layout

import (
	"fmt"
	"math"

	"github.com/stratawm/strata/internal/diff"
)

// solverNode is the internal representation of one constraint-tree node.
// Solver nodes are reused across generations for ids the differ maps, so a
// surviving window keeps the same node identity instead of being torn down
// and recreated.
type solverNode struct {
	id       uint32
	style    Style
	children []*solverNode

	// gapLeaf marks the synthetic margin-bearing leaf wrapped around every
	// declared leaf. It carries its owner's id and emits the owner's rect.
	gapLeaf bool

	// gen is the build generation that allocated this node. Reused nodes
	// keep their original generation.
	gen uint64
}

// Tree owns the solver representation of the current layout generation: a
// map from node id to solver node, the designated root, and the global gap
// settings. It is superseded in place by Diff when a new tree arrives.
type Tree struct {
	root   *solverNode
	rootID uint32
	nodes  map[uint32]*solverNode

	// node is the declared tree of the current generation, retained to diff
	// against the next generation and then dropped.
	node *Node

	innerGap float64
	outerGap float64
	gen      uint64
}

// New builds a fresh solver tree from a validated Node. The root's style is
// overridden to span the full available area with padding equal to the outer
// gap; every declared leaf is wrapped with a synthetic leaf carrying margin
// equal to the inner gap, so gaps render consistently at any nesting depth.
//
// New panics on duplicate ids: the conversion layer validates trees before
// they reach the solver, and a duplicate here means internal corruption.
func New(root *Node, rootID uint32, innerGap, outerGap float64) *Tree {
	t := &Tree{
		nodes:    make(map[uint32]*solverNode),
		rootID:   rootID,
		node:     root,
		innerGap: innerGap,
		outerGap: outerGap,
		gen:      1,
	}
	t.root = t.build(root, rootID, nil)
	t.root.style.FlexBasis = Percent(100)
	t.root.style.Padding = EdgeAll(outerGap)
	return t
}

// build converts one Node into a solver node, reusing entries from reuse
// (id -> previous-generation solver node) when present.
func (t *Tree) build(n *Node, id uint32, reuse map[uint32]*solverNode) *solverNode {
	sn := reuse[id]
	if sn != nil {
		sn.style = n.Style
		sn.children = sn.children[:0]
	} else {
		sn = &solverNode{id: id, style: n.Style, gen: t.gen}
	}
	if prev, ok := t.nodes[id]; ok && prev != sn {
		panic(fmt.Sprintf("layout: duplicate solver node id %d", id))
	}
	t.nodes[id] = sn

	ids := n.ChildIDs()
	if len(ids) == 0 {
		gap := &solverNode{
			id:      id,
			gapLeaf: true,
			gen:     sn.gen,
			style: Style{
				FlexBasis: Percent(100),
				MinWidth:  Fixed(0),
				MinHeight: Fixed(0),
				MaxWidth:  Auto(),
				MaxHeight: Auto(),
				Margin:    EdgeAll(t.innerGap),
			},
		}
		sn.children = append(sn.children, gap)
		return sn
	}
	for _, cid := range ids {
		sn.children = append(sn.children, t.build(n.Child(cid), cid, reuse))
	}
	return sn
}

// ComputeGeos solves the tree against a definite available space and returns
// one rectangle per declared leaf id. Offsets accumulate in floating point
// and are rounded once, at emission.
func (t *Tree) ComputeGeos(width, height int) map[uint32]Rect {
	if t.root == nil {
		panic("layout: ComputeGeos on tree with no root")
	}
	geos := make(map[uint32]Rect)
	t.solve(t.root, 0, 0, float64(width), float64(height), geos)
	return geos
}

// solve lays out n's children inside the border box (x, y, w, h) and emits
// leaf rectangles into geos.
func (t *Tree) solve(n *solverNode, x, y, w, h float64, geos map[uint32]Rect) {
	if len(n.children) == 0 {
		geos[n.id] = roundRect(x, y, w, h)
		return
	}

	// Content box: border box minus padding.
	cx := x + n.style.Padding.Left
	cy := y + n.style.Padding.Top
	cw := math.Max(0, w-n.style.Padding.Horizontal())
	ch := math.Max(0, h-n.style.Padding.Vertical())

	mainAvail := cw
	if n.style.Direction == Column {
		mainAvail = ch
	}

	// Resolve main-axis shares. Fixed bases are carved out first; percent
	// bases become weights; auto bases split whatever share of 100% the
	// declared percentages left over. A single auto child therefore gets the
	// full basis.
	shares := make([]float64, len(n.children))
	weights := make([]float64, len(n.children))
	var weightSum, fixedSum float64
	autoCount := 0
	declaredPct := 0.0
	for i, c := range n.children {
		switch c.style.FlexBasis.Unit {
		case UnitFixed:
			shares[i] = c.style.FlexBasis.Amount
			fixedSum += shares[i]
		case UnitPercent:
			weights[i] = c.style.FlexBasis.Amount
			declaredPct += weights[i]
			weightSum += weights[i]
		default:
			autoCount++
		}
	}
	if autoCount > 0 {
		per := math.Max(0, 100-declaredPct) / float64(autoCount)
		for i, c := range n.children {
			if c.style.FlexBasis.IsAuto() {
				weights[i] = per
				weightSum += per
			}
		}
	}
	flexAvail := math.Max(0, mainAvail-fixedSum)
	for i := range n.children {
		if weights[i] > 0 {
			shares[i] = flexAvail * weights[i] / weightSum
		}
	}

	// Place children along the main axis, stretching on the cross axis.
	offset := 0.0
	for i, c := range n.children {
		var bx, by, bw, bh float64
		if n.style.Direction == Row {
			bx, by = cx+offset, cy
			bw, bh = shares[i], ch
		} else {
			bx, by = cx, cy+offset
			bw, bh = cw, shares[i]
		}
		offset += shares[i]

		// Margin carves the child's border box out of its slot.
		m := c.style.Margin
		bx += m.Left
		by += m.Top
		bw = math.Max(0, bw-m.Horizontal())
		bh = math.Max(0, bh-m.Vertical())

		bw, bh = clampSize(c.style, bw, bh, cw, ch)
		t.solve(c, bx, by, bw, bh, geos)
	}
}

// clampSize applies a child's min/max constraints, resolved against the
// parent's content box.
func clampSize(s Style, w, h, availW, availH float64) (float64, float64) {
	w = math.Max(w, s.MinWidth.Resolve(availW, 0))
	h = math.Max(h, s.MinHeight.Resolve(availH, 0))
	if !s.MaxWidth.IsAuto() {
		w = math.Min(w, s.MaxWidth.Resolve(availW, w))
	}
	if !s.MaxHeight.IsAuto() {
		h = math.Min(h, s.MaxHeight.Resolve(availH, h))
	}
	return w, h
}

// roundRect rounds a float box to integer pixels edge-wise, so adjacent
// rectangles stay gapless after rounding.
func roundRect(x, y, w, h float64) Rect {
	left := int(math.Round(x))
	top := int(math.Round(y))
	return Rect{
		X:      left,
		Y:      top,
		Width:  int(math.Round(x+w)) - left,
		Height: int(math.Round(y+h)) - top,
	}
}

// Diff replaces the tree's content with newRoot, reusing solver nodes for
// ids the differ maps between the previous and the new generation. Ids with
// no counterpart are discarded; an empty mapping degenerates to a full
// rebuild, which is always correct.
func (t *Tree) Diff(newRoot *Node, newRootID uint32) {
	reuse := make(map[uint32]*solverNode)
	if t.node != nil {
		store := diff.ZhangShasha(
			toDiffTree(t.node, t.rootID),
			toDiffTree(newRoot, newRootID),
			diff.DefaultCosts(),
		)
		for _, pair := range store.Pairs() {
			id := pair.Src.Label.(uint32)
			if sn, ok := t.nodes[id]; ok {
				reuse[pair.Dst.Label.(uint32)] = sn
			}
		}
	}

	t.gen++
	t.node = newRoot
	t.rootID = newRootID
	t.nodes = make(map[uint32]*solverNode)
	t.root = t.build(newRoot, newRootID, reuse)
	t.root.style.FlexBasis = Percent(100)
	t.root.style.Padding = EdgeAll(t.outerGap)
}

// toDiffTree adapts a declared layout tree for the differ. The node id is
// the label: two nodes map only when their ids match.
func toDiffTree(n *Node, id uint32) *diff.Node {
	dn := diff.NewNode(id)
	for _, cid := range n.ChildIDs() {
		dn.AddChild(toDiffTree(n.Child(cid), cid))
	}
	return dn
}
