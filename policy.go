package strata

import "fmt"

// LayoutRequest asks the layout-policy collaborator for a tree. TreeID tags
// the request generation; the response must echo it so stale answers can be
// dropped after a newer request superseded them.
type LayoutRequest struct {
	OutputName  string
	WindowCount int
	Width       int
	Height      int
	TreeID      uint32
}

// LayoutResponse is the policy's answer: a recursive tree of styles whose
// leaves, in depth-first order, correspond to the tiled windows of the
// request.
type LayoutResponse struct {
	RootNode *LayoutNode
	RootID   uint32
	TreeID   uint32
}

// LayoutPolicy generates layout trees. External policies (configuration
// scripts behind the RPC plane) answer asynchronously by queueing
// Core.ApplyLayoutResponse onto the loop; the built-in policies answer
// inline.
type LayoutPolicy interface {
	Layout(req LayoutRequest) (LayoutResponse, error)
}

// PolicyByName resolves the built-in policy named in the config file.
func PolicyByName(name string) (LayoutPolicy, error) {
	switch name {
	case "even_row":
		return EvenSplitPolicy{Direction: Row}, nil
	case "even_column":
		return EvenSplitPolicy{Direction: Column}, nil
	case "master_stack":
		return MasterStackPolicy{MasterFactor: 0.5}, nil
	case "spiral":
		return SpiralPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown layout policy %q", name)
	}
}

// containerIDBase keeps container ids out of the leaf id range. Leaves are
// numbered 1..n so they stay stable across generations and the differ can
// recognize surviving windows.
const containerIDBase = 1 << 16

// EvenSplitPolicy gives every window an equal share along one axis.
type EvenSplitPolicy struct {
	Direction Direction
}

// Layout implements LayoutPolicy.
func (p EvenSplitPolicy) Layout(req LayoutRequest) (LayoutResponse, error) {
	root := NewLayoutNode(LayoutStyle{Direction: p.Direction})
	share := 100.0 / float64(max(req.WindowCount, 1))
	for i := 1; i <= req.WindowCount; i++ {
		style := DefaultLayoutStyle()
		style.FlexBasis = Percent(share)
		root.AddChild(uint32(i), NewLayoutNode(style))
	}
	return LayoutResponse{RootNode: root, RootID: 0, TreeID: req.TreeID}, nil
}

// MasterStackPolicy puts the first window in a master column and stacks the
// rest beside it.
type MasterStackPolicy struct {
	// MasterFactor is the master column's share of the width, (0, 1).
	MasterFactor float64
}

// Layout implements LayoutPolicy.
func (p MasterStackPolicy) Layout(req LayoutRequest) (LayoutResponse, error) {
	root := NewLayoutNode(LayoutStyle{Direction: Row})
	if req.WindowCount <= 0 {
		return LayoutResponse{RootNode: root, RootID: 0, TreeID: req.TreeID}, nil
	}

	factor := p.MasterFactor
	if factor <= 0 || factor >= 1 {
		factor = 0.5
	}

	master := DefaultLayoutStyle()
	if req.WindowCount == 1 {
		master.FlexBasis = Percent(100)
		root.AddChild(1, NewLayoutNode(master))
		return LayoutResponse{RootNode: root, RootID: 0, TreeID: req.TreeID}, nil
	}

	master.FlexBasis = Percent(factor * 100)
	root.AddChild(1, NewLayoutNode(master))

	stack := NewLayoutNode(LayoutStyle{
		FlexBasis: Percent((1 - factor) * 100),
		Direction: Column,
	})
	share := 100.0 / float64(req.WindowCount-1)
	for i := 2; i <= req.WindowCount; i++ {
		style := DefaultLayoutStyle()
		style.FlexBasis = Percent(share)
		stack.AddChild(uint32(i), NewLayoutNode(style))
	}
	root.AddChild(containerIDBase, stack)
	return LayoutResponse{RootNode: root, RootID: 0, TreeID: req.TreeID}, nil
}

// SpiralPolicy halves the remaining space for each window, alternating
// between vertical and horizontal splits (dwindle).
type SpiralPolicy struct{}

// Layout implements LayoutPolicy.
func (p SpiralPolicy) Layout(req LayoutRequest) (LayoutResponse, error) {
	root := NewLayoutNode(LayoutStyle{Direction: Row})
	if req.WindowCount <= 0 {
		return LayoutResponse{RootNode: root, RootID: 0, TreeID: req.TreeID}, nil
	}
	buildSpiral(root, 1, req.WindowCount, Row)
	return LayoutResponse{RootNode: root, RootID: 0, TreeID: req.TreeID}, nil
}

// buildSpiral adds window leaves next..count under parent, recursing into a
// cross-direction container for the remainder.
func buildSpiral(parent *LayoutNode, next, count int, dir Direction) {
	remaining := count - next + 1
	leafStyle := DefaultLayoutStyle()
	if remaining == 1 {
		leafStyle.FlexBasis = Percent(100)
		parent.AddChild(uint32(next), NewLayoutNode(leafStyle))
		return
	}

	leafStyle.FlexBasis = Percent(50)
	parent.AddChild(uint32(next), NewLayoutNode(leafStyle))

	cross := Column
	if dir == Column {
		cross = Row
	}
	inner := NewLayoutNode(LayoutStyle{
		FlexBasis: Percent(50),
		Direction: cross,
	})
	parent.AddChild(uint32(containerIDBase+next), inner)
	buildSpiral(inner, next+1, count, cross)
}
