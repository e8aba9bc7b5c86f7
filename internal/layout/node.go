package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidTree reports a structurally invalid layout description from the
// policy collaborator. Callers drop the malformed tree rather than applying
// it partially.
var ErrInvalidTree = errors.New("layout: invalid tree")

// Node is one node of a client-declared layout tree: a style plus an
// insertion-ordered mapping from child id to child node. Nodes are built
// fresh from every policy response and never mutated afterward.
type Node struct {
	Style Style

	order    []uint32
	children map[uint32]*Node
}

// NewNode creates a childless Node with the given style.
func NewNode(style Style) *Node {
	return &Node{Style: style}
}

// AddChild appends a child under the given id, preserving insertion order.
// Adding a duplicate id within one parent panics: ids are assigned by the
// conversion layer, which has already validated them.
func (n *Node) AddChild(id uint32, child *Node) {
	if n.children == nil {
		n.children = make(map[uint32]*Node)
	}
	if _, ok := n.children[id]; ok {
		panic(fmt.Sprintf("layout: duplicate child id %d", id))
	}
	n.order = append(n.order, id)
	n.children[id] = child
}

// ChildIDs returns the child ids in insertion order.
func (n *Node) ChildIDs() []uint32 {
	return n.order
}

// Child returns the child registered under id, or nil.
func (n *Node) Child(id uint32) *Node {
	return n.children[id]
}

// LeafIDs returns the ids of all leaves in the subtree rooted at n, in
// depth-first insertion order. The root's own id is supplied by the caller
// since a Node does not know its id.
func (n *Node) LeafIDs(selfID uint32) []uint32 {
	if len(n.order) == 0 {
		return []uint32{selfID}
	}
	var out []uint32
	for _, id := range n.order {
		out = append(out, n.children[id].LeafIDs(id)...)
	}
	return out
}

// Validate checks that every id in the subtree (including rootID) is unique.
// A violated invariant means the upstream collaborator produced a malformed
// tree; the caller must discard it.
func (n *Node) Validate(rootID uint32) error {
	seen := make(map[uint32]struct{})
	return n.validate(rootID, seen)
}

func (n *Node) validate(id uint32, seen map[uint32]struct{}) error {
	if n == nil {
		return fmt.Errorf("%w: nil node for id %d", ErrInvalidTree, id)
	}
	if _, dup := seen[id]; dup {
		return fmt.Errorf("%w: duplicate node id %d", ErrInvalidTree, id)
	}
	seen[id] = struct{}{}
	for _, cid := range n.order {
		if err := n.children[cid].validate(cid, seen); err != nil {
			return err
		}
	}
	return nil
}
