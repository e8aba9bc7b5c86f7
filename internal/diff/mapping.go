package diff

// Node is one node of a labeled ordered tree handed to the differ. The
// label's meaning is the caller's business; the differ only ever compares
// labels through the cost functions.
type Node struct {
	Label    any
	Children []*Node
}

// NewNode creates a childless node with the given label.
func NewNode(label any) *Node {
	return &Node{Label: label}
}

// AddChild appends children in order.
func (n *Node) AddChild(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node) Size() int {
	total := 1
	for _, c := range n.Children {
		total += c.Size()
	}
	return total
}

// Pair is one (source node, destination node) correspondence.
type Pair struct {
	Src, Dst *Node
}

// MappingStore holds the node correspondences produced by a diff. Entries
// are relations, not ownership: both trees outlive the store.
type MappingStore struct {
	pairs    []Pair
	srcToDst map[*Node]*Node
	dstToSrc map[*Node]*Node
}

// NewMappingStore returns an empty store.
func NewMappingStore() *MappingStore {
	return &MappingStore{
		srcToDst: make(map[*Node]*Node),
		dstToSrc: make(map[*Node]*Node),
	}
}

// Add records a correspondence. Later additions for an already-mapped node
// are ignored; the first mapping wins.
func (m *MappingStore) Add(src, dst *Node) {
	if _, ok := m.srcToDst[src]; ok {
		return
	}
	if _, ok := m.dstToSrc[dst]; ok {
		return
	}
	m.pairs = append(m.pairs, Pair{Src: src, Dst: dst})
	m.srcToDst[src] = dst
	m.dstToSrc[dst] = src
}

// Dst returns the destination node mapped to src, or nil.
func (m *MappingStore) Dst(src *Node) *Node {
	return m.srcToDst[src]
}

// Src returns the source node mapped to dst, or nil.
func (m *MappingStore) Src(dst *Node) *Node {
	return m.dstToSrc[dst]
}

// Pairs returns every recorded correspondence.
func (m *MappingStore) Pairs() []Pair {
	return m.pairs
}

// Len returns the number of recorded correspondences.
func (m *MappingStore) Len() int {
	return len(m.pairs)
}
