package diff

// Costs supplies the pluggable edit costs. Insert and Remove price adding or
// dropping a single node; Update prices relabeling a source node into a
// destination node; LabelsEqual decides whether a computed correspondence is
// admissible as a mapping at all; nodes with unequal labels are treated as
// a pure insert+delete even when the DP pairs them.
type Costs struct {
	Insert      func(*Node) float64
	Remove      func(*Node) float64
	Update      func(src, dst *Node) float64
	LabelsEqual func(src, dst *Node) bool
}

// DefaultCosts returns unit insert/remove costs, a zero-or-one update cost,
// and label equality via ==.
func DefaultCosts() Costs {
	eq := func(a, b *Node) bool { return a.Label == b.Label }
	return Costs{
		Insert: func(*Node) float64 { return 1 },
		Remove: func(*Node) float64 { return 1 },
		Update: func(a, b *Node) float64 {
			if eq(a, b) {
				return 0
			}
			return 1
		},
		LabelsEqual: eq,
	}
}

// indexed is one tree prepared for the DP: nodes in post order (1-based),
// each node's leftmost leaf descendant, and the keyroots: nodes whose
// leftmost-leaf set is not shared with any node to their right in post
// order. Restricting the DP to keyroot pairs is what keeps the table count
// linear in tree size.
type indexed struct {
	nodes    []*Node // 1-based post order; index 0 unused
	lld      []int   // 1-based: lld[i] is the post-order index of i's leftmost leaf
	keyroots []int   // ascending
}

func index(root *Node) *indexed {
	ix := &indexed{nodes: []*Node{nil}, lld: []int{0}}
	ix.walk(root)

	seen := make(map[int]bool)
	for i := len(ix.nodes) - 1; i >= 1; i-- {
		if !seen[ix.lld[i]] {
			seen[ix.lld[i]] = true
			ix.keyroots = append(ix.keyroots, i)
		}
	}
	// Reverse into ascending order.
	for a, b := 0, len(ix.keyroots)-1; a < b; a, b = a+1, b-1 {
		ix.keyroots[a], ix.keyroots[b] = ix.keyroots[b], ix.keyroots[a]
	}
	return ix
}

// walk appends the subtree in post order and returns the subtree's
// leftmost-leaf index.
func (ix *indexed) walk(n *Node) int {
	if len(n.Children) == 0 {
		ix.nodes = append(ix.nodes, n)
		ix.lld = append(ix.lld, len(ix.nodes)-1)
		return len(ix.nodes) - 1
	}
	leftmost := 0
	for i, c := range n.Children {
		l := ix.walk(c)
		if i == 0 {
			leftmost = l
		}
	}
	ix.nodes = append(ix.nodes, n)
	ix.lld = append(ix.lld, leftmost)
	return leftmost
}

func (ix *indexed) size() int {
	return len(ix.nodes) - 1
}

type zs struct {
	t1, t2 *indexed
	costs  Costs
	td     [][]float64 // whole-subtree distance cache
}

// ZhangShasha computes the minimum-cost edit mapping between src and dst and
// returns the node correspondences admissible under costs.LabelsEqual. An
// empty store means "rebuild everything", which is always a correct
// interpretation for the caller.
func ZhangShasha(src, dst *Node, costs Costs) *MappingStore {
	z := &zs{t1: index(src), t2: index(dst), costs: costs}
	n1, n2 := z.t1.size(), z.t2.size()
	z.td = make([][]float64, n1+1)
	for i := range z.td {
		z.td[i] = make([]float64, n2+1)
	}

	for _, i := range z.t1.keyroots {
		for _, j := range z.t2.keyroots {
			z.forestDist(i, j)
		}
	}
	return z.backtrack()
}

// forestDist fills the forest-distance table for the keyroot pair (i, j) and
// records whole-subtree distances into the tree-distance cache. The returned
// table is indexed absolutely by post-order position; row lld(i)-1 and
// column lld(j)-1 are the empty-forest boundaries.
func (z *zs) forestDist(i, j int) [][]float64 {
	fd := make([][]float64, z.t1.size()+1)
	for r := range fd {
		fd[r] = make([]float64, z.t2.size()+1)
	}
	li, lj := z.t1.lld[i], z.t2.lld[j]

	fd[li-1][lj-1] = 0
	for di := li; di <= i; di++ {
		fd[di][lj-1] = fd[di-1][lj-1] + z.costs.Remove(z.t1.nodes[di])
	}
	for dj := lj; dj <= j; dj++ {
		fd[li-1][dj] = fd[li-1][dj-1] + z.costs.Insert(z.t2.nodes[dj])
	}

	for di := li; di <= i; di++ {
		for dj := lj; dj <= j; dj++ {
			rm := fd[di-1][dj] + z.costs.Remove(z.t1.nodes[di])
			ins := fd[di][dj-1] + z.costs.Insert(z.t2.nodes[dj])
			if z.t1.lld[di] == li && z.t2.lld[dj] == lj {
				// Both prefixes are whole subtrees: the update move is legal
				// and the result doubles as the subtree distance.
				upd := fd[di-1][dj-1] + z.costs.Update(z.t1.nodes[di], z.t2.nodes[dj])
				fd[di][dj] = min(rm, ins, upd)
				z.td[di][dj] = fd[di][dj]
			} else {
				fd[di][dj] = min(rm, ins,
					fd[z.t1.lld[di]-1][z.t2.lld[dj]-1]+z.td[di][dj])
			}
		}
	}
	return fd
}

// backtrack reconstructs the edit script from the forest-distance tables,
// preferring a vertical move (delete from src), then a horizontal move
// (insert into dst), then a direct mapping when both nodes' leftmost
// descendant ranges align with the current forest pair. Misaligned pairs are
// pushed back onto the work queue and resolved as independent forests.
func (z *zs) backtrack() *MappingStore {
	store := NewMappingStore()
	n1, n2 := z.t1.size(), z.t2.size()
	if n1 == 0 || n2 == 0 {
		return store
	}

	type forestPair struct{ row, col int }
	queue := []forestPair{{n1, n2}}

	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		fd := z.forestDist(p.row, p.col)
		firstRow := z.t1.lld[p.row] - 1
		firstCol := z.t2.lld[p.col] - 1

		row, col := p.row, p.col
		for row > firstRow || col > firstCol {
			switch {
			case row > firstRow &&
				fd[row-1][col]+z.costs.Remove(z.t1.nodes[row]) == fd[row][col]:
				row--
			case col > firstCol &&
				fd[row][col-1]+z.costs.Insert(z.t2.nodes[col]) == fd[row][col]:
				col--
			default:
				if z.t1.lld[row] == z.t1.lld[p.row] && z.t2.lld[col] == z.t2.lld[p.col] {
					if z.costs.LabelsEqual(z.t1.nodes[row], z.t2.nodes[col]) {
						store.Add(z.t1.nodes[row], z.t2.nodes[col])
					}
					row--
					col--
				} else {
					queue = append(queue, forestPair{row, col})
					row = z.t1.lld[row] - 1
					col = z.t2.lld[col] - 1
				}
			}
		}
	}
	return store
}
