package diff

import "testing"

// leaf builds a childless node; branch builds an interior node.
func leaf(label any) *Node { return NewNode(label) }

func branch(label any, children ...*Node) *Node {
	n := NewNode(label)
	n.AddChild(children...)
	return n
}

func TestIndex_PostOrderAndLLD(t *testing.T) {
	// Classic Zhang-Shasha example shape:
	//        f
	//       / \
	//      d   e
	//     / \
	//    a   c
	//        |
	//        b
	root := branch("f",
		branch("d",
			leaf("a"),
			branch("c", leaf("b")),
		),
		leaf("e"),
	)

	ix := index(root)
	wantOrder := []any{"a", "b", "c", "d", "e", "f"}
	if ix.size() != len(wantOrder) {
		t.Fatalf("size = %d, want %d", ix.size(), len(wantOrder))
	}
	for i, want := range wantOrder {
		if ix.nodes[i+1].Label != want {
			t.Errorf("postorder[%d] = %v, want %v", i+1, ix.nodes[i+1].Label, want)
		}
	}

	wantLLD := []int{1, 2, 2, 1, 5, 1}
	for i, want := range wantLLD {
		if ix.lld[i+1] != want {
			t.Errorf("lld[%d] = %d, want %d", i+1, ix.lld[i+1], want)
		}
	}

	// Keyroots: nodes whose lld is unseen scanning right-to-left: f(6), e(5), c(3).
	wantKeyroots := []int{3, 5, 6}
	if len(ix.keyroots) != len(wantKeyroots) {
		t.Fatalf("keyroots = %v, want %v", ix.keyroots, wantKeyroots)
	}
	for i, want := range wantKeyroots {
		if ix.keyroots[i] != want {
			t.Errorf("keyroots[%d] = %d, want %d", i, ix.keyroots[i], want)
		}
	}
}

func TestZhangShasha_IdenticalTrees_FullMapping(t *testing.T) {
	build := func() *Node {
		return branch(uint32(1),
			branch(uint32(2), leaf(uint32(4)), leaf(uint32(5))),
			leaf(uint32(3)),
		)
	}
	src, dst := build(), build()

	store := ZhangShasha(src, dst, DefaultCosts())

	if store.Len() != src.Size() {
		t.Fatalf("mapping covers %d of %d nodes", store.Len(), src.Size())
	}
	for _, pair := range store.Pairs() {
		if pair.Src.Label != pair.Dst.Label {
			t.Errorf("mapped %v to %v, want identical labels", pair.Src.Label, pair.Dst.Label)
		}
	}
}

func TestZhangShasha_InsertedNode_PreservesSurvivors(t *testing.T) {
	src := branch(uint32(1), leaf(uint32(2)), leaf(uint32(3)))
	dst := branch(uint32(1), leaf(uint32(2)), leaf(uint32(3)), leaf(uint32(4)))

	store := ZhangShasha(src, dst, DefaultCosts())

	if store.Len() != 3 {
		t.Fatalf("mapping covers %d nodes, want 3", store.Len())
	}
	for _, id := range []uint32{1, 2, 3} {
		found := false
		for _, pair := range store.Pairs() {
			if pair.Src.Label == id && pair.Dst.Label == id {
				found = true
			}
		}
		if !found {
			t.Errorf("surviving node %d not mapped", id)
		}
	}
}

func TestZhangShasha_RemovedSubtree(t *testing.T) {
	src := branch(uint32(1),
		branch(uint32(2), leaf(uint32(4)), leaf(uint32(5))),
		leaf(uint32(3)),
	)
	dst := branch(uint32(1), leaf(uint32(3)))

	store := ZhangShasha(src, dst, DefaultCosts())

	if store.Len() != 2 {
		t.Fatalf("mapping covers %d nodes, want 2", store.Len())
	}
	for _, pair := range store.Pairs() {
		id := pair.Src.Label.(uint32)
		if id != 1 && id != 3 {
			t.Errorf("unexpected mapping for removed node %d", id)
		}
	}
}

func TestZhangShasha_RelabeledNodesNotMapped(t *testing.T) {
	src := branch(uint32(1), leaf(uint32(2)))
	dst := branch(uint32(1), leaf(uint32(7)))

	store := ZhangShasha(src, dst, DefaultCosts())

	for _, pair := range store.Pairs() {
		if pair.Src.Label != pair.Dst.Label {
			t.Errorf("inadmissible mapping %v -> %v", pair.Src.Label, pair.Dst.Label)
		}
	}
	if store.Len() != 1 {
		t.Errorf("mapping covers %d nodes, want just the root", store.Len())
	}
}

func TestZhangShasha_SingleNodes(t *testing.T) {
	type tc struct {
		srcLabel any
		dstLabel any
		want     int
	}

	tests := map[string]tc{
		"equal labels map":     {srcLabel: uint32(9), dstLabel: uint32(9), want: 1},
		"unequal labels don't": {srcLabel: uint32(9), dstLabel: uint32(8), want: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := ZhangShasha(leaf(tt.srcLabel), leaf(tt.dstLabel), DefaultCosts())
			if store.Len() != tt.want {
				t.Errorf("mapping covers %d nodes, want %d", store.Len(), tt.want)
			}
		})
	}
}

func TestMappingStore_FirstMappingWins(t *testing.T) {
	a, b, c := leaf("a"), leaf("b"), leaf("c")

	store := NewMappingStore()
	store.Add(a, b)
	store.Add(a, c)

	if store.Len() != 1 {
		t.Fatalf("store has %d pairs, want 1", store.Len())
	}
	if store.Dst(a) != b {
		t.Error("second Add overwrote existing mapping")
	}
	if store.Src(c) != nil {
		t.Error("rejected mapping left a reverse entry")
	}
}
