package strata

// Output is one display the core lays windows out on. Each output tracks
// its own layout generation and pending transaction; outputs resolve
// independently of each other.
type Output struct {
	name string

	// geometry is the full output rectangle in global space; usableInsets
	// carves out the exclusive zones claimed by panels and layer surfaces.
	geometry     Rect
	usableInsets Edges

	activeTags map[string]struct{}

	// tree is the solver tree of the current layout generation; layoutGen
	// tags outgoing layout requests so stale responses can be recognized.
	tree      *LayoutTree
	layoutGen uint32

	pending *PendingTransaction
}

// NewOutput creates an output with no geometry. Layout requests against an
// ungeometried output degrade to configure-only until SetGeometry is called.
func NewOutput(name string) *Output {
	return &Output{
		name:       name,
		activeTags: make(map[string]struct{}),
	}
}

// Name returns the output's identity.
func (o *Output) Name() string {
	return o.name
}

// Geometry returns the full output rectangle.
func (o *Output) Geometry() Rect {
	return o.geometry
}

// SetGeometry places the output in global space.
func (o *Output) SetGeometry(rect Rect) {
	o.geometry = rect
}

// SetUsableInsets records the space claimed by exclusive layer surfaces.
func (o *Output) SetUsableInsets(insets Edges) {
	o.usableInsets = insets
}

// UsableZone returns the output area not covered by panels or other
// exclusive layers, the zone maximized and tiled windows occupy.
func (o *Output) UsableZone() Rect {
	return o.geometry.Inset(o.usableInsets)
}

// SetActiveTags replaces the output's active tag set.
func (o *Output) SetActiveTags(tags ...string) {
	o.activeTags = make(map[string]struct{}, len(tags))
	for _, t := range tags {
		o.activeTags[t] = struct{}{}
	}
}

// TagActive reports whether the given tag is active on this output.
func (o *Output) TagActive(tag string) bool {
	_, ok := o.activeTags[tag]
	return ok
}

// PendingTransaction returns the outstanding transaction, or nil.
func (o *Output) PendingTransaction() *PendingTransaction {
	return o.pending
}
