package layout

// Direction specifies the main axis for laying out children.
type Direction uint8

const (
	Row    Direction = iota // Children split space left-to-right
	Column                  // Children split space top-to-bottom
)

// Style contains the layout properties a node declares.
type Style struct {
	// FlexBasis is the proportional share of the parent's content box this
	// node requests. Auto means an even split with auto siblings.
	FlexBasis Value

	// Direction is the main axis along which children are laid out.
	Direction Direction

	// Size constraints, resolved against the parent's content box.
	MinWidth  Value
	MinHeight Value
	MaxWidth  Value
	MaxHeight Value

	// Spacing
	Padding Edges
	Margin  Edges
}

// DefaultStyle returns a Style with sensible defaults: auto basis, row
// direction, no constraints, no spacing.
func DefaultStyle() Style {
	return Style{
		FlexBasis: Auto(),
		MinWidth:  Fixed(0),
		MinHeight: Fixed(0),
		MaxWidth:  Auto(), // No maximum
		MaxHeight: Auto(), // No maximum
		Direction: Row,
	}
}
