package layout

// Unit specifies how a Value is interpreted.
type Unit uint8

const (
	UnitAuto    Unit = iota // Size determined by sibling count
	UnitFixed               // Absolute pixels
	UnitPercent             // Percentage of parent's content box
)

// Value represents a dimension that can be fixed, percentage, or auto.
type Value struct {
	Amount float64
	Unit   Unit
}

// Auto returns a Value that should be computed from the sibling split.
func Auto() Value {
	return Value{Unit: UnitAuto}
}

// Fixed returns a Value representing an absolute number of pixels.
func Fixed(px float64) Value {
	return Value{Amount: px, Unit: UnitFixed}
}

// Percent returns a Value representing a percentage of available space.
// The value is on a 0-100 scale (50.0 = 50%).
func Percent(p float64) Value {
	return Value{Amount: p, Unit: UnitPercent}
}

// Resolve computes the actual value given available space.
// For UnitAuto, returns the fallback value.
func (v Value) Resolve(available, fallback float64) float64 {
	switch v.Unit {
	case UnitFixed:
		return v.Amount
	case UnitPercent:
		return available * v.Amount / 100.0
	default:
		return fallback
	}
}

// IsAuto returns true if this value should be computed from the sibling split.
func (v Value) IsAuto() bool {
	return v.Unit == UnitAuto
}
