package strata

import "fmt"

// Mode is a window's placement state.
type Mode uint8

const (
	// ModeTiled windows get their geometry from the layout tree.
	ModeTiled Mode = iota
	// ModeFloating windows keep a remembered free-form rectangle.
	ModeFloating
	// ModeMaximized windows fill the output's usable zone.
	ModeMaximized
	// ModeFullscreen windows fill the whole output.
	ModeFullscreen
	// ModeSpilled marks a window that was tiled but currently can't be
	// (its tag went inactive); the previous mode is remembered.
	ModeSpilled
)

func (m Mode) String() string {
	switch m {
	case ModeTiled:
		return "tiled"
	case ModeFloating:
		return "floating"
	case ModeMaximized:
		return "maximized"
	case ModeFullscreen:
		return "fullscreen"
	case ModeSpilled:
		return "spilled"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// LayoutMode tracks a window's placement state plus the mode a spilled
// window restores to once tiling becomes possible again.
type LayoutMode struct {
	mode    Mode
	restore Mode // meaningful only while mode == ModeSpilled
}

// NewLayoutMode returns a LayoutMode in the given state.
func NewLayoutMode(mode Mode) LayoutMode {
	return LayoutMode{mode: mode}
}

// Current returns the present placement state.
func (m LayoutMode) Current() Mode {
	return m.mode
}

// IsTiled reports whether the window participates in tiling right now.
func (m LayoutMode) IsTiled() bool {
	return m.mode == ModeTiled
}

// Set transitions to a plain mode. Transitioning away from spilled drops
// the remembered restore mode; use Unspill to restore it instead.
func (m *LayoutMode) Set(mode Mode) {
	if mode == ModeSpilled {
		m.Spill()
		return
	}
	m.mode = mode
	m.restore = 0
}

// Spill captures the present mode and enters the spilled state. Spilling an
// already-spilled window keeps the original restore mode.
func (m *LayoutMode) Spill() {
	if m.mode == ModeSpilled {
		return
	}
	m.restore = m.mode
	m.mode = ModeSpilled
}

// Unspill restores the mode remembered at spill time. No-op for windows
// that aren't spilled.
func (m *LayoutMode) Unspill() {
	if m.mode != ModeSpilled {
		return
	}
	m.mode = m.restore
	m.restore = 0
}
