package strata

import (
	"fmt"
	"sync/atomic"
)

// WindowID identifies a window for the lifetime of the session.
type WindowID uint32

var nextWindowID atomic.Uint32

// Serial is a monotonically increasing number attached to a configure
// request; the client echoes it back to acknowledge that exact state.
type Serial uint32

// WindowKind distinguishes the two window flavors the compositor manages.
// The core dispatches on it explicitly instead of hiding the variants
// behind a shared interface, since the set is closed.
type WindowKind uint8

const (
	// KindXDG is a Wayland-native toplevel; geometry changes round-trip
	// through a configure/ack handshake.
	KindXDG WindowKind = iota
	// KindX11 is an Xwayland client; X11 has no configure serials, so
	// geometry applies without a round-trip.
	KindX11
)

// XDGToplevel is the protocol-layer collaborator backing a Wayland-native
// window. Configure requests the client commit at the pending geometry and
// reports the serial to await, or false when no round-trip is needed (the
// client is already at the target state).
type XDGToplevel interface {
	Configure(rect Rect) (Serial, bool)
	Alive() bool
}

// X11Surface is the collaborator backing an Xwayland window.
type X11Surface interface {
	Configure(rect Rect)
	Alive() bool
}

// WindowState is the per-window layout state the core owns: placement mode,
// committed geometry, the remembered floating rectangle, the rect latched to
// apply with the next full solve, the window's tags, and tree position.
type WindowState struct {
	Mode     LayoutMode
	Geometry Rect

	// FloatingRect remembers the free-form location/size across mode
	// round-trips; nil until the window first floats.
	FloatingRect *Rect

	// PendingLatched is a target rect queued to apply together with the
	// next full tree solve instead of immediately.
	PendingLatched *Rect

	Tags   []string
	Output *Output
	Parent *Window
}

// Window is one managed window: an opaque identity, the tagged protocol
// variant behind it, the core-owned layout state, and the transaction
// handles outstanding per configure serial.
type Window struct {
	id   WindowID
	kind WindowKind
	xdg  XDGToplevel
	x11  X11Surface

	state   WindowState
	pending map[Serial]*Transaction
}

// NewXDGWindow wraps a Wayland-native toplevel.
func NewXDGWindow(surface XDGToplevel) *Window {
	return &Window{
		id:      WindowID(nextWindowID.Add(1)),
		kind:    KindXDG,
		xdg:     surface,
		pending: make(map[Serial]*Transaction),
	}
}

// NewX11Window wraps an Xwayland surface.
func NewX11Window(surface X11Surface) *Window {
	return &Window{
		id:      WindowID(nextWindowID.Add(1)),
		kind:    KindX11,
		x11:     surface,
		pending: make(map[Serial]*Transaction),
	}
}

// ID returns the window's session-unique identity.
func (w *Window) ID() WindowID {
	return w.id
}

// Kind returns the protocol variant backing the window.
func (w *Window) Kind() WindowKind {
	return w.kind
}

// Configure asks the client to commit at the given geometry. The boolean
// reports whether an acknowledgment round-trip is needed for the returned
// serial.
func (w *Window) Configure(rect Rect) (Serial, bool) {
	switch w.kind {
	case KindXDG:
		return w.xdg.Configure(rect)
	case KindX11:
		w.x11.Configure(rect)
		return 0, false
	default:
		panic(fmt.Sprintf("strata: unknown window kind %d", w.kind))
	}
}

// Alive reports whether the client behind the window still exists.
func (w *Window) Alive() bool {
	switch w.kind {
	case KindXDG:
		return w.xdg.Alive()
	case KindX11:
		return w.x11.Alive()
	default:
		panic(fmt.Sprintf("strata: unknown window kind %d", w.kind))
	}
}

// WithState gives scoped mutable access to the per-window layout state.
func (w *Window) WithState(fn func(*WindowState)) {
	fn(&w.state)
}

// Geometry returns the window's committed geometry.
func (w *Window) Geometry() Rect {
	return w.state.Geometry
}

// attachTransaction keys a transaction handle to the configure serial whose
// acknowledgment releases it.
func (w *Window) attachTransaction(serial Serial, txn *Transaction) {
	// A newer configure for the same serial supersedes the old handle.
	if old, ok := w.pending[serial]; ok {
		old.Release()
	}
	w.pending[serial] = txn
}

// AckConfigure records that the client acknowledged the given serial,
// releasing every transaction handle waiting on that serial or an earlier
// one.
func (w *Window) AckConfigure(serial Serial) {
	for s, txn := range w.pending {
		if s <= serial {
			txn.Release()
			delete(w.pending, s)
		}
	}
}

// OnTag reports whether the window carries the given tag.
func (w *Window) OnTag(tag string) bool {
	for _, t := range w.state.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
