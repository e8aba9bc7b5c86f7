package strata

import (
	"github.com/charmbracelet/log"
)

// Core owns the shared window list and drives layout. It is constructed
// once per compositor session with its collaborators injected (there are
// no process-wide registries) and must only be touched from the loop
// goroutine.
type Core struct {
	loop   *Loop
	cfg    *Config
	policy LayoutPolicy

	outputs map[string]*Output
	windows []*Window

	// unmapping collects snapshots of windows that closed since the last
	// solve; the next transaction owns them until it completes.
	unmapping map[string][]*Snapshot
}

// NewCore wires a layout core to its loop, config, and layout policy.
func NewCore(loop *Loop, cfg *Config, policy LayoutPolicy) *Core {
	return &Core{
		loop:      loop,
		cfg:       cfg,
		policy:    policy,
		outputs:   make(map[string]*Output),
		unmapping: make(map[string][]*Snapshot),
	}
}

// AddOutput registers an output.
func (c *Core) AddOutput(out *Output) {
	c.outputs[out.Name()] = out
}

// Output returns the output registered under name, or nil.
func (c *Core) Output(name string) *Output {
	return c.outputs[name]
}

// AddWindow maps a window onto an output with the given tags and, if it
// tiles, triggers a re-layout there.
func (c *Core) AddWindow(win *Window, out *Output, tags ...string) {
	win.WithState(func(s *WindowState) {
		s.Output = out
		s.Tags = tags
	})
	c.windows = append(c.windows, win)
	if win.state.Mode.IsTiled() {
		c.RequestLayout(out)
	}
}

// RemoveWindow unmaps a window. Its last geometry is snapshotted so the
// re-layout transaction can keep a crossfade source alive, then tiling is
// recomputed without it.
func (c *Core) RemoveWindow(win *Window) {
	idx := -1
	for i, w := range c.windows {
		if w == win {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	c.windows = append(c.windows[:idx], c.windows[idx+1:]...)

	out := win.state.Output
	if out == nil {
		return
	}
	c.unmapping[out.Name()] = append(c.unmapping[out.Name()], &Snapshot{
		WindowID: win.ID(),
		Geometry: win.Geometry(),
	})
	if win.state.Mode.IsTiled() {
		c.RequestLayout(out)
	}
}

// Windows returns the shared window list in stacking order.
func (c *Core) Windows() []*Window {
	return c.windows
}

// onActiveTag reports whether the window is visible: mapped to an output
// with at least one of its tags active.
func (c *Core) onActiveTag(win *Window) bool {
	out := win.state.Output
	if out == nil {
		return false
	}
	for _, tag := range win.state.Tags {
		if out.TagActive(tag) {
			return true
		}
	}
	return false
}

// tiledWindows returns the windows tiling on out, in stacking order.
func (c *Core) tiledWindows(out *Output) []*Window {
	var tiled []*Window
	for _, win := range c.windows {
		if win.state.Output == out && win.state.Mode.IsTiled() && c.onActiveTag(win) {
			tiled = append(tiled, win)
		}
	}
	return tiled
}

// RequestLayout asks the policy for a fresh tree covering out's tiled
// windows and applies the answer. Requests against an output with no known
// geometry are logged and dropped; the windows keep their last geometry.
func (c *Core) RequestLayout(out *Output) {
	if out == nil {
		log.Error("layout requested with no output")
		return
	}
	if out.Geometry().IsEmpty() {
		log.Error("layout requested for ungeometried output", "output", out.Name())
		return
	}

	usable := out.UsableZone()
	out.layoutGen++
	req := LayoutRequest{
		OutputName:  out.Name(),
		WindowCount: len(c.tiledWindows(out)),
		Width:       usable.Width,
		Height:      usable.Height,
		TreeID:      out.layoutGen,
	}
	resp, err := c.policy.Layout(req)
	if err != nil {
		log.Error("layout policy failed", "output", out.Name(), "err", err)
		return
	}
	c.ApplyLayoutResponse(out, resp)
}

// ApplyLayoutResponse feeds a policy response into the output's constraint
// tree and commits the resulting geometry through a transaction. Responses
// for superseded generations and structurally invalid trees are dropped
// whole; a malformed tree is never partially applied.
func (c *Core) ApplyLayoutResponse(out *Output, resp LayoutResponse) {
	if resp.TreeID != out.layoutGen {
		log.Debug("dropping stale layout response",
			"output", out.Name(), "got", resp.TreeID, "want", out.layoutGen)
		return
	}
	if err := resp.RootNode.Validate(resp.RootID); err != nil {
		log.Error("dropping invalid layout tree", "output", out.Name(), "err", err)
		return
	}

	if out.tree == nil {
		out.tree = NewLayoutTree(resp.RootNode, resp.RootID, c.cfg.InnerGap, c.cfg.OuterGap)
	} else {
		out.tree.Diff(resp.RootNode, resp.RootID)
	}

	usable := out.UsableZone()
	geos := out.tree.ComputeGeos(usable.Width, usable.Height)
	leafIDs := resp.RootNode.LeafIDs(resp.RootID)
	tiled := c.tiledWindows(out)
	if len(leafIDs) != len(tiled) {
		log.Error("layout tree leaf count mismatch",
			"output", out.Name(), "leaves", len(leafIDs), "windows", len(tiled))
	}

	builder := c.newTransaction(out)

	for i, win := range tiled {
		if i >= len(leafIDs) {
			break
		}
		rect, ok := geos[leafIDs[i]]
		if !ok {
			log.Error("no geometry for leaf", "leaf", leafIDs[i])
			continue
		}
		rect.X += usable.X
		rect.Y += usable.Y
		c.addToTransaction(builder, win, rect)
	}

	// Mode changes latched while the solve was pending ride this commit.
	for _, win := range c.windows {
		if win.state.Output != out || win.state.PendingLatched == nil {
			continue
		}
		rect := *win.state.PendingLatched
		win.state.PendingLatched = nil
		c.addToTransaction(builder, win, rect)
	}

	snapshots := c.unmapping[out.Name()]
	c.unmapping[out.Name()] = nil
	c.commit(out, builder, snapshots)
}

// newTransaction starts a builder whose completion applies geometry, but
// only if the transaction is still the output's current one by then. A
// superseded generation completing late must not clobber newer geometry.
func (c *Core) newTransaction(out *Output) *TransactionBuilder {
	return NewTransactionBuilder().
		WithDeadline(c.cfg.TransactionDeadline()).
		OnComplete(func(pt *PendingTransaction) {
			if out.pending != pt {
				log.Debug("skipping superseded transaction", "output", out.Name())
				return
			}
			c.applyCompleted(out, pt)
		})
}

// commit publishes the built transaction as the output's pending one and
// flushes it in case nothing needed a client round-trip.
func (c *Core) commit(out *Output, b *TransactionBuilder, snapshots []*Snapshot) {
	pt := b.IntoPending(snapshots)
	out.pending = pt
	pt.Flush()
}

// addToTransaction sends the configure for one target rect and registers it
// with the builder, with or without an ack handle as the client requires.
func (c *Core) addToTransaction(b *TransactionBuilder, win *Window, rect Rect) {
	if serial, need := win.Configure(rect); need {
		b.Add(win, rect, &serial, c.loop)
	} else {
		b.Add(win, rect, nil, c.loop)
	}
}

// applyCompleted moves every target window at once. This is the only place
// tiled geometry becomes visible, so windows never tear across a commit.
func (c *Core) applyCompleted(out *Output, pt *PendingTransaction) {
	pt.ForEachTarget(func(win *Window, target Rect) {
		win.WithState(func(s *WindowState) {
			s.Geometry = target
			if s.Mode.Current() == ModeFloating {
				remembered := target
				s.FloatingRect = &remembered
			}
		})
	})
	if out.pending == pt {
		out.pending = nil
	}
	log.Debug("geometry committed", "output", out.Name(), "windows", len(pt.order))
}

// PruneCancelledTransaction discards out's pending transaction if a target
// window died before completion, instead of waiting out the deadline. The
// transaction machinery only reports mootness; this is the polling caller.
func (c *Core) PruneCancelledTransaction(out *Output) bool {
	if out.pending == nil || !out.pending.IsCancelled() {
		return false
	}
	log.Debug("discarding cancelled transaction", "output", out.Name())
	out.pending = nil
	c.RequestLayout(out)
	return true
}

// UpdateLayoutModeAndLayout applies mutate to win's layout mode and then
// either re-solves the tree (when tiling participation changed) or
// repositions the window locally through a single-window transaction.
func (c *Core) UpdateLayoutModeAndLayout(win *Window, mutate func(*LayoutMode)) {
	var oldMode, newMode LayoutMode
	win.WithState(func(s *WindowState) {
		oldMode = s.Mode
		mutate(&s.Mode)
		newMode = s.Mode
	})

	// A full re-solve is only needed when tiling participation changes;
	// float/maximize/fullscreen changes among non-tiled states resolve
	// locally.
	layoutNeedsUpdate := oldMode.Current() != newMode.Current() &&
		(oldMode.IsTiled() || newMode.IsTiled())

	out := win.state.Output
	if out == nil || out.Geometry().IsEmpty() {
		log.Error("mode change with unusable output",
			"window", win.ID(), "mode", newMode.Current())
		// Degrade to re-sending the configure at the last known geometry.
		win.Configure(win.Geometry())
		return
	}

	target := c.targetRect(win, newMode, out)

	if !c.onActiveTag(win) {
		// Invisible windows don't need synchronized application.
		if target != nil {
			win.WithState(func(s *WindowState) { s.Geometry = *target })
		}
		return
	}

	if layoutNeedsUpdate {
		if target != nil {
			win.WithState(func(s *WindowState) { s.PendingLatched = target })
		}
		c.RequestLayout(out)
		return
	}

	if target == nil {
		return
	}
	builder := c.newTransaction(out)
	c.addToTransaction(builder, win, *target)
	c.commit(out, builder, nil)
}

// targetRect computes where a window belongs in its new mode. Tiled windows
// return nil: their geometry comes from the next tree solve.
func (c *Core) targetRect(win *Window, mode LayoutMode, out *Output) *Rect {
	switch mode.Current() {
	case ModeTiled:
		return nil
	case ModeFloating:
		if win.state.FloatingRect != nil {
			rect := *win.state.FloatingRect
			return &rect
		}
		rect := c.centeredFloatingRect(win, out)
		return &rect
	case ModeMaximized:
		rect := out.UsableZone()
		return &rect
	case ModeFullscreen:
		rect := out.Geometry()
		return &rect
	case ModeSpilled:
		// Spilled windows keep their geometry until they can tile again.
		return nil
	default:
		return nil
	}
}

// centeredFloatingRect picks a first-time floating rect: the window's
// current size (or half the usable zone when it has none), centered on its
// parent window if it has one, else on the output's usable zone, then slid
// fully on-screen.
func (c *Core) centeredFloatingRect(win *Window, out *Output) Rect {
	zone := out.UsableZone()

	size := win.Geometry()
	if size.IsEmpty() {
		size = NewRect(0, 0, zone.Width/2, zone.Height/2)
	}

	anchor := zone
	if parent := win.state.Parent; parent != nil && !parent.Geometry().IsEmpty() {
		anchor = parent.Geometry()
	}

	rect := NewRect(
		anchor.X+(anchor.Width-size.Width)/2,
		anchor.Y+(anchor.Height-size.Height)/2,
		size.Width,
		size.Height,
	)
	return slideIntoZone(rect, zone)
}

// slideIntoZone shifts rect along X then Y until it sits inside zone, the
// same constraint adjustment positioners use to avoid off-screen placement.
// Rects larger than the zone pin to its near edge.
func slideIntoZone(rect, zone Rect) Rect {
	if rect.Right() > zone.Right() {
		rect.X = zone.Right() - rect.Width
	}
	if rect.X < zone.X {
		rect.X = zone.X
	}
	if rect.Bottom() > zone.Bottom() {
		rect.Y = zone.Bottom() - rect.Height
	}
	if rect.Y < zone.Y {
		rect.Y = zone.Y
	}
	return rect
}

// SwapWindows exchanges two windows' committed locations through one
// transaction flagged as a swap.
func (c *Core) SwapWindows(a, b *Window) {
	out := a.state.Output
	if out == nil || b.state.Output != out {
		log.Error("swap across outputs not supported",
			"a", a.ID(), "b", b.ID())
		return
	}

	builder := c.newTransaction(out)
	builder.MarkSwap()
	c.addToTransaction(builder, a, b.Geometry())
	c.addToTransaction(builder, b, a.Geometry())
	c.commit(out, builder, nil)
}

// SetActiveTags switches out's visible tag set: tiled windows falling off
// the active set spill, spilled windows whose tags return restore, and the
// output re-tiles once.
func (c *Core) SetActiveTags(out *Output, tags ...string) {
	out.SetActiveTags(tags...)

	for _, win := range c.windows {
		if win.state.Output != out {
			continue
		}
		active := c.onActiveTag(win)
		win.WithState(func(s *WindowState) {
			switch {
			case !active && s.Mode.IsTiled():
				s.Mode.Spill()
			case active && s.Mode.Current() == ModeSpilled:
				s.Mode.Unspill()
			}
		})
	}
	c.RequestLayout(out)
}
