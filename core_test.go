package strata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCore_TiledCommitIsAtomic(t *testing.T) {
	core, out, _ := newTestCore(EvenSplitPolicy{Direction: Row})

	w1, s1 := mapWindow(core, out, ModeTiled)
	w2, s2 := mapWindow(core, out, ModeTiled)

	pt := out.PendingTransaction()
	require.NotNil(t, pt)

	// First window acks everything it has seen; nothing may move yet.
	w1.AckConfigure(s1.lastSerial)
	assert.True(t, w1.Geometry().IsEmpty(), "window moved before the barrier released")
	assert.True(t, w2.Geometry().IsEmpty())

	w2.AckConfigure(s2.lastSerial)
	require.True(t, pt.IsCompleted())

	assert.Equal(t, NewRect(0, 0, 960, 1080), w1.Geometry())
	assert.Equal(t, NewRect(960, 0, 960, 1080), w2.Geometry())
	assert.Nil(t, out.PendingTransaction())
}

func TestCore_SupersededTransactionNeverApplies(t *testing.T) {
	core, out, _ := newTestCore(EvenSplitPolicy{Direction: Row})

	w1, s1 := mapWindow(core, out, ModeTiled)
	// Mapping a second window supersedes the single-window layout before
	// the first client acked it.
	w2, s2 := mapWindow(core, out, ModeTiled)

	// Acking only the first configure completes the superseded generation.
	w1.AckConfigure(1)
	assert.True(t, w1.Geometry().IsEmpty(),
		"superseded transaction applied stale geometry")

	w1.AckConfigure(s1.lastSerial)
	w2.AckConfigure(s2.lastSerial)
	assert.Equal(t, NewRect(0, 0, 960, 1080), w1.Geometry())
}

func TestCore_X11WindowNeedsNoRoundTrip(t *testing.T) {
	core, out, _ := newTestCore(EvenSplitPolicy{Direction: Row})

	surface := newFakeX11()
	win := NewX11Window(surface)
	core.AddWindow(win, out, "1")

	// X11 clients don't ack; geometry applies as soon as the transaction
	// is flushed.
	assert.Equal(t, NewRect(0, 0, 1920, 1080), win.Geometry())
	assert.Len(t, surface.configures, 1)
	assert.Nil(t, out.PendingTransaction())
}

func TestCore_StaleLayoutResponseDropped(t *testing.T) {
	core, out, _ := newTestCore(EvenSplitPolicy{Direction: Row})
	out.layoutGen = 7

	resp, err := EvenSplitPolicy{Direction: Row}.Layout(LayoutRequest{
		WindowCount: 1, Width: 1920, Height: 1080, TreeID: 6,
	})
	require.NoError(t, err)

	core.ApplyLayoutResponse(out, resp)

	assert.Nil(t, out.tree, "stale response reached the solver")
	assert.Nil(t, out.PendingTransaction())
}

func TestCore_InvalidTreeDroppedWhole(t *testing.T) {
	core, out, _ := newTestCore(EvenSplitPolicy{Direction: Row})
	out.layoutGen = 1

	// Duplicate leaf id under different parents.
	root := NewLayoutNode(LayoutStyle{Direction: Row})
	root.AddChild(1, NewLayoutNode(DefaultLayoutStyle()))
	inner := NewLayoutNode(LayoutStyle{Direction: Column})
	inner.AddChild(1, NewLayoutNode(DefaultLayoutStyle()))
	root.AddChild(2, inner)

	core.ApplyLayoutResponse(out, LayoutResponse{RootNode: root, RootID: 0, TreeID: 1})

	assert.Nil(t, out.tree, "malformed tree was partially applied")
}

func TestCore_RemoveWindowKeepsSnapshotUntilCommit(t *testing.T) {
	core, out, _ := newTestCore(EvenSplitPolicy{Direction: Row})

	w1, s1 := mapWindow(core, out, ModeTiled)
	w2, s2 := mapWindow(core, out, ModeTiled)
	w1.AckConfigure(s1.lastSerial)
	w2.AckConfigure(s2.lastSerial)
	oldGeo := w2.Geometry()
	require.False(t, oldGeo.IsEmpty())

	core.RemoveWindow(w2)

	pt := out.PendingTransaction()
	require.NotNil(t, pt)
	require.Len(t, pt.snapshots, 1)
	assert.Equal(t, w2.ID(), pt.snapshots[0].WindowID)
	assert.Equal(t, oldGeo, pt.snapshots[0].Geometry)

	w1.AckConfigure(s1.lastSerial)
	assert.Equal(t, NewRect(0, 0, 1920, 1080), w1.Geometry())
}

func TestCore_PruneCancelledTransaction(t *testing.T) {
	core, out, _ := newTestCore(EvenSplitPolicy{Direction: Row})

	w1, _ := mapWindow(core, out, ModeTiled)
	surface2 := newFakeToplevel()
	w2 := NewXDGWindow(surface2)
	w2.WithState(func(s *WindowState) { s.Mode = NewLayoutMode(ModeTiled) })
	core.AddWindow(w2, out, "1")

	require.NotNil(t, out.PendingTransaction())

	surface2.alive = false
	core.RemoveWindow(w2)

	// The removal re-layout replaced the pending transaction; its only
	// remaining target is still alive.
	pruned := core.PruneCancelledTransaction(out)
	assert.False(t, pruned, "live transaction discarded")

	w1Surface := w1.xdg.(*fakeToplevel)
	w1Surface.alive = false
	pruned = core.PruneCancelledTransaction(out)
	assert.True(t, pruned, "moot transaction kept")
}

func TestCore_SwapExchangesGeometry(t *testing.T) {
	core, out, _ := newTestCore(EvenSplitPolicy{Direction: Row})

	w1, s1 := mapWindow(core, out, ModeTiled)
	w2, s2 := mapWindow(core, out, ModeTiled)
	w1.AckConfigure(s1.lastSerial)
	w2.AckConfigure(s2.lastSerial)
	left, right := w1.Geometry(), w2.Geometry()
	require.NotEqual(t, left, right)

	core.SwapWindows(w1, w2)
	pt := out.PendingTransaction()
	require.NotNil(t, pt)
	assert.True(t, pt.IsSwap())

	w1.AckConfigure(s1.lastSerial)
	w2.AckConfigure(s2.lastSerial)

	assert.Equal(t, right, w1.Geometry())
	assert.Equal(t, left, w2.Geometry())
}

func TestCore_MasterStackGeometry(t *testing.T) {
	core, out, _ := newTestCore(MasterStackPolicy{MasterFactor: 0.5})

	w1, s1 := mapWindow(core, out, ModeTiled)
	w2, s2 := mapWindow(core, out, ModeTiled)
	w3, s3 := mapWindow(core, out, ModeTiled)
	w1.AckConfigure(s1.lastSerial)
	w2.AckConfigure(s2.lastSerial)
	w3.AckConfigure(s3.lastSerial)

	assert.Equal(t, NewRect(0, 0, 960, 1080), w1.Geometry())
	assert.Equal(t, NewRect(960, 0, 960, 540), w2.Geometry())
	assert.Equal(t, NewRect(960, 540, 960, 540), w3.Geometry())
}

func TestCore_GapsInsetTiledWindows(t *testing.T) {
	loop := NewLoop()
	cfg := &Config{InnerGap: 5, OuterGap: 10, Policy: "even_row"}
	core := NewCore(loop, cfg, EvenSplitPolicy{Direction: Row})
	out := NewOutput("gaps")
	out.SetGeometry(NewRect(0, 0, 1920, 1080))
	out.SetActiveTags("1")
	core.AddOutput(out)

	win, surface := mapWindow(core, out, ModeTiled)
	win.AckConfigure(surface.lastSerial)

	assert.Equal(t, NewRect(15, 15, 1890, 1050), win.Geometry())
}

func TestCore_UsableZoneOffsetsTiling(t *testing.T) {
	core, out, _ := newTestCore(EvenSplitPolicy{Direction: Row})
	out.SetUsableInsets(Edges{Top: 30}) // a panel along the top edge

	win, surface := mapWindow(core, out, ModeTiled)
	win.AckConfigure(surface.lastSerial)

	assert.Equal(t, NewRect(0, 30, 1920, 1050), win.Geometry())
}
