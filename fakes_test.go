package strata

// fakeToplevel is a scripted Wayland-native client. It records configures
// and hands out increasing serials; acks are driven by the test.
type fakeToplevel struct {
	alive      bool
	noAck      bool // pretend the client is already at the target state
	lastSerial Serial
	configures []Rect
}

func newFakeToplevel() *fakeToplevel {
	return &fakeToplevel{alive: true}
}

func (f *fakeToplevel) Configure(rect Rect) (Serial, bool) {
	f.configures = append(f.configures, rect)
	if f.noAck {
		return 0, false
	}
	f.lastSerial++
	return f.lastSerial, true
}

func (f *fakeToplevel) Alive() bool {
	return f.alive
}

// fakeX11 is a scripted Xwayland client; X11 has no configure serials.
type fakeX11 struct {
	alive      bool
	configures []Rect
}

func newFakeX11() *fakeX11 {
	return &fakeX11{alive: true}
}

func (f *fakeX11) Configure(rect Rect) {
	f.configures = append(f.configures, rect)
}

func (f *fakeX11) Alive() bool {
	return f.alive
}

// countingPolicy counts layout requests on their way to the wrapped policy.
type countingPolicy struct {
	inner LayoutPolicy
	calls int
}

func (p *countingPolicy) Layout(req LayoutRequest) (LayoutResponse, error) {
	p.calls++
	return p.inner.Layout(req)
}

// newTestCore builds a core on a 1920x1080 output with tag "1" active and
// gaps zeroed so expected rectangles stay round.
func newTestCore(policy LayoutPolicy) (*Core, *Output, *Loop) {
	loop := NewLoop()
	cfg := &Config{Policy: "even_row"}
	core := NewCore(loop, cfg, policy)
	out := NewOutput("test-1")
	out.SetGeometry(NewRect(0, 0, 1920, 1080))
	out.SetActiveTags("1")
	core.AddOutput(out)
	return core, out, loop
}

// mapWindow adds an XDG window in the given mode and returns it with its
// scripted surface.
func mapWindow(core *Core, out *Output, mode Mode) (*Window, *fakeToplevel) {
	surface := newFakeToplevel()
	win := NewXDGWindow(surface)
	win.WithState(func(s *WindowState) { s.Mode = NewLayoutMode(mode) })
	core.AddWindow(win, out, "1")
	return win, surface
}
