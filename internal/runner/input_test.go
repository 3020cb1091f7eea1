package runner

import (
	"testing"

	"github.com/vovakirdan/gamerunner/internal/core"
)

func TestInputRelayForwards(t *testing.T) {
	h := newFakeHost(10, 10)
	g := &keyGame{}
	d := Descriptor{ID: "keys", New: func(*Runner, core.Config) (Game, error) { return g, nil }}

	if _, err := New(h, "main", d, core.Options{}); err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	h.listener.KeyDown(core.KeyLeft)
	h.listener.KeyDown(core.KeyLeft) // Repeats are not suppressed
	h.listener.KeyUp(core.KeyLeft)
	h.listener.KeyDown(core.KeySpace)

	if len(g.downs) != 3 || g.downs[0] != core.KeyLeft || g.downs[2] != core.KeySpace {
		t.Errorf("downs = %v, expected [LEFT LEFT SPACE]", g.downs)
	}
	if len(g.ups) != 1 || g.ups[0] != core.KeyLeft {
		t.Errorf("ups = %v, expected [LEFT]", g.ups)
	}
}

func TestInputRelayWithoutHandlers(t *testing.T) {
	h := newFakeHost(10, 10)
	var g *testGame

	r, err := New(h, "main", descriptor(core.Options{}, &g, true), core.Options{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// Game has no handlers: nothing happens, nothing panics
	r.KeyDown(core.KeyUp)
	r.KeyUp(core.KeyUp)

	if len(g.dts) != 0 || g.draws != 0 {
		t.Error("key events should not tick the game")
	}
}
