package viewport

import (
	"fmt"
	"testing"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

// fixture builds three blocks:
//
//	a (0,0)   out at (100,20)
//	b (200,0) in at (200,20), in2 at (200,35), out at (300,20)
//	c (0,200) in at (0,220)
func fixture(t *testing.T) *flow.Diagram {
	t.Helper()
	d := flow.New("fixture")
	for _, b := range []flow.Block{
		{ID: "a", X: 0, Y: 0, Width: 100, Height: 40},
		{ID: "b", X: 200, Y: 0, Width: 100, Height: 40},
		{ID: "c", X: 0, Y: 200, Width: 100, Height: 40},
	} {
		must(t, d.AddBlock(b))
	}
	for _, p := range []flow.Pin{
		{ID: "a.out", BlockID: "a", Kind: flow.PinOutput, OffsetX: 100, OffsetY: 20},
		{ID: "b.in", BlockID: "b", Kind: flow.PinInput, OffsetX: 0, OffsetY: 20},
		{ID: "b.in2", BlockID: "b", Kind: flow.PinInput, OffsetX: 0, OffsetY: 35},
		{ID: "b.out", BlockID: "b", Kind: flow.PinOutput, OffsetX: 100, OffsetY: 20},
		{ID: "c.in", BlockID: "c", Kind: flow.PinInput, OffsetX: 0, OffsetY: 20},
	} {
		must(t, d.AddPin(p))
	}
	return d
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// recorder logs every handler call as a short string.
type recorder struct {
	calls []string
	moves map[string]geom.Point
}

func (r *recorder) handlers() Handlers {
	r.moves = make(map[string]geom.Point)
	return Handlers{
		OnContainerMouseClick: func() {
			r.calls = append(r.calls, "click")
		},
		OnAddNewElement: func(origin flow.Pin, drop geom.Point) {
			r.calls = append(r.calls, fmt.Sprintf("add %s %g,%g", origin.ID, drop.X, drop.Y))
		},
		OnConnectToNewBlock: func(origin flow.Pin, drop geom.Point) {
			r.calls = append(r.calls, fmt.Sprintf("new %s %g,%g", origin.ID, drop.X, drop.Y))
		},
		OnConnect: func(from, to flow.Pin) {
			r.calls = append(r.calls, fmt.Sprintf("connect %s %s", from.ID, to.ID))
		},
		OnReconnectingPins: func(far, target flow.Pin) {
			r.calls = append(r.calls, fmt.Sprintf("reconnect %s %s", far.ID, target.ID))
		},
		OnDeleteBlock: func(b flow.Block) {
			r.calls = append(r.calls, "delete "+b.ID)
		},
		OnElementEdit: func(id string) {
			r.calls = append(r.calls, "edit "+id)
		},
		OnBlockMove: func(id string, pos geom.Point) {
			r.moves[id] = pos
		},
	}
}

func newTestViewport(t *testing.T, d *flow.Diagram) (*Viewport, *recorder) {
	t.Helper()
	rec := &recorder{}
	v := New(DefaultOptions(), rec.handlers())
	v.Sync(d)
	v.Mount(MeasureFunc(func() (float64, float64) { return 800, 600 }))
	return v, rec
}

func down(v *Viewport, x, y float64) bool {
	return v.Handle(Event{Kind: EventDown, Button: ButtonPrimary, Pos: geom.Pt(x, y)})
}

func move(v *Viewport, x, y float64) bool {
	return v.Handle(Event{Kind: EventMove, Pos: geom.Pt(x, y)})
}

func up(v *Viewport, x, y float64) bool {
	return v.Handle(Event{Kind: EventUp, Button: ButtonPrimary, Pos: geom.Pt(x, y)})
}

func assertIdle(t *testing.T, v *Viewport) {
	t.Helper()
	if _, ok := v.Interaction().(Idle); !ok {
		t.Errorf("interaction = %s, want idle", v.Interaction())
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
