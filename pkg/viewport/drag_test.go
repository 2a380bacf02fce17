package viewport

import (
	"testing"

	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

func TestDragSingleReplacesSelection(t *testing.T) {
	v, rec := newTestViewport(t, fixture(t))
	v.Select("a", "b")

	down(v, 50, 220) // inside c
	s, ok := v.Interaction().(DraggingBlocks)
	if !ok {
		t.Fatalf("interaction = %s, want dragging-blocks", v.Interaction())
	}
	if !equalStrings(s.IDs, []string{"c"}) {
		t.Errorf("dragged = %v, want [c]", s.IDs)
	}
	if got := v.Selection(); !equalStrings(got, []string{"c"}) {
		t.Errorf("Selection() = %v, want [c]", got)
	}

	move(v, 65, 200)
	if got := rec.moves["c"]; got != geom.Pt(15, 180) {
		t.Errorf("c moved to %v, want (15,180)", got)
	}
	up(v, 65, 200)
	assertIdle(t, v)
}

func TestDragGroup(t *testing.T) {
	v, rec := newTestViewport(t, fixture(t))
	v.Select("a", "b")

	down(v, 50, 20) // inside a
	move(v, 60, 50)

	want := map[string]geom.Point{
		"a": geom.Pt(10, 30),
		"b": geom.Pt(210, 30),
	}
	for id, p := range want {
		if got, ok := rec.moves[id]; !ok || got != p {
			t.Errorf("%s moved to %v (%v), want %v", id, got, ok, p)
		}
	}
	if _, ok := rec.moves["c"]; ok {
		t.Errorf("unselected block c was moved")
	}
	if got := v.Selection(); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("group drag changed selection to %v", got)
	}
}

func TestDragDeltaIsFromOrigin(t *testing.T) {
	d := fixture(t)
	rec := &recorder{}
	h := rec.handlers()
	v := New(DefaultOptions(), Handlers{})

	// host applies every proposal and syncs from inside the callback
	h.OnBlockMove = func(id string, pos geom.Point) {
		must(t, d.MoveBlock(id, pos.X, pos.Y))
		v.Sync(d)
	}
	v.SetHandlers(h)
	v.Sync(d)
	v.Mount(MeasureFunc(func() (float64, float64) { return 800, 600 }))

	down(v, 50, 20)
	move(v, 60, 20)
	move(v, 70, 25)

	b, _ := d.Block("a")
	if b.X != 20 || b.Y != 5 {
		t.Errorf("a at (%g,%g), want (20,5)", b.X, b.Y)
	}
	if _, ok := v.Interaction().(DraggingBlocks); !ok {
		t.Errorf("re-entrant Sync ended the drag: %s", v.Interaction())
	}
}

func TestDragZoomedDelta(t *testing.T) {
	v, rec := newTestViewport(t, fixture(t))
	v.SetZoom(200)

	down(v, 100, 40) // world (50,20), inside a
	move(v, 140, 40)
	if got := rec.moves["a"]; got != geom.Pt(20, 0) {
		t.Errorf("a moved to %v, want (20,0)", got)
	}
}

func TestDragCancelLeavesPositions(t *testing.T) {
	d := fixture(t)
	before := d.Blocks()

	rec := &recorder{}
	h := rec.handlers()
	h.OnBlockMove = func(id string, pos geom.Point) {
		must(t, d.MoveBlock(id, pos.X, pos.Y))
	}
	v := New(DefaultOptions(), h)
	v.Sync(d)

	down(v, 50, 20)
	if !v.Cancel() {
		t.Fatalf("Cancel reported no active gesture")
	}
	move(v, 300, 300)
	up(v, 300, 300)

	after := d.Blocks()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("block %s moved: %+v -> %+v", before[i].ID, before[i], after[i])
		}
	}
	assertIdle(t, v)
}

func TestDragBlockRemovedMidGesture(t *testing.T) {
	d := fixture(t)
	v, rec := newTestViewport(t, d)
	v.Select("a", "b")

	down(v, 50, 20)
	must(t, d.RemoveBlock("b"))
	v.Sync(d)

	s, ok := v.Interaction().(DraggingBlocks)
	if !ok || !equalStrings(s.IDs, []string{"a"}) {
		t.Fatalf("after removing b: %s %v", v.Interaction(), s.IDs)
	}

	move(v, 55, 25)
	if _, ok := rec.moves["b"]; ok {
		t.Errorf("removed block b still received a move")
	}
	if got := rec.moves["a"]; got != geom.Pt(5, 5) {
		t.Errorf("a moved to %v, want (5,5)", got)
	}

	must(t, d.RemoveBlock("a"))
	v.Sync(d)
	assertIdle(t, v)
}

func TestDragUpWithOtherButtonIgnored(t *testing.T) {
	v, _ := newTestViewport(t, fixture(t))

	down(v, 50, 20)
	v.Handle(Event{Kind: EventUp, Button: ButtonMiddle, Pos: geom.Pt(50, 20)})
	if _, ok := v.Interaction().(DraggingBlocks); !ok {
		t.Errorf("middle release ended a primary drag: %s", v.Interaction())
	}
	up(v, 50, 20)
	assertIdle(t, v)
}
