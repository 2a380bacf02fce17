package viewport

import (
	"testing"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

func TestContentHeightFollowsBlockCount(t *testing.T) {
	d := flow.New("h")
	must(t, d.AddBlock(flow.Block{ID: "one", Y: 100, Width: 10, Height: 10}))
	must(t, d.AddBlock(flow.Block{ID: "two", Y: 500, Width: 10, Height: 10}))

	v := New(DefaultOptions(), Handlers{})
	v.Mount(MeasureFunc(func() (float64, float64) { return 800, 600 }))
	v.Sync(d)
	if got := v.State().ContentHeight; got != 900 {
		t.Fatalf("ContentHeight = %g, want 900", got)
	}

	must(t, d.AddBlock(flow.Block{ID: "three", Y: 1000, Width: 10, Height: 10}))
	v.Sync(d)
	if got := v.State().ContentHeight; got != 1400 {
		t.Errorf("ContentHeight = %g, want 1400", got)
	}
}

func TestContentHeightGrowsWithDraggedBlock(t *testing.T) {
	d := flow.New("h")
	must(t, d.AddBlock(flow.Block{ID: "one", Y: 100, Width: 10, Height: 10}))

	v := New(DefaultOptions(), Handlers{OnBlockMove: func(id string, p geom.Point) {
		must(t, d.MoveBlock(id, p.X, p.Y))
	}})
	v.Mount(MeasureFunc(func() (float64, float64) { return 800, 600 }))
	v.Sync(d)

	v.Handle(Event{Kind: EventDown, Button: ButtonPrimary, Pos: geom.Pt(5, 105)})
	v.Handle(Event{Kind: EventMove, Pos: geom.Pt(5, 2105)})
	v.Handle(Event{Kind: EventUp, Button: ButtonPrimary, Pos: geom.Pt(5, 2105)})
	v.Sync(d)

	if got := v.State().ContentHeight; got != 2500 {
		t.Fatalf("ContentHeight = %g, want 2500", got)
	}
	v.ScrollTo(0, 1900)
	if got := v.State().ScrollTop; got != 1900 {
		t.Errorf("ScrollTop = %g, want 1900", got)
	}

	// Moving back up without a count change keeps the grown height.
	must(t, d.MoveBlock("one", 0, 100))
	v.Sync(d)
	if got := v.State().ContentHeight; got != 2500 {
		t.Errorf("ContentHeight shrank to %g", got)
	}
}

func TestContentWidthNeverShrinks(t *testing.T) {
	d := flow.New("w")
	must(t, d.AddBlock(flow.Block{ID: "one", Width: 10, Height: 10}))

	v := New(DefaultOptions(), Handlers{})
	v.Sync(d)
	v.Mount(MeasureFunc(func() (float64, float64) { return 800, 600 }))

	must(t, d.SetChildrenWidth("one", 1200))
	v.Sync(d)
	if got := v.State().ContentWidth; got != 1200 {
		t.Fatalf("ContentWidth = %g, want 1200", got)
	}

	must(t, d.SetChildrenWidth("one", 300))
	v.Sync(d)
	if got := v.State().ContentWidth; got != 1200 {
		t.Errorf("ContentWidth shrank to %g", got)
	}
}

func TestScrollClamp(t *testing.T) {
	s := NewScroll(400, false)
	s.Mount(800, 600, nil)
	s.GrowWidth(2000)
	s.height = 1000

	tests := []struct {
		name         string
		left, top    float64
		scale        float64
		wantL, wantT float64
	}{
		{"inside", 100, 100, 1, 100, 100},
		{"negative", -50, -1, 1, 0, 0},
		{"past end", 5000, 5000, 1, 1200, 400},
		{"zoomed in shows less", 5000, 5000, 2, 1600, 700},
		{"zoomed out shows everything vertically", 5000, 5000, 0.5, 400, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.ScrollTo(tt.left, tt.top, tt.scale)
			if s.Left() != tt.wantL || s.Top() != tt.wantT {
				t.Errorf("ScrollTo(%g,%g) at %g = %g,%g, want %g,%g",
					tt.left, tt.top, tt.scale, s.Left(), s.Top(), tt.wantL, tt.wantT)
			}
		})
	}
}

func TestViewBoxHorizontalPolicy(t *testing.T) {
	for _, follow := range []bool{false, true} {
		s := NewScroll(400, follow)
		s.Mount(800, 600, nil)
		s.GrowWidth(2000)
		s.height = 1000
		s.ScrollTo(300, 100, 1)

		vb := s.ViewBox()
		wantLeft := 0.0
		if follow {
			wantLeft = 300
		}
		if vb.Left != wantLeft || vb.Top != 100 {
			t.Errorf("follow=%v: ViewBox = %+v", follow, vb)
		}
		if s.Left() != 300 {
			t.Errorf("follow=%v: Left = %g, want 300 regardless of policy", follow, s.Left())
		}
	}
}

func TestViewBoxString(t *testing.T) {
	vb := ViewBox{Width: 800, Height: 600}
	if got := vb.String(); got != "0 0 800 600" {
		t.Errorf("ViewBox.String() = %q", got)
	}
}

func TestResizeGrowsWidthOnly(t *testing.T) {
	w, h := 800.0, 600.0
	v := New(DefaultOptions(), Handlers{})
	v.Mount(MeasureFunc(func() (float64, float64) { return w, h }))

	w, h = 500, 700
	v.Resize()
	st := v.State()
	if st.ContentWidth != 800 || st.ContentHeight != 700 {
		t.Errorf("after Resize: %+v", st)
	}
}
