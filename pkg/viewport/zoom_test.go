package viewport

import "testing"

func TestZoomClamp(t *testing.T) {
	z := NewZoom(100, 25, 400, 10)

	tests := []struct {
		set  int
		want int
	}{
		{150, 150},
		{10, 25},
		{1000, 400},
		{400, 400},
		{25, 25},
	}
	for _, tt := range tests {
		z.Set(tt.set)
		if z.Level() != tt.want {
			t.Errorf("Set(%d): level = %d, want %d", tt.set, z.Level(), tt.want)
		}
	}
}

func TestZoomSteps(t *testing.T) {
	z := NewZoom(390, 25, 400, 10)
	if !z.In() || z.Level() != 400 {
		t.Fatalf("In: level = %d, want 400", z.Level())
	}
	if z.In() {
		t.Errorf("In at max should report no change")
	}
	if !z.Out() || z.Level() != 390 {
		t.Errorf("Out: level = %d, want 390", z.Level())
	}
}

func TestZoomSwappedBounds(t *testing.T) {
	z := NewZoom(100, 400, 25, 10)
	min, max := z.Bounds()
	if min != 25 || max != 400 {
		t.Errorf("Bounds = %d,%d, want 25,400", min, max)
	}
}

func TestTransformStyleString(t *testing.T) {
	z := NewZoom(150, 25, 400, 10)
	got := z.Style(800, 950).String()
	want := "left: 0px; top: 0px; width:800px; height:950px; transform-origin: 0 0; transform: scale(1.5);"
	if got != want {
		t.Errorf("Style().String() =\n  %q\nwant\n  %q", got, want)
	}
}

func TestZoomLeavesScroll(t *testing.T) {
	v, _ := newTestViewport(t, fixture(t))
	v.scroll.width = 3000
	v.ScrollTo(500, 0)

	before := v.State()
	v.SetZoom(200)
	after := v.State()
	if after.ScrollLeft != before.ScrollLeft || after.ScrollTop != before.ScrollTop {
		t.Errorf("zoom moved scroll: %+v -> %+v", before, after)
	}
	if after.ZoomLevel != 200 {
		t.Errorf("ZoomLevel = %d, want 200", after.ZoomLevel)
	}
}
