package flowfile

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/ha1tch/flow-toolkit/pkg/geom"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

func frameFor(t *testing.T, zoom int, selected ...string) viewport.Frame {
	t.Helper()
	v := viewport.New(viewport.DefaultOptions(), viewport.Handlers{})
	v.Sync(sampleDiagram(t))
	v.Mount(viewport.MeasureFunc(func() (float64, float64) { return 400, 300 }))
	v.SetZoom(zoom)
	v.Select(selected...)
	return v.Frame()
}

func TestGenerateDOT(t *testing.T) {
	out := GenerateDOT(sampleDiagram(t), "My \"flow\"")

	for _, want := range []string{
		`digraph Flow {`,
		`label="My \"flow\"";`,
		`"read" [label="Read \<csv\>", pos="80,-65!"`,
		`"read" -> "sink" [taillabel="rows", headlabel="sink.in"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateSVG(t *testing.T) {
	f := frameFor(t, 150, "sink")
	out := GenerateSVG(sampleDiagram(t), f, DefaultSVGOptions())

	// content width grows to the sink's children width
	for _, want := range []string{
		`viewBox="0 0 640 460"`,
		`width="960" height="690"`,
		`transform: scale(1.5);`,
		`class="block-selected" data-id="sink"`,
		`class="block" data-id="read"`,
		`class="pin-output pin-connected" data-id="read.out"`,
		`Read &lt;csv&gt;`,
		`class="connection" data-id="c1"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
	if strings.Contains(out, `class="marquee"`) {
		t.Errorf("idle frame rendered a marquee")
	}
}

func TestGenerateSVGGestureOverlays(t *testing.T) {
	f := frameFor(t, 100)
	r := geom.Rect{X: 10, Y: 10, W: 30, H: 20}
	f.Marquee = &r
	f.Transient = &viewport.Segment{From: geom.Pt(140, 65), To: geom.Pt(200, 200)}

	out := GenerateSVG(sampleDiagram(t), f, SVGOptions{Title: "T"})
	for _, want := range []string{
		`class="marquee"`,
		`class="transient"`,
		`class="title">T</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	f := frameFor(t, 50, "read")

	var buf bytes.Buffer
	if err := RenderPNG(sampleDiagram(t), f, &buf, DefaultPNGOptions()); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 320 || b.Dy() != 230 {
		t.Errorf("image size = %dx%d, want 320x230", b.Dx(), b.Dy())
	}
}

func TestRenderPNGLimits(t *testing.T) {
	f := frameFor(t, 100)
	var buf bytes.Buffer

	opts := DefaultPNGOptions()
	opts.MaxSide = 100
	if err := RenderPNG(sampleDiagram(t), f, &buf, opts); err == nil {
		t.Errorf("expected size limit error")
	}

	if err := RenderPNG(sampleDiagram(t), viewport.Frame{}, &buf, DefaultPNGOptions()); err == nil {
		t.Errorf("expected error for empty view box")
	}
}
