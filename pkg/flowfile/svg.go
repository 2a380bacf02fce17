package flowfile

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Title     string
	FontSize  int     // block label size in world units
	PinRadius float64 // drawn pin radius in world units
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		FontSize:  12,
		PinRadius: 5,
	}
}

// GenerateSVG renders the diagram as seen through a viewport frame. The
// document's viewBox is the frame's ViewBox and its pixel size is the
// viewBox size times the zoom scale, so the picture matches what an editor
// would show at that scroll and zoom.
func GenerateSVG(d *flow.Diagram, f viewport.Frame, opts SVGOptions) string {
	if opts.FontSize == 0 {
		opts.FontSize = 12
	}
	if opts.PinRadius == 0 {
		opts.PinRadius = 5
	}

	vb := f.ViewBox
	scale := f.Transform.Scale
	if scale == 0 {
		scale = 1
	}
	width := math.Ceil(vb.Width * scale)
	height := math.Ceil(vb.Height * scale)

	selected := make(map[string]bool, len(f.Selection))
	for _, id := range f.Selection {
		selected[id] = true
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="%s" data-transform="%s">
<defs>
  <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
    <polygon points="0 0, 10 3.5, 0 7" fill="#333"/>
  </marker>
</defs>
<style>
  .block { fill: white; stroke: #333; stroke-width: 1.5; }
  .block-selected { fill: #e3f2fd; stroke: #1565c0; stroke-width: 2; }
  .block-label { font-family: sans-serif; font-size: %dpx; text-anchor: middle; dominant-baseline: middle; }
  .pin-output { fill: #e8f5e9; stroke: #2e7d32; stroke-width: 1.5; }
  .pin-input { fill: #fff3e0; stroke: #e65100; stroke-width: 1.5; }
  .pin-connected { fill: #333; }
  .connection { fill: none; stroke: #333; stroke-width: 1.5; marker-end: url(#arrowhead); }
  .transient { fill: none; stroke: #666; stroke-width: 1.5; stroke-dasharray: 4 3; }
  .marquee { fill: rgba(21, 101, 192, 0.08); stroke: #1565c0; stroke-width: 1; stroke-dasharray: 4 3; }
  .title { font-family: sans-serif; font-size: %dpx; font-weight: bold; text-anchor: middle; }
</style>
`, width, height, vb.String(), html.EscapeString(f.Transform.String()), opts.FontSize, opts.FontSize+4))

	sb.WriteString(fmt.Sprintf(`<rect x="%g" y="%g" width="%g" height="%g" fill="white"/>
`, vb.Left, vb.Top, vb.Width, vb.Height))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%g" y="%g" class="title">%s</text>
`, vb.Left+vb.Width/2, vb.Top+float64(opts.FontSize)+8, html.EscapeString(opts.Title)))
	}

	// connections under blocks
	for _, c := range d.Connections() {
		from, ok1 := d.PinCenter(c.From)
		to, ok2 := d.PinCenter(c.To)
		if !ok1 || !ok2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path d="%s" class="connection" data-id="%s"/>
`, curvePath(from, to), html.EscapeString(c.ID)))
	}

	for _, b := range d.Blocks() {
		class := "block"
		if selected[b.ID] {
			class = "block-selected"
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" class="%s" data-id="%s"/>
`, b.X, b.Y, b.Width, b.Height, class, html.EscapeString(b.ID)))

		label := b.Label
		if label == "" {
			label = b.ID
		}
		c := b.Bounds().Center()
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="block-label">%s</text>
`, c.X, c.Y, html.EscapeString(label)))

		for _, p := range d.PinsOf(b.ID) {
			pc := p.Center(b)
			class := "pin-input"
			if p.Kind == flow.PinOutput {
				class = "pin-output"
			}
			if p.Connected {
				class += " pin-connected"
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%g" class="%s" data-id="%s"/>
`, pc.X, pc.Y, opts.PinRadius, class, html.EscapeString(p.ID)))
		}
	}

	if f.Transient != nil {
		sb.WriteString(fmt.Sprintf(`<path d="%s" class="transient"/>
`, curvePath(f.Transient.From, f.Transient.To)))
	}
	if f.Marquee != nil {
		r := *f.Marquee
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" class="marquee"/>
`, r.X, r.Y, r.W, r.H))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func curvePath(from, to geom.Point) string {
	c := geom.ConnectionCurve(from, to)
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f",
		c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y, c[3].X, c[3].Y)
}
