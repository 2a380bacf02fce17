// Raster rendering of flow diagrams.
// Mirrors the SVG renderer output.

package flowfile

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	FontSize  float64 // points at zoom 100
	PinRadius float64
	LineWidth float64
	MaxSide   int // largest allowed image side in pixels
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		FontSize:  12,
		PinRadius: 5,
		LineWidth: 1.5,
		MaxSide:   8192,
	}
}

var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorBlack     = color.RGBA{51, 51, 51, 255}    // #333
	colorGray      = color.RGBA{102, 102, 102, 255} // #666
	colorSelected  = color.RGBA{227, 242, 253, 255} // #e3f2fd
	colorSelectBdr = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorOutput    = color.RGBA{232, 245, 233, 255} // #e8f5e9
	colorOutputBdr = color.RGBA{46, 125, 50, 255}   // #2e7d32
	colorInput     = color.RGBA{255, 243, 224, 255} // #fff3e0
	colorInputBdr  = color.RGBA{230, 81, 0, 255}    // #e65100
	colorMarquee   = color.RGBA{21, 101, 192, 20}
)

// RenderPNG renders the diagram as seen through a viewport frame.
func RenderPNG(d *flow.Diagram, f viewport.Frame, w io.Writer, opts PNGOptions) error {
	def := DefaultPNGOptions()
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.PinRadius <= 0 {
		opts.PinRadius = def.PinRadius
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = def.LineWidth
	}
	if opts.MaxSide <= 0 {
		opts.MaxSide = def.MaxSide
	}

	vb := f.ViewBox
	scale := f.Transform.Scale
	if scale <= 0 {
		scale = 1
	}
	width := int(math.Ceil(vb.Width * scale))
	height := int(math.Ceil(vb.Height * scale))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("empty view box %s", vb)
	}
	if width > opts.MaxSide || height > opts.MaxSide {
		return fmt.Errorf("image %dx%d exceeds %d pixels per side", width, height, opts.MaxSide)
	}

	face, err := newFace(opts.FontSize * scale)
	if err != nil {
		return err
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(colorWhite)
	dc.Clear()
	dc.SetFontFace(face)

	// world -> pixel; glyph sizes are not affected by the matrix, hence the
	// scaled face above
	dc.Scale(scale, scale)
	dc.Translate(-vb.Left, -vb.Top)
	dc.SetLineWidth(opts.LineWidth)

	selected := make(map[string]bool, len(f.Selection))
	for _, id := range f.Selection {
		selected[id] = true
	}

	for _, c := range d.Connections() {
		from, ok1 := d.PinCenter(c.From)
		to, ok2 := d.PinCenter(c.To)
		if !ok1 || !ok2 {
			continue
		}
		dc.SetColor(colorBlack)
		drawCurve(dc, from, to)
		dc.Stroke()
	}

	for _, b := range d.Blocks() {
		fill, stroke := colorWhite, colorBlack
		if selected[b.ID] {
			fill, stroke = colorSelected, colorSelectBdr
		}
		dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, 4)
		dc.SetColor(fill)
		dc.FillPreserve()
		dc.SetColor(stroke)
		dc.Stroke()

		label := b.Label
		if label == "" {
			label = b.ID
		}
		c := b.Bounds().Center()
		dc.SetColor(colorBlack)
		dc.DrawStringAnchored(label, c.X, c.Y, 0.5, 0.35)

		for _, p := range d.PinsOf(b.ID) {
			pc := p.Center(b)
			fill, stroke := colorInput, colorInputBdr
			if p.Kind == flow.PinOutput {
				fill, stroke = colorOutput, colorOutputBdr
			}
			if p.Connected {
				fill = colorBlack
			}
			dc.DrawCircle(pc.X, pc.Y, opts.PinRadius)
			dc.SetColor(fill)
			dc.FillPreserve()
			dc.SetColor(stroke)
			dc.Stroke()
		}
	}

	if f.Transient != nil {
		dc.SetColor(colorGray)
		dc.SetDash(4, 3)
		drawCurve(dc, f.Transient.From, f.Transient.To)
		dc.Stroke()
		dc.SetDash()
	}
	if f.Marquee != nil {
		r := *f.Marquee
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.SetColor(colorMarquee)
		dc.FillPreserve()
		dc.SetColor(colorSelectBdr)
		dc.SetDash(4, 3)
		dc.Stroke()
		dc.SetDash()
	}

	return dc.EncodePNG(w)
}

func drawCurve(dc *gg.Context, from, to geom.Point) {
	c := geom.ConnectionCurve(from, to)
	dc.MoveTo(c[0].X, c[0].Y)
	dc.CubicTo(c[1].X, c[1].Y, c[2].X, c[2].Y, c[3].X, c[3].Y)
}

func newFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return face, nil
}
