package viewport

import (
	"io"
	"log/slog"
)

// Options configures a Viewport.
type Options struct {
	MinZoom     int // lowest zoom percentage
	MaxZoom     int // highest zoom percentage
	DefaultZoom int // zoom level at mount
	ZoomStep    int // percentage added/removed by ZoomIn/ZoomOut

	// HeightMargin is added below the lowest block when the content height
	// is recomputed.
	HeightMargin float64

	// HorizontalPanInViewBox makes the connection overlay's viewBox follow
	// ScrollLeft. When false the viewBox left edge stays at 0 while
	// ScrollLeft is still tracked.
	HorizontalPanInViewBox bool

	PinRadius float64 // hit radius around pin centres, world units
	WheelStep float64 // world units scrolled per wheel notch

	Logger *slog.Logger
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		MinZoom:      25,
		MaxZoom:      400,
		DefaultZoom:  100,
		ZoomStep:     10,
		HeightMargin: 400,
		PinRadius:    6,
		WheelStep:    40,
	}
}

// normalize fills zero values from DefaultOptions and orders the zoom bounds.
func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.MinZoom <= 0 {
		o.MinZoom = def.MinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = def.MaxZoom
	}
	if o.MinZoom > o.MaxZoom {
		o.MinZoom, o.MaxZoom = o.MaxZoom, o.MinZoom
	}
	if o.DefaultZoom <= 0 {
		o.DefaultZoom = def.DefaultZoom
	}
	if o.ZoomStep <= 0 {
		o.ZoomStep = def.ZoomStep
	}
	if o.HeightMargin == 0 {
		o.HeightMargin = def.HeightMargin
	}
	if o.PinRadius <= 0 {
		o.PinRadius = def.PinRadius
	}
	if o.WheelStep <= 0 {
		o.WheelStep = def.WheelStep
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
