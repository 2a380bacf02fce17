package viewport

import "fmt"

// Zoom owns the zoom level, an integer percentage clamped to [Min, Max].
type Zoom struct {
	level int
	min   int
	max   int
	step  int
}

// NewZoom creates a zoom controller. level is clamped into [min, max].
func NewZoom(level, min, max, step int) *Zoom {
	if min > max {
		min, max = max, min
	}
	z := &Zoom{min: min, max: max, step: step}
	z.Set(level)
	return z
}

// Level returns the current percentage.
func (z *Zoom) Level() int {
	return z.level
}

// Bounds returns the allowed range.
func (z *Zoom) Bounds() (min, max int) {
	return z.min, z.max
}

// Scale returns Level/100.
func (z *Zoom) Scale() float64 {
	return float64(z.level) / 100
}

// Set clamps and stores level. Reports whether the level changed.
func (z *Zoom) Set(level int) bool {
	if level < z.min {
		level = z.min
	}
	if level > z.max {
		level = z.max
	}
	if level == z.level {
		return false
	}
	z.level = level
	return true
}

// In zooms in by one step.
func (z *Zoom) In() bool {
	return z.Set(z.level + z.step)
}

// Out zooms out by one step.
func (z *Zoom) Out() bool {
	return z.Set(z.level - z.step)
}

// Style returns the transform descriptor for a content surface of the given
// size.
func (z *Zoom) Style(width, height float64) TransformStyle {
	return TransformStyle{
		Width:  width,
		Height: height,
		Scale:  z.Scale(),
	}
}

// TransformStyle describes how the renderer transforms the content surface:
// translated to (OriginX, OriginY), which is always (0,0), then scaled around
// its top-left corner.
type TransformStyle struct {
	OriginX, OriginY float64
	Width, Height    float64
	Scale            float64
}

// String renders the descriptor as an inline CSS style.
func (t TransformStyle) String() string {
	return fmt.Sprintf("left: %gpx; top: %gpx; width:%gpx; height:%gpx; transform-origin: 0 0; transform: scale(%g);",
		t.OriginX, t.OriginY, t.Width, t.Height, t.Scale)
}
