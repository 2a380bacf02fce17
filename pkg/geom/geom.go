// Geometric primitives shared by the viewport core and the renderers.
// Provides points, axis-aligned rectangles and connection curves.

package geom

import "math"

// Point represents a 2D coordinate. Whether it is in world or screen space
// is decided by the caller.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Mul scales both components by k.
func (p Point) Mul(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Near reports whether p and q are within eps on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Rect represents an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Full width and height
}

// RectFromPoints returns the rectangle spanned by two corners in any order.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(a.X - b.X),
		H: math.Abs(a.Y - b.Y),
	}
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{r.X, r.Y}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{r.X + r.W, r.Y + r.H}
}

// Center returns the centre of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports whether a and b overlap. Touching edges count as an
// intersection, so a degenerate rectangle on the border of another matches.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W &&
		r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// Contains reports whether p lies inside r or on its border.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ContainsStrict reports whether p lies inside r, excluding the border.
func (r Rect) ContainsStrict(p Point) bool {
	return p.X > r.X && p.X < r.X+r.W &&
		p.Y > r.Y && p.Y < r.Y+r.H
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Overlap returns the overlap area between two rectangles.
// Returns 0 if they don't overlap.
func Overlap(a, b Rect) float64 {
	w := math.Min(a.X+a.W, b.X+b.W) - math.Max(a.X, b.X)
	h := math.Min(a.Y+a.H, b.Y+b.H) - math.Max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// ConnectionCurve returns the four control points of the cubic Bézier used to
// draw a connection from an output at `from` to an input at `to`. Tangents
// leave the output to the right and enter the input from the left.
func ConnectionCurve(from, to Point) [4]Point {
	dx := math.Abs(to.X-from.X) * 0.5
	if dx < 30 {
		dx = 30
	}
	return [4]Point{
		from,
		{from.X + dx, from.Y},
		{to.X - dx, to.Y},
		to,
	}
}

// EvaluateCurve computes the point on a cubic Bézier at parameter t ∈ [0,1].
func EvaluateCurve(c [4]Point, t float64) Point {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*c[0].X + 3*mt2*t*c[1].X + 3*mt*t2*c[2].X + t3*c[3].X,
		Y: mt3*c[0].Y + 3*mt2*t*c[1].Y + 3*mt*t2*c[2].Y + t3*c[3].Y,
	}
}

// Bounds returns the bounding rectangle of a set of points.
func Bounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y

	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}
