package viewport

import (
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

// State is the scroll/zoom frame owned by the viewport.
type State struct {
	ScrollLeft    float64
	ScrollTop     float64
	ContentWidth  float64
	ContentHeight float64
	ZoomLevel     int // percentage
}

// Scale returns the zoom factor, ZoomLevel/100.
func (s State) Scale() float64 {
	if s.ZoomLevel <= 0 {
		return 1
	}
	return float64(s.ZoomLevel) / 100
}

// Interaction is the single active gesture. It is one of Idle, Panning,
// Marqueeing, DraggingBlocks or DraggingConnection.
type Interaction interface {
	interaction()
	String() string
}

// Idle means no gesture is in progress.
type Idle struct{}

// Panning drags the scroll offsets. Anchor is in screen space.
type Panning struct {
	Anchor geom.Point
	Scroll geom.Point // scroll offsets when the gesture started
}

// Marqueeing tracks a selection rectangle in world space.
type Marqueeing struct {
	Anchor geom.Point
	Rect   geom.Rect
	moved  bool
}

// DraggingBlocks moves one or more blocks. Origin is the world-space pointer
// position at pointer-down.
type DraggingBlocks struct {
	IDs       []string
	Origin    geom.Point
	LastDelta geom.Point
	start     map[string]geom.Point
}

// ConnectMode tells a new connection from a rerouted one.
type ConnectMode uint8

const (
	ModeNew ConnectMode = iota
	ModeReroute
)

// String returns a string representation of the mode.
func (m ConnectMode) String() string {
	if m == ModeReroute {
		return "reroute"
	}
	return "new"
}

// DraggingConnection draws a transient connection from Origin to Cursor.
// In ModeReroute, Origin is the fixed output end of Connection.
type DraggingConnection struct {
	Origin     flow.Pin
	Cursor     geom.Point
	Mode       ConnectMode
	Connection flow.Connection // zero for ModeNew
}

func (Idle) interaction()               {}
func (Panning) interaction()            {}
func (Marqueeing) interaction()         {}
func (DraggingBlocks) interaction()     {}
func (DraggingConnection) interaction() {}

func (Idle) String() string               { return "idle" }
func (Panning) String() string            { return "panning" }
func (Marqueeing) String() string         { return "marqueeing" }
func (DraggingBlocks) String() string     { return "dragging-blocks" }
func (DraggingConnection) String() string { return "dragging-connection" }

// Change is a bit set describing what a viewport operation modified.
type Change uint8

const (
	ChangeViewport Change = 1 << iota
	ChangeSelection
	ChangeInteraction
)

// Has reports whether c includes all bits of o.
func (c Change) Has(o Change) bool {
	return c&o == o
}

// Segment is a straight line between two world-space points.
type Segment struct {
	From, To geom.Point
}

// Frame bundles everything a renderer needs for one paint.
type Frame struct {
	State       State
	ViewBox     ViewBox
	Transform   TransformStyle
	Selection   []string
	Interaction Interaction
	Marquee     *geom.Rect
	Transient   *Segment
}
