package viewport

import (
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

// Model is the host-owned graph, read on every Sync.
type Model interface {
	Blocks() []flow.Block
	Pins() []flow.Pin
	Connections() []flow.Connection
}

// Measurer reports the rendered size of the host element in screen units.
type Measurer interface {
	Measure() (width, height float64)
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func() (width, height float64)

// Measure calls f.
func (f MeasureFunc) Measure() (float64, float64) {
	return f()
}

// snapshot is the viewport's read-only copy of the host model.
type snapshot struct {
	blocks      []flow.Block
	blockIdx    map[string]int
	pins        []flow.Pin
	pinIdx      map[string]int
	pinsOf      map[string][]int
	connections []flow.Connection
	connIdx     map[string]int
}

func newSnapshot(m Model) *snapshot {
	s := &snapshot{
		blockIdx: make(map[string]int),
		pinIdx:   make(map[string]int),
		pinsOf:   make(map[string][]int),
		connIdx:  make(map[string]int),
	}
	if m == nil {
		return s
	}

	s.blocks = m.Blocks()
	for i, b := range s.blocks {
		s.blockIdx[b.ID] = i
	}
	s.pins = m.Pins()
	for i, p := range s.pins {
		s.pinIdx[p.ID] = i
		s.pinsOf[p.BlockID] = append(s.pinsOf[p.BlockID], i)
	}
	s.connections = m.Connections()
	for i, c := range s.connections {
		s.connIdx[c.ID] = i
	}
	return s
}

func (s *snapshot) block(id string) (flow.Block, bool) {
	if i, ok := s.blockIdx[id]; ok {
		return s.blocks[i], true
	}
	return flow.Block{}, false
}

func (s *snapshot) hasBlock(id string) bool {
	_, ok := s.blockIdx[id]
	return ok
}

func (s *snapshot) pin(id string) (flow.Pin, bool) {
	if i, ok := s.pinIdx[id]; ok {
		return s.pins[i], true
	}
	return flow.Pin{}, false
}

func (s *snapshot) connection(id string) (flow.Connection, bool) {
	if i, ok := s.connIdx[id]; ok {
		return s.connections[i], true
	}
	return flow.Connection{}, false
}

// connectionInto returns the connection targeting an input pin.
func (s *snapshot) connectionInto(pinID string) (flow.Connection, bool) {
	for _, c := range s.connections {
		if c.To == pinID {
			return c, true
		}
	}
	return flow.Connection{}, false
}

// pinCenter returns the world-space centre of a pin.
func (s *snapshot) pinCenter(p flow.Pin) (geom.Point, bool) {
	b, ok := s.block(p.BlockID)
	if !ok {
		return geom.Point{}, false
	}
	return p.Center(b), true
}

// maxChildrenWidth returns the widest ChildrenWidth over all blocks.
func (s *snapshot) maxChildrenWidth() float64 {
	w := 0.0
	for _, b := range s.blocks {
		if b.ChildrenWidth > w {
			w = b.ChildrenWidth
		}
	}
	return w
}

// connectionHandle returns the reroute handle of a connection: the midpoint
// of its curve.
func (s *snapshot) connectionHandle(c flow.Connection) (geom.Point, bool) {
	from, ok := s.pin(c.From)
	if !ok {
		return geom.Point{}, false
	}
	to, ok := s.pin(c.To)
	if !ok {
		return geom.Point{}, false
	}
	a, ok := s.pinCenter(from)
	if !ok {
		return geom.Point{}, false
	}
	b, ok := s.pinCenter(to)
	if !ok {
		return geom.Point{}, false
	}
	return geom.EvaluateCurve(geom.ConnectionCurve(a, b), 0.5), true
}

// hitTest classifies a world-space point. Blocks are visited topmost first;
// a block's pins win over its body, and the body only counts when the point
// is strictly inside it. Connection handles are tried after every block.
func (s *snapshot) hitTest(p geom.Point, pinRadius float64) Target {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		b := s.blocks[i]

		best := -1
		bestDist := pinRadius
		for _, pi := range s.pinsOf[b.ID] {
			d := s.pins[pi].Center(b).Dist(p)
			if d <= bestDist {
				best = pi
				bestDist = d
			}
		}
		if best >= 0 {
			pin := s.pins[best]
			kind := TargetInput
			if pin.Kind == flow.PinOutput {
				kind = TargetOutput
			}
			return Target{Kind: kind, BlockID: b.ID, PinID: pin.ID}
		}

		if b.Bounds().ContainsStrict(p) {
			return Target{Kind: TargetBlock, BlockID: b.ID}
		}
	}

	for i := len(s.connections) - 1; i >= 0; i-- {
		c := s.connections[i]
		if h, ok := s.connectionHandle(c); ok && h.Dist(p) <= pinRadius {
			return Target{Kind: TargetConnection, ConnectionID: c.ID}
		}
	}
	return Target{Kind: TargetBackground}
}
