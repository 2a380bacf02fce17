package viewport

import (
	"log/slog"
	"sort"

	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

// Selection holds the set of selected block ids and runs the marquee gesture.
type Selection struct {
	ids      map[string]struct{}
	handlers *Handlers
	log      *slog.Logger
}

func newSelection(h *Handlers, log *slog.Logger) *Selection {
	return &Selection{ids: make(map[string]struct{}), handlers: h, log: log}
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of selected blocks.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Set replaces the selection. Reports whether it changed.
func (s *Selection) Set(ids []string) bool {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	if sameSet(s.ids, next) {
		return false
	}
	s.ids = next
	return true
}

// Clear empties the selection. Reports whether it changed.
func (s *Selection) Clear() bool {
	if len(s.ids) == 0 {
		return false
	}
	s.ids = make(map[string]struct{})
	return true
}

// prune drops ids the host no longer has. Reports whether any were dropped.
func (s *Selection) prune(model *snapshot) bool {
	changed := false
	for id := range s.ids {
		if !model.hasBlock(id) {
			delete(s.ids, id)
			changed = true
		}
	}
	return changed
}

// begin starts a marquee at a world-space anchor.
func (s *Selection) begin(anchor geom.Point) Marqueeing {
	s.log.Debug("marquee started", "x", anchor.X, "y", anchor.Y)
	return Marqueeing{Anchor: anchor, Rect: geom.Rect{X: anchor.X, Y: anchor.Y}}
}

// move stretches the marquee to the cursor.
func (s *Selection) move(m Marqueeing, cursor geom.Point) Marqueeing {
	m.Rect = geom.RectFromPoints(m.Anchor, cursor)
	if cursor != m.Anchor {
		m.moved = true
	}
	return m
}

// finish ends the marquee. A click without movement clears the selection and
// returns the container click callback as the effect; otherwise the selection
// becomes exactly the blocks intersecting the rectangle.
func (s *Selection) finish(model *snapshot, m Marqueeing) (changed bool, effect func()) {
	if !m.moved {
		s.log.Debug("background click")
		return s.Clear(), func() { s.handlers.containerClick() }
	}

	var hit []string
	for _, b := range model.blocks {
		if b.Bounds().Intersects(m.Rect) {
			hit = append(hit, b.ID)
		}
	}
	s.log.Debug("marquee finished", "selected", len(hit))
	return s.Set(hit), nil
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
