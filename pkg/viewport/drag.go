package viewport

import (
	"log/slog"

	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

// dragController moves one block, or the whole selection, with the pointer.
type dragController struct {
	handlers *Handlers
	log      *slog.Logger
}

// begin starts dragging blockID. If the block is selected the whole selection
// is dragged, otherwise it replaces the selection and is dragged alone.
func (d *dragController) begin(model *snapshot, sel *Selection, blockID string, origin geom.Point) (DraggingBlocks, bool) {
	selChanged := false
	var ids []string
	if sel.Contains(blockID) {
		for _, id := range sel.IDs() {
			if model.hasBlock(id) {
				ids = append(ids, id)
			}
		}
	} else {
		selChanged = sel.Set([]string{blockID})
		ids = []string{blockID}
	}

	start := make(map[string]geom.Point, len(ids))
	for _, id := range ids {
		b, _ := model.block(id)
		start[id] = geom.Point{X: b.X, Y: b.Y}
	}

	d.log.Debug("drag started", "block", blockID, "count", len(ids))
	return DraggingBlocks{IDs: ids, Origin: origin, start: start}, selChanged
}

// move computes the delta from the origin and proposes a position for every
// dragged block still known to the host.
func (d *dragController) move(model *snapshot, s DraggingBlocks, cursor geom.Point) (DraggingBlocks, func()) {
	delta := cursor.Sub(s.Origin)
	s.LastDelta = delta

	type proposal struct {
		id  string
		pos geom.Point
	}
	moves := make([]proposal, 0, len(s.IDs))
	for _, id := range s.IDs {
		if !model.hasBlock(id) {
			continue
		}
		moves = append(moves, proposal{id, s.start[id].Add(delta)})
	}

	return s, func() {
		for _, m := range moves {
			d.handlers.blockMove(m.id, m.pos)
		}
	}
}

// prune drops ids the host removed mid-gesture. Reports false when nothing
// is left to drag.
func (d *dragController) prune(model *snapshot, s DraggingBlocks) (DraggingBlocks, bool) {
	kept := s.IDs[:0:0]
	for _, id := range s.IDs {
		if model.hasBlock(id) {
			kept = append(kept, id)
		} else {
			d.log.Debug("dragged block removed", "block", id)
		}
	}
	s.IDs = kept
	return s, len(kept) > 0
}
