package viewport

import (
	"log/slog"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

// Router runs the connection gesture: dragging a new connection out of an
// output pin, or picking up an existing connection by its input end and
// re-aiming it.
type Router struct {
	handlers *Handlers
	log      *slog.Logger
}

// begin classifies a primary press on a pin or connection handle. It reports
// false when the press may not start a gesture: a connected output, a free
// input, or an id the model does not know.
func (r *Router) begin(model *snapshot, t Target, cursor geom.Point) (DraggingConnection, bool) {
	switch t.Kind {
	case TargetOutput:
		p, ok := model.pin(t.PinID)
		if !ok {
			return DraggingConnection{}, false
		}
		if p.Connected {
			r.log.Debug("connection refused: output already connected", "pin", p.ID)
			return DraggingConnection{}, false
		}
		r.log.Debug("connection started", "pin", p.ID)
		return DraggingConnection{Origin: p, Cursor: cursor, Mode: ModeNew}, true

	case TargetInput:
		p, ok := model.pin(t.PinID)
		if !ok || !p.Connected {
			return DraggingConnection{}, false
		}
		c, ok := model.connectionInto(p.ID)
		if !ok {
			return DraggingConnection{}, false
		}
		return r.reroute(model, c, cursor)

	case TargetConnection:
		c, ok := model.connection(t.ConnectionID)
		if !ok {
			return DraggingConnection{}, false
		}
		return r.reroute(model, c, cursor)
	}
	return DraggingConnection{}, false
}

func (r *Router) reroute(model *snapshot, c flow.Connection, cursor geom.Point) (DraggingConnection, bool) {
	far, ok := model.pin(c.From)
	if !ok {
		return DraggingConnection{}, false
	}
	r.log.Debug("reroute started", "connection", c.ID, "far", far.ID)
	return DraggingConnection{Origin: far, Cursor: cursor, Mode: ModeReroute, Connection: c}, true
}

func (r *Router) move(s DraggingConnection, cursor geom.Point) DraggingConnection {
	s.Cursor = cursor
	return s
}

// finish resolves the drop. The returned effect invokes the host callback for
// the outcome and is nil when the gesture is cancelled.
func (r *Router) finish(model *snapshot, s DraggingConnection, t Target, drop geom.Point) func() {
	origin, ok := model.pin(s.Origin.ID)
	if !ok {
		r.log.Debug("connection cancelled: origin removed", "pin", s.Origin.ID)
		return nil
	}
	if s.Mode == ModeNew && origin.Connected {
		r.log.Debug("connection cancelled: origin connected meanwhile", "pin", origin.ID)
		return nil
	}

	switch t.Kind {
	case TargetInput:
		target, ok := model.pin(t.PinID)
		if !ok || target.Kind != flow.PinInput {
			break
		}
		if s.Mode == ModeReroute && target.ID == s.Connection.To {
			r.log.Debug("reroute cancelled: dropped on its own input", "connection", s.Connection.ID)
			return nil
		}
		if target.Connected {
			break
		}
		if s.Mode == ModeReroute {
			r.log.Debug("reroute finished", "connection", s.Connection.ID, "to", target.ID)
			return func() { r.handlers.reconnect(origin, target) }
		}
		r.log.Debug("connection finished", "from", origin.ID, "to", target.ID)
		return func() { r.handlers.connect(origin, target) }

	case TargetBackground:
		if s.Mode == ModeReroute {
			r.log.Debug("reroute dropped on canvas", "connection", s.Connection.ID)
			return func() { r.handlers.addNewElement(origin, drop) }
		}
		r.log.Debug("connection dropped on canvas", "from", origin.ID)
		return func() { r.handlers.connectToNewBlock(origin, drop) }
	}

	r.log.Debug("connection cancelled", "target", t.Kind.String())
	return nil
}

// valid reports whether a gesture still refers to live model objects. A new
// connection is also invalid once its origin output got connected.
func (r *Router) valid(model *snapshot, s DraggingConnection) bool {
	origin, ok := model.pin(s.Origin.ID)
	if !ok {
		return false
	}
	if s.Mode == ModeNew && origin.Connected {
		return false
	}
	if s.Mode == ModeReroute {
		if _, ok := model.connection(s.Connection.ID); !ok {
			return false
		}
	}
	return true
}

// transient returns the line the renderer draws while a connection is being
// dragged: origin pin centre to cursor.
func (r *Router) transient(model *snapshot, s DraggingConnection) (Segment, bool) {
	p, ok := model.pin(s.Origin.ID)
	if !ok {
		return Segment{}, false
	}
	from, ok := model.pinCenter(p)
	if !ok {
		return Segment{}, false
	}
	return Segment{From: from, To: s.Cursor}, true
}
