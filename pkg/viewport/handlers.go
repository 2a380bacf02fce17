package viewport

import (
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

// Handlers is the table of host callbacks. Every field is optional; a nil
// handler means the host has not enabled that feature and the call is skipped.
type Handlers struct {
	// OnContainerMouseClick fires on a plain click on empty canvas.
	OnContainerMouseClick func()

	// OnAddNewElement fires when a rerouted connection is dropped on empty
	// canvas. origin is the fixed output end.
	OnAddNewElement func(origin flow.Pin, drop geom.Point)

	// OnConnectToNewBlock fires when a new connection is dropped on empty
	// canvas.
	OnConnectToNewBlock func(origin flow.Pin, drop geom.Point)

	// OnConnect fires when a new connection is dropped on a free input.
	// When nil, OnReconnectingPins receives the call instead.
	OnConnect func(from, to flow.Pin)

	// OnReconnectingPins fires when a rerouted connection is dropped on a
	// free input. far is the fixed output end.
	OnReconnectingPins func(far, target flow.Pin)

	OnDeleteBlock func(b flow.Block)
	OnElementEdit func(id string)

	// OnBlockMove proposes a new top-left position for a dragged block.
	OnBlockMove func(id string, pos geom.Point)
}

func (h *Handlers) containerClick() bool {
	if h.OnContainerMouseClick == nil {
		return false
	}
	h.OnContainerMouseClick()
	return true
}

func (h *Handlers) addNewElement(origin flow.Pin, drop geom.Point) bool {
	if h.OnAddNewElement == nil {
		return false
	}
	h.OnAddNewElement(origin, drop)
	return true
}

func (h *Handlers) connectToNewBlock(origin flow.Pin, drop geom.Point) bool {
	if h.OnConnectToNewBlock == nil {
		return false
	}
	h.OnConnectToNewBlock(origin, drop)
	return true
}

func (h *Handlers) connect(from, to flow.Pin) bool {
	if h.OnConnect != nil {
		h.OnConnect(from, to)
		return true
	}
	return h.reconnect(from, to)
}

func (h *Handlers) reconnect(far, target flow.Pin) bool {
	if h.OnReconnectingPins == nil {
		return false
	}
	h.OnReconnectingPins(far, target)
	return true
}

func (h *Handlers) deleteBlock(b flow.Block) bool {
	if h.OnDeleteBlock == nil {
		return false
	}
	h.OnDeleteBlock(b)
	return true
}

func (h *Handlers) elementEdit(id string) bool {
	if h.OnElementEdit == nil {
		return false
	}
	h.OnElementEdit(id)
	return true
}

func (h *Handlers) blockMove(id string, pos geom.Point) bool {
	if h.OnBlockMove == nil {
		return false
	}
	h.OnBlockMove(id, pos)
	return true
}
