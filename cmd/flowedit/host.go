package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

// Size of a block created from the editor, world units.
const (
	newBlockWidth  = 120
	newBlockHeight = 48
)

// handlers wires viewport callbacks to diagram edits. Every edit is synced
// back into the viewport before the callback returns.
func (ed *Editor) handlers() viewport.Handlers {
	return viewport.Handlers{
		OnContainerMouseClick: ed.onContainerClick,
		OnAddNewElement:       ed.onAddNewElement,
		OnConnectToNewBlock:   ed.onConnectToNewBlock,
		OnConnect:             ed.onConnect,
		OnReconnectingPins:    ed.onReconnect,
		OnDeleteBlock:         ed.onDeleteBlock,
		OnElementEdit:         ed.onElementEdit,
		OnBlockMove:           ed.onBlockMove,
	}
}

// trackReroute remembers which connection a reroute gesture picked up.
func (ed *Editor) trackReroute(c viewport.Change) {
	if !c.Has(viewport.ChangeInteraction) {
		return
	}
	switch s := ed.vp.Interaction().(type) {
	case viewport.DraggingConnection:
		if s.Mode == viewport.ModeReroute {
			ed.rerouting = s.Connection.ID
		}
	case viewport.Idle:
		ed.rerouting = ""
	}
}

func (ed *Editor) commit(err error) bool {
	if err != nil {
		// a failed multi-step edit may have applied its first steps
		ed.log.Debug("edit rejected", "err", err)
		ed.showMessage("Error: "+err.Error(), MsgError)
		ed.vp.Sync(ed.diagram)
		return false
	}
	ed.modified = true
	ed.vp.Sync(ed.diagram)
	return true
}

func (ed *Editor) onContainerClick() {
	ed.message = ""
}

func (ed *Editor) onBlockMove(id string, pos geom.Point) {
	ed.commit(ed.diagram.MoveBlock(id, pos.X, pos.Y))
}

func (ed *Editor) onConnect(from, to flow.Pin) {
	_, err := ed.diagram.Connect(uuid.NewString(), from.ID, to.ID)
	ed.commit(err)
}

func (ed *Editor) onReconnect(far, target flow.Pin) {
	if ed.rerouting == "" {
		ed.onConnect(far, target)
		return
	}
	ed.commit(ed.diagram.Reconnect(ed.rerouting, target.ID))
}

func (ed *Editor) onConnectToNewBlock(origin flow.Pin, drop geom.Point) {
	in, err := ed.addBlock(drop)
	if err == nil {
		_, err = ed.diagram.Connect(uuid.NewString(), origin.ID, in.ID)
	}
	if ed.commit(err) {
		ed.vp.Select(in.BlockID)
	}
}

func (ed *Editor) onAddNewElement(origin flow.Pin, drop geom.Point) {
	if ed.rerouting == "" {
		ed.onConnectToNewBlock(origin, drop)
		return
	}
	in, err := ed.addBlock(drop)
	if err == nil {
		err = ed.diagram.Reconnect(ed.rerouting, in.ID)
	}
	if ed.commit(err) {
		ed.vp.Select(in.BlockID)
	}
}

func (ed *Editor) onDeleteBlock(b flow.Block) {
	ed.commit(ed.diagram.RemoveBlock(b.ID))
}

func (ed *Editor) onElementEdit(id string) {
	b, ok := ed.diagram.Block(id)
	if !ok {
		return
	}
	ed.prompt("Label: ", b.Label, func(label string) {
		ed.commit(ed.diagram.SetLabel(id, label))
	})
}

// addBlock creates a block with one input and one output pin, placed so the
// input sits on at. It returns the input pin.
func (ed *Editor) addBlock(at geom.Point) (flow.Pin, error) {
	id := uuid.NewString()
	b := flow.Block{
		ID:     id,
		Label:  fmt.Sprintf("block %d", len(ed.diagram.Blocks())+1),
		X:      at.X,
		Y:      at.Y - newBlockHeight/2,
		Width:  newBlockWidth,
		Height: newBlockHeight,
	}
	in := flow.Pin{ID: id + ".in", BlockID: id, Kind: flow.PinInput, OffsetX: 0, OffsetY: newBlockHeight / 2}
	out := flow.Pin{ID: id + ".out", BlockID: id, Kind: flow.PinOutput, OffsetX: newBlockWidth, OffsetY: newBlockHeight / 2}
	for _, err := range []error{ed.diagram.AddBlock(b), ed.diagram.AddPin(in), ed.diagram.AddPin(out)} {
		if err != nil {
			return flow.Pin{}, err
		}
	}
	return in, nil
}

// addBlockAtCenter drops a new block in the middle of the visible canvas.
func (ed *Editor) addBlockAtCenter() {
	w, h := ed.canvasSize()
	centre := geom.Pt(float64(w)*ed.config.CellWidth/2, float64(h)*ed.config.CellHeight/2)
	at := viewport.ToWorld(centre, ed.vp.State()).Sub(geom.Pt(newBlockWidth/2, 0))
	in, err := ed.addBlock(at)
	if ed.commit(err) {
		ed.vp.Select(in.BlockID)
	}
}

func (ed *Editor) rememberDir(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	ed.config.LastDir = filepath.Dir(abs)
	if ed.configPath == "" {
		return
	}
	if err := SaveConfig(ed.configPath, ed.config); err != nil {
		ed.log.Warn("saving config", "err", err)
	}
}
