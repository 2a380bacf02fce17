package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

// Paste offset in cells.
const pasteOffset = 2

func (ed *Editor) copySelection() {
	ids := ed.vp.Selection()
	if len(ids) == 0 {
		ed.showMessage("Nothing selected", MsgInfo)
		return
	}
	sub, err := extract(ed.diagram, ids)
	if err != nil {
		ed.showMessage("Copy failed: "+err.Error(), MsgError)
		return
	}
	data, err := flowfile.Marshal(sub, flowfile.FormatJSON)
	if err != nil {
		ed.showMessage("Copy failed: "+err.Error(), MsgError)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		ed.showMessage("Clipboard error: "+err.Error(), MsgError)
		return
	}
	ed.showMessage(fmt.Sprintf("Copied %d block(s)", len(ids)), MsgSuccess)
}

func (ed *Editor) paste() {
	text, err := clipboard.ReadAll()
	if err != nil {
		ed.showMessage("Clipboard error: "+err.Error(), MsgError)
		return
	}
	src, err := flowfile.Parse([]byte(text), flowfile.FormatJSON)
	if err != nil {
		ed.showMessage("Clipboard does not hold a diagram", MsgWarning)
		return
	}
	offset := geom.Pt(pasteOffset*ed.config.CellWidth, pasteOffset*ed.config.CellHeight)
	ids, err := merge(ed.diagram, src, offset, uuid.NewString)
	if ed.commit(err) {
		ed.vp.Select(ids...)
		ed.showMessage(fmt.Sprintf("Pasted %d block(s)", len(ids)), MsgSuccess)
	}
}

// extract copies the blocks in ids, their pins and the connections between
// them into a new diagram.
func extract(d *flow.Diagram, ids []string) (*flow.Diagram, error) {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	out := flow.New(d.Name)
	for _, b := range d.Blocks() {
		if keep[b.ID] {
			if err := out.AddBlock(b); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range d.Pins() {
		if keep[p.BlockID] {
			if err := out.AddPin(p); err != nil {
				return nil, err
			}
		}
	}
	for _, c := range d.Connections() {
		_, fromOK := out.Pin(c.From)
		_, toOK := out.Pin(c.To)
		if !fromOK || !toOK {
			continue
		}
		if _, err := out.Connect(c.ID, c.From, c.To); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// merge adds src to d under fresh ids, shifted by offset, and returns the
// ids of the new blocks.
func merge(d, src *flow.Diagram, offset geom.Point, newID func() string) ([]string, error) {
	ids := make(map[string]string)
	var blocks []string

	for _, b := range src.Blocks() {
		ids[b.ID] = newID()
		b.ID = ids[b.ID]
		b.X += offset.X
		b.Y += offset.Y
		if err := d.AddBlock(b); err != nil {
			return blocks, err
		}
		blocks = append(blocks, b.ID)
	}
	for _, p := range src.Pins() {
		ids[p.ID] = newID()
		p.ID = ids[p.ID]
		p.BlockID = ids[p.BlockID]
		if err := d.AddPin(p); err != nil {
			return blocks, err
		}
	}
	for _, c := range src.Connections() {
		if _, err := d.Connect(newID(), ids[c.From], ids[c.To]); err != nil {
			return blocks, err
		}
	}
	return blocks, nil
}
