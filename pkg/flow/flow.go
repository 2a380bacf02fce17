// Package flow provides the block/pin/connection graph that hosts keep and
// the viewport reads.
package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate id")
	ErrInvalidConnection = errors.New("invalid connection")
)

// PinKind distinguishes outputs from inputs.
type PinKind string

const (
	PinOutput PinKind = "output"
	PinInput  PinKind = "input"
)

// Block is a node on the canvas. X and Y are the top-left corner in world space.
type Block struct {
	ID            string  `json:"id" toml:"id" yaml:"id"`
	Label         string  `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	X             float64 `json:"x" toml:"x" yaml:"x"`
	Y             float64 `json:"y" toml:"y" yaml:"y"`
	Width         float64 `json:"width" toml:"width" yaml:"width"`
	Height        float64 `json:"height" toml:"height" yaml:"height"`
	ChildrenWidth float64 `json:"children_width,omitempty" toml:"children_width,omitempty" yaml:"children_width,omitempty"`
}

// Bounds returns the block's bounding rectangle.
func (b Block) Bounds() geom.Rect {
	return geom.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}

// Pin is a named connection point attached to exactly one block.
// Offsets are relative to the owning block's top-left corner.
type Pin struct {
	ID        string  `json:"id" toml:"id" yaml:"id"`
	BlockID   string  `json:"block" toml:"block" yaml:"block"`
	Kind      PinKind `json:"kind" toml:"kind" yaml:"kind"`
	Label     string  `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	OffsetX   float64 `json:"offset_x" toml:"offset_x" yaml:"offset_x"`
	OffsetY   float64 `json:"offset_y" toml:"offset_y" yaml:"offset_y"`
	Connected bool    `json:"-" toml:"-" yaml:"-"`
}

// Center returns the pin centre given its owning block.
func (p Pin) Center(owner Block) geom.Point {
	return geom.Point{X: owner.X + p.OffsetX, Y: owner.Y + p.OffsetY}
}

// Connection is a directed link from an output pin to an input pin.
type Connection struct {
	ID   string `json:"id" toml:"id" yaml:"id"`
	From string `json:"from" toml:"from" yaml:"from"` // output pin
	To   string `json:"to" toml:"to" yaml:"to"`       // input pin
}

// Diagram is an ordered collection of blocks, their pins and connections.
// Block order is paint order.
type Diagram struct {
	Name        string
	blocks      []Block
	pins        []Pin
	connections []Connection
}

// New creates an empty diagram.
func New(name string) *Diagram {
	return &Diagram{
		Name:        name,
		blocks:      make([]Block, 0),
		pins:        make([]Pin, 0),
		connections: make([]Connection, 0),
	}
}

// Blocks returns a copy of the blocks in paint order.
func (d *Diagram) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// Pins returns a copy of all pins with their Connected flags.
func (d *Diagram) Pins() []Pin {
	out := make([]Pin, len(d.pins))
	copy(out, d.pins)
	return out
}

// Connections returns a copy of all connections.
func (d *Diagram) Connections() []Connection {
	out := make([]Connection, len(d.connections))
	copy(out, d.connections)
	return out
}

// AddBlock appends a block.
func (d *Diagram) AddBlock(b Block) error {
	if b.ID == "" {
		return fmt.Errorf("block: empty id")
	}
	if d.BlockIndex(b.ID) >= 0 {
		return fmt.Errorf("block %q: %w", b.ID, ErrDuplicate)
	}
	d.blocks = append(d.blocks, b)
	return nil
}

// AddPin attaches a pin to an existing block.
func (d *Diagram) AddPin(p Pin) error {
	if p.ID == "" {
		return fmt.Errorf("pin: empty id")
	}
	if d.PinIndex(p.ID) >= 0 {
		return fmt.Errorf("pin %q: %w", p.ID, ErrDuplicate)
	}
	if d.BlockIndex(p.BlockID) < 0 {
		return fmt.Errorf("pin %q: block %q: %w", p.ID, p.BlockID, ErrNotFound)
	}
	if p.Kind != PinOutput && p.Kind != PinInput {
		return fmt.Errorf("pin %q: unknown kind %q", p.ID, p.Kind)
	}
	p.Connected = false
	d.pins = append(d.pins, p)
	d.refreshConnected()
	return nil
}

// Connect links an output pin to an input pin. An input accepts at most one
// connection; outputs may fan out.
func (d *Diagram) Connect(id, from, to string) (Connection, error) {
	if id == "" {
		return Connection{}, fmt.Errorf("connection: empty id")
	}
	if d.ConnectionIndex(id) >= 0 {
		return Connection{}, fmt.Errorf("connection %q: %w", id, ErrDuplicate)
	}
	if err := d.checkEndpoints(from, to); err != nil {
		return Connection{}, err
	}
	for _, c := range d.connections {
		if c.To == to {
			return Connection{}, fmt.Errorf("input %q already connected: %w", to, ErrInvalidConnection)
		}
	}

	c := Connection{ID: id, From: from, To: to}
	d.connections = append(d.connections, c)
	d.refreshConnected()
	return c, nil
}

// Reconnect moves the input end of a connection to another input pin.
func (d *Diagram) Reconnect(id, to string) error {
	idx := d.ConnectionIndex(id)
	if idx < 0 {
		return fmt.Errorf("connection %q: %w", id, ErrNotFound)
	}
	c := d.connections[idx]
	if err := d.checkEndpoints(c.From, to); err != nil {
		return err
	}
	for _, other := range d.connections {
		if other.ID != id && other.To == to {
			return fmt.Errorf("input %q already connected: %w", to, ErrInvalidConnection)
		}
	}
	d.connections[idx].To = to
	d.refreshConnected()
	return nil
}

// Disconnect removes a connection.
func (d *Diagram) Disconnect(id string) error {
	idx := d.ConnectionIndex(id)
	if idx < 0 {
		return fmt.Errorf("connection %q: %w", id, ErrNotFound)
	}
	d.connections = append(d.connections[:idx], d.connections[idx+1:]...)
	d.refreshConnected()
	return nil
}

// RemoveBlock deletes a block together with its pins and every connection
// touching them.
func (d *Diagram) RemoveBlock(id string) error {
	idx := d.BlockIndex(id)
	if idx < 0 {
		return fmt.Errorf("block %q: %w", id, ErrNotFound)
	}
	d.blocks = append(d.blocks[:idx], d.blocks[idx+1:]...)

	removed := make(map[string]bool)
	pins := d.pins[:0]
	for _, p := range d.pins {
		if p.BlockID == id {
			removed[p.ID] = true
			continue
		}
		pins = append(pins, p)
	}
	d.pins = pins

	conns := d.connections[:0]
	for _, c := range d.connections {
		if removed[c.From] || removed[c.To] {
			continue
		}
		conns = append(conns, c)
	}
	d.connections = conns
	d.refreshConnected()
	return nil
}

// MoveBlock sets a block's top-left position.
func (d *Diagram) MoveBlock(id string, x, y float64) error {
	idx := d.BlockIndex(id)
	if idx < 0 {
		return fmt.Errorf("block %q: %w", id, ErrNotFound)
	}
	d.blocks[idx].X = x
	d.blocks[idx].Y = y
	return nil
}

// SetChildrenWidth records the rendered width of a block's children.
func (d *Diagram) SetChildrenWidth(id string, w float64) error {
	idx := d.BlockIndex(id)
	if idx < 0 {
		return fmt.Errorf("block %q: %w", id, ErrNotFound)
	}
	d.blocks[idx].ChildrenWidth = w
	return nil
}

// SetLabel renames a block.
func (d *Diagram) SetLabel(id, label string) error {
	idx := d.BlockIndex(id)
	if idx < 0 {
		return fmt.Errorf("block %q: %w", id, ErrNotFound)
	}
	d.blocks[idx].Label = label
	return nil
}

// Block returns the block with the given id.
func (d *Diagram) Block(id string) (Block, bool) {
	if idx := d.BlockIndex(id); idx >= 0 {
		return d.blocks[idx], true
	}
	return Block{}, false
}

// Pin returns the pin with the given id.
func (d *Diagram) Pin(id string) (Pin, bool) {
	if idx := d.PinIndex(id); idx >= 0 {
		return d.pins[idx], true
	}
	return Pin{}, false
}

// Connection returns the connection with the given id.
func (d *Diagram) Connection(id string) (Connection, bool) {
	if idx := d.ConnectionIndex(id); idx >= 0 {
		return d.connections[idx], true
	}
	return Connection{}, false
}

// PinsOf returns the pins attached to a block.
func (d *Diagram) PinsOf(blockID string) []Pin {
	var out []Pin
	for _, p := range d.pins {
		if p.BlockID == blockID {
			out = append(out, p)
		}
	}
	return out
}

// ConnectionsFrom returns the connections leaving an output pin.
func (d *Diagram) ConnectionsFrom(pinID string) []Connection {
	var out []Connection
	for _, c := range d.connections {
		if c.From == pinID {
			out = append(out, c)
		}
	}
	return out
}

// PinCenter returns the world-space centre of a pin.
func (d *Diagram) PinCenter(pinID string) (geom.Point, bool) {
	p, ok := d.Pin(pinID)
	if !ok {
		return geom.Point{}, false
	}
	b, ok := d.Block(p.BlockID)
	if !ok {
		return geom.Point{}, false
	}
	return p.Center(b), true
}

// BlockIndex returns the index of a block, or -1 if not found.
func (d *Diagram) BlockIndex(id string) int {
	for i, b := range d.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// PinIndex returns the index of a pin, or -1 if not found.
func (d *Diagram) PinIndex(id string) int {
	for i, p := range d.pins {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ConnectionIndex returns the index of a connection, or -1 if not found.
func (d *Diagram) ConnectionIndex(id string) int {
	for i, c := range d.connections {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks that the diagram is well-formed.
func (d *Diagram) Validate() error {
	seen := make(map[string]bool)
	for _, b := range d.blocks {
		if b.ID == "" {
			return fmt.Errorf("block with empty id")
		}
		if seen[b.ID] {
			return fmt.Errorf("block %q: %w", b.ID, ErrDuplicate)
		}
		seen[b.ID] = true
		if b.Width < 0 || b.Height < 0 {
			return fmt.Errorf("block %q has negative size", b.ID)
		}
	}

	pinSeen := make(map[string]bool)
	for _, p := range d.pins {
		if pinSeen[p.ID] {
			return fmt.Errorf("pin %q: %w", p.ID, ErrDuplicate)
		}
		pinSeen[p.ID] = true
		if !seen[p.BlockID] {
			return fmt.Errorf("pin %q: block %q: %w", p.ID, p.BlockID, ErrNotFound)
		}
		if p.Kind != PinOutput && p.Kind != PinInput {
			return fmt.Errorf("pin %q: unknown kind %q", p.ID, p.Kind)
		}
	}

	targets := make(map[string]string)
	for i, c := range d.connections {
		if err := d.checkEndpoints(c.From, c.To); err != nil {
			return fmt.Errorf("connection %d (%s): %w", i, c.ID, err)
		}
		if prev, ok := targets[c.To]; ok {
			return fmt.Errorf("connection %q: input %q already used by %q: %w",
				c.ID, c.To, prev, ErrInvalidConnection)
		}
		targets[c.To] = c.ID
	}
	return nil
}

func (d *Diagram) checkEndpoints(from, to string) error {
	fp, ok := d.Pin(from)
	if !ok {
		return fmt.Errorf("pin %q: %w", from, ErrNotFound)
	}
	tp, ok := d.Pin(to)
	if !ok {
		return fmt.Errorf("pin %q: %w", to, ErrNotFound)
	}
	if fp.Kind != PinOutput {
		return fmt.Errorf("pin %q is not an output: %w", from, ErrInvalidConnection)
	}
	if tp.Kind != PinInput {
		return fmt.Errorf("pin %q is not an input: %w", to, ErrInvalidConnection)
	}
	return nil
}

// refreshConnected recomputes every pin's Connected flag.
func (d *Diagram) refreshConnected() {
	used := make(map[string]bool, len(d.connections)*2)
	for _, c := range d.connections {
		used[c.From] = true
		used[c.To] = true
	}
	for i := range d.pins {
		d.pins[i].Connected = used[d.pins[i].ID]
	}
}

// String returns a string representation of the diagram.
func (d *Diagram) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Diagram: %s\n", d.Name))
	sb.WriteString(fmt.Sprintf("  Blocks: %d\n", len(d.blocks)))
	sb.WriteString(fmt.Sprintf("  Pins: %d\n", len(d.pins)))
	sb.WriteString(fmt.Sprintf("  Connections: %d\n", len(d.connections)))
	return sb.String()
}
