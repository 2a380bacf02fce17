// Package viewport implements the interaction core of a flow diagram editor:
// scroll and zoom of the canvas, marquee selection, block dragging and the
// connection gesture. It never owns the diagram; it reads a Model on Sync and
// proposes every change through Handlers.
package viewport

import (
	"log/slog"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
)

// Viewport aggregates the scroll, zoom, selection, drag and connection
// controllers and dispatches pointer events between them.
//
// A Viewport is not safe for concurrent use. Handlers run on the caller's
// goroutine after the new interaction state has been stored, so they may call
// back into the Viewport (typically Sync).
type Viewport struct {
	opts     Options
	handlers Handlers
	log      *slog.Logger

	zoom   *Zoom
	scroll *Scroll
	sel    *Selection
	drag   dragController
	router Router

	model    *snapshot
	measurer Measurer
	state    Interaction

	blockCount    int
	childrenWidth float64

	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(Change)
}

// New creates a viewport. Zero fields of opts take their DefaultOptions value.
func New(opts Options, h Handlers) *Viewport {
	opts = opts.normalize()
	v := &Viewport{
		opts:     opts,
		handlers: h,
		log:      opts.Logger,
		zoom:     NewZoom(opts.DefaultZoom, opts.MinZoom, opts.MaxZoom, opts.ZoomStep),
		scroll:   NewScroll(opts.HeightMargin, opts.HorizontalPanInViewBox),
		model:    newSnapshot(nil),
		state:    Idle{},
	}
	v.sel = newSelection(&v.handlers, v.log)
	v.drag = dragController{handlers: &v.handlers, log: v.log}
	v.router = Router{handlers: &v.handlers, log: v.log}
	return v
}

// SetHandlers replaces the callback table.
func (v *Viewport) SetHandlers(h Handlers) {
	v.handlers = h
}

// Options returns the normalized options.
func (v *Viewport) Options() Options {
	return v.opts
}

// Mount measures the host element and seeds the content extent from it.
// The measurer is kept for later Resize calls.
func (v *Viewport) Mount(m Measurer) {
	v.measurer = m
	w, h := 0.0, 0.0
	if m != nil {
		w, h = m.Measure()
	}
	v.scroll.Mount(w, h, v.model.blocks)
	v.blockCount = len(v.model.blocks)
	v.childrenWidth = v.model.maxChildrenWidth()
	v.scroll.GrowWidth(v.childrenWidth)
	v.log.Debug("mounted", "width", w, "height", h)
	v.notify(ChangeViewport)
}

// Resize re-measures the host element.
func (v *Viewport) Resize() {
	if v.measurer == nil {
		return
	}
	w, h := v.measurer.Measure()
	v.scroll.Resize(w, h, v.model.blocks)
	v.scroll.ScrollBy(0, 0, v.zoom.Scale())
	v.log.Debug("resized", "width", w, "height", h)
	v.notify(ChangeViewport)
}

// Sync re-reads the host model. It refits the content height when the block
// count changed and otherwise only grows it to keep the lowest block reachable.
// The width follows the widest ChildrenWidth. Sync also drops selected ids that
// no longer exist and aborts gesture parts that refer to removed objects.
func (v *Viewport) Sync(m Model) {
	v.model = newSnapshot(m)
	var change Change

	if n := len(v.model.blocks); n != v.blockCount {
		v.blockCount = n
		v.scroll.FitHeight(v.model.blocks)
		change |= ChangeViewport
	} else if v.scroll.GrowHeight(v.model.blocks) {
		change |= ChangeViewport
	}
	if cw := v.model.maxChildrenWidth(); cw != v.childrenWidth {
		v.childrenWidth = cw
		if v.scroll.GrowWidth(cw) {
			change |= ChangeViewport
		}
	}
	if change.Has(ChangeViewport) {
		v.scroll.ScrollBy(0, 0, v.zoom.Scale())
	}

	if v.sel.prune(v.model) {
		change |= ChangeSelection
	}

	switch s := v.state.(type) {
	case DraggingBlocks:
		if next, ok := v.drag.prune(v.model, s); ok {
			v.state = next
		} else {
			v.log.Debug("drag aborted: no blocks left")
			v.state = Idle{}
			change |= ChangeInteraction
		}
	case DraggingConnection:
		if !v.router.valid(v.model, s) {
			v.log.Debug("connection aborted: endpoint removed or origin connected")
			v.state = Idle{}
			change |= ChangeInteraction
		}
	}

	if change != 0 {
		v.notify(change)
	}
}

// Handle processes one pointer event. It reports whether the event was
// consumed; a host should suppress its own default action (such as a context
// menu) for consumed events.
func (v *Viewport) Handle(e Event) bool {
	world := ToWorld(e.Pos, v.State())
	t := e.Target
	if t.Kind == TargetAuto {
		t = v.model.hitTest(world, v.opts.PinRadius)
	}

	switch e.Kind {
	case EventDown:
		return v.down(e, t, world)
	case EventMove:
		return v.move(e, world)
	case EventUp:
		return v.up(e, t, world)
	case EventCancel:
		return v.Cancel()
	case EventDoubleClick:
		if t.Kind == TargetBlock {
			return v.handlers.elementEdit(t.BlockID)
		}
		return false
	case EventContextMenu:
		_, dragging := v.state.(DraggingConnection)
		return dragging || t.IsPin()
	case EventWheel:
		return v.wheel(e)
	}
	return false
}

func (v *Viewport) down(e Event, t Target, world geom.Point) bool {
	if _, idle := v.state.(Idle); !idle {
		_, dragging := v.state.(DraggingConnection)
		return e.Button == ButtonSecondary && (dragging || t.IsPin())
	}

	switch e.Button {
	case ButtonMiddle:
		v.transition(Panning{
			Anchor: e.Pos,
			Scroll: geom.Point{X: v.scroll.Left(), Y: v.scroll.Top()},
		}, ChangeInteraction, nil)
		return true

	case ButtonSecondary:
		return t.IsPin()

	case ButtonPrimary:
		switch t.Kind {
		case TargetOutput, TargetInput, TargetConnection:
			if next, ok := v.router.begin(v.model, t, world); ok {
				v.transition(next, ChangeInteraction, nil)
			}
			return true
		case TargetBlock:
			if !v.model.hasBlock(t.BlockID) {
				return false
			}
			next, selChanged := v.drag.begin(v.model, v.sel, t.BlockID, world)
			change := ChangeInteraction
			if selChanged {
				change |= ChangeSelection
			}
			v.transition(next, change, nil)
			return true
		case TargetBackground:
			v.transition(v.sel.begin(world), ChangeInteraction, nil)
			return true
		}
	}
	return false
}

func (v *Viewport) move(e Event, world geom.Point) bool {
	switch s := v.state.(type) {
	case Panning:
		k := v.zoom.Scale()
		d := e.Pos.Sub(s.Anchor)
		if v.scroll.ScrollTo(s.Scroll.X-d.X/k, s.Scroll.Y-d.Y/k, k) {
			v.notify(ChangeViewport)
		}
		return true
	case Marqueeing:
		v.transition(v.sel.move(s, world), ChangeInteraction, nil)
		return true
	case DraggingBlocks:
		next, effect := v.drag.move(v.model, s, world)
		v.transition(next, ChangeInteraction, effect)
		return true
	case DraggingConnection:
		v.transition(v.router.move(s, world), ChangeInteraction, nil)
		return true
	}
	return false
}

func (v *Viewport) up(e Event, t Target, world geom.Point) bool {
	switch s := v.state.(type) {
	case Panning:
		if !releases(e.Button, ButtonMiddle) {
			return false
		}
		v.transition(Idle{}, ChangeInteraction, nil)
		return true
	case Marqueeing:
		if !releases(e.Button, ButtonPrimary) {
			return false
		}
		s = v.sel.move(s, world)
		selChanged, effect := v.sel.finish(v.model, s)
		change := ChangeInteraction
		if selChanged {
			change |= ChangeSelection
		}
		v.transition(Idle{}, change, effect)
		return true
	case DraggingBlocks:
		if !releases(e.Button, ButtonPrimary) {
			return false
		}
		v.log.Debug("drag finished", "count", len(s.IDs))
		v.transition(Idle{}, ChangeInteraction, nil)
		return true
	case DraggingConnection:
		if !releases(e.Button, ButtonPrimary) {
			return e.Button == ButtonSecondary
		}
		effect := v.router.finish(v.model, v.router.move(s, world), t, world)
		v.transition(Idle{}, ChangeInteraction, effect)
		return true
	}
	return false
}

func releases(got, want Button) bool {
	return got == ButtonNone || got == want
}

func (v *Viewport) wheel(e Event) bool {
	if e.Mods&ModCtrl != 0 {
		var changed bool
		switch {
		case e.WheelY < 0:
			changed = v.zoom.In()
		case e.WheelY > 0:
			changed = v.zoom.Out()
		}
		if changed {
			v.notify(ChangeViewport)
		}
		return true
	}

	dx, dy := e.WheelX, e.WheelY
	if e.Mods&ModShift != 0 {
		dx, dy = dx+dy, 0
	}
	return v.ScrollBy(dx*v.opts.WheelStep, dy*v.opts.WheelStep) || dx != 0 || dy != 0
}

// Cancel aborts the active gesture and returns to Idle. It never invokes a
// handler. Reports whether a gesture was active.
func (v *Viewport) Cancel() bool {
	if _, idle := v.state.(Idle); idle {
		return false
	}
	v.log.Debug("gesture cancelled", "state", v.state.String())
	v.transition(Idle{}, ChangeInteraction, nil)
	return true
}

// transition stores the next interaction, runs the effect and notifies
// subscribers. The state is assigned before the effect so a handler that
// re-enters the viewport sees the finished transition.
func (v *Viewport) transition(next Interaction, change Change, effect func()) {
	v.state = next
	if effect != nil {
		effect()
	}
	v.notify(change)
}

// ScrollBy scrolls by a world-space delta, clamped to the content extent.
func (v *Viewport) ScrollBy(dx, dy float64) bool {
	if !v.scroll.ScrollBy(dx, dy, v.zoom.Scale()) {
		return false
	}
	v.notify(ChangeViewport)
	return true
}

// ScrollTo sets the scroll offsets, clamped to the content extent.
func (v *Viewport) ScrollTo(left, top float64) bool {
	if !v.scroll.ScrollTo(left, top, v.zoom.Scale()) {
		return false
	}
	v.notify(ChangeViewport)
	return true
}

// SetZoom sets the zoom percentage, clamped to the configured range. Scroll
// offsets are left as they are.
func (v *Viewport) SetZoom(level int) bool {
	return v.zoomed(v.zoom.Set(level))
}

// ZoomIn raises the zoom by one step.
func (v *Viewport) ZoomIn() bool {
	return v.zoomed(v.zoom.In())
}

// ZoomOut lowers the zoom by one step.
func (v *Viewport) ZoomOut() bool {
	return v.zoomed(v.zoom.Out())
}

func (v *Viewport) zoomed(changed bool) bool {
	if changed {
		v.log.Debug("zoom", "level", v.zoom.Level())
		v.notify(ChangeViewport)
	}
	return changed
}

// State returns the current scroll and zoom frame.
func (v *Viewport) State() State {
	return State{
		ScrollLeft:    v.scroll.Left(),
		ScrollTop:     v.scroll.Top(),
		ContentWidth:  v.scroll.ContentWidth(),
		ContentHeight: v.scroll.ContentHeight(),
		ZoomLevel:     v.zoom.Level(),
	}
}

// ViewBox returns the connection overlay's visible window.
func (v *Viewport) ViewBox() ViewBox {
	return v.scroll.ViewBox()
}

// TransformStyle returns the transform of the content surface.
func (v *Viewport) TransformStyle() TransformStyle {
	return v.zoom.Style(v.scroll.ContentWidth(), v.scroll.ContentHeight())
}

// Selection returns the selected block ids, sorted.
func (v *Viewport) Selection() []string {
	return v.sel.IDs()
}

// IsSelected reports whether a block is selected.
func (v *Viewport) IsSelected(id string) bool {
	return v.sel.Contains(id)
}

// Select replaces the selection with the given ids. Unknown ids are ignored.
func (v *Viewport) Select(ids ...string) {
	known := make([]string, 0, len(ids))
	for _, id := range ids {
		if v.model.hasBlock(id) {
			known = append(known, id)
		}
	}
	if v.sel.Set(known) {
		v.notify(ChangeSelection)
	}
}

// SelectAll selects every block.
func (v *Viewport) SelectAll() {
	ids := make([]string, len(v.model.blocks))
	for i, b := range v.model.blocks {
		ids[i] = b.ID
	}
	if v.sel.Set(ids) {
		v.notify(ChangeSelection)
	}
}

// ClearSelection empties the selection.
func (v *Viewport) ClearSelection() {
	if v.sel.Clear() {
		v.notify(ChangeSelection)
	}
}

// DeleteSelection asks the host to delete every selected block, in paint
// order. The selection itself is pruned by the next Sync. Returns the number
// of OnDeleteBlock calls made.
func (v *Viewport) DeleteSelection() int {
	var doomed []flow.Block
	for _, b := range v.model.blocks {
		if v.sel.Contains(b.ID) {
			doomed = append(doomed, b)
		}
	}
	n := 0
	for _, b := range doomed {
		if v.handlers.deleteBlock(b) {
			n++
		}
	}
	return n
}

// Interaction returns the active gesture.
func (v *Viewport) Interaction() Interaction {
	return v.state
}

// MarqueeRect returns the world-space marquee while one is being drawn.
func (v *Viewport) MarqueeRect() (geom.Rect, bool) {
	if m, ok := v.state.(Marqueeing); ok {
		return m.Rect, true
	}
	return geom.Rect{}, false
}

// TransientConnection returns the world-space line from the origin pin to
// the cursor while a connection is being dragged.
func (v *Viewport) TransientConnection() (Segment, bool) {
	if s, ok := v.state.(DraggingConnection); ok {
		return v.router.transient(v.model, s)
	}
	return Segment{}, false
}

// ConnectionHandle returns the world-space reroute handle of a connection.
func (v *Viewport) ConnectionHandle(id string) (geom.Point, bool) {
	c, ok := v.model.connection(id)
	if !ok {
		return geom.Point{}, false
	}
	return v.model.connectionHandle(c)
}

// Frame returns everything a renderer needs for one paint.
func (v *Viewport) Frame() Frame {
	f := Frame{
		State:       v.State(),
		ViewBox:     v.ViewBox(),
		Transform:   v.TransformStyle(),
		Selection:   v.Selection(),
		Interaction: v.state,
	}
	if r, ok := v.MarqueeRect(); ok {
		f.Marquee = &r
	}
	if s, ok := v.TransientConnection(); ok {
		f.Transient = &s
	}
	return f
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (v *Viewport) Subscribe(fn func(Change)) func() {
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

func (v *Viewport) notify(c Change) {
	if c == 0 {
		return
	}
	for _, s := range append([]subscriber(nil), v.subs...) {
		s.fn(c)
	}
}
