package main

import (
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/flow-toolkit/pkg/geom"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

const doubleClickTime = 400 * time.Millisecond

// tcell: Button1 = left, Button2 = right, Button3 = middle.
var mouseButtons = []struct {
	mask   tcell.ButtonMask
	button viewport.Button
}{
	{tcell.Button1, viewport.ButtonPrimary},
	{tcell.Button3, viewport.ButtonMiddle},
	{tcell.Button2, viewport.ButtonSecondary},
}

// mouseTracker turns tcell's button-state mouse reports into discrete
// viewport events. Screen positions are cell centres scaled by the cell size.
type mouseTracker struct {
	cellW, cellH float64

	buttons      tcell.ButtonMask
	lastX, lastY int
	moved        bool // pointer moved since the primary press

	// Double click detection
	lastClick      time.Time
	clickX, clickY int
}

func newMouseTracker(cellW, cellH float64) *mouseTracker {
	return &mouseTracker{cellW: cellW, cellH: cellH, lastX: -1, lastY: -1}
}

// point returns the screen position of the centre of cell (x, y).
func (m *mouseTracker) point(x, y int) geom.Point {
	return geom.Pt((float64(x)+0.5)*m.cellW, (float64(y)+0.5)*m.cellH)
}

// cell returns the cell holding screen position p.
func (m *mouseTracker) cell(p geom.Point) (int, int) {
	return floorDiv(p.X, m.cellW), floorDiv(p.Y, m.cellH)
}

func floorDiv(v, size float64) int {
	return int(math.Floor(v / size))
}

// translate converts one tcell mouse report into viewport events, in the
// order the host should deliver them.
func (m *mouseTracker) translate(ev *tcell.EventMouse, now time.Time) []viewport.Event {
	x, y := ev.Position()
	pos := m.point(x, y)
	mods := modifiers(ev.Modifiers())
	btns := ev.Buttons()

	var out []viewport.Event
	wheel := func(dx, dy float64) {
		out = append(out, viewport.Event{Kind: viewport.EventWheel, Pos: pos, Mods: mods, WheelX: dx, WheelY: dy})
	}
	if btns&tcell.WheelUp != 0 {
		wheel(0, -1)
	}
	if btns&tcell.WheelDown != 0 {
		wheel(0, 1)
	}
	if btns&tcell.WheelLeft != 0 {
		wheel(-1, 0)
	}
	if btns&tcell.WheelRight != 0 {
		wheel(1, 0)
	}

	if x != m.lastX || y != m.lastY {
		if m.lastX >= 0 && m.buttons&tcell.Button1 != 0 {
			m.moved = true
		}
		out = append(out, viewport.Event{Kind: viewport.EventMove, Pos: pos, Mods: mods})
		m.lastX, m.lastY = x, y
	}

	pressed := btns & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	for _, b := range mouseButtons {
		was := m.buttons&b.mask != 0
		is := pressed&b.mask != 0
		switch {
		case is && !was:
			out = append(out, viewport.Event{Kind: viewport.EventDown, Button: b.button, Pos: pos, Mods: mods})
			if b.button == viewport.ButtonPrimary {
				m.moved = false
			}
			if b.button == viewport.ButtonSecondary {
				out = append(out, viewport.Event{Kind: viewport.EventContextMenu, Button: b.button, Pos: pos, Mods: mods})
			}
		case was && !is:
			out = append(out, viewport.Event{Kind: viewport.EventUp, Button: b.button, Pos: pos, Mods: mods})
			if b.button == viewport.ButtonPrimary && !m.moved {
				if m.isDoubleClick(x, y, now) {
					out = append(out, viewport.Event{Kind: viewport.EventDoubleClick, Button: b.button, Pos: pos, Mods: mods})
					m.lastClick = time.Time{}
				} else {
					m.lastClick = now
					m.clickX, m.clickY = x, y
				}
			}
		}
	}
	m.buttons = pressed
	return out
}

func (m *mouseTracker) isDoubleClick(x, y int, now time.Time) bool {
	if m.lastClick.IsZero() {
		return false
	}
	return now.Sub(m.lastClick) < doubleClickTime && x == m.clickX && y == m.clickY
}

// reset forgets held buttons, after the host has cancelled the gesture.
func (m *mouseTracker) reset() {
	m.buttons = 0
	m.moved = false
}

func modifiers(mod tcell.ModMask) viewport.Modifiers {
	var out viewport.Modifiers
	if mod&tcell.ModShift != 0 {
		out |= viewport.ModShift
	}
	if mod&tcell.ModCtrl != 0 {
		out |= viewport.ModCtrl
	}
	if mod&(tcell.ModAlt|tcell.ModMeta) != 0 {
		out |= viewport.ModAlt
	}
	return out
}
