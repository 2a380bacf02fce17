package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/flow-toolkit/pkg/geom"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

func kinds(events []viewport.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Kind.String()
		if e.Button != viewport.ButtonNone {
			out[i] += ":" + e.Button.String()
		}
	}
	return out
}

func sameKinds(got []viewport.Event, want ...string) bool {
	k := kinds(got)
	if len(k) != len(want) {
		return false
	}
	for i := range k {
		if k[i] != want[i] {
			return false
		}
	}
	return true
}

func TestMouseTrackerPressMoveRelease(t *testing.T) {
	m := newMouseTracker(8, 16)
	now := time.Now()

	steps := []struct {
		x, y int
		btn  tcell.ButtonMask
		want []string
	}{
		{3, 2, tcell.Button1, []string{"move", "down:primary"}},
		{3, 2, tcell.Button1, nil},
		{5, 2, tcell.Button1, []string{"move"}},
		{5, 2, tcell.ButtonNone, []string{"up:primary"}},
		{6, 2, tcell.ButtonNone, []string{"move"}},
	}
	for i, s := range steps {
		got := m.translate(tcell.NewEventMouse(s.x, s.y, s.btn, tcell.ModNone), now)
		if !sameKinds(got, s.want...) {
			t.Errorf("step %d: got %v, want %v", i, kinds(got), s.want)
		}
	}
}

func TestMouseTrackerButtons(t *testing.T) {
	tests := []struct {
		name string
		btn  tcell.ButtonMask
		want []string
	}{
		{"left", tcell.Button1, []string{"down:primary"}},
		{"middle", tcell.Button3, []string{"down:middle"}},
		{"right", tcell.Button2, []string{"down:secondary", "context-menu:secondary"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMouseTracker(8, 16)
			m.translate(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone), time.Now())
			got := m.translate(tcell.NewEventMouse(1, 1, tt.btn, tcell.ModNone), time.Now())
			if !sameKinds(got, tt.want...) {
				t.Errorf("got %v, want %v", kinds(got), tt.want)
			}
		})
	}
}

func TestMouseTrackerWheel(t *testing.T) {
	m := newMouseTracker(8, 16)
	m.translate(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone), time.Now())

	got := m.translate(tcell.NewEventMouse(1, 1, tcell.WheelUp, tcell.ModCtrl), time.Now())
	if len(got) != 1 || got[0].Kind != viewport.EventWheel {
		t.Fatalf("got %v, want one wheel event", kinds(got))
	}
	if got[0].WheelY != -1 || got[0].Mods != viewport.ModCtrl {
		t.Errorf("wheel = %+v", got[0])
	}

	got = m.translate(tcell.NewEventMouse(1, 1, tcell.WheelRight, tcell.ModShift), time.Now())
	if len(got) != 1 || got[0].WheelX != 1 || got[0].Mods != viewport.ModShift {
		t.Errorf("wheel right = %+v", got)
	}
}

func TestMouseTrackerDoubleClick(t *testing.T) {
	m := newMouseTracker(8, 16)
	t0 := time.Now()

	click := func(x int, at time.Time) []viewport.Event {
		var out []viewport.Event
		out = append(out, m.translate(tcell.NewEventMouse(x, 4, tcell.Button1, tcell.ModNone), at)...)
		out = append(out, m.translate(tcell.NewEventMouse(x, 4, tcell.ButtonNone, tcell.ModNone), at)...)
		return out
	}
	hasDouble := func(events []viewport.Event) bool {
		for _, e := range events {
			if e.Kind == viewport.EventDoubleClick {
				return true
			}
		}
		return false
	}

	if hasDouble(click(2, t0)) {
		t.Errorf("first click reported a double click")
	}
	if !hasDouble(click(2, t0.Add(150*time.Millisecond))) {
		t.Errorf("second quick click should be a double click")
	}
	if hasDouble(click(2, t0.Add(200*time.Millisecond))) {
		t.Errorf("third click should start a new pair")
	}
	if hasDouble(click(2, t0.Add(time.Second))) {
		t.Errorf("slow click reported a double click")
	}
	if hasDouble(click(3, t0.Add(1100*time.Millisecond))) {
		t.Errorf("click on another cell reported a double click")
	}
}

func TestMouseTrackerDragIsNotClick(t *testing.T) {
	m := newMouseTracker(8, 16)
	t0 := time.Now()
	m.translate(tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone), t0)
	m.translate(tcell.NewEventMouse(2, 2, tcell.ButtonNone, tcell.ModNone), t0)

	m.translate(tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone), t0)
	m.translate(tcell.NewEventMouse(4, 2, tcell.Button1, tcell.ModNone), t0)
	m.translate(tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone), t0)
	got := m.translate(tcell.NewEventMouse(2, 2, tcell.ButtonNone, tcell.ModNone), t0)
	if !sameKinds(got, "up:primary") {
		t.Errorf("got %v, want only the release", kinds(got))
	}
}

func TestMouseTrackerCells(t *testing.T) {
	m := newMouseTracker(8, 16)
	if p := m.point(3, 2); p != geom.Pt(28, 40) {
		t.Errorf("point(3, 2) = %v", p)
	}
	tests := []struct {
		p    geom.Point
		x, y int
	}{
		{geom.Pt(28, 40), 3, 2},
		{geom.Pt(0, 0), 0, 0},
		{geom.Pt(7.9, 15.9), 0, 0},
		{geom.Pt(-1, -1), -1, -1},
		{geom.Pt(-8, 16), -1, 1},
	}
	for _, tt := range tests {
		if x, y := m.cell(tt.p); x != tt.x || y != tt.y {
			t.Errorf("cell(%v) = %d,%d, want %d,%d", tt.p, x, y, tt.x, tt.y)
		}
	}
}

func TestModifiers(t *testing.T) {
	got := modifiers(tcell.ModShift | tcell.ModMeta)
	if got != viewport.ModShift|viewport.ModAlt {
		t.Errorf("modifiers = %v", got)
	}
}
