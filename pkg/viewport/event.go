package viewport

import "github.com/ha1tch/flow-toolkit/pkg/geom"

// EventKind is the type of pointer event delivered by the host.
type EventKind uint8

const (
	// EventDown is a button press.
	EventDown EventKind = iota
	// EventMove is pointer motion, with or without a button held.
	EventMove
	// EventUp is a button release.
	EventUp
	// EventCancel aborts any gesture: pointer left the surface, Escape, or a
	// host-issued cancel.
	EventCancel
	// EventDoubleClick is a double click with the primary button.
	EventDoubleClick
	// EventContextMenu is the host's request to open a context menu.
	EventContextMenu
	// EventWheel is a scroll wheel notch; see Event.WheelX/WheelY.
	EventWheel
)

// String returns a string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventDown:
		return "down"
	case EventMove:
		return "move"
	case EventUp:
		return "up"
	case EventCancel:
		return "cancel"
	case EventDoubleClick:
		return "double-click"
	case EventContextMenu:
		return "context-menu"
	case EventWheel:
		return "wheel"
	default:
		return "unknown"
	}
}

// Button identifies the pointer button of a down/up event.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonMiddle:
		return "middle"
	case ButtonSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Modifiers is a bit set of keyboard modifiers held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// TargetKind classifies where an event originated.
type TargetKind uint8

const (
	// TargetAuto asks the viewport to hit test the event position.
	TargetAuto TargetKind = iota
	// TargetBackground is empty canvas.
	TargetBackground
	// TargetBlock is a block body.
	TargetBlock
	// TargetOutput is an output pin.
	TargetOutput
	// TargetInput is an input pin.
	TargetInput
	// TargetConnection is the reroute handle of an existing connection, a
	// PinRadius circle around the midpoint of its curve.
	TargetConnection
	// TargetOutside is any surface that is not part of the diagram.
	TargetOutside
)

// String returns a string representation of the target kind.
func (k TargetKind) String() string {
	switch k {
	case TargetAuto:
		return "auto"
	case TargetBackground:
		return "background"
	case TargetBlock:
		return "block"
	case TargetOutput:
		return "output"
	case TargetInput:
		return "input"
	case TargetConnection:
		return "connection"
	case TargetOutside:
		return "outside"
	default:
		return "unknown"
	}
}

// Target is the classified origin of an event.
type Target struct {
	Kind         TargetKind
	BlockID      string // block owning the body or pin
	PinID        string
	ConnectionID string
}

// IsPin reports whether the target is an input or output pin.
func (t Target) IsPin() bool {
	return t.Kind == TargetOutput || t.Kind == TargetInput
}

// Event is a raw pointer event in screen coordinates relative to the
// viewport element.
type Event struct {
	Kind   EventKind
	Button Button
	Pos    geom.Point
	Target Target // zero value: hit test Pos
	Mods   Modifiers

	// Wheel deltas in notches; positive Y scrolls down.
	WheelX, WheelY float64
}
