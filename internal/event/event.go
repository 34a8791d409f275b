// Package event models the raw input notifications fed to the editor.
//
// Events arrive from a host environment (browser-like shim, TUI bridge,
// or tests) already carrying document references: pointer and paste
// events hold the boundary range the host resolved from coordinates.
// The editor core never performs hit-testing itself.
package event

import (
	"time"

	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/dom"
)

// Type identifies the kind of a raw input notification.
type Type uint8

const (
	// TypeNone is an unrecognized notification.
	TypeNone Type = iota
	// TypeKeyDown is a key press notification.
	TypeKeyDown
	// TypeKeyPress is a character-producing key notification.
	TypeKeyPress
	// TypeKeyUp is a key release notification.
	TypeKeyUp
	// TypeMouseDown is a pointer button press.
	TypeMouseDown
	// TypeMouseUp is a pointer button release.
	TypeMouseUp
	// TypeMouseMove is pointer movement.
	TypeMouseMove
	// TypeDoubleClick is a double press of the primary button.
	TypeDoubleClick
	// TypePaste is clipboard content insertion.
	TypePaste
	// TypeDragOver is a drag passing over a potential drop target.
	TypeDragOver
	// TypeDrop is content dropped onto a target.
	TypeDrop
	// TypeSelectionChange is a host selection-state change.
	TypeSelectionChange
)

// String returns the notification name.
func (t Type) String() string {
	switch t {
	case TypeKeyDown:
		return "keydown"
	case TypeKeyPress:
		return "keypress"
	case TypeKeyUp:
		return "keyup"
	case TypeMouseDown:
		return "mousedown"
	case TypeMouseUp:
		return "mouseup"
	case TypeMouseMove:
		return "mousemove"
	case TypeDoubleClick:
		return "dblclick"
	case TypePaste:
		return "paste"
	case TypeDragOver:
		return "dragover"
	case TypeDrop:
		return "drop"
	case TypeSelectionChange:
		return "selectionchange"
	default:
		return "none"
	}
}

// IsKey reports whether the event is a keyboard notification.
func (t Type) IsKey() bool {
	return t == TypeKeyDown || t == TypeKeyPress || t == TypeKeyUp
}

// IsMouse reports whether the event is a pointer notification.
func (t Type) IsMouse() bool {
	return t == TypeMouseDown || t == TypeMouseUp || t == TypeMouseMove || t == TypeDoubleClick
}

// Button identifies a pointer button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonPrimary is the main (usually left) button.
	ButtonPrimary
	// ButtonSecondary is the context-menu (usually right) button.
	ButtonSecondary
	// ButtonMiddle is the middle button or wheel press.
	ButtonMiddle
)

// Event is one raw input notification.
type Event struct {
	// Type identifies the notification.
	Type Type

	// Key, Rune and Mods carry keyboard state for key events.
	Key  Key
	Rune rune
	Mods Modifier

	// Buttons carries the pressed button for pointer events.
	Buttons Button

	// MouseX and MouseY are host coordinates for pointer events from
	// hosts that cannot resolve a range themselves.
	MouseX, MouseY int

	// Target is the document node the notification addressed, if any.
	Target *dom.Node

	// Range is the boundary range the host resolved for the
	// notification (caret position under the pointer, paste point).
	Range *boundary.Range

	// Content is the payload fragment for paste and drop events.
	Content *dom.Node

	// Source is the dragged node for drag and drop events.
	Source *dom.Node

	// Time is when the notification occurred.
	Time time.Time
}

// NewKeyDown creates a key press notification.
func NewKeyDown(key Key, r rune, mods Modifier) *Event {
	return &Event{Type: TypeKeyDown, Key: key, Rune: r, Mods: mods, Time: time.Now()}
}

// NewKeyPress creates a character notification.
func NewKeyPress(r rune) *Event {
	return &Event{Type: TypeKeyPress, Key: KeyRune, Rune: r, Time: time.Now()}
}

// NewMouseDown creates a primary-button press at a host-resolved range.
func NewMouseDown(target *dom.Node, at boundary.Range) *Event {
	return &Event{Type: TypeMouseDown, Buttons: ButtonPrimary, Target: target, Range: &at, Time: time.Now()}
}

// NewMouseMove creates a pointer movement notification.
func NewMouseMove(target *dom.Node) *Event {
	return &Event{Type: TypeMouseMove, Target: target, Time: time.Now()}
}

// NewDoubleClick creates a double-click at a host-resolved range.
func NewDoubleClick(target *dom.Node, at boundary.Range) *Event {
	return &Event{Type: TypeDoubleClick, Buttons: ButtonPrimary, Target: target, Range: &at, Time: time.Now()}
}

// NewPaste creates a paste notification with the inserted fragment.
func NewPaste(content *dom.Node, at boundary.Range) *Event {
	return &Event{Type: TypePaste, Content: content, Range: &at, Time: time.Now()}
}

// NewDragOver creates a drag-over notification at a candidate range.
func NewDragOver(source *dom.Node, at boundary.Range) *Event {
	return &Event{Type: TypeDragOver, Source: source, Range: &at, Time: time.Now()}
}

// NewDrop creates a drop notification.
func NewDrop(source *dom.Node, at boundary.Range) *Event {
	return &Event{Type: TypeDrop, Source: source, Range: &at, Time: time.Now()}
}

// NewSelectionChange creates a selection-change notification.
func NewSelectionChange(r boundary.Range) *Event {
	return &Event{Type: TypeSelectionChange, Range: &r, Time: time.Now()}
}
