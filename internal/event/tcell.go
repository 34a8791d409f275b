package event

import (
	"github.com/gdamore/tcell/v2"
)

// TcellAdapter translates tcell terminal events into editor input
// notifications, for hosts embedding the editor in a TUI. Pointer
// events carry only screen coordinates; the host is responsible for
// hit-testing them into a document range before dispatch.
//
// The adapter is stateful: tcell reports a button mask per mouse event,
// so press and release are derived from the previous mask.
type TcellAdapter struct {
	lastButtons tcell.ButtonMask
}

// NewTcellAdapter creates a new adapter.
func NewTcellAdapter() *TcellAdapter {
	return &TcellAdapter{}
}

// Translate converts a tcell event. It returns false for events the
// editor has no use for (resize, focus, paste brackets).
func (a *TcellAdapter) Translate(ev tcell.Event) (*Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		out := &Event{
			Type: TypeKeyDown,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mods: convertMod(e.Modifiers()),
			Time: e.When(),
		}
		// tcell folds Ctrl+letter into dedicated key codes.
		if e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ {
			out.Key = KeyRune
			out.Rune = rune('a' + e.Key() - tcell.KeyCtrlA)
			out.Mods |= ModCtrl
		}
		return out, true

	case *tcell.EventMouse:
		x, y := e.Position()
		buttons := e.Buttons() & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)
		prev := a.lastButtons
		a.lastButtons = buttons

		out := &Event{
			MouseX: x,
			MouseY: y,
			Mods:   convertMod(e.Modifiers()),
			Time:   e.When(),
		}
		switch {
		case buttons&^prev != 0:
			out.Type = TypeMouseDown
			out.Buttons = convertButton(buttons &^ prev)
		case prev&^buttons != 0:
			out.Type = TypeMouseUp
			out.Buttons = convertButton(prev &^ buttons)
		default:
			out.Type = TypeMouseMove
			out.Buttons = convertButton(buttons)
		}
		return out, true

	default:
		return nil, false
	}
}

// convertKey converts a tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	default:
		return KeyNone
	}
}

// convertMod converts tcell modifiers to our Modifier type.
func convertMod(m tcell.ModMask) Modifier {
	var out Modifier
	if m&tcell.ModShift != 0 {
		out |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= ModMeta
	}
	return out
}

// convertButton picks the first pressed button from a mask.
func convertButton(b tcell.ButtonMask) Button {
	switch {
	case b&tcell.ButtonPrimary != 0:
		return ButtonPrimary
	case b&tcell.ButtonSecondary != 0:
		return ButtonSecondary
	case b&tcell.ButtonMiddle != 0:
		return ButtonMiddle
	default:
		return ButtonNone
	}
}
