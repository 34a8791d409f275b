package event

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/dom"
)

func TestTypeClassification(t *testing.T) {
	keys := []Type{TypeKeyDown, TypeKeyPress, TypeKeyUp}
	for _, typ := range keys {
		if !typ.IsKey() || typ.IsMouse() {
			t.Errorf("%v misclassified", typ)
		}
	}
	mice := []Type{TypeMouseDown, TypeMouseUp, TypeMouseMove, TypeDoubleClick}
	for _, typ := range mice {
		if !typ.IsMouse() || typ.IsKey() {
			t.Errorf("%v misclassified", typ)
		}
	}
	if TypePaste.IsKey() || TypePaste.IsMouse() {
		t.Error("paste is neither key nor mouse")
	}
}

func TestIsChar(t *testing.T) {
	tests := []struct {
		name string
		ev   *Event
		want bool
	}{
		{"plain letter", NewKeyPress('a'), true},
		{"shifted letter", NewKeyDown(KeyRune, 'A', ModShift), true},
		{"ctrl chord", NewKeyDown(KeyRune, 'b', ModCtrl), false},
		{"special key", NewKeyDown(KeyEnter, 0, ModNone), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.IsChar(); got != tt.want {
				t.Errorf("IsChar() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstructorsCarryPayload(t *testing.T) {
	text := dom.NewText("abc")
	at := boundary.Collapsed(boundary.At(text, 1))

	md := NewMouseDown(text, at)
	if md.Target != text || md.Range == nil || *md.Range != at {
		t.Error("mousedown payload wrong")
	}

	frag := dom.NewElement("p", dom.NewText("pasted"))
	p := NewPaste(frag, at)
	if p.Content != frag || p.Range == nil {
		t.Error("paste payload wrong")
	}

	d := NewDrop(frag, at)
	if d.Source != frag {
		t.Error("drop source wrong")
	}
}

func TestTcellKeyTranslation(t *testing.T) {
	a := NewTcellAdapter()

	tests := []struct {
		name     string
		in       *tcell.EventKey
		wantKey  Key
		wantRune rune
		wantMods Modifier
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), KeyRune, 'x', ModNone},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), KeyEnter, 0, ModNone},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), KeyBackspace, 0, ModNone},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl), KeyRune, 'b', ModCtrl},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), KeyLeft, 0, ModShift},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := a.Translate(tt.in)
			if !ok {
				t.Fatal("Translate returned false")
			}
			if out.Type != TypeKeyDown {
				t.Errorf("Type = %v", out.Type)
			}
			if out.Key != tt.wantKey || out.Rune != tt.wantRune || out.Mods != tt.wantMods {
				t.Errorf("got key=%v rune=%q mods=%v", out.Key, out.Rune, out.Mods)
			}
		})
	}
}

func TestTcellMouseSequence(t *testing.T) {
	a := NewTcellAdapter()

	press, _ := a.Translate(tcell.NewEventMouse(3, 4, tcell.ButtonPrimary, tcell.ModNone))
	if press.Type != TypeMouseDown || press.Buttons != ButtonPrimary {
		t.Errorf("press: %v %v", press.Type, press.Buttons)
	}
	if press.MouseX != 3 || press.MouseY != 4 {
		t.Errorf("coords: %d,%d", press.MouseX, press.MouseY)
	}

	drag, _ := a.Translate(tcell.NewEventMouse(5, 4, tcell.ButtonPrimary, tcell.ModNone))
	if drag.Type != TypeMouseMove {
		t.Errorf("drag with held button should be move, got %v", drag.Type)
	}

	release, _ := a.Translate(tcell.NewEventMouse(5, 4, tcell.ButtonNone, tcell.ModNone))
	if release.Type != TypeMouseUp || release.Buttons != ButtonPrimary {
		t.Errorf("release: %v %v", release.Type, release.Buttons)
	}
}

func TestTcellIgnoresNonInput(t *testing.T) {
	a := NewTcellAdapter()
	if _, ok := a.Translate(tcell.NewEventResize(80, 24)); ok {
		t.Error("resize should be ignored")
	}
}
