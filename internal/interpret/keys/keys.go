// Package keys classifies keyboard notifications into semantic
// editing intents.
//
// It is the first stage of the pipeline chain. Character insertion is
// derived from keypress notifications, which carry the composed rune;
// keydown notifications drive structural keys (backspace, enter,
// arrows) and modifier shortcuts.
package keys

import (
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/event"
)

// Shortcut formats bound to Ctrl+key.
var formatShortcuts = map[rune]string{
	'b': "bold",
	'i': "italic",
	'u': "underline",
}

// Stage is the key-interpretation stage.
type Stage struct{}

// New creates the stage.
func New() *Stage { return &Stage{} }

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return "keys" }

// Handle classifies the source notification into ctx.Intent. Non-key
// contexts pass through untouched.
func (s *Stage) Handle(ctx *editctx.Context) *editctx.Context {
	ev := ctx.SourceEvent
	if ev == nil || !ev.Type.IsKey() {
		return ctx
	}

	switch ev.Type {
	case event.TypeKeyPress:
		if ev.Rune != 0 {
			ctx.Intent = &editctx.Intent{Name: editctx.IntentInsert, Rune: ev.Rune}
		}
	case event.TypeKeyDown:
		ctx.Intent = classifyKeyDown(ev)
	}
	return ctx
}

func classifyKeyDown(ev *event.Event) *editctx.Intent {
	if ev.Mods.Has(event.ModCtrl) && ev.Key == event.KeyRune {
		switch ev.Rune {
		case 'z':
			if ev.Mods.Has(event.ModShift) {
				return &editctx.Intent{Name: editctx.IntentRedo}
			}
			return &editctx.Intent{Name: editctx.IntentUndo}
		case 'y':
			return &editctx.Intent{Name: editctx.IntentRedo}
		}
		if format, ok := formatShortcuts[ev.Rune]; ok {
			return &editctx.Intent{Name: editctx.IntentToggleFormat, Format: format}
		}
		return nil
	}

	switch {
	case ev.Key == event.KeyBackspace:
		return &editctx.Intent{Name: editctx.IntentDeleteBackward}
	case ev.Key == event.KeyDelete:
		return &editctx.Intent{Name: editctx.IntentDeleteForward}
	case ev.Key == event.KeyEnter:
		return &editctx.Intent{Name: editctx.IntentSplitBlock}
	case ev.Key.IsArrow():
		return &editctx.Intent{Name: editctx.IntentMoveCaret, Key: ev.Key}
	case ev.IsChar():
		// Insertion waits for the keypress carrying the composed
		// character.
		return nil
	}
	return nil
}
