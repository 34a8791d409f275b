package typing

import (
	"testing"

	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/config"
	"github.com/najor/Aloha-Editor/internal/dom"
	"github.com/najor/Aloha-Editor/internal/editable"
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/event"
)

func fixture(t *testing.T) (*editable.Editable, *dom.Node, *dom.Node) {
	t.Helper()
	text := dom.NewText("hello")
	block := dom.NewElement("p", text)
	host := dom.NewElement("div", block)
	reg := editable.NewRegistry(config.Default())
	ed, err := reg.Attach(host, config.Settings{})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return ed, block, text
}

func handle(ed *editable.Editable, intent *editctx.Intent, r boundary.Range) *editctx.Context {
	ctx := editctx.New()
	ctx.Editable = ed
	ctx.Intent = intent
	ctx.SetRange(r)
	return New(nil).Handle(ctx)
}

func TestInsertCharacter(t *testing.T) {
	ed, _, text := fixture(t)

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentInsert, Rune: 'x'},
		boundary.Collapsed(boundary.At(text, 5)))

	if got := text.Text(); got != "hellox" {
		t.Errorf("text = %q, want %q", got, "hellox")
	}
	if out.Range == nil || out.Range.Start.Offset != 6 {
		t.Errorf("Range = %v, want caret at 6", out.Range)
	}
	if out.Intent != nil {
		t.Error("intent not consumed")
	}
	if got := ed.UndoContext.UndoCount(); got != 1 {
		t.Errorf("UndoCount = %d, want 1", got)
	}
}

func TestInsertEachCharIsOwnUndoStep(t *testing.T) {
	ed, _, text := fixture(t)

	for i, r := range "abc" {
		handle(ed,
			&editctx.Intent{Name: editctx.IntentInsert, Rune: r},
			boundary.Collapsed(boundary.At(text, 5+i)))
	}
	if got := ed.UndoContext.UndoCount(); got != 3 {
		t.Fatalf("UndoCount = %d, want 3", got)
	}
	for i := 0; i < 3; i++ {
		if err := ed.UndoContext.Undo(); err != nil {
			t.Fatalf("Undo %d: %v", i, err)
		}
	}
	if got := text.Text(); got != "hello" {
		t.Errorf("text after undos = %q, want %q", got, "hello")
	}
}

func TestInsertReplacesSelection(t *testing.T) {
	ed, _, text := fixture(t)

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentInsert, Rune: 'y'},
		boundary.NewRange(boundary.At(text, 1), boundary.At(text, 4)))

	if got := text.Text(); got != "hyo" {
		t.Errorf("text = %q, want %q", got, "hyo")
	}
	if out.Range == nil || out.Range.Start.Offset != 2 {
		t.Errorf("Range = %v, want caret at 2", out.Range)
	}
	if got := ed.UndoContext.UndoCount(); got != 1 {
		t.Errorf("UndoCount = %d, want 1", got)
	}
}

func TestInsertConsumesOverride(t *testing.T) {
	ed, block, text := fixture(t)
	ed.ToggleOverride("bold")

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentInsert, Rune: 'z'},
		boundary.Collapsed(boundary.At(text, 5)))

	if len(ed.Overrides) != 0 {
		t.Error("override not consumed")
	}
	// The character lands in a fresh <b> element after the text node.
	if block.ChildCount() != 2 {
		t.Fatalf("block = %s", block)
	}
	b := block.Child(1)
	if b.Name() != "b" || b.PlainText() != "z" {
		t.Errorf("wrapped insert = %s", b)
	}
	if out.Range == nil || out.Range.Start.Container != b.Child(0) || out.Range.Start.Offset != 1 {
		t.Errorf("Range = %v, want caret inside wrapper", out.Range)
	}
}

func TestFailedInsertKeepsOverrideQueued(t *testing.T) {
	ed, _, _ := fixture(t)
	ed.ToggleOverride("bold")

	// A caret in a detached text node makes the wrapped insert fail
	// after the transaction opened.
	orphan := dom.NewText("loose")
	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentInsert, Rune: 'z'},
		boundary.Collapsed(boundary.At(orphan, 0)))

	if len(ed.Overrides) != 1 || ed.Overrides[0].Format != "bold" {
		t.Errorf("Overrides = %v, want the bold override back in the queue", ed.Overrides)
	}
	if out.Intent == nil {
		t.Error("failed insert consumed the intent")
	}
	if got := ed.UndoContext.UndoCount(); got != 0 {
		t.Errorf("UndoCount = %d, want 0", got)
	}
}

func TestInsertWithOverrideMidTextSplits(t *testing.T) {
	ed, block, text := fixture(t)
	ed.ToggleOverride("italic")

	handle(ed,
		&editctx.Intent{Name: editctx.IntentInsert, Rune: 'q'},
		boundary.Collapsed(boundary.At(text, 2)))

	if block.ChildCount() != 3 {
		t.Fatalf("block = %s", block)
	}
	if text.Text() != "he" || block.Child(1).Name() != "i" || block.Child(2).Text() != "llo" {
		t.Errorf("split result = %s", block)
	}
	if got := ed.UndoContext.UndoCount(); got != 1 {
		t.Errorf("UndoCount = %d, want 1", got)
	}

	if err := ed.UndoContext.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if text.Text() != "hello" || block.ChildCount() != 1 {
		t.Errorf("after undo = %s", block)
	}
}

func TestDeleteBackward(t *testing.T) {
	ed, _, text := fixture(t)

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentDeleteBackward},
		boundary.Collapsed(boundary.At(text, 5)))

	if got := text.Text(); got != "hell" {
		t.Errorf("text = %q, want %q", got, "hell")
	}
	if out.Range == nil || out.Range.Start.Offset != 4 {
		t.Errorf("Range = %v, want caret at 4", out.Range)
	}
}

func TestDeleteBackwardAtStartIsNoOp(t *testing.T) {
	ed, _, text := fixture(t)

	handle(ed,
		&editctx.Intent{Name: editctx.IntentDeleteBackward},
		boundary.Collapsed(boundary.At(text, 0)))

	if got := text.Text(); got != "hello" {
		t.Errorf("text = %q, want %q", got, "hello")
	}
	if got := ed.UndoContext.UndoCount(); got != 0 {
		t.Errorf("UndoCount = %d, want 0", got)
	}
}

func TestDeleteForward(t *testing.T) {
	ed, _, text := fixture(t)

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentDeleteForward},
		boundary.Collapsed(boundary.At(text, 0)))

	if got := text.Text(); got != "ello" {
		t.Errorf("text = %q, want %q", got, "ello")
	}
	if out.Range == nil || out.Range.Start.Offset != 0 {
		t.Errorf("Range = %v, want caret at 0", out.Range)
	}
}

func TestDeleteSelection(t *testing.T) {
	ed, _, text := fixture(t)

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentDeleteBackward},
		boundary.NewRange(boundary.At(text, 1), boundary.At(text, 4)))

	if got := text.Text(); got != "ho" {
		t.Errorf("text = %q, want %q", got, "ho")
	}
	if out.Range == nil || !out.Range.IsCollapsed() || out.Range.Start.Offset != 1 {
		t.Errorf("Range = %v, want collapsed at 1", out.Range)
	}
}

func TestSplitBlock(t *testing.T) {
	ed, block, text := fixture(t)
	host := ed.Element

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentSplitBlock},
		boundary.Collapsed(boundary.At(text, 3)))

	if host.ChildCount() != 2 {
		t.Fatalf("host = %s", host)
	}
	if got := block.PlainText(); got != "hel" {
		t.Errorf("first block = %q, want %q", got, "hel")
	}
	second := host.Child(1)
	if second.Name() != "p" || second.PlainText() != "lo" {
		t.Errorf("second block = %s", second)
	}
	if out.Range == nil || out.Range.Start.Container != second.Child(0) || out.Range.Start.Offset != 0 {
		t.Errorf("Range = %v, want caret at start of new block", out.Range)
	}
	if got := ed.UndoContext.UndoCount(); got != 1 {
		t.Errorf("UndoCount = %d, want 1", got)
	}
}

func TestToggleFormatQueuesOverride(t *testing.T) {
	ed, _, text := fixture(t)

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentToggleFormat, Format: "bold"},
		boundary.Collapsed(boundary.At(text, 0)))

	if len(ed.Overrides) != 1 || ed.Overrides[0].Format != "bold" {
		t.Errorf("Overrides = %v", ed.Overrides)
	}
	if out.Intent != nil {
		t.Error("intent not consumed")
	}
	// Toggling again clears the pending override.
	handle(ed,
		&editctx.Intent{Name: editctx.IntentToggleFormat, Format: "bold"},
		boundary.Collapsed(boundary.At(text, 0)))
	if len(ed.Overrides) != 0 {
		t.Errorf("Overrides after second toggle = %v", ed.Overrides)
	}
}

func TestUndoRedoIntents(t *testing.T) {
	ed, _, text := fixture(t)

	handle(ed,
		&editctx.Intent{Name: editctx.IntentInsert, Rune: 'x'},
		boundary.Collapsed(boundary.At(text, 5)))
	handle(ed, &editctx.Intent{Name: editctx.IntentUndo}, boundary.Range{})
	if got := text.Text(); got != "hello" {
		t.Errorf("text after undo intent = %q", got)
	}
	handle(ed, &editctx.Intent{Name: editctx.IntentRedo}, boundary.Range{})
	if got := text.Text(); got != "hellox" {
		t.Errorf("text after redo intent = %q", got)
	}
}

func TestUndoIntentOnEmptyHistoryIsQuiet(t *testing.T) {
	ed, _, text := fixture(t)
	out := handle(ed, &editctx.Intent{Name: editctx.IntentUndo}, boundary.Range{})
	if out.Intent != nil {
		t.Error("intent not consumed")
	}
	if got := text.Text(); got != "hello" {
		t.Errorf("text = %q", got)
	}
}

func TestMoveCaretWithinText(t *testing.T) {
	ed, _, text := fixture(t)

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentMoveCaret, Key: event.KeyRight},
		boundary.Collapsed(boundary.At(text, 2)))
	if out.Range.Start.Offset != 3 {
		t.Errorf("offset = %d, want 3", out.Range.Start.Offset)
	}

	out = handle(ed,
		&editctx.Intent{Name: editctx.IntentMoveCaret, Key: event.KeyLeft},
		boundary.Collapsed(boundary.At(text, 2)))
	if out.Range.Start.Offset != 1 {
		t.Errorf("offset = %d, want 1", out.Range.Start.Offset)
	}
}

func TestMoveCaretCollapsesSelection(t *testing.T) {
	ed, _, text := fixture(t)

	out := handle(ed,
		&editctx.Intent{Name: editctx.IntentMoveCaret, Key: event.KeyLeft},
		boundary.NewRange(boundary.At(text, 1), boundary.At(text, 4)))
	if !out.Range.IsCollapsed() || out.Range.Start.Offset != 1 {
		t.Errorf("Range = %v, want collapsed at start", out.Range)
	}
}

func TestNoEditablePassesThrough(t *testing.T) {
	ctx := editctx.New()
	ctx.Intent = &editctx.Intent{Name: editctx.IntentInsert, Rune: 'x'}
	if out := New(nil).Handle(ctx); out.Intent == nil {
		t.Error("intent consumed without an editable")
	}
}
