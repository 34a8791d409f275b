// Package typing turns classified key intents into content mutations.
//
// Insertions, deletions and block splits are applied to the editable's
// document through its undo manager, so every mutation lands in the
// active undo scope. Pending formatting overrides are consumed by the
// next inserted character.
package typing

import (
	"errors"

	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/dom"
	"github.com/najor/Aloha-Editor/internal/editable"
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/edits"
	"github.com/najor/Aloha-Editor/internal/event"
	"github.com/najor/Aloha-Editor/internal/log"
	"github.com/najor/Aloha-Editor/internal/undo"
)

// Element names the formatting overrides wrap typed characters in.
var formatElements = map[string]string{
	"bold":      "b",
	"italic":    "i",
	"underline": "u",
}

// Stage is the typing-interpretation stage.
type Stage struct {
	logger *log.Logger
}

// New creates the stage.
func New(logger *log.Logger) *Stage {
	if logger == nil {
		logger = log.Nop()
	}
	return &Stage{logger: logger.WithComponent("typing")}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return "typing" }

// Handle applies the context intent to the editable's content.
func (s *Stage) Handle(ctx *editctx.Context) *editctx.Context {
	if ctx.Intent == nil || ctx.Editable == nil {
		return ctx
	}
	ed := ctx.Editable

	switch ctx.Intent.Name {
	case editctx.IntentUndo:
		s.history(ed.UndoContext.Undo, undo.ErrNothingToUndo)
		ctx.Intent = nil
		return ctx
	case editctx.IntentRedo:
		s.history(ed.UndoContext.Redo, undo.ErrNothingToRedo)
		ctx.Intent = nil
		return ctx
	case editctx.IntentToggleFormat:
		ed.ToggleOverride(ctx.Intent.Format)
		ctx.Intent = nil
		return ctx
	}

	if ctx.Range == nil {
		return ctx
	}
	r := ctx.Range.Normalize()

	var err error
	switch ctx.Intent.Name {
	case editctx.IntentInsert:
		err = s.insert(ctx, ed, r, ctx.Intent.Rune)
	case editctx.IntentDeleteBackward:
		err = s.delete(ctx, ed, r, true)
	case editctx.IntentDeleteForward:
		err = s.delete(ctx, ed, r, false)
	case editctx.IntentSplitBlock:
		err = s.splitBlock(ctx, ed, r)
	case editctx.IntentMoveCaret:
		s.moveCaret(ctx, r)
	default:
		return ctx
	}
	if err != nil {
		s.logger.Error("typing mutation failed", "intent", ctx.Intent.Name, "error", err.Error())
		return ctx
	}
	ctx.Intent = nil
	return ctx
}

func (s *Stage) history(fn func() error, empty error) {
	if err := fn(); err != nil && !errors.Is(err, empty) {
		s.logger.Error("history operation failed", "error", err.Error())
	}
}

// insert places one typed character at the caret, replacing a
// non-collapsed selection first. Pending overrides wrap the character
// in their formatting elements.
func (s *Stage) insert(ctx *editctx.Context, ed *editable.Editable, r boundary.Range, ch rune) error {
	overrides := ed.TakeOverrides()
	err := ed.UndoContext.Transaction(undo.Meta{Type: "typing"}, false, func() error {
		if err := s.deleteSelection(ed, r); err != nil {
			return err
		}
		at := r.Start
		if !at.Container.IsText() {
			// Caret between elements: grow a fresh text node there.
			text := dom.NewText("")
			if err := ed.UndoContext.Execute(edits.NewInsertNode(at.Container, at.Offset, text)); err != nil {
				return err
			}
			at = boundary.At(text, 0)
		}
		if len(overrides) == 0 {
			if err := ed.UndoContext.Execute(edits.NewInsertText(at.Container, at.Offset, string(ch))); err != nil {
				return err
			}
			ctx.SetRange(boundary.Collapsed(boundary.At(at.Container, at.Offset+1)))
			return nil
		}
		return s.insertWrapped(ctx, ed, at, ch, overrides)
	})
	if err != nil {
		// The cancelled transaction rolled the edits back; put the
		// pending formats back too so the next keystroke consumes
		// them.
		ed.Overrides = append(overrides, ed.Overrides...)
	}
	return err
}

// insertWrapped inserts the character inside the override formatting
// elements, splitting the surrounding text node when the caret is in
// its middle. Runs inside the caller's transaction.
func (s *Stage) insertWrapped(ctx *editctx.Context, ed *editable.Editable, at boundary.Boundary, ch rune, overrides []editable.Override) error {
	container := at.Container
	parent := container.Parent()
	if parent == nil {
		return edits.ErrDetached
	}

	inner := dom.NewText(string(ch))
	wrapper := inner
	for i := len(overrides) - 1; i >= 0; i-- {
		name, ok := formatElements[overrides[i].Format]
		if !ok {
			name = "span"
		}
		wrapper = dom.NewElement(name, wrapper)
	}

	exec := ed.UndoContext.Execute
	tail := []rune(container.Text())[at.Offset:]
	if len(tail) > 0 {
		if err := exec(edits.NewDeleteText(container, at.Offset, container.TextLen())); err != nil {
			return err
		}
		if err := exec(edits.NewInsertNode(parent, container.Index()+1, dom.NewText(string(tail)))); err != nil {
			return err
		}
	}
	if err := exec(edits.NewInsertNode(parent, container.Index()+1, wrapper)); err != nil {
		return err
	}
	ctx.SetRange(boundary.Collapsed(boundary.At(inner, 1)))
	return nil
}

// deleteSelection removes the selected text when the range spans a
// single text node. Cross-node selections degrade to a collapse.
func (s *Stage) deleteSelection(ed *editable.Editable, r boundary.Range) error {
	if r.IsCollapsed() {
		return nil
	}
	if r.Start.Container == r.End.Container && r.Start.Container.IsText() {
		return ed.UndoContext.Execute(edits.NewDeleteText(r.Start.Container, r.Start.Offset, r.End.Offset))
	}
	return nil
}

// delete removes one character next to the caret, or the selection
// itself when the range is not collapsed.
func (s *Stage) delete(ctx *editctx.Context, ed *editable.Editable, r boundary.Range, backward bool) error {
	if !r.IsCollapsed() {
		if err := s.deleteSelection(ed, r); err != nil {
			return err
		}
		ctx.SetRange(boundary.Collapsed(r.Start))
		return nil
	}

	at := r.Start
	if !at.Container.IsText() {
		return nil
	}
	off := at.Offset
	if backward {
		if off == 0 {
			return nil
		}
		if err := ed.UndoContext.Execute(edits.NewDeleteText(at.Container, off-1, off)); err != nil {
			return err
		}
		ctx.SetRange(boundary.Collapsed(boundary.At(at.Container, off-1)))
		return nil
	}
	if off >= at.Container.TextLen() {
		return nil
	}
	if err := ed.UndoContext.Execute(edits.NewDeleteText(at.Container, off, off+1)); err != nil {
		return err
	}
	ctx.SetRange(boundary.Collapsed(boundary.At(at.Container, off)))
	return nil
}

// splitBlock splits the caret's block element in two at the caret.
func (s *Stage) splitBlock(ctx *editctx.Context, ed *editable.Editable, r boundary.Range) error {
	at := r.Collapse(true).Start
	if !at.Container.IsText() {
		return nil
	}
	block := enclosingBlock(at.Container, ed.Element)
	if block == nil {
		return nil
	}
	name := block.Name()
	if name == "" {
		name = ed.Settings.DefaultBlockNodeName
	}

	split := edits.NewSplitBlock(block, at.Container, at.Offset, name)
	return ed.UndoContext.Transaction(undo.Meta{Type: "typing"}, false, func() error {
		if err := ed.UndoContext.Execute(split); err != nil {
			return err
		}
		nb := split.NewBlock()
		if nb != nil && nb.ChildCount() > 0 {
			ctx.SetRange(boundary.Collapsed(boundary.At(nb.Child(0), 0)))
		} else if nb != nil {
			ctx.SetRange(boundary.Collapsed(boundary.At(nb, 0)))
		}
		return nil
	})
}

// enclosingBlock is the ancestor of n that is a direct child of the
// editing host, or nil when n hangs directly under the host.
func enclosingBlock(n, host *dom.Node) *dom.Node {
	for c := n; c != nil && c.Parent() != nil; c = c.Parent() {
		if c.Parent() == host {
			if c.IsElement() {
				return c
			}
			return nil
		}
	}
	return nil
}

// moveCaret applies plain horizontal caret movement within a text
// node. Vertical movement needs layout knowledge the core does not
// have and passes through for the host to handle.
func (s *Stage) moveCaret(ctx *editctx.Context, r boundary.Range) {
	if !r.IsCollapsed() {
		forward := ctx.Intent.Key == event.KeyRight
		ctx.SetRange(r.Collapse(!forward))
		return
	}
	at := r.Start
	if !at.Container.IsText() {
		return
	}
	switch ctx.Intent.Key {
	case event.KeyLeft:
		if at.Offset > 0 {
			ctx.SetRange(boundary.Collapsed(boundary.At(at.Container, at.Offset-1)))
		}
	case event.KeyRight:
		if at.Offset < at.Container.TextLen() {
			ctx.SetRange(boundary.Collapsed(boundary.At(at.Container, at.Offset+1)))
		}
	}
}
