// Package blocks handles non-editable embedded widgets inside an
// editable.
//
// Clicking into a widget selects the widget as a whole instead of
// placing a caret inside it, and horizontal caret movement steps over
// a widget rather than entering it.
package blocks

import (
	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/dom"
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/event"
)

// DataSelected carries the widget node a context selected as a whole.
const DataSelected = "blocks.selected"

// Stage is the block-widget-interpretation stage.
type Stage struct{}

// New creates the stage.
func New() *Stage { return &Stage{} }

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return "blocks" }

// Handle applies widget policy to clicks and caret movement.
func (s *Stage) Handle(ctx *editctx.Context) *editctx.Context {
	if ctx.Editable == nil || ctx.Range == nil {
		return ctx
	}
	if ctx.EventType() == event.TypeMouseDown {
		return s.selectWidget(ctx)
	}
	if ctx.Intent != nil && ctx.Intent.Name == editctx.IntentMoveCaret {
		return s.stepOver(ctx)
	}
	return ctx
}

// selectWidget widens a click landing inside a widget to the whole
// widget.
func (s *Stage) selectWidget(ctx *editctx.Context) *editctx.Context {
	w := widgetRoot(ctx.Range.Start.Container, ctx.Editable.Element)
	if w == nil || w.Parent() == nil {
		return ctx
	}
	i := w.Index()
	ctx.SetRange(boundary.NewRange(
		boundary.At(w.Parent(), i),
		boundary.At(w.Parent(), i+1),
	))
	ctx.SetData(DataSelected, w)
	return ctx
}

// stepOver moves a caret adjacent to a widget past it instead of into
// it, consuming the movement intent.
func (s *Stage) stepOver(ctx *editctx.Context) *editctx.Context {
	if !ctx.Range.IsCollapsed() {
		return ctx
	}
	at := ctx.Range.Start
	parent, index := elementPosition(at, ctx.Intent.Key == event.KeyRight)
	if parent == nil {
		return ctx
	}

	switch ctx.Intent.Key {
	case event.KeyRight:
		if isWidget(parent.Child(index)) {
			ctx.SetRange(boundary.Collapsed(boundary.At(parent, index+1)))
			ctx.Intent = nil
		}
	case event.KeyLeft:
		if index > 0 && isWidget(parent.Child(index-1)) {
			ctx.SetRange(boundary.Collapsed(boundary.At(parent, index-1)))
			ctx.Intent = nil
		}
	}
	return ctx
}

// elementPosition maps a caret to an element-container position when
// it sits at the edge of a text node facing the movement direction.
func elementPosition(at boundary.Boundary, forward bool) (*dom.Node, int) {
	c := at.Container
	if c == nil {
		return nil, 0
	}
	if c.IsElement() {
		return c, at.Offset
	}
	if forward && at.Offset == c.TextLen() {
		return c.Parent(), c.Index() + 1
	}
	if !forward && at.Offset == 0 {
		return c.Parent(), c.Index()
	}
	return nil, 0
}

// widgetRoot returns the outermost non-editable ancestor of n below
// the editing host, or nil when n is ordinarily editable.
func widgetRoot(n, host *dom.Node) *dom.Node {
	if n == nil || n.IsContentEditable() {
		return nil
	}
	w := n
	for p := w.Parent(); p != nil && p != host && !p.IsContentEditable(); p = p.Parent() {
		w = p
	}
	return w
}

func isWidget(n *dom.Node) bool {
	return n != nil && n.IsElement() && !n.IsContentEditable()
}
