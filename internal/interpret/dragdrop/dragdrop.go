// Package dragdrop intercepts drag-over and drop notifications.
//
// Drag-over validates the host-resolved candidate range; drop moves
// the dragged node to the drop point as one undo step and collapses
// the range after it.
package dragdrop

import (
	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/dom"
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/edits"
	"github.com/najor/Aloha-Editor/internal/event"
	"github.com/najor/Aloha-Editor/internal/log"
	"github.com/najor/Aloha-Editor/internal/undo"
)

// DataCandidate marks a context whose range is a validated drop
// candidate.
const DataCandidate = "dragdrop.candidate"

// Stage is the drag/drop-interpretation stage.
type Stage struct {
	logger *log.Logger
}

// New creates the stage.
func New(logger *log.Logger) *Stage {
	if logger == nil {
		logger = log.Nop()
	}
	return &Stage{logger: logger.WithComponent("dragdrop")}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return "dragdrop" }

// Handle processes drag-over and drop notifications.
func (s *Stage) Handle(ctx *editctx.Context) *editctx.Context {
	ev := ctx.SourceEvent
	if ev == nil {
		return ctx
	}
	switch ev.Type {
	case event.TypeDragOver:
		return s.handleOver(ctx, ev)
	case event.TypeDrop:
		return s.handleDrop(ctx, ev)
	}
	return ctx
}

func (s *Stage) handleOver(ctx *editctx.Context, ev *event.Event) *editctx.Context {
	if ctx.Range == nil || ctx.Editable == nil || ev.Source == nil {
		return ctx
	}
	parent, _, ok := dropPoint(ctx.Range, ev.Source)
	if !ok || !ctx.Editable.Element.Contains(parent) {
		return ctx
	}
	ctx.SetData(DataCandidate, true)
	return ctx
}

func (s *Stage) handleDrop(ctx *editctx.Context, ev *event.Event) *editctx.Context {
	if ctx.Range == nil || ctx.Editable == nil || ev.Source == nil {
		return ctx
	}
	parent, index, ok := dropPoint(ctx.Range, ev.Source)
	if !ok {
		s.logger.Debug("drop point inside the dragged node ignored")
		return ctx
	}

	move := edits.NewMoveNode(ev.Source, parent, index)
	err := ctx.Editable.UndoContext.Transaction(undo.Meta{Type: "drop"}, false, func() error {
		return ctx.Editable.UndoContext.Execute(move)
	})
	if err != nil {
		s.logger.Error("drop failed", "error", err.Error())
		return ctx
	}
	ctx.SetRange(boundary.Collapsed(boundary.At(parent, ev.Source.Index()+1)))
	return ctx
}

// dropPoint resolves the element position a source node would land at
// for the given range. Points inside the dragged node itself are
// rejected.
func dropPoint(r *boundary.Range, source *dom.Node) (*dom.Node, int, bool) {
	at := r.Normalize().Collapse(true).Start
	parent := at.Container
	index := at.Offset
	if parent == nil {
		return nil, 0, false
	}
	if parent.IsText() {
		index = parent.Index() + 1
		parent = parent.Parent()
		if parent == nil {
			return nil, 0, false
		}
	}
	if source == parent || source.Contains(parent) {
		return nil, 0, false
	}
	return parent, index, true
}
