// Package paste intercepts paste notifications.
//
// The pasted fragment is sanitized against the editable's allowed
// element names, inserted at the range start as one undo step, and the
// context range is moved past the inserted content.
package paste

import (
	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/dom"
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/edits"
	"github.com/najor/Aloha-Editor/internal/event"
	"github.com/najor/Aloha-Editor/internal/log"
	"github.com/najor/Aloha-Editor/internal/undo"
)

// Stage is the paste-interpretation stage.
type Stage struct {
	logger *log.Logger
}

// New creates the stage.
func New(logger *log.Logger) *Stage {
	if logger == nil {
		logger = log.Nop()
	}
	return &Stage{logger: logger.WithComponent("paste")}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return "paste" }

// Handle sanitizes and inserts the pasted fragment. Without a resolved
// editable or a usable range the notification is dropped silently.
func (s *Stage) Handle(ctx *editctx.Context) *editctx.Context {
	ev := ctx.SourceEvent
	if ev == nil || ev.Type != event.TypePaste || ev.Content == nil {
		return ctx
	}
	if ctx.Editable == nil || ctx.Range == nil {
		s.logger.Debug("paste outside any editable dropped")
		return ctx
	}

	at := ctx.Range.Normalize().Collapse(true).Start
	nodes := Sanitize(ev.Content, ctx.Editable.Settings.Allows)
	if len(nodes) == 0 {
		return ctx
	}

	var after boundary.Boundary
	err := ctx.Editable.UndoContext.Transaction(undo.Meta{Type: "paste"}, false, func() error {
		var err error
		after, err = s.insert(ctx, at, nodes)
		return err
	})
	if err != nil {
		s.logger.Error("paste failed", "error", err.Error())
		return ctx
	}
	ctx.SetRange(boundary.Collapsed(after))
	return ctx
}

// insert places the sanitized nodes at the boundary and returns the
// boundary just past them.
func (s *Stage) insert(ctx *editctx.Context, at boundary.Boundary, nodes []*dom.Node) (boundary.Boundary, error) {
	exec := ctx.Editable.UndoContext.Execute

	// A single text payload into a text container merges in place.
	if at.Container.IsText() && len(nodes) == 1 && nodes[0].IsText() {
		text := nodes[0].Text()
		if err := exec(edits.NewInsertText(at.Container, at.Offset, text)); err != nil {
			return at, err
		}
		return boundary.At(at.Container, at.Offset+len([]rune(text))), nil
	}

	parent := at.Container
	index := at.Offset
	if parent.IsText() {
		// Structural content lands beside the text node.
		index = parent.Index() + 1
		parent = parent.Parent()
		if parent == nil {
			return at, edits.ErrDetached
		}
	}
	for _, n := range nodes {
		if err := exec(edits.NewInsertNode(parent, index, n)); err != nil {
			return at, err
		}
		index++
	}
	return boundary.At(parent, index), nil
}

// Sanitize filters a pasted fragment: disallowed elements are
// unwrapped in place of their sanitized children, text is kept.
func Sanitize(n *dom.Node, allows func(string) bool) []*dom.Node {
	if n.IsText() {
		if n.Text() == "" {
			return nil
		}
		return []*dom.Node{dom.NewText(n.Text())}
	}

	var children []*dom.Node
	for _, c := range n.Children() {
		children = append(children, Sanitize(c, allows)...)
	}
	if !allows(n.Name()) {
		return children
	}
	clone := n.Clone(false)
	clone.Append(children...)
	return []*dom.Node{clone}
}
