// Package assoc resolves the editable a context concerns.
//
// Given the context range, it finds the nearest enclosing attached
// editable of the range's common ancestor and records it on the
// context. Absence of a range or of an enclosing editable leaves the
// context untouched; later stages tolerate an unset editable.
package assoc

import (
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/event"
)

// Stage is the editable-association stage.
type Stage struct{}

// New creates the stage.
func New() *Stage { return &Stage{} }

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return "assoc" }

// Handle resolves ctx.Editable from ctx.Range. Pointer movement never
// resolves an editable, even when the host attached a range to the
// notification: hover alone must not pull focus-like state toward a
// region.
func (s *Stage) Handle(ctx *editctx.Context) *editctx.Context {
	if ctx.Editable != nil {
		return ctx
	}
	if ctx.EventType() == event.TypeMouseMove {
		return ctx
	}
	if ctx.Range == nil || ctx.Editor == nil {
		return ctx
	}
	anchor := ctx.Range.CommonAncestor()
	if anchor == nil {
		return ctx
	}
	ctx.Editable = ctx.Editor.LookupEditable(anchor)
	return ctx
}
