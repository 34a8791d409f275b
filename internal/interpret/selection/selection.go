// Package selection reconciles the computed range against editor-wide
// selection policy before it is committed.
//
// The range is normalized to document order and, when an editable is
// resolved, clamped to the editable's host so an edit can never leave
// the selection pointing outside the region it belongs to.
package selection

import (
	"github.com/najor/Aloha-Editor/internal/editctx"
)

// Stage is the selection-interpretation stage.
type Stage struct{}

// New creates the stage.
func New() *Stage { return &Stage{} }

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return "selection" }

// Handle normalizes and clamps ctx.Range.
func (s *Stage) Handle(ctx *editctx.Context) *editctx.Context {
	if ctx.Range == nil {
		return ctx
	}
	r := ctx.Range.Normalize()
	if ctx.Editable != nil && ctx.Editable.Element != nil {
		r = r.ClampTo(ctx.Editable.Element)
	}
	ctx.SetRange(r)
	return ctx
}
