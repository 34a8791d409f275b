// Package commit writes the final context range to the ambient
// selection.
//
// This is the last stage of the chain and the only one permitted that
// externally observable side effect. A context without a range commits
// nothing and leaves the prior selection standing.
package commit

import (
	"github.com/najor/Aloha-Editor/internal/editctx"
)

// Stage is the selection-commit stage.
type Stage struct{}

// New creates the stage.
func New() *Stage { return &Stage{} }

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return "commit" }

// Handle commits ctx.Range to the editor's selection state.
func (s *Stage) Handle(ctx *editctx.Context) *editctx.Context {
	if ctx.Range == nil || ctx.Editor == nil {
		return ctx
	}
	if sel := ctx.Editor.Selection(); sel != nil {
		sel.Set(*ctx.Range)
	}
	return ctx
}
