// Package editor provides the editor façade.
//
// The editor owns the editable registry, the ambient selection and the
// event pipeline, and is the single entry point hosts drive: attach
// and detach of document regions, and dispatch of raw input
// notifications. Lifecycle changes are announced to the rest of the
// system as synthetic pipeline occurrences.
package editor

import (
	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/config"
	"github.com/najor/Aloha-Editor/internal/dom"
	"github.com/najor/Aloha-Editor/internal/editable"
	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/event"
	"github.com/najor/Aloha-Editor/internal/interpret/assoc"
	"github.com/najor/Aloha-Editor/internal/interpret/blocks"
	"github.com/najor/Aloha-Editor/internal/interpret/commit"
	"github.com/najor/Aloha-Editor/internal/interpret/dragdrop"
	"github.com/najor/Aloha-Editor/internal/interpret/keys"
	"github.com/najor/Aloha-Editor/internal/interpret/mouse"
	"github.com/najor/Aloha-Editor/internal/interpret/paste"
	"github.com/najor/Aloha-Editor/internal/interpret/selection"
	"github.com/najor/Aloha-Editor/internal/interpret/typing"
	"github.com/najor/Aloha-Editor/internal/log"
	"github.com/najor/Aloha-Editor/internal/pipeline"
)

// Editor is the façade over registry, selection and pipeline.
type Editor struct {
	registry  *editable.Registry
	selection boundary.Selection
	pipeline  *pipeline.Pipeline
	settings  config.Settings
	logger    *log.Logger
	hooks     []pipeline.Hook
}

// Option configures an Editor.
type Option func(*Editor)

// WithSettings sets the editor-wide default settings.
func WithSettings(s config.Settings) Option {
	return func(e *Editor) { e.settings = s }
}

// WithLogger sets the editor logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSelection replaces the ambient selection implementation.
func WithSelection(sel boundary.Selection) Option {
	return func(e *Editor) {
		if sel != nil {
			e.selection = sel
		}
	}
}

// WithHook appends a pipeline dispatch hook.
func WithHook(h pipeline.Hook) Option {
	return func(e *Editor) {
		if h != nil {
			e.hooks = append(e.hooks, h)
		}
	}
}

// New creates an editor with the standard stage chain.
func New(opts ...Option) *Editor {
	e := &Editor{
		selection: boundary.NewAmbient(),
		settings:  config.Default(),
		logger:    log.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	popts := []pipeline.Option{
		pipeline.WithLogger(e.logger),
		pipeline.WithPanicRecovery(true),
		pipeline.WithSelectionChangeRouting(e.settings.RouteSelectionChange),
	}
	for _, h := range e.hooks {
		popts = append(popts, pipeline.WithHook(h))
	}
	e.registry = editable.NewRegistry(e.settings)
	e.pipeline = pipeline.New(e.stages(), popts...)
	e.pipeline.SetEditor(e)
	return e
}

// stages builds the fixed interpretation chain, in dispatch order.
func (e *Editor) stages() []pipeline.Stage {
	return []pipeline.Stage{
		keys.New(),
		mouse.New(),
		assoc.New(),
		paste.New(e.logger),
		dragdrop.New(e.logger),
		blocks.New(),
		typing.New(e.logger),
		selection.New(),
		commit.New(),
	}
}

// Attach makes an element editable and announces it through the
// pipeline. The caret is placed at the start of the region.
func (e *Editor) Attach(elem *dom.Node, settings config.Settings) (*editable.Editable, error) {
	ed, err := e.registry.Attach(elem, settings)
	if err != nil {
		return nil, err
	}
	e.logger.Info("editable attached", "id", ed.ID)

	ctx := editctx.New()
	ctx.Kind = editctx.KindAttach
	ctx.Editable = ed
	ctx.SetRange(boundary.Collapsed(caretHome(elem)))
	if _, err := e.pipeline.Dispatch(nil, ctx); err != nil {
		e.logger.Error("attach dispatch failed", "error", err.Error())
	}
	return ed, nil
}

// Detach closes an editable and announces it through the pipeline. A
// selection pointing into the detached region is cleared.
func (e *Editor) Detach(elem *dom.Node) error {
	ed, err := e.registry.Detach(elem)
	if err != nil {
		return err
	}
	e.logger.Info("editable detached", "id", ed.ID)

	if r, ok := e.selection.Get(); ok {
		anchor := r.CommonAncestor()
		if anchor != nil && (anchor == elem || elem.Contains(anchor)) {
			e.selection.Clear()
		}
	}

	ctx := editctx.New()
	ctx.Kind = editctx.KindDetach
	ctx.Editable = ed
	if _, err := e.pipeline.Dispatch(nil, ctx); err != nil {
		e.logger.Error("detach dispatch failed", "error", err.Error())
	}
	return nil
}

// Dispatch feeds one raw input notification through the pipeline and
// returns the final context, or nil when the notification was dropped.
func (e *Editor) Dispatch(ev *event.Event) (*editctx.Context, error) {
	return e.pipeline.Dispatch(ev, nil)
}

// DispatchContext implements editctx.Editor for stages of an in-flight
// dispatch; the nested pass runs to completion before the calling
// stage resumes.
func (e *Editor) DispatchContext(ctx *editctx.Context) {
	if _, err := e.pipeline.DispatchNested(ctx); err != nil {
		e.logger.Error("nested dispatch failed", "error", err.Error())
	}
}

// LookupEditable implements editctx.Editor.
func (e *Editor) LookupEditable(node *dom.Node) *editable.Editable {
	return e.registry.Lookup(node)
}

// Selection implements editctx.Editor.
func (e *Editor) Selection() boundary.Selection { return e.selection }

// Editable returns the editable attached to the exact element, or nil.
func (e *Editor) Editable(elem *dom.Node) *editable.Editable {
	return e.registry.Get(elem)
}

// Settings returns the editor-wide defaults.
func (e *Editor) Settings() config.Settings { return e.settings }

// Metrics exposes the pipeline dispatch metrics.
func (e *Editor) Metrics() *pipeline.Metrics { return e.pipeline.Metrics() }

// caretHome is the first caret position inside an element: the start
// of its leading text content, or the element start.
func caretHome(elem *dom.Node) boundary.Boundary {
	for n := elem; n != nil; {
		if n.IsText() {
			return boundary.At(n, 0)
		}
		if n.ChildCount() == 0 {
			return boundary.At(n, 0)
		}
		n = n.Child(0)
	}
	return boundary.At(elem, 0)
}
