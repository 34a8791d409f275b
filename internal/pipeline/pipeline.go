// Package pipeline implements the fixed event-normalization chain.
//
// Raw input notifications and synthetic lifecycle occurrences enter as
// edit contexts and pass through an ordered list of stages. Each stage
// receives the context, may mutate it, and returns the context to hand
// on. The chain order is fixed at construction and every stage runs on
// every dispatch; stages skip internally when an occurrence does not
// concern them.
package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/najor/Aloha-Editor/internal/editctx"
	"github.com/najor/Aloha-Editor/internal/event"
	"github.com/najor/Aloha-Editor/internal/log"
)

// Stage processes one edit context and returns it for the next stage.
type Stage interface {
	// Name identifies the stage in logs and metrics.
	Name() string
	// Handle processes ctx and returns the context to pass on.
	Handle(ctx *editctx.Context) *editctx.Context
}

// StageFunc adapts a function to the Stage interface.
type StageFunc struct {
	StageName string
	Fn        func(ctx *editctx.Context) *editctx.Context
}

// Name returns the stage name.
func (s StageFunc) Name() string { return s.StageName }

// Handle invokes the wrapped function.
func (s StageFunc) Handle(ctx *editctx.Context) *editctx.Context { return s.Fn(ctx) }

// MaxDispatchDepth bounds synthetic re-dispatch nesting.
const MaxDispatchDepth = 16

// ErrEditorNotSet is returned when dispatching before SetEditor.
var ErrEditorNotSet = errors.New("pipeline: editor not set")

// Hook observes dispatches. PreDispatch may cancel by returning false.
type Hook interface {
	PreDispatch(ctx *editctx.Context) bool
	PostDispatch(ctx *editctx.Context)
}

// Pipeline runs edit contexts through the stage chain.
type Pipeline struct {
	mu             sync.Mutex
	stages         []Stage
	editor         editctx.Editor
	hooks          []Hook
	logger         *log.Logger
	metrics        *Metrics
	recoverPanics  bool
	routeSelChange bool
	depth          int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger.WithComponent("pipeline")
		}
	}
}

// WithPanicRecovery makes stage panics abort the dispatch instead of
// unwinding the caller.
func WithPanicRecovery(enabled bool) Option {
	return func(p *Pipeline) { p.recoverPanics = enabled }
}

// WithSelectionChangeRouting routes selection-change notifications
// through the chain instead of dropping them at entry.
func WithSelectionChangeRouting(enabled bool) Option {
	return func(p *Pipeline) { p.routeSelChange = enabled }
}

// WithHook appends a dispatch hook.
func WithHook(h Hook) Option {
	return func(p *Pipeline) {
		if h != nil {
			p.hooks = append(p.hooks, h)
		}
	}
}

// New creates a pipeline with the given stage chain. Stage order is
// fixed for the pipeline's lifetime.
func New(stages []Stage, opts ...Option) *Pipeline {
	p := &Pipeline{
		stages:  stages,
		logger:  log.Nop(),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetEditor binds the owning editor. Must be called before the first
// dispatch.
func (p *Pipeline) SetEditor(ed editctx.Editor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editor = ed
}

// Metrics returns the pipeline's dispatch metrics.
func (p *Pipeline) Metrics() *Metrics { return p.metrics }

// StageNames returns the chain order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Dispatch runs one occurrence through the chain. Exactly one of raw
// and partial carries the occurrence: raw for input notifications,
// partial for synthetic contexts. The returned context is the chain's
// final state, or nil when the dispatch was dropped.
func (p *Pipeline) Dispatch(raw *event.Event, partial *editctx.Context) (*editctx.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dispatchLocked(raw, partial)
}

// dispatchLocked runs the chain under the pipeline lock. Synthetic
// re-dispatches from within a stage re-enter here through the editor,
// which calls dispatchNested.
func (p *Pipeline) dispatchLocked(raw *event.Event, partial *editctx.Context) (*editctx.Context, error) {
	if p.editor == nil {
		return nil, ErrEditorNotSet
	}
	if raw == nil && partial == nil {
		return nil, errors.New("pipeline: dispatch carries no occurrence")
	}
	if raw != nil && partial != nil {
		return nil, errors.New("pipeline: dispatch carries both a raw event and a partial context")
	}
	if raw != nil && raw.Type == event.TypeSelectionChange && !p.routeSelChange {
		p.logger.Debug("selection change dropped at entry")
		return nil, nil
	}
	if p.depth >= MaxDispatchDepth {
		p.logger.Error("dispatch depth limit reached", "depth", p.depth)
		return nil, fmt.Errorf("pipeline: dispatch depth limit %d reached", MaxDispatchDepth)
	}

	ctx := partial
	if ctx == nil {
		ctx = editctx.FromEvent(raw)
	}
	if ctx.Kind == "" {
		ctx.Kind = editctx.KindNativeInput
	}
	ctx.Editor = p.editor

	for _, h := range p.hooks {
		if !h.PreDispatch(ctx) {
			p.logger.Debug("dispatch cancelled by hook", "kind", string(ctx.Kind))
			return nil, nil
		}
	}

	p.depth++
	p.metrics.recordDispatch(p.depth)
	err := p.runStages(ctx)
	p.depth--
	if err != nil {
		return nil, err
	}

	for _, h := range p.hooks {
		h.PostDispatch(ctx)
	}
	return ctx, nil
}

func (p *Pipeline) runStages(ctx *editctx.Context) error {
	for _, stage := range p.stages {
		start := time.Now()
		next, err := p.runStage(stage, ctx)
		p.metrics.recordStage(stage.Name(), time.Since(start), err != nil)
		if err != nil {
			p.logger.Error("stage panicked", "stage", stage.Name(), "error", err.Error())
			return err
		}
		if next != nil {
			ctx = next
		}
	}
	return nil
}

func (p *Pipeline) runStage(stage Stage, ctx *editctx.Context) (next *editctx.Context, err error) {
	if p.recoverPanics {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("pipeline: stage %s: %v", stage.Name(), r)
			}
		}()
	}
	return stage.Handle(ctx), nil
}

// DispatchNested runs a synthetic context through the chain from
// within a stage of an in-flight dispatch. The caller must already
// hold the dispatch (it is invoked via editctx.Editor.DispatchContext
// during a stage's Handle).
func (p *Pipeline) DispatchNested(ctx *editctx.Context) (*editctx.Context, error) {
	return p.dispatchLocked(nil, ctx)
}
