// Package editctx provides the edit context threaded through the event
// pipeline.
//
// One context is built per input occurrence and handed stage to stage
// by single ownership: at most one stage executes against it at a
// time, and each stage returns the context to pass on. Six fields are
// the contract every stage may rely on; anything else lives in the
// open Data extension map.
package editctx

import (
	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/dom"
	"github.com/najor/Aloha-Editor/internal/editable"
	"github.com/najor/Aloha-Editor/internal/event"
)

// Kind tags the occurrence a context represents. Interpretation stages
// may overwrite it with a more specific gesture name.
type Kind string

const (
	// KindNativeInput is a raw input notification.
	KindNativeInput Kind = "native-input"
	// KindAttach is the synthetic lifecycle occurrence after attach.
	KindAttach Kind = "attach"
	// KindDetach is the synthetic lifecycle occurrence after detach.
	KindDetach Kind = "detach"
)

// Editor is the owning editor as seen by pipeline stages.
type Editor interface {
	// DispatchContext feeds a synthetic context through the pipeline.
	// Nested dispatches run to completion before the caller resumes.
	DispatchContext(ctx *Context)

	// LookupEditable resolves the nearest enclosing attached editable
	// for a node, or nil.
	LookupEditable(node *dom.Node) *editable.Editable

	// Selection is the ambient selection sink the commit stage
	// writes to.
	Selection() boundary.Selection
}

// Intent is the semantic editing intent the key-interpretation stage
// derives from raw keyboard notifications, consumed by later stages.
type Intent struct {
	// Name identifies the intent.
	Name string
	// Rune is the character for insert intents.
	Rune rune
	// Format is the format name for formatting intents.
	Format string
	// Key is the originating key for movement intents.
	Key event.Key
}

// Intent names.
const (
	IntentInsert         = "typing.insert"
	IntentDeleteBackward = "typing.deleteBackward"
	IntentDeleteForward  = "typing.deleteForward"
	IntentSplitBlock     = "typing.splitBlock"
	IntentToggleFormat   = "format.toggle"
	IntentMoveCaret      = "caret.move"
	IntentUndo           = "history.undo"
	IntentRedo           = "history.redo"
)

// Context is the unit of work flowing through the pipeline for one
// input occurrence.
type Context struct {
	// SourceEvent is the originating raw notification; nil for
	// synthetic lifecycle occurrences.
	SourceEvent *event.Event

	// Kind tags the occurrence.
	Kind Kind

	// Range is the abstract boundary pair the occurrence concerns.
	// Any stage may set or replace it; absence cancels the final
	// selection commit.
	Range *boundary.Range

	// Editable is the region this context is associated with, set by
	// the association stage and read-only afterward within the pass.
	Editable *editable.Editable

	// Editor is the owning editor, always present once dispatched.
	Editor Editor

	// Intent is the classified editing intent, if any.
	Intent *Intent

	// Data holds stage-specific context values.
	Data map[string]any
}

// New creates an empty native-input context.
func New() *Context {
	return &Context{
		Kind: KindNativeInput,
		Data: make(map[string]any),
	}
}

// FromEvent creates a context for a raw notification, copying the
// host-resolved range so stages can replace it without mutating the
// event.
func FromEvent(ev *event.Event) *Context {
	ctx := New()
	ctx.SourceEvent = ev
	if ev != nil && ev.Range != nil {
		r := *ev.Range
		ctx.Range = &r
	}
	return ctx
}

// SetRange replaces the context range.
func (ctx *Context) SetRange(r boundary.Range) {
	ctx.Range = &r
}

// EventType returns the source notification type, or TypeNone for
// synthetic contexts.
func (ctx *Context) EventType() event.Type {
	if ctx.SourceEvent == nil {
		return event.TypeNone
	}
	return ctx.SourceEvent.Type
}

// SetData sets a context data value.
func (ctx *Context) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *Context) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataBool retrieves a bool value from context data.
func (ctx *Context) GetDataBool(key string) bool {
	if v, ok := ctx.GetData(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetDataNode retrieves a document node from context data.
func (ctx *Context) GetDataNode(key string) *dom.Node {
	if v, ok := ctx.GetData(key); ok {
		if n, ok := v.(*dom.Node); ok {
			return n
		}
	}
	return nil
}
