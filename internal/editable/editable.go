// Package editable provides the attached document regions and their
// registry.
//
// An Editable wraps one host element for its attached lifetime: the
// element reference, pending formatting overrides, merged settings,
// and the undo manager scoped to the region. The Registry maps element
// identity to live editables and resolves the nearest enclosing host
// for arbitrary descendant nodes.
package editable

import (
	"github.com/google/uuid"
	"github.com/najor/Aloha-Editor/internal/config"
	"github.com/najor/Aloha-Editor/internal/dom"
	"github.com/najor/Aloha-Editor/internal/undo"
)

// Override is a pending formatting intent consumed by the next typed
// character, e.g. "bold" after a Ctrl+B with a collapsed selection.
type Override struct {
	Format string
}

// Editable is one attached document region.
type Editable struct {
	// ID uniquely identifies the editable across its lifetime.
	ID string

	// Element is the wrapped host node. The editable holds a
	// reference only; the node's lifetime belongs to the host
	// document.
	Element *dom.Node

	// Overrides are the pending formatting intents, in push order.
	Overrides []Override

	// Settings are the editable's effective settings.
	Settings config.Settings

	// UndoContext is the undo manager scoped to this editable.
	UndoContext *undo.Manager

	rootScope undo.ScopeHandle
	isOpen    bool
}

// IsOpen reports whether the editable is between attach and detach.
func (e *Editable) IsOpen() bool { return e.isOpen }

// ToggleOverride adds the formatting intent, or removes it if already
// pending.
func (e *Editable) ToggleOverride(format string) {
	for i, o := range e.Overrides {
		if o.Format == format {
			e.Overrides = append(e.Overrides[:i], e.Overrides[i+1:]...)
			return
		}
	}
	e.Overrides = append(e.Overrides, Override{Format: format})
}

// TakeOverrides returns the pending overrides and clears them.
func (e *Editable) TakeOverrides() []Override {
	out := e.Overrides
	e.Overrides = nil
	return out
}

// Registry tracks the live editables of one editor, keyed by element
// identity.
type Registry struct {
	entries  map[*dom.Node]*Editable
	defaults config.Settings
}

// NewRegistry creates a registry with the given default settings.
func NewRegistry(defaults config.Settings) *Registry {
	return &Registry{
		entries:  make(map[*dom.Node]*Editable),
		defaults: defaults,
	}
}

// Attach turns an element into an editable region. Per-editable
// settings are merged over the registry defaults. The new editable's
// root undo scope is opened with partitioned records so independent
// external mutations stay individually undoable.
func (r *Registry) Attach(elem *dom.Node, settings config.Settings) (*Editable, error) {
	if existing, ok := r.entries[elem]; ok && existing.isOpen {
		return nil, ErrAlreadyAttached
	}

	merged := r.defaults.Merge(settings)
	ed := &Editable{
		ID:          uuid.NewString(),
		Element:     elem,
		Settings:    merged,
		UndoContext: undo.NewManager(merged.UndoDepth),
		isOpen:      true,
	}
	ed.rootScope = ed.UndoContext.Enter(undo.Meta{Type: "external"}, true)

	elem.SetEditable(true)
	r.entries[elem] = ed
	return ed, nil
}

// Detach reverses Attach. The root undo scope must be the innermost
// open scope; a nested scope left open fails the detach and leaves the
// editable untouched.
func (r *Registry) Detach(elem *dom.Node) (*Editable, error) {
	ed, ok := r.entries[elem]
	if !ok || !ed.isOpen {
		return nil, ErrNotAttached
	}

	if err := ed.UndoContext.Exit(ed.rootScope); err != nil {
		return nil, err
	}
	ed.isOpen = false
	elem.ClearEditable()
	delete(r.entries, elem)
	return ed, nil
}

// Get returns the live editable for exactly this element, or nil.
func (r *Registry) Get(elem *dom.Node) *Editable {
	return r.entries[elem]
}

// Lookup resolves the nearest enclosing attached element for an
// arbitrary descendant node. Returns nil if none is attached. The walk
// is bounded by the node's ancestor chain, not the registry size.
func (r *Registry) Lookup(node *dom.Node) *Editable {
	for cur := node; cur != nil; cur = cur.Parent() {
		if ed, ok := r.entries[cur]; ok {
			return ed
		}
	}
	return nil
}

// Count returns the number of live editables.
func (r *Registry) Count() int { return len(r.entries) }
