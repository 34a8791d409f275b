// Package undo provides the per-editable undo transaction manager.
//
// Edits are recorded inside nested scopes with strict stack discipline.
// A scope opened with partitioned records promotes every recorded edit
// as its own undo step; an unpartitioned scope collapses everything
// recorded inside it into a single step when it closes. Nesting lets
// one user gesture that triggers several primitive mutations remain a
// single undoable action.
package undo

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxDepth is the default undo history depth.
const DefaultMaxDepth = 1000

// Edit is one reversible edit description.
type Edit interface {
	// Apply performs the edit against the document.
	Apply() error
	// Revert undoes a previously applied edit.
	Revert() error
}

// Meta tags a scope with its provenance, e.g. "external" for the root
// scope opened on attach or "user-device" for input-driven edits.
type Meta struct {
	Type string
}

// ScopeHandle identifies one open scope. Only the handle returned by
// Enter can close that scope.
type ScopeHandle struct {
	id string
}

// IsZero reports whether the handle is unset.
func (h ScopeHandle) IsZero() bool { return h.id == "" }

// step is one undoable unit: the edits of one logical action.
type step struct {
	edits []Edit
	meta  Meta
	when  time.Time
}

// scope is one open bracket on the scope stack.
type scope struct {
	handle    ScopeHandle
	meta      Meta
	partition bool
	pending   []step
}

// Manager tracks the scope stack and undo/redo history for one
// editable.
type Manager struct {
	mu        sync.Mutex
	stack     []*scope
	undoStack []step
	redoStack []step
	maxDepth  int
}

// NewManager creates a manager with the given history depth.
// Non-positive depth selects DefaultMaxDepth.
func NewManager(maxDepth int) *Manager {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Manager{maxDepth: maxDepth}
}

// Enter opens a new nested scope and returns its handle. With
// partitionRecords set, every edit recorded in the scope becomes its
// own undo step; otherwise the whole scope collapses into one step on
// exit.
func (m *Manager) Enter(meta Meta, partitionRecords bool) ScopeHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := ScopeHandle{id: uuid.NewString()}
	m.stack = append(m.stack, &scope{
		handle:    h,
		meta:      meta,
		partition: partitionRecords,
	})
	return h
}

// Exit closes the scope identified by the handle. The handle must
// refer to the innermost open scope.
func (m *Manager) Exit(h ScopeHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.popLocked(h)
	if err != nil {
		return err
	}

	if len(s.pending) == 0 {
		return nil
	}
	// An unpartitioned scope collapses its pending units into one.
	merged := step{meta: s.meta, when: s.pending[0].when}
	for _, u := range s.pending {
		merged.edits = append(merged.edits, u.edits...)
	}
	m.promoteLocked(merged)
	return nil
}

// Cancel closes the scope like Exit but discards anything recorded in
// it that has not already been promoted.
func (m *Manager) Cancel(h ScopeHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.popLocked(h)
	return err
}

func (m *Manager) popLocked(h ScopeHandle) (*scope, error) {
	if len(m.stack) == 0 {
		return nil, ErrNoOpenScope
	}
	top := m.stack[len(m.stack)-1]
	if top.handle != h {
		return nil, ErrScopeMismatch
	}
	m.stack = m.stack[:len(m.stack)-1]
	return top, nil
}

// Record appends a reversible edit to the innermost open scope.
func (m *Manager) Record(e Edit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.stack) == 0 {
		return ErrNoOpenScope
	}
	top := m.stack[len(m.stack)-1]
	unit := step{edits: []Edit{e}, meta: top.meta, when: time.Now()}
	if top.partition {
		m.promoteFromLocked(len(m.stack)-2, unit)
	} else {
		top.pending = append(top.pending, unit)
	}
	return nil
}

// Execute applies an edit and records it in the innermost open scope.
// The edit is not applied if no scope is open.
func (m *Manager) Execute(e Edit) error {
	m.mu.Lock()
	open := len(m.stack) > 0
	m.mu.Unlock()
	if !open {
		return ErrNoOpenScope
	}
	if err := e.Apply(); err != nil {
		return fmt.Errorf("applying edit: %w", err)
	}
	return m.Record(e)
}

// promoteLocked hands a completed unit upward from the current
// innermost scope.
func (m *Manager) promoteLocked(unit step) {
	m.promoteFromLocked(len(m.stack)-1, unit)
}

// promoteFromLocked hands a completed unit to the scope at index i or,
// past the bottom of the stack, to the undo history. Partitioned
// scopes pass units straight through; an unpartitioned scope absorbs
// them until it closes.
func (m *Manager) promoteFromLocked(i int, unit step) {
	for ; i >= 0; i-- {
		s := m.stack[i]
		if !s.partition {
			s.pending = append(s.pending, unit)
			return
		}
	}
	m.undoStack = append(m.undoStack, unit)
	if len(m.undoStack) > m.maxDepth {
		m.undoStack = m.undoStack[len(m.undoStack)-m.maxDepth:]
	}
	m.redoStack = nil
}

// Transaction runs fn inside a new scope. On error the scope is
// cancelled; otherwise it is closed normally.
func (m *Manager) Transaction(meta Meta, partitionRecords bool, fn func() error) error {
	h := m.Enter(meta, partitionRecords)
	if err := fn(); err != nil {
		_ = m.Cancel(h)
		return err
	}
	return m.Exit(h)
}

// Undo reverts the most recent fully-closed top-level step.
func (m *Manager) Undo() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.undoStack) == 0 {
		return ErrNothingToUndo
	}
	s := m.undoStack[len(m.undoStack)-1]
	for i := len(s.edits) - 1; i >= 0; i-- {
		if err := s.edits[i].Revert(); err != nil {
			// Roll the partial revert forward again so the step left
			// on the stack still matches the document.
			for j := i + 1; j < len(s.edits); j++ {
				_ = s.edits[j].Apply()
			}
			return fmt.Errorf("reverting edit: %w", err)
		}
	}
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.redoStack = append(m.redoStack, s)
	return nil
}

// Redo reapplies the most recently undone step.
func (m *Manager) Redo() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.redoStack) == 0 {
		return ErrNothingToRedo
	}
	s := m.redoStack[len(m.redoStack)-1]
	for i, e := range s.edits {
		if err := e.Apply(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = s.edits[j].Revert()
			}
			return fmt.Errorf("reapplying edit: %w", err)
		}
	}
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.undoStack = append(m.undoStack, s)
	return nil
}

// Depth returns the number of open scopes.
func (m *Manager) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}

// CanUndo reports whether an undo step is available.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack) > 0
}

// CanRedo reports whether a redo step is available.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack) > 0
}

// UndoCount returns the number of available undo steps.
func (m *Manager) UndoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack)
}

// RedoCount returns the number of available redo steps.
func (m *Manager) RedoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack)
}
