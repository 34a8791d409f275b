package undo

import "errors"

// Undo manager errors.
var (
	// ErrScopeMismatch indicates an exit for a scope that is not the
	// innermost open one.
	ErrScopeMismatch = errors.New("undo: scope handle does not match innermost open scope")

	// ErrNoOpenScope indicates a record or exit with no scope open.
	ErrNoOpenScope = errors.New("undo: no open scope")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("undo: nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("undo: nothing to redo")
)
