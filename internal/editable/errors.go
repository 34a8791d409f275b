package editable

import "errors"

// Registry errors.
var (
	// ErrAlreadyAttached indicates an attach for an element that
	// already has a live editable.
	ErrAlreadyAttached = errors.New("editable: element already attached")

	// ErrNotAttached indicates a detach for an element with no live
	// editable.
	ErrNotAttached = errors.New("editable: element not attached")
)
