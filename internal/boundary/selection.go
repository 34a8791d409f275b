package boundary

import "sync"

// Selection is the ambient selection sink the commit stage writes to.
// A host environment supplies its own implementation; tests and the
// demo use Ambient.
type Selection interface {
	// Set replaces the current selection.
	Set(r Range)
	// Get returns the current selection, if any.
	Get() (Range, bool)
	// Clear removes the current selection.
	Clear()
}

// Ambient is an in-memory Selection implementation standing in for the
// host's native selection state.
type Ambient struct {
	mu  sync.Mutex
	r   Range
	set bool
}

// NewAmbient creates an empty ambient selection.
func NewAmbient() *Ambient {
	return &Ambient{}
}

// Set implements Selection.
func (a *Ambient) Set(r Range) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.r = r
	a.set = true
}

// Get implements Selection.
func (a *Ambient) Get() (Range, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.r, a.set
}

// Clear implements Selection.
func (a *Ambient) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.r = Range{}
	a.set = false
}
