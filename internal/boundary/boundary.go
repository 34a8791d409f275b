// Package boundary provides abstract document positions and ranges.
//
// A Boundary is a position inside the document tree: a container node
// plus an offset. For text containers the offset counts runes; for
// element containers it counts children, so offset i sits immediately
// before child i. A Range is an ordered pair of boundaries describing a
// selection or a collapsed insertion point.
package boundary

import (
	"fmt"

	"github.com/najor/Aloha-Editor/internal/dom"
)

// Boundary is a single position in the document tree.
type Boundary struct {
	Container *dom.Node
	Offset    int
}

// At creates a boundary at the given container and offset.
func At(container *dom.Node, offset int) Boundary {
	return Boundary{Container: container, Offset: offset}
}

// IsZero reports whether the boundary is unset.
func (b Boundary) IsZero() bool { return b.Container == nil }

// String renders the boundary for logs and test failures.
func (b Boundary) String() string {
	if b.Container == nil {
		return "<nil boundary>"
	}
	if b.Container.IsText() {
		return fmt.Sprintf("text[%q]@%d", b.Container.Text(), b.Offset)
	}
	return fmt.Sprintf("<%s>@%d", b.Container.Name(), b.Offset)
}

// path returns the child-index path from the root to the boundary,
// with the offset as final component.
func (b Boundary) path() []int {
	var rev []int
	for cur := b.Container; cur.Parent() != nil; cur = cur.Parent() {
		rev = append(rev, cur.Index())
	}
	out := make([]int, 0, len(rev)+1)
	for i := len(rev) - 1; i >= 0; i-- {
		out = append(out, rev[i])
	}
	return append(out, b.Offset)
}

func root(n *dom.Node) *dom.Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// Compare returns -1, 0 or 1 as a sorts before, equal to, or after b in
// document order. Boundaries in disconnected trees compare as equal.
func Compare(a, b Boundary) int {
	if a.Container == nil || b.Container == nil {
		return 0
	}
	if root(a.Container) != root(b.Container) {
		return 0
	}
	pa, pb := a.path(), b.path()
	for i := 0; i < len(pa) && i < len(pb); i++ {
		switch {
		case pa[i] < pb[i]:
			return -1
		case pa[i] > pb[i]:
			return 1
		}
	}
	// One path is a prefix of the other: the shorter boundary sits
	// before the content it points into.
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return 0
}

// Range is an ordered pair of boundaries.
type Range struct {
	Start Boundary
	End   Boundary
}

// NewRange creates a range from two boundaries.
func NewRange(start, end Boundary) Range {
	return Range{Start: start, End: end}
}

// Collapsed creates a collapsed range at the given boundary.
func Collapsed(b Boundary) Range {
	return Range{Start: b, End: b}
}

// IsCollapsed reports whether start and end are the same position.
func (r Range) IsCollapsed() bool {
	return r.Start.Container == r.End.Container && r.Start.Offset == r.End.Offset
}

// Collapse returns the range collapsed to its start or end.
func (r Range) Collapse(toStart bool) Range {
	if toStart {
		return Collapsed(r.Start)
	}
	return Collapsed(r.End)
}

// Normalize returns the range with start and end in document order.
func (r Range) Normalize() Range {
	if Compare(r.Start, r.End) > 0 {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// CommonAncestor returns the deepest node containing both boundary
// containers, or nil for disconnected boundaries.
func (r Range) CommonAncestor() *dom.Node {
	if r.Start.Container == nil || r.End.Container == nil {
		return nil
	}
	for cur := r.Start.Container; cur != nil; cur = cur.Parent() {
		if cur.Contains(r.End.Container) {
			return cur
		}
	}
	return nil
}

// ClampTo returns the range confined to the given host element.
// Boundaries outside the host move to the host's edges.
func (r Range) ClampTo(host *dom.Node) Range {
	out := r
	if out.Start.Container == nil || !host.Contains(out.Start.Container) {
		out.Start = At(host, 0)
	}
	if out.End.Container == nil || !host.Contains(out.End.Container) {
		out.End = At(host, host.ChildCount())
	}
	return out.Normalize()
}

// String renders the range for logs and test failures.
func (r Range) String() string {
	if r.IsCollapsed() {
		return r.Start.String()
	}
	return r.Start.String() + " .. " + r.End.String()
}
