// Package edits provides the concrete reversible edit operations the
// interpretation stages record into undo scopes. Each operation knows
// how to apply itself to the document tree and how to revert exactly
// what it applied.
package edits

import (
	"errors"

	"github.com/najor/Aloha-Editor/internal/dom"
)

// Precondition errors.
var (
	ErrNotText    = errors.New("edits: target is not a text node")
	ErrNotElement = errors.New("edits: target is not an element")
	ErrDetached   = errors.New("edits: target has no parent")
)

// InsertText inserts text into a text node at a rune offset.
type InsertText struct {
	Node *dom.Node
	At   int
	Text string
}

// NewInsertText creates an insert-text edit.
func NewInsertText(node *dom.Node, at int, text string) *InsertText {
	return &InsertText{Node: node, At: at, Text: text}
}

// Apply implements undo.Edit.
func (e *InsertText) Apply() error {
	if e.Node == nil || !e.Node.IsText() {
		return ErrNotText
	}
	e.Node.InsertText(e.At, e.Text)
	return nil
}

// Revert implements undo.Edit.
func (e *InsertText) Revert() error {
	if e.Node == nil || !e.Node.IsText() {
		return ErrNotText
	}
	e.Node.DeleteText(e.At, e.At+len([]rune(e.Text)))
	return nil
}

// DeleteText removes the rune range [From, To) from a text node.
type DeleteText struct {
	Node     *dom.Node
	From, To int

	removed string
}

// NewDeleteText creates a delete-text edit.
func NewDeleteText(node *dom.Node, from, to int) *DeleteText {
	return &DeleteText{Node: node, From: from, To: to}
}

// Apply implements undo.Edit.
func (e *DeleteText) Apply() error {
	if e.Node == nil || !e.Node.IsText() {
		return ErrNotText
	}
	e.removed = e.Node.DeleteText(e.From, e.To)
	return nil
}

// Revert implements undo.Edit.
func (e *DeleteText) Revert() error {
	if e.Node == nil || !e.Node.IsText() {
		return ErrNotText
	}
	e.Node.InsertText(e.From, e.removed)
	return nil
}

// Removed returns the text removed by the last Apply.
func (e *DeleteText) Removed() string { return e.removed }

// InsertNode places a node at a child index of a parent element.
type InsertNode struct {
	Parent *dom.Node
	Index  int
	Child  *dom.Node
}

// NewInsertNode creates an insert-node edit.
func NewInsertNode(parent *dom.Node, index int, child *dom.Node) *InsertNode {
	return &InsertNode{Parent: parent, Index: index, Child: child}
}

// Apply implements undo.Edit.
func (e *InsertNode) Apply() error {
	if e.Parent == nil || !e.Parent.IsElement() {
		return ErrNotElement
	}
	e.Parent.InsertAt(e.Index, e.Child)
	return nil
}

// Revert implements undo.Edit.
func (e *InsertNode) Revert() error {
	if e.Parent == nil || !e.Parent.IsElement() {
		return ErrNotElement
	}
	e.Parent.Remove(e.Child)
	return nil
}

// RemoveNode detaches a node from its parent.
type RemoveNode struct {
	Child *dom.Node

	parent *dom.Node
	index  int
}

// NewRemoveNode creates a remove-node edit.
func NewRemoveNode(child *dom.Node) *RemoveNode {
	return &RemoveNode{Child: child}
}

// Apply implements undo.Edit.
func (e *RemoveNode) Apply() error {
	if e.Child == nil || e.Child.Parent() == nil {
		return ErrDetached
	}
	e.parent = e.Child.Parent()
	e.index = e.Child.Index()
	e.Child.Detach()
	return nil
}

// Revert implements undo.Edit.
func (e *RemoveNode) Revert() error {
	if e.parent == nil {
		return ErrDetached
	}
	e.parent.InsertAt(e.index, e.Child)
	return nil
}

// MoveNode detaches a node and re-inserts it at a new position.
type MoveNode struct {
	Child     *dom.Node
	NewParent *dom.Node
	NewIndex  int

	oldParent *dom.Node
	oldIndex  int
}

// NewMoveNode creates a move-node edit.
func NewMoveNode(child, newParent *dom.Node, newIndex int) *MoveNode {
	return &MoveNode{Child: child, NewParent: newParent, NewIndex: newIndex}
}

// Apply implements undo.Edit.
func (e *MoveNode) Apply() error {
	if e.Child == nil || e.Child.Parent() == nil {
		return ErrDetached
	}
	if e.NewParent == nil || !e.NewParent.IsElement() {
		return ErrNotElement
	}
	e.oldParent = e.Child.Parent()
	e.oldIndex = e.Child.Index()
	// Detaching the child first shifts the later siblings left, so a
	// same-parent move to a higher index must land one slot earlier.
	at := e.NewIndex
	if e.oldParent == e.NewParent && e.oldIndex < at {
		at--
	}
	e.NewParent.InsertAt(at, e.Child)
	return nil
}

// Revert implements undo.Edit.
func (e *MoveNode) Revert() error {
	if e.oldParent == nil {
		return ErrDetached
	}
	e.oldParent.InsertAt(e.oldIndex, e.Child)
	return nil
}

// SplitBlock splits a block element at a rune offset inside one of its
// text nodes, moving the tail into a fresh block inserted after the
// original. The new block's element name comes from the editable's
// default block setting.
type SplitBlock struct {
	Block    *dom.Node
	TextNode *dom.Node
	At       int
	NewName  string

	tail     *dom.Node
	newBlock *dom.Node
	moved    []*dom.Node
}

// NewSplitBlock creates a split-block edit.
func NewSplitBlock(block, textNode *dom.Node, at int, newName string) *SplitBlock {
	return &SplitBlock{Block: block, TextNode: textNode, At: at, NewName: newName}
}

// NewBlock returns the block created by the last Apply.
func (e *SplitBlock) NewBlock() *dom.Node { return e.newBlock }

// Apply implements undo.Edit.
func (e *SplitBlock) Apply() error {
	if e.Block == nil || !e.Block.IsElement() {
		return ErrNotElement
	}
	if e.TextNode == nil || !e.TextNode.IsText() {
		return ErrNotText
	}
	if e.Block.Parent() == nil {
		return ErrDetached
	}

	e.tail = e.TextNode.SplitText(e.At)
	e.newBlock = dom.NewElement(e.NewName)

	// Move the tail and everything after it into the new block.
	from := e.tail.Index()
	e.moved = nil
	for _, c := range e.Block.Children()[from:] {
		e.moved = append(e.moved, c)
		e.newBlock.Append(c)
	}
	e.Block.Parent().InsertAt(e.Block.Index()+1, e.newBlock)
	return nil
}

// Revert implements undo.Edit.
func (e *SplitBlock) Revert() error {
	if e.newBlock == nil {
		return ErrDetached
	}
	e.newBlock.Detach()
	for _, c := range e.moved {
		e.Block.Append(c)
	}
	// Merge the split text back together.
	e.TextNode.SetText(e.TextNode.Text() + e.tail.Text())
	e.tail.Detach()
	e.tail = nil
	e.newBlock = nil
	e.moved = nil
	return nil
}
