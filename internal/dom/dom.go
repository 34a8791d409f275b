// Package dom provides the abstract document tree the editor operates on.
//
// The tree is a deliberately small stand-in for a host document: element
// and text nodes with parent links, attributes, and a tri-state
// content-editable flag. It is not a DOM implementation; it carries just
// enough structure for boundary math, editable-host resolution, and
// reversible content edits.
package dom

import (
	"strings"
)

// NodeType identifies the kind of a node.
type NodeType uint8

const (
	// ElementNode is a named container node.
	ElementNode NodeType = iota + 1
	// TextNode is a leaf carrying text content.
	TextNode
)

// editableState is the tri-state content-editable flag.
type editableState uint8

const (
	editableInherit editableState = iota
	editableYes
	editableNo
)

// Node is a single node in the document tree.
// A Node is not safe for concurrent mutation; the editor core is
// single-threaded by contract.
type Node struct {
	nodeType NodeType
	name     string
	text     string
	attrs    map[string]string
	parent   *Node
	children []*Node
	editable editableState
}

// NewElement creates an element node with the given (lowercase) name
// and optional children.
func NewElement(name string, children ...*Node) *Node {
	n := &Node{
		nodeType: ElementNode,
		name:     strings.ToLower(name),
	}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{
		nodeType: TextNode,
		text:     text,
	}
}

// Type returns the node type.
func (n *Node) Type() NodeType { return n.nodeType }

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool { return n.nodeType == ElementNode }

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n.nodeType == TextNode }

// Name returns the element name. Empty for text nodes.
func (n *Node) Name() string { return n.name }

// Text returns the text content of a text node.
func (n *Node) Text() string { return n.text }

// SetText replaces the text content of a text node.
func (n *Node) SetText(s string) {
	if n.nodeType == TextNode {
		n.text = s
	}
}

// TextLen returns the text length in runes. Zero for elements.
func (n *Node) TextLen() int {
	return len([]rune(n.text))
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at index i, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Index returns the node's position among its siblings, or -1 for a root.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Append adds children to the end of the child list. A child already
// placed elsewhere is detached first. Nil children are ignored.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Detach()
		c.parent = n
		n.children = append(n.children, c)
	}
}

// InsertAt inserts a child at index i, clamped to the valid range.
func (n *Node) InsertAt(i int, c *Node) {
	if c == nil {
		return
	}
	c.Detach()
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	c.parent = n
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
}

// Remove removes a direct child. Reports whether the child was found.
func (n *Node) Remove(c *Node) bool {
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Detach removes the node from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Attr returns the value of an attribute.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// SetAttr sets an attribute on the node.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(key string) {
	delete(n.attrs, key)
}

// SetEditable sets the content-editable flag explicitly.
func (n *Node) SetEditable(editable bool) {
	if editable {
		n.editable = editableYes
	} else {
		n.editable = editableNo
	}
}

// ClearEditable resets the flag to the inherited state.
func (n *Node) ClearEditable() {
	n.editable = editableInherit
}

// IsEditingHost reports whether this node itself is flagged editable.
func (n *Node) IsEditingHost() bool {
	return n.editable == editableYes
}

// IsContentEditable reports whether the node accepts edits, walking up
// to the nearest explicitly flagged ancestor.
func (n *Node) IsContentEditable() bool {
	for cur := n; cur != nil; cur = cur.parent {
		switch cur.editable {
		case editableYes:
			return true
		case editableNo:
			return false
		}
	}
	return false
}

// EditingHost returns the nearest ancestor (including self) that is an
// editing host, or nil. A node flagged non-editable blocks the walk;
// content inside such a node belongs to no host.
func (n *Node) EditingHost() *Node {
	for cur := n; cur != nil; cur = cur.parent {
		switch cur.editable {
		case editableYes:
			return cur
		case editableNo:
			return nil
		}
	}
	return nil
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// InsertText inserts s into a text node at the given rune offset,
// clamped to the text bounds.
func (n *Node) InsertText(at int, s string) {
	if n.nodeType != TextNode {
		return
	}
	runes := []rune(n.text)
	if at < 0 {
		at = 0
	}
	if at > len(runes) {
		at = len(runes)
	}
	n.text = string(runes[:at]) + s + string(runes[at:])
}

// DeleteText removes the rune range [from, to) from a text node and
// returns the removed text.
func (n *Node) DeleteText(from, to int) string {
	if n.nodeType != TextNode {
		return ""
	}
	runes := []rune(n.text)
	if from < 0 {
		from = 0
	}
	if to > len(runes) {
		to = len(runes)
	}
	if from >= to {
		return ""
	}
	removed := string(runes[from:to])
	n.text = string(runes[:from]) + string(runes[to:])
	return removed
}

// SplitText splits a text node at the given rune offset and returns the
// new following sibling holding the tail.
func (n *Node) SplitText(at int) *Node {
	runes := []rune(n.text)
	if at < 0 {
		at = 0
	}
	if at > len(runes) {
		at = len(runes)
	}
	tail := NewText(string(runes[at:]))
	n.text = string(runes[:at])
	if n.parent != nil {
		n.parent.InsertAt(n.Index()+1, tail)
	}
	return tail
}

// PlainText returns the concatenated text content of the subtree.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.plainText(&b)
	return b.String()
}

func (n *Node) plainText(b *strings.Builder) {
	if n.nodeType == TextNode {
		b.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.plainText(b)
	}
}

// Clone returns a copy of the node. With deep set, the whole subtree is
// copied; the clone is always detached from any parent.
func (n *Node) Clone(deep bool) *Node {
	out := &Node{
		nodeType: n.nodeType,
		name:     n.name,
		text:     n.text,
		editable: n.editable,
	}
	if len(n.attrs) > 0 {
		out.attrs = make(map[string]string, len(n.attrs))
		for k, v := range n.attrs {
			out.attrs[k] = v
		}
	}
	if deep {
		for _, c := range n.children {
			out.Append(c.Clone(true))
		}
	}
	return out
}

// String renders the subtree in an HTML-like form for logs and tests.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *Node) render(b *strings.Builder) {
	if n.nodeType == TextNode {
		b.WriteString(n.text)
		return
	}
	b.WriteByte('<')
	b.WriteString(n.name)
	b.WriteByte('>')
	for _, c := range n.children {
		c.render(b)
	}
	b.WriteString("</")
	b.WriteString(n.name)
	b.WriteByte('>')
}
