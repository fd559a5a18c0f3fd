// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peg

import (
	"fmt"
	"strings"
)

// A SyntaxChild is one of Node, Leaf, or Error: the elements a successful
// parse emits into its parent's child list.
type SyntaxChild interface {
	displayLines(indent int) []displayLine
	isSyntaxChild()
}

// A Node is a labeled interior SyntaxChild, produced by a rule invocation,
// a Group, or a manually-named wrap.
type Node struct {
	Name     string
	Children []SyntaxChild
}

func (n *Node) isSyntaxChild() {}

// A Leaf is a terminal SyntaxChild: the literal text an atomic matcher
// (String, CharClass, Wildcard) consumed, along with where it started.
type Leaf struct {
	Start InputPosition
	Value string
}

func (l *Leaf) isSyntaxChild() {}

// An Error is an in-tree diagnostic marker produced by Element.Err or
// Element.CatchTo. Its presence does not mean the overall parse failed: it
// is a soft, embedded record that partial or malformed input was seen at
// this point. It is not a Go error value; it does not implement the error
// interface.
type Error struct {
	Message  string
	Children []SyntaxChild
}

func (e *Error) isSyntaxChild() {}

// A SyntaxTree wraps the root Node of a successful parse. The root's Name
// is the entry rule's id, and its Children are that rule's matched children.
type SyntaxTree struct {
	Root *Node
}

// JoinChildren concatenates every Leaf.Value reachable through c's Node
// descendants. Error subtrees contribute nothing, even if they contain
// leaves (e.g. the text a CatchTo recovery consumed).
func JoinChildren(c SyntaxChild) string {
	switch c := c.(type) {
	case *Node:
		var b strings.Builder
		for _, kid := range c.Children {
			b.WriteString(JoinChildren(kid))
		}
		return b.String()
	case *Leaf:
		return c.Value
	case *Error:
		return ""
	default:
		return ""
	}
}

// A SyntaxChildVec is a []SyntaxChild with the traversal, flattening, and
// typed-accessor helpers used both by grammar transformers and by client
// code walking a parsed SyntaxTree.
type SyntaxChildVec []SyntaxChild

// Expand flattens c the way the parser's Expansion Element does: children
// that are Nodes are replaced by their own children. With recursive unset,
// only hierarchy 0 flattens, and only one level: the Nodes of c are replaced
// by their children and any Nodes among those children are kept as they are;
// a non-zero hierarchy then flattens nothing. With recursive set, Nodes are
// flattened at every depth whatever hierarchy is. Leaves and Errors always
// pass through unchanged.
func (c SyntaxChildVec) Expand(hierarchy uint, recursive bool) SyntaxChildVec {
	var out SyntaxChildVec
	for _, kid := range c {
		if node, ok := kid.(*Node); ok && (hierarchy == 0 || recursive) {
			out = append(out, SyntaxChildVec(node.Children).Expand(hierarchy+1, recursive)...)
			continue
		}
		out = append(out, kid)
	}
	return out
}

// GetStartPosition returns the position of the first Leaf reachable by
// depth-first search through c, or false if c contains no Leaf.
func (c SyntaxChildVec) GetStartPosition() (InputPosition, bool) {
	for _, kid := range c {
		switch kid := kid.(type) {
		case *Node:
			if p, ok := SyntaxChildVec(kid.Children).GetStartPosition(); ok {
				return p, true
			}
		case *Leaf:
			return kid.Start, true
		case *Error:
			if p, ok := SyntaxChildVec(kid.Children).GetStartPosition(); ok {
				return p, true
			}
		}
	}
	return InputPosition{}, false
}

// EjectErrors returns every Error reachable through c's Node descendants,
// as a flat list of the Error markers themselves (not their children).
func (c SyntaxChildVec) EjectErrors() SyntaxChildVec {
	var out SyntaxChildVec
	for _, kid := range c {
		switch kid := kid.(type) {
		case *Node:
			out = append(out, SyntaxChildVec(kid.Children).EjectErrors()...)
		case *Error:
			out = append(out, kid)
		}
	}
	return out
}

// JoinIntoString reassembles the portion of the source covered by c,
// recursing into Nodes and skipping Error subtrees entirely.
func (c SyntaxChildVec) JoinIntoString() string {
	var b strings.Builder
	for _, kid := range c {
		switch kid := kid.(type) {
		case *Node:
			b.WriteString(SyntaxChildVec(kid.Children).JoinIntoString())
		case *Leaf:
			b.WriteString(kid.Value)
		}
	}
	return b.String()
}

// GetChild returns c[i], panicking if i is out of range.
func (c SyntaxChildVec) GetChild(i int) SyntaxChild {
	child, ok := c.GetChildOrNone(i)
	if !ok {
		panic(fmt.Sprintf("peg: syntax child index %d is out of range", i))
	}
	return child
}

// GetChildOrNone returns c[i] and true, or (nil, false) if i is out of range.
func (c SyntaxChildVec) GetChildOrNone(i int) (SyntaxChild, bool) {
	if i < 0 || i >= len(c) {
		return nil, false
	}
	return c[i], true
}

// GetNode returns c[i] as a *Node, panicking if i is out of range or c[i]
// is not a Node.
func (c SyntaxChildVec) GetNode(i int) *Node {
	n, ok := c.GetNodeOrNone(i)
	if !ok {
		panic("peg: expected syntax node")
	}
	return n
}

// GetNodeOrNone is the non-panicking form of GetNode.
func (c SyntaxChildVec) GetNodeOrNone(i int) (*Node, bool) {
	child, ok := c.GetChildOrNone(i)
	if !ok {
		return nil, false
	}
	n, ok := child.(*Node)
	return n, ok
}

// GetLeaf returns c[i] as a *Leaf, panicking if i is out of range or c[i]
// is not a Leaf.
func (c SyntaxChildVec) GetLeaf(i int) *Leaf {
	l, ok := c.GetLeafOrNone(i)
	if !ok {
		panic("peg: expected syntax leaf")
	}
	return l
}

// GetLeafOrNone is the non-panicking form of GetLeaf.
func (c SyntaxChildVec) GetLeafOrNone(i int) (*Leaf, bool) {
	child, ok := c.GetChildOrNone(i)
	if !ok {
		return nil, false
	}
	l, ok := child.(*Leaf)
	return l, ok
}

// GetError returns c[i] as an *Error, panicking if i is out of range or
// c[i] is not an Error.
func (c SyntaxChildVec) GetError(i int) *Error {
	e, ok := c.GetErrorOrNone(i)
	if !ok {
		panic("peg: expected syntax error")
	}
	return e
}

// GetErrorOrNone is the non-panicking form of GetError.
func (c SyntaxChildVec) GetErrorOrNone(i int) (*Error, bool) {
	child, ok := c.GetChildOrNone(i)
	if !ok {
		return nil, false
	}
	e, ok := child.(*Error)
	return e, ok
}

// FindNode returns the first immediate Node child of c named name,
// panicking if none matches. FindNode does not recurse.
func (c SyntaxChildVec) FindNode(name string) *Node {
	n, ok := c.FindNodeOrNone(name)
	if !ok {
		panic(fmt.Sprintf("peg: unknown syntax node name %q", name))
	}
	return n
}

// FindNodeOrNone is the non-panicking form of FindNode.
func (c SyntaxChildVec) FindNodeOrNone(name string) (*Node, bool) {
	for _, kid := range c {
		if n, ok := kid.(*Node); ok && n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// FilterNodes returns every immediate Node child of c, in order.
// FilterNodes does not recurse.
func (c SyntaxChildVec) FilterNodes() []*Node {
	var out []*Node
	for _, kid := range c {
		if n, ok := kid.(*Node); ok {
			out = append(out, n)
		}
	}
	return out
}

// A displayLine is one line of a SyntaxDisplay rendering: an indent depth
// plus the text to print at that depth.
type displayLine struct {
	indent int
	text   string
}

func (l displayLine) String() string {
	return strings.Repeat("  ", l.indent) + l.text
}

func (n *Node) displayLines(indent int) []displayLine {
	lines := []displayLine{{indent: indent, text: n.Name}}
	for _, kid := range n.Children {
		lines = append(lines, kid.displayLines(indent+1)...)
	}
	return lines
}

func (l *Leaf) displayLines(indent int) []displayLine {
	return []displayLine{{indent: indent, text: `"` + l.Value + `"`}}
}

func (e *Error) displayLines(indent int) []displayLine {
	lines := []displayLine{{indent: indent, text: "[ERR] " + e.Message}}
	for _, kid := range e.Children {
		lines = append(lines, kid.displayLines(indent+1)...)
	}
	return lines
}

// Display renders c as an indented, human-readable tree: two spaces per
// indent level, a Node's Name on its own line, a Leaf's Value quoted, and
// an Error's Message prefixed with "[ERR] ", each followed by its children
// at the next indent level.
func Display(c SyntaxChild) string {
	lines := c.displayLines(0)
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// Display renders t the same way Display renders any SyntaxChild, starting
// from t's root.
func (t *SyntaxTree) Display() string {
	return Display(t.Root)
}
