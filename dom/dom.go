// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package dom defines a mutable document tree for JSON values, along with a
// builder that assembles trees from token writes and a reader that replays a
// tree as a token stream.
//
// Every node of a tree knows its parent, so a node can report its document
// path and navigate to its siblings. A node belongs to at most one tree at a
// time; attaching a node that already has a parent panics. Use Clone to copy
// a subtree for use elsewhere.
package dom

import (
	"github.com/creachadair/jstream"
	"github.com/creachadair/jstream/internal/pathseg"
)

// Kind classifies the nodes of a document tree.
type Kind byte

const (
	KindObject Kind = 1 + iota
	KindArray
	KindConstructor
	KindProperty
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindNull
	KindUndefined
	KindDate
	KindBytes
	KindGUID
	KindURI
	KindDuration
	KindRaw
	KindComment
)

var kindStr = [...]string{
	KindObject:      "object",
	KindArray:       "array",
	KindConstructor: "constructor",
	KindProperty:    "property",
	KindString:      "string",
	KindInteger:     "integer",
	KindFloat:       "float",
	KindBoolean:     "boolean",
	KindNull:        "null",
	KindUndefined:   "undefined",
	KindDate:        "date",
	KindBytes:       "bytes",
	KindGUID:        "guid",
	KindURI:         "uri",
	KindDuration:    "duration",
	KindRaw:         "raw",
	KindComment:     "comment",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) && kindStr[k] != "" {
		return kindStr[k]
	}
	return "invalid"
}

// A Node is an element of a document tree: a container, a property, a
// scalar value, or a comment.
type Node interface {
	// Kind reports the kind of the node.
	Kind() Kind

	// Parent returns the parent of the node, or nil for a root.
	Parent() Node

	// Next returns the next sibling of the node, or nil.
	Next() Node

	// Prev returns the previous sibling of the node, or nil.
	Prev() Node

	// Path returns the document path of the node from its root.
	Path() string

	// Clone returns a deep copy of the node, detached from any tree.
	Clone() Node

	// Location returns the source position the node was parsed from, or a
	// zero location for a constructed node.
	Location() jstream.LineCol

	base() *node
}

// node carries the tree linkage shared by all node types.
type node struct {
	parent Node
	loc    jstream.LineCol
}

func (n *node) Parent() Node              { return n.parent }
func (n *node) Location() jstream.LineCol { return n.loc }
func (n *node) base() *node               { return n }

// attach claims c for parent p. It panics if c already belongs to a tree.
func attach(p, c Node) {
	if c.base().parent != nil {
		panic("dom: node is already attached to a tree")
	}
	c.base().parent = p
}

// detach releases c from its parent.
func detach(c Node) { c.base().parent = nil }

// children returns the ordered child nodes of n, or nil if n is not a
// container. The value of a property is its only child.
func children(n Node) []Node {
	switch t := n.(type) {
	case *Object:
		return t.items
	case *Array:
		return t.items
	case *Constructor:
		return t.items
	case *Property:
		if t.value == nil {
			return nil
		}
		return []Node{t.value}
	}
	return nil
}

// indexOf returns the position of c among the children of p, or -1.
func indexOf(p, c Node) int {
	for i, kid := range children(p) {
		if kid == c {
			return i
		}
	}
	return -1
}

// next returns the sibling following n in its parent, or nil.
func next(n Node) Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	kids := children(p)
	if i := indexOf(p, n); i >= 0 && i+1 < len(kids) {
		return kids[i+1]
	}
	return nil
}

// prev returns the sibling preceding n in its parent, or nil.
func prev(n Node) Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	if i := indexOf(p, n); i > 0 {
		return children(p)[i-1]
	}
	return nil
}

// nodePath renders the document path of n by walking to its root.
func nodePath(n Node) string {
	var rev [][]byte
	if p, ok := n.(*Property); ok {
		rev = append(rev, pathseg.AppendKey(nil, p.key))
	}
	for p := n.Parent(); p != nil; n, p = p, p.Parent() {
		switch t := p.(type) {
		case *Property:
			rev = append(rev, pathseg.AppendKey(nil, t.key))
		case *Array, *Constructor:
			if i := indexOf(p, n); i >= 0 {
				rev = append(rev, pathseg.AppendIndex(nil, i))
			}
		}
	}
	var buf []byte
	for i := len(rev) - 1; i >= 0; i-- {
		buf = append(buf, rev[i]...)
	}
	return string(buf)
}
