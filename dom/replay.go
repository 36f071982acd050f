// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom

import "github.com/creachadair/jstream"

// A TreeReader implements [jstream.Reader] by replaying a document tree as
// a token stream, in document order. Replaying a tree never fails, so Err
// reports nil even after the stream is exhausted.
type TreeReader struct {
	root    Node
	started bool
	done    bool
	frames  []tframe
	tok     jstream.TokenType
	val     any
	cur     Node
}

// tframe tracks the replay position inside one container or property.
type tframe struct {
	node Node
	idx  int
}

// NewTreeReader constructs a TreeReader that replays the tree rooted at n.
func NewTreeReader(n Node) *TreeReader { return &TreeReader{root: n} }

// Token returns the type of the current token.
func (r *TreeReader) Token() jstream.TokenType { return r.tok }

// Value returns the value of the current token.
func (r *TreeReader) Value() any { return r.val }

// Err returns nil.
func (r *TreeReader) Err() error { return nil }

// Node returns the tree node the current token was produced from.
func (r *TreeReader) Node() Node { return r.cur }

// Depth returns the number of open containers.
func (r *TreeReader) Depth() int {
	var n int
	for _, f := range r.frames {
		if _, ok := f.node.(*Property); !ok {
			n++
		}
	}
	return n
}

// Path returns the document path of the current token.
func (r *TreeReader) Path() string {
	if r.cur == nil {
		return ""
	}
	return r.cur.Path()
}

// Read advances to the next token of the stream.
func (r *TreeReader) Read() bool {
	if r.done {
		return false
	}
	if !r.started {
		r.started = true
		if r.root == nil {
			r.done = true
			return false
		}
		return r.emit(r.root)
	}
	for {
		if len(r.frames) == 0 {
			r.done = true
			return false
		}
		f := &r.frames[len(r.frames)-1]
		kids := children(f.node)
		if f.idx < len(kids) {
			n := kids[f.idx]
			f.idx++
			return r.emit(n)
		}
		top := f.node
		r.frames = r.frames[:len(r.frames)-1]
		r.cur = top
		switch t := top.(type) {
		case *Property:
			if t.value == nil {
				// An unfinished property replays with a null value.
				r.tok, r.val = jstream.Null, nil
				return true
			}
			continue
		case *Object:
			r.tok, r.val = jstream.EndObject, nil
		case *Array:
			r.tok, r.val = jstream.EndArray, nil
		case *Constructor:
			r.tok, r.val = jstream.EndConstructor, nil
		}
		return true
	}
}

// emit produces the opening token for n, entering it if it has children.
func (r *TreeReader) emit(n Node) bool {
	r.cur = n
	switch t := n.(type) {
	case *Object:
		r.tok, r.val = jstream.StartObject, nil
		r.frames = append(r.frames, tframe{node: t})
	case *Array:
		r.tok, r.val = jstream.StartArray, nil
		r.frames = append(r.frames, tframe{node: t})
	case *Constructor:
		r.tok, r.val = jstream.StartConstructor, t.name
		r.frames = append(r.frames, tframe{node: t})
	case *Property:
		r.tok, r.val = jstream.PropertyName, t.key
		r.frames = append(r.frames, tframe{node: t})
	case *Value:
		r.tok, r.val = kindToken[t.kind], t.val
	}
	return true
}
