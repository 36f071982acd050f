// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom

import "fmt"

// An Object is a collection of key-value properties. The order of properties
// is preserved, and an object parsed with comments enabled may also carry
// comment nodes among its children.
type Object struct {
	node
	items []Node
}

// NewObject constructs an empty object node.
func NewObject() *Object { return new(Object) }

func (o *Object) Kind() Kind   { return KindObject }
func (o *Object) Next() Node   { return next(o) }
func (o *Object) Prev() Node   { return prev(o) }
func (o *Object) Path() string { return nodePath(o) }

// Len reports the number of child nodes of o, including comments.
func (o *Object) Len() int { return len(o.items) }

// Properties returns the properties of o in document order.
func (o *Object) Properties() []*Property {
	var out []*Property
	for _, it := range o.items {
		if p, ok := it.(*Property); ok {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the first property of o with the given key, or nil.
func (o *Object) Find(key string) *Property {
	for _, it := range o.items {
		if p, ok := it.(*Property); ok && p.key == key {
			return p
		}
	}
	return nil
}

// Value returns the value of the first property of o with the given key, or
// nil if no such property exists.
func (o *Object) Value(key string) Node {
	if p := o.Find(key); p != nil {
		return p.value
	}
	return nil
}

// Set updates the property of o with the given key to value, keeping the
// property at its existing position, or appends a new property if the key is
// not present. It returns the affected property.
func (o *Object) Set(key string, value Node) *Property {
	if p := o.Find(key); p != nil {
		p.SetValue(value)
		return p
	}
	p := NewProperty(key, value)
	o.append(p)
	return p
}

// Delete removes the first property of o with the given key, and reports
// whether a property was removed.
func (o *Object) Delete(key string) bool {
	p := o.Find(key)
	if p == nil {
		return false
	}
	o.remove(p)
	return true
}

// Clone returns a deep copy of o, detached from any tree.
func (o *Object) Clone() Node {
	cp := &Object{node: node{loc: o.loc}}
	for _, it := range o.items {
		cp.append(it.Clone())
	}
	return cp
}

func (o *Object) append(n Node) { attach(o, n); o.items = append(o.items, n) }

func (o *Object) remove(n Node) {
	if i := indexOf(o, n); i >= 0 {
		o.items = append(o.items[:i], o.items[i+1:]...)
		detach(n)
	}
}

// A Property is a single key-value pair belonging to an Object.
type Property struct {
	node
	key   string
	value Node
}

// NewProperty constructs a property with the given key and value. A nil
// value stands for a property whose value has not been written yet.
func NewProperty(key string, value Node) *Property {
	p := &Property{key: key}
	if value != nil {
		attach(p, value)
		p.value = value
	}
	return p
}

func (p *Property) Kind() Kind   { return KindProperty }
func (p *Property) Next() Node   { return next(p) }
func (p *Property) Prev() Node   { return prev(p) }
func (p *Property) Path() string { return nodePath(p) }

// Key returns the key of the property.
func (p *Property) Key() string { return p.key }

// Value returns the value of the property, or nil.
func (p *Property) Value() Node { return p.value }

// SetValue replaces the value of the property, detaching any previous value.
func (p *Property) SetValue(value Node) {
	if p.value != nil {
		detach(p.value)
	}
	attach(p, value)
	p.value = value
}

// Clone returns a deep copy of p, detached from any tree.
func (p *Property) Clone() Node {
	cp := &Property{node: node{loc: p.loc}, key: p.key}
	if p.value != nil {
		cp.SetValue(p.value.Clone())
	}
	return cp
}

// An Array is an ordered sequence of values.
type Array struct {
	node
	items []Node
}

// NewArray constructs an array node with the given values.
func NewArray(values ...Node) *Array {
	a := new(Array)
	a.Append(values...)
	return a
}

func (a *Array) Kind() Kind   { return KindArray }
func (a *Array) Next() Node   { return next(a) }
func (a *Array) Prev() Node   { return prev(a) }
func (a *Array) Path() string { return nodePath(a) }

// Len reports the number of elements of a.
func (a *Array) Len() int { return len(a.items) }

// At returns the element of a at index i. It panics if i is out of range.
func (a *Array) At(i int) Node { return a.items[i] }

// Values returns the elements of a in order. The slice is shared with a and
// must not be modified directly.
func (a *Array) Values() []Node { return a.items }

// Append appends the given values to a.
func (a *Array) Append(values ...Node) {
	for _, v := range values {
		attach(a, v)
		a.items = append(a.items, v)
	}
}

// Insert inserts v at index i, shifting later elements forward. It panics if
// i is out of range; i == a.Len() appends.
func (a *Array) Insert(i int, v Node) {
	if i < 0 || i > len(a.items) {
		panic(fmt.Sprintf("index %d out of range 0..%d", i, len(a.items)))
	}
	attach(a, v)
	a.items = append(a.items, nil)
	copy(a.items[i+1:], a.items[i:])
	a.items[i] = v
}

// RemoveAt removes and returns the element at index i, shifting later
// elements back. It panics if i is out of range.
func (a *Array) RemoveAt(i int) Node {
	out := a.items[i]
	a.items = append(a.items[:i], a.items[i+1:]...)
	detach(out)
	return out
}

// Clone returns a deep copy of a, detached from any tree.
func (a *Array) Clone() Node {
	cp := &Array{node: node{loc: a.loc}}
	for _, it := range a.items {
		cp.Append(it.Clone())
	}
	return cp
}

// A Constructor is a named sequence of argument values, written in source as
// "new Name(args)".
type Constructor struct {
	node
	name  string
	items []Node
}

// NewConstructor constructs a constructor node with the given name and
// argument values.
func NewConstructor(name string, values ...Node) *Constructor {
	c := &Constructor{name: name}
	c.Append(values...)
	return c
}

func (c *Constructor) Kind() Kind   { return KindConstructor }
func (c *Constructor) Next() Node   { return next(c) }
func (c *Constructor) Prev() Node   { return prev(c) }
func (c *Constructor) Path() string { return nodePath(c) }

// Name returns the constructor name.
func (c *Constructor) Name() string { return c.name }

// Len reports the number of arguments of c.
func (c *Constructor) Len() int { return len(c.items) }

// At returns the argument of c at index i. It panics if i is out of range.
func (c *Constructor) At(i int) Node { return c.items[i] }

// Values returns the arguments of c in order. The slice is shared with c and
// must not be modified directly.
func (c *Constructor) Values() []Node { return c.items }

// Append appends the given argument values to c.
func (c *Constructor) Append(values ...Node) {
	for _, v := range values {
		attach(c, v)
		c.items = append(c.items, v)
	}
}

// Clone returns a deep copy of c, detached from any tree.
func (c *Constructor) Clone() Node {
	cp := &Constructor{node: node{loc: c.loc}, name: c.name}
	for _, it := range c.items {
		cp.Append(it.Clone())
	}
	return cp
}
