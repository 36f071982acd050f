// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/creachadair/jstream"
	"github.com/modopayments/go-modo/v8/uuid"
)

// A Builder implements [jstream.Writer] by materializing the written tokens
// as a document tree. Writing a property name that already exists in the
// open object replaces that property's value in place, keeping its original
// position. Call Result to retrieve the finished tree.
type Builder struct {
	m     jstream.Machine
	stack []Node
	prop  *Property // property awaiting its value, if any
	root  Node
	last  Node // most recently materialized node
	err   error
}

// NewBuilder constructs a new empty Builder.
func NewBuilder() *Builder { return new(Builder) }

// Result returns the root of the built tree. It returns an error if a write
// has failed, or if no value has been written.
func (b *Builder) Result() (Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.root == nil {
		return nil, errors.New("no value has been written")
	}
	return b.root, nil
}

// State returns the current write state.
func (b *Builder) State() jstream.WriteState { return b.m.State() }

// Depth returns the number of open containers.
func (b *Builder) Depth() int { return b.m.Depth() }

// Path returns the document path of the last token written.
func (b *Builder) Path() string { return b.m.Path() }

func (b *Builder) setErr(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

// place attaches n at the current write position: as the value of a pending
// property, as an element of the open container, or as the root.
func (b *Builder) place(n Node) {
	b.last = n
	if b.prop != nil {
		b.prop.SetValue(n)
		b.prop = nil
		return
	}
	if len(b.stack) > 0 {
		switch t := b.stack[len(b.stack)-1].(type) {
		case *Array:
			t.Append(n)
		case *Constructor:
			t.Append(n)
		case *Object:
			t.append(n) // comments only; members attach via prop
		}
		return
	}
	if b.root == nil {
		b.root = n
	}
}

func (b *Builder) begin(c jstream.ContainerType, n Node) error {
	if b.err != nil {
		return b.err
	}
	if err := b.m.Begin(c); err != nil {
		return b.setErr(err)
	}
	b.place(n)
	b.stack = append(b.stack, n)
	return nil
}

// WriteStartObject opens a new object.
func (b *Builder) WriteStartObject() error {
	return b.begin(jstream.ObjectContainer, NewObject())
}

// WriteStartArray opens a new array.
func (b *Builder) WriteStartArray() error {
	return b.begin(jstream.ArrayContainer, NewArray())
}

// WriteStartConstructor opens a new constructor with the given name.
func (b *Builder) WriteStartConstructor(name string) error {
	return b.begin(jstream.ConstructorContainer, NewConstructor(name))
}

func (b *Builder) end(want jstream.ContainerType) error {
	if b.err != nil {
		return b.err
	}
	if b.m.State() == jstream.StateProperty {
		if err := b.WriteNull(); err != nil {
			return err
		}
	}
	if _, err := b.m.End(want); err != nil {
		return b.setErr(err)
	}
	b.stack = b.stack[:len(b.stack)-1]
	// The closed container keeps the location of its opening token.
	b.last = nil
	return nil
}

// WriteEndObject closes the innermost container, which must be an object.
func (b *Builder) WriteEndObject() error { return b.end(jstream.ObjectContainer) }

// WriteEndArray closes the innermost container, which must be an array.
func (b *Builder) WriteEndArray() error { return b.end(jstream.ArrayContainer) }

// WriteEndConstructor closes the innermost container, which must be a
// constructor.
func (b *Builder) WriteEndConstructor() error { return b.end(jstream.ConstructorContainer) }

// WriteEnd closes the innermost open container of any kind.
func (b *Builder) WriteEnd() error { return b.end(jstream.NoContainer) }

// WritePropertyName begins a property with the given name in the open
// object. If the object already has a property with that name, its value is
// replaced in place by the value written next.
func (b *Builder) WritePropertyName(name string) error {
	if b.err != nil {
		return b.err
	}
	if err := b.m.Property(name); err != nil {
		return b.setErr(err)
	}
	obj := b.stack[len(b.stack)-1].(*Object)
	p := obj.Find(name)
	if p == nil {
		p = NewProperty(name, nil)
		obj.append(p)
	}
	b.prop = p
	b.last = p
	return nil
}

func (b *Builder) scalar(kind jstream.TokenType, n *Value) error {
	if b.err != nil {
		return b.err
	}
	if err := b.m.Value(kind); err != nil {
		return b.setErr(err)
	}
	b.place(n)
	return nil
}

// WriteString writes a string value.
func (b *Builder) WriteString(s string) error { return b.scalar(jstream.String, String(s)) }

// WriteInt writes an integer value.
func (b *Builder) WriteInt(v int64) error { return b.scalar(jstream.Integer, Int(v)) }

// WriteBigInt writes an integer value of arbitrary size.
// A nil value is written as null.
func (b *Builder) WriteBigInt(v *big.Int) error {
	if v == nil {
		return b.WriteNull()
	}
	return b.scalar(jstream.Integer, BigInt(v))
}

// WriteFloat writes a floating-point value.
func (b *Builder) WriteFloat(v float64) error { return b.scalar(jstream.Float, Float(v)) }

// WriteBool writes a Boolean value.
func (b *Builder) WriteBool(v bool) error { return b.scalar(jstream.Boolean, Bool(v)) }

// WriteNull writes a null value.
func (b *Builder) WriteNull() error { return b.scalar(jstream.Null, Null()) }

// WriteUndefined writes an undefined value.
func (b *Builder) WriteUndefined() error { return b.scalar(jstream.Undefined, Undefined()) }

// WriteTime writes a date value.
func (b *Builder) WriteTime(t time.Time) error { return b.scalar(jstream.Date, Date(t)) }

// WriteBytes writes a byte string value. A nil slice is written as null.
func (b *Builder) WriteBytes(data []byte) error {
	if data == nil {
		return b.WriteNull()
	}
	return b.scalar(jstream.Bytes, Bytes(data))
}

// WriteValue writes the scalar value v, choosing the node kind from its
// dynamic type. Unlike a text writer, the builder preserves GUID, URI, and
// duration values as typed nodes.
func (b *Builder) WriteValue(v any) error {
	switch t := v.(type) {
	case nil:
		return b.WriteNull()
	case bool:
		return b.WriteBool(t)
	case string:
		return b.WriteString(t)
	case int:
		return b.WriteInt(int64(t))
	case int8:
		return b.WriteInt(int64(t))
	case int16:
		return b.WriteInt(int64(t))
	case int32:
		return b.WriteInt(int64(t))
	case int64:
		return b.WriteInt(t)
	case uint8:
		return b.WriteInt(int64(t))
	case uint16:
		return b.WriteInt(int64(t))
	case uint32:
		return b.WriteInt(int64(t))
	case uint:
		return b.WriteBigInt(new(big.Int).SetUint64(uint64(t)))
	case uint64:
		return b.WriteBigInt(new(big.Int).SetUint64(t))
	case *big.Int:
		return b.WriteBigInt(t)
	case float32:
		return b.WriteFloat(float64(t))
	case float64:
		return b.WriteFloat(t)
	case time.Time:
		return b.WriteTime(t)
	case time.Duration:
		return b.scalar(jstream.String, Duration(t))
	case []byte:
		return b.WriteBytes(t)
	case uuid.UUID:
		return b.scalar(jstream.String, GUID(t))
	case *url.URL:
		return b.scalar(jstream.String, URI(t))
	}
	return b.setErr(fmt.Errorf("unsupported value type %T", v))
}

// WriteComment attaches a comment to the innermost open container. At the
// top level of a document the comment is checked and discarded.
func (b *Builder) WriteComment(text string) error {
	if b.err != nil {
		return b.err
	}
	if err := b.m.Comment(); err != nil {
		return b.setErr(err)
	}
	if len(b.stack) == 0 {
		b.last = nil
		return nil
	}
	n := Comment(text)
	switch t := b.stack[len(b.stack)-1].(type) {
	case *Object:
		t.append(n)
	case *Array:
		t.Append(n)
	case *Constructor:
		t.Append(n)
	}
	b.last = n
	return nil
}

// WriteRaw is a no-op for a builder, which has no text output.
func (b *Builder) WriteRaw(text string) error { return b.err }

// WriteRawValue writes text as a raw value node.
func (b *Builder) WriteRawValue(text string) error { return b.scalar(jstream.Raw, Raw(text)) }

// Close finishes the tree, closing any open containers and completing a
// dangling property with null.
func (b *Builder) Close() error {
	if b.err != nil {
		return b.err
	}
	if b.m.State() == jstream.StateClosed {
		return nil
	}
	for b.m.Depth() > 0 {
		if err := b.WriteEnd(); err != nil {
			return err
		}
	}
	b.m.Close()
	return nil
}
