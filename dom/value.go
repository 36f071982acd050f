// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom

import (
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/modopayments/go-modo/v8/uuid"
)

// A Value is a scalar node: a string, number, Boolean, date, byte string,
// null, undefined, raw fragment, or comment.
type Value struct {
	node
	kind Kind
	val  any
}

func (v *Value) Kind() Kind   { return v.kind }
func (v *Value) Next() Node   { return next(v) }
func (v *Value) Prev() Node   { return prev(v) }
func (v *Value) Path() string { return nodePath(v) }

// Value returns the underlying Go value of v: a string, int64, *big.Int,
// float64, bool, time.Time, []byte, uuid.UUID, *url.URL, time.Duration, or
// nil for null and undefined.
func (v *Value) Value() any { return v.val }

// Clone returns a copy of v, detached from any tree.
func (v *Value) Clone() Node {
	cp := &Value{node: node{loc: v.loc}, kind: v.kind, val: v.val}
	if b, ok := v.val.([]byte); ok {
		nb := make([]byte, len(b))
		copy(nb, b)
		cp.val = nb
	}
	return cp
}

func scalar(kind Kind, val any) *Value { return &Value{kind: kind, val: val} }

// String constructs a string value node.
func String(s string) *Value { return scalar(KindString, s) }

// Int constructs an integer value node.
func Int(z int64) *Value { return scalar(KindInteger, z) }

// BigInt constructs an integer value node from z. Values that fit in an
// int64 are stored as int64.
func BigInt(z *big.Int) *Value {
	if z.IsInt64() {
		return Int(z.Int64())
	}
	return scalar(KindInteger, z)
}

// Float constructs a floating-point value node.
func Float(f float64) *Value { return scalar(KindFloat, f) }

// Bool constructs a Boolean value node.
func Bool(b bool) *Value { return scalar(KindBoolean, b) }

// Null constructs a null value node.
func Null() *Value { return scalar(KindNull, nil) }

// Undefined constructs an undefined value node.
func Undefined() *Value { return scalar(KindUndefined, nil) }

// Date constructs a date value node.
func Date(t time.Time) *Value { return scalar(KindDate, t) }

// Bytes constructs a byte string value node.
func Bytes(data []byte) *Value { return scalar(KindBytes, data) }

// GUID constructs a GUID value node.
func GUID(u uuid.UUID) *Value { return scalar(KindGUID, u) }

// URI constructs a URI value node.
func URI(u *url.URL) *Value { return scalar(KindURI, u) }

// Duration constructs a duration value node.
func Duration(d time.Duration) *Value { return scalar(KindDuration, d) }

// Raw constructs a raw value node whose text is emitted verbatim.
func Raw(text string) *Value { return scalar(KindRaw, text) }

// Comment constructs a comment node with the given text.
func Comment(text string) *Value { return scalar(KindComment, text) }

// ToValue converts a plain Go value into a document node. A Node argument is
// returned unchanged. ToValue panics if the argument is not a Node and does
// not have one of the supported scalar types.
func ToValue(v any) Node {
	switch t := v.(type) {
	case Node:
		return t
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return BigInt(new(big.Int).SetUint64(uint64(t)))
	case uint64:
		return BigInt(new(big.Int).SetUint64(t))
	case *big.Int:
		return BigInt(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case time.Time:
		return Date(t)
	case time.Duration:
		return Duration(t)
	case []byte:
		return Bytes(t)
	case uuid.UUID:
		return GUID(t)
	case *url.URL:
		return URI(t)
	}
	panic(fmt.Sprintf("cannot convert %T to a value node", v))
}
