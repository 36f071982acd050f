// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom

import (
	"bytes"
	"math/big"
	"net/url"
	"time"

	"github.com/modopayments/go-modo/v8/uuid"
)

// DeepEqual reports whether a and b denote equal document values. Object
// properties compare without regard to order, integers compare numerically
// regardless of representation, and an integer-valued float compares equal
// to the integer it denotes. Comment nodes inside containers are ignored.
func DeepEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch ta := a.(type) {
	case *Object:
		tb, ok := b.(*Object)
		if !ok {
			return false
		}
		pa, pb := ta.Properties(), tb.Properties()
		if len(pa) != len(pb) {
			return false
		}
		for _, p := range pa {
			q := tb.Find(p.key)
			if q == nil || !DeepEqual(p.value, q.value) {
				return false
			}
		}
		return true

	case *Array:
		tb, ok := b.(*Array)
		if !ok {
			return false
		}
		return elementsEqual(ta.items, tb.items)

	case *Constructor:
		tb, ok := b.(*Constructor)
		if !ok {
			return false
		}
		return ta.name == tb.name && elementsEqual(ta.items, tb.items)

	case *Property:
		tb, ok := b.(*Property)
		if !ok {
			return false
		}
		return ta.key == tb.key && DeepEqual(ta.value, tb.value)

	case *Value:
		tb, ok := b.(*Value)
		if !ok {
			return false
		}
		return scalarEqual(ta, tb)
	}
	return false
}

// elementsEqual compares two child lists pairwise, skipping comment nodes.
func elementsEqual(as, bs []Node) bool {
	as, bs = dropComments(as), dropComments(bs)
	if len(as) != len(bs) {
		return false
	}
	for i, a := range as {
		if !DeepEqual(a, bs[i]) {
			return false
		}
	}
	return true
}

func dropComments(items []Node) []Node {
	var out []Node
	for _, it := range items {
		if it.Kind() != KindComment {
			out = append(out, it)
		}
	}
	return out
}

func scalarEqual(a, b *Value) bool {
	if eq, ok := numEqual(a.val, b.val); ok {
		return eq
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull, KindUndefined:
		return true
	case KindDate:
		return a.val.(time.Time).Equal(b.val.(time.Time))
	case KindBytes:
		return bytes.Equal(a.val.([]byte), b.val.([]byte))
	case KindGUID:
		return a.val.(uuid.UUID) == b.val.(uuid.UUID)
	case KindURI:
		return a.val.(*url.URL).String() == b.val.(*url.URL).String()
	}
	return a.val == b.val
}

// numEqual compares a and b numerically, reporting whether both are numbers.
func numEqual(a, b any) (eq, ok bool) {
	za, aok := toBig(a)
	zb, bok := toBig(b)
	if !aok || !bok {
		return false, false
	}
	return za.Cmp(zb) == 0, true
}

// toBig converts a numeric scalar value to an exact rational.
func toBig(v any) (*big.Rat, bool) {
	switch t := v.(type) {
	case int64:
		return new(big.Rat).SetInt64(t), true
	case *big.Int:
		return new(big.Rat).SetInt(t), true
	case float64:
		if r := new(big.Rat).SetFloat64(t); r != nil {
			return r, true
		}
	}
	return nil, false
}
