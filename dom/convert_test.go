// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom_test

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/creachadair/jstream/dom"
	"github.com/modopayments/go-modo/v8/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversions(t *testing.T) {
	t.Parallel()

	when := time.Date(2000, 12, 15, 22, 11, 3, 0, time.UTC)
	id := uuid.FromStringOrNil("41008fec-6e03-41d0-ba8d-5f3fa07c7bfa")

	tests := []struct {
		node    dom.Node
		convert func(dom.Node) (any, error)
		want    any
	}{
		{dom.String("ok"), asAny(dom.AsString), "ok"},
		{dom.Int(-19), asAny(dom.AsString), "-19"},
		{dom.Bool(true), asAny(dom.AsString), "true"},
		{dom.Duration(90 * time.Second), asAny(dom.AsString), "1m30s"},

		{dom.Int(42), asAny(dom.AsInt), int64(42)},
		{dom.String("42"), asAny(dom.AsInt), int64(42)},
		{dom.Float(42), asAny(dom.AsInt), int64(42)},

		{dom.Float(1.5), asAny(dom.AsFloat), 1.5},
		{dom.Int(3), asAny(dom.AsFloat), 3.0},
		{dom.String("2.5"), asAny(dom.AsFloat), 2.5},

		{dom.Bool(true), asAny(dom.AsBool), true},
		{dom.String("false"), asAny(dom.AsBool), false},
		{dom.Int(1), asAny(dom.AsBool), true},
		{dom.Int(0), asAny(dom.AsBool), false},

		{dom.Date(when), asAny(dom.AsTime), when},
		{dom.String("2000-12-15T22:11:03Z"), asAny(dom.AsTime), when},

		{dom.Bytes([]byte("hi")), asAny(dom.AsBytes), []byte("hi")},
		{dom.String("aGVsbG8="), asAny(dom.AsBytes), []byte("hello")},

		{dom.GUID(id), asAny(dom.AsUUID), id},
		{dom.String(id.String()), asAny(dom.AsUUID), id},
		{dom.GUID(id), asAny(dom.AsString), id.String()},

		{dom.Duration(time.Minute), asAny(dom.AsDuration), time.Minute},
		{dom.String("1h"), asAny(dom.AsDuration), time.Hour},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d: %v", i, tt.want), func(t *testing.T) {
			got, err := tt.convert(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// asAny adapts a typed conversion to a uniform signature for the test table.
func asAny[T any](f func(dom.Node) (T, error)) func(dom.Node) (any, error) {
	return func(n dom.Node) (any, error) { return f(n) }
}

func TestConversionURL(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("https://example.com/x?q=1")
	require.NoError(t, err)

	got, err := dom.AsURL(dom.URI(u))
	require.NoError(t, err)
	assert.Equal(t, u, got)

	got, err = dom.AsURL(dom.String("https://example.com/x?q=1"))
	require.NoError(t, err)
	assert.Equal(t, u.String(), got.String())
}

func TestConversionErrors(t *testing.T) {
	t.Parallel()

	// Containers have no scalar conversion.
	_, err := dom.AsString(dom.NewArray())
	assert.Error(t, err)

	_, err = dom.AsInt(dom.String("pants"))
	assert.Error(t, err)

	_, err = dom.AsInt(dom.Float(2.5))
	assert.Error(t, err)

	_, err = dom.AsTime(dom.Bool(true))
	assert.Error(t, err)

	_, err = dom.AsUUID(dom.String("not-a-uuid"))
	assert.Error(t, err)

	// A property converts as its value.
	obj := dom.NewObject()
	obj.Set("n", dom.Int(7))
	got, err := dom.AsInt(obj.Find("n"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
}
