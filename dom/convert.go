// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom

import (
	"fmt"
	"math"
	"math/big"
	"net/url"
	"time"

	"github.com/creachadair/jstream"
	"github.com/modopayments/go-modo/v8/uuid"
)

// kindToken maps scalar node kinds to their stream token types. Typed
// string forms surface as String tokens carrying their native values.
var kindToken = map[Kind]jstream.TokenType{
	KindString:    jstream.String,
	KindGUID:      jstream.String,
	KindURI:       jstream.String,
	KindDuration:  jstream.String,
	KindInteger:   jstream.Integer,
	KindFloat:     jstream.Float,
	KindBoolean:   jstream.Boolean,
	KindNull:      jstream.Null,
	KindUndefined: jstream.Undefined,
	KindDate:      jstream.Date,
	KindBytes:     jstream.Bytes,
	KindRaw:       jstream.Raw,
	KindComment:   jstream.Comment,
}

// scalarOf resolves n to a scalar token and value for conversion. A
// property resolves to its value.
func scalarOf(n Node) (jstream.TokenType, any, error) {
	if p, ok := n.(*Property); ok && p.value != nil {
		n = p.value
	}
	v, ok := n.(*Value)
	if !ok {
		return jstream.None, nil, fmt.Errorf("cannot convert a %v node to a scalar", n.Kind())
	}
	return kindToken[v.kind], v.val, nil
}

// AsString converts the value of n to a string.
func AsString(n Node) (string, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return "", err
	}
	return jstream.CoerceString(tok, val)
}

// AsInt converts the value of n to an int64.
func AsInt(n Node) (int64, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return 0, err
	}
	return jstream.CoerceInt(tok, val)
}

// AsInt32 converts the value of n to an int32.
func AsInt32(n Node) (int32, error) {
	v, err := AsInt(n)
	if err != nil {
		return 0, err
	} else if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("value %d out of range for int32", v)
	}
	return int32(v), nil
}

// AsBigInt converts the value of n to a *big.Int.
func AsBigInt(n Node) (*big.Int, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return nil, err
	}
	return jstream.CoerceBigInt(tok, val)
}

// AsFloat converts the value of n to a float64.
func AsFloat(n Node) (float64, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return 0, err
	}
	return jstream.CoerceFloat(tok, val)
}

// AsBool converts the value of n to a bool.
func AsBool(n Node) (bool, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return false, err
	}
	return jstream.CoerceBool(tok, val)
}

// AsTime converts the value of n to a time.Time.
func AsTime(n Node) (time.Time, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return time.Time{}, err
	}
	return jstream.CoerceTime(tok, val)
}

// AsBytes converts the value of n to a byte slice.
func AsBytes(n Node) ([]byte, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return nil, err
	}
	return jstream.CoerceBytes(tok, val)
}

// AsUUID converts the value of n to a UUID.
func AsUUID(n Node) (uuid.UUID, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return uuid.UUID{}, err
	}
	return jstream.CoerceUUID(tok, val)
}

// AsURL converts the value of n to a parsed URL.
func AsURL(n Node) (*url.URL, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return nil, err
	}
	return jstream.CoerceURL(tok, val)
}

// AsDuration converts the value of n to a time.Duration.
func AsDuration(n Node) (time.Duration, error) {
	tok, val, err := scalarOf(n)
	if err != nil {
		return 0, err
	}
	return jstream.CoerceDuration(tok, val)
}
