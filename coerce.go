// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/modopayments/go-modo/v8/uuid"
)

// ConversionError is reported when a token value cannot be converted to the
// requested target type.
type ConversionError struct {
	Token  TokenType // the type of the token being converted
	Target string    // the name of the requested target type
	Value  any       // the value that could not be converted
}

// Error satisfies the error interface.
func (c *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v value %v to %s", c.Token, c.Value, c.Target)
}

func convErr(tok TokenType, target string, val any) *ConversionError {
	return &ConversionError{Token: tok, Target: target, Value: val}
}

// CoerceString converts the value of a token to a string. Scalar tokens of
// every type are convertible; Null converts to "".
func CoerceString(tok TokenType, val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case *big.Int:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return FormatTime(v), nil
	case time.Duration:
		return v.String(), nil
	case []byte:
		return base64.StdEncoding.EncodeToString(v), nil
	case uuid.UUID:
		return v.String(), nil
	case *url.URL:
		return v.String(), nil
	case nil:
		if tok == Null || tok == Undefined {
			return "", nil
		}
	}
	return "", convErr(tok, "string", val)
}

// CoerceInt converts the value of a token to an int64. Integer, Float, and
// String tokens are convertible; a Float converts only when its value is
// integral, and any source value outside the range of int64 is an error.
func CoerceInt(tok TokenType, val any) (int64, error) {
	switch v := val.(type) {
	case int64:
		return v, nil
	case *big.Int:
		if v.IsInt64() {
			return v.Int64(), nil
		}
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), nil
		}
	case string:
		if z, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return z, nil
		}
	}
	return 0, convErr(tok, "int64", val)
}

// CoerceBigInt converts the value of a token to a *big.Int.
func CoerceBigInt(tok TokenType, val any) (*big.Int, error) {
	switch v := val.(type) {
	case int64:
		return big.NewInt(v), nil
	case *big.Int:
		return v, nil
	case float64:
		if v == math.Trunc(v) {
			z, _ := big.NewFloat(v).Int(nil)
			return z, nil
		}
	case string:
		if z, ok := new(big.Int).SetString(strings.TrimSpace(v), 10); ok {
			return z, nil
		}
	}
	return nil, convErr(tok, "big.Int", val)
}

// CoerceFloat converts the value of a token to a float64.
func CoerceFloat(tok TokenType, val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, nil
		}
	}
	return 0, convErr(tok, "float64", val)
}

// CoerceBool converts the value of a token to a bool. Boolean and String
// tokens are convertible; numeric tokens convert as zero or nonzero.
func CoerceBool(tok TokenType, val any) (bool, error) {
	switch v := val.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case *big.Int:
		return v.Sign() != 0, nil
	case float64:
		return v != 0, nil
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b, nil
		}
	}
	return false, convErr(tok, "bool", val)
}

// CoerceTime converts the value of a token to a time.Time. Date tokens and
// String tokens in ISO 8601 format are convertible.
func CoerceTime(tok TokenType, val any) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, err := ParseTime(v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, convErr(tok, "time.Time", val)
}

// CoerceBytes converts the value of a token to a byte slice. Bytes tokens
// and String tokens holding base64 text are convertible; Null converts to a
// nil slice.
func CoerceBytes(tok TokenType, val any) ([]byte, error) {
	switch v := val.(type) {
	case []byte:
		return v, nil
	case string:
		if dec, err := base64.StdEncoding.DecodeString(v); err == nil {
			return dec, nil
		}
	case nil:
		if tok == Null || tok == Undefined {
			return nil, nil
		}
	}
	return nil, convErr(tok, "bytes", val)
}

// CoerceUUID converts the value of a token to a UUID.
func CoerceUUID(tok TokenType, val any) (uuid.UUID, error) {
	switch v := val.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		if u, err := uuid.FromString(v); err == nil {
			return u, nil
		}
	}
	return uuid.UUID{}, convErr(tok, "uuid.UUID", val)
}

// CoerceURL converts the value of a token to a parsed URL.
func CoerceURL(tok TokenType, val any) (*url.URL, error) {
	switch v := val.(type) {
	case *url.URL:
		return v, nil
	case string:
		if u, err := url.Parse(v); err == nil {
			return u, nil
		}
	}
	return nil, convErr(tok, "url.URL", val)
}

// CoerceDuration converts the value of a token to a time.Duration. Duration
// values and String tokens in Go duration syntax are convertible.
func CoerceDuration(tok TokenType, val any) (time.Duration, error) {
	switch v := val.(type) {
	case time.Duration:
		return v, nil
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d, nil
		}
	}
	return 0, convErr(tok, "time.Duration", val)
}

// ParseTime parses an ISO 8601 timestamp: a date with an optional time,
// fractional seconds, and either a "Z" suffix or a numeric zone offset.
func ParseTime(s string) (time.Time, error) {
	rest, loc, err := splitZone(s)
	if err != nil {
		return time.Time{}, err
	}
	var nanos int
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		frac := rest[i+1:]
		if frac == "" || len(frac) > 9 {
			return time.Time{}, fmt.Errorf("invalid fractional seconds %q", frac)
		}
		n, err := strconv.Atoi(frac)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid fractional seconds %q", frac)
		}
		for d := len(frac); d < 9; d++ {
			n *= 10
		}
		nanos = n
		rest = rest[:i]
	}
	layout := "%Y-%m-%dT%H:%M:%S"
	if !strings.ContainsRune(rest, 'T') {
		layout = "%Y-%m-%d"
	}
	t, err := timefmt.Parse(rest, layout)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), nanos, loc), nil
}

// splitZone removes a trailing zone designator from a timestamp, returning
// the remainder and the designated location. A timestamp without a zone is
// interpreted as UTC.
func splitZone(s string) (string, *time.Location, error) {
	if rest, ok := strings.CutSuffix(s, "Z"); ok {
		return rest, time.UTC, nil
	}
	// A zone offset cannot occur before the end of the date part, whose own
	// dashes must not be mistaken for a negative offset.
	i := strings.LastIndexAny(s, "+-")
	if i < len("2006-01-02") {
		return s, time.UTC, nil
	}
	hhmm := strings.ReplaceAll(s[i+1:], ":", "")
	if len(hhmm) != 4 {
		return "", nil, fmt.Errorf("invalid zone offset %q", s[i:])
	}
	hh, err1 := strconv.Atoi(hhmm[:2])
	mm, err2 := strconv.Atoi(hhmm[2:])
	if err1 != nil || err2 != nil || hh > 23 || mm > 59 {
		return "", nil, fmt.Errorf("invalid zone offset %q", s[i:])
	}
	sec := (hh*60 + mm) * 60
	if s[i] == '-' {
		sec = -sec
	}
	return s[:i], time.FixedZone(s[i:], sec), nil
}

// errEndOfStream is reported by the typed read helpers when the underlying
// reader has no more tokens but did not itself report an error.
var errEndOfStream = errors.New("no more tokens")

// readValue advances r past any comment tokens to its next value token.
func readValue(r Reader) error {
	for r.Read() {
		if r.Token() != Comment {
			return nil
		}
	}
	if err := r.Err(); err != nil {
		return err
	}
	return errEndOfStream
}

// ReadString reads the next value token from r as a string.
func ReadString(r Reader) (string, error) {
	if err := readValue(r); err != nil {
		return "", err
	}
	return CoerceString(r.Token(), r.Value())
}

// ReadInt reads the next value token from r as an int64.
func ReadInt(r Reader) (int64, error) {
	if err := readValue(r); err != nil {
		return 0, err
	}
	return CoerceInt(r.Token(), r.Value())
}

// ReadInt32 reads the next value token from r as an int32.
func ReadInt32(r Reader) (int32, error) {
	v, err := ReadInt(r)
	if err != nil {
		return 0, err
	} else if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, convErr(r.Token(), "int32", r.Value())
	}
	return int32(v), nil
}

// ReadBigInt reads the next value token from r as a *big.Int.
func ReadBigInt(r Reader) (*big.Int, error) {
	if err := readValue(r); err != nil {
		return nil, err
	}
	return CoerceBigInt(r.Token(), r.Value())
}

// ReadFloat reads the next value token from r as a float64.
func ReadFloat(r Reader) (float64, error) {
	if err := readValue(r); err != nil {
		return 0, err
	}
	return CoerceFloat(r.Token(), r.Value())
}

// ReadBool reads the next value token from r as a bool.
func ReadBool(r Reader) (bool, error) {
	if err := readValue(r); err != nil {
		return false, err
	}
	return CoerceBool(r.Token(), r.Value())
}

// ReadTime reads the next value token from r as a time.Time.
func ReadTime(r Reader) (time.Time, error) {
	if err := readValue(r); err != nil {
		return time.Time{}, err
	}
	return CoerceTime(r.Token(), r.Value())
}

// ReadBytes reads the next value token from r as a byte slice.
func ReadBytes(r Reader) ([]byte, error) {
	if err := readValue(r); err != nil {
		return nil, err
	}
	return CoerceBytes(r.Token(), r.Value())
}

// ReadUUID reads the next value token from r as a UUID.
func ReadUUID(r Reader) (uuid.UUID, error) {
	if err := readValue(r); err != nil {
		return uuid.UUID{}, err
	}
	return CoerceUUID(r.Token(), r.Value())
}
