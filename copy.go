// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/modopayments/go-modo/v8/uuid"
)

// WriteToken writes a single token with its value to w. The value must have
// the dynamic type the token requires: a string for PropertyName, Comment,
// Raw, and StartConstructor; the corresponding scalar type for value tokens;
// and nil for the remaining structural tokens.
func WriteToken(w Writer, tok TokenType, val any) error {
	switch tok {
	case StartObject:
		return w.WriteStartObject()
	case EndObject:
		return w.WriteEndObject()
	case StartArray:
		return w.WriteStartArray()
	case EndArray:
		return w.WriteEndArray()
	case StartConstructor:
		name, ok := val.(string)
		if !ok {
			return fmt.Errorf("constructor name has type %T, not string", val)
		}
		return w.WriteStartConstructor(name)
	case EndConstructor:
		return w.WriteEndConstructor()
	case PropertyName:
		name, ok := val.(string)
		if !ok {
			return fmt.Errorf("property name has type %T, not string", val)
		}
		return w.WritePropertyName(name)
	case Comment:
		text, ok := val.(string)
		if !ok {
			return fmt.Errorf("comment has type %T, not string", val)
		}
		return w.WriteComment(text)
	case Raw:
		text, ok := val.(string)
		if !ok {
			return fmt.Errorf("raw token has type %T, not string", val)
		}
		return w.WriteRawValue(text)
	case Null:
		return w.WriteNull()
	case Undefined:
		return w.WriteUndefined()
	case Integer:
		switch v := val.(type) {
		case int64:
			return w.WriteInt(v)
		case *big.Int:
			return w.WriteBigInt(v)
		}
		return fmt.Errorf("integer token has type %T", val)
	case Float:
		f, ok := val.(float64)
		if !ok {
			return fmt.Errorf("float token has type %T", val)
		}
		return w.WriteFloat(f)
	case String:
		switch v := val.(type) {
		case string:
			return w.WriteString(v)
		case uuid.UUID, *url.URL, time.Duration:
			return w.WriteValue(v)
		}
		return fmt.Errorf("string token has type %T", val)
	case Boolean:
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("boolean token has type %T", val)
		}
		return w.WriteBool(b)
	case Date:
		t, ok := val.(time.Time)
		if !ok {
			return fmt.Errorf("date token has type %T", val)
		}
		return w.WriteTime(t)
	case Bytes:
		data, ok := val.([]byte)
		if !ok {
			return fmt.Errorf("bytes token has type %T", val)
		}
		return w.WriteBytes(data)
	}
	return fmt.Errorf("invalid token %v", tok)
}

// Copy streams all remaining tokens of src to dst. It returns the first
// write error, or the error that stopped src.
func Copy(dst Writer, src Reader) error {
	for src.Read() {
		if err := WriteToken(dst, src.Token(), src.Value()); err != nil {
			return err
		}
	}
	return src.Err()
}
