// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/modopayments/go-modo/v8/uuid"
)

// A Writer consumes a sequence of token-level write calls. Implementations
// must enforce the write-state rules: every call either records a legal token
// or reports an error and leaves the writer unusable except for Close.
//
// The package provides [TextWriter], which renders tokens as JSON text; the
// dom package provides a writer that materializes tokens as a document tree.
type Writer interface {
	WriteStartObject() error
	WriteEndObject() error
	WriteStartArray() error
	WriteEndArray() error
	WriteStartConstructor(name string) error
	WriteEndConstructor() error

	// WriteEnd closes the innermost open container, completing a dangling
	// property with a null value first if necessary.
	WriteEnd() error

	WritePropertyName(name string) error

	WriteString(s string) error
	WriteInt(v int64) error
	WriteBigInt(v *big.Int) error
	WriteFloat(v float64) error
	WriteBool(v bool) error
	WriteNull() error
	WriteUndefined() error
	WriteTime(t time.Time) error
	WriteBytes(data []byte) error

	// WriteValue writes the scalar value v, choosing the token kind from its
	// dynamic type. It accepts nil, bool, string, signed and unsigned
	// integers, floats, *big.Int, time.Time, time.Duration, []byte,
	// uuid.UUID, and *url.URL.
	WriteValue(v any) error

	WriteComment(text string) error

	// WriteRaw writes text verbatim without a state transition.
	WriteRaw(text string) error

	// WriteRawValue writes text verbatim as a value: the write-state advances
	// as if a scalar had been written.
	WriteRawValue(text string) error

	// Close finishes the document. When auto-completion is enabled (the
	// default) all open containers are closed, innermost first, with a null
	// emitted for any dangling property.
	Close() error
}

// A TextWriter emits well-formed JSON text incrementally. The zero
// configuration produces compact output; use SetIndent for indented output.
// A TextWriter is not safe for concurrent use.
type TextWriter struct {
	w      *bufio.Writer
	m      Machine
	indent string // "" for compact output
	auto   bool   // auto-complete open scopes on Close
	err    error  // sticky
}

// NewTextWriter constructs a TextWriter that emits text to w.
func NewTextWriter(w io.Writer) *TextWriter {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &TextWriter{w: bw, auto: true}
}

// SetIndent configures indented output using one copy of s per nesting level.
// An empty s selects compact output, the default.
func (w *TextWriter) SetIndent(s string) { w.indent = s }

// SetAutoClose configures whether Close completes any open containers
// automatically (the default) or reports an error when containers remain
// open.
func (w *TextWriter) SetAutoClose(ok bool) { w.auto = ok }

// SetMultipleValues configures whether the writer permits more than one
// top-level value in the output stream. Top-level values are separated by
// newlines. The default is a single value.
func (w *TextWriter) SetMultipleValues(ok bool) { w.m.AllowMultipleValues(ok) }

// State returns the current write state.
func (w *TextWriter) State() WriteState { return w.m.State() }

// Depth returns the number of currently open containers.
func (w *TextWriter) Depth() int { return w.m.Depth() }

// Path returns the document path of the most recently written token.
func (w *TextWriter) Path() string { return w.m.Path() }

// Flush writes any buffered output to the underlying stream.
func (w *TextWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.setErr(w.w.Flush())
}

func (w *TextWriter) setErr(err error) error {
	if err != nil && w.err == nil {
		w.err = err
	}
	return err
}

// emit realizes the pre-token actions for the current formatting mode.
func (w *TextWriter) emit(act action) {
	if act&actDelim != 0 {
		w.w.WriteByte(',')
	}
	if w.indent == "" {
		return
	}
	if act&actIndent != 0 {
		w.w.WriteByte('\n')
		for i := 0; i < w.m.Depth(); i++ {
			w.w.WriteString(w.indent)
		}
	}
	if act&actKeySpace != 0 {
		w.w.WriteByte(' ')
	}
}

// sepTop writes the separator between top-level values.
func (w *TextWriter) sepTop() {
	if w.m.State() == StateStart && w.m.Depth() == 0 && w.m.TopValues() > 0 {
		w.w.WriteByte('\n')
	}
}

func (w *TextWriter) begin(c ContainerType, text string) error {
	if w.err != nil {
		return w.err
	}
	w.sepTop()
	act := preActions(w.m.State(), clsBeginObject) // same actions for all begin classes
	if err := w.m.Begin(c); err != nil {
		return w.setErr(err)
	}
	// The new scope is already on the stack, so the opening bracket indents
	// to the parent's depth.
	if act&actDelim != 0 {
		w.w.WriteByte(',')
	}
	if w.indent != "" {
		if act&actIndent != 0 {
			w.w.WriteByte('\n')
			for i := 0; i < w.m.Depth()-1; i++ {
				w.w.WriteString(w.indent)
			}
		}
		if act&actKeySpace != 0 {
			w.w.WriteByte(' ')
		}
	}
	w.w.WriteString(text)
	return w.err
}

// WriteStartObject begins a new object scope.
func (w *TextWriter) WriteStartObject() error { return w.begin(ObjectContainer, "{") }

// WriteStartArray begins a new array scope.
func (w *TextWriter) WriteStartArray() error { return w.begin(ArrayContainer, "[") }

// WriteStartConstructor begins a new constructor scope with the given name,
// emitting the non-standard "new Name(" form.
func (w *TextWriter) WriteStartConstructor(name string) error {
	return w.begin(ConstructorContainer, "new "+name+"(")
}

func (w *TextWriter) end(want ContainerType) error {
	if w.err != nil {
		return w.err
	}
	// Complete a dangling property before closing its object.
	if w.m.State() == StateProperty {
		if err := w.WriteNull(); err != nil {
			return err
		}
	}
	act := closeActions(w.m.State())
	closed, err := w.m.End(want)
	if err != nil {
		return w.setErr(err)
	}
	if act&actIndent != 0 && w.indent != "" {
		w.w.WriteByte('\n')
		for i := 0; i < w.m.Depth(); i++ {
			w.w.WriteString(w.indent)
		}
	}
	switch closed {
	case ObjectContainer:
		w.w.WriteByte('}')
	case ArrayContainer:
		w.w.WriteByte(']')
	case ConstructorContainer:
		w.w.WriteByte(')')
	}
	return w.err
}

// WriteEndObject closes the innermost scope, which must be an object.
func (w *TextWriter) WriteEndObject() error { return w.end(ObjectContainer) }

// WriteEndArray closes the innermost scope, which must be an array.
func (w *TextWriter) WriteEndArray() error { return w.end(ArrayContainer) }

// WriteEndConstructor closes the innermost scope, which must be a constructor.
func (w *TextWriter) WriteEndConstructor() error { return w.end(ConstructorContainer) }

// WriteEnd closes the innermost open container of any kind.
func (w *TextWriter) WriteEnd() error { return w.end(NoContainer) }

// WritePropertyName writes the key of an object member.
func (w *TextWriter) WritePropertyName(name string) error {
	if w.err != nil {
		return w.err
	}
	act := preActions(w.m.State(), clsProperty)
	if err := w.m.Property(name); err != nil {
		return w.setErr(err)
	}
	w.emit(act)
	w.w.Write(quoteAppend(nil, name))
	w.w.WriteByte(':')
	return w.err
}

// value performs the common bookkeeping for a scalar token of the given kind,
// then calls emit to render its text.
func (w *TextWriter) value(kind TokenType, emit func()) error {
	if w.err != nil {
		return w.err
	}
	w.sepTop()
	act := preActions(w.m.State(), clsValue)
	if err := w.m.Value(kind); err != nil {
		return w.setErr(err)
	}
	w.emit(act)
	emit()
	return w.err
}

// WriteString writes a quoted string value.
func (w *TextWriter) WriteString(s string) error {
	return w.value(String, func() { w.w.Write(quoteAppend(nil, s)) })
}

// WriteInt writes an integer value.
func (w *TextWriter) WriteInt(v int64) error {
	return w.value(Integer, func() { w.w.WriteString(strconv.FormatInt(v, 10)) })
}

// WriteBigInt writes an arbitrary-precision integer as a bare numeric
// literal. A nil value writes null.
func (w *TextWriter) WriteBigInt(v *big.Int) error {
	if v == nil {
		return w.WriteNull()
	}
	return w.value(Integer, func() { w.w.Write(v.Append(nil, 10)) })
}

// WriteFloat writes a floating-point value. NaN is written as null and
// infinities are clamped to the largest finite value, so the output is always
// valid JSON.
func (w *TextWriter) WriteFloat(v float64) error {
	return w.value(Float, func() { w.w.Write(appendFloat(nil, v)) })
}

// WriteBool writes true or false.
func (w *TextWriter) WriteBool(v bool) error {
	return w.value(Boolean, func() { w.w.WriteString(strconv.FormatBool(v)) })
}

// WriteNull writes the null constant.
func (w *TextWriter) WriteNull() error {
	return w.value(Null, func() { w.w.WriteString("null") })
}

// WriteUndefined writes the non-standard undefined constant.
func (w *TextWriter) WriteUndefined() error {
	return w.value(Undefined, func() { w.w.WriteString("undefined") })
}

// WriteTime writes a date-time value as a quoted ISO 8601 string. Times in
// UTC carry a "Z" suffix; all other times carry their explicit ±hh:mm offset.
func (w *TextWriter) WriteTime(t time.Time) error {
	return w.value(Date, func() {
		w.w.WriteByte('"')
		w.w.WriteString(FormatTime(t))
		w.w.WriteByte('"')
	})
}

// WriteBytes writes binary data as a quoted base64 string. A nil slice
// writes null.
func (w *TextWriter) WriteBytes(data []byte) error {
	if data == nil {
		return w.WriteNull()
	}
	return w.value(Bytes, func() {
		w.w.WriteByte('"')
		w.w.WriteString(base64.StdEncoding.EncodeToString(data))
		w.w.WriteByte('"')
	})
}

// WriteComment writes a block comment. The text must not contain the closing
// "*/" marker.
func (w *TextWriter) WriteComment(text string) error {
	if w.err != nil {
		return w.err
	}
	if strings.Contains(text, "*/") {
		return fmt.Errorf("comment text may not contain %q", "*/")
	}
	act := preActions(w.m.State(), clsComment)
	if err := w.m.Comment(); err != nil {
		return w.setErr(err)
	}
	w.emit(act)
	w.w.WriteString("/*")
	w.w.WriteString(text)
	w.w.WriteString("*/")
	return w.err
}

// WriteRaw writes text to the output verbatim. No delimiters are added and
// the write state does not change; the caller is responsible for the
// well-formedness of the result.
func (w *TextWriter) WriteRaw(text string) error {
	if w.err != nil {
		return w.err
	}
	w.w.WriteString(text)
	return w.err
}

// WriteRawValue writes text verbatim in a value position: delimiters and
// indentation are emitted and the write state advances as for a value.
func (w *TextWriter) WriteRawValue(text string) error {
	return w.value(Raw, func() { w.w.WriteString(text) })
}

// WriteValue writes a scalar chosen by the dynamic type of v.
func (w *TextWriter) WriteValue(v any) error { return writeScalar(w, v) }

// Close completes the document and flushes buffered output. With
// auto-completion enabled, open containers are closed innermost-first, and a
// dangling property is completed with null. With auto-completion disabled,
// open containers are an error.
func (w *TextWriter) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.m.State() == StateClosed {
		return nil
	}
	if w.m.Depth() > 0 && !w.auto {
		return w.setErr(fmt.Errorf("close with %d open containers", w.m.Depth()))
	}
	for w.m.Depth() > 0 {
		if err := w.WriteEnd(); err != nil {
			return err
		}
	}
	w.m.Close()
	return w.Flush()
}

// writeScalar dispatches WriteValue for any Writer implementation.
func writeScalar(w Writer, v any) error {
	switch t := v.(type) {
	case nil:
		return w.WriteNull()
	case bool:
		return w.WriteBool(t)
	case string:
		return w.WriteString(t)
	case int:
		return w.WriteInt(int64(t))
	case int8:
		return w.WriteInt(int64(t))
	case int16:
		return w.WriteInt(int64(t))
	case int32:
		return w.WriteInt(int64(t))
	case int64:
		return w.WriteInt(t)
	case uint8:
		return w.WriteInt(int64(t))
	case uint16:
		return w.WriteInt(int64(t))
	case uint32:
		return w.WriteInt(int64(t))
	case uint:
		return w.WriteBigInt(new(big.Int).SetUint64(uint64(t)))
	case uint64:
		return w.WriteBigInt(new(big.Int).SetUint64(t))
	case *big.Int:
		return w.WriteBigInt(t)
	case float32:
		return w.WriteFloat(float64(t))
	case float64:
		return w.WriteFloat(t)
	case time.Time:
		return w.WriteTime(t)
	case time.Duration:
		return w.WriteString(t.String())
	case []byte:
		return w.WriteBytes(t)
	case uuid.UUID:
		return w.WriteString(t.String())
	case *url.URL:
		return w.WriteString(t.String())
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
}

// FormatTime renders t in the ISO 8601 layout used for date values:
// "2006-01-02T15:04:05" with fractional seconds when present, followed by
// "Z" for UTC or an explicit ±hh:mm offset otherwise.
func FormatTime(t time.Time) string {
	var sb strings.Builder
	sb.WriteString(timefmt.Format(t, "%Y-%m-%dT%H:%M:%S"))
	if ns := t.Nanosecond(); ns != 0 {
		frac := strconv.AppendInt([]byte{'.'}, int64(ns)+1e9, 10)
		// Trim the carry digit and trailing zeroes: ".1500000000" -> ".5".
		frac = append(frac[:1], frac[2:]...)
		i := len(frac)
		for frac[i-1] == '0' {
			i--
		}
		sb.Write(frac[:i])
	}
	_, off := t.Zone()
	if off == 0 {
		sb.WriteByte('Z')
	} else {
		if off < 0 {
			sb.WriteByte('-')
			off = -off
		} else {
			sb.WriteByte('+')
		}
		fmt.Fprintf(&sb, "%02d:%02d", off/3600, (off%3600)/60)
	}
	return sb.String()
}

// appendFloat appends the shortest decimal rendering of f that survives a
// round trip, restoring a ".0" suffix on integral values so the literal reads
// back as a Float rather than an Integer. Non-finite values degrade to null
// and the extreme finite values.
func appendFloat(dst []byte, f float64) []byte {
	if math.IsNaN(f) {
		return append(dst, "null"...)
	}
	if f >= math.MaxFloat64 {
		f = math.MaxFloat64
	} else if f <= -math.MaxFloat64 {
		f = -math.MaxFloat64
	}
	format := byte('f')
	if x := math.Abs(f); x != 0 && x < 1e-6 || x >= 1e21 {
		format = 'e'
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// Clean up e-09 to e-9.
		if n := len(dst); n-start >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
		return dst
	}
	for _, b := range dst[start:] {
		if b == '.' || b == 'e' {
			return dst
		}
	}
	return append(dst, '.', '0')
}
