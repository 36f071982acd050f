// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// A Reader delivers a forward-only sequence of structural tokens. Each call
// to Read advances to the next token and reports whether one is available;
// once Read returns false, Err reports nil at a clean end of input or the
// error that stopped the stream.
//
// The package provides [TextReader], which parses JSON text; the dom package
// provides a reader that replays a document tree.
type Reader interface {
	// Read advances to the next token of the stream.
	Read() bool

	// Token returns the type of the current token.
	Token() TokenType

	// Value returns the decoded value of the current token: the key for
	// PropertyName, the name for StartConstructor, the scalar value for value
	// tokens, and nil for structural tokens.
	Value() any

	// Err returns the error that stopped the stream, or nil.
	Err() error

	// Depth returns the number of currently open containers.
	Depth() int

	// Path returns the document path of the current token.
	Path() string
}

// SyntaxError is the concrete type of parse errors reported by a TextReader.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// Parse phases of a TextReader between calls to Read.
type rphase byte

const (
	phValue       rphase = iota // expect a top-level value
	phObjectFirst               // expect a key or "}"
	phObjectKey                 // expect a key after a comma
	phMemberColon               // expect ":" after a key
	phMemberValue               // expect a member value
	phObjectNext                // expect "," or "}"
	phArrayFirst                // expect an element or "]"
	phArrayElem                 // expect an element after a comma
	phArrayNext                 // expect "," or "]"
	phCtorFirst                 // expect an argument or ")"
	phCtorElem                  // expect an argument after a comma
	phCtorNext                  // expect "," or ")"
	phEOF                       // expect end of input
)

// A TextReader parses JSON text into structural tokens. It accepts the
// extended grammar: single-quoted strings, comments, unquoted object keys,
// the undefined constant, "new Name(...)" constructor calls, and integers of
// any size. A TextReader is not safe for concurrent use.
type TextReader struct {
	sc     *Scanner
	report bool // report comment tokens rather than skipping them
	tcomma bool // allow trailing commas
	multi  bool // allow multiple top-level values
	dctor  bool // convert "new Date(ms)" constructors to Date tokens

	tok   TokenType
	val   any
	err   error
	done  bool
	ntop  int
	phase rphase
	stack []scope
	loc   Location
}

// NewTextReader constructs a TextReader that consumes input from r.
func NewTextReader(r io.Reader) *TextReader {
	sc := NewScanner(r)
	sc.AllowComments(true)
	return &TextReader{sc: sc}
}

// SetComments configures the reader to report (true) or silently skip
// (false, the default) comment tokens. Comments are tolerated in the input
// either way.
func (r *TextReader) SetComments(ok bool) { r.report = ok }

// SetTrailingCommas configures the reader to allow (true) or reject (false,
// the default) trailing commas in objects, arrays, and constructors.
func (r *TextReader) SetTrailingCommas(ok bool) { r.tcomma = ok }

// SetMultipleValues configures the reader to accept a stream of multiple
// top-level values. By default input after the first value is an error.
func (r *TextReader) SetMultipleValues(ok bool) { r.multi = ok }

// SetDateConstructors configures the reader to interpret a constructor of
// the exact form "new Date(n)", with n an integer count of milliseconds
// since the Unix epoch, as a native Date token. When disabled (the default)
// such input is surfaced as an ordinary constructor token sequence.
func (r *TextReader) SetDateConstructors(ok bool) { r.dctor = ok }

// Token returns the type of the current token.
func (r *TextReader) Token() TokenType { return r.tok }

// Value returns the decoded value of the current token.
// Integer values are reported as int64, or as *big.Int when they do not fit.
func (r *TextReader) Value() any { return r.val }

// Err returns the error that stopped the stream, or nil.
func (r *TextReader) Err() error { return r.err }

// Depth returns the number of currently open containers. An end token closes
// its container before it is reported, so the depth excludes it.
func (r *TextReader) Depth() int { return len(r.stack) }

// Path returns the document path of the current token.
func (r *TextReader) Path() string { return renderPath(r.stack) }

// Location returns the source location of the current token.
func (r *TextReader) Location() Location { return r.loc }

// Read advances to the next structural token of the input.
func (r *TextReader) Read() bool {
	if r.err != nil || r.done {
		return false
	}
	for {
		if !r.sc.Next() {
			if err := r.sc.Err(); err != nil {
				r.fail(err, "%v", err)
				return false
			}
			if len(r.stack) != 0 || !atRest(r.phase) {
				r.failf("unexpected end of input")
				return false
			}
			r.done = true
			return false
		}
		tok := r.sc.Token()
		if tok == LineComment || tok == BlockComment {
			if !r.report {
				continue
			}
			r.loc = r.sc.Location()
			r.tok = Comment
			r.val = commentText(r.sc.Text())
			return true
		}
		emitted, ok := r.step(tok)
		if !ok {
			return false
		}
		if emitted {
			return true
		}
	}
}

// atRest reports whether phase is a legal place for the input to end.
func atRest(phase rphase) bool { return phase == phValue || phase == phEOF }

// step consumes one lexical token. It reports whether a structural token was
// emitted, and whether the parse may continue.
func (r *TextReader) step(tok Token) (emitted, ok bool) {
	switch r.phase {
	case phValue, phMemberValue, phArrayFirst, phArrayElem, phCtorFirst, phCtorElem:
		// A close bracket is legal instead of a value at the start of a
		// container, or after a comma when trailing commas are allowed.
		switch tok {
		case RSquare:
			if r.phase == phArrayFirst || (r.phase == phArrayElem && r.tcomma) {
				return r.endContainer()
			}
		case RParen:
			if r.phase == phCtorFirst || (r.phase == phCtorElem && r.tcomma) {
				return r.endContainer()
			}
		}
		return r.value(tok)

	case phObjectFirst, phObjectKey:
		switch tok {
		case RBrace:
			if r.phase == phObjectFirst || r.tcomma {
				return r.endContainer()
			}
			return r.failf("expected object key, got %v", tok)
		case LexString:
			dec, err := Unquote(r.sc.Text())
			if err != nil {
				return r.fail(err, "invalid object key: %v", err)
			}
			return r.propertyName(string(dec))
		case Ident:
			return r.propertyName(string(r.sc.Text()))
		default:
			return r.failf("expected object key, got %v", tok)
		}

	case phMemberColon:
		if tok != Colon {
			return r.failf("expected %v, got %v", Colon, tok)
		}
		r.phase = phMemberValue
		return false, true

	case phObjectNext:
		switch tok {
		case Comma:
			r.phase = phObjectKey
			return false, true
		case RBrace:
			return r.endContainer()
		}
		return r.failf("expected %v or %v, got %v", Comma, RBrace, tok)

	case phArrayNext:
		switch tok {
		case Comma:
			r.phase = phArrayElem
			return false, true
		case RSquare:
			return r.endContainer()
		}
		return r.failf("expected %v or %v, got %v", Comma, RSquare, tok)

	case phCtorNext:
		switch tok {
		case Comma:
			r.phase = phCtorElem
			return false, true
		case RParen:
			return r.endContainer()
		}
		return r.failf("expected %v or %v, got %v", Comma, RParen, tok)

	case phEOF:
		return r.failf("unexpected %v after top-level value", tok)
	}
	return r.failf("unexpected %v", tok)
}

// propertyName emits a PropertyName token for the decoded key.
func (r *TextReader) propertyName(key string) (bool, bool) {
	r.loc = r.sc.Location()
	r.stack[len(r.stack)-1].key = key
	r.tok = PropertyName
	r.val = key
	r.phase = phMemberColon
	return true, true
}

// value emits the structural token for a lexical token in value position.
func (r *TextReader) value(tok Token) (bool, bool) {
	r.loc = r.sc.Location()
	switch tok {
	case LBrace:
		r.stack = append(r.stack, scope{container: ObjectContainer})
		r.tok, r.val = StartObject, nil
		r.phase = phObjectFirst
		return true, true

	case LSquare:
		r.stack = append(r.stack, scope{container: ArrayContainer})
		r.tok, r.val = StartArray, nil
		r.phase = phArrayFirst
		return true, true

	case Ident:
		if string(r.sc.Text()) != "new" {
			return r.failf("unexpected identifier %q", r.sc.Text())
		}
		return r.constructor()

	case LexString:
		dec, err := Unquote(r.sc.Text())
		if err != nil {
			return r.fail(err, "invalid string: %v", err)
		}
		r.tok, r.val = String, string(dec)

	case LexInteger:
		r.tok, r.val = Integer, normalizeInt(r.sc.Text())

	case LexNumber:
		f, err := strconv.ParseFloat(string(r.sc.Text()), 64)
		if err != nil {
			return r.fail(err, "invalid number: %v", err)
		}
		r.tok, r.val = Float, f

	case True, False:
		r.tok, r.val = Boolean, tok == True

	case LexNull:
		r.tok, r.val = Null, nil

	case LexUndefined:
		r.tok, r.val = Undefined, nil

	default:
		return r.failf("unexpected %v", tok)
	}
	r.completeScalar()
	return true, true
}

// constructor parses the "Name(" head of a constructor call whose "new"
// keyword has been consumed, and either opens a constructor scope or, for
// "new Date(n)" with date interpretation enabled, emits a native Date token.
func (r *TextReader) constructor() (bool, bool) {
	start := r.sc.Location()
	if !r.lex() {
		return false, false
	} else if r.sc.Token() != Ident {
		return r.failf("expected constructor name, got %v", r.sc.Token())
	}
	name := string(r.sc.Text())
	if !r.lex() {
		return false, false
	} else if r.sc.Token() != LParen {
		return r.failf("expected %v, got %v", LParen, r.sc.Token())
	}

	if r.dctor && name == "Date" {
		if !r.lex() {
			return false, false
		} else if r.sc.Token() != LexInteger {
			return r.failf("expected integer in Date constructor, got %v", r.sc.Token())
		}
		ms, err := strconv.ParseInt(string(r.sc.Text()), 10, 64)
		if err != nil {
			return r.fail(err, "invalid Date constructor argument: %v", err)
		}
		if !r.lex() {
			return false, false
		} else if r.sc.Token() != RParen {
			return r.failf("expected %v in Date constructor, got %v", RParen, r.sc.Token())
		}
		r.loc = Location{
			Span:  Span{Pos: start.Pos, End: r.sc.Location().End},
			First: start.First,
			Last:  r.sc.Location().Last,
		}
		r.tok, r.val = Date, time.UnixMilli(ms).UTC()
		r.completeScalar()
		return true, true
	}

	r.loc = start
	r.stack = append(r.stack, scope{container: ConstructorContainer})
	r.tok, r.val = StartConstructor, name
	r.phase = phCtorFirst
	return true, true
}

// lex advances the underlying scanner by one non-comment token, reporting a
// syntax error at end of input.
func (r *TextReader) lex() bool {
	for r.sc.Next() {
		if t := r.sc.Token(); t == LineComment || t == BlockComment {
			continue
		}
		return true
	}
	if err := r.sc.Err(); err != nil {
		r.fail(err, "%v", err)
	} else {
		r.failf("unexpected end of input")
	}
	return false
}

// completeScalar records the completion of a scalar value and sets the
// resting phase for its container.
func (r *TextReader) completeScalar() {
	if len(r.stack) == 0 {
		r.ntop++
		if r.multi {
			r.phase = phValue
		} else {
			r.phase = phEOF
		}
		return
	}
	top := &r.stack[len(r.stack)-1]
	switch top.container {
	case ObjectContainer:
		r.phase = phObjectNext
	case ArrayContainer:
		top.n++
		r.phase = phArrayNext
	case ConstructorContainer:
		top.n++
		r.phase = phCtorNext
	}
}

// endContainer pops the innermost scope and emits its end token.
func (r *TextReader) endContainer() (bool, bool) {
	r.loc = r.sc.Location()
	ct := r.stack[len(r.stack)-1].container
	r.stack = r.stack[:len(r.stack)-1]
	switch ct {
	case ObjectContainer:
		r.tok = EndObject
	case ArrayContainer:
		r.tok = EndArray
	case ConstructorContainer:
		r.tok = EndConstructor
	}
	r.val = nil
	r.completeScalar()
	return true, true
}

func (r *TextReader) fail(err error, msg string, args ...any) (bool, bool) {
	r.err = &SyntaxError{
		Location: r.sc.Location().First,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
	return false, false
}

func (r *TextReader) failf(msg string, args ...any) (bool, bool) {
	return r.fail(nil, msg, args...)
}

// normalizeInt parses an integer literal, returning an int64 when the value
// fits and an exact *big.Int otherwise.
func normalizeInt(text []byte) any {
	if v, err := strconv.ParseInt(string(text), 10, 64); err == nil {
		return v
	}
	z, _ := new(big.Int).SetString(string(text), 10)
	return z
}

// commentText strips the comment markers from a raw comment token: the
// leading "//" and trailing newline of a line comment, or the enclosing
// "/*" and "*/" of a block comment.
func commentText(raw []byte) string {
	s := string(raw)
	if tail, ok := strings.CutPrefix(s, "//"); ok {
		return strings.TrimSuffix(tail, "\n")
	}
	s = strings.TrimPrefix(s, "/*")
	return strings.TrimSuffix(s, "*/")
}
