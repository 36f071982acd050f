// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jstream implements streaming readers and writers for JSON.
//
// The package works at the level of structural tokens: object and array
// brackets, property names, and scalar values, each identified by a
// TokenType. A Reader produces tokens one at a time from JSON text; a Writer
// consumes tokens and renders JSON text, enforcing at each step that the
// token can extend the output to a syntactically valid document.
//
// Beyond standard JSON, both directions understand a superset commonly seen
// in JavaScript source: comments, single-quoted strings, unquoted object
// keys, the undefined constant, integers of arbitrary size, and constructor
// calls of the form "new Name(args)".
//
// # Reading
//
// Construct a TextReader from an io.Reader and call Read to advance through
// the tokens of the input. Read reports false at the end of input or on
// error; Err distinguishes the two cases:
//
//	r := jstream.NewTextReader(input)
//	for r.Read() {
//	   log.Printf("%v at %s", r.Token(), r.Path())
//	}
//	if err := r.Err(); err != nil {
//	   log.Fatalf("Read failed: %v", err)
//	}
//
// Errors in the input are reported with concrete type *jstream.SyntaxError,
// carrying the offending location. The reader verifies that brackets pair
// correctly, so a consumer may rely on start and end tokens matching.
//
// Typed helpers such as ReadString and ReadInt advance a Reader by one value
// token and convert it, applying the coercion rules of the Coerce functions.
//
// # Writing
//
// Construct a TextWriter from an io.Writer and call its Write methods to
// emit tokens. Each call checks the token against the current write state,
// so a sequence of successful calls cannot produce malformed output:
//
//	w := jstream.NewTextWriter(output)
//	w.WriteStartObject()
//	w.WritePropertyName("name")
//	w.WriteString("Alice")
//	w.WriteEndObject()
//	if err := w.Close(); err != nil {
//	   log.Fatalf("Write failed: %v", err)
//	}
//
// A state violation is reported with concrete type *jstream.WriteStateError
// and renders the writer unusable except for Close. The first error of any
// kind is sticky and is returned by all subsequent calls.
//
// The Machine type exposes the write-state rules separately from text
// output, for other token sinks; the dom subpackage uses it to build
// document trees from the same Write calls.
//
// # Scanning
//
// The Scanner type is the lexical layer under TextReader, usable on its own
// for token-level processing that does not need parsing:
//
//	s := jstream.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//	if err := s.Err(); err != nil {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
package jstream
