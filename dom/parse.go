// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom

import (
	"bytes"
	"io"

	"github.com/creachadair/jstream"
)

// ParseOptions control the optional input features recognized by ParseWith.
type ParseOptions struct {
	// Retain comments as nodes of the tree. When false, comments in the
	// input are accepted but discarded.
	Comments bool

	// Permit a trailing comma after the last element of a container.
	TrailingCommas bool

	// Interpret "new Date(n)" constructors as date values.
	DateConstructors bool
}

// Parse parses a single document from r with default options.
func Parse(r io.Reader) (Node, error) { return ParseWith(r, ParseOptions{}) }

// ParseWith parses a single document from r. Nodes of the resulting tree
// record the source locations they were parsed from.
func ParseWith(r io.Reader, opts ParseOptions) (Node, error) {
	rd := jstream.NewTextReader(r)
	rd.SetComments(opts.Comments)
	rd.SetTrailingCommas(opts.TrailingCommas)
	rd.SetDateConstructors(opts.DateConstructors)

	b := NewBuilder()
	for rd.Read() {
		if err := jstream.WriteToken(b, rd.Token(), rd.Value()); err != nil {
			return nil, err
		}
		if b.last != nil {
			b.last.base().loc = rd.Location().First
		}
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	if err := b.Close(); err != nil {
		return nil, err
	}
	return b.Result()
}

// Encode writes the tree rooted at n to w as compact JSON text.
func Encode(w io.Writer, n Node) error {
	tw := jstream.NewTextWriter(w)
	if err := jstream.Copy(tw, NewTreeReader(n)); err != nil {
		return err
	}
	return tw.Close()
}

// EncodeIndent writes the tree rooted at n to w as JSON text, indenting
// each nesting level by indent.
func EncodeIndent(w io.Writer, n Node, indent string) error {
	tw := jstream.NewTextWriter(w)
	tw.SetIndent(indent)
	if err := jstream.Copy(tw, NewTreeReader(n)); err != nil {
		return err
	}
	return tw.Close()
}

// JSON returns the compact JSON encoding of the tree rooted at n.
func JSON(n Node) string {
	var buf bytes.Buffer
	if err := Encode(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
