// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/tailscale/hujson"
)

// transcode parses input and re-emits it as compact JSON text.
func transcode(t *testing.T, input string, opt func(*jstream.TextReader)) string {
	t.Helper()
	r := jstream.NewTextReader(strings.NewReader(input))
	if opt != nil {
		opt(r)
	}
	var sb strings.Builder
	w := jstream.NewTextWriter(&sb)
	if err := jstream.Copy(w, r); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return sb.String()
}

func TestCopy(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`null`, `null`},
		{`[ ]`, `[]`},
		{`{ }`, `{}`},
		{`"abc"`, `"abc"`},
		{` -501 `, `-501`},
		{`[1, 2.5, "three", false, null]`, `[1,2.5,"three",false,null]`},
		{`{"a": {"b": [true]}, "c": undefined}`, `{"a":{"b":[true]},"c":undefined}`},
		{`{'single': 'quotes'}`, `{"single":"quotes"}`},
		{`{key: "bare"}`, `{"key":"bare"}`},
		{`new Date(976918263055)`, `new Date(976918263055)`},
		{`9999999990000000000000000000000000000000000`,
			`9999999990000000000000000000000000000000000`},
	}
	for _, test := range tests {
		got := transcode(t, test.input, nil)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestCopyComments(t *testing.T) {
	// With comment reporting enabled, comments survive a copy as block
	// comments in the output.
	got := transcode(t, "[1, // one\n 2]", func(r *jstream.TextReader) {
		r.SetComments(true)
	})
	if want := `[1/* one*/,2]`; got != want {
		t.Errorf("Got:  %#q\nWant: %#q", got, want)
	}
}

// TestCopyStandardize cross-checks the reader and writer against an
// independent implementation: inputs in the comment-and-trailing-comma
// superset must transcode to the same standard JSON that hujson produces.
func TestCopyStandardize(t *testing.T) {
	tests := []string{
		`{}`,
		`[1, 2, 3]`,
		`{"a": 1, "b": [true, false, null]}`,
		"{\n  // leading comment\n  \"a\": 1,\n}",
		"[1, /* inline */ 2, 3,]",
		"{\"s\": \"text\", /* c */ \"t\": [2.5],}\n// trailing",
		"{\"nested\": {\"deep\": [[], {},]},}",
	}
	for _, input := range tests {
		std, err := hujson.Standardize([]byte(input))
		if err != nil {
			t.Fatalf("Standardize %#q: %v", input, err)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, std); err != nil {
			t.Fatalf("Compact %#q: %v", input, err)
		}
		want := buf.String()

		got := transcode(t, input, func(r *jstream.TextReader) {
			r.SetTrailingCommas(true)
		})
		if got != want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", input, got, want)
		}
	}
}

func TestWriteTokenErrors(t *testing.T) {
	w := jstream.NewTextWriter(new(strings.Builder))
	if err := jstream.WriteToken(w, jstream.String, 25); err == nil {
		t.Error("WriteToken(String, 25): got nil, want error")
	}
	if err := jstream.WriteToken(w, jstream.None, nil); err == nil {
		t.Error("WriteToken(None, nil): got nil, want error")
	}
}
