// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"

	"github.com/creachadair/jstream/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(quoteAppend(nil, src)) }

func quoteAppend(dst []byte, src string) []byte {
	dst = append(dst, '"')
	dst = append(dst, escape.Quote(mem.S(src))...)
	return append(dst, '"')
}

// Unquote decodes a JSON string value. The enclosing quotation marks, which
// may be either double or single quotes, are removed, and escape sequences
// are replaced with their unescaped equivalents.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for an incomplete escape sequence.
func Unquote(src []byte) ([]byte, error) {
	if len(src) < 2 {
		return nil, errors.New("missing quotations")
	}
	open := src[0]
	if (open != '"' && open != '\'') || src[len(src)-1] != open {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.B(src[1 : len(src)-1]))
}
