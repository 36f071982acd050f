// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package pathseg renders document path segments in the dotted and bracketed
// forms used for diagnostics, e.g. "a.b[2]" or "['key.with.dot'][0]".
package pathseg

import "strconv"

// Safe reports whether key can be rendered as a bare dotted segment without
// quoting. A safe key is non-empty, does not begin with a digit, and contains
// only letters, digits, underscores, and dollar signs.
func Safe(key string) bool {
	if key == "" {
		return false
	}
	for i, ch := range key {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_', ch == '$':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// AppendKey appends a segment for the object key to dst. Safe keys use the
// dot form (".key", with the dot omitted when dst is empty); all other keys
// use the bracket-quote form ("['key']") with single quotes and backslashes
// escaped.
func AppendKey(dst []byte, key string) []byte {
	if Safe(key) {
		if len(dst) != 0 {
			dst = append(dst, '.')
		}
		return append(dst, key...)
	}
	dst = append(dst, '[', '\'')
	for i := 0; i < len(key); i++ {
		if b := key[i]; b == '\'' || b == '\\' {
			dst = append(dst, '\\', b)
		} else {
			dst = append(dst, b)
		}
	}
	return append(dst, '\'', ']')
}

// AppendIndex appends an array index segment ("[3]") to dst.
func AppendIndex(dst []byte, i int) []byte {
	dst = append(dst, '[')
	dst = strconv.AppendInt(dst, int64(i), 10)
	return append(dst, ']')
}
