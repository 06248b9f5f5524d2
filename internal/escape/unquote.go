// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings, for the JSON
// projection of save-file trees.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a JSON string literal, including its enclosing double
// quotation marks.
//
// Escape sequences are replaced with their unescaped equivalents, and a
// UTF-16 surrogate pair written as two \u escapes is combined into one rune.
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for a missing quotation mark or an incomplete escape
// sequence.
func Unquote(lit mem.RO) ([]byte, error) {
	n := lit.Len()
	if n < 2 || lit.At(0) != '"' || lit.At(n-1) != '"' {
		return nil, errors.New("missing quotations")
	}
	src := lit.Slice(1, n-1)

	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}

	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}

		src = src.SliceFrom(n)
		if r < utf8.RuneSelf && unescapes[r] != 0 {
			dec = append(dec, unescapes[r])
		} else if r == 'u' {
			v, rest, err := parseU16(src)
			if err != nil {
				return nil, err
			}
			src = rest
			if utf16.IsSurrogate(v) {
				if lo, rest, err := parseU16(skipPrefix(src, `\u`)); err == nil {
					if c := utf16.DecodeRune(v, lo); c != utf8.RuneError {
						v, src = c, rest
					}
				}
			}
			dec = utf8.AppendRune(dec, v)
		} else {
			dec = utf8.AppendRune(dec, utf8.RuneError)
		}

		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// parseU16 decodes the four hex digits at the front of src, and returns the
// remainder of src. An invalid digit yields the replacement rune.
func parseU16(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, errors.New("incomplete Unicode escape")
	}
	v, err := parseHex(src.SliceTo(4))
	if err != nil {
		return utf8.RuneError, src.SliceFrom(4), nil
	}
	return rune(v), src.SliceFrom(4), nil
}

// skipPrefix returns src without the given prefix, or an empty view if src
// does not begin with it.
func skipPrefix(src mem.RO, prefix string) mem.RO {
	if !mem.HasPrefix(src, mem.S(prefix)) {
		return mem.RO{}
	}
	return src.SliceFrom(len(prefix))
}

// unescapes maps the byte after a backslash to the byte it denotes, for the
// single-character escapes.
var unescapes = [utf8.RuneSelf]byte{
	'"': '"', '\\': '\\', '/': '/',
	'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t',
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := range data.Len() {
		d := unhex(data.At(i))
		if d < 0 {
			return 0, fmt.Errorf("invalid hex digit %q", data.At(i))
		}
		v = v<<4 | int64(d)
	}
	return v, nil
}

func unhex(b byte) int {
	switch {
	case '0' <= b && b <= '9':
		return int(b - '0')
	case 'a' <= b && b <= 'f':
		return int(b-'a') + 10
	case 'A' <= b && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}
