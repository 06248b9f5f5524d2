// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// AppendQuote appends the JSON string encoding of src to dst, including the
// enclosing double quotation marks, and returns the extended slice.
//
// Save files are not required to be valid UTF-8. Each invalid byte of src is
// encoded as the Unicode replacement rune.
func AppendQuote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	for src.Len() != 0 {
		// Fast path: copy a run of bytes that need no escaping.
		n := 0
		for n < src.Len() && plain(src.At(n)) {
			n++
		}
		if n != 0 {
			dst = mem.Append(dst, src.SliceTo(n))
			src = src.SliceFrom(n)
			continue
		}

		r, n := mem.DecodeRune(src)
		switch {
		case r < ' ':
			if b := controlEsc[r]; b != 0 {
				dst = append(dst, '\\', b)
			} else {
				dst = append(dst, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
			}
		case r == '\\' || r == '"':
			dst = append(dst, '\\', byte(r))
		case r == utf8.RuneError && n <= 1:
			dst = append(dst, `\ufffd`...)
		case r == '\u2028': // line separator
			dst = append(dst, `\u2028`...)
		case r == '\u2029': // paragraph separator
			dst = append(dst, `\u2029`...)
		default:
			dst = mem.Append(dst, src.SliceTo(n))
		}
		src = src.SliceFrom(max(n, 1))
	}
	return append(dst, '"')
}

// Quote returns the JSON string encoding of src, with quotation marks.
func Quote(src mem.RO) []byte { return AppendQuote(make([]byte, 0, src.Len()+2), src) }

// plain reports whether b is an ASCII byte that stands for itself inside a
// JSON string.
func plain(b byte) bool { return b >= ' ' && b < utf8.RuneSelf && b != '"' && b != '\\' }
