// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pdxtree

import "go4.org/mem"

// NeedsQuote reports whether s must be written in quotation marks to be
// scanned back as a single identifier with the same text. This is true for
// the empty string, for text beginning with a comment marker, and for any
// text containing whitespace, braces, "=", or a quotation mark.
func NeedsQuote(s string) bool {
	if s == "" || s[0] == '#' {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) {
			return true
		}
	}
	return false
}

// Quote encloses s in double quotation marks. The save format has no escape
// sequences, so a quotation mark inside s cannot be represented; Quote
// reports ok == false in that case and the result will not scan back to s.
func Quote(s string) (_ string, ok bool) {
	ok = mem.IndexByte(mem.S(s), '"') < 0
	return `"` + s + `"`, ok
}
