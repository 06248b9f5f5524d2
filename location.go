// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pdxtree

import "fmt"

// A Span is a half-open range [Pos, End) of byte offsets in the input.
type Span struct {
	Pos int // first byte, 0-based
	End int // one past the last byte
}

// Len reports the number of bytes in s.
func (s Span) Len() int { return s.End - s.Pos }

// A LineCol is a position in the input as a line and column. Columns count
// bytes, so a column after non-ASCII text is not a character count.
type LineCol struct {
	Line   int // 1-based
	Column int // 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location is a Span together with the line and column of its first and
// last bytes.
type Location struct {
	Span
	First, Last LineCol
}

// String renders loc as "line:col-col" for a range within one line, and as
// "line:col-line:col" otherwise.
func (loc Location) String() string {
	if loc.First.Line != loc.Last.Line {
		return loc.First.String() + "-" + loc.Last.String()
	}
	return fmt.Sprintf("%d:%d-%d", loc.First.Line, loc.First.Column, loc.Last.Column)
}
