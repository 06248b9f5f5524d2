// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pdxtree

import (
	"bytes"
	"fmt"
	"strconv"

	"go4.org/mem"
)

// Token is the type of a lexical token in the save-file grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	Equals               // equals sign "="
	Ident                // identifier: bare word, number, date, or quoted text
	Comment              // comment: # ... (to end of line)
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	Equals:  `"="`,
	Ident:   "identifier",
	Comment: "comment",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// byteOrderMark is skipped if it occurs at the very start of the input.
const byteOrderMark = "\xef\xbb\xbf"

// A Scanner reads lexical tokens from an in-memory input. Each call to Next
// advances the scanner to the next token.
//
// Scanning never fails: bytes that do not form punctuation are gathered into
// identifiers, and an unterminated quotation runs to the end of the input.
type Scanner struct {
	src      []byte
	comments bool // report comments as tokens

	tok    Token
	text   []byte // view of src for the current token
	quoted bool   // current token was written in quotation marks

	pos, end int // start and end offsets of current token
	next     int // offset of the next unread byte

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes src.  The scanner
// does not copy src; the caller must not modify it while the scanner (or any
// token text it returned) is in use.
func NewScanner(src []byte) *Scanner {
	s := &Scanner{src: src}
	if mem.HasPrefix(mem.B(src), mem.S(byteOrderMark)) {
		s.next = len(byteOrderMark)
		s.pos, s.end = s.next, s.next
	}
	return s
}

// AllowComments configures the scanner to report (true) or discard (false)
// comment tokens. By default comments are discarded.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Next advances s to the next token of the input and reports whether one was
// found. It returns false once the input is exhausted.
func (s *Scanner) Next() bool {
	s.tok, s.text, s.quoted = Invalid, nil, false

	for s.next < len(s.src) {
		s.pos, s.pline, s.pcol = s.next, s.eline, s.ecol
		ch := s.src[s.next]

		// Discard whitespace.
		if isSpace(ch) {
			s.consume(1)
			continue
		}

		switch ch {
		case '{', '}', '=':
			s.tok = selfDelim[ch]
			s.text = s.src[s.next : s.next+1]
			s.consume(1)

		case '#':
			// The comment runs to end of line, not including the newline.
			n := bytes.IndexByte(s.src[s.next:], '\n')
			if n < 0 {
				n = len(s.src) - s.next
			}
			text := s.src[s.next : s.next+n]
			s.consume(n)
			if !s.comments {
				continue
			}
			s.tok, s.text = Comment, text

		case '"':
			s.scanQuoted()

		default:
			n := 1
			for s.next+n < len(s.src) && isWordByte(s.src[s.next+n]) {
				n++
			}
			s.tok, s.text = Ident, s.src[s.next:s.next+n]
			s.consume(n)
		}
		s.end = s.next
		return true
	}
	s.pos, s.end = s.next, s.next
	s.pline, s.pcol = s.eline, s.ecol
	return false
}

func (s *Scanner) scanQuoted() {
	body := s.src[s.next+1:]
	n := bytes.IndexByte(body, '"')
	if n < 0 {
		// Unterminated: the rest of the input is the text.
		s.tok, s.text, s.quoted = Ident, body, true
		s.consume(len(body) + 1)
		return
	}
	s.tok, s.text, s.quoted = Ident, body[:n], true
	s.consume(n + 2)
}

// consume advances the read offset by n bytes, updating line and column.
func (s *Scanner) consume(n int) {
	for _, b := range s.src[s.next : s.next+n] {
		if b == '\n' {
			s.eline++
			s.ecol = 0
		} else {
			s.ecol++
		}
	}
	s.next += n
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Text returns the text of the current token. For quoted identifiers the
// quotation marks are excluded. The return value is a view of the input, the
// caller must copy it if it will be modified.
func (s *Scanner) Text() []byte { return s.text }

// Copy returns a copy of the text of the current token.
func (s *Scanner) Copy() []byte { return bytes.Clone(s.text) }

// Quoted reports whether the current token was written in quotation marks.
func (s *Scanner) Quoted() bool { return s.quoted }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// Lexeme returns a record of the current token.
func (s *Scanner) Lexeme() Lexeme {
	return Lexeme{tok: s.tok, text: s.text, quoted: s.quoted, loc: s.Location()}
}

// nextLexeme implements the lexeme source used by a Stream.
func (s *Scanner) nextLexeme() (Lexeme, bool) {
	if !s.Next() {
		return Lexeme{}, false
	}
	return s.Lexeme(), true
}

// endLexeme reports an Invalid lexeme positioned at the end of the input.
func (s *Scanner) endLexeme() Lexeme { return Lexeme{loc: s.Location()} }

// inputSize reports the total size of the input in bytes.
func (s *Scanner) inputSize() int { return len(s.src) }

// Tokenize scans all of src and returns its tokens in order. Comments are
// discarded. Tokenize never fails; the text of each lexeme is a view of src.
func Tokenize(src []byte) []Lexeme {
	var out []Lexeme
	s := NewScanner(src)
	for s.Next() {
		out = append(out, s.Lexeme())
	}
	return out
}

// A Lexeme is a single token together with its text and location.
// A Lexeme satisfies the Anchor interface.
type Lexeme struct {
	tok    Token
	text   []byte
	quoted bool
	loc    Location
}

// Token returns the token type of the lexeme.
func (x Lexeme) Token() Token { return x.tok }

// Text returns a view of the text of the lexeme, without quotation marks.
func (x Lexeme) Text() []byte { return x.text }

// Copy returns a copy of the text of the lexeme.
func (x Lexeme) Copy() []byte { return bytes.Clone(x.text) }

// Quoted reports whether the lexeme was written in quotation marks.
func (x Lexeme) Quoted() bool { return x.quoted }

// Location returns the source location of the lexeme.
func (x Lexeme) Location() Location { return x.loc }

func (x Lexeme) String() string {
	if x.tok == Ident || x.tok == Comment {
		return fmt.Sprintf("%v %s", x.tok, strconv.Quote(string(x.text)))
	}
	return x.tok.String()
}

// tokenList is a lexeme source over a pre-scanned token sequence.
type tokenList struct {
	toks []Lexeme
	next int
}

func (t *tokenList) nextLexeme() (Lexeme, bool) {
	if t.next >= len(t.toks) {
		return Lexeme{}, false
	}
	t.next++
	return t.toks[t.next-1], true
}

func (t *tokenList) endLexeme() Lexeme {
	if len(t.toks) == 0 {
		return Lexeme{loc: Location{First: LineCol{Line: 1}, Last: LineCol{Line: 1}}}
	}
	last := t.toks[len(t.toks)-1].loc
	return Lexeme{loc: Location{
		Span:  Span{Pos: last.End, End: last.End},
		First: last.Last,
		Last:  last.Last,
	}}
}

func (t *tokenList) inputSize() int {
	if len(t.toks) == 0 {
		return 0
	}
	return t.toks[len(t.toks)-1].loc.End
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

// isWordByte reports whether ch may continue an unquoted identifier. A "#"
// only starts a comment where a token could begin, so it may occur inside a
// bare word (as in "Division#2").
func isWordByte(ch byte) bool {
	switch ch {
	case '{', '}', '=', '"':
		return false
	}
	return !isSpace(ch)
}

var selfDelim = [...]Token{'{': LBrace, '}': RBrace, '=': Equals}
