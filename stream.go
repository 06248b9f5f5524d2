// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pdxtree

import (
	"errors"
	"fmt"
	"strconv"
)

// An Anchor represents a location in source text. The methods of an Anchor
// will report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // Returns the token type of the anchor
	Text() []byte       // Returns a view of the text of the anchor
	Copy() []byte       // Returns a copy of the text of the anchor
	Quoted() bool       // Reports whether the text was quoted
	Location() Location // Returns the full location of the anchor
}

// A Handler handles events from parsing an input.  If a method reports an
// error, parsing stops and that error is returned to the caller.  The parser
// ensures blocks are correctly balanced.
//
// The document itself is an implicit object: its members are reported with
// BeginMember and EndMember, but no BeginObject or EndObject.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call. If the method needs to retain information about the
// location after it returns, it must copy the relevant data.
type Handler interface {
	// Begin a new object block, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array block, whose open brace is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close brace is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc.
	BeginMember(loc Anchor) error

	// End the current object member. The anchor is the last token of the
	// member value: an identifier or a close brace.
	EndMember(loc Anchor) error

	// Report a scalar value at the given location. The text is uninterpreted.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input.
	EndOfInput(loc Anchor)
}

// Errors reported by the parser. A *SyntaxError wraps exactly one of these,
// use errors.Is to distinguish them.
var (
	// ErrUnterminatedBlock means the input ended inside a block.
	ErrUnterminatedBlock = errors.New("unterminated block")

	// ErrUnexpectedToken means a token appeared where the grammar forbids it.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrDepthExceeded means blocks were nested deeper than the limit set by
	// Stream.SetMaxDepth.
	ErrDepthExceeded = errors.New("nesting depth exceeded")
)

// lexSource is a supplier of lexemes for a Stream.
type lexSource interface {
	nextLexeme() (Lexeme, bool)
	endLexeme() Lexeme
	inputSize() int
}

// Stream is a parser that consumes lexemes and delivers events to a Handler
// corresponding with the block structure of the input.
//
// Open blocks are tracked on an explicit stack rather than by recursion, so
// nesting depth is limited only by available memory unless a limit is set
// with SetMaxDepth.
type Stream struct {
	src lexSource

	maxDepth   int  // 0 means no limit
	emptyArray bool // parse "{}" as an array

	progress   func(done, total int)
	total      int
	nextReport int

	look []Lexeme // lookahead buffer, at most 2 entries
	cur  Lexeme   // the most recently consumed lexeme
	stk  []block  // open blocks, innermost last
}

// block records an open block on the stream stack.
type block struct {
	open   Lexeme // the opening brace
	array  bool   // the block is an array (else an object)
	member bool   // the block is the value of an object member
}

// NewStream constructs a new Stream that parses src.
func NewStream(src []byte) *Stream { return NewStreamWithScanner(NewScanner(src)) }

// NewStreamWithScanner constructs a new Stream that consumes input from s.
// Comment tokens reported by s are skipped.
func NewStreamWithScanner(s *Scanner) *Stream { return &Stream{src: s} }

// NewTokenStream constructs a new Stream that consumes a sequence of lexemes
// previously produced by Tokenize.
func NewTokenStream(toks []Lexeme) *Stream { return &Stream{src: &tokenList{toks: toks}} }

// SetMaxDepth limits the nesting depth of blocks to n. If a block would be
// opened deeper than n, parsing fails with ErrDepthExceeded. If n <= 0,
// nesting is unlimited (the default).
func (s *Stream) SetMaxDepth(n int) { s.maxDepth = n }

// EmptyBlockAsArray configures whether an empty block "{}" is reported as an
// array (true) or an object (false). The default is an object.
func (s *Stream) EmptyBlockAsArray(ok bool) { s.emptyArray = ok }

// OnProgress registers f to be called with the number of input bytes
// consumed and the total input size, each time a further 1% of the input has
// been consumed and once when parsing completes. Calls are made on the
// goroutine running Parse.
func (s *Stream) OnProgress(f func(done, total int)) { s.progress = f }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses the whole input and delivers events to h until either an
// error occurs or the input is exhausted. In case of a syntax error, the
// returned error has type [*SyntaxError].
func (s *Stream) Parse(h Handler) (err error) {
	defer s.recoverParseError(&err)

	s.stk = s.stk[:0]
	s.total = s.src.inputSize()
	s.nextReport = 0
	for {
		if n := len(s.stk); n != 0 && s.stk[n-1].array {
			s.parseElement(h)
		} else if s.parseMember(h) {
			break
		}
	}
	if s.progress != nil {
		s.progress(s.total, s.total)
	}
	h.EndOfInput(&s.cur)
	return nil
}

// parseMember consumes a single key=value pair of the current object, or the
// close brace ending it. It reports true when the end of the document has
// been reached.
func (s *Stream) parseMember(h Handler) bool {
	if !s.advance() {
		if len(s.stk) == 0 {
			return true // end of document
		}
		s.unterminated()
	}
	switch s.cur.tok {
	case RBrace:
		if len(s.stk) == 0 {
			s.syntaxError(&s.cur, ErrUnexpectedToken, "got %v outside any block", RBrace)
		}
		s.closeBlock(h)
		return false
	case Ident:
		// OK, a key
	default:
		s.syntaxError(&s.cur, ErrUnexpectedToken, "got %v, want %v", s.cur.tok, Ident)
	}

	// Once a block is an object, every entry must be a pair.
	if next := s.peek(0); next != Equals {
		if next == Invalid {
			s.endOfInput()
		}
		s.syntaxError(&s.cur, ErrUnexpectedToken, "got %s without %v, want key=value",
			describe(&s.cur), Equals)
	}
	s.checkError(h.BeginMember(&s.cur))
	s.advance() // the "=" we peeked

	if !s.advance() {
		s.endOfInput()
	}
	switch s.cur.tok {
	case Ident:
		s.checkError(h.Value(&s.cur))
		s.checkError(h.EndMember(&s.cur))
	case LBrace:
		s.openBlock(h, true)
	default:
		s.syntaxError(&s.cur, ErrUnexpectedToken, "got %v, want value after %v", s.cur.tok, Equals)
	}
	return false
}

// parseElement consumes a single value of the current array, or the close
// brace ending it.
func (s *Stream) parseElement(h Handler) {
	if !s.advance() {
		s.unterminated()
	}
	switch s.cur.tok {
	case RBrace:
		s.closeBlock(h)
	case LBrace:
		s.openBlock(h, false)
	case Ident:
		// An array may not switch to key=value pairs part way through.
		if s.peek(0) == Equals {
			key := describe(&s.cur)
			s.advance()
			s.syntaxError(&s.cur, ErrUnexpectedToken, "got %v after %s in an array block", Equals, key)
		}
		s.checkError(h.Value(&s.cur))
	default:
		s.syntaxError(&s.cur, ErrUnexpectedToken, "got %v in an array block", s.cur.tok)
	}
}

// openBlock pushes a new block for the open brace just consumed, deciding
// from its first interior tokens whether it is an object or an array.
// Precondition: s.cur.tok == LBrace.
func (s *Stream) openBlock(h Handler, member bool) {
	if s.maxDepth > 0 && len(s.stk) >= s.maxDepth {
		s.syntaxError(&s.cur, ErrDepthExceeded, "limit is %d", s.maxDepth)
	}
	b := block{open: s.cur, member: member}
	switch first := s.peek(0); {
	case first == Ident && s.peek(1) == Equals:
		// object
	case first == RBrace:
		b.array = s.emptyArray
	default:
		b.array = true
	}
	s.stk = append(s.stk, b)
	if b.array {
		s.checkError(h.BeginArray(&s.cur))
	} else {
		s.checkError(h.BeginObject(&s.cur))
	}
}

// closeBlock pops the innermost block at the close brace just consumed.
// Precondition: s.cur.tok == RBrace, len(s.stk) > 0.
func (s *Stream) closeBlock(h Handler) {
	b := s.stk[len(s.stk)-1]
	s.stk = s.stk[:len(s.stk)-1]
	if b.array {
		s.checkError(h.EndArray(&s.cur))
	} else {
		s.checkError(h.EndObject(&s.cur))
	}
	if b.member {
		s.checkError(h.EndMember(&s.cur))
	}
}

// fill ensures the lookahead buffer holds at least n lexemes, and reports
// whether that was possible.
func (s *Stream) fill(n int) bool {
	for len(s.look) < n {
		lex, ok := s.src.nextLexeme()
		if !ok {
			return false
		} else if lex.tok == Comment {
			continue
		}
		s.look = append(s.look, lex)
	}
	return true
}

// peek returns the token type i positions ahead of the current lexeme
// without consuming it, or Invalid at the end of the input.
func (s *Stream) peek(i int) Token {
	if !s.fill(i + 1) {
		return Invalid
	}
	return s.look[i].tok
}

// advance consumes the next lexeme into s.cur and reports whether there was
// one. At the end of input, s.cur is an Invalid lexeme positioned there.
func (s *Stream) advance() bool {
	if !s.fill(1) {
		s.cur = s.src.endLexeme()
		return false
	}
	s.cur = s.look[0]
	copy(s.look, s.look[1:])
	s.look = s.look[:len(s.look)-1]

	if s.progress != nil && s.total > 0 && s.cur.loc.End >= s.nextReport {
		if s.nextReport > 0 {
			s.progress(s.cur.loc.End, s.total)
		}
		step := max(s.total/100, 1)
		s.nextReport = (s.cur.loc.End/step + 1) * step
	}
	return true
}

// endOfInput reports a premature end of input: inside a block this means the
// block is unterminated, at the top level it is an unexpected token.
func (s *Stream) endOfInput() {
	if len(s.stk) != 0 {
		s.unterminated()
	}
	end := s.src.endLexeme()
	s.syntaxError(&end, ErrUnexpectedToken, "got end of input, want value")
}

// unterminated reports an error at the innermost open block.
func (s *Stream) unterminated() {
	open := s.stk[len(s.stk)-1].open
	s.syntaxError(&open, ErrUnterminatedBlock, "no %v before end of input", RBrace)
}

func (s *Stream) syntaxError(at *Lexeme, kind error, msg string, args ...any) {
	panic(&SyntaxError{
		Location: at.loc.First,
		Offset:   at.loc.Pos,
		Message:  fmt.Sprintf(msg, args...),
		err:      kind,
	})
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// describe makes a human-readable label for an identifier lexeme.
func describe(x *Lexeme) string {
	const maxText = 32
	text := x.text
	if len(text) > maxText {
		text = text[:maxText]
	}
	return fmt.Sprintf("%v %s", x.tok, strconv.Quote(string(text)))
}

// SyntaxError is the concrete type of errors reported by the stream parser.
// It wraps one of ErrUnterminatedBlock, ErrUnexpectedToken, or
// ErrDepthExceeded.
type SyntaxError struct {
	Location LineCol // where the error was detected
	Offset   int     // byte offset corresponding to Location
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %v: %s", s.Location, s.err, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
