// Package jpath implements a parser for path expressions over save trees.
//
// The syntax is a subset of JSONPath. The root marker "$" is optional, and a
// path may begin with a bare key, so "production.equipment[0]" and
// "$.production.equipment[0]" are equivalent. Keys may contain the ":", "@",
// and "-" characters that appear in save-file identifiers. Script and filter
// steps are not supported.
//
// Grammar:
//
//	 expr = ["$"] [name] {step}
//	 step = "." name | ".." name | "[" value "]" | "[" [INT] ":" [INT] "]"
//	 name = WORD | "'" QTEXT "'" | "*"
//	value = name | INT {"," INT}
//
// where WORD is a run of letters, digits, "_", ":", "@", and "-", INT is an
// optionally signed decimal integer, and QTEXT is any text in which quotes
// and backslashes are escaped with a backslash.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// An Expr is a parsed path expression.
type Expr []Step

// A Step is a single step of a path expression.
//
// For Member and Recur steps, Arg1 is the key and Arg2 names the kind of key
// (name, qname, or "*"). For Index steps, Arg1 is a comma-separated list of
// offsets. For Slice steps, Arg1 and Arg2 are the bounds, either of which may
// be empty. For Wildcard, Name, and QName steps, Arg1 is the bracketed key.
type Step struct {
	Op   Op
	Arg1 string
	Arg2 string
}

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // not a valid step
	Member             // .name
	Index              // [n] or [n,m,...]
	Slice              // [lo:hi]
	Wildcard           // [*]
	Name               // [name]
	QName              // ['quoted name']
	Recur              // ..name
)

var opText = [...]string{
	Invalid:  "invalid",
	Member:   ".",
	Index:    "index",
	Slice:    "slice",
	Wildcard: "*",
	Name:     "name",
	QName:    "qname",
	Recur:    "..",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// Parse parses s as a path expression. The error for an invalid expression
// reports the offset in s where parsing stopped.
func Parse(s string) (Expr, error) {
	p := &parser{src: s}
	e, err := p.expr()
	if err != nil {
		return Expr{}, fmt.Errorf("at offset %d: %w", p.pos, err)
	}
	return e, nil
}

// String renders e in canonical form, with a leading root marker.
func (e Expr) String() string {
	var sb strings.Builder
	sb.WriteByte('$')
	for _, s := range e {
		switch s.Op {
		case Member, Recur:
			sb.WriteString(s.Op.String())
			if s.Arg2 == QName.String() {
				sb.WriteString("'" + quoteName(s.Arg1) + "'")
			} else {
				sb.WriteString(s.Arg1)
			}
		case Slice:
			sb.WriteString("[" + s.Arg1 + ":" + s.Arg2 + "]")
		case QName:
			sb.WriteString("['" + quoteName(s.Arg1) + "']")
		default:
			sb.WriteString("[" + s.Arg1 + "]")
		}
	}
	return sb.String()
}

// A parser consumes a path expression from left to right.
type parser struct {
	src string
	pos int
}

func (p *parser) rest() string { return p.src[p.pos:] }

// accept consumes lit if the input begins with it.
func (p *parser) accept(lit string) bool {
	if strings.HasPrefix(p.rest(), lit) {
		p.pos += len(lit)
		return true
	}
	return false
}

// match consumes the match of re at the start of the input, if any, and
// returns its submatches.
func (p *parser) match(re *regexp.Regexp) []string {
	m := re.FindStringSubmatch(p.rest())
	if m != nil {
		p.pos += len(m[0])
	}
	return m
}

func (p *parser) expr() (Expr, error) {
	var out Expr
	if !p.accept("$") {
		if r := p.rest(); r != "" && r[0] != '.' && r[0] != '[' {
			// A leading bare key is an implicit member step.
			op, name, err := p.name()
			if err != nil {
				return nil, err
			}
			out = append(out, Step{Op: Member, Arg1: name, Arg2: op.String()})
		}
	}
	for p.pos < len(p.src) {
		s, err := p.step()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *parser) step() (Step, error) {
	switch {
	case p.accept(".."):
		op, name, err := p.name()
		if err != nil {
			return Step{}, fmt.Errorf("invalid ..name: %w", err)
		}
		return Step{Op: Recur, Arg1: name, Arg2: op.String()}, nil

	case p.accept("."):
		op, name, err := p.name()
		if err != nil {
			return Step{}, fmt.Errorf("invalid .name: %w", err)
		}
		return Step{Op: Member, Arg1: name, Arg2: op.String()}, nil

	case p.accept("["):
		s, err := p.bracket()
		if err != nil {
			return Step{}, err
		}
		if !p.accept("]") {
			return Step{}, errors.New("missing close bracket")
		}
		return s, nil
	}
	return Step{}, errors.New("invalid path step")
}

// bracket parses the contents of a bracketed step.
func (p *parser) bracket() (Step, error) {
	r := p.rest()
	if strings.HasPrefix(r, "(") || strings.HasPrefix(r, "?(") {
		return Step{}, errors.New("script and filter steps are not supported")
	}
	if m := p.match(indexRE); m != nil {
		if strings.Contains(m[0], ",") || !p.accept(":") {
			return Step{Op: Index, Arg1: m[0]}, nil
		}
		return p.slice(m[0])
	}
	if p.accept(":") {
		return p.slice("")
	}
	op, name, err := p.name()
	if err != nil {
		return Step{}, fmt.Errorf("invalid value: %q", r)
	}
	return Step{Op: op, Arg1: name}, nil
}

// slice parses the upper bound of a slice whose lower bound is lo.
func (p *parser) slice(lo string) (Step, error) {
	var hi string
	if m := p.match(intRE); m != nil {
		hi = m[0]
	} else if lo == "" {
		return Step{}, errors.New("invalid slice")
	}
	return Step{Op: Slice, Arg1: lo, Arg2: hi}, nil
}

// name parses a bare, quoted, or wildcard name.
func (p *parser) name() (Op, string, error) {
	if p.accept("*") {
		return Wildcard, "*", nil
	}
	if m := p.match(wordRE); m != nil {
		return Name, m[0], nil
	}
	if m := p.match(quoteRE); m != nil {
		return QName, unquoteName(m[1]), nil
	}
	return Invalid, "", errors.New("invalid name")
}

// unquoteName removes backslash escapes from a quoted name.
func unquoteName(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func quoteName(s string) string { return nameQuoter.Replace(s) }

var (
	wordRE     = regexp.MustCompile(`^[\w:@-]+`)
	indexRE    = regexp.MustCompile(`^-?\d+(?:,-?\d+)*`)
	intRE      = regexp.MustCompile(`^-?\d+`)
	quoteRE    = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)'`)
	nameQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
)
