// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ValsGeorge/pdxtree/internal/escape"
	"github.com/tailscale/hujson"
	"go4.org/mem"
)

// JSON renders v as compact JSON text.
//
// Objects become JSON objects with members in order, and arrays become JSON
// arrays. Integer and Float values become JSON numbers, and a Float always
// includes a decimal point. Bool values become true or false. Dates become
// strings of the form "Y.M.D" or "Y.M.D.H", and String values become JSON
// strings.
func JSON(v Value) string { return string(appendJSON(nil, v, "", "")) }

// WriteJSON writes the JSON encoding of v to w, as JSON. If indent != "",
// each member and element is written on its own line, indented by copies of
// indent according to its nesting depth, and the output ends with a newline.
func WriteJSON(w io.Writer, v Value, indent string) error {
	buf := appendJSON(nil, v, indent, "\n")
	if indent != "" {
		buf = append(buf, '\n')
	}
	_, err := w.Write(buf)
	return err
}

// appendJSON appends the JSON encoding of v to buf. The nl argument is the
// line break and indentation preceding an item at the current depth, or ""
// for compact output.
func appendJSON(buf []byte, v Value, indent, nl string) []byte {
	inner := nl
	if indent != "" {
		inner = nl + indent
	}
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			return append(buf, "{}"...)
		}
		buf = append(buf, '{')
		for i, m := range t.members {
			if i > 0 {
				buf = append(buf, ',')
			}
			if indent != "" {
				buf = append(buf, inner...)
			}
			buf = escape.AppendQuote(buf, mem.S(m.Key))
			buf = append(buf, ':')
			if indent != "" {
				buf = append(buf, ' ')
			}
			buf = appendJSON(buf, m.Value, indent, inner)
		}
		if indent != "" {
			buf = append(buf, nl...)
		}
		return append(buf, '}')

	case Array:
		if len(t) == 0 {
			return append(buf, "[]"...)
		}
		buf = append(buf, '[')
		for i, elt := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			if indent != "" {
				buf = append(buf, inner...)
			}
			buf = appendJSON(buf, elt, indent, inner)
		}
		if indent != "" {
			buf = append(buf, nl...)
		}
		return append(buf, ']')

	case Integer:
		return strconv.AppendInt(buf, int64(t), 10)
	case Float:
		return appendFloat(buf, float64(t))
	case Bool:
		return strconv.AppendBool(buf, bool(t))
	case Date:
		return escape.AppendQuote(buf, mem.S(t.String()))
	case String:
		return escape.AppendQuote(buf, mem.S(string(t)))
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

// ParseJSON parses a JSON value from data and returns the corresponding tree.
// The input may use the HuJSON extensions (comments and trailing commas).
//
// Numbers without a fraction or exponent become Integer, and other numbers
// become Float. Strings with the shape of a date become Date, and all other
// strings become String without further inference. A null is an error.
// ParseJSON reverses JSON, so that for any tree t produced by Parse,
// ParseJSON(JSON(t)) is equal to t.
func ParseJSON(data []byte) (Value, error) {
	root, err := hujson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return fromJSON(root)
}

var errNull = errors.New("null has no equivalent value")

func fromJSON(v hujson.Value) (Value, error) {
	switch t := v.Value.(type) {
	case *hujson.Object:
		obj := &Object{index: make(map[string]int, len(t.Members))}
		for _, m := range t.Members {
			name, ok := m.Name.Value.(hujson.Literal)
			if !ok {
				return nil, fmt.Errorf("offset %d: invalid member name", m.Name.StartOffset)
			}
			key, err := escape.Unquote(mem.B(name))
			if err != nil {
				return nil, fmt.Errorf("offset %d: member name: %w", m.Name.StartOffset, err)
			}
			val, err := fromJSON(m.Value)
			if err != nil {
				return nil, err
			}
			obj.Add(string(key), val)
		}
		return obj, nil

	case *hujson.Array:
		arr := make(Array, 0, len(t.Elements))
		for _, e := range t.Elements {
			val, err := fromJSON(e)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil

	case hujson.Literal:
		return fromLiteral(t, v.StartOffset)
	default:
		return nil, fmt.Errorf("offset %d: unknown JSON value %T", v.StartOffset, v.Value)
	}
}

func fromLiteral(lit hujson.Literal, pos int) (Value, error) {
	if len(lit) == 0 {
		return nil, fmt.Errorf("offset %d: empty literal", pos)
	}
	switch lit[0] {
	case 'n':
		return nil, fmt.Errorf("offset %d: %w", pos, errNull)
	case 't':
		return Bool(true), nil
	case 'f':
		return Bool(false), nil
	case '"':
		text, err := escape.Unquote(mem.B(lit))
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", pos, err)
		}
		m := mem.B(text)
		if dots, ok := numericShape(m); ok && (dots == 2 || dots == 3) {
			if d, ok := parseDate(m); ok {
				return d, nil
			}
		}
		return String(text), nil
	}

	// Otherwise, a number.
	m := mem.B(lit)
	if !bytes.ContainsAny(lit, ".eE") {
		if v, err := mem.ParseInt(m, 10, 64); err == nil {
			return Integer(v), nil
		}
	}
	v, err := mem.ParseFloat(m, 64)
	if err != nil {
		return nil, fmt.Errorf("offset %d: invalid number %q", pos, lit)
	}
	return Float(v), nil
}
