// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ValsGeorge/pdxtree"
)

// A Formatter carries the settings for rendering trees as save-file text.
// A zero value is ready for use with default settings.
type Formatter struct {
	// Indent is the string used for each level of indentation. If empty, a
	// single tab is used.
	Indent string
}

func (f Formatter) indent() string {
	if f.Indent == "" {
		return "\t"
	}
	return f.Indent
}

// Format renders obj as save-file text to w with default settings.
func Format(w io.Writer, obj *Object) error {
	var f Formatter
	return f.Format(w, obj)
}

// FormatToString formats obj to a string with default settings.
// In case of error in formatting, it returns an empty string.
func FormatToString(obj *Object) string {
	var buf strings.Builder
	if Format(&buf, obj) != nil {
		return ""
	}
	return buf.String()
}

// Format renders obj as save-file text to w using the settings from f. The
// members of obj are written at the top level without enclosing braces.
//
// Arrays of scalars are written on one line. An object member whose value is
// an array of two or more elements including a block is written as one
// member per element with the key repeated, which parses back to the same
// array. Keys and strings that would not scan as a single identifier are
// quoted.
//
// An empty Array is written as "{}", which parses back as an empty Object
// unless the stream is set to treat empty blocks as arrays.
func (f Formatter) Format(w io.Writer, obj *Object) error {
	bw := bufio.NewWriter(w)
	f.formatMembers(bw, obj, "")
	return bw.Flush()
}

func (f Formatter) formatMembers(w *bufio.Writer, o *Object, indent string) {
	for _, m := range o.members {
		key := quoteText(m.Key)
		if a, ok := m.Value.(Array); ok && len(a) > 1 && hasBlock(a) {
			for _, elt := range a {
				f.formatMember(w, key, elt, indent)
			}
			continue
		}
		f.formatMember(w, key, m.Value, indent)
	}
}

func (f Formatter) formatMember(w *bufio.Writer, key string, v Value, indent string) {
	fmt.Fprint(w, indent, key, "=")
	f.formatValue(w, v, indent)
	w.WriteByte('\n')
}

// formatValue writes v to w, where indent is the indentation of the line on
// which v begins.
func (f Formatter) formatValue(w *bufio.Writer, v Value, indent string) {
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			w.WriteString("{}")
			return
		}
		w.WriteString("{\n")
		f.formatMembers(w, t, indent+f.indent())
		fmt.Fprint(w, indent, "}")

	case Array:
		if len(t) == 0 {
			w.WriteString("{}")
			return
		} else if !hasBlock(t) {
			w.WriteString("{ ")
			for _, elt := range t {
				f.formatValue(w, elt, "")
				w.WriteByte(' ')
			}
			w.WriteString("}")
			return
		}
		w.WriteString("{\n")
		adent := indent + f.indent()
		for _, elt := range t {
			w.WriteString(adent)
			f.formatValue(w, elt, adent)
			w.WriteByte('\n')
		}
		fmt.Fprint(w, indent, "}")

	default:
		w.WriteString(scalarText(v))
	}
}

// hasBlock reports whether a contains any Object or Array element.
func hasBlock(a Array) bool {
	for _, v := range a {
		switch v.(type) {
		case *Object, Array:
			return true
		}
	}
	return false
}

// scalarText renders a scalar value as a save-file identifier.
func scalarText(v Value) string {
	if s, ok := v.(String); ok {
		return quoteText(string(s))
	}
	return v.String()
}

// quoteText returns s, quoted if required to scan as one identifier.
func quoteText(s string) string {
	if !pdxtree.NeedsQuote(s) {
		return s
	}
	q, _ := pdxtree.Quote(s)
	return q
}

// compactString renders a block on a single line.
func compactString(v Value) string {
	var sb strings.Builder
	compact(&sb, v)
	return sb.String()
}

func compact(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case *Object:
		sb.WriteString("{")
		for _, m := range t.members {
			sb.WriteString(" ")
			sb.WriteString(quoteText(m.Key))
			sb.WriteString("=")
			compact(sb, m.Value)
		}
		sb.WriteString(" }")
	case Array:
		sb.WriteString("{")
		for _, elt := range t {
			sb.WriteString(" ")
			compact(sb, elt)
		}
		sb.WriteString(" }")
	default:
		sb.WriteString(scalarText(v))
	}
}
