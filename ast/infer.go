// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"math"

	"go4.org/mem"
)

// Infer returns the scalar value denoted by text. The rules are tried in
// order and the first match wins:
//
//	yes, no                    Bool
//	-?D.D.D or -?D.D.D.D       Date (Y.M.D or Y.M.D.H)
//	-?D                        Integer
//	-?D.D                      Float
//	anything else              String, verbatim
//
// where D is a run of decimal digits. A numeric shape whose value does not
// fit its type, such as an integer beyond the int64 range, is a String.
// Infer never fails.
func Infer(text string) Value { return infer(mem.S(text)) }

// InferBytes is as Infer, but takes its input as a byte slice. The result
// does not retain text.
func InferBytes(text []byte) Value { return infer(mem.B(text)) }

func infer(m mem.RO) Value {
	if m.EqualString("yes") {
		return Bool(true)
	} else if m.EqualString("no") {
		return Bool(false)
	}

	switch dots, ok := numericShape(m); {
	case !ok:
		// fall through to String
	case dots == 0:
		if v, err := mem.ParseInt(m, 10, 64); err == nil {
			return Integer(v)
		}
	case dots == 1:
		if v, err := mem.ParseFloat(m, 64); err == nil && !math.IsInf(v, 0) {
			return Float(v)
		}
	case dots == 2 || dots == 3:
		if d, ok := parseDate(m); ok {
			return d
		}
	}
	return String(m.StringCopy())
}

// numericShape reports whether m consists of an optional minus sign followed
// by one or more runs of digits separated by single dots, and if so how many
// dots it contains.
func numericShape(m mem.RO) (dots int, ok bool) {
	i := 0
	if m.Len() != 0 && m.At(0) == '-' {
		i++
	}
	run := 0 // length of the current digit run
	for ; i < m.Len(); i++ {
		switch b := m.At(i); {
		case b >= '0' && b <= '9':
			run++
		case b == '.' && run != 0:
			dots++
			run = 0
		default:
			return 0, false
		}
	}
	return dots, run != 0
}

// parseDate parses a value already known to have date shape.
func parseDate(m mem.RO) (Date, bool) {
	var parts [4]int
	n := 0
	for m.Len() != 0 {
		end := mem.IndexByte(m, '.')
		if end < 0 {
			end = m.Len()
		}
		v, err := mem.ParseInt(m.SliceTo(end), 10, 32)
		if err != nil {
			return Date{}, false
		}
		parts[n] = int(v)
		n++
		if end == m.Len() {
			break
		}
		m = m.SliceFrom(end + 1)
	}
	return Date{
		Year:    parts[0],
		Month:   parts[1],
		Day:     parts[2],
		Hour:    parts[3],
		HasHour: n == 4,
	}, true
}
