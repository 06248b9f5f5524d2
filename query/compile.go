package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ValsGeorge/pdxtree/ast"
	"github.com/ValsGeorge/pdxtree/jpath"
)

// Compile parses expr as a path expression (see package jpath) and returns a
// query that evaluates it.
//
// If every step of the expression selects at most one value (a key or a
// single array offset), the resulting query is equivalent to Path and yields
// the selected value. Otherwise, the query yields an array of all the values
// selected, in document order, and reports an error if there are none.
func Compile(expr string) (Query, error) {
	e, err := jpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	q, err := compileExpr(e)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	return q, nil
}

func compileExpr(e jpath.Expr) (Query, error) {
	if keys, ok := singlePath(e); ok {
		return Path(keys...), nil
	}
	var out setQuery
	for _, step := range e {
		f, err := compileStep(step)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// singlePath reports whether e selects at most one value, and if so returns
// the keys and offsets of the equivalent Path.
func singlePath(e jpath.Expr) ([]any, bool) {
	keys := make([]any, 0, len(e))
	for _, step := range e {
		switch step.Op {
		case jpath.Member:
			if step.Arg2 == jpath.Wildcard.String() {
				return nil, false
			}
			keys = append(keys, step.Arg1)
		case jpath.Name, jpath.QName:
			keys = append(keys, step.Arg1)
		case jpath.Index:
			n, err := strconv.Atoi(step.Arg1)
			if err != nil {
				return nil, false // e.g., a list of offsets
			}
			keys = append(keys, n)
		default:
			return nil, false
		}
	}
	return keys, true
}

func compileStep(step jpath.Step) (setFunc, error) {
	switch step.Op {
	case jpath.Member:
		if step.Arg2 == jpath.Wildcard.String() {
			return children, nil
		}
		return member(step.Arg1), nil
	case jpath.Name, jpath.QName:
		return member(step.Arg1), nil
	case jpath.Wildcard:
		return children, nil
	case jpath.Recur:
		if step.Arg2 == jpath.Wildcard.String() {
			return descendants, nil
		}
		return recurKey(step.Arg1), nil
	case jpath.Index:
		var offsets []int
		for s := range strings.SplitSeq(step.Arg1, ",") {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("invalid offset %q", s)
			}
			offsets = append(offsets, n)
		}
		return pick(offsets), nil
	case jpath.Slice:
		lo, err := atoiOrZero(step.Arg1)
		if err != nil {
			return nil, err
		}
		hi, err := atoiOrZero(step.Arg2)
		if err != nil {
			return nil, err
		}
		return slice(sliceQuery{lo, hi}), nil
	}
	return nil, fmt.Errorf("unsupported step %v", step.Op)
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	return n, nil
}

// A setFunc maps a set of selected values to the next set.
type setFunc func([]ast.Value) []ast.Value

// setQuery evaluates a sequence of setFuncs starting from its input.
type setQuery []setFunc

func (q setQuery) eval(v ast.Value) (ast.Value, error) {
	cur := []ast.Value{v}
	for _, f := range q {
		cur = f(cur)
		if len(cur) == 0 {
			return nil, errors.New("no matches")
		}
	}
	return ast.Array(cur), nil
}

func member(key string) setFunc {
	return func(in []ast.Value) (out []ast.Value) {
		for _, v := range in {
			if obj, ok := v.(*ast.Object); ok {
				if w, ok := obj.Get(key); ok {
					out = append(out, w)
				}
			}
		}
		return out
	}
}

func children(in []ast.Value) (out []ast.Value) {
	for _, v := range in {
		if w, err := (globQuery{}).eval(v); err == nil {
			out = append(out, w.(ast.Array)...)
		}
	}
	return out
}

func descendants(in []ast.Value) (out []ast.Value) {
	for _, v := range children(in) {
		walk(v, func(next ast.Value) { out = append(out, next) })
	}
	return out
}

func recurKey(key string) setFunc {
	get := member(key)
	return func(in []ast.Value) (out []ast.Value) {
		for _, v := range in {
			walk(v, func(next ast.Value) {
				out = append(out, get([]ast.Value{next})...)
			})
		}
		return out
	}
}

func pick(offsets []int) setFunc {
	return func(in []ast.Value) (out []ast.Value) {
		for _, v := range in {
			arr, ok := v.(ast.Array)
			if !ok {
				continue
			}
			for _, off := range offsets {
				if i, ok := offset(off, len(arr)); ok {
					out = append(out, arr[i])
				}
			}
		}
		return out
	}
}

func slice(sq sliceQuery) setFunc {
	return func(in []ast.Value) (out []ast.Value) {
		for _, v := range in {
			if arr, ok := v.(ast.Array); ok {
				if lo, hi, err := sq.bounds(len(arr)); err == nil {
					out = append(out, arr[lo:hi]...)
				}
			}
		}
		return out
	}
}
