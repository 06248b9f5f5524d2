// Package query implements structural queries over save-file trees.
//
// A Query names a part of a tree: a member of a block, an element of a
// merged array, every descendant with some key, and so on. Eval applies a
// query to a concrete tree and returns the value it selects, or an error
// explaining where the tree did not have the expected shape.
//
// Most queries start with Path, which follows keys and offsets down from the
// root. Given the save-file text
//
//	production={
//		military_lines={ id={ id=783 type=56 } speed=36.235 }
//		military_lines={ id={ id=784 type=56 } speed=12.000 }
//	}
//
// the query
//
//	query.Path("production", "military_lines", 1, "speed")
//
// yields the value 12.0. Repeated keys are merged into an array when the tree
// is parsed, so the second "military_lines" member is at offset 1.
//
// Queries can also be compiled from path expressions with Compile, and a tree
// can be searched for text with Search.
package query

import (
	"errors"
	"fmt"

	"github.com/ValsGeorge/pdxtree/ast"
)

// A Query describes a traversal of a tree.
type Query interface {
	eval(ast.Value) (ast.Value, error)
}

// Eval applies q to root and returns the selected value.
func Eval(root ast.Value, q Query) (ast.Value, error) { return q.eval(root) }

// Path returns a query that follows keys down from its input. A string key
// selects an object member, an int selects an array element (negative values
// count from the end), and a Query is applied as-is. Path with no keys
// selects its input. Path panics if a key has any other type.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathElem(keys[0])
	}
	var out Seq
	for _, key := range keys {
		switch q := pathElem(key).(type) {
		case Seq:
			out = append(out, q...)
		default:
			out = append(out, q)
		}
	}
	return out
}

func pathElem(key any) Query {
	switch t := key.(type) {
	case string:
		return objKey(t)
	case int:
		return nthQuery(t)
	case Query:
		return t
	}
	panic("invalid path element")
}

// as calls f with v if v has type T, and otherwise reports an error naming
// the kind of value wanted.
func as[T ast.Value](v ast.Value, want ast.Kind, f func(T) (ast.Value, error)) (ast.Value, error) {
	if t, ok := v.(T); ok {
		return f(t)
	}
	return nil, fmt.Errorf("got %v, want %v", kindOf(v), want)
}

type objKey string

func (o objKey) eval(v ast.Value) (ast.Value, error) {
	return as(v, ast.ObjectKind, func(obj *ast.Object) (ast.Value, error) {
		if val, ok := obj.Get(string(o)); ok {
			return val, nil
		}
		return nil, fmt.Errorf("key %q not found", o)
	})
}

type nthQuery int

func (nq nthQuery) eval(v ast.Value) (ast.Value, error) {
	return as(v, ast.ArrayKind, func(arr ast.Array) (ast.Value, error) {
		i, ok := offset(int(nq), len(arr))
		if !ok {
			return nil, fmt.Errorf("index %d out of range (0..%d)", nq, len(arr))
		}
		return arr[i], nil
	})
}

// offset resolves a possibly-negative offset into a sequence of length n,
// and reports whether it is in range.
func offset(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

// Seq applies each of its queries to the result of the one before it,
// starting from the input. An empty Seq selects its input.
type Seq []Query

func (q Seq) eval(v ast.Value) (ast.Value, error) {
	for _, step := range q {
		var err error
		if v, err = step.eval(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Alt tries each of its queries against the input in order, and yields the
// first result that is not an error. An empty Alt always fails.
type Alt []Query

func (q Alt) eval(v ast.Value) (ast.Value, error) {
	for _, alt := range q {
		if w, err := alt.eval(v); err == nil {
			return w, nil
		}
	}
	return nil, errors.New("no matching alternatives")
}

// Recur applies Path(keys...) to its input and every value nested inside it,
// and returns an array of the results that did not fail, in document order.
// It fails if there are none.
func Recur(keys ...any) Query { return recQuery{Path(keys...)} }

type recQuery struct{ Query }

func (q recQuery) eval(v ast.Value) (ast.Value, error) {
	var out ast.Array
	walk(v, func(next ast.Value) {
		if r, err := q.Query.eval(next); err == nil {
			out = append(out, r)
		}
	})
	if len(out) == 0 {
		return nil, errors.New("no matches")
	}
	return out, nil
}

// walk calls f for v and each of its descendants in document order. Saves
// nest deeply, so it keeps its own stack rather than recurring.
func walk(v ast.Value, f func(ast.Value)) {
	stk := []ast.Value{v}
	for n := len(stk); n != 0; n = len(stk) {
		top := stk[n-1]
		stk = stk[:n-1]
		f(top)

		// Children are pushed last-first so the first is popped next.
		switch t := top.(type) {
		case *ast.Object:
			for i := t.Len(); i > 0; i-- {
				stk = append(stk, t.At(i-1).Value)
			}
		case ast.Array:
			for i := len(t); i > 0; i-- {
				stk = append(stk, t[i-1])
			}
		}
	}
}

func kindOf(v ast.Value) ast.Kind {
	if v == nil {
		return ast.InvalidKind
	}
	return v.Kind()
}
