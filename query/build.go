package query

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ValsGeorge/pdxtree/ast"
)

// Object builds a new object whose members are the results of applying each
// query to the input. Members are added in key order, and the first query
// to fail fails the whole object.
type Object map[string]Query

func (o Object) eval(v ast.Value) (ast.Value, error) {
	out := ast.NewObject()
	for _, key := range slices.Sorted(maps.Keys(o)) {
		val, err := o[key].eval(v)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", key, err)
		}
		out.Add(key, val)
	}
	return out, nil
}

// Array builds a new array of the results of applying each query to the
// input.
type Array []Query

func (a Array) eval(v ast.Value) (ast.Value, error) {
	out := make(ast.Array, len(a))
	for i, q := range a {
		val, err := q.eval(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = val
	}
	return out, nil
}

// Value returns a query that yields v regardless of its input.
func Value(v ast.Value) Query { return constQuery{v} }

// String, Float, Int, and Bool are shorthands for Value of the matching
// scalar type.
func String(s string) Query { return Value(ast.String(s)) }

func Float(n float64) Query { return Value(ast.Float(n)) }

func Int(z int64) Query { return Value(ast.Integer(z)) }

func Bool(b bool) Query { return Value(ast.Bool(b)) }

type constQuery struct{ ast.Value }

func (c constQuery) eval(ast.Value) (ast.Value, error) { return c.Value, nil }
