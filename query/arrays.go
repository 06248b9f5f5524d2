package query

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ValsGeorge/pdxtree/ast"
)

// Selection keeps the elements of its input array for which the function
// reports true. The result is an array, possibly empty.
type Selection func(ast.Value) bool

func (q Selection) eval(v ast.Value) (ast.Value, error) {
	return as(v, ast.ArrayKind, func(arr ast.Array) (ast.Value, error) {
		out := ast.Array{}
		for _, elt := range arr {
			if q(elt) {
				out = append(out, elt)
			}
		}
		return out, nil
	})
}

// Mapping replaces each element of its input array with the result of the
// function applied to that element.
type Mapping func(ast.Value) ast.Value

func (q Mapping) eval(v ast.Value) (ast.Value, error) {
	return as(v, ast.ArrayKind, func(arr ast.Array) (ast.Value, error) {
		out := make(ast.Array, len(arr))
		for i, elt := range arr {
			out[i] = q(elt)
		}
		return out, nil
	})
}

// Each applies Path(keys...) to every element of its input array, and fails
// if any element does. For example, Each("id", "id") turns an array of
// military lines into an array of their numeric IDs.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

type eachQuery struct{ Query }

func (q eachQuery) eval(v ast.Value) (ast.Value, error) {
	return as(v, ast.ArrayKind, func(arr ast.Array) (ast.Value, error) {
		out := make(ast.Array, len(arr))
		for i, elt := range arr {
			r, err := q.Query.eval(elt)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = r
		}
		return out, nil
	})
}

// Slice selects the elements of an array at offsets lo up to but not
// including hi. Negative offsets count from the end, and hi == 0 means the
// end of the array. The result is a new array, so appending to it does not
// change the input.
func Slice(lo, hi int) Query { return sliceQuery{lo, hi} }

type sliceQuery struct{ lo, hi int }

func (q sliceQuery) eval(v ast.Value) (ast.Value, error) {
	return as(v, ast.ArrayKind, func(arr ast.Array) (ast.Value, error) {
		lo, hi, err := q.bounds(len(arr))
		if err != nil {
			return nil, err
		}
		return slices.Clone(arr[lo:hi]), nil
	})
}

// bounds resolves q against an array of length n.
func (q sliceQuery) bounds(n int) (lo, hi int, _ error) {
	lo, hi = q.lo, q.hi
	if lo < 0 {
		lo += n
	}
	if hi <= 0 {
		hi += n
	}
	switch {
	case lo < 0 || lo > n:
		return 0, 0, fmt.Errorf("index %d out of range (0..%d)", q.lo, n)
	case hi < 0 || hi > n:
		return 0, 0, fmt.Errorf("index %d out of range (0..%d)", q.hi, n)
	case lo > hi:
		return 0, 0, fmt.Errorf("index start %d > end %d", q.lo, q.hi)
	}
	return lo, hi, nil
}

// Pick selects the elements of an array at the given offsets, in the order
// given. Negative offsets count from the end.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

type pickQuery []int

func (q pickQuery) eval(v ast.Value) (ast.Value, error) {
	return as(v, ast.ArrayKind, func(arr ast.Array) (ast.Value, error) {
		out := make(ast.Array, 0, len(q))
		for _, off := range q {
			i, ok := offset(off, len(arr))
			if !ok {
				return nil, fmt.Errorf("index %d out of range (0..%d)", off, len(arr))
			}
			out = append(out, arr[i])
		}
		return out, nil
	})
}

// Glob selects the values inside its input as a new array: the member
// values of an object in order, or a copy of the elements of an array. It
// fails on scalars.
func Glob() Query { return globQuery{} }

type globQuery struct{}

func (globQuery) eval(v ast.Value) (ast.Value, error) {
	switch t := v.(type) {
	case *ast.Object:
		out := make(ast.Array, 0, t.Len())
		for _, val := range t.All() {
			out = append(out, val)
		}
		return out, nil
	case ast.Array:
		return slices.Clone(t), nil
	}
	return nil, errors.New("no matching values")
}

// Len yields the size of its input as an integer: the member count of an
// object, the element count of an array, or the byte length of a string.
func Len() Query { return lenQuery{} }

type lenQuery struct{}

func (lenQuery) eval(v ast.Value) (ast.Value, error) {
	var n int
	switch t := v.(type) {
	case *ast.Object:
		n = t.Len()
	case ast.Array:
		n = len(t)
	case ast.String:
		n = len(t)
	default:
		return nil, fmt.Errorf("cannot take length of %v", kindOf(v))
	}
	return ast.Integer(n), nil
}
