package query

import (
	"slices"

	"github.com/ValsGeorge/pdxtree/ast"
)

// Exists returns a selection that reports true if its argument satisfies the
// path query of the given keys, which have the same constraints as Path.
//
// For example, to keep only the countries that track party popularity:
//
//	Path("countries", Glob(), Exists("politics", "parties"))
func Exists(keys ...any) Selection {
	q := Path(keys...)
	return func(v ast.Value) bool { _, err := q.eval(v); return err == nil }
}

// Where returns a selection that reports true if its argument is an object
// with a member named key whose value satisfies sel. When a block repeats
// the key, the merged array is passed to sel.
func Where(key string, sel Selection) Selection {
	return Filter(func(o *ast.Object) bool {
		v, ok := o.Get(key)
		return ok && sel(v)
	})
}

// Equal returns a selection that reports true if its argument is equal to v.
func Equal(v ast.Value) Selection {
	return func(w ast.Value) bool { return ast.Equal(v, w) }
}

// OfKind returns a selection that reports true if its argument has one of
// the given kinds.
func OfKind(kinds ...ast.Kind) Selection {
	return func(v ast.Value) bool { return slices.Contains(kinds, kindOf(v)) }
}

// Is returns a selection that reports true if its argument is of type T.
func Is[T ast.Value]() Selection {
	return Filter(func(T) bool { return true })
}

// IsNot returns a selection that reports true if its argument is not of type T.
func IsNot[T ast.Value]() Selection {
	is := Is[T]()
	return func(v ast.Value) bool { return !is(v) }
}

// Map constructs a mapping from f. Values whose type is not T are passed
// through unmodified, so that a block mixing integers and floats (as the
// parser infers them from text) can be mapped by kind.
func Map[T, U ast.Value](f func(T) U) Mapping {
	return func(v ast.Value) ast.Value {
		if t, ok := v.(T); ok {
			return f(t)
		}
		return v
	}
}

// Filter constructs a selection from f, discarding values whose type is not T.
func Filter[T ast.Value](f func(T) bool) Selection {
	return func(v ast.Value) bool { t, ok := v.(T); return ok && f(t) }
}
