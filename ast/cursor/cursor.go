// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the structure of a save-file tree.
//
// A Cursor starts at an origin value and moves down by keys and offsets,
// remembering the route it took so that it can move back up and report
// where it is:
//
//	c := cursor.New(root).Down("countries", 0, "politics")
//	if err := c.Err(); err != nil {
//		return err
//	}
//	fmt.Println(ast.Path(c.Keys())) // countries/GER/politics
package cursor

import (
	"fmt"

	"github.com/ValsGeorge/pdxtree/ast"
)

// Path is shorthand for New(v).Down(path...), returning the value reached if
// it has type T.
func Path[T ast.Value](v ast.Value, path ...any) (T, error) {
	c := New(v).Down(path...)
	var zero T
	if err := c.Err(); err != nil {
		return zero, err
	}
	if tv, ok := c.Value().(T); ok {
		return tv, nil
	}
	return zero, fmt.Errorf("wrong value type %v", kindOf(c.Value()))
}

// A Cursor is a position in a tree, together with the route from its origin.
// A zero Cursor is not ready for use; call New.
type Cursor struct {
	org   ast.Value
	steps []step
	err   error
}

// A step records one move down: the normalized key taken and the value
// reached.
type step struct {
	key any
	val ast.Value
}

// New constructs a Cursor positioned at origin.
func New(origin ast.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() ast.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.steps) == 0 }

// Value returns the value under the cursor.
func (c *Cursor) Value() ast.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.steps[len(c.steps)-1].val
}

// Path returns the values from the origin to the current position,
// inclusive, so that Path()[i] is the value from which Keys()[i] was taken.
func (c *Cursor) Path() []ast.Value {
	out := make([]ast.Value, 1, len(c.steps)+1)
	out[0] = c.org
	for _, s := range c.steps {
		out = append(out, s.val)
	}
	return out
}

// Keys returns the route from the origin to the current position. Object
// members are named by key even when they were reached by offset, and
// negative array offsets are resolved, so the result names the position
// independently of how it was reached. A function element is reported as
// nil.
func (c *Cursor) Keys() []any {
	out := make([]any, len(c.steps))
	for i, s := range c.steps {
		out[i] = s.key
	}
	return out
}

// Err reports the error from the most recent call to Down, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor to the parent of its current value, if it is not
// already at the origin. It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.steps); n > 0 {
		c.steps = c.steps[:n-1]
	}
	return c
}

// Reset moves the cursor back to its origin and clears its error.
func (c *Cursor) Reset() { c.steps = c.steps[:0]; c.err = nil }

// Down moves the cursor along path from its current value. If the whole path
// is valid, the cursor is left on the value reached; otherwise it stops at
// the last value it could reach and records an error, reported by Err.
//
// Each element of path is one of:
//
//   - a string, which selects the member of an object with that key;
//   - an int, which selects an element of an array, or the value of the
//     member at that offset of an object (negative values count from the
//     end, so -1 is the last);
//   - a func(ast.Value) (ast.Value, error), whose result becomes the next
//     value, and whose error stops the traversal;
//   - nil, which is ignored.
//
// Repeated keys in a save file are merged into an array, so the path
// ("production", "military_lines", 0) selects the first of several members
// with the key "military_lines".
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case nil:
			continue

		case string:
			obj, ok := cur.(*ast.Object)
			if !ok {
				return c.fail("cannot traverse %v with %q", kindOf(cur), t)
			}
			v, ok := obj.Get(t)
			if !ok {
				return c.fail("key %q not found", t)
			}
			cur = c.push(t, v)

		case int:
			switch e := cur.(type) {
			case ast.Array:
				i, ok := fixBound(t, len(e))
				if !ok {
					return c.fail("array index %d out of bounds (n=%d)", t, len(e))
				}
				cur = c.push(i, e[i])
			case *ast.Object:
				i, ok := fixBound(t, e.Len())
				if !ok {
					return c.fail("object index %d out of bounds (n=%d)", t, e.Len())
				}
				m := e.At(i)
				cur = c.push(m.Key, m.Value)
			default:
				return c.fail("cannot traverse %v with %d", kindOf(cur), t)
			}

		case func(ast.Value) (ast.Value, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(nil, next)

		default:
			return c.fail("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(key any, v ast.Value) ast.Value {
	c.steps = append(c.steps, step{key: key, val: v})
	return v
}

func (c *Cursor) fail(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixBound(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

func kindOf(v ast.Value) ast.Kind {
	if v == nil {
		return ast.InvalidKind
	}
	return v.Kind()
}
