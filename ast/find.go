// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"slices"
	"strconv"
	"strings"
)

// A Path locates a value within a tree. Each element is either a string
// (an object key) or an int (an array offset).
type Path []any

// String renders p with elements separated by slashes and array offsets in
// brackets, for example "production/equipment/[0]/id".
func (p Path) String() string {
	var sb strings.Builder
	for i, elt := range p {
		if i > 0 {
			sb.WriteByte('/')
		}
		switch t := elt.(type) {
		case string:
			sb.WriteString(t)
		case int:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(t))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// FindOptions bound the cost of a Find. A zero value means no limit.
type FindOptions struct {
	// Values nested more than MaxDepth levels below the root are not
	// visited. The children of the root are at depth 1.
	MaxDepth int

	// Find stops after MaxResults values have been found.
	MaxResults int
}

// A Hit is a value reported by Find, with its path from the root.
type Hit struct {
	Path  Path
	Value Value
}

// Find visits the values below root in pre-order, and returns a Hit for
// each value for which pred reports true. The root itself is not visited.
// The path passed to pred is only valid for the duration of the call.
//
// Find uses an explicit stack, so it is safe on arbitrarily deep trees.
func Find(root Value, pred func(Path, Value) bool, opts FindOptions) []Hit {
	type entry struct {
		depth int // length of the path to value
		elt   any // last element of the path to value
		value Value
	}
	var hits []Hit
	var stk []entry
	var path Path

	// push adds the children of v at the given depth to the stack, in
	// reverse so that they are popped in order.
	push := func(depth int, v Value) {
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return
		}
		switch t := v.(type) {
		case *Object:
			for i := len(t.members) - 1; i >= 0; i-- {
				m := t.members[i]
				stk = append(stk, entry{depth + 1, m.Key, m.Value})
			}
		case Array:
			for i := len(t) - 1; i >= 0; i-- {
				stk = append(stk, entry{depth + 1, i, t[i]})
			}
		}
	}

	push(0, root)
	for len(stk) != 0 {
		next := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		path = append(path[:next.depth-1], next.elt)
		if pred(path, next.value) {
			hits = append(hits, Hit{Path: slices.Clone(path), Value: next.value})
			if opts.MaxResults > 0 && len(hits) >= opts.MaxResults {
				break
			}
		}
		push(next.depth, next.value)
	}
	return hits
}
