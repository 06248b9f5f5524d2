// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a value tree for parsed save files, and a parser that
// constructs trees from save-file source text.
//
// A tree is built from a closed set of concrete types: *Object, Array, and
// the scalars Integer, Float, Bool, Date, and String. No type outside this
// package implements Value, so a type switch over these cases is exhaustive.
package ast

import (
	"fmt"
	"iter"
	"strconv"
)

// A Kind identifies the concrete type of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	InvalidKind Kind = iota
	ObjectKind
	ArrayKind
	IntegerKind
	FloatKind
	BoolKind
	DateKind
	StringKind
)

var kindStr = [...]string{
	InvalidKind: "invalid",
	ObjectKind:  "object",
	ArrayKind:   "array",
	IntegerKind: "integer",
	FloatKind:   "float",
	BoolKind:    "bool",
	DateKind:    "date",
	StringKind:  "string",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[InvalidKind]
	}
	return kindStr[k]
}

// A Value is a node of a save-file tree.
type Value interface {
	// Kind reports the kind of the value.
	Kind() Kind

	// String renders the value as save-file text on a single line.
	String() string

	isValue()
}

// An Object is an ordered collection of key-value members with unique keys.
// Members are kept in the order their keys were first added. A zero Object
// is empty and ready for use.
type Object struct {
	members []*Member
	index   map[string]int // key → offset in members
}

// NewObject constructs an object from the given members, in order. Members
// that repeat a key are merged as by Add.
func NewObject(mems ...*Member) *Object {
	o := &Object{index: make(map[string]int, len(mems))}
	for _, m := range mems {
		o.Add(m.Key, m.Value)
	}
	return o
}

// Kind satisfies the Value interface.
func (*Object) Kind() Kind { return ObjectKind }

// String satisfies the Value interface.
func (o *Object) String() string { return compactString(o) }

func (*Object) isValue() {}

// Add adds a member with the given key and value to o.
//
// If o has no member with this key, a new member is appended. Otherwise the
// values are merged: the second value for a key replaces the member's value
// with a two-element Array holding the old and new values, and each later
// value is appended to that array. A value that was already an Array before
// the second Add becomes the first element of the merged array.
func (o *Object) Add(key string, v Value) {
	if i, ok := o.index[key]; ok {
		m := o.members[i]
		if a, ok := m.Value.(Array); ok && m.merged {
			m.Value = append(a, v)
		} else {
			m.Value = Array{m.Value, v}
			m.merged = true
		}
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, &Member{Key: key, Value: v})
}

// Len reports the number of members in o.
func (o *Object) Len() int { return len(o.members) }

// At returns the member of o at offset i, where 0 ≤ i < o.Len().
func (o *Object) At(i int) *Member { return o.members[i] }

// Find returns the member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	if i, ok := o.index[key]; ok {
		return o.members[i]
	}
	return nil
}

// Get returns the value of the member of o with the given key, and reports
// whether it was found.
func (o *Object) Get(key string) (Value, bool) {
	if m := o.Find(key); m != nil {
		return m.Value, true
	}
	return nil, false
}

// Keys returns the keys of o in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// All returns an iterator over the keys and values of o, in order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, m := range o.members {
			if !yield(m.Key, m.Value) {
				return
			}
		}
	}
}

// Equal reports whether o and p have equal members in the same order.
func (o *Object) Equal(p *Object) bool {
	if o == nil || p == nil {
		return o == p
	}
	if len(o.members) != len(p.members) {
		return false
	}
	for i, m := range o.members {
		n := p.members[i]
		if m.Key != n.Key || !Equal(m.Value, n.Value) {
			return false
		}
	}
	return true
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value

	merged bool // Value is an array built by merging repeated keys
}

// Field constructs a member with the given key and value.
func Field(key string, v Value) *Member { return &Member{Key: key, Value: v} }

// An Array is a sequence of values. Elements need not share a kind.
type Array []Value

// Kind satisfies the Value interface.
func (Array) Kind() Kind { return ArrayKind }

// String satisfies the Value interface.
func (a Array) String() string { return compactString(a) }

func (Array) isValue() {}

// An Integer is a signed 64-bit integer value.
type Integer int64

// Kind satisfies the Value interface.
func (Integer) Kind() Kind { return IntegerKind }

func (z Integer) String() string { return strconv.FormatInt(int64(z), 10) }

func (Integer) isValue() {}

// A Float is a 64-bit floating-point value.
type Float float64

// Kind satisfies the Value interface.
func (Float) Kind() Kind { return FloatKind }

// String renders f in decimal notation. The result always contains a decimal
// point, so that it is read back as a Float and not an Integer.
func (f Float) String() string { return string(appendFloat(nil, float64(f))) }

func (Float) isValue() {}

// A Bool is a Boolean value, written "yes" or "no".
type Bool bool

// Kind satisfies the Value interface.
func (Bool) Kind() Kind { return BoolKind }

func (b Bool) String() string {
	if b {
		return "yes"
	}
	return "no"
}

func (Bool) isValue() {}

// A Date is a calendar date with an optional hour, written Y.M.D or Y.M.D.H.
type Date struct {
	Year, Month, Day int
	Hour             int
	HasHour          bool // Hour was given
}

// Kind satisfies the Value interface.
func (Date) Kind() Kind { return DateKind }

func (d Date) String() string {
	if d.HasHour {
		return fmt.Sprintf("%d.%d.%d.%d", d.Year, d.Month, d.Day, d.Hour)
	}
	return fmt.Sprintf("%d.%d.%d", d.Year, d.Month, d.Day)
}

func (Date) isValue() {}

// A String is any scalar value not recognized as another kind.
type String string

// Kind satisfies the Value interface.
func (String) Kind() Kind { return StringKind }

// String returns s verbatim, without quotation.
func (s String) String() string { return string(s) }

func (String) isValue() {}

// Equal reports whether a and b are structurally equal trees. Objects are
// equal if they have the same keys in the same order with equal values.
// Values of different kinds are never equal.
func Equal(a, b Value) bool {
	switch t := a.(type) {
	case *Object:
		u, ok := b.(*Object)
		return ok && t.Equal(u)
	case Array:
		u, ok := b.(Array)
		if !ok || len(t) != len(u) {
			return false
		}
		for i := range t {
			if !Equal(t[i], u[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		// The scalar types are all comparable.
		return a == b
	}
}

// appendFloat appends the decimal representation of f to buf, adding ".0"
// if the representation would otherwise read as an integer.
func appendFloat(buf []byte, f float64) []byte {
	start := len(buf)
	buf = strconv.AppendFloat(buf, f, 'f', -1, 64)
	for _, b := range buf[start:] {
		if b == '.' {
			return buf
		}
	}
	return append(buf, ".0"...)
}
