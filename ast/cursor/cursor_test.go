// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor_test

import (
	"errors"
	"testing"

	"github.com/ValsGeorge/pdxtree/ast"
	"github.com/ValsGeorge/pdxtree/ast/cursor"
	"github.com/ValsGeorge/pdxtree/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

const testSave = `
list={ { x=1 } { x=2 } }
y={ hello=there }
o={ hi yourself }
xyz={ p=yes d=yes q=no }
equipments={
	infantry_equipment={ id={ id=12 type=66 } }
	artillery_equipment={ id={ id=13 type=66 } }
	artillery_equipment={ id={ id=14 type=66 } }
}
`

func TestCursor(t *testing.T) {
	v := testutil.MustParse(t, testSave)
	get := func(path ...any) ast.Value {
		var cur ast.Value = v
		for _, elt := range path {
			switch t := elt.(type) {
			case string:
				cur, _ = cur.(*ast.Object).Get(t)
			case int:
				cur = cur.(ast.Array)[t]
			}
		}
		return cur
	}

	tests := []struct {
		name string
		path []any
		want ast.Value
		fail bool
	}{
		{"NilInput", nil, v, false},
		{"NoMatch", []any{"nonesuch"}, v, true},
		{"WrongType", []any{"y", "hello", 0}, get("y", "hello"), true},

		{"ArrayPos", []any{"list", 1}, get("list", 1), false},
		{"ArrayNeg", []any{"list", -1}, get("list", 1), false},
		{"ArrayRange", []any{"o", 25}, get("o"), true},
		{"ObjPath", []any{"xyz", "d"}, ast.Bool(true), false},
		{"ObjIndex", []any{"xyz", -1}, ast.Bool(false), false},
		{"ObjRange", []any{"xyz", 3}, get("xyz"), true},
		{"NilElement", []any{"y", nil, "hello"}, ast.String("there"), false},
		{"BadElement", []any{"y", 1.5}, get("y"), true},

		{"Merged", []any{"equipments", "artillery_equipment", 1, "id", "id"}, ast.Integer(14), false},

		{"FuncArray", []any{"o", testPathFunc}, ast.Integer(2), false},
		{"FuncObj", []any{"xyz", testPathFunc}, ast.Integer(3), false},
		{"FuncWrong", []any{"xyz", "d", testPathFunc}, ast.Bool(true), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cursor.New(v).Down(tc.path...)
			err := c.Err()
			if err != nil {
				if tc.fail {
					t.Logf("Got expected error: %v", err)
				} else {
					t.Fatalf("Down %+v: unexpected error: %v", tc.path, err)
				}
			} else if tc.fail {
				t.Fatalf("Down %+v: got %v, want error", tc.path, c.Value())
			}
			got := c.Value()
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Down %+v: wrong result (-want, +got):\n%s", tc.path, diff)
			} else if err == nil {
				t.Logf("Found %v OK", got)
			}
		})
	}
}

func TestCursorNavigation(t *testing.T) {
	v := testutil.MustParse(t, testSave)
	c := cursor.New(v)
	if !c.AtOrigin() {
		t.Error("New cursor is not at origin")
	}

	c.Down("list", 0, "x")
	if err := c.Err(); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if got := c.Value(); got != ast.Integer(1) {
		t.Errorf("Value: got %v, want 1", got)
	}
	if got := len(c.Path()); got != 4 {
		t.Errorf("Path: got %d values, want 4", got)
	}

	// Up to the array element, and across to its sibling.
	c.Up().Up().Down(1, "x")
	if got := c.Value(); got != ast.Integer(2) {
		t.Errorf("Value after Up: got %v, want 2", got)
	}

	c.Down("nonesuch")
	if c.Err() == nil {
		t.Error("Down(nonesuch): got nil error")
	}
	c.Reset()
	if !c.AtOrigin() || c.Err() != nil {
		t.Errorf("Reset: at origin %v, err %v", c.AtOrigin(), c.Err())
	}
	if c.Origin() != ast.Value(v) {
		t.Error("Origin changed")
	}

	// Up at the origin stays there.
	if !c.Up().AtOrigin() {
		t.Error("Up from origin moved the cursor")
	}
}

func TestPath(t *testing.T) {
	v := testutil.MustParse(t, testSave)

	id, err := cursor.Path[ast.Integer](v, "equipments", "infantry_equipment", "id", "type")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if id != 66 {
		t.Errorf("Path: got %v, want 66", id)
	}

	arts, err := cursor.Path[ast.Array](v, "equipments", "artillery_equipment")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if len(arts) != 2 {
		t.Errorf("Path: got %d entries, want 2", len(arts))
	}

	if _, err := cursor.Path[*ast.Object](v, "o"); err == nil {
		t.Error("Path with wrong type: got nil error")
	}
	if _, err := cursor.Path[ast.Value](v, "nonesuch"); err == nil {
		t.Error("Path with missing key: got nil error")
	}
}

func testPathFunc(v ast.Value) (ast.Value, error) {
	switch t := v.(type) {
	case ast.Array:
		return ast.Integer(len(t)), nil
	case *ast.Object:
		return ast.Integer(t.Len()), nil
	default:
		return nil, errors.New("not a thing with length")
	}
}

func TestKeys(t *testing.T) {
	v := testutil.MustParse(t, testSave)

	tests := []struct {
		path []any
		want string
	}{
		{nil, ""},
		{[]any{"xyz", "q"}, "xyz/q"},
		{[]any{"xyz", -1}, "xyz/q"},
		{[]any{"list", -2, "x"}, "list/[0]/x"},
		{[]any{4, "artillery_equipment", -1, 0}, "equipments/artillery_equipment/[1]/id"},
	}
	for _, tc := range tests {
		c := cursor.New(v).Down(tc.path...)
		if err := c.Err(); err != nil {
			t.Errorf("Down %v: unexpected error: %v", tc.path, err)
			continue
		}
		if got := ast.Path(c.Keys()).String(); got != tc.want {
			t.Errorf("Keys %v: got %q, want %q", tc.path, got, tc.want)
		}
		if n, m := len(c.Keys()), len(c.Path()); m != n+1 {
			t.Errorf("Down %v: got %d keys and %d path values", tc.path, n, m)
		}
	}

	// A failed step leaves the route to the last value reached.
	c := cursor.New(v).Down("y", "nonesuch")
	if got := ast.Path(c.Keys()).String(); c.Err() == nil || got != "y" {
		t.Errorf("Keys after failure: got %q, err %v", got, c.Err())
	}
}
