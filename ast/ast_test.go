// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"testing"

	"github.com/ValsGeorge/pdxtree/ast"
	"github.com/google/go-cmp/cmp"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Value
	}{
		{"yes", ast.Bool(true)},
		{"no", ast.Bool(false)},
		{"Yes", str("Yes")},
		{"NO", str("NO")},
		{"yess", str("yess")},

		{"0", num(0)},
		{"123", num(123)},
		{"-1", num(-1)},
		{"007", num(7)},
		{"9223372036854775807", num(9223372036854775807)},
		{"-9223372036854775808", num(-9223372036854775808)},
		{"9223372036854775808", str("9223372036854775808")},

		{"123.456", flt(123.456)},
		{"-0.5", flt(-0.5)},
		{"10.000", flt(10)},
		{"0.074", flt(0.074)},

		{"1936.1.1", ast.Date{Year: 1936, Month: 1, Day: 1}},
		{"1936.01.01", ast.Date{Year: 1936, Month: 1, Day: 1}},
		{"1936.1.1.12", ast.Date{Year: 1936, Month: 1, Day: 1, Hour: 12, HasHour: true}},
		{"-50.12.31", ast.Date{Year: -50, Month: 12, Day: 31}},
		{"1.2.99999999999", str("1.2.99999999999")},

		{"", str("")},
		{"-", str("-")},
		{"abc", str("abc")},
		{"GER", str("GER")},
		{"12.34.56.78.90", str("12.34.56.78.90")},
		{"1.", str("1.")},
		{".5", str(".5")},
		{"1..2", str("1..2")},
		{"1e5", str("1e5")},
		{"+5", str("+5")},
		{"5-", str("5-")},
		{"infantry_equipment_1", str("infantry_equipment_1")},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, ast.Infer(tc.input)); diff != "" {
			t.Errorf("Infer(%#q): (-want, +got)\n%s", tc.input, diff)
		}
		if diff := cmp.Diff(tc.want, ast.InferBytes([]byte(tc.input))); diff != "" {
			t.Errorf("InferBytes(%#q): (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestObject(t *testing.T) {
	o := new(ast.Object)
	o.Add("a", num(1))
	o.Add("b", str("x"))
	o.Add("a", num(2))
	o.Add("c", arr{num(9)})
	o.Add("a", num(3))
	o.Add("c", num(10))

	if got := o.Len(); got != 3 {
		t.Errorf("Len: got %d, want 3", got)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, o.Keys()); diff != "" {
		t.Errorf("Keys: (-want, +got)\n%s", diff)
	}
	if m := o.At(1); m.Key != "b" || m.Value != str("x") {
		t.Errorf("At(1): got %v=%v, want b=x", m.Key, m.Value)
	}
	if m := o.Find("nonesuch"); m != nil {
		t.Errorf("Find(nonesuch): got %v, want nil", m)
	}
	if v, ok := o.Get("nonesuch"); ok || v != nil {
		t.Errorf("Get(nonesuch): got (%v, %v), want (nil, false)", v, ok)
	}

	want := map[string]ast.Value{
		"a": arr{num(1), num(2), num(3)},
		"b": str("x"),
		"c": arr{arr{num(9)}, num(10)},
	}
	for key, wantv := range want {
		v, ok := o.Get(key)
		if !ok {
			t.Errorf("Get(%q): not found", key)
			continue
		}
		if diff := cmp.Diff(wantv, v); diff != "" {
			t.Errorf("Get(%q): (-want, +got)\n%s", key, diff)
		}
		if m := o.Find(key); m == nil || m.Key != key {
			t.Errorf("Find(%q): got %v", key, m)
		}
	}

	var keys []string
	for key, v := range o.All() {
		keys = append(keys, key)
		if key == "b" {
			break
		}
		if v.Kind() != ast.ArrayKind {
			t.Errorf("All: %q has kind %v, want array", key, v.Kind())
		}
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Errorf("All with break: (-want, +got)\n%s", diff)
	}
}

func TestNewObjectMerge(t *testing.T) {
	got := obj(
		fld("x", arr{num(1)}),
		fld("y", num(0)),
		fld("x", arr{num(2)}),
	)
	want := obj(
		fld("x", arr{arr{num(1)}, arr{num(2)}}),
		fld("y", num(0)),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewObject: (-want, +got)\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b ast.Value
		want bool
	}{
		{nil, nil, true},
		{num(1), nil, false},
		{num(1), num(1), true},
		{num(1), flt(1), false},
		{str("yes"), ast.Bool(true), false},
		{ast.Date{Year: 1}, ast.Date{Year: 1}, true},
		{ast.Date{Year: 1}, ast.Date{Year: 1, HasHour: true}, false},
		{arr{}, arr{}, true},
		{arr{}, obj(), false},
		{arr{num(1), str("a")}, arr{num(1), str("a")}, true},
		{arr{num(1), str("a")}, arr{str("a"), num(1)}, false},
		{obj(), new(ast.Object), true},
		{obj(fld("a", num(1)), fld("b", num(2))), obj(fld("a", num(1)), fld("b", num(2))), true},
		{obj(fld("a", num(1)), fld("b", num(2))), obj(fld("b", num(2)), fld("a", num(1))), false},
		{obj(fld("a", arr{obj()})), obj(fld("a", arr{obj()})), true},
		{obj(fld("a", arr{obj()})), obj(fld("a", arr{arr{}})), false},
	}
	for _, tc := range tests {
		if got := ast.Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("Equal(%v, %v): got %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if got := ast.Equal(tc.b, tc.a); got != tc.want {
			t.Errorf("Equal(%v, %v): got %v, want %v", tc.b, tc.a, got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		input ast.Value
		want  string
	}{
		{num(-15), "-15"},
		{flt(10), "10.0"},
		{flt(0.074), "0.074"},
		{flt(-2.5), "-2.5"},
		{flt(1e21), "1000000000000000000000.0"},
		{ast.Bool(true), "yes"},
		{ast.Bool(false), "no"},
		{ast.Date{Year: 1936, Month: 1, Day: 1}, "1936.1.1"},
		{ast.Date{Year: 1936, Month: 1, Day: 1, Hour: 0, HasHour: true}, "1936.1.1.0"},
		{str("two words"), "two words"},
		{arr{}, "{ }"},
		{arr{num(1), str("a b")}, `{ 1 "a b" }`},
		{obj(), "{ }"},
		{obj(fld("id", obj(fld("id", num(1)), fld("type", num(66)))), fld("tags", arr{str("x")})),
			"{ id={ id=1 type=66 } tags={ x } }"},
	}
	for _, tc := range tests {
		if got := tc.input.String(); got != tc.want {
			t.Errorf("String(%#v): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		input ast.Value
		want  ast.Kind
		str   string
	}{
		{obj(), ast.ObjectKind, "object"},
		{arr{}, ast.ArrayKind, "array"},
		{num(0), ast.IntegerKind, "integer"},
		{flt(0), ast.FloatKind, "float"},
		{ast.Bool(false), ast.BoolKind, "bool"},
		{ast.Date{}, ast.DateKind, "date"},
		{str(""), ast.StringKind, "string"},
	}
	for _, tc := range tests {
		if got := tc.input.Kind(); got != tc.want || got.String() != tc.str {
			t.Errorf("Kind(%v): got %v, want %v", tc.input, got, tc.str)
		}
	}
	if got := ast.Kind(99).String(); got != "invalid" {
		t.Errorf("Kind(99): got %q, want invalid", got)
	}
}
