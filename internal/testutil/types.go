// Package testutil defines support code for unit tests.
package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/ValsGeorge/pdxtree/ast"
)

// MustParse parses src as save-file text, or fails the test.
func MustParse(t testing.TB, src string) *ast.Object {
	t.Helper()
	obj, err := ast.ParseString(src)
	if err != nil {
		t.Fatalf("Parse %q: %v", src, err)
	}
	return obj
}

// MustParseFile parses the save-file text in the named file, or fails the
// test.
func MustParseFile(t testing.TB, path string) *ast.Object {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}
	obj, err := ast.Parse(data)
	if err != nil {
		t.Fatalf("Parse %s: %v", path, err)
	}
	return obj
}

// Nested returns save-file text nesting depth blocks inside one another,
// with the innermost block holding key=value: "a={a={...{key=value}...}}".
func Nested(depth int) string {
	var sb strings.Builder
	sb.Grow(4*depth + 16)
	for range depth {
		sb.WriteString("a={")
	}
	sb.WriteString("key=value")
	for range depth {
		sb.WriteString("}")
	}
	return sb.String()
}
