// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/ValsGeorge/pdxtree/internal/escape"
	"go4.org/mem"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", `""`},
		{"GER", `"GER"`},
		{"Deutsches Reich", `"Deutsches Reich"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\saves`, `"C:\\saves"`},
		{"a\tb\nc\r", `"a\tb\nc\r"`},
		{"\x00\x1f\b\f", `"\u0000\u001f\b\f"`},
		{"caf\u00e9", "\"caf\u00e9\""},
		{"bad\xffbyte", `"bad\ufffdbyte"`},
		{"\u2028\u2029", `"\u2028\u2029"`},
	}
	for _, tc := range tests {
		got := string(escape.Quote(mem.S(tc.input)))
		if got != tc.want {
			t.Errorf("Quote(%q): got %#q, want %#q", tc.input, got, tc.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`""`, ""},
		{`"GER"`, "GER"},
		{`"say \"hi\""`, `say "hi"`},
		{`"C:\\saves\/x"`, `C:\saves/x`},
		{`"a\tb\nc\r\b\f"`, "a\tb\nc\r\b\f"},
		{`"caf\u00e9"`, "caf\u00e9"},
		{`"\ud83d\ude00"`, "\U0001f600"},
		{`"\ud83d!"`, "\ufffd!"},
		{`"\u00zz"`, "\ufffd"},
		{`"\q"`, "\ufffd"},
	}
	for _, tc := range tests {
		got, err := escape.Unquote(mem.S(tc.input))
		if err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", tc.input, err)
		} else if string(got) != tc.want {
			t.Errorf("Unquote(%#q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestUnquoteErrors(t *testing.T) {
	for _, input := range []string{``, `"`, `abc`, `"abc`, `"abc\"`, `"\u12"`} {
		if got, err := escape.Unquote(mem.S(input)); err == nil {
			t.Errorf("Unquote(%#q): got %q, want error", input, got)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, input := range []string{"", "plain", "tab\tand \"quote\"", "\x01\x7f", "\U0001f600 ok"} {
		got, err := escape.Unquote(mem.B(escape.Quote(mem.S(input))))
		if err != nil {
			t.Errorf("Unquote(Quote(%q)): %v", input, err)
		} else if string(got) != input {
			t.Errorf("Unquote(Quote(%q)): got %q", input, got)
		}
	}
}
