package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValsGeorge/pdxtree"
	"github.com/ValsGeorge/pdxtree/ast"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Write test input: %v", err)
	}
	return path
}

func runCommand(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()
	var out strings.Builder
	e := &env{cfg: cfg, out: &out}
	err := e.run(args[0], args[1:])
	return out.String(), err
}

func TestRun(t *testing.T) {
	small := writeFile(t, "small.txt", `a=1 b={ c="two words" d={ 1 2 } } e=no`)
	header := writeFile(t, "header.txt", "\xef\xbb\xbfHOI4txt\r\ndate=1936.1.1\nplayer=GER\n")
	compact := defaultConfig()
	compact.Indent = ""

	tests := []struct {
		name string
		cfg  Config
		args []string
		want string
	}{
		{"JSON", compact, []string{"json", small},
			`{"a":1,"b":{"c":"two words","d":[1,2]},"e":false}` + "\n"},
		{"Format", defaultConfig(), []string{"fmt", small},
			"a=1\nb={\n\tc=\"two words\"\n\td={ 1 2 }\n}\ne=no\n"},
		{"GetScalar", defaultConfig(), []string{"get", small, "b.d[1]"}, "2\n"},
		{"GetString", defaultConfig(), []string{"get", small, "$.b.c"}, "two words\n"},
		{"GetBlock", defaultConfig(), []string{"get", small, "b.d"}, "[\n\t1,\n\t2\n]\n"},
		{"GetMany", compact, []string{"get", small, "b..*"}, "[\n\t\"two words\",\n\t[\n\t\t1,\n\t\t2\n\t],\n\t1,\n\t2\n]\n"},
		{"NoMatches", defaultConfig(), []string{"search", small, "zzz"}, "no matches for \"zzz\"\n"},
		{"Header", compact, []string{"json", header}, `{"date":"1936.1.1","player":"GER"}` + "\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runCommand(t, tc.cfg, tc.args...)
			if err != nil {
				t.Fatalf("Run %q: unexpected error: %v", tc.args, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Run %q: (-want, +got)\n%s", tc.args, diff)
			}
		})
	}
}

func TestRunSave(t *testing.T) {
	const save = "../../testdata/save.txt"
	cfg := defaultConfig()

	tests := []struct {
		args []string
		want []string // substrings of the output
	}{
		{[]string{"tokens", save}, []string{"identifier\tdate", "identifier\t\"1936.1.1.12\"", "\"{\"\t{"}},
		{[]string{"keys", save}, []string{"production", "object", "states", "array with 3 elements"}},
		{[]string{"keys", save, "countries.GER"}, []string{"capital", "integer", "last_election", "date"}},
		{[]string{"search", save, "artillery"}, []string{
			"equipments/artillery_equipment ", "key", "equipments/artillery_equipment/[1]/name", "Artillery II",
		}},
		{[]string{"get", save, "equipments..name"}, []string{"Infantry Equipment I", "Artillery I"}},
	}
	for _, tc := range tests {
		got, err := runCommand(t, cfg, tc.args...)
		if err != nil {
			t.Errorf("Run %q: unexpected error: %v", tc.args, err)
			continue
		}
		for _, want := range tc.want {
			if !strings.Contains(got, want) {
				t.Errorf("Run %q: output does not contain %q:\n%s", tc.args, want, got)
			}
		}
	}

	// With comments enabled, the tokens command reports them.
	cfg.Comments = true
	got, err := runCommand(t, cfg, "tokens", save)
	if err != nil {
		t.Fatalf("Run tokens: %v", err)
	}
	if !strings.Contains(got, "comment\t# Production state") {
		t.Errorf("Run tokens: missing comment:\n%s", got)
	}
}

func TestRunSearchLimit(t *testing.T) {
	const save = "../../testdata/save.txt"

	// "artillery" matches one key and two names.
	tests := []struct {
		limit   int
		rows    int
		stopped bool
	}{
		{2, 2, true},
		{3, 3, false},
		{4, 3, false},
		{-1, 3, false},
	}
	for _, tc := range tests {
		cfg := defaultConfig()
		cfg.MaxResults = tc.limit
		got, err := runCommand(t, cfg, "search", save, "artillery")
		if err != nil {
			t.Fatalf("Run search (limit %d): %v", tc.limit, err)
		}
		lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
		stopped := strings.Contains(got, "(stopped after")
		rows := len(lines)
		if stopped {
			rows--
		}
		if rows != tc.rows || stopped != tc.stopped {
			t.Errorf("Run search (limit %d): got %d rows, stopped=%v; want %d, %v:\n%s",
				tc.limit, rows, stopped, tc.rows, tc.stopped, got)
		}
	}

	cfg := defaultConfig()
	cfg.MaxResults = 2
	got, err := runCommand(t, cfg, "search", save, "id")
	if err != nil {
		t.Fatalf("Run search: %v", err)
	}
	if !strings.Contains(got, "(stopped after 2 results)") {
		t.Errorf("Run search: missing limit note:\n%s", got)
	}
}

func TestRunOptions(t *testing.T) {
	nested := writeFile(t, "nested.txt", `a={ b={ c={} } }`)

	cfg := defaultConfig()
	cfg.Indent = ""
	cfg.EmptyBlockAsArray = true
	got, err := runCommand(t, cfg, "json", nested)
	if err != nil {
		t.Fatalf("Run json: %v", err)
	}
	if want := `{"a":{"b":{"c":[]}}}` + "\n"; got != want {
		t.Errorf("Run json: got %q, want %q", got, want)
	}

	cfg.MaxDepth = 2
	_, err = runCommand(t, cfg, "json", nested)
	if !errors.Is(err, pdxtree.ErrDepthExceeded) {
		t.Errorf("Run json: got %v, want %v", err, pdxtree.ErrDepthExceeded)
	} else if !strings.Contains(err.Error(), "-max-depth") {
		t.Errorf("Run json: error %q does not mention the flag", err)
	}
}

func TestRunJSONInput(t *testing.T) {
	path := writeFile(t, "save.json", `{
  // Projection of a save file.
  "date": "1936.1.1",
  "states": [64, 65,],
}`)
	got, err := runCommand(t, defaultConfig(), "fmt", path)
	if err != nil {
		t.Fatalf("Run fmt: %v", err)
	}
	if want := "date=1936.1.1\nstates={ 64 65 }\n"; got != want {
		t.Errorf("Run fmt: got %q, want %q", got, want)
	}

	list := writeFile(t, "list.json", `[1, 2]`)
	if _, err := runCommand(t, defaultConfig(), "fmt", list); err == nil {
		t.Error("Run fmt on a JSON array: got nil error")
	}
	if got, err := runCommand(t, defaultConfig(), "get", list, "[1]"); err != nil || got != "2\n" {
		t.Errorf("Run get: got %q, %v; want 2", got, err)
	}
}

func TestRunErrors(t *testing.T) {
	small := writeFile(t, "small.txt", `a=1`)
	bad := writeFile(t, "bad.txt", "a={ b=1\n")
	bin := writeFile(t, "bin.txt", "HOI4bin\x00\x01\x02\x03")
	badHeader := writeFile(t, "header.txt", "HOI4txt\na={\n")

	tests := []struct {
		args []string
		want string
		is   error
	}{
		{[]string{"frob", small}, `unknown command "frob"`, nil},
		{[]string{"json"}, "usage: json <file>", nil},
		{[]string{"json", small, "extra"}, "usage: json <file>", nil},
		{[]string{"get", small}, "usage: get <file> <path>", nil},
		{[]string{"keys", small, "a", "b"}, "usage: keys <file> [path]", nil},
		{[]string{"json", filepath.Join(t.TempDir(), "nonesuch.txt")}, "no such file", nil},
		{[]string{"json", bin}, "binary save", nil},
		{[]string{"json", bad}, bad + ": at", pdxtree.ErrUnterminatedBlock},
		{[]string{"json", badHeader}, badHeader + ": at 2:2", pdxtree.ErrUnterminatedBlock},
		{[]string{"get", small, "$."}, "compile", nil},
		{[]string{"get", small, "nonesuch"}, `key "nonesuch" not found`, nil},
	}
	for _, tc := range tests {
		_, err := runCommand(t, defaultConfig(), tc.args...)
		if err == nil {
			t.Errorf("Run %q: got nil error, want %q", tc.args, tc.want)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("Run %q: got error %q, want %q", tc.args, err, tc.want)
		}
		if tc.is != nil && !errors.Is(err, tc.is) {
			t.Errorf("Run %q: got error %v, want %v", tc.args, err, tc.is)
		}
	}
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"date=\"1936.1.1.12\"\n", false},
		{"HOI4txt\r\n\tplayer=GER", false},
		{"\xef\xbb\xbfdate=1936.1.1", false},
		{"HOI4bin\x00\x01\x02", true},
		{"0123456789\x00", false}, // beyond the header
		{"\xc3\xa9t\xc3\xa9=1", true},
	}
	for _, tc := range tests {
		if got := isBinary([]byte(tc.input)); got != tc.want {
			t.Errorf("isBinary(%q): got %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestBlankHeader(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"HOI4txt", "       "},
		{"HOI4txt\ndate=1936.1.1", "       \ndate=1936.1.1"},
		{"EU4txt\r\nx=1", "      \r\nx=1"},
		{"\xef\xbb\xbfHOI4txt\nx=1", "\xef\xbb\xbf       \nx=1"},
		{"date=1936.1.1\nHOI4txt", "date=1936.1.1\nHOI4txt"},
		{"txt\nx=1", "txt\nx=1"},
		{"HOI4txt=1", "HOI4txt=1"},
		{"my_txt\n", "my_txt\n"},
		{"HOI4txt extra\n", "HOI4txt extra\n"},
	}
	for _, tc := range tests {
		data := []byte(tc.input)
		blankHeader(data)
		if got := string(data); got != tc.want {
			t.Errorf("blankHeader(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	defer func() {
		flag.CommandLine.Set("max-results", "100")
		flag.CommandLine.Set("indent", "\t")
	}()
	if err := flag.CommandLine.Set("max-results", "5"); err != nil {
		t.Fatalf("Set flag: %v", err)
	}
	if err := flag.CommandLine.Set("indent", "  "); err != nil {
		t.Fatalf("Set flag: %v", err)
	}

	cfg := Config{SearchDepth: 7, MaxResults: 1, Indent: "x"}
	applyFlags(&cfg)
	want := Config{SearchDepth: 7, MaxResults: 5, Indent: "  "}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("applyFlags: (-want, +got)\n%s", diff)
	}
}

func TestPrintValue(t *testing.T) {
	e := &env{cfg: Config{}}
	var out strings.Builder
	if err := e.printValue(&out, ast.NewObject(ast.Field("a", ast.Bool(true)))); err != nil {
		t.Fatalf("printValue: %v", err)
	}
	// An empty indent still prints blocks on multiple lines.
	if got, want := out.String(), "{\n\t\"a\": true\n}\n"; got != want {
		t.Errorf("printValue: got %q, want %q", got, want)
	}
}
