// Program pdxtree reads melted Clausewitz save files, and prints them as
// tokens, JSON, or reformatted text, or queries and searches their contents.
//
// Usage:
//
//	pdxtree [flags] <command> <file> [args...]
//
// Run "pdxtree -help" for a list of commands and flags. Files whose names end
// in ".json" are read as the JSON projection written by the json command.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ValsGeorge/pdxtree"
	"github.com/ValsGeorge/pdxtree/ast"
	"go4.org/mem"
)

var (
	configPath  = flag.String("config", "", "Read settings from this HuJSON file")
	maxDepth    = flag.Int("max-depth", 0, "Maximum block nesting depth (0 means no limit)")
	searchDepth = flag.Int("search-depth", 50, "Maximum depth searched by search and find")
	maxResults  = flag.Int("max-results", 100, "Maximum number of search results")
	indent      = flag.String("indent", "\t", "Indentation for JSON and text output")
	emptyArray  = flag.Bool("empty-array", false, "Treat empty blocks {} as arrays")
	progress    = flag.Bool("progress", false, "Log parsing progress to stderr")
	comments    = flag.Bool("comments", false, "Include comments in token output")
	history     = flag.String("history", "", "Browse command history file")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("pdxtree: ")
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	applyFlags(&cfg)

	if flag.NArg() < 2 {
		usage()
		os.Exit(2)
	}
	e := &env{cfg: cfg, in: os.Stdin, out: os.Stdout}
	if err := e.run(flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: %[1]s [flags] <command> <file> [args...]

Read a melted save file and print or query its contents.

Commands:
`, filepath.Base(os.Args[0]))
	for _, c := range commands {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-22s %s\n", c.name+" "+c.usage, c.help)
	}
	fmt.Fprintln(flag.CommandLine.Output(), "\nFlags:")
	flag.PrintDefaults()
}

// applyFlags overrides settings in cfg with the flags set on the command line.
func applyFlags(cfg *Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		case "search-depth":
			cfg.SearchDepth = *searchDepth
		case "max-results":
			cfg.MaxResults = *maxResults
		case "indent":
			cfg.Indent = *indent
		case "empty-array":
			cfg.EmptyBlockAsArray = *emptyArray
		case "progress":
			cfg.Progress = *progress
		case "comments":
			cfg.Comments = *comments
		case "history":
			cfg.History = *history
		}
	})
}

type command struct {
	name, usage, help string

	nargs int // number of arguments after the file name
	run   func(e *env, path string, args []string) error
}

var commands = []command{
	{"tokens", "<file>", "print the tokens of the input", 0, (*env).runTokens},
	{"json", "<file>", "print the JSON projection of the input", 0, (*env).runJSON},
	{"fmt", "<file>", "print the input reformatted as save-file text", 0, (*env).runFormat},
	{"keys", "<file> [path]", "summarize the members at path", -1, (*env).runKeys},
	{"get", "<file> <path>", "print the values selected by a path expression", 1, (*env).runGet},
	{"search", "<file> <term>", "search keys and values for text", 1, (*env).runSearch},
	{"browse", "<file>", "navigate the input interactively", 0, (*env).runBrowse},
}

// env is the environment in which commands run.
type env struct {
	cfg Config
	in  io.Reader
	out io.Writer
}

func (e *env) run(name string, args []string) error {
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if len(args) == 0 {
			return fmt.Errorf("usage: %s %s", c.name, c.usage)
		}
		rest := args[1:]
		if c.nargs >= 0 && len(rest) != c.nargs || c.nargs < 0 && len(rest) > 1 {
			return fmt.Errorf("usage: %s %s", c.name, c.usage)
		}
		return c.run(e, args[0], rest)
	}
	return fmt.Errorf("unknown command %q", name)
}

// load reads and parses the file at path.
func (e *env) load(path string) (ast.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		v, err := ast.ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return v, nil
	}
	if isBinary(data) {
		return nil, fmt.Errorf("%s: file appears to be a binary save; melt it to text first", path)
	}

	blankHeader(data)

	s := pdxtree.NewStream(data)
	s.SetMaxDepth(e.cfg.MaxDepth)
	s.EmptyBlockAsArray(e.cfg.EmptyBlockAsArray)
	if e.cfg.Progress {
		last := -1
		s.OnProgress(func(done, total int) {
			pct := 100
			if total > 0 {
				pct = done * 100 / total
			}
			if pct/10 > last {
				last = pct / 10
				log.Printf("%s: parsed %d%%", path, pct)
			}
		})
	}
	root, err := ast.ParseStream(s)
	if errors.Is(err, pdxtree.ErrDepthExceeded) {
		return nil, fmt.Errorf("%s: %w (raise -max-depth, or check that the file was melted correctly)", path, err)
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

const (
	headerLen = 10 // leading bytes checked by isBinary
	utf8BOM   = "\xef\xbb\xbf"
)

// blankHeader overwrites a leading magic line such as "HOI4txt" in data with
// spaces, so that the rest of the file parses as the top-level object and
// error locations still match the file.
func blankHeader(data []byte) {
	m := mem.TrimPrefix(mem.B(data), mem.S(utf8BOM))
	start := len(data) - m.Len()
	n := mem.IndexByte(m, '\n')
	if n < 0 {
		n = m.Len()
	}
	line := m.SliceTo(n)
	if n > 0 && line.At(n-1) == '\r' {
		line = line.SliceTo(n - 1)
	}
	if !isMagic(line) {
		return
	}
	for i := range line.Len() {
		data[start+i] = ' '
	}
}

// isMagic reports whether line is a text save marker: letters and digits
// ending in "txt", as in "HOI4txt" or "EU4txt".
func isMagic(line mem.RO) bool {
	n := line.Len()
	if n <= 3 || !line.SliceFrom(n-3).EqualString("txt") {
		return false
	}
	for i := range n {
		b := line.At(i)
		if !('a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9') {
			return false
		}
	}
	return true
}

// isBinary reports whether data looks like a binary save, meaning that its
// first few bytes (after an optional byte-order mark) are not printable ASCII
// or whitespace.
func isBinary(data []byte) bool {
	m := mem.TrimPrefix(mem.B(data), mem.S(utf8BOM))
	for i := 0; i < m.Len() && i < headerLen; i++ {
		b := m.At(i)
		if (b < ' ' || b > '~') && b != '\t' && b != '\n' && b != '\r' {
			return true
		}
	}
	return false
}

func (e *env) runTokens(path string, _ []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s := pdxtree.NewScanner(data)
	s.AllowComments(e.cfg.Comments)
	var buf bytes.Buffer
	for s.Next() {
		text := string(s.Text())
		if s.Quoted() {
			text = `"` + text + `"`
		}
		fmt.Fprintf(&buf, "%s\t%v\t%s\n", s.Location(), s.Token(), text)
		if buf.Len() > 1<<16 {
			if _, err := buf.WriteTo(e.out); err != nil {
				return err
			}
		}
	}
	_, err = buf.WriteTo(e.out)
	return err
}

func (e *env) runJSON(path string, _ []string) error {
	root, err := e.load(path)
	if err != nil {
		return err
	}
	if err := ast.WriteJSON(e.out, root, e.cfg.Indent); err != nil {
		return err
	}
	if e.cfg.Indent == "" {
		_, err = io.WriteString(e.out, "\n")
	}
	return err
}

func (e *env) runFormat(path string, _ []string) error {
	root, err := e.load(path)
	if err != nil {
		return err
	}
	obj, ok := root.(*ast.Object)
	if !ok {
		return fmt.Errorf("%s: got %v at top level, want object", path, root.Kind())
	}
	return ast.Formatter{Indent: e.cfg.Indent}.Format(e.out, obj)
}
