package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ValsGeorge/pdxtree/ast"
	"github.com/ValsGeorge/pdxtree/ast/cursor"
	"github.com/peterh/liner"
)

const browseHelp = `Commands:
  ls [path]      list the members at path (default: here)
  cd <path>      move to path; ".." moves up, "/" to the top
  pwd            print the current path
  get <expr>     print the values selected by a path expression
  find <term>    search below here for text
  json           print the current value as JSON
  help           print this message
  quit           exit (also Ctrl-D)

Paths are keys and [offsets] separated by slashes, e.g. production/military_lines/[0].
`

func (e *env) runBrowse(path string, _ []string) error {
	root, err := e.load(path)
	if err != nil {
		return err
	}
	s := &session{env: e, root: root}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(s.complete)
	if e.cfg.History != "" {
		if f, err := os.Open(e.cfg.History); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintf(e.out, "Loaded %s; type \"help\" for commands.\n", path)
	for {
		line, err := ln.Prompt(s.prompt())
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if s.exec(e.out, line) {
			break
		}
	}

	if e.cfg.History != "" {
		f, err := os.Create(e.cfg.History)
		if err != nil {
			return err
		}
		ln.WriteHistory(f)
		return f.Close()
	}
	return nil
}

// A session is the state of an interactive browse.
type session struct {
	*env
	root ast.Value
	path []any // from root to the current value
}

func (s *session) prompt() string { return "/" + ast.Path(s.path).String() + "> " }

// here returns the value at the current path.
func (s *session) here() ast.Value {
	v, err := cursor.Path[ast.Value](s.root, s.path...)
	if err != nil {
		panic(fmt.Sprintf("invalid session path %v: %v", s.path, err))
	}
	return v
}

// resolve returns the path reached by following rel from the current path.
func (s *session) resolve(rel string) ([]any, ast.Value, error) {
	var out []any
	if !strings.HasPrefix(rel, "/") {
		out = append(out, s.path...)
	}
	for elt := range strings.SplitSeq(rel, "/") {
		switch {
		case elt == "" || elt == ".":
			// no change
		case elt == "..":
			if len(out) != 0 {
				out = out[:len(out)-1]
			}
		case strings.HasPrefix(elt, "[") && strings.HasSuffix(elt, "]"):
			n, err := strconv.Atoi(elt[1 : len(elt)-1])
			if err != nil {
				return nil, nil, fmt.Errorf("invalid offset %q", elt)
			}
			out = append(out, n)
		default:
			out = append(out, elt)
		}
	}
	c := cursor.New(s.root).Down(out...)
	if err := c.Err(); err != nil {
		return nil, nil, err
	}
	// Report the normalized route, so the prompt names keys rather than
	// object offsets.
	return c.Keys(), c.Value(), nil
}

// exec executes a single command line, writing its output to w. It reports
// whether the session should end.
func (s *session) exec(w io.Writer, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	var err error
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		_, err = io.WriteString(w, browseHelp)
	case "pwd":
		_, err = fmt.Fprintln(w, "/"+ast.Path(s.path).String())
	case "ls":
		v := s.here()
		if arg != "" {
			_, v, err = s.resolve(arg)
		}
		if err == nil {
			err = listValue(w, v)
		}
	case "cd":
		if arg == "" {
			arg = "/"
		}
		var p []any
		if p, _, err = s.resolve(arg); err == nil {
			s.path = p
		}
	case "..", "up":
		if len(s.path) != 0 {
			s.path = s.path[:len(s.path)-1]
		}
	case "get":
		var v ast.Value
		if v, err = evalPath(s.here(), arg); err == nil {
			err = s.printValue(w, v)
		}
	case "find":
		if arg == "" {
			err = errors.New("usage: find <term>")
		} else {
			err = s.search(w, s.here(), arg)
		}
	case "json":
		err = s.printValue(w, s.here())
	default:
		err = fmt.Errorf("unknown command %q (try help)", cmd)
	}
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	return false
}

// complete offers completions of keys at the current location for the
// argument of the cd and ls commands.
func (s *session) complete(line string) []string {
	cmd, arg, ok := strings.Cut(line, " ")
	if !ok || (cmd != "cd" && cmd != "ls") {
		return nil
	}
	dir, prefix := "", arg
	if i := strings.LastIndex(arg, "/"); i >= 0 {
		dir, prefix = arg[:i+1], arg[i+1:]
	}
	v := s.here()
	if dir != "" {
		var err error
		if _, v, err = s.resolve(dir); err != nil {
			return nil
		}
	}
	obj, ok := v.(*ast.Object)
	if !ok {
		return nil
	}
	var out []string
	for _, key := range obj.Keys() {
		if strings.HasPrefix(key, prefix) {
			out = append(out, cmd+" "+dir+key)
		}
	}
	return out
}
