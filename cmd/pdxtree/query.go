package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ValsGeorge/pdxtree/ast"
	"github.com/ValsGeorge/pdxtree/query"
)

func (e *env) runKeys(path string, args []string) error {
	root, err := e.load(path)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		root, err = evalPath(root, args[0])
		if err != nil {
			return err
		}
	}
	return listValue(e.out, root)
}

func (e *env) runGet(path string, args []string) error {
	root, err := e.load(path)
	if err != nil {
		return err
	}
	v, err := evalPath(root, args[0])
	if err != nil {
		return err
	}
	return e.printValue(e.out, v)
}

func (e *env) runSearch(path string, args []string) error {
	root, err := e.load(path)
	if err != nil {
		return err
	}
	return e.search(e.out, root, args[0])
}

// searchLimit reports the maximum number of matches to print, or 0 if there
// is no limit.
func (e *env) searchLimit() int {
	switch n := e.cfg.MaxResults; {
	case n == 0:
		return query.DefaultSearchResults
	case n < 0:
		return 0
	default:
		return n
	}
}

// search writes a table of the matches for term in root to w. One match past
// the limit is requested, so that the table notes only a real cutoff.
func (e *env) search(w io.Writer, root ast.Value, term string) error {
	limit := e.searchLimit()
	opts := &query.SearchOptions{MaxDepth: e.cfg.SearchDepth, MaxResults: -1}
	if limit > 0 {
		opts.MaxResults = limit + 1
	}
	ms := query.Search(root, term, opts)
	if len(ms) == 0 {
		_, err := fmt.Fprintf(w, "no matches for %q\n", term)
		return err
	}
	more := limit > 0 && len(ms) > limit
	if more {
		ms = ms[:limit]
	}
	tw := tabwriter.NewWriter(w, 4, 8, 1, ' ', 0)
	for _, m := range ms {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Path, m.Kind, m.Summary())
	}
	if more {
		fmt.Fprintf(tw, "(stopped after %d results)\n", len(ms))
	}
	return tw.Flush()
}

// evalPath compiles and evaluates a path expression against root.
func evalPath(root ast.Value, expr string) (ast.Value, error) {
	q, err := query.Compile(expr)
	if err != nil {
		return nil, err
	}
	v, err := query.Eval(root, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", expr, err)
	}
	return v, nil
}

// printValue writes v to w. Blocks are written as indented JSON, and scalars
// as their text.
func (e *env) printValue(w io.Writer, v ast.Value) error {
	switch v.(type) {
	case *ast.Object, ast.Array:
		indent := e.cfg.Indent
		if indent == "" {
			indent = "\t"
		}
		return ast.WriteJSON(w, v, indent)
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

// listValue writes a one-line summary of each member or element of v to w.
// A scalar is written as its kind and value.
func listValue(w io.Writer, v ast.Value) error {
	tw := tabwriter.NewWriter(w, 4, 8, 1, ' ', 0)
	switch t := v.(type) {
	case *ast.Object:
		for key, val := range t.All() {
			fmt.Fprintf(tw, "%s\t%v\t%s\n", key, val.Kind(), summarize(val))
		}
	case ast.Array:
		for i, val := range t {
			fmt.Fprintf(tw, "[%d]\t%v\t%s\n", i, val.Kind(), summarize(val))
		}
	default:
		fmt.Fprintf(tw, "%v\t%s\n", v.Kind(), summarize(v))
	}
	return tw.Flush()
}

func summarize(v ast.Value) string { return query.Match{Value: v}.Summary() }
