package query

import (
	"fmt"
	"unicode/utf8"

	"github.com/ValsGeorge/pdxtree/ast"
	"go4.org/mem"
)

// Default bounds for Search.
const (
	DefaultSearchDepth   = 50
	DefaultSearchResults = 100
)

// SearchOptions bound the cost of a Search. A nil *SearchOptions is ready for
// use and provides default bounds.
type SearchOptions struct {
	// Values nested more than MaxDepth levels below the root are not
	// searched. If zero, DefaultSearchDepth is used. If negative, there is
	// no limit.
	MaxDepth int

	// Search stops after MaxResults matches. If zero, DefaultSearchResults
	// is used. If negative, there is no limit.
	MaxResults int
}

func (o *SearchOptions) findOptions() ast.FindOptions {
	fo := ast.FindOptions{MaxDepth: DefaultSearchDepth, MaxResults: DefaultSearchResults}
	if o != nil {
		fo.MaxDepth = bound(o.MaxDepth, DefaultSearchDepth)
		fo.MaxResults = bound(o.MaxResults, DefaultSearchResults)
	}
	return fo
}

func bound(v, dflt int) int {
	if v == 0 {
		return dflt
	} else if v < 0 {
		return 0
	}
	return v
}

// MatchKind reports which part of a member matched a search.
type MatchKind int

const (
	KeyMatch   MatchKind = iota // the object key matched
	ValueMatch                  // the scalar value matched
)

func (k MatchKind) String() string {
	if k == KeyMatch {
		return "key"
	}
	return "value"
}

// A Match is a single result from Search.
type Match struct {
	Path  ast.Path
	Kind  MatchKind
	Value ast.Value
}

// maxSummary is the longest summary, in runes, before truncation.
const maxSummary = 60

// Summary returns a short description of the matched value. Blocks are
// described by their size, and long scalars are truncated.
func (m Match) Summary() string {
	switch t := m.Value.(type) {
	case *ast.Object:
		return fmt.Sprintf("object with %d members", t.Len())
	case ast.Array:
		return fmt.Sprintf("array with %d elements", len(t))
	case nil:
		return ""
	}
	s := m.Value.String()
	if utf8.RuneCountInString(s) <= maxSummary {
		return s
	}
	n := 0
	for i := range s {
		if n == maxSummary {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

func (m Match) String() string {
	return fmt.Sprintf("%s (%s): %s", m.Path, m.Kind, m.Summary())
}

// Search reports the keys and scalar values below root that contain term,
// ignoring case. Matches are reported in document order. When both the key
// and the value of a member match, the key match is reported first.
// Search returns nil if term is empty.
func Search(root ast.Value, term string, opts *SearchOptions) []Match {
	if term == "" {
		return nil
	}
	needle := mem.S(term)
	keyMatches := func(p ast.Path) bool {
		key, ok := p[len(p)-1].(string)
		return ok && containsFold(mem.S(key), needle)
	}
	valueMatches := func(v ast.Value) bool {
		switch v.(type) {
		case *ast.Object, ast.Array:
			return false
		}
		return containsFold(mem.S(v.String()), needle)
	}

	fo := opts.findOptions()
	hits := ast.Find(root, func(p ast.Path, v ast.Value) bool {
		return keyMatches(p) || valueMatches(v)
	}, fo)

	var out []Match
	for _, h := range hits {
		if keyMatches(h.Path) {
			out = append(out, Match{Path: h.Path, Kind: KeyMatch, Value: h.Value})
		}
		if valueMatches(h.Value) {
			out = append(out, Match{Path: h.Path, Kind: ValueMatch, Value: h.Value})
		}
	}
	if fo.MaxResults > 0 && len(out) > fo.MaxResults {
		out = out[:fo.MaxResults]
	}
	return out
}

// containsFold reports whether s contains t under Unicode case folding.
func containsFold(s, t mem.RO) bool {
	n := t.Len()
	for i := 0; i+n <= s.Len(); i++ {
		if mem.EqualFold(s.Slice(i, i+n), t) {
			return true
		}
	}
	return false
}
