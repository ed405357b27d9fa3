// Package filter matches quote, year, company and sector names against
// short expressions typed on the command line.
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/komsit37/qre/pkg/qre/types"
)

// Filter matches a name.
type Filter interface {
	Match(name string) bool
}

// Parse builds a filter from an expression:
//   - Empty or "*": everything
//   - Exact name: "=AAPL"
//   - Comma-separated exact names: "2023,2024"
//   - Glob: "VN*"
//   - Regex: "/^20[0-9]{2}$/"
//   - Anything else: case-insensitive substring
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "" || expr == "*":
		return Always(true), nil
	case strings.HasPrefix(expr, "="):
		return Exact{value: strings.TrimSpace(expr[1:])}, nil
	case strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2:
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Regex{re: re}, nil
	case strings.Contains(expr, ","):
		set := ExactSet{set: map[string]struct{}{}}
		for _, p := range strings.Split(expr, ",") {
			if p = strings.TrimSpace(p); p != "" {
				set.set[p] = struct{}{}
				set.order = append(set.order, p)
			}
		}
		return set, nil
	case strings.ContainsAny(expr, "*?["):
		if _, err := filepath.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Glob{pattern: expr}, nil
	}
	return SubstrCI{needle: expr}, nil
}

// Select returns the names matching f, in input order. An ExactSet keeps
// its own order instead, restricted to names present in the input.
func Select(f Filter, names []string) []string {
	if set, ok := f.(ExactSet); ok {
		present := make(map[string]bool, len(names))
		for _, n := range names {
			present[n] = true
		}
		var out []string
		for _, n := range set.order {
			if present[n] {
				out = append(out, n)
			}
		}
		return out
	}
	var out []string
	for _, n := range names {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out
}

// Expand parses expr and selects from names in one step.
func Expand(expr string, names []string) ([]string, error) {
	f, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return Select(f, names), nil
}

// WithSector keeps the keys, in order, whose record in doc carries a sector
// with a name matching f.
func WithSector(f Filter, doc *types.Document, keys []string) []string {
	var out []string
	for _, k := range keys {
		r, ok := doc.Record(k)
		if !ok {
			continue
		}
		for _, s := range r.Sectors {
			if f.Match(s.Name) {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

// Implementations

type Always bool

func (a Always) Match(string) bool { return bool(a) }

type Exact struct{ value string }

func (e Exact) Match(name string) bool { return name == e.value }

type ExactSet struct {
	set   map[string]struct{}
	order []string
}

func (e ExactSet) Match(name string) bool {
	_, ok := e.set[name]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(name string) bool {
	ok, _ := filepath.Match(g.pattern, name)
	return ok
}

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(name string) bool { return r.re.MatchString(name) }

func (g Glob) String() string  { return fmt.Sprintf("glob:%s", g.pattern) }
func (e Exact) String() string { return fmt.Sprintf("exact:%s", e.value) }

// SubstrCI matches if name contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (s SubstrCI) Match(name string) bool {
	if s.needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(s.needle))
}

func (s SubstrCI) String() string { return fmt.Sprintf("substr-ci:%s", s.needle) }
