// Package parser extracts cross-references from note text and resolves them
// against the known note filenames by prefix.
package parser

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/starford/zgraph/internal/apperr"
	"github.com/starford/zgraph/internal/diag"
)

var (
	// [[token]]: anything up to the closing brackets, no ']' inside.
	bracketRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	// [label](target)
	markdownRe = regexp.MustCompile(`\[[^\]]+\]\(([^\)]+)\)`)
)

const defaultCacheSize = 4096

// Syntax identifies a reference notation.
type Syntax int

const (
	SyntaxBracket Syntax = iota
	SyntaxMarkdown
)

// Tokens returns the raw reference tokens of one syntax in text order.
func Tokens(text string, syntax Syntax) []string {
	re := bracketRe
	if syntax == SyntaxMarkdown {
		re = markdownRe
	}
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Resolver matches tokens against a fixed, sorted set of known names. It is
// safe for concurrent use.
type Resolver struct {
	known []string
	cache *lru.Cache[string, []string]
}

// NewResolver creates a Resolver over known. The slice is copied and sorted.
func NewResolver(known []string) (*Resolver, error) {
	sorted := slices.Clone(known)
	sort.Strings(sorted)
	cache, err := lru.New[string, []string](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("parser: create cache: %w", err)
	}
	return &Resolver{known: sorted, cache: cache}, nil
}

// Candidates returns every known name that token is a prefix of, ascending.
// The returned slice must not be modified.
func (r *Resolver) Candidates(token string) []string {
	if c, ok := r.cache.Get(token); ok {
		return c
	}
	// Names sharing a prefix are contiguous in sorted order.
	lo := sort.SearchStrings(r.known, token)
	hi := lo
	for hi < len(r.known) && strings.HasPrefix(r.known[hi], token) {
		hi++
	}
	c := r.known[lo:hi:hi]
	r.cache.Add(token, c)
	return c
}

// Extract scans text for bracket references, then markdown references, and
// resolves each token. source names the note in diagnostics. Resolved names
// keep text order within each syntax, bracket results first.
func (r *Resolver) Extract(source, text string) ([]string, []diag.Diagnostic) {
	var (
		resolved []string
		diags    []diag.Diagnostic
	)
	for _, syntax := range []Syntax{SyntaxBracket, SyntaxMarkdown} {
		for _, token := range Tokens(text, syntax) {
			switch c := r.Candidates(token); len(c) {
			case 0:
				diags = append(diags, diag.Unresolved(token, source))
			case 1:
				resolved = append(resolved, c[0])
			default:
				diags = append(diags, diag.Ambiguous(token, source, slices.Clone(c)))
			}
		}
	}
	return resolved, diags
}

// Extract is a one-shot helper building a Resolver over known.
func Extract(source, text string, known []string) ([]string, []diag.Diagnostic, error) {
	r, err := NewResolver(known)
	if err != nil {
		return nil, nil, err
	}
	resolved, diags := r.Extract(source, text)
	return resolved, diags, nil
}

// DecodeText converts raw note bytes to text. Invalid UTF-8 yields an
// *apperr.DecodeError pointing at the first offending byte.
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return "", &apperr.DecodeError{Offset: i, Byte: data[i]}
		}
		i += size
	}
	return string(data), nil
}
