// Package prefilter locates the literals a pattern requires in the input,
// ahead of the backtracking interpreter. Single-byte literal sets take
// the package scan fast path — a byte scan over raw memory beats automaton
// traversal when there's nothing to branch on; everything else builds a
// multi-literal Aho-Corasick automaton.
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/hexvm/rex/ast"
	"github.com/hexvm/rex/internal/scan"
	"github.com/hexvm/rex/literal"
)

// Prefilter answers "where does the next required literal occur from here"
// in O(n), without running the bytecode interpreter. A match containing
// that literal can start before the reported offset.
type Prefilter struct {
	automaton *ahocorasick.Automaton

	// Set when every extracted literal is exactly one byte long, in which
	// case a direct scan beats building an automaton over single-byte
	// patterns.
	singleByte byte
	useSingle  bool
	byteSet    *[256]bool
}

// Build constructs a Prefilter from root's guaranteed literals. ok is false
// when package literal couldn't extract a usable set (too broad a pattern,
// or the automaton failed to build), in which case callers should search
// unfiltered rather than skip matching.
func Build(root ast.Node) (*Prefilter, bool) {
	lits, ok := literal.Extract(root)
	if !ok || len(lits) == 0 {
		return nil, false
	}
	for _, l := range lits {
		if len(l.Bytes) == 0 {
			return nil, false
		}
	}

	if pf, ok := buildByteScan(lits); ok {
		return pf, true
	}

	builder := ahocorasick.NewBuilder()
	for _, l := range lits {
		builder.AddPattern(l.Bytes)
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return &Prefilter{automaton: automaton}, true
}

// buildByteScan handles the common case of a set of single-byte literals
// (e.g. the "a" and "d" bracketing "a(b|c)*d"), which a direct scan.IndexByte
// or scan.IndexAny resolves without the overhead of an automaton.
func buildByteScan(lits []literal.Literal) (*Prefilter, bool) {
	for _, l := range lits {
		if len(l.Bytes) != 1 {
			return nil, false
		}
	}
	if len(lits) == 1 {
		return &Prefilter{singleByte: lits[0].Bytes[0], useSingle: true}, true
	}
	var set [256]bool
	for _, l := range lits {
		set[l.Bytes[0]] = true
	}
	return &Prefilter{byteSet: &set}, true
}

// NextCandidate returns the earliest offset at or after from where one of
// the prefilter's literals occurs in haystack, or -1 if none does.
func (p *Prefilter) NextCandidate(haystack []byte, from int) int {
	if from >= len(haystack) {
		return -1
	}
	switch {
	case p.useSingle:
		if rel := scan.IndexByte(haystack[from:], p.singleByte); rel != -1 {
			return from + rel
		}
		return -1
	case p.byteSet != nil:
		if rel := scan.IndexAny(haystack[from:], p.byteSet); rel != -1 {
			return from + rel
		}
		return -1
	default:
		m := p.automaton.Find(haystack, from)
		if m == nil {
			return -1
		}
		return m.Start
	}
}
