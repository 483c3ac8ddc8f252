// Package rex is a small regex engine: a hand-rolled parser, a Thompson
// construction code generator, a packed bytecode format with textual and
// binary serializations, and a backtracking interpreter — with an optional
// Aho-Corasick prefilter in front of it for literal-heavy patterns.
//
// The public API mirrors the shape of Go's stdlib regexp package, scoped
// to what the engine actually tracks: only the whole match (group 0), no
// capture groups, no flags.
//
// Basic usage:
//
//	re, err := rex.Compile(`\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.MatchString("answer: 42") {
//	    fmt.Println(re.FindString("answer: 42")) // "42"
//	}
package rex

import (
	"github.com/hexvm/rex/bytecode"
	"github.com/hexvm/rex/codegen"
	"github.com/hexvm/rex/parser"
	"github.com/hexvm/rex/prefilter"
	"github.com/hexvm/rex/vm"
)

// Regex is a compiled pattern, safe for concurrent use since Run never
// mutates it.
type Regex struct {
	pattern string
	prog    bytecode.Program
	pf      *prefilter.Prefilter
	hasPF   bool
}

// Compile parses and lowers pattern into a runnable Regex.
func Compile(pattern string) (*Regex, error) {
	root, anchored, err := parser.Parse(pattern)
	if err != nil {
		return nil, err
	}
	prog, err := codegen.Compile(root, anchored, codegen.DefaultOptions())
	if err != nil {
		return nil, err
	}

	pf, hasPF := prefilter.Build(root)
	return &Regex{pattern: pattern, prog: prog, pf: pf, hasPF: hasPF}, nil
}

// MustCompile is Compile but panics on error, for patterns known valid at
// init time.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("rex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// String returns the source pattern the Regex was compiled from.
func (r *Regex) String() string {
	return r.pattern
}

// Program exposes the compiled bytecode, e.g. to serialize it.
func (r *Regex) Program() bytecode.Program {
	return r.prog
}

// MatchString reports whether s contains a match anywhere.
func (r *Regex) MatchString(s string) bool {
	_, ok := r.find(s, 0)
	return ok
}

// FindString returns the longest match in s (on a tie, the one that starts
// first), or "" if there is none.
func (r *Regex) FindString(s string) string {
	loc, ok := r.find(s, 0)
	if !ok {
		return ""
	}
	return s[loc[0]:loc[1]]
}

// FindStringIndex returns the [start, end) byte offsets of the match
// FindString would return, or nil if there is none.
func (r *Regex) FindStringIndex(s string) []int {
	loc, ok := r.find(s, 0)
	if !ok {
		return nil
	}
	return []int{loc[0], loc[1]}
}

// FindAllString repeatedly applies the engine's longest-match search to
// whatever of s hasn't been consumed yet, advancing past each result. Since
// the underlying search returns the single longest match anywhere in the
// text it's given (§8's longest-match rule), a much longer match further
// along can be returned ahead of a shorter one that starts earlier — this
// is not leftmost-first scanning, it's the same rule MatchString and
// FindString use, applied repeatedly. If n >= 0, it returns at most n
// matches.
func (r *Regex) FindAllString(s string, n int) []string {
	if n == 0 {
		return nil
	}
	var out []string
	pos := 0
	for pos <= len(s) {
		loc, ok := r.find(s, pos)
		if !ok {
			break
		}
		out = append(out, s[loc[0]:loc[1]])
		if loc[1] > pos {
			pos = loc[1]
		} else {
			pos++
		}
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// find runs the interpreter against s[from:], translating hits back to
// absolute offsets. When a prefilter is available it only decides whether
// to run the VM at all: if none of the pattern's required literals occurs
// in s[from:], there is no match. Otherwise the VM runs over the whole of
// s[from:] from position 0 and returns the longest match it finds there
// (unanchored patterns carry their own ".*" prefix in the compiled program).
func (r *Regex) find(s string, from int) ([2]int, bool) {
	if from > len(s) {
		return [2]int{}, false
	}

	search := s[from:]
	if r.hasPF {
		cand := r.pf.NextCandidate([]byte(search), 0)
		if cand == -1 {
			return [2]int{}, false
		}
	}

	start, end, ok := vm.Run(r.prog, search)
	if !ok {
		return [2]int{}, false
	}
	return [2]int{from + start, from + end}, true
}
