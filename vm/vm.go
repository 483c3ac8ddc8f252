// Package vm implements the backtracking interpreter for compiled bytecode
// programs (§4.3): a recursive depth-first enumeration of every thread the
// program's Split instructions can produce, collecting every reachable
// Match and returning the longest.
//
// This is deliberately not a PikeVM-style breadth-first generation stepper:
// the bytecode already encodes its own unanchored-prefix loop (the implicit
// ".*" codegen splices in when a pattern isn't anchored), so a single
// recursive walk starting at pc=0, sc=0 is the whole algorithm.
package vm

import (
	"math"

	"github.com/hexvm/rex/bytecode"
	"github.com/hexvm/rex/internal/sparse"
)

// Result is a successful match: the span S[Start:End] and, via the capture
// map, nothing beyond slots 0/1 — only the whole-match group is tracked.
type Result struct {
	Start, End int
}

// Options controls interpreter resource limits.
type Options struct {
	// RecursionGuard bounds the number of (pc, sc) pairs a single search
	// will explore, as a backstop beyond plain dedup for adversarial
	// input. Zero means DefaultOptions's value.
	RecursionGuard int
}

// DefaultOptions returns sane limits for interactive use.
func DefaultOptions() Options {
	return Options{RecursionGuard: 4_000_000}
}

// Run finds the longest match of prog against input and reports its span.
// ok is false if there is no match.
func Run(prog bytecode.Program, input string) (start, end int, ok bool) {
	res, err := RunDetailed(prog, input, DefaultOptions())
	if err != nil || res == nil {
		return -1, -1, false
	}
	return res.Start, res.End, true
}

// RunDetailed is Run with explicit Options and error reporting. A nil
// Result with a nil error means "no match"; a nil Result with a non-nil
// error means the search was aborted (see ErrRecursionGuard).
func RunDetailed(prog bytecode.Program, input string, opts Options) (*Result, error) {
	if len(prog) == 0 {
		return nil, nil
	}

	guard := opts.RecursionGuard
	if guard <= 0 {
		guard = DefaultOptions().RecursionGuard
	}

	// (pc, sc) deduplication bounds work to O(len(prog)*len(input)) on
	// patterns with zero-width loops (e.g. nested stars), per §4.3's
	// hardened option. The key space is len(prog)*(len(input)+1); when
	// that doesn't fit a uint32 (only possible for huge inputs against
	// huge programs) dedup is skipped and the recursion guard alone
	// backstops the search.
	var visited *sparse.Set
	capNeeded := uint64(len(prog)) * uint64(len(input)+1)
	if capNeeded > 0 && capNeeded <= math.MaxUint32 {
		visited = sparse.New(uint32(capNeeded))
	}
	stride := uint32(len(input) + 1)

	var matches [][2]int
	steps := 0
	aborted := false

	var step func(pc, sc int, caps []int)
	step = func(pc, sc int, caps []int) {
		if aborted {
			return
		}
		if visited != nil {
			key := uint32(pc)*stride + uint32(sc)
			if visited.Contains(key) {
				return
			}
			visited.Insert(key)
		}
		steps++
		if steps > guard {
			aborted = true
			return
		}

		in := prog[pc]
		switch in.Op {
		case bytecode.OpMatch:
			matches = append(matches, [2]int{caps[0], caps[1]})

		case bytecode.OpSave:
			// caps is exclusively owned along this thread since the last
			// Split copied it; mutating in place is safe (the other
			// branch already ran to completion on its own copy).
			if in.Index >= 0 && in.Index < len(caps) {
				caps[in.Index] = sc
			}
			step(pc+1, sc, caps)

		case bytecode.OpJump:
			step(in.Dest, sc, caps)

		case bytecode.OpSplit:
			branch := make([]int, len(caps))
			copy(branch, caps)
			step(in.Dest2, sc, branch)
			step(in.Dest, sc, caps)

		case bytecode.OpCompare:
			if sc < len(input) {
				c := input[sc]
				if c >= in.Lo && c <= in.Hi {
					step(pc+1, sc+1, caps)
				}
			}

		case bytecode.OpInvCompare:
			if sc < len(input) {
				c := input[sc]
				if c < in.Lo || c > in.Hi {
					step(pc+1, sc+1, caps)
				}
			}

		case bytecode.OpOptCompare:
			if sc < len(input) {
				c := input[sc]
				if c >= in.Lo && c <= in.Hi {
					step(in.Dest, sc, caps)
					return
				}
			}
			step(pc+1, sc, caps)
		}
	}

	step(0, 0, []int{-1, -1})

	if aborted {
		return nil, ErrRecursionGuard
	}
	if len(matches) == 0 {
		return nil, nil
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m[1]-m[0] > best[1]-best[0] {
			best = m
		}
	}
	return &Result{Start: best[0], End: best[1]}, nil
}
