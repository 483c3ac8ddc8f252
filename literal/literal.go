// Package literal extracts substrings guaranteed to occur in any match a
// compiled pattern can produce, for use as a multi-literal prefilter ahead
// of the backtracking interpreter.
package literal

import "github.com/hexvm/rex/ast"

// Literal is a byte string guaranteed to occur somewhere in any match the
// node it was extracted from can produce.
type Literal struct {
	Bytes []byte
}

// Extract computes a safe, possibly incomplete set of literals: when ok is
// true, every match root can produce contains at least one of the returned
// literals verbatim. ok is false when no such guarantee could be derived —
// a bare wildcard, an optional group with nothing else around it — and
// callers should skip prefiltering entirely rather than treat a nil slice
// as "never matches".
func Extract(root ast.Node) (lits []Literal, ok bool) {
	return extract(root)
}

func extract(n ast.Node) ([]Literal, bool) {
	switch v := n.(type) {
	case ast.Literal:
		return []Literal{{Bytes: []byte{v.Char}}}, true

	case ast.WildCard:
		return nil, false

	case ast.CharSet:
		if v.IsSingleChar() {
			return []Literal{{Bytes: []byte{v.Chars[0]}}}, true
		}
		return nil, false

	case ast.Group:
		return extract(v.Expression)

	case ast.Sequence:
		return extractSequence(v.Children)

	case ast.Alternatives:
		l1, ok1 := extract(v.Alt1)
		l2, ok2 := extract(v.Alt2)
		if !ok1 || !ok2 {
			return nil, false
		}
		return append(l1, l2...), true

	case ast.Option:
		// May occur zero times; nothing inside it is guaranteed present.
		return nil, false

	case ast.Some:
		// Occurs at least once, so one pass through Child is guaranteed.
		return extract(v.Child)

	case ast.Any:
		return nil, false

	default:
		return nil, false
	}
}

// exactByte reports the single byte n always consumes, if it's a Literal or
// a single-character CharSet.
func exactByte(n ast.Node) (byte, bool) {
	switch v := n.(type) {
	case ast.Literal:
		return v.Char, true
	case ast.CharSet:
		if v.IsSingleChar() {
			return v.Chars[0], true
		}
	}
	return 0, false
}

// extractSequence concatenates adjacent exact-byte children into longer
// literals (a longer needle filters more effectively than several short
// ones) and unions in whatever guaranteed literals its other children
// contribute.
func extractSequence(children []ast.Node) ([]Literal, bool) {
	var out []Literal
	var run []byte
	anyOK := false

	flush := func() {
		if len(run) > 0 {
			out = append(out, Literal{Bytes: append([]byte(nil), run...)})
			run = run[:0]
		}
	}

	for _, c := range children {
		if b, exact := exactByte(c); exact {
			run = append(run, b)
			anyOK = true
			continue
		}
		flush()
		if sub, ok := extract(c); ok {
			out = append(out, sub...)
			anyOK = true
		}
	}
	flush()
	return out, anyOK
}
