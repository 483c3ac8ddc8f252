// Package codegen lowers a regex AST (package ast) into a linear bytecode
// program (package bytecode), following the Thompson construction: each AST
// node becomes a self-contained instruction fragment, threaded together by
// program-counter arithmetic computed as the fragment is built.
package codegen

import (
	"github.com/hexvm/rex/ast"
	"github.com/hexvm/rex/bytecode"
)

// Options controls code generation limits.
type Options struct {
	// MaxInstructions bounds the emitted program, matching the binary
	// encoding's 2^13 instruction ceiling.
	MaxInstructions int
}

// DefaultOptions returns the standard limits (the 2^13 binary ceiling).
func DefaultOptions() Options {
	return Options{MaxInstructions: bytecode.MaxInstructions}
}

// Compile lowers root into a bytecode program.
//
// anchored is the "front-of-string" hint the parser extracts from a leading
// '$' in the source (§4.4): when false, an implicit Any(WildCard) prefix is
// spliced in front of the top-level capture group so unanchored matching
// behaves as if ".*" preceded the pattern.
func Compile(root ast.Node, anchored bool, opts Options) (bytecode.Program, error) {
	wrapped := ast.Node(ast.Group{Index: 0, Expression: root})
	if !anchored {
		wrapped = ast.Sequence{Children: []ast.Node{ast.Any{Child: ast.WildCard{}}, wrapped}}
	}

	code, _, err := lower(wrapped, 0)
	if err != nil {
		return nil, err
	}
	code = append(code, bytecode.Match())

	max := opts.MaxInstructions
	if max <= 0 {
		max = bytecode.MaxInstructions
	}
	if len(code) > max {
		return nil, &ProgramTooLargeError{Length: len(code), Max: max}
	}
	return code, nil
}

// lower returns the instruction fragment for n starting at pc, and the pc
// immediately following the fragment. For every case, nextPC - pc equals
// len(fragment) — the code-length invariant codegen_test.go checks against
// every node kind.
func lower(n ast.Node, pc int) (bytecode.Program, int, error) {
	switch v := n.(type) {
	case ast.Literal:
		return bytecode.Program{bytecode.Compare(v.Char, v.Char)}, pc + 1, nil

	case ast.WildCard:
		return bytecode.Program{bytecode.Consume}, pc + 1, nil

	case ast.CharSet:
		return lowerCharSet(v, pc)

	case ast.Group:
		saveStart := v.Index * 2
		body, pc2, err := lower(v.Expression, pc+1)
		if err != nil {
			return nil, 0, err
		}
		code := make(bytecode.Program, 0, len(body)+2)
		code = append(code, bytecode.Save(saveStart))
		code = append(code, body...)
		code = append(code, bytecode.Save(saveStart+1))
		return code, pc2 + 1, nil

	case ast.Sequence:
		var code bytecode.Program
		cur := pc
		for _, child := range v.Children {
			frag, next, err := lower(child, cur)
			if err != nil {
				return nil, 0, err
			}
			code = append(code, frag...)
			cur = next
		}
		return code, cur, nil

	case ast.Alternatives:
		l1 := pc + 1
		code1, pc1, err := lower(v.Alt1, l1)
		if err != nil {
			return nil, 0, err
		}
		l2 := pc1 + 1
		code2, l3, err := lower(v.Alt2, l2)
		if err != nil {
			return nil, 0, err
		}
		code := make(bytecode.Program, 0, len(code1)+len(code2)+2)
		code = append(code, bytecode.Split(l1, l2))
		code = append(code, code1...)
		code = append(code, bytecode.Jump(l3))
		code = append(code, code2...)
		return code, l3, nil

	case ast.Option:
		if v.Child == nil {
			return nil, 0, &InternalError{Msg: "Option with no operand"}
		}
		l1 := pc + 1
		body, l2, err := lower(v.Child, l1)
		if err != nil {
			return nil, 0, err
		}
		code := make(bytecode.Program, 0, len(body)+1)
		code = append(code, bytecode.Split(l1, l2))
		code = append(code, body...)
		return code, l2, nil

	case ast.Some:
		if v.Child == nil {
			return nil, 0, &InternalError{Msg: "Some with no operand"}
		}
		l1 := pc
		body, pc1, err := lower(v.Child, l1)
		if err != nil {
			return nil, 0, err
		}
		l3 := pc1 + 1
		code := make(bytecode.Program, 0, len(body)+1)
		code = append(code, body...)
		code = append(code, bytecode.Split(l1, l3))
		return code, l3, nil

	case ast.Any:
		if v.Child == nil {
			return nil, 0, &InternalError{Msg: "Any with no operand"}
		}
		l1 := pc
		l2 := pc + 1
		body, pc1, err := lower(v.Child, l2)
		if err != nil {
			return nil, 0, err
		}
		l3 := pc1 + 1
		code := make(bytecode.Program, 0, len(body)+2)
		code = append(code, bytecode.Split(l2, l3))
		code = append(code, body...)
		code = append(code, bytecode.Jump(l1))
		return code, l3, nil

	default:
		return nil, 0, &InternalError{Msg: "unhandled AST node type"}
	}
}

// lowerCharSet implements §4.1's CharSet lowering, including the
// multi-option OptCompare-chain cases for sets with more than one char or
// range.
func lowerCharSet(v ast.CharSet, pc int) (bytecode.Program, int, error) {
	cmp := bytecode.Compare
	if v.Inverse {
		cmp = bytecode.InvCompare
	}

	if v.IsSingleChar() {
		return bytecode.Program{cmp(v.Chars[0], v.Chars[0])}, pc + 1, nil
	}
	if v.IsSingleRange() {
		r := v.Ranges[0]
		return bytecode.Program{cmp(r.Lo, r.Hi)}, pc + 1, nil
	}

	numOpts := len(v.Chars) + len(v.Ranges)

	if !v.Inverse {
		l0 := pc + numOpts // Die
		l1 := l0 + 1       // Consume
		l2 := l1 + 1       // end

		code := make(bytecode.Program, 0, numOpts+2)
		for _, c := range v.Chars {
			code = append(code, bytecode.OptCompare(c, c, l1))
		}
		for _, r := range v.Ranges {
			code = append(code, bytecode.OptCompare(r.Lo, r.Hi, l1))
		}
		code = append(code, bytecode.Die, bytecode.Consume)
		return code, l2, nil
	}

	l0 := pc + numOpts // Consume
	l1 := l0 + 2       // Die
	l2 := l1 + 1       // end

	code := make(bytecode.Program, 0, numOpts+3)
	for _, c := range v.Chars {
		code = append(code, bytecode.OptCompare(c, c, l1))
	}
	for _, r := range v.Ranges {
		code = append(code, bytecode.OptCompare(r.Lo, r.Hi, l1))
	}
	code = append(code, bytecode.Consume, bytecode.Jump(l2), bytecode.Die)
	return code, l2, nil
}
