// Package parser recognizes the surface regex syntax — literals, groups,
// alternation, quantifiers (?, *, +, {m,n}), character classes with ranges
// and inversion, the wildcard, and the \s \S \d \D \w \W escapes — and
// produces the package ast tree the code generator consumes.
//
// Grounded directly on original_source/compiler/parser.py and syntax.py:
// the control flow below is a deliberate line-for-line translation of that
// recursive-descent parser into idiomatic Go, not a reinvention.
package parser

import (
	"strconv"
	"strings"

	"github.com/hexvm/rex/ast"
)

var (
	whitespaceChars = []byte{'\n', ' ', '\t', '\r', '\f', '\v'}
	alphaNumRanges  = []ast.Range{{Lo: '0', Hi: '9'}, {Lo: 'A', Hi: 'Z'}, {Lo: 'a', Hi: 'z'}}
	alphaNumChars   = []byte{'_'}
	numRanges       = []ast.Range{{Lo: '0', Hi: '9'}}
)

// Parse recognizes src and returns its AST along with whether it was
// front-of-string anchored (a leading '$', stripped before parsing).
func Parse(src string) (root ast.Node, anchored bool, err error) {
	body := src
	if strings.HasPrefix(src, "$") {
		anchored = true
		body = src[1:]
	}
	root, err = parseExpr(body)
	if err != nil {
		return nil, false, err
	}
	return root, anchored, nil
}

// parseExpr parses one alternative level: a sequence of terms, optionally
// followed by '|' and another parseExpr call for the rest of the string.
func parseExpr(s string) (ast.Node, error) {
	var instrs []ast.Node
	i := 0

	for i < len(s) {
		c := s[i]
		switch c {
		case '(':
			end, err := findClosingParen(s[i:])
			if err != nil {
				return nil, &SyntaxError{Pos: i, Msg: "unmatched opening parenthesis"}
			}
			end = i + end
			inner, err := parseExpr(s[i+1 : end])
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, inner)
			i = end

		case ')':
			return nil, &SyntaxError{Pos: i, Msg: "unmatched closing parenthesis"}

		case ']', '}':
			return nil, &SyntaxError{Pos: i, Msg: "unmatched closing " + string(c)}

		case '?':
			if len(instrs) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "quantifier with no operand"}
			}
			instrs[len(instrs)-1] = ast.Option{Child: instrs[len(instrs)-1]}

		case '*':
			if len(instrs) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "quantifier with no operand"}
			}
			instrs[len(instrs)-1] = ast.Any{Child: instrs[len(instrs)-1]}

		case '+':
			if len(instrs) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "quantifier with no operand"}
			}
			instrs[len(instrs)-1] = ast.Some{Child: instrs[len(instrs)-1]}

		case '|':
			if len(instrs) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "alternative with empty option"}
			}
			var first ast.Node
			if len(instrs) > 1 {
				first = ast.Sequence{Children: instrs}
			} else {
				first = instrs[0]
			}
			second, err := parseExpr(s[i+1:])
			if err != nil {
				return nil, err
			}
			return ast.Alternatives{Alt1: first, Alt2: second}, nil

		case '.':
			instrs = append(instrs, ast.WildCard{})

		case '\\':
			if i+1 >= len(s) {
				return nil, &SyntaxError{Pos: i, Msg: "escape character with nothing after it"}
			}
			esc := s[i+1]
			switch esc {
			case 's', 'S':
				instrs = append(instrs, ast.CharSet{Chars: whitespaceChars, Inverse: esc == 'S'})
			case 'd', 'D':
				instrs = append(instrs, ast.CharSet{Ranges: numRanges, Inverse: esc == 'D'})
			case 'w', 'W':
				instrs = append(instrs, ast.CharSet{Ranges: alphaNumRanges, Chars: alphaNumChars, Inverse: esc == 'W'})
			default:
				// Matches the original parser: any other escaped
				// character is treated as that literal character.
				instrs = append(instrs, ast.Literal{Char: esc})
			}
			i++

		case '{':
			minCount, maxCount, end, err := parseCount(s[i:])
			if err != nil {
				return nil, err
			}
			if len(instrs) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "quantifier with no operand"}
			}
			last := instrs[len(instrs)-1]
			instrs = instrs[:len(instrs)-1]
			for k := 0; k < minCount; k++ {
				instrs = append(instrs, last)
			}
			for k := 0; k < maxCount-minCount; k++ {
				instrs = append(instrs, ast.Option{Child: last})
			}
			i += end

		case '[':
			cs, end, err := parseCharSet(s[i:])
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, cs)
			i += end

		default:
			instrs = append(instrs, ast.Literal{Char: c})
		}
		i++
	}

	if len(instrs) == 0 {
		return nil, &SyntaxError{Pos: 0, Msg: "could not parse a regular expression from empty input"}
	}
	if len(instrs) == 1 {
		return instrs[0], nil
	}
	return ast.Sequence{Children: instrs}, nil
}

// findClosingParen returns the index (within s) of the ')' matching the
// '(' at s[0].
func findClosingParen(s string) (int, error) {
	depth := 0
	escape := false
	for i := 0; i < len(s); i++ {
		if escape {
			escape = false
			continue
		}
		switch s[i] {
		case '\\':
			escape = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, &SyntaxError{Pos: 0, Msg: "unmatched opening parenthesis"}
}

// parseCount parses a bounded-repetition specifier "{n}" or "{min,max}"
// starting at s[0] == '{'. end is the index of the closing '}' within s.
func parseCount(s string) (minCount, maxCount, end int, err error) {
	end = strings.IndexByte(s, '}')
	if end == -1 {
		return 0, 0, 0, &SyntaxError{Pos: 0, Msg: "could not find closing brace"}
	}
	inside := s[1:end]
	parts := strings.Split(inside, ",")

	switch len(parts) {
	case 1:
		n, convErr := strconv.Atoi(strings.TrimSpace(parts[0]))
		if convErr != nil || n <= 0 {
			return 0, 0, 0, &SyntaxError{Pos: 0, Msg: "malformed count specifier " + s[:end+1]}
		}
		return n, n, end, nil
	case 2:
		lo, loErr := strconv.Atoi(strings.TrimSpace(parts[0]))
		hi, hiErr := strconv.Atoi(strings.TrimSpace(parts[1]))
		if loErr != nil || hiErr != nil || lo <= 0 || hi <= lo {
			return 0, 0, 0, &SyntaxError{Pos: 0, Msg: "malformed count specifier " + s[:end+1]}
		}
		return lo, hi, end, nil
	default:
		return 0, 0, 0, &SyntaxError{Pos: 0, Msg: "invalid count specifier " + s[:end+1]}
	}
}

// parseCharSet parses a character class "[...]" starting at s[0] == '['.
// end is the index of the closing ']' within s.
func parseCharSet(s string) (ast.CharSet, int, error) {
	inverted := len(s) > 1 && s[1] == '^'
	start := 1
	if inverted {
		start = 2
	}

	end := -1
	escape := false
	for i := start; i < len(s); i++ {
		if escape {
			escape = false
			continue
		}
		if s[i] == '\\' {
			escape = true
			continue
		}
		if s[i] == ']' {
			end = i
			break
		}
	}
	if end == -1 {
		return ast.CharSet{}, 0, &SyntaxError{Pos: 0, Msg: "could not find closing brace in character class"}
	}

	inside := s[start:end]
	if len(inside) == 0 {
		return ast.CharSet{}, 0, &SyntaxError{Pos: 0, Msg: "character class must contain at least one character"}
	}

	ranges, chars, err := parseCharSetBody(inside)
	if err != nil {
		return ast.CharSet{}, 0, err
	}
	return ast.CharSet{Ranges: ranges, Chars: chars, Inverse: inverted}, end, nil
}

func parseCharSetBody(inside string) ([]ast.Range, []byte, error) {
	var ranges []ast.Range
	var chars []byte

	i := 0
	for i < len(inside) {
		switch inside[i] {
		case '-':
			switch {
			case len(chars) == 0 || i == len(inside)-1:
				chars = append(chars, '-')
			case inside[i+1] != '\\':
				last := chars[len(chars)-1]
				chars = chars[:len(chars)-1]
				next := inside[i+1]
				if !isAlnum(last) || !isAlnum(next) {
					return nil, nil, &SyntaxError{Pos: i, Msg: "ranges only supported on alphanumeric chars"}
				}
				if last >= next {
					return nil, nil, &SyntaxError{Pos: i, Msg: "ranges must be from low to high"}
				}
				ranges = append(ranges, ast.Range{Lo: last, Hi: next})
				i++
			default:
				return nil, nil, &SyntaxError{Pos: i, Msg: "cannot have a range with an escaped character"}
			}

		case '\\':
			if i == len(inside)-1 {
				return nil, nil, &SyntaxError{Pos: i, Msg: "escape character with nothing after it"}
			}
			escaped := inside[i+1]
			switch escaped {
			case 's':
				chars = append(chars, whitespaceChars...)
			case 'd':
				ranges = append(ranges, numRanges...)
			case 'w':
				ranges = append(ranges, alphaNumRanges...)
				chars = append(chars, alphaNumChars...)
			case '[', ']', '(', ')', '{', '}', '^', '\\':
				chars = append(chars, escaped)
			default:
				return nil, nil, &UnsupportedError{Pos: i, Msg: "unsupported escaped character " + string(escaped)}
			}
			i++

		default:
			chars = append(chars, inside[i])
		}
		i++
	}
	return ranges, chars, nil
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
