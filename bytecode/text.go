package bytecode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Assembly pairs a compiled Program with the source pattern it came from,
// the unit the textual and binary serializations of §6 operate on.
type Assembly struct {
	Source  string
	Program Program
}

// escapeByte renders a character operand in the textual assembly grammar.
// Whitespace, '%' and ',' collide with the grammar's own token separators
// and comment/operand markers, so they're serialized as "%<decimal>".
func escapeByte(b byte) string {
	if isSpaceByte(b) || b == '%' || b == ',' {
		return "%" + strconv.Itoa(int(b))
	}
	return string(rune(b))
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// unescapeByte parses a single operand token back into a byte, reversing
// escapeByte. An unescaped token must be a single rune no greater than
// U+00FF (escapeByte writes bytes 0x80-0xFF as that rune); anything else is
// rejected, since the VM compares on raw bytes.
func unescapeByte(tok string) (byte, error) {
	if strings.HasPrefix(tok, "%") {
		n, err := strconv.Atoi(tok[1:])
		if err != nil || n < 0 || n > 0xFF {
			return 0, fmt.Errorf("bytecode: bad escaped operand %q", tok)
		}
		return byte(n), nil
	}
	r := []rune(tok)
	if len(r) != 1 || r[0] > 0xFF {
		return 0, fmt.Errorf("bytecode: operand %q is not a single byte", tok)
	}
	return byte(r[0]), nil
}

// String renders the instruction in the canonical mnemonic form of §3/§6.2.
func (in Instruction) String() string {
	switch in.Op {
	case OpMatch:
		return "Match"
	case OpSave:
		return fmt.Sprintf("Save %d", in.Index)
	case OpJump:
		return fmt.Sprintf("Jump %d", in.Dest)
	case OpSplit:
		return fmt.Sprintf("Split %d %d", in.Dest, in.Dest2)
	case OpCompare:
		return fmt.Sprintf("Compare %s %s", escapeByte(in.Lo), escapeByte(in.Hi))
	case OpInvCompare:
		return fmt.Sprintf("InvCompare %s %s", escapeByte(in.Lo), escapeByte(in.Hi))
	case OpOptCompare:
		return fmt.Sprintf("OptCompare %s %s %d", escapeByte(in.Lo), escapeByte(in.Hi), in.Dest)
	default:
		return fmt.Sprintf("<bad op %d>", in.Op)
	}
}

// String renders the full textual assembly: a "# regex: <source>" comment
// line followed by one mnemonic per instruction.
func (a Assembly) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# regex: %s\n", a.Source)
	for i, in := range a.Program {
		b.WriteString(in.String())
		if i != len(a.Program)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ParseText is the inverse of Assembly.String: it reads a textual assembly
// listing and reconstructs the Program and source comment. Lines beginning
// with '#' are comments; the first comment of the form "# regex: <source>"
// supplies the source text.
func ParseText(r io.Reader) (Assembly, error) {
	scanner := bufio.NewScanner(r)
	var prog Program
	var source string
	haveSource := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if !haveSource {
				if rest, ok := strings.CutPrefix(line, "# regex:"); ok {
					source = strings.TrimSpace(rest)
					haveSource = true
				}
			}
			continue
		}
		in, err := parseInstructionLine(line, lineNo)
		if err != nil {
			return Assembly{}, err
		}
		prog = append(prog, in)
	}
	if err := scanner.Err(); err != nil {
		return Assembly{}, err
	}
	return Assembly{Source: source, Program: prog}, nil
}

func parseInstructionLine(line string, lineNo int) (Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Instruction{}, &TextError{Line: lineNo, Msg: "empty instruction"}
	}

	mnemonic, args := fields[0], fields[1:]
	switch mnemonic {
	case "Match":
		return Match(), nil
	case "Save":
		n, err := expectInt(args, 1, lineNo)
		if err != nil {
			return Instruction{}, err
		}
		return Save(n[0]), nil
	case "Jump":
		n, err := expectInt(args, 1, lineNo)
		if err != nil {
			return Instruction{}, err
		}
		return Jump(n[0]), nil
	case "Split":
		n, err := expectInt(args, 2, lineNo)
		if err != nil {
			return Instruction{}, err
		}
		return Split(n[0], n[1]), nil
	case "Compare", "InvCompare":
		if len(args) != 2 {
			return Instruction{}, &TextError{Line: lineNo, Msg: mnemonic + " requires 2 operands"}
		}
		lo, err := unescapeByte(args[0])
		if err != nil {
			return Instruction{}, &TextError{Line: lineNo, Msg: err.Error()}
		}
		hi, err := unescapeByte(args[1])
		if err != nil {
			return Instruction{}, &TextError{Line: lineNo, Msg: err.Error()}
		}
		if mnemonic == "Compare" {
			return Compare(lo, hi), nil
		}
		return InvCompare(lo, hi), nil
	case "OptCompare":
		if len(args) != 3 {
			return Instruction{}, &TextError{Line: lineNo, Msg: "OptCompare requires 3 operands"}
		}
		lo, err := unescapeByte(args[0])
		if err != nil {
			return Instruction{}, &TextError{Line: lineNo, Msg: err.Error()}
		}
		hi, err := unescapeByte(args[1])
		if err != nil {
			return Instruction{}, &TextError{Line: lineNo, Msg: err.Error()}
		}
		dest, err := strconv.Atoi(args[2])
		if err != nil {
			return Instruction{}, &TextError{Line: lineNo, Msg: "bad dest operand"}
		}
		return OptCompare(lo, hi, dest), nil
	default:
		return Instruction{}, &TextError{Line: lineNo, Msg: "unknown mnemonic " + mnemonic}
	}
}

func expectInt(args []string, n int, lineNo int) ([]int, error) {
	if len(args) != n {
		return nil, &TextError{Line: lineNo, Msg: fmt.Sprintf("expected %d operand(s), got %d", n, len(args))}
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, &TextError{Line: lineNo, Msg: "bad integer operand " + a}
		}
		out[i] = v
	}
	return out, nil
}
