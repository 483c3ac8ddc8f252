package vm

import (
	"testing"

	"github.com/hexvm/rex/bytecode"
	"github.com/hexvm/rex/codegen"
	"github.com/hexvm/rex/parser"
)

func compileProgram(t *testing.T, pattern string) bytecode.Program {
	t.Helper()
	root, anchored, err := parser.Parse(pattern)
	if err != nil {
		t.Fatalf("parser.Parse(%q): %v", pattern, err)
	}
	prog, err := codegen.Compile(root, anchored, codegen.DefaultOptions())
	if err != nil {
		t.Fatalf("codegen.Compile(%q): %v", pattern, err)
	}
	return prog
}

func TestRunLiteralMatch(t *testing.T) {
	prog := compileProgram(t, "abc")
	start, end, ok := Run(prog, "xxabcxx")
	if !ok || start != 2 || end != 5 {
		t.Fatalf("Run = (%d, %d, %v), want (2, 5, true)", start, end, ok)
	}
}

func TestRunNoMatch(t *testing.T) {
	prog := compileProgram(t, "abc")
	_, _, ok := Run(prog, "xyz")
	if ok {
		t.Fatalf("expected no match")
	}
}

func TestRunAnchoredRequiresPrefix(t *testing.T) {
	prog := compileProgram(t, "$abc")
	_, _, ok := Run(prog, "xabc")
	if ok {
		t.Fatalf("anchored pattern must not match when prefixed")
	}
	start, end, ok := Run(prog, "abcxyz")
	if !ok || start != 0 || end != 3 {
		t.Fatalf("Run = (%d, %d, %v), want (0, 3, true)", start, end, ok)
	}
}

func TestRunAlternationAndStar(t *testing.T) {
	prog := compileProgram(t, "$a(b|c)*d")
	cases := map[string][2]int{
		"ad":     {0, 2},
		"abd":    {0, 3},
		"abcbcd": {0, 6},
	}
	for in, want := range cases {
		start, end, ok := Run(prog, in)
		if !ok || start != want[0] || end != want[1] {
			t.Fatalf("Run(%q) = (%d, %d, %v), want (%d, %d, true)", in, start, end, ok, want[0], want[1])
		}
	}
	if _, _, ok := Run(prog, "axd"); ok {
		t.Fatalf("expected no match for axd")
	}
}

func TestRunBoundedCount(t *testing.T) {
	prog := compileProgram(t, "$a{2,4}")
	cases := map[string]bool{
		"a":     false,
		"aa":    true,
		"aaa":   true,
		"aaaa":  true,
		"aaaaa": true,
	}
	for in, want := range cases {
		_, _, ok := Run(prog, in)
		if ok != want {
			t.Fatalf("Run(%q) ok = %v, want %v", in, ok, want)
		}
	}
	start, end, ok := Run(prog, "aaaaa")
	if !ok || end-start != 4 {
		t.Fatalf("Run(aaaaa) = (%d, %d), want a 4-byte match", start, end)
	}
}

const ipOctetPattern = `((25[0-5]|2[0-4][0-9]|[01]?[0-9]?[0-9])\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9]?[0-9])`

func TestRunIPAddressScenarios(t *testing.T) {
	prog := compileProgram(t, ipOctetPattern)
	cases := map[string]string{
		"1.2.3.4":                          "1.2.3.4",
		"255.255.255.255":                  "255.255.255.255",
		"An IP Address: 127.0.0.1":         "127.0.0.1",
		"I think [4.3.2.1] is an IP Address": "4.3.2.1",
	}
	for in, want := range cases {
		start, end, ok := Run(prog, in)
		if !ok || in[start:end] != want {
			t.Fatalf("Run(%q): got ok=%v substr=%q, want %q", in, ok, safeSlice(in, start, end, ok), want)
		}
	}
	if _, _, ok := Run(prog, "25.321.2.2"); ok {
		t.Fatalf("expected no match for 25.321.2.2")
	}
}

func TestRunIPAddressLongestMatchQuirk(t *testing.T) {
	// No octet alternative can consume "256" and still leave a literal
	// '.' next, so position 0 never yields a full match; position 1
	// does ("56.255.255.255"), and since it's the longest match in the
	// recorded set, the longest-match rule reports it even though it
	// drops the leading digit — the overall-longest-wins search rule.
	prog := compileProgram(t, ipOctetPattern)
	start, end, ok := Run(prog, "256.255.255.255")
	if !ok {
		t.Fatalf("expected a match")
	}
	got := "256.255.255.255"[start:end]
	if got != "56.255.255.255" {
		t.Fatalf("got %q, want %q", got, "56.255.255.255")
	}
}

func safeSlice(s string, start, end int, ok bool) string {
	if !ok {
		return "<no match>"
	}
	return s[start:end]
}

func TestRunCharSetInversion(t *testing.T) {
	prog := compileProgram(t, "$[^0-9]+")
	start, end, ok := Run(prog, "abc123")
	if !ok || start != 0 || end != 3 {
		t.Fatalf("Run = (%d, %d, %v), want (0, 3, true)", start, end, ok)
	}
}

func TestRunDetailedRecursionGuard(t *testing.T) {
	prog := compileProgram(t, "$a*a*a*a*a*b")
	input := ""
	for i := 0; i < 64; i++ {
		input += "a"
	}
	_, err := RunDetailed(prog, input, Options{RecursionGuard: 10})
	if err != ErrRecursionGuard {
		t.Fatalf("err = %v, want ErrRecursionGuard", err)
	}
}

func TestRunSpecScenarios(t *testing.T) {
	abcd := compileProgram(t, "a(b|c)*d")
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"abbcbd", "abbcbd", true},
		{"ad", "ad", true},
		{"abx", "", false},
	}
	for _, c := range cases {
		start, end, ok := Run(abcd, c.in)
		if ok != c.ok {
			t.Fatalf("Run(%q) ok = %v, want %v", c.in, ok, c.ok)
		}
		if ok && c.in[start:end] != c.want {
			t.Fatalf("Run(%q) = %q, want %q", c.in, c.in[start:end], c.want)
		}
	}

	bounded := compileProgram(t, "a{2,4}")
	if _, _, ok := Run(bounded, "a"); ok {
		t.Fatalf("a{2,4} over \"a\" should not match")
	}
	start, end, ok := Run(bounded, "aaaaa")
	if !ok || "aaaaa"[start:end] != "aaaa" {
		t.Fatalf("a{2,4} over \"aaaaa\" = %q, want \"aaaa\"", safeSlice("aaaaa", start, end, ok))
	}
}

func TestRunEmptyProgram(t *testing.T) {
	res, err := RunDetailed(nil, "anything", DefaultOptions())
	if err != nil || res != nil {
		t.Fatalf("RunDetailed(nil program) = (%v, %v), want (nil, nil)", res, err)
	}
}
