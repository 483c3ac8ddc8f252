package driver

import (
	"strings"
	"testing"

	"github.com/hexvm/rex"
)

func TestMatchFile(t *testing.T) {
	re := rex.MustCompile(`\d+`)
	input := "no digits here\nrow 1\nanother plain row\nrow 42\n"
	var out strings.Builder

	n, err := MatchFile(re, strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("MatchFile: %v", err)
	}
	if n != 2 {
		t.Fatalf("matched %d lines, want 2", n)
	}
	want := "row 1\nrow 42\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestMatchFileNoMatches(t *testing.T) {
	re := rex.MustCompile(`\d+`)
	var out strings.Builder
	n, err := MatchFile(re, strings.NewReader("abc\ndef\n"), &out)
	if err != nil {
		t.Fatalf("MatchFile: %v", err)
	}
	if n != 0 || out.String() != "" {
		t.Fatalf("got n=%d out=%q, want 0 and empty", n, out.String())
	}
}
