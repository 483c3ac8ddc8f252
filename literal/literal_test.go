package literal

import (
	"testing"

	"github.com/hexvm/rex/ast"
)

func bytesOf(lits []Literal) []string {
	var out []string
	for _, l := range lits {
		out = append(out, string(l.Bytes))
	}
	return out
}

func TestExtractLiteralSequenceConcatenates(t *testing.T) {
	root := ast.Sequence{Children: []ast.Node{
		ast.Literal{Char: 'a'}, ast.Literal{Char: 'b'}, ast.Literal{Char: 'c'},
	}}
	lits, ok := Extract(root)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got := bytesOf(lits); len(got) != 1 || got[0] != "abc" {
		t.Fatalf("got %v, want [abc]", got)
	}
}

func TestExtractWildcardBreaksRun(t *testing.T) {
	root := ast.Sequence{Children: []ast.Node{
		ast.Literal{Char: 'a'}, ast.WildCard{}, ast.Literal{Char: 'b'},
	}}
	lits, ok := Extract(root)
	if !ok {
		t.Fatalf("expected ok")
	}
	got := bytesOf(lits)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v, want [a b]", got)
	}
}

func TestExtractOptionHasNoGuarantee(t *testing.T) {
	_, ok := Extract(ast.Option{Child: ast.Literal{Char: 'a'}})
	if ok {
		t.Fatalf("Option must never guarantee a literal")
	}
}

func TestExtractSomeGuaranteesOneOccurrence(t *testing.T) {
	lits, ok := Extract(ast.Some{Child: ast.Literal{Char: 'a'}})
	if !ok || len(lits) != 1 || string(lits[0].Bytes) != "a" {
		t.Fatalf("got %v, %v", lits, ok)
	}
}

func TestExtractAlternationRequiresBothBranches(t *testing.T) {
	_, ok := Extract(ast.Alternatives{Alt1: ast.Literal{Char: 'a'}, Alt2: ast.WildCard{}})
	if ok {
		t.Fatalf("alternation with an unconstrained branch must not guarantee a literal")
	}

	lits, ok := Extract(ast.Alternatives{Alt1: ast.Literal{Char: 'a'}, Alt2: ast.Literal{Char: 'b'}})
	if !ok {
		t.Fatalf("expected ok when both branches guarantee a literal")
	}
	got := bytesOf(lits)
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 literals", got)
	}
}

func TestExtractBareWildcardNoGuarantee(t *testing.T) {
	_, ok := Extract(ast.WildCard{})
	if ok {
		t.Fatalf("bare wildcard must not guarantee a literal")
	}
}
