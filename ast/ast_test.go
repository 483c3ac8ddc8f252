package ast

import "testing"

func TestCharSetIsSingleChar(t *testing.T) {
	if !(CharSet{Chars: []byte{'a'}}).IsSingleChar() {
		t.Fatalf("expected a single literal char to report IsSingleChar")
	}
	if (CharSet{Chars: []byte{'a', 'b'}}).IsSingleChar() {
		t.Fatalf("two chars should not report IsSingleChar")
	}
	if (CharSet{Ranges: []Range{{Lo: 'a', Hi: 'z'}}}).IsSingleChar() {
		t.Fatalf("a range should not report IsSingleChar")
	}
}

func TestCharSetIsSingleRange(t *testing.T) {
	if !(CharSet{Ranges: []Range{{Lo: 'a', Hi: 'z'}}}).IsSingleRange() {
		t.Fatalf("expected a single range to report IsSingleRange")
	}
	if (CharSet{Ranges: []Range{{Lo: 'a', Hi: 'z'}, {Lo: '0', Hi: '9'}}}).IsSingleRange() {
		t.Fatalf("two ranges should not report IsSingleRange")
	}
	if (CharSet{Chars: []byte{'a'}}).IsSingleRange() {
		t.Fatalf("a literal char should not report IsSingleRange")
	}
}
