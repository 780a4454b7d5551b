package primitives

import "testing"

func TestNibblerConsumeLiteralLeavesCursorOnFailure(t *testing.T) {
	n := NewNibbler("hello world")
	if n.ConsumeLiteral("world") {
		t.Fatalf("expected failure")
	}
	if n.Cursor() != 0 {
		t.Fatalf("cursor moved on failed match: %d", n.Cursor())
	}
	if !n.ConsumeLiteral("hello") {
		t.Fatalf("expected match")
	}
	if n.Cursor() != 5 {
		t.Fatalf("unexpected cursor: %d", n.Cursor())
	}
}

func TestNibblerSaveRestore(t *testing.T) {
	n := NewNibbler("abcdef")
	n.SkipN(2)
	n.Save()
	n.SkipN(2)
	if n.Cursor() != 4 {
		t.Fatalf("unexpected cursor: %d", n.Cursor())
	}
	n.Restore()
	if n.Cursor() != 2 {
		t.Fatalf("restore did not rewind: %d", n.Cursor())
	}
}

func TestNibblerConsumeQuotedWithEscapes(t *testing.T) {
	n := NewNibbler(`"a\"b" rest`)
	s, ok := n.ConsumeQuoted('"', true)
	if !ok {
		t.Fatalf("expected quoted match")
	}
	if s != `a"b` {
		t.Fatalf("unexpected decode: %q", s)
	}
	if n.Remainder() != " rest" {
		t.Fatalf("unexpected remainder: %q", n.Remainder())
	}
}

func TestNibblerConsumeQuotedUnterminatedFails(t *testing.T) {
	n := NewNibbler(`"unterminated`)
	if _, ok := n.ConsumeQuoted('"', false); ok {
		t.Fatalf("expected failure on unterminated quote")
	}
	if n.Cursor() != 0 {
		t.Fatalf("cursor moved on failure")
	}
}

func TestNibblerConsumeInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"123abc", 123, true},
		{"-45", -45, true},
		{"+7", 7, true},
		{"abc", 0, false},
	}
	for _, c := range cases {
		n := NewNibbler(c.in)
		got, ok := n.ConsumeInt()
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("ConsumeInt(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestNibblerConsumeUUID(t *testing.T) {
	n := NewNibbler("ca5e5a9f-e94a-4d5b-b90e-f2d5d93f2d5d and more")
	u, ok := n.ConsumeUUID()
	if !ok {
		t.Fatalf("expected UUID match")
	}
	if u != "ca5e5a9f-e94a-4d5b-b90e-f2d5d93f2d5d" {
		t.Fatalf("unexpected uuid: %q", u)
	}
	if n.Remainder() != " and more" {
		t.Fatalf("unexpected remainder: %q", n.Remainder())
	}
}

func TestNibblerConsumeUntil(t *testing.T) {
	n := NewNibbler("foo:bar")
	s, ok := n.ConsumeUntil(':')
	if !ok || s != "foo" {
		t.Fatalf("unexpected result: %q %v", s, ok)
	}
	if !n.ConsumeChar(':') {
		t.Fatalf("expected colon at cursor")
	}
	rest, ok := n.ConsumeUntilEOS()
	if !ok || rest != "bar" {
		t.Fatalf("unexpected tail: %q %v", rest, ok)
	}
}

func TestNibblerSkipWS(t *testing.T) {
	n := NewNibbler("   x")
	if !n.SkipWS() {
		t.Fatalf("expected whitespace skipped")
	}
	if n.Cursor() != 3 {
		t.Fatalf("unexpected cursor: %d", n.Cursor())
	}
}

func TestNibblerDepleted(t *testing.T) {
	n := NewNibbler("")
	if !n.Depleted() {
		t.Fatalf("empty nibbler should be depleted")
	}
}
