package charstream

import "testing"

func TestStream_AdvancePastEndIsIdempotent(t *testing.T) {
	s := New("ab")
	s.Advance()
	s.Advance()
	if !s.AtEOF() {
		t.Fatal("expected EOF after consuming all input")
	}
	if r := s.Advance(); r != EOF {
		t.Fatalf("expected EOF, got %q", r)
	}
	if r := s.Advance(); r != EOF {
		t.Fatalf("advancing past EOF again should still yield EOF, got %q", r)
	}
}

func TestStream_UTF8Boundary(t *testing.T) {
	s := New("دالة x")
	first := s.Advance()
	if first != 'د' {
		t.Fatalf("expected 'د', got %q", first)
	}
	if s.BytePos() != len("د") {
		t.Fatalf("byte position %d is not on a UTF-8 boundary", s.BytePos())
	}
}

func TestStream_PeekDoesNotConsume(t *testing.T) {
	s := New("abc")
	if p := s.Peek(1); p != 'b' {
		t.Fatalf("peek(1) = %q, want 'b'", p)
	}
	if s.Current() != 'a' {
		t.Fatal("peek should not advance the cursor")
	}
}

func TestStream_AdvanceWhile(t *testing.T) {
	s := New("1234abc")
	digits := s.AdvanceWhile(func(r rune) bool { return r >= '0' && r <= '9' })
	if digits != "1234" {
		t.Fatalf("AdvanceWhile digits = %q", digits)
	}
	if s.Current() != 'a' {
		t.Fatalf("expected cursor at 'a', got %q", s.Current())
	}
}

func TestStream_SaveRestoreLIFO(t *testing.T) {
	s := New("abcdef")
	s.Advance() // a
	s.Save()
	s.Advance() // b
	s.Save()
	s.Advance() // c
	s.Restore() // back to after 'b'
	if s.Current() != 'c' {
		t.Fatalf("expected 'c' after restoring inner checkpoint, got %q", s.Current())
	}
	s.Restore() // back to after 'a'
	if s.Current() != 'b' {
		t.Fatalf("expected 'b' after restoring outer checkpoint, got %q", s.Current())
	}
}

func TestStream_LineColumnTracking(t *testing.T) {
	s := New("ab\ncd")
	for i := 0; i < 3; i++ {
		s.Advance() // a, b, \n
	}
	if s.Line() != 2 || s.Column() != 1 {
		t.Fatalf("expected line 2 col 1 after newline, got line %d col %d", s.Line(), s.Column())
	}
}

func TestStream_LineColAt(t *testing.T) {
	s := New("one\ntwo\nthree")
	line, col := s.LineColAt(len("one\ntw"))
	if line != 2 || col != 3 {
		t.Fatalf("LineColAt = (%d,%d), want (2,3)", line, col)
	}
}
