// Package charstream provides a UTF-8 cursor over source text with
// lookahead, a save/restore stack for trial parses, and precomputed
// line-start offsets for fast line/column lookup.
package charstream

import (
	"sort"
	"unicode/utf8"
)

// EOF is returned by current/advance/peek once the stream is exhausted.
const EOF rune = -1

// Stream is a UTF-8 cursor. byte_position always points at a UTF-8
// character boundary; advancing past the end is idempotent.
type Stream struct {
	src        string
	bytePos    int
	line       int // 1-based
	column     int // 1-based, per user-visible character
	lineStarts []int
	saved      []state
}

type state struct {
	bytePos int
	line    int
	column  int
}

// New builds a Stream over src, precomputing line-start byte offsets.
func New(src string) *Stream {
	s := &Stream{src: src, line: 1, column: 1}
	s.lineStarts = []int{0}
	for i, b := range []byte(src) {
		if b == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// Current returns the rune at the cursor without consuming it.
func (s *Stream) Current() rune {
	return s.Peek(0)
}

// Peek returns the rune n positions ahead of the cursor (0 = current)
// without consuming anything.
func (s *Stream) Peek(n int) rune {
	pos := s.bytePos
	for i := 0; i < n; i++ {
		if pos >= len(s.src) {
			return EOF
		}
		_, size := utf8.DecodeRuneInString(s.src[pos:])
		pos += size
	}
	if pos >= len(s.src) {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(s.src[pos:])
	return r
}

// Advance consumes and returns the current rune, updating line/column.
// Advancing past the end is idempotent and returns EOF.
func (s *Stream) Advance() rune {
	if s.bytePos >= len(s.src) {
		return EOF
	}
	r, size := utf8.DecodeRuneInString(s.src[s.bytePos:])
	s.bytePos += size
	if r == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return r
}

// AtEOF reports whether the cursor has reached the end of input.
func (s *Stream) AtEOF() bool {
	return s.bytePos >= len(s.src)
}

// BytePos returns the current byte offset, always a UTF-8 boundary.
func (s *Stream) BytePos() int { return s.bytePos }

// Line returns the current 1-based line.
func (s *Stream) Line() int { return s.line }

// Column returns the current 1-based column.
func (s *Stream) Column() int { return s.column }

// AdvanceWhile consumes runes while pred holds, returning the consumed
// text.
func (s *Stream) AdvanceWhile(pred func(rune) bool) string {
	start := s.bytePos
	for !s.AtEOF() && pred(s.Current()) {
		s.Advance()
	}
	return s.src[start:s.bytePos]
}

// SkipWhile consumes runes while pred holds, returning the count consumed.
func (s *Stream) SkipWhile(pred func(rune) bool) int {
	n := 0
	for !s.AtEOF() && pred(s.Current()) {
		s.Advance()
		n++
	}
	return n
}

// Save pushes the current position onto the save/restore stack, enabling
// a nested trial parse.
func (s *Stream) Save() {
	s.saved = append(s.saved, state{bytePos: s.bytePos, line: s.line, column: s.column})
}

// Restore pops the most recently saved position and rewinds the cursor to
// it. Save/Restore calls must be balanced (LIFO); Restore on an empty
// stack is a no-op.
func (s *Stream) Restore() {
	if len(s.saved) == 0 {
		return
	}
	top := s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	s.bytePos = top.bytePos
	s.line = top.line
	s.column = top.column
}

// Commit pops the most recently saved position without rewinding,
// discarding the checkpoint now that the trial parse succeeded.
func (s *Stream) Commit() {
	if len(s.saved) == 0 {
		return
	}
	s.saved = s.saved[:len(s.saved)-1]
}

// LineColAt resolves a byte offset to a 1-based (line, column) pair in
// O(log lines) via the precomputed line-start table.
func (s *Stream) LineColAt(bytePos int) (line, column int) {
	i := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > bytePos
	})
	line = i // lineStarts[i-1] is the start of this line, lines are 1-based
	lineStart := s.lineStarts[i-1]
	column = utf8.RuneCountInString(s.src[lineStart:bytePos]) + 1
	return line, column
}

// Slice returns the raw source text between two byte offsets.
func (s *Stream) Slice(start, end int) string {
	return s.src[start:end]
}

// Len returns the byte length of the source.
func (s *Stream) Len() int { return len(s.src) }
