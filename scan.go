// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import "strings"

// scanner is a byte cursor over a Document's text. Parsing is one
// left-to-right pass; no method reads past the end of the text and none of
// them allocates.
type scanner struct {
	text string
	off  int
}

// finished reports whether the cursor has consumed all of the text.
func (s *scanner) finished() bool {
	return s.off >= len(s.text)
}

// peek returns the byte under the cursor. Callers check finished first.
func (s *scanner) peek() byte {
	return s.text[s.off]
}

// skip advances past a single byte. It is a no-op at the end of the text.
func (s *scanner) skip() {
	if s.off < len(s.text) {
		s.off++
	}
}

// skipSpace advances past ASCII whitespace.
func (s *scanner) skipSpace() {
	for s.off < len(s.text) && isSpace(s.text[s.off]) {
		s.off++
	}
}

// discard advances the cursor to the next occurrence of delim without
// consuming it. If delim does not occur, the cursor stops at the end of the
// text.
func (s *scanner) discard(delim byte) {
	if i := strings.IndexByte(s.text[s.off:], delim); i >= 0 {
		s.off += i
	} else {
		s.off = len(s.text)
	}
}

// take returns the view from the cursor up to (not including) the next
// occurrence of delim, leaving the cursor on the delimiter. If delim does
// not occur, take returns the rest of the text.
func (s *scanner) take(delim byte) View {
	start := s.off
	s.discard(delim)
	return View(s.text[start:s.off])
}
