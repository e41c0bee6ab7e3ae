// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import "testing"

func TestScannerTake(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		delim   byte
		want    View
		wantOff int
	}{
		{
			name:    "StopsAtDelimiter",
			text:    "key=value",
			delim:   '=',
			want:    "key",
			wantOff: 3,
		},
		{
			name:    "DelimiterFirst",
			text:    "=value",
			delim:   '=',
			want:    "",
			wantOff: 0,
		},
		{
			name:    "NoDelimiterTakesRest",
			text:    "key value",
			delim:   '=',
			want:    "key value",
			wantOff: 9,
		},
		{
			name:    "CrossesNewlines",
			text:    "a\nb=c",
			delim:   '=',
			want:    "a\nb",
			wantOff: 3,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := &scanner{text: test.text}
			if got := s.take(test.delim); got != test.want {
				t.Errorf("take(%q) = %q; want %q", test.delim, got, test.want)
			}
			if s.off != test.wantOff {
				t.Errorf("offset after take = %d; want %d", s.off, test.wantOff)
			}
		})
	}
}

func TestScannerCursor(t *testing.T) {
	s := &scanner{text: " \t\nab"}
	s.skipSpace()
	if s.finished() {
		t.Fatal("finished() = true before the text ends")
	}
	if got := s.peek(); got != 'a' {
		t.Errorf("peek() = %q; want 'a'", got)
	}
	s.skip()
	if got := s.peek(); got != 'b' {
		t.Errorf("peek() = %q; want 'b'", got)
	}
	s.skip()
	if !s.finished() {
		t.Error("finished() = false at the end of the text")
	}
	// Past the end, skip and skipSpace hold position.
	s.skip()
	s.skipSpace()
	if s.off != len(s.text) {
		t.Errorf("offset after skipping at the end = %d; want %d", s.off, len(s.text))
	}
}

func TestScannerDiscard(t *testing.T) {
	s := &scanner{text: "drop this\nkeep"}
	s.discard('\n')
	if got := s.peek(); got != '\n' {
		t.Errorf("peek() after discard = %q; want newline", got)
	}
	s.skip()
	if got := s.take('\n'); got != "keep" {
		t.Errorf("take() = %q; want %q", got, "keep")
	}
	if !s.finished() {
		t.Error("finished() = false after taking the rest")
	}
}
