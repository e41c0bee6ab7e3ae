// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

// A View is a read-only span of a Document's text. Views taken from the same
// Document share its buffer, so constructing one never copies; a View keeps
// the buffer reachable for as long as the View itself is. The zero View is
// empty.
//
// Because View is a string type, == compares length and bytes, which is the
// same equality Compare reports.
type View string

// IsEmpty reports whether v has zero length.
func (v View) IsEmpty() bool {
	return len(v) == 0
}

// Trim returns v without leading and trailing ASCII whitespace (space, tab,
// carriage return, and newline). A view of nothing but whitespace trims to
// the empty view. Trim never fails: non-ASCII bytes are left alone.
func (v View) Trim() View {
	start := 0
	for start < len(v) && isSpace(v[start]) {
		start++
	}
	end := len(v)
	for end > start && isSpace(v[end-1]) {
		end--
	}
	return v[start:end]
}

// Sub returns the view from from (inclusive) to to (exclusive). Out-of-range
// bounds are clamped rather than panicking: negative positions become zero,
// to is capped at len(v), and from is capped at to.
func (v View) Sub(from, to int) View {
	if to < 0 {
		to = 0
	}
	if to > len(v) {
		to = len(v)
	}
	if from < 0 {
		from = 0
	}
	if from > to {
		from = to
	}
	return v[from:to]
}

// Compare returns -1, 0, or +1 ordering v against o by length first, then by
// byte content. Two views compare equal exactly when == reports true.
func (v View) Compare(o View) int {
	switch {
	case len(v) < len(o):
		return -1
	case len(v) > len(o):
		return 1
	case v < o:
		return -1
	case v > o:
		return 1
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
