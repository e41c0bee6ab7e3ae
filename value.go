// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"strconv"
	"strings"
)

// Errors returned by the bounded copy accessors CopyStr and CopyArray.
var (
	// ErrInvalidArgs indicates a nil entry or an empty destination.
	ErrInvalidArgs = errors.New("ini: invalid arguments")

	// ErrBufferTooSmall indicates the destination cannot hold the result.
	ErrBufferTooSmall = errors.New("ini: buffer too small")
)

// Str returns the entry's value as an owned string that shares no memory
// with the Document, so keeping it does not keep the whole buffer alive.
// If removeEscapes is true, each backslash escaping a comment marker ('#'
// or ';') is dropped. A nil entry yields "".
func (e *Entry) Str(removeEscapes bool) string {
	if e == nil {
		return ""
	}
	v := e.Value.Trim()
	if removeEscapes {
		return unescape(v)
	}
	return strings.Clone(string(v))
}

// unescape copies v, dropping each '\' that immediately precedes a comment
// marker.
func unescape(v View) string {
	sb := new(strings.Builder)
	sb.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) && (v[i+1] == '#' || v[i+1] == ';') {
			continue
		}
		sb.WriteByte(v[i])
	}
	return sb.String()
}

// CopyStr copies the entry's value into dst without allocating and returns
// the number of bytes written. No NUL terminator is written. It returns
// ErrInvalidArgs for a nil entry or empty dst, and ErrBufferTooSmall when
// the value does not fit, in which case dst may hold a truncated prefix but
// is never written past its length. If removeEscapes is true, comment-marker
// escapes are dropped while copying.
func (e *Entry) CopyStr(dst []byte, removeEscapes bool) (int, error) {
	if e == nil || len(dst) == 0 {
		return 0, ErrInvalidArgs
	}
	v := e.Value.Trim()
	n := 0
	for i := 0; i < len(v); i++ {
		if removeEscapes && v[i] == '\\' && i+1 < len(v) && (v[i+1] == '#' || v[i+1] == ';') {
			continue
		}
		if n >= len(dst) {
			return 0, ErrBufferTooSmall
		}
		dst[n] = v[i]
		n++
	}
	return n, nil
}

// Array splits the entry's value on delim and returns the fields as Views
// into the Document. A zero delim splits on spaces. Fields are trimmed and
// empty fields are dropped, so runs of delimiters and surrounding whitespace
// collapse. A nil entry or an empty value yields nil.
func (e *Entry) Array(delim byte) []View {
	if e == nil || e.Value.IsEmpty() {
		return nil
	}
	if delim == 0 {
		delim = ' '
	}
	var fields []View
	v := e.Value
	start := 0
	for i := 0; i <= len(v); i++ {
		if i < len(v) && v[i] != delim {
			continue
		}
		if f := v.Sub(start, i).Trim(); !f.IsEmpty() {
			fields = append(fields, f)
		}
		start = i + 1
	}
	return fields
}

// CopyArray is the allocation-free variant of Array: it fills dst with the
// fields of the value and returns how many it wrote. It returns
// ErrInvalidArgs for a nil entry or empty dst. When dst is too short it
// returns ErrBufferTooSmall; dst may hold the leading fields in that case.
// An empty value yields zero fields and no error.
func (e *Entry) CopyArray(dst []View, delim byte) (int, error) {
	if e == nil || len(dst) == 0 {
		return 0, ErrInvalidArgs
	}
	if e.Value.IsEmpty() {
		return 0, nil
	}
	if delim == 0 {
		delim = ' '
	}
	n := 0
	v := e.Value
	start := 0
	for i := 0; i <= len(v); i++ {
		if i < len(v) && v[i] != delim {
			continue
		}
		if f := v.Sub(start, i).Trim(); !f.IsEmpty() {
			if n >= len(dst) {
				return 0, ErrBufferTooSmall
			}
			dst[n] = f
			n++
		}
		start = i + 1
	}
	return n, nil
}

// Int returns the value parsed as a signed 64-bit integer. The base is
// inferred from the usual prefixes (0x, 0o, 0b, and a leading 0 for octal).
// A nil entry, malformed text, and out-of-range values all yield 0; callers
// that need to tell those apart should read the value view directly.
func (e *Entry) Int() int64 {
	if e == nil {
		return 0
	}
	n, err := strconv.ParseInt(string(e.Value), 0, 64)
	if err != nil {
		return 0
	}
	return n
}

// Uint returns the value parsed as an unsigned 64-bit integer, with the same
// base inference and zero fallback as Int.
func (e *Entry) Uint() uint64 {
	if e == nil {
		return 0
	}
	n, err := strconv.ParseUint(string(e.Value), 0, 64)
	if err != nil {
		return 0
	}
	return n
}

// Float returns the value parsed as a 64-bit float. A nil entry, malformed
// text, and out-of-range values all yield 0.
func (e *Entry) Float() float64 {
	if e == nil {
		return 0
	}
	f, err := strconv.ParseFloat(string(e.Value), 64)
	if err != nil {
		return 0
	}
	return f
}

// Bool reports whether the value is exactly the four bytes "true". Anything
// else, including "TRUE" and "1", is false.
func (e *Entry) Bool() bool {
	return e != nil && e.Value == "true"
}
