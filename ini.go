// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"fmt"
	"io"
	"os"
)

// An Entry is a single key-value pair. Key and Value are views into the
// owning Document's text; Value is stored trimmed with any inline comment
// already removed.
type Entry struct {
	Key   View
	Value View
}

// A Table is a named group of entries in document order. The first table of
// every valid Document is the root table, which has no name and holds the
// entries that appear before the first bracketed header.
type Table struct {
	name    View
	entries []Entry
}

// Name returns the table's name. The root table's name is the empty view.
func (t *Table) Name() View {
	if t == nil {
		return ""
	}
	return t.name
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the table's entries in insertion order. The returned slice
// is shared with t and must not be modified.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Get returns the first entry with the given key in insertion order, or nil
// if the table has no such entry. Get on a nil table returns nil, so lookups
// chain: doc.Table("server").Get("port") is safe even when the table is
// absent. Duplicate entries after the first are reachable through Entries.
func (t *Table) Get(key string) *Entry {
	if t == nil {
		return nil
	}
	for i := range t.entries {
		if t.entries[i].Key == View(key) {
			return &t.entries[i]
		}
	}
	return nil
}

// A Document is the parsed form of one INI text. It owns the text buffer;
// every View handed out by its tables points into that buffer. A Document
// is immutable after parsing and safe for concurrent readers. The zero
// Document is invalid and empty.
//
// There is no explicit release step: the buffer lives exactly as long as the
// Document or any View into it is reachable.
type Document struct {
	text   string
	tables []Table
}

// Valid reports whether d holds parsed text. Parsing zero-length input
// yields an invalid Document; any non-empty input, however malformed, yields
// a valid one.
func (d Document) Valid() bool {
	return len(d.tables) > 0
}

// Root returns the table of entries that appear before the first bracketed
// header. Every valid Document has one, even when the input held no entries.
// Root returns nil for an invalid Document.
func (d Document) Root() *Table {
	if len(d.tables) == 0 {
		return nil
	}
	return &d.tables[0]
}

// Table returns the first table with the given name, or nil if no table has
// it. The root table is not reachable by name: Table("") returns nil, and no
// header can produce a table with an empty name. Use Root instead.
func (d Document) Table(name string) *Table {
	if name == "" {
		return nil
	}
	for i := range d.tables {
		if d.tables[i].name == View(name) {
			return &d.tables[i]
		}
	}
	return nil
}

// Tables returns every table in document order, the root table first. The
// returned slice is shared with d and must not be modified.
func (d Document) Tables() []Table {
	return d.tables
}

// Parse parses data as INI text. The data is copied once, and the returned
// Document owns the copy, so later changes to data do not affect it.
//
// Parse never fails. Zero-length input yields an invalid Document, and
// malformed constructs in non-empty input are skipped where they stand; see
// the package documentation for the exact degradations.
func Parse(data []byte, opts ...Option) Document {
	return parse(string(data), resolveOptions(opts))
}

// ParseString parses s as INI text. The string itself becomes the Document's
// buffer; nothing is copied.
func ParseString(s string, opts ...Option) Document {
	return parse(s, resolveOptions(opts))
}

// ParseReader reads r to its end and parses the result as INI text.
func ParseReader(r io.Reader, opts ...Option) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("parse ini: %w", err)
	}
	return Parse(data, opts...), nil
}

// ParseFile reads and parses the file at path. The returned Document is
// invalid when the file cannot be read.
func ParseFile(path string, opts ...Option) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("parse ini file: %w", err)
	}
	return Parse(data, opts...), nil
}

// parse runs the single-pass state machine over text. Tables are addressed
// by index throughout: appending to d.tables can move it, so holding a
// *Table across an append would dangle.
func parse(text string, o parseOptions) Document {
	if len(text) == 0 {
		return Document{}
	}
	d := Document{
		text:   text,
		tables: []Table{{}}, // the root table, present even when no entries follow
	}
	s := &scanner{text: text}
	cur := 0
	for s.skipSpace(); !s.finished(); s.skipSpace() {
		switch s.peek() {
		case '[':
			cur = d.parseTable(s, o, cur)
		case '#', ';':
			s.discard('\n')
		default:
			d.parseEntry(s, o, cur)
		}
	}
	return d
}

// parseTable consumes a bracketed header and the entry lines after it, up to
// a blank line or the end of the text. It returns the index of the table
// that later top-level entries should target: the table it opened, or cur
// unchanged when the header was malformed.
func (d *Document) parseTable(s *scanner, o parseOptions, cur int) int {
	s.skip() // consume '['
	name := s.take(']').Trim()
	s.skip() // consume ']'

	// An empty name is a malformed header. Its body is still consumed below
	// so the lines do not bleed into the surrounding table, but none of it
	// is kept.
	target := -1
	if !name.IsEmpty() {
		if o.mergeTables {
			for i := range d.tables {
				if d.tables[i].name == name {
					target = i
					break
				}
			}
		}
		if target < 0 {
			d.tables = append(d.tables, Table{name: name})
			target = len(d.tables) - 1
		}
	}

	// Anything between ']' and the end of the line is dropped.
	s.discard('\n')
	s.skip()

	for !s.finished() {
		switch s.peek() {
		case '\n', '\r':
			// A blank line closes the table body.
			if target < 0 {
				return cur
			}
			return target
		case '#', ';':
			s.discard('\n')
			s.skip()
		default:
			d.parseEntry(s, o, target)
		}
	}
	if target < 0 {
		return cur
	}
	return target
}

// parseEntry consumes one key-value line, including its terminating newline
// when there is one, and appends the entry to the table at index target. A
// negative target consumes the line and keeps nothing. Lines whose trimmed
// key is empty produce no entry.
func (d *Document) parseEntry(s *scanner, o parseOptions, target int) {
	key := s.take(o.divider).Trim()
	s.skip() // consume the divider
	raw := s.take('\n')
	s.skip() // consume the newline; no-op at the end of the text
	if key.IsEmpty() || target < 0 {
		return
	}
	val := cutComment(raw).Trim()
	t := &d.tables[target]
	if o.overrideKeys {
		if e := t.Get(string(key)); e != nil {
			e.Value = val
			return
		}
	}
	t.entries = append(t.entries, Entry{Key: key, Value: val})
}

// cutComment truncates raw at the first '#' or ';' that is not immediately
// preceded by a backslash. The backslash itself stays in the value; Str and
// CopyStr can remove it.
func cutComment(raw View) View {
	for i := 0; i < len(raw); i++ {
		if (raw[i] == '#' || raw[i] == ';') && (i == 0 || raw[i-1] != '\\') {
			return raw[:i]
		}
	}
	return raw
}
