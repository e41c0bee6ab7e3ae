// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"fmt"
	"os"
)

// FileSet is a list of documents to read configuration from in descending
// order of precedence.
type FileSet []*Document

// ParseFiles parses the files at the given paths into a FileSet. If the
// returned error is nil, the set's length equals the number of paths.
// ParseFiles stops on the first error, but ignores missing files, leaving a
// nil element in the corresponding slot of the set.
func ParseFiles(paths []string, opts ...Option) (FileSet, error) {
	fset := make(FileSet, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			fset = append(fset, nil)
			continue
		}
		if err != nil {
			return fset, fmt.Errorf("parse ini files: %w", err)
		}
		doc := Parse(data, opts...)
		fset = append(fset, &doc)
	}
	return fset, nil
}

// Get returns the first matching entry from the first document that has one,
// or nil if none does. Passing an empty table name searches each document's
// root table.
func (fset FileSet) Get(table, key string) *Entry {
	for _, d := range fset {
		if d == nil {
			continue
		}
		t := d.Root()
		if table != "" {
			t = d.Table(table)
		}
		if e := t.Get(key); e != nil {
			return e
		}
	}
	return nil
}

// Table returns the named table from the first document that has it, or nil
// if none does.
func (fset FileSet) Table(name string) *Table {
	for _, d := range fset {
		if d == nil {
			continue
		}
		if t := d.Table(name); t != nil {
			return t
		}
	}
	return nil
}
