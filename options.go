// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

// parseOptions holds the effective settings for one parse. It is resolved
// from the defaults and the caller's Options before scanning begins and does
// not change during the parse.
type parseOptions struct {
	mergeTables  bool
	overrideKeys bool
	divider      byte
}

// An Option adjusts how text is parsed. Settings not touched by any Option
// keep their defaults: duplicate tables and duplicate keys both append, and
// '=' divides keys from values.
type Option func(*parseOptions)

// WithMergeTables controls what a header does when a table with the same
// name already exists. When merge is true the existing table receives the
// new entries; when false (the default) a second table with the same name is
// appended and lookups keep returning the first.
func WithMergeTables(merge bool) Option {
	return func(o *parseOptions) {
		o.mergeTables = merge
	}
}

// WithOverrideKeys controls what a key-value line does when the target table
// already has an entry with the same key. When override is true the first
// matching entry's value is replaced in place; when false (the default) a
// duplicate entry is appended and lookups keep returning the first.
func WithOverrideKeys(override bool) Option {
	return func(o *parseOptions) {
		o.overrideKeys = override
	}
}

// WithDivider sets the byte that separates keys from values on a line. The
// zero byte is ignored, leaving the default '='.
func WithDivider(divider byte) Option {
	return func(o *parseOptions) {
		if divider != 0 {
			o.divider = divider
		}
	}
}

func resolveOptions(opts []Option) parseOptions {
	o := parseOptions{divider: '='}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
