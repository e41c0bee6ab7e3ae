// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package envfile reads environment variables for configuration, either
// from the process environment or from .env files, which are INI text
// without bracketed tables.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/yourbase/ini"
)

// Read parses the file at path and returns its entries as a map. A repeated
// key keeps its last value, the same way a later export wins in a shell.
// Read returns an error if the file contains a bracketed table header:
// environment variables have no table structure.
func Read(path string) (map[string]string, error) {
	doc, err := ini.ParseFile(path, ini.WithOverrideKeys(true))
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	if len(doc.Tables()) > 1 {
		return nil, fmt.Errorf("read env file %s: tables are not allowed", path)
	}
	vars := make(map[string]string)
	for _, e := range doc.Root().Entries() {
		vars[string(e.Key)] = e.Str(true)
	}
	return vars, nil
}

// Load sets environment variables from the given files, skipping keys that
// the environment already has. Without arguments it loads ".env". Files
// that do not exist are skipped, so optional per-machine overrides can be
// listed unconditionally.
func Load(paths ...string) error {
	return load(false, paths)
}

// Overload is Load, except that values from the files replace variables
// already present in the environment.
func Overload(paths ...string) error {
	return load(true, paths)
}

func load(overload bool, paths []string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		vars, err := Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		for k, v := range vars {
			if !overload {
				if _, exists := os.LookupEnv(k); exists {
					continue
				}
			}
			if err := os.Setenv(k, v); err != nil {
				return fmt.Errorf("load env file %s: %w", path, err)
			}
		}
	}
	return nil
}

// Get returns the value of the given environment variable. If it is empty or
// unset, it returns the default value.
func Get(key string, defaultValue string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	return v
}

// Bool returns the value of a boolean environment variable. If it is unset or
// not one of the strings 1, t, T, TRUE, true, or True, then it returns false.
func Bool(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}
