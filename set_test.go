// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNilFileSet(t *testing.T) {
	fset := (FileSet)(nil)
	if got := fset.Get("foo", "bar"); got != nil {
		t.Errorf("Get(...) = %v; want nil", got)
	}
	if got := fset.Table("foo"); got != nil {
		t.Errorf("Table(...) = %v; want nil", got)
	}
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, source string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(source), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	user := write("user.ini", "color=blue\n\n[editor]\ntabs=4\n")
	system := write("system.ini", "color=green\nlang=en\n\n[editor]\ntabs=8\nwrap=true\n\n[paths]\nhome=/home\n")

	fset, err := ParseFiles([]string{user, filepath.Join(dir, "missing.ini"), system})
	if err != nil {
		t.Fatal(err)
	}
	if len(fset) != 3 {
		t.Fatalf("len(fset) = %d; want 3", len(fset))
	}
	if fset[1] != nil {
		t.Error("fset[1] != nil; want nil slot for the missing file")
	}

	t.Run("FirstFileWins", func(t *testing.T) {
		if got := fset.Get("", "color").Str(false); got != "blue" {
			t.Errorf(`Get("", "color") = %q; want %q`, got, "blue")
		}
		if got := fset.Get("editor", "tabs").Int(); got != 4 {
			t.Errorf(`Get("editor", "tabs") = %d; want 4`, got)
		}
	})
	t.Run("FallsThrough", func(t *testing.T) {
		if got := fset.Get("", "lang").Str(false); got != "en" {
			t.Errorf(`Get("", "lang") = %q; want %q`, got, "en")
		}
		if got := fset.Get("editor", "wrap").Bool(); !got {
			t.Errorf(`Get("editor", "wrap") = %t; want true`, got)
		}
	})
	t.Run("Absent", func(t *testing.T) {
		if got := fset.Get("editor", "font"); got != nil {
			t.Errorf(`Get("editor", "font") = %v; want nil`, got)
		}
		if got := fset.Get("nope", "color"); got != nil {
			t.Errorf(`Get("nope", "color") = %v; want nil`, got)
		}
	})
	t.Run("Table", func(t *testing.T) {
		tb := fset.Table("editor")
		if tb == nil {
			t.Fatal(`Table("editor") = nil; want the first file's table`)
		}
		if got := tb.Get("tabs").Int(); got != 4 {
			t.Errorf("tabs = %d; want 4", got)
		}
		if tb := fset.Table("paths"); tb == nil {
			t.Error(`Table("paths") = nil; want the second file's table`)
		}
	})
}

func TestParseFilesError(t *testing.T) {
	// Reading a directory fails with an error other than not-exist.
	if _, err := ParseFiles([]string{t.TempDir()}); err == nil {
		t.Error("ParseFiles on a directory did not return an error")
	}
}
