// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yourbase/ini"
	"zombiezen.com/go/log/testlog"
)

func TestDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.ini")
	if err := os.WriteFile(path, []byte("a=1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if got := w.Document().Root().Get("a").Int(); got != 1 {
		t.Errorf("a = %d; want 1", got)
	}
}

func TestNewMissingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope.ini"), nil); err == nil {
		t.Error("New on a missing file did not return an error")
	}
}

func TestParseOptionsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.ini")
	if err := os.WriteFile(path, []byte("a=1\na=2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path, &Options{Parse: []ini.Option{ini.WithOverrideKeys(true)}})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if got := w.Document().Root().Get("a").Int(); got != 2 {
		t.Errorf("a = %d; want 2 with override enabled", got)
	}
}

func TestReload(t *testing.T) {
	ctx, cancel := context.WithCancel(testlog.WithTB(context.Background(), t))
	defer cancel()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.ini")
	if err := os.WriteFile(path, []byte("a=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, &Options{Debounce: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	updates, stop := w.Subscribe()
	defer stop()
	runDone := make(chan error, 1)
	go func() {
		runDone <- w.Run(ctx)
	}()

	// A plain write is picked up.
	if err := os.WriteFile(path, []byte("a=2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	doc := recvDoc(t, updates)
	if got := doc.Root().Get("a").Int(); got != 2 {
		t.Errorf("a = %d after write; want 2", got)
	}
	if got := w.Document().Root().Get("a").Int(); got != 2 {
		t.Errorf("Document() a = %d after write; want 2", got)
	}

	// An atomic save (rename over the file) is picked up because the
	// directory is watched, not the file.
	tmp := filepath.Join(dir, "app.ini.tmp")
	if err := os.WriteFile(tmp, []byte("a=3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	doc = recvDoc(t, updates)
	if got := doc.Root().Get("a").Int(); got != 3 {
		t.Errorf("a = %d after rename; want 3", got)
	}

	// Rewriting identical content produces no update; the next real change
	// is the next document seen.
	if err := os.WriteFile(path, []byte("a=3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("a=4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	doc = recvDoc(t, updates)
	if got := doc.Root().Get("a").Int(); got != 4 {
		t.Errorf("a = %d after unchanged rewrite; want 4", got)
	}

	cancel()
	if err := <-runDone; !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v; want context.Canceled", err)
	}
}

func TestClose(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	path := filepath.Join(t.TempDir(), "app.ini")
	if err := os.WriteFile(path, []byte("a=1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	updates, stop := w.Subscribe()
	defer stop()
	runDone := make(chan error, 1)
	go func() {
		runDone <- w.Run(ctx)
	}()

	if err := w.Close(); err != nil {
		t.Error("Close:", err)
	}
	select {
	case err := <-runDone:
		if err != nil {
			t.Errorf("Run = %v; want nil after Close", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	if _, ok := <-updates; ok {
		t.Error("subscriber channel open after Close; want closed")
	}
}

func TestSubscribeCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.ini")
	if err := os.WriteFile(path, []byte("a=1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	updates, cancel := w.Subscribe()
	cancel()
	cancel() // second call is a no-op
	if _, ok := <-updates; ok {
		t.Error("subscriber channel open after cancel; want closed")
	}
}

func recvDoc(t *testing.T, ch <-chan ini.Document) ini.Document {
	t.Helper()
	select {
	case doc, ok := <-ch:
		if !ok {
			t.Fatal("updates channel closed")
		}
		return doc
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for an update")
	}
	return ini.Document{}
}

func TestMain(m *testing.M) {
	testlog.Main(nil)
	os.Exit(m.Run())
}
