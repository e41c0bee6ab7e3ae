// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package watch reloads an INI file whenever it changes on disk and hands
// out the freshly parsed document.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/yourbase/ini"
	"zombiezen.com/go/log"
)

// reloadAttempts caps how many times one change event retries a failing
// read before waiting for the next event.
const reloadAttempts = 5

var errEmptyFile = errors.New("file is empty")

// Options configure a Watcher. The zero value picks the defaults noted on
// each field.
type Options struct {
	// Debounce is how long the change stream must stay quiet before the
	// file is reloaded, so an editor that saves in several steps triggers
	// a single reload. Defaults to 100ms.
	Debounce time.Duration

	// MinBackoff and MaxBackoff bound the delays between retries when
	// reading the file fails. They default to 50ms and 1s.
	MinBackoff time.Duration
	MaxBackoff time.Duration

	// Parse is applied to every parse of the file.
	Parse []ini.Option
}

// A Watcher holds the parsed form of one INI file and keeps it current while
// Run is active. Document and Subscribe are safe to call from any goroutine.
type Watcher struct {
	path string
	opts Options
	fs   *fsnotify.Watcher

	mu      sync.Mutex
	doc     ini.Document
	hash    uint64
	subs    map[int]chan ini.Document
	nextSub int
}

// New watches the INI file at path. The file must be readable when New is
// called; its initial parse is available through Document immediately, while
// updates flow only once Run has started.
func New(path string, opts *Options) (*Watcher, error) {
	w := &Watcher{
		path: filepath.Clean(path),
		subs: make(map[int]chan ini.Document),
	}
	if opts != nil {
		w.opts = *opts
	}
	if w.opts.Debounce <= 0 {
		w.opts.Debounce = 100 * time.Millisecond
	}
	if w.opts.MinBackoff <= 0 {
		w.opts.MinBackoff = 50 * time.Millisecond
	}
	if w.opts.MaxBackoff <= 0 {
		w.opts.MaxBackoff = 1 * time.Second
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w.doc = ini.Parse(data, w.opts.Parse...)
	w.hash = xxhash.Sum64(data)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	// Watch the directory rather than the file itself: an editor that saves
	// by renaming a temporary file over the original would detach a watch
	// on the file.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w.fs = fsw
	return w, nil
}

// Run consumes change events until ctx is Done or Close is called. It
// returns ctx.Err() when canceled and nil after Close.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			if err := w.settle(ctx); err != nil {
				return err
			}
			w.reload(ctx)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warnf(ctx, "Error watching %s: %v", w.path, err)
		}
	}
}

// settle waits for the change stream to go quiet for the debounce window.
func (w *Watcher) settle(ctx context.Context) error {
	timer := time.NewTimer(w.opts.Debounce)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.opts.Debounce)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reload reads and parses the file, retrying with exponential backoff. After
// reloadAttempts consecutive failures it gives up until the next event.
func (w *Watcher) reload(ctx context.Context) {
	backoff := w.opts.MinBackoff
	var err error
	for attempt := 1; attempt <= reloadAttempts; attempt++ {
		if err = w.reloadOnce(ctx); err == nil {
			return
		}
		if attempt == reloadAttempts {
			break
		}
		log.Warnf(ctx, "Error reloading %s (will retry in %v): %v", w.path, backoff, err)
		t := time.NewTimer(backoff)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return
		}
		t.Stop()
		backoff *= 2
		if backoff > w.opts.MaxBackoff {
			backoff = w.opts.MaxBackoff
		}
	}
	log.Errorf(ctx, "Giving up on reloading %s after %d attempts: %v", w.path, reloadAttempts, err)
}

func (w *Watcher) reloadOnce(ctx context.Context) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		// Editors that truncate before writing produce a briefly empty
		// file; treat it as not written yet and let the retry pick up the
		// real content.
		return errEmptyFile
	}
	hash := xxhash.Sum64(data)

	w.mu.Lock()
	defer w.mu.Unlock()
	if hash == w.hash {
		log.Debugf(ctx, "Content of %s unchanged; skipping reload", w.path)
		return nil
	}
	w.doc = ini.Parse(data, w.opts.Parse...)
	w.hash = hash
	log.Infof(ctx, "Reloaded %s (%d tables)", w.path, len(w.doc.Tables()))
	for _, ch := range w.subs {
		// Replace an undelivered document so the subscriber always sees
		// the newest one.
		select {
		case ch <- w.doc:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- w.doc
		}
	}
	return nil
}

// Document returns the most recently parsed form of the file.
func (w *Watcher) Document() ini.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc
}

// Subscribe registers for reload notifications. The returned channel has a
// one-document buffer holding the newest document: a slow receiver misses
// intermediate versions instead of delaying the watcher. The cancel function
// releases the subscription and closes the channel; calling it more than
// once is safe.
func (w *Watcher) Subscribe() (<-chan ini.Document, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextSub
	w.nextSub++
	ch := make(chan ini.Document, 1)
	w.subs[id] = ch
	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, ok := w.subs[id]; ok {
			delete(w.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Close stops watching the file and closes every subscriber channel. Run
// returns after Close. Close must be called exactly once.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, ch := range w.subs {
		delete(w.subs, id)
		close(ch)
	}
	return err
}
