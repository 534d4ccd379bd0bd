// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/val-town/vt/pkg/ignore"
	"github.com/val-town/vt/pkg/meta"
	"github.com/val-town/vt/pkg/vterrors"
)

// Watcher recursively watches a working copy's root and pushes on every
// settled batch of changes.
type Watcher struct {
	root    string
	push    PushFunc
	options Options
	logger  Logger

	fswatch *fsnotify.Watcher
	events  chan Event
	errors  chan error
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu            sync.Mutex
	debounceTimer *time.Timer
	inGrace       bool
}

// New creates a Watcher over root. push is invoked once a batch of fs
// events has settled.
func New(root string, push PushFunc, options Options) (*Watcher, error) {
	if options.DebounceDelay == 0 {
		options.DebounceDelay = DefaultDebounceDelay
	}
	if options.GracePeriod == 0 {
		options.GracePeriod = DefaultGracePeriod
	}
	if options.Logger == nil {
		options.Logger = noopLogger{}
	}

	return &Watcher{
		root:    root,
		push:    push,
		options: options,
		logger:  options.Logger,
		events:  make(chan Event, 32),
		errors:  make(chan error, 32),
	}, nil
}

// Events returns the channel of settled, successfully pushed batches.
func (w *Watcher) Events() <-chan Event { return w.events }

// InGracePeriod reports whether the grace flag is set: from just before a
// debounced push runs until GracePeriod after it finishes. Triggers that
// arrive while it is set are dropped.
func (w *Watcher) InGracePeriod() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inGrace
}

// Errors returns the channel of push failures that were not the expected
// "item already gone" race.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Start terminates any prior watch process recorded against this working
// copy, records its own PID, runs one initial push to settle the copy
// before watching begins, then starts the recursive fs watch and its event
// loop. It returns once watching has begun; events arrive asynchronously.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.terminatePriorWatcher(); err != nil {
		w.logger.Warn("failed to terminate prior watcher: %v", err)
	}
	if err := meta.WriteLock(w.root, os.Getpid()); err != nil {
		return fmt.Errorf("record watch lock: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.reportPushResult(runCtx, w.runPush(ctx))

	fswatch, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := addRecursive(fswatch, w.root, w.options.Rules); err != nil {
		fswatch.Close()
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	w.fswatch = fswatch

	w.wg.Add(1)
	go w.eventLoop(runCtx)

	return nil
}

// Stop cancels the event loop, closes the fs watch and event channels, and
// clears this process's watch lock.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	var closeErr error
	if w.fswatch != nil {
		closeErr = w.fswatch.Close()
	}
	w.wg.Wait()

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	close(w.events)
	close(w.errors)

	if err := meta.ClearLock(w.root); err != nil {
		w.logger.Warn("failed to clear watch lock: %v", err)
	}
	return closeErr
}

// terminatePriorWatcher sends SIGTERM to a still-running prior watch
// process recorded in the lock file, so only one watcher runs per working
// copy at a time.
func (w *Watcher) terminatePriorWatcher() error {
	pid, err := meta.ReadLock(w.root)
	if err != nil {
		return err
	}
	if pid == 0 || pid == os.Getpid() || !meta.ProcessAlive(pid) {
		return nil
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	return proc.Signal(syscall.SIGTERM)
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fswatch.Events:
			if !ok {
				return
			}
			// A Chmod-only event is metadata-only noise (the fs
			// analogue of an "access" event) and never signals
			// content that needs pushing.
			if ev.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("fs event: %s %s", ev.Op, ev.Name)
			w.scheduleDebounced(ctx)

		case err, ok := <-w.fswatch.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-ctx.Done():
			}
		}
	}
}

// scheduleDebounced (re)starts the debounce timer; each new event pushes
// the eventual push further out until events stop arriving for
// DebounceDelay.
func (w *Watcher) scheduleDebounced(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.options.DebounceDelay, func() {
		w.onSettled(ctx)
	})
}

// onSettled runs once a batch of events has gone quiet for DebounceDelay. If
// a push is already in flight or in its post-push settle window, this
// trigger is dropped outright rather than queued. Otherwise it sets the
// grace flag, pushes synchronously, then sleeps GracePeriod before clearing
// the flag, so our own copy-back or timestamp changes from that push can't
// trigger an immediate second one.
func (w *Watcher) onSettled(ctx context.Context) {
	w.mu.Lock()
	if w.inGrace {
		w.mu.Unlock()
		return
	}
	w.inGrace = true
	w.mu.Unlock()

	defer func() {
		select {
		case <-time.After(w.options.GracePeriod):
		case <-ctx.Done():
		}
		w.mu.Lock()
		w.inGrace = false
		w.mu.Unlock()
	}()

	w.reportPushResult(ctx, w.runPush(ctx))
}

// reportPushResult emits an Event on success, swallows the expected
// item-already-gone race, and otherwise forwards the error to Errors().
func (w *Watcher) reportPushResult(ctx context.Context, err error) {
	if err != nil {
		var notFound *vterrors.NotFound
		if errors.As(err, &notFound) {
			w.logger.Debug("push race swallowed: %v", err)
			return
		}
		select {
		case w.errors <- err:
		case <-ctx.Done():
		}
		return
	}

	if w.options.BrowseHook != nil && w.options.BrowseURL != "" {
		w.options.BrowseHook(w.options.BrowseURL)
	}

	select {
	case w.events <- Event{Timestamp: time.Now()}:
	case <-ctx.Done():
	}
}

func (w *Watcher) runPush(ctx context.Context) error {
	return w.push(ctx)
}

// addRecursive registers every non-ignored directory under root with
// fswatch. fsnotify only watches the directories it's told about, so new
// subdirectories created after Start won't be picked up until the next
// restart — an accepted limitation of the polling-free design.
func addRecursive(fswatch *fsnotify.Watcher, root string, rules ignore.Rules) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root {
			rel, relErr := filepath.Rel(root, p)
			if relErr == nil && ignore.IsIgnored(filepath.ToSlash(rel), rules, true) {
				return filepath.SkipDir
			}
		}
		return fswatch.Add(p)
	})
}
