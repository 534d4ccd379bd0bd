// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package watch

import (
	"context"
	"time"

	"github.com/val-town/vt/pkg/ignore"
)

// DefaultDebounceDelay and DefaultGracePeriod are the watcher's defaults.
const (
	DefaultDebounceDelay = 1000 * time.Millisecond
	DefaultGracePeriod   = 250 * time.Millisecond
)

// PushFunc runs one push of the working copy. The watcher treats a
// vterrors.NotFound returned from it as an expected race (the remote item
// disappeared between the fs event and the push) rather than an error to
// surface.
type PushFunc func(ctx context.Context) error

// Event is emitted after a push (the initial one in Start, or a debounced
// one) completes successfully.
type Event struct {
	Timestamp time.Time
	Paths     []string
}

// Options configures a Watcher.
type Options struct {
	// DebounceDelay is how long the watcher waits for fs events to stop
	// arriving before considering a batch of changes settled. Defaults to
	// DefaultDebounceDelay.
	DebounceDelay time.Duration

	// GracePeriod is how long the grace flag stays set after a debounced
	// push finishes; triggers arriving during the push or this wait are
	// dropped, so the push's own side effects do not start another one.
	// Defaults to DefaultGracePeriod.
	GracePeriod time.Duration

	// Rules, if set, excludes matching directories from being watched at
	// all (so e.g. node_modules/ never consumes a watch descriptor).
	Rules ignore.Rules

	// Logger receives diagnostic output. Defaults to a no-op logger.
	Logger Logger

	// BrowseURL, if set together with BrowseHook, is the working copy's
	// browse URL, passed to BrowseHook after every successful push.
	BrowseURL string

	// BrowseHook, if set, is invoked with BrowseURL after every successful
	// push. It is the watcher's only acknowledgment of the optional
	// browser-companion WebSocket described in the system overview: the
	// watcher has no notion of WebSockets itself, it just calls this hook
	// and lets the caller wire one up.
	BrowseHook func(url string)
}

// Logger is the logging interface used by Watcher.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// noopLogger discards everything.
type noopLogger struct{}

func (noopLogger) Debug(format string, args ...interface{}) {}
func (noopLogger) Info(format string, args ...interface{})  {}
func (noopLogger) Warn(format string, args ...interface{})  {}
func (noopLogger) Error(format string, args ...interface{}) {}
