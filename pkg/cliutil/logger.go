// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cliutil

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger is a colorized implementation of the small Debug/Info/Warn/Error
// interface every engine package (pkg/watch, pkg/sync) takes, so cmd/vt can
// hand it a logger without those packages ever importing a color library
// themselves.
type Logger struct {
	Verbose bool
	Quiet   bool

	warn  *color.Color
	error *color.Color
	debug *color.Color
}

// NewLogger builds a Logger. Color is disabled automatically when stdout
// isn't a terminal, matching fatih/color's own NO_COLOR-aware default, so
// piped output never carries stray escape codes.
func NewLogger(verbose, quiet bool) *Logger {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	return &Logger{
		Verbose: verbose,
		Quiet:   quiet,
		warn:    color.New(color.FgYellow, color.Bold),
		error:   color.New(color.FgRed, color.Bold),
		debug:   color.New(color.FgCyan),
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.Verbose {
		return
	}
	l.debug.Fprintf(os.Stderr, format+"\n", args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.Quiet {
		return
	}
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
