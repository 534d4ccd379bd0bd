// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package vterrors defines the typed error taxonomy shared by the vt sync
// engine. Leaf packages return these types; cmd/vt decides how to render
// and exit.
package vterrors

import "fmt"

// NotFound indicates a local path or remote resource is missing.
type NotFound struct {
	Resource string
	Path     string
}

func (e *NotFound) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Path)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFound) Is(target error) bool {
	_, ok := target.(*NotFound)
	return ok
}

// Conflict indicates a remote 409: already exists, or a version mismatch.
type Conflict struct {
	Resource string
	Reason   string
}

func (e *Conflict) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Reason)
	}
	return fmt.Sprintf("%s conflict", e.Resource)
}

func (e *Conflict) Is(target error) bool {
	_, ok := target.(*Conflict)
	return ok
}

// DirtyWorkingCopy is raised by an orchestrator (never a leaf algorithm)
// before a destructive operation when the dangerous-changes set is non-empty.
type DirtyWorkingCopy struct {
	// Paths lists the dangerous changes that blocked the operation.
	Paths []string
}

func (e *DirtyWorkingCopy) Error() string {
	return fmt.Sprintf("working copy has %d uncommitted change(s); use --force or resolve them first", len(e.Paths))
}

func (e *DirtyWorkingCopy) Is(target error) bool {
	_, ok := target.(*DirtyWorkingCopy)
	return ok
}

// UnsafeDirectory indicates a target path for clone/create/remix exists and
// is non-empty.
type UnsafeDirectory struct {
	Path string
}

func (e *UnsafeDirectory) Error() string {
	return fmt.Sprintf("directory %s already exists and is not empty", e.Path)
}

func (e *UnsafeDirectory) Is(target error) bool {
	_, ok := target.(*UnsafeDirectory)
	return ok
}

// AuthMissing indicates the API key is absent or rejected. Fatal.
type AuthMissing struct {
	Reason string
}

func (e *AuthMissing) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("authentication required: %s", e.Reason)
	}
	return "authentication required"
}

func (e *AuthMissing) Is(target error) bool {
	_, ok := target.(*AuthMissing)
	return ok
}

// Transport wraps any other remote error with a message.
type Transport struct {
	Op      string
	Status  int
	Message string
}

func (e *Transport) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: remote error (status %d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: remote error: %s", e.Op, e.Message)
}

func (e *Transport) Is(target error) bool {
	_, ok := target.(*Transport)
	return ok
}

// InvalidSchema indicates the on-disk state file does not match the current
// or any known legacy schema. Fatal.
type InvalidSchema struct {
	Path   string
	Reason string
}

func (e *InvalidSchema) Error() string {
	return fmt.Sprintf("invalid schema in %s: %s", e.Path, e.Reason)
}

func (e *InvalidSchema) Is(target error) bool {
	_, ok := target.(*InvalidSchema)
	return ok
}

// ProgrammerError indicates a precondition violation that should fail fast
// (e.g. an empty path inserted into an ItemStatusManager).
type ProgrammerError struct {
	Reason string
}

func (e *ProgrammerError) Error() string {
	return fmt.Sprintf("programmer error: %s", e.Reason)
}

func (e *ProgrammerError) Is(target error) bool {
	_, ok := target.(*ProgrammerError)
	return ok
}
