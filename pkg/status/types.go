// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package status

import (
	"fmt"
	"time"

	"github.com/val-town/vt/pkg/remote"
)

// Kind discriminates the ItemStatus tagged union. A status is always
// exactly one Kind; fields that don't apply to a Kind are left zero.
type Kind int

const (
	KindModified Kind = iota
	KindNotModified
	KindDeleted
	KindCreated
	KindRenamed
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindModified:
		return "modified"
	case KindNotModified:
		return "not_modified"
	case KindDeleted:
		return "deleted"
	case KindCreated:
		return "created"
	case KindRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Where identifies which side of a diff a Modified item's winning content
// came from.
type Where string

const (
	WhereLocal  Where = "local"
	WhereRemote Where = "remote"
)

// ItemStatus is one entry of the status algebra: a path together with what
// changed about it. It is implemented as a single discriminated struct
// rather than a type hierarchy, per the no-class-hierarchy design note;
// only the fields relevant to Kind are meaningful for a given value.
type ItemStatus struct {
	Kind Kind
	Path string
	Type remote.ItemType

	// Content is the winning content for Modified/NotModified/Created,
	// when the caller chose to carry it (e.g. for a push's file body).
	Content []byte

	// Where applies to Modified: which side (local or remote) the status
	// considers authoritative for this path.
	Where Where

	// Mtime applies to Created: the local file's modification time.
	Mtime time.Time

	// OldPath and Similarity apply to Renamed.
	OldPath    string
	Similarity float64

	// Warnings accumulates non-fatal problems found while acting on this
	// entry (a push policy rejection, a remote call that failed and was
	// downgraded to a warning instead of aborting the batch). An entry
	// with warnings is excluded from Push's "safe" set.
	Warnings []string
}

// WithWarning returns a copy of s with msg appended to Warnings.
func (s ItemStatus) WithWarning(msg string) ItemStatus {
	s.Warnings = append(append([]string(nil), s.Warnings...), msg)
	return s
}

// validate enforces I2 (non-empty path) and I3 (a rename's old and new
// paths differ).
func (s ItemStatus) validate() error {
	if len(s.Path) == 0 {
		return fmt.Errorf("status: path must be non-empty")
	}
	if s.Kind == KindRenamed && s.OldPath == s.Path {
		return fmt.Errorf("status: renamed item %q must have a different old path", s.Path)
	}
	return nil
}

// NewModified builds a Modified status.
func NewModified(path string, typ remote.ItemType, content []byte, where Where) (ItemStatus, error) {
	s := ItemStatus{Kind: KindModified, Path: path, Type: typ, Content: content, Where: where}
	return s, s.validate()
}

// NewNotModified builds a NotModified status.
func NewNotModified(path string, typ remote.ItemType, content []byte) (ItemStatus, error) {
	s := ItemStatus{Kind: KindNotModified, Path: path, Type: typ, Content: content}
	return s, s.validate()
}

// NewDeleted builds a Deleted status.
func NewDeleted(path string, typ remote.ItemType) (ItemStatus, error) {
	s := ItemStatus{Kind: KindDeleted, Path: path, Type: typ}
	return s, s.validate()
}

// NewCreated builds a Created status.
func NewCreated(path string, typ remote.ItemType, mtime time.Time, content []byte) (ItemStatus, error) {
	s := ItemStatus{Kind: KindCreated, Path: path, Type: typ, Mtime: mtime, Content: content}
	return s, s.validate()
}

// NewRenamed builds a Renamed status.
func NewRenamed(path, oldPath string, typ remote.ItemType, similarity float64) (ItemStatus, error) {
	s := ItemStatus{Kind: KindRenamed, Path: path, OldPath: oldPath, Type: typ, Similarity: similarity}
	return s, s.validate()
}
