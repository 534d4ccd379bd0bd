// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package stage

import (
	"os"
	"path/filepath"
	"time"
)

// Stager accumulates writes into a scratch directory sitting next to root,
// then either commits the whole tree into root's place with a single
// directory swap, or rolls back by discarding the scratch directory,
// leaving root untouched either way until Commit succeeds.
type Stager struct {
	root      string
	scratch   string
	committed bool
}

// New creates a Stager for root. The scratch directory is created as a
// sibling of root so the final swap is a same-filesystem rename.
func New(root string) (*Stager, error) {
	parent := filepath.Dir(root)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, err
	}
	scratch, err := os.MkdirTemp(parent, ".vt-stage-*")
	if err != nil {
		return nil, err
	}
	return &Stager{root: root, scratch: scratch}, nil
}

// Root returns the working copy root this Stager commits into.
func (s *Stager) Root() string { return s.root }

// ScratchPath returns the absolute scratch-directory path for a
// slash-separated relative path, creating no parent directories.
func (s *Stager) ScratchPath(rel string) string {
	return filepath.Join(s.scratch, filepath.FromSlash(rel))
}

// WriteFile stages content at rel, creating parent directories as needed.
// If mtime is non-zero it is applied to the staged file, so that a
// subsequent status computation can use the mtime-first shortcut.
func (s *Stager) WriteFile(rel string, content []byte, mtime time.Time) error {
	p := s.ScratchPath(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(p, content, 0o644); err != nil {
		return err
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(p, mtime, mtime); err != nil {
			return err
		}
	}
	return nil
}

// Mkdir stages an empty directory at rel.
func (s *Stager) Mkdir(rel string) error {
	return os.MkdirAll(s.ScratchPath(rel), 0o755)
}

// CopyFromRoot stages the current root copy of rel into the scratch tree
// unchanged, preserving its mtime. Used to carry forward untracked or
// untouched files into the new tree before Commit.
func (s *Stager) CopyFromRoot(rel string) error {
	src := filepath.Join(s.root, filepath.FromSlash(rel))
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return s.WriteFile(rel, data, info.ModTime())
}

// Commit atomically replaces root with the staged scratch tree. If root
// does not yet exist (a fresh clone), this is a plain rename. If root
// exists, root is moved aside, scratch is renamed into its place, and the
// moved-aside copy is removed; if the second rename fails the first is
// reversed so root is left exactly as it was found.
func (s *Stager) Commit() error {
	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		if err := os.Rename(s.scratch, s.root); err != nil {
			return err
		}
		s.committed = true
		return nil
	}

	prev := s.root + ".vt-prev-" + filepath.Base(s.scratch)
	if err := os.Rename(s.root, prev); err != nil {
		return err
	}
	if err := os.Rename(s.scratch, s.root); err != nil {
		_ = os.Rename(prev, s.root)
		return err
	}
	_ = os.RemoveAll(prev)
	s.committed = true
	return nil
}

// Rollback discards the scratch directory without touching root. It is a
// no-op once Commit has succeeded.
func (s *Stager) Rollback() error {
	if s.committed {
		return nil
	}
	return os.RemoveAll(s.scratch)
}
