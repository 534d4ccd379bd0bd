// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package status

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/val-town/vt/pkg/ignore"
	"github.com/val-town/vt/pkg/itemtype"
	"github.com/val-town/vt/pkg/remote"
)

// LocalItem describes a single path observed on disk during a walk.
type LocalItem struct {
	Path    string // slash-separated, relative to the working copy root
	Type    remote.ItemType
	ModTime time.Time
}

// WalkLocal enumerates every non-ignored path under root, returning a map
// keyed by slash-separated relative path. A directory that a rule matches
// (ignore.IsIgnored with isDir set) is skipped entirely, without visiting
// anything beneath it.
func WalkLocal(root string, rules ignore.Rules) (map[string]LocalItem, error) {
	out := make(map[string]LocalItem)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ignore.IsIgnored(rel, rules, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore.IsIgnored(rel, rules, false) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out[rel] = LocalItem{
			Path:    rel,
			Type:    itemtype.Resolve(rel, ""),
			ModTime: info.ModTime(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListRemoteTree lists every item in valID/branchID at version, recursively,
// skipping paths the ignore rules deny, and returns them keyed by path.
func ListRemoteTree(ctx context.Context, store remote.Store, valID, branchID string, version uint64, rules ignore.Rules) (map[string]remote.ValItem, error) {
	items, err := store.ListFiles(ctx, valID, remote.ListParams{BranchID: branchID, Version: version, Recursive: true})
	if err != nil {
		return nil, err
	}
	out := make(map[string]remote.ValItem, len(items))
	for _, it := range items {
		if ignore.IsIgnored(it.Path, rules, it.IsDir()) {
			continue
		}
		out[it.Path] = *it
	}
	return out, nil
}

// ContentFetcher reads a path's current bytes, from whichever side is
// being compared.
type ContentFetcher func(path string) ([]byte, error)

// LocalReader builds a ContentFetcher over the local filesystem rooted at
// root.
func LocalReader(root string) ContentFetcher {
	return func(path string) ([]byte, error) {
		return os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	}
}

// RemoteReader builds a ContentFetcher over a Store's current file content
// for a fixed val/branch/version.
func RemoteReader(ctx context.Context, store remote.Store, valID, branchID string, version uint64) ContentFetcher {
	return func(path string) ([]byte, error) {
		return store.GetFileContent(ctx, valID, remote.GetContentParams{Path: path, BranchID: branchID, Version: version})
	}
}

// Diff computes the status of every path present on either side: paths
// only local are Created, paths only remote are Deleted, and paths on
// both sides are NotModified or Modified depending on content.
//
// The mtime-first optimization: when a local item's ModTime exactly equals
// its remote counterpart's UpdatedAt — which AtomicStager arranges to be
// true immediately after a clone or pull — the two are assumed
// unchanged without reading either side's content. Any other case falls
// back to a full byte-for-byte comparison.
func Diff(local map[string]LocalItem, remoteTree map[string]remote.ValItem, localContent, remoteContent ContentFetcher) (*Manager, error) {
	m := NewManager()

	for path, l := range local {
		if _, ok := remoteTree[path]; ok {
			continue
		}
		s, err := NewCreated(path, l.Type, l.ModTime, nil)
		if err != nil {
			return nil, err
		}
		m.Insert(s)
	}

	for path, r := range remoteTree {
		if _, ok := local[path]; ok {
			continue
		}
		s, err := NewDeleted(path, r.Type)
		if err != nil {
			return nil, err
		}
		m.Insert(s)
	}

	for path, l := range local {
		r, ok := remoteTree[path]
		if !ok {
			continue
		}

		if l.Type.IsDir() || r.IsDir() {
			s, err := NewNotModified(path, r.Type, nil)
			if err != nil {
				return nil, err
			}
			m.Insert(s)
			continue
		}

		if l.ModTime.Equal(r.UpdatedAt) {
			s, err := NewNotModified(path, r.Type, nil)
			if err != nil {
				return nil, err
			}
			m.Insert(s)
			continue
		}

		lc, err := localContent(path)
		if err != nil {
			return nil, err
		}
		rc, err := remoteContent(path)
		if err != nil {
			return nil, err
		}

		if bytes.Equal(lc, rc) && l.Type == r.Type {
			s, err := NewNotModified(path, r.Type, lc)
			if err != nil {
				return nil, err
			}
			m.Insert(s)
			continue
		}

		s, err := NewModified(path, l.Type, lc, WhereLocal)
		if err != nil {
			return nil, err
		}
		m.Insert(s)
	}

	return m, nil
}

// Compute runs the full StatusEngine pass: walk the local working copy,
// list the remote tree, diff them, and apply rename detection over the
// resulting Created/Deleted pairs.
func Compute(ctx context.Context, root string, rules ignore.Rules, store remote.Store, valID, branchID string, version uint64) (*Manager, error) {
	local, err := WalkLocal(root, rules)
	if err != nil {
		return nil, err
	}
	remoteTree, err := ListRemoteTree(ctx, store, valID, branchID, version, rules)
	if err != nil {
		return nil, err
	}
	m, err := Diff(local, remoteTree, LocalReader(root), RemoteReader(ctx, store, valID, branchID, version))
	if err != nil {
		return nil, err
	}
	return DetectRenames(m, LocalReader(root), RemoteReader(ctx, store, valID, branchID, version))
}
