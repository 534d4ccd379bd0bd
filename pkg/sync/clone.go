// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package sync

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/val-town/vt/pkg/ignore"
	"github.com/val-town/vt/pkg/remote"
	"github.com/val-town/vt/pkg/stage"
	"github.com/val-town/vt/pkg/status"
)

// CloneParams configures Clone.
type CloneParams struct {
	TargetDir string
	ValID     string
	BranchID  string
	Version   uint64
	Rules     ignore.Rules

	// DryRun computes the resulting ItemStatusManager without writing
	// anything or committing the stage.
	DryRun bool

	// Overwrite, when false, leaves an existing local file untouched
	// (recorded NotModified) instead of replacing it with remote content.
	Overwrite bool

	// Concurrency bounds in-flight remote file fetches. Defaults to
	// DefaultConcurrency.
	Concurrency int

	// Remove, when non-nil, names local paths that must be recorded as
	// Deleted and excluded from the carry-forward pass rather than
	// preserved, even though they exist on disk. Checkout uses this to
	// drop paths that belong to the branch being left but not the one
	// being landed on.
	Remove map[string]remote.ItemType
}

// Clone materializes valID/branchID at version into params.TargetDir.
// Remote directories are created empty so they appear even with no files;
// remote files are fetched and written (compared against an existing local
// copy first when Overwrite is true, and left untouched when Overwrite is
// false and a local copy exists). Local-only paths not present
// remotely are carried forward unchanged, since AtomicStager's commit
// replaces the whole target tree in one swap. Returns the resulting
// ItemStatusManager; when DryRun is true nothing is written or committed.
func Clone(ctx context.Context, store remote.Store, params CloneParams) (*status.Manager, error) {
	stager, err := stage.New(params.TargetDir)
	if err != nil {
		return nil, fmt.Errorf("create stage: %w", err)
	}
	defer stager.Rollback()

	manager, err := cloneInto(ctx, store, stager, params)
	if err != nil {
		return nil, err
	}

	if params.DryRun {
		return manager, nil
	}
	if err := stager.Commit(); err != nil {
		return nil, fmt.Errorf("commit clone: %w", err)
	}
	return manager, nil
}

// cloneInto runs the Clone algorithm against an already-created Stager,
// without committing or rolling it back — the caller owns that decision.
// Clone is its only caller; Checkout goes through Clone itself.
func cloneInto(ctx context.Context, store remote.Store, stager *stage.Stager, params CloneParams) (*status.Manager, error) {
	if params.Concurrency <= 0 {
		params.Concurrency = DefaultConcurrency
	}

	remoteTree, err := status.ListRemoteTree(ctx, store, params.ValID, params.BranchID, params.Version, params.Rules)
	if err != nil {
		return nil, fmt.Errorf("list remote tree: %w", err)
	}

	var local map[string]status.LocalItem
	if _, statErr := os.Stat(params.TargetDir); statErr == nil {
		local, err = status.WalkLocal(params.TargetDir, params.Rules)
		if err != nil {
			return nil, fmt.Errorf("walk local tree: %w", err)
		}
	}
	for p := range params.Remove {
		delete(local, p)
	}

	manager := status.NewManager()
	var mu sync.Mutex

	for _, rel := range sortedDirPaths(remoteTree) {
		if err := stager.Mkdir(rel); err != nil {
			return nil, fmt.Errorf("stage directory %s: %w", rel, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(params.Concurrency)

	for path, item := range remoteTree {
		if item.IsDir() {
			continue
		}
		path, item := path, item
		localItem, existsLocally := local[path]

		g.Go(func() error {
			s, err := cloneOneFile(gctx, store, params, stager, path, item, localItem, existsLocally)
			if err != nil {
				return err
			}
			mu.Lock()
			manager.Insert(s)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for path := range local {
		if _, ok := remoteTree[path]; ok {
			continue
		}
		if err := stager.CopyFromRoot(path); err != nil {
			return nil, fmt.Errorf("carry forward local-only file %s: %w", path, err)
		}
	}

	for p, typ := range params.Remove {
		if _, ok := remoteTree[p]; ok {
			continue
		}
		s, err := status.NewDeleted(p, typ)
		if err != nil {
			return nil, err
		}
		manager.Insert(s)
	}

	return manager, nil
}

// cloneOneFile resolves and stages a single remote file, deciding whether
// it is Created, Modified, or NotModified relative to the local copy.
func cloneOneFile(ctx context.Context, store remote.Store, params CloneParams, stager *stage.Stager, path string, item remote.ValItem, localItem status.LocalItem, existsLocally bool) (status.ItemStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTransferTimeout)
	defer cancel()

	if existsLocally && !params.Overwrite {
		if err := stager.CopyFromRoot(path); err != nil {
			return status.ItemStatus{}, fmt.Errorf("preserve %s: %w", path, err)
		}
		return status.NewNotModified(path, item.Type, nil)
	}

	if !existsLocally {
		content, err := store.GetFileContent(ctx, params.ValID, remote.GetContentParams{
			Path: path, BranchID: params.BranchID, Version: params.Version,
		})
		if err != nil {
			return status.ItemStatus{}, fmt.Errorf("fetch %s: %w", path, err)
		}
		if err := stager.WriteFile(path, content, item.UpdatedAt); err != nil {
			return status.ItemStatus{}, fmt.Errorf("stage %s: %w", path, err)
		}
		return status.NewCreated(path, item.Type, item.UpdatedAt, content)
	}

	if localItem.ModTime.Equal(item.UpdatedAt) {
		if err := stager.CopyFromRoot(path); err != nil {
			return status.ItemStatus{}, fmt.Errorf("preserve %s: %w", path, err)
		}
		return status.NewNotModified(path, item.Type, nil)
	}

	localContent, err := os.ReadFile(filepath.Join(params.TargetDir, filepath.FromSlash(path)))
	if err != nil {
		return status.ItemStatus{}, fmt.Errorf("read local %s: %w", path, err)
	}
	remoteContent, err := store.GetFileContent(ctx, params.ValID, remote.GetContentParams{
		Path: path, BranchID: params.BranchID, Version: params.Version,
	})
	if err != nil {
		return status.ItemStatus{}, fmt.Errorf("fetch %s: %w", path, err)
	}

	if bytes.Equal(localContent, remoteContent) && localItem.Type == item.Type {
		if err := stager.WriteFile(path, remoteContent, item.UpdatedAt); err != nil {
			return status.ItemStatus{}, fmt.Errorf("stage %s: %w", path, err)
		}
		return status.NewNotModified(path, item.Type, remoteContent)
	}

	if err := stager.WriteFile(path, remoteContent, item.UpdatedAt); err != nil {
		return status.ItemStatus{}, fmt.Errorf("stage %s: %w", path, err)
	}
	return status.NewModified(path, item.Type, remoteContent, status.WhereRemote)
}

// sortedDirPaths returns the directory paths in tree, shallowest first, so
// staging parents before children never fails on a missing ancestor.
func sortedDirPaths(tree map[string]remote.ValItem) []string {
	var dirs []string
	for path, item := range tree {
		if item.IsDir() {
			dirs = append(dirs, path)
		}
	}
	sort.Slice(dirs, func(i, j int) bool {
		di := strings.Count(dirs[i], "/")
		dj := strings.Count(dirs[j], "/")
		if di != dj {
			return di < dj
		}
		return dirs[i] < dirs[j]
	})
	return dirs
}
