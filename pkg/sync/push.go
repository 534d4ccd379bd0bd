// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/val-town/vt/pkg/ignore"
	"github.com/val-town/vt/pkg/remote"
	"github.com/val-town/vt/pkg/status"
	"github.com/val-town/vt/pkg/vterrors"
)

// PushParams configures Push.
type PushParams struct {
	TargetDir   string
	ValID       string
	BranchID    string
	Rules       ignore.Rules
	DryRun      bool
	Concurrency int

	// Policy rejects a file before it is uploaded; when it reports reject,
	// reason is recorded as a warning on that entry instead of pushing it. A nil
	// Policy accepts everything.
	Policy func(path string, content []byte) (reason string, reject bool)
}

// Push computes the working copy's status against the branch's current
// latest version, then uploads every Created, Modified, and Renamed entry
// that passes Policy, creating any missing parent directories first, and
// deletes every Deleted entry regardless of policy. Per-file remote
// failures are recorded as warnings on that entry and do not abort the
// batch; only a local filesystem error does.
//
// Push itself never touches MetaStore. A caller that records the new
// branch version after a push should re-resolve latest() rather than
// assume every file in the returned Manager landed: a file carrying a
// warning did not upload, but the branch's version counter still moved
// for whatever did.
func Push(ctx context.Context, store remote.Store, params PushParams) (*status.Manager, error) {
	if params.Concurrency <= 0 {
		params.Concurrency = DefaultConcurrency
	}

	branch, err := store.RetrieveBranch(ctx, params.ValID, params.BranchID)
	if err != nil {
		return nil, fmt.Errorf("resolve branch: %w", err)
	}

	s, err := status.Compute(ctx, params.TargetDir, params.Rules, store, params.ValID, params.BranchID, branch.Version)
	if err != nil {
		return nil, fmt.Errorf("compute status: %w", err)
	}

	if params.DryRun {
		return s, nil
	}

	result := s
	var mu sync.Mutex

	safe := applyPolicy(result, &mu, params)

	if err := createDirectories(ctx, store, params, safe); err != nil {
		return nil, fmt.Errorf("create directories: %w", err)
	}

	if err := executeFileOps(ctx, store, params, safe, result, &mu); err != nil {
		return nil, err
	}

	if err := executeDeletes(ctx, store, params, s, result, &mu); err != nil {
		return nil, err
	}

	return result, nil
}

// applyPolicy runs params.Policy over every Created, Modified, and Renamed
// entry, downgrading a rejected entry's status in result with a warning,
// and returns the subset that passed.
func applyPolicy(result *status.Manager, mu *sync.Mutex, params PushParams) []status.ItemStatus {
	var safe []status.ItemStatus
	for _, e := range result.Entries() {
		if e.Kind != status.KindCreated && e.Kind != status.KindModified && e.Kind != status.KindRenamed {
			continue
		}
		if params.Policy != nil {
			content, err := os.ReadFile(filepath.Join(params.TargetDir, filepath.FromSlash(e.Path)))
			if err == nil {
				if reason, reject := params.Policy(e.Path, content); reject {
					mu.Lock()
					result.Insert(e.WithWarning("rejected: " + reason))
					mu.Unlock()
					continue
				}
			}
		}
		safe = append(safe, e)
	}
	return safe
}

// createDirectories creates, shallowest first, every directory path that
// safe's Created files need but the remote doesn't already have.
func createDirectories(ctx context.Context, store remote.Store, params PushParams, safe []status.ItemStatus) error {
	need := map[string]bool{}
	for _, e := range safe {
		if e.Kind != status.KindCreated {
			continue
		}
		for dir := path.Dir(e.Path); dir != "." && dir != "/"; dir = path.Dir(dir) {
			need[dir] = true
		}
	}

	dirs := make([]string, 0, len(need))
	for d := range need {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool {
		di := strings.Count(dirs[i], "/")
		dj := strings.Count(dirs[j], "/")
		if di != dj {
			return di < dj
		}
		return dirs[i] < dirs[j]
	})

	for _, dir := range dirs {
		_, err := store.CreateFile(ctx, params.ValID, remote.CreateFileParams{
			Path:     dir,
			Type:     remote.ItemTypeDirectory,
			BranchID: params.BranchID,
		})
		if err != nil {
			var conflict *vterrors.Conflict
			if errors.As(err, &conflict) {
				continue
			}
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// executeFileOps uploads every safe entry with bounded concurrency,
// recording per-file remote failures as warnings rather than aborting; a
// local read failure aborts the batch.
func executeFileOps(ctx context.Context, store remote.Store, params PushParams, safe []status.ItemStatus, result *status.Manager, mu *sync.Mutex) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(params.Concurrency)

	for _, e := range safe {
		e := e
		g.Go(func() error {
			if err := pushOneFile(gctx, store, params, e); err != nil {
				var pathErr *fs.PathError
				if errors.As(err, &pathErr) {
					return err
				}
				mu.Lock()
				result.Insert(e.WithWarning("unknown: " + err.Error()))
				mu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}

func pushOneFile(ctx context.Context, store remote.Store, params PushParams, e status.ItemStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTransferTimeout)
	defer cancel()

	content, err := os.ReadFile(filepath.Join(params.TargetDir, filepath.FromSlash(e.Path)))
	if err != nil {
		return fmt.Errorf("read %s: %w", e.Path, err)
	}

	switch e.Kind {
	case status.KindRenamed:
		return store.UpdateFile(ctx, params.ValID, remote.UpdateFileParams{
			Path:       e.OldPath,
			BranchID:   params.BranchID,
			Content:    content,
			HasContent: true,
			ParentPath: path.Dir(e.Path),
			Name:       path.Base(e.Path),
		})
	case status.KindCreated:
		_, err := store.CreateFile(ctx, params.ValID, remote.CreateFileParams{
			Path:     e.Path,
			Type:     e.Type,
			BranchID: params.BranchID,
			Content:  content,
		})
		return err
	case status.KindModified:
		return store.UpdateFile(ctx, params.ValID, remote.UpdateFileParams{
			Path:       e.Path,
			BranchID:   params.BranchID,
			Content:    content,
			HasContent: true,
		})
	default:
		return nil
	}
}

// executeDeletes removes every Deleted entry from the remote, regardless
// of any warnings it carries (a delete is never rejected by policy).
func executeDeletes(ctx context.Context, store remote.Store, params PushParams, s *status.Manager, result *status.Manager, mu *sync.Mutex) error {
	deletions := s.ByKind(status.KindDeleted).Entries()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(params.Concurrency)

	for _, e := range deletions {
		e := e
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(gctx, defaultTransferTimeout)
			defer cancel()
			err := store.DeleteFile(ctx, params.ValID, remote.DeleteFileParams{
				Path:      e.Path,
				BranchID:  params.BranchID,
				Recursive: true,
			})
			if err != nil {
				mu.Lock()
				result.Insert(e.WithWarning("unknown: " + err.Error()))
				mu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}
