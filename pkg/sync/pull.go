// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package sync

import (
	"context"
	"fmt"

	"github.com/val-town/vt/pkg/ignore"
	"github.com/val-town/vt/pkg/meta"
	"github.com/val-town/vt/pkg/remote"
	"github.com/val-town/vt/pkg/status"
)

// PullParams configures Pull.
type PullParams struct {
	TargetDir string
	ValID     string
	BranchID  string

	// Version, if zero, resolves to the branch's current latest version.
	Version     uint64
	Rules       ignore.Rules
	DryRun      bool
	Concurrency int
}

// Pull is Clone with Overwrite always true and Version defaulted to the
// branch's latest. On a successful, non-dry-run commit it advances
// MetaStore's recorded branch version to the branch's latest — which may
// be newer than the version actually pulled, if the remote moved again
// between resolving the version and finishing the transfer.
func Pull(ctx context.Context, store remote.Store, params PullParams) (*status.Manager, error) {
	branch, err := store.RetrieveBranch(ctx, params.ValID, params.BranchID)
	if err != nil {
		return nil, fmt.Errorf("resolve branch: %w", err)
	}

	version := params.Version
	if version == 0 {
		version = branch.Version
	}

	manager, err := Clone(ctx, store, CloneParams{
		TargetDir:   params.TargetDir,
		ValID:       params.ValID,
		BranchID:    params.BranchID,
		Version:     version,
		Rules:       params.Rules,
		DryRun:      params.DryRun,
		Overwrite:   true,
		Concurrency: params.Concurrency,
	})
	if err != nil {
		return nil, err
	}

	if params.DryRun {
		return manager, nil
	}

	latest, err := store.RetrieveBranch(ctx, params.ValID, params.BranchID)
	if err != nil {
		return nil, fmt.Errorf("resolve latest branch version: %w", err)
	}

	prior, err := meta.LoadState(params.TargetDir)
	if err != nil {
		prior = meta.WorkingCopyState{}
	}

	err = meta.SaveState(params.TargetDir, meta.WorkingCopyState{
		Val:     meta.ValRef{ID: params.ValID},
		Branch:  meta.BranchRef{ID: params.BranchID, Version: latest.Version},
		LastRun: prior.LastRun,
	})
	if err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	return manager, nil
}
