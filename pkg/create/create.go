// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package create

import (
	"context"
	"fmt"
	"os"

	"github.com/val-town/vt/pkg/ignore"
	"github.com/val-town/vt/pkg/remote"
	"github.com/val-town/vt/pkg/status"
	vtsync "github.com/val-town/vt/pkg/sync"
)

// Params configures Create.
type Params struct {
	SourceDir   string
	ValName     string
	Privacy     remote.Privacy
	Description string
	Rules       ignore.Rules

	// DoUpload pushes SourceDir's content to the new val's default branch.
	// The CLI defaults this to true; a caller wanting a bare, empty val
	// sets it to false explicitly.
	DoUpload    bool
	Concurrency int
}

// Result is the outcome of Create or Remix.
type Result struct {
	ValID    string
	BranchID string
	Version  uint64
	Changes  *status.Manager
}

// Create provisions a new val named params.ValName and, unless DoUpload is
// false, pushes params.SourceDir's content to its default branch.
func Create(ctx context.Context, store remote.Store, params Params) (*Result, error) {
	if _, err := os.Stat(params.SourceDir); err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}

	val, err := store.CreateVal(ctx, remote.CreateValParams{
		Name:        params.ValName,
		Description: params.Description,
		Privacy:     params.Privacy,
	})
	if err != nil {
		return nil, fmt.Errorf("create val: %w", err)
	}

	branches, err := store.ListBranches(ctx, val.ID)
	if err != nil || len(branches) == 0 {
		return nil, fmt.Errorf("resolve default branch: %w", err)
	}
	branchID := branches[0].ID

	result := &Result{ValID: val.ID, BranchID: branchID, Version: branches[0].Version, Changes: status.NewManager()}

	if !params.DoUpload {
		return result, nil
	}

	changes, err := vtsync.Push(ctx, store, vtsync.PushParams{
		TargetDir:   params.SourceDir,
		ValID:       val.ID,
		BranchID:    branchID,
		Rules:       params.Rules,
		Concurrency: params.Concurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("push initial content: %w", err)
	}
	result.Changes = changes

	branch, err := store.RetrieveBranch(ctx, val.ID, branchID)
	if err != nil {
		return nil, fmt.Errorf("resolve pushed version: %w", err)
	}
	result.Version = branch.Version

	return result, nil
}

// RemixParams configures Remix.
type RemixParams struct {
	TargetDir   string
	SrcValID    string
	SrcBranchID string // defaults to "main" semantics are the caller's responsibility; pass the resolved branch id
	ValName     string
	Privacy     remote.Privacy
	Description string
	Rules       ignore.Rules
	Concurrency int
}

// Remix clones src_val_id/src_branch_id into target_dir, creates a new val
// from that content, and carries over the source's per-item type
// classification (script/http/email/interval vs plain file), which a plain
// Push cannot express since it only ever uploads file content.
func Remix(ctx context.Context, store remote.Store, params RemixParams) (*Result, error) {
	src, err := store.RetrieveVal(ctx, params.SrcValID)
	if err != nil {
		return nil, fmt.Errorf("resolve source val: %w", err)
	}
	srcBranch, err := store.RetrieveBranch(ctx, params.SrcValID, params.SrcBranchID)
	if err != nil {
		return nil, fmt.Errorf("resolve source branch: %w", err)
	}

	privacy := params.Privacy
	if privacy == "" {
		privacy = src.Privacy
	}
	description := params.Description
	if description == "" {
		description = src.Description
	}

	if _, err := vtsync.Clone(ctx, store, vtsync.CloneParams{
		TargetDir:   params.TargetDir,
		ValID:       params.SrcValID,
		BranchID:    params.SrcBranchID,
		Version:     srcBranch.Version,
		Rules:       params.Rules,
		Overwrite:   true,
		Concurrency: params.Concurrency,
	}); err != nil {
		return nil, fmt.Errorf("clone source: %w", err)
	}

	result, err := Create(ctx, store, Params{
		SourceDir:   params.TargetDir,
		ValName:     params.ValName,
		Privacy:     privacy,
		Description: description,
		Rules:       params.Rules,
		DoUpload:    true,
		Concurrency: params.Concurrency,
	})
	if err != nil {
		return nil, err
	}

	if err := carryItemTypes(ctx, store, params, result); err != nil {
		return nil, fmt.Errorf("carry item types: %w", err)
	}

	return result, nil
}

// carryItemTypes copies every non-directory source item's type onto the
// same path in the new val, since Push always uploads plain file content
// and has no way to mark a path as, say, an http handler or a cron script.
func carryItemTypes(ctx context.Context, store remote.Store, params RemixParams, result *Result) error {
	items, err := store.ListFiles(ctx, params.SrcValID, remote.ListParams{
		BranchID:  params.SrcBranchID,
		Recursive: true,
	})
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.IsDir() {
			continue
		}
		if err := store.UpdateFile(ctx, result.ValID, remote.UpdateFileParams{
			Path:     item.Path,
			BranchID: result.BranchID,
			Type:     item.Type,
		}); err != nil {
			return fmt.Errorf("update type for %s: %w", item.Path, err)
		}
	}
	return nil
}
