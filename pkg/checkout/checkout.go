// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package checkout

import (
	"context"
	"fmt"

	"github.com/val-town/vt/pkg/ignore"
	"github.com/val-town/vt/pkg/remote"
	"github.com/val-town/vt/pkg/status"
	vtsync "github.com/val-town/vt/pkg/sync"
)

// BranchCheckoutParams configures BranchCheckout.
type BranchCheckoutParams struct {
	TargetDir    string
	ValID        string
	FromBranchID string
	ToBranchID   string

	// ToBranchVersion pins the landing snapshot; zero means the branch's
	// current latest version.
	ToBranchVersion uint64

	DryRun      bool
	Rules       ignore.Rules
	Concurrency int
}

// ForkCheckoutParams configures ForkCheckout: it creates a new branch named
// Name off ForkedFromID, then checks it out at FirstVersionNumber.
type ForkCheckoutParams struct {
	TargetDir    string
	ValID        string
	ForkedFromID string
	Name         string

	DryRun      bool
	Rules       ignore.Rules
	Concurrency int
}

// Result is the outcome of a checkout.
type Result struct {
	FromBranch *remote.Branch

	// ToBranch is nil for a dry-run fork, since no branch is actually
	// created; ForkVersion reports what its version would be instead.
	ToBranch    *remote.Branch
	ForkVersion uint64

	Changes *status.Manager
}

// BranchCheckout lands an existing branch's snapshot into TargetDir,
// removing paths that belonged to FromBranchID but not ToBranchID, and
// preserving everything else untracked by either branch.
func BranchCheckout(ctx context.Context, store remote.Store, params BranchCheckoutParams) (*Result, error) {
	fromBranch, err := store.RetrieveBranch(ctx, params.ValID, params.FromBranchID)
	if err != nil {
		return nil, fmt.Errorf("resolve from branch: %w", err)
	}
	toBranch, err := store.RetrieveBranch(ctx, params.ValID, params.ToBranchID)
	if err != nil {
		return nil, fmt.Errorf("resolve to branch: %w", err)
	}

	version := params.ToBranchVersion
	if version == 0 {
		version = toBranch.Version
	}

	return land(ctx, store, landParams{
		TargetDir:   params.TargetDir,
		ValID:       params.ValID,
		FromBranch:  fromBranch,
		ToBranch:    toBranch,
		ToVersion:   version,
		DryRun:      params.DryRun,
		Rules:       params.Rules,
		Concurrency: params.Concurrency,
	})
}

// ForkCheckout creates a new branch named params.Name off ForkedFromID
// (skipping creation on a dry run) and checks it out. Since a freshly
// forked branch starts as an exact copy of its parent's tree, nothing is
// ever removed by a fork checkout.
func ForkCheckout(ctx context.Context, store remote.Store, params ForkCheckoutParams) (*Result, error) {
	fromBranch, err := store.RetrieveBranch(ctx, params.ValID, params.ForkedFromID)
	if err != nil {
		return nil, fmt.Errorf("resolve forked-from branch: %w", err)
	}

	if params.DryRun {
		return land(ctx, store, landParams{
			TargetDir:   params.TargetDir,
			ValID:       params.ValID,
			FromBranch:  fromBranch,
			ToBranch:    nil,
			ToVersion:   remote.FirstVersionNumber,
			DryRun:      true,
			Rules:       params.Rules,
			Concurrency: params.Concurrency,
			forkVersion: remote.FirstVersionNumber,
		})
	}

	toBranch, err := store.CreateBranch(ctx, params.ValID, remote.CreateBranchParams{
		Name:     params.Name,
		BranchID: params.ForkedFromID,
	})
	if err != nil {
		return nil, fmt.Errorf("create fork branch: %w", err)
	}

	return land(ctx, store, landParams{
		TargetDir:   params.TargetDir,
		ValID:       params.ValID,
		FromBranch:  fromBranch,
		ToBranch:    toBranch,
		ToVersion:   toBranch.Version,
		Rules:       params.Rules,
		Concurrency: params.Concurrency,
	})
}

type landParams struct {
	TargetDir   string
	ValID       string
	FromBranch  *remote.Branch
	ToBranch    *remote.Branch
	ToVersion   uint64
	DryRun      bool
	Rules       ignore.Rules
	Concurrency int
	forkVersion uint64
}

// land implements the shared checkout algorithm: list from_files and
// to_files, then Clone the to branch into TargetDir with from-only paths
// forced to Deleted. Clone's own local walk plus carry-forward pass is what
// copies target_dir into the scratch tree and preserves untracked files;
// this function only supplies the from/to file sets that decide what gets
// removed.
func land(ctx context.Context, store remote.Store, p landParams) (*Result, error) {
	result := &Result{FromBranch: p.FromBranch, ToBranch: p.ToBranch, ForkVersion: p.forkVersion}

	if p.ToBranch == nil {
		// Dry-run fork: the target branch doesn't exist yet, so there is
		// nothing remote to land and nothing to remove.
		result.Changes = status.NewManager()
		return result, nil
	}

	fromFiles, err := status.ListRemoteTree(ctx, store, p.ValID, p.FromBranch.ID, p.FromBranch.Version, p.Rules)
	if err != nil {
		return nil, fmt.Errorf("list from-branch files: %w", err)
	}
	toFiles, err := status.ListRemoteTree(ctx, store, p.ValID, p.ToBranch.ID, p.ToVersion, p.Rules)
	if err != nil {
		return nil, fmt.Errorf("list to-branch files: %w", err)
	}

	remove := map[string]remote.ItemType{}
	for path, item := range fromFiles {
		if _, ok := toFiles[path]; !ok {
			remove[path] = item.Type
		}
	}

	manager, err := vtsync.Clone(ctx, store, vtsync.CloneParams{
		TargetDir:   p.TargetDir,
		ValID:       p.ValID,
		BranchID:    p.ToBranch.ID,
		Version:     p.ToVersion,
		Rules:       p.Rules,
		DryRun:      p.DryRun,
		Overwrite:   true,
		Concurrency: p.Concurrency,
		Remove:      remove,
	})
	if err != nil {
		return nil, err
	}

	result.Changes = manager
	return result, nil
}

// DirtyGate computes the set of locally Modified or Deleted paths
// (relative to fromBranchID's current version) that a checkout away from
// it would discard, so a caller can gate the checkout behind --force,
// --dry-run, or a confirmation prompt. A Modified entry already carrying a
// remote-authoritative Where is dropped from the set: the checkout would
// only pick up content already reflected on the remote, so there is
// nothing local left to lose.
func DirtyGate(ctx context.Context, store remote.Store, targetDir, valID, fromBranchID string, rules ignore.Rules) (*status.Manager, error) {
	fromBranch, err := store.RetrieveBranch(ctx, valID, fromBranchID)
	if err != nil {
		return nil, fmt.Errorf("resolve from branch: %w", err)
	}

	s, err := status.Compute(ctx, targetDir, rules, store, valID, fromBranchID, fromBranch.Version)
	if err != nil {
		return nil, fmt.Errorf("compute status: %w", err)
	}

	d := status.NewManager()
	for _, e := range s.Entries() {
		if e.Kind != status.KindModified && e.Kind != status.KindDeleted {
			continue
		}
		if e.Kind == status.KindModified && e.Where == status.WhereRemote {
			continue
		}
		d.Insert(e)
	}
	return d, nil
}
