// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package checkout

import (
	"context"
	"fmt"
	"sort"

	"github.com/val-town/vt/pkg/remote"
)

// BranchSummary is one row of a branch listing: its identity plus whether
// it is the branch the working copy currently has checked out.
type BranchSummary struct {
	ID      string
	Name    string
	Version uint64
	Current bool
}

// ListBranches returns every branch on valID, sorted by name, with
// currentBranchID marked Current. It is a thin wrapper over
// remote.Store.ListBranches; the only value it adds is the current-branch
// annotation a branch listing needs to display.
func ListBranches(ctx context.Context, store remote.Store, valID, currentBranchID string) ([]BranchSummary, error) {
	branches, err := store.ListBranches(ctx, valID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	summaries := make([]BranchSummary, 0, len(branches))
	for _, b := range branches {
		summaries = append(summaries, BranchSummary{
			ID:      b.ID,
			Name:    b.Name,
			Version: b.Version,
			Current: b.ID == currentBranchID,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// DeleteBranch removes branchID from valID, refusing to delete the branch
// the working copy currently has checked out.
func DeleteBranch(ctx context.Context, store remote.Store, valID, branchID, currentBranchID string) error {
	if branchID == currentBranchID {
		return fmt.Errorf("cannot delete the currently checked-out branch")
	}
	if err := store.DeleteBranch(ctx, valID, branchID); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	return nil
}
