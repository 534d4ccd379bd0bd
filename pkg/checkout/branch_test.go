// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package checkout

import (
	"context"
	"testing"

	"github.com/val-town/vt/pkg/remote"
)

func TestListBranchesMarksCurrentAndSortsByName(t *testing.T) {
	store := remote.NewMemStore()
	valID, mainID := store.SeedVal("v", remote.PrivacyPublic, map[string]string{"a.ts": "A"})
	if _, err := store.CreateBranch(context.Background(), valID, remote.CreateBranchParams{Name: "feature", BranchID: mainID}); err != nil {
		t.Fatal(err)
	}

	summaries, err := ListBranches(context.Background(), store, valID, mainID)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d branches, want 2", len(summaries))
	}
	if summaries[0].Name != "feature" || summaries[1].Name != "main" {
		t.Fatalf("branches not sorted by name: %+v", summaries)
	}
	if !summaries[1].Current {
		t.Fatalf("main branch should be marked current: %+v", summaries[1])
	}
	if summaries[0].Current {
		t.Fatalf("feature branch should not be marked current: %+v", summaries[0])
	}
}

func TestDeleteBranchRefusesCurrentBranch(t *testing.T) {
	store := remote.NewMemStore()
	valID, mainID := store.SeedVal("v", remote.PrivacyPublic, map[string]string{"a.ts": "A"})

	if err := DeleteBranch(context.Background(), store, valID, mainID, mainID); err == nil {
		t.Fatal("expected an error deleting the current branch")
	}
}

func TestDeleteBranchRemovesNonCurrentBranch(t *testing.T) {
	store := remote.NewMemStore()
	valID, mainID := store.SeedVal("v", remote.PrivacyPublic, map[string]string{"a.ts": "A"})
	feature, err := store.CreateBranch(context.Background(), valID, remote.CreateBranchParams{Name: "feature", BranchID: mainID})
	if err != nil {
		t.Fatal(err)
	}

	if err := DeleteBranch(context.Background(), store, valID, feature.ID, mainID); err != nil {
		t.Fatal(err)
	}

	branches, err := store.ListBranches(context.Background(), valID)
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 1 {
		t.Fatalf("got %d branches after delete, want 1", len(branches))
	}
}
