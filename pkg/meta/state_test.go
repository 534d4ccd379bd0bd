// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package meta

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/val-town/vt/pkg/vterrors"
)

func TestLoadStateMissingReturnsNotFound(t *testing.T) {
	root := t.TempDir()

	_, err := LoadState(root)
	if err == nil {
		t.Fatal("expected an error for a missing state.json")
	}
	var notFound *vterrors.NotFound
	if !asNotFound(err, &notFound) {
		t.Fatalf("got %v, want *vterrors.NotFound", err)
	}
}

func TestSaveThenLoadStateRoundTrips(t *testing.T) {
	root := t.TempDir()
	want := WorkingCopyState{
		Val:    ValRef{ID: "val_1"},
		Branch: BranchRef{ID: "branch_1", Version: 7},
	}

	if err := SaveState(root, want); err != nil {
		t.Fatal(err)
	}
	got, err := LoadState(root)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadStateMigratesLegacyProjectKey(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(ControlDir(root), 0o755); err != nil {
		t.Fatal(err)
	}
	legacy := `{"project":{"id":"val_old"},"branch":{"id":"branch_1","version":3}}`
	if err := os.WriteFile(StatePath(root), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadState(root)
	if err != nil {
		t.Fatal(err)
	}
	if got.Val.ID != "val_old" {
		t.Fatalf("Val.ID = %q, want migrated %q", got.Val.ID, "val_old")
	}
	if got.Branch.Version != 3 {
		t.Fatalf("Branch.Version = %d, want 3", got.Branch.Version)
	}
}

func TestLoadStateResavesInCurrentSchema(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(ControlDir(root), 0o755); err != nil {
		t.Fatal(err)
	}
	legacy := `{"project":{"id":"val_old"},"branch":{"id":"branch_1","version":3}}`
	if err := os.WriteFile(StatePath(root), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	state, err := LoadState(root)
	if err != nil {
		t.Fatal(err)
	}
	if state.Val.ID != "val_old" {
		t.Fatalf("Val.ID = %q, want migrated %q", state.Val.ID, "val_old")
	}

	raw, err := os.ReadFile(StatePath(root))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(raw); !strings.Contains(got, `"val"`) || strings.Contains(got, `"project"`) {
		t.Fatalf("resaved state.json still uses legacy schema: %s", got)
	}
}

func TestLoadStateRejectsMissingValAndProject(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(ControlDir(root), 0o755); err != nil {
		t.Fatal(err)
	}
	bad := `{"branch":{"id":"branch_1","version":1}}`
	if err := os.WriteFile(StatePath(root), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadState(root)
	if err == nil {
		t.Fatal("expected an error for a state.json with neither val nor project")
	}
	var invalid *vterrors.InvalidSchema
	if !asInvalidSchema(err, &invalid) {
		t.Fatalf("got %v, want *vterrors.InvalidSchema", err)
	}
}

func TestControlDirAndStatePath(t *testing.T) {
	root := "/work/copy"
	if got, want := ControlDir(root), filepath.Join(root, ".vt"); got != want {
		t.Fatalf("ControlDir = %q, want %q", got, want)
	}
	if got, want := StatePath(root), filepath.Join(root, ".vt", "state.json"); got != want {
		t.Fatalf("StatePath = %q, want %q", got, want)
	}
}

func asNotFound(err error, target **vterrors.NotFound) bool {
	nf, ok := err.(*vterrors.NotFound)
	if ok {
		*target = nf
	}
	return ok
}

func asInvalidSchema(err error, target **vterrors.InvalidSchema) bool {
	is, ok := err.(*vterrors.InvalidSchema)
	if ok {
		*target = is
	}
	return ok
}
