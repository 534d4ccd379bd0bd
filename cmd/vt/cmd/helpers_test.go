// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/val-town/vt/pkg/remote"
	"github.com/val-town/vt/pkg/vterrors"
)

func TestCheckUnsafeDirectoryAllowsMissingAndEmpty(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "does-not-exist")
	if err := checkUnsafeDirectory(missing); err != nil {
		t.Fatalf("missing directory should be safe, got %v", err)
	}

	empty := filepath.Join(dir, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := checkUnsafeDirectory(empty); err != nil {
		t.Fatalf("empty directory should be safe, got %v", err)
	}
}

func TestCheckUnsafeDirectoryRejectsNonEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := checkUnsafeDirectory(dir)
	var unsafe *vterrors.UnsafeDirectory
	if !errors.As(err, &unsafe) {
		t.Fatalf("want *vterrors.UnsafeDirectory, got %v", err)
	}
	if unsafe.Path != dir {
		t.Errorf("Path = %q, want %q", unsafe.Path, dir)
	}
}

func TestFindBranchByName(t *testing.T) {
	branches := []*remote.Branch{
		{ID: "b1", Name: "main"},
		{ID: "b2", Name: "experiment"},
	}

	got, err := findBranchByName(branches, "experiment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "b2" {
		t.Errorf("ID = %q, want b2", got.ID)
	}

	_, err = findBranchByName(branches, "nope")
	var nf *vterrors.NotFound
	if !errors.As(err, &nf) {
		t.Fatalf("want *vterrors.NotFound, got %v", err)
	}
}

func TestExitCodeForAlwaysOne(t *testing.T) {
	cases := []error{
		nil,
		errors.New("plain"),
		&vterrors.NotFound{Resource: "val", Path: "x"},
		&vterrors.ProgrammerError{Reason: "precondition violated"},
	}
	for _, err := range cases {
		if got := exitCodeFor(err); got != 1 {
			t.Errorf("exitCodeFor(%v) = %d, want 1", err, got)
		}
	}
}
