// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package create

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/val-town/vt/pkg/remote"
)

func TestCreateProvisionsValAndPushesContent(t *testing.T) {
	store := remote.NewMemStore()

	sourceDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sourceDir, "main.ts"), []byte("export default function() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Create(context.Background(), store, Params{
		SourceDir: sourceDir,
		ValName:   "myval",
		Privacy:   remote.PrivacyPublic,
		DoUpload:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.ValID == "" || result.BranchID == "" {
		t.Fatalf("result = %+v, want non-empty val and branch ids", result)
	}

	content, ok := store.ReadFile(result.ValID, result.BranchID, "main.ts")
	if !ok || string(content) != "export default function() {}" {
		t.Fatalf("remote main.ts = %q ok=%v, want pushed content", content, ok)
	}
}

func TestCreateWithoutUploadLeavesValEmpty(t *testing.T) {
	store := remote.NewMemStore()

	sourceDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sourceDir, "main.ts"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Create(context.Background(), store, Params{
		SourceDir: sourceDir,
		ValName:   "bare",
		Privacy:   remote.PrivacyPrivate,
		DoUpload:  false,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.ReadFile(result.ValID, result.BranchID, "main.ts"); ok {
		t.Fatal("main.ts should not have been uploaded when DoUpload is false")
	}
}

func TestCreateMissingSourceDirErrors(t *testing.T) {
	store := remote.NewMemStore()
	_, err := Create(context.Background(), store, Params{
		SourceDir: filepath.Join(t.TempDir(), "missing"),
		ValName:   "v",
	})
	if err == nil {
		t.Fatal("expected an error for a missing source directory")
	}
}

func TestRemixClonesAndCarriesItemTypes(t *testing.T) {
	store := remote.NewMemStore()
	srcValID, srcBranchID := store.SeedVal("source", remote.PrivacyPublic, map[string]string{
		"handler.ts": "export default function() {}",
	})
	if err := store.UpdateFile(context.Background(), srcValID, remote.UpdateFileParams{
		Path: "handler.ts", BranchID: srcBranchID, Type: remote.ItemTypeHTTP,
	}); err != nil {
		t.Fatal(err)
	}

	targetDir := t.TempDir()
	result, err := Remix(context.Background(), store, RemixParams{
		TargetDir:   targetDir,
		SrcValID:    srcValID,
		SrcBranchID: srcBranchID,
		ValName:     "remixed",
	})
	if err != nil {
		t.Fatal(err)
	}

	content, ok := store.ReadFile(result.ValID, result.BranchID, "handler.ts")
	if !ok || string(content) != "export default function() {}" {
		t.Fatalf("remote handler.ts = %q ok=%v, want cloned content", content, ok)
	}

	items, err := store.ListFiles(context.Background(), result.ValID, remote.ListParams{BranchID: result.BranchID, Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	var gotType remote.ItemType
	for _, it := range items {
		if it.Path == "handler.ts" {
			gotType = it.Type
		}
	}
	if gotType != remote.ItemTypeHTTP {
		t.Fatalf("handler.ts type = %q, want %q", gotType, remote.ItemTypeHTTP)
	}
}

func TestRemixDefaultsPrivacyFromSource(t *testing.T) {
	store := remote.NewMemStore()
	srcValID, srcBranchID := store.SeedVal("source", remote.PrivacyUnlisted, map[string]string{"a.ts": "A"})

	targetDir := t.TempDir()
	result, err := Remix(context.Background(), store, RemixParams{
		TargetDir:   targetDir,
		SrcValID:    srcValID,
		SrcBranchID: srcBranchID,
		ValName:     "remixed2",
	})
	if err != nil {
		t.Fatal(err)
	}

	val, err := store.RetrieveVal(context.Background(), result.ValID)
	if err != nil {
		t.Fatal(err)
	}
	if val.Privacy != remote.PrivacyUnlisted {
		t.Fatalf("remixed val privacy = %q, want inherited %q", val.Privacy, remote.PrivacyUnlisted)
	}
}
