// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package status

import (
	"errors"
	"testing"
	"time"

	"github.com/val-town/vt/pkg/remote"
)

func TestTrigramSimilarityIdenticalContent(t *testing.T) {
	if got := trigramSimilarity([]byte("hello world"), []byte("hello world")); got != 1 {
		t.Fatalf("similarity of identical content = %v, want 1", got)
	}
}

func TestTrigramSimilarityDisjointContent(t *testing.T) {
	if got := trigramSimilarity([]byte("aaa"), []byte("zzz")); got != 0 {
		t.Fatalf("similarity of disjoint content = %v, want 0", got)
	}
}

func TestDetectRenamesPairsSimilarContent(t *testing.T) {
	m := NewManager()
	created, _ := NewCreated("new/handler.ts", remote.ItemTypeHTTP, time.Now(), nil)
	deleted, _ := NewDeleted("old/handler.ts", remote.ItemTypeHTTP)
	m.Insert(created)
	m.Insert(deleted)

	body := []byte("export default async function handler(req: Request) { return new Response('ok') }")
	local := func(path string) ([]byte, error) { return body, nil }
	remoteRead := func(path string) ([]byte, error) { return body, nil }

	out, err := DetectRenames(m, local, remoteRead)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := out.Get("new/handler.ts")
	if !ok || s.Kind != KindRenamed {
		t.Fatalf("expected new/handler.ts to be reported as Renamed, got %+v", s)
	}
	if s.OldPath != "old/handler.ts" {
		t.Fatalf("OldPath = %q, want old/handler.ts", s.OldPath)
	}
	if out.Has("old/handler.ts") {
		t.Fatal("expected the deleted-side path to be absorbed into the rename entry")
	}
}

func TestDetectRenamesNeverPairsDifferentTypes(t *testing.T) {
	m := NewManager()
	created, _ := NewCreated("a.ts", remote.ItemTypeScript, time.Now(), nil)
	deleted, _ := NewDeleted("b.ts", remote.ItemTypeHTTP)
	m.Insert(created)
	m.Insert(deleted)

	body := []byte("identical body identical body identical body")
	local := func(path string) ([]byte, error) { return body, nil }
	remoteRead := func(path string) ([]byte, error) { return body, nil }

	out, err := DetectRenames(m, local, remoteRead)
	if err != nil {
		t.Fatal(err)
	}
	if out.Has("a.ts") {
		if s, _ := out.Get("a.ts"); s.Kind == KindRenamed {
			t.Fatal("rename detection must not pair items of different types (invariant P9)")
		}
	}
}

func TestDetectRenamesBelowThresholdLeavesCreatedAndDeleted(t *testing.T) {
	m := NewManager()
	created, _ := NewCreated("new.ts", remote.ItemTypeFile, time.Now(), nil)
	deleted, _ := NewDeleted("old.ts", remote.ItemTypeFile)
	m.Insert(created)
	m.Insert(deleted)

	local := func(path string) ([]byte, error) { return []byte("aaa"), nil }
	remoteRead := func(path string) ([]byte, error) { return []byte("zzz"), nil }

	out, err := DetectRenames(m, local, remoteRead)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Has("new.ts") || !out.Has("old.ts") {
		t.Fatal("expected both paths to remain Created/Deleted when similarity is below threshold")
	}
	newStatus, _ := out.Get("new.ts")
	if newStatus.Kind != KindCreated {
		t.Fatalf("new.ts kind = %v, want Created", newStatus.Kind)
	}
}

func TestDetectRenamesTieBreaksByLexicographicOldPath(t *testing.T) {
	m := NewManager()
	created, _ := NewCreated("new.ts", remote.ItemTypeFile, time.Now(), nil)
	m.Insert(created)
	deletedA, _ := NewDeleted("zzz.ts", remote.ItemTypeFile)
	deletedB, _ := NewDeleted("aaa.ts", remote.ItemTypeFile)
	m.Insert(deletedA)
	m.Insert(deletedB)

	body := []byte("same content same content same content")
	local := func(path string) ([]byte, error) { return body, nil }
	remoteRead := func(path string) ([]byte, error) { return body, nil }

	out, err := DetectRenames(m, local, remoteRead)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := out.Get("new.ts")
	if !ok || s.Kind != KindRenamed {
		t.Fatalf("expected new.ts to be renamed, got %+v", s)
	}
	if s.OldPath != "aaa.ts" {
		t.Fatalf("OldPath = %q, want tie-break winner aaa.ts", s.OldPath)
	}
}

func TestDetectRenamesPropagatesContentErrors(t *testing.T) {
	m := NewManager()
	created, _ := NewCreated("a.ts", remote.ItemTypeFile, time.Now(), nil)
	deleted, _ := NewDeleted("b.ts", remote.ItemTypeFile)
	m.Insert(created)
	m.Insert(deleted)

	boom := errors.New("boom")
	local := func(path string) ([]byte, error) { return nil, boom }
	remoteRead := func(path string) ([]byte, error) { return nil, nil }

	if _, err := DetectRenames(m, local, remoteRead); err == nil {
		t.Fatal("expected content read error to propagate")
	}
}
