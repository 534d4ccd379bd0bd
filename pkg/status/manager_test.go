// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package status

import (
	"testing"
	"time"

	"github.com/val-town/vt/pkg/remote"
)

func mustModified(t *testing.T, path string) ItemStatus {
	t.Helper()
	s, err := NewModified(path, remote.ItemTypeFile, nil, WhereLocal)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustNotModified(t *testing.T, path string) ItemStatus {
	t.Helper()
	s, err := NewNotModified(path, remote.ItemTypeFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestManagerInsertHasSizeRemove(t *testing.T) {
	m := NewManager()
	m.Insert(mustModified(t, "a.ts"))
	if !m.Has("a.ts") {
		t.Fatal("expected a.ts to be tracked")
	}
	if m.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", m.Size())
	}
	m.Remove("a.ts")
	if m.Has("a.ts") {
		t.Fatal("expected a.ts to be removed")
	}
	if m.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", m.Size())
	}
}

func TestManagerInsertReplacesBucket(t *testing.T) {
	m := NewManager()
	m.Insert(mustModified(t, "a.ts"))
	m.Insert(mustNotModified(t, "a.ts"))
	s, ok := m.Get("a.ts")
	if !ok || s.Kind != KindNotModified {
		t.Fatalf("expected a.ts to have moved to the NotModified bucket, got %+v", s)
	}
	if m.Size() != 1 {
		t.Fatalf("a path must never occupy two buckets at once, got size %d", m.Size())
	}
}

func TestManagerChanges(t *testing.T) {
	m := NewManager()
	m.Insert(mustModified(t, "a.ts"))
	m.Insert(mustNotModified(t, "b.ts"))
	m.Insert(mustNotModified(t, "c.ts"))
	if got := m.Changes(); got != 1 {
		t.Fatalf("Changes() = %d, want 1 (size=%d - notModified=2)", got, m.Size())
	}
}

func TestManagerEntriesSorted(t *testing.T) {
	m := NewManager()
	m.Insert(mustModified(t, "z.ts"))
	m.Insert(mustModified(t, "a.ts"))
	m.Insert(mustModified(t, "m.ts"))
	entries := m.Entries()
	want := []string{"a.ts", "m.ts", "z.ts"}
	for i, e := range entries {
		if e.Path != want[i] {
			t.Fatalf("Entries()[%d].Path = %q, want %q", i, e.Path, want[i])
		}
	}
}

func TestManagerFilterByKind(t *testing.T) {
	m := NewManager()
	m.Insert(mustModified(t, "a.ts"))
	m.Insert(mustNotModified(t, "b.ts"))
	only := m.ByKind(KindModified)
	if only.Size() != 1 || !only.Has("a.ts") {
		t.Fatalf("ByKind(Modified) = %+v, want just a.ts", only.Entries())
	}
}

func TestMergeDisjointPathsIdempotent(t *testing.T) {
	left := NewManager()
	left.Insert(mustModified(t, "a.ts"))
	right := NewManager()
	right.Insert(mustModified(t, "b.ts"))

	merged := Merge(left, right)
	if merged.Size() != 2 || !merged.Has("a.ts") || !merged.Has("b.ts") {
		t.Fatalf("expected merge of disjoint managers to union both, got %+v", merged.Entries())
	}
}

func TestMergeRightOverrides(t *testing.T) {
	left := NewManager()
	left.Insert(mustModified(t, "a.ts"))
	right := NewManager()
	right.Insert(mustNotModified(t, "a.ts"))

	merged := Merge(left, right)
	s, ok := merged.Get("a.ts")
	if !ok || s.Kind != KindNotModified {
		t.Fatalf("expected right's entry to win for a.ts, got %+v", s)
	}
}

func TestMergeCollapsesCreatedAndDeletedToModified(t *testing.T) {
	created, err := NewCreated("a.ts", remote.ItemTypeFile, time.Now(), []byte("hi"))
	if err != nil {
		t.Fatal(err)
	}
	deleted, err := NewDeleted("a.ts", remote.ItemTypeFile)
	if err != nil {
		t.Fatal(err)
	}

	left := NewManager()
	left.Insert(created)
	right := NewManager()
	right.Insert(deleted)

	merged := Merge(left, right)
	s, ok := merged.Get("a.ts")
	if !ok || s.Kind != KindModified {
		t.Fatalf("expected Created+Deleted to collapse into Modified, got %+v", s)
	}
}

func TestInsertCollapsesCreatedThenDeletedToModified(t *testing.T) {
	m := NewManager()
	created, err := NewCreated("p.ts", remote.ItemTypeFile, time.Now(), []byte("hi"))
	if err != nil {
		t.Fatal(err)
	}
	deleted, err := NewDeleted("p.ts", remote.ItemTypeFile)
	if err != nil {
		t.Fatal(err)
	}

	m.Insert(created)
	m.Insert(deleted)

	s, ok := m.Get("p.ts")
	if !ok || s.Kind != KindModified {
		t.Fatalf("expected Created then Deleted to collapse to Modified, got %+v", s)
	}
}

func TestInsertCollapsesDeletedThenCreatedToModified(t *testing.T) {
	m := NewManager()
	deleted, err := NewDeleted("p.ts", remote.ItemTypeFile)
	if err != nil {
		t.Fatal(err)
	}
	created, err := NewCreated("p.ts", remote.ItemTypeFile, time.Now(), []byte("hi"))
	if err != nil {
		t.Fatal(err)
	}

	m.Insert(deleted)
	m.Insert(created)

	s, ok := m.Get("p.ts")
	if !ok || s.Kind != KindModified {
		t.Fatalf("expected Deleted then Created to collapse to Modified, got %+v", s)
	}
}

func TestInsertRenamedRemovesCreatedAtNewPathAndDeletedAtOldPath(t *testing.T) {
	m := NewManager()
	created, err := NewCreated("new.ts", remote.ItemTypeFile, time.Now(), nil)
	if err != nil {
		t.Fatal(err)
	}
	deleted, err := NewDeleted("old.ts", remote.ItemTypeFile)
	if err != nil {
		t.Fatal(err)
	}
	renamed, err := NewRenamed("new.ts", "old.ts", remote.ItemTypeFile, 0.9)
	if err != nil {
		t.Fatal(err)
	}

	m.Insert(created)
	m.Insert(deleted)
	m.Insert(renamed)

	if m.Has("old.ts") {
		t.Fatal("expected the old path's Deleted entry to be removed once Renamed is inserted")
	}
	s, ok := m.Get("new.ts")
	if !ok || s.Kind != KindRenamed {
		t.Fatalf("expected new.ts to hold the Renamed entry, got %+v", s)
	}
	if m.Size() != 1 {
		t.Fatalf("expected exactly one surviving entry, got %d: %+v", m.Size(), m.Entries())
	}
}

func TestRenamedRejectsSamePath(t *testing.T) {
	if _, err := NewRenamed("a.ts", "a.ts", remote.ItemTypeFile, 0.9); err == nil {
		t.Fatal("expected error when oldPath equals path")
	}
}

func TestEmptyPathRejected(t *testing.T) {
	if _, err := NewModified("", remote.ItemTypeFile, nil, WhereLocal); err == nil {
		t.Fatal("expected error for empty path")
	}
}
