// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package status

import "sort"

// Manager is the ItemStatusManager: a path-keyed collection of ItemStatus
// values, partitioned into exactly one of five buckets per path (invariant
// I1). It is the unit of output for StatusEngine and the unit of input for
// Push/Checkout's planning passes.
type Manager struct {
	byPath map[string]ItemStatus
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{byPath: make(map[string]ItemStatus)}
}

// Insert adds or replaces the status for s.Path (a path can only ever be
// in one bucket at a time), applying the transition rules below before
// placement:
//   - Created on a path currently Deleted becomes Modified; the Deleted
//     entry is removed.
//   - Deleted on a path currently Created becomes Modified; the Created
//     entry is removed.
//   - Renamed on a path currently Created at s.Path, or Deleted at
//     s.OldPath, removes those entries; the Renamed is stored.
//   - Any other insert on an existing path overwrites it outright.
func (m *Manager) Insert(s ItemStatus) {
	if existing, ok := m.byPath[s.Path]; ok {
		switch {
		case s.Kind == KindCreated && existing.Kind == KindDeleted:
			if merged, err := NewModified(s.Path, s.Type, s.Content, WhereLocal); err == nil {
				m.byPath[s.Path] = merged
				return
			}
		case s.Kind == KindDeleted && existing.Kind == KindCreated:
			if merged, err := NewModified(existing.Path, existing.Type, existing.Content, WhereLocal); err == nil {
				m.byPath[s.Path] = merged
				return
			}
		case s.Kind == KindRenamed && existing.Kind == KindCreated:
			delete(m.byPath, s.Path)
		}
	}
	if s.Kind == KindRenamed {
		if old, ok := m.byPath[s.OldPath]; ok && old.Kind == KindDeleted {
			delete(m.byPath, s.OldPath)
		}
	}
	m.byPath[s.Path] = s
}

// Remove deletes any status recorded for path.
func (m *Manager) Remove(path string) {
	delete(m.byPath, path)
}

// Update replaces the status at path if present, and reports whether a
// prior entry existed.
func (m *Manager) Update(s ItemStatus) bool {
	_, existed := m.byPath[s.Path]
	if existed {
		m.byPath[s.Path] = s
	}
	return existed
}

// Has reports whether path has a recorded status.
func (m *Manager) Has(path string) bool {
	_, ok := m.byPath[path]
	return ok
}

// Get returns the status recorded for path, if any.
func (m *Manager) Get(path string) (ItemStatus, bool) {
	s, ok := m.byPath[path]
	return s, ok
}

// Size returns the total number of tracked paths across all buckets.
func (m *Manager) Size() int {
	return len(m.byPath)
}

// Changes returns the count of paths whose status is anything other than
// NotModified (invariant I5: changes() == size() - notModifiedCount()).
func (m *Manager) Changes() int {
	notModified := 0
	for _, s := range m.byPath {
		if s.Kind == KindNotModified {
			notModified++
		}
	}
	return m.Size() - notModified
}

// Filter returns a new Manager containing only the entries for which pred
// returns true.
func (m *Manager) Filter(pred func(ItemStatus) bool) *Manager {
	out := NewManager()
	for _, s := range m.byPath {
		if pred(s) {
			out.Insert(s)
		}
	}
	return out
}

// ByKind returns a new Manager containing only entries of the given Kind.
func (m *Manager) ByKind(k Kind) *Manager {
	return m.Filter(func(s ItemStatus) bool { return s.Kind == k })
}

// Entries returns every tracked status, sorted lexicographically by path
// for deterministic output.
func (m *Manager) Entries() []ItemStatus {
	out := make([]ItemStatus, 0, len(m.byPath))
	for _, s := range m.byPath {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Merge combines left and right into a new Manager by inserting every entry
// of left and then every entry of right, so right's entry wins for a path
// present on both sides (right-overriding union, not symmetric), except
// where Insert's transition rules combine the two: a path that is Created
// on one side and Deleted on the other collapses to Modified, exactly as a
// bare sequence of Insert calls would.
func Merge(left, right *Manager) *Manager {
	out := NewManager()
	for _, l := range left.byPath {
		out.Insert(l)
	}
	for _, r := range right.byPath {
		out.Insert(r)
	}
	return out
}
