// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package remote

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/val-town/vt/pkg/vterrors"
)

// MemStore is an in-memory Store used by tests. It models a val as a set of
// branches, each an independent, linearly versioned snapshot of a file tree.
type MemStore struct {
	mu       sync.Mutex
	vals     map[string]*Val
	branches map[string]map[string]*branchSnapshot // valID -> branchID -> snapshot
	nextID   int
}

type branchSnapshot struct {
	meta     *Branch
	versions []map[string]memItem // index 0 unused; versions[v] is the tree at version v
}

type memItem struct {
	item    ValItem
	content []byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		vals:     make(map[string]*Val),
		branches: make(map[string]map[string]*branchSnapshot),
	}
}

func (m *MemStore) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// SeedVal registers a val with a "main" branch at version 1 containing the
// given files (path -> content). It's the test-setup entry point; production
// code never calls it.
func (m *MemStore) SeedVal(name string, privacy Privacy, files map[string]string) (valID, branchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	valID = m.genID("val")
	branchID = m.genID("branch")

	m.vals[valID] = &Val{ID: valID, Name: name, Privacy: privacy}

	tree := make(map[string]memItem)
	now := time.Now()
	for p, content := range files {
		tree[p] = memItem{
			item:    ValItem{Path: p, Name: path.Base(p), Type: ItemTypeFile, UpdatedAt: now},
			content: []byte(content),
		}
	}

	m.branches[valID] = map[string]*branchSnapshot{
		branchID: {
			meta:     &Branch{ID: branchID, Name: "main", Version: FirstVersionNumber},
			versions: []map[string]memItem{nil, cloneTree(tree)},
		},
	}
	return valID, branchID
}

func cloneTree(t map[string]memItem) map[string]memItem {
	out := make(map[string]memItem, len(t))
	for k, v := range t {
		cp := make([]byte, len(v.content))
		copy(cp, v.content)
		out[k] = memItem{item: v.item, content: cp}
	}
	return out
}

func (m *MemStore) snapshot(valID, branchID string, version uint64) (map[string]memItem, error) {
	vb, ok := m.branches[valID]
	if !ok {
		return nil, &vterrors.NotFound{Resource: "val", Path: valID}
	}
	b, ok := vb[branchID]
	if !ok {
		return nil, &vterrors.NotFound{Resource: "branch", Path: branchID}
	}
	if version == 0 || version >= uint64(len(b.versions)) {
		version = uint64(len(b.versions) - 1)
	}
	return b.versions[version], nil
}

// Latest returns the latest version number for a branch. Test helper.
func (m *MemStore) Latest(valID, branchID string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.branches[valID][branchID]
	return uint64(len(b.versions) - 1)
}

// ReadFile is a test helper to fetch content at the latest version.
func (m *MemStore) ReadFile(valID, branchID, p string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tree, err := m.snapshot(valID, branchID, 0)
	if err != nil {
		return nil, false
	}
	it, ok := tree[p]
	return it.content, ok
}

func (m *MemStore) mutate(valID, branchID string, fn func(tree map[string]memItem)) error {
	vb, ok := m.branches[valID]
	if !ok {
		return &vterrors.NotFound{Resource: "val", Path: valID}
	}
	b, ok := vb[branchID]
	if !ok {
		return &vterrors.NotFound{Resource: "branch", Path: branchID}
	}
	cur := cloneTree(b.versions[len(b.versions)-1])
	fn(cur)
	b.versions = append(b.versions, cur)
	b.meta.Version = uint64(len(b.versions) - 1)
	return nil
}

func (m *MemStore) RetrieveVal(ctx context.Context, valID string) (*Val, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[valID]
	if !ok {
		return nil, &vterrors.NotFound{Resource: "val", Path: valID}
	}
	cp := *v
	return &cp, nil
}

func (m *MemStore) CreateVal(ctx context.Context, params CreateValParams) (*Val, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vals {
		if v.Name == params.Name {
			return nil, &vterrors.Conflict{Resource: "val", Reason: "name already exists"}
		}
	}
	valID := m.genID("val")
	branchID := m.genID("branch")
	v := &Val{ID: valID, Name: params.Name, Description: params.Description, Privacy: params.Privacy}
	m.vals[valID] = v
	m.branches[valID] = map[string]*branchSnapshot{
		branchID: {
			meta:     &Branch{ID: branchID, Name: "main", Version: FirstVersionNumber},
			versions: []map[string]memItem{nil, {}},
		},
	}
	cp := *v
	return &cp, nil
}

func (m *MemStore) DeleteVal(ctx context.Context, valID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vals[valID]; !ok {
		return &vterrors.NotFound{Resource: "val", Path: valID}
	}
	delete(m.vals, valID)
	delete(m.branches, valID)
	return nil
}

func (m *MemStore) ListBranches(ctx context.Context, valID string) ([]*Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vb, ok := m.branches[valID]
	if !ok {
		return nil, &vterrors.NotFound{Resource: "val", Path: valID}
	}
	out := make([]*Branch, 0, len(vb))
	for _, b := range vb {
		cp := *b.meta
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemStore) RetrieveBranch(ctx context.Context, valID, branchID string) (*Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vb, ok := m.branches[valID]
	if !ok {
		return nil, &vterrors.NotFound{Resource: "val", Path: valID}
	}
	b, ok := vb[branchID]
	if !ok {
		return nil, &vterrors.NotFound{Resource: "branch", Path: branchID}
	}
	cp := *b.meta
	return &cp, nil
}

func (m *MemStore) CreateBranch(ctx context.Context, valID string, params CreateBranchParams) (*Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vb, ok := m.branches[valID]
	if !ok {
		return nil, &vterrors.NotFound{Resource: "val", Path: valID}
	}
	for _, b := range vb {
		if b.meta.Name == params.Name {
			return nil, &vterrors.Conflict{Resource: "branch", Reason: "branch already exists"}
		}
	}
	src, ok := vb[params.BranchID]
	if !ok {
		return nil, &vterrors.NotFound{Resource: "branch", Path: params.BranchID}
	}
	newID := m.genID("branch")
	tree := cloneTree(src.versions[len(src.versions)-1])
	nb := &branchSnapshot{
		meta:     &Branch{ID: newID, Name: params.Name, Version: FirstVersionNumber},
		versions: []map[string]memItem{nil, tree},
	}
	vb[newID] = nb
	cp := *nb.meta
	return &cp, nil
}

func (m *MemStore) DeleteBranch(ctx context.Context, valID, branchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	vb, ok := m.branches[valID]
	if !ok {
		return &vterrors.NotFound{Resource: "val", Path: valID}
	}
	if _, ok := vb[branchID]; !ok {
		return &vterrors.NotFound{Resource: "branch", Path: branchID}
	}
	delete(vb, branchID)
	return nil
}

func (m *MemStore) ListFiles(ctx context.Context, valID string, params ListParams) ([]*ValItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tree, err := m.snapshot(valID, params.BranchID, params.Version)
	if err != nil {
		return nil, err
	}
	prefix := strings.Trim(params.Path, "/")
	out := make([]*ValItem, 0, len(tree))
	for p, it := range tree {
		if prefix != "" {
			if !strings.HasPrefix(p, prefix+"/") && p != prefix {
				continue
			}
			if !params.Recursive {
				rest := strings.TrimPrefix(p, prefix+"/")
				if strings.Contains(rest, "/") {
					continue
				}
			}
		} else if !params.Recursive && strings.Contains(p, "/") {
			continue
		}
		cp := it.item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *MemStore) GetFileContent(ctx context.Context, valID string, params GetContentParams) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tree, err := m.snapshot(valID, params.BranchID, params.Version)
	if err != nil {
		return nil, err
	}
	it, ok := tree[params.Path]
	if !ok {
		return nil, &vterrors.NotFound{Resource: "file", Path: params.Path}
	}
	cp := make([]byte, len(it.content))
	copy(cp, it.content)
	return cp, nil
}

func (m *MemStore) CreateFile(ctx context.Context, valID string, params CreateFileParams) (*ValItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var created ValItem
	err := m.mutate(valID, params.BranchID, func(tree map[string]memItem) {
		it := ValItem{Path: params.Path, Name: path.Base(params.Path), Type: params.Type, UpdatedAt: time.Now()}
		tree[params.Path] = memItem{item: it, content: append([]byte(nil), params.Content...)}
		created = it
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (m *MemStore) UpdateFile(ctx context.Context, valID string, params UpdateFileParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutate(valID, params.BranchID, func(tree map[string]memItem) {
		cur, ok := tree[params.Path]
		newPath := params.Path
		if params.Name != "" || params.ParentPath != "" {
			dir := path.Dir(params.Path)
			if params.ParentPath != "" {
				dir = params.ParentPath
			}
			name := path.Base(params.Path)
			if params.Name != "" {
				name = params.Name
			}
			if dir == "." {
				newPath = name
			} else {
				newPath = dir + "/" + name
			}
		}
		it := cur.item
		it.Path = newPath
		it.Name = path.Base(newPath)
		it.UpdatedAt = time.Now()
		if params.Type != "" {
			it.Type = params.Type
		}
		content := cur.content
		if params.HasContent {
			content = append([]byte(nil), params.Content...)
		}
		if !ok {
			it = ValItem{Path: newPath, Name: path.Base(newPath), Type: params.Type, UpdatedAt: time.Now()}
		}
		if newPath != params.Path {
			delete(tree, params.Path)
		}
		tree[newPath] = memItem{item: it, content: content}
	})
}

func (m *MemStore) DeleteFile(ctx context.Context, valID string, params DeleteFileParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	vb, ok := m.branches[valID]
	if !ok {
		return &vterrors.NotFound{Resource: "val", Path: valID}
	}
	b, ok := vb[params.BranchID]
	if !ok {
		return &vterrors.NotFound{Resource: "branch", Path: params.BranchID}
	}
	cur := b.versions[len(b.versions)-1]
	if _, ok := cur[params.Path]; !ok && !params.Recursive {
		return &vterrors.NotFound{Resource: "file", Path: params.Path}
	}
	return m.mutate(valID, params.BranchID, func(tree map[string]memItem) {
		delete(tree, params.Path)
		if params.Recursive {
			prefix := params.Path + "/"
			for p := range tree {
				if strings.HasPrefix(p, prefix) {
					delete(tree, p)
				}
			}
		}
	})
}

func (m *MemStore) ResolveAlias(ctx context.Context, username, valName string) (*Val, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vals {
		if v.Name == valName && (username == "" || v.Author == username) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, &vterrors.NotFound{Resource: "val", Path: username + "/" + valName}
}

func (m *MemStore) Profile(ctx context.Context) (*UserProfile, error) {
	return &UserProfile{ID: "u-1", Username: "testuser"}, nil
}

var _ Store = (*MemStore)(nil)
