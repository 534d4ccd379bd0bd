// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package remote

import "context"

// Store is the capability the sync engine needs from the remote platform:
// vals, branches, files, alias resolution, and the current user's
// profile.
type Store interface {
	// Vals

	RetrieveVal(ctx context.Context, valID string) (*Val, error)
	CreateVal(ctx context.Context, params CreateValParams) (*Val, error)
	DeleteVal(ctx context.Context, valID string) error

	// Branches

	ListBranches(ctx context.Context, valID string) ([]*Branch, error)
	RetrieveBranch(ctx context.Context, valID, branchID string) (*Branch, error)
	CreateBranch(ctx context.Context, valID string, params CreateBranchParams) (*Branch, error)
	DeleteBranch(ctx context.Context, valID, branchID string) error

	// Files

	ListFiles(ctx context.Context, valID string, params ListParams) ([]*ValItem, error)
	GetFileContent(ctx context.Context, valID string, params GetContentParams) ([]byte, error)
	CreateFile(ctx context.Context, valID string, params CreateFileParams) (*ValItem, error)
	UpdateFile(ctx context.Context, valID string, params UpdateFileParams) error
	DeleteFile(ctx context.Context, valID string, params DeleteFileParams) error

	// Misc

	ResolveAlias(ctx context.Context, username, valName string) (*Val, error)
	Profile(ctx context.Context) (*UserProfile, error)
}
