// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package checkout switches a working copy between branches, existing or
// newly forked, while preserving files that belong to neither branch.
package checkout
