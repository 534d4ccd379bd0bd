// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package create provisions a new remote val from a local directory
// (Create), or from another val's snapshot (Remix).
package create
