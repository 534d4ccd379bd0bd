// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package sync implements Clone, Pull, and Push: the three operations that
// move a complete tree between a working copy and a val branch, executed
// with a bounded worker pool. Clone and Pull write the working copy through
// an AtomicStager; Push only writes to the remote.
package sync

import "time"

// DefaultConcurrency bounds the in-flight remote file operations for
// Clone and Push when a caller doesn't set one explicitly.
const DefaultConcurrency = 5

// defaultTransferTimeout is applied per remote call on top of the caller's
// context; an earlier deadline on that context still wins.
const defaultTransferTimeout = 30 * time.Second
