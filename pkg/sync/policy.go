// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package sync

import (
	"bytes"
	"fmt"
)

// MaxPushFileSize is the largest file DefaultPolicy lets through. Val Town
// vals are small source files and JSON blobs, not asset storage, so a file
// past this size is almost certainly not meant to be pushed.
const MaxPushFileSize = 10 << 20 // 10 MiB

// binarySniffLength is how many leading bytes DefaultPolicy inspects for a
// NUL byte, the same heuristic git itself uses to call a blob binary.
const binarySniffLength = 8000

// DefaultPolicy rejects binary content and oversized files, the two push
// policy checks named in spec §4.8 step 4. A file is considered binary if a
// NUL byte appears anywhere in its first binarySniffLength bytes.
func DefaultPolicy(path string, content []byte) (reason string, reject bool) {
	if len(content) > MaxPushFileSize {
		return fmt.Sprintf("file is %d bytes, over the %d byte push limit", len(content), MaxPushFileSize), true
	}
	sniff := content
	if len(sniff) > binarySniffLength {
		sniff = sniff[:binarySniffLength]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return "binary content (NUL byte found)", true
	}
	return "", false
}
