// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package itemtype

import (
	"testing"

	"github.com/val-town/vt/pkg/remote"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		remoteType remote.ItemType
		want       remote.ItemType
	}{
		{"remote type always wins", "index.ts", remote.ItemTypeDirectory, remote.ItemTypeDirectory},
		{"plain file extension", "README.md", "", remote.ItemTypeFile},
		{"no extension", "Makefile", "", remote.ItemTypeFile},
		{"cron substring", "dailyCronJob.ts", "", remote.ItemTypeInterval},
		{"http substring", "httpHandler.js", "", remote.ItemTypeHTTP},
		{"email substring", "sendEmailDigest.tsx", "", remote.ItemTypeEmail},
		{"zero substrings defaults to script", "utils.ts", "", remote.ItemTypeScript},
		{"two substrings defaults to script", "cronEmailJob.ts", "", remote.ItemTypeScript},
		{"case insensitive extension", "index.JS", "", remote.ItemTypeScript},
		{"case insensitive substring", "CRONjob.ts", "", remote.ItemTypeInterval},
		{"jsx extension eligible", "onHttpRequest.jsx", "", remote.ItemTypeHTTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.path, tt.remoteType)
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.path, tt.remoteType, got, tt.want)
			}
		})
	}
}
