// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"testing"

	"github.com/val-town/vt/pkg/remote"
)

func TestResolvePrivacyDefaultsToPrivate(t *testing.T) {
	p, err := resolvePrivacy(false, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != remote.PrivacyPrivate {
		t.Errorf("got %q, want private", p)
	}
}

func TestResolvePrivacyHonorsEachFlag(t *testing.T) {
	cases := []struct {
		private, public, unlisted bool
		want                      remote.Privacy
	}{
		{private: true, want: remote.PrivacyPrivate},
		{public: true, want: remote.PrivacyPublic},
		{unlisted: true, want: remote.PrivacyUnlisted},
	}
	for _, c := range cases {
		got, err := resolvePrivacy(c.private, c.public, c.unlisted)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestResolvePrivacyRejectsMultipleFlags(t *testing.T) {
	if _, err := resolvePrivacy(true, true, false); err == nil {
		t.Fatal("expected an error for mutually exclusive flags")
	}
}
