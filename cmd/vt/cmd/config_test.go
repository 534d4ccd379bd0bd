// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"testing"

	"github.com/val-town/vt/pkg/meta"
)

func TestConfigValueAndSetConfigValueRoundTrip(t *testing.T) {
	cfg := meta.DefaultConfig()

	if err := setConfigValue(cfg, "apiKey", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := configValue(cfg, "apiKey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "secret123" {
		t.Errorf("got %q, want secret123", got)
	}

	if err := setConfigValue(cfg, "dangerousOperations.confirmation", "false"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DangerousOperations.Confirmation {
		t.Error("confirmation should be false after set")
	}
}

func TestConfigValueRejectsUnknownKey(t *testing.T) {
	cfg := meta.DefaultConfig()
	if _, err := configValue(cfg, "bogus"); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestSetConfigValueRejectsBadBool(t *testing.T) {
	cfg := meta.DefaultConfig()
	if err := setConfigValue(cfg, "dangerousOperations.confirmation", "not-a-bool"); err == nil {
		t.Fatal("expected an error for an invalid bool")
	}
}
