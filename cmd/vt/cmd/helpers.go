// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/val-town/vt/pkg/cliutil"
	"github.com/val-town/vt/pkg/ignore"
	"github.com/val-town/vt/pkg/meta"
	"github.com/val-town/vt/pkg/remote"
	"github.com/val-town/vt/pkg/vterrors"
)

// defaultAPIBaseURL is the Val Town REST API this client talks to.
const defaultAPIBaseURL = "https://api.val.town"

// defaultWebBaseURL is the browser-facing site a val's human-readable page
// lives under, used by `vt browse` and the watcher's browser-companion hook.
const defaultWebBaseURL = "https://www.val.town"

// valBrowseURL builds the page a person would open to look at author/name.
func valBrowseURL(author, name string) string {
	return defaultWebBaseURL + "/x/" + author + "/" + name
}

// cmdContext bundles the dependencies almost every command needs, built
// once per invocation by newCmdContext.
type cmdContext struct {
	ctx    context.Context
	cfg    *meta.Config
	store  remote.Store
	logger *cliutil.Logger
}

// newCmdContext loads config and builds the remote store. Commands that
// only need a store (not a working copy) call this directly.
func newCmdContext() (cmdContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cmdContext{}, err
	}
	store, err := newStore(cfg)
	if err != nil {
		return cmdContext{}, err
	}
	return cmdContext{
		ctx:    context.Background(),
		cfg:    cfg,
		store:  store,
		logger: cliutil.NewLogger(verbose, quiet),
	}, nil
}

// loadConfig resolves the user-level config file, applying API_KEY.
func loadConfig() (*meta.Config, error) {
	cfg, err := meta.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newStore builds the remote.Store the rest of a command uses, failing
// fast with AuthMissing when no API key is configured.
func newStore(cfg *meta.Config) (remote.Store, error) {
	if cfg.APIKey == "" {
		return nil, &vterrors.AuthMissing{Reason: "no API key; run `vt login` or set API_KEY"}
	}
	return remote.NewHTTPStore(defaultAPIBaseURL, cfg.APIKey), nil
}

// workingCopyRoot returns the current working copy's root, which for vt is
// always the process's current directory (unlike the teacher's bulk
// commands, which scan a directory tree for many repositories).
func workingCopyRoot() (string, error) {
	return os.Getwd()
}

// loadWorkingCopy loads state.json at root, wrapping the not-found case
// with guidance.
func loadWorkingCopy(root string) (meta.WorkingCopyState, error) {
	state, err := meta.LoadState(root)
	if err != nil {
		var nf *vterrors.NotFound
		if errors.As(err, &nf) {
			return meta.WorkingCopyState{}, fmt.Errorf("%s is not a vt working copy (no .vt/state.json); run `vt clone` first", root)
		}
		return meta.WorkingCopyState{}, err
	}
	return state, nil
}

// loadRules builds the layered ignore rules for root using cfg's configured
// global ignore files.
func loadRules(root string, cfg *meta.Config) (ignore.Rules, error) {
	return meta.LoadIgnoreRules(root, cfg.GlobalIgnoreFiles)
}

// resolveValURI resolves a "val_uri" CLI argument, either a bare val id or
// an "author/name" alias, into a Val.
func resolveValURI(ctx cmdContext, uri string) (*remote.Val, error) {
	if author, name, ok := strings.Cut(uri, "/"); ok && author != "" && name != "" {
		return ctx.store.ResolveAlias(ctx.ctx, author, name)
	}
	return ctx.store.RetrieveVal(ctx.ctx, uri)
}

// checkUnsafeDirectory rejects a target directory that already exists and
// is non-empty, per UnsafeDirectory.
func checkUnsafeDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(entries) > 0 {
		return &vterrors.UnsafeDirectory{Path: dir}
	}
	return nil
}

// findBranchByName resolves a branch argument by name, since the CLI's
// surface takes human branch names but the engine keys everything by id.
func findBranchByName(branches []*remote.Branch, name string) (*remote.Branch, error) {
	for _, b := range branches {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, &vterrors.NotFound{Resource: "branch", Path: name}
}

// cmdStdout is the writer commands print change listings to; a single
// indirection point so a future --format flag could redirect it.
func cmdStdout() *os.File {
	return os.Stdout
}

// renderError formats err for a single-line, colorized failure message.
func renderError(err error) string {
	return cliutil.ColorRedBold + "error: " + cliutil.ColorReset + err.Error()
}

// exitCodeFor maps any handled error to a process exit code. Every member
// of the vterrors taxonomy exits 1, matching "1 on handled error"; vt never
// produces any other code.
func exitCodeFor(err error) int {
	return 1
}
