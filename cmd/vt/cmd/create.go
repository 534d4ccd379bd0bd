// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
	pkgcreate "github.com/val-town/vt/pkg/create"
	"github.com/val-town/vt/pkg/ignore"
	"github.com/val-town/vt/pkg/meta"
	"github.com/val-town/vt/pkg/remote"
	"github.com/val-town/vt/pkg/status"
	vtsync "github.com/val-town/vt/pkg/sync"
	"github.com/val-town/vt/pkg/vterrors"
)

var (
	createPrivate        bool
	createPublic         bool
	createUnlisted       bool
	createIfExists       string
	createUploadIfExists bool
	createNoEditorFiles  bool
	createOrgName        string
	createDescription    string
)

var createCmd = &cobra.Command{
	Use:   "create <name> [dir]",
	Short: "Create a new val from a local directory",
	Long: cliutil.QuickStartHelp(`  # Create a public val from the current directory
  vt create my-val --public

  # Create a private val from a specific directory
  vt create my-val ./somewhere --private`),
	Args: cobra.RangeArgs(1, 2),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().BoolVar(&createPrivate, "private", false, "create a private val")
	createCmd.Flags().BoolVar(&createPublic, "public", false, "create a public val")
	createCmd.Flags().BoolVar(&createUnlisted, "unlisted", false, "create an unlisted val")
	createCmd.Flags().StringVar(&createIfExists, "if-exists", "", "behavior if name is taken: continue")
	createCmd.Flags().BoolVar(&createUploadIfExists, "upload-if-exists", false, "with --if-exists=continue, still upload dir's content")
	// Editor template insertion is an external collaborator this engine
	// never implements, so the flag is accepted for CLI parity but has no
	// effect either way.
	createCmd.Flags().BoolVar(&createNoEditorFiles, "no-editor-files", false, "skip inserting editor template files")
	createCmd.Flags().StringVar(&createOrgName, "org-name", "", "create the val under an organization")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "val description")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx, err := newCmdContext()
	if err != nil {
		return err
	}

	name := args[0]
	sourceDir := "."
	if len(args) > 1 {
		sourceDir = args[1]
	}

	privacy, err := resolvePrivacy(createPrivate, createPublic, createUnlisted)
	if err != nil {
		return err
	}

	if createOrgName != "" {
		ctx.logger.Warn("--org-name is not supported by this val's create capability; ignoring")
	}

	rules, err := loadRules(sourceDir, ctx.cfg)
	if err != nil {
		return err
	}

	result, err := pkgcreate.Create(ctx.ctx, ctx.store, pkgcreate.Params{
		SourceDir:   sourceDir,
		ValName:     name,
		Privacy:     privacy,
		Description: createDescription,
		Rules:       rules,
		DoUpload:    true,
	})

	var conflict *vterrors.Conflict
	if errors.As(err, &conflict) && createIfExists == "continue" {
		result, err = continueExistingVal(ctx, sourceDir, name, rules)
	}
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	if err := meta.SaveState(sourceDir, meta.WorkingCopyState{
		Val:    meta.ValRef{ID: result.ValID},
		Branch: meta.BranchRef{ID: result.BranchID, Version: result.Version},
	}); err != nil {
		return fmt.Errorf("save working copy state: %w", err)
	}

	if !quiet {
		fmt.Printf("created %s\n", name)
	}
	cliutil.PrintChanges(cmdStdout(), result.Changes, quiet)
	return nil
}

// continueExistingVal implements --if-exists=continue: resolve the val that
// already owns name instead of failing, optionally pushing sourceDir's
// content on top of it if --upload-if-exists was given.
func continueExistingVal(ctx cmdContext, sourceDir, name string, rules ignore.Rules) (*pkgcreate.Result, error) {
	profile, err := ctx.store.Profile(ctx.ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	val, err := ctx.store.ResolveAlias(ctx.ctx, profile.Username, name)
	if err != nil {
		return nil, fmt.Errorf("resolve existing val: %w", err)
	}
	branches, err := ctx.store.ListBranches(ctx.ctx, val.ID)
	if err != nil || len(branches) == 0 {
		return nil, fmt.Errorf("resolve default branch: %w", err)
	}
	branch := branches[0]

	result := &pkgcreate.Result{ValID: val.ID, BranchID: branch.ID, Version: branch.Version, Changes: status.NewManager()}
	if !createUploadIfExists {
		return result, nil
	}

	changes, err := vtsync.Push(ctx.ctx, ctx.store, vtsync.PushParams{
		TargetDir: sourceDir,
		ValID:     val.ID,
		BranchID:  branch.ID,
		Rules:     rules,
	})
	if err != nil {
		return nil, fmt.Errorf("push to existing val: %w", err)
	}
	result.Changes = changes

	latest, err := ctx.store.RetrieveBranch(ctx.ctx, val.ID, branch.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve pushed version: %w", err)
	}
	result.Version = latest.Version
	return result, nil
}

// resolvePrivacy maps the three mutually exclusive privacy flags to a
// remote.Privacy, defaulting to private as the safest choice when none is
// given.
func resolvePrivacy(private, public, unlisted bool) (remote.Privacy, error) {
	set := 0
	for _, b := range []bool{private, public, unlisted} {
		if b {
			set++
		}
	}
	if set > 1 {
		return "", fmt.Errorf("--private, --public, and --unlisted are mutually exclusive")
	}
	switch {
	case public:
		return remote.PrivacyPublic, nil
	case unlisted:
		return remote.PrivacyUnlisted, nil
	default:
		return remote.PrivacyPrivate, nil
	}
}
