// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
	"github.com/val-town/vt/pkg/meta"
	vtsync "github.com/val-town/vt/pkg/sync"
)

var cloneNoEditorFiles bool

var cloneCmd = &cobra.Command{
	Use:   "clone <val_uri> [dir] [branch]",
	Short: "Clone a val into a new working copy",
	Long: cliutil.QuickStartHelp(`  # Clone into ./my-val
  vt clone username/my-val

  # Clone into a specific directory
  vt clone username/my-val ./somewhere

  # Clone a non-default branch
  vt clone username/my-val ./somewhere experiment`),
	Args: cobra.RangeArgs(1, 3),
	RunE: runClone,
}

func init() {
	rootCmd.AddCommand(cloneCmd)
	// Editor template insertion is an external collaborator this engine
	// never implements, so the flag is accepted for CLI parity but has no
	// effect either way.
	cloneCmd.Flags().BoolVar(&cloneNoEditorFiles, "no-editor-files", false, "skip inserting editor template files (deno.json etc.)")
}

func runClone(cmd *cobra.Command, args []string) error {
	ctx, err := newCmdContext()
	if err != nil {
		return err
	}

	val, err := resolveValURI(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolve val: %w", err)
	}

	targetDir := filepath.Join(".", val.Name)
	if len(args) > 1 {
		targetDir = args[1]
	}
	if err := checkUnsafeDirectory(targetDir); err != nil {
		return err
	}

	branches, err := ctx.store.ListBranches(ctx.ctx, val.ID)
	if err != nil {
		return fmt.Errorf("list branches: %w", err)
	}
	branch := branches[0]
	if len(args) > 2 {
		branch, err = findBranchByName(branches, args[2])
		if err != nil {
			return err
		}
	}

	rules, err := loadRules(targetDir, ctx.cfg)
	if err != nil {
		return err
	}

	manager, err := vtsync.Clone(ctx.ctx, ctx.store, vtsync.CloneParams{
		TargetDir: targetDir,
		ValID:     val.ID,
		BranchID:  branch.ID,
		Version:   branch.Version,
		Rules:     rules,
		Overwrite: true,
	})
	if err != nil {
		return fmt.Errorf("clone: %w", err)
	}

	if err := meta.SaveState(targetDir, meta.WorkingCopyState{
		Val:    meta.ValRef{ID: val.ID},
		Branch: meta.BranchRef{ID: branch.ID, Version: branch.Version},
	}); err != nil {
		return fmt.Errorf("save working copy state: %w", err)
	}

	if !quiet {
		fmt.Printf("cloned %s@%s into %s\n", val.Name, branch.Name, targetDir)
	}
	cliutil.PrintChanges(cmdStdout(), manager, quiet)
	return nil
}
