// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
	pkgcreate "github.com/val-town/vt/pkg/create"
	"github.com/val-town/vt/pkg/meta"
)

var (
	remixPrivate     bool
	remixPublic      bool
	remixUnlisted    bool
	remixDescription string
)

var remixCmd = &cobra.Command{
	Use:   "remix <src_uri> [new_name] [dir]",
	Short: "Clone a val's content into a new val of your own",
	Long: cliutil.QuickStartHelp(`  # Remix someone else's val under a new name
  vt remix username/original my-remix

  # Remix into a specific directory, keeping the default derived name
  vt remix username/original "" ./somewhere`),
	Args: cobra.RangeArgs(1, 3),
	RunE: runRemix,
}

func init() {
	rootCmd.AddCommand(remixCmd)
	remixCmd.Flags().BoolVar(&remixPrivate, "private", false, "make the remix private")
	remixCmd.Flags().BoolVar(&remixPublic, "public", false, "make the remix public")
	remixCmd.Flags().BoolVar(&remixUnlisted, "unlisted", false, "make the remix unlisted")
	remixCmd.Flags().StringVarP(&remixDescription, "description", "d", "", "remix description")
}

func runRemix(cmd *cobra.Command, args []string) error {
	ctx, err := newCmdContext()
	if err != nil {
		return err
	}

	src, err := resolveValURI(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolve source val: %w", err)
	}

	newName := src.Name + "-remix"
	if len(args) > 1 && args[1] != "" {
		newName = args[1]
	}
	targetDir := newName
	if len(args) > 2 {
		targetDir = args[2]
	}
	if err := checkUnsafeDirectory(targetDir); err != nil {
		return err
	}

	branches, err := ctx.store.ListBranches(ctx.ctx, src.ID)
	if err != nil || len(branches) == 0 {
		return fmt.Errorf("resolve source default branch: %w", err)
	}

	privacy, err := resolvePrivacy(remixPrivate, remixPublic, remixUnlisted)
	if err != nil {
		return err
	}

	rules, err := loadRules(targetDir, ctx.cfg)
	if err != nil {
		return err
	}

	result, err := pkgcreate.Remix(ctx.ctx, ctx.store, pkgcreate.RemixParams{
		TargetDir:   targetDir,
		SrcValID:    src.ID,
		SrcBranchID: branches[0].ID,
		ValName:     newName,
		Privacy:     privacy,
		Description: remixDescription,
		Rules:       rules,
	})
	if err != nil {
		return fmt.Errorf("remix: %w", err)
	}

	if err := meta.SaveState(targetDir, meta.WorkingCopyState{
		Val:    meta.ValRef{ID: result.ValID},
		Branch: meta.BranchRef{ID: result.BranchID, Version: result.Version},
	}); err != nil {
		return fmt.Errorf("save working copy state: %w", err)
	}

	if !quiet {
		fmt.Printf("remixed %s into %s\n", src.Name, newName)
	}
	cliutil.PrintChanges(cmdStdout(), result.Changes, quiet)
	return nil
}
