// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
	vtsync "github.com/val-town/vt/pkg/sync"
	"github.com/val-town/vt/pkg/vterrors"
	"github.com/val-town/vt/pkg/watch"
)

var (
	watchDebounceMs  int
	watchNoCompanion bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the working copy and push on every change",
	Long: cliutil.QuickStartHelp(`  # Push automatically as files change
  vt watch

  # Wait longer after the last edit before pushing
  vt watch -d 2000`),
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVarP(&watchDebounceMs, "debounce", "d", 0, "milliseconds to wait after the last edit before pushing")
	watchCmd.Flags().BoolVar(&watchNoCompanion, "no-companion", false, "don't open a browser tab alongside the watch session")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, err := newCmdContext()
	if err != nil {
		return err
	}
	runCtx, stop := signal.NotifyContext(ctx.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, err := workingCopyRoot()
	if err != nil {
		return err
	}
	state, err := loadWorkingCopy(root)
	if err != nil {
		return err
	}
	rules, err := loadRules(root, ctx.cfg)
	if err != nil {
		return err
	}

	opts := watch.Options{
		Rules:  rules,
		Logger: ctx.logger,
	}
	if watchDebounceMs > 0 {
		opts.DebounceDelay = time.Duration(watchDebounceMs) * time.Millisecond
	}

	if !watchNoCompanion {
		val, err := ctx.store.RetrieveVal(ctx.ctx, state.Val.ID)
		if err == nil {
			opts.BrowseURL = valBrowseURL(val.Author, val.Name)
			opts.BrowseHook = func(url string) {
				if err := openBrowser(url); err != nil {
					ctx.logger.Debug("could not open browser companion: %s", err)
				}
			}
		}
	}

	push := func(pushCtx context.Context) error {
		_, pushErr := vtsync.Push(pushCtx, ctx.store, vtsync.PushParams{
			TargetDir: root,
			ValID:     state.Val.ID,
			BranchID:  state.Branch.ID,
			Rules:     rules,
		})
		return pushErr
	}

	w, err := watch.New(root, push, opts)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	if !quiet {
		fmt.Printf("watching %s, press ctrl-c to stop\n", root)
	}

	if err := w.Start(runCtx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Stop()

	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if !quiet {
				fmt.Printf("pushed at %s\n", ev.Timestamp.Format(time.Kitchen))
			}
		case werr, ok := <-w.Errors():
			if !ok {
				return nil
			}
			var nf *vterrors.NotFound
			if errors.As(werr, &nf) {
				continue
			}
			ctx.logger.Error("%s", werr)
		case <-runCtx.Done():
			return nil
		}
	}
}
