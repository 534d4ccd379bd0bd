// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package cmd implements the vt CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
)

var (
	// appVersion is set by main.go.
	appVersion string

	// Global flags.
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "vt",
	Short: "Sync a local directory with a Val Town val",
	Long: `vt mirrors a local directory against a Val Town val over a typed file API,
with a git-shaped workflow: clone, status, pull, push, checkout, watch, create, remix.
` + cliutil.QuickStartHelp(`  # Clone a val and start editing
  vt clone username/my-val
  cd my-val

  # See what changed, then sync it
  vt status
  vt push

  # Watch the directory and push on every save
  vt watch`),
	Version:       appVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to rootCmd and runs it. Called once by
// main.main.
func Execute(version string) {
	appVersion = version
	rootCmd.Version = version

	setCommandGroups(rootCmd)
	applyUsageTemplateRecursive(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(exitCodeFor(err))
	}
}

func setCommandGroups(cmd *cobra.Command) {
	coreGroup := &cobra.Group{ID: "core", Title: cliutil.ColorYellowBold + "Core Commands" + cliutil.ColorReset}
	mgmtGroup := &cobra.Group{ID: "mgmt", Title: cliutil.ColorYellowBold + "Creation & Configuration" + cliutil.ColorReset}
	toolGroup := &cobra.Group{ID: "tool", Title: cliutil.ColorYellowBold + "Additional Tools" + cliutil.ColorReset}
	cmd.AddGroup(coreGroup, mgmtGroup, toolGroup)

	for _, c := range cmd.Commands() {
		if c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		switch c.Name() {
		case "clone", "status", "pull", "push", "checkout", "branch":
			c.GroupID = coreGroup.ID
		case "create", "remix", "config", "login", "logout":
			c.GroupID = mgmtGroup.ID
		default:
			c.GroupID = toolGroup.ID
		}
	}
}

// applyUsageTemplateRecursive sets the colorized usage template on every
// command and silences cobra's own usage/error printing on all of them,
// since cobra does not propagate SilenceUsage/SilenceErrors to children.
func applyUsageTemplateRecursive(cmd *cobra.Command) {
	cmd.SetUsageTemplate(usageTemplate)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	for _, c := range cmd.Commands() {
		applyUsageTemplateRecursive(c)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
	rootCmd.SetUsageTemplate(usageTemplate)
}

const usageTemplate = `{{if .Runnable}}` + cliutil.ColorGreenBold + `Usage:` + cliutil.ColorReset + `
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}` + cliutil.ColorGreenBold + `Usage:` + cliutil.ColorReset + `
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

` + cliutil.ColorGreenBold + `Examples:` + cliutil.ColorReset + `
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

` + cliutil.ColorMagentaBold + `Additional Commands:` + cliutil.ColorReset + `{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

` + cliutil.ColorGreenBold + `Flags:` + cliutil.ColorReset + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

` + cliutil.ColorGreenBold + `Global Flags:` + cliutil.ColorReset + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
