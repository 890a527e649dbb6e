// Package main provides the entry point for the wrapup CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/config"
	"github.com/oronculzac/wrapup/internal/envfile"
	"github.com/oronculzac/wrapup/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// newPrinter builds the printer every command uses for its output.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), output.IsTTY(cmd.OutOrStdout())).
		WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the wrapup CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wrapup",
		Short: "Wrap up coding sessions into logs, decisions, and drafts",
		Long: `Wrapup turns the end of a coding session into durable artifacts.

It collects what happened (git diffstat, recent commits, active tickets),
decides whether the session is worth publishing and where, and synthesizes
a work log plus social drafts from that context:
  - Session notes land in your vault's Sessions folder
  - Publish-worthy work routes to the right GitHub repo
  - Every publish is gated by a secrets scan

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'wrapup --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Load .env.local (then .env) for API keys that can't be exported to env.
	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		loadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local   (per-repo override, gitignored)
//  2. $CWD/.env         (per-repo)
//  3. ~/.config/wrapup/env (global fallback)
func loadEnvFiles() {
	paths := []string{".env.local", ".env"}
	if dir := config.Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "env"))
	}
	envfile.LoadAll(paths...)
}

// loadConfig loads the config file, falling back to defaults when absent.
func loadConfig() (config.Config, error) {
	return config.Load(config.Path())
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "share", Title: "Sharing Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "tools", Title: "Tool Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	// Core commands: wrap, status
	addGroupedCommand(cmd, newWrapCmd(), "core")
	addGroupedCommand(cmd, newStatusCmd(), "core")

	// Sharing commands: publish, weekly, devto
	addGroupedCommand(cmd, newPublishCmd(), "share")
	addGroupedCommand(cmd, newWeeklyCmd(), "share")
	addGroupedCommand(cmd, newDevtoCmd(), "share")

	// Tool commands: tickets, scan, organize
	addGroupedCommand(cmd, newTicketsCmd(), "tools")
	addGroupedCommand(cmd, newScanCmd(), "tools")
	addGroupedCommand(cmd, newOrganizeCmd(), "tools")

	// Admin commands: init
	addGroupedCommand(cmd, newInitCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
