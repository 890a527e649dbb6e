package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/config"
	"github.com/oronculzac/wrapup/internal/git"
	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/runlog"
)

// statusResult holds the data for status output.
type statusResult struct {
	ConfigPath   string            `json:"config_path"`
	ConfigExists bool              `json:"config_exists"`
	VaultPath    string            `json:"vault_path"`
	VaultOK      bool              `json:"vault_ok"`
	LinearKey    bool              `json:"linear_key"`
	DevToKey     bool              `json:"devto_key"`
	InRepo       bool              `json:"in_repo"`
	RepoRoot     string            `json:"repo_root,omitempty"`
	Branch       string            `json:"branch,omitempty"`
	RemoteURL    string            `json:"remote_url,omitempty"`
	Repos        map[string]string `json:"repos,omitempty"`
	Stats        runlog.Stats      `json:"stats"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration and recent run activity",
		Long: `Show the current wrapup configuration state and run statistics.

Displays the config file location, vault and API key status, configured
target repos, and aggregated stats from the run log.

Examples:
  wrapup status            # Human-readable status
  wrapup status --days 30  # Stats over the last 30 days
  wrapup status --json     # Structured output for scripting`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, days)
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "How many days of run history to summarize")
	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, days int) error {
	printer := newPrinter(cmd)

	cfg, err := loadConfig()
	if err != nil {
		printer.Error(err)
		return err
	}

	result := gatherStatus(cmd.Context(), cfg, days)

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	printHumanStatus(printer, result)
	return nil
}

// gatherStatus collects configuration, working-tree, and run-log state.
// Git lookups are best-effort; outside a repository the fields stay empty.
func gatherStatus(ctx context.Context, cfg config.Config, days int) *statusResult {
	path := config.Path()
	_, statErr := os.Stat(path)

	vaultOK := false
	if cfg.VaultPath != "" {
		if info, err := os.Stat(cfg.VaultPath); err == nil && info.IsDir() {
			vaultOK = true
		}
	}

	result := &statusResult{
		ConfigPath:   path,
		ConfigExists: statErr == nil,
		VaultPath:    cfg.VaultPath,
		VaultOK:      vaultOK,
		LinearKey:    cfg.Linear.APIKey != "",
		DevToKey:     cfg.DevTo.APIKey != "",
		Repos:        cfg.Repos,
	}

	if git.IsRepo() {
		result.InRepo = true
		result.RepoRoot, _ = git.RepoRoot()
		result.Branch, _ = git.CurrentBranch()
		result.RemoteURL = git.RemoteURL(ctx)
	}

	entries, _ := runlog.Read("", days, time.Now())
	result.Stats = runlog.Summarize(entries, days)
	return result
}

// printHumanStatus outputs status in human-readable format.
func printHumanStatus(printer *output.Printer, status *statusResult) {
	printer.Section("Configuration")
	printer.KeyValue("Config", status.ConfigPath)
	printer.KeyValue("Exists", formatBool(status.ConfigExists))
	printer.KeyValue("Vault", status.VaultPath)
	printer.KeyValue("Vault OK", formatBool(status.VaultOK))
	printer.KeyValue("Linear API Key", formatBool(status.LinearKey))
	printer.KeyValue("Dev.to API Key", formatBool(status.DevToKey))

	printer.Section("Working Tree")
	printer.KeyValue("Git Repo", formatBool(status.InRepo))
	if status.InRepo {
		printer.KeyValue("Root", status.RepoRoot)
		printer.KeyValue("Branch", status.Branch)
		if status.RemoteURL != "" {
			printer.KeyValue("Remote", status.RemoteURL)
		}
	}

	if len(status.Repos) > 0 {
		printer.Section("Target Repos")
		for _, name := range config.KnownRepos {
			if path, ok := status.Repos[name]; ok {
				printer.KeyValue(name, path)
			}
		}
	}

	printer.Section(fmt.Sprintf("Runs (last %d days)", status.Stats.Days))
	printer.KeyValue("Total", strconv.Itoa(status.Stats.TotalRuns))
	printer.KeyValue("Published", strconv.Itoa(status.Stats.Published))
	printer.KeyValue("Skipped", strconv.Itoa(status.Stats.Skipped))
	for t, n := range status.Stats.ByType {
		printer.KeyValue("  "+t, strconv.Itoa(n))
	}
}

// formatBool returns a human-readable boolean string.
func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
