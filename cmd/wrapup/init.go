package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/config"
)

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var (
		vaultPath  string
		primary    string
		coursework string
		logs       string
		force      bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the wrapup config file",
		Long: `Write a starter config file with detection defaults.

The config lives under the wrapup config directory (see 'wrapup status').
API keys are not stored in it: set LINEAR_API_KEY and DEVTO_API_KEY in the
environment or in a .env file instead.

Examples:
  wrapup init --vault ~/vault
  wrapup init --vault ~/vault --primary ~/code/personal-ai-os --logs ~/code/learning-logs`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, vaultPath, primary, coursework, logs, force)
		},
	}
	cmd.Flags().StringVar(&vaultPath, "vault", "", "Path to the notes vault")
	cmd.Flags().StringVar(&primary, "primary", "", "Local path of the primary project repo")
	cmd.Flags().StringVar(&coursework, "coursework", "", "Local path of the coursework repo")
	cmd.Flags().StringVar(&logs, "logs", "", "Local path of the learning logs repo")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, vaultPath, primary, coursework, logs string, force bool) error {
	printer := newPrinter(cmd)

	cfg := config.Default()
	cfg.VaultPath = vaultPath
	if primary != "" {
		cfg.Repos[config.RepoPrimary] = primary
	}
	if coursework != "" {
		cfg.Repos[config.RepoCoursework] = coursework
	}
	if logs != "" {
		cfg.Repos[config.RepoLearningLogs] = logs
	}

	path := config.Path()
	if force {
		_ = os.Remove(path)
	}
	if err := config.Write(cfg, path); err != nil {
		printer.Error(err)
		return err
	}

	// Seed the vault folders that wrap and weekly write into.
	if vaultPath != "" {
		if info, err := os.Stat(vaultPath); err == nil && info.IsDir() {
			for _, folder := range []string{"Sessions", "Social", "Weekly"} {
				_ = os.MkdirAll(filepath.Join(vaultPath, folder), 0o755)
			}
		}
	}

	return printer.Success(map[string]any{
		"message":     "Config written to " + path,
		"config_path": path,
	})
}
