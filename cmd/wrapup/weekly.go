package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/vault"
	"github.com/oronculzac/wrapup/internal/weekly"
)

// newWeeklyCmd creates the weekly command.
func newWeeklyCmd() *cobra.Command {
	var (
		days int
		save bool
	)
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Aggregate recent session notes into a weekly review",
		Long: `Read the vault's session notes from the past week and build a summary.

The summary includes session, file, and commit totals, highlights, and
draft social posts. With --save it is written to the vault's Weekly
folder; otherwise it prints to stdout.

Examples:
  wrapup weekly              # Print this week's summary
  wrapup weekly --days 14    # Cover two weeks
  wrapup weekly --save       # Also write it to the vault`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWeekly(cmd, days, save)
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "How many days of session notes to include")
	cmd.Flags().BoolVar(&save, "save", false, "Write the summary to the vault's Weekly folder")
	return cmd
}

// runWeekly executes the weekly command.
func runWeekly(cmd *cobra.Command, days int, save bool) error {
	printer := newPrinter(cmd)
	now := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		printer.Error(err)
		return err
	}

	v, err := vault.New(cfg.VaultPath)
	if err != nil {
		userErr := output.NewUserError("no vault configured: " + err.Error())
		printer.Error(userErr)
		return userErr
	}

	summary, err := weekly.Generate(v, days, now)
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to generate weekly summary", err)
		printer.Error(sysErr)
		return sysErr
	}

	var savedPath string
	if save {
		title := "weekly-" + summary.WeekEnd
		savedPath, err = v.WriteNote("Weekly", title, summary.Markdown(now), nil)
		if err != nil {
			sysErr := output.NewSystemErrorWithCause("failed to save weekly summary", err)
			printer.Error(sysErr)
			return sysErr
		}
	}

	if printer.IsJSON() {
		data := map[string]any{"summary": summary}
		if savedPath != "" {
			data["saved_to"] = savedPath
		}
		return printer.WriteJSON(data)
	}

	printer.Print("%s", summary.Markdown(now))
	if savedPath != "" {
		printer.Println()
		printer.KeyValue("Saved", savedPath)
	}
	return nil
}
