package main

import (
	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/secrets"
)

// newScanCmd creates the scan command.
func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Scan files for secrets before publishing",
		Long: `Scan files for API keys, passwords, and other sensitive content.

The same scan gates every publish; this command runs it standalone.
Exits with code 3 when anything is found, so it composes in scripts:

  wrapup scan notes/*.md && wrapup publish notes/*.md --execute`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScan,
	}
	return cmd
}

// runScan executes the scan command.
func runScan(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	report := secrets.CheckFiles(args)

	if printer.IsJSON() {
		if err := printer.WriteJSON(report); err != nil {
			return err
		}
		if !report.Safe {
			return output.NewBlockedError("secrets detected")
		}
		return nil
	}

	printer.Println(report.Summary())
	if !report.Safe {
		return output.NewBlockedError("secrets detected")
	}
	return nil
}
