package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/organize"
	"github.com/oronculzac/wrapup/internal/output"
)

// newOrganizeCmd creates the organize command.
func newOrganizeCmd() *cobra.Command {
	var (
		mode       string
		execute    bool
		duplicates bool
	)
	cmd := &cobra.Command{
		Use:   "organize <path>",
		Short: "Sort a folder's files into category subfolders",
		Long: `Plan and apply file organization for a folder.

Files directly under the path are grouped by type, date, or size and
moved into matching subfolders. Without --execute the plan is only
previewed. Name collisions get a numeric suffix instead of overwriting.

Examples:
  wrapup organize ~/Downloads                   # Preview by-type plan
  wrapup organize ~/Downloads --execute         # Apply it
  wrapup organize ~/Downloads --mode by-date    # Group by YYYY-MM
  wrapup organize ~/Downloads --duplicates      # Report duplicate files`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, args[0], mode, execute, duplicates)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "by-type", "Grouping mode: by-type, by-date, or by-size")
	cmd.Flags().BoolVar(&execute, "execute", false, "Apply the plan instead of previewing")
	cmd.Flags().BoolVar(&duplicates, "duplicates", false, "Report duplicate files instead of organizing")
	return cmd
}

// runOrganize executes the organize command.
func runOrganize(cmd *cobra.Command, path, modeFlag string, execute, duplicates bool) error {
	printer := newPrinter(cmd)

	if duplicates {
		return runDuplicates(printer, path)
	}

	mode, err := organize.ParseMode(modeFlag)
	if err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return userErr
	}

	plan, err := organize.BuildPlan(path, mode)
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to plan organization", err)
		printer.Error(sysErr)
		return sysErr
	}

	if !execute {
		if printer.IsJSON() {
			return printer.WriteJSON(plan)
		}
		printPlan(printer, plan)
		printer.Println()
		printer.Println("Preview only. Re-run with --execute to apply.")
		return nil
	}

	moved, err := plan.Apply()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause(
			fmt.Sprintf("organization stopped after %d of %d moves", moved, len(plan.Moves)), err)
		printer.Error(sysErr)
		return sysErr
	}

	manifest, err := plan.SaveManifest(time.Now())
	if err != nil {
		printer.Warn("moves applied but manifest not saved: %v", err)
		manifest = ""
	}

	return printer.Success(map[string]any{
		"message":  fmt.Sprintf("Moved %d files", moved),
		"moved":    moved,
		"root":     plan.Root,
		"manifest": manifest,
	})
}

// runDuplicates reports content-identical files under path.
func runDuplicates(printer *output.Printer, path string) error {
	sets, err := organize.FindDuplicates(path)
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to scan for duplicates", err)
		printer.Error(sysErr)
		return sysErr
	}

	if printer.IsJSON() {
		return printer.WriteJSON(sets)
	}

	if len(sets) == 0 {
		printer.Println("No duplicate files found")
		return nil
	}
	printer.Println(fmt.Sprintf("Found %d sets of duplicates:", len(sets)))
	for _, s := range sets {
		printer.Section(s.Hash[:12])
		for _, p := range s.Paths {
			printer.Println("  " + p)
		}
	}
	return nil
}

// printPlan shows planned moves grouped by category, a few per group.
func printPlan(printer *output.Printer, plan *organize.Plan) {
	printer.Println(fmt.Sprintf("Would process %d files:", len(plan.Moves)))
	for _, cc := range plan.CategoryCounts() {
		printer.Section(fmt.Sprintf("%s/ (%d files)", cc.Category, cc.Count))
		shown := 0
		for _, m := range plan.Moves {
			if m.Category != cc.Category {
				continue
			}
			if shown < 3 {
				printer.Println("  " + filepath.Base(m.Source))
			}
			shown++
		}
		if shown > 3 {
			printer.Println(fmt.Sprintf("  ...and %d more", shown-3))
		}
	}
}
