package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/config"
	"github.com/oronculzac/wrapup/internal/detect"
	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/publish"
)

// newPublishCmd creates the publish command.
func newPublishCmd() *cobra.Command {
	var (
		repo        string
		contentType string
		description string
		subdir      string
		skipScan    bool
		execute     bool
		push        bool
	)
	cmd := &cobra.Command{
		Use:   "publish <file>...",
		Short: "Copy files into a target repo and commit them",
		Long: `Publish session artifacts to one of the configured GitHub repos.

Files are scanned for secrets first; any finding blocks the whole batch
(exit code 3). The commit message follows conventional commits and is
derived from the content type. Publishing is a preview by default; pass
--execute to copy and commit, and --push to push afterwards.

Examples:
  wrapup publish notes/skill.md --repo primary-project-repo --type skill
  wrapup publish sessions/*.md --type learning_log --execute --push`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, args, repo, contentType, description, subdir, skipScan, execute, push)
		},
	}
	cmd.Flags().StringVar(&repo, "repo", config.RepoLearningLogs, "Target repo name")
	cmd.Flags().StringVar(&contentType, "type", "learning_log", "Content type: skill, homework, side_quest, learning_log, workflow")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description for the commit message")
	cmd.Flags().StringVar(&subdir, "subdir", "", "Subdirectory within the repo (default depends on type)")
	cmd.Flags().BoolVar(&skipScan, "skip-scan", false, "Skip the secrets scan (only when findings are confirmed false positives)")
	cmd.Flags().BoolVar(&execute, "execute", false, "Copy and commit instead of previewing")
	cmd.Flags().BoolVar(&push, "push", false, "Push to the remote after committing")
	return cmd
}

// runPublish executes the publish command.
func runPublish(cmd *cobra.Command, files []string, repo, contentType, description, subdir string, skipScan, execute, push bool) error {
	printer := newPrinter(cmd)

	if !config.IsKnownRepo(repo) {
		err := output.NewUserError(fmt.Sprintf("unknown repo %q (known: %v)", repo, config.KnownRepos))
		printer.Error(err)
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		printer.Error(err)
		return err
	}

	result, err := publish.Run(cmd.Context(), &cfg, publish.Request{
		TargetRepo:  repo,
		Files:       files,
		ContentType: detect.ContentType(contentType),
		Description: description,
		Subdir:      subdir,
		SkipScan:    skipScan,
		DryRun:      !execute,
		Push:        push,
	}, time.Now())
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	printPublishResult(printer, result)
	return nil
}

// printPublishResult shows what was (or would be) committed.
func printPublishResult(printer *output.Printer, result *publish.Result) {
	if result.DryRun {
		printer.Section("Publish Preview")
	} else {
		printer.Section("Publish Successful")
	}
	printer.KeyValue("Repository", result.Repo)
	printer.KeyValue("Path", result.RepoPath)
	printer.KeyValue("Message", result.CommitMessage)
	if result.CommitHash != "" {
		printer.KeyValue("Commit", result.CommitHash)
	}
	if result.Pushed {
		printer.KeyValue("Pushed", "yes")
	}

	printer.Section("Files")
	for i, f := range result.FilesCommitted {
		if i >= 10 {
			printer.Println(fmt.Sprintf("  ...and %d more", len(result.FilesCommitted)-10))
			break
		}
		printer.Println("  " + f)
	}

	if result.DryRun {
		printer.Println()
		printer.Println("Preview only. Re-run with --execute to commit.")
	}
}
