package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/config"
	"github.com/oronculzac/wrapup/internal/detect"
	"github.com/oronculzac/wrapup/internal/linear"
	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/runlog"
	"github.com/oronculzac/wrapup/internal/session"
	"github.com/oronculzac/wrapup/internal/synth"
	"github.com/oronculzac/wrapup/internal/vault"
)

// wrapResult is the JSON shape of a completed wrap run.
type wrapResult struct {
	Context    *session.Context `json:"context"`
	Decision   detect.Decision  `json:"decision"`
	Content    *synth.Content   `json:"content,omitempty"`
	NotePath   string           `json:"note_path,omitempty"`
	DraftsPath string           `json:"drafts_path,omitempty"`
	DryRun     bool             `json:"dry_run"`
}

// newWrapCmd creates the wrap command.
func newWrapCmd() *cobra.Command {
	var (
		dryRun       bool
		forcePublish bool
		targetRepo   string
		sinceHours   int
		outputPath   string
	)
	cmd := &cobra.Command{
		Use:   "wrap",
		Short: "Wrap up the current coding session",
		Long: `Collect session context, decide publish-worthiness, and synthesize output.

The pipeline runs three stages:
  1. Collect git activity (diffstat, recent commits) and active tickets
  2. Classify the session (skill, homework, side quest, learning log)
  3. Synthesize a session note and social drafts

The session note is written to the vault's Sessions folder and the drafts
to the Social folder. Use --dry-run to preview without writing.

Examples:
  wrapup wrap                      # Full pipeline, write to vault
  wrapup wrap --dry-run            # Preview the decision and content
  wrapup wrap --force-publish --target-repo learning-logs-repo
  wrapup wrap --since 4            # Only consider the last 4 hours
  wrapup wrap --json               # Structured output for scripting`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWrap(cmd, dryRun, forcePublish, targetRepo, sinceHours, outputPath)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without writing files")
	cmd.Flags().BoolVar(&forcePublish, "force-publish", false, "Mark the session publish-worthy regardless of criteria")
	cmd.Flags().StringVar(&targetRepo, "target-repo", "", "Target repo for --force-publish (default learning-logs-repo)")
	cmd.Flags().IntVar(&sinceHours, "since", 24, "How many hours of history to consider")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the session note to this path instead of the vault")
	return cmd
}

// runWrap executes the wrap pipeline.
func runWrap(cmd *cobra.Command, dryRun, forcePublish bool, targetRepo string, sinceHours int, outputPath string) error {
	printer := newPrinter(cmd)
	ctx := cmd.Context()
	now := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		printer.Error(err)
		return err
	}

	printer.Stderr("Collecting session context...\n")
	sc := collectSession(ctx, cfg, sinceHours)
	sc.ForcePublish = forcePublish
	if forcePublish {
		sc.ForceTargetRepo = targetRepo
		if sc.ForceTargetRepo == "" {
			sc.ForceTargetRepo = config.RepoLearningLogs
		}
	}

	decision := detect.Analyze(sc, detect.OptionsFromConfig(cfg.Detect))

	content, err := synth.Synthesize(sc, decision, now)
	if err != nil {
		printer.Error(err)
		return err
	}

	result := &wrapResult{
		Context:  sc,
		Decision: decision,
		Content:  content,
		DryRun:   dryRun,
	}

	// Dry runs write nothing, including the run log, so previews never
	// show up in status stats.
	if !dryRun {
		notePath, draftsPath, writeErr := writeSessionNotes(cfg, sc, decision, content, outputPath, now)
		if writeErr != nil {
			printer.Error(writeErr)
			return writeErr
		}
		result.NotePath = notePath
		result.DraftsPath = draftsPath

		recordRun(sc, decision, now)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	printWrapSummary(printer, result)
	return nil
}

// collectSession builds the session context, wiring in Linear when an API
// key is configured. A missing key just means no ticket data.
func collectSession(ctx context.Context, cfg config.Config, sinceHours int) *session.Context {
	var ticketSrc session.TicketSource
	if cfg.Linear.APIKey != "" {
		if client, err := linear.New(cfg.Linear.APIKey); err == nil {
			ticketSrc = client
		}
	}
	return session.Collect(ctx, session.GitCLI{}, ticketSrc, sinceHours)
}

// writeSessionNotes writes the session note and social drafts. With an
// explicit output path the note goes there and drafts are skipped; without
// a vault the note lands in the working directory.
func writeSessionNotes(cfg config.Config, sc *session.Context, decision detect.Decision, content *synth.Content, outputPath string, now time.Time) (notePath, draftsPath string, err error) {
	noteTitle := now.Format("2006-01-02_1504")
	noteBody := sessionNote(sc, decision, content, now)

	if outputPath != "" {
		if mkErr := os.MkdirAll(filepath.Dir(outputPath), 0o755); mkErr != nil {
			return "", "", output.NewSystemErrorWithCause("failed to create output directory", mkErr)
		}
		if wErr := os.WriteFile(outputPath, []byte(noteBody), 0o644); wErr != nil {
			return "", "", output.NewSystemErrorWithCause("failed to write session note", wErr)
		}
		return outputPath, "", nil
	}

	v, vErr := vault.New(cfg.VaultPath)
	if vErr != nil {
		// No vault configured: fall back to a local file so the run
		// still produces an artifact.
		fallback := "session_" + noteTitle + ".md"
		if wErr := os.WriteFile(fallback, []byte(noteBody), 0o644); wErr != nil {
			return "", "", output.NewSystemErrorWithCause("failed to write session note", wErr)
		}
		return fallback, "", nil
	}

	notePath, err = v.WriteNote("Sessions", noteTitle, noteBody, nil)
	if err != nil {
		return "", "", output.NewSystemErrorWithCause("failed to write session note", err)
	}

	drafts := socialDrafts(content, now)
	draftsPath, err = v.WriteNote("Social", noteTitle+"_drafts", drafts, map[string]any{
		"date": now.Format("2006-01-02"),
		"type": "social-drafts",
	})
	if err != nil {
		return "", "", output.NewSystemErrorWithCause("failed to write social drafts", err)
	}
	return notePath, draftsPath, nil
}

// sessionNote renders the vault note for one session.
func sessionNote(sc *session.Context, decision detect.Decision, content *synth.Content, now time.Time) string {
	status := "private"
	if decision.ShouldPublish {
		status = "pending"
	}
	repo := decision.TargetRepo
	if repo == "" {
		repo = "none"
	}

	var tickets []string
	for _, t := range sc.Tickets {
		tickets = append(tickets, t.Identifier)
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "date: %s\n", now.Format("2006-01-02"))
	b.WriteString("type: session-log\n")
	fmt.Fprintf(&b, "publish_status: %s\n", status)
	fmt.Fprintf(&b, "target_repo: %s\n", repo)
	if len(tickets) > 0 {
		fmt.Fprintf(&b, "linear_tickets: [%s]\n", strings.Join(tickets, ", "))
	}
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# Session Log: %s\n\n", now.Format("2006-01-02"))
	b.WriteString(content.CoreWorkLog)
	b.WriteString("\n\n## Narrative\n\n")
	b.WriteString(content.Narrative)
	b.WriteString("\n\n## Publish Decision\n\n")
	fmt.Fprintf(&b, "%s (confidence %.2f)\n", decision.Reason, decision.Confidence)
	return b.String()
}

// socialDrafts renders the companion drafts note.
func socialDrafts(content *synth.Content, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Social Drafts: %s\n\n", now.Format("2006-01-02"))
	b.WriteString("## Twitter\n\n")
	b.WriteString(content.TwitterDraft)
	b.WriteString("\n\n## LinkedIn\n\n")
	b.WriteString(content.LinkedInDraft)
	b.WriteString("\n\n## Dev.to\n\n")
	b.WriteString(content.DevToDraft)
	b.WriteString("\n")
	return b.String()
}

// recordRun appends this run to the daily run log. Logging failures never
// fail the command.
func recordRun(sc *session.Context, decision detect.Decision, now time.Time) {
	logger, err := runlog.New("", now)
	if err != nil {
		return
	}
	defer func() { _ = logger.Close() }()
	logger.Record(runlog.Entry{
		RunID:       runlog.NewRunID(),
		Command:     "wrap",
		Published:   decision.ShouldPublish,
		ContentType: string(decision.ContentType),
		TargetRepo:  decision.TargetRepo,
		Reason:      decision.Reason,
		Confidence:  decision.Confidence,
		FileCount:   sc.FileCount(),
		DurationMS:  time.Since(now).Milliseconds(),
	})
}

// printWrapSummary outputs a human-readable session summary.
func printWrapSummary(printer *output.Printer, result *wrapResult) {
	sc := result.Context

	printer.Section("Session Summary")
	printer.KeyValue("Files Modified", fmt.Sprintf("%d", sc.FileCount()))
	for i, f := range sc.ModifiedFiles {
		if i >= 5 {
			printer.Println(fmt.Sprintf("  ...and %d more", sc.FileCount()-5))
			break
		}
		printer.Println("  " + f)
	}

	if len(sc.CommitMessages) > 0 {
		printer.Section("Recent Commits")
		for i, c := range sc.CommitMessages {
			if i >= 3 {
				break
			}
			printer.Println("  " + c)
		}
	}

	if len(sc.Tickets) > 0 {
		printer.Section("Tickets")
		for i, t := range sc.Tickets {
			if i >= 3 {
				break
			}
			printer.Println(fmt.Sprintf("  [%s] %s: %s", t.State, t.Identifier, t.Title))
		}
	}

	printer.Section("Publish Decision")
	verdict := "not publish-worthy"
	if result.Decision.ShouldPublish {
		verdict = fmt.Sprintf("publish to %s as %s", result.Decision.TargetRepo, result.Decision.ContentType)
	}
	printer.KeyValue("Verdict", verdict)
	printer.KeyValue("Reason", result.Decision.Reason)
	printer.KeyValue("Confidence", fmt.Sprintf("%.2f", result.Decision.Confidence))

	if result.DryRun {
		printer.Println()
		printer.Println("Dry run: no files written")
		return
	}
	if result.NotePath != "" {
		printer.Println()
		printer.KeyValue("Session Note", result.NotePath)
	}
	if result.DraftsPath != "" {
		printer.KeyValue("Social Drafts", result.DraftsPath)
	}
	if result.Decision.ShouldPublish {
		printer.Println()
		printer.Println("This session is publish-worthy. Next: review and run 'wrapup publish'.")
	}
}
