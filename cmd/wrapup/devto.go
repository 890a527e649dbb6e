package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oronculzac/wrapup/internal/devto"
	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/secrets"
)

// newDevtoCmd creates the devto command.
func newDevtoCmd() *cobra.Command {
	var (
		title  string
		tags   string
		series string
		live   bool
	)
	cmd := &cobra.Command{
		Use:   "devto <file.md>",
		Short: "Upload a markdown file to dev.to as a draft",
		Long: `Create a dev.to article from a markdown file.

Articles are uploaded unpublished so they can be reviewed on the site
first; pass --live to publish immediately. The file is scanned for
secrets before anything is sent. Requires DEVTO_API_KEY.

Examples:
  wrapup devto sessions/2026-08-24.md --title "Spark partitioning notes"
  wrapup devto post.md --tags "dataengineering,learninginpublic" --live`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevto(cmd, args[0], title, tags, series, live)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Article title (default: first heading or filename)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated article tags")
	cmd.Flags().StringVar(&series, "series", "", "Series name")
	cmd.Flags().BoolVar(&live, "live", false, "Publish immediately instead of saving a draft")
	return cmd
}

// runDevto executes the devto command.
func runDevto(cmd *cobra.Command, path, title, tags, series string, live bool) error {
	printer := newPrinter(cmd)

	body, err := os.ReadFile(path)
	if err != nil {
		userErr := output.NewUserError("cannot read " + path)
		printer.Error(userErr)
		return userErr
	}

	report := secrets.CheckFiles([]string{path})
	if !report.Safe {
		blocked := output.NewBlockedError(report.Summary())
		printer.Error(blocked)
		return blocked
	}

	cfg, err := loadConfig()
	if err != nil {
		printer.Error(err)
		return err
	}

	client, err := devto.New(cfg.DevTo.APIKey)
	if err != nil {
		printer.Error(err)
		return err
	}

	if title == "" {
		title = articleTitle(string(body), path)
	}

	result, err := client.CreateArticle(cmd.Context(), devto.Article{
		Title:        title,
		BodyMarkdown: string(body),
		Published:    live,
		Tags:         devto.ParseTags(tags),
		Series:       series,
	})
	if err != nil {
		printer.Error(err)
		return err
	}

	state := "draft saved"
	if live {
		state = "published"
	}
	return printer.Success(map[string]any{
		"message": fmt.Sprintf("Article %s: %s", state, result.URL),
		"id":      result.ID,
		"url":     result.URL,
	})
}

// articleTitle takes the first markdown heading, falling back to the
// filename without extension.
func articleTitle(body, path string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	base := path[strings.LastIndexByte(path, '/')+1:]
	return strings.TrimSuffix(base, ".md")
}
