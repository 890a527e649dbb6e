// Package publish copies session artifacts into a configured target
// repository and commits them. Every publish runs the secrets scan first;
// a single finding blocks the whole batch.
package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oronculzac/wrapup/internal/config"
	"github.com/oronculzac/wrapup/internal/detect"
	"github.com/oronculzac/wrapup/internal/git"
	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/secrets"
)

// Request describes one publish operation.
type Request struct {
	TargetRepo  string
	Files       []string
	ContentType detect.ContentType
	Description string
	Subdir      string
	SkipScan    bool
	DryRun      bool
	Push        bool
}

// Result records what a publish did (or would do, under dry-run).
type Result struct {
	Repo           string   `json:"repo"`
	RepoPath       string   `json:"repo_path"`
	FilesCommitted []string `json:"files_committed"`
	CommitMessage  string   `json:"commit_message"`
	CommitHash     string   `json:"commit_hash,omitempty"`
	Pushed         bool     `json:"pushed"`
	DryRun         bool     `json:"dry_run"`
}

// subdirFor maps a content type to its conventional folder inside the
// target repo. Callers can override with Request.Subdir.
func subdirFor(ct detect.ContentType) string {
	switch ct {
	case detect.ContentSkill:
		return "skills"
	case detect.ContentHomework:
		return "homework"
	case detect.ContentLearningLog, detect.ContentSideQuest:
		return "sessions"
	case detect.ContentWorkflow:
		return "workflows"
	}
	return ""
}

// CommitMessage builds a conventional commit subject for a content type.
func CommitMessage(ct detect.ContentType, description string, now time.Time) string {
	date := now.Format("2006-01-02")
	switch ct {
	case detect.ContentSkill:
		return "feat: Add " + orDefault(description, "new skill")
	case detect.ContentHomework:
		return "feat: Complete " + orDefault(description, "homework")
	case detect.ContentSideQuest, detect.ContentLearningLog:
		return fmt.Sprintf("docs: Session log %s - %s", date, orDefault(description, "learning session"))
	case detect.ContentWorkflow:
		return "feat: Add " + orDefault(description, "workflow")
	}
	return "chore: Update " + orDefault(description, "files")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Run performs one publish: resolve the target repo, gate on the secrets
// scan, copy files in, then add, commit, and optionally push.
func Run(ctx context.Context, cfg *config.Config, req Request, now time.Time) (*Result, error) {
	if len(req.Files) == 0 {
		return nil, output.NewUserError("no files to publish")
	}

	repoPath, ok := cfg.Repos[req.TargetRepo]
	if !ok || repoPath == "" {
		return nil, output.NewUserError(fmt.Sprintf("no local path configured for repo %q (run wrapup init)", req.TargetRepo))
	}
	if info, err := os.Stat(repoPath); err != nil || !info.IsDir() {
		return nil, output.NewUserError(fmt.Sprintf("repository path does not exist: %s", repoPath))
	}

	if !req.SkipScan {
		report := secrets.CheckFiles(req.Files)
		if !report.Safe {
			return nil, output.NewBlockedError(report.Summary())
		}
	}

	subdir := req.Subdir
	if subdir == "" {
		subdir = subdirFor(req.ContentType)
	}
	message := CommitMessage(req.ContentType, req.Description, now)

	result := &Result{
		Repo:          req.TargetRepo,
		RepoPath:      repoPath,
		CommitMessage: message,
		DryRun:        req.DryRun,
	}

	if req.DryRun {
		for _, f := range req.Files {
			result.FilesCommitted = append(result.FilesCommitted, filepath.Join(subdir, filepath.Base(f)))
		}
		return result, nil
	}

	copied, err := copyFiles(req.Files, repoPath, subdir)
	if err != nil {
		return nil, err
	}
	if len(copied) == 0 {
		return nil, output.NewSystemError("no files were copied to the repository")
	}
	result.FilesCommitted = copied

	if err := git.Add(ctx, repoPath, copied...); err != nil {
		return nil, err
	}
	if err := git.Commit(ctx, repoPath, message); err != nil {
		if strings.Contains(err.Error(), "nothing to commit") {
			return nil, output.NewUserError("nothing to commit: files may already be up to date")
		}
		return nil, err
	}

	hash, err := git.HeadShort(ctx, repoPath)
	if err == nil {
		result.CommitHash = hash
	}

	if req.Push {
		if err := git.Push(ctx, repoPath); err != nil {
			return result, output.NewSystemErrorWithCause("committed but push failed", err)
		}
		result.Pushed = true
	}

	return result, nil
}

// copyFiles copies each source file (or directory, recursively) into
// repoPath/subdir and returns the repo-relative paths written.
func copyFiles(sources []string, repoPath, subdir string) ([]string, error) {
	targetDir := repoPath
	if subdir != "" {
		targetDir = filepath.Join(repoPath, subdir)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create target directory", err)
	}

	var copied []string
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, output.NewUserError(fmt.Sprintf("file not found: %s", src))
		}

		if info.IsDir() {
			err = filepath.WalkDir(src, func(path string, d os.DirEntry, walkErr error) error {
				if walkErr != nil || d.IsDir() {
					return walkErr
				}
				rel, relErr := filepath.Rel(filepath.Dir(src), path)
				if relErr != nil {
					return relErr
				}
				dest := filepath.Join(targetDir, rel)
				if copyErr := copyFile(path, dest); copyErr != nil {
					return copyErr
				}
				repoRel, relErr := filepath.Rel(repoPath, dest)
				if relErr != nil {
					return relErr
				}
				copied = append(copied, repoRel)
				return nil
			})
			if err != nil {
				return nil, output.NewSystemErrorWithCause("failed to copy directory", err)
			}
			continue
		}

		dest := filepath.Join(targetDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			return nil, output.NewSystemErrorWithCause("failed to copy file", err)
		}
		repoRel, err := filepath.Rel(repoPath, dest)
		if err != nil {
			return nil, output.NewSystemErrorWithCause("failed to resolve path", err)
		}
		copied = append(copied, repoRel)
	}
	return copied, nil
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
