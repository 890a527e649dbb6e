// Package git provides Git operations via exec for the wrapup CLI.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/oronculzac/wrapup/internal/output"
)

// ErrNotRepo reports that the working directory is not a git repository.
// The session collector records it as an explicit error marker instead of
// failing, so the classifier can short-circuit to a no-publish decision.
var ErrNotRepo = errors.New("not a git repository")

// Run executes a git command with the given arguments.
// It captures stdout and returns it as a trimmed string.
// Returns an *output.ExitError on failure with appropriate exit code.
func Run(args ...string) (string, error) {
	return RunContext(context.Background(), "", args...)
}

// RunContext executes a git command with the given context and arguments.
// If dir is non-empty, the command runs in that directory.
// It captures stdout and returns it as a trimmed string.
// Returns ErrNotRepo (wrapped) when git reports the directory is not a
// repository, an *output.ExitError otherwise.
func RunContext(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if git is not found
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		if strings.Contains(errMsg, "not a git repository") {
			return "", fmt.Errorf("%w: %s", ErrNotRepo, errMsg)
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsRepo checks if the current directory is inside a git repository.
func IsRepo() bool {
	_, err := Run("rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the root directory of the current git repository.
// Returns an error if not in a git repository.
func RepoRoot() (string, error) {
	root, err := Run("rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return root, nil
}

// CurrentBranch returns the name of the current branch.
// Returns an error if not in a git repository or HEAD is detached.
func CurrentBranch() (string, error) {
	branch, err := Run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return branch, nil
}

// DiffStat returns the output of `git diff --stat` for the working tree.
func DiffStat(ctx context.Context) (string, error) {
	return RunContext(ctx, "", "diff", "--stat")
}

// RecentCommits returns oneline commit subjects from the last sinceHours
// hours, most recent first.
func RecentCommits(ctx context.Context, sinceHours int) (string, error) {
	since := fmt.Sprintf("--since=%d.hours", sinceHours)
	return RunContext(ctx, "", "log", since, "--oneline")
}

// RemoteURL returns the fetch URL of the origin remote, or "" if unset.
func RemoteURL(ctx context.Context) string {
	url, err := RunContext(ctx, "", "remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	return url
}

// StatusPorcelain returns `git status --porcelain` output for dir.
func StatusPorcelain(ctx context.Context, dir string) (string, error) {
	return RunContext(ctx, dir, "status", "--porcelain")
}

// HasUncommittedChanges returns true if dir has staged or unstaged changes.
func HasUncommittedChanges(ctx context.Context, dir string) bool {
	out, err := StatusPorcelain(ctx, dir)
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

// Add stages the given paths in dir.
func Add(ctx context.Context, dir string, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	_, err := RunContext(ctx, dir, args...)
	return err
}

// HeadShort returns the abbreviated hash of HEAD in dir.
func HeadShort(ctx context.Context, dir string) (string, error) {
	return RunContext(ctx, dir, "rev-parse", "--short", "HEAD")
}

// Commit creates a commit in dir with the given message.
func Commit(ctx context.Context, dir, message string) error {
	_, err := RunContext(ctx, dir, "commit", "-m", message)
	return err
}

// Push pushes the current branch of dir to its upstream.
func Push(ctx context.Context, dir string) error {
	_, err := RunContext(ctx, dir, "push")
	return err
}
