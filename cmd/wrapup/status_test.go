package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// chdir switches the working directory for one test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
}

// initGitRepo creates a temp git repository with one commit and returns its
// path. Skips the test if git is not installed.
func initGitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.CommandContext(context.Background(), "git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	run("commit", "--allow-empty", "-m", "initial commit")
	return dir
}

// sandboxConfig isolates config, env keys, and the run log for one test.
func sandboxConfig(t *testing.T) string {
	t.Helper()
	confDir := t.TempDir()
	t.Setenv("WRAPUP_CONFIG_HOME", confDir)
	t.Setenv("WRAPUP_VAULT_PATH", "")
	t.Setenv("LINEAR_API_KEY", "")
	t.Setenv("DEVTO_API_KEY", "")
	return confDir
}

func TestStatusCommand_OutsideRepo(t *testing.T) {
	sandboxConfig(t)
	chdir(t, t.TempDir())

	out, err := execute(t, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "Git Repo: no") {
		t.Errorf("output missing repo state:\n%s", out)
	}
	if strings.Contains(out, "Branch:") {
		t.Errorf("branch shown outside a repo:\n%s", out)
	}
}

func TestStatusCommand_InRepo(t *testing.T) {
	sandboxConfig(t)
	repo := initGitRepo(t)
	chdir(t, repo)

	out, err := execute(t, "status", "--json")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}

	var result struct {
		InRepo    bool   `json:"in_repo"`
		RepoRoot  string `json:"repo_root"`
		Branch    string `json:"branch"`
		RemoteURL string `json:"remote_url"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if !result.InRepo {
		t.Error("in_repo = false inside a git repo")
	}
	if result.RepoRoot == "" {
		t.Error("repo_root empty inside a git repo")
	}
	if result.Branch == "" {
		t.Error("branch empty inside a git repo")
	}
	if result.RemoteURL != "" {
		t.Errorf("remote_url = %q for a repo with no remote", result.RemoteURL)
	}
}

func TestStatusCommand_Human(t *testing.T) {
	sandboxConfig(t)
	repo := initGitRepo(t)
	chdir(t, repo)

	out, err := execute(t, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, want := range []string{"Configuration", "Working Tree", "Git Repo: yes", "Branch:", "Runs (last 7 days)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
