package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := New("/nonexistent/vault/path"); err == nil {
		t.Error("expected error for missing directory")
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(file); err == nil {
		t.Error("expected error for non-directory path")
	}
}

func TestWriteNote_WithFrontmatter(t *testing.T) {
	v := newTestVault(t)

	path, err := v.WriteNote("Sessions", "2026-08-24_1504", "# Session\n\nBody here.\n", map[string]any{
		"type": "session-log",
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "---\n") {
		t.Error("note missing frontmatter block")
	}
	if !strings.Contains(content, "type: session-log") {
		t.Errorf("frontmatter missing metadata:\n%s", content)
	}
	if !strings.Contains(content, "Body here.") {
		t.Error("note missing body")
	}
}

func TestWriteNote_NeverOverwrites(t *testing.T) {
	v := newTestVault(t)

	first, err := v.WriteNote("Sessions", "daily", "first", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := v.WriteNote("Sessions", "daily", "second", nil)
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Fatal("second write reused the same path")
	}
	if filepath.Base(second) != "daily-2.md" {
		t.Errorf("second note = %q, want daily-2.md", filepath.Base(second))
	}
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("original note was modified: %q", data)
	}
}

func TestReadNote_Roundtrip(t *testing.T) {
	v := newTestVault(t)

	path, err := v.WriteNote("Sessions", "note", "The content.", map[string]any{
		"date": "2026-08-24",
		"kind": "test",
	})
	if err != nil {
		t.Fatal(err)
	}

	note, err := v.ReadNote(path)
	if err != nil {
		t.Fatal(err)
	}
	if note.Title != "note" {
		t.Errorf("Title = %q", note.Title)
	}
	if note.Content != "The content." {
		t.Errorf("Content = %q", note.Content)
	}
	if note.Frontmatter["date"] != "2026-08-24" {
		t.Errorf("Frontmatter = %v", note.Frontmatter)
	}
}

func TestReadNote_NoFrontmatter(t *testing.T) {
	v := newTestVault(t)
	path := filepath.Join(v.Root(), "plain.md")
	if err := os.WriteFile(path, []byte("just text"), 0o644); err != nil {
		t.Fatal(err)
	}

	note, err := v.ReadNote(path)
	if err != nil {
		t.Fatal(err)
	}
	if note.Content != "just text" {
		t.Errorf("Content = %q", note.Content)
	}
	if note.Frontmatter != nil {
		t.Errorf("Frontmatter = %v, want nil", note.Frontmatter)
	}
}

func TestListNotes(t *testing.T) {
	v := newTestVault(t)

	if _, err := v.WriteNote("Sessions", "b-note", "x", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := v.WriteNote("Sessions", "a-note", "x", nil); err != nil {
		t.Fatal(err)
	}

	paths, err := v.ListNotes("Sessions")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("len = %d, want 2", len(paths))
	}
	if filepath.Base(paths[0]) != "a-note.md" {
		t.Errorf("paths not sorted: %v", paths)
	}

	missing, err := v.ListNotes("NoSuchFolder")
	if err != nil {
		t.Fatalf("missing folder should not error: %v", err)
	}
	if missing != nil {
		t.Errorf("missing folder = %v, want nil", missing)
	}
}

func TestSearchNotes(t *testing.T) {
	v := newTestVault(t)

	if _, err := v.WriteNote("Sessions", "spark-day", "Learned about Spark partitioning.", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := v.WriteNote("Sessions", "docker-day", "Containers all day.", nil); err != nil {
		t.Fatal(err)
	}

	hits, err := v.SearchNotes("spark")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || !strings.Contains(hits[0], "spark-day") {
		t.Errorf("SearchNotes(spark) = %v", hits)
	}
}
