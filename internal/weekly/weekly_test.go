package weekly

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oronculzac/wrapup/internal/vault"
)

var now = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func newVaultWithSessions(t *testing.T, notes map[string]string) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "Sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range notes {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	v, err := vault.New(root)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestGenerate_EmptyVault(t *testing.T) {
	v := newVaultWithSessions(t, nil)

	s, err := Generate(v, 7, now)
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalSessions != 0 {
		t.Errorf("TotalSessions = %d, want 0", s.TotalSessions)
	}
	if len(s.Highlights) != 1 || s.Highlights[0] != "No sessions logged this week." {
		t.Errorf("Highlights = %v", s.Highlights)
	}
	if s.WeekStart != "2026-08-24" || s.WeekEnd != "2026-08-24" {
		t.Errorf("week bounds = %s..%s", s.WeekStart, s.WeekEnd)
	}
}

func TestGenerate_AggregatesRecentSessions(t *testing.T) {
	v := newVaultWithSessions(t, map[string]string{
		// Two recent sessions and one too old to count.
		"2026-08-20_0900.md": "Worked on `ingest/extract.py` and `ingest/load.py`.\n\na1b2c3d feat: extract\n",
		"2026-08-23_1800.md": "Touched `notes.md` only.\n\n## Side Quest\n\nExplored graph rendering.\n",
		"2026-07-01_1000.md": "Ancient session with `old.py`.\n",
		"not-a-session.txt":  "ignored",
	})

	s, err := Generate(v, 7, now)
	if err != nil {
		t.Fatal(err)
	}

	if s.TotalSessions != 2 {
		t.Fatalf("TotalSessions = %d, want 2", s.TotalSessions)
	}
	if s.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", s.TotalFiles)
	}
	if s.TotalCommits != 1 {
		t.Errorf("TotalCommits = %d, want 1", s.TotalCommits)
	}
	if s.WeekStart != "2026-08-20" || s.WeekEnd != "2026-08-23" {
		t.Errorf("week bounds = %s..%s", s.WeekStart, s.WeekEnd)
	}
	if len(s.SideQuests) != 1 || s.SideQuests[0] != "2026-08-23" {
		t.Errorf("SideQuests = %v", s.SideQuests)
	}
	if s.LinkedInPost == "" || s.TwitterThread == "" {
		t.Error("social drafts missing")
	}
}

func TestGenerate_NoSideQuestMarker(t *testing.T) {
	v := newVaultWithSessions(t, map[string]string{
		"2026-08-23_1800.md": "## Side Quest\n\nNo side quests today.\n",
	})
	s, err := Generate(v, 7, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.SideQuests) != 0 {
		t.Errorf("SideQuests = %v, want none", s.SideQuests)
	}
}

func TestMarkdown(t *testing.T) {
	s := &Summary{
		WeekStart:     "2026-08-18",
		WeekEnd:       "2026-08-24",
		TotalSessions: 4,
		TotalFiles:    12,
		TotalCommits:  9,
		Highlights:    []string{"Logged 4 coding sessions"},
		LinkedInPost:  "post body",
		TwitterThread: "thread body",
	}

	md := s.Markdown(now)
	for _, want := range []string{
		"type: weekly-summary",
		"week: 2026-08-18 to 2026-08-24",
		"# Weekly Summary: 2026-08-18 to 2026-08-24",
		"| Sessions Logged | 4 |",
		"| Commits | 9 |",
		"- Logged 4 coding sessions",
		"### LinkedIn Post",
		"### Twitter Thread",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
