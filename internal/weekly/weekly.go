// Package weekly aggregates recent session notes from the vault into a
// weekly review with stats, highlights, and social drafts.
package weekly

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/oronculzac/wrapup/internal/vault"
)

// sessionsFolder is where wrap writes session notes.
const sessionsFolder = "Sessions"

// Summary aggregates a week of session notes.
type Summary struct {
	WeekStart     string   `json:"week_start"`
	WeekEnd       string   `json:"week_end"`
	TotalSessions int      `json:"total_sessions"`
	TotalFiles    int      `json:"total_files"`
	TotalCommits  int      `json:"total_commits"`
	SideQuests    []string `json:"side_quests,omitempty"`
	Highlights    []string `json:"highlights"`
	LinkedInPost  string   `json:"linkedin_post,omitempty"`
	TwitterThread string   `json:"twitter_thread,omitempty"`
}

// sessionStats is what one note contributes to the summary.
type sessionStats struct {
	date         string
	files        int
	commits      int
	hasSideQuest bool
}

var (
	// filesMentioned matches backticked source file references in a note.
	filesMentioned = regexp.MustCompile("`[^`]+\\.(py|go|md|json|yaml|yml|js|ts|sql)`")
	// commitLine matches oneline commit references, hash then subject.
	commitLine = regexp.MustCompile(`[a-f0-9]{7}\s+\w+:`)
	// noteDate matches YYYY-MM-DD at the start of a note filename.
	noteDate = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
)

// sessionNotesSince returns note paths whose filename date falls on or
// after cutoff, sorted by name (which sorts by date).
func sessionNotesSince(v *vault.Vault, cutoff time.Time) ([]string, error) {
	paths, err := v.ListNotes(sessionsFolder)
	if err != nil {
		return nil, err
	}

	var recent []string
	for _, p := range paths {
		m := noteDate.FindStringSubmatch(filepath.Base(p))
		if m == nil {
			continue
		}
		d, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			continue
		}
		if !d.Before(cutoff) {
			recent = append(recent, p)
		}
	}
	sort.Strings(recent)
	return recent, nil
}

// parseNote extracts per-session metrics from one note.
func parseNote(v *vault.Vault, path string) (sessionStats, error) {
	note, err := v.ReadNote(path)
	if err != nil {
		return sessionStats{}, err
	}

	stats := sessionStats{
		files:   len(filesMentioned.FindAllString(note.Content, -1)),
		commits: len(commitLine.FindAllString(note.Content, -1)),
	}

	if m := noteDate.FindStringSubmatch(filepath.Base(path)); m != nil {
		stats.date = m[1]
	} else if d, ok := note.Frontmatter["date"].(string); ok {
		stats.date = d
	}

	stats.hasSideQuest = strings.Contains(note.Content, "Side Quest") &&
		!strings.Contains(note.Content, "No side quests")
	return stats, nil
}

// Generate builds a summary from the vault's session notes of the past
// days days.
func Generate(v *vault.Vault, days int, now time.Time) (*Summary, error) {
	cutoff := now.AddDate(0, 0, -days)
	paths, err := sessionNotesSince(v, cutoff)
	if err != nil {
		return nil, err
	}

	today := now.Format("2006-01-02")
	if len(paths) == 0 {
		return &Summary{
			WeekStart:  today,
			WeekEnd:    today,
			Highlights: []string{"No sessions logged this week."},
		}, nil
	}

	summary := &Summary{TotalSessions: len(paths)}
	var dates []string
	for _, p := range paths {
		stats, err := parseNote(v, p)
		if err != nil {
			continue
		}
		summary.TotalFiles += stats.files
		summary.TotalCommits += stats.commits
		if stats.date != "" {
			dates = append(dates, stats.date)
		}
		if stats.hasSideQuest && stats.date != "" {
			summary.SideQuests = append(summary.SideQuests, stats.date)
		}
	}

	sort.Strings(dates)
	summary.WeekStart, summary.WeekEnd = today, today
	if len(dates) > 0 {
		summary.WeekStart = dates[0]
		summary.WeekEnd = dates[len(dates)-1]
	}

	summary.Highlights = []string{
		fmt.Sprintf("Logged %d coding sessions", summary.TotalSessions),
		fmt.Sprintf("Modified approximately %d files", summary.TotalFiles),
		fmt.Sprintf("Made %d commits", summary.TotalCommits),
	}
	if len(summary.SideQuests) > 0 {
		summary.Highlights = append(summary.Highlights,
			fmt.Sprintf("Explored %d side quests", len(summary.SideQuests)))
	}

	summary.LinkedInPost = linkedinPost(summary)
	summary.TwitterThread = twitterThread(summary)
	return summary, nil
}

func linkedinPost(s *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Weekly Learning Recap (%s to %s)\n\n", s.WeekStart, s.WeekEnd)
	b.WriteString("This week in my Data Engineering journey:\n\n")
	fmt.Fprintf(&b, "✅ %d coding sessions logged\n", s.TotalSessions)
	fmt.Fprintf(&b, "📁 ~%d files modified\n", s.TotalFiles)
	fmt.Fprintf(&b, "🔄 %d commits pushed\n", s.TotalCommits)
	if len(s.SideQuests) > 0 {
		fmt.Fprintf(&b, "🔍 %d side quests explored\n", len(s.SideQuests))
	}
	b.WriteString("\nKey learnings:\n• [Highlight 1]\n• [Highlight 2]\n• [Highlight 3]\n\n")
	b.WriteString("#LearningInPublic #DataEngineering #WeeklyReview")
	return b.String()
}

func twitterThread(s *Summary) string {
	var b strings.Builder
	b.WriteString("🧵 Weekly Learning Recap\n\n")
	fmt.Fprintf(&b, "1/ This week's stats:\n📊 %d sessions\n📁 %d files modified\n🔄 %d commits\n\n",
		s.TotalSessions, s.TotalFiles, s.TotalCommits)
	b.WriteString("2/ Biggest win: [What was the highlight?]\n\n")
	b.WriteString("3/ Biggest challenge: [What was hard?]\n\n")
	b.WriteString("4/ Next week focus: [What's planned?]\n\n")
	b.WriteString("#LearningInPublic #DataEngineering")
	return b.String()
}

// Markdown renders the summary as a vault-ready note.
func (s *Summary) Markdown(now time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "date: %s\n", now.Format("2006-01-02"))
	b.WriteString("type: weekly-summary\n")
	fmt.Fprintf(&b, "week: %s to %s\n", s.WeekStart, s.WeekEnd)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# Weekly Summary: %s to %s\n\n", s.WeekStart, s.WeekEnd)
	b.WriteString("## Stats\n\n")
	b.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Sessions Logged | %d |\n", s.TotalSessions)
	fmt.Fprintf(&b, "| Files Modified | ~%d |\n", s.TotalFiles)
	fmt.Fprintf(&b, "| Commits | %d |\n", s.TotalCommits)
	fmt.Fprintf(&b, "| Side Quests | %d |\n\n", len(s.SideQuests))

	b.WriteString("## Highlights\n\n")
	for _, h := range s.Highlights {
		fmt.Fprintf(&b, "- %s\n", h)
	}

	if s.LinkedInPost != "" || s.TwitterThread != "" {
		b.WriteString("\n## Social Drafts\n")
		if s.LinkedInPost != "" {
			b.WriteString("\n### LinkedIn Post\n\n" + s.LinkedInPost + "\n")
		}
		if s.TwitterThread != "" {
			b.WriteString("\n### Twitter Thread\n\n" + s.TwitterThread + "\n")
		}
	}
	return b.String()
}
