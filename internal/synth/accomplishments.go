package synth

import (
	"strings"

	"github.com/oronculzac/wrapup/internal/session"
)

// maxAccomplishments caps the key-accomplishment list.
const maxAccomplishments = 5

// maxCommitsScanned limits how many recent commits feed the list.
const maxCommitsScanned = 5

// conventionalPrefixes rewrites conventional-commit prefixes into verb
// phrases; checked in order.
var conventionalPrefixes = []struct {
	prefix string
	verb   string
}{
	{"feat:", "Built "},
	{"fix:", "Fixed "},
	{"chore:", "Updated "},
}

// Accomplishments extracts key accomplishments from commits and file paths.
// Conventional commits become verb phrases; non-matching commits pass through
// verbatim. Results are deduplicated case-insensitively, first-seen order
// preserved, capped at five. Near-duplicate phrasing is not merged; dedup is
// exact lower-cased match only.
func Accomplishments(sc *session.Context) []string {
	var raw []string

	commits := sc.CommitMessages
	if len(commits) > maxCommitsScanned {
		commits = commits[:maxCommitsScanned]
	}
	for _, msg := range commits {
		raw = append(raw, rewriteCommit(msg))
	}

	for _, f := range sc.ModifiedFiles {
		lower := strings.ToLower(f)
		switch {
		case strings.Contains(f, "SKILL.md"):
			raw = append(raw, "Created "+skillName(f)+" skill")
		case strings.Contains(lower, "workflow"):
			raw = append(raw, "Added automation workflow")
		case strings.Contains(lower, "test"):
			raw = append(raw, "Added tests")
		}
	}

	return dedupeCapped(raw, maxAccomplishments)
}

// rewriteCommit turns a conventional-commit subject into a verb phrase.
func rewriteCommit(msg string) string {
	for _, p := range conventionalPrefixes {
		if strings.HasPrefix(msg, p.prefix) {
			return p.verb + strings.TrimSpace(msg[len(p.prefix):])
		}
	}
	return msg
}

// skillName derives a skill name from a SKILL.md path: the directory that
// contains the file, or a generic fallback for a bare path.
func skillName(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return "new"
}

// dedupeCapped removes case-insensitive duplicates, preserving first-seen
// order, and caps the result at n entries.
func dedupeCapped(items []string, n int) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, item := range items {
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
		if len(unique) == n {
			break
		}
	}
	return unique
}
