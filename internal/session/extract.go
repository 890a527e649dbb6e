package session

import "strings"

// ParseDiffStat extracts modified file paths from `git diff --stat` output.
// Lines have the form " path/to/file.go | 10 +++---"; everything before the
// first pipe, trimmed, is the path. Lines without a pipe (including the
// trailing "N files changed" summary) are silently skipped; this is a
// deliberate best-effort parse, not a strict grammar.
func ParseDiffStat(diffStat string) []string {
	var files []string
	for _, line := range strings.Split(diffStat, "\n") {
		path, _, found := strings.Cut(line, "|")
		if !found {
			continue
		}
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		files = append(files, path)
	}
	return files
}

// ParseCommitLog splits oneline commit-log output into messages, most recent
// first, stripping the leading abbreviated hash from each line.
func ParseCommitLog(commitLog string) []string {
	var messages []string
	for _, line := range strings.Split(commitLog, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		messages = append(messages, stripOnelineHash(line))
	}
	return messages
}

// stripOnelineHash removes the leading commit hash from a `git log --oneline`
// line. A line whose first token doesn't look like an abbreviated hash is
// returned unchanged.
func stripOnelineHash(line string) string {
	first, rest, found := strings.Cut(line, " ")
	if !found || !isHex(first) || len(first) < 7 {
		return line
	}
	return strings.TrimSpace(rest)
}

// isHex reports whether s consists only of lowercase hex digits.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// TicketKeywords extracts a deduplicated keyword set from ticket titles.
// Titles are lower-cased and split on whitespace, hyphen, underscore, colon,
// and comma; tokens of length <= 3 are discarded. First-seen order is
// preserved so downstream decisions stay deterministic.
func TicketKeywords(tickets []Ticket) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, t := range tickets {
		title := strings.ToLower(t.Title)
		tokens := strings.FieldsFunc(title, func(r rune) bool {
			switch r {
			case ' ', '\t', '\n', '-', '_', ':', ',':
				return true
			}
			return false
		})
		for _, tok := range tokens {
			if len(tok) <= 3 || seen[tok] {
				continue
			}
			seen[tok] = true
			keywords = append(keywords, tok)
		}
	}
	return keywords
}
