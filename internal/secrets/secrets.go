// Package secrets scans content and files for credentials before anything
// leaves the machine. Publishing is blocked when a scan reports findings.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Finding is one detected secret. Match holds the raw matched text and is
// never printed; display code must use Redacted.
type Finding struct {
	PatternName string `json:"pattern"`
	Match       string `json:"-"`
	File        string `json:"file,omitempty"`
	Line        int    `json:"line"`
	Redacted    string `json:"redacted"`
}

// pattern is a named secret detector. Patterns are kept in an ordered slice
// so scan output is deterministic.
type pattern struct {
	name string
	re   *regexp.Regexp
}

var secretPatterns = []pattern{
	{"github_token", regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`)},
	{"github_oauth", regexp.MustCompile(`gho_[A-Za-z0-9]{36}`)},
	{"github_pat", regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`)},
	{"linear_api_key", regexp.MustCompile(`lin_api_[A-Za-z0-9]{32,}`)},
	{"anthropic_key", regexp.MustCompile(`sk-ant-[A-Za-z0-9-]{32,}`)},
	{"openai_key", regexp.MustCompile(`sk-[A-Za-z0-9]{32,}`)},
	{"aws_access_key", regexp.MustCompile(`AKIA[A-Z0-9]{16}`)},
	{"api_key_generic", regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([A-Za-z0-9_-]{20,})["']?`)},
	{"password", regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?([^\s"']{8,})["']?`)},
	{"secret", regexp.MustCompile(`(?i)(secret|token)\s*[:=]\s*["']?([A-Za-z0-9_-]{16,})["']?`)},
	{"private_key", regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA )?PRIVATE KEY-----`)},
	{"bearer_token", regexp.MustCompile(`Bearer\s+[A-Za-z0-9._-]+`)},
	{"email", regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	{"connection_string", regexp.MustCompile(`(?i)(mongodb|mysql|postgresql|redis)://\S+`)},
	{"db_password", regexp.MustCompile(`(?i)password=[^\s&;]+`)},
}

// safePatterns are placeholder shapes that would otherwise trip the
// detectors. A match covered by any of these is discarded.
var safePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)example\.com`),
	regexp.MustCompile(`(?i)placeholder`),
	regexp.MustCompile(`(?i)YOUR_.*_HERE`),
	regexp.MustCompile(`(?i)xxxx+`),
	regexp.MustCompile(`\*\*\*+`),
}

// blockedFiles are names that never leave the machine, regardless of
// content. Entries starting with * match by suffix, the rest by substring
// of the lowercased base name.
var blockedFiles = []string{
	".env",
	".env.local",
	".env.production",
	"secrets.json",
	"credentials.json",
	"*.pem",
	"*.key",
	"_secret",
}

func isSafeMatch(match string) bool {
	for _, re := range safePatterns {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

// redact masks a matched secret for display, keeping the first and last
// four characters when the match is long enough to stay unidentifiable.
func redact(match string) string {
	if len(match) > 10 {
		return match[:4] + "***" + match[len(match)-4:]
	}
	return "***REDACTED***"
}

// ScanContent scans text line by line and returns every finding.
func ScanContent(content string) []Finding {
	var findings []Finding
	for i, line := range strings.Split(content, "\n") {
		for _, p := range secretPatterns {
			for _, match := range p.re.FindAllString(line, -1) {
				if isSafeMatch(match) {
					continue
				}
				findings = append(findings, Finding{
					PatternName: p.name,
					Match:       match,
					Line:        i + 1,
					Redacted:    redact(match),
				})
			}
		}
	}
	return findings
}

// BlockedFile reports whether a file's name alone disqualifies it from
// publishing, and the rule that blocked it.
func BlockedFile(path string) (bool, string) {
	name := strings.ToLower(filepath.Base(path))
	for _, blocked := range blockedFiles {
		if strings.HasPrefix(blocked, "*") {
			if strings.HasSuffix(name, blocked[1:]) {
				return true, blocked
			}
		} else if strings.Contains(name, blocked) {
			return true, blocked
		}
	}
	return false, ""
}

// ScanFile scans one file. Blocked names short-circuit with a single
// blocked_file finding. Unreadable files are treated as safe so binary
// artifacts do not break a publish run.
func ScanFile(path string) (bool, []Finding) {
	if blocked, rule := BlockedFile(path); blocked {
		return false, []Finding{{
			PatternName: "blocked_file",
			Match:       path,
			File:        path,
			Redacted:    fmt.Sprintf("file blocked by rule %q", rule),
		}}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return true, nil
	}

	findings := ScanContent(string(content))
	for i := range findings {
		findings[i].File = path
	}
	return len(findings) == 0, findings
}

// Redact replaces every detected secret in content with its redacted form.
func Redact(content string) string {
	result := content
	for _, f := range ScanContent(content) {
		result = strings.ReplaceAll(result, f.Match, f.Redacted)
	}
	return result
}

// Report is the outcome of checking a set of files before publishing.
type Report struct {
	Safe     bool      `json:"safe"`
	Blocked  []string  `json:"blocked_files,omitempty"`
	Findings []Finding `json:"findings,omitempty"`
}

// CheckFiles scans every file and aggregates the results.
func CheckFiles(paths []string) Report {
	report := Report{Safe: true}
	for _, path := range paths {
		safe, findings := ScanFile(path)
		if safe {
			continue
		}
		report.Safe = false
		if len(findings) == 1 && findings[0].PatternName == "blocked_file" {
			report.Blocked = append(report.Blocked, path)
			continue
		}
		report.Findings = append(report.Findings, findings...)
	}
	return report
}

// Summary renders a human-readable report.
func (r Report) Summary() string {
	if r.Safe {
		return "all files appear safe to publish"
	}

	var b strings.Builder
	b.WriteString("publishing safety check failed\n")
	if len(r.Blocked) > 0 {
		b.WriteString("\nblocked files (never published):\n")
		for _, f := range r.Blocked {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	if len(r.Findings) > 0 {
		b.WriteString("\npotential secrets detected:\n")
		for _, f := range r.Findings {
			fmt.Fprintf(&b, "  %s:%d  %s  %s\n", f.File, f.Line, f.PatternName, f.Redacted)
		}
	}
	b.WriteString("\nremove or redact these items before publishing")
	return b.String()
}
