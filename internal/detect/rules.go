package detect

import (
	"fmt"
	"strings"

	"github.com/oronculzac/wrapup/internal/config"
)

// homeworkIndicators mark coursework submissions in paths or commits.
var homeworkIndicators = []string{"homework", "exercise", "solution", "answer", "submission"}

// metaFiles are repository housekeeping files that never count as drift.
var metaFiles = []string{".gitignore", "readme", "license", ".env"}

// rules is the decision list, evaluated in order; first match wins.
var rules = []rule{
	{name: "forced", apply: forcedRule},
	{name: "skill", apply: skillRule},
	{name: "homework", apply: homeworkRule},
	{name: "side_quest", apply: sideQuestRule},
	{name: "volume", apply: volumeRule},
}

// forcedRule honors a manual publish override. An unrecognized target repo
// falls back to the learning-logs repo rather than failing.
func forcedRule(in *input) *Decision {
	if !in.sc.ForcePublish || in.sc.ForceTargetRepo == "" {
		return nil
	}
	target := in.sc.ForceTargetRepo
	if !config.IsKnownRepo(target) {
		target = config.RepoLearningLogs
	}
	return &Decision{
		ShouldPublish: true,
		ContentType:   ContentManual,
		TargetRepo:    target,
		Reason:        "Manually flagged for publish",
		Confidence:    1.0,
	}
}

// skillRule fires when the session created a skill: a *skill*.md document
// plus a script under a scripts/ directory with the configured extension.
func skillRule(in *input) *Decision {
	var skillFile string
	hasScript := false
	ext := strings.ToLower(in.opts.ScriptExtension)

	for _, f := range in.sc.ModifiedFiles {
		lower := strings.ToLower(f)
		if skillFile == "" && strings.Contains(lower, "skill") && strings.HasSuffix(lower, ".md") {
			skillFile = f
		}
		if strings.Contains("/"+lower, "/scripts/") && strings.HasSuffix(lower, ext) {
			hasScript = true
		}
	}

	if skillFile == "" || !hasScript {
		return nil
	}
	return &Decision{
		ShouldPublish: true,
		ContentType:   ContentSkill,
		TargetRepo:    config.RepoPrimary,
		Reason:        "New skill detected: " + skillFile,
		Confidence:    0.9,
	}
}

// homeworkRule fires when any path or commit message mentions a homework
// indicator (case-insensitive substring).
func homeworkRule(in *input) *Decision {
	for _, f := range in.sc.ModifiedFiles {
		lower := strings.ToLower(f)
		for _, hw := range homeworkIndicators {
			if strings.Contains(lower, hw) {
				return homeworkDecision("Homework file modified: " + f)
			}
		}
	}
	for _, msg := range in.sc.CommitMessages {
		lower := strings.ToLower(msg)
		for _, hw := range homeworkIndicators {
			if strings.Contains(lower, hw) {
				return homeworkDecision("Homework mentioned in commit")
			}
		}
	}
	return nil
}

func homeworkDecision(reason string) *Decision {
	return &Decision{
		ShouldPublish: true,
		ContentType:   ContentHomework,
		TargetRepo:    config.RepoCoursework,
		Reason:        reason,
		Confidence:    0.85,
	}
}

// sideQuestRule detects drift from ticket scope: modified files containing
// no ticket keyword and not a meta file. The rule fires only when the
// unrelated subset is non-empty and strictly exceeds the configured ratio of
// all modified files. With no ticket keywords there is no baseline, so the
// rule is skipped entirely.
func sideQuestRule(in *input) *Decision {
	if len(in.keywords) == 0 || len(in.sc.ModifiedFiles) == 0 {
		return nil
	}

	var unrelated []string
	for _, f := range in.sc.ModifiedFiles {
		lower := strings.ToLower(f)
		if containsAny(lower, in.keywords) || containsAny(lower, metaFiles) {
			continue
		}
		unrelated = append(unrelated, f)
	}

	if len(unrelated) == 0 {
		return nil
	}
	ratio := float64(len(unrelated)) / float64(len(in.sc.ModifiedFiles))
	if ratio <= in.opts.SideQuestRatio {
		return nil
	}

	sample := unrelated
	if len(sample) > 3 {
		sample = sample[:3]
	}
	return &Decision{
		ShouldPublish: true,
		ContentType:   ContentSideQuest,
		TargetRepo:    config.RepoLearningLogs,
		Reason:        "Files unrelated to ticket: " + strings.Join(sample, ", "),
		Confidence:    0.7,
	}
}

// volumeRule fires on sheer session size. The target repo depends on whether
// any path or commit mentions a configured domain keyword.
func volumeRule(in *input) *Decision {
	count := in.sc.FileCount()
	if count < in.opts.MinSignificantFiles {
		return nil
	}

	allText := strings.ToLower(strings.Join(in.sc.ModifiedFiles, " ") + " " + strings.Join(in.sc.CommitMessages, " "))
	target := config.RepoLearningLogs
	if containsAny(allText, in.opts.DomainKeywords) {
		target = config.RepoCoursework
	}

	return &Decision{
		ShouldPublish: true,
		ContentType:   ContentLearningLog,
		TargetRepo:    target,
		Reason:        fmt.Sprintf("Significant session: %d files modified", count),
		Confidence:    0.6,
	}
}

// defaultDecision is the terminal no-publish fallback.
func defaultDecision(fileCount int) Decision {
	return Decision{
		ShouldPublish: false,
		Reason:        fmt.Sprintf("Session not significant enough (%d files modified)", fileCount),
		Confidence:    0.8,
	}
}

// containsAny reports whether s contains any of the needles as a substring.
// Needles are assumed to be lowercase already.
func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
