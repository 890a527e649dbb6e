// Package synth renders session context and a publish decision into
// human-readable artifacts: a work log, a narrative, and social drafts.
// It is pure templating; all decision logic lives in the detect package.
package synth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oronculzac/wrapup/internal/detect"
	"github.com/oronculzac/wrapup/internal/session"
)

// Content holds everything synthesized for one session, generated once per
// decision and read-only afterwards.
type Content struct {
	CoreWorkLog        string   `json:"core_work_log"`
	Narrative          string   `json:"narrative"`
	TwitterDraft       string   `json:"twitter_draft"`
	LinkedInDraft      string   `json:"linkedin_draft"`
	DevToDraft         string   `json:"devto_draft"`
	KeyAccomplishments []string `json:"key_accomplishments"`
}

// templateContext is the typed variable set available to channel templates.
type templateContext struct {
	Date      string
	Main      string // headline accomplishment
	FileCount int
	Bullets   string // "- item" lines
	Checks    string // "✅ item" lines
	Thread    string // numbered twitter thread items
	StatsNum  string // thread index of the stats tweet
	CloseNum  string // thread index of the closing tweet
	Narrative string
	Type      string // decision content type, or "session"
}

// vars maps the typed context onto template placeholders.
func (tc *templateContext) vars() map[string]string {
	return map[string]string{
		"date":         tc.Date,
		"main":         tc.Main,
		"main_lower":   strings.ToLower(tc.Main),
		"file_count":   strconv.Itoa(tc.FileCount),
		"bullets":      tc.Bullets,
		"checks":       tc.Checks,
		"thread_items": tc.Thread,
		"stats_num":    tc.StatsNum,
		"close_num":    tc.CloseNum,
		"narrative":    tc.Narrative,
		"content_type": tc.Type,
	}
}

const twitterTemplate = `🧵 Learning in Public: {{date}}

1/ Today I {{main_lower}}!

Here's what I learned 👇

{{thread_items}}{{stats_num}}/ Stats:
📁 {{file_count}} files modified
🔄 Pushed to GitHub
📔 Documented everything

{{close_num}}/ Building in public means every mistake becomes a lesson for others.

#LearningInPublic #DataEngineering #100DaysOfCode #BuildInPublic`

const linkedinTemplate = `📚 Learning in Public Update

{{main}}

Today's session highlights:
{{checks}}

📊 Session Stats:
• {{file_count}} files modified
• Code pushed to GitHub
• Progress documented in my knowledge base

💡 Key insight: The best way to learn is to build things, break things, and share what you discover.

What are you building this week?

#DataEngineering #LearningInPublic #CareerGrowth #BuildInPublic`

const devtoTemplate = `---
title: "Learning Log: {{main}}"
published: false
description: Daily learning log - {{date}}
tags: learninginpublic, dataengineering, devjournal
series: Daily Learning Logs
---

# {{main}}

*{{date}} • {{file_count}} files modified*

## What I Built Today

{{bullets}}

## The Journey

{{narrative}}

## Key Takeaways

1. **What worked:** Document as you go - it's easier than reconstructing later
2. **What I'd do differently:** Start with tests next time
3. **Next steps:** Continue building and sharing

---

*This post was auto-generated from a learning-in-public session wrap.*`

const narrativeTemplate = `### The Journey

**What I Accomplished:**
{{bullets}}

**The Challenge:**
Every session has its hurdles. Today's was about maintaining focus and pushing through.

**Key Takeaway:**
Small consistent steps compound into significant progress. Keep shipping!`

// Synthesize renders all artifacts for one session. The passed time anchors
// every date in the output so repeated calls are reproducible in tests.
func Synthesize(sc *session.Context, decision detect.Decision, now time.Time) (*Content, error) {
	accomplishments := Accomplishments(sc)

	tc := &templateContext{
		Date:      now.Format("2006-01-02"),
		Main:      headline(accomplishments, "made good progress"),
		FileCount: sc.FileCount(),
		Bullets:   bulletLines(accomplishments, "- Made incremental progress"),
		Checks:    checkLines(accomplishments),
		Type:      contentTypeLabel(decision),
	}
	tc.Thread, tc.StatsNum, tc.CloseNum = threadItems(accomplishments)

	narrative, err := render(narrativeTemplate, tc.vars())
	if err != nil {
		return nil, err
	}
	tc.Narrative = narrative

	twitter, err := render(twitterTemplate, tc.vars())
	if err != nil {
		return nil, err
	}
	linkedin, err := render(linkedinTemplate, tc.vars())
	if err != nil {
		return nil, err
	}
	devto, err := render(devtoTemplate, tc.vars())
	if err != nil {
		return nil, err
	}

	return &Content{
		CoreWorkLog:        coreWorkLog(sc),
		Narrative:          narrative,
		TwitterDraft:       twitter,
		LinkedInDraft:      linkedin,
		DevToDraft:         devto,
		KeyAccomplishments: accomplishments,
	}, nil
}

// headline picks the lead accomplishment, or the fallback when none exist.
func headline(accomplishments []string, fallback string) string {
	if len(accomplishments) == 0 {
		return fallback
	}
	return accomplishments[0]
}

// bulletLines renders "- item" lines, or the fallback line when empty.
func bulletLines(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

// checkLines renders "✅ item" lines for up to four accomplishments.
func checkLines(items []string) string {
	if len(items) > 4 {
		items = items[:4]
	}
	if len(items) == 0 {
		return "✅ Made incremental progress"
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "✅ "+item)
	}
	return strings.Join(lines, "\n")
}

// threadItems numbers accomplishments two through four as thread tweets and
// returns the indexes for the stats and closing tweets. Numbering is
// aesthetic; no platform length limit is enforced.
func threadItems(accomplishments []string) (items, statsNum, closeNum string) {
	var b strings.Builder
	n := 2
	rest := accomplishments
	if len(rest) > 0 {
		rest = rest[1:]
	}
	if len(rest) > 3 {
		rest = rest[:3]
	}
	for _, acc := range rest {
		fmt.Fprintf(&b, "%d/ ✅ %s\n\n", n, acc)
		n++
	}
	return b.String(), strconv.Itoa(n), strconv.Itoa(n + 1)
}

// coreWorkLog renders the factual session record: changed files and commits.
// A section is omitted when its list is empty.
func coreWorkLog(sc *session.Context) string {
	var sections []string

	if len(sc.ModifiedFiles) > 0 {
		lines := []string{"### Files Modified"}
		files := sc.ModifiedFiles
		more := 0
		if len(files) > 10 {
			more = len(files) - 10
			files = files[:10]
		}
		for _, f := range files {
			lines = append(lines, "- `"+f+"`")
		}
		if more > 0 {
			lines = append(lines, fmt.Sprintf("*...and %d more*", more))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(sc.CommitMessages) > 0 {
		lines := []string{"### Commits"}
		commits := sc.CommitMessages
		if len(commits) > 5 {
			commits = commits[:5]
		}
		for _, c := range commits {
			lines = append(lines, "- "+c)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

// contentTypeLabel maps a decision to a human label for note frontmatter.
func contentTypeLabel(d detect.Decision) string {
	if d.ContentType == "" {
		return "session"
	}
	return string(d.ContentType)
}
