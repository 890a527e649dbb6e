// Package detect decides whether a session is publish-worthy.
//
// The classifier is a deterministic decision list: an explicit ordered slice
// of named rules evaluated first-match-wins. Rule order encodes priority;
// there is no scoring or ranking. Analyze never fails for malformed input —
// every branch has a defined fallback, and the only short-circuit is an
// upstream git error recorded in the session context.
package detect

import (
	"github.com/oronculzac/wrapup/internal/config"
	"github.com/oronculzac/wrapup/internal/session"
)

// ContentType classifies what kind of artifact a session produced.
type ContentType string

// Content types, from most to least specific.
const (
	ContentSkill       ContentType = "skill"
	ContentHomework    ContentType = "homework"
	ContentSideQuest   ContentType = "side_quest"
	ContentLearningLog ContentType = "learning_log"
	ContentWorkflow    ContentType = "workflow"
	ContentManual      ContentType = "manual"
)

// Decision is the classifier's sole output, immutable once produced.
// When ShouldPublish is false, ContentType and TargetRepo are always empty.
type Decision struct {
	ShouldPublish bool        `json:"should_publish"`
	ContentType   ContentType `json:"content_type,omitempty"`
	TargetRepo    string      `json:"target_repo,omitempty"`
	Reason        string      `json:"reason"`
	Confidence    float64     `json:"confidence"`
}

// Options are the classifier tuning knobs. The thresholds are product-level
// judgment (see config.DetectConfig), so they arrive here explicitly rather
// than as package constants.
type Options struct {
	SideQuestRatio      float64
	MinSignificantFiles int
	ScriptExtension     string
	DomainKeywords      []string
}

// DefaultOptions returns Options matching the config defaults.
func DefaultOptions() Options {
	d := config.Default().Detect
	return Options{
		SideQuestRatio:      d.SideQuestRatio,
		MinSignificantFiles: d.MinSignificantFiles,
		ScriptExtension:     d.ScriptExtension,
		DomainKeywords:      d.DomainKeywords,
	}
}

// OptionsFromConfig maps the loaded config into classifier options.
func OptionsFromConfig(d config.DetectConfig) Options {
	return Options{
		SideQuestRatio:      d.SideQuestRatio,
		MinSignificantFiles: d.MinSignificantFiles,
		ScriptExtension:     d.ScriptExtension,
		DomainKeywords:      d.DomainKeywords,
	}
}

// input bundles everything a rule may inspect. Ticket keywords are computed
// once so repeated Analyze calls on the same context stay byte-identical.
type input struct {
	sc       *session.Context
	opts     Options
	keywords []string
}

// rule is one entry in the decision list. Its apply func returns a Decision
// when the rule matches, nil to fall through to the next rule.
type rule struct {
	name  string
	apply func(in *input) *Decision
}

// Analyze applies the ordered rule list to a session context and returns
// exactly one decision.
func Analyze(sc *session.Context, opts Options) Decision {
	// Upstream git failure: do not publish, skip all rules.
	if sc.GitError != "" {
		return Decision{
			ShouldPublish: false,
			Reason:        "git error: " + sc.GitError,
			Confidence:    1.0,
		}
	}

	in := &input{
		sc:       sc,
		opts:     opts,
		keywords: session.TicketKeywords(sc.Tickets),
	}

	for _, r := range rules {
		if d := r.apply(in); d != nil {
			return *d
		}
	}

	return defaultDecision(sc.FileCount())
}
