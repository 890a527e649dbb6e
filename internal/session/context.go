// Package session provides the session context model and extraction of
// normalized facts from raw git and ticket collaborator output.
package session

import "time"

// Ticket is a work-tracking record attached to a session.
type Ticket struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	State      string `json:"state"`
	Project    string `json:"project,omitempty"`
}

// Context is the normalized snapshot of one coding session. It is created
// fresh per invocation and owned by the caller for the duration of one run;
// ModifiedFiles and CommitMessages always come from the same point-in-time
// collection, never mixed across runs.
type Context struct {
	CollectedAt time.Time `json:"collected_at"`

	// ModifiedFiles preserves diff output order.
	ModifiedFiles []string `json:"modified_files"`

	// CommitMessages are commit subjects, most recent first, with the
	// leading oneline hash stripped.
	CommitMessages []string `json:"commit_messages"`

	// DiffStat is the raw diff --stat block, kept for the session log.
	DiffStat string `json:"diff_stat,omitempty"`

	Tickets []Ticket `json:"tickets,omitempty"`

	// ForcePublish and ForceTargetRepo are optional manual overrides.
	ForcePublish    bool   `json:"force_publish,omitempty"`
	ForceTargetRepo string `json:"force_target_repo,omitempty"`

	// GitError is the explicit error marker set when the git collaborator
	// failed ("not a repository", transport error). When set, the
	// classifier skips all rules and returns a no-publish decision.
	GitError string `json:"git_error,omitempty"`
}

// FileCount returns the number of modified files.
func (c *Context) FileCount() int {
	return len(c.ModifiedFiles)
}
