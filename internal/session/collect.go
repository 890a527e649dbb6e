package session

import (
	"context"
	"time"

	"github.com/oronculzac/wrapup/internal/git"
)

// GitSource supplies raw version-control data for a session.
type GitSource interface {
	DiffStat(ctx context.Context) (string, error)
	RecentCommits(ctx context.Context, sinceHours int) (string, error)
}

// TicketSource supplies work-tracking records for a session.
type TicketSource interface {
	SessionTickets(ctx context.Context, sinceHours int) ([]Ticket, error)
}

// GitCLI is the exec-based GitSource for the local repository.
type GitCLI struct{}

// DiffStat returns `git diff --stat` output for the working tree.
func (GitCLI) DiffStat(ctx context.Context) (string, error) {
	return git.DiffStat(ctx)
}

// RecentCommits returns oneline commits from the last sinceHours hours.
func (GitCLI) RecentCommits(ctx context.Context, sinceHours int) (string, error) {
	return git.RecentCommits(ctx, sinceHours)
}

// Collect builds a Context snapshot from the collaborators.
//
// Git failures do not abort collection: they are recorded in GitError so the
// classifier can short-circuit to a safe no-publish decision. Ticket failures
// (including an unconfigured ticket source) degrade to an empty ticket list,
// which in turn disables the side-quest rule.
func Collect(ctx context.Context, gitSrc GitSource, ticketSrc TicketSource, sinceHours int) *Context {
	sc := &Context{CollectedAt: time.Now()}

	diffStat, err := gitSrc.DiffStat(ctx)
	if err != nil {
		sc.GitError = err.Error()
		return sc
	}
	commitLog, err := gitSrc.RecentCommits(ctx, sinceHours)
	if err != nil {
		sc.GitError = err.Error()
		return sc
	}

	sc.DiffStat = diffStat
	sc.ModifiedFiles = ParseDiffStat(diffStat)
	sc.CommitMessages = ParseCommitLog(commitLog)

	if ticketSrc != nil {
		tickets, err := ticketSrc.SessionTickets(ctx, sinceHours)
		if err == nil {
			sc.Tickets = tickets
		}
	}

	return sc
}
