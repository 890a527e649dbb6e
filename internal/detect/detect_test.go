package detect

import (
	"reflect"
	"strings"
	"testing"

	"github.com/oronculzac/wrapup/internal/config"
	"github.com/oronculzac/wrapup/internal/session"
)

func ticketsWith(titles ...string) []session.Ticket {
	var tickets []session.Ticket
	for i, title := range titles {
		tickets = append(tickets, session.Ticket{
			Identifier: "ENG-" + string(rune('1'+i)),
			Title:      title,
			State:      "In Progress",
		})
	}
	return tickets
}

func TestAnalyze_GitErrorShortCircuits(t *testing.T) {
	sc := &session.Context{
		GitError:      "not a git repository",
		ModifiedFiles: []string{"a.py", "b.py", "c.py", "d.py"},
	}

	d := Analyze(sc, DefaultOptions())

	if d.ShouldPublish {
		t.Error("git error session must not publish")
	}
	if d.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", d.Confidence)
	}
	if !strings.HasPrefix(d.Reason, "git error:") {
		t.Errorf("Reason = %q, want git error prefix", d.Reason)
	}
	if d.ContentType != "" || d.TargetRepo != "" {
		t.Errorf("no-publish decision must have empty type/repo, got %q/%q", d.ContentType, d.TargetRepo)
	}
}

func TestAnalyze_ForcedOverride(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantRepo   string
		wantForced bool
	}{
		{"known repo", config.RepoPrimary, config.RepoPrimary, true},
		{"unknown repo falls back to learning logs", "some-other-repo", config.RepoLearningLogs, true},
		{"no target repo falls through", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &session.Context{
				ForcePublish:    true,
				ForceTargetRepo: tt.target,
				ModifiedFiles:   []string{"single.txt"},
			}
			d := Analyze(sc, DefaultOptions())

			if !tt.wantForced {
				if d.ContentType == ContentManual {
					t.Error("forced rule fired without a target repo")
				}
				return
			}
			if !d.ShouldPublish || d.ContentType != ContentManual {
				t.Fatalf("got %+v, want manual publish", d)
			}
			if d.TargetRepo != tt.wantRepo {
				t.Errorf("TargetRepo = %q, want %q", d.TargetRepo, tt.wantRepo)
			}
			if d.Confidence != 1.0 {
				t.Errorf("Confidence = %v, want 1.0", d.Confidence)
			}
			if d.Reason != "Manually flagged for publish" {
				t.Errorf("Reason = %q", d.Reason)
			}
		})
	}
}

func TestAnalyze_SkillDetection(t *testing.T) {
	sc := &session.Context{
		ModifiedFiles:  []string{"pipeline/SKILL.md", "pipeline/scripts/run.py"},
		CommitMessages: []string{"feat: add skill"},
	}

	d := Analyze(sc, DefaultOptions())

	if !d.ShouldPublish || d.ContentType != ContentSkill {
		t.Fatalf("got %+v, want skill publish", d)
	}
	if d.TargetRepo != config.RepoPrimary {
		t.Errorf("TargetRepo = %q, want %q", d.TargetRepo, config.RepoPrimary)
	}
	if d.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", d.Confidence)
	}
	if d.Reason != "New skill detected: pipeline/SKILL.md" {
		t.Errorf("Reason = %q", d.Reason)
	}
}

func TestAnalyze_SkillNeedsBothParts(t *testing.T) {
	tests := []struct {
		name  string
		files []string
	}{
		{"skill doc only", []string{"pipeline/SKILL.md"}},
		{"script only", []string{"pipeline/scripts/run.py"}},
		{"script outside scripts dir", []string{"pipeline/SKILL.md", "pipeline/run.py"}},
		{"wrong script extension", []string{"pipeline/SKILL.md", "pipeline/scripts/run.sh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Analyze(&session.Context{ModifiedFiles: tt.files}, DefaultOptions())
			if d.ContentType == ContentSkill {
				t.Errorf("skill rule fired for %v", tt.files)
			}
		})
	}
}

func TestAnalyze_SkillBeatsHomework(t *testing.T) {
	// Both rules match; skill is earlier in the decision list.
	sc := &session.Context{
		ModifiedFiles: []string{"homework/SKILL.md", "homework/scripts/run.py"},
	}
	d := Analyze(sc, DefaultOptions())
	if d.ContentType != ContentSkill {
		t.Errorf("ContentType = %q, want skill (rule order)", d.ContentType)
	}
}

func TestAnalyze_Homework(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		commits    []string
		wantReason string
	}{
		{
			name:       "homework path",
			files:      []string{"module-1/homework/q1.sql"},
			wantReason: "Homework file modified: module-1/homework/q1.sql",
		},
		{
			name:       "exercise path",
			files:      []string{"week2/Exercise_3.py"},
			wantReason: "Homework file modified: week2/Exercise_3.py",
		},
		{
			name:       "commit mention",
			files:      []string{"etl.py"},
			commits:    []string{"complete homework for module 1"},
			wantReason: "Homework mentioned in commit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &session.Context{ModifiedFiles: tt.files, CommitMessages: tt.commits}
			d := Analyze(sc, DefaultOptions())

			if !d.ShouldPublish || d.ContentType != ContentHomework {
				t.Fatalf("got %+v, want homework publish", d)
			}
			if d.TargetRepo != config.RepoCoursework {
				t.Errorf("TargetRepo = %q, want %q", d.TargetRepo, config.RepoCoursework)
			}
			if d.Confidence != 0.85 {
				t.Errorf("Confidence = %v, want 0.85", d.Confidence)
			}
			if d.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", d.Reason, tt.wantReason)
			}
		})
	}
}

func TestAnalyze_SideQuestThresholdIsStrict(t *testing.T) {
	// 10 files, ticket keyword "ingestion". Exactly 3 unrelated = 30%,
	// which does not exceed the 0.30 threshold; 4 unrelated = 40% does.
	related := []string{
		"ingestion/a.py", "ingestion/b.py", "ingestion/c.py", "ingestion/d.py",
		"ingestion/e.py", "ingestion/f.py", "ingestion/g.py",
	}
	tickets := ticketsWith("Build ingestion pipeline")

	t.Run("at threshold does not fire", func(t *testing.T) {
		files := append(append([]string{}, related...), "hobby/x.go", "hobby/y.go", "hobby/z.go")
		d := Analyze(&session.Context{ModifiedFiles: files, Tickets: tickets}, DefaultOptions())
		if d.ContentType == ContentSideQuest {
			t.Error("side quest fired at exactly 30% unrelated")
		}
	})

	t.Run("above threshold fires", func(t *testing.T) {
		files := append(append([]string{}, related[:6]...),
			"hobby/x.go", "hobby/y.go", "hobby/z.go", "hobby/w.go")
		d := Analyze(&session.Context{ModifiedFiles: files, Tickets: tickets}, DefaultOptions())

		if d.ContentType != ContentSideQuest {
			t.Fatalf("got %+v, want side quest", d)
		}
		if d.TargetRepo != config.RepoLearningLogs {
			t.Errorf("TargetRepo = %q, want %q", d.TargetRepo, config.RepoLearningLogs)
		}
		if d.Confidence != 0.7 {
			t.Errorf("Confidence = %v, want 0.7", d.Confidence)
		}
		if !strings.HasPrefix(d.Reason, "Files unrelated to ticket: ") {
			t.Errorf("Reason = %q", d.Reason)
		}
		// Reason samples at most three paths.
		if got := strings.Count(d.Reason, ","); got > 2 {
			t.Errorf("reason lists too many files: %q", d.Reason)
		}
	})
}

func TestAnalyze_SideQuestSkippedWithoutTickets(t *testing.T) {
	// Four unrelated files but no tickets: the volume rule decides instead.
	sc := &session.Context{
		ModifiedFiles: []string{"a.go", "b.go", "c.go", "d.go"},
	}
	d := Analyze(sc, DefaultOptions())

	if d.ContentType != ContentLearningLog {
		t.Fatalf("ContentType = %q, want learning_log", d.ContentType)
	}
	if d.TargetRepo != config.RepoLearningLogs {
		t.Errorf("TargetRepo = %q, want %q", d.TargetRepo, config.RepoLearningLogs)
	}
	if d.Confidence != 0.6 {
		t.Errorf("Confidence = %v, want 0.6", d.Confidence)
	}
	if d.Reason != "Significant session: 4 files modified" {
		t.Errorf("Reason = %q", d.Reason)
	}
}

func TestAnalyze_MetaFilesNeverCountAsDrift(t *testing.T) {
	sc := &session.Context{
		ModifiedFiles: []string{"ingestion/a.py", ".gitignore", "README.md"},
		Tickets:       ticketsWith("Build ingestion pipeline"),
	}
	d := Analyze(sc, DefaultOptions())
	if d.ContentType == ContentSideQuest {
		t.Error("meta files counted as unrelated drift")
	}
}

func TestAnalyze_VolumeRoutesByDomainKeyword(t *testing.T) {
	sc := &session.Context{
		ModifiedFiles:  []string{"notes.md", "queries.sql", "setup.cfg"},
		CommitMessages: []string{"work through zoomcamp module"},
	}
	d := Analyze(sc, DefaultOptions())

	if d.ContentType != ContentLearningLog {
		t.Fatalf("ContentType = %q, want learning_log", d.ContentType)
	}
	if d.TargetRepo != config.RepoCoursework {
		t.Errorf("TargetRepo = %q, want coursework for domain keyword", d.TargetRepo)
	}
}

func TestAnalyze_SmallSessionNotPublished(t *testing.T) {
	sc := &session.Context{ModifiedFiles: []string{"tweak.md"}}
	d := Analyze(sc, DefaultOptions())

	if d.ShouldPublish {
		t.Error("one-file session must not publish")
	}
	if d.Reason != "Session not significant enough (1 files modified)" {
		t.Errorf("Reason = %q", d.Reason)
	}
	if d.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", d.Confidence)
	}
}

func TestAnalyze_EmptySession(t *testing.T) {
	d := Analyze(&session.Context{}, DefaultOptions())
	if d.ShouldPublish {
		t.Error("empty session must not publish")
	}
	if d.Reason != "Session not significant enough (0 files modified)" {
		t.Errorf("Reason = %q", d.Reason)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	sc := &session.Context{
		ModifiedFiles:  []string{"ingestion/a.py", "hobby/x.go", "hobby/y.go", "hobby/z.go", "hobby/w.go"},
		CommitMessages: []string{"feat: explore graph rendering"},
		Tickets:        ticketsWith("Build ingestion pipeline", "Fix ingestion retries"),
	}
	opts := DefaultOptions()

	first := Analyze(sc, opts)
	for i := 0; i < 10; i++ {
		if got := Analyze(sc, opts); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
		}
	}
}

func TestAnalyze_ConfigurableThresholds(t *testing.T) {
	opts := DefaultOptions()
	opts.MinSignificantFiles = 10

	sc := &session.Context{ModifiedFiles: []string{"a.md", "b.md", "c.md", "d.md"}}
	d := Analyze(sc, opts)
	if d.ShouldPublish {
		t.Error("4 files should not publish with MinSignificantFiles=10")
	}

	opts.MinSignificantFiles = 2
	d = Analyze(sc, opts)
	if !d.ShouldPublish {
		t.Error("4 files should publish with MinSignificantFiles=2")
	}
}
