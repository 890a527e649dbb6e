package session

import (
	"reflect"
	"testing"
)

func TestParseDiffStat(t *testing.T) {
	tests := []struct {
		name     string
		diffStat string
		want     []string
	}{
		{
			name: "typical output",
			diffStat: " internal/detect/rules.go | 24 ++++++++----\n" +
				" cmd/wrapup/wrap.go        |  8 ++--\n" +
				" 2 files changed, 22 insertions(+), 10 deletions(-)",
			want: []string{"internal/detect/rules.go", "cmd/wrapup/wrap.go"},
		},
		{
			name:     "empty input",
			diffStat: "",
			want:     nil,
		},
		{
			name:     "summary line only",
			diffStat: " 1 file changed, 1 insertion(+)",
			want:     nil,
		},
		{
			name:     "binary file line",
			diffStat: " assets/logo.png | Bin 0 -> 4096 bytes",
			want:     []string{"assets/logo.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDiffStat(tt.diffStat)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDiffStat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCommitLog(t *testing.T) {
	tests := []struct {
		name string
		log  string
		want []string
	}{
		{
			name: "strips abbreviated hashes",
			log:  "a1b2c3d feat: add wrap command\n9f8e7d6 fix: handle empty diffstat",
			want: []string{"feat: add wrap command", "fix: handle empty diffstat"},
		},
		{
			name: "keeps line whose first token is not a hash",
			log:  "update readme",
			want: []string{"update readme"},
		},
		{
			name: "short hex token is not a hash",
			log:  "abc123 do the thing",
			want: []string{"abc123 do the thing"},
		},
		{
			name: "skips blank lines",
			log:  "a1b2c3d feat: one\n\n\nb2c3d4e feat: two\n",
			want: []string{"feat: one", "feat: two"},
		},
		{
			name: "empty log",
			log:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommitLog(tt.log)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCommitLog() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTicketKeywords(t *testing.T) {
	tickets := []Ticket{
		{Identifier: "ENG-1", Title: "Build data-ingestion pipeline"},
		{Identifier: "ENG-2", Title: "Fix ingestion: retry on 429"},
	}

	got := TicketKeywords(tickets)
	want := []string{"build", "data", "ingestion", "pipeline", "retry"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TicketKeywords() = %v, want %v", got, want)
	}
}

func TestTicketKeywords_Empty(t *testing.T) {
	if got := TicketKeywords(nil); got != nil {
		t.Errorf("TicketKeywords(nil) = %v, want nil", got)
	}
	if got := TicketKeywords([]Ticket{{Title: "do it now"}}); got != nil {
		t.Errorf("short tokens should be dropped, got %v", got)
	}
}
