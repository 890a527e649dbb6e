// Package runlog records every pipeline run as a structured JSONL entry
// under the config logs directory, one file per day. The log doubles as
// the data source for usage stats.
package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oronculzac/wrapup/internal/config"
)

// Entry is one recorded run. Fields mirror the zap fields written by
// Record so Stats can read the files back.
type Entry struct {
	RunID       string  `json:"run_id"`
	Timestamp   string  `json:"ts"`
	Command     string  `json:"command"`
	Published   bool    `json:"published"`
	ContentType string  `json:"content_type,omitempty"`
	TargetRepo  string  `json:"target_repo,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	FileCount   int     `json:"file_count"`
	DurationMS  int64   `json:"duration_ms"`
}

// Logger appends run entries to the daily log file.
type Logger struct {
	dir string
	zl  *zap.Logger
}

// New opens (creating if needed) today's log file under dir. An empty dir
// uses the default logs directory.
func New(dir string, now time.Time) (*Logger, error) {
	if dir == "" {
		dir = config.LogsDir()
	}
	if dir == "" {
		return nil, fmt.Errorf("cannot resolve logs directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	path := filepath.Join(dir, fileName(now))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encCfg.MessageKey = "command"
	encCfg.LevelKey = ""

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.InfoLevel)
	return &Logger{dir: dir, zl: zap.New(core)}, nil
}

func fileName(t time.Time) string {
	return "runs-" + t.Format("2006-01-02") + ".jsonl"
}

// NewRunID returns a fresh identifier for one pipeline run.
func NewRunID() string {
	return uuid.NewString()
}

// Record writes one entry. The entry's Timestamp is set by the encoder.
func (l *Logger) Record(e Entry) {
	l.zl.Info(e.Command,
		zap.String("run_id", e.RunID),
		zap.Bool("published", e.Published),
		zap.String("content_type", e.ContentType),
		zap.String("target_repo", e.TargetRepo),
		zap.String("reason", e.Reason),
		zap.Float64("confidence", e.Confidence),
		zap.Int("file_count", e.FileCount),
		zap.Int64("duration_ms", e.DurationMS),
	)
}

// Close flushes buffered entries.
func (l *Logger) Close() error {
	return l.zl.Sync()
}

// Stats summarizes recorded runs.
type Stats struct {
	Days       int            `json:"days"`
	TotalRuns  int            `json:"total_runs"`
	Published  int            `json:"published"`
	Skipped    int            `json:"skipped"`
	ByType     map[string]int `json:"by_type,omitempty"`
	ByRepo     map[string]int `json:"by_repo,omitempty"`
	TotalFiles int            `json:"total_files"`
}

// Read loads entries from the daily files covering the past days days.
// Missing files are skipped; malformed lines are ignored.
func Read(dir string, days int, now time.Time) ([]Entry, error) {
	if dir == "" {
		dir = config.LogsDir()
	}

	var entries []Entry
	for i := 0; i < days; i++ {
		path := filepath.Join(dir, fileName(now.AddDate(0, 0, -i)))
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			var e Entry
			if json.Unmarshal(scanner.Bytes(), &e) == nil && e.RunID != "" {
				entries = append(entries, e)
			}
		}
		_ = f.Close()
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp < entries[j].Timestamp })
	return entries, nil
}

// Summarize aggregates entries into stats.
func Summarize(entries []Entry, days int) Stats {
	stats := Stats{
		Days:   days,
		ByType: map[string]int{},
		ByRepo: map[string]int{},
	}
	for _, e := range entries {
		stats.TotalRuns++
		stats.TotalFiles += e.FileCount
		if e.Published {
			stats.Published++
			if e.ContentType != "" {
				stats.ByType[e.ContentType]++
			}
			if e.TargetRepo != "" {
				stats.ByRepo[e.TargetRepo]++
			}
		} else {
			stats.Skipped++
		}
	}
	return stats
}
