package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Recognized target repository names.
const (
	RepoPrimary      = "primary-project-repo"
	RepoCoursework   = "coursework-repo"
	RepoLearningLogs = "learning-logs-repo"
)

// KnownRepos lists the recognized target repositories in display order.
var KnownRepos = []string{RepoPrimary, RepoCoursework, RepoLearningLogs}

// IsKnownRepo reports whether name is a recognized target repository.
func IsKnownRepo(name string) bool {
	for _, r := range KnownRepos {
		if r == name {
			return true
		}
	}
	return false
}

// Config holds all wrapup settings. It is loaded once at command start and
// passed explicitly to collaborators; nothing in this repo reads config from
// process-global state after startup.
type Config struct {
	// VaultPath is the root of the notes vault (session logs, social drafts).
	VaultPath string `yaml:"vault_path"`

	// Linear holds ticket-system settings.
	Linear LinearConfig `yaml:"linear"`

	// DevTo holds dev.to publishing settings.
	DevTo DevToConfig `yaml:"devto"`

	// Repos maps recognized target repo names to local clone paths.
	Repos map[string]string `yaml:"repos"`

	// Detect holds the classifier tuning knobs. The thresholds are product
	// judgment, not invariants, so they are configurable rather than
	// hard-coded.
	Detect DetectConfig `yaml:"detect"`
}

// LinearConfig holds Linear API settings.
type LinearConfig struct {
	APIKey    string `yaml:"api_key"`
	Workspace string `yaml:"workspace"`
	TeamID    string `yaml:"team_id"`
}

// DevToConfig holds dev.to API settings.
type DevToConfig struct {
	APIKey string `yaml:"api_key"`
}

// DetectConfig holds classifier tuning parameters.
type DetectConfig struct {
	// SideQuestRatio is the fraction of unrelated files above which
	// (strictly) a session counts as a side quest. Default 0.30.
	SideQuestRatio float64 `yaml:"side_quest_ratio"`

	// MinSignificantFiles is the modified-file count at or above which a
	// session is significant enough to publish. Default 3.
	MinSignificantFiles int `yaml:"min_significant_files"`

	// ScriptExtension is the file extension that marks a skill script
	// under a scripts/ directory. Default ".py" (the skills the toolkit
	// wraps ship Python scripts).
	ScriptExtension string `yaml:"script_extension"`

	// DomainKeywords route significant sessions to the coursework repo
	// when any modified path or commit message contains one of them.
	DomainKeywords []string `yaml:"domain_keywords"`
}

// defaultDomainKeywords match coursework-related work.
var defaultDomainKeywords = []string{
	"zoomcamp", "module-", "bigquery", "spark", "dbt", "terraform", "docker", "airflow",
}

// Default returns a Config with all detection knobs at their defaults.
func Default() Config {
	return Config{
		Repos: map[string]string{},
		Detect: DetectConfig{
			SideQuestRatio:      0.30,
			MinSignificantFiles: 3,
			ScriptExtension:     ".py",
			DomainKeywords:      defaultDomainKeywords,
		},
	}
}

// Path returns the default config file location under Dir().
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file at path and applies environment overrides.
// A missing file is not an error; defaults plus environment are returned.
// Zero-valued detection knobs are backfilled with defaults so a partial
// config file degrades features rather than breaking the pipeline.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file: environment-only setup is fine.
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	fillDetectDefaults(&cfg.Detect)
	if cfg.Repos == nil {
		cfg.Repos = map[string]string{}
	}
	return cfg, nil
}

// applyEnvOverrides lets environment variables take precedence over file
// values, matching how API keys usually arrive via .env files.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LINEAR_API_KEY"); v != "" {
		cfg.Linear.APIKey = v
	}
	if v := os.Getenv("DEVTO_API_KEY"); v != "" {
		cfg.DevTo.APIKey = v
	}
	if v := os.Getenv("WRAPUP_VAULT_PATH"); v != "" {
		cfg.VaultPath = v
	}
}

// fillDetectDefaults backfills zero values with defaults.
func fillDetectDefaults(d *DetectConfig) {
	def := Default().Detect
	if d.SideQuestRatio == 0 {
		d.SideQuestRatio = def.SideQuestRatio
	}
	if d.MinSignificantFiles == 0 {
		d.MinSignificantFiles = def.MinSignificantFiles
	}
	if d.ScriptExtension == "" {
		d.ScriptExtension = def.ScriptExtension
	}
	if len(d.DomainKeywords) == 0 {
		d.DomainKeywords = def.DomainKeywords
	}
}

// Write marshals cfg as YAML to path, creating parent directories.
// Refuses to overwrite an existing file.
func Write(cfg Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
