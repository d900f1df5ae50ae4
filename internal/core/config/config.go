package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const DefaultResumePrompt = `Resuming session from {{{last_updated}}}.{{#git_branch}} You were on branch {{{git_branch}}}.{{/git_branch}}

Last time: {{{problem}}}

IMPORTANT: This session has been inactive for {{{time_since}}}. Before proceeding: check git status, look around to understand what changed, and be careful not to overwrite any work in progress.`

const (
	DefaultLimit  = 5
	DefaultFormat = "text"

	// DefaultGlamourStyle styles markdown in the browser's detail view
	DefaultGlamourStyle = "dark"

	// ClaudeHomeEnv overrides the Claude data directory (~/.claude)
	ClaudeHomeEnv = "CLAUDE_HOME"
)

type Config struct {
	ProjectsDir          string
	DefaultLimit         int
	Format               string
	ClaudeFlags          []string // Additional flags to pass to claude --resume
	ResumePromptTemplate string
	GlamourStyle         string
}

type tomlConfig struct {
	ProjectsDir  string   `toml:"projects_dir"`
	DefaultLimit int      `toml:"default_limit"`
	Format       string   `toml:"format"`
	ClaudeFlags  []string `toml:"claude_flags"`
	ResumePrompt string   `toml:"resume_prompt"`
	GlamourStyle string   `toml:"glamour_style"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ProjectsDir:          DefaultProjectsDir(),
		DefaultLimit:         DefaultLimit,
		Format:               DefaultFormat,
		ResumePromptTemplate: DefaultResumePrompt,
		GlamourStyle:         DefaultGlamourStyle,
	}
}

// DefaultProjectsDir returns $CLAUDE_HOME/projects, or ~/.claude/projects
func DefaultProjectsDir() string {
	if claudeHome := os.Getenv(ClaudeHomeEnv); claudeHome != "" {
		return filepath.Join(claudeHome, "projects")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".claude", "projects")
	}
	return filepath.Join(home, ".claude", "projects")
}

// Dir returns ~/.config/cchistory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cchistory"), nil
}

// Load reads config from ~/.config/cchistory/
func Load() (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return Default(), nil // Use defaults
	}

	cfg, err := LoadFile(filepath.Join(configDir, "config.toml"))
	if err != nil {
		return nil, err
	}

	// resume_prompt.txt beats the inline template
	if data, err := os.ReadFile(filepath.Join(configDir, "resume_prompt.txt")); err == nil {
		cfg.ResumePromptTemplate = string(data)
	}

	return cfg, nil
}

// LoadFile decodes a TOML config file over the defaults. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if tc.ProjectsDir != "" {
		cfg.ProjectsDir = expandHome(tc.ProjectsDir)
	}
	if tc.DefaultLimit > 0 {
		cfg.DefaultLimit = tc.DefaultLimit
	}
	switch tc.Format {
	case "":
	case "text", "json":
		cfg.Format = tc.Format
	default:
		return nil, fmt.Errorf("invalid format %q in %s: must be text or json", tc.Format, path)
	}
	cfg.ClaudeFlags = tc.ClaudeFlags
	if tc.ResumePrompt != "" {
		cfg.ResumePromptTemplate = tc.ResumePrompt
	}
	if tc.GlamourStyle != "" {
		cfg.GlamourStyle = tc.GlamourStyle
	}

	return cfg, nil
}

func expandHome(path string) string {
	if path != "~" && (len(path) < 2 || path[:2] != "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
