package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, cfg.DefaultLimit)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultResumePrompt, cfg.ResumePromptTemplate)
	assert.Empty(t, cfg.ClaudeFlags)
	assert.Equal(t, DefaultGlamourStyle, cfg.GlamourStyle)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
projects_dir = "/data/claude/projects"
default_limit = 12
format = "json"
claude_flags = ["--dangerously-skip-permissions"]
resume_prompt = "back to {{problem}}"
glamour_style = "light"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/claude/projects", cfg.ProjectsDir)
	assert.Equal(t, 12, cfg.DefaultLimit)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, []string{"--dangerously-skip-permissions"}, cfg.ClaudeFlags)
	assert.Equal(t, "back to {{problem}}", cfg.ResumePromptTemplate)
	assert.Equal(t, "light", cfg.GlamourStyle)
}

func TestLoadFile_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := LoadFile(writeConfig(t, `projects_dir = "~/logs"`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs"), cfg.ProjectsDir)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", `default_limit = `},
		{"bad format", `format = "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDefaultProjectsDir_ClaudeHome(t *testing.T) {
	t.Setenv(ClaudeHomeEnv, "/opt/claude")
	assert.Equal(t, filepath.Join("/opt/claude", "projects"), DefaultProjectsDir())
	assert.Equal(t, filepath.Join("/opt/claude", "projects"), Default().ProjectsDir)
}

func TestLoad_ReadsResumePromptFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "cchistory")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("default_limit = 3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume_prompt.txt"), []byte("custom"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.DefaultLimit)
	assert.Equal(t, "custom", cfg.ResumePromptTemplate)
}
