package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilberkman/cchistory/internal/core/config"
	"github.com/neilberkman/cchistory/pkg/ccsessions"
)

var now = time.Date(2025, 1, 18, 12, 0, 0, 0, time.UTC)

func testConversation() *ccsessions.Conversation {
	return &ccsessions.Conversation{
		SessionID:   "abc-123",
		ProjectPath: "/Users/me/my app",
		GitBranch:   "fix/emfile",
		Summary:     "Fix EMFILE & retry",
		Timestamp:   "2025-01-15T09:00:00Z",
		Messages: []ccsessions.Message{
			{Role: ccsessions.RoleUser, Content: "help", Timestamp: "2025-01-15T09:00:00Z"},
			{Role: ccsessions.RoleAssistant, Content: "done", Timestamp: "2025-01-15T12:00:00Z"},
		},
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc-123", "abc-123"},
		{"/Users/me/app", "/Users/me/app"},
		{"", "''"},
		{"my app", "'my app'"},
		{"it's", `'it'\''s'`},
		{"$(rm -rf /)", "'$(rm -rf /)'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ShellQuote(tt.in))
		})
	}
}

func TestRenderResumePrompt(t *testing.T) {
	prompt, err := RenderResumePrompt(testConversation(), config.DefaultResumePrompt, now)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Resuming session from January 15, 2025 at 12:00.")
	assert.Contains(t, prompt, "You were on branch fix/emfile.")
	assert.Contains(t, prompt, "Last time: Fix EMFILE & retry")
	assert.Contains(t, prompt, "inactive for 3 days.")
}

func TestRenderResumePrompt_NoBranchNoTimestamp(t *testing.T) {
	conv := testConversation()
	conv.GitBranch = ""
	conv.Timestamp = ""
	for i := range conv.Messages {
		conv.Messages[i].Timestamp = ""
	}

	prompt, err := RenderResumePrompt(conv, config.DefaultResumePrompt, now)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "branch")
	assert.Contains(t, prompt, "an unknown amount of time")
}

func TestBuildResumeCommand(t *testing.T) {
	cfg := config.Default()
	cfg.ClaudeFlags = []string{"--model", "opus"}
	cfg.ResumePromptTemplate = "Back to {{{problem}}}"

	cmd, err := BuildResumeCommand(testConversation(), cfg, now)
	require.NoError(t, err)
	assert.Equal(t, "cd '/Users/me/my app' && claude --model opus --resume abc-123 'Back to Fix EMFILE & retry'", cmd)
}

func TestBuildResumeCommand_BadTemplateFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.ResumePromptTemplate = "{{#unclosed}}"

	cmd, err := BuildResumeCommand(testConversation(), cfg, now)
	require.NoError(t, err)
	assert.Contains(t, cmd, "--resume abc-123 'Resuming session abc-123 in /Users/me/my app.'")
}

func TestBuildResumeCommand_NoSession(t *testing.T) {
	_, err := BuildResumeCommand(nil, config.Default(), now)
	assert.Error(t, err)
}
