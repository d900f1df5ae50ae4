package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"

	"github.com/neilberkman/cchistory/internal/core/config"
	"github.com/neilberkman/cchistory/internal/core/daterange"
	"github.com/neilberkman/cchistory/internal/core/excerpt"
	"github.com/neilberkman/cchistory/pkg/ccsessions"
)

// BuildResumeCommand builds a shell command that returns to the conversation's
// project directory and resumes it with claude, passing config flags and the
// rendered resume prompt
func BuildResumeCommand(conv *ccsessions.Conversation, cfg *config.Config, now time.Time) (string, error) {
	if conv == nil || conv.SessionID == "" {
		return "", fmt.Errorf("no session to resume")
	}

	prompt, err := RenderResumePrompt(conv, cfg.ResumePromptTemplate, now)
	if err != nil {
		// Fall back to simple prompt if template fails
		prompt = fmt.Sprintf("Resuming session %s in %s.", conv.SessionID, conv.ProjectPath)
	}

	parts := []string{"claude"}
	parts = append(parts, cfg.ClaudeFlags...)
	parts = append(parts, "--resume", ShellQuote(conv.SessionID))
	if prompt != "" {
		parts = append(parts, ShellQuote(prompt))
	}
	cmd := strings.Join(parts, " ")

	if conv.ProjectPath != "" {
		cmd = "cd " + ShellQuote(conv.ProjectPath) + " && " + cmd
	}
	return cmd, nil
}

// RenderResumePrompt renders the mustache resume template for a conversation
func RenderResumePrompt(conv *ccsessions.Conversation, template string, now time.Time) (string, error) {
	lastUpdated := conv.Timestamp
	timeSince := "an unknown amount of time"

	if ts := lastTimestamp(conv); ts != "" {
		if t, ok := daterange.ParseTimestamp(ts, now.Location()); ok {
			lastUpdated = t.Format("January 2, 2006 at 15:04")
			timeSince = strings.TrimSpace(humanize.RelTime(t, now, "", ""))
		}
	}

	templateData := map[string]interface{}{
		"session_id":   conv.SessionID,
		"project_path": conv.ProjectPath,
		"git_branch":   conv.GitBranch,
		"problem":      excerpt.Problem(conv),
		"last_updated": lastUpdated,
		"time_since":   timeSince,
	}

	prompt, err := mustache.Render(template, templateData)
	if err != nil {
		return "", fmt.Errorf("failed to render resume prompt: %w", err)
	}
	return strings.TrimSpace(prompt), nil
}

// ShellQuote wraps s in single quotes for a POSIX shell
func ShellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./=:@%+,", r)
}

// lastTimestamp returns the timestamp of the last message that carries one
func lastTimestamp(conv *ccsessions.Conversation) string {
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if ts := conv.Messages[i].Timestamp; ts != "" {
			return ts
		}
	}
	return conv.Timestamp
}
