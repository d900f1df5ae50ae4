// Package excerpt derives human-facing summaries from a conversation: what the
// problem was, how it was solved, which commands ran, which files were touched
// and a few topic tags. None of it affects ranking.
package excerpt

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/neilberkman/cchistory/pkg/ccsessions"
)

const (
	NoProblem  = "No problem description found"
	NoSolution = "No solution found"

	problemMaxLen  = 200
	solutionMaxLen = 300
	maxFiles       = 10
	maxQuoted      = 3
	maxKeywordTags = 5
	topicWindow    = 3

	// Tool names as recorded by Claude Code
	ToolBash  = "Bash"
	ToolRead  = "Read"
	ToolWrite = "Write"
	ToolEdit  = "Edit"
	ToolGlob  = "Glob"
)

var quotedPattern = regexp.MustCompile(`"([^"]+)"`)

// keyword tags in the order they are reported
var keywordTags = []struct {
	keyword string
	tag     string
}{
	{"add", "adding"},
	{"fix", "fixing"},
	{"implement", "implementing"},
	{"refactor", "refactoring"},
	{"test", "testing"},
	{"debug", "debugging"},
}

// Problem returns the session summary, or else the first user message that does not
// look like raw structured data, cut to 200 characters.
func Problem(conv *ccsessions.Conversation) string {
	if conv.Summary != "" {
		return conv.Summary
	}

	for _, msg := range conv.Messages {
		if msg.Role != ccsessions.RoleUser {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		// tool results and pasted payloads
		if strings.HasPrefix(content, "[") || strings.HasPrefix(content, "{") {
			continue
		}
		return Truncate(content, problemMaxLen)
	}

	return NoProblem
}

// Solution returns the last matched assistant message with content, cut to 300 characters
func Solution(matched []*ccsessions.Message) string {
	for i := len(matched) - 1; i >= 0; i-- {
		msg := matched[i]
		if msg.Role != ccsessions.RoleAssistant {
			continue
		}
		if content := strings.TrimSpace(msg.Content); content != "" {
			return Truncate(content, solutionMaxLen)
		}
	}
	return NoSolution
}

// Commands returns every non-empty shell command in file order
func Commands(conv *ccsessions.Conversation) []string {
	var commands []string
	for _, msg := range conv.Messages {
		for _, tool := range msg.ToolUses {
			if tool.Name != ToolBash {
				continue
			}
			if cmd := tool.InputString("command"); cmd != "" {
				commands = append(commands, cmd)
			}
		}
	}
	return commands
}

// FilesTouched returns base names of read/written/edited files plus "glob:" patterns,
// deduplicated, sorted and capped at 10
func FilesTouched(conv *ccsessions.Conversation) []string {
	seen := make(map[string]bool)
	for _, msg := range conv.Messages {
		for _, tool := range msg.ToolUses {
			switch tool.Name {
			case ToolRead, ToolWrite, ToolEdit:
				if path := tool.InputString("file_path"); path != "" {
					seen[filepath.Base(path)] = true
				}
			case ToolGlob:
				if pattern := tool.InputString("pattern"); pattern != "" {
					seen["glob:"+pattern] = true
				}
			}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)

	if len(files) > maxFiles {
		files = files[:maxFiles]
	}
	return files
}

// Topics tags the opening request: up to three quoted phrases followed by up to
// five action tags triggered by plain substring matches ("prefix" triggers "fixing").
func Topics(conv *ccsessions.Conversation) []string {
	window := conv.Messages
	if len(window) > topicWindow {
		window = window[:topicWindow]
	}

	var topics []string
	for _, msg := range window {
		if msg.Role != ccsessions.RoleUser {
			continue
		}
		content := strings.ToLower(msg.Content)
		seen := make(map[string]bool)

		quoted := 0
		for _, m := range quotedPattern.FindAllStringSubmatch(content, -1) {
			if quoted == maxQuoted {
				break
			}
			quoted++
			if !seen[m[1]] {
				seen[m[1]] = true
				topics = append(topics, m[1])
			}
		}

		tags := 0
		for _, kt := range keywordTags {
			if tags == maxKeywordTags {
				break
			}
			if strings.Contains(content, kt.keyword) && !seen[kt.tag] {
				seen[kt.tag] = true
				topics = append(topics, kt.tag)
				tags++
			}
		}
		break
	}

	return topics
}

// Truncate cuts s to max characters and appends "..." when anything was removed
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
