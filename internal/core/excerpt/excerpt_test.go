package excerpt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neilberkman/cchistory/pkg/ccsessions"
)

func user(content string, tools ...ccsessions.ToolUse) ccsessions.Message {
	return ccsessions.Message{Role: ccsessions.RoleUser, Content: content, ToolUses: tools}
}

func assistant(content string, tools ...ccsessions.ToolUse) ccsessions.Message {
	return ccsessions.Message{Role: ccsessions.RoleAssistant, Content: content, ToolUses: tools}
}

func tool(name string, input map[string]any) ccsessions.ToolUse {
	return ccsessions.ToolUse{Name: name, Input: input}
}

func TestProblem(t *testing.T) {
	long := strings.Repeat("é", 250)

	tests := []struct {
		name string
		conv ccsessions.Conversation
		want string
	}{
		{
			name: "summary wins",
			conv: ccsessions.Conversation{Summary: "Fix EMFILE", Messages: []ccsessions.Message{user("something else")}},
			want: "Fix EMFILE",
		},
		{
			name: "skips structured payloads and assistant turns",
			conv: ccsessions.Conversation{Messages: []ccsessions.Message{
				assistant("hello"),
				user(`  [{"tool_use_id":"x"}]`),
				user("{\"a\":1}"),
				user("   "),
				user("  real question  "),
			}},
			want: "real question",
		},
		{
			name: "truncates by character",
			conv: ccsessions.Conversation{Messages: []ccsessions.Message{user(long)}},
			want: strings.Repeat("é", 200) + "...",
		},
		{
			name: "placeholder",
			conv: ccsessions.Conversation{Messages: []ccsessions.Message{assistant("only me")}},
			want: NoProblem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Problem(&tt.conv))
		})
	}
}

func TestSolution(t *testing.T) {
	a1 := assistant("first fix")
	a2 := assistant("  final fix  ")
	empty := assistant("   ")
	u := user("thanks")

	assert.Equal(t, "final fix", Solution([]*ccsessions.Message{&a1, &a2, &empty, &u}))
	assert.Equal(t, NoSolution, Solution([]*ccsessions.Message{&u}))
	assert.Equal(t, NoSolution, Solution(nil))

	long := assistant(strings.Repeat("x", 301))
	assert.Equal(t, strings.Repeat("x", 300)+"...", Solution([]*ccsessions.Message{&long}))
}

func TestCommands(t *testing.T) {
	conv := &ccsessions.Conversation{Messages: []ccsessions.Message{
		assistant("", tool("Bash", map[string]any{"command": "npm test"}), tool("Read", map[string]any{"file_path": "/a/b.go"})),
		assistant("", tool("Bash", map[string]any{"command": ""}), tool("Bash", map[string]any{"command": 3})),
		assistant("", tool("Bash", map[string]any{"command": "go build ./..."})),
	}}

	assert.Equal(t, []string{"npm test", "go build ./..."}, Commands(conv))
}

func TestFilesTouched(t *testing.T) {
	var tools []ccsessions.ToolUse
	for _, name := range []string{"k", "j", "i", "h", "g", "f", "e", "d", "c", "b", "a"} {
		tools = append(tools, tool("Edit", map[string]any{"file_path": "/src/" + name + ".go"}))
	}
	tools = append(tools,
		tool("Read", map[string]any{"file_path": "/other/a.go"}),
		tool("Glob", map[string]any{"pattern": "**/*.ts"}),
		tool("Grep", map[string]any{"pattern": "TODO"}),
	)
	conv := &ccsessions.Conversation{Messages: []ccsessions.Message{assistant("", tools...)}}

	files := FilesTouched(conv)
	assert.Len(t, files, 10)
	assert.Equal(t, "a.go", files[0])
	assert.Equal(t, "glob:**/*.ts", files[7])
	assert.Equal(t, "i.go", files[9])
	assert.True(t, sortedStrings(files))
}

func TestFilesTouched_Small(t *testing.T) {
	conv := &ccsessions.Conversation{Messages: []ccsessions.Message{
		assistant("", tool("Write", map[string]any{"file_path": "/x/README.md"}), tool("Glob", map[string]any{"pattern": "*.go"})),
	}}
	assert.Equal(t, []string{"README.md", "glob:*.go"}, FilesTouched(conv))
}

func TestTopics(t *testing.T) {
	conv := &ccsessions.Conversation{Messages: []ccsessions.Message{
		assistant("Add something"),
		user(`Please FIX the "Login Page" and "api" bug, then "a" "b" and add a test`),
		user("refactor everything"),
	}}

	assert.Equal(t, []string{"login page", "api", "a", "adding", "fixing", "testing"}, Topics(conv))
}

func TestTopics_OnlyFirstThreeMessages(t *testing.T) {
	conv := &ccsessions.Conversation{Messages: []ccsessions.Message{
		assistant("x"), assistant("y"), assistant("z"), user("please debug this"),
	}}
	assert.Empty(t, Topics(conv))
}

func TestTopics_KeywordCap(t *testing.T) {
	conv := &ccsessions.Conversation{Messages: []ccsessions.Message{
		user("add fix implement refactor test debug"),
	}}
	assert.Equal(t, []string{"adding", "fixing", "implementing", "refactoring", "testing"}, Topics(conv))
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
