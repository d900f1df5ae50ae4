package ccsessions

// Role is the speaker of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolUse is a tool invocation recorded in an assistant turn
type ToolUse struct {
	Name  string
	Input map[string]any
}

// InputString returns a string-valued input parameter, or "" when it is absent or not a string
func (t ToolUse) InputString(key string) string {
	s, _ := t.Input[key].(string)
	return s
}

// ToolResult holds the text returned by a tool. Non-text payloads are dropped during parsing.
type ToolResult struct {
	Content string
}

// Message is one user or assistant turn.
//
// ParentUUID is kept for fidelity only. Messages are ordered by their position in the
// file, which is assumed (not verified) to match the logical order of the turn tree.
type Message struct {
	UUID        string
	ParentUUID  string
	Role        Role
	Content     string
	Timestamp   string
	ToolUses    []ToolUse
	ToolResults []ToolResult
}

// Conversation is one session log. It always holds at least one message.
type Conversation struct {
	SessionID   string
	FilePath    string
	Summary     string
	Messages    []Message
	ProjectPath string
	GitBranch   string
	Timestamp   string // first message's timestamp, may be empty
}
