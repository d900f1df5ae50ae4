package ccsessions

import "strings"

// AgentFilePrefix marks sub-agent session files, which are never treated as sessions
const AgentFilePrefix = "agent-"

// DecodeProjectPath turns a project directory name back into a filesystem path:
// a leading "-" becomes "/" and every other "-" becomes "/".
//
// The encoding is lossy. A project path that itself contains "-" cannot be
// recovered: "/Users/me/my-app" is stored as "-Users-me-my-app" and decodes
// to "/Users/me/my/app".
func DecodeProjectPath(encoded string) string {
	if strings.HasPrefix(encoded, "-") {
		return "/" + strings.ReplaceAll(encoded[1:], "-", "/")
	}
	return strings.ReplaceAll(encoded, "-", "/")
}

// EncodeProjectPath maps a project path to its directory name. See DecodeProjectPath
// for the round-trip caveat.
func EncodeProjectPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	return "-" + strings.ReplaceAll(path, "/", "-")
}

// IsAgentFile reports whether a session file name belongs to a sub-agent
func IsAgentFile(name string) bool {
	return strings.HasPrefix(name, AgentFilePrefix)
}
