package ccsessions

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Maximum accepted line length. Sessions with huge tool outputs can exceed the
// bufio default by orders of magnitude.
const maxLineSize = 10 * 1024 * 1024

// EntryKind distinguishes the records that affect a conversation
type EntryKind int

const (
	EntrySummary EntryKind = iota
	EntryMessage
)

// Entry is one decoded log line
type Entry struct {
	Kind    EntryKind
	Summary string
	Message Message

	// GitBranch is only meaningful when HasGitBranch is set
	GitBranch    string
	HasGitBranch bool
}

// ParseResult is the outcome of parsing one session file
type ParseResult struct {
	Conversation *Conversation // nil when the file had no user or assistant records
	Lines        int
	Skipped      int // non-blank lines that could not be decoded
}

// rawEntry represents a raw JSONL line. Every field tolerates a wrong JSON type
// so that one odd field never discards the whole record.
type rawEntry struct {
	Type       looseString `json:"type"`
	Summary    looseString `json:"summary"`
	UUID       looseString `json:"uuid"`
	ParentUUID looseString `json:"parentUuid"`
	Timestamp  looseString `json:"timestamp"`
	GitBranch  looseString `json:"gitBranch"`
	Message    rawMessage  `json:"message"`
}

type looseString struct {
	Value string
	Set   bool
}

func (s *looseString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err == nil {
		s.Value = v
		s.Set = true
	}
	return nil
}

type rawMessage struct {
	Content Content
}

func (m *rawMessage) UnmarshalJSON(data []byte) error {
	var inner struct {
		Content Content `json:"content"`
	}
	if err := json.Unmarshal(data, &inner); err == nil {
		m.Content = inner.Content
	}
	return nil
}

// ParseLine decodes a single log line. It reports false for blank lines, lines that
// are not JSON objects, and record types that do not contribute to a conversation.
func ParseLine(line []byte) (Entry, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Entry{}, false
	}

	var raw rawEntry
	if err := json.Unmarshal(line, &raw); err != nil {
		return Entry{}, false
	}

	switch raw.Type.Value {
	case "summary":
		return Entry{Kind: EntrySummary, Summary: raw.Summary.Value}, true

	case string(RoleUser), string(RoleAssistant):
		content := raw.Message.Content
		return Entry{
			Kind: EntryMessage,
			Message: Message{
				UUID:        raw.UUID.Value,
				ParentUUID:  raw.ParentUUID.Value,
				Role:        Role(raw.Type.Value),
				Content:     content.PlainText(),
				Timestamp:   raw.Timestamp.Value,
				ToolUses:    content.ToolUses(),
				ToolResults: content.ToolResults(),
			},
			GitBranch:    raw.GitBranch.Value,
			HasGitBranch: raw.GitBranch.Set,
		}, true
	}

	return Entry{}, false
}

// Builder folds the entries of one session file into a Conversation
type Builder struct {
	sessionID   string
	filePath    string
	projectPath string

	summary   string
	messages  []Message
	branch    string
	branchSet bool
	timestamp string
	tsSet     bool
}

// NewBuilder creates a builder for one session file
func NewBuilder(projectPath, sessionID, filePath string) *Builder {
	return &Builder{
		sessionID:   sessionID,
		filePath:    filePath,
		projectPath: projectPath,
	}
}

// Add applies one entry. Entries must be added in file order.
func (b *Builder) Add(e Entry) {
	if e.Kind == EntrySummary {
		b.summary = e.Summary
		return
	}

	if !b.branchSet && e.HasGitBranch {
		b.branch = e.GitBranch
		b.branchSet = true
	}
	if !b.tsSet {
		b.timestamp = e.Message.Timestamp
		b.tsSet = true
	}

	// Duplicate uuids are kept as-is; nothing downstream deduplicates.
	b.messages = append(b.messages, e.Message)
}

// Conversation returns the built conversation, or nil if no messages were added
func (b *Builder) Conversation() *Conversation {
	if len(b.messages) == 0 {
		return nil
	}
	return &Conversation{
		SessionID:   b.sessionID,
		FilePath:    b.filePath,
		Summary:     b.summary,
		Messages:    b.messages,
		ProjectPath: b.projectPath,
		GitBranch:   b.branch,
		Timestamp:   b.timestamp,
	}
}

// ParseReader parses session records from r. Undecodable lines, including lines longer
// than maxLineSize, are counted and skipped; only a read failure is returned as an error.
func ParseReader(r io.Reader, projectPath, sessionID, filePath string) (*ParseResult, error) {
	builder := NewBuilder(projectPath, sessionID, filePath)
	result := &ParseResult{}

	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		line, tooLong, err := readLine(reader)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("error reading file: %w", err)
		}
		if err == nil || len(line) > 0 || tooLong {
			result.Lines++
			switch {
			case tooLong:
				result.Skipped++
			default:
				if entry, ok := ParseLine(line); ok {
					builder.Add(entry)
				} else if len(bytes.TrimSpace(line)) > 0 && !json.Valid(line) {
					result.Skipped++
				}
			}
		}
		if err == io.EOF {
			break
		}
	}

	result.Conversation = builder.Conversation()
	return result, nil
}

// readLine returns the next line without its terminator. The rest of a line longer
// than maxLineSize is drained and discarded, and tooLong is set.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineSize+1 {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		return line, tooLong, err
	}
}

// ParseFile parses a Claude Code session JSONL file. The session ID is the file's base
// name and the project path is decoded from the containing directory name.
func ParseFile(path string) (result *ParseResult, err error) {
	file, ferr := os.Open(path)
	if ferr != nil {
		return nil, fmt.Errorf("failed to open file: %w", ferr)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return ParseReader(file, ProjectPathFromFile(path), SessionIDFromFile(path), path)
}

// SessionIDFromFile returns the file's base name without its extension
func SessionIDFromFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ProjectPathFromFile decodes the project path from the session file's parent directory
func ProjectPathFromFile(path string) string {
	return DecodeProjectPath(filepath.Base(filepath.Dir(path)))
}
