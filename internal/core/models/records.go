package models

import (
	"errors"
	"time"
)

// MaxRecordCommands caps the commands carried by a SearchRecord
const MaxRecordCommands = 10

// SearchRecord is one ranked conversation as handed to renderers and the MCP server
type SearchRecord struct {
	Score     float64  `json:"score"`
	SessionID string   `json:"session_id"`
	Project   string   `json:"project"`
	GitBranch string   `json:"git_branch"`
	Timestamp string   `json:"timestamp"`
	Summary   string   `json:"summary"`
	Problem   string   `json:"problem"`
	Solution  string   `json:"solution"`
	Commands  []string `json:"commands"`
	FilePath  string   `json:"file_path"`
}

// SearchReport wraps the results of one query
type SearchReport struct {
	Query        string         `json:"query"`
	TotalResults int            `json:"total_results"`
	Results      []SearchRecord `json:"results"`
}

// DigestSession is one session in a daily digest
type DigestSession struct {
	SessionID     string   `json:"session_id"`
	Project       string   `json:"project"`
	Branch        string   `json:"branch"`
	Timestamp     string   `json:"timestamp"`
	Problem       string   `json:"problem"`
	CommandsCount int      `json:"commands_count"`
	Files         []string `json:"files"`
	Topics        []string `json:"topics"`
}

// DigestReport lists a day's sessions in chronological order
type DigestReport struct {
	Date         string          `json:"date"`
	SessionCount int             `json:"session_count"`
	Sessions     []DigestSession `json:"sessions"`

	Day time.Time `json:"-"`
}

// Validate checks the fields every record must carry
func (r *SearchRecord) Validate() error {
	if r.SessionID == "" {
		return errors.New("session_id is required")
	}
	if r.Score <= 0 {
		return errors.New("score must be positive")
	}
	if len(r.Commands) > MaxRecordCommands {
		return errors.New("too many commands")
	}
	return nil
}
