package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilberkman/cchistory/internal/core/models"
	"github.com/neilberkman/cchistory/internal/core/projects"
	"github.com/neilberkman/cchistory/internal/core/search"
)

const sessionLog = `{"type":"summary","summary":"Fix EMFILE too many open files"}
{"type":"user","uuid":"u1","timestamp":"2025-01-15T09:00:00Z","gitBranch":"main","message":{"role":"user","content":"jest fails with EMFILE"}}
{"type":"assistant","uuid":"a1","timestamp":"2025-01-15T09:01:00Z","message":{"role":"assistant","content":[{"type":"text","text":"Raise the limit"},{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"ulimit -n 4096"}}]}}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "-Users-me-api", "session-1.jsonl")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(sessionLog), 0o644))

	s := New(search.NewSearcher(projects.NewDirLister(root, nil)), 5)
	s.now = func() time.Time { return time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC) }
	return s
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestSearchHistory(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleSearchHistory(context.Background(), call(map[string]any{
		"query": "EMFILE",
		"today": true,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var report models.SearchReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, "EMFILE", report.Query)
	require.Equal(t, 1, report.TotalResults)
	assert.Equal(t, "session-1", report.Results[0].SessionID)
	assert.Equal(t, "/Users/me/api", report.Results[0].Project)
	assert.Equal(t, []string{"ulimit -n 4096"}, report.Results[0].Commands)
}

func TestSearchHistory_NoMatchesIsNotAnError(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleSearchHistory(context.Background(), call(map[string]any{
		"query":     "EMFILE",
		"yesterday": true,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"total_results":0`)
}

func TestSearchHistory_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing query", map[string]any{}, "query is required"},
		{"bad since", map[string]any{"query": "x", "since": "01/02/2025"}, "invalid date"},
		{"bad limit type", map[string]any{"query": "x", "limit": "ten"}, "invalid arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleSearchHistory(context.Background(), call(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestDailyDigest(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleDailyDigest(context.Background(), call(map[string]any{"date": "2025-01-15", "project": "api"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var report models.DigestReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, "2025-01-15", report.Date)
	require.Equal(t, 1, report.SessionCount)
	assert.Equal(t, "main", report.Sessions[0].Branch)
	assert.Equal(t, 1, report.Sessions[0].CommandsCount)
}

func TestDailyDigest_DefaultsToToday(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleDailyDigest(context.Background(), call(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"date":"2025-01-15"`)
	assert.Contains(t, resultText(t, res), `"session_count":1`)
}

func TestDailyDigest_InvalidDate(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleDailyDigest(context.Background(), call(map[string]any{"date": "gibberish"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMCPServer(t *testing.T) {
	assert.NotNil(t, newTestServer(t).MCPServer("test"))
}
