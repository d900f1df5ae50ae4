package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/neilberkman/cchistory/internal/core/daterange"
	"github.com/neilberkman/cchistory/internal/core/projects"
	"github.com/neilberkman/cchistory/internal/core/search"
)

// SearchHistoryArgs defines arguments for the search_history tool
type SearchHistoryArgs struct {
	Query     string `json:"query" jsonschema:"description=Free-text query,required"`
	Project   string `json:"project,omitempty" jsonschema:"description=Project path or partial directory name"`
	Limit     int    `json:"limit,omitempty" jsonschema:"description=Max conversations to return (default: 5)"`
	Today     bool   `json:"today,omitempty" jsonschema:"description=Only sessions from today"`
	Yesterday bool   `json:"yesterday,omitempty" jsonschema:"description=Only sessions from yesterday"`
	Days      int    `json:"days,omitempty" jsonschema:"description=Only sessions from the last N days"`
	Since     string `json:"since,omitempty" jsonschema:"description=Only sessions since YYYY-MM-DD"`
}

// DailyDigestArgs defines arguments for the daily_digest tool
type DailyDigestArgs struct {
	Date    string `json:"date,omitempty" jsonschema:"description=today, yesterday, YYYY-MM-DD or an expression like 'last friday'"`
	Project string `json:"project,omitempty" jsonschema:"description=Project path or partial directory name"`
}

// Server answers MCP tool calls against session logs
type Server struct {
	searcher     *search.Searcher
	defaultLimit int
	now          func() time.Time
}

// New creates a server. defaultLimit applies when a call omits limit.
func New(searcher *search.Searcher, defaultLimit int) *Server {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &Server{searcher: searcher, defaultLimit: defaultLimit, now: time.Now}
}

// MCPServer builds the MCP server with every tool registered
func (s *Server) MCPServer(version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"cchistory",
		version,
	)

	// Register search_history tool
	searchTool := mcp.NewTool("search_history",
		mcp.WithDescription("Search past Claude Code conversations for a problem and how it was solved. Returns ranked conversations with the problem, the solution and the shell commands that were run."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text query, e.g. 'EMFILE too many open files'")),
		mcp.WithString("project",
			mcp.Description("Project path or partial directory name")),
		mcp.WithNumber("limit",
			mcp.Description("Max conversations to return (default: 5)")),
		mcp.WithBoolean("today",
			mcp.Description("Only sessions from today")),
		mcp.WithBoolean("yesterday",
			mcp.Description("Only sessions from yesterday")),
		mcp.WithNumber("days",
			mcp.Description("Only sessions from the last N days")),
		mcp.WithString("since",
			mcp.Description("Only sessions since this date (YYYY-MM-DD)")),
	)
	srv.AddTool(searchTool, s.handleSearchHistory)

	// Register daily_digest tool
	digestTool := mcp.NewTool("daily_digest",
		mcp.WithDescription("Summarise the Claude Code sessions of one day in chronological order: problem, branch, files touched, commands run and topics."),
		mcp.WithString("date",
			mcp.Description("today (default), yesterday, YYYY-MM-DD, or an expression like 'last friday'")),
		mcp.WithString("project",
			mcp.Description("Project path or partial directory name")),
	)
	srv.AddTool(digestTool, s.handleDailyDigest)

	return srv
}

// StartServer serves MCP over stdio until stdin closes
func StartServer(searcher *search.Searcher, defaultLimit int, version string) error {
	return server.ServeStdio(New(searcher, defaultLimit).MCPServer(version))
}

func (s *Server) handleSearchHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args SearchHistoryArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	// Set defaults (interface concern - pagination)
	limit := args.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	filter := daterange.Filter{Today: args.Today, Yesterday: args.Yesterday, Days: args.Days, Since: args.Since}
	interval, err := filter.Resolve(s.now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	project, err := projects.NormalizeProject(args.Project)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, err := s.searcher.Search(search.Options{
		Query:    args.Query,
		Project:  project,
		Limit:    limit,
		Interval: interval,
	})
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			return mcp.NewToolResultError("query is required"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return jsonResult(search.NewSearchReport(args.Query, results))
}

func (s *Server) handleDailyDigest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args DailyDigestArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	day, err := daterange.ParseDay(args.Date, s.now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	project, err := projects.NormalizeProject(args.Project)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.searcher.DigestReport(day, project)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("digest failed: %v", err)), nil
	}

	return jsonResult(report)
}

func decodeArgs(request mcp.CallToolRequest, v any) error {
	argsBytes, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(argsBytes, v)
}

// jsonResult returns v as JSON text (interface concern - protocol)
func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}
