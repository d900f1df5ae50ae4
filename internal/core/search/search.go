package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/neilberkman/cchistory/internal/core/daterange"
	"github.com/neilberkman/cchistory/internal/core/excerpt"
	"github.com/neilberkman/cchistory/internal/core/models"
	"github.com/neilberkman/cchistory/internal/core/projects"
	"github.com/neilberkman/cchistory/pkg/ccsessions"
)

// ErrEmptyQuery is returned when the query is blank
var ErrEmptyQuery = errors.New("search query cannot be empty")

// Result is one conversation that matched a query
type Result struct {
	Conversation *ccsessions.Conversation
	Score        float64
	Matched      []*ccsessions.Message
	Problem      string
	Solution     string
	Commands     []string
}

// Options controls a search
type Options struct {
	Query    string
	Project  string              // project path or partial directory name, "" for all
	Limit    int                 // <= 0 means unlimited
	Interval *daterange.Interval // nil means any time
}

// Searcher scans session logs on every call. Nothing is cached between calls.
type Searcher struct {
	lister projects.Lister
	logger *zap.Logger
}

// Option configures a Searcher
type Option func(*Searcher)

// WithLogger sets the logger used for skipped files and lines
func WithLogger(logger *zap.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSearcher creates a searcher over the files enumerated by lister
func NewSearcher(lister projects.Lister, opts ...Option) *Searcher {
	s := &Searcher{lister: lister, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search ranks every conversation admitted by the project and date filters against
// the query, highest score first. Equal scores keep enumeration order.
// A blank query is rejected with ErrEmptyQuery before any scanning; a query with no
// word characters yields an empty result.
func (s *Searcher) Search(opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, ErrEmptyQuery
	}

	q := Tokenize(opts.Query)
	if len(q) == 0 {
		return []Result{}, nil
	}

	convs, err := s.conversations(opts.Project, opts.Interval)
	if err != nil {
		return nil, err
	}

	results := []Result{}
	for _, conv := range convs {
		score, matched := scoreTokens(q, conv)
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			Conversation: conv,
			Score:        score,
			Matched:      matched,
			Problem:      excerpt.Problem(conv),
			Solution:     excerpt.Solution(matched),
			Commands:     excerpt.Commands(conv),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	s.logger.Debug("search complete",
		zap.String("query", opts.Query),
		zap.Int("conversations", len(convs)),
		zap.Int("results", len(results)))

	return results, nil
}

// conversations builds every conversation of the admitted projects whose first
// timestamp falls inside the interval
func (s *Searcher) conversations(project string, interval *daterange.Interval) ([]*ccsessions.Conversation, error) {
	files, err := s.lister.SessionFiles(project)
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	var convs []*ccsessions.Conversation
	for _, path := range files {
		result, err := ccsessions.ParseFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable session file", zap.String("file", path), zap.Error(err))
			continue
		}
		if result.Skipped > 0 {
			s.logger.Debug("skipped malformed lines",
				zap.String("file", path),
				zap.Int("skipped", result.Skipped),
				zap.Int("lines", result.Lines))
		}

		conv := result.Conversation
		if conv == nil || !interval.Contains(conv.Timestamp) {
			continue
		}
		convs = append(convs, conv)
	}

	return convs, nil
}

// NewSearchReport converts results into output records. Results that would not
// make a valid record, such as a zero score, are left out.
func NewSearchReport(query string, results []Result) models.SearchReport {
	records := make([]models.SearchRecord, 0, len(results))
	for _, r := range results {
		commands := r.Commands
		if len(commands) > models.MaxRecordCommands {
			commands = commands[:models.MaxRecordCommands]
		}
		if commands == nil {
			commands = []string{}
		}
		record := models.SearchRecord{
			Score:     r.Score,
			SessionID: r.Conversation.SessionID,
			Project:   r.Conversation.ProjectPath,
			GitBranch: r.Conversation.GitBranch,
			Timestamp: r.Conversation.Timestamp,
			Summary:   r.Conversation.Summary,
			Problem:   r.Problem,
			Solution:  r.Solution,
			Commands:  commands,
			FilePath:  r.Conversation.FilePath,
		}
		if err := record.Validate(); err != nil {
			continue
		}
		records = append(records, record)
	}

	return models.SearchReport{
		Query:        query,
		TotalResults: len(records),
		Results:      records,
	}
}
