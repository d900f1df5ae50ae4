package search

import (
	"sort"
	"time"

	"github.com/neilberkman/cchistory/internal/core/daterange"
	"github.com/neilberkman/cchistory/internal/core/excerpt"
	"github.com/neilberkman/cchistory/internal/core/models"
	"github.com/neilberkman/cchistory/pkg/ccsessions"
)

// Digest returns the conversations that started on day, oldest first
func (s *Searcher) Digest(day time.Time, project string) ([]*ccsessions.Conversation, error) {
	interval := daterange.ForDay(day)
	convs, err := s.conversations(project, &interval)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(convs, func(i, j int) bool {
		return startedBefore(convs[i].Timestamp, convs[j].Timestamp, day.Location())
	})
	return convs, nil
}

// startedBefore orders timestamps by instant, falling back to string order when
// either one does not parse
func startedBefore(a, b string, loc *time.Location) bool {
	ta, okA := daterange.ParseTimestamp(a, loc)
	tb, okB := daterange.ParseTimestamp(b, loc)
	if okA && okB {
		return ta.Before(tb)
	}
	return a < b
}

// DigestReport summarises each conversation of the day
func (s *Searcher) DigestReport(day time.Time, project string) (models.DigestReport, error) {
	convs, err := s.Digest(day, project)
	if err != nil {
		return models.DigestReport{}, err
	}

	sessions := make([]models.DigestSession, 0, len(convs))
	for _, conv := range convs {
		files := excerpt.FilesTouched(conv)
		topics := excerpt.Topics(conv)
		if topics == nil {
			topics = []string{}
		}
		sessions = append(sessions, models.DigestSession{
			SessionID:     conv.SessionID,
			Project:       conv.ProjectPath,
			Branch:        conv.GitBranch,
			Timestamp:     conv.Timestamp,
			Problem:       excerpt.Problem(conv),
			CommandsCount: len(excerpt.Commands(conv)),
			Files:         files,
			Topics:        topics,
		})
	}

	return models.DigestReport{
		Date:         day.Format(daterange.DayLayout),
		SessionCount: len(sessions),
		Sessions:     sessions,
		Day:          daterange.StartOfDay(day),
	}, nil
}
