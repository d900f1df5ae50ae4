package search

import "github.com/neilberkman/cchistory/pkg/ccsessions"

// Scoring weights
const (
	SummaryWeight = 3.0
	UserBoost     = 1.5
	ToolUseBoost  = 1.3
)

// Score ranks a conversation against a query. The result is an open-ended weighted
// sum of per-message token overlap; it is comparable across conversations for the
// same query only. Matched messages are returned in file order.
func Score(query string, conv *ccsessions.Conversation) (float64, []*ccsessions.Message) {
	return scoreTokens(Tokenize(query), conv)
}

func scoreTokens(q TokenSet, conv *ccsessions.Conversation) (float64, []*ccsessions.Message) {
	if len(q) == 0 {
		return 0, nil
	}
	size := float64(len(q))

	var score float64
	if conv.Summary != "" {
		score += SummaryWeight * float64(q.Overlap(Tokenize(conv.Summary))) / size
	}

	var matched []*ccsessions.Message
	for i := range conv.Messages {
		msg := &conv.Messages[i]
		overlap := q.Overlap(Tokenize(msg.Content))
		if overlap == 0 {
			continue
		}

		base := float64(overlap) / size
		if msg.Role == ccsessions.RoleUser {
			base *= UserBoost
		}
		if len(msg.ToolUses) > 0 {
			base *= ToolUseBoost
		}

		score += base
		matched = append(matched, msg)
	}

	return score, matched
}
