package sync

import (
	"time"

	"github.com/talkstream/convosync/internal/platform"
)

type Metrics struct {
	MessageCount    int
	FirstResponse   *time.Time
	LastResponse    *time.Time
	DurationSeconds *int
	IsComplete      bool
}

// ComputeMetrics derives transcript metrics from an already-ordered turn
// sequence. First/last come from sequence position, not min/max, so they
// stay consistent with the persisted tie-break ordering.
func ComputeMetrics(turns []platform.Turn) Metrics {
	var m Metrics
	for _, turn := range turns {
		if turn.Type == platform.TurnTypeText || turn.Type == platform.TurnTypeRequest {
			m.MessageCount++
		}
	}
	if len(turns) == 0 {
		return m
	}

	first := turns[0].StartedAt
	last := turns[len(turns)-1].StartedAt
	duration := int(last.Sub(first) / time.Second)
	m.FirstResponse = &first
	m.LastResponse = &last
	m.DurationSeconds = &duration

	lastTurn := turns[len(turns)-1]
	switch lastTurn.Type {
	case platform.TurnTypeChoice:
		m.IsComplete = true
	case platform.TurnTypeText:
		m.IsComplete = !requestAfter(turns, lastTurn.StartedAt)
	}
	return m
}

// requestAfter reports whether any request turn starts strictly after the
// given timestamp, i.e. the conversation ended waiting on unanswered input.
func requestAfter(turns []platform.Turn, after time.Time) bool {
	for _, turn := range turns {
		if turn.Type == platform.TurnTypeRequest && turn.StartedAt.After(after) {
			return true
		}
	}
	return false
}
