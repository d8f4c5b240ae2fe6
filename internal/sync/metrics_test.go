package sync

import (
	"testing"
	"time"

	"github.com/talkstream/convosync/internal/platform"
)

var metricsBase = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func orderedTurns(specs ...struct {
	turnType string
	offset   time.Duration
}) []platform.Turn {
	turns := make([]platform.Turn, 0, len(specs))
	for i, s := range specs {
		turns = append(turns, platform.Turn{
			ID:        string(rune('a' + i)),
			Type:      s.turnType,
			StartedAt: metricsBase.Add(s.offset),
		})
	}
	platform.SortTurns(turns)
	return turns
}

func turnSpec(turnType string, offset time.Duration) struct {
	turnType string
	offset   time.Duration
} {
	return struct {
		turnType string
		offset   time.Duration
	}{turnType, offset}
}

func TestComputeMetrics_RequestThenText(t *testing.T) {
	turns := orderedTurns(
		turnSpec(platform.TurnTypeRequest, 0),
		turnSpec(platform.TurnTypeText, 5*time.Second),
	)
	m := ComputeMetrics(turns)
	if m.MessageCount != 2 {
		t.Fatalf("expected message count 2, got %d", m.MessageCount)
	}
	if m.DurationSeconds == nil || *m.DurationSeconds != 5 {
		t.Fatalf("expected duration 5, got %v", m.DurationSeconds)
	}
	if !m.IsComplete {
		t.Fatal("expected conversation to be complete")
	}
	if m.FirstResponse == nil || !m.FirstResponse.Equal(metricsBase) {
		t.Fatalf("unexpected first response: %v", m.FirstResponse)
	}
	if m.LastResponse == nil || !m.LastResponse.Equal(metricsBase.Add(5*time.Second)) {
		t.Fatalf("unexpected last response: %v", m.LastResponse)
	}
}

func TestComputeMetrics_EndsOnUnansweredRequest(t *testing.T) {
	turns := orderedTurns(
		turnSpec(platform.TurnTypeText, 0),
		turnSpec(platform.TurnTypeRequest, 10*time.Second),
	)
	m := ComputeMetrics(turns)
	if m.IsComplete {
		t.Fatal("expected conversation to be incomplete")
	}
	if m.MessageCount != 2 {
		t.Fatalf("expected message count 2, got %d", m.MessageCount)
	}
}

func TestComputeMetrics_EndsOnChoice(t *testing.T) {
	turns := orderedTurns(
		turnSpec(platform.TurnTypeRequest, 0),
		turnSpec(platform.TurnTypeChoice, 3*time.Second),
	)
	m := ComputeMetrics(turns)
	if !m.IsComplete {
		t.Fatal("expected choice ending to be complete")
	}
	if m.MessageCount != 1 {
		t.Fatalf("choice turns are not messages, expected count 1, got %d", m.MessageCount)
	}
}

func TestComputeMetrics_NonMessageTurnsExcludedFromCount(t *testing.T) {
	turns := orderedTurns(
		turnSpec(platform.TurnTypeRequest, 0),
		turnSpec("debug", time.Second),
		turnSpec(platform.TurnTypeText, 2*time.Second),
	)
	m := ComputeMetrics(turns)
	if m.MessageCount != 2 {
		t.Fatalf("expected message count 2, got %d", m.MessageCount)
	}
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil)
	if m.MessageCount != 0 || m.IsComplete {
		t.Fatalf("unexpected metrics for empty transcript: %+v", m)
	}
	if m.FirstResponse != nil || m.LastResponse != nil || m.DurationSeconds != nil {
		t.Fatal("expected nil timestamps and duration for empty transcript")
	}
}

func TestComputeMetrics_SingleTurn(t *testing.T) {
	turns := orderedTurns(turnSpec(platform.TurnTypeText, 0))
	m := ComputeMetrics(turns)
	if m.DurationSeconds == nil || *m.DurationSeconds != 0 {
		t.Fatalf("expected zero duration, got %v", m.DurationSeconds)
	}
	if !m.IsComplete {
		t.Fatal("single text turn with no later request should be complete")
	}
}
