package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/talkstream/convosync/internal/platform"
)

func summariesWithIDs(ids ...string) []platform.TranscriptSummary {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	out := make([]platform.TranscriptSummary, 0, len(ids))
	for i, id := range ids {
		out = append(out, platform.TranscriptSummary{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	return out
}

func TestAssignNumbers_ContiguousBlockForNew(t *testing.T) {
	repo := newMockRepo()
	repo.numbers = map[string]int{"known-1": 3, "known-2": 7}
	repo.lastNumber = 7

	assigned, err := AssignNumbers(context.Background(), repo, "proj-db-1",
		summariesWithIDs("known-1", "new-1", "known-2", "new-2", "new-3"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := map[string]int{}
	for _, a := range assigned {
		got[a.Summary.ID] = a.Number
	}
	want := map[string]int{"known-1": 3, "known-2": 7, "new-1": 8, "new-2": 9, "new-3": 10}
	for id, number := range want {
		if got[id] != number {
			t.Fatalf("transcript %s: expected number %d, got %d", id, number, got[id])
		}
	}
	if repo.lastNumber != 10 {
		t.Fatalf("expected counter at 10, got %d", repo.lastNumber)
	}
	if len(repo.reserveCalls) != 1 || repo.reserveCalls[0] != 3 {
		t.Fatalf("expected one reservation of 3, got %v", repo.reserveCalls)
	}
}

func TestAssignNumbers_IdempotentSecondRun(t *testing.T) {
	repo := newMockRepo()
	repo.lastNumber = 0

	first, err := AssignNumbers(context.Background(), repo, "proj-db-1", summariesWithIDs("a", "b"))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	// simulate the first run's numbers being persisted
	for _, a := range first {
		repo.numbers[a.Summary.ID] = a.Number
	}

	second, err := AssignNumbers(context.Background(), repo, "proj-db-1", summariesWithIDs("a", "b"))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for i := range first {
		if second[i].Number != first[i].Number {
			t.Fatalf("transcript %s renumbered: %d -> %d", first[i].Summary.ID, first[i].Number, second[i].Number)
		}
		if second[i].IsNew {
			t.Fatalf("transcript %s should not be new on second run", second[i].Summary.ID)
		}
	}
	if len(repo.reserveCalls) != 1 {
		t.Fatalf("expected no second reservation, got %v", repo.reserveCalls)
	}
	if repo.lastNumber != 2 {
		t.Fatalf("expected counter unchanged at 2, got %d", repo.lastNumber)
	}
}

func TestAssignNumbers_AllKnownSkipsReservation(t *testing.T) {
	repo := newMockRepo()
	repo.numbers = map[string]int{"a": 1, "b": 2}
	repo.lastNumber = 2

	_, err := AssignNumbers(context.Background(), repo, "proj-db-1", summariesWithIDs("a", "b"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.reserveCalls) != 0 {
		t.Fatalf("expected no reservations, got %v", repo.reserveCalls)
	}
}

func TestAssignNumbers_ReserveFailurePropagates(t *testing.T) {
	repo := newMockRepo()
	repo.reserveErr = errors.New("deadlock detected")

	_, err := AssignNumbers(context.Background(), repo, "proj-db-1", summariesWithIDs("a"))
	if err == nil {
		t.Fatal("expected reservation error to propagate")
	}
}
