package sync

import (
	"context"
	"fmt"

	"github.com/talkstream/convosync/internal/platform"
	"github.com/talkstream/convosync/internal/repository"
)

// AssignedTranscript pairs a platform summary with its per-project number
// for the duration of one sync batch.
type AssignedTranscript struct {
	Summary platform.TranscriptSummary
	Number  int
	IsNew   bool
}

// AssignNumbers gives every summary its stable transcript number. Known
// external ids keep their stored number forever; genuinely new ones consume
// a contiguous block reserved with a single atomic counter increment, in
// input order.
func AssignNumbers(ctx context.Context, repo repository.Repository, projectID string, summaries []platform.TranscriptSummary) ([]AssignedTranscript, error) {
	externalIDs := make([]string, 0, len(summaries))
	for _, s := range summaries {
		externalIDs = append(externalIDs, s.ID)
	}

	existing, err := repo.GetTranscriptNumbers(ctx, projectID, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("look up existing transcript numbers: %w", err)
	}

	newCount := 0
	for _, s := range summaries {
		if _, ok := existing[s.ID]; !ok {
			newCount++
		}
	}

	nextNumber := 0
	if newCount > 0 {
		nextNumber, err = repo.ReserveTranscriptNumbers(ctx, projectID, newCount)
		if err != nil {
			return nil, fmt.Errorf("reserve transcript numbers: %w", err)
		}
	}

	assigned := make([]AssignedTranscript, 0, len(summaries))
	for _, s := range summaries {
		if number, ok := existing[s.ID]; ok {
			assigned = append(assigned, AssignedTranscript{Summary: s, Number: number})
			continue
		}
		assigned = append(assigned, AssignedTranscript{Summary: s, Number: nextNumber, IsNew: true})
		nextNumber++
	}
	return assigned, nil
}
