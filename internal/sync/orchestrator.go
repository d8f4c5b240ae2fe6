package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/talkstream/convosync/internal/analyzer"
	"github.com/talkstream/convosync/internal/platform"
	"github.com/talkstream/convosync/internal/repository"
	"github.com/talkstream/convosync/internal/retry"
)

const (
	maxConcurrentTranscripts = 5
	progressChunkSize        = 10
	unitMaxAttempts          = 4
	unitRetryBaseDelay       = 2 * time.Second
	rateDelayMin             = 200 * time.Millisecond
	rateDelayMax             = 500 * time.Millisecond
	saveResultsTimeout       = 30 * time.Second
)

// ErrMissingCredential aborts a sync before any transcript is touched.
var ErrMissingCredential = errors.New("project has no platform credential")

// Service drives the full sync pipeline for one project: list transcripts,
// assign numbers, then process every transcript under bounded concurrency.
type Service struct {
	repo     repository.Repository
	client   platform.Client
	analyzer analyzer.Analyzer

	// overridable in tests to keep retry and rate-limit waits negligible
	unitRetryBase time.Duration
	sleep         func(time.Duration)
}

func NewService(repo repository.Repository, client platform.Client, an analyzer.Analyzer) *Service {
	return &Service{
		repo:          repo,
		client:        client,
		analyzer:      an,
		unitRetryBase: unitRetryBaseDelay,
		sleep:         time.Sleep,
	}
}

// Sync runs one batch. Listing and numbering failures are batch-fatal and
// returned; per-transcript failures are retried, then logged and skipped so
// one bad transcript never blocks the rest.
func (s *Service) Sync(ctx context.Context, platformProjectID string) error {
	started := time.Now()
	log := slog.With("run_id", uuid.NewString(), "project_external_id", platformProjectID)
	log.Info("sync started")

	project, err := s.repo.GetProjectByExternalID(ctx, platformProjectID)
	if err != nil {
		log.Error("sync aborted: project lookup failed", "error", err)
		return err
	}
	if project.APICredential == "" {
		log.Error("sync aborted: missing platform credential", "project_id", project.ID)
		return fmt.Errorf("%w: project %s", ErrMissingCredential, project.ID)
	}

	summaries, err := s.client.ListTranscripts(ctx, platformProjectID, project.APICredential)
	if err != nil {
		log.Error("sync aborted: listing transcripts failed", "error", err)
		return err
	}
	log.Info("transcripts listed", "count", len(summaries))

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})

	assigned, err := AssignNumbers(ctx, s.repo, project.ID, summaries)
	if err != nil {
		log.Error("sync aborted: number assignment failed", "error", err)
		return err
	}

	var succeeded, failed atomic.Int32
	totalChunks := (len(assigned) + progressChunkSize - 1) / progressChunkSize
	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentTranscripts)
	for i, at := range assigned {
		if i%progressChunkSize == 0 {
			log.Info("processing chunk", "chunk", i/progressChunkSize+1, "total_chunks", totalChunks)
		}
		at := at
		g.Go(func() error {
			if err := s.processWithRetries(ctx, project, at); err != nil {
				failed.Add(1)
				log.Error("transcript failed after retries",
					"transcript_external_id", at.Summary.ID,
					"transcript_number", at.Number,
					"error", err)
				return nil
			}
			succeeded.Add(1)
			s.ratePause()
			return nil
		})
	}
	_ = g.Wait()

	log.Info("sync finished",
		"succeeded", succeeded.Load(),
		"failed", failed.Load(),
		"elapsed_ms", time.Since(started).Milliseconds())
	return nil
}

// processWithRetries retries the whole per-transcript unit, DB work
// included, with a larger backoff than the network-level retry inside
// FetchTurns. The two policies guard different failure domains and stay
// separate.
func (s *Service) processWithRetries(ctx context.Context, project *repository.Project, at AssignedTranscript) error {
	_, err := retry.Do(ctx, "process transcript", unitMaxAttempts, s.unitRetryBase, func() (struct{}, error) {
		return struct{}{}, s.processTranscript(ctx, project, at)
	})
	return err
}

func (s *Service) processTranscript(ctx context.Context, project *repository.Project, at AssignedTranscript) error {
	transcriptID, err := s.repo.UpsertTranscript(ctx, repository.UpsertTranscriptInput{
		ProjectID:         project.ID,
		ExternalID:        at.Summary.ID,
		TranscriptNumber:  at.Number,
		Name:              at.Summary.Name,
		Image:             at.Summary.Image,
		Tags:              at.Summary.Tags,
		CreatorID:         at.Summary.CreatorID,
		Unread:            at.Summary.Unread,
		PlatformCreatedAt: at.Summary.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("upsert transcript %s: %w", at.Summary.ID, err)
	}

	turns, err := s.client.FetchTurns(ctx, at.Summary.ID, project.ExternalID, project.APICredential)
	if err != nil {
		return err
	}

	metrics := ComputeMetrics(turns)
	analysis := s.analyzer.Analyze(ctx, turns)

	records := make([]repository.TurnRecord, 0, len(turns))
	for i, turn := range turns {
		records = append(records, repository.TurnRecord{
			ExternalID:    turn.ID,
			TurnType:      turn.Type,
			Payload:       turn.Payload,
			Format:        turn.Format,
			StartedAt:     turn.StartedAt,
			SequenceIndex: i,
		})
	}

	saveCtx, cancel := context.WithTimeout(ctx, saveResultsTimeout)
	defer cancel()
	if err := s.repo.SaveTranscriptResults(saveCtx, repository.SaveTranscriptResultsInput{
		TranscriptID:    transcriptID,
		MessageCount:    metrics.MessageCount,
		FirstResponse:   metrics.FirstResponse,
		LastResponse:    metrics.LastResponse,
		DurationSeconds: metrics.DurationSeconds,
		IsComplete:      metrics.IsComplete,
		Language:        analysis.Language,
		Topic:           analysis.TopicEN,
		TopicDE:         analysis.TopicDE,
		ReportedName:    analysis.Name,
		Turns:           records,
	}); err != nil {
		return fmt.Errorf("save transcript %s results: %w", at.Summary.ID, err)
	}
	return nil
}

// ratePause spaces successive transcripts out to stay under upstream rate
// limits.
func (s *Service) ratePause() {
	spread := rateDelayMax - rateDelayMin
	s.sleep(rateDelayMin + time.Duration(rand.Int63n(int64(spread))))
}
