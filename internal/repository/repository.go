package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrProjectNotFound = errors.New("project not found")

type UpsertTranscriptInput struct {
	ProjectID         string
	ExternalID        string
	TranscriptNumber  int
	Name              string
	Image             string
	Tags              []string
	CreatorID         string
	Unread            bool
	PlatformCreatedAt time.Time
}

type TurnRecord struct {
	ExternalID    string
	TurnType      string
	Payload       json.RawMessage
	Format        string
	StartedAt     time.Time
	SequenceIndex int
}

// SaveTranscriptResultsInput carries everything committed in the single
// per-transcript transaction: metrics, analysis, and the full replacement
// turn set in its canonical order.
type SaveTranscriptResultsInput struct {
	TranscriptID    string
	MessageCount    int
	FirstResponse   *time.Time
	LastResponse    *time.Time
	DurationSeconds *int
	IsComplete      bool
	Language        string
	Topic           string
	TopicDE         string
	ReportedName    string
	Turns           []TurnRecord
}

type ProjectRepository interface {
	GetProjectByExternalID(ctx context.Context, externalID string) (*Project, error)
	// ReserveTranscriptNumbers atomically advances the project counter by
	// count and returns the first number of the reserved contiguous block.
	ReserveTranscriptNumbers(ctx context.Context, projectID string, count int) (int, error)
}

type TranscriptRepository interface {
	GetTranscriptNumbers(ctx context.Context, projectID string, externalIDs []string) (map[string]int, error)
	UpsertTranscript(ctx context.Context, input UpsertTranscriptInput) (string, error)
	SaveTranscriptResults(ctx context.Context, input SaveTranscriptResultsInput) error
}

type Repository interface {
	ProjectRepository
	TranscriptRepository
}
