package platform

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrMalformedResponse marks a platform response whose body is not the
// expected JSON array. Listing failures of this kind abort the whole sync.
var ErrMalformedResponse = errors.New("malformed platform response")

const (
	TurnTypeText    = "text"
	TurnTypeRequest = "request"
	TurnTypeChoice  = "choice"
)

// TranscriptSummary is an immutable snapshot of one transcript as reported
// by the platform's listing endpoint.
type TranscriptSummary struct {
	ID        string
	Name      string
	Image     string
	CreatedAt time.Time
	Tags      []string
	CreatorID string
	Unread    bool
}

// Turn is one message or event within a transcript. Payload keeps the
// platform's free-form structure as raw JSON.
type Turn struct {
	ID        string
	Type      string
	Payload   json.RawMessage
	StartedAt time.Time
	Format    string
}

type Client interface {
	ListTranscripts(ctx context.Context, projectID, credential string) ([]TranscriptSummary, error)
	FetchTurns(ctx context.Context, transcriptID, projectID, credential string) ([]Turn, error)
}
