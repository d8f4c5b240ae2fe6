package repository

import (
	"encoding/json"
	"time"
)

// Project owns transcripts and the running transcript number counter. The
// counter is the single source of truth for numbering and is only mutated
// through ReserveTranscriptNumbers.
type Project struct {
	ID                   string
	ExternalID           string
	Name                 string
	APICredential        string
	LastTranscriptNumber int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Transcript struct {
	ID                string
	ProjectID         string
	ExternalID        string
	TranscriptNumber  int
	Name              string
	Image             string
	Tags              []string
	CreatorID         string
	Unread            bool
	PlatformCreatedAt time.Time
	MessageCount      int
	FirstResponse     *time.Time
	LastResponse      *time.Time
	DurationSeconds   *int
	IsComplete        bool
	Language          string
	Topic             string
	TopicDE           string
	ReportedName      string
	LastSyncedAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Turn struct {
	ID            string
	TranscriptID  string
	ExternalID    string
	TurnType      string
	Payload       json.RawMessage
	Format        string
	StartedAt     time.Time
	SequenceIndex int
	CreatedAt     time.Time
}
