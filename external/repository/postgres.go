package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talkstream/convosync/internal/repository"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) GetProjectByExternalID(ctx context.Context, externalID string) (*repository.Project, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, external_id, name, api_credential, last_transcript_number, created_at, updated_at
		 FROM projects WHERE external_id = $1`,
		externalID)
	var p repository.Project
	err := row.Scan(&p.ID, &p.ExternalID, &p.Name, &p.APICredential, &p.LastTranscriptNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", repository.ErrProjectNotFound, externalID)
		}
		return nil, err
	}
	return &p, nil
}

// ReserveTranscriptNumbers is a single conditional increment, never a
// read-then-write pair: concurrent syncs for the same project cannot be
// handed overlapping blocks.
func (r *PostgresRepository) ReserveTranscriptNumbers(ctx context.Context, projectID string, count int) (int, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE projects
		 SET last_transcript_number = last_transcript_number + $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING last_transcript_number`,
		projectID, count)
	var newLast int
	if err := row.Scan(&newLast); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", repository.ErrProjectNotFound, projectID)
		}
		return 0, err
	}
	return newLast - count + 1, nil
}

func (r *PostgresRepository) GetTranscriptNumbers(ctx context.Context, projectID string, externalIDs []string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT external_id, transcript_number
		 FROM transcripts WHERE project_id = $1 AND external_id = ANY($2)`,
		projectID, externalIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	numbers := make(map[string]int, len(externalIDs))
	for rows.Next() {
		var externalID string
		var number int
		if err := rows.Scan(&externalID, &number); err != nil {
			return nil, err
		}
		numbers[externalID] = number
	}
	return numbers, rows.Err()
}

func (r *PostgresRepository) UpsertTranscript(ctx context.Context, input repository.UpsertTranscriptInput) (string, error) {
	// transcript_number is only written on insert: re-syncing never renumbers.
	row := r.pool.QueryRow(ctx,
		`INSERT INTO transcripts (project_id, external_id, transcript_number, name, image, tags, creator_id, unread, platform_created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (project_id, external_id) DO UPDATE
		 SET name = EXCLUDED.name,
		     image = EXCLUDED.image,
		     tags = EXCLUDED.tags,
		     creator_id = EXCLUDED.creator_id,
		     unread = EXCLUDED.unread,
		     updated_at = NOW()
		 RETURNING id`,
		input.ProjectID, input.ExternalID, input.TranscriptNumber, input.Name, input.Image,
		input.Tags, input.CreatorID, input.Unread, input.PlatformCreatedAt)
	var id string
	if err := row.Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *PostgresRepository) SaveTranscriptResults(ctx context.Context, input repository.SaveTranscriptResultsInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx,
		`UPDATE transcripts
		 SET message_count = $2,
		     first_response = $3,
		     last_response = $4,
		     duration_seconds = $5,
		     is_complete = $6,
		     language = $7,
		     topic = $8,
		     topic_de = $9,
		     reported_name = $10,
		     last_synced_at = NOW(),
		     updated_at = NOW()
		 WHERE id = $1`,
		input.TranscriptID, input.MessageCount, input.FirstResponse, input.LastResponse,
		input.DurationSeconds, input.IsComplete, input.Language, input.Topic,
		input.TopicDE, input.ReportedName)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM turns WHERE transcript_id = $1`, input.TranscriptID); err != nil {
		return err
	}
	for _, turn := range input.Turns {
		_, err := tx.Exec(ctx,
			`INSERT INTO turns (transcript_id, external_id, turn_type, payload, format, started_at, sequence_index)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			input.TranscriptID, turn.ExternalID, turn.TurnType, turn.Payload,
			turn.Format, turn.StartedAt, turn.SequenceIndex)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
