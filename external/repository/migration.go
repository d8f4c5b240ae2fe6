package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		external_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		api_credential TEXT NOT NULL DEFAULT '',
		last_transcript_number INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transcripts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		external_id TEXT NOT NULL,
		transcript_number INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		tags TEXT[] NOT NULL DEFAULT '{}',
		creator_id TEXT NOT NULL DEFAULT '',
		unread BOOLEAN NOT NULL DEFAULT FALSE,
		platform_created_at TIMESTAMPTZ NOT NULL,
		message_count INTEGER NOT NULL DEFAULT 0,
		first_response TIMESTAMPTZ,
		last_response TIMESTAMPTZ,
		duration_seconds INTEGER,
		is_complete BOOLEAN NOT NULL DEFAULT FALSE,
		language TEXT NOT NULL DEFAULT '',
		topic TEXT NOT NULL DEFAULT '',
		topic_de TEXT NOT NULL DEFAULT '',
		reported_name TEXT NOT NULL DEFAULT '',
		last_synced_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(project_id, external_id),
		UNIQUE(project_id, transcript_number)
	)`,
	`CREATE TABLE IF NOT EXISTS turns (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		transcript_id UUID NOT NULL REFERENCES transcripts(id) ON DELETE CASCADE,
		external_id TEXT NOT NULL,
		turn_type TEXT NOT NULL,
		payload JSONB,
		format TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMPTZ NOT NULL,
		sequence_index INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(transcript_id, sequence_index)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transcripts_project ON transcripts (project_id, transcript_number)`,
	`CREATE INDEX IF NOT EXISTS idx_turns_transcript ON turns (transcript_id, sequence_index)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
