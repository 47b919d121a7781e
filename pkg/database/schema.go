package database

import (
	"context"
	"fmt"
)

// InitSchema creates the session archive tables.
func (db *DB) InitSchema(ctx context.Context) error {
	sessionsQuery := `
		CREATE TABLE IF NOT EXISTS research_sessions (
			id UUID PRIMARY KEY,
			query TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'running',
			language TEXT,
			research_loops INT NOT NULL DEFAULT 0,
			findings TEXT,
			analysis TEXT,
			report TEXT,
			error TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, sessionsQuery); err != nil {
		return fmt.Errorf("failed to create research_sessions table: %w", err)
	}

	// session_id carries no foreign key: the log handler writes a
	// session's first lines before the archive row exists, since the
	// orchestrator logs ahead of the status event that creates the row.
	logsQuery := `
		CREATE TABLE IF NOT EXISTS session_logs (
			id SERIAL PRIMARY KEY,
			session_id UUID,
			timestamp TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			level TEXT NOT NULL,
			message TEXT NOT NULL,
			metadata JSONB
		);
	`
	if _, err := db.Pool.Exec(ctx, logsQuery); err != nil {
		return fmt.Errorf("failed to create session_logs table: %w", err)
	}

	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_session_logs_session_id ON session_logs(session_id)"); err != nil {
		return fmt.Errorf("failed to create index on session_logs: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_research_sessions_created_at ON research_sessions(created_at DESC)"); err != nil {
		return fmt.Errorf("failed to create index on research_sessions: %w", err)
	}
	return nil
}
