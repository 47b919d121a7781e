package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/superyhee/strands-deepsearch-agent/pkg/database"
)

// DBLogHandler is a slog.Handler that persists records to session_logs.
// Records carrying a session_id attribute are attached to that session;
// others are stored with a NULL session.
type DBLogHandler struct {
	db       *database.DB
	minLevel slog.Level
}

func NewDBLogHandler(db *database.DB, minLevel slog.Level) *DBLogHandler {
	return &DBLogHandler{db: db, minLevel: minLevel}
}

func (h *DBLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *DBLogHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	var sessionID *uuid.UUID
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "session_id" {
			if id, ok := a.Value.Any().(uuid.UUID); ok {
				sessionID = &id
				return true
			}
		}
		attrs[a.Key] = a.Value.Any()
		return true
	})

	metaJSON, err := json.Marshal(attrs)
	if err != nil {
		metaJSON = []byte("{}")
	}

	// Inserts use a background context so log lines survive request
	// cancellation.
	_, err = h.db.Pool.Exec(context.Background(), `
		INSERT INTO session_logs (session_id, timestamp, level, message, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`, sessionID, r.Time, r.Level.String(), r.Message, metaJSON)
	return err
}

func (h *DBLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Attribute accumulation is not needed for the archive; records carry
	// their own attrs.
	return h
}

func (h *DBLogHandler) WithGroup(name string) slog.Handler {
	return h
}

// TeeHandler fans records out to a console handler and the database.
type TeeHandler struct {
	handlers []slog.Handler
}

func NewTeeHandler(handlers ...slog.Handler) *TeeHandler {
	return &TeeHandler{handlers: handlers}
}

func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: next}
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &TeeHandler{handlers: next}
}
