package server

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/superyhee/strands-deepsearch-agent/pkg/database"
	"github.com/superyhee/strands-deepsearch-agent/pkg/memory"
	"github.com/superyhee/strands-deepsearch-agent/pkg/research"
)

// SessionRecord is the archived form of a research session.
type SessionRecord struct {
	ID            uuid.UUID `json:"id"`
	Query         string    `json:"query"`
	Status        string    `json:"status"`
	Language      string    `json:"language"`
	ResearchLoops int       `json:"research_loops"`
	Findings      string    `json:"findings,omitempty"`
	Analysis      string    `json:"analysis,omitempty"`
	Report        string    `json:"report,omitempty"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LogEntry is one persisted log line for a session.
type LogEntry struct {
	ID        int             `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	Timestamp time.Time       `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata"`
}

// Service runs research sessions and, when a database is configured,
// archives them and feeds completed findings into the research memory.
type Service struct {
	system *research.System
	db     *database.DB
	memory *memory.Memory
	logger *slog.Logger
}

// NewService wires the research system to its optional persistence. db
// and mem may be nil; sessions then run without an archive.
func NewService(system *research.System, db *database.DB, mem *memory.Memory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{system: system, db: db, memory: mem, logger: logger}
}

// Stream runs a session and relays its events, persisting archive rows as
// a side effect of consumption. The returned sequence has the same
// guarantees as the orchestrator's: single consumption, one terminal
// event.
func (s *Service) Stream(ctx context.Context, query string, maxLoops int) iter.Seq[research.ProgressEvent] {
	events := s.system.Orchestrator.Run(ctx, query, maxLoops)
	if s.db == nil {
		return events
	}

	return func(yield func(research.ProgressEvent) bool) {
		var sessionID uuid.UUID
		for ev := range events {
			switch ev.Type {
			case research.EventStatus:
				if ev.Stage == research.StageInitialization && sessionID == uuid.Nil {
					sessionID = s.createRecord(ctx, ev, query)
				}
			case research.EventComplete:
				s.finishRecord(ctx, sessionID, ev)
			case research.EventError:
				s.failRecord(ctx, sessionID, ev)
			}
			if !yield(ev) {
				return
			}
		}
	}
}

func (s *Service) createRecord(ctx context.Context, ev research.ProgressEvent, query string) uuid.UUID {
	raw, _ := ev.Data["session_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		id = uuid.New()
	}
	lang, _ := ev.Data["language"].(string)
	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO research_sessions (id, query, status, language)
		VALUES ($1, $2, 'running', $3)
	`, id, query, lang)
	if err != nil {
		s.logger.Error("failed to create session record", "session_id", id, "error", err)
	}
	return id
}

func (s *Service) finishRecord(ctx context.Context, id uuid.UUID, ev research.ProgressEvent) {
	if id == uuid.Nil {
		return
	}
	report, _ := ev.Data["final_report"].(string)
	findings, _ := ev.Data["research_findings"].(string)
	analysis, _ := ev.Data["analysis"].(string)
	query, _ := ev.Data["query"].(string)
	loops, _ := ev.Data["research_loops"].(int)

	_, err := s.db.Pool.Exec(ctx, `
		UPDATE research_sessions
		SET status = 'complete', research_loops = $2, findings = $3,
		    analysis = $4, report = $5, updated_at = NOW()
		WHERE id = $1
	`, id, loops, findings, analysis, report)
	if err != nil {
		s.logger.Error("failed to archive session", "session_id", id, "error", err)
	}

	if s.memory != nil && findings != "" {
		// Indexing happens after the terminal event and must not be cut
		// short by the request context ending.
		go func() {
			indexCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := s.memory.IndexSession(indexCtx, id.String(), query, findings); err != nil {
				s.logger.Error("failed to index session findings", "session_id", id, "error", err)
			}
		}()
	}
}

func (s *Service) failRecord(ctx context.Context, id uuid.UUID, ev research.ProgressEvent) {
	if id == uuid.Nil {
		return
	}
	_, err := s.db.Pool.Exec(ctx, `
		UPDATE research_sessions
		SET status = 'failed', error = $2, updated_at = NOW()
		WHERE id = $1
	`, id, ev.Error)
	if err != nil {
		s.logger.Error("failed to mark session failed", "session_id", id, "error", err)
	}
}

// ListSessions returns archived sessions, newest first, without their
// large text fields.
func (s *Service) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, query, status, COALESCE(language, ''), research_loops,
		       COALESCE(error, ''), created_at, updated_at
		FROM research_sessions
		ORDER BY created_at DESC
		LIMIT 100
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Status, &rec.Language,
			&rec.ResearchLoops, &rec.Error, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	return sessions, rows.Err()
}

// GetSession returns one archived session with its full text fields.
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*SessionRecord, error) {
	var rec SessionRecord
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, query, status, COALESCE(language, ''), research_loops,
		       COALESCE(findings, ''), COALESCE(analysis, ''),
		       COALESCE(report, ''), COALESCE(error, ''), created_at, updated_at
		FROM research_sessions
		WHERE id = $1
	`, id).Scan(&rec.ID, &rec.Query, &rec.Status, &rec.Language, &rec.ResearchLoops,
		&rec.Findings, &rec.Analysis, &rec.Report, &rec.Error, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetSessionLogs returns the persisted log lines for a session.
func (s *Service) GetSessionLogs(ctx context.Context, id uuid.UUID) ([]LogEntry, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, session_id, timestamp, level, message, COALESCE(metadata, '{}')
		FROM session_logs
		WHERE session_id = $1
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []LogEntry
	for rows.Next() {
		var entry LogEntry
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Timestamp,
			&entry.Level, &entry.Message, &entry.Metadata); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// Archived reports whether the service has a database behind it.
func (s *Service) Archived() bool { return s.db != nil }
