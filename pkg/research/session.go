package research

import (
	"time"

	"github.com/google/uuid"
)

// Session accumulates the state of one research run. It is owned by the
// orchestrator goroutine and must not be shared while a run is active.
type Session struct {
	ID           uuid.UUID
	Query        string
	Language     string
	Confidence   float64
	Findings     string
	Analysis     string
	ReportChunks []string
	LoopCount    int
	StartedAt    time.Time
	FinishedAt   time.Time

	lastProgress float64
}

func newSession(query string) *Session {
	return &Session{
		ID:        uuid.New(),
		Query:     query,
		LoopCount: 1,
		StartedAt: time.Now().UTC(),
	}
}

// Report joins the streamed report chunks into the final document.
func (s *Session) Report() string {
	var n int
	for _, c := range s.ReportChunks {
		n += len(c)
	}
	buf := make([]byte, 0, n)
	for _, c := range s.ReportChunks {
		buf = append(buf, c...)
	}
	return string(buf)
}
