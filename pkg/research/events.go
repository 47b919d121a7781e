package research

// EventType discriminates the progress events streamed to a caller.
// Consumers must treat unknown types as no-ops.
type EventType string

const (
	EventStatus           EventType = "status"
	EventProgress         EventType = "progress"
	EventResearchProgress EventType = "research_progress"
	EventAnalysisProgress EventType = "analysis_progress"
	EventReportStart      EventType = "report_start"
	EventReportChunk      EventType = "report_chunk"
	EventComplete         EventType = "complete"
	EventError            EventType = "error"
)

// Stage labels the pipeline phase an event belongs to.
type Stage string

const (
	StageInitialization Stage = "initialization"
	StageResearch       Stage = "research"
	StageAnalysis       Stage = "analysis"
	StageReport         Stage = "report"
	StageComplete       Stage = "complete"
	StageError          Stage = "error"
)

// ProgressEvent is one immutable update in a session's event stream.
// Ordering is the stream's only guarantee; progress values are
// monotonically non-decreasing within a session and reach 100 only on the
// terminal complete event.
type ProgressEvent struct {
	Type     EventType      `json:"type"`
	Message  string         `json:"message"`
	Progress float64        `json:"progress"`
	Step     string         `json:"step"`
	Stage    Stage          `json:"stage"`
	Data     map[string]any `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
}
