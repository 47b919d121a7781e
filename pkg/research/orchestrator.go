package research

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/superyhee/strands-deepsearch-agent/pkg/language"
)

// Caller runs a single-shot prompt against an agent and returns its final
// text answer.
type Caller interface {
	Call(ctx context.Context, prompt string) (string, error)
}

// Streamer runs a prompt and yields the answer incrementally.
type Streamer interface {
	StreamCall(ctx context.Context, prompt string) iter.Seq2[string, error]
}

const defaultMaxLoops = 3

// Orchestrator drives a research session through its stages and emits a
// lazy stream of progress events. A fresh session is created per Run, so
// a single Orchestrator serves concurrent callers.
type Orchestrator struct {
	researcher  Caller
	analyst     Caller
	writer      Streamer
	convergence *ConvergenceController
	maxLoops    int
	langMode    string
	model       string
	logger      *slog.Logger
}

// OrchestratorConfig carries the collaborators for a new Orchestrator.
type OrchestratorConfig struct {
	Researcher Caller
	Analyst    Caller
	Writer     Streamer

	// Convergence defaults to the standard gap vocabulary when nil.
	Convergence *ConvergenceController

	// MaxLoops bounds refinement rounds for runs that pass 0.
	MaxLoops int

	// Language is a fixed response language, or "auto" to detect from
	// the query.
	Language string

	Model  string
	Logger *slog.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	conv := cfg.Convergence
	if conv == nil {
		conv = NewConvergenceController()
	}
	maxLoops := cfg.MaxLoops
	if maxLoops < 1 {
		maxLoops = defaultMaxLoops
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	langMode := cfg.Language
	if langMode == "" {
		langMode = "auto"
	}
	return &Orchestrator{
		researcher:  cfg.Researcher,
		analyst:     cfg.Analyst,
		writer:      cfg.Writer,
		convergence: conv,
		maxLoops:    maxLoops,
		langMode:    langMode,
		model:       cfg.Model,
		logger:      logger,
	}
}

// Run executes the full pipeline for query and returns a lazy event
// sequence. Work only happens while the caller consumes the sequence;
// abandoning it stops the run at the next yield. The stream ends with
// exactly one terminal event: complete on success, error otherwise.
// Failures surface as error events, never as panics.
func (o *Orchestrator) Run(ctx context.Context, query string, maxLoops int) iter.Seq[ProgressEvent] {
	return func(yield func(ProgressEvent) bool) {
		s := newSession(strings.TrimSpace(query))
		if maxLoops < 1 {
			maxLoops = o.maxLoops
		}

		// Progress never moves backwards; late-stage emissions are
		// lifted to the session's high-water mark.
		inYield := false
		emit := func(ev ProgressEvent) bool {
			if ev.Progress < s.lastProgress {
				ev.Progress = s.lastProgress
			} else {
				s.lastProgress = ev.Progress
			}
			inYield = true
			ok := yield(ev)
			inYield = false
			return ok
		}
		fail := func(stage Stage, step string, err error) {
			o.logger.Error("research session failed",
				"session_id", s.ID, "stage", stage, "step", step, "error", err)
			emit(ProgressEvent{
				Type:     EventError,
				Message:  fmt.Sprintf("Research failed: %v", err),
				Progress: s.lastProgress,
				Step:     step,
				Stage:    StageError,
				Error:    err.Error(),
			})
		}

		// A panicking collaborator is caught at the stage boundary and
		// becomes the terminal error event. Panics raised by the consumer
		// inside yield are not ours to swallow and are re-raised.
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if inYield {
				panic(rec)
			}
			fail(StageError, "internal_error", fmt.Errorf("internal failure: %v", rec))
		}()

		if s.Query == "" {
			fail(StageInitialization, "validation", fmt.Errorf("query must not be empty"))
			return
		}

		lang := o.langMode
		confidence := 1.0
		if lang == "auto" {
			lang, confidence = language.Detect(s.Query)
		}
		s.Language = lang
		s.Confidence = confidence
		o.logger.Info("research session started",
			"session_id", s.ID, "query", s.Query, "language", lang, "max_loops", maxLoops)

		if !emit(ProgressEvent{
			Type:     EventStatus,
			Message:  "🚀 Initializing deep research session...",
			Progress: 5,
			Step:     "initialization",
			Stage:    StageInitialization,
			Data: map[string]any{
				"session_id": s.ID.String(),
				"language":   lang,
				"info":       initializationInfo(s.Query, lang, confidence, maxLoops, o.model),
			},
		}) {
			return
		}

		// Collection.
		if !emit(ProgressEvent{
			Type:     EventStatus,
			Message:  "🔍 Conducting comprehensive research...",
			Progress: 15,
			Step:     "research",
			Stage:    StageResearch,
		}) {
			return
		}
		findings, err := o.researcher.Call(ctx, researchPrompt(s.Query, lang))
		if err != nil {
			fail(StageResearch, "research_error", err)
			return
		}
		s.Findings = findings
		if !emit(ProgressEvent{
			Type:     EventResearchProgress,
			Message:  "📚 Research findings collected",
			Progress: 30,
			Step:     "research_complete",
			Stage:    StageResearch,
			Data: map[string]any{
				"findings_preview": preview(findings, 500),
			},
		}) {
			return
		}
		if !emit(ProgressEvent{
			Type:     EventProgress,
			Message:  "🔗 Sources identified",
			Progress: 35,
			Step:     "sources",
			Stage:    StageResearch,
			Data: map[string]any{
				"search_summaries": deriveSearchSummary(findings, 10),
			},
		}) {
			return
		}

		// Analysis.
		if !emit(ProgressEvent{
			Type:     EventStatus,
			Message:  "🧠 Analyzing research findings...",
			Progress: 45,
			Step:     "analysis",
			Stage:    StageAnalysis,
		}) {
			return
		}
		analysis, err := o.analyst.Call(ctx, analysisPrompt(s.Query, s.Findings, lang))
		if err != nil {
			fail(StageAnalysis, "analysis_error", err)
			return
		}
		s.Analysis = analysis
		if !emit(ProgressEvent{
			Type:     EventAnalysisProgress,
			Message:  "📊 Analysis complete",
			Progress: 52,
			Step:     "analysis_complete",
			Stage:    StageAnalysis,
			Data: map[string]any{
				"analysis_preview": preview(analysis, 500),
			},
		}) {
			return
		}
		if !emit(ProgressEvent{
			Type:     EventProgress,
			Message:  "✅ Evaluating research completeness...",
			Progress: 55,
			Step:     "convergence_check",
			Stage:    StageAnalysis,
		}) {
			return
		}

		// Refinement rounds, bounded by maxLoops.
		for s.LoopCount < maxLoops && o.convergence.NeedsMoreResearch(s.Analysis) {
			loopProgress := 60 + float64(s.LoopCount)*10
			if loopProgress > 80 {
				loopProgress = 80
			}
			if !emit(ProgressEvent{
				Type:     EventStatus,
				Message:  fmt.Sprintf("🔄 Conducting additional research (round %d)...", s.LoopCount+1),
				Progress: loopProgress,
				Step:     fmt.Sprintf("additional_research_%d", s.LoopCount+1),
				Stage:    StageResearch,
			}) {
				return
			}
			additional, err := o.researcher.Call(ctx, refinePrompt(s.Query, s.Analysis, lang))
			if err != nil {
				fail(StageResearch, "additional_research_error", err)
				return
			}
			s.Findings += "\n\n--- Additional Research ---\n\n" + additional
			analysis, err := o.analyst.Call(ctx, analysisPrompt(s.Query, s.Findings, lang))
			if err != nil {
				fail(StageAnalysis, "reanalysis_error", err)
				return
			}
			s.Analysis = analysis
			s.LoopCount++
			followup := 65 + float64(s.LoopCount-1)*10
			if followup > 84 {
				followup = 84
			}
			if !emit(ProgressEvent{
				Type:     EventProgress,
				Message:  "📈 Additional research integrated",
				Progress: followup,
				Step:     "additional_research_complete",
				Stage:    StageAnalysis,
			}) {
				return
			}
		}

		// Report.
		if !emit(ProgressEvent{
			Type:     EventStatus,
			Message:  "📝 Generating final report...",
			Progress: 85,
			Step:     "report",
			Stage:    StageReport,
		}) {
			return
		}
		if !emit(ProgressEvent{
			Type:     EventReportStart,
			Message:  "📄 Report generation started",
			Progress: 87,
			Step:     "report_start",
			Stage:    StageReport,
		}) {
			return
		}
		for chunk, err := range o.writer.StreamCall(ctx, reportPrompt(s.Query, s.Analysis, s.Findings, lang)) {
			if err != nil {
				fail(StageReport, "report_error", err)
				return
			}
			s.ReportChunks = append(s.ReportChunks, chunk)
			p := 87 + float64(len(s.ReportChunks))*0.5
			if p > 95 {
				p = 95
			}
			if !emit(ProgressEvent{
				Type:     EventReportChunk,
				Message:  chunk,
				Progress: p,
				Step:     "report_chunk",
				Stage:    StageReport,
			}) {
				return
			}
		}
		if !emit(ProgressEvent{
			Type:     EventProgress,
			Message:  "📑 Final report complete",
			Progress: 95,
			Step:     "report_complete",
			Stage:    StageReport,
		}) {
			return
		}

		s.FinishedAt = time.Now().UTC()
		o.logger.Info("research session complete",
			"session_id", s.ID, "loops", s.LoopCount,
			"duration", s.FinishedAt.Sub(s.StartedAt))
		emit(ProgressEvent{
			Type:     EventComplete,
			Message:  "✨ Deep research complete",
			Progress: 100,
			Step:     "complete",
			Stage:    StageComplete,
			Data: map[string]any{
				"query":             s.Query,
				"language":          s.Language,
				"final_report":      s.Report(),
				"research_findings": s.Findings,
				"analysis":          s.Analysis,
				"research_loops":    s.LoopCount,
				"timestamp":         s.FinishedAt.Format(time.RFC3339),
			},
		})
	}
}
