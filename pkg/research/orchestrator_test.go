package research

import (
	"context"
	"fmt"
	"iter"
	"testing"
)

// scriptedCaller returns canned responses in order, then repeats the last.
type scriptedCaller struct {
	responses []string
	err       error
	calls     int
}

func (s *scriptedCaller) Call(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	i := s.calls - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

// scriptedStreamer yields canned chunks, optionally failing after some.
type scriptedStreamer struct {
	chunks   []string
	errAfter int // fail after this many chunks; -1 disables
	calls    int
}

func (s *scriptedStreamer) StreamCall(ctx context.Context, prompt string) iter.Seq2[string, error] {
	s.calls++
	return func(yield func(string, error) bool) {
		for i, c := range s.chunks {
			if s.errAfter >= 0 && i == s.errAfter {
				yield("", fmt.Errorf("stream interrupted"))
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

func testOrchestrator(researcher, analyst Caller, writer Streamer, maxLoops int) *Orchestrator {
	return NewOrchestrator(OrchestratorConfig{
		Researcher: researcher,
		Analyst:    analyst,
		Writer:     writer,
		MaxLoops:   maxLoops,
		Language:   "english",
		Model:      "test-model",
	})
}

func collect(events iter.Seq[ProgressEvent]) []ProgressEvent {
	var out []ProgressEvent
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestRunHappyPath(t *testing.T) {
	researcher := &scriptedCaller{responses: []string{"findings from https://example.com/a and https://example.com/b"}}
	analyst := &scriptedCaller{responses: []string{"complete analysis, no gaps"}}
	writer := &scriptedStreamer{chunks: []string{"# Report\n", "Body.", " End."}, errAfter: -1}
	o := testOrchestrator(researcher, analyst, writer, 3)

	events := collect(o.Run(context.Background(), "test query", 0))
	if len(events) == 0 {
		t.Fatal("no events emitted")
	}

	first := events[0]
	if first.Type != EventStatus || first.Stage != StageInitialization {
		t.Errorf("first event = %s/%s, want status/initialization", first.Type, first.Stage)
	}

	last := events[len(events)-1]
	if last.Type != EventComplete {
		t.Fatalf("last event = %s, want complete", last.Type)
	}
	if last.Progress != 100 {
		t.Errorf("terminal progress = %v, want 100", last.Progress)
	}
	if got := last.Data["final_report"]; got != "# Report\nBody. End." {
		t.Errorf("final_report = %q", got)
	}
	if got := last.Data["research_loops"]; got != 1 {
		t.Errorf("research_loops = %v, want 1", got)
	}
	for _, key := range []string{"query", "language", "final_report", "research_findings", "analysis", "research_loops", "timestamp"} {
		if _, ok := last.Data[key]; !ok {
			t.Errorf("complete event missing %q", key)
		}
	}
	if got := last.Data["language"]; got != "english" {
		t.Errorf("complete language = %v, want english", got)
	}
	if got := first.Data["language"]; got != "english" {
		t.Errorf("initialization language = %v, want english", got)
	}

	chunkCount := 0
	for i, ev := range events {
		if ev.Type == EventReportChunk {
			chunkCount++
		}
		if ev.Type == EventComplete && i != len(events)-1 {
			t.Error("complete emitted before end of stream")
		}
		if ev.Type == EventError {
			t.Errorf("unexpected error event: %s", ev.Error)
		}
	}
	if chunkCount != 3 {
		t.Errorf("report chunks = %d, want 3", chunkCount)
	}

	if researcher.calls != 1 || analyst.calls != 1 {
		t.Errorf("calls researcher=%d analyst=%d, want 1 each", researcher.calls, analyst.calls)
	}
}

func TestRunProgressMonotonic(t *testing.T) {
	researcher := &scriptedCaller{responses: []string{"findings"}}
	analyst := &scriptedCaller{responses: []string{
		"insufficient information about several aspects",
		"insufficient information still",
		"now complete",
	}}
	writer := &scriptedStreamer{chunks: []string{"report"}, errAfter: -1}
	o := testOrchestrator(researcher, analyst, writer, 5)

	prev := 0.0
	for _, ev := range collect(o.Run(context.Background(), "query", 0)) {
		if ev.Progress < prev {
			t.Fatalf("progress went backwards: %v after %v (event %s/%s)", ev.Progress, prev, ev.Type, ev.Step)
		}
		prev = ev.Progress
		if ev.Progress == 100 && ev.Type != EventComplete {
			t.Errorf("progress 100 on non-terminal event %s", ev.Type)
		}
	}
	if prev != 100 {
		t.Errorf("final progress = %v, want 100", prev)
	}
}

func TestRunRefinementLoopBounded(t *testing.T) {
	researcher := &scriptedCaller{responses: []string{"initial findings", "more findings"}}
	// Every analysis keeps flagging gaps; the loop cap must stop it.
	analyst := &scriptedCaller{responses: []string{"there is a knowledge gap here"}}
	writer := &scriptedStreamer{chunks: []string{"report"}, errAfter: -1}
	o := testOrchestrator(researcher, analyst, writer, 2)

	events := collect(o.Run(context.Background(), "query", 2))

	last := events[len(events)-1]
	if last.Type != EventComplete {
		t.Fatalf("last event = %s, want complete despite open gaps", last.Type)
	}
	if got := last.Data["research_loops"]; got != 2 {
		t.Errorf("research_loops = %v, want 2", got)
	}
	// One initial pass plus exactly one refinement round.
	if researcher.calls != 2 {
		t.Errorf("researcher calls = %d, want 2", researcher.calls)
	}
	if analyst.calls != 2 {
		t.Errorf("analyst calls = %d, want 2", analyst.calls)
	}
}

func TestRunNoRefinementWhenConverged(t *testing.T) {
	researcher := &scriptedCaller{responses: []string{"findings"}}
	analyst := &scriptedCaller{responses: []string{"fully answered"}}
	writer := &scriptedStreamer{chunks: []string{"report"}, errAfter: -1}
	o := testOrchestrator(researcher, analyst, writer, 5)

	events := collect(o.Run(context.Background(), "query", 5))
	last := events[len(events)-1]
	if got := last.Data["research_loops"]; got != 1 {
		t.Errorf("research_loops = %v, want 1", got)
	}
	if researcher.calls != 1 {
		t.Errorf("researcher calls = %d, want 1", researcher.calls)
	}
}

func TestRunResearcherFailure(t *testing.T) {
	researcher := &scriptedCaller{err: fmt.Errorf("model unavailable")}
	analyst := &scriptedCaller{responses: []string{"unused"}}
	writer := &scriptedStreamer{chunks: []string{"unused"}, errAfter: -1}
	o := testOrchestrator(researcher, analyst, writer, 3)

	events := collect(o.Run(context.Background(), "query", 0))
	last := events[len(events)-1]
	if last.Type != EventError {
		t.Fatalf("last event = %s, want error", last.Type)
	}
	if last.Stage != StageError {
		t.Errorf("error stage = %s, want %s", last.Stage, StageError)
	}
	if last.Error == "" {
		t.Error("error event missing error detail")
	}

	for _, ev := range events {
		if ev.Type == EventComplete {
			t.Error("complete emitted on a failed run")
		}
	}
	if analyst.calls != 0 || writer.calls != 0 {
		t.Errorf("later stages ran after failure: analyst=%d writer=%d", analyst.calls, writer.calls)
	}
}

func TestRunWriterFailureMidStream(t *testing.T) {
	researcher := &scriptedCaller{responses: []string{"findings"}}
	analyst := &scriptedCaller{responses: []string{"analysis"}}
	writer := &scriptedStreamer{chunks: []string{"a", "b", "c", "d"}, errAfter: 2}
	o := testOrchestrator(researcher, analyst, writer, 3)

	events := collect(o.Run(context.Background(), "query", 0))

	chunks := 0
	terminals := 0
	for _, ev := range events {
		switch ev.Type {
		case EventReportChunk:
			chunks++
		case EventComplete, EventError:
			terminals++
		}
	}
	if chunks != 2 {
		t.Errorf("chunks before failure = %d, want 2", chunks)
	}
	if terminals != 1 {
		t.Fatalf("terminal events = %d, want exactly 1", terminals)
	}
	last := events[len(events)-1]
	if last.Type != EventError {
		t.Errorf("last event = %s, want error", last.Type)
	}
}

// panickyCaller simulates a collaborator that blows up instead of
// returning an error.
type panickyCaller struct{}

func (p *panickyCaller) Call(ctx context.Context, prompt string) (string, error) {
	panic("collaborator blew up")
}

type panickyStreamer struct{}

func (p *panickyStreamer) StreamCall(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		panic("stream blew up")
	}
}

func TestRunCollaboratorPanicBecomesErrorEvent(t *testing.T) {
	tests := []struct {
		name       string
		researcher Caller
		analyst    Caller
		writer     Streamer
	}{
		{
			name:       "researcher panics",
			researcher: &panickyCaller{},
			analyst:    &scriptedCaller{responses: []string{"unused"}},
			writer:     &scriptedStreamer{chunks: []string{"unused"}, errAfter: -1},
		},
		{
			name:       "analyst panics",
			researcher: &scriptedCaller{responses: []string{"findings"}},
			analyst:    &panickyCaller{},
			writer:     &scriptedStreamer{chunks: []string{"unused"}, errAfter: -1},
		},
		{
			name:       "writer panics",
			researcher: &scriptedCaller{responses: []string{"findings"}},
			analyst:    &scriptedCaller{responses: []string{"analysis"}},
			writer:     &panickyStreamer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOrchestrator(tt.researcher, tt.analyst, tt.writer, 2)

			// collect would propagate a panic escaping Run and fail the test.
			events := collect(o.Run(context.Background(), "query", 0))
			if len(events) == 0 {
				t.Fatal("no events emitted")
			}

			terminals := 0
			for _, ev := range events {
				if ev.Type == EventComplete {
					t.Error("complete emitted on a panicked run")
				}
				if ev.Type == EventError {
					terminals++
				}
			}
			if terminals != 1 {
				t.Fatalf("error events = %d, want exactly 1", terminals)
			}
			last := events[len(events)-1]
			if last.Type != EventError {
				t.Errorf("last event = %s, want error", last.Type)
			}
			if last.Error == "" {
				t.Error("error event missing error detail")
			}
		})
	}
}

func TestRunEmptyQuery(t *testing.T) {
	researcher := &scriptedCaller{responses: []string{"unused"}}
	o := testOrchestrator(researcher, &scriptedCaller{responses: []string{"x"}},
		&scriptedStreamer{chunks: []string{"x"}, errAfter: -1}, 3)

	events := collect(o.Run(context.Background(), "   ", 0))
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Type != EventError {
		t.Errorf("event = %s, want error", events[0].Type)
	}
	if researcher.calls != 0 {
		t.Error("researcher should not run for an empty query")
	}
}

func TestRunAbandonedConsumer(t *testing.T) {
	researcher := &scriptedCaller{responses: []string{"findings"}}
	analyst := &scriptedCaller{responses: []string{"analysis"}}
	writer := &scriptedStreamer{chunks: []string{"report"}, errAfter: -1}
	o := testOrchestrator(researcher, analyst, writer, 3)

	seen := 0
	for range o.Run(context.Background(), "query", 0) {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("consumed %d events, want 2", seen)
	}
	// Stopping after the collection status event means analysis never ran.
	if analyst.calls != 0 {
		t.Errorf("analyst ran %d times after abandonment, want 0", analyst.calls)
	}
	if writer.calls != 0 {
		t.Errorf("writer ran %d times after abandonment, want 0", writer.calls)
	}
}

func TestDeriveSearchSummary(t *testing.T) {
	findings := `First source: https://example.com/one.
Also https://example.com/two, and again https://example.com/one for emphasis.
(https://other.org/page)`

	urls := deriveSearchSummary(findings, 10)
	want := []string{"https://example.com/one", "https://example.com/two", "https://other.org/page"}
	if len(urls) != len(want) {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}

	limited := deriveSearchSummary(findings, 2)
	if len(limited) != 2 {
		t.Errorf("limited urls = %d, want 2", len(limited))
	}
}
