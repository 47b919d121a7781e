package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// DeepSeek-style providers do not emit tool calls through a structured
// channel; the call is embedded in generated text between these markers,
// with the parameters in a fenced JSON block.
const (
	callsBeginMarker = "<｜tool▁calls▁begin｜>"
	callBeginMarker  = "<｜tool▁call▁begin｜>"
	sepMarker        = "<｜tool▁sep｜>"
	callEndMarker    = "<｜tool▁call▁end｜>"
	callsEndMarker   = "<｜tool▁calls▁end｜>"

	jsonFenceOpen  = "```json"
	jsonFenceClose = "```"
)

// ToolCallRequest is a structured call recovered from generated text.
type ToolCallRequest struct {
	FunctionName string
	Parameters   map[string]any
}

// ToolCallResult carries the output of a successfully executed call.
type ToolCallResult struct {
	Text string
}

// ToolCallAdapter recovers and executes pseudo tool calls. Both operations
// signal failure by returning nil, never by raising: on any malformation the
// caller falls back to treating the raw text as the answer.
type ToolCallAdapter struct {
	logger *slog.Logger
}

func NewToolCallAdapter(logger *slog.Logger) *ToolCallAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolCallAdapter{logger: logger}
}

// TryExtractCall parses the first embedded tool call out of text. Returns
// nil for empty text, missing markers, or an unparseable parameter block.
func (a *ToolCallAdapter) TryExtractCall(text string) *ToolCallRequest {
	if !strings.Contains(text, callsBeginMarker) {
		return nil
	}

	// Scope the parse to the first call so text after the call end marker
	// (a second call, or trailing prose) cannot leak into the payload.
	if i := strings.Index(text, callBeginMarker); i >= 0 {
		text = text[i+len(callBeginMarker):]
	}
	if i := strings.Index(text, callEndMarker); i >= 0 {
		text = text[:i]
	} else if i := strings.Index(text, callsEndMarker); i >= 0 {
		text = text[:i]
	}

	sepIdx := strings.Index(text, sepMarker)
	if sepIdx < 0 {
		return nil
	}
	rest := text[sepIdx+len(sepMarker):]

	nameEnd := strings.IndexByte(rest, '\n')
	if nameEnd < 0 {
		return nil
	}
	name := strings.TrimSpace(rest[:nameEnd])
	if name == "" {
		return nil
	}

	fenceIdx := strings.Index(rest, jsonFenceOpen)
	if fenceIdx < 0 {
		return nil
	}
	payload := rest[fenceIdx+len(jsonFenceOpen):]
	closeIdx := strings.Index(payload, jsonFenceClose)
	if closeIdx < 0 {
		return nil
	}
	payload = strings.TrimSpace(payload[:closeIdx])

	var params map[string]any
	if err := json.Unmarshal([]byte(payload), &params); err != nil {
		a.logger.Debug("tool call payload not valid JSON", "function", name, "error", err)
		return nil
	}

	return &ToolCallRequest{FunctionName: name, Parameters: params}
}

// Execute looks the function up in the registry by exact name and invokes
// it. Any lookup miss, execution error or panic yields nil.
func (a *ToolCallAdapter) Execute(ctx context.Context, req *ToolCallRequest, registry *Registry) (result *ToolCallResult) {
	if req == nil || registry == nil {
		return nil
	}

	fn, ok := registry.Get(req.FunctionName)
	if !ok {
		a.logger.Debug("tool not registered", "function", req.FunctionName)
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Warn("tool panicked", "function", req.FunctionName, "panic", rec)
			result = nil
		}
	}()

	text, err := fn(ctx, req.Parameters)
	if err != nil {
		a.logger.Warn("tool execution failed", "function", req.FunctionName, "error", err)
		return nil
	}
	return &ToolCallResult{Text: text}
}
