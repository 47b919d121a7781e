// Package agent wraps a text-generation model with a role prompt and an
// optional tool registry. Agents are invoked as black boxes by the research
// orchestrator: Call returns the full answer, StreamCall yields it as a
// lazy, finite sequence of fragments consumed exactly once.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
)

// maxToolTurns bounds the native tool-call loop so a model that keeps
// requesting tools cannot spin forever.
const maxToolTurns = 6

// Config describes one agent.
type Config struct {
	Name         string
	Model        llms.Model
	SystemPrompt string
	Tools        *Registry
	// NativeToolCalls selects the provider's structured calling channel.
	// When false, tools are advertised in the prompt and recovered from
	// generated text through the ToolCallAdapter.
	NativeToolCalls bool
	Logger          *slog.Logger
}

type Agent struct {
	name     string
	llm      llms.Model
	system   string
	registry *Registry
	native   bool
	adapter  *ToolCallAdapter
	logger   *slog.Logger
}

func New(cfg Config) (*Agent, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("agent %s: model is required", cfg.Name)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	system := cfg.SystemPrompt
	if cfg.Tools != nil && !cfg.NativeToolCalls {
		// Compat providers learn about tools through the prompt.
		system += "\n\n" + cfg.Tools.Manifest()
	}

	return &Agent{
		name:     cfg.Name,
		llm:      cfg.Model,
		system:   system,
		registry: cfg.Tools,
		native:   cfg.NativeToolCalls,
		adapter:  NewToolCallAdapter(logger),
		logger:   logger,
	}, nil
}

func (a *Agent) Name() string { return a.name }

// Call sends the prompt and returns the agent's final text. Tool calls are
// resolved internally: native calls through the provider's channel, pseudo
// calls through the adapter. When a pseudo call is recovered and executed,
// its result becomes the effective output of the step; otherwise the raw
// text is returned unchanged.
func (a *Agent) Call(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, a.system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	for turn := 0; turn < maxToolTurns; turn++ {
		var opts []llms.CallOption
		if a.native && a.registry != nil {
			opts = append(opts, llms.WithTools(a.registry.Definitions()))
		}

		resp, err := a.llm.GenerateContent(ctx, messages, opts...)
		if err != nil {
			return "", fmt.Errorf("agent %s: generate: %w", a.name, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("agent %s: model returned no choices", a.name)
		}
		choice := resp.Choices[0]

		if a.native && len(choice.ToolCalls) > 0 {
			messages = a.appendToolRound(ctx, messages, choice)
			continue
		}

		text := choice.Content
		if !a.native && a.registry != nil {
			if req := a.adapter.TryExtractCall(text); req != nil {
				if res := a.adapter.Execute(ctx, req, a.registry); res != nil {
					a.logger.Info("pseudo tool call executed", "agent", a.name, "function", req.FunctionName)
					return res.Text, nil
				}
				a.logger.Debug("pseudo tool call not executable, using raw text", "agent", a.name)
			}
		}
		return text, nil
	}

	return "", fmt.Errorf("agent %s: tool loop exceeded %d turns", a.name, maxToolTurns)
}

// appendToolRound records the assistant's tool calls and their results so
// the next generation turn sees them.
func (a *Agent) appendToolRound(ctx context.Context, messages []llms.MessageContent, choice *llms.ContentChoice) []llms.MessageContent {
	assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	for _, tc := range choice.ToolCalls {
		assistant.Parts = append(assistant.Parts, tc)
	}
	messages = append(messages, assistant)

	for _, tc := range choice.ToolCalls {
		content := a.runNativeTool(ctx, tc)
		messages = append(messages, llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{llms.ToolCallResponse{
				ToolCallID: tc.ID,
				Name:       tc.FunctionCall.Name,
				Content:    content,
			}},
		})
	}
	return messages
}

// runNativeTool executes one structured call. Failures are reported back to
// the model as text so generation can recover rather than aborting the stage.
func (a *Agent) runNativeTool(ctx context.Context, tc llms.ToolCall) string {
	if tc.FunctionCall == nil {
		return "tool call missing function"
	}
	name := tc.FunctionCall.Name

	fn, ok := a.registry.Get(name)
	if !ok {
		a.logger.Warn("model requested unknown tool", "agent", a.name, "function", name)
		return fmt.Sprintf("tool %q is not available", name)
	}

	var params map[string]any
	if args := tc.FunctionCall.Arguments; args != "" {
		if err := json.Unmarshal([]byte(args), &params); err != nil {
			return fmt.Sprintf("invalid arguments for %q: %v", name, err)
		}
	}

	a.logger.Info("executing tool", "agent", a.name, "function", name)
	out, err := fn(ctx, params)
	if err != nil {
		a.logger.Warn("tool failed", "agent", a.name, "function", name, "error", err)
		return fmt.Sprintf("tool %q failed: %v", name, err)
	}
	return out
}

// StreamCall returns the agent's answer as a lazy sequence of text
// fragments. The sequence is finite and not restartable. Abandoning it
// cancels the underlying generation.
func (a *Agent) StreamCall(ctx context.Context, prompt string) iter.Seq2[string, error] {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, a.system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	return func(yield func(string, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		chunks := make(chan string)
		errc := make(chan error, 1)

		go func() {
			defer close(chunks)
			_, err := a.llm.GenerateContent(ctx, messages,
				llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
					select {
					case chunks <- string(chunk):
						return nil
					case <-ctx.Done():
						return ctx.Err()
					}
				}))
			errc <- err
		}()

		for chunk := range chunks {
			if !yield(chunk, nil) {
				return
			}
		}
		if err := <-errc; err != nil && ctx.Err() == nil {
			yield("", fmt.Errorf("agent %s: stream: %w", a.name, err))
		}
	}
}
