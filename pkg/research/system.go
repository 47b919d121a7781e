package research

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/superyhee/strands-deepsearch-agent/pkg/agent"
	"github.com/superyhee/strands-deepsearch-agent/pkg/clients"
	"github.com/superyhee/strands-deepsearch-agent/pkg/config"
	"github.com/superyhee/strands-deepsearch-agent/pkg/search"
)

// System bundles the orchestrator with the shared collaborators built
// from configuration. One System serves all sessions.
type System struct {
	Orchestrator *Orchestrator
	Resolver     *search.Resolver

	cfg    *config.Config
	logger *slog.Logger
}

// NewSystem validates cfg, builds the model clients, tools and agents,
// and wires them into an orchestrator. mem may be nil when no session
// memory backend is configured.
func NewSystem(ctx context.Context, cfg *config.Config, mem MemorySearcher, logger *slog.Logger) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	resolver := search.NewResolver(logger, search.DefaultBackends(
		cfg.TavilyAPIKey, cfg.SerpAPIKey, cfg.GoogleSearchAPIKey, cfg.GoogleSearchEngineID)...)
	tools := NewResearchToolset(resolver, search.NewPageFetcher(), mem)

	var (
		researcherModel, analystModel, writerModel llms.Model
		nativeTools                                bool
		modelLabel                                 string
		err                                        error
	)
	switch cfg.ModelType {
	case "deepseek":
		// DeepSeek emits tool calls as inline chat-template markers, so
		// the agents run with marker recovery instead of native calls.
		model, derr := clients.DeepSeek(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModelID)
		if derr != nil {
			return nil, fmt.Errorf("deepseek client: %w", derr)
		}
		researcherModel, analystModel, writerModel = model, model, model
		nativeTools = false
		modelLabel = cfg.DeepSeekModelID
	default:
		if researcherModel, err = clients.GoogleAI(ctx, cfg.GoogleAPIKey, cfg.ResearcherModel); err != nil {
			return nil, fmt.Errorf("researcher client: %w", err)
		}
		if analystModel, err = clients.GoogleAI(ctx, cfg.GoogleAPIKey, cfg.AnalystModel); err != nil {
			return nil, fmt.Errorf("analyst client: %w", err)
		}
		if writerModel, err = clients.GoogleAI(ctx, cfg.GoogleAPIKey, cfg.WriterModel); err != nil {
			return nil, fmt.Errorf("writer client: %w", err)
		}
		nativeTools = true
		modelLabel = cfg.ResearcherModel
	}

	researcher, err := agent.New(agent.Config{
		Name:            "researcher",
		Model:           researcherModel,
		SystemPrompt:    researcherSystemPrompt,
		Tools:           tools,
		NativeToolCalls: nativeTools,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("researcher agent: %w", err)
	}
	analyst, err := agent.New(agent.Config{
		Name:         "analyst",
		Model:        analystModel,
		SystemPrompt: analystSystemPrompt,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("analyst agent: %w", err)
	}
	writer, err := agent.New(agent.Config{
		Name:         "writer",
		Model:        writerModel,
		SystemPrompt: writerSystemPrompt,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("writer agent: %w", err)
	}

	orchestrator := NewOrchestrator(OrchestratorConfig{
		Researcher: researcher,
		Analyst:    analyst,
		Writer:     writer,
		MaxLoops:   cfg.MaxResearchLoops,
		Language:   cfg.Language,
		Model:      modelLabel,
		Logger:     logger,
	})

	return &System{
		Orchestrator: orchestrator,
		Resolver:     resolver,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// Config returns the configuration the system was built from.
func (s *System) Config() *config.Config { return s.cfg }
