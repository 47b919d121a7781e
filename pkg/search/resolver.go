// Package search resolves queries through a ranked cascade of web-search
// backends, normalizing whatever each provider returns into one schema.
// Resolution never fails: when every backend is exhausted the caller gets a
// degraded-but-valid outcome and keeps going.
package search

import (
	"context"
	"fmt"
	"log/slog"
)

// Backend is one concrete search provider behind the resolver. A backend
// that cannot serve a query (missing credentials, network failure, malformed
// response) returns an error; the resolver logs it and moves on.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Resolver cascades through its backends in priority order. The backend
// list is fixed at construction and never mutated.
type Resolver struct {
	backends []Backend
	logger   *slog.Logger
}

func NewResolver(logger *slog.Logger, backends ...Backend) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{backends: backends, logger: logger}
}

// DefaultBackends returns the standard priority order: Tavily (semantic),
// SerpAPI (general web), Google Custom Search, DuckDuckGo (free instant
// answers), Wikipedia (encyclopedic fallback). Keyed backends still appear
// even without credentials; they fail fast and the cascade falls through.
func DefaultBackends(tavilyKey, serpAPIKey, googleKey, googleEngineID string) []Backend {
	return []Backend{
		NewTavily(tavilyKey),
		NewSerpAPI(serpAPIKey),
		NewGoogleCustom(googleKey, googleEngineID),
		NewDuckDuckGo(),
		NewWikipedia(),
	}
}

// Resolve tries each backend in order and returns the first non-empty
// normalized result set. It never returns an error: total failure is
// reported through Outcome.Status.
func (r *Resolver) Resolve(ctx context.Context, query string, desired int) Outcome {
	if desired <= 0 {
		desired = 5
	}
	if desired > 10 {
		desired = 10
	}

	for _, backend := range r.backends {
		results, err := r.try(ctx, backend, query, desired)
		if err != nil {
			r.logger.Warn("search backend failed", "backend", backend.Name(), "error", err)
			continue
		}
		if len(results) == 0 {
			r.logger.Debug("search backend returned no results", "backend", backend.Name())
			continue
		}

		normalized := make([]Result, 0, len(results))
		for _, res := range results {
			normalized = append(normalized, normalize(res))
		}
		if len(normalized) > desired {
			normalized = normalized[:desired]
		}
		r.logger.Info("search succeeded", "backend", backend.Name(), "results", len(normalized))
		return Outcome{
			Status:     "success",
			Results:    normalized,
			MethodUsed: backend.Name(),
		}
	}

	r.logger.Warn("all search backends exhausted", "query", query)
	return Outcome{
		Status:      "failed",
		Results:     []Result{},
		MethodUsed:  "failed",
		ErrorDetail: "all search backends failed",
	}
}

// try isolates a single backend call so a panicking backend cannot take the
// cascade down with it.
func (r *Resolver) try(ctx context.Context, backend Backend, query string, desired int) (results []Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			results = nil
			err = fmt.Errorf("backend panicked: %v", rec)
		}
	}()
	return backend.Search(ctx, query, desired)
}

// DegradedMessage is the user-facing text returned when every backend fails.
// The calling agent continues on its own knowledge.
func DegradedMessage(query string) string {
	return fmt.Sprintf("Search temporarily unavailable for query: '%s'\n\n"+
		"External search engines could not be reached. Continuing with information "+
		"from the model's own knowledge; results may be less current than usual.",
		Sanitize(query))
}
