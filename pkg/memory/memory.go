// Package memory gives the researcher agent recall of completed sessions.
// Findings are chunked, embedded and stored in pgvector; the
// research_memory tool retrieves the closest passages for a new query.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// Embedder turns text into vectors for indexing and retrieval.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Memory indexes session findings and answers similarity queries over
// them.
type Memory struct {
	store    *Store
	embedder Embedder
	splitter textsplitter.TextSplitter
	logger   *slog.Logger
}

func New(store *Store, embedder Embedder, chunkSize, chunkOverlap int, logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memory{
		store:    store,
		embedder: embedder,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		logger: logger,
	}
}

// IndexSession chunks and stores the findings of a completed session.
func (m *Memory) IndexSession(ctx context.Context, sessionID, query, findings string) error {
	if strings.TrimSpace(findings) == "" {
		return nil
	}
	chunks, err := m.splitter.SplitText(findings)
	if err != nil {
		return fmt.Errorf("failed to split findings: %w", err)
	}
	vectors, err := m.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to embed findings: %w", err)
	}

	docs := make([]Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, Document{
			Content: chunk,
			Metadata: map[string]any{
				"session_id": sessionID,
				"query":      query,
			},
			Embedding: vectors[i],
		})
	}
	if err := m.store.AddDocuments(ctx, docs); err != nil {
		return err
	}
	m.logger.Info("session indexed into research memory",
		"session_id", sessionID, "chunks", len(docs))
	return nil
}

// Search returns the passages closest to query, formatted for tool
// output. An empty result is reported as text, not as an error.
func (m *Memory) Search(ctx context.Context, query string, topK int) (string, error) {
	if topK < 1 {
		topK = 3
	}
	vec, err := m.embedder.EmbedText(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}
	results, err := m.store.SimilaritySearch(ctx, vec, topK)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No related findings from previous research sessions.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Findings from previous research sessions related to %q:\n", query)
	for i, r := range results {
		origin, _ := r.Document.Metadata["query"].(string)
		fmt.Fprintf(&b, "\n%d. (similarity %.2f, from session on %q)\n%s\n", i+1, r.Score, origin, r.Document.Content)
	}
	return b.String(), nil
}
