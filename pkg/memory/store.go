package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Document is one indexed passage of past research findings.
type Document struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	Embedding []float32      `json:"embedding,omitempty"`
}

// ScoredDocument pairs a document with its cosine similarity to a query.
type ScoredDocument struct {
	Document Document
	Score    float64
}

// Store persists research passages in a pgvector table.
type Store struct {
	pool      *pgxpool.Pool
	tableName string
}

// isValidTableName guards the interpolated table identifier against
// injection. PostgreSQL identifiers cap at 63 characters.
func isValidTableName(name string) bool {
	matched, _ := regexp.MatchString(`^[a-z_][a-zA-Z0-9_]{0,62}$`, name)
	return matched
}

func NewStore(pool *pgxpool.Pool, tableName string) (*Store, error) {
	if !isValidTableName(tableName) {
		return nil, fmt.Errorf("invalid table name %q: must be lowercase alphanumeric or underscore, max 63 characters", tableName)
	}
	return &Store{pool: pool, tableName: tableName}, nil
}

// AddDocuments inserts passages with their embeddings in one batch.
func (s *Store) AddDocuments(ctx context.Context, docs []Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (content, metadata, embedding)
		VALUES ($1, $2, $3)
	`, pgx.Identifier{s.tableName}.Sanitize())

	batch := &pgx.Batch{}
	for _, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		batch.Queue(query, doc.Content, metadataJSON, pgvector.NewVector(doc.Embedding))
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range docs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}
	return nil
}

// SimilaritySearch returns the topK passages closest to queryEmbedding by
// cosine distance.
func (s *Store) SimilaritySearch(ctx context.Context, queryEmbedding []float32, topK int) ([]ScoredDocument, error) {
	query := fmt.Sprintf(`
		SELECT id, content, metadata, 1 - (embedding <=> $1) as similarity
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgx.Identifier{s.tableName}.Sanitize())

	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(queryEmbedding), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to execute similarity search: %w", err)
	}
	defer rows.Close()

	var results []ScoredDocument
	for rows.Next() {
		var doc Document
		var metadataJSON []byte
		var similarity float64
		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		results = append(results, ScoredDocument{Document: doc, Score: similarity})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return results, nil
}
