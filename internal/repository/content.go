package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pgvector/pgvector-go"

	"github.com/nyvo/advisor/internal/domain"
)

// ContentStore holds the embedded knowledge-base chunks. It implements
// retrieval.ChunkStore.
type ContentStore struct {
	db     DBTX
	logger *slog.Logger
}

func NewContentStore(db DBTX, logger *slog.Logger) *ContentStore {
	return &ContentStore{
		db:     db,
		logger: logger.With("component", "content_store"),
	}
}

// InsertChunkParams is one embedded chunk ready for indexing.
type InsertChunkParams struct {
	Source    string
	Category  string
	ChunkText string
	Embedding []float32
}

func (s *ContentStore) InsertChunk(ctx context.Context, params InsertChunkParams) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO content_chunks (source, category, chunk_text, embedding)
		VALUES ($1, $2, $3, $4)`,
		params.Source, params.Category, params.ChunkText, pgvector.NewVector(params.Embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to insert content chunk: %w", err)
	}
	return nil
}

// SearchChunks runs a cosine-distance KNN over the chunk embeddings.
func (s *ContentStore) SearchChunks(ctx context.Context, embedding []float32, k int) ([]domain.Passage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT chunk_text, source, category, embedding <=> $1 AS distance
		FROM content_chunks
		ORDER BY embedding <=> $1
		LIMIT $2`,
		pgvector.NewVector(embedding), k,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search content chunks: %w", err)
	}
	defer rows.Close()

	passages := []domain.Passage{}
	for rows.Next() {
		var p domain.Passage
		if err := rows.Scan(&p.Text, &p.Source, &p.Category, &p.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan content chunk: %w", err)
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content chunks: %w", err)
	}
	return passages, nil
}

// ContentStats summarises the indexed knowledge base.
type ContentStats struct {
	TotalChunks int64            `json:"total_chunks"`
	ByCategory  map[string]int64 `json:"by_category"`
}

func (s *ContentStore) Stats(ctx context.Context) (*ContentStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT category, COUNT(*)
		FROM content_chunks
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count content chunks: %w", err)
	}
	defer rows.Close()

	stats := &ContentStats{ByCategory: map[string]int64{}}
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan chunk count: %w", err)
		}
		stats.ByCategory[category] = count
		stats.TotalChunks += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunk counts: %w", err)
	}
	return stats, nil
}

// Clear drops every indexed chunk. Used before a full re-ingestion.
func (s *ContentStore) Clear(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM content_chunks`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear content chunks: %w", err)
	}
	s.logger.InfoContext(ctx, "Content chunks cleared", "deleted", tag.RowsAffected())
	return tag.RowsAffected(), nil
}
