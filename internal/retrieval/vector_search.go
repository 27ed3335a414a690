package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nyvo/advisor/internal/domain"
)

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChunkStore is the indexed content-chunk side of the search service.
type ChunkStore interface {
	SearchChunks(ctx context.Context, embedding []float32, k int) ([]domain.Passage, error)
}

// VectorSearch implements SearchService by embedding the query text and
// running a cosine-distance search over the indexed content chunks.
type VectorSearch struct {
	embedder Embedder
	chunks   ChunkStore
	logger   *slog.Logger
}

func NewVectorSearch(embedder Embedder, chunks ChunkStore, logger *slog.Logger) *VectorSearch {
	return &VectorSearch{
		embedder: embedder,
		chunks:   chunks,
		logger:   logger.With("component", "vector_search"),
	}
}

func (s *VectorSearch) Search(ctx context.Context, query string, k int) ([]domain.Passage, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	passages, err := s.chunks.SearchChunks(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search content chunks: %w", err)
	}

	s.logger.DebugContext(ctx, "Vector search completed", "hits", len(passages))
	return passages, nil
}
