// Package retrieval turns semantic-search hits into the bounded context
// block that grounds the advisor's answers.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nyvo/advisor/internal/domain"
)

// DefaultTopK is the number of passages pulled per query.
const DefaultTopK = 5

// SearchService is the semantic-search collaborator.
type SearchService interface {
	Search(ctx context.Context, query string, k int) ([]domain.Passage, error)
}

const (
	passageSeparator = "\n\n---\n\n"
	fallbackSource   = "NYVO Content"
	fallbackCategory = "general"
)

// Retriever assembles provenance-tagged context blocks from search hits.
type Retriever struct {
	search SearchService
	logger *slog.Logger
}

func NewRetriever(search SearchService, logger *slog.Logger) *Retriever {
	return &Retriever{
		search: search,
		logger: logger.With("component", "context_retriever"),
	}
}

// Retrieve fetches the top-k passages for the query and renders them into
// one context block. No hits is a valid, non-error state: the result is an
// empty string and the chat proceeds without knowledge-base grounding.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (string, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	passages, err := r.search.Search(ctx, query, k)
	if err != nil {
		return "", fmt.Errorf("search knowledge base: %w", err)
	}
	if len(passages) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, formatPassage(p))
	}

	r.logger.DebugContext(ctx, "Assembled retrieval context", "passages", len(passages))
	return strings.Join(parts, passageSeparator), nil
}

func formatPassage(p domain.Passage) string {
	source := p.Source
	if source == "" {
		source = fallbackSource
	}
	category := p.Category
	if category == "" {
		category = fallbackCategory
	}
	return fmt.Sprintf("[Source: %s | Category: %s]\n%s", source, category, p.Text)
}
