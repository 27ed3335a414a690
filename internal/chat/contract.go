package chat

import (
	"context"

	"github.com/nyvo/advisor/internal/domain"
)

// GenerateOptions are passed through to the generation collaborator.
type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
}

// Generator is the text-generation collaborator. Complete returns the
// whole answer; Stream delivers it incrementally.
type Generator interface {
	Complete(ctx context.Context, messages []domain.ChatMessage, opts GenerateOptions) (string, error)
	Stream(ctx context.Context, messages []domain.ChatMessage, opts GenerateOptions) (TextStream, error)
}

// TextStream yields completion deltas. Recv returns io.EOF once the
// stream is fully drained.
type TextStream interface {
	Recv() (string, error)
	Close() error
}

// Turn is one persisted exchange.
type Turn struct {
	SessionID        string
	UserMessage      string
	AssistantText    string
	Intent           domain.Intent
	ContextRetrieved bool
	RecommendedIDs   []int64
}

// TurnPersister records completed exchanges. The service only calls it
// after generation finished; a cancelled stream is never persisted.
type TurnPersister interface {
	SaveTurn(ctx context.Context, turn Turn) error
}

// Recommender is the slice of the recommendation engine the chat service
// consumes.
type Recommender interface {
	Recommend(ctx context.Context, kind domain.InsuranceType, c domain.UserConstraints, limit int) ([]domain.Recommendation, error)
}

// ContextRetriever produces the knowledge-base context block for a query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, k int) (string, error)
}
