package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nyvo/advisor/internal/domain"
	"github.com/nyvo/advisor/internal/intent"
	"github.com/nyvo/advisor/internal/recommend"
	"github.com/nyvo/advisor/internal/retrieval"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1500

	// Coverage targets applied when the age slot is known but the
	// coverage slot is not.
	DefaultHealthCoverage = 500000
	DefaultTermCoverage   = 5000000
)

// Service orchestrates one chat turn: intent detection, slot extraction,
// recommendation ranking, context retrieval, prompt assembly, generation
// and post-completion persistence. It holds no per-request state; every
// call runs start to finish on the caller's goroutine.
type Service struct {
	recommender Recommender
	retriever   ContextRetriever
	generator   Generator
	turns       TurnPersister
	logger      *slog.Logger
}

func NewService(recommender Recommender, retriever ContextRetriever, generator Generator, turns TurnPersister, logger *slog.Logger) *Service {
	return &Service{
		recommender: recommender,
		retriever:   retriever,
		generator:   generator,
		turns:       turns,
		logger:      logger.With("component", "chat_service"),
	}
}

// Result is what a completed chat turn hands back to the transport layer.
type Result struct {
	Response        string
	Intent          domain.Intent
	Recommendations []domain.Recommendation
	ContextUsed     bool
}

// Chat processes a message and returns the whole generated answer.
func (s *Service) Chat(ctx context.Context, sessionID, message string, history []domain.ChatMessage) (*Result, error) {
	prepared, err := s.prepare(ctx, message, history)
	if err != nil {
		return nil, err
	}

	answer, err := s.generator.Complete(ctx, prepared.messages, GenerateOptions{
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		// No partial persistence when generation fails outright.
		return nil, fmt.Errorf("%w: generate answer: %v", domain.ErrCollaborator, err)
	}

	s.persistTurn(ctx, sessionID, message, answer, prepared)

	return &Result{
		Response:        answer,
		Intent:          prepared.intent,
		Recommendations: prepared.recommendations,
		ContextUsed:     prepared.contextBlock != "",
	}, nil
}

// ChatStream processes a message in streaming mode, invoking onDelta for
// every chunk as it arrives. The turn is persisted only after the stream
// is fully drained; if onDelta reports the caller gone, already-delivered
// output stands but nothing is recorded.
func (s *Service) ChatStream(ctx context.Context, sessionID, message string, history []domain.ChatMessage, onDelta func(string) error) (*Result, error) {
	prepared, err := s.prepare(ctx, message, history)
	if err != nil {
		return nil, err
	}

	stream, err := s.generator.Stream(ctx, prepared.messages, GenerateOptions{
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open completion stream: %v", domain.ErrCollaborator, err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read completion stream: %v", domain.ErrCollaborator, err)
		}
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if err := onDelta(delta); err != nil {
			s.logger.WarnContext(ctx, "Stream consumer gone before completion, turn not persisted", "error", err)
			return nil, err
		}
	}

	answer := full.String()
	s.persistTurn(ctx, sessionID, message, answer, prepared)

	return &Result{
		Response:        answer,
		Intent:          prepared.intent,
		Recommendations: prepared.recommendations,
		ContextUsed:     prepared.contextBlock != "",
	}, nil
}

type preparedTurn struct {
	intent          domain.Intent
	contextBlock    string
	recommendations []domain.Recommendation
	messages        []domain.ChatMessage
}

func (s *Service) prepare(ctx context.Context, message string, history []domain.ChatMessage) (*preparedTurn, error) {
	detected := intent.Classify(message)

	contextBlock, err := s.retriever.Retrieve(ctx, message, retrieval.DefaultTopK)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve context: %v", domain.ErrCollaborator, err)
	}

	recs, err := s.maybeRecommend(ctx, detected, message, history)
	if err != nil {
		return nil, err
	}

	return &preparedTurn{
		intent:          detected,
		contextBlock:    contextBlock,
		recommendations: recs,
		messages:        BuildMessages(message, history, contextBlock, recs),
	}, nil
}

// maybeRecommend runs the recommendation pipeline when the intent asks for
// it and enough slots could be extracted. A missing age slot means no
// recommendation is attempted; the chat answers from context alone.
func (s *Service) maybeRecommend(ctx context.Context, detected domain.Intent, message string, history []domain.ChatMessage) ([]domain.Recommendation, error) {
	if !detected.NeedsRecommendation {
		return nil, nil
	}
	kind := detected.InsuranceType
	if kind != domain.InsuranceHealth && kind != domain.InsuranceTermLife {
		return nil, nil
	}

	slots := intent.ExtractSlots(message, history)
	if slots.Age == nil {
		s.logger.DebugContext(ctx, "Recommendation requested but age slot missing, skipping")
		return nil, nil
	}

	constraints := domain.UserConstraints{
		Age:           *slots.Age,
		BudgetMonthly: slots.BudgetMonthly,
		AnnualIncome:  slots.AnnualIncome,
		FamilySize:    slots.FamilySize,
		Smoker:        slots.Smoker,
	}
	switch {
	case slots.CoverageNeeded != nil:
		constraints.CoverageNeeded = *slots.CoverageNeeded
	case kind == domain.InsuranceHealth:
		constraints.CoverageNeeded = DefaultHealthCoverage
	default:
		constraints.CoverageNeeded = DefaultTermCoverage
	}

	recs, err := s.recommender.Recommend(ctx, kind, constraints, recommend.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("rank recommendations: %w", err)
	}
	return recs, nil
}

// persistTurn records the completed exchange. Persistence failure is
// logged rather than returned: the answer was already generated and the
// caller should still receive it.
func (s *Service) persistTurn(ctx context.Context, sessionID, message, answer string, prepared *preparedTurn) {
	turn := Turn{
		SessionID:        sessionID,
		UserMessage:      message,
		AssistantText:    answer,
		Intent:           prepared.intent,
		ContextRetrieved: prepared.contextBlock != "",
	}
	for _, rec := range prepared.recommendations {
		turn.RecommendedIDs = append(turn.RecommendedIDs, rec.PolicyID)
	}

	if err := s.turns.SaveTurn(ctx, turn); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist chat turn", "error", err, "session_id", sessionID)
	}
}
