package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nyvo/advisor/internal/chat"
	"github.com/nyvo/advisor/internal/domain"
)

// ChatStore persists completed chat turns. It implements
// chat.TurnPersister.
type ChatStore struct {
	db     DBTX
	logger *slog.Logger
}

func NewChatStore(db DBTX, logger *slog.Logger) *ChatStore {
	return &ChatStore{
		db:     db,
		logger: logger.With("component", "chat_store"),
	}
}

// turnContext is the jsonb payload stored alongside each assistant message.
type turnContext struct {
	Intent           domain.Intent `json:"intent"`
	ContextRetrieved bool          `json:"context_retrieved"`
}

// SaveTurn records one exchange as two message rows inside a transaction
// scope provided by the session upsert.
func (s *ChatStore) SaveTurn(ctx context.Context, turn chat.Turn) error {
	if _, err := s.db.Exec(ctx, `
		INSERT INTO chat_sessions (session_id, last_active_at)
		VALUES ($1, NOW())
		ON CONFLICT (session_id) DO UPDATE SET last_active_at = NOW()`,
		turn.SessionID,
	); err != nil {
		return fmt.Errorf("failed to upsert chat session: %w", err)
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO chat_messages (session_id, role, content)
		VALUES ($1, $2, $3)`,
		turn.SessionID, domain.RoleUser, turn.UserMessage,
	); err != nil {
		return fmt.Errorf("failed to insert user message: %w", err)
	}

	contextJSON, err := json.Marshal(turnContext{
		Intent:           turn.Intent,
		ContextRetrieved: turn.ContextRetrieved,
	})
	if err != nil {
		return fmt.Errorf("failed to encode turn context: %w", err)
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO chat_messages (session_id, role, content, context_used, recommended_policy_ids)
		VALUES ($1, $2, $3, $4, $5)`,
		turn.SessionID, domain.RoleAssistant, turn.AssistantText, contextJSON, turn.RecommendedIDs,
	); err != nil {
		return fmt.Errorf("failed to insert assistant message: %w", err)
	}

	return nil
}

// History returns the most recent messages of a session in chronological
// order, capped at limit.
func (s *ChatStore) History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT role, content FROM (
			SELECT id, role, content
			FROM chat_messages
			WHERE session_id = $1
			ORDER BY id DESC
			LIMIT $2
		) recent ORDER BY id`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}
	return messages, nil
}
