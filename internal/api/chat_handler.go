package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nyvo/advisor/internal/chat"
	"github.com/nyvo/advisor/internal/domain"
)

// ChatService is the slice of the chat pipeline the handler consumes.
type ChatService interface {
	Chat(ctx context.Context, sessionID, message string, history []domain.ChatMessage) (*chat.Result, error)
	ChatStream(ctx context.Context, sessionID, message string, history []domain.ChatMessage, onDelta func(string) error) (*chat.Result, error)
}

// HistoryStore loads the persisted messages of a session, oldest first.
type HistoryStore interface {
	History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
}

type ChatHandler struct {
	service ChatService
	history HistoryStore
	logger  *slog.Logger
}

func NewChatHandler(service ChatService, history HistoryStore, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		history: history,
		logger:  logger.With("component", "chat_handler"),
	}
}

// loadHistory returns the request's own history when present, otherwise
// the stored session history. A store failure degrades to an empty
// history rather than failing the turn.
func (h *ChatHandler) loadHistory(c echo.Context, req ChatRequest) []domain.ChatMessage {
	if len(req.History) > 0 {
		return req.History
	}
	ctx := c.Request().Context()
	stored, err := h.history.History(ctx, req.SessionID, chat.HistoryWindow)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to load stored chat history, proceeding without",
			"error", err, "session_id", req.SessionID)
		return nil
	}
	return stored
}

func (h *ChatHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/chat", h.HandleChat)
	g.POST("/chat/stream", h.HandleChatStream)
}

type ChatRequest struct {
	SessionID string               `json:"session_id" validate:"required"`
	Message   string               `json:"message" validate:"required"`
	History   []domain.ChatMessage `json:"history"`
}

type ChatResponse struct {
	Response        string                  `json:"response"`
	Intent          domain.Intent           `json:"intent"`
	Recommendations []domain.Recommendation `json:"recommendations,omitempty"`
	ContextUsed     bool                    `json:"context_used"`
}

// HandleChat answers one message in a single response body.
func (h *ChatHandler) HandleChat(c echo.Context) error {
	ctx := c.Request().Context()
	reqLogger := h.logger.With("request_id", c.Get("requestID"))

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.Chat(ctx, req.SessionID, req.Message, h.loadHistory(c, req))
	if err != nil {
		reqLogger.ErrorContext(ctx, "Chat turn failed", "error", err, "session_id", req.SessionID)
		if errors.Is(err, domain.ErrCollaborator) {
			return echo.NewHTTPError(http.StatusBadGateway, "Upstream AI service unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process chat message")
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Response:        result.Response,
		Intent:          result.Intent,
		Recommendations: result.Recommendations,
		ContextUsed:     result.ContextUsed,
	})
}

// streamChunk is one SSE data payload carrying generated text.
type streamChunk struct {
	Content string `json:"content"`
}

// streamEpilogue is the final SSE payload before the [DONE] marker.
type streamEpilogue struct {
	Done            bool                    `json:"done"`
	Intent          domain.Intent           `json:"intent"`
	Recommendations []domain.Recommendation `json:"recommendations,omitempty"`
	ContextUsed     bool                    `json:"context_used"`
}

// HandleChatStream answers one message as a server-sent event stream.
// Each chunk arrives as `data: {"content": "..."}` and the stream closes
// with a summary payload followed by `data: [DONE]`.
func (h *ChatHandler) HandleChatStream(c echo.Context) error {
	ctx := c.Request().Context()
	reqLogger := h.logger.With("request_id", c.Get("requestID"))

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	result, err := h.service.ChatStream(ctx, req.SessionID, req.Message, h.loadHistory(c, req), func(delta string) error {
		return writeSSE(resp, streamChunk{Content: delta})
	})
	if err != nil {
		reqLogger.ErrorContext(ctx, "Streaming chat turn failed", "error", err, "session_id", req.SessionID)
		// Headers are already sent; the best we can do is close the stream.
		return nil
	}

	if err := writeSSE(resp, streamEpilogue{
		Done:            true,
		Intent:          result.Intent,
		Recommendations: result.Recommendations,
		ContextUsed:     result.ContextUsed,
	}); err != nil {
		return nil
	}
	fmt.Fprint(resp, "data: [DONE]\n\n")
	resp.Flush()
	return nil
}

func writeSSE(resp *echo.Response, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode SSE payload: %w", err)
	}
	if _, err := fmt.Fprintf(resp, "data: %s\n\n", data); err != nil {
		return err
	}
	resp.Flush()
	return nil
}
