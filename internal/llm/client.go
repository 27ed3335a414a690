// Package llm adapts the OpenAI-compatible chat and embeddings API to the
// narrow interfaces the chat and retrieval packages consume.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nyvo/advisor/internal/chat"
	"github.com/nyvo/advisor/internal/domain"
)

// Config holds the generation provider settings.
type Config struct {
	APIKey         string
	BaseURL        string // empty means the official OpenAI endpoint
	ChatModel      string
	EmbeddingModel string
	Dimensions     int
}

// Client talks to an OpenAI-compatible API. It implements chat.Generator
// and retrieval.Embedder.
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	dimensions     int
	logger         *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:            openai.NewClientWithConfig(clientCfg),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		dimensions:     cfg.Dimensions,
		logger:         logger.With("component", "llm_client"),
	}
}

// Complete returns the full assistant answer for a conversation.
func (c *Client) Complete(ctx context.Context, messages []domain.ChatMessage, opts chat.GenerateOptions) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    toOpenAIMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", parseAPIError("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices: %w", domain.ErrCollaborator)
	}

	c.logger.DebugContext(ctx, "Chat completion finished",
		"model", c.chatModel,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

// Stream opens a streaming completion. The returned stream yields content
// deltas and io.EOF once the model is done.
func (c *Client) Stream(ctx context.Context, messages []domain.ChatMessage, opts chat.GenerateOptions) (chat.TextStream, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    toOpenAIMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return nil, parseAPIError("open chat completion stream", err)
	}
	return &completionStream{inner: stream}, nil
}

// Embed returns the embedding vector for one text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          c.embeddingModel,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if c.dimensions > 0 {
		req.Dimensions = c.dimensions
	}

	resp, err := c.api.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, parseAPIError("create embedding", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response: %w", domain.ErrCollaborator)
	}
	return resp.Data[0].Embedding, nil
}

// EmbedBatch embeds several texts in one request, preserving input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          c.embeddingModel,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if c.dimensions > 0 {
		req.Dimensions = c.dimensions
	}

	resp, err := c.api.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, parseAPIError("create embeddings", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response size mismatch, want %d got %d: %w",
			len(texts), len(resp.Data), domain.ErrCollaborator)
	}

	vectors := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}

type completionStream struct {
	inner *openai.ChatCompletionStream
}

func (s *completionStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", parseAPIError("receive stream chunk", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

func (s *completionStream) Close() error {
	return s.inner.Close()
}

func toOpenAIMessages(messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// parseAPIError lifts a provider failure into a domain.ErrCollaborator so
// transport code maps it to 502 rather than 500.
func parseAPIError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: API error %d: %s: %w", op, apiErr.HTTPStatusCode, apiErr.Message, domain.ErrCollaborator)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%s: API error %d: %s: %w", op, reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrCollaborator)
	}

	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrCollaborator)
}
