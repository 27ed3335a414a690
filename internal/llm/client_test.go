package llm

import (
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	"github.com/nyvo/advisor/internal/domain"
)

func TestParseAPIErrorWrapsCollaborator(t *testing.T) {
	apiErr := &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "rate limit exceeded"}

	err := parseAPIError("chat completion", apiErr)

	assert.ErrorIs(t, err, domain.ErrCollaborator)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestParseAPIErrorPlainError(t *testing.T) {
	err := parseAPIError("create embedding", errors.New("dial tcp: connection refused"))

	assert.ErrorIs(t, err, domain.ErrCollaborator)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestToOpenAIMessagesPreservesOrderAndRoles(t *testing.T) {
	in := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be helpful"},
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	}

	out := toOpenAIMessages(in)

	assert.Len(t, out, 3)
	assert.Equal(t, openai.ChatMessageRoleSystem, out[0].Role)
	assert.Equal(t, "hi", out[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, out[2].Role)
}
