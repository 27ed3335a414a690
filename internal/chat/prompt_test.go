package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyvo/advisor/internal/domain"
)

func TestBuildMessagesBareQuestion(t *testing.T) {
	messages := BuildMessages("what is a rider?", nil, "", nil)

	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Equal(t, SystemPrompt, messages[0].Content)
	assert.Equal(t, domain.RoleUser, messages[1].Role)
	assert.Equal(t, "what is a rider?", messages[1].Content)
}

func TestBuildMessagesWrapsContext(t *testing.T) {
	messages := BuildMessages("how do claims work?", nil, "[Source: Claims Guide | Category: claims]\nFile the form first.", nil)

	last := messages[len(messages)-1]
	assert.Contains(t, last.Content, "User Question: how do claims work?")
	assert.Contains(t, last.Content, "Relevant Information from NYVO Knowledge Base:")
	assert.Contains(t, last.Content, "File the form first.")
}

func TestBuildMessagesTrimsHistoryWindow(t *testing.T) {
	history := make([]domain.ChatMessage, HistoryWindow+6)
	for i := range history {
		history[i] = domain.ChatMessage{Role: domain.RoleUser, Content: fmt.Sprintf("turn %d", i)}
	}

	messages := BuildMessages("latest", history, "", nil)

	// system + trimmed history + user turn
	require.Len(t, messages, HistoryWindow+2)
	assert.Equal(t, "turn 6", messages[1].Content)
	assert.Equal(t, "latest", messages[len(messages)-1].Content)
}

func TestBuildMessagesRecommendationBlock(t *testing.T) {
	recs := []domain.Recommendation{{
		Name:                 "SecureHealth Plus",
		Provider:             "Acme General",
		MatchScore:           87.5,
		CoverageRange:        domain.CoverageRange{Min: 500000, Max: 2000000},
		BasePremium:          12500,
		PremiumFrequency:     "yearly",
		ClaimSettlementRatio: 96,
		KeyFeatures:          []string{"No room rent cap", "Day care cover", "Free checkup", "Fourth feature"},
	}}

	messages := BuildMessages("suggest a plan", nil, "", recs)

	last := messages[len(messages)-1].Content
	assert.Contains(t, last, "1. SecureHealth Plus by Acme General")
	assert.Contains(t, last, "Match Score: 87.5%")
	assert.Contains(t, last, "₹5L - ₹20L")
	assert.Contains(t, last, "₹12,500/yearly")
	// Only the top three features are surfaced.
	assert.Contains(t, last, "No room rent cap, Day care cover, Free checkup")
	assert.NotContains(t, last, "Fourth feature")
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "950", groupThousands(950))
	assert.Equal(t, "12,500", groupThousands(12500))
	assert.Equal(t, "1,250,000", groupThousands(1250000))
	assert.Equal(t, "-12,500", groupThousands(-12500))
}
