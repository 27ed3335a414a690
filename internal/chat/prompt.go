package chat

import (
	"fmt"
	"strings"

	"github.com/nyvo/advisor/internal/domain"
)

// SystemPrompt is the fixed first message of every assembled conversation.
const SystemPrompt = `You are NYVO's AI Insurance Advisor, a knowledgeable and friendly assistant helping customers in India understand and purchase insurance products.

## Your Expertise:
- Health Insurance (individual, family floater, senior citizen, critical illness)
- Term Life Insurance (pure term, return of premium, increasing cover)
- Indian insurance regulations (IRDAI guidelines)
- Insurance basics, terminology, and concepts
- Claim processes and documentation
- Policy comparison and selection

## Guidelines:

### Communication Style:
- Be warm, professional, and empathetic
- Use simple language; avoid jargon unless explaining it
- Be concise but thorough when explaining complex topics
- Ask clarifying questions when needed to give better recommendations
- Use Indian context (₹ for currency, Indian regulations, local examples)

### When Making Recommendations:
- Always ask for relevant details (age, income, family size, health conditions, budget)
- Explain WHY you're recommending specific policies
- Highlight key features, not just prices
- Mention claim settlement ratios (CSR) - they matter!
- Discuss important exclusions and waiting periods
- Suggest appropriate coverage amounts based on user's situation

### Coverage Guidelines for Term Insurance:
- Recommend 10-15x annual income as coverage
- Consider outstanding loans and future goals

### Coverage Guidelines for Health Insurance:
- Minimum ₹5-10 lakhs for individuals in metro cities
- ₹10-25 lakhs for family floaters
- Consider room rent limits, sub-limits, and co-pay clauses

### Important Reminders:
- Always mention that insurance is subject to terms and conditions
- Recommend reading policy documents carefully
- Never make guarantees about claims or returns

## Context Information:
You have access to NYVO's content library for educational information and a database of insurance products for recommendations. Use the provided context to give accurate, helpful responses.`

// HistoryWindow bounds how many prior turns are replayed into the prompt
// so it cannot grow without limit.
const HistoryWindow = 20

// BuildMessages assembles the ordered message list handed verbatim to the
// generation collaborator: system prompt, trimmed history in original
// order, then one user turn carrying the raw message, the retrieved
// context (when any) and the recommendation block (when any).
func BuildMessages(userMessage string, history []domain.ChatMessage, context string, recs []domain.Recommendation) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: SystemPrompt})

	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	messages = append(messages, history...)

	content := userMessage
	if context != "" {
		content = fmt.Sprintf(`User Question: %s

---
Relevant Information from NYVO Knowledge Base:
%s
---

Please answer the user's question using the above context when relevant.`, userMessage, context)
	}

	if len(recs) > 0 {
		content += formatRecommendationBlock(recs)
	}

	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: content})
	return messages
}

func formatRecommendationBlock(recs []domain.Recommendation) string {
	var b strings.Builder
	b.WriteString("\n\nRecommended Policies from NYVO Database:\n")
	for i, rec := range recs {
		features := "N/A"
		if len(rec.KeyFeatures) > 0 {
			top := rec.KeyFeatures
			if len(top) > 3 {
				top = top[:3]
			}
			features = strings.Join(top, ", ")
		}
		fmt.Fprintf(&b, `
%d. %s by %s
   - Match Score: %.1f%%
   - Coverage: ₹%.0fL - ₹%.0fL
   - Base Premium: ₹%s/%s
   - Claim Settlement Ratio: %.0f%%
   - Key Features: %s
`,
			i+1, rec.Name, rec.Provider,
			rec.MatchScore,
			rec.CoverageRange.Min/100000, rec.CoverageRange.Max/100000,
			groupThousands(rec.BasePremium), rec.PremiumFrequency,
			rec.ClaimSettlementRatio,
			features,
		)
	}
	b.WriteString("\nPlease present these recommendations to the user in a helpful way, explaining why each might be suitable.")
	return b.String()
}

// groupThousands renders a rounded amount with comma separators.
func groupThousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
