// Package intent provides the rule-based intent classifier and slot
// extractor that front the recommendation pipeline. Everything here is a
// pure function over immutable text; there is no state across calls and
// no statistical model involved.
package intent

import (
	"strings"

	"github.com/nyvo/advisor/internal/domain"
)

const (
	TypeGeneralQuery   = "general_query"
	TypeRecommendation = "recommendation"
	TypeComparison     = "comparison"
	TypePolicyQuestion = "policy_question"
)

// Keyword vocabularies are membership-tested as lowercase substrings.
var (
	healthWords = []string{"health", "medical", "hospitalization", "mediclaim"}
	termWords   = []string{"term", "life", "death benefit"}
	motorWords  = []string{"car", "motor", "vehicle", "bike"}

	recommendPhrases = []string{
		"recommend", "suggest", "best policy", "which policy",
		"what should i buy", "help me choose", "find me", "looking for",
	}
	comparePhrases = []string{"compare", "comparison", "versus", "vs", "difference between"}
	policyPhrases  = []string{
		"claim process", "how to claim", "documents required",
		"exclusion", "waiting period", "premium", "coverage",
	}
)

// Classify tags a message with a coarse intent, an insurance-type hint and
// three independent flags. The insurance type is single-valued: health,
// then term, then motor, first match wins.
func Classify(message string) domain.Intent {
	lower := strings.ToLower(message)

	result := domain.Intent{Type: TypeGeneralQuery}

	switch {
	case containsAny(lower, healthWords):
		result.InsuranceType = domain.InsuranceHealth
	case containsAny(lower, termWords):
		result.InsuranceType = domain.InsuranceTermLife
	case containsAny(lower, motorWords):
		result.InsuranceType = domain.InsuranceMotor
	}

	result.NeedsRecommendation = containsAny(lower, recommendPhrases)
	result.NeedsComparison = containsAny(lower, comparePhrases)
	result.AskingAboutPolicy = containsAny(lower, policyPhrases)

	switch {
	case result.NeedsRecommendation:
		result.Type = TypeRecommendation
	case result.NeedsComparison:
		result.Type = TypeComparison
	case result.AskingAboutPolicy:
		result.Type = TypePolicyQuestion
	}

	return result
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
