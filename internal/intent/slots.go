package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nyvo/advisor/internal/domain"
)

// Slots holds the user details pulled out of free conversation text.
// Extraction is best-effort: every field may stay absent, and downstream
// code must fall back to its own defaults.
type Slots struct {
	Age            *int
	CoverageNeeded *float64
	BudgetMonthly  *float64
	FamilySize     int // defaults to 1
	AnnualIncome   *float64
	Smoker         bool
}

const lakh = 100000

var (
	ageRe      = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:years?|yrs?|old)\b|\bage[:\s]+(\d{1,3})\b`)
	coverageRe = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:lakhs?|lacs?|l)\b\s*(?:coverage|cover|sum assured)?`)
	budgetRe   = regexp.MustCompile(`(?i)\bbudget[:\s]+(?:₹|rs\.?|inr)?\s*(\d+(?:,\d+)*)`)
	familyRe   = regexp.MustCompile(`(?i)\bfamily\s+(?:of\s+)?(\d+)\b|\b(\d+)\s*(?:members?|people)\b`)
	incomeRe   = regexp.MustCompile(`(?i)\b(?:income|salary|earn)[:\s]+(?:₹|rs\.?|inr)?\s*(\d+(?:\.\d+)?)\s*(?:lakhs?|lacs?|l)?\b`)
)

var smokerWords = []string{"smoker", "smoking", "smoke", "tobacco"}

// ExtractSlots pattern-matches user details out of the current message and
// the whole conversation so far.
func ExtractSlots(message string, history []domain.ChatMessage) Slots {
	parts := make([]string, 0, len(history)+1)
	parts = append(parts, message)
	for _, turn := range history {
		parts = append(parts, turn.Content)
	}
	text := strings.Join(parts, " ")
	lower := strings.ToLower(text)

	slots := Slots{FamilySize: 1}

	if m := ageRe.FindStringSubmatch(text); m != nil {
		if age, err := strconv.Atoi(firstGroup(m)); err == nil {
			slots.Age = &age
		}
	}

	// Coverage amounts are quoted in lakhs ("10 lakhs coverage" = 10,00,000).
	if m := coverageRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			coverage := v * lakh
			slots.CoverageNeeded = &coverage
		}
	}

	if m := budgetRe.FindStringSubmatch(text); m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			slots.BudgetMonthly = &v
		}
	}

	if m := familyRe.FindStringSubmatch(text); m != nil {
		if size, err := strconv.Atoi(firstGroup(m)); err == nil && size >= 1 {
			slots.FamilySize = size
		}
	}

	// Income below 100 is read as lakhs per annum, otherwise absolute INR.
	if m := incomeRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if v < 100 {
				v *= lakh
			}
			slots.AnnualIncome = &v
		}
	}

	if containsAny(lower, smokerWords) {
		slots.Smoker = !strings.Contains(lower, "non-smoker") && !strings.Contains(lower, "non smoker")
	}

	return slots
}

// firstGroup returns the first non-empty capture group of a match with
// alternated groups.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
