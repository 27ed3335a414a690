package recommend

import (
	"strings"

	"github.com/nyvo/advisor/internal/domain"
)

// Score computes the 0-100 match score for a policy against the user's
// constraints. It is a pure function: no I/O, deterministic, and tolerant
// of partial data — any missing optional input contributes zero to its
// term rather than erroring. Eligibility filtering happens at the
// repository layer, so Score stays total over any policy.
func Score(p domain.Policy, c domain.UserConstraints, kind domain.InsuranceType) float64 {
	var score float64
	switch kind {
	case domain.InsuranceTermLife:
		score = termScore(p, c)
	default:
		score = healthScore(p, c)
	}
	return clamp(score, 0, 100)
}

const baseScore = 50.0

func healthScore(p domain.Policy, c domain.UserConstraints) float64 {
	score := baseScore

	// Claim settlement ratio is the strongest trust proxy for health cover.
	if p.Provider != nil && p.Provider.ClaimSettlementRatio > 0 {
		switch csr := p.Provider.ClaimSettlementRatio; {
		case csr >= 95:
			score += 20
		case csr >= 90:
			score += 15
		case csr >= 85:
			score += 10
		}
	}

	// Internal rating on a 0-5 scale.
	if p.NyvoRating > 0 {
		score += p.NyvoRating * 3
	}

	// Coverage fit: reward policies whose ceiling sits within 1-2x of the
	// requested amount; anything far larger is usually overpriced.
	if p.MaxCoverage > 0 && c.CoverageNeeded > 0 {
		ratio := p.MaxCoverage / c.CoverageNeeded
		if ratio >= 1 && ratio <= 2 {
			score += 10
		} else if ratio > 2 {
			score += 5
		}
	}

	if c.BudgetMonthly != nil && p.BasePremium > 0 {
		monthly := p.BasePremium / 12
		if monthly <= *c.BudgetMonthly {
			score += 10
		} else if monthly <= *c.BudgetMonthly*1.2 {
			score += 5
		}
	}

	// Shorter waiting periods pay out sooner.
	if p.WaitingPeriodDays > 0 {
		if p.WaitingPeriodDays <= 30 {
			score += 5
		} else if p.WaitingPeriodDays <= 90 {
			score += 3
		}
	}

	if len(c.PreExistingConditions) > 0 && coversPreExisting(p.CoverageDetails) {
		score += 8
	}

	if p.IsFeatured {
		score += 5
	}

	return score
}

func termScore(p domain.Policy, c domain.UserConstraints) float64 {
	score := baseScore

	// Term payouts hinge on the insurer honouring death claims, so the
	// CSR thresholds sit higher than for health.
	if p.Provider != nil && p.Provider.ClaimSettlementRatio > 0 {
		switch csr := p.Provider.ClaimSettlementRatio; {
		case csr >= 98:
			score += 25
		case csr >= 95:
			score += 20
		case csr >= 90:
			score += 10
		}
	}

	if p.NyvoRating > 0 {
		score += p.NyvoRating * 3
	}

	// Coverage adequacy against the 10-15x annual income guideline.
	if c.AnnualIncome != nil && c.CoverageNeeded > 0 {
		recommended := *c.AnnualIncome * 12
		if c.CoverageNeeded >= recommended*0.8 {
			score += 10
		}
	}

	if c.BudgetMonthly != nil && p.BasePremium > 0 {
		if p.BasePremium/12 <= *c.BudgetMonthly {
			score += 10
		}
	}

	for _, rider := range valuableRiders {
		if hasRider(p.RidersAvailable, rider) {
			score += 3
		}
	}

	if p.IsFeatured {
		score += 5
	}

	return score
}

var valuableRiders = []string{"critical_illness", "accidental_death", "waiver_of_premium"}

func hasRider(riders []domain.Rider, riderType string) bool {
	for _, r := range riders {
		if strings.ToLower(r.Type) == riderType {
			return true
		}
	}
	return false
}

// coversPreExisting probes the schema-less coverage-detail map for the
// pre-existing-condition sub-structure and its covered-after-waiting flag.
func coversPreExisting(details map[string]any) bool {
	if details == nil {
		return false
	}
	pec, ok := details["pre_existing_coverage"].(map[string]any)
	if !ok {
		return false
	}
	covered, ok := pec["covered_after_waiting"].(bool)
	return ok && covered
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
