package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/nyvo/advisor/internal/domain"
)

// DefaultLimit is the number of recommendations returned when the caller
// does not ask for a specific count.
const DefaultLimit = 5

// Engine ranks eligible policies for a user. It is stateless apart from
// the repository handle it holds.
type Engine struct {
	repo   PolicyRepository
	logger *slog.Logger
}

// NewEngine creates a recommendation engine backed by the given repository.
func NewEngine(repo PolicyRepository, logger *slog.Logger) *Engine {
	return &Engine{
		repo:   repo,
		logger: logger.With("component", "recommendation_engine"),
	}
}

type scoredCandidate struct {
	policy domain.Policy
	score  float64
}

// Recommend returns up to limit recommendations for the given insurance
// kind, ranked by match score. Zero eligible policies is not an error:
// the result is an empty list. Equal scores keep repository order, so the
// ranking is deterministic for identical inputs.
func (e *Engine) Recommend(ctx context.Context, kind domain.InsuranceType, c domain.UserConstraints, limit int) ([]domain.Recommendation, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	policies, err := e.repo.ListEligible(ctx, kind, c.Age, c.CoverageNeeded)
	if err != nil {
		return nil, fmt.Errorf("query eligible policies: %w", err)
	}

	candidates := make([]scoredCandidate, 0, len(policies))
	for _, p := range policies {
		candidates = append(candidates, scoredCandidate{policy: p, score: Score(p, c, kind)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	recs := make([]domain.Recommendation, 0, len(candidates))
	for _, cand := range candidates {
		recs = append(recs, formatRecommendation(cand.policy, cand.score))
	}

	e.logger.InfoContext(ctx, "Ranked policy recommendations",
		"insurance_type", kind,
		"candidates", len(policies),
		"returned", len(recs),
	)
	return recs, nil
}

func formatRecommendation(p domain.Policy, score float64) domain.Recommendation {
	rec := domain.Recommendation{
		PolicyID:          p.ID,
		Name:              p.Name,
		Provider:          "Unknown",
		InsuranceType:     p.Type,
		MatchScore:        math.Round(score*10) / 10,
		CoverageRange:     domain.CoverageRange{Min: p.MinCoverage, Max: p.MaxCoverage},
		BasePremium:       p.BasePremium,
		PremiumFrequency:  p.PremiumFrequency,
		KeyFeatures:       p.KeyFeatures,
		RidersAvailable:   p.RidersAvailable,
		NyvoRating:        p.NyvoRating,
		CustomerRating:    p.CustomerRating,
		WaitingPeriodDays: p.WaitingPeriodDays,
		Description:       p.Description,
	}
	if rec.KeyFeatures == nil {
		rec.KeyFeatures = []string{}
	}
	if rec.RidersAvailable == nil {
		rec.RidersAvailable = []domain.Rider{}
	}
	if p.Provider != nil {
		rec.Provider = p.Provider.Name
		rec.ProviderLogo = p.Provider.LogoURL
		rec.ClaimSettlementRatio = p.Provider.ClaimSettlementRatio
	}
	return rec
}

// PolicyDetails returns the full record for a single policy, or nil when
// the id is unknown. Absence is an explicit empty result, not an error;
// the handler decides the user-facing status.
func (e *Engine) PolicyDetails(ctx context.Context, id int64) (*PolicyDetail, error) {
	p, err := e.repo.GetPolicy(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPolicyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get policy %d: %w", id, err)
	}
	if p == nil {
		return nil, nil
	}
	detail := formatPolicyDetail(*p)
	return &detail, nil
}

// Compare returns the full records for the given policy ids, in the order
// the repository yields them. Unknown ids are simply absent from the
// result; comparing only unknown ids yields an empty list.
func (e *Engine) Compare(ctx context.Context, ids []int64) ([]PolicyDetail, error) {
	policies, err := e.repo.ListPoliciesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list policies for comparison: %w", err)
	}

	details := make([]PolicyDetail, 0, len(policies))
	for _, p := range policies {
		details = append(details, formatPolicyDetail(p))
	}
	return details, nil
}
