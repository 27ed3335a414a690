package recommend

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyvo/advisor/internal/domain"
)

// Stub repository for engine tests.
type stubPolicyRepo struct {
	policies []domain.Policy
	err      error
}

func (s *stubPolicyRepo) ListEligible(ctx context.Context, kind domain.InsuranceType, age int, minCoverage float64) ([]domain.Policy, error) {
	if s.err != nil {
		return nil, s.err
	}
	var eligible []domain.Policy
	for _, p := range s.policies {
		if p.IsActive && p.Type == kind && p.MinAge <= age && age <= p.MaxAge && p.MaxCoverage >= minCoverage {
			eligible = append(eligible, p)
		}
	}
	return eligible, nil
}

func (s *stubPolicyRepo) GetPolicy(ctx context.Context, id int64) (*domain.Policy, error) {
	for _, p := range s.policies {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrPolicyNotFound
}

func (s *stubPolicyRepo) ListPoliciesByIDs(ctx context.Context, ids []int64) ([]domain.Policy, error) {
	var found []domain.Policy
	for _, p := range s.policies {
		for _, id := range ids {
			if p.ID == id {
				found = append(found, p)
			}
		}
	}
	return found, nil
}

func testEngine(repo PolicyRepository) *Engine {
	return NewEngine(repo, slog.Default())
}

func eligibleHealthPolicy(id int64, csr float64) domain.Policy {
	return domain.Policy{
		ID:          id,
		Name:        "Plan",
		Type:        domain.InsuranceHealth,
		Provider:    &domain.Provider{Name: "Insurer", ClaimSettlementRatio: csr},
		MinCoverage: 200000,
		MaxCoverage: 2000000,
		MinAge:      18,
		MaxAge:      65,
		IsActive:    true,
	}
}

func TestRecommendRanksByScore(t *testing.T) {
	repo := &stubPolicyRepo{policies: []domain.Policy{
		eligibleHealthPolicy(1, 86), // +10
		eligibleHealthPolicy(2, 96), // +20
		eligibleHealthPolicy(3, 91), // +15
	}}

	recs, err := testEngine(repo).Recommend(context.Background(), domain.InsuranceHealth,
		domain.UserConstraints{Age: 30, CoverageNeeded: 500000}, 5)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, int64(2), recs[0].PolicyID)
	assert.Equal(t, int64(3), recs[1].PolicyID)
	assert.Equal(t, int64(1), recs[2].PolicyID)
	assert.Greater(t, recs[0].MatchScore, recs[1].MatchScore)
}

func TestRecommendStableTieBreak(t *testing.T) {
	// Identical policies score identically; repository order decides.
	repo := &stubPolicyRepo{policies: []domain.Policy{
		eligibleHealthPolicy(7, 96),
		eligibleHealthPolicy(3, 96),
		eligibleHealthPolicy(5, 96),
	}}
	c := domain.UserConstraints{Age: 30, CoverageNeeded: 500000}

	first, err := testEngine(repo).Recommend(context.Background(), domain.InsuranceHealth, c, 5)
	require.NoError(t, err)
	second, err := testEngine(repo).Recommend(context.Background(), domain.InsuranceHealth, c, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(7), first[0].PolicyID)
	assert.Equal(t, int64(3), first[1].PolicyID)
	assert.Equal(t, int64(5), first[2].PolicyID)
}

func TestRecommendAppliesLimit(t *testing.T) {
	repo := &stubPolicyRepo{}
	for i := int64(1); i <= 8; i++ {
		repo.policies = append(repo.policies, eligibleHealthPolicy(i, 90))
	}

	recs, err := testEngine(repo).Recommend(context.Background(), domain.InsuranceHealth,
		domain.UserConstraints{Age: 30, CoverageNeeded: 500000}, 0)
	require.NoError(t, err)
	assert.Len(t, recs, DefaultLimit)
}

func TestRecommendEligibilityFilter(t *testing.T) {
	tooYoung := eligibleHealthPolicy(1, 96)
	tooYoung.MinAge = 40
	lowCoverage := eligibleHealthPolicy(2, 96)
	lowCoverage.MaxCoverage = 100000
	inactive := eligibleHealthPolicy(3, 96)
	inactive.IsActive = false
	good := eligibleHealthPolicy(4, 96)

	repo := &stubPolicyRepo{policies: []domain.Policy{tooYoung, lowCoverage, inactive, good}}
	c := domain.UserConstraints{Age: 30, CoverageNeeded: 500000}

	recs, err := testEngine(repo).Recommend(context.Background(), domain.InsuranceHealth, c, 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(4), recs[0].PolicyID)
}

func TestRecommendEmptyResultSet(t *testing.T) {
	recs, err := testEngine(&stubPolicyRepo{}).Recommend(context.Background(), domain.InsuranceTermLife,
		domain.UserConstraints{Age: 30, CoverageNeeded: 5000000}, 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.NotNil(t, recs)
}

func TestRecommendRepositoryError(t *testing.T) {
	repoErr := errors.New("connection refused")
	_, err := testEngine(&stubPolicyRepo{err: repoErr}).Recommend(context.Background(),
		domain.InsuranceHealth, domain.UserConstraints{Age: 30, CoverageNeeded: 500000}, 5)
	assert.ErrorIs(t, err, repoErr)
}

func TestPolicyDetailsNotFound(t *testing.T) {
	detail, err := testEngine(&stubPolicyRepo{}).PolicyDetails(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestPolicyDetailsFormatsProvider(t *testing.T) {
	p := eligibleHealthPolicy(12, 94)
	p.Provider.Website = "https://insurer.example"
	p.KeyFeatures = []string{"cashless claims"}
	repo := &stubPolicyRepo{policies: []domain.Policy{p}}

	detail, err := testEngine(repo).PolicyDetails(context.Background(), 12)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Insurer", detail.Provider.Name)
	assert.Equal(t, 94.0, detail.Provider.ClaimSettlementRatio)
	assert.Equal(t, []string{"cashless claims"}, detail.KeyFeatures)
	assert.NotNil(t, detail.Riders)
}

func TestCompareUnknownIDs(t *testing.T) {
	details, err := testEngine(&stubPolicyRepo{}).Compare(context.Background(), []int64{100, 200})
	require.NoError(t, err)
	assert.Empty(t, details)
	assert.NotNil(t, details)
}

func TestCompareMixedIDs(t *testing.T) {
	repo := &stubPolicyRepo{policies: []domain.Policy{
		eligibleHealthPolicy(1, 95),
		eligibleHealthPolicy(2, 90),
	}}
	details, err := testEngine(repo).Compare(context.Background(), []int64{2, 404})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, int64(2), details[0].PolicyID)
}
