package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nyvo/advisor/internal/domain"
)

const policyColumns = `
	p.id, p.provider_id, p.name, p.type, p.description,
	p.min_coverage, p.max_coverage, p.coverage_details,
	p.min_age, p.max_age, p.min_income,
	p.base_premium, p.premium_frequency, p.premium_factors,
	p.policy_term_options, p.waiting_period_days, p.free_look_period_days,
	p.key_features, p.riders_available, p.exclusions,
	p.claim_process, p.documents_required,
	p.nyvo_rating, p.customer_rating,
	p.is_active, p.is_featured, p.created_at, p.updated_at,
	pr.id, pr.name, pr.short_name, pr.logo_url, pr.claim_settlement_ratio,
	pr.irdai_registration, pr.website, pr.customer_support, pr.is_active, pr.created_at`

const policyFrom = `
	FROM insurance_policies p
	JOIN insurance_providers pr ON pr.id = p.provider_id`

// PolicyStore reads insurance policies and their providers. It implements
// recommend.PolicyRepository.
type PolicyStore struct {
	db     DBTX
	logger *slog.Logger
}

func NewPolicyStore(db DBTX, logger *slog.Logger) *PolicyStore {
	return &PolicyStore{
		db:     db,
		logger: logger.With("component", "policy_store"),
	}
}

// ListEligible returns active policies of one type whose age band admits
// the applicant and whose maximum coverage reaches the requested amount.
func (s *PolicyStore) ListEligible(ctx context.Context, kind domain.InsuranceType, age int, minCoverage float64) ([]domain.Policy, error) {
	query := `SELECT` + policyColumns + policyFrom + `
	WHERE p.type = $1
	  AND p.is_active = TRUE
	  AND pr.is_active = TRUE
	  AND p.min_age <= $2
	  AND p.max_age >= $2
	  AND p.max_coverage >= $3
	ORDER BY p.id`

	rows, err := s.db.Query(ctx, query, string(kind), age, numericFromFloat(minCoverage))
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible policies: %w", err)
	}
	defer rows.Close()

	return scanPolicies(rows)
}

// GetPolicy fetches one policy with its provider joined in. Returns
// domain.ErrPolicyNotFound when the id does not exist.
func (s *PolicyStore) GetPolicy(ctx context.Context, id int64) (*domain.Policy, error) {
	query := `SELECT` + policyColumns + policyFrom + ` WHERE p.id = $1`

	policy, err := scanPolicy(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get policy %d: %w", id, err)
	}
	return policy, nil
}

// ListPoliciesByIDs fetches the given policies, silently skipping ids that
// do not exist. Result order follows the database, not the input.
func (s *PolicyStore) ListPoliciesByIDs(ctx context.Context, ids []int64) ([]domain.Policy, error) {
	if len(ids) == 0 {
		return []domain.Policy{}, nil
	}

	query := `SELECT` + policyColumns + policyFrom + ` WHERE p.id = ANY($1) ORDER BY p.id`

	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies by ids: %w", err)
	}
	defer rows.Close()

	return scanPolicies(rows)
}

func scanPolicies(rows pgx.Rows) ([]domain.Policy, error) {
	policies := []domain.Policy{}
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, *policy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate policy rows: %w", err)
	}
	return policies, nil
}

func scanPolicy(row pgx.Row) (*domain.Policy, error) {
	var (
		p        domain.Policy
		provider domain.Provider

		minCoverage, maxCoverage, minIncome pgtype.Numeric
		basePremium                         pgtype.Numeric
		nyvoRating, customerRating          pgtype.Numeric
		csr                                 pgtype.Numeric

		coverageDetails, premiumFactors, riders []byte

		description, claimProcess           pgtype.Text
		providerLogo, providerIRDAI         pgtype.Text
		providerWebsite, providerSupport    pgtype.Text
		providerShortName, premiumFrequency pgtype.Text
	)

	err := row.Scan(
		&p.ID, &p.ProviderID, &p.Name, &p.Type, &description,
		&minCoverage, &maxCoverage, &coverageDetails,
		&p.MinAge, &p.MaxAge, &minIncome,
		&basePremium, &premiumFrequency, &premiumFactors,
		&p.PolicyTermOptions, &p.WaitingPeriodDays, &p.FreeLookPeriodDays,
		&p.KeyFeatures, &riders, &p.Exclusions,
		&claimProcess, &p.DocumentsRequired,
		&nyvoRating, &customerRating,
		&p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
		&provider.ID, &provider.Name, &providerShortName, &providerLogo, &csr,
		&providerIRDAI, &providerWebsite, &providerSupport, &provider.IsActive, &provider.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.ClaimProcess = claimProcess.String
	p.PremiumFrequency = premiumFrequency.String
	p.MinCoverage = numericToFloat(minCoverage)
	p.MaxCoverage = numericToFloat(maxCoverage)
	p.MinIncome = numericToFloat(minIncome)
	p.BasePremium = numericToFloat(basePremium)
	p.NyvoRating = numericToFloat(nyvoRating)
	p.CustomerRating = numericToFloat(customerRating)

	if err := unmarshalJSONB(coverageDetails, &p.CoverageDetails); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(premiumFactors, &p.PremiumFactors); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(riders, &p.RidersAvailable); err != nil {
		return nil, err
	}

	provider.ShortName = providerShortName.String
	provider.LogoURL = providerLogo.String
	provider.IRDAIRegistration = providerIRDAI.String
	provider.Website = providerWebsite.String
	provider.CustomerSupport = providerSupport.String
	provider.ClaimSettlementRatio = numericToFloat(csr)
	p.Provider = &provider

	return &p, nil
}
