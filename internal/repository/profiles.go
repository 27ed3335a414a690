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

// ProfileStore persists per-session user profiles keyed by session id.
type ProfileStore struct {
	db     DBTX
	logger *slog.Logger
}

func NewProfileStore(db DBTX, logger *slog.Logger) *ProfileStore {
	return &ProfileStore{
		db:     db,
		logger: logger.With("component", "profile_store"),
	}
}

// UpsertProfileParams carries the writable profile fields. Nil pointers
// and empty strings become NULL.
type UpsertProfileParams struct {
	SessionID             string
	Age                   *int
	Gender                string
	City                  string
	Occupation            string
	AnnualIncome          *float64
	ExistingCoverage      *float64
	PreExistingConditions []string
	Smoker                *bool
	MaritalStatus         string
	Dependents            *int
	BudgetMonthly         *float64
	CoverageNeeded        *float64
}

// Upsert writes the profile for a session, replacing any previous one,
// and returns the stored row.
func (s *ProfileStore) Upsert(ctx context.Context, params UpsertProfileParams) (*domain.UserProfile, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO user_profiles (
			session_id, age, gender, city, occupation,
			annual_income, existing_coverage, pre_existing_conditions,
			smoker, marital_status, dependents, budget_monthly, coverage_needed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (session_id) DO UPDATE SET
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			city = EXCLUDED.city,
			occupation = EXCLUDED.occupation,
			annual_income = EXCLUDED.annual_income,
			existing_coverage = EXCLUDED.existing_coverage,
			pre_existing_conditions = EXCLUDED.pre_existing_conditions,
			smoker = EXCLUDED.smoker,
			marital_status = EXCLUDED.marital_status,
			dependents = EXCLUDED.dependents,
			budget_monthly = EXCLUDED.budget_monthly,
			coverage_needed = EXCLUDED.coverage_needed,
			updated_at = NOW()
		RETURNING id, session_id, age, gender, city, occupation,
			annual_income, existing_coverage, pre_existing_conditions,
			smoker, marital_status, dependents, budget_monthly, coverage_needed,
			created_at, updated_at`,
		params.SessionID,
		params.Age,
		textOrNull(params.Gender),
		textOrNull(params.City),
		textOrNull(params.Occupation),
		numericFromPtr(params.AnnualIncome),
		numericFromPtr(params.ExistingCoverage),
		params.PreExistingConditions,
		params.Smoker,
		textOrNull(params.MaritalStatus),
		params.Dependents,
		numericFromPtr(params.BudgetMonthly),
		numericFromPtr(params.CoverageNeeded),
	)

	profile, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile for session %s: %w", params.SessionID, err)
	}
	return profile, nil
}

// Get returns the profile of a session, or domain.ErrProfileNotFound.
func (s *ProfileStore) Get(ctx context.Context, sessionID string) (*domain.UserProfile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, session_id, age, gender, city, occupation,
			annual_income, existing_coverage, pre_existing_conditions,
			smoker, marital_status, dependents, budget_monthly, coverage_needed,
			created_at, updated_at
		FROM user_profiles
		WHERE session_id = $1`,
		sessionID,
	)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile for session %s: %w", sessionID, err)
	}
	return profile, nil
}

func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var (
		p domain.UserProfile

		gender, city, occupation, maritalStatus pgtype.Text
		annualIncome, existingCoverage          pgtype.Numeric
		budgetMonthly, coverageNeeded           pgtype.Numeric
	)

	err := row.Scan(
		&p.ID, &p.SessionID, &p.Age, &gender, &city, &occupation,
		&annualIncome, &existingCoverage, &p.PreExistingConditions,
		&p.Smoker, &maritalStatus, &p.Dependents, &budgetMonthly, &coverageNeeded,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Gender = gender.String
	p.City = city.String
	p.Occupation = occupation.String
	p.MaritalStatus = maritalStatus.String
	p.AnnualIncome = floatPtr(annualIncome)
	p.ExistingCoverage = floatPtr(existingCoverage)
	p.BudgetMonthly = floatPtr(budgetMonthly)
	p.CoverageNeeded = floatPtr(coverageNeeded)

	return &p, nil
}

func floatPtr(n pgtype.Numeric) *float64 {
	if !n.Valid {
		return nil
	}
	f := numericToFloat(n)
	return &f
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
