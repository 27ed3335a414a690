package recommend

import (
	"context"

	"github.com/nyvo/advisor/internal/domain"
)

// PolicyRepository is the read path into the policy catalogue. ListEligible
// applies the hard eligibility filters (active, type, age band containing
// the applicant, max coverage at least the requested amount) so that the
// scoring engine only ever ranks candidates that could actually be sold.
type PolicyRepository interface {
	ListEligible(ctx context.Context, kind domain.InsuranceType, age int, minCoverage float64) ([]domain.Policy, error)
	GetPolicy(ctx context.Context, id int64) (*domain.Policy, error)
	ListPoliciesByIDs(ctx context.Context, ids []int64) ([]domain.Policy, error)
}
