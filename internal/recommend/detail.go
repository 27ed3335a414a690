package recommend

import "github.com/nyvo/advisor/internal/domain"

// PolicyDetail is the full policy record returned by the detail and
// comparison endpoints.
type PolicyDetail struct {
	PolicyID          int64                `json:"policy_id"`
	Name              string               `json:"name"`
	Provider          ProviderDetail       `json:"provider"`
	InsuranceType     domain.InsuranceType `json:"insurance_type"`
	Description       string               `json:"description,omitempty"`
	Coverage          CoverageDetail       `json:"coverage"`
	Eligibility       EligibilityDetail    `json:"eligibility"`
	Premium           PremiumDetail        `json:"premium"`
	PolicyTerms       []int                `json:"policy_terms,omitempty"`
	WaitingPeriodDays int                  `json:"waiting_period_days"`
	FreeLookDays      int                  `json:"free_look_period_days"`
	KeyFeatures       []string             `json:"key_features"`
	Riders            []domain.Rider       `json:"riders"`
	Exclusions        []string             `json:"exclusions"`
	ClaimProcess      string               `json:"claim_process,omitempty"`
	DocumentsRequired []string             `json:"documents_required"`
	Ratings           RatingsDetail        `json:"ratings"`
}

type ProviderDetail struct {
	Name                 string  `json:"name"`
	Logo                 string  `json:"logo,omitempty"`
	ClaimSettlementRatio float64 `json:"claim_settlement_ratio,omitempty"`
	Website              string  `json:"website,omitempty"`
	Support              string  `json:"support,omitempty"`
}

type CoverageDetail struct {
	Min     float64        `json:"min"`
	Max     float64        `json:"max"`
	Details map[string]any `json:"details,omitempty"`
}

type EligibilityDetail struct {
	MinAge    int     `json:"min_age"`
	MaxAge    int     `json:"max_age"`
	MinIncome float64 `json:"min_income,omitempty"`
}

type PremiumDetail struct {
	Base      float64        `json:"base"`
	Frequency string         `json:"frequency"`
	Factors   map[string]any `json:"factors,omitempty"`
}

type RatingsDetail struct {
	Nyvo     float64 `json:"nyvo,omitempty"`
	Customer float64 `json:"customer,omitempty"`
}

func formatPolicyDetail(p domain.Policy) PolicyDetail {
	detail := PolicyDetail{
		PolicyID:      p.ID,
		Name:          p.Name,
		Provider:      ProviderDetail{Name: "Unknown"},
		InsuranceType: p.Type,
		Description:   p.Description,
		Coverage: CoverageDetail{
			Min:     p.MinCoverage,
			Max:     p.MaxCoverage,
			Details: p.CoverageDetails,
		},
		Eligibility: EligibilityDetail{
			MinAge:    p.MinAge,
			MaxAge:    p.MaxAge,
			MinIncome: p.MinIncome,
		},
		Premium: PremiumDetail{
			Base:      p.BasePremium,
			Frequency: p.PremiumFrequency,
			Factors:   p.PremiumFactors,
		},
		PolicyTerms:       p.PolicyTermOptions,
		WaitingPeriodDays: p.WaitingPeriodDays,
		FreeLookDays:      p.FreeLookPeriodDays,
		KeyFeatures:       p.KeyFeatures,
		Riders:            p.RidersAvailable,
		Exclusions:        p.Exclusions,
		ClaimProcess:      p.ClaimProcess,
		DocumentsRequired: p.DocumentsRequired,
		Ratings:           RatingsDetail{Nyvo: p.NyvoRating, Customer: p.CustomerRating},
	}
	if detail.KeyFeatures == nil {
		detail.KeyFeatures = []string{}
	}
	if detail.Riders == nil {
		detail.Riders = []domain.Rider{}
	}
	if detail.Exclusions == nil {
		detail.Exclusions = []string{}
	}
	if detail.DocumentsRequired == nil {
		detail.DocumentsRequired = []string{}
	}
	if p.Provider != nil {
		detail.Provider = ProviderDetail{
			Name:                 p.Provider.Name,
			Logo:                 p.Provider.LogoURL,
			ClaimSettlementRatio: p.Provider.ClaimSettlementRatio,
			Website:              p.Provider.Website,
			Support:              p.Provider.CustomerSupport,
		}
	}
	return detail
}
