package domain

import "time"

// InsuranceType identifies the product line a policy belongs to.
type InsuranceType string

const (
	InsuranceHealth    InsuranceType = "health"
	InsuranceTermLife  InsuranceType = "term_life"
	InsuranceWholeLife InsuranceType = "whole_life"
	InsuranceULIP      InsuranceType = "ulip"
	InsuranceMotor     InsuranceType = "motor"
	InsuranceTravel    InsuranceType = "travel"
)

// Provider is an insurance company. A Policy holds a non-owning reference
// to exactly one Provider.
type Provider struct {
	ID                   int64
	Name                 string
	ShortName            string
	LogoURL              string
	ClaimSettlementRatio float64 // percentage 0-100, zero when unknown
	IRDAIRegistration    string
	Website              string
	CustomerSupport      string
	IsActive             bool
	CreatedAt            time.Time
}

// Rider is an optional add-on benefit attached to a base policy.
type Rider struct {
	Type              string  `json:"type"`
	Name              string  `json:"name"`
	PremiumMultiplier float64 `json:"premium_multiplier,omitempty"`
}

// Policy is a single insurance product. It is read-only from the scoring
// engine's perspective; min/max invariants are enforced at ingestion time.
type Policy struct {
	ID          int64
	ProviderID  int64
	Provider    *Provider // may be nil when not joined
	Name        string
	Type        InsuranceType
	Description string

	MinCoverage     float64
	MaxCoverage     float64
	CoverageDetails map[string]any // schema-less; scoring probes known keys only

	MinAge    int
	MaxAge    int
	MinIncome float64

	BasePremium      float64 // per PremiumFrequency, zero when unknown
	PremiumFrequency string
	PremiumFactors   map[string]any

	PolicyTermOptions  []int
	WaitingPeriodDays  int
	FreeLookPeriodDays int

	KeyFeatures       []string
	RidersAvailable   []Rider
	Exclusions        []string
	ClaimProcess      string
	DocumentsRequired []string

	NyvoRating     float64 // 0-5 internal rating, zero when unrated
	CustomerRating float64

	IsActive   bool
	IsFeatured bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserConstraints carries the per-request inputs to the scoring engine.
// Every field except Age and CoverageNeeded is optional; absent optional
// inputs contribute zero to their scoring term.
type UserConstraints struct {
	Age                   int
	CoverageNeeded        float64
	BudgetMonthly         *float64
	AnnualIncome          *float64
	FamilySize            int
	Smoker                bool
	PolicyTermYears       *int
	PreExistingConditions []string
	City                  string
}

// Recommendation is one ranked entry of a recommendation response.
type Recommendation struct {
	PolicyID             int64         `json:"policy_id"`
	Name                 string        `json:"name"`
	Provider             string        `json:"provider"`
	ProviderLogo         string        `json:"provider_logo,omitempty"`
	InsuranceType        InsuranceType `json:"insurance_type"`
	MatchScore           float64       `json:"match_score"`
	CoverageRange        CoverageRange `json:"coverage_range"`
	BasePremium          float64       `json:"base_premium"`
	PremiumFrequency     string        `json:"premium_frequency"`
	KeyFeatures          []string      `json:"key_features"`
	RidersAvailable      []Rider       `json:"riders_available"`
	ClaimSettlementRatio float64       `json:"claim_settlement_ratio,omitempty"`
	NyvoRating           float64       `json:"nyvo_rating,omitempty"`
	CustomerRating       float64       `json:"customer_rating,omitempty"`
	WaitingPeriodDays    int           `json:"waiting_period_days"`
	Description          string        `json:"description,omitempty"`
}

// CoverageRange is the [min, max] payout band of a policy.
type CoverageRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Intent is the rule-based classification of one user message. The three
// flags are independent; InsuranceType is single-valued, first match wins.
type Intent struct {
	Type                string        `json:"type"`
	InsuranceType       InsuranceType `json:"insurance_type,omitempty"`
	NeedsRecommendation bool          `json:"needs_recommendation"`
	NeedsComparison     bool          `json:"needs_comparison"`
	AskingAboutPolicy   bool          `json:"asking_about_policy"`
}

// Passage is one retrieved knowledge-base hit. It has no identity beyond
// the query that produced it.
type Passage struct {
	Text     string
	Source   string
	Category string
	Distance float64
}

// ChatMessage is one turn of conversation handed to the generation
// collaborator.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UserProfile is the persisted per-session profile used to pre-fill
// recommendation inputs.
type UserProfile struct {
	ID                    int64     `json:"id"`
	SessionID             string    `json:"session_id"`
	Age                   *int      `json:"age,omitempty"`
	Gender                string    `json:"gender,omitempty"`
	City                  string    `json:"city,omitempty"`
	Occupation            string    `json:"occupation,omitempty"`
	AnnualIncome          *float64  `json:"annual_income,omitempty"`
	ExistingCoverage      *float64  `json:"existing_coverage,omitempty"`
	PreExistingConditions []string  `json:"pre_existing_conditions,omitempty"`
	Smoker                *bool     `json:"smoker,omitempty"`
	MaritalStatus         string    `json:"marital_status,omitempty"`
	Dependents            *int      `json:"dependents,omitempty"`
	BudgetMonthly         *float64  `json:"budget_monthly,omitempty"`
	CoverageNeeded        *float64  `json:"coverage_needed,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
