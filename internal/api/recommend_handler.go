package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nyvo/advisor/internal/domain"
	"github.com/nyvo/advisor/internal/recommend"
)

// RecommendationEngine is the slice of the scoring engine the handlers
// consume.
type RecommendationEngine interface {
	Recommend(ctx context.Context, kind domain.InsuranceType, c domain.UserConstraints, limit int) ([]domain.Recommendation, error)
	PolicyDetails(ctx context.Context, id int64) (*recommend.PolicyDetail, error)
	Compare(ctx context.Context, ids []int64) ([]recommend.PolicyDetail, error)
}

type RecommendHandler struct {
	engine RecommendationEngine
	logger *slog.Logger
}

func NewRecommendHandler(engine RecommendationEngine, logger *slog.Logger) *RecommendHandler {
	return &RecommendHandler{
		engine: engine,
		logger: logger.With("component", "recommend_handler"),
	}
}

func (h *RecommendHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/recommend/health", h.HandleRecommendHealth)
	g.POST("/recommend/term", h.HandleRecommendTerm)
	g.GET("/policy/:id", h.HandleGetPolicy)
	g.POST("/policy/compare", h.HandleComparePolicies)
}

type HealthRecommendRequest struct {
	Age                   int      `json:"age" validate:"required,gte=18,lte=100"`
	CoverageNeeded        float64  `json:"coverage_needed" validate:"required,gt=0"`
	BudgetMonthly         *float64 `json:"budget_monthly,omitempty" validate:"omitempty,gt=0"`
	FamilySize            int      `json:"family_size,omitempty" validate:"omitempty,gte=1"`
	PreExistingConditions []string `json:"pre_existing_conditions,omitempty"`
	City                  string   `json:"city,omitempty"`
	Limit                 int      `json:"limit,omitempty" validate:"omitempty,gte=1,lte=20"`
}

type TermRecommendRequest struct {
	Age             int      `json:"age" validate:"required,gte=18,lte=65"`
	CoverageNeeded  float64  `json:"coverage_needed" validate:"required,gt=0"`
	BudgetMonthly   *float64 `json:"budget_monthly,omitempty" validate:"omitempty,gt=0"`
	AnnualIncome    *float64 `json:"annual_income,omitempty" validate:"omitempty,gt=0"`
	Smoker          bool     `json:"smoker,omitempty"`
	PolicyTermYears *int     `json:"policy_term_years,omitempty" validate:"omitempty,gte=5,lte=40"`
	Limit           int      `json:"limit,omitempty" validate:"omitempty,gte=1,lte=20"`
}

type RecommendResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Count           int                     `json:"count"`
}

// HandleRecommendHealth ranks health policies for the given applicant.
func (h *RecommendHandler) HandleRecommendHealth(c echo.Context) error {
	ctx := c.Request().Context()

	var req HealthRecommendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	constraints := domain.UserConstraints{
		Age:                   req.Age,
		CoverageNeeded:        req.CoverageNeeded,
		BudgetMonthly:         req.BudgetMonthly,
		FamilySize:            req.FamilySize,
		PreExistingConditions: req.PreExistingConditions,
		City:                  req.City,
	}

	recs, err := h.engine.Recommend(ctx, domain.InsuranceHealth, constraints, req.Limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "Health recommendation failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate recommendations")
	}

	return c.JSON(http.StatusOK, RecommendResponse{Recommendations: recs, Count: len(recs)})
}

// HandleRecommendTerm ranks term life policies for the given applicant.
func (h *RecommendHandler) HandleRecommendTerm(c echo.Context) error {
	ctx := c.Request().Context()

	var req TermRecommendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	constraints := domain.UserConstraints{
		Age:             req.Age,
		CoverageNeeded:  req.CoverageNeeded,
		BudgetMonthly:   req.BudgetMonthly,
		AnnualIncome:    req.AnnualIncome,
		Smoker:          req.Smoker,
		PolicyTermYears: req.PolicyTermYears,
	}

	recs, err := h.engine.Recommend(ctx, domain.InsuranceTermLife, constraints, req.Limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "Term recommendation failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate recommendations")
	}

	return c.JSON(http.StatusOK, RecommendResponse{Recommendations: recs, Count: len(recs)})
}

// HandleGetPolicy returns the full detail view of one policy.
func (h *RecommendHandler) HandleGetPolicy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid policy id")
	}

	detail, err := h.engine.PolicyDetails(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Policy lookup failed", "error", err, "policy_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load policy")
	}
	if detail == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Policy not found")
	}

	return c.JSON(http.StatusOK, detail)
}

type CompareRequest struct {
	PolicyIDs []int64 `json:"policy_ids" validate:"required,min=2,max=5,dive,gt=0"`
}

type CompareResponse struct {
	Policies []recommend.PolicyDetail `json:"policies"`
	Count    int                      `json:"count"`
}

// HandleComparePolicies returns detail views for 2 to 5 policies side by
// side. Unknown ids are skipped rather than failing the whole request.
func (h *RecommendHandler) HandleComparePolicies(c echo.Context) error {
	ctx := c.Request().Context()

	var req CompareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	policies, err := h.engine.Compare(ctx, req.PolicyIDs)
	if err != nil {
		h.logger.ErrorContext(ctx, "Policy comparison failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compare policies")
	}

	return c.JSON(http.StatusOK, CompareResponse{Policies: policies, Count: len(policies)})
}
