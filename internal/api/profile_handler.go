package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nyvo/advisor/internal/domain"
	"github.com/nyvo/advisor/internal/repository"
)

// ProfileStore is the persistence slice the profile handler consumes.
type ProfileStore interface {
	Upsert(ctx context.Context, params repository.UpsertProfileParams) (*domain.UserProfile, error)
	Get(ctx context.Context, sessionID string) (*domain.UserProfile, error)
}

type ProfileHandler struct {
	store  ProfileStore
	logger *slog.Logger
}

func NewProfileHandler(store ProfileStore, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		store:  store,
		logger: logger.With("component", "profile_handler"),
	}
}

func (h *ProfileHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/profile", h.HandleUpsertProfile)
	g.GET("/profile/:session_id", h.HandleGetProfile)
}

type UpsertProfileRequest struct {
	SessionID             string   `json:"session_id" validate:"required"`
	Age                   *int     `json:"age,omitempty" validate:"omitempty,gte=18,lte=100"`
	Gender                string   `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	City                  string   `json:"city,omitempty"`
	Occupation            string   `json:"occupation,omitempty"`
	AnnualIncome          *float64 `json:"annual_income,omitempty" validate:"omitempty,gt=0"`
	ExistingCoverage      *float64 `json:"existing_coverage,omitempty" validate:"omitempty,gte=0"`
	PreExistingConditions []string `json:"pre_existing_conditions,omitempty"`
	Smoker                *bool    `json:"smoker,omitempty"`
	MaritalStatus         string   `json:"marital_status,omitempty" validate:"omitempty,oneof=single married divorced widowed"`
	Dependents            *int     `json:"dependents,omitempty" validate:"omitempty,gte=0,lte=20"`
	BudgetMonthly         *float64 `json:"budget_monthly,omitempty" validate:"omitempty,gt=0"`
	CoverageNeeded        *float64 `json:"coverage_needed,omitempty" validate:"omitempty,gt=0"`
}

// HandleUpsertProfile creates or replaces the profile of a session.
func (h *ProfileHandler) HandleUpsertProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpsertProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.store.Upsert(ctx, repository.UpsertProfileParams{
		SessionID:             req.SessionID,
		Age:                   req.Age,
		Gender:                req.Gender,
		City:                  req.City,
		Occupation:            req.Occupation,
		AnnualIncome:          req.AnnualIncome,
		ExistingCoverage:      req.ExistingCoverage,
		PreExistingConditions: req.PreExistingConditions,
		Smoker:                req.Smoker,
		MaritalStatus:         req.MaritalStatus,
		Dependents:            req.Dependents,
		BudgetMonthly:         req.BudgetMonthly,
		CoverageNeeded:        req.CoverageNeeded,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Profile upsert failed", "error", err, "session_id", req.SessionID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save profile")
	}

	return c.JSON(http.StatusOK, profile)
}

// HandleGetProfile returns the stored profile of a session.
func (h *ProfileHandler) HandleGetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.Param("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing session id")
	}

	profile, err := h.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		h.logger.ErrorContext(ctx, "Profile lookup failed", "error", err, "session_id", sessionID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}

	return c.JSON(http.StatusOK, profile)
}
