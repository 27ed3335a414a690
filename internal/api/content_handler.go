package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nyvo/advisor/internal/ingestion"
	"github.com/nyvo/advisor/internal/repository"
)

// ContentService is the ingestion slice the content handler consumes.
type ContentService interface {
	IngestLibrary(ctx context.Context, replace bool) (*ingestion.Report, error)
	Stats(ctx context.Context) (*repository.ContentStats, error)
	Clear(ctx context.Context) (int64, error)
}

type ContentHandler struct {
	service ContentService
	logger  *slog.Logger
}

func NewContentHandler(service ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		logger:  logger.With("component", "content_handler"),
	}
}

func (h *ContentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/content/ingest", h.HandleIngest)
	g.GET("/content/stats", h.HandleStats)
	g.DELETE("/content/clear", h.HandleClear)
}

type IngestRequest struct {
	Replace bool `json:"replace"`
}

// HandleIngest runs a full content-library ingestion pass.
func (h *ContentHandler) HandleIngest(c echo.Context) error {
	ctx := c.Request().Context()
	reqLogger := h.logger.With("request_id", c.Get("requestID"))

	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	reqLogger.InfoContext(ctx, "Content ingestion triggered", "replace", req.Replace)

	report, err := h.service.IngestLibrary(ctx, req.Replace)
	if err != nil {
		reqLogger.ErrorContext(ctx, "Content ingestion failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Content ingestion failed")
	}

	return c.JSON(http.StatusOK, report)
}

// HandleStats reports the state of the content index.
func (h *ContentHandler) HandleStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Content stats failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load content stats")
	}

	return c.JSON(http.StatusOK, stats)
}

type ClearResponse struct {
	Deleted int64 `json:"deleted"`
}

// HandleClear drops the whole content index.
func (h *ContentHandler) HandleClear(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := h.service.Clear(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Content clear failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear content")
	}

	return c.JSON(http.StatusOK, ClearResponse{Deleted: deleted})
}
