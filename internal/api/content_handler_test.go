package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyvo/advisor/internal/ingestion"
	"github.com/nyvo/advisor/internal/repository"
)

type stubContentService struct {
	report  *ingestion.Report
	stats   *repository.ContentStats
	deleted int64
	err     error
}

func (s *stubContentService) IngestLibrary(context.Context, bool) (*ingestion.Report, error) {
	return s.report, s.err
}

func (s *stubContentService) Stats(context.Context) (*repository.ContentStats, error) {
	return s.stats, s.err
}

func (s *stubContentService) Clear(context.Context) (int64, error) {
	return s.deleted, s.err
}

func TestContentRoutesClearPath(t *testing.T) {
	handler := NewContentHandler(&stubContentService{deleted: 42}, testLogger())

	e := newEcho()
	handler.RegisterRoutes(e.Group("/api"))

	req := httptest.NewRequest(http.MethodDelete, "/api/content/clear", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":42}`, rec.Body.String())

	// The clear action lives under its own path, not the collection root.
	req = httptest.NewRequest(http.MethodDelete, "/api/content", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleClearFailure(t *testing.T) {
	handler := NewContentHandler(&stubContentService{err: assert.AnError}, testLogger())

	e := newEcho()
	handler.RegisterRoutes(e.Group("/api"))

	req := httptest.NewRequest(http.MethodDelete, "/api/content/clear", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
