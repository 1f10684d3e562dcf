package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notebooker/backend/dto"
	"github.com/notebooker/backend/repositories"
	"github.com/notebooker/backend/usecases"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	templatesDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(templatesDir, "sales"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(templatesDir, "sales", "daily.ipynb"),
		[]byte(`{"cells": []}`), 0o644))

	repos := repositories.Repositories{
		ExecutorGetter:     repositories.NewExecutorGetterStub(),
		TemplateRepository: repositories.NewTemplateRepository(templatesDir),
	}
	uc := usecases.NewUsecases(repos)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	addRoutes(router, uc)
	return router
}

func TestRunReportUnknownTemplateReturns404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/run_report/no/such/report", nil)
	r := httptest.NewRecorder()
	router.ServeHTTP(r, req)

	assert.Equal(t, http.StatusNotFound, r.Code)

	var response dto.APIErrorResponse
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &response))
	assert.Equal(t, dto.NotFound, response.ErrorCode)
}

func TestRunReportWithBrokenOverridesReturnsIssues(t *testing.T) {
	router := newTestRouter(t)

	form := url.Values{}
	form.Set("overrides", "n_days = undefined_name\nimport nonexistent_module")
	req := httptest.NewRequest(http.MethodPost, "/run_report/sales/daily",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r := httptest.NewRecorder()
	router.ServeHTTP(r, req)

	assert.Equal(t, http.StatusBadRequest, r.Code)

	var response dto.APIErrorResponse
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &response))
	assert.Equal(t, dto.OverridesInvalid, response.ErrorCode)
	assert.Len(t, response.Issues, 2)
}

func TestRerunReportRejectsMalformedId(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/rerun_report/not-a-uuid", nil)
	r := httptest.NewRecorder()
	router.ServeHTTP(r, req)

	assert.Equal(t, http.StatusBadRequest, r.Code)
}

func TestGetTemplateParametersRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/templates/sales/daily/parameters", nil)
	r := httptest.NewRecorder()
	router.ServeHTTP(r, req)

	assert.Equal(t, http.StatusOK, r.Code)
	assert.Contains(t, r.Body.String(), "sales/daily")
}

func TestListResultsRejectsInvalidLimit(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/results?limit=zero", nil)
	r := httptest.NewRecorder()
	router.ServeHTTP(r, req)

	assert.Equal(t, http.StatusBadRequest, r.Code)
}
