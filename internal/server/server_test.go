package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanops/dataqual/internal/expectations"
	"github.com/urbanops/dataqual/internal/loaders"
	"github.com/urbanops/dataqual/internal/observability/metrics"
	"github.com/urbanops/dataqual/internal/reporters"
	"github.com/urbanops/dataqual/pkg/models"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	report := models.NewReport("suite", 10, nil)
	require.NoError(t, store.Save(ctx, report))

	got, err := store.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
}

func TestMemoryStoreLatest(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := models.NewReport("suite", 10, nil)
	second := models.NewReport("suite", 20, nil)
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestMemoryStoreEmpty(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Latest(context.Background())
	assert.Error(t, err)

	_, err = store.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestValidateEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, expectations.DefaultTaxiSuiteName, doc["suite_name"])
	assert.Equal(t, float64(1000), doc["row_count"])
	assert.Equal(t, float64(15), doc["total_checks"])
	assert.NotEmpty(t, doc["report_id"])
}

func TestLatestEndpointAfterValidate(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/validate", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, expectations.DefaultTaxiSuiteName, doc["suite_name"])
}

func TestLatestEndpointEmptyStore(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetReportByID(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/validate", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	id, _ := doc["report_id"].(string)
	require.NotEmpty(t, id)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetReportUnknownID(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/no-such-id", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/validate", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dataqual_validation_runs_total")
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := quietLogger()

	engine, err := expectations.NewDefaultTaxiEngine(logger)
	require.NoError(t, err)

	loader := loaders.NewSampleLoader(logger)
	dispatcher := reporters.NewDispatcher(logger)
	store := NewMemoryStore()
	m := metrics.New()

	service := NewService(loader, engine, dispatcher, store, m, logger)
	return NewRouter(service, m, logger)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
