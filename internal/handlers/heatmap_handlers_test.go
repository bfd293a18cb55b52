package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temperature-matrix/internal/models"
	"temperature-matrix/internal/render"
	"temperature-matrix/internal/services"
	"temperature-matrix/pkg/logging"
	"temperature-matrix/pkg/metrics"
)

type fakeChecker struct {
	err   error
	calls int
}

func (f *fakeChecker) HealthCheck(ctx context.Context) error {
	f.calls++
	return f.err
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	router, _ := newTestRouterWith(t, nil)
	return router
}

func newTestRouterWith(t *testing.T, db HealthChecker) (*mux.Router, *metrics.Collector) {
	t.Helper()
	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)
	mc := metrics.NewCollector("test", prometheus.NewRegistry())

	day := func(date string, max, min float64) models.DailyObservation {
		d, err := time.Parse(models.DateLayout, date)
		require.NoError(t, err)
		return models.DailyObservation{Date: d, Year: d.Year(), Month: int(d.Month()), MaxTemp: max, MinTemp: min}
	}
	m, err := services.NewAggregationService(logger, mc).Aggregate(context.Background(), []models.DailyObservation{
		day("2020-02-15", 22.5, 10),
		day("2020-02-20", 30, 12),
		day("2021-08-01", 33, 26),
	})
	require.NoError(t, err)

	router := mux.NewRouter()
	NewHeatmapHandler(services.NewVisualizationService(m, logger, mc), db, logger, mc).RegisterRoutes(router)
	return router, mc
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `id="cell-2020-02-bg"`)
	assert.Contains(t, body, "/api/view/events")
	assert.NotContains(t, body, "&lt;svg", "svg must be embedded unescaped")
}

func TestGetSVG(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/heatmap.svg", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
}

func TestGetMatrix(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/api/matrix", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MatrixResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{2020, 2021}, resp.Years)
	assert.Len(t, resp.Months, 12)
	require.Len(t, resp.Cells, 2)
	assert.Equal(t, 2020, resp.Cells[0].Year)
	assert.Equal(t, 30.0, resp.Cells[0].MaxOfMonth)
	assert.Equal(t, 10.0, resp.Cells[0].MinOfMonth)
	require.Len(t, resp.Cells[0].Days, 2)
	assert.Equal(t, "2020-02-15", resp.Cells[0].Days[0].Date)
}

func TestPostEvent_ToggleAndTooltip(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/view/events", `{"type":"click","target":"cell-2021-08-bg"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "min", resp.View.Metric)
	assert.Equal(t, 1, resp.View.Toggles)
	assert.Len(t, resp.Changes, 6)
	assert.Equal(t, render.OpFill, resp.Changes[0].Op)
	assert.Equal(t, int64(500), resp.Changes[0].DurationMS)

	rec = do(t, router, http.MethodPost, "/api/view/events", `{"type":"pointerenter","target":"cell-2020-02-bg","x":200,"y":300}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = EventResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Changes, 3)
	assert.Equal(t, "Date: 2020-02, Min Temperature: 10", resp.Changes[0].Text)
	assert.Equal(t, 212.0, resp.Changes[1].X)
	assert.Equal(t, 276.0, resp.Changes[1].Y)

	rec = do(t, router, http.MethodGet, "/api/view", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"metric":"min","toggles":1}`, rec.Body.String())
}

func TestPostEvent_Errors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"type":`, http.StatusBadRequest},
		{"unknown field", `{"type":"click","target":"cell-2020-02-bg","button":2}`, http.StatusBadRequest},
		{"unknown event type", `{"type":"dblclick","target":"cell-2020-02-bg"}`, http.StatusBadRequest},
		{"unknown target", `{"type":"click","target":"cell-1999-01-bg"}`, http.StatusNotFound},
		{"shape without handler", `{"type":"click","target":"legend-00"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/view/events", tt.body)
			require.Equal(t, tt.code, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}

	rec := do(t, router, http.MethodGet, "/api/view", "")
	assert.JSONEq(t, `{"metric":"max","toggles":0}`, rec.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		checkErr   error
		wantCode   int
		wantStatus string
	}{
		{"database reachable", nil, http.StatusOK, "200"},
		{"database down", errors.New("database health check failed: connection refused"), http.StatusServiceUnavailable, "503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &fakeChecker{err: tt.checkErr}
			router, mc := newTestRouterWith(t, checker)

			rec := do(t, router, http.MethodGet, "/health", "")
			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, 1, checker.calls)
			assert.Equal(t, 1.0, testutil.ToFloat64(mc.APIRequestsTotal.WithLabelValues("/health", "GET", tt.wantStatus)))

			if tt.checkErr != nil {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
				assert.Contains(t, resp.Message, "connection refused")
				assert.Equal(t, 1.0, testutil.ToFloat64(mc.APIErrorsTotal.WithLabelValues("db_unhealthy", "/health")))
				return
			}

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "healthy", body["status"])
			assert.Equal(t, 2.0, body["cells"])
		})
	}
}

func TestHealthCheck_WithoutDatabase(t *testing.T) {
	router, mc := newTestRouterWith(t, nil)

	rec := do(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.APIRequestsTotal.WithLabelValues("/health", "GET", "200")))
}

func TestDocs(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/docs/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var spec map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	paths := spec["paths"].(map[string]interface{})
	assert.Contains(t, paths, "/api/view/events")
	assert.Contains(t, paths, "/heatmap.svg")

	rec = do(t, router, http.MethodGet, "/api/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}
