package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/2beens/healthtracker/internal/charts"
	"github.com/2beens/healthtracker/internal/config"
	"github.com/2beens/healthtracker/internal/dashboard"
	"github.com/2beens/healthtracker/internal/history"
	"github.com/2beens/healthtracker/internal/telemetry/metrics"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg, err := config.Parse("dev", `[development]
port = 8080
prometheus_metrics_port = "2112"
allowed_origins = ["http://localhost:8080"]
chart_width = 200
chart_height = 150
`)
	require.NoError(t, err)

	m, reg := metrics.NewTestManagerAndRegistry()
	return &Server{
		config:         cfg,
		versionInfo:    "abc123",
		session:        dashboard.NewSession(history.PolicyOverwriteLast, m, nil),
		renderCache:    charts.NewRenderCache(cfg.ChartCacheSizeMB, charts.NewRenderer(cfg.ChartWidth, cfg.ChartHeight)),
		metricsManager: m,
		promRegistry:   reg,
		otelShutdown:   func() {},
	}
}

func TestServer_Router(t *testing.T) {
	s := newTestServer(t)
	router, err := s.routerSetup()
	require.NoError(t, err)

	testCases := []struct {
		name           string
		method         string
		path           string
		form           url.Values
		origin         string
		expectedStatus int
		expectedBody   string
	}{
		{name: "root", method: http.MethodGet, path: "/", expectedStatus: http.StatusOK, expectedBody: "I'm OK, thanks"},
		{name: "version", method: http.MethodGet, path: "/version", expectedStatus: http.StatusOK, expectedBody: "abc123"},
		{name: "summary", method: http.MethodGet, path: "/tracker/summary", expectedStatus: http.StatusOK},
		{
			name:           "submit",
			method:         http.MethodPost,
			path:           "/tracker/submit",
			form:           url.Values{"steps": {"5000"}, "water": {"2"}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "submit invalid",
			method:         http.MethodPost,
			path:           "/tracker/submit",
			form:           url.Values{"steps": {"lots"}},
			expectedStatus: http.StatusBadRequest,
		},
		{name: "chart png", method: http.MethodGet, path: "/tracker/charts/water-trend.png", expectedStatus: http.StatusOK},
		{name: "unknown chart", method: http.MethodGet, path: "/tracker/charts/bmi.png", expectedStatus: http.StatusNotFound},
		{name: "unknown path", method: http.MethodGet, path: "/blog", expectedStatus: http.StatusNotFound},
		{name: "allowed origin", method: http.MethodGet, path: "/tracker/history", origin: "http://localhost:8080", expectedStatus: http.StatusOK},
		{name: "forbidden origin", method: http.MethodGet, path: "/tracker/history", origin: "https://evil.example.com", expectedStatus: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.form != nil {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.Equal(t, tc.expectedBody, rr.Body.String())
			}
		})
	}

	assert.Len(t, s.session.Snapshot().Records, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.CounterRequests.WithLabelValues("POST", "400")))
}

func TestCheckRedis(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, checkRedis(context.Background(), db))

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	err := checkRedis(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping redis")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := newTestServer(t)
	s.config.PrometheusMetricsPort = "0"

	s.Serve("127.0.0.1", 0)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.GaugeLifeSignal))

	s.GracefulShutdown()
	assert.Equal(t, float64(0), testutil.ToFloat64(s.metricsManager.GaugeLifeSignal))
}

func TestNewServer_InvalidPolicy(t *testing.T) {
	_, err := NewServer(context.Background(), NewServerParams{
		Config: &config.Config{HistoryPolicy: "fifo"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history policy")
}

func TestNewServer_WithoutRedis(t *testing.T) {
	s := newTestServer(t)
	srv, err := NewServer(context.Background(), NewServerParams{
		Config:      s.config,
		VersionInfo: "v1",
	})
	require.NoError(t, err)
	assert.Nil(t, srv.redisClient)
	assert.Equal(t, history.PolicyOverwriteLast, srv.session.Policy())
	srv.otelShutdown()
}
