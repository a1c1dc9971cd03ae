package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/healthtracker/internal/charts"
	"github.com/2beens/healthtracker/internal/config"
	"github.com/2beens/healthtracker/internal/dashboard"
	"github.com/2beens/healthtracker/internal/history"
	"github.com/2beens/healthtracker/internal/middleware"
	"github.com/2beens/healthtracker/internal/telemetry/metrics"
	"github.com/2beens/healthtracker/internal/telemetry/tracing"
	"github.com/2beens/healthtracker/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	session     *dashboard.Session
	renderCache *charts.RenderCache

	// optional, submit rate limiting is off without it
	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	policy, err := history.ParsePolicy(cfg.HistoryPolicy)
	if err != nil {
		return nil, fmt.Errorf("history policy: %w", err)
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("healthtracker", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		if err := checkRedis(ctx, rdb); err != nil {
			log.Errorf("--> %s", err)
		}
	} else {
		log.Warnln("redis host not set, submit rate limiting disabled")
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "healthtracker", rdb)
	if err != nil {
		return nil, err
	}

	log.Infof("history policy: %s, charts: %dx%d", policy, cfg.ChartWidth, cfg.ChartHeight)

	return &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		session:     dashboard.NewSession(policy, metricsManager, nil),
		renderCache: charts.NewRenderCache(
			cfg.ChartCacheSizeMB,
			charts.NewRenderer(cfg.ChartWidth, cfg.ChartHeight),
		),

		redisClient: rdb,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func checkRedis(ctx context.Context, rdb *redis.Client) error {
	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	log.Debugf("redis ping: %s", rdbStatus.Val())
	return nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	trackerHandler := dashboard.NewHandler(s.session, s.renderCache, s.metricsManager)

	var submitHandler http.Handler = http.HandlerFunc(trackerHandler.HandleSubmit)
	if s.redisClient != nil {
		submitHandler = middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"submit",
			s.config.SubmitRateLimitAllowedPerMin,
			s.metricsManager,
		)(submitHandler)
	}

	r.HandleFunc("/", s.handleRoot).Methods("GET").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	r.Handle("/tracker/submit", submitHandler).Methods("POST", "OPTIONS").Name("submit")
	r.HandleFunc("/tracker/summary", trackerHandler.HandleSummary).Methods("GET").Name("summary")
	r.HandleFunc("/tracker/history", trackerHandler.HandleHistory).Methods("GET").Name("history")
	r.HandleFunc("/tracker/charts", trackerHandler.HandleCharts).Methods("GET").Name("charts")
	r.HandleFunc("/tracker/charts/{slot}.png", trackerHandler.HandleChartPNG).Methods("GET").Name("chart-png")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
