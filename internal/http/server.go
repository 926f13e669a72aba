package http

import (
	"context"
	"log"
	"net/http"

	"github.com/jfaurel/email-agent/internal/config"
	"github.com/jfaurel/email-agent/internal/http/middleware"
	"github.com/jfaurel/email-agent/internal/llm"
	"github.com/jfaurel/email-agent/internal/metrics"
	"github.com/jfaurel/email-agent/internal/repository"
	"github.com/jfaurel/email-agent/internal/service/analyzer"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, mysqlDB *sqlx.DB, rds *redis.Client) *Server {
	// repos
	clientsRepo := repository.NewClientsRepository(mysqlDB)
	logsRepo := repository.NewLogsRepository(mysqlDB)
	store := repository.NewAnalysisStore(mysqlDB, clientsRepo, logsRepo)

	// model upstream
	gemini := llm.NewGemini(llm.GeminiOpts{
		APIKey:        cfg.Gemini.APIKey,
		Model:         cfg.Gemini.Model,
		BaseURL:       cfg.Gemini.BaseURL,
		Timeout:       cfg.Gemini.Timeout,
		FailThreshold: cfg.Gemini.Breaker.FailThreshold,
		OpenFor:       cfg.Gemini.Breaker.OpenFor,
	})

	// services
	analyzerSvc := analyzer.New(store, gemini)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// meta
	e.GET("/", indexHandler())
	e.GET("/health", healthHandler(gemini.Model()))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	adminMW := middleware.AdminMiddleware(cfg.Admin.Secret)
	gateMW := middleware.ClientGateMiddleware(clientsRepo)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:     rds,
		PerHour:   cfg.RateLimit.PerHour,
		KeyPrefix: "rl:client:",
	})

	// routes
	admin := e.Group("/admin", adminMW)
	admin.GET("/clients", listClientsHandler(clientsRepo))
	admin.POST("/clients", createClientHandler(clientsRepo, cfg.Defaults.APICallsLimit))
	admin.POST("/clients/:id/toggle", toggleClientHandler(clientsRepo))
	admin.PUT("/clients/:id/config", updateClientConfigHandler(clientsRepo))
	admin.GET("/logs", listLogsHandler(logsRepo))
	admin.GET("/stats", statsHandler(clientsRepo, logsRepo))

	api := e.Group("/api", gateMW, rlMW)
	api.POST("/analyze-email", analyzeEmailHandler(analyzerSvc))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
