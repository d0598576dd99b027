package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/revoa/analytics-backend/api/controllers"
	"github.com/revoa/analytics-backend/api/middleware"
	"github.com/revoa/analytics-backend/internal/patterns"
	"github.com/revoa/analytics-backend/internal/reports"
	"github.com/revoa/analytics-backend/pkg/config"
	"github.com/revoa/analytics-backend/pkg/logger"
	"github.com/revoa/analytics-backend/pkg/metrics"
	"github.com/revoa/analytics-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface depends on. Optional
// dependencies (pixel ingest, extra readiness checks) may be left nil.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	Redis        *redis.Client
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	Reports      reports.Service
	Patterns     patterns.Service
	PixelIngest  controllers.PixelIngestor
	HealthChecks []controllers.HealthCheck
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.HealthChecks...))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(p.Registry))
	}

	if p.PixelIngest != nil {
		r.Route("/api/v1/pixel", func(r chi.Router) {
			r.Post("/events", controllers.PixelEvents(p.PixelIngest, logg))
		})
	}

	reportsPolicy := middleware.NewRateLimitPolicy(
		"reports",
		cfg.RateLimit.ReportsWindow,
		cfg.RateLimit.ReportsUserLimit,
		cfg.RateLimit.ReportsIPLimit,
	)

	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		if p.Redis != nil {
			r.Use(middleware.RateLimit(reportsPolicy, p.Redis, logg))
		}

		r.Get("/overview", controllers.ReportsOverview(p.Reports, logg))
		r.Get("/creatives", controllers.ReportsCreatives(p.Reports, logg))
		r.Get("/campaigns", controllers.ReportsCampaigns(p.Reports, logg))
		r.Get("/adsets", controllers.ReportsAdSets(p.Reports, logg))
		r.Get("/profit", controllers.ReportsProfit(p.Reports, logg))
		r.Post("/profit/enrich", controllers.ReportsEnrichProfit(p.Reports, logg))
		r.Get("/patterns/suggestions", controllers.PatternSuggestions(p.Patterns, logg))
	})

	return r
}
