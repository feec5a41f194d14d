package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"kp-summary/internal/config"
	"kp-summary/internal/metrics"
	"kp-summary/internal/middleware"
	recHnd "kp-summary/internal/reconcile/handler"
	"kp-summary/internal/reconcile/lexicon"
	"kp-summary/server/http/handlers"
)

// NewRouter; m == nil — без /metrics.
func NewRouter(cfg config.Config, logger zerolog.Logger, lex *lexicon.Lexicon, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// health-check
	r.Get("/health", handlers.Health)
	if m != nil {
		r.Method("GET", "/metrics", m.Handler())
	}

	// основной эндпоинт; лимит только на загрузку
	r.With(middleware.LimitBytes(int64(cfg.MaxUploadMB) << 20)).
		Post("/summary", recHnd.Summary(cfg, logger, lex, m))

	return r
}
