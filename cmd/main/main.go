package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kp-summary/internal/config"
	"kp-summary/internal/metrics"
	"kp-summary/internal/reconcile/lexicon"
	serverhttp "kp-summary/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)
	if cfg.ConfigFile != "" {
		logger.Info().Str("file", cfg.ConfigFile).Msg("config file loaded")
	}

	lex, err := lexicon.LoadOrDefault(cfg.LexiconFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("lexicon")
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(true)
	}

	r := serverhttp.NewRouter(cfg, logger, lex, m)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
