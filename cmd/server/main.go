package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/PhoneCall/internal/adapters/http"
	"github.com/dkeye/PhoneCall/internal/app"
	"github.com/dkeye/PhoneCall/internal/config"
	"github.com/dkeye/PhoneCall/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Logger first so config loading can report.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(config.ParseLevel(cfg.LogLevel))
	config.WatchLogLevel(config.FileName(os.Getenv("CONFIG_ENV")))

	groups := core.NewGroupRegistry(
		core.WithCapacity(cfg.GroupCapacity),
		core.WithCodeLength(cfg.CodeLength),
	)
	sessions := app.NewRegistry()
	go sessions.Run(ctx, cfg.SessionTTL, cfg.SweepInterval)

	orch := app.NewOrchestrator(sessions, groups)
	if cfg.ChatMaxLength > 0 {
		orch.ChatMaxLen = cfg.ChatMaxLength
	}
	if cfg.CodeLength > 0 {
		orch.CodeLen = cfg.CodeLength
	}

	r := router.SetupRouter(ctx, cfg, orch)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("PhoneCall server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Int("sessions", sessions.Count()).Int("groups", len(groups.List())).Msg("Server exited gracefully")
}
