package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/gamey/internal/app"
	"github.com/jaminalder/gamey/internal/bot"
	"github.com/jaminalder/gamey/internal/config"
	"github.com/jaminalder/gamey/internal/web"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)

	bots := bot.DefaultRegistry(cfg.RandomSeed)
	svc := app.NewService(bots, cfg.MaxBoardSize)
	handler := web.NewServer(svc,
		web.WithDefaultSize(cfg.DefaultBoardSize),
		web.WithHeartbeat(cfg.Heartbeat),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Strs("bots", bots.Names()).Msg("gamey listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
