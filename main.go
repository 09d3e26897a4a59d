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

	"github.com/robalobadob/flycatch/internal/config"
	"github.com/robalobadob/flycatch/internal/httpserver"
	"github.com/robalobadob/flycatch/internal/scoreapi"
	"github.com/robalobadob/flycatch/internal/scoreboard"
	"github.com/robalobadob/flycatch/internal/session"
)

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := httpserver.Options{ClientOrigin: cfg.ClientOrigin, RankingsLimit: cfg.RankingsLimit}
	if cfg.ScoreboardEnabled {
		db, err := scoreboard.OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open scoreboard database")
		}
		defer db.Close()
		if err := scoreboard.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migrate scoreboard database")
		}
		opts.Scoreboard = scoreboard.NewSQLStore(db)
		log.Info().Str("db", cfg.DBPath).Msg("scoreboard enabled")
	}

	scores := scoreapi.New(cfg.ScoreAPIURL, cfg.ScoreAPITimeout)
	sessions := session.NewManager(scores)
	defer sessions.Close()
	go sessions.Janitor(ctx, time.Minute, cfg.SessionIdleTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.New(sessions, opts).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", cfg.Port).Str("score_api", scores.BaseURL()).Msg("starting flycatch")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
