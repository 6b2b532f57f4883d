package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lyfstyl-ux/fightcaster/internal/api"
	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/engine"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
	"github.com/lyfstyl-ux/fightcaster/internal/notify"
	"github.com/lyfstyl-ux/fightcaster/internal/service"
	"github.com/lyfstyl-ux/fightcaster/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := loadEnvOrExit()
	cfg := loadConfigOrExit(env.ConfigPath)

	shutdownTracing, err := telemetry.Setup(ctx, constants.ServiceName, env.OTLPEndpoint)
	if err != nil {
		logging.Fatal("Failed to set up tracing", err, nil)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logging.Warn("tracer shutdown failed", logging.Fields{"error": err.Error()})
		}
	}()

	repo := createRepositoryOrExit(env.StorageDriver, env.DBPath, cfg.Characters)

	rng := engine.NewLockedRoller(rand.New(rand.NewSource(time.Now().UnixNano())))
	hub := notify.NewHub(notify.RepositoryLoader(repo))
	battles := service.NewBattles(repo, engine.New(rng, cfg.Rules), hub)
	challenges := service.NewChallenges(repo, hub)
	users := service.NewUsers(repo)

	sessions, err := api.NewSessions(env.SessionSecret, env.SessionSecureCookie)
	if err != nil {
		logging.Fatal("Failed to set up sessions", err, nil)
	}
	if env.SessionSecret == "" {
		logging.Warn("SESSION_SECRET not set; using a random secret, sessions end on restart", nil)
	}
	router := api.NewRouter(
		api.NewAuthHandler(users, sessions, env.DevLogin, env.OAuth),
		api.NewGameHandler(repo, battles, challenges, users, hub),
		sessions,
	)

	addr := cfg.ServerAddress
	if env.ServerAddress != "" {
		addr = env.ServerAddress
	}
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		startChallengeExpiryScanner(gctx, challenges, cfg.ChallengeTTL, time.Minute)
		return nil
	})
	g.Go(func() error {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr, constants.LogFieldDriver: env.StorageDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logging.Fatal("Server stopped", err, nil)
	}
	logging.Info("Server stopped", nil)
}
