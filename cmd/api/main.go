package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ftsilveira/dailydiet/internal/config"
	"github.com/ftsilveira/dailydiet/internal/db"
	httpx "github.com/ftsilveira/dailydiet/internal/http"
	"github.com/ftsilveira/dailydiet/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// tracing is opt-in
	if cfg.TracingEnabled {
		shutdownTracer, err := observability.InitTracer(context.Background(), "dailydiet-api", cfg.OTELEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	// connect the store; DB_HOST=none runs on the in-memory store (dev only)
	var pool *pgxpool.Pool

	if os.Getenv("DB_HOST") != "none" {
		var err error
		pool, err = db.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		seedCtx, cancel := config.WithTimeout(3 * time.Second)

		err = db.EnsureSeedUser(seedCtx, pool, cfg)

		cancel()

		if err != nil {
			log.Error("seed user failed", "err", err)
			os.Exit(1)
		}
	}

	// set up routers with the log
	router := httpx.NewRouter(log, pool, cfg)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
