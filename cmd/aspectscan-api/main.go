package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aspectscan/internal/platform/config"
	"aspectscan/internal/platform/logger"
	phttp "aspectscan/internal/platform/net/http"
	"aspectscan/internal/platform/store"

	"aspectscan/internal/services/api"
)

func main() {
	root := config.New()

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, storeConfig(root), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads API_PORT)
	srv := phttp.NewServer(root)

	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableProfiler: root.MayBool("API_PROFILER", false),
	})

	// Run drains on SIGINT/SIGTERM (API_SHUTDOWN_GRACE)
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}

// storeConfig reads both optional stores; the scan itself needs neither.
// Postgres holds stored orb policies, ClickHouse holds persisted hits.
func storeConfig(root config.Conf) store.Config {
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CH_")

	cfg := store.Config{AppName: "aspectscan"}
	if pgCfg.MayBool("ENABLED", false) {
		cfg.PG = store.PGConfig{
			Enabled:        true,
			URL:            pgCfg.MustString("DBURL"),
			MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:         pgCfg.MayBool("LOG_SQL", false),
			ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 3*time.Second),
		}
	}
	if chCfg.MayBool("ENABLED", false) {
		cfg.CH = store.CHConfig{
			Enabled:    true,
			URL:        chCfg.MustString("DBURL"),
			ClientName: "aspectscan",
			ClientTag:  "api",
		}
	}
	return cfg
}
