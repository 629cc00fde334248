package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"aspectscan/internal/platform/logger"
	chx "aspectscan/internal/platform/store/ch"
	"aspectscan/internal/platform/store/pg"
)

// openPG opens the pool and pings it with exponential backoff; the adapter is only returned once a ping succeeds
func openPG(ctx context.Context, app string, cfg PGConfig, log logger.Logger) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.URL,
		AppName:  app,
		MaxConns: cfg.MaxConns,
		SlowMs:   cfg.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	retries, timeout := cfg.ConnectRetries, cfg.PingTimeout
	if retries <= 0 {
		retries = 20
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 150 * time.Millisecond
	eb.MaxInterval = 2 * time.Second
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries-1)), ctx)

	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Pool.Ping(pctx)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("postgres not ready")
	}
	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, app string, cfg CHConfig) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.URL, App: app, Role: cfg.ClientName, Tag: cfg.ClientTag})
	if err != nil {
		return nil, err
	}
	return chAdapter{c}, nil
}
