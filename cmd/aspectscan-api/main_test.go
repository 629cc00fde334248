package main

import (
	"testing"
	"time"

	"aspectscan/internal/platform/config"
	kit "aspectscan/internal/platform/testkit"
)

func TestStoreConfig_DisabledByDefault(t *testing.T) {
	cfg := storeConfig(config.New())
	if cfg.PG.Enabled || cfg.CH.Enabled {
		t.Fatalf("stores enabled without env: %+v", cfg)
	}
	if cfg.AppName != "aspectscan" {
		t.Fatalf("app name = %q", cfg.AppName)
	}
}

func TestStoreConfig_Enabled(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_ENABLED", "true")
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://scan@db/aspectscan")
	t.Setenv("SERVICE_PGSQL_PING_TIMEOUT", "1s")
	t.Setenv("SERVICE_CH_ENABLED", "1")
	t.Setenv("SERVICE_CH_DBURL", "clickhouse://ch:9000/aspects")

	cfg := storeConfig(config.New())
	if !cfg.PG.Enabled || cfg.PG.URL != "postgres://scan@db/aspectscan" || cfg.PG.MaxConns != 4 {
		t.Fatalf("pg = %+v", cfg.PG)
	}
	if cfg.PG.PingTimeout != time.Second || cfg.PG.ConnectRetries != 20 {
		t.Fatalf("pg retry = %+v", cfg.PG)
	}
	if !cfg.CH.Enabled || cfg.CH.URL != "clickhouse://ch:9000/aspects" || cfg.CH.ClientTag != "api" {
		t.Fatalf("ch = %+v", cfg.CH)
	}
}

func TestStoreConfig_EnabledNeedsURL(t *testing.T) {
	t.Setenv("SERVICE_CH_ENABLED", "true")
	kit.MustPanic(t, func() { storeConfig(config.New()) })
}
