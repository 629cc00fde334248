package store

import "time"

// Config selects and configures the backends Open connects
type Config struct {
	// AppName is reported to clickhouse as the client product
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures the postgres pool, connect retries and sql tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds the pings Open makes before giving up, default 20
	ConnectRetries int
	// PingTimeout bounds a single ping, default 3s
	PingTimeout time.Duration
}

// CHConfig configures the clickhouse connection
type CHConfig struct {
	Enabled bool
	URL     string

	// ClientName is the role shown in system.query_log, e.g. api or cli
	ClientName string
	ClientTag  string
}
