package modkit

import (
	"aspectscan/internal/modkit/repokit"
	"aspectscan/internal/platform/config"
	"aspectscan/internal/platform/logger"
	"aspectscan/internal/platform/store"
)

// Deps holds the process wide dependencies handed to every module.
// PG and CH are nil when the matching store is disabled.
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
