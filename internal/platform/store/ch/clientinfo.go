package ch

import (
	"os"
	"runtime"
	"strings"

	"aspectscan/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo names this process in system.query_log: the app with its tag,
// then role (api or cli), go version, build commit and host
func BuildClientInfo(app, role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	b := version.Info()
	return clickhouse.ClientInfo{Products: []struct{ Name, Version string }{
		{Name: orDash(app), Version: orDash(tag)},
		{Name: "role", Version: orDash(role)},
		{Name: "go", Version: runtime.Version()},
		{Name: "build", Version: orDash(b.Version + "+" + b.Commit)},
		{Name: "host", Version: orDash(host)},
	}}
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}
