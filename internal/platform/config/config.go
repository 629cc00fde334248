// Package config reads prefixed environment variables for modules, logging bad values
package config

import (
	"strconv"
	"strings"
	"time"

	"aspectscan/internal/platform/config/raw"
	"aspectscan/internal/platform/logger"
)

// Conf is a prefixed view over the environment. Prefixes concatenate:
// New().Prefix("CORE_").Prefix("SCAN_") reads CORE_SCAN_*.
type Conf struct{ env raw.Conf }

// New creates the unprefixed view
func New() Conf { return Conf{env: raw.New()} }

// Prefix creates a child view with p appended to the prefix
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

func (c Conf) key(k string) string { return c.env.Key(k) }

// MustString returns the value or panics when it is unset
func (c Conf) MustString(key string) string {
	v, ok := c.env.Lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def when unset
func (c Conf) MayString(key, def string) string { return c.env.Get(key, def) }

// MayInt returns the value or def when unset; a malformed value logs and yields def
func (c Conf) MayInt(key string, def int) int {
	return may(c, key, def, strconv.Atoi)
}

// MayFloat64 returns the value or def when unset; a malformed value logs and yields def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def when unset; a malformed value logs and yields def
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, strconv.ParseBool)
}

// MayDuration returns the value, e.g. 250ms or 6h, or def when unset; a malformed value logs and yields def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	v, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).Msg("invalid env value; using default")
		return def
	}
	return v
}
