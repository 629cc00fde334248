package module

import (
	"time"

	"aspectscan/internal/core/refine"
	"aspectscan/internal/platform/config"
)

// Options controls the scan engine and service
type Options struct {
	Workers       int
	Tolerance     refine.Tolerance
	MaxWindowDays int
	MaxSamples    int
	DefaultStep   time.Duration
	Persist       bool
	CacheSize     int
}

// FromConfig reads with the CORE_SCAN_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_SCAN_")
	def := refine.DefaultTolerance()
	return Options{
		Workers: c.MayInt("WORKERS", 0),
		Tolerance: refine.Tolerance{
			Angle:   c.MayFloat64("EPS_ANGLE", def.Angle),
			Time:    c.MayDuration("EPS_TIME", def.Time),
			MaxIter: c.MayInt("MAX_ITER", def.MaxIter),
			Shrink:  def.Shrink,
			Probes:  c.MayInt("PROBES", def.Probes),
		},
		MaxWindowDays: c.MayInt("MAX_WINDOW_DAYS", 3660),
		MaxSamples:    c.MayInt("MAX_SAMPLES", 200_000),
		DefaultStep:   c.MayDuration("DEFAULT_STEP", 6*time.Hour),
		Persist:       c.MayBool("PERSIST", false),
		CacheSize:     c.MayInt("CACHE_SIZE", 50_000),
	}
}
