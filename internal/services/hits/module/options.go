package module

import "aspectscan/internal/platform/config"

// Options holds configuration settings for the hits module
type Options struct {
	HardLimit    int
	EnsureSchema bool
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	hf := cfg.Prefix("CORE_HITS_")
	return Options{
		HardLimit:    hf.MayInt("HARD_LIMIT", 100),
		EnsureSchema: hf.MayBool("ENSURE_SCHEMA", true),
	}
}
