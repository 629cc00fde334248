// Command aspectscan runs aspect scans from the shell against the built-in
// mean element oracle
package main

import (
	"os"

	"aspectscan/internal/modkit"
	"aspectscan/internal/platform/config"
	"aspectscan/internal/platform/logger"

	scandom "aspectscan/internal/services/scan/domain"
	scanmod "aspectscan/internal/services/scan/module"
)

func main() {
	root := newRootCmd(os.Stdout, func() scandom.RunnerPort {
		// no stores: nothing is persisted and stored policies are unavailable
		m := scanmod.New(modkit.Deps{Cfg: config.New(), Log: *logger.Get()}, scanmod.Upstream{}, scanmod.Options{})
		return m.Ports().(scanmod.Ports).Runner
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
