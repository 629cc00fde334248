package module

import (
	"context"
	"testing"
	"time"

	"aspectscan/internal/modkit"
	"aspectscan/internal/platform/config"
	"aspectscan/internal/services/scan/domain"
)

func TestFromConfig_Env(t *testing.T) {
	t.Setenv("CORE_SCAN_WORKERS", "3")
	t.Setenv("CORE_SCAN_EPS_ANGLE", "0.001")
	t.Setenv("CORE_SCAN_EPS_TIME", "5s")
	t.Setenv("CORE_SCAN_PROBES", "5")
	t.Setenv("CORE_SCAN_PERSIST", "true")
	t.Setenv("CORE_SCAN_DEFAULT_STEP", "2h")

	o := FromConfig(config.New())
	if o.Workers != 3 || o.Tolerance.Angle != 0.001 || o.Tolerance.Time != 5*time.Second {
		t.Fatalf("options = %+v", o)
	}
	if o.Tolerance.Probes != 5 || !o.Persist || o.DefaultStep != 2*time.Hour {
		t.Fatalf("options = %+v", o)
	}
	if o.Tolerance.MaxIter != 64 || o.MaxWindowDays != 3660 {
		t.Fatalf("defaults = %+v", o)
	}
}

func TestNew_RunsWithMeanElements(t *testing.T) {
	m := New(modkit.Deps{}, Upstream{}, Options{Workers: 2})
	if m.Name() != "scan" {
		t.Fatalf("Name = %q", m.Name())
	}
	runner := m.Ports().(Ports).Runner

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res, err := runner.Run(context.Background(), domain.Request{
		Objects: []string{"sun", "moon"},
		Aspects: []string{"conjunction", "opposition"},
		Start:   start,
		End:     start.AddDate(0, 2, 0),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// roughly two new moons and two full moons in two months
	if res.Total < 3 || res.Total > 5 {
		t.Fatalf("Total = %d", res.Total)
	}
}
