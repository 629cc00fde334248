package module

import (
	"context"
	"io"
	"testing"

	"aspectscan/internal/modkit"
	"aspectscan/internal/platform/store"

	"github.com/rs/zerolog"
)

type nopCH struct{ execs int }

func (n *nopCH) Insert(context.Context, string, [][]any) error { return nil }
func (n *nopCH) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, nil
}
func (n *nopCH) Exec(context.Context, string, ...any) error { n.execs++; return nil }
func (n *nopCH) Close() error                               { return nil }

func TestNew_WithoutClickhouse(t *testing.T) {
	m := New(modkit.Deps{Log: zerolog.New(io.Discard)})
	p := m.Ports().(Ports)
	if p.Writer != nil || p.Query != nil {
		t.Fatalf("ports should be nil without clickhouse: %+v", p)
	}
}

func TestNew_WithClickhouse_EnsuresSchema(t *testing.T) {
	t.Setenv("CORE_HITS_HARD_LIMIT", "7")
	ch := &nopCH{}
	m := New(modkit.Deps{Log: zerolog.New(io.Discard), CH: ch})
	p := m.Ports().(Ports)
	if p.Writer == nil || p.Query == nil {
		t.Fatalf("ports missing: %+v", p)
	}
	if ch.execs != 1 {
		t.Fatalf("schema execs = %d", ch.execs)
	}
	if m.Name() != "hits" {
		t.Fatalf("Name = %q", m.Name())
	}
}
