package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type fakeCH struct {
	pingErr, closeErr error
	closed            bool
}

func (f *fakeCH) Insert(context.Context, string, [][]any) error      { return nil }
func (f *fakeCH) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (f *fakeCH) Exec(context.Context, string, ...any) error          { return nil }
func (f *fakeCH) Ping(context.Context) error                          { return f.pingErr }
func (f *fakeCH) Close() error                                        { f.closed = true; return f.closeErr }

// fakePG is a TxRunner that can be pinged and closed
type fakePG struct {
	memQuerier
	pingErr error
	closed  bool
}

func (f *fakePG) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(&f.memQuerier) }
func (f *fakePG) Ping(context.Context) error                              { return f.pingErr }
func (f *fakePG) Close() error                                            { f.closed = true; return nil }

func TestOpen_NothingEnabled(t *testing.T) {
	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{AppName: "aspectscan"}, WithLogger(zerolog.New(&buf)))
	if err != nil || s == nil {
		t.Fatalf("open: %v", err)
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("backends opened: %+v", s)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpen_BadBackendsFailWithName(t *testing.T) {
	cases := map[string]Config{
		"pg: ": {PG: PGConfig{Enabled: true, URL: "://bad"}},
		"ch: ": {CH: CHConfig{Enabled: true, URL: "http://ch:8123"}},
	}
	for prefix, cfg := range cases {
		s, err := Open(context.Background(), cfg)
		if err == nil || s != nil || !strings.HasPrefix(err.Error(), prefix) {
			t.Fatalf("%s got store=%v err=%v", prefix, s, err)
		}
	}
}

func TestOpen_OptionError(t *testing.T) {
	boom := errors.New("bad option")
	_, err := Open(context.Background(), Config{}, func(*Store) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestGuard(t *testing.T) {
	var nilStore *Store
	if nilStore.Guard(context.Background()) == nil {
		t.Fatal("nil store guarded ok")
	}

	ok := &Store{PG: &fakePG{}, CH: &fakeCH{}}
	if err := ok.Guard(context.Background()); err != nil {
		t.Fatalf("healthy guard: %v", err)
	}

	down := &Store{PG: &fakePG{pingErr: errors.New("refused")}, CH: &fakeCH{pingErr: errors.New("timeout")}}
	err := down.Guard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pg: refused") || !strings.Contains(err.Error(), "ch: timeout") {
		t.Fatalf("guard = %v", err)
	}
}

func TestClose_ClosesBothAndJoinsErrors(t *testing.T) {
	pg := &fakePG{}
	ch := &fakeCH{closeErr: errors.New("ch busy")}
	err := (&Store{PG: pg, CH: ch}).Close(context.Background())
	if !pg.closed || !ch.closed {
		t.Fatalf("closed pg=%v ch=%v", pg.closed, ch.closed)
	}
	if err == nil || err.Error() != "ch busy" {
		t.Fatalf("close = %v", err)
	}
}
