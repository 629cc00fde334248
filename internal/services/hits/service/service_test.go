package service

import (
	"context"
	"errors"
	"testing"

	"aspectscan/internal/core/hit"
	perr "aspectscan/internal/platform/errors"
	"aspectscan/internal/platform/testkit"
	dom "aspectscan/internal/services/hits/domain"
)

type fakeStorage struct {
	written int
	limit   int
	err     error
}

func (f *fakeStorage) WriteBatch(_ context.Context, _ string, hs []hit.Hit) error {
	f.written += len(hs)
	return f.err
}

func (f *fakeStorage) ListRun(_ context.Context, runID string, limit int) ([]dom.Row, error) {
	f.limit = limit
	return []dom.Row{{RunID: runID}}, f.err
}

func TestListRun_ClampsLimit(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 50},
		{-3, 50},
		{10, 10},
		{500, 50},
	}
	for _, c := range cases {
		st := &fakeStorage{}
		svc := New(st, Config{HardLimit: 50})
		if _, err := svc.ListRun(context.Background(), "r", c.in); err != nil {
			t.Fatalf("ListRun: %v", err)
		}
		if st.limit != c.want {
			t.Fatalf("limit %d: got %d want %d", c.in, st.limit, c.want)
		}
	}
}

func TestListRun_RequiresRunID(t *testing.T) {
	svc := New(&fakeStorage{}, Config{})
	_, err := svc.ListRun(context.Background(), "", 1)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestStorageErrorsAreDB(t *testing.T) {
	svc := New(&fakeStorage{err: errors.New("down")}, Config{})
	if err := svc.WriteBatch(context.Background(), "r", []hit.Hit{{}}); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("WriteBatch err = %v", err)
	}
	if _, err := svc.ListRun(context.Background(), "r", 1); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("ListRun err = %v", err)
	}
}

func TestNew_DefaultsAndNilStorage(t *testing.T) {
	if got := New(&fakeStorage{}, Config{}).Cfg.HardLimit; got != 100 {
		t.Fatalf("default HardLimit = %d", got)
	}
	testkit.MustPanic(t, func() { New(nil, Config{}) })
}
