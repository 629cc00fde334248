package repokit

import (
	"context"
	"errors"
	"testing"

	kit "aspectscan/internal/platform/testkit"
)

type nopQ struct{ Queryer }

type txOnce struct {
	nopQ
	calls int
}

func (t *txOnce) Tx(ctx context.Context, fn func(q Queryer) error) error {
	t.calls++
	return fn(t.nopQ)
}

type policyReader struct{ q Queryer }

func TestBindFunc_And_MustBind(t *testing.T) {
	var b Binder[policyReader] = BindFunc[policyReader](func(q Queryer) policyReader { return policyReader{q: q} })

	q := nopQ{}
	if got := MustBind(b, q); got.q != q {
		t.Fatalf("bound to the wrong queryer")
	}
	kit.MustPanic(t, func() { MustBind(b, nil) })
}

func TestWithTx_PassesErrorsThrough(t *testing.T) {
	tx := &txOnce{}
	boom := errors.New("boom")
	err := WithTx(context.Background(), tx, func(Queryer) error { return boom })
	if !errors.Is(err, boom) || tx.calls != 1 {
		t.Fatalf("err %v calls %d", err, tx.calls)
	}
}
