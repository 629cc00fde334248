package net_test

import (
	"context"
	"testing"

	pnet "aspectscan/internal/platform/net"
)

func TestWithRequest(t *testing.T) {
	cases := []struct{ req, run string }{
		{"req-1", "run-1"},
		{"req-only", ""},
		{"", "run-only"},
		{"", ""},
	}
	for _, c := range cases {
		ctx := pnet.WithRequest(context.Background(), c.req, c.run)
		if got := pnet.RequestID(ctx); got != c.req {
			t.Fatalf("%+v: RequestID = %q", c, got)
		}
		if got := pnet.RunID(ctx); got != c.run {
			t.Fatalf("%+v: RunID = %q", c, got)
		}
	}
}

func TestRunIDOverridesParent(t *testing.T) {
	ctx := pnet.WithRequest(context.Background(), "req", "first")
	ctx = pnet.WithRequest(ctx, "", "second")
	if pnet.RunID(ctx) != "second" || pnet.RequestID(ctx) != "req" {
		t.Fatalf("ids = %q %q", pnet.RequestID(ctx), pnet.RunID(ctx))
	}
}
