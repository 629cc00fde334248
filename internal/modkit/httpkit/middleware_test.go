package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func wrap(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

func TestCommonStack_Health(t *testing.T) {
	h := wrap(http.NotFoundHandler(), CommonStack())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/health = %d", rec.Code)
	}
}

func TestCommonStack_ReachesHandler(t *testing.T) {
	hits := 0
	h := wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("X-Request-Id") == "" && w.Header().Get("X-Request-Id") == "" {
			t.Errorf("no request id on the way in or out")
		}
		w.WriteHeader(http.StatusNoContent)
	}), CommonStack("https://app.example"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/scan/", nil)
	req.Header.Set("Origin", "https://app.example")
	h.ServeHTTP(rec, req)

	if hits != 1 || rec.Code != http.StatusNoContent {
		t.Fatalf("hits=%d code=%d", hits, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("allow-origin = %q", got)
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("no-cache headers missing")
	}
}
