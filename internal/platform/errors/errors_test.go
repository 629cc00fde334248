package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeInvalidConfig:     http.StatusBadRequest,
		ErrorCodeValidation:        http.StatusBadRequest,
		ErrorCodeJSON:              http.StatusBadRequest,
		ErrorCodeInvalidArgument:   http.StatusUnprocessableEntity,
		ErrorCodeNonConvergent:     http.StatusUnprocessableEntity,
		ErrorCodeOracleUnavailable: http.StatusServiceUnavailable,
		ErrorCodeUnavailable:       http.StatusServiceUnavailable,
		ErrorCodeNotFound:          http.StatusNotFound,
		ErrorCodeDuplicateKey:      http.StatusConflict,
		ErrorCodeUnresolvedPolicy:  http.StatusInternalServerError,
		ErrorCodePanic:             http.StatusInternalServerError,
		ErrorCodeDB:                http.StatusInternalServerError,
		ErrorCodeUnknown:           http.StatusInternalServerError,
		ErrorCode("made_up"):       http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatusCode(code); got != want {
			t.Fatalf("HTTPStatusCode(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestWrapKeepsCauseAndCode(t *testing.T) {
	cause := stderrs.New("ephemeris file truncated")
	err := Wrapf(cause, ErrorCodeOracleUnavailable, "positions for %s", "Mars")

	if err.Error() != "positions for Mars: ephemeris file truncated" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !stderrs.Is(err, cause) {
		t.Fatal("cause not reachable")
	}
	outer := fmt.Errorf("scan: %w", err)
	if !IsCode(outer, ErrorCodeOracleUnavailable) || HTTPStatus(outer) != http.StatusServiceUnavailable {
		t.Fatalf("code through fmt wrap = %s", CodeOf(outer))
	}
}

func TestWireFrom(t *testing.T) {
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil = %+v", w)
	}

	err := WithField(InvalidConfigf("step must be positive"), "step")
	w := WireFrom(fmt.Errorf("wrapped: %w", err))
	if w.Code != ErrorCodeInvalidConfig || w.Message != "step must be positive" || w.Field != "step" {
		t.Fatalf("wire = %+v", w)
	}

	// the cause stays server side
	w = WireFrom(Wrap(stderrs.New("dial tcp 10.0.0.3:9000"), ErrorCodeDB, "write hits"))
	if w.Message != "write hits" {
		t.Fatalf("cause leaked: %q", w.Message)
	}

	w = WireFrom(stderrs.New("boom"))
	if w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("foreign = %+v", w)
	}
}

func TestWithFieldCopies(t *testing.T) {
	base := InvalidArgf("bad orb")
	tagged := WithField(base, "orb")

	if e, _ := As(base); e.Field() != "" {
		t.Fatal("original mutated")
	}
	if e, _ := As(tagged); e.Field() != "orb" || e.Code() != ErrorCodeInvalidArgument {
		t.Fatalf("tagged = %+v", e)
	}

	foreign := stderrs.New("x")
	if WithField(foreign, "f") != foreign {
		t.Fatal("foreign error should pass through")
	}
}

func TestShorthands(t *testing.T) {
	cases := map[ErrorCode]error{
		ErrorCodeNotFound:        NotFoundf("run %s", "r1"),
		ErrorCodeInvalidArgument: InvalidArgf("x"),
		ErrorCodeInvalidConfig:   InvalidConfigf("x"),
		ErrorCodeUnavailable:     Unavailablef("x"),
		ErrorCodeJSON:            JSONErrf("x"),
		ErrorCodePanic:           PanicErrf("x"),
	}
	for want, err := range cases {
		if CodeOf(err) != want {
			t.Fatalf("%v: code = %s, want %s", err, CodeOf(err), want)
		}
	}
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatal("ErrNotFound code")
	}
}

func TestNilErrorString(t *testing.T) {
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil Error() = %q", e.Error())
	}
}
