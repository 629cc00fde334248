package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDBErrorCode(t *testing.T) {
	cases := map[string]ErrorCode{
		"23505": ErrorCodeDuplicateKey,
		"23503": ErrorCodeInvalidArgument,
		"23502": ErrorCodeValidation,
		"22P02": ErrorCodeInvalidArgument,
		"57P03": ErrorCodeUnavailable,
		"40001": ErrorCodeDB,
		"42P01": ErrorCodeDB, // undefined_table
	}
	for state, want := range cases {
		err := fmt.Errorf("query: %w", &pgconn.PgError{Code: state})
		got, ok := DBErrorCode(err)
		if !ok || got != want {
			t.Fatalf("%s: got %s ok=%v, want %s", state, got, ok, want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("plain")); ok {
		t.Fatal("plain error classified as postgres")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatal("nil should stay nil")
	}

	err := FromPostgres(&pgconn.PgError{Code: "23502", ColumnName: "limits"}, "save orb policy")
	e, ok := As(err)
	if !ok || e.Code() != ErrorCodeValidation || e.Field() != "limits" {
		t.Fatalf("got %+v", e)
	}

	err = FromPostgres(stderrs.New("conn reset"), "orb policies query failed")
	if !IsCode(err, ErrorCodeDB) {
		t.Fatalf("non pg error code = %s", CodeOf(err))
	}
}
