package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	pgxDup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_cart_lines_dedup"}
	if !IsUniqueViolation(pgxDup, "idx_cart_lines_dedup") {
		t.Fatal("pgx duplicate with matching constraint should match")
	}
	if IsUniqueViolation(pgxDup, "other_constraint") {
		t.Fatal("pgx duplicate on another constraint should not match")
	}
	if !IsUniqueViolation(pgxDup, "") {
		t.Fatal("empty constraint should match any unique violation")
	}

	pqDup := &pq.Error{Code: "23505", Constraint: "idx_cart_lines_dedup"}
	if !IsUniqueViolation(pqDup, "idx_cart_lines_dedup") {
		t.Fatal("pq duplicate with matching constraint should match")
	}

	sqliteDup := errors.New("UNIQUE constraint failed: cart_lines.customer_id, cart_lines.merchant_id, cart_lines.item_hash")
	if !IsUniqueViolation(sqliteDup, "idx_cart_lines_dedup") {
		t.Fatal("sqlite duplicate should fall back to message matching")
	}

	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated errors should not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil should not match")
	}
}
