package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestErrorClassification(t *testing.T) {
	fk := fmt.Errorf("insert booking: %w", &pgconn.PgError{Code: CodeForeignKeyViolation, ConstraintName: "bookings_object_id_fkey"})
	unique := &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "users_email_key"}
	check := &pgconn.PgError{Code: CodeCheckViolation, ConstraintName: "bookings_range_check"}

	tests := []struct {
		name       string
		err        error
		noRows     bool
		fk         bool
		unique     bool
		check      bool
		constraint string
	}{
		{"no rows", fmt.Errorf("find: %w", pgx.ErrNoRows), true, false, false, false, ""},
		{"wrapped foreign key", fk, false, true, false, false, "bookings_object_id_fkey"},
		{"unique", unique, false, false, true, false, "users_email_key"},
		{"check", check, false, false, false, true, "bookings_range_check"},
		{"plain", fmt.Errorf("connection reset"), false, false, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNoRows(tt.err); got != tt.noRows {
				t.Errorf("IsNoRows = %v", got)
			}
			if got := IsForeignKeyViolation(tt.err); got != tt.fk {
				t.Errorf("IsForeignKeyViolation = %v", got)
			}
			if got := IsUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("IsUniqueViolation = %v", got)
			}
			if got := IsCheckViolation(tt.err); got != tt.check {
				t.Errorf("IsCheckViolation = %v", got)
			}
			if got := ConstraintName(tt.err); got != tt.constraint {
				t.Errorf("ConstraintName = %q, want %q", got, tt.constraint)
			}
		})
	}
}

func TestIsLockConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &pgconn.PgError{Code: CodeDeadlockDetected}, true},
		{"serialization failure", &pgconn.PgError{Code: CodeSerializationFailure}, true},
		{"wrapped twice", fmt.Errorf("approve: %w", fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeDeadlockDetected})), true},
		{"foreign key", &pgconn.PgError{Code: CodeForeignKeyViolation}, false},
		{"plain", fmt.Errorf("connection reset"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLockConflict(tt.err); got != tt.want {
				t.Errorf("IsLockConflict = %v, want %v", got, tt.want)
			}
		})
	}
}
