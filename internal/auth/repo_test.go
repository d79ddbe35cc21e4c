package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/medicore/medicore/internal/shared"
)

func TestMapUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "patients_email_key"`,
		ConstraintName: "patients_email_key",
	}
	assert.ErrorIs(t, mapUniqueViolation(pgErr), shared.ErrDuplicateEmail)
}

func TestMapUniqueViolationWrapped(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	err := mapUniqueViolation(fmt.Errorf("create patient: %w", pgErr))
	assert.ErrorIs(t, err, shared.ErrDuplicateEmail)
}

func TestMapUniqueViolationOtherCodes(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}
	assert.NotErrorIs(t, mapUniqueViolation(fk), shared.ErrDuplicateEmail)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapUniqueViolation(plain))
}
