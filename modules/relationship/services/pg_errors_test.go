package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		kind serrors.Kind
		code string
	}{
		{"no rows", pgx.ErrNoRows, serrors.KindNotFound, CodeNotFound},
		{"duplicate edge", &pgconn.PgError{Code: "23505", ConstraintName: "relationship_edges_client_id_manager_id_key"}, serrors.KindConflict, CodeManagerAlreadyAssigned},
		{"duplicate employee", &pgconn.PgError{Code: "23505", ConstraintName: "relationship_edge_employees_pkey"}, serrors.KindConflict, CodeEmployeeAlreadyAssigned},
		{"missing employee", &pgconn.PgError{Code: "23503", ConstraintName: "relationship_edge_employees_employee_id_fkey"}, serrors.KindNotFound, CodeEmployeeNotFound},
		{"missing manager", &pgconn.PgError{Code: "23503", ConstraintName: "relationship_edges_manager_id_fkey"}, serrors.KindNotFound, CodeManagerNotFound},
		{"serialization", &pgconn.PgError{Code: "40001"}, serrors.KindTransient, CodeStorage},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, serrors.KindInvalid, CodeInvalidID},
		{"other pg", &pgconn.PgError{Code: "XX000"}, serrors.KindTransient, CodeStorage},
		{"network", errors.New("connection refused"), serrors.KindTransient, CodeStorage},
		{"domain not found", fmt.Errorf("edge: %w", relationship.ErrNotFound), serrors.KindNotFound, CodeNotFound},
		{"domain duplicate", fmt.Errorf("edge: %w", relationship.ErrDuplicate), serrors.KindConflict, CodeConflict},
		{"already classified", serrors.Forbidden("X", "nope"), serrors.KindForbidden, "X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.in)
			var svcErr *serrors.Error
			require.True(t, errors.As(err, &svcErr))
			assert.Equal(t, tt.kind, svcErr.Kind)
			assert.Equal(t, tt.code, svcErr.Code)
		})
	}
	assert.NoError(t, mapError(nil))
}
