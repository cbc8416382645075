package services

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
)

func mapPgErrorToServiceError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return serrors.New(serrors.KindNotFound, CodeNotFound, "not found", err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return serrors.Transient(CodeStorage, "storage unavailable", err)
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		recordWriteConflict("unique")
		switch pgErr.ConstraintName {
		case "relationship_edges_client_id_manager_id_key":
			return serrors.New(serrors.KindConflict, CodeManagerAlreadyAssigned, "manager already assigned to client", err)
		case "relationship_edge_employees_pkey":
			return serrors.New(serrors.KindConflict, CodeEmployeeAlreadyAssigned, "employee already assigned", err)
		default:
			return serrors.New(serrors.KindConflict, CodeConflict, "already exists", err)
		}
	case "23503": // foreign_key_violation
		switch pgErr.ConstraintName {
		case "relationship_edges_client_id_fkey":
			return serrors.New(serrors.KindNotFound, CodeClientNotFound, "client not found", err)
		case "relationship_edges_manager_id_fkey":
			return serrors.New(serrors.KindNotFound, CodeManagerNotFound, "manager not found", err)
		case "relationship_edge_employees_employee_id_fkey":
			return serrors.New(serrors.KindNotFound, CodeEmployeeNotFound, "employee not found", err)
		default:
			return serrors.New(serrors.KindNotFound, CodeNotFound, "referenced entity not found", err)
		}
	case "40001", "40P01": // serialization_failure, deadlock_detected
		recordWriteConflict("serialization")
		return serrors.Transient(CodeStorage, "concurrent update, retry the operation", err)
	case "22P02": // invalid_text_representation
		return serrors.New(serrors.KindInvalid, CodeInvalidID, "invalid identifier", err)
	default:
		return serrors.Transient(CodeStorage, "storage error", err)
	}
}
