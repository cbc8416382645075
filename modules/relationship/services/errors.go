package services

import (
	"errors"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
)

const (
	CodeInvalidID               = "REL_INVALID_ID"
	CodeClientNotFound          = "REL_CLIENT_NOT_FOUND"
	CodeManagerNotFound         = "REL_MANAGER_NOT_FOUND"
	CodeEmployeeNotFound        = "REL_EMPLOYEE_NOT_FOUND"
	CodeEdgeNotFound            = "REL_EDGE_NOT_FOUND"
	CodeEmployeeNotAssigned     = "REL_EMPLOYEE_NOT_ASSIGNED"
	CodeManagerAlreadyAssigned  = "REL_MANAGER_ALREADY_ASSIGNED"
	CodeManagerUnchanged        = "REL_MANAGER_UNCHANGED"
	CodeEmployeeAlreadyAssigned = "REL_EMPLOYEE_ALREADY_ASSIGNED"
	CodeManagerMismatch         = "REL_MANAGER_MISMATCH"
	CodeManagerUnlinked         = "REL_MANAGER_UNLINKED"
	CodeNotFound                = "REL_NOT_FOUND"
	CodeConflict                = "REL_CONFLICT"
	CodeStorage                 = "REL_STORAGE_ERROR"
)

// notFoundAs turns a repository ErrNotFound into a coded NotFound service error.
func notFoundAs(err error, code, message string) error {
	if errors.Is(err, relationship.ErrNotFound) {
		return serrors.New(serrors.KindNotFound, code, message, err)
	}
	return err
}

// mapError classifies anything that escaped a unit of work.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *serrors.Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	switch {
	case errors.Is(err, relationship.ErrNotFound):
		return serrors.New(serrors.KindNotFound, CodeNotFound, "not found", err)
	case errors.Is(err, relationship.ErrDuplicate):
		recordWriteConflict("duplicate")
		return serrors.New(serrors.KindConflict, CodeConflict, "already exists", err)
	}
	return mapPgErrorToServiceError(err)
}
