package authz

import (
	"fmt"

	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
)

const errorCodeForbidden = "AUTHZ_FORBIDDEN"

// forbiddenError builds a standardized error for denied policies.
func forbiddenError(req Request) error {
	return serrors.Forbidden(
		errorCodeForbidden,
		fmt.Sprintf("permission denied: %s %s", req.Action, req.Object),
	)
}

// configError standardizes configuration validation errors.
func configError(msg string, args ...any) error {
	return fmt.Errorf("authz: "+msg, args...)
}
