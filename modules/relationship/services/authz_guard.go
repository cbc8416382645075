package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/pkg/authz"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

// Authorizer is satisfied by *authz.Service.
type Authorizer interface {
	Authorize(ctx context.Context, req authz.Request) error
}

// caller is who a service call acts for. Calls without a session come from inside
// the process (seeding, tooling) and are not scoped.
type caller struct {
	session   *session.Session
	scoped    bool
	managerID uuid.UUID
}

func resolveCaller(ctx context.Context) (caller, error) {
	s, err := composables.UseSession(ctx)
	if err != nil {
		return caller{}, nil
	}
	if s.Role != session.RoleManager {
		return caller{session: s}, nil
	}
	if s.SubjectID == uuid.Nil {
		return caller{}, serrors.Forbidden(CodeManagerUnlinked, "user is not linked to a manager")
	}
	return caller{session: s, scoped: true, managerID: s.SubjectID}, nil
}

// object is the casbin object guarding edge reads and writes for this caller.
func (c caller) object() string {
	if c.scoped {
		return authz.ObjectScoped
	}
	return authz.ObjectGraph
}

// managerFor resolves the manager of an employee mutation. Scoped callers act on their
// own edges only; anyone else must name the manager.
func (c caller) managerFor(requested uuid.UUID) (uuid.UUID, error) {
	if !c.scoped {
		if requested == uuid.Nil {
			return uuid.Nil, serrors.Invalid(CodeInvalidID, "manager_id is required")
		}
		return requested, nil
	}
	if requested != uuid.Nil && requested != c.managerID {
		return uuid.Nil, serrors.Forbidden(CodeManagerMismatch, "managers may only act on their own relationships")
	}
	return c.managerID, nil
}

func (s *RelationshipService) authorize(ctx context.Context, c caller, object, action string) error {
	if s.authorizer == nil || c.session == nil {
		return nil
	}
	return s.authorizer.Authorize(ctx, authz.RequestFor(c.session, object, action))
}

type idField struct {
	name string
	id   uuid.UUID
}

func requireIDs(fields ...idField) error {
	for _, f := range fields {
		if f.id == uuid.Nil {
			return serrors.Invalid(CodeInvalidID, f.name+" is required")
		}
	}
	return nil
}
