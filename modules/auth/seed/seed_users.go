// Package seed creates one login per role for demo and local setups.
package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/modules/auth/domain/user"
	"github.com/ZSuraj/abcd-sub000/modules/auth/services"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

var (
	AdminUserID    = uuid.MustParse("3c0f2a10-7b1d-4c8e-9e55-2a1b0c9d8e01")
	ManagerUserID  = uuid.MustParse("3c0f2a10-7b1d-4c8e-9e55-2a1b0c9d8e02")
	EmployeeUserID = uuid.MustParse("3c0f2a10-7b1d-4c8e-9e55-2a1b0c9d8e03")
	ClientUserID   = uuid.MustParse("3c0f2a10-7b1d-4c8e-9e55-2a1b0c9d8e04")
)

// UserSeedFunc seeds admin@, manager@, employee@ and client@relationships.example, all
// with the given password. managerSubject links the manager login to a Manager entity.
func UserSeedFunc(repo user.Repository, password string, managerSubject uuid.UUID) application.SeedFunc {
	return func(ctx context.Context, app application.Application) error {
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			app.Logger().Info("users already seeded")
			return nil
		}
		hash, err := services.HashPassword(password)
		if err != nil {
			return err
		}
		users := []user.User{
			{ID: AdminUserID, Email: "admin@relationships.example", Name: "Ada Admin", Role: session.RoleAdmin},
			{ID: ManagerUserID, Email: "manager@relationships.example", Name: "Mona Lane", Role: session.RoleManager, SubjectID: managerSubject},
			{ID: EmployeeUserID, Email: "employee@relationships.example", Name: "Erin Cole", Role: session.RoleEmployee},
			{ID: ClientUserID, Email: "client@relationships.example", Name: "Acme Ops", Role: session.RoleClient},
		}
		for _, u := range users {
			u.PasswordHash = hash
			if err := repo.Create(ctx, u); err != nil && !errors.Is(err, user.ErrDuplicate) {
				return err
			}
		}
		app.Logger().Infof("seeded %d users", len(users))
		return nil
	}
}
