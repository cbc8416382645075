// Package auth issues and resolves bearer tokens for the relationship API.
package auth

import (
	"time"

	"github.com/ZSuraj/abcd-sub000/modules/auth/domain/user"
	"github.com/ZSuraj/abcd-sub000/modules/auth/infrastructure/persistence"
	"github.com/ZSuraj/abcd-sub000/modules/auth/presentation/controllers"
	"github.com/ZSuraj/abcd-sub000/modules/auth/services"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

type ModuleOptions struct {
	// Users defaults to PostgreSQL when the application has a pool, memory otherwise.
	Users      user.Repository
	Tokens     session.TokenStore
	SessionTTL time.Duration
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

// UserRepository picks the user store for app; seeding and the module share it.
func UserRepository(app application.Application) user.Repository {
	if app.DB() != nil {
		return persistence.NewPgUserRepository()
	}
	return persistence.NewMemoryUserRepository()
}

func (m *Module) Register(app application.Application) error {
	users := m.options.Users
	if users == nil {
		users = UserRepository(app)
	}
	tokens := m.options.Tokens
	if tokens == nil {
		tokens = session.NewMemoryTokenStore()
	}
	ttl := m.options.SessionTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	app.RegisterServices(services.NewAuthService(users, tokens, ttl))
	app.RegisterControllers(controllers.NewAuthController(app))
	return nil
}

func (m *Module) Name() string {
	return "auth"
}
