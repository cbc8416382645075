// Package relationship wires the Client → Manager → Employee graph into the application.
package relationship

import (
	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/modules/relationship/handlers"
	"github.com/ZSuraj/abcd-sub000/modules/relationship/infrastructure/persistence"
	"github.com/ZSuraj/abcd-sub000/modules/relationship/presentation/controllers"
	"github.com/ZSuraj/abcd-sub000/modules/relationship/services"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
)

type ModuleOptions struct {
	// Repository and Transactor default to PostgreSQL when the application has a pool
	// and to the in-memory store otherwise.
	Repository relationship.Repository
	Transactor composables.Transactor
	Authorizer services.Authorizer

	CacheEnabled     bool
	ActionLogEnabled bool
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

func (m *Module) Register(app application.Application) error {
	repo, tx := m.storage(app)

	svcOpts := []services.Option{services.WithTreeCache(m.options.CacheEnabled)}
	if m.options.Authorizer != nil {
		svcOpts = append(svcOpts, services.WithAuthorizer(m.options.Authorizer))
	}

	app.RegisterServices(
		services.NewRelationshipService(repo, tx, app.EventPublisher(), svcOpts...),
	)
	app.RegisterControllers(
		controllers.NewRelationshipAPIController(app),
	)
	if m.options.ActionLogEnabled {
		handlers.RegisterActionLogHandlers(app)
	}
	return nil
}

func (m *Module) storage(app application.Application) (relationship.Repository, composables.Transactor) {
	if m.options.Repository != nil && m.options.Transactor != nil {
		return m.options.Repository, m.options.Transactor
	}
	if pool := app.DB(); pool != nil {
		return persistence.NewPgRelationshipRepository(), composables.PoolTransactor{Pool: pool}
	}
	mem := persistence.NewMemoryRepository()
	return mem, mem
}

func (m *Module) Name() string {
	return "relationship"
}
