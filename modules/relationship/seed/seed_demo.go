// Package seed fills an empty store with demo clients, managers and employees.
package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
)

// Demo ids are fixed so user seeding can link manager accounts to them.
var (
	DemoManagerMona = uuid.MustParse("6f1f7d1e-4a53-4c55-9a51-3c7e0a8d2b01")
	DemoManagerMax  = uuid.MustParse("6f1f7d1e-4a53-4c55-9a51-3c7e0a8d2b02")
)

var (
	demoClients = []relationship.Client{
		{ID: uuid.MustParse("0b3c1a52-8d1e-4a9f-b1e2-5d0c7a6e1001"), Name: "Acme Corp", Email: "ops@acme.example"},
		{ID: uuid.MustParse("0b3c1a52-8d1e-4a9f-b1e2-5d0c7a6e1002"), Name: "Globex", Email: "it@globex.example"},
		{ID: uuid.MustParse("0b3c1a52-8d1e-4a9f-b1e2-5d0c7a6e1003"), Name: "Initech", Email: "hello@initech.example"},
	}
	demoManagers = []relationship.Manager{
		{ID: DemoManagerMona, Name: "Mona Lane", Email: "mona@relationships.example"},
		{ID: DemoManagerMax, Name: "Max Hart", Email: "max@relationships.example"},
	}
	demoEmployees = []relationship.Employee{
		{ID: uuid.MustParse("9a7e4c20-2f6b-4f0e-8c3d-1b2a3c4d5001"), Name: "Erin Cole", Email: "erin@relationships.example"},
		{ID: uuid.MustParse("9a7e4c20-2f6b-4f0e-8c3d-1b2a3c4d5002"), Name: "Eve Park", Email: "eve@relationships.example"},
		{ID: uuid.MustParse("9a7e4c20-2f6b-4f0e-8c3d-1b2a3c4d5003"), Name: "Xavier Diaz", Email: "xavier@relationships.example"},
		{ID: uuid.MustParse("9a7e4c20-2f6b-4f0e-8c3d-1b2a3c4d5004"), Name: "Yara Stone", Email: "yara@relationships.example"},
	}
)

func ignoreDuplicate(err error) error {
	if errors.Is(err, relationship.ErrDuplicate) {
		return nil
	}
	return err
}

// DemoSeedFunc inserts the demo entities and, for an empty graph, a few edges. It is
// safe to run against an already seeded store.
func DemoSeedFunc(repo relationship.Repository, tx composables.Transactor) application.SeedFunc {
	return func(ctx context.Context, app application.Application) error {
		return tx.InTx(ctx, func(txCtx context.Context) error {
			existing, err := repo.ListClients(txCtx)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				app.Logger().Info("relationship demo data already present")
				return nil
			}
			for _, c := range demoClients {
				if err := ignoreDuplicate(repo.CreateClient(txCtx, c)); err != nil {
					return err
				}
			}
			for _, m := range demoManagers {
				if err := ignoreDuplicate(repo.CreateManager(txCtx, m)); err != nil {
					return err
				}
			}
			for _, e := range demoEmployees {
				if err := ignoreDuplicate(repo.CreateEmployee(txCtx, e)); err != nil {
					return err
				}
			}

			acme, err := repo.CreateEdge(txCtx, demoClients[0].ID, DemoManagerMona)
			if err != nil {
				return err
			}
			for _, e := range demoEmployees[:2] {
				if err := repo.AddEdgeEmployee(txCtx, acme.ID, e.ID); err != nil {
					return err
				}
			}
			globex, err := repo.CreateEdge(txCtx, demoClients[1].ID, DemoManagerMax)
			if err != nil {
				return err
			}
			if err := repo.AddEdgeEmployee(txCtx, globex.ID, demoEmployees[2].ID); err != nil {
				return err
			}
			app.Logger().Infof("seeded %d clients, %d managers, %d employees", len(demoClients), len(demoManagers), len(demoEmployees))
			return nil
		})
	}
}
