// Package relationship models the bounded Client → Manager → Employee graph: the three
// entity kinds, the edge that links them and the read nodes it projects into.
package relationship

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("relationship: not found")
	ErrDuplicate = errors.New("relationship: duplicate")
)

// Person is the identity shared by clients, managers and employees.
type Person struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type (
	Client   Person
	Manager  Person
	Employee Person
)

// Edge is the (client, manager, {employees}) assignment record and the unit of mutation.
type Edge struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	ManagerID   uuid.UUID
	EmployeeIDs []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e Edge) HasEmployee(id uuid.UUID) bool {
	return slices.Contains(e.EmployeeIDs, id)
}

func (e Edge) Clone() Edge {
	e.EmployeeIDs = slices.Clone(e.EmployeeIDs)
	return e
}

// Repository persists entities and edges. Lookups of a missing row return an error
// wrapping ErrNotFound; unique violations wrap ErrDuplicate or surface the driver error.
type Repository interface {
	ListClients(ctx context.Context) ([]Client, error)
	ListManagers(ctx context.Context) ([]Manager, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	GetClient(ctx context.Context, id uuid.UUID) (Client, error)
	GetManager(ctx context.Context, id uuid.UUID) (Manager, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (Employee, error)

	CreateClient(ctx context.Context, c Client) error
	CreateManager(ctx context.Context, m Manager) error
	CreateEmployee(ctx context.Context, e Employee) error

	ListEdges(ctx context.Context) ([]Edge, error)
	ListEdgesByClient(ctx context.Context, clientID uuid.UUID) ([]Edge, error)
	ListEdgesByManager(ctx context.Context, managerID uuid.UUID) ([]Edge, error)
	GetEdge(ctx context.Context, clientID, managerID uuid.UUID) (Edge, error)
	// LockClient serializes edge mutations of one client until the surrounding
	// transaction ends.
	LockClient(ctx context.Context, clientID uuid.UUID) error

	CreateEdge(ctx context.Context, clientID, managerID uuid.UUID) (Edge, error)
	UpdateEdgeManager(ctx context.Context, edgeID, managerID uuid.UUID) error
	AddEdgeEmployee(ctx context.Context, edgeID, employeeID uuid.UUID) error
	RemoveEdgeEmployee(ctx context.Context, edgeID, employeeID uuid.UUID) error
}
