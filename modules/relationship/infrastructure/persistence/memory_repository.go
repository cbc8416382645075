package persistence

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
)

type memTxKey struct{}

type memState struct {
	clients   map[uuid.UUID]relationship.Client
	managers  map[uuid.UUID]relationship.Manager
	employees map[uuid.UUID]relationship.Employee
	// edges keep insertion order.
	edges []relationship.Edge
}

func (s memState) clone() memState {
	edges := make([]relationship.Edge, len(s.edges))
	for i, e := range s.edges {
		edges[i] = e.Clone()
	}
	return memState{
		clients:   maps.Clone(s.clients),
		managers:  maps.Clone(s.managers),
		employees: maps.Clone(s.employees),
		edges:     edges,
	}
}

// MemoryRepository keeps the graph in process memory. It is also its own
// Transactor: a unit of work holds the write lock and is rolled back on error.
type MemoryRepository struct {
	mu    sync.RWMutex
	state memState
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		state: memState{
			clients:   map[uuid.UUID]relationship.Client{},
			managers:  map[uuid.UUID]relationship.Manager{},
			employees: map[uuid.UUID]relationship.Employee{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(memTxKey{}).(*MemoryRepository)
	return owner == r
}

func (r *MemoryRepository) rlock(ctx context.Context) func() {
	if r.inTx(ctx) {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

func (r *MemoryRepository) lock(ctx context.Context) func() {
	if r.inTx(ctx) {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

// InTx runs fn under the write lock. Nested calls join the enclosing unit of work.
func (r *MemoryRepository) InTx(ctx context.Context, fn func(context.Context) error) error {
	if r.inTx(ctx) {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.clone()
	if err := fn(context.WithValue(ctx, memTxKey{}, r)); err != nil {
		r.state = snapshot
		return err
	}
	return nil
}

func sortedPeople[T personLike](in map[uuid.UUID]T) []T {
	out := slices.Collect(maps.Values(in))
	slices.SortFunc(out, func(a, b T) int {
		return comparePerson(relationship.Person(a), relationship.Person(b))
	})
	return out
}

func (r *MemoryRepository) ListClients(ctx context.Context) ([]relationship.Client, error) {
	defer r.rlock(ctx)()
	return sortedPeople(r.state.clients), nil
}

func (r *MemoryRepository) ListManagers(ctx context.Context) ([]relationship.Manager, error) {
	defer r.rlock(ctx)()
	return sortedPeople(r.state.managers), nil
}

func (r *MemoryRepository) ListEmployees(ctx context.Context) ([]relationship.Employee, error) {
	defer r.rlock(ctx)()
	return sortedPeople(r.state.employees), nil
}

func lookup[T any](in map[uuid.UUID]T, kind string, id uuid.UUID) (T, error) {
	v, ok := in[id]
	if !ok {
		var zero T
		return zero, errors.Wrapf(relationship.ErrNotFound, "%s %s", kind, id)
	}
	return v, nil
}

func (r *MemoryRepository) GetClient(ctx context.Context, id uuid.UUID) (relationship.Client, error) {
	defer r.rlock(ctx)()
	return lookup(r.state.clients, "client", id)
}

func (r *MemoryRepository) GetManager(ctx context.Context, id uuid.UUID) (relationship.Manager, error) {
	defer r.rlock(ctx)()
	return lookup(r.state.managers, "manager", id)
}

func (r *MemoryRepository) GetEmployee(ctx context.Context, id uuid.UUID) (relationship.Employee, error) {
	defer r.rlock(ctx)()
	return lookup(r.state.employees, "employee", id)
}

func insert[T any](in map[uuid.UUID]T, kind string, id uuid.UUID, v T) error {
	if _, ok := in[id]; ok {
		return errors.Wrapf(relationship.ErrDuplicate, "%s %s", kind, id)
	}
	in[id] = v
	return nil
}

func (r *MemoryRepository) CreateClient(ctx context.Context, c relationship.Client) error {
	defer r.lock(ctx)()
	return insert(r.state.clients, "client", c.ID, c)
}

func (r *MemoryRepository) CreateManager(ctx context.Context, m relationship.Manager) error {
	defer r.lock(ctx)()
	return insert(r.state.managers, "manager", m.ID, m)
}

func (r *MemoryRepository) CreateEmployee(ctx context.Context, e relationship.Employee) error {
	defer r.lock(ctx)()
	return insert(r.state.employees, "employee", e.ID, e)
}

func (r *MemoryRepository) filterEdges(keep func(relationship.Edge) bool) []relationship.Edge {
	out := make([]relationship.Edge, 0)
	for _, e := range r.state.edges {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func (r *MemoryRepository) ListEdges(ctx context.Context) ([]relationship.Edge, error) {
	defer r.rlock(ctx)()
	return r.filterEdges(func(relationship.Edge) bool { return true }), nil
}

func (r *MemoryRepository) ListEdgesByClient(ctx context.Context, clientID uuid.UUID) ([]relationship.Edge, error) {
	defer r.rlock(ctx)()
	return r.filterEdges(func(e relationship.Edge) bool { return e.ClientID == clientID }), nil
}

func (r *MemoryRepository) ListEdgesByManager(ctx context.Context, managerID uuid.UUID) ([]relationship.Edge, error) {
	defer r.rlock(ctx)()
	return r.filterEdges(func(e relationship.Edge) bool { return e.ManagerID == managerID }), nil
}

func (r *MemoryRepository) GetEdge(ctx context.Context, clientID, managerID uuid.UUID) (relationship.Edge, error) {
	defer r.rlock(ctx)()
	for _, e := range r.state.edges {
		if e.ClientID == clientID && e.ManagerID == managerID {
			return e.Clone(), nil
		}
	}
	return relationship.Edge{}, errors.Wrapf(relationship.ErrNotFound, "edge %s/%s", clientID, managerID)
}

// LockClient only checks existence: a unit of work already holds the write lock.
func (r *MemoryRepository) LockClient(ctx context.Context, clientID uuid.UUID) error {
	defer r.rlock(ctx)()
	_, err := lookup(r.state.clients, "client", clientID)
	return err
}

func (r *MemoryRepository) edgeIndex(edgeID uuid.UUID) (int, error) {
	for i, e := range r.state.edges {
		if e.ID == edgeID {
			return i, nil
		}
	}
	return -1, errors.Wrapf(relationship.ErrNotFound, "edge %s", edgeID)
}

func (r *MemoryRepository) CreateEdge(ctx context.Context, clientID, managerID uuid.UUID) (relationship.Edge, error) {
	defer r.lock(ctx)()
	if _, err := lookup(r.state.clients, "client", clientID); err != nil {
		return relationship.Edge{}, err
	}
	if _, err := lookup(r.state.managers, "manager", managerID); err != nil {
		return relationship.Edge{}, err
	}
	for _, e := range r.state.edges {
		if e.ClientID == clientID && e.ManagerID == managerID {
			return relationship.Edge{}, errors.Wrapf(relationship.ErrDuplicate, "edge %s/%s", clientID, managerID)
		}
	}
	now := r.now()
	edge := relationship.Edge{
		ID:          uuid.New(),
		ClientID:    clientID,
		ManagerID:   managerID,
		EmployeeIDs: []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.state.edges = append(r.state.edges, edge)
	return edge.Clone(), nil
}

func (r *MemoryRepository) UpdateEdgeManager(ctx context.Context, edgeID, managerID uuid.UUID) error {
	defer r.lock(ctx)()
	i, err := r.edgeIndex(edgeID)
	if err != nil {
		return err
	}
	if _, err := lookup(r.state.managers, "manager", managerID); err != nil {
		return err
	}
	edge := &r.state.edges[i]
	for _, e := range r.state.edges {
		if e.ID != edgeID && e.ClientID == edge.ClientID && e.ManagerID == managerID {
			return errors.Wrapf(relationship.ErrDuplicate, "edge %s/%s", edge.ClientID, managerID)
		}
	}
	edge.ManagerID = managerID
	edge.UpdatedAt = r.now()
	return nil
}

func (r *MemoryRepository) AddEdgeEmployee(ctx context.Context, edgeID, employeeID uuid.UUID) error {
	defer r.lock(ctx)()
	i, err := r.edgeIndex(edgeID)
	if err != nil {
		return err
	}
	if _, err := lookup(r.state.employees, "employee", employeeID); err != nil {
		return err
	}
	edge := &r.state.edges[i]
	if edge.HasEmployee(employeeID) {
		return errors.Wrapf(relationship.ErrDuplicate, "employee %s on edge %s", employeeID, edgeID)
	}
	edge.EmployeeIDs = append(edge.EmployeeIDs, employeeID)
	edge.UpdatedAt = r.now()
	return nil
}

func (r *MemoryRepository) RemoveEdgeEmployee(ctx context.Context, edgeID, employeeID uuid.UUID) error {
	defer r.lock(ctx)()
	i, err := r.edgeIndex(edgeID)
	if err != nil {
		return err
	}
	edge := &r.state.edges[i]
	idx := slices.Index(edge.EmployeeIDs, employeeID)
	if idx < 0 {
		return errors.Wrapf(relationship.ErrNotFound, "employee %s on edge %s", employeeID, edgeID)
	}
	edge.EmployeeIDs = slices.Delete(edge.EmployeeIDs, idx, idx+1)
	edge.UpdatedAt = r.now()
	return nil
}
