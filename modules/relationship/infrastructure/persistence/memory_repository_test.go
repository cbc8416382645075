package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
)

type memFixture struct {
	repo     *MemoryRepository
	client   relationship.Client
	manager  relationship.Manager
	employee relationship.Employee
}

func newMemFixture(t *testing.T) memFixture {
	t.Helper()
	ctx := context.Background()
	f := memFixture{
		repo:     NewMemoryRepository(),
		client:   relationship.Client{ID: uuid.New(), Name: "Acme", Email: "ops@acme.test"},
		manager:  relationship.Manager{ID: uuid.New(), Name: "Mona", Email: "mona@corp.test"},
		employee: relationship.Employee{ID: uuid.New(), Name: "Erin", Email: "erin@corp.test"},
	}
	require.NoError(t, f.repo.CreateClient(ctx, f.client))
	require.NoError(t, f.repo.CreateManager(ctx, f.manager))
	require.NoError(t, f.repo.CreateEmployee(ctx, f.employee))
	return f
}

func TestMemoryRepository_ListSortedByName(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	for _, name := range []string{"zed", "Alice", "bob"} {
		require.NoError(t, repo.CreateEmployee(ctx, relationship.Employee{ID: uuid.New(), Name: name}))
	}

	employees, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	names := []string{employees[0].Name, employees[1].Name, employees[2].Name}
	assert.Equal(t, []string{"Alice", "bob", "zed"}, names)
}

func TestMemoryRepository_CreateDuplicate(t *testing.T) {
	f := newMemFixture(t)
	err := f.repo.CreateClient(context.Background(), f.client)
	assert.ErrorIs(t, err, relationship.ErrDuplicate)
}

func TestMemoryRepository_EdgeLifecycle(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()

	edge, err := f.repo.CreateEdge(ctx, f.client.ID, f.manager.ID)
	require.NoError(t, err)
	assert.Empty(t, edge.EmployeeIDs)

	_, err = f.repo.CreateEdge(ctx, f.client.ID, f.manager.ID)
	assert.ErrorIs(t, err, relationship.ErrDuplicate)

	require.NoError(t, f.repo.AddEdgeEmployee(ctx, edge.ID, f.employee.ID))
	assert.ErrorIs(t, f.repo.AddEdgeEmployee(ctx, edge.ID, f.employee.ID), relationship.ErrDuplicate)
	assert.ErrorIs(t, f.repo.AddEdgeEmployee(ctx, edge.ID, uuid.New()), relationship.ErrNotFound)

	got, err := f.repo.GetEdge(ctx, f.client.ID, f.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.employee.ID}, got.EmployeeIDs)

	// Returned edges are copies.
	got.EmployeeIDs[0] = uuid.New()
	again, err := f.repo.GetEdge(ctx, f.client.ID, f.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, f.employee.ID, again.EmployeeIDs[0])

	require.NoError(t, f.repo.RemoveEdgeEmployee(ctx, edge.ID, f.employee.ID))
	assert.ErrorIs(t, f.repo.RemoveEdgeEmployee(ctx, edge.ID, f.employee.ID), relationship.ErrNotFound)

	other := relationship.Manager{ID: uuid.New(), Name: "Max"}
	require.NoError(t, f.repo.CreateManager(ctx, other))
	require.NoError(t, f.repo.UpdateEdgeManager(ctx, edge.ID, other.ID))

	byManager, err := f.repo.ListEdgesByManager(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, byManager, 1)
	assert.Equal(t, edge.ID, byManager[0].ID)
}

func TestMemoryRepository_CreateEdgeUnknownReferences(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.repo.CreateEdge(ctx, uuid.New(), f.manager.ID)
	assert.ErrorIs(t, err, relationship.ErrNotFound)
	_, err = f.repo.CreateEdge(ctx, f.client.ID, uuid.New())
	assert.ErrorIs(t, err, relationship.ErrNotFound)
	assert.ErrorIs(t, f.repo.LockClient(ctx, uuid.New()), relationship.ErrNotFound)
}

func TestMemoryRepository_InTxRollsBack(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.repo.InTx(ctx, func(txCtx context.Context) error {
		edge, err := f.repo.CreateEdge(txCtx, f.client.ID, f.manager.ID)
		if err != nil {
			return err
		}
		if err := f.repo.AddEdgeEmployee(txCtx, edge.ID, f.employee.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	edges, err := f.repo.ListEdges(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestMemoryRepository_InTxNestedJoinsOuter(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()

	err := f.repo.InTx(ctx, func(txCtx context.Context) error {
		return f.repo.InTx(txCtx, func(inner context.Context) error {
			_, err := f.repo.CreateEdge(inner, f.client.ID, f.manager.ID)
			return err
		})
	})
	require.NoError(t, err)

	edges, err := f.repo.ListEdgesByClient(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestMemoryRepository_ConcurrentUnitsOfWorkSerialize(t *testing.T) {
	f := newMemFixture(t)
	ctx := context.Background()

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.repo.InTx(ctx, func(txCtx context.Context) error {
				edges, err := f.repo.ListEdgesByClient(txCtx, f.client.ID)
				if err != nil {
					return err
				}
				if len(edges) > 0 {
					return relationship.ErrDuplicate
				}
				_, err = f.repo.CreateEdge(txCtx, f.client.ID, f.manager.ID)
				return err
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}
