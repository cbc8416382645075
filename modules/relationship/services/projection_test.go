package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
)

func TestAssembleTree_ScopesEmployeesPerEdge(t *testing.T) {
	a := relationship.Client{ID: uuid.New(), Name: "b-client"}
	b := relationship.Client{ID: uuid.New(), Name: "A-client"}
	m := relationship.Manager{ID: uuid.New(), Name: "Mona"}
	x := relationship.Employee{ID: uuid.New(), Name: "Xavier"}
	y := relationship.Employee{ID: uuid.New(), Name: "Yara"}

	tree, dangling := AssembleTree(Graph{
		Clients:   []relationship.Client{a, b},
		Managers:  []relationship.Manager{m},
		Employees: []relationship.Employee{x, y},
		Edges: []relationship.Edge{
			{ID: uuid.New(), ClientID: a.ID, ManagerID: m.ID, EmployeeIDs: []uuid.UUID{y.ID, x.ID}},
			{ID: uuid.New(), ClientID: b.ID, ManagerID: m.ID, EmployeeIDs: []uuid.UUID{x.ID}},
		},
	})

	assert.False(t, dangling.Any())
	require.Len(t, tree, 2)
	assert.Equal(t, b.ID, tree[0].ID, "clients sort case-insensitively by name")
	require.Len(t, tree[0].Managers, 1)
	assert.Equal(t, []relationship.EmployeeNode{{ID: x.ID, Name: "Xavier"}}, tree[0].Managers[0].Employees)
	assert.Equal(t, []relationship.EmployeeNode{{ID: x.ID, Name: "Xavier"}, {ID: y.ID, Name: "Yara"}}, tree[1].Managers[0].Employees)
}

func TestAssembleTree_SkipsDanglingReferences(t *testing.T) {
	c := relationship.Client{ID: uuid.New(), Name: "Acme"}
	m := relationship.Manager{ID: uuid.New(), Name: "Mona"}

	tree, dangling := AssembleTree(Graph{
		Clients:  []relationship.Client{c},
		Managers: []relationship.Manager{m},
		Edges: []relationship.Edge{
			{ID: uuid.New(), ClientID: c.ID, ManagerID: m.ID, EmployeeIDs: []uuid.UUID{uuid.New()}},
			{ID: uuid.New(), ClientID: uuid.New(), ManagerID: m.ID},
			{ID: uuid.New(), ClientID: c.ID, ManagerID: uuid.New()},
		},
	})

	assert.Equal(t, Dangling{Edges: 2, Employees: 1}, dangling)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Managers, 1)
	assert.Empty(t, tree[0].Managers[0].Employees)
}

func TestAssembleTree_ClientWithoutManagers(t *testing.T) {
	c := relationship.Client{ID: uuid.New(), Name: "Acme"}
	tree, _ := AssembleTree(Graph{Clients: []relationship.Client{c}})

	require.Len(t, tree, 1)
	assert.NotNil(t, tree[0].Managers)
	assert.Empty(t, tree[0].Managers)
}

func TestAssembleScopedTree(t *testing.T) {
	a := relationship.Client{ID: uuid.New(), Name: "Zeta"}
	b := relationship.Client{ID: uuid.New(), Name: "Alpha"}
	e := relationship.Employee{ID: uuid.New(), Name: "Erin"}
	managerID := uuid.New()

	tree, dangling := AssembleScopedTree(
		[]relationship.Client{a, b},
		[]relationship.Employee{e},
		[]relationship.Edge{
			{ClientID: a.ID, ManagerID: managerID, EmployeeIDs: []uuid.UUID{e.ID}},
			{ClientID: b.ID, ManagerID: managerID},
			{ClientID: uuid.New(), ManagerID: managerID},
		},
	)

	assert.Equal(t, 1, dangling.Edges)
	require.Len(t, tree, 2)
	assert.Equal(t, "Alpha", tree[0].Name)
	assert.Empty(t, tree[0].Employees)
	assert.Equal(t, []relationship.EmployeeNode{{ID: e.ID, Name: "Erin"}}, tree[1].Employees)
}
