package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
)

// Graph is the flat input of the read projection.
type Graph struct {
	Clients   []relationship.Client
	Managers  []relationship.Manager
	Employees []relationship.Employee
	Edges     []relationship.Edge
}

// Dangling counts references the projection could not resolve.
type Dangling struct {
	Edges     int
	Employees int
}

func (d Dangling) Any() bool {
	return d.Edges > 0 || d.Employees > 0
}

func comparePeople(aName string, aID uuid.UUID, bName string, bID uuid.UUID) int {
	if c := cmp.Compare(strings.ToLower(aName), strings.ToLower(bName)); c != 0 {
		return c
	}
	return cmp.Compare(aID.String(), bID.String())
}

func sortEmployeeNodes(nodes []relationship.EmployeeNode) {
	slices.SortFunc(nodes, func(a, b relationship.EmployeeNode) int {
		return comparePeople(a.Name, a.ID, b.Name, b.ID)
	})
}

func employeeNodes(ids []uuid.UUID, employees map[uuid.UUID]relationship.Employee, dangling *Dangling) []relationship.EmployeeNode {
	out := make([]relationship.EmployeeNode, 0, len(ids))
	for _, id := range ids {
		e, ok := employees[id]
		if !ok {
			dangling.Employees++
			continue
		}
		out = append(out, relationship.EmployeeNode{ID: e.ID, Name: e.Name, Email: e.Email})
	}
	sortEmployeeNodes(out)
	return out
}

func indexEmployees(employees []relationship.Employee) map[uuid.UUID]relationship.Employee {
	out := make(map[uuid.UUID]relationship.Employee, len(employees))
	for _, e := range employees {
		out[e.ID] = e
	}
	return out
}

// AssembleTree attaches to every client its managers, and to every manager only the
// employees of that specific (client, manager) edge. Edges pointing at unknown
// entities are skipped and counted.
func AssembleTree(g Graph) ([]relationship.ClientNode, Dangling) {
	var dangling Dangling

	managers := make(map[uuid.UUID]relationship.Manager, len(g.Managers))
	for _, m := range g.Managers {
		managers[m.ID] = m
	}
	employees := indexEmployees(g.Employees)

	byClient := make(map[uuid.UUID]int, len(g.Clients))
	out := make([]relationship.ClientNode, 0, len(g.Clients))
	for _, c := range g.Clients {
		byClient[c.ID] = len(out)
		out = append(out, relationship.ClientNode{
			ID:       c.ID,
			Name:     c.Name,
			Email:    c.Email,
			Managers: []relationship.ManagerNode{},
		})
	}

	for _, edge := range g.Edges {
		idx, ok := byClient[edge.ClientID]
		if !ok {
			dangling.Edges++
			continue
		}
		m, ok := managers[edge.ManagerID]
		if !ok {
			dangling.Edges++
			continue
		}
		out[idx].Managers = append(out[idx].Managers, relationship.ManagerNode{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Employees: employeeNodes(edge.EmployeeIDs, employees, &dangling),
		})
	}

	for i := range out {
		slices.SortFunc(out[i].Managers, func(a, b relationship.ManagerNode) int {
			return comparePeople(a.Name, a.ID, b.Name, b.ID)
		})
	}
	slices.SortFunc(out, func(a, b relationship.ClientNode) int {
		return comparePeople(a.Name, a.ID, b.Name, b.ID)
	})
	return out, dangling
}

// AssembleScopedTree builds the manager view: one node per client the given edges
// reach, carrying that edge's employees.
func AssembleScopedTree(clients []relationship.Client, employees []relationship.Employee, edges []relationship.Edge) ([]relationship.ScopedClientNode, Dangling) {
	var dangling Dangling

	clientByID := make(map[uuid.UUID]relationship.Client, len(clients))
	for _, c := range clients {
		clientByID[c.ID] = c
	}
	employeeByID := indexEmployees(employees)

	out := make([]relationship.ScopedClientNode, 0, len(edges))
	for _, edge := range edges {
		c, ok := clientByID[edge.ClientID]
		if !ok {
			dangling.Edges++
			continue
		}
		out = append(out, relationship.ScopedClientNode{
			ID:        c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Employees: employeeNodes(edge.EmployeeIDs, employeeByID, &dangling),
		})
	}
	slices.SortFunc(out, func(a, b relationship.ScopedClientNode) int {
		return comparePeople(a.Name, a.ID, b.Name, b.ID)
	})
	return out, dangling
}
