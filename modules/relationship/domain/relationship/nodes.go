package relationship

import "github.com/google/uuid"

// EmployeeNode is an employee as seen under one specific (client, manager) edge.
type EmployeeNode struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type ManagerNode struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Employees []EmployeeNode `json:"employees"`
}

type ClientNode struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Managers []ManagerNode `json:"managers"`
}

// ScopedClientNode is the manager-role view: a client and the employees of the
// caller's own edge with it.
type ScopedClientNode struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Employees []EmployeeNode `json:"employees"`
}

// DirectoryEntry is one row of the clients/managers/employees listings.
type DirectoryEntry struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type ManagerAction string

const (
	ManagerActionAdd     ManagerAction = "add"
	ManagerActionReplace ManagerAction = "replace"
)

func (a ManagerAction) Valid() bool {
	return a == ManagerActionAdd || a == ManagerActionReplace
}

type ManagerAssignment struct {
	Action    ManagerAction `json:"action"`
	EdgeID    uuid.UUID     `json:"edge_id"`
	ClientID  uuid.UUID     `json:"client_id"`
	ManagerID uuid.UUID     `json:"manager_id"`
}

type CreateRelationshipResult struct {
	EdgeID    uuid.UUID      `json:"edge_id"`
	ClientID  uuid.UUID      `json:"client_id"`
	ManagerID uuid.UUID      `json:"manager_id"`
	Employees []EmployeeNode `json:"employees"`
}

func CloneTree(nodes []ClientNode) []ClientNode {
	out := make([]ClientNode, len(nodes))
	for i, c := range nodes {
		out[i] = c
		out[i].Managers = make([]ManagerNode, len(c.Managers))
		for j, m := range c.Managers {
			out[i].Managers[j] = m
			out[i].Managers[j].Employees = append([]EmployeeNode{}, m.Employees...)
		}
	}
	return out
}
