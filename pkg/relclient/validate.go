package relclient

import (
	"fmt"

	"github.com/google/uuid"
)

func nilID(kind string) error {
	return badResponse(fmt.Errorf("%s without id", kind))
}

func checkEmployees(nodes []EmployeeNode) error {
	for _, e := range nodes {
		if e.ID == uuid.Nil {
			return nilID("employee")
		}
	}
	return nil
}

func checkTree(tree []ClientNode) error {
	for _, c := range tree {
		if c.ID == uuid.Nil {
			return nilID("client")
		}
		for _, m := range c.Managers {
			if m.ID == uuid.Nil {
				return nilID("manager")
			}
			if err := checkEmployees(m.Employees); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkScopedTree(tree []ScopedClientNode) error {
	for _, c := range tree {
		if c.ID == uuid.Nil {
			return nilID("client")
		}
		if err := checkEmployees(c.Employees); err != nil {
			return err
		}
	}
	return nil
}

func checkEntries(entries []DirectoryEntry) error {
	for _, e := range entries {
		if e.ID == uuid.Nil {
			return nilID("directory entry")
		}
	}
	return nil
}
