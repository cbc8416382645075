package persistence

import (
	"cmp"
	"strings"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
)

// comparePerson matches the ORDER BY lower(name), id of the SQL listings.
func comparePerson(a, b relationship.Person) int {
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID.String(), b.ID.String())
}
