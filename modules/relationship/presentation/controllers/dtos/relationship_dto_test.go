package dtos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRelationshipDTO_Ok(t *testing.T) {
	valid := CreateRelationshipDTO{
		ClientID:    uuid.NewString(),
		ManagerID:   uuid.NewString(),
		EmployeeIDs: []string{uuid.NewString()},
	}
	errs, ok := valid.Ok()
	assert.True(t, ok)
	assert.Empty(t, errs)
	assert.Len(t, valid.EmployeeUUIDs(), 1)

	bad := CreateRelationshipDTO{ClientID: "nope", EmployeeIDs: []string{"x"}}
	errs, ok = bad.Ok()
	require.False(t, ok)
	assert.Equal(t, "must be a UUID", errs["client_id"])
	assert.Equal(t, "is required", errs["manager_id"])
	assert.Equal(t, "must be a UUID", errs["employee_ids[0]"])
}

func TestManagerDTO_ActionNormalized(t *testing.T) {
	d := ManagerDTO{ClientID: uuid.NewString(), ManagerID: uuid.NewString(), Action: " Replace "}
	_, ok := d.Ok()
	require.True(t, ok)
	assert.Equal(t, "replace", d.Action)

	d.Action = "remove"
	errs, ok := d.Ok()
	require.False(t, ok)
	assert.Contains(t, errs["action"], "add replace")
}

func TestQueries_UseFormNames(t *testing.T) {
	q := RemoveEmployeeQuery{ClientID: uuid.NewString()}
	errs, ok := q.Ok()
	require.False(t, ok)
	assert.Equal(t, "is required", errs["employee_id"])

	tq := TreeQuery{ManagerID: "bad"}
	errs, ok = tq.Ok()
	require.False(t, ok)
	assert.Contains(t, errs, "manager_id")
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, ParseID(" "+id.String()))
	assert.Equal(t, uuid.Nil, ParseID("garbage"))
	assert.Equal(t, uuid.Nil, ParseID(""))
}
