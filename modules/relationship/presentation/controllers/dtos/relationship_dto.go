// Package dtos holds the wire shapes accepted by the relationship API.
package dtos

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/pkg/constants"
)

type CreateRelationshipDTO struct {
	ClientID    string   `json:"client_id" validate:"required,uuid"`
	ManagerID   string   `json:"manager_id" validate:"required,uuid"`
	EmployeeIDs []string `json:"employee_ids" validate:"omitempty,dive,required,uuid"`
}

func (d *CreateRelationshipDTO) Ok() (map[string]string, bool) {
	return validate(d)
}

func (d *CreateRelationshipDTO) EmployeeUUIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(d.EmployeeIDs))
	for i, id := range d.EmployeeIDs {
		out[i] = ParseID(id)
	}
	return out
}

type ManagerDTO struct {
	ClientID  string `json:"client_id" validate:"required,uuid"`
	ManagerID string `json:"manager_id" validate:"required,uuid"`
	Action    string `json:"action,omitempty" validate:"omitempty,oneof=add replace"`
}

func (d *ManagerDTO) Ok() (map[string]string, bool) {
	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	return validate(d)
}

// EmployeeDTO adds an employee, or replaces ReplaceEmployeeID with EmployeeID when set.
type EmployeeDTO struct {
	ClientID          string `json:"client_id" validate:"required,uuid"`
	ManagerID         string `json:"manager_id,omitempty" validate:"omitempty,uuid"`
	EmployeeID        string `json:"employee_id" validate:"required,uuid"`
	ReplaceEmployeeID string `json:"replace_employee_id,omitempty" validate:"omitempty,uuid"`
}

func (d *EmployeeDTO) Ok() (map[string]string, bool) {
	return validate(d)
}

type RemoveEmployeeQuery struct {
	ClientID   string `form:"client_id" validate:"required,uuid"`
	ManagerID  string `form:"manager_id" validate:"omitempty,uuid"`
	EmployeeID string `form:"employee_id" validate:"required,uuid"`
}

func (q *RemoveEmployeeQuery) Ok() (map[string]string, bool) {
	return validate(q)
}

type AvailableEmployeesQuery struct {
	ClientID  string `form:"client_id" validate:"required,uuid"`
	ManagerID string `form:"manager_id" validate:"omitempty,uuid"`
}

func (q *AvailableEmployeesQuery) Ok() (map[string]string, bool) {
	return validate(q)
}

type TreeQuery struct {
	ManagerID string `form:"manager_id" validate:"omitempty,uuid"`
}

func (q *TreeQuery) Ok() (map[string]string, bool) {
	return validate(q)
}

type DirectoryQuery struct {
	Q string `form:"q" validate:"omitempty,max=200"`
}

func (q *DirectoryQuery) Ok() (map[string]string, bool) {
	q.Q = strings.TrimSpace(q.Q)
	return validate(q)
}

// ParseID returns uuid.Nil for an empty or malformed id; callers validate first.
func ParseID(s string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func validate(v any) (map[string]string, bool) {
	err := constants.Validate.Struct(v)
	if err == nil {
		return map[string]string{}, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}, false
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out, false
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
