package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/modules/relationship/presentation/controllers/dtos"
	"github.com/ZSuraj/abcd-sub000/modules/relationship/services"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/httpapi"
	"github.com/ZSuraj/abcd-sub000/pkg/middleware"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

const (
	codeInvalidBody  = "REL_INVALID_BODY"
	codeInvalidQuery = "REL_INVALID_QUERY"
)

type RelationshipAPIController struct {
	app       application.Application
	svc       *services.RelationshipService
	apiPrefix string
}

func NewRelationshipAPIController(app application.Application) application.Controller {
	return &RelationshipAPIController{
		app:       app,
		svc:       app.Service(services.RelationshipService{}).(*services.RelationshipService),
		apiPrefix: "/relationships",
	}
}

func (c *RelationshipAPIController) Key() string {
	return c.apiPrefix
}

func (c *RelationshipAPIController) Register(r *mux.Router) {
	requireSession := middleware.RequireSession()
	handle := func(path, endpoint string, h http.HandlerFunc, method string) {
		r.Handle(path, requireSession(instrumentAPI(endpoint, h))).Methods(method)
	}

	handle(c.apiPrefix, "tree", c.GetTree, http.MethodGet)
	handle(c.apiPrefix, "create_relationship", c.CreateRelationship, http.MethodPost)
	handle(c.apiPrefix+"/manager", "manager", c.AssignManager, http.MethodPost)
	handle(c.apiPrefix+"/employee", "employee", c.MutateEmployee, http.MethodPost)
	handle(c.apiPrefix+"/employee", "remove_employee", c.RemoveEmployee, http.MethodDelete)
	handle(c.apiPrefix+"/available-employees", "available_employees", c.AvailableEmployees, http.MethodGet)

	handle("/clients", "clients", c.directory(c.svc.ListClients), http.MethodGet)
	handle("/managers", "managers", c.directory(c.svc.ListManagers), http.MethodGet)
	handle("/employees", "employees", c.directory(c.svc.ListEmployees), http.MethodGet)
}

func requestMeta(r *http.Request) map[string]string {
	meta := map[string]string{}
	if id := composables.UseRequestID(r.Context()); id != "" {
		meta["request_id"] = id
	}
	return meta
}

func writeValidationError(w http.ResponseWriter, r *http.Request, code string, fields map[string]string) {
	meta := requestMeta(r)
	for k, v := range fields {
		meta[k] = v
	}
	_ = httpapi.WriteError(w, http.StatusBadRequest, code, "request validation failed", meta)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := composables.UseRequestID(r.Context())
	composables.UseLogger(r.Context()).WithError(err).Debug("relationship request failed")
	_ = httpapi.WriteServiceError(w, requestID, err)
}

// decodeBody decodes and validates a JSON body; it writes the error response itself.
func decodeBody[T any, PT interface {
	*T
	Ok() (map[string]string, bool)
}](w http.ResponseWriter, r *http.Request) (PT, bool) {
	dto := PT(new(T))
	if err := httpapi.DecodeJSON(r.Body, dto); err != nil {
		writeValidationError(w, r, codeInvalidBody, map[string]string{"body": "invalid json body"})
		return nil, false
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationError(w, r, codeInvalidBody, errs)
		return nil, false
	}
	return dto, true
}

func decodeQuery[T any, PT interface {
	*T
	Ok() (map[string]string, bool)
}](w http.ResponseWriter, r *http.Request) (PT, bool) {
	q := PT(new(T))
	if _, err := composables.UseQuery((*T)(q), r); err != nil {
		writeValidationError(w, r, codeInvalidQuery, map[string]string{"query": "invalid query string"})
		return nil, false
	}
	if errs, ok := q.Ok(); !ok {
		writeValidationError(w, r, codeInvalidQuery, errs)
		return nil, false
	}
	return q, true
}

func isManager(r *http.Request) bool {
	s, err := composables.UseSession(r.Context())
	return err == nil && s.Role == session.RoleManager
}

// clientScope returns the client the request is narrowed to via the scope header.
func clientScope(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool, bool) {
	raw, ok := composables.UseClientScope(r.Context())
	if !ok {
		return uuid.Nil, false, true
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		writeValidationError(w, r, codeInvalidQuery, map[string]string{"client_scope": "must be a UUID"})
		return uuid.Nil, false, false
	}
	return id, true, true
}

// GetTree returns the full tree to admins and the caller's own Client → Employees
// view to managers. An admin passing manager_id gets that manager's view.
func (c *RelationshipAPIController) GetTree(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuery[dtos.TreeQuery](w, r)
	if !ok {
		return
	}
	scopeID, scoped, ok := clientScope(w, r)
	if !ok {
		return
	}

	if isManager(r) || q.ManagerID != "" {
		tree, err := c.svc.GetManagerRelationshipTree(r.Context(), dtos.ParseID(q.ManagerID))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if scoped {
			filtered := make([]relationship.ScopedClientNode, 0, 1)
			for _, n := range tree {
				if n.ID == scopeID {
					filtered = append(filtered, n)
				}
			}
			tree = filtered
		}
		_ = httpapi.WriteData(w, http.StatusOK, tree)
		return
	}

	var (
		tree []relationship.ClientNode
		err  error
	)
	if scoped {
		tree, err = c.svc.GetClientRelationshipTree(r.Context(), scopeID)
	} else {
		tree, err = c.svc.GetRelationshipTree(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, tree)
}

func (c *RelationshipAPIController) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	dto, ok := decodeBody[dtos.CreateRelationshipDTO](w, r)
	if !ok {
		return
	}
	res, err := c.svc.CreateClientRelationship(r.Context(), dtos.ParseID(dto.ClientID), dtos.ParseID(dto.ManagerID), dto.EmployeeUUIDs())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusCreated, res)
}

func (c *RelationshipAPIController) AssignManager(w http.ResponseWriter, r *http.Request) {
	dto, ok := decodeBody[dtos.ManagerDTO](w, r)
	if !ok {
		return
	}
	clientID, managerID := dtos.ParseID(dto.ClientID), dtos.ParseID(dto.ManagerID)

	var (
		res relationship.ManagerAssignment
		err error
	)
	switch relationship.ManagerAction(dto.Action) {
	case relationship.ManagerActionAdd:
		res, err = c.svc.AddManagerToClient(r.Context(), clientID, managerID)
	case relationship.ManagerActionReplace:
		res, err = c.svc.ReplaceManager(r.Context(), clientID, managerID)
	default:
		res, err = c.svc.AssignManager(r.Context(), clientID, managerID)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, res)
}

type employeeMutationResponse struct {
	Action             string    `json:"action"`
	ClientID           uuid.UUID `json:"client_id"`
	ManagerID          uuid.UUID `json:"manager_id"`
	EmployeeID         uuid.UUID `json:"employee_id"`
	PreviousEmployeeID *uuid.UUID `json:"previous_employee_id,omitempty"`
}

// resolvedManager is the manager id an employee mutation acted on.
func resolvedManager(r *http.Request, requested uuid.UUID) uuid.UUID {
	if requested != uuid.Nil {
		return requested
	}
	if s, err := composables.UseSession(r.Context()); err == nil && s.Role == session.RoleManager {
		return s.SubjectID
	}
	return uuid.Nil
}

func (c *RelationshipAPIController) MutateEmployee(w http.ResponseWriter, r *http.Request) {
	dto, ok := decodeBody[dtos.EmployeeDTO](w, r)
	if !ok {
		return
	}
	clientID := dtos.ParseID(dto.ClientID)
	managerID := dtos.ParseID(dto.ManagerID)
	employeeID := dtos.ParseID(dto.EmployeeID)

	resp := employeeMutationResponse{
		Action:     "add",
		ClientID:   clientID,
		ManagerID:  resolvedManager(r, managerID),
		EmployeeID: employeeID,
	}
	var err error
	if dto.ReplaceEmployeeID != "" {
		resp.Action = "replace"
		previous := dtos.ParseID(dto.ReplaceEmployeeID)
		resp.PreviousEmployeeID = &previous
		err = c.svc.ReplaceEmployee(r.Context(), clientID, managerID, previous, employeeID)
	} else {
		err = c.svc.AddEmployee(r.Context(), clientID, managerID, employeeID)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, resp)
}

func (c *RelationshipAPIController) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuery[dtos.RemoveEmployeeQuery](w, r)
	if !ok {
		return
	}
	err := c.svc.RemoveEmployee(r.Context(), dtos.ParseID(q.ClientID), dtos.ParseID(q.ManagerID), dtos.ParseID(q.EmployeeID))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *RelationshipAPIController) AvailableEmployees(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuery[dtos.AvailableEmployeesQuery](w, r)
	if !ok {
		return
	}
	entries, err := c.svc.ListAvailableEmployees(r.Context(), dtos.ParseID(q.ClientID), dtos.ParseID(q.ManagerID))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, entries)
}

type directoryFunc func(ctx context.Context, q string) ([]relationship.DirectoryEntry, error)

func (c *RelationshipAPIController) directory(list directoryFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := decodeQuery[dtos.DirectoryQuery](w, r)
		if !ok {
			return
		}
		entries, err := list(r.Context(), q.Q)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, entries)
	}
}
