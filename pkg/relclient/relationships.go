package relclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

type (
	ClientNode               = relationship.ClientNode
	ManagerNode              = relationship.ManagerNode
	EmployeeNode             = relationship.EmployeeNode
	ScopedClientNode         = relationship.ScopedClientNode
	DirectoryEntry           = relationship.DirectoryEntry
	ManagerAssignment        = relationship.ManagerAssignment
	CreateRelationshipResult = relationship.CreateRelationshipResult
)

type User struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	SubjectID *uuid.UUID `json:"subject_id,omitempty"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// EmployeeMutation echoes what an employee add or replace acted on.
type EmployeeMutation struct {
	Action             string     `json:"action"`
	ClientID           uuid.UUID  `json:"client_id"`
	ManagerID          uuid.UUID  `json:"manager_id"`
	EmployeeID         uuid.UUID  `json:"employee_id"`
	PreviousEmployeeID *uuid.UUID `json:"previous_employee_id,omitempty"`
}

func requireArgs(ids map[string]uuid.UUID) error {
	for name, id := range ids {
		if id == uuid.Nil {
			return serrors.Invalid("CLIENT_INVALID_ID", name+" is required")
		}
	}
	return nil
}

func optionalID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

// Login exchanges credentials for a token and keeps it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	res, err := getData[loginResponse](ctx, c, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, err
	}
	if res.Token == "" || res.User.ID == uuid.Nil {
		return nil, badResponse(fmt.Errorf("login response without token or user id"))
	}
	c.SetToken(res.Token)
	s := &session.Session{
		Token:     res.Token,
		UserID:    res.User.ID,
		Email:     res.User.Email,
		Name:      res.User.Name,
		Role:      session.Role(res.User.Role),
		BaseURL:   c.baseURL,
		ExpiresAt: res.ExpiresAt,
	}
	if res.User.SubjectID != nil {
		s.SubjectID = *res.User.SubjectID
	}
	return s, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, _, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/logout"})
	if err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (User, error) {
	u, err := getData[User](ctx, c, request{method: http.MethodGet, path: "/auth/me"})
	if err != nil {
		return User{}, err
	}
	if u.ID == uuid.Nil {
		return User{}, badResponse(fmt.Errorf("user without id"))
	}
	return u, nil
}

// GetTree returns the full Client → Manager → Employee tree (admin view).
func (c *Client) GetTree(ctx context.Context) ([]ClientNode, error) {
	tree, err := getData[[]ClientNode](ctx, c, request{method: http.MethodGet, path: "/relationships", scoped: true})
	if err != nil {
		return nil, err
	}
	if err := checkTree(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// GetScopedTree returns the Client → Employee view of one manager. Manager callers pass
// uuid.Nil to read their own view.
func (c *Client) GetScopedTree(ctx context.Context, managerID uuid.UUID) ([]ScopedClientNode, error) {
	q := url.Values{}
	if managerID != uuid.Nil {
		q.Set("manager_id", managerID.String())
	}
	tree, err := getData[[]ScopedClientNode](ctx, c, request{method: http.MethodGet, path: "/relationships", query: q, scoped: true})
	if err != nil {
		return nil, err
	}
	if err := checkScopedTree(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (c *Client) manager(ctx context.Context, clientID, managerID uuid.UUID, action relationship.ManagerAction) (ManagerAssignment, error) {
	if err := requireArgs(map[string]uuid.UUID{"client_id": clientID, "manager_id": managerID}); err != nil {
		return ManagerAssignment{}, err
	}
	body := map[string]string{"client_id": clientID.String(), "manager_id": managerID.String()}
	if action != "" {
		body["action"] = string(action)
	}
	raw, err := c.mutate(ctx, request{method: http.MethodPost, path: "/relationships/manager", body: body})
	if err != nil {
		return ManagerAssignment{}, err
	}
	res, err := decodeData[ManagerAssignment](raw)
	if err != nil {
		return ManagerAssignment{}, err
	}
	if res.ClientID == uuid.Nil || res.ManagerID == uuid.Nil || res.EdgeID == uuid.Nil {
		return ManagerAssignment{}, badResponse(fmt.Errorf("manager assignment with nil id"))
	}
	return res, nil
}

func (c *Client) AddManager(ctx context.Context, clientID, managerID uuid.UUID) (ManagerAssignment, error) {
	return c.manager(ctx, clientID, managerID, relationship.ManagerActionAdd)
}

func (c *Client) ReplaceManager(ctx context.Context, clientID, managerID uuid.UUID) (ManagerAssignment, error) {
	return c.manager(ctx, clientID, managerID, relationship.ManagerActionReplace)
}

// AssignManager adds the manager when the client has none and replaces it otherwise.
func (c *Client) AssignManager(ctx context.Context, clientID, managerID uuid.UUID) (ManagerAssignment, error) {
	return c.manager(ctx, clientID, managerID, "")
}

func (c *Client) employee(ctx context.Context, clientID, managerID, employeeID, previousID uuid.UUID) (EmployeeMutation, error) {
	if err := requireArgs(map[string]uuid.UUID{"client_id": clientID, "employee_id": employeeID}); err != nil {
		return EmployeeMutation{}, err
	}
	body := map[string]string{"client_id": clientID.String(), "employee_id": employeeID.String()}
	if managerID != uuid.Nil {
		body["manager_id"] = managerID.String()
	}
	if previousID != uuid.Nil {
		body["replace_employee_id"] = previousID.String()
	}
	raw, err := c.mutate(ctx, request{method: http.MethodPost, path: "/relationships/employee", body: body})
	if err != nil {
		return EmployeeMutation{}, err
	}
	res, err := decodeData[EmployeeMutation](raw)
	if err != nil {
		return EmployeeMutation{}, err
	}
	if res.ClientID == uuid.Nil || res.EmployeeID == uuid.Nil {
		return EmployeeMutation{}, badResponse(fmt.Errorf("employee mutation with nil id"))
	}
	return res, nil
}

// AddEmployee attaches an employee to the (client, manager) edge. Manager callers may
// pass uuid.Nil as managerID.
func (c *Client) AddEmployee(ctx context.Context, clientID, managerID, employeeID uuid.UUID) (EmployeeMutation, error) {
	return c.employee(ctx, clientID, managerID, employeeID, uuid.Nil)
}

func (c *Client) ReplaceEmployee(ctx context.Context, clientID, managerID, oldEmployeeID, newEmployeeID uuid.UUID) (EmployeeMutation, error) {
	if err := requireArgs(map[string]uuid.UUID{"replace_employee_id": oldEmployeeID}); err != nil {
		return EmployeeMutation{}, err
	}
	return c.employee(ctx, clientID, managerID, newEmployeeID, oldEmployeeID)
}

func (c *Client) RemoveEmployee(ctx context.Context, clientID, managerID, employeeID uuid.UUID) error {
	if err := requireArgs(map[string]uuid.UUID{"client_id": clientID, "employee_id": employeeID}); err != nil {
		return err
	}
	q := url.Values{}
	q.Set("client_id", clientID.String())
	q.Set("employee_id", employeeID.String())
	if id := optionalID(managerID); id != "" {
		q.Set("manager_id", id)
	}
	_, err := c.mutate(ctx, request{method: http.MethodDelete, path: "/relationships/employee", query: q})
	return err
}

// CreateRelationship creates the edge and attaches every employee in one transaction.
func (c *Client) CreateRelationship(ctx context.Context, clientID, managerID uuid.UUID, employeeIDs []uuid.UUID) (CreateRelationshipResult, error) {
	if err := requireArgs(map[string]uuid.UUID{"client_id": clientID, "manager_id": managerID}); err != nil {
		return CreateRelationshipResult{}, err
	}
	ids := make([]string, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		if id == uuid.Nil {
			return CreateRelationshipResult{}, serrors.Invalid("CLIENT_INVALID_ID", "employee_ids must not contain empty ids")
		}
		ids = append(ids, id.String())
	}
	raw, err := c.mutate(ctx, request{
		method: http.MethodPost,
		path:   "/relationships",
		body: map[string]any{
			"client_id":    clientID.String(),
			"manager_id":   managerID.String(),
			"employee_ids": ids,
		},
	})
	if err != nil {
		return CreateRelationshipResult{}, err
	}
	res, err := decodeData[CreateRelationshipResult](raw)
	if err != nil {
		return CreateRelationshipResult{}, err
	}
	if res.EdgeID == uuid.Nil || res.ClientID == uuid.Nil || res.ManagerID == uuid.Nil {
		return CreateRelationshipResult{}, badResponse(fmt.Errorf("relationship result with nil id"))
	}
	if err := checkEmployees(res.Employees); err != nil {
		return CreateRelationshipResult{}, err
	}
	return res, nil
}

func (c *Client) directory(ctx context.Context, path, q string) ([]DirectoryEntry, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	entries, err := getData[[]DirectoryEntry](ctx, c, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, err
	}
	if err := checkEntries(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) ListClients(ctx context.Context, q string) ([]DirectoryEntry, error) {
	return c.directory(ctx, "/clients", q)
}

func (c *Client) ListManagers(ctx context.Context, q string) ([]DirectoryEntry, error) {
	return c.directory(ctx, "/managers", q)
}

func (c *Client) ListEmployees(ctx context.Context, q string) ([]DirectoryEntry, error) {
	return c.directory(ctx, "/employees", q)
}

// AvailableEmployees lists employees not yet under the (client, manager) edge.
func (c *Client) AvailableEmployees(ctx context.Context, clientID, managerID uuid.UUID) ([]DirectoryEntry, error) {
	if err := requireArgs(map[string]uuid.UUID{"client_id": clientID}); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("client_id", clientID.String())
	if id := optionalID(managerID); id != "" {
		q.Set("manager_id", id)
	}
	entries, err := getData[[]DirectoryEntry](ctx, c, request{method: http.MethodGet, path: "/relationships/available-employees", query: q})
	if err != nil {
		return nil, err
	}
	if err := checkEntries(entries); err != nil {
		return nil, err
	}
	return entries, nil
}
