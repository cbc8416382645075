package services

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/pkg/authz"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/eventbus"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
)

// RelationshipService validates and applies structural edits to the
// Client → Manager → Employee graph and produces its read views.
type RelationshipService struct {
	repo       relationship.Repository
	tx         composables.Transactor
	publisher  eventbus.EventBus
	authorizer Authorizer
	cache      *treeCache
}

type Option func(*RelationshipService)

func WithAuthorizer(a Authorizer) Option {
	return func(s *RelationshipService) {
		s.authorizer = a
	}
}

// WithTreeCache keeps the assembled full tree in memory between mutations.
func WithTreeCache(enabled bool) Option {
	return func(s *RelationshipService) {
		if enabled {
			s.cache = newTreeCache()
		} else {
			s.cache = nil
		}
	}
}

func NewRelationshipService(
	repo relationship.Repository,
	tx composables.Transactor,
	publisher eventbus.EventBus,
	opts ...Option,
) *RelationshipService {
	s := &RelationshipService{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RelationshipService) committed(operation string, event any) {
	recordMutation(operation, "ok")
	if s.cache != nil {
		s.cache.Invalidate(operation)
	}
	if event != nil && s.publisher != nil {
		s.publisher.Publish(event)
	}
}

func (s *RelationshipService) failed(operation string, err error) error {
	err = mapError(err)
	recordMutation(operation, string(serrors.KindOf(err)))
	return err
}

// ---- reads ----

// loadGraph fans the entity and edge queries out over the pool. It must not be
// called with a transaction in ctx.
func (s *RelationshipService) loadGraph(
	ctx context.Context,
	loadEdges func(context.Context) ([]relationship.Edge, error),
	withManagers bool,
) (Graph, error) {
	var g Graph
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		g.Clients, err = s.repo.ListClients(egCtx)
		return err
	})
	if withManagers {
		eg.Go(func() error {
			var err error
			g.Managers, err = s.repo.ListManagers(egCtx)
			return err
		})
	}
	eg.Go(func() error {
		var err error
		g.Employees, err = s.repo.ListEmployees(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		g.Edges, err = loadEdges(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return Graph{}, mapError(err)
	}
	return g, nil
}

func logDangling(ctx context.Context, d Dangling) {
	if !d.Any() {
		return
	}
	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"dangling_edges":     d.Edges,
		"dangling_employees": d.Employees,
	}).Warn("relationship projection skipped unresolved references")
}

func (s *RelationshipService) fullTree(ctx context.Context) ([]relationship.ClientNode, error) {
	var generation uint64
	if s.cache != nil {
		if tree, ok := s.cache.Get(); ok {
			return tree, nil
		}
		generation = s.cache.Generation()
	}

	g, err := s.loadGraph(ctx, s.repo.ListEdges, true)
	if err != nil {
		return nil, err
	}
	tree, dangling := AssembleTree(g)
	logDangling(ctx, dangling)

	if s.cache != nil {
		s.cache.Set(generation, tree)
	}
	return tree, nil
}

// GetRelationshipTree returns every client with its managers and, per manager, the
// employees of that edge. It is a full read-only snapshot.
func (s *RelationshipService) GetRelationshipTree(ctx context.Context) ([]relationship.ClientNode, error) {
	c, err := resolveCaller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, c, authz.ObjectGraph, authz.ActionRead); err != nil {
		return nil, err
	}
	return s.fullTree(ctx)
}

// GetClientRelationshipTree narrows the full tree to one client.
func (s *RelationshipService) GetClientRelationshipTree(ctx context.Context, clientID uuid.UUID) ([]relationship.ClientNode, error) {
	c, err := resolveCaller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, c, authz.ObjectGraph, authz.ActionRead); err != nil {
		return nil, err
	}
	if err := requireIDs(idField{"client_id", clientID}); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetClient(ctx, clientID); err != nil {
		return nil, mapError(notFoundAs(err, CodeClientNotFound, "client not found"))
	}

	tree, err := s.fullTree(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]relationship.ClientNode, 0, 1)
	for _, node := range tree {
		if node.ID == clientID {
			out = append(out, node)
		}
	}
	return out, nil
}

// GetManagerRelationshipTree returns Client → Employees for one manager's edges.
// Manager-role callers always get their own view.
func (s *RelationshipService) GetManagerRelationshipTree(ctx context.Context, managerID uuid.UUID) ([]relationship.ScopedClientNode, error) {
	c, err := resolveCaller(ctx)
	if err != nil {
		return nil, err
	}
	managerID, err = c.managerFor(managerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, c, c.object(), authz.ActionRead); err != nil {
		return nil, err
	}
	if !c.scoped {
		if _, err := s.repo.GetManager(ctx, managerID); err != nil {
			return nil, mapError(notFoundAs(err, CodeManagerNotFound, "manager not found"))
		}
	}

	g, err := s.loadGraph(ctx, func(ctx context.Context) ([]relationship.Edge, error) {
		return s.repo.ListEdgesByManager(ctx, managerID)
	}, false)
	if err != nil {
		return nil, err
	}
	tree, dangling := AssembleScopedTree(g.Clients, g.Employees, g.Edges)
	logDangling(ctx, dangling)
	return tree, nil
}

// ---- lookups used inside units of work ----

func (s *RelationshipService) lockClient(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(s.repo.LockClient(ctx, id), CodeClientNotFound, "client not found")
}

func (s *RelationshipService) requireManager(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.GetManager(ctx, id)
	return notFoundAs(err, CodeManagerNotFound, "manager not found")
}

func (s *RelationshipService) requireEmployee(ctx context.Context, id uuid.UUID) (relationship.Employee, error) {
	e, err := s.repo.GetEmployee(ctx, id)
	return e, notFoundAs(err, CodeEmployeeNotFound, "employee not found")
}

func (s *RelationshipService) requireEdge(ctx context.Context, clientID, managerID uuid.UUID) (relationship.Edge, error) {
	edge, err := s.repo.GetEdge(ctx, clientID, managerID)
	return edge, notFoundAs(err, CodeEdgeNotFound, "manager is not assigned to client")
}

// ---- manager mutations ----

func (s *RelationshipService) authorizeManagerWrite(ctx context.Context) error {
	c, err := resolveCaller(ctx)
	if err != nil {
		return err
	}
	if c.scoped {
		return serrors.Forbidden(CodeManagerMismatch, "managers cannot assign managers")
	}
	return s.authorize(ctx, c, authz.ObjectGraph, authz.ActionWrite)
}

func (s *RelationshipService) addManagerTx(ctx context.Context, clientID, managerID uuid.UUID) (relationship.Edge, error) {
	if err := s.lockClient(ctx, clientID); err != nil {
		return relationship.Edge{}, err
	}
	if err := s.requireManager(ctx, managerID); err != nil {
		return relationship.Edge{}, err
	}
	edges, err := s.repo.ListEdgesByClient(ctx, clientID)
	if err != nil {
		return relationship.Edge{}, err
	}
	if len(edges) > 0 {
		recordWriteConflict("manager_assigned")
		return relationship.Edge{}, serrors.Conflict(CodeManagerAlreadyAssigned, "client already has a manager")
	}
	return s.repo.CreateEdge(ctx, clientID, managerID)
}

func (s *RelationshipService) replaceManagerTx(ctx context.Context, clientID, managerID uuid.UUID) (relationship.Edge, uuid.UUID, error) {
	if err := s.lockClient(ctx, clientID); err != nil {
		return relationship.Edge{}, uuid.Nil, err
	}
	edges, err := s.repo.ListEdgesByClient(ctx, clientID)
	if err != nil {
		return relationship.Edge{}, uuid.Nil, err
	}
	if len(edges) == 0 {
		return relationship.Edge{}, uuid.Nil, serrors.NotFound(CodeEdgeNotFound, "client has no manager to replace")
	}
	current := edges[0]
	if current.ManagerID == managerID {
		recordWriteConflict("manager_unchanged")
		return relationship.Edge{}, uuid.Nil, serrors.Conflict(CodeManagerUnchanged, "manager is already assigned to client")
	}
	if err := s.requireManager(ctx, managerID); err != nil {
		return relationship.Edge{}, uuid.Nil, err
	}
	for _, other := range edges[1:] {
		if other.ManagerID == managerID {
			recordWriteConflict("manager_assigned")
			return relationship.Edge{}, uuid.Nil, serrors.Conflict(CodeManagerAlreadyAssigned, "manager already assigned to client")
		}
	}
	if err := s.repo.UpdateEdgeManager(ctx, current.ID, managerID); err != nil {
		return relationship.Edge{}, uuid.Nil, err
	}
	previous := current.ManagerID
	current.ManagerID = managerID
	return current, previous, nil
}

// AddManagerToClient creates the client's edge with an empty employee set.
func (s *RelationshipService) AddManagerToClient(ctx context.Context, clientID, managerID uuid.UUID) (relationship.ManagerAssignment, error) {
	const op = "add_manager"
	if err := s.authorizeManagerWrite(ctx); err != nil {
		return relationship.ManagerAssignment{}, s.failed(op, err)
	}
	if err := requireIDs(idField{"client_id", clientID}, idField{"manager_id", managerID}); err != nil {
		return relationship.ManagerAssignment{}, s.failed(op, err)
	}

	var edge relationship.Edge
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		var err error
		edge, err = s.addManagerTx(txCtx, clientID, managerID)
		return err
	})
	if err != nil {
		return relationship.ManagerAssignment{}, s.failed(op, err)
	}

	s.committed(op, &relationship.ManagerAssignedEvent{
		EventMeta: relationship.NewEventMeta(ctx),
		EdgeID:    edge.ID,
		ClientID:  clientID,
		ManagerID: managerID,
	})
	return relationship.ManagerAssignment{
		Action:    relationship.ManagerActionAdd,
		EdgeID:    edge.ID,
		ClientID:  clientID,
		ManagerID: managerID,
	}, nil
}

// ReplaceManager swaps the manager of the client's edge in place. The employee set
// of the edge is retained.
func (s *RelationshipService) ReplaceManager(ctx context.Context, clientID, managerID uuid.UUID) (relationship.ManagerAssignment, error) {
	const op = "replace_manager"
	if err := s.authorizeManagerWrite(ctx); err != nil {
		return relationship.ManagerAssignment{}, s.failed(op, err)
	}
	if err := requireIDs(idField{"client_id", clientID}, idField{"manager_id", managerID}); err != nil {
		return relationship.ManagerAssignment{}, s.failed(op, err)
	}

	var (
		edge     relationship.Edge
		previous uuid.UUID
	)
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		var err error
		edge, previous, err = s.replaceManagerTx(txCtx, clientID, managerID)
		return err
	})
	if err != nil {
		return relationship.ManagerAssignment{}, s.failed(op, err)
	}

	s.committed(op, &relationship.ManagerReplacedEvent{
		EventMeta:         relationship.NewEventMeta(ctx),
		EdgeID:            edge.ID,
		ClientID:          clientID,
		PreviousManagerID: previous,
		ManagerID:         managerID,
	})
	return relationship.ManagerAssignment{
		Action:    relationship.ManagerActionReplace,
		EdgeID:    edge.ID,
		ClientID:  clientID,
		ManagerID: managerID,
	}, nil
}

// AssignManager adds the manager when the client has none and replaces it otherwise.
func (s *RelationshipService) AssignManager(ctx context.Context, clientID, managerID uuid.UUID) (relationship.ManagerAssignment, error) {
	const op = "assign_manager"
	if err := s.authorizeManagerWrite(ctx); err != nil {
		return relationship.ManagerAssignment{}, s.failed(op, err)
	}
	if err := requireIDs(idField{"client_id", clientID}, idField{"manager_id", managerID}); err != nil {
		return relationship.ManagerAssignment{}, s.failed(op, err)
	}

	var (
		result relationship.ManagerAssignment
		event  any
	)
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := s.lockClient(txCtx, clientID); err != nil {
			return err
		}
		edges, err := s.repo.ListEdgesByClient(txCtx, clientID)
		if err != nil {
			return err
		}
		if len(edges) == 0 {
			edge, err := s.addManagerTx(txCtx, clientID, managerID)
			if err != nil {
				return err
			}
			result = relationship.ManagerAssignment{Action: relationship.ManagerActionAdd, EdgeID: edge.ID, ClientID: clientID, ManagerID: managerID}
			event = &relationship.ManagerAssignedEvent{
				EventMeta: relationship.NewEventMeta(ctx),
				EdgeID:    edge.ID,
				ClientID:  clientID,
				ManagerID: managerID,
			}
			return nil
		}
		edge, previous, err := s.replaceManagerTx(txCtx, clientID, managerID)
		if err != nil {
			return err
		}
		result = relationship.ManagerAssignment{Action: relationship.ManagerActionReplace, EdgeID: edge.ID, ClientID: clientID, ManagerID: managerID}
		event = &relationship.ManagerReplacedEvent{
			EventMeta:         relationship.NewEventMeta(ctx),
			EdgeID:            edge.ID,
			ClientID:          clientID,
			PreviousManagerID: previous,
			ManagerID:         managerID,
		}
		return nil
	})
	if err != nil {
		return relationship.ManagerAssignment{}, s.failed(op, err)
	}

	s.committed(op, event)
	return result, nil
}

// ---- employee mutations ----

// employeeTarget resolves and authorizes the (client, manager) edge an employee
// mutation addresses.
func (s *RelationshipService) employeeTarget(ctx context.Context, clientID, managerID uuid.UUID) (uuid.UUID, error) {
	c, err := resolveCaller(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	managerID, err = c.managerFor(managerID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.authorize(ctx, c, c.object(), authz.ActionWrite); err != nil {
		return uuid.Nil, err
	}
	if err := requireIDs(idField{"client_id", clientID}); err != nil {
		return uuid.Nil, err
	}
	return managerID, nil
}

// AddEmployee attaches an existing employee to the (client, manager) edge.
func (s *RelationshipService) AddEmployee(ctx context.Context, clientID, managerID, employeeID uuid.UUID) error {
	const op = "add_employee"
	managerID, err := s.employeeTarget(ctx, clientID, managerID)
	if err != nil {
		return s.failed(op, err)
	}
	if err := requireIDs(idField{"employee_id", employeeID}); err != nil {
		return s.failed(op, err)
	}

	var edge relationship.Edge
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := s.lockClient(txCtx, clientID); err != nil {
			return err
		}
		var err error
		if edge, err = s.requireEdge(txCtx, clientID, managerID); err != nil {
			return err
		}
		if _, err := s.requireEmployee(txCtx, employeeID); err != nil {
			return err
		}
		if edge.HasEmployee(employeeID) {
			recordWriteConflict("employee_assigned")
			return serrors.Conflict(CodeEmployeeAlreadyAssigned, "employee is already assigned to this relationship")
		}
		return s.repo.AddEdgeEmployee(txCtx, edge.ID, employeeID)
	})
	if err != nil {
		return s.failed(op, err)
	}

	s.committed(op, &relationship.EmployeeAddedEvent{
		EventMeta:  relationship.NewEventMeta(ctx),
		EdgeID:     edge.ID,
		ClientID:   clientID,
		ManagerID:  managerID,
		EmployeeID: employeeID,
	})
	return nil
}

// ReplaceEmployee swaps one employee of the edge for another in a single unit of work.
func (s *RelationshipService) ReplaceEmployee(ctx context.Context, clientID, managerID, oldEmployeeID, newEmployeeID uuid.UUID) error {
	const op = "replace_employee"
	managerID, err := s.employeeTarget(ctx, clientID, managerID)
	if err != nil {
		return s.failed(op, err)
	}
	if err := requireIDs(idField{"replace_employee_id", oldEmployeeID}, idField{"employee_id", newEmployeeID}); err != nil {
		return s.failed(op, err)
	}

	var edge relationship.Edge
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := s.lockClient(txCtx, clientID); err != nil {
			return err
		}
		var err error
		if edge, err = s.requireEdge(txCtx, clientID, managerID); err != nil {
			return err
		}
		if !edge.HasEmployee(oldEmployeeID) {
			return serrors.NotFound(CodeEmployeeNotAssigned, "employee to replace is not assigned to this relationship")
		}
		if _, err := s.requireEmployee(txCtx, newEmployeeID); err != nil {
			return err
		}
		if edge.HasEmployee(newEmployeeID) {
			recordWriteConflict("employee_assigned")
			return serrors.Conflict(CodeEmployeeAlreadyAssigned, "employee is already assigned to this relationship")
		}
		if err := s.repo.RemoveEdgeEmployee(txCtx, edge.ID, oldEmployeeID); err != nil {
			return err
		}
		return s.repo.AddEdgeEmployee(txCtx, edge.ID, newEmployeeID)
	})
	if err != nil {
		return s.failed(op, err)
	}

	s.committed(op, &relationship.EmployeeReplacedEvent{
		EventMeta:          relationship.NewEventMeta(ctx),
		EdgeID:             edge.ID,
		ClientID:           clientID,
		ManagerID:          managerID,
		PreviousEmployeeID: oldEmployeeID,
		EmployeeID:         newEmployeeID,
	})
	return nil
}

// RemoveEmployee detaches the employee from the edge. Removing an employee that is not
// attached is a NotFound error, including a repeated removal.
func (s *RelationshipService) RemoveEmployee(ctx context.Context, clientID, managerID, employeeID uuid.UUID) error {
	const op = "remove_employee"
	managerID, err := s.employeeTarget(ctx, clientID, managerID)
	if err != nil {
		return s.failed(op, err)
	}
	if err := requireIDs(idField{"employee_id", employeeID}); err != nil {
		return s.failed(op, err)
	}

	var edge relationship.Edge
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := s.lockClient(txCtx, clientID); err != nil {
			return err
		}
		var err error
		if edge, err = s.requireEdge(txCtx, clientID, managerID); err != nil {
			return err
		}
		if !edge.HasEmployee(employeeID) {
			return serrors.NotFound(CodeEmployeeNotAssigned, "employee is not assigned to this relationship")
		}
		return s.repo.RemoveEdgeEmployee(txCtx, edge.ID, employeeID)
	})
	if err != nil {
		return s.failed(op, err)
	}

	s.committed(op, &relationship.EmployeeRemovedEvent{
		EventMeta:  relationship.NewEventMeta(ctx),
		EdgeID:     edge.ID,
		ClientID:   clientID,
		ManagerID:  managerID,
		EmployeeID: employeeID,
	})
	return nil
}

func dedupeIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, serrors.Invalid(CodeInvalidID, "employee_ids must not contain empty ids")
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// CreateClientRelationship assigns the manager and the initial employees as one unit
// of work: either the edge and every employee exist afterwards, or nothing changed.
func (s *RelationshipService) CreateClientRelationship(ctx context.Context, clientID, managerID uuid.UUID, employeeIDs []uuid.UUID) (relationship.CreateRelationshipResult, error) {
	const op = "create_relationship"
	if err := s.authorizeManagerWrite(ctx); err != nil {
		return relationship.CreateRelationshipResult{}, s.failed(op, err)
	}
	if err := requireIDs(idField{"client_id", clientID}, idField{"manager_id", managerID}); err != nil {
		return relationship.CreateRelationshipResult{}, s.failed(op, err)
	}
	ids, err := dedupeIDs(employeeIDs)
	if err != nil {
		return relationship.CreateRelationshipResult{}, s.failed(op, err)
	}

	result := relationship.CreateRelationshipResult{
		ClientID:  clientID,
		ManagerID: managerID,
		Employees: make([]relationship.EmployeeNode, 0, len(ids)),
	}
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		edge, err := s.addManagerTx(txCtx, clientID, managerID)
		if err != nil {
			return err
		}
		result.EdgeID = edge.ID
		for _, id := range ids {
			e, err := s.requireEmployee(txCtx, id)
			if err != nil {
				return err
			}
			if err := s.repo.AddEdgeEmployee(txCtx, edge.ID, id); err != nil {
				return err
			}
			result.Employees = append(result.Employees, relationship.EmployeeNode{ID: e.ID, Name: e.Name, Email: e.Email})
		}
		return nil
	})
	if err != nil {
		return relationship.CreateRelationshipResult{}, s.failed(op, err)
	}

	s.committed(op, &relationship.RelationshipCreatedEvent{
		EventMeta:   relationship.NewEventMeta(ctx),
		EdgeID:      result.EdgeID,
		ClientID:    clientID,
		ManagerID:   managerID,
		EmployeeIDs: ids,
	})
	return result, nil
}

// ---- directory ----

func (s *RelationshipService) authorizeDirectory(ctx context.Context) error {
	c, err := resolveCaller(ctx)
	if err != nil {
		return err
	}
	return s.authorize(ctx, c, authz.ObjectDirectory, authz.ActionRead)
}

func (s *RelationshipService) ListClients(ctx context.Context, q string) ([]relationship.DirectoryEntry, error) {
	if err := s.authorizeDirectory(ctx); err != nil {
		return nil, err
	}
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return filterDirectory(clientEntries(clients), strings.TrimSpace(q)), nil
}

func (s *RelationshipService) ListManagers(ctx context.Context, q string) ([]relationship.DirectoryEntry, error) {
	if err := s.authorizeDirectory(ctx); err != nil {
		return nil, err
	}
	managers, err := s.repo.ListManagers(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return filterDirectory(managerEntries(managers), strings.TrimSpace(q)), nil
}

func (s *RelationshipService) ListEmployees(ctx context.Context, q string) ([]relationship.DirectoryEntry, error) {
	if err := s.authorizeDirectory(ctx); err != nil {
		return nil, err
	}
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return filterDirectory(employeeEntries(employees), strings.TrimSpace(q)), nil
}

// ListAvailableEmployees returns the employees that can still be added to the edge.
func (s *RelationshipService) ListAvailableEmployees(ctx context.Context, clientID, managerID uuid.UUID) ([]relationship.DirectoryEntry, error) {
	c, err := resolveCaller(ctx)
	if err != nil {
		return nil, err
	}
	managerID, err = c.managerFor(managerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, c, c.object(), authz.ActionRead); err != nil {
		return nil, err
	}
	if err := requireIDs(idField{"client_id", clientID}); err != nil {
		return nil, err
	}

	edge, err := s.requireEdge(ctx, clientID, managerID)
	if err != nil {
		return nil, mapError(err)
	}
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	available := make([]relationship.Employee, 0, len(employees))
	for _, e := range employees {
		if !edge.HasEmployee(e.ID) {
			available = append(available, e)
		}
	}
	return filterDirectory(employeeEntries(available), ""), nil
}
