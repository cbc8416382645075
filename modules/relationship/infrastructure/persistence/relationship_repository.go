package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
)

const (
	clientsTable   = "clients"
	managersTable  = "managers"
	employeesTable = "employees"
)

const selectEdgesSQL = `
	SELECT e.id, e.client_id, e.manager_id, e.created_at, e.updated_at,
		COALESCE(
			array_agg(ee.employee_id ORDER BY ee.created_at, ee.employee_id)
				FILTER (WHERE ee.employee_id IS NOT NULL),
			'{}'
		) AS employee_ids
	FROM relationship_edges e
	LEFT JOIN relationship_edge_employees ee ON ee.edge_id = e.id`

const edgesGroupOrder = `
	GROUP BY e.id
	ORDER BY e.created_at, e.id`

type personLike interface {
	~struct {
		ID    uuid.UUID
		Name  string
		Email string
	}
}

// PgRelationshipRepository stores the graph in PostgreSQL. Every method runs on the
// transaction in ctx, or on the pool when there is none.
type PgRelationshipRepository struct {
	now func() time.Time
}

func NewPgRelationshipRepository() *PgRelationshipRepository {
	return &PgRelationshipRepository{now: func() time.Time { return time.Now().UTC() }}
}

func listPeople[T personLike](ctx context.Context, table string) ([]T, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `SELECT id, name, email FROM `+table+` ORDER BY lower(name), id`)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", table)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var p relationship.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return nil, errors.Wrapf(err, "scan %s", table)
		}
		out = append(out, T(p))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "list %s", table)
	}
	return out, nil
}

func getPerson[T personLike](ctx context.Context, table string, id uuid.UUID) (T, error) {
	var zero T
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return zero, err
	}
	var p relationship.Person
	err = tx.QueryRow(ctx, `SELECT id, name, email FROM `+table+` WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, errors.Wrapf(relationship.ErrNotFound, "%s %s", table, id)
		}
		return zero, errors.Wrapf(err, "get %s", table)
	}
	return T(p), nil
}

func insertPerson(ctx context.Context, table string, p relationship.Person) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO `+table+` (id, name, email) VALUES ($1, $2, $3)`, p.ID, p.Name, p.Email); err != nil {
		return errors.Wrapf(err, "insert %s", table)
	}
	return nil
}

func (r *PgRelationshipRepository) ListClients(ctx context.Context) ([]relationship.Client, error) {
	return listPeople[relationship.Client](ctx, clientsTable)
}

func (r *PgRelationshipRepository) ListManagers(ctx context.Context) ([]relationship.Manager, error) {
	return listPeople[relationship.Manager](ctx, managersTable)
}

func (r *PgRelationshipRepository) ListEmployees(ctx context.Context) ([]relationship.Employee, error) {
	return listPeople[relationship.Employee](ctx, employeesTable)
}

func (r *PgRelationshipRepository) GetClient(ctx context.Context, id uuid.UUID) (relationship.Client, error) {
	return getPerson[relationship.Client](ctx, clientsTable, id)
}

func (r *PgRelationshipRepository) GetManager(ctx context.Context, id uuid.UUID) (relationship.Manager, error) {
	return getPerson[relationship.Manager](ctx, managersTable, id)
}

func (r *PgRelationshipRepository) GetEmployee(ctx context.Context, id uuid.UUID) (relationship.Employee, error) {
	return getPerson[relationship.Employee](ctx, employeesTable, id)
}

func (r *PgRelationshipRepository) CreateClient(ctx context.Context, c relationship.Client) error {
	return insertPerson(ctx, clientsTable, relationship.Person(c))
}

func (r *PgRelationshipRepository) CreateManager(ctx context.Context, m relationship.Manager) error {
	return insertPerson(ctx, managersTable, relationship.Person(m))
}

func (r *PgRelationshipRepository) CreateEmployee(ctx context.Context, e relationship.Employee) error {
	return insertPerson(ctx, employeesTable, relationship.Person(e))
}

func scanEdge(row pgx.Row) (relationship.Edge, error) {
	var e relationship.Edge
	if err := row.Scan(&e.ID, &e.ClientID, &e.ManagerID, &e.CreatedAt, &e.UpdatedAt, &e.EmployeeIDs); err != nil {
		return relationship.Edge{}, err
	}
	if e.EmployeeIDs == nil {
		e.EmployeeIDs = []uuid.UUID{}
	}
	return e, nil
}

func (r *PgRelationshipRepository) queryEdges(ctx context.Context, where string, args ...any) ([]relationship.Edge, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectEdgesSQL+where+edgesGroupOrder, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list relationship edges")
	}
	defer rows.Close()

	out := make([]relationship.Edge, 0)
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan relationship edge")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list relationship edges")
	}
	return out, nil
}

func (r *PgRelationshipRepository) ListEdges(ctx context.Context) ([]relationship.Edge, error) {
	return r.queryEdges(ctx, "")
}

func (r *PgRelationshipRepository) ListEdgesByClient(ctx context.Context, clientID uuid.UUID) ([]relationship.Edge, error) {
	return r.queryEdges(ctx, "\n\tWHERE e.client_id = $1", clientID)
}

func (r *PgRelationshipRepository) ListEdgesByManager(ctx context.Context, managerID uuid.UUID) ([]relationship.Edge, error) {
	return r.queryEdges(ctx, "\n\tWHERE e.manager_id = $1", managerID)
}

func (r *PgRelationshipRepository) GetEdge(ctx context.Context, clientID, managerID uuid.UUID) (relationship.Edge, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return relationship.Edge{}, err
	}
	e, err := scanEdge(tx.QueryRow(ctx,
		selectEdgesSQL+"\n\tWHERE e.client_id = $1 AND e.manager_id = $2"+edgesGroupOrder,
		clientID, managerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return relationship.Edge{}, errors.Wrapf(relationship.ErrNotFound, "edge %s/%s", clientID, managerID)
		}
		return relationship.Edge{}, errors.Wrap(err, "get relationship edge")
	}
	return e, nil
}

// LockClient takes a row lock on the client; edge mutations of the same client queue
// behind it until commit.
func (r *PgRelationshipRepository) LockClient(ctx context.Context, clientID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	var id uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM clients WHERE id = $1 FOR UPDATE`, clientID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.Wrapf(relationship.ErrNotFound, "client %s", clientID)
		}
		return errors.Wrap(err, "lock client")
	}
	return nil
}

func (r *PgRelationshipRepository) CreateEdge(ctx context.Context, clientID, managerID uuid.UUID) (relationship.Edge, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return relationship.Edge{}, err
	}
	now := r.now()
	edge := relationship.Edge{
		ID:          uuid.New(),
		ClientID:    clientID,
		ManagerID:   managerID,
		EmployeeIDs: []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO relationship_edges (id, client_id, manager_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)`,
		edge.ID, clientID, managerID, now,
	); err != nil {
		return relationship.Edge{}, errors.Wrap(err, "insert relationship edge")
	}
	return edge, nil
}

func (r *PgRelationshipRepository) UpdateEdgeManager(ctx context.Context, edgeID, managerID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `UPDATE relationship_edges SET manager_id = $2, updated_at = $3 WHERE id = $1`, edgeID, managerID, r.now())
	if err != nil {
		return errors.Wrap(err, "update edge manager")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(relationship.ErrNotFound, "edge %s", edgeID)
	}
	return nil
}

func (r *PgRelationshipRepository) touchEdge(ctx context.Context, edgeID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE relationship_edges SET updated_at = $2 WHERE id = $1`, edgeID, r.now()); err != nil {
		return errors.Wrap(err, "touch relationship edge")
	}
	return nil
}

func (r *PgRelationshipRepository) AddEdgeEmployee(ctx context.Context, edgeID, employeeID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO relationship_edge_employees (edge_id, employee_id, created_at)
		VALUES ($1, $2, $3)`,
		edgeID, employeeID, r.now(),
	); err != nil {
		return errors.Wrap(err, "insert edge employee")
	}
	return r.touchEdge(ctx, edgeID)
}

func (r *PgRelationshipRepository) RemoveEdgeEmployee(ctx context.Context, edgeID, employeeID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM relationship_edge_employees WHERE edge_id = $1 AND employee_id = $2`, edgeID, employeeID)
	if err != nil {
		return errors.Wrap(err, "delete edge employee")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(relationship.ErrNotFound, "employee %s on edge %s", employeeID, edgeID)
	}
	return r.touchEdge(ctx, edgeID)
}
