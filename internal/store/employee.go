package store

import (
	"context"
	"fmt"
	"time"

	"claimdesk/internal/utils"
	"claimdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const employeeTableName = "claimdesk.employees"

var employeeColumns = utils.StructTagValues(types.Employee{})

type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) Employee(ctx context.Context, employeeID string) (*types.Employee, error) {
	query, args, err := psql().
		Select(employeeColumns...).
		From(employeeTableName).
		Where(sq.Eq{"id": employeeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate employee query: %w", err)
	}

	var employee types.Employee
	err = pgxscan.Get(ctx, r.pool, &employee, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to fetch employee: %w", err)
	}

	return &employee, nil
}

func (r *EmployeeRepository) Employees(ctx context.Context) ([]*types.Employee, error) {
	query, args, err := psql().
		Select(employeeColumns...).
		From(employeeTableName).
		OrderBy("name asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate employees query: %w", err)
	}

	var employees = make([]*types.Employee, 0)
	if err := pgxscan.Select(ctx, r.pool, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	return employees, nil
}

func (r *EmployeeRepository) UpsertEmployee(ctx context.Context, employee *types.Employee) error {
	now := time.Now()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now

	query, args, err := psql().Insert(employeeTableName).
		SetMap(utils.StructToMap(employee)).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, department = EXCLUDED.department, is_admin = EXCLUDED.is_admin, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate employee upsert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert employee")
}
