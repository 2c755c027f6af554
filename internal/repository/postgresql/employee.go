package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/verp-hr/fine-backend-go/internal/domain/employee"
	"github.com/verp-hr/fine-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, user_id, full_name, manager_id, department, designation, is_admin, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.FullName, &e.ManagerID,
		&e.Department, &e.Designation, &e.IsAdmin,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user: %w", err)
	}

	return e, nil
}

// ManagersOf resolves the declared managers of the given persons. Used by
// the permission gate's manager rule; missing persons simply contribute
// no manager.
func (r *employeeRepository) ManagersOf(ctx context.Context, personIDs []string) ([]string, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT manager_id
		FROM employees
		WHERE id = ANY($1) AND manager_id IS NOT NULL
	`

	rows, err := q.Query(ctx, query, personIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve managers: %w", err)
	}
	defer rows.Close()

	var managers []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan manager row: %w", err)
		}
		managers = append(managers, id)
	}

	return managers, rows.Err()
}
