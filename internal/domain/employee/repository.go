package employee

import (
	"context"
)

// EmployeeRepository - interface for the employees table
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	ManagersOf(ctx context.Context, personIDs []string) ([]string, error)
}
