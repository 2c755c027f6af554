package employee

import (
	"time"
)

// Employee is the identity record the permission gate reads. Department
// and designation are free text maintained by HR; the gate matches them
// by function, not by exact value.
type Employee struct {
	ID          string
	UserID      *string
	FullName    string
	ManagerID   *string
	Department  string
	Designation string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
