package loan

import (
	"context"
)

// LoanRepository - interface for the loans_advances table
type LoanRepository interface {
	GetByID(ctx context.Context, id string) (LoanOrAdvance, error)
	// ListApprovedByPerson returns only records with an approved
	// application status.
	ListApprovedByPerson(ctx context.Context, personID string) ([]LoanOrAdvance, error)
}
