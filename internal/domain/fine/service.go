package fine

import (
	"context"
)

// Actor is the acting identity a caller resolved from its session. The
// service refreshes department and designation from the employee record
// before any role-based permission check.
type Actor struct {
	UserID      string
	PersonID    string
	Role        string
	Department  string
	Designation string
	IsAdmin     bool
}

type FineService interface {
	Create(ctx context.Context, req CreateFineRequest, actor Actor) (FineResponse, error)
	Get(ctx context.Context, id string, actor Actor) (FineResponse, error)
	GetByCode(ctx context.Context, code string, actor Actor) (FineResponse, error)
	Update(ctx context.Context, req UpdateFineRequest, actor Actor) (FineResponse, error)
	Act(ctx context.Context, id string, req ActionRequest, actor Actor) (FineResponse, error)
	CanAct(ctx context.Context, id string, actor Actor) (bool, string, error)
	RecordPayment(ctx context.Context, id string, req PaymentRequest, actor Actor) (FineResponse, error)
	ListForPerson(ctx context.Context, personID string, actor Actor) ([]FineResponse, error)
	// ListByStatus is the administrative listing; callers page through
	// fines in a given lifecycle state.
	ListByStatus(ctx context.Context, status Status, page, limit int) ([]FineResponse, int64, error)
}
