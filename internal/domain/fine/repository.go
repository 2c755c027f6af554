package fine

import (
	"context"
)

// FineRepository - interface for the fines table
type FineRepository interface {
	Create(ctx context.Context, f Fine) (Fine, error)
	GetByID(ctx context.Context, id string) (Fine, error)
	GetByCode(ctx context.Context, code string) (Fine, error)
	ListByPerson(ctx context.Context, personID string) ([]Fine, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]Fine, int64, error)
	// Update persists the fine only when the stored version still matches
	// f.Version; a stale write returns ErrStaleFine.
	Update(ctx context.Context, f Fine) (Fine, error)
	NextCodeSequence(ctx context.Context, year int) (int, error)
}
