package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/verp-hr/fine-backend-go/internal/domain/loan"
	"github.com/verp-hr/fine-backend-go/internal/pkg/database"
)

type loanRepository struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (loan.LoanOrAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, person_id, type, amount, duration_months, paid_amount, application_status, created_at, updated_at
		FROM loans_advances
		WHERE id = $1
	`

	var l loan.LoanOrAdvance
	err := q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.PersonID, &l.Type, &l.Amount, &l.DurationMonths,
		&l.PaidAmount, &l.ApplicationStatus, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return loan.LoanOrAdvance{}, loan.ErrLoanNotFound
		}
		return loan.LoanOrAdvance{}, fmt.Errorf("failed to get loan: %w", err)
	}

	return l, nil
}

func (r *loanRepository) ListApprovedByPerson(ctx context.Context, personID string) ([]loan.LoanOrAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, person_id, type, amount, duration_months, paid_amount, application_status, created_at, updated_at
		FROM loans_advances
		WHERE person_id = $1 AND application_status = $2
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, personID, loan.ApplicationApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for person: %w", err)
	}
	defer rows.Close()

	var loans []loan.LoanOrAdvance
	for rows.Next() {
		var l loan.LoanOrAdvance
		if err := rows.Scan(
			&l.ID, &l.PersonID, &l.Type, &l.Amount, &l.DurationMonths,
			&l.PaidAmount, &l.ApplicationStatus, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, l)
	}

	return loans, rows.Err()
}
