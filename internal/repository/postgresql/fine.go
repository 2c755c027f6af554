package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/pkg/database"
)

type fineRepository struct {
	db *database.DB
}

func NewFineRepository(db *database.DB) fine.FineRepository {
	return &fineRepository{db: db}
}

const fineColumns = `
	id, code, category, fine_type,
	fine_amount, employee_amount, company_amount, service_charge,
	responsibility, assigned_persons,
	awarded_date, month_start, payable_duration,
	status, workflow, rejection_reason,
	paid_amount, created_by, approver_id,
	version, created_at, updated_at
`

func scanFine(row pgx.Row) (fine.Fine, error) {
	var f fine.Fine
	err := row.Scan(
		&f.ID, &f.Code, &f.Category, &f.FineType,
		&f.FineAmount, &f.EmployeeAmount, &f.CompanyAmount, &f.ServiceCharge,
		&f.Responsibility, &f.AssignedPersons,
		&f.AwardedDate, &f.MonthStart, &f.PayableDuration,
		&f.Status, &f.Workflow, &f.RejectionReason,
		&f.PaidAmount, &f.CreatedBy, &f.ApproverID,
		&f.Version, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

func (r *fineRepository) Create(ctx context.Context, f fine.Fine) (fine.Fine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO fines (
			id, code, category, fine_type,
			fine_amount, employee_amount, company_amount, service_charge,
			responsibility, assigned_persons,
			awarded_date, month_start, payable_duration,
			status, workflow, rejection_reason,
			paid_amount, created_by, approver_id, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, 1)
		RETURNING ` + fineColumns

	created, err := scanFine(q.QueryRow(ctx, query,
		f.ID, f.Code, f.Category, f.FineType,
		f.FineAmount, f.EmployeeAmount, f.CompanyAmount, f.ServiceCharge,
		f.Responsibility, f.AssignedPersons,
		f.AwardedDate, f.MonthStart, f.PayableDuration,
		f.Status, f.Workflow, f.RejectionReason,
		f.PaidAmount, f.CreatedBy, f.ApproverID,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_fine_code") {
			return fine.Fine{}, fine.ErrFineCodeExists
		}
		return fine.Fine{}, fmt.Errorf("failed to create fine: %w", err)
	}

	return created, nil
}

func (r *fineRepository) GetByID(ctx context.Context, id string) (fine.Fine, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + fineColumns + ` FROM fines WHERE id = $1`

	f, err := scanFine(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return fine.Fine{}, fine.ErrFineNotFound
		}
		return fine.Fine{}, fmt.Errorf("failed to get fine: %w", err)
	}

	return f, nil
}

func (r *fineRepository) GetByCode(ctx context.Context, code string) (fine.Fine, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + fineColumns + ` FROM fines WHERE code = $1`

	f, err := scanFine(q.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return fine.Fine{}, fine.ErrFineNotFound
		}
		return fine.Fine{}, fmt.Errorf("failed to get fine by code: %w", err)
	}

	return f, nil
}

func (r *fineRepository) ListByPerson(ctx context.Context, personID string) ([]fine.Fine, error) {
	q := GetQuerier(ctx, r.db)

	// assigned_persons is a JSONB array of {person_id, ...} objects.
	query := `
		SELECT ` + fineColumns + `
		FROM fines
		WHERE assigned_persons @> jsonb_build_array(jsonb_build_object('person_id', $1::text))
		ORDER BY awarded_date DESC, code DESC
	`

	rows, err := q.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fines for person: %w", err)
	}
	defer rows.Close()

	var fines []fine.Fine
	for rows.Next() {
		f, err := scanFine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fine row: %w", err)
		}
		fines = append(fines, f)
	}

	return fines, rows.Err()
}

func (r *fineRepository) ListByStatus(ctx context.Context, status fine.Status, limit, offset int) ([]fine.Fine, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM fines WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fines: %w", err)
	}

	query := `
		SELECT ` + fineColumns + `
		FROM fines
		WHERE status = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fines by status: %w", err)
	}
	defer rows.Close()

	var fines []fine.Fine
	for rows.Next() {
		f, err := scanFine(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan fine row: %w", err)
		}
		fines = append(fines, f)
	}

	return fines, total, rows.Err()
}

// Update is the optimistic-concurrency write: the row is only updated
// when the stored version still matches the snapshot the caller read.
// A lost race surfaces as ErrStaleFine and the caller re-fetches.
func (r *fineRepository) Update(ctx context.Context, f fine.Fine) (fine.Fine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE fines SET
			category = $3, fine_type = $4,
			fine_amount = $5, employee_amount = $6, company_amount = $7, service_charge = $8,
			responsibility = $9, assigned_persons = $10,
			awarded_date = $11, month_start = $12, payable_duration = $13,
			status = $14, workflow = $15, rejection_reason = $16,
			paid_amount = $17, approver_id = $18,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + fineColumns

	updated, err := scanFine(q.QueryRow(ctx, query,
		f.ID, f.Version,
		f.Category, f.FineType,
		f.FineAmount, f.EmployeeAmount, f.CompanyAmount, f.ServiceCharge,
		f.Responsibility, f.AssignedPersons,
		f.AwardedDate, f.MonthStart, f.PayableDuration,
		f.Status, f.Workflow, f.RejectionReason,
		f.PaidAmount, f.ApproverID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Either the fine is gone or another writer bumped the
			// version first; disambiguate for the caller.
			var exists bool
			if exErr := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM fines WHERE id = $1)`, f.ID).Scan(&exists); exErr == nil && !exists {
				return fine.Fine{}, fine.ErrFineNotFound
			}
			return fine.Fine{}, fine.ErrStaleFine
		}
		return fine.Fine{}, fmt.Errorf("failed to update fine: %w", err)
	}

	return updated, nil
}

func (r *fineRepository) NextCodeSequence(ctx context.Context, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO fine_code_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = fine_code_sequences.last_value + 1
		RETURNING last_value
	`

	var seq int
	if err := q.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to advance fine code sequence: %w", err)
	}

	return seq, nil
}
