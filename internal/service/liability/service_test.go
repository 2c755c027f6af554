package liability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verp-hr/fine-backend-go/internal/domain/employee"
	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/domain/loan"
	"github.com/verp-hr/fine-backend-go/internal/pkg/period"
)

type stubFineRepo struct {
	fine.FineRepository
	fines []fine.Fine
	err   error
}

func (s *stubFineRepo) ListByPerson(_ context.Context, _ string) ([]fine.Fine, error) {
	return s.fines, s.err
}

type stubLoanRepo struct {
	loan.LoanRepository
	loans []loan.LoanOrAdvance
	err   error
}

func (s *stubLoanRepo) ListApprovedByPerson(_ context.Context, _ string) ([]loan.LoanOrAdvance, error) {
	return s.loans, s.err
}

type stubEmployeeRepo struct {
	records map[string]employee.Employee
}

func (s *stubEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if e, ok := s.records[id]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployeeRepo) GetByUserID(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployeeRepo) ManagersOf(_ context.Context, _ []string) ([]string, error) {
	return nil, nil
}

// selfActor views their own records in every test below.
func selfActor(personID string) fine.Actor {
	return fine.Actor{UserID: "user-" + personID, PersonID: personID}
}

func newTestService(fineRepo fine.FineRepository, loanRepo loan.LoanRepository) *LiabilityService {
	employees := &stubEmployeeRepo{records: map[string]employee.Employee{
		"p1": {ID: "p1", Department: "Operations"},
		"p2": {ID: "p2", Department: "Engineering"},
	}}
	svc := NewLiabilityService(fineRepo, loanRepo, employees)
	svc.now = func() time.Time { return refNow }
	return svc
}

func TestLiabilityService_Summarize(t *testing.T) {
	t.Parallel()

	fines := []fine.Fine{
		activeFine("p1", "vehicle", "600", "0", period.New(2024, time.April), 3),
	}
	loans := []loan.LoanOrAdvance{
		approvedLoan("p1", "3000", "1000", 12),
	}

	svc := newTestService(&stubFineRepo{fines: fines}, &stubLoanRepo{loans: loans})

	got, err := svc.Summarize(context.Background(), "p1", selfActor("p1"))
	require.NoError(t, err)
	assert.True(t, got.NextDeduction.Equal(dec("450")), "got %s", got.NextDeduction)
}

func TestLiabilityService_DeniesUnrelatedViewer(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubFineRepo{}, &stubLoanRepo{})

	// A colleague outside HR/accounts with no manager relationship must
	// not read someone else's liability.
	_, err := svc.Summarize(context.Background(), "p1", selfActor("p2"))
	assert.ErrorIs(t, err, fine.ErrPermissionDenied)

	// HR sees it.
	hr := fine.Actor{UserID: "u-hr", Department: "Human Resources"}
	_, err = svc.Summarize(context.Background(), "p1", hr)
	assert.NoError(t, err)
}

func TestLiabilityService_DegradesOnFineFetchFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		&stubFineRepo{err: errors.New("connection refused")},
		&stubLoanRepo{loans: []loan.LoanOrAdvance{approvedLoan("p1", "1200", "0", 12)}},
	)

	got, err := svc.Summarize(context.Background(), "p1", selfActor("p1"))
	require.NoError(t, err)
	assert.Equal(t, 0, got.FineCount)
	assert.True(t, got.LoanTotal.Equal(dec("1200")))
	assert.True(t, got.NextDeduction.Equal(dec("100")))
}

func TestLiabilityService_DegradesOnLoanFetchFailure(t *testing.T) {
	t.Parallel()

	fines := []fine.Fine{
		activeFine("p1", "safety", "300", "0", period.New(2024, time.April), 3),
	}
	svc := newTestService(
		&stubFineRepo{fines: fines},
		&stubLoanRepo{err: errors.New("connection refused")},
	)

	got, err := svc.Summarize(context.Background(), "p1", selfActor("p1"))
	require.NoError(t, err)
	assert.True(t, got.LoanTotal.IsZero())
	assert.True(t, got.NextDeduction.Equal(dec("100")))
}
