package liability

import (
	"context"
	"log/slog"
	"time"

	"github.com/verp-hr/fine-backend-go/internal/domain/employee"
	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/domain/liability"
	"github.com/verp-hr/fine-backend-go/internal/domain/loan"
	finesvc "github.com/verp-hr/fine-backend-go/internal/service/fine"
)

type LiabilityService struct {
	fineRepo     fine.FineRepository
	loanRepo     loan.LoanRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewLiabilityService(fineRepo fine.FineRepository, loanRepo loan.LoanRepository, employeeRepo employee.EmployeeRepository) *LiabilityService {
	return &LiabilityService{
		fineRepo:     fineRepo,
		loanRepo:     loanRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// Summarize builds the person's liability summary. A failed upstream
// fetch degrades to a zero contribution instead of failing the whole
// summary; the surrounding dashboards expect a best-effort answer.
// Permission is not best-effort: the caller must be allowed to view the
// person's records.
func (s *LiabilityService) Summarize(ctx context.Context, personID string, actor fine.Actor) (liability.Summary, error) {
	if err := finesvc.AuthorizePersonView(ctx, s.employeeRepo, actor, personID); err != nil {
		return liability.Summary{}, err
	}

	fines, err := s.fineRepo.ListByPerson(ctx, personID)
	if err != nil {
		slog.Warn("liability summary proceeding without fines", "person_id", personID, "error", err)
		fines = nil
	}

	loans, err := s.loanRepo.ListApprovedByPerson(ctx, personID)
	if err != nil {
		slog.Warn("liability summary proceeding without loans", "person_id", personID, "error", err)
		loans = nil
	}

	return Summarize(personID, fines, loans, s.now()), nil
}
