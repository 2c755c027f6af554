package fine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/verp-hr/fine-backend-go/internal/domain/employee"
	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/pkg/database"
	"github.com/verp-hr/fine-backend-go/internal/pkg/period"
	"github.com/verp-hr/fine-backend-go/internal/repository/postgresql"
)

type FineServiceImpl struct {
	db           *database.DB
	fineRepo     fine.FineRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewFineService(
	db *database.DB,
	fineRepo fine.FineRepository,
	employeeRepo employee.EmployeeRepository,
) fine.FineService {
	return &FineServiceImpl{
		db:           db,
		fineRepo:     fineRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

func (s *FineServiceImpl) Create(ctx context.Context, req fine.CreateFineRequest, actor fine.Actor) (fine.FineResponse, error) {
	if err := req.Validate(); err != nil {
		return fine.FineResponse{}, err
	}

	allocation, err := Allocate(allocationInputFromCreate(req))
	if err != nil {
		return fine.FineResponse{}, err
	}

	awardedDate, err := time.Parse("2006-01-02", req.AwardedDate)
	if err != nil {
		return fine.FineResponse{}, fmt.Errorf("failed to parse awarded date: %w", err)
	}

	monthStart := period.Unknown
	if req.MonthStart != "" {
		// Validated already; a parse failure here leaves the sentinel.
		monthStart, _ = period.Parse(req.MonthStart)
	}

	duration := 1
	if req.PayableDuration != nil {
		duration = period.ClampMonths(*req.PayableDuration)
	}

	f := fine.Fine{
		ID:              uuid.Must(uuid.NewV7()).String(),
		Category:        req.Category,
		FineType:        req.FineType,
		FineAmount:      req.FineAmount,
		EmployeeAmount:  allocation.EmployeeAmount,
		CompanyAmount:   allocation.CompanyAmount,
		ServiceCharge:   req.ServiceCharge,
		Responsibility:  fine.Responsibility(req.Responsibility),
		AssignedPersons: allocation.PerPerson,
		AwardedDate:     awardedDate,
		MonthStart:      monthStart,
		PayableDuration: duration,
		Status:          fine.StatusDraft,
		PaidAmount:      decimal.Zero,
		CreatedBy:       actor.UserID,
		ApproverID:      req.ApproverID,
	}

	// The code sequence bump and the insert commit together, so a failed
	// insert never burns a code.
	var created fine.Fine
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.WithTx(ctx, tx)

		code, err := s.nextCode(txCtx, awardedDate.Year())
		if err != nil {
			return err
		}
		f.Code = code

		created, err = s.fineRepo.Create(txCtx, f)
		return err
	})
	if err != nil {
		return fine.FineResponse{}, err
	}

	return fine.ToResponse(created), nil
}

func (s *FineServiceImpl) Get(ctx context.Context, id string, actor fine.Actor) (fine.FineResponse, error) {
	f, err := s.fineRepo.GetByID(ctx, id)
	if err != nil {
		return fine.FineResponse{}, err
	}

	in, err := s.gateInput(ctx, f, actor)
	if err != nil {
		return fine.FineResponse{}, err
	}
	if decision := CanView(in); !decision.Allowed {
		return fine.FineResponse{}, fine.ErrPermissionDenied
	}

	return fine.ToResponse(f), nil
}

func (s *FineServiceImpl) GetByCode(ctx context.Context, code string, actor fine.Actor) (fine.FineResponse, error) {
	f, err := s.fineRepo.GetByCode(ctx, code)
	if err != nil {
		return fine.FineResponse{}, err
	}

	in, err := s.gateInput(ctx, f, actor)
	if err != nil {
		return fine.FineResponse{}, err
	}
	if decision := CanView(in); !decision.Allowed {
		return fine.FineResponse{}, fine.ErrPermissionDenied
	}

	return fine.ToResponse(f), nil
}

func (s *FineServiceImpl) Update(ctx context.Context, req fine.UpdateFineRequest, actor fine.Actor) (fine.FineResponse, error) {
	if err := req.Validate(); err != nil {
		return fine.FineResponse{}, err
	}

	f, err := s.fineRepo.GetByID(ctx, req.ID)
	if err != nil {
		return fine.FineResponse{}, err
	}

	// Only the origination states may be edited; a rejected fine is
	// corrected here before resubmission.
	if f.Status != fine.StatusDraft && f.Status != fine.StatusRejected {
		return fine.FineResponse{}, fine.ErrNotEditable
	}
	if f.CreatedBy != actor.UserID && !actor.IsAdmin {
		return fine.FineResponse{}, fine.ErrPermissionDenied
	}

	applyUpdate(&f, req)

	allocation, err := Allocate(allocationInputFromFine(f, req))
	if err != nil {
		return fine.FineResponse{}, err
	}
	f.EmployeeAmount = allocation.EmployeeAmount
	f.CompanyAmount = allocation.CompanyAmount
	f.AssignedPersons = allocation.PerPerson

	updated, err := s.fineRepo.Update(ctx, f)
	if err != nil {
		return fine.FineResponse{}, err
	}

	return fine.ToResponse(updated), nil
}

func (s *FineServiceImpl) Act(ctx context.Context, id string, req fine.ActionRequest, actor fine.Actor) (fine.FineResponse, error) {
	if err := req.Validate(); err != nil {
		return fine.FineResponse{}, err
	}

	f, err := s.fineRepo.GetByID(ctx, id)
	if err != nil {
		return fine.FineResponse{}, err
	}

	in, err := s.gateInput(ctx, f, actor)
	if err != nil {
		return fine.FineResponse{}, err
	}
	if decision := CanAct(in); !decision.Allowed {
		return fine.FineResponse{}, fine.ErrPermissionDenied
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	transitioned, err := Transition(f, Action(req.Action), in.Actor, reason, s.now())
	if err != nil {
		return fine.FineResponse{}, err
	}

	// Version-checked save; a concurrent approver surfaces as a stale
	// write and the caller re-fetches.
	updated, err := s.fineRepo.Update(ctx, transitioned)
	if err != nil {
		return fine.FineResponse{}, err
	}

	return fine.ToResponse(updated), nil
}

func (s *FineServiceImpl) CanAct(ctx context.Context, id string, actor fine.Actor) (bool, string, error) {
	f, err := s.fineRepo.GetByID(ctx, id)
	if err != nil {
		return false, "", err
	}

	in, err := s.gateInput(ctx, f, actor)
	if err != nil {
		return false, "", err
	}

	decision := CanAct(in)
	return decision.Allowed, decision.Reason, nil
}

func (s *FineServiceImpl) RecordPayment(ctx context.Context, id string, req fine.PaymentRequest, actor fine.Actor) (fine.FineResponse, error) {
	if err := req.Validate(); err != nil {
		return fine.FineResponse{}, err
	}

	f, err := s.fineRepo.GetByID(ctx, id)
	if err != nil {
		return fine.FineResponse{}, err
	}

	// Payments are recorded by payroll/accounts; the same gate applies
	// as for any other action on the fine.
	in, err := s.gateInput(ctx, f, actor)
	if err != nil {
		return fine.FineResponse{}, err
	}
	if decision := CanAct(in); !decision.Allowed {
		return fine.FineResponse{}, fine.ErrPermissionDenied
	}

	settled, err := ApplyPayment(f, req.Amount)
	if err != nil {
		return fine.FineResponse{}, err
	}

	updated, err := s.fineRepo.Update(ctx, settled)
	if err != nil {
		return fine.FineResponse{}, err
	}

	return fine.ToResponse(updated), nil
}

func (s *FineServiceImpl) ListForPerson(ctx context.Context, personID string, actor fine.Actor) ([]fine.FineResponse, error) {
	if err := AuthorizePersonView(ctx, s.employeeRepo, actor, personID); err != nil {
		return nil, err
	}

	fines, err := s.fineRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fines for person: %w", err)
	}

	out := make([]fine.FineResponse, 0, len(fines))
	for _, f := range fines {
		out = append(out, fine.ToResponse(f))
	}
	return out, nil
}

func (s *FineServiceImpl) ListByStatus(ctx context.Context, status fine.Status, page, limit int) ([]fine.FineResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	fines, total, err := s.fineRepo.ListByStatus(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fines by status: %w", err)
	}

	out := make([]fine.FineResponse, 0, len(fines))
	for _, f := range fines {
		out = append(out, fine.ToResponse(f))
	}
	return out, total, nil
}

// gateInput assembles a fresh permission snapshot: actor fields are
// refreshed from the employee record and the assigned persons' managers
// are resolved for the manager rule.
func (s *FineServiceImpl) gateInput(ctx context.Context, f fine.Fine, actor fine.Actor) (GateInput, error) {
	actor = refreshActor(ctx, s.employeeRepo, actor)

	personIDs := make([]string, 0, len(f.AssignedPersons))
	for _, p := range f.AssignedPersons {
		personIDs = append(personIDs, p.PersonID)
	}

	managers, err := s.employeeRepo.ManagersOf(ctx, personIDs)
	if err != nil {
		return GateInput{}, fmt.Errorf("failed to resolve managers: %w", err)
	}

	return GateInput{Fine: f, Actor: actor, Managers: managers}, nil
}

func (s *FineServiceImpl) nextCode(ctx context.Context, year int) (string, error) {
	seq, err := s.fineRepo.NextCodeSequence(ctx, year)
	if err != nil {
		return "", fmt.Errorf("failed to allocate fine code: %w", err)
	}
	return fmt.Sprintf("FN-%04d-%05d", year, seq), nil
}

func allocationInputFromCreate(req fine.CreateFineRequest) AllocationInput {
	persons := make([]PersonShare, 0, len(req.AssignedPersons))
	for _, p := range req.AssignedPersons {
		persons = append(persons, PersonShare{
			PersonID:   p.PersonID,
			PersonName: p.PersonName,
			Share:      p.ShareAmount,
		})
	}
	return AllocationInput{
		Total:          req.FineAmount,
		Responsibility: fine.Responsibility(req.Responsibility),
		EmployeeAmount: req.EmployeeAmount,
		CompanyAmount:  req.CompanyAmount,
		Persons:        persons,
	}
}

func allocationInputFromFine(f fine.Fine, req fine.UpdateFineRequest) AllocationInput {
	in := AllocationInput{
		Total:          f.FineAmount,
		Responsibility: f.Responsibility,
		EmployeeAmount: req.EmployeeAmount,
		CompanyAmount:  req.CompanyAmount,
	}
	if f.Responsibility == fine.ResponsibilityEmployeeAndCompany {
		if in.EmployeeAmount == nil {
			amount := f.EmployeeAmount
			in.EmployeeAmount = &amount
		}
		if in.CompanyAmount == nil {
			amount := f.CompanyAmount
			in.CompanyAmount = &amount
		}
	}

	if len(req.AssignedPersons) > 0 {
		for _, p := range req.AssignedPersons {
			in.Persons = append(in.Persons, PersonShare{
				PersonID:   p.PersonID,
				PersonName: p.PersonName,
				Share:      p.ShareAmount,
			})
		}
	} else {
		for _, p := range f.AssignedPersons {
			share := p.ShareAmount
			in.Persons = append(in.Persons, PersonShare{
				PersonID:   p.PersonID,
				PersonName: p.PersonName,
				Share:      &share,
			})
		}
		// Monetary edits without a new person list fall back to an
		// equal re-split.
		if req.FineAmount != nil || req.Responsibility != nil || req.EmployeeAmount != nil {
			for i := range in.Persons {
				in.Persons[i].Share = nil
			}
		}
	}
	return in
}

func applyUpdate(f *fine.Fine, req fine.UpdateFineRequest) {
	if req.Category != nil {
		f.Category = *req.Category
	}
	if req.FineType != nil {
		f.FineType = *req.FineType
	}
	if req.FineAmount != nil {
		f.FineAmount = *req.FineAmount
	}
	if req.Responsibility != nil {
		f.Responsibility = fine.Responsibility(*req.Responsibility)
	}
	if req.ServiceCharge != nil {
		f.ServiceCharge = req.ServiceCharge
	}
	if req.MonthStart != nil {
		if p, err := period.Parse(*req.MonthStart); err == nil {
			f.MonthStart = p
		}
	}
	if req.PayableDuration != nil {
		f.PayableDuration = period.ClampMonths(*req.PayableDuration)
	}
	if req.ApproverID != nil {
		f.ApproverID = req.ApproverID
	}
}
