package fine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verp-hr/fine-backend-go/internal/pkg/period"
	"github.com/verp-hr/fine-backend-go/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

type AssignedPersonInput struct {
	PersonID    string           `json:"person_id"`
	PersonName  string           `json:"person_name"`
	ShareAmount *decimal.Decimal `json:"share_amount,omitempty"`
}

type CreateFineRequest struct {
	Category        string                `json:"category"`
	FineType        string                `json:"fine_type"`
	FineAmount      decimal.Decimal       `json:"fine_amount"`
	Responsibility  string                `json:"responsibility"`
	EmployeeAmount  *decimal.Decimal      `json:"employee_amount,omitempty"`
	CompanyAmount   *decimal.Decimal      `json:"company_amount,omitempty"`
	ServiceCharge   *decimal.Decimal      `json:"service_charge,omitempty"`
	AssignedPersons []AssignedPersonInput `json:"assigned_persons"`
	AwardedDate     string                `json:"awarded_date"`
	MonthStart      string                `json:"month_start"`
	PayableDuration *int                  `json:"payable_duration,omitempty"`
	ApproverID      *string               `json:"approver_id,omitempty"`
}

func (r *CreateFineRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "is required"})
	}
	if validator.IsEmpty(r.FineType) {
		errs = append(errs, validator.ValidationError{Field: "fine_type", Message: "is required"})
	}
	if !Responsibility(r.Responsibility).Valid() {
		errs = append(errs, validator.ValidationError{Field: "responsibility", Message: "must be 'employee', 'company' or 'employee_and_company'"})
	}
	if len(r.AssignedPersons) == 0 {
		errs = append(errs, validator.ValidationError{Field: "assigned_persons", Message: "at least one person is required"})
	}
	for _, p := range r.AssignedPersons {
		if validator.IsEmpty(p.PersonID) {
			errs = append(errs, validator.ValidationError{Field: "assigned_persons", Message: "person_id is required for every entry"})
			break
		}
	}
	if _, ok := validator.IsValidDate(r.AwardedDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "awarded_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if !validator.IsEmpty(r.MonthStart) {
		if _, err := period.Parse(r.MonthStart); err != nil {
			errs = append(errs, validator.ValidationError{Field: "month_start", Message: "must be a valid year-month (YYYY-MM)"})
		}
	}
	if r.PayableDuration != nil && (*r.PayableDuration < 1 || *r.PayableDuration > 6) {
		errs = append(errs, validator.ValidationError{Field: "payable_duration", Message: "must be between 1 and 6 months"})
	}
	if r.ServiceCharge != nil && r.ServiceCharge.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "service_charge", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateFineRequest edits a draft or rejected fine. Monetary edits re-run
// the allocation check before saving.
type UpdateFineRequest struct {
	ID              string                `json:"-"`
	Category        *string               `json:"category,omitempty"`
	FineType        *string               `json:"fine_type,omitempty"`
	FineAmount      *decimal.Decimal      `json:"fine_amount,omitempty"`
	Responsibility  *string               `json:"responsibility,omitempty"`
	EmployeeAmount  *decimal.Decimal      `json:"employee_amount,omitempty"`
	CompanyAmount   *decimal.Decimal      `json:"company_amount,omitempty"`
	ServiceCharge   *decimal.Decimal      `json:"service_charge,omitempty"`
	AssignedPersons []AssignedPersonInput `json:"assigned_persons,omitempty"`
	MonthStart      *string               `json:"month_start,omitempty"`
	PayableDuration *int                  `json:"payable_duration,omitempty"`
	ApproverID      *string               `json:"approver_id,omitempty"`
}

func (r *UpdateFineRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Responsibility != nil && !Responsibility(*r.Responsibility).Valid() {
		errs = append(errs, validator.ValidationError{Field: "responsibility", Message: "must be 'employee', 'company' or 'employee_and_company'"})
	}
	if r.MonthStart != nil {
		if _, err := period.Parse(*r.MonthStart); err != nil {
			errs = append(errs, validator.ValidationError{Field: "month_start", Message: "must be a valid year-month (YYYY-MM)"})
		}
	}
	if r.PayableDuration != nil && (*r.PayableDuration < 1 || *r.PayableDuration > 6) {
		errs = append(errs, validator.ValidationError{Field: "payable_duration", Message: "must be between 1 and 6 months"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Action names mirror the workflow verbs.
type ActionRequest struct {
	Action string  `json:"action"` // submit | approve | reject | cancel | withdraw | resubmit
	Reason *string `json:"reason,omitempty"`
}

func (r *ActionRequest) Validate() error {
	var errs validator.ValidationErrors

	valid := []string{"submit", "approve", "reject", "cancel", "withdraw", "resubmit"}
	if !validator.IsInSlice(r.Action, valid) {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "must be one of submit, approve, reject, cancel, withdraw, resubmit"})
	}
	if r.Action == "reject" && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required when rejecting"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r *PaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type WorkflowStepResponse struct {
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	Note       string     `json:"note,omitempty"`
	ActionedAt *time.Time `json:"actioned_at,omitempty"`
}

type AssignedPersonResponse struct {
	PersonID    string          `json:"person_id"`
	PersonName  string          `json:"person_name"`
	ShareAmount decimal.Decimal `json:"share_amount"`
}

type FineResponse struct {
	ID              string                   `json:"id"`
	Code            string                   `json:"code"`
	Category        string                   `json:"category"`
	FineType        string                   `json:"fine_type"`
	FineAmount      decimal.Decimal          `json:"fine_amount"`
	EmployeeAmount  decimal.Decimal          `json:"employee_amount"`
	CompanyAmount   decimal.Decimal          `json:"company_amount"`
	ServiceCharge   *decimal.Decimal         `json:"service_charge,omitempty"`
	Responsibility  string                   `json:"responsibility"`
	AssignedPersons []AssignedPersonResponse `json:"assigned_persons"`
	AwardedDate     string                   `json:"awarded_date"`
	MonthStart      string                   `json:"month_start"`
	PayableDuration int                      `json:"payable_duration"`
	Status          string                   `json:"status"`
	Workflow        []WorkflowStepResponse   `json:"workflow"`
	RejectionReason *string                  `json:"rejection_reason,omitempty"`
	PaidAmount      decimal.Decimal          `json:"paid_amount"`
	CreatedBy       string                   `json:"created_by"`
	ApproverID      *string                  `json:"approver_id,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

func ToResponse(f Fine) FineResponse {
	persons := make([]AssignedPersonResponse, 0, len(f.AssignedPersons))
	for _, p := range f.AssignedPersons {
		persons = append(persons, AssignedPersonResponse{
			PersonID:    p.PersonID,
			PersonName:  p.PersonName,
			ShareAmount: p.ShareAmount,
		})
	}

	steps := make([]WorkflowStepResponse, 0, len(f.Workflow))
	for _, s := range f.Workflow {
		steps = append(steps, WorkflowStepResponse{
			Role:       string(s.Role),
			Status:     string(s.Status),
			AssignedTo: s.AssignedTo,
			Note:       s.Note,
			ActionedAt: s.ActionedAt,
		})
	}

	return FineResponse{
		ID:              f.ID,
		Code:            f.Code,
		Category:        f.Category,
		FineType:        f.FineType,
		FineAmount:      f.FineAmount,
		EmployeeAmount:  f.EmployeeAmount,
		CompanyAmount:   f.CompanyAmount,
		ServiceCharge:   f.ServiceCharge,
		Responsibility:  string(f.Responsibility),
		AssignedPersons: persons,
		AwardedDate:     f.AwardedDate.Format("2006-01-02"),
		MonthStart:      f.MonthStart.String(),
		PayableDuration: f.PayableDuration,
		Status:          string(f.Status),
		Workflow:        steps,
		RejectionReason: f.RejectionReason,
		PaidAmount:      f.PaidAmount,
		CreatedBy:       f.CreatedBy,
		ApproverID:      f.ApproverID,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}
