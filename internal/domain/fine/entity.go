package fine

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verp-hr/fine-backend-go/internal/pkg/period"
)

// Status is the fine lifecycle state. The approval chain runs
// draft -> pending -> pending_hr -> pending_accounts -> pending_authorization -> approved;
// active and completed track settlement after approval and never re-enter
// the approval chain.
type Status string

const (
	StatusDraft                Status = "draft"
	StatusPending              Status = "pending"
	StatusPendingHR            Status = "pending_hr"
	StatusPendingAccounts      Status = "pending_accounts"
	StatusPendingAuthorization Status = "pending_authorization"
	StatusApproved             Status = "approved"
	StatusActive               Status = "active"
	StatusCompleted            Status = "completed"
	StatusRejected             Status = "rejected"
	StatusCancelled            Status = "cancelled"
	StatusWithdrawn            Status = "withdrawn"
)

// Terminal reports whether no further approval action is possible.
// Approved and its settlement sub-states count as terminal for the
// approval chain; settlement progress is driven by payments only.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusActive, StatusCompleted,
		StatusRejected, StatusCancelled, StatusWithdrawn:
		return true
	}
	return false
}

// Settled statuses participate in liability aggregation.
func (s Status) Settleable() bool {
	switch s {
	case StatusApproved, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Responsibility determines which party bears the fine amount.
type Responsibility string

const (
	ResponsibilityEmployee           Responsibility = "employee"
	ResponsibilityCompany            Responsibility = "company"
	ResponsibilityEmployeeAndCompany Responsibility = "employee_and_company"
)

func (r Responsibility) Valid() bool {
	switch r {
	case ResponsibilityEmployee, ResponsibilityCompany, ResponsibilityEmployeeAndCompany:
		return true
	}
	return false
}

// WorkflowRole identifies who acts at each approval stage.
type WorkflowRole string

const (
	RoleRequester  WorkflowRole = "requester"
	RoleReportee   WorkflowRole = "reportee"
	RoleHR         WorkflowRole = "hr"
	RoleAccounts   WorkflowRole = "accounts"
	RoleManagement WorkflowRole = "management"
)

type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
)

// WorkflowStep is one recorded action in the approval trail. Steps are
// append-only: a step is never removed or overwritten once recorded.
type WorkflowStep struct {
	Role       WorkflowRole `json:"role"`
	Status     StepStatus   `json:"status"`
	AssignedTo string       `json:"assigned_to,omitempty"`
	Note       string       `json:"note,omitempty"`
	ActionedAt *time.Time   `json:"actioned_at,omitempty"`
}

// WorkflowSteps is stored as a JSONB column.
type WorkflowSteps []WorkflowStep

// Value implements driver.Valuer for database storage
func (ws WorkflowSteps) Value() (driver.Value, error) {
	if len(ws) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(ws)
}

// Scan implements sql.Scanner for database retrieval
func (ws *WorkflowSteps) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan WorkflowSteps: invalid type")
	}

	return json.Unmarshal(bytes, ws)
}

// AssignedPerson is a person's portion of the employee-side liability.
type AssignedPerson struct {
	PersonID    string          `json:"person_id"`
	PersonName  string          `json:"person_name"`
	ShareAmount decimal.Decimal `json:"share_amount"`
}

// AssignedPersons is stored as a JSONB column.
type AssignedPersons []AssignedPerson

// Value implements driver.Valuer for database storage
func (ap AssignedPersons) Value() (driver.Value, error) {
	if len(ap) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(ap)
}

// Scan implements sql.Scanner for database retrieval
func (ap *AssignedPersons) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan AssignedPersons: invalid type")
	}

	return json.Unmarshal(bytes, ap)
}

// Fine entity
type Fine struct {
	ID   string
	Code string

	Category string // e.g. "Violation", "Damage"
	FineType string // free-form sub-type, e.g. "Vehicle Fine"

	FineAmount     decimal.Decimal
	EmployeeAmount decimal.Decimal
	CompanyAmount  decimal.Decimal
	ServiceCharge  *decimal.Decimal

	Responsibility  Responsibility
	AssignedPersons AssignedPersons

	AwardedDate     time.Time
	MonthStart      period.Period
	PayableDuration int // months, 1-6

	Status          Status
	Workflow        WorkflowSteps
	RejectionReason *string

	PaidAmount decimal.Decimal

	CreatedBy  string  // user id of the requester
	ApproverID *string // explicit assigned approver, optional

	// Version implements optimistic concurrency: saves carry the version
	// they read, and the store rejects a write against a newer row.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShareFor returns the share recorded for a person, or zero when the
// person is not assigned to this fine.
func (f Fine) ShareFor(personID string) decimal.Decimal {
	for _, p := range f.AssignedPersons {
		if p.PersonID == personID {
			return p.ShareAmount
		}
	}
	return decimal.Zero
}

// IsAssigned reports whether the person appears in the assigned list.
func (f Fine) IsAssigned(personID string) bool {
	for _, p := range f.AssignedPersons {
		if p.PersonID == personID {
			return true
		}
	}
	return false
}

// LastApprovedStep returns the most recent approved workflow step, or
// false when nothing was ever approved.
func (f Fine) LastApprovedStep() (WorkflowStep, bool) {
	for i := len(f.Workflow) - 1; i >= 0; i-- {
		if f.Workflow[i].Status == StepApproved {
			return f.Workflow[i], true
		}
	}
	return WorkflowStep{}, false
}
