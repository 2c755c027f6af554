package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeLoan    Type = "loan"
	TypeAdvance Type = "advance"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// LoanOrAdvance is a payroll-deducted credit record. Only approved
// applications participate in liability totals.
type LoanOrAdvance struct {
	ID                string
	PersonID          string
	Type              Type
	Amount            decimal.Decimal
	DurationMonths    int
	PaidAmount        decimal.Decimal
	ApplicationStatus ApplicationStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Remaining is the unpaid principal.
func (l LoanOrAdvance) Remaining() decimal.Decimal {
	return l.Amount.Sub(l.PaidAmount)
}
