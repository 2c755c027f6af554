package liability

import (
	"github.com/shopspring/decimal"

	"github.com/verp-hr/fine-backend-go/internal/pkg/period"
)

// Category buckets free-text fine types into a fixed taxonomy for
// reporting. Unmatched types land in CategoryOther.
type Category string

const (
	CategoryVehicle   Category = "vehicle"
	CategorySafety    Category = "safety"
	CategoryDamage    Category = "damage"
	CategoryViolation Category = "violation"
	CategoryOther     Category = "other"
)

// CategoryTotals aggregates one taxonomy bucket.
type CategoryTotals struct {
	Amount         decimal.Decimal `json:"amount"`
	Paid           decimal.Decimal `json:"paid"`
	Count          int             `json:"count"`
	DurationMonths int             `json:"duration_months"`
}

// Summary is the derived per-person liability aggregate. It is computed
// on demand and never persisted.
type Summary struct {
	PersonID string `json:"person_id"`

	FineCount   int             `json:"fine_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Outstanding decimal.Decimal `json:"outstanding"`

	Categories map[Category]CategoryTotals `json:"categories"`

	LoanTotal       decimal.Decimal `json:"loan_total"`
	LoanPaid        decimal.Decimal `json:"loan_paid"`
	LoanOutstanding decimal.Decimal `json:"loan_outstanding"`

	// NextPeriod is the period immediately after the reference time;
	// NextDeduction is the projected payroll deduction for it across
	// active fines and loans.
	NextPeriod    period.Period   `json:"next_period"`
	NextDeduction decimal.Decimal `json:"next_deduction"`
}
