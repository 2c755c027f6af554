package liability

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/domain/liability"
	"github.com/verp-hr/fine-backend-go/internal/domain/loan"
	"github.com/verp-hr/fine-backend-go/internal/pkg/period"
	finesvc "github.com/verp-hr/fine-backend-go/internal/service/fine"
)

// loanRoundingThreshold: a loan keeps deducting only while the remaining
// principal exceeds this, so residual cents do not generate installments
// forever.
var loanRoundingThreshold = decimal.RequireFromString("0.5")

// categoryKeywords maps taxonomy buckets to the substrings matched
// against the free-text fine type, in evaluation order.
var categoryKeywords = []struct {
	Category liability.Category
	Keywords []string
}{
	{liability.CategoryVehicle, []string{"vehicle", "traffic", "driving"}},
	{liability.CategorySafety, []string{"safety", "ppe", "hazard"}},
	{liability.CategoryDamage, []string{"damage", "breakage", "loss"}},
	{liability.CategoryViolation, []string{"violation", "misconduct", "discipline"}},
}

// Categorize buckets a free-text fine type by keyword substring match.
func Categorize(fineType string) liability.Category {
	t := strings.ToLower(fineType)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(t, kw) {
				return entry.Category
			}
		}
	}
	return liability.CategoryOther
}

// Summarize aggregates a person's active fines and approved loans into a
// liability summary. Deterministic and order-independent: callers may
// pass records fetched concurrently in any order.
func Summarize(personID string, fines []fine.Fine, loans []loan.LoanOrAdvance, now time.Time) liability.Summary {
	next := period.FromTime(now).Next()

	summary := liability.Summary{
		PersonID:      personID,
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		Outstanding:   decimal.Zero,
		Categories:    make(map[liability.Category]liability.CategoryTotals),
		LoanTotal:     decimal.Zero,
		LoanPaid:      decimal.Zero,
		NextPeriod:    next,
		NextDeduction: decimal.Zero,
	}

	for _, f := range fines {
		if !f.Status.Settleable() {
			continue
		}

		share := f.ShareFor(personID)

		summary.FineCount++
		summary.TotalAmount = summary.TotalAmount.Add(share)
		summary.PaidAmount = summary.PaidAmount.Add(f.PaidAmount)

		cat := Categorize(f.FineType)
		totals := summary.Categories[cat]
		totals.Amount = totals.Amount.Add(share)
		totals.Paid = totals.Paid.Add(f.PaidAmount)
		totals.Count++
		totals.DurationMonths += period.ClampMonths(f.PayableDuration)
		summary.Categories[cat] = totals

		if finesvc.IsActiveIn(f, next) && share.Sub(f.PaidAmount).IsPositive() {
			summary.NextDeduction = summary.NextDeduction.Add(period.PerInstallment(share, f.PayableDuration))
		}
	}

	summary.Outstanding = summary.TotalAmount.Sub(summary.PaidAmount)

	for _, l := range loans {
		if l.ApplicationStatus != loan.ApplicationApproved {
			continue
		}

		summary.LoanTotal = summary.LoanTotal.Add(l.Amount)
		summary.LoanPaid = summary.LoanPaid.Add(l.PaidAmount)

		if l.Remaining().GreaterThan(loanRoundingThreshold) {
			summary.NextDeduction = summary.NextDeduction.Add(period.PerInstallment(l.Amount, l.DurationMonths))
		}
	}

	summary.LoanOutstanding = summary.LoanTotal.Sub(summary.LoanPaid)
	return summary
}
