package fine

import (
	"github.com/shopspring/decimal"

	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/pkg/period"
)

// CoveredRange is the inclusive window of periods the fine's deduction
// schedule spans. A fine with an unknown start covers nothing.
func CoveredRange(f fine.Fine) (period.Period, period.Period) {
	return period.Range(f.MonthStart, f.PayableDuration)
}

// IsActiveIn reports whether the fine deducts in the target period.
func IsActiveIn(f fine.Fine, target period.Period) bool {
	return period.Contains(f.MonthStart, f.PayableDuration, target)
}

// InstallmentFor is the per-period deduction of one person's share,
// zero when the fine is not active in the target period or the share is
// already settled.
func InstallmentFor(f fine.Fine, personID string, target period.Period) decimal.Decimal {
	if !IsActiveIn(f, target) {
		return decimal.Zero
	}
	share := f.ShareFor(personID)
	if share.Sub(f.PaidAmount).LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return period.PerInstallment(share, f.PayableDuration)
}
