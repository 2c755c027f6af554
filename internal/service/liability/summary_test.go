package liability

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/domain/liability"
	"github.com/verp-hr/fine-backend-go/internal/domain/loan"
	"github.com/verp-hr/fine-backend-go/internal/pkg/period"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Reference time 2024-03-15; the projected deduction period is 2024-04.
var refNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func activeFine(personID, fineType string, share string, paid string, start period.Period, months int) fine.Fine {
	return fine.Fine{
		FineType:        fineType,
		Status:          fine.StatusActive,
		EmployeeAmount:  dec(share),
		PaidAmount:      dec(paid),
		MonthStart:      start,
		PayableDuration: months,
		AssignedPersons: fine.AssignedPersons{
			{PersonID: personID, ShareAmount: dec(share)},
		},
	}
}

func approvedLoan(personID, amount, paid string, months int) loan.LoanOrAdvance {
	return loan.LoanOrAdvance{
		PersonID:          personID,
		Type:              loan.TypeLoan,
		Amount:            dec(amount),
		DurationMonths:    months,
		PaidAmount:        dec(paid),
		ApplicationStatus: loan.ApplicationApproved,
	}
}

func TestSummarize_FineAndLoanDeduction(t *testing.T) {
	t.Parallel()

	// A 600 share over 3 months starting 2024-04 deducts 200 next period;
	// a 3000 loan over 12 months with 1000 paid deducts 250. Total 450.
	fines := []fine.Fine{
		activeFine("p1", "vehicle fine", "600", "0", period.New(2024, time.April), 3),
	}
	loans := []loan.LoanOrAdvance{
		approvedLoan("p1", "3000", "1000", 12),
	}

	got := Summarize("p1", fines, loans, refNow)

	assert.Equal(t, period.New(2024, time.April), got.NextPeriod)
	assert.True(t, got.NextDeduction.Equal(dec("450")), "got %s", got.NextDeduction)

	assert.Equal(t, 1, got.FineCount)
	assert.True(t, got.TotalAmount.Equal(dec("600")))
	assert.True(t, got.Outstanding.Equal(dec("600")))
	assert.True(t, got.LoanTotal.Equal(dec("3000")))
	assert.True(t, got.LoanOutstanding.Equal(dec("2000")))
}

func TestSummarize_SkipsNonSettleableFines(t *testing.T) {
	t.Parallel()

	start := period.New(2024, time.April)
	fines := []fine.Fine{}
	for _, status := range []fine.Status{
		fine.StatusDraft, fine.StatusPending, fine.StatusPendingHR,
		fine.StatusRejected, fine.StatusCancelled, fine.StatusWithdrawn,
	} {
		f := activeFine("p1", "safety fine", "100", "0", start, 1)
		f.Status = status
		fines = append(fines, f)
	}

	got := Summarize("p1", fines, nil, refNow)
	assert.Equal(t, 0, got.FineCount)
	assert.True(t, got.TotalAmount.IsZero())
	assert.True(t, got.NextDeduction.IsZero())
}

func TestSummarize_SkipsUnapprovedLoans(t *testing.T) {
	t.Parallel()

	l := approvedLoan("p1", "1000", "0", 10)
	l.ApplicationStatus = loan.ApplicationPending

	got := Summarize("p1", nil, []loan.LoanOrAdvance{l}, refNow)
	assert.True(t, got.LoanTotal.IsZero())
	assert.True(t, got.NextDeduction.IsZero())
}

func TestSummarize_FineOutsideWindowHasNoDeduction(t *testing.T) {
	t.Parallel()

	// Covered window is [2024-01, 2024-02]; by April the schedule has
	// lapsed. The share still counts as outstanding liability.
	fines := []fine.Fine{
		activeFine("p1", "damage", "400", "100", period.New(2024, time.January), 2),
	}

	got := Summarize("p1", fines, nil, refNow)
	assert.True(t, got.Outstanding.Equal(dec("300")))
	assert.True(t, got.NextDeduction.IsZero())
}

func TestSummarize_SettledShareHasNoDeduction(t *testing.T) {
	t.Parallel()

	fines := []fine.Fine{
		activeFine("p1", "damage", "300", "300", period.New(2024, time.April), 3),
	}

	got := Summarize("p1", fines, nil, refNow)
	assert.True(t, got.NextDeduction.IsZero())
	assert.True(t, got.Outstanding.IsZero())
}

func TestSummarize_LoanResidualBelowThreshold(t *testing.T) {
	t.Parallel()

	// 0.40 remaining is below the 0.5 threshold: no further installment.
	loans := []loan.LoanOrAdvance{
		approvedLoan("p1", "1200", "1199.60", 12),
	}

	got := Summarize("p1", nil, loans, refNow)
	assert.True(t, got.NextDeduction.IsZero())
	assert.True(t, got.LoanOutstanding.Equal(dec("0.4")))
}

func TestSummarize_CategoryBuckets(t *testing.T) {
	t.Parallel()

	start := period.New(2024, time.April)
	fines := []fine.Fine{
		activeFine("p1", "Traffic signal violation while driving", "100", "0", start, 1),
		activeFine("p1", "Missing PPE on site", "200", "50", start, 2),
		activeFine("p1", "Equipment damage", "300", "0", start, 3),
		activeFine("p1", "Gross misconduct", "400", "0", start, 1),
		activeFine("p1", "Late filing penalty", "500", "0", start, 1),
	}

	got := Summarize("p1", fines, nil, refNow)

	// "traffic" wins before "violation": keyword order is significant.
	require.Contains(t, got.Categories, liability.CategoryVehicle)
	assert.True(t, got.Categories[liability.CategoryVehicle].Amount.Equal(dec("100")))

	safety := got.Categories[liability.CategorySafety]
	assert.True(t, safety.Amount.Equal(dec("200")))
	assert.True(t, safety.Paid.Equal(dec("50")))
	assert.Equal(t, 1, safety.Count)
	assert.Equal(t, 2, safety.DurationMonths)

	assert.True(t, got.Categories[liability.CategoryDamage].Amount.Equal(dec("300")))
	assert.True(t, got.Categories[liability.CategoryViolation].Amount.Equal(dec("400")))
	assert.True(t, got.Categories[liability.CategoryOther].Amount.Equal(dec("500")))

	assert.Equal(t, 5, got.FineCount)
	assert.True(t, got.TotalAmount.Equal(dec("1500")))
}

func TestSummarize_OrderIndependent(t *testing.T) {
	t.Parallel()

	start := period.New(2024, time.April)
	fines := []fine.Fine{
		activeFine("p1", "vehicle", "100", "0", start, 1),
		activeFine("p1", "safety", "200", "0", start, 2),
		activeFine("p1", "damage", "300", "100", start, 3),
	}
	loans := []loan.LoanOrAdvance{
		approvedLoan("p1", "1200", "0", 12),
		approvedLoan("p1", "600", "300", 6),
	}

	forward := Summarize("p1", fines, loans, refNow)

	revFines := []fine.Fine{fines[2], fines[1], fines[0]}
	revLoans := []loan.LoanOrAdvance{loans[1], loans[0]}
	backward := Summarize("p1", revFines, revLoans, refNow)

	assert.True(t, forward.TotalAmount.Equal(backward.TotalAmount))
	assert.True(t, forward.Outstanding.Equal(backward.Outstanding))
	assert.True(t, forward.NextDeduction.Equal(backward.NextDeduction))
	assert.True(t, forward.LoanOutstanding.Equal(backward.LoanOutstanding))
	assert.Equal(t, forward.FineCount, backward.FineCount)
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fineType string
		want     liability.Category
	}{
		{"Vehicle accident", liability.CategoryVehicle},
		{"SAFETY breach", liability.CategorySafety},
		{"property damage", liability.CategoryDamage},
		{"policy violation", liability.CategoryViolation},
		{"miscellaneous", liability.CategoryOther},
		{"", liability.CategoryOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.fineType), "type %q", tt.fineType)
	}
}
