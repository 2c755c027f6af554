package fine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/pkg/validator"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func persons(ids ...string) []PersonShare {
	out := make([]PersonShare, 0, len(ids))
	for _, id := range ids {
		out = append(out, PersonShare{PersonID: id, PersonName: "Person " + id})
	}
	return out
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	return errs.ToMap()
}

func TestAllocate_EmployeeMode(t *testing.T) {
	t.Parallel()

	got, err := Allocate(AllocationInput{
		Total:          dec("500"),
		Responsibility: fine.ResponsibilityEmployee,
		Persons:        persons("p1"),
	})
	require.NoError(t, err)

	assert.True(t, got.EmployeeAmount.Equal(dec("500")))
	assert.True(t, got.CompanyAmount.IsZero())
	require.Len(t, got.PerPerson, 1)
	assert.True(t, got.PerPerson[0].ShareAmount.Equal(dec("500")))
}

func TestAllocate_CompanyMode(t *testing.T) {
	t.Parallel()

	got, err := Allocate(AllocationInput{
		Total:          dec("500"),
		Responsibility: fine.ResponsibilityCompany,
		Persons:        persons("p1", "p2"),
	})
	require.NoError(t, err)

	assert.True(t, got.EmployeeAmount.IsZero())
	assert.True(t, got.CompanyAmount.Equal(dec("500")))
	for _, p := range got.PerPerson {
		assert.True(t, p.ShareAmount.IsZero())
	}
}

func TestAllocate_MixedMode_EqualSplit(t *testing.T) {
	t.Parallel()

	// fineAmount=1200, employee 800 / company 400, two persons equal split
	got, err := Allocate(AllocationInput{
		Total:          dec("1200"),
		Responsibility: fine.ResponsibilityEmployeeAndCompany,
		EmployeeAmount: decPtr("800"),
		CompanyAmount:  decPtr("400"),
		Persons:        persons("p1", "p2"),
	})
	require.NoError(t, err)

	assert.True(t, got.EmployeeAmount.Equal(dec("800")))
	assert.True(t, got.CompanyAmount.Equal(dec("400")))
	require.Len(t, got.PerPerson, 2)
	assert.True(t, got.PerPerson[0].ShareAmount.Equal(dec("400")), "got %s", got.PerPerson[0].ShareAmount)
	assert.True(t, got.PerPerson[1].ShareAmount.Equal(dec("400")), "got %s", got.PerPerson[1].ShareAmount)
}

func TestAllocate_Conservation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		total   string
		emp     string
		comp    string
		persons int
	}{
		{"even", "1200", "800", "400", 2},
		{"uneven thirds", "100", "70", "30", 3},
		{"cents", "99.99", "66.66", "33.33", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.persons)
			for i := range ids {
				ids[i] = string(rune('a' + i))
			}
			got, err := Allocate(AllocationInput{
				Total:          dec(tt.total),
				Responsibility: fine.ResponsibilityEmployeeAndCompany,
				EmployeeAmount: decPtr(tt.emp),
				CompanyAmount:  decPtr(tt.comp),
				Persons:        persons(ids...),
			})
			require.NoError(t, err)

			// |employee + company - total| <= epsilon
			diff := got.EmployeeAmount.Add(got.CompanyAmount).Sub(dec(tt.total)).Abs()
			assert.True(t, diff.LessThanOrEqual(Epsilon), "split drift %s", diff)

			// |sum(shares) - employee| <= epsilon
			sum := decimal.Zero
			for _, p := range got.PerPerson {
				sum = sum.Add(p.ShareAmount)
			}
			assert.True(t, sum.Sub(got.EmployeeAmount).Abs().LessThanOrEqual(Epsilon), "share drift %s", sum.Sub(got.EmployeeAmount))
		})
	}
}

func TestAllocate_MixedMode_MissingSplit(t *testing.T) {
	t.Parallel()

	_, err := Allocate(AllocationInput{
		Total:          dec("1200"),
		Responsibility: fine.ResponsibilityEmployeeAndCompany,
		Persons:        persons("p1"),
	})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "employee_amount")
	assert.Contains(t, fields, "company_amount")
}

func TestAllocate_MixedMode_SplitMismatch(t *testing.T) {
	t.Parallel()

	_, err := Allocate(AllocationInput{
		Total:          dec("1200"),
		Responsibility: fine.ResponsibilityEmployeeAndCompany,
		EmployeeAmount: decPtr("800"),
		CompanyAmount:  decPtr("500"), // 1300 != 1200
		Persons:        persons("p1"),
	})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "amount_split")
}

func TestAllocate_PersonShareMismatch(t *testing.T) {
	t.Parallel()

	_, err := Allocate(AllocationInput{
		Total:          dec("600"),
		Responsibility: fine.ResponsibilityEmployee,
		Persons: []PersonShare{
			{PersonID: "p1", Share: decPtr("400")},
			{PersonID: "p2", Share: decPtr("100")}, // 500 != 600
		},
	})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "assigned_persons")
}

func TestAllocate_SinglePersonOverrideMustMatch(t *testing.T) {
	t.Parallel()

	_, err := Allocate(AllocationInput{
		Total:          dec("600"),
		Responsibility: fine.ResponsibilityEmployee,
		Persons:        []PersonShare{{PersonID: "p1", Share: decPtr("500")}},
	})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "assigned_persons")
}

func TestAllocate_PartialOverrides(t *testing.T) {
	t.Parallel()

	// One confirmed share, remainder spread over the other two.
	got, err := Allocate(AllocationInput{
		Total:          dec("900"),
		Responsibility: fine.ResponsibilityEmployee,
		Persons: []PersonShare{
			{PersonID: "p1", Share: decPtr("500")},
			{PersonID: "p2"},
			{PersonID: "p3"},
		},
	})
	require.NoError(t, err)
	assert.True(t, got.PerPerson[0].ShareAmount.Equal(dec("500")))
	assert.True(t, got.PerPerson[1].ShareAmount.Equal(dec("200")))
	assert.True(t, got.PerPerson[2].ShareAmount.Equal(dec("200")))
}

func TestAllocate_InvalidTotals(t *testing.T) {
	t.Parallel()

	for _, total := range []string{"0", "-10"} {
		_, err := Allocate(AllocationInput{
			Total:          dec(total),
			Responsibility: fine.ResponsibilityEmployee,
			Persons:        persons("p1"),
		})
		fields := fieldsOf(t, err)
		assert.Contains(t, fields, "fine_amount")
	}

	_, err := Allocate(AllocationInput{
		Total:          dec("100"),
		Responsibility: fine.ResponsibilityEmployee,
	})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "assigned_persons")
}

func TestEqualSplit(t *testing.T) {
	t.Parallel()

	assert.True(t, EqualSplit(dec("800"), 2).Equal(dec("400")))
	assert.True(t, EqualSplit(dec("100"), 3).Equal(dec("33.33")))
	assert.True(t, EqualSplit(dec("100"), 0).IsZero())
}

func TestRedistributeAfter(t *testing.T) {
	t.Parallel()

	// Editing index 1 re-divides only among indices after it; index 0
	// keeps its confirmed value even though the spread is asymmetric.
	shares := []decimal.Decimal{dec("300"), dec("300"), dec("300"), dec("300")}
	got := RedistributeAfter(shares, 1, dec("600"), dec("1200"))

	assert.True(t, got[0].Equal(dec("300")))
	assert.True(t, got[1].Equal(dec("600")))
	assert.True(t, got[2].Equal(dec("150")))
	assert.True(t, got[3].Equal(dec("150")))

	// Editing the last entry redistributes nothing.
	got = RedistributeAfter(shares, 3, dec("100"), dec("1200"))
	assert.True(t, got[0].Equal(dec("300")))
	assert.True(t, got[2].Equal(dec("300")))
	assert.True(t, got[3].Equal(dec("100")))

	// Out-of-range index is a no-op.
	got = RedistributeAfter(shares, 9, dec("1"), dec("1200"))
	for i := range shares {
		assert.True(t, got[i].Equal(shares[i]))
	}
}
