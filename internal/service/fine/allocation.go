package fine

import (
	"github.com/shopspring/decimal"

	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/pkg/validator"
)

// Epsilon is the currency rounding tolerance for amount conservation.
var Epsilon = decimal.RequireFromString("0.05")

// PersonShare is one assigned person in an allocation request. A nil
// Share means "no manual override": the calculator distributes the
// unclaimed remainder equally across such entries.
type PersonShare struct {
	PersonID   string
	PersonName string
	Share      *decimal.Decimal
}

type AllocationInput struct {
	Total          decimal.Decimal
	Responsibility fine.Responsibility
	// EmployeeAmount and CompanyAmount are caller-supplied only for the
	// mixed responsibility mode; the single-party modes derive them.
	EmployeeAmount *decimal.Decimal
	CompanyAmount  *decimal.Decimal
	Persons        []PersonShare
}

type Allocation struct {
	EmployeeAmount decimal.Decimal
	CompanyAmount  decimal.Decimal
	PerPerson      fine.AssignedPersons
}

func withinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// Allocate splits a fine total into employee/company portions and
// per-person shares, validating every conservation invariant. All
// violations are reported at once as validator.ValidationErrors.
func Allocate(in AllocationInput) (Allocation, error) {
	var errs validator.ValidationErrors

	if !in.Total.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "fine_amount", Message: "must be positive"})
	}
	if len(in.Persons) == 0 {
		errs = append(errs, validator.ValidationError{Field: "assigned_persons", Message: "at least one person is required"})
	}
	if len(errs) > 0 {
		return Allocation{}, errs
	}

	var employeeTotal, companyTotal decimal.Decimal
	switch in.Responsibility {
	case fine.ResponsibilityEmployee:
		employeeTotal = in.Total
		companyTotal = decimal.Zero
	case fine.ResponsibilityCompany:
		employeeTotal = decimal.Zero
		companyTotal = in.Total
	case fine.ResponsibilityEmployeeAndCompany:
		if in.EmployeeAmount == nil {
			errs = append(errs, validator.ValidationError{Field: "employee_amount", Message: "is required when responsibility is shared"})
		}
		if in.CompanyAmount == nil {
			errs = append(errs, validator.ValidationError{Field: "company_amount", Message: "is required when responsibility is shared"})
		}
		if len(errs) > 0 {
			return Allocation{}, errs
		}
		employeeTotal = *in.EmployeeAmount
		companyTotal = *in.CompanyAmount
		if employeeTotal.IsNegative() || companyTotal.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "amount_split", Message: "employee and company amounts must be non-negative"})
		}
		if !withinEpsilon(employeeTotal.Add(companyTotal), in.Total) {
			errs = append(errs, validator.ValidationError{Field: "amount_split", Message: "employee and company amounts must sum to the fine amount"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "responsibility", Message: "is not a recognized responsibility mode"})
		return Allocation{}, errs
	}

	shares := resolveShares(employeeTotal, in.Persons)

	if len(in.Persons) == 1 && in.Persons[0].Share != nil && !withinEpsilon(*in.Persons[0].Share, employeeTotal) {
		errs = append(errs, validator.ValidationError{Field: "assigned_persons", Message: "a single person's share must equal the employee amount"})
	}

	sum := decimal.Zero
	for _, s := range shares {
		if s.ShareAmount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "assigned_persons", Message: "shares must be non-negative"})
			break
		}
		sum = sum.Add(s.ShareAmount)
	}
	if !withinEpsilon(sum, employeeTotal) {
		errs = append(errs, validator.ValidationError{Field: "assigned_persons", Message: "person shares must sum to the employee amount"})
	}

	if len(errs) > 0 {
		return Allocation{}, errs
	}

	return Allocation{
		EmployeeAmount: employeeTotal,
		CompanyAmount:  companyTotal,
		PerPerson:      shares,
	}, nil
}

// resolveShares honors manual overrides and spreads the rest of the
// employee total equally over persons without one.
func resolveShares(employeeTotal decimal.Decimal, persons []PersonShare) fine.AssignedPersons {
	if len(persons) == 1 {
		share := employeeTotal
		if persons[0].Share != nil {
			share = *persons[0].Share
		}
		return fine.AssignedPersons{{
			PersonID:    persons[0].PersonID,
			PersonName:  persons[0].PersonName,
			ShareAmount: share,
		}}
	}

	claimed := decimal.Zero
	unclaimed := 0
	for _, p := range persons {
		if p.Share != nil {
			claimed = claimed.Add(*p.Share)
		} else {
			unclaimed++
		}
	}

	each := decimal.Zero
	if unclaimed > 0 {
		each = EqualSplit(employeeTotal.Sub(claimed), unclaimed)
	}

	out := make(fine.AssignedPersons, 0, len(persons))
	for _, p := range persons {
		share := each
		if p.Share != nil {
			share = *p.Share
		}
		out = append(out, fine.AssignedPerson{
			PersonID:    p.PersonID,
			PersonName:  p.PersonName,
			ShareAmount: share,
		})
	}
	return out
}

// EqualSplit divides an amount across n persons at currency precision.
func EqualSplit(amount decimal.Decimal, n int) decimal.Decimal {
	if n < 1 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// RedistributeAfter applies a manual edit to shares[index] and re-divides
// whatever remains of the employee total equally among the persons AFTER
// that index. Earlier entries are treated as confirmed and left alone,
// even when the new total no longer balances against them; the caller is
// expected to run Allocate before persisting.
func RedistributeAfter(shares []decimal.Decimal, index int, amount, employeeTotal decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(shares))
	copy(out, shares)
	if index < 0 || index >= len(out) {
		return out
	}

	out[index] = amount

	confirmed := decimal.Zero
	for i := 0; i <= index; i++ {
		confirmed = confirmed.Add(out[i])
	}

	rest := len(out) - index - 1
	if rest == 0 {
		return out
	}

	each := EqualSplit(employeeTotal.Sub(confirmed), rest)
	for i := index + 1; i < len(out); i++ {
		out[i] = each
	}
	return out
}
