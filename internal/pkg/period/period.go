package period

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a calendar year-month encoded as year*100+month, so periods
// order and compare as plain integers (202403 < 202411 < 202501).
type Period int

// Unknown marks a fine whose deduction start could not be resolved.
// It is never active in any target period.
const Unknown Period = 0

func New(year int, month time.Month) Period {
	if year <= 0 || month < time.January || month > time.December {
		return Unknown
	}
	return Period(year*100 + int(month))
}

// FromTime returns the period containing t. A zero time yields Unknown.
func FromTime(t time.Time) Period {
	if t.IsZero() {
		return Unknown
	}
	return New(t.Year(), t.Month())
}

// Parse accepts "YYYY-MM" (and "YYYY-MM-DD", ignoring the day).
func Parse(s string) (Period, error) {
	if len(s) > 7 {
		s = s[:7]
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Unknown, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return FromTime(t), nil
}

func (p Period) Valid() bool {
	month := int(p) % 100
	return p > 0 && month >= 1 && month <= 12
}

func (p Period) Year() int {
	return int(p) / 100
}

func (p Period) Month() time.Month {
	return time.Month(int(p) % 100)
}

// AddMonths shifts p by n months, normalizing across year boundaries.
// Unknown stays Unknown regardless of n.
func (p Period) AddMonths(n int) Period {
	if !p.Valid() {
		return Unknown
	}
	idx := p.Year()*12 + int(p.Month()) - 1 + n
	return New(idx/12, time.Month(idx%12+1))
}

func (p Period) Next() Period {
	return p.AddMonths(1)
}

func (p Period) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return fmt.Sprintf("%04d-%02d", p.Year(), p.Month())
}

// ClampMonths normalizes a payable duration: anything below one month
// falls back to a single installment.
func ClampMonths(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Range returns the inclusive [start, end] window covered by a schedule
// of the given duration in months.
func Range(start Period, months int) (Period, Period) {
	if !start.Valid() {
		return Unknown, Unknown
	}
	months = ClampMonths(months)
	return start, start.AddMonths(months - 1)
}

// Contains reports whether target falls inside the schedule window.
func Contains(start Period, months int, target Period) bool {
	if !start.Valid() || !target.Valid() {
		return false
	}
	first, last := Range(start, months)
	return target >= first && target <= last
}

// PerInstallment is the per-period deduction for a share paid off over
// the given number of months, rounded to currency precision.
func PerInstallment(share decimal.Decimal, months int) decimal.Decimal {
	return share.Div(decimal.NewFromInt(int64(ClampMonths(months)))).Round(2)
}
