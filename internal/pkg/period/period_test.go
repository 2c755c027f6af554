package period

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMonths_YearBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Period
		n    int
		want Period
	}{
		{"same year", 202401, 2, 202403},
		{"rollover forward", 202411, 3, 202502},
		{"december to january", 202412, 1, 202501},
		{"rollover backward", 202501, -1, 202412},
		{"multi year forward", 202401, 25, 202602},
		{"multi year backward", 202401, -13, 202212},
		{"zero", 202407, 0, 202407},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.AddMonths(tt.n))
		})
	}
}

func TestAddMonths_RoundTrip(t *testing.T) {
	t.Parallel()

	p := New(2024, time.June)
	for k := -30; k <= 30; k++ {
		assert.Equal(t, p, p.AddMonths(k).AddMonths(-k), "k=%d", k)
	}
}

func TestRange(t *testing.T) {
	t.Parallel()

	first, last := Range(202401, 1)
	assert.Equal(t, Period(202401), first)
	assert.Equal(t, Period(202401), last)

	first, last = Range(202401, 3)
	assert.Equal(t, Period(202401), first)
	assert.Equal(t, Period(202403), last)

	// Year rollover
	first, last = Range(202411, 3)
	assert.Equal(t, Period(202411), first)
	assert.Equal(t, Period(202501), last)
}

func TestContains(t *testing.T) {
	t.Parallel()

	// monthStart 2024-03, duration 4 covers [202403, 202406]
	start := New(2024, time.March)
	first, last := Range(start, 4)
	assert.Equal(t, Period(202403), first)
	assert.Equal(t, Period(202406), last)

	assert.True(t, Contains(start, 4, 202405))
	assert.True(t, Contains(start, 4, 202403))
	assert.True(t, Contains(start, 4, 202406))
	assert.False(t, Contains(start, 4, 202407))
	assert.False(t, Contains(start, 4, 202402))
}

func TestUnknown_NeverActive(t *testing.T) {
	t.Parallel()

	assert.False(t, Unknown.Valid())
	assert.Equal(t, Unknown, Unknown.AddMonths(5))
	assert.False(t, Contains(Unknown, 6, 202401))
	assert.False(t, Contains(202401, 6, Unknown))

	first, last := Range(Unknown, 3)
	assert.Equal(t, Unknown, first)
	assert.Equal(t, Unknown, last)
}

func TestParse(t *testing.T) {
	t.Parallel()

	p, err := Parse("2024-03")
	require.NoError(t, err)
	assert.Equal(t, Period(202403), p)

	p, err = Parse("2024-11-15")
	require.NoError(t, err)
	assert.Equal(t, Period(202411), p)

	_, err = Parse("invalid")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}

func TestFromTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Period(202502), FromTime(time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Unknown, FromTime(time.Time{}))
}

func TestClampMonths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ClampMonths(0))
	assert.Equal(t, 1, ClampMonths(-4))
	assert.Equal(t, 6, ClampMonths(6))
}

func TestPerInstallment(t *testing.T) {
	t.Parallel()

	got := PerInstallment(decimal.NewFromInt(600), 3)
	assert.True(t, got.Equal(decimal.NewFromInt(200)), "got %s", got)

	// Invalid duration falls back to a single installment.
	got = PerInstallment(decimal.NewFromInt(600), 0)
	assert.True(t, got.Equal(decimal.NewFromInt(600)), "got %s", got)

	got = PerInstallment(decimal.NewFromInt(100), 3)
	assert.True(t, got.Equal(decimal.RequireFromString("33.33")), "got %s", got)
}
