package timeclock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/timeclock"
)

func weekly(hoursPerWeek float64) *timeclock.Contract {
	return &timeclock.Contract{
		HoursPerPeriod: decimal.NewFromFloat(hoursPerWeek),
		Kind:           timeclock.PeriodWeekly,
	}
}

func monthly(hoursPerMonth float64) *timeclock.Contract {
	return &timeclock.Contract{
		HoursPerPeriod: decimal.NewFromFloat(hoursPerMonth),
		Kind:           timeclock.PeriodMonthly,
	}
}

// assertHours checks a decimal result within +-0.01 hours.
func assertHours(t *testing.T, want float64, got decimal.Decimal) {
	t.Helper()
	diff := got.Sub(decimal.NewFromFloat(want)).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)),
		"want %v +-0.01, got %v", want, got)
}

func TestComputeExpected_WeeklyProration(t *testing.T) {
	// 40h/week over exactly 5 elapsed days => 40 * 5/7 = 28.57h
	from := timeclock.NewDate(2025, time.June, 2)
	to := from.AddDays(5)

	got, err := timeclock.ComputeExpected(weekly(40), from, to)

	require.NoError(t, err)
	assertHours(t, 28.5714, got)
}

func TestComputeExpected_MonthlyProration(t *testing.T) {
	// Mean Gregorian month length (30.4375 days) by design: 160h/month
	// over 30.4375 days is not representable with whole elapsed days,
	// so check a round case instead: 30 days => 160 * 30/30.4375.
	from := timeclock.NewDate(2025, time.June, 1)
	to := from.AddDays(30)

	got, err := timeclock.ComputeExpected(monthly(160), from, to)

	require.NoError(t, err)
	assertHours(t, 157.70, got)
}

func TestComputeExpected_ReversedRange_UsesAbsoluteDays(t *testing.T) {
	from := timeclock.NewDate(2025, time.June, 7)
	to := timeclock.NewDate(2025, time.June, 2)

	got, err := timeclock.ComputeExpected(weekly(35), from, to)

	require.NoError(t, err)
	assertHours(t, 25.0, got)
}

func TestComputeExpected_SameDay_ZeroHours(t *testing.T) {
	d := timeclock.NewDate(2025, time.June, 2)

	got, err := timeclock.ComputeExpected(weekly(40), d, d)

	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestComputeExpected_NoContract_NotApplicable(t *testing.T) {
	from := timeclock.NewDate(2025, time.January, 1)
	to := timeclock.NewDate(2025, time.June, 30)

	_, err := timeclock.ComputeExpected(nil, from, to)

	assert.ErrorIs(t, err, timeclock.ErrNoContract)
	assert.True(t, timeclock.IsNotApplicable(err))
}
