/*
expected.go - Contractual target proration

PURPOSE:
  Prorates an employee's hours-per-period target over an arbitrary date
  range. This is an average-length approximation BY DESIGN (weeks of 7
  days, months of 30.4375 days - the mean Gregorian month), not a
  calendar-exact entitlement; do not "fix" the formula.
*/
package timeclock

import "github.com/shopspring/decimal"

var (
	daysPerWeek   = decimal.NewFromInt(7)
	meanMonthDays = decimal.RequireFromString("30.4375")
	hundred       = decimal.NewFromInt(100)
)

// ComputeExpected prorates the contract target over [from, to].
// Returns ErrNoContract when the employee has no contract - the result
// is "not applicable", not zero.
func ComputeExpected(c *Contract, from, to Date) (decimal.Decimal, error) {
	if c == nil {
		return decimal.Zero, ErrNoContract
	}

	elapsed := DaysBetween(from, to)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	days := decimal.NewFromInt(int64(elapsed))

	switch c.Kind {
	case PeriodWeekly:
		return c.HoursPerPeriod.Mul(days).Div(daysPerWeek), nil
	case PeriodMonthly:
		return c.HoursPerPeriod.Mul(days).Div(meanMonthDays), nil
	}
	return decimal.Zero, ErrUnknownPeriodKind
}
