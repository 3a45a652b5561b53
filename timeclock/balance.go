/*
balance.go - Current-period progress and year-to-date balance

PURPOSE:
  Combines range aggregation with target proration to answer the two
  questions the clock screen asks:
    1. How far along is this week/month's quota?
    2. What is the running surplus/deficit since January 1?

KEY SEMANTICS:
  - The current-period target is the FULL nominal hoursPerPeriod, not a
    prorated slice: the partially elapsed period is compared against the
    whole period's quota.
  - Both operations return ErrNoContract for employees without contract
    configuration. That outcome is "not applicable", which callers must
    keep distinct from a zero balance.
  - The reference instant is an explicit parameter. The engine never
    reads a global clock, which keeps every figure reproducible.
*/
package timeclock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceEngine produces PeriodBalance and AnnualBalance figures.
type BalanceEngine struct {
	Periods *PeriodAggregator
}

// CurrentPeriodProgress reports hours worked since the period start
// (most recent Monday for weekly contracts, first of the month for
// monthly) against the full nominal target, with the percentage clamped
// to [0, 100].
func (e *BalanceEngine) CurrentPeriodProgress(ctx context.Context, emp Employee, now time.Time) (PeriodBalance, error) {
	if emp.Contract == nil {
		return PeriodBalance{}, ErrNoContract
	}

	today := DateOf(now)
	var start Date
	switch emp.Contract.Kind {
	case PeriodWeekly:
		start = today.StartOfISOWeek()
	case PeriodMonthly:
		start = today.StartOfMonth()
	default:
		return PeriodBalance{}, ErrUnknownPeriodKind
	}

	worked, err := e.Periods.AggregateRange(ctx, emp.ID, start, today)
	if err != nil {
		return PeriodBalance{}, err
	}

	target := emp.Contract.HoursPerPeriod
	progress := decimal.Zero
	if target.IsPositive() {
		progress = clampPercent(worked.Div(target).Mul(hundred))
	}

	return PeriodBalance{
		EmployeeID:      emp.ID,
		Kind:            emp.Contract.Kind,
		RangeStart:      start,
		RangeEnd:        today,
		WorkedHours:     worked,
		TargetHours:     target,
		ProgressPercent: progress,
	}, nil
}

// AnnualBalance reports worked minus expected hours from January 1 of
// asOf's year through asOf. Positive = surplus, negative = deficit.
func (e *BalanceEngine) AnnualBalance(ctx context.Context, emp Employee, asOf Date) (AnnualBalance, error) {
	if emp.Contract == nil {
		return AnnualBalance{}, ErrNoContract
	}

	yearStart := asOf.StartOfYear()
	worked, err := e.Periods.AggregateRange(ctx, emp.ID, yearStart, asOf)
	if err != nil {
		return AnnualBalance{}, err
	}

	expected, err := ComputeExpected(emp.Contract, yearStart, asOf)
	if err != nil {
		return AnnualBalance{}, err
	}

	return AnnualBalance{
		EmployeeID:    emp.ID,
		Year:          asOf.Year(),
		WorkedHours:   worked,
		ExpectedHours: expected,
		BalanceHours:  worked.Sub(expected),
	}, nil
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
