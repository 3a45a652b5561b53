/*
Package timeclock is the time-accounting reconciliation engine.

PURPOSE:
  This package turns a raw, possibly imperfect sequence of clock-punch
  events per employee into worked/paused durations, aggregates them over
  arbitrary date ranges, and compares the result against a prorated
  contractual target to produce a running hours balance.

KEY CONCEPTS IN THIS FILE (types.go):
  - PunchEvent: A single clock action (in, out, pause start/end)
  - Contract: An employee's hours-per-period target (weekly or monthly)
  - DailyWorkRecord: Derived worked/paused milliseconds for one day
  - PeriodBalance / AnnualBalance: Derived balance figures

DESIGN PRINCIPLES:
  1. Purity: every derived value is a function of (events, contract, range);
     recomputing with identical inputs yields identical output
  2. Precision: decimal.Decimal for hour arithmetic, no binary floats
  3. Tolerance: malformed punch orderings are absorbed, never errors
  4. Explicit time: the reference instant is always a parameter; the
     engine never reads a wall clock

SEE ALSO:
  - aggregate.go: the per-day state machine
  - balance.go: period progress and annual balance
  - report.go: monthly report rows
*/
package timeclock

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// =============================================================================
// PUNCH EVENT - One clock action
// =============================================================================

type PunchKind string

const (
	PunchClockIn    PunchKind = "clock_in"
	PunchClockOut   PunchKind = "clock_out"
	PunchPauseStart PunchKind = "pause_start"
	PunchPauseEnd   PunchKind = "pause_end"
)

// ParsePunchKind validates a wire-level kind string.
func ParsePunchKind(s string) (PunchKind, error) {
	switch PunchKind(s) {
	case PunchClockIn, PunchClockOut, PunchPauseStart, PunchPauseEnd:
		return PunchKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPunchKind, s)
}

// Location is the optional GPS fix captured with a punch.
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// PunchEvent is immutable once recorded. Ordering key is At (epoch
// milliseconds), tie-broken by ID ascending; the store assigns IDs in
// insertion order so replays are deterministic.
type PunchEvent struct {
	ID         int64
	EmployeeID EmployeeID
	Kind       PunchKind
	Day        Date
	At         int64 // epoch millis, local wall clock
	Location   *Location
}

// Tracked reports whether the punch carried location metadata.
func (e PunchEvent) Tracked() bool { return e.Location != nil }

// =============================================================================
// CONTRACT - Tagged variant: a nil *Contract means "no contract"
// =============================================================================

// PeriodKind is the contractual accounting window.
type PeriodKind string

const (
	PeriodWeekly  PeriodKind = "weekly"
	PeriodMonthly PeriodKind = "monthly"
)

func ParsePeriodKind(s string) (PeriodKind, error) {
	switch PeriodKind(s) {
	case PeriodWeekly, PeriodMonthly:
		return PeriodKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriodKind, s)
}

// Contract couples the nominal target with its period so the two can
// never be set independently. Balance features are undefined for
// employees without one (nil pointer) - not zero, not an error.
type Contract struct {
	HoursPerPeriod decimal.Decimal
	Kind           PeriodKind
}

// Validate rejects contracts that could not have been entered through
// the boundary (non-positive target, unknown period).
func (c *Contract) Validate() error {
	if c == nil {
		return nil
	}
	if !c.HoursPerPeriod.IsPositive() {
		return fmt.Errorf("%w: hours per period must be positive", ErrInvalidContract)
	}
	if _, err := ParsePeriodKind(string(c.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContract, err)
	}
	return nil
}

// Employee is the entity the engine computes for. PasswordHash and Role
// belong to the surrounding application layers; the core only reads
// ID, Name and Contract.
type Employee struct {
	ID           EmployeeID
	Name         string
	Role         Role
	PasswordHash string
	Contract     *Contract // nil = no contract
}

// =============================================================================
// DERIVED VALUES - Pure functions of (events, contract, range)
// =============================================================================

// DailyWorkRecord is recomputed on demand from punch events; it is never
// persisted. Source holds the day's events in normalized order.
type DailyWorkRecord struct {
	EmployeeID EmployeeID
	Day        Date
	WorkedMs   int64
	PausedMs   int64
	Source     []PunchEvent
}

// NetMs is worked minus paused time. Never negative by construction:
// pauses commit together with their enclosing work segment, and the
// pause intervals of a closed segment are disjoint sub-intervals of it.
func (r DailyWorkRecord) NetMs() int64 { return r.WorkedMs - r.PausedMs }

// Tracked reports whether any source event carried location metadata.
func (r DailyWorkRecord) Tracked() bool {
	for _, ev := range r.Source {
		if ev.Tracked() {
			return true
		}
	}
	return false
}

// PeriodBalance is the current-period progress figure: hours worked so
// far against the FULL nominal target (not prorated - the UI semantic is
// "progress toward this week/month's quota").
type PeriodBalance struct {
	EmployeeID      EmployeeID
	Kind            PeriodKind
	RangeStart      Date
	RangeEnd        Date
	WorkedHours     decimal.Decimal
	TargetHours     decimal.Decimal
	ProgressPercent decimal.Decimal // clamped to [0, 100]
}

// AnnualBalance is the year-to-date balance. Sign convention:
// positive = surplus, negative = deficit.
type AnnualBalance struct {
	EmployeeID    EmployeeID
	Year          int
	WorkedHours   decimal.Decimal
	ExpectedHours decimal.Decimal
	BalanceHours  decimal.Decimal
}

// =============================================================================
// HOUR ARITHMETIC
// =============================================================================

var msPerHour = decimal.NewFromInt(3_600_000)

// HoursFromMs converts milliseconds to decimal hours.
func HoursFromMs(ms int64) decimal.Decimal {
	return decimal.NewFromInt(ms).Div(msPerHour)
}
