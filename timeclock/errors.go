/*
errors.go - Centralized error types for the timeclock engine

PURPOSE:
  All engine errors in one place. The API layer maps these onto HTTP
  statuses via the IsClientError / IsNotFound / IsNotApplicable helpers.

NOTE ON TOLERANCE:
  Malformed punch orderings are NOT errors. The per-day state machine
  absorbs invalid transitions (see aggregate.go). Only boundary input -
  unparseable dates, unknown kinds, malformed contracts - fails loudly.
*/
package timeclock

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoContract marks the "not applicable" outcome: balance and
	// progress are undefined for an employee without contract
	// configuration. Distinct from a zero balance; callers must not
	// collapse the two.
	ErrNoContract = errors.New("employee has no contract configuration")

	// ErrInvalidDate is returned when a calendar date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date: want YYYY-MM-DD")

	// ErrInvalidMonth is returned when a year-month cannot be parsed.
	ErrInvalidMonth = errors.New("invalid month: want YYYY-MM")

	// ErrInvalidPeriod is returned when a range ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrUnknownPunchKind is returned for a kind outside the four
	// clock actions.
	ErrUnknownPunchKind = errors.New("unknown punch kind")

	// ErrUnknownPeriodKind is returned for a contract period outside
	// weekly/monthly.
	ErrUnknownPeriodKind = errors.New("unknown contract period")

	// ErrInvalidContract is returned for contract configuration that
	// fails boundary validation.
	ErrInvalidContract = errors.New("invalid contract")

	// ErrEmployeeNotFound is returned when a referenced employee does
	// not exist.
	ErrEmployeeNotFound = errors.New("employee not found")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotApplicable reports the distinct no-contract outcome.
func IsNotApplicable(err error) bool {
	return errors.Is(err, ErrNoContract)
}

// IsClientError reports whether the error is due to invalid input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrUnknownPunchKind) ||
		errors.Is(err, ErrUnknownPeriodKind) ||
		errors.Is(err, ErrInvalidContract)
}

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}
