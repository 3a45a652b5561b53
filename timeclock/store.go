/*
store.go - Repository interfaces consumed by the engine

PURPOSE:
  The engine never holds the full dataset in memory. It asks a store for
  exactly the slice it needs: one employee-day, one employee-range, or
  one month. Implementations:
    - timeclock/store: in-memory (testing/dev)
    - store/sqlite:    production SQLite
*/
package timeclock

import "context"

// EmployeeFilter selects either every employee or a single one.
// The zero value matches all.
type EmployeeFilter struct {
	id EmployeeID
}

// FilterAll matches every employee.
var FilterAll = EmployeeFilter{}

// FilterEmployee matches a single employee.
func FilterEmployee(id EmployeeID) EmployeeFilter { return EmployeeFilter{id: id} }

// All reports whether the filter matches every employee.
func (f EmployeeFilter) All() bool { return f.id == "" }

// Matches reports whether the filter accepts the given employee.
func (f EmployeeFilter) Matches(id EmployeeID) bool { return f.All() || f.id == id }

// ID returns the selected employee id ("" when matching all).
func (f EmployeeFilter) ID() EmployeeID { return f.id }

// EventStore supplies punch events. AppendEvent is the only write; it
// assigns insertion-ordered ids (the deterministic tie-break key).
// Read methods return events ordered by timestamp then id.
type EventStore interface {
	AppendEvent(ctx context.Context, ev PunchEvent) (PunchEvent, error)

	// EventsForEmployeeOnDate returns one employee-day of events.
	EventsForEmployeeOnDate(ctx context.Context, id EmployeeID, day Date) ([]PunchEvent, error)

	// EventsForEmployeeInRange returns events with day in [from, to].
	EventsForEmployeeInRange(ctx context.Context, id EmployeeID, from, to Date) ([]PunchEvent, error)

	// EventsInMonth returns all events in the month for the filtered
	// employees. Used by the report generator.
	EventsInMonth(ctx context.Context, month YearMonth, filter EmployeeFilter) ([]PunchEvent, error)
}

// EmployeeStore supplies employee records and their contract
// configuration.
type EmployeeStore interface {
	// GetEmployee returns ErrEmployeeNotFound for unknown ids.
	GetEmployee(ctx context.Context, id EmployeeID) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}
