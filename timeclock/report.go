/*
report.go - Monthly attendance report

PURPOSE:
  Produces one row per employee-day for a selected month, with formatted
  durations and a location-tracking flag. This consumes the same daily
  state machine as the clock screen - one source of truth, two views.

SORT ORDER:
  Calendar date descending, then employee name ascending (lexicographic)
  as tie-break. Rows are recomputed fresh on every call.
*/
package timeclock

import (
	"context"
	"fmt"
	"sort"
)

// ReportRow is one employee-day in the monthly report. Durations are
// pre-formatted as "Hh Mm" for tabular display or export.
type ReportRow struct {
	EmployeeID   EmployeeID
	EmployeeName string
	Day          Date
	WorkedMs     int64 // net worked milliseconds
	PausedMs     int64
	Worked       string // formatted NetMs
	Paused       string
	Tracked      bool
	Punches      []PunchEvent
}

// ReportGenerator builds monthly report rows.
type ReportGenerator struct {
	Events    EventStore
	Employees EmployeeStore
}

// Generate filters events to the given month and employee filter,
// groups by (employee, date), reconciles each group and returns the
// sorted rows. Events for employees no longer on record are skipped.
func (g *ReportGenerator) Generate(ctx context.Context, filter EmployeeFilter, month YearMonth) ([]ReportRow, error) {
	events, err := g.Events.EventsInMonth(ctx, month, filter)
	if err != nil {
		return nil, err
	}

	employees, err := g.Employees.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[EmployeeID]string, len(employees))
	for _, emp := range employees {
		names[emp.ID] = emp.Name
	}

	type groupKey struct {
		ID  EmployeeID
		Day string
	}
	groups := make(map[groupKey][]PunchEvent)
	days := make(map[groupKey]Date)
	for _, ev := range events {
		if !month.Contains(ev.Day) || !filter.Matches(ev.EmployeeID) {
			continue
		}
		k := groupKey{ID: ev.EmployeeID, Day: ev.Day.String()}
		groups[k] = append(groups[k], ev)
		days[k] = ev.Day
	}

	rows := make([]ReportRow, 0, len(groups))
	for k, groupEvents := range groups {
		name, ok := names[k.ID]
		if !ok {
			continue
		}
		rec := AggregateDay(k.ID, days[k], groupEvents)
		rows = append(rows, ReportRow{
			EmployeeID:   k.ID,
			EmployeeName: name,
			Day:          rec.Day,
			WorkedMs:     rec.NetMs(),
			PausedMs:     rec.PausedMs,
			Worked:       FormatDuration(rec.NetMs()),
			Paused:       FormatDuration(rec.PausedMs),
			Tracked:      rec.Tracked(),
			Punches:      rec.Source,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Day.Equal(rows[j].Day) {
			return rows[i].Day.After(rows[j].Day)
		}
		return rows[i].EmployeeName < rows[j].EmployeeName
	})
	return rows, nil
}

// FormatDuration renders milliseconds as "Hh Mm" with non-negative
// integers; negative input clamps to "0h 0m".
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalMinutes := ms / 1000 / 60
	return fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60)
}
