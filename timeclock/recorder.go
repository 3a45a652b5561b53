/*
recorder.go - Punch recording and day status

PURPOSE:
  The write side of the clock screen. Stamps the calendar date and epoch
  milliseconds from the supplied instant, persists through the event
  store (which assigns the insertion-ordered id) and honors the cache
  invalidation contract.

  DayStatus additionally derives which clock actions the UI should offer
  next from the last punch of the day. That gating is ADVISORY: a punch
  recorded out of order is still stored and later absorbed by the
  aggregation tolerance policy, never rejected.
*/
package timeclock

import (
	"context"
	"time"
)

// Recorder appends punch events and answers "where am I in today's
// shift" queries.
type Recorder struct {
	Events EventStore
	Cache  *DayCache
}

// Punch records a clock action for the employee at the given instant.
func (r *Recorder) Punch(ctx context.Context, id EmployeeID, kind PunchKind, at time.Time, loc *Location) (PunchEvent, error) {
	if _, err := ParsePunchKind(string(kind)); err != nil {
		return PunchEvent{}, err
	}

	ev := PunchEvent{
		EmployeeID: id,
		Kind:       kind,
		Day:        DateOf(at),
		At:         at.UnixMilli(),
		Location:   loc,
	}
	saved, err := r.Events.AppendEvent(ctx, ev)
	if err != nil {
		return PunchEvent{}, err
	}
	if r.Cache != nil {
		r.Cache.Invalidate(saved.EmployeeID, saved.Day)
	}
	return saved, nil
}

// DayStatus is the clock screen's view of one employee-day.
type DayStatus struct {
	Day       Date
	Events    []PunchEvent
	Record    DailyWorkRecord
	Permitted []PunchKind
}

// DayStatus returns the employee's punches for the day, the reconciled
// record so far, and the clock actions permitted after the last punch.
func (r *Recorder) DayStatus(ctx context.Context, id EmployeeID, day Date) (DayStatus, error) {
	events, err := r.Events.EventsForEmployeeOnDate(ctx, id, day)
	if err != nil {
		return DayStatus{}, err
	}

	rec := AggregateDay(id, day, events)
	var last *PunchEvent
	if n := len(rec.Source); n > 0 {
		last = &rec.Source[n-1]
	}

	return DayStatus{
		Day:       day,
		Events:    rec.Source,
		Record:    rec,
		Permitted: PermittedAfter(last),
	}, nil
}

// PermittedAfter mirrors the clock screen's button gating: clock in only
// from a clean slate or after a clock out; clock out and pause start
// while working; pause end only while paused.
func PermittedAfter(last *PunchEvent) []PunchKind {
	if last == nil || last.Kind == PunchClockOut {
		return []PunchKind{PunchClockIn}
	}
	switch last.Kind {
	case PunchClockIn, PunchPauseEnd:
		return []PunchKind{PunchClockOut, PunchPauseStart}
	case PunchPauseStart:
		return []PunchKind{PunchPauseEnd}
	}
	return nil
}
