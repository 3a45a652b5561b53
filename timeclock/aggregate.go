/*
aggregate.go - Per-day reconciliation state machine

PURPOSE:
  Reduces all punch events for one employee on one calendar day into
  worked/paused milliseconds. This is the single source of truth for
  daily totals; both the clock screen and the monthly report consume it.

ALGORITHM:
  Sort events by timestamp ascending (ties by id ascending), then run a
  three-state machine:

    idle    --clock_in---->  working   (remember open in)
    working --clock_out--->  idle      (worked += now - open in)
    working --pause_start->  paused    (remember open pause)
    paused  --pause_end--->  working   (paused += now - open pause)

  Any transition not listed is IGNORED: the event is skipped and the
  machine stays in place. This is a deliberate tolerance policy for
  imperfect real-world punch streams, not a validation error.

  A span still open at end of day contributes ZERO to the totals - only
  fully closed segments count. Pauses belong to their work segment: a
  pause closed inside a segment that never closes is dropped with it,
  so net time cannot go negative. A forgotten clock-out therefore
  silently drops that day's hours; this is a documented risk, not
  something the engine papers over.
*/
package timeclock

import "sort"

type dayState int

const (
	stateIdle dayState = iota
	stateWorking
	statePaused
)

// AggregateDay reduces one employee-day of punch events into a
// DailyWorkRecord. The input may arrive in any order; a sorted copy is
// used so the caller's slice is never mutated. Determinism: identical
// input (in any permutation) always yields an identical record.
func AggregateDay(employeeID EmployeeID, day Date, events []PunchEvent) DailyWorkRecord {
	ordered := sortEvents(events)

	var (
		state        = stateIdle
		openIn       int64
		openPause    int64
		pendingPause int64 // closed pauses of the current work segment
		workedMs     int64
		pausedMs     int64
	)

	for _, ev := range ordered {
		switch state {
		case stateIdle:
			if ev.Kind == PunchClockIn {
				openIn = ev.At
				pendingPause = 0
				state = stateWorking
			}
		case stateWorking:
			switch ev.Kind {
			case PunchClockOut:
				// Pauses commit with their segment, so a segment
				// dropped for a missing clock-out drops them too.
				workedMs += ev.At - openIn
				pausedMs += pendingPause
				openIn = 0
				pendingPause = 0
				state = stateIdle
			case PunchPauseStart:
				openPause = ev.At
				state = statePaused
			}
		case statePaused:
			if ev.Kind == PunchPauseEnd {
				pendingPause += ev.At - openPause
				openPause = 0
				state = stateWorking
			}
		}
	}

	return DailyWorkRecord{
		EmployeeID: employeeID,
		Day:        day,
		WorkedMs:   workedMs,
		PausedMs:   pausedMs,
		Source:     ordered,
	}
}

// sortEvents returns a copy sorted by timestamp ascending, ties broken
// by id ascending (insertion order) for determinism.
func sortEvents(events []PunchEvent) []PunchEvent {
	ordered := make([]PunchEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].At != ordered[j].At {
			return ordered[i].At < ordered[j].At
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
