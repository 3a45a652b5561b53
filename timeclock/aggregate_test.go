package timeclock_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/attendance-engine/timeclock"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var day1 = timeclock.NewDate(2025, time.March, 10)

// punch builds an event at hh:mm on the given day. IDs follow insertion
// order the way the stores assign them.
func punch(id int64, kind timeclock.PunchKind, day timeclock.Date, hh, mm int) timeclock.PunchEvent {
	at := time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, time.UTC)
	return timeclock.PunchEvent{
		ID:         id,
		EmployeeID: "emp-1",
		Kind:       kind,
		Day:        day,
		At:         at.UnixMilli(),
	}
}

func hours(h float64) int64 { return int64(h * 3_600_000) }
func minutes(m int64) int64 { return m * 60_000 }

// =============================================================================
// DAILY STATE MACHINE
// =============================================================================

func TestAggregateDay_ClosedSegments(t *testing.T) {
	// GIVEN: 09:00-13:00 and 14:00-18:00 closed work segments
	// THEN: 8h worked, no pause
	events := []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockIn, day1, 9, 0),
		punch(2, timeclock.PunchClockOut, day1, 13, 0),
		punch(3, timeclock.PunchClockIn, day1, 14, 0),
		punch(4, timeclock.PunchClockOut, day1, 18, 0),
	}

	rec := timeclock.AggregateDay("emp-1", day1, events)

	assert.Equal(t, hours(8), rec.WorkedMs)
	assert.Equal(t, int64(0), rec.PausedMs)
	assert.Equal(t, hours(8), rec.NetMs())
}

func TestAggregateDay_PauseSubtraction(t *testing.T) {
	// GIVEN: 09:00-17:00 with a 12:00-12:30 pause
	// THEN: worked 8h, paused 30m, net 7h30m
	events := []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockIn, day1, 9, 0),
		punch(2, timeclock.PunchPauseStart, day1, 12, 0),
		punch(3, timeclock.PunchPauseEnd, day1, 12, 30),
		punch(4, timeclock.PunchClockOut, day1, 17, 0),
	}

	rec := timeclock.AggregateDay("emp-1", day1, events)

	assert.Equal(t, hours(8), rec.WorkedMs)
	assert.Equal(t, minutes(30), rec.PausedMs)
	assert.Equal(t, hours(7)+minutes(30), rec.NetMs())
}

func TestAggregateDay_OpenSegmentDropped(t *testing.T) {
	// GIVEN: a clock in with no matching clock out
	// THEN: the open span contributes zero
	events := []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockIn, day1, 9, 0),
	}

	rec := timeclock.AggregateDay("emp-1", day1, events)

	assert.Equal(t, int64(0), rec.WorkedMs)
	assert.Equal(t, int64(0), rec.NetMs())
}

func TestAggregateDay_OpenPauseDropped(t *testing.T) {
	// A pause left open at end of day counts nothing; the preceding
	// closed work segment is unaffected.
	events := []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockIn, day1, 9, 0),
		punch(2, timeclock.PunchClockOut, day1, 13, 0),
		punch(3, timeclock.PunchClockIn, day1, 14, 0),
		punch(4, timeclock.PunchPauseStart, day1, 15, 0),
	}

	rec := timeclock.AggregateDay("emp-1", day1, events)

	assert.Equal(t, hours(4), rec.WorkedMs)
	assert.Equal(t, int64(0), rec.PausedMs)
}

func TestAggregateDay_InvalidTransitionsIgnored(t *testing.T) {
	// GIVEN: a stray clock out before any clock in, a duplicate clock
	// in while working, a pause start while already paused
	// THEN: each is skipped in place, net time stays non-negative
	events := []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockOut, day1, 8, 0),   // idle: ignored
		punch(2, timeclock.PunchClockIn, day1, 9, 0),
		punch(3, timeclock.PunchClockIn, day1, 9, 30),   // working: ignored
		punch(4, timeclock.PunchPauseStart, day1, 12, 0),
		punch(5, timeclock.PunchPauseStart, day1, 12, 10), // paused: ignored
		punch(6, timeclock.PunchPauseEnd, day1, 12, 30),
		punch(7, timeclock.PunchClockOut, day1, 17, 0),
	}

	rec := timeclock.AggregateDay("emp-1", day1, events)

	assert.Equal(t, hours(8), rec.WorkedMs)
	assert.Equal(t, minutes(30), rec.PausedMs)
	assert.GreaterOrEqual(t, rec.NetMs(), int64(0))
}

func TestAggregateDay_ClockOutWhilePausedIgnored(t *testing.T) {
	// A clock out during a pause is not a listed transition; the pause
	// stays open and both spans are dropped.
	events := []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockIn, day1, 9, 0),
		punch(2, timeclock.PunchPauseStart, day1, 12, 0),
		punch(3, timeclock.PunchClockOut, day1, 17, 0),
	}

	rec := timeclock.AggregateDay("emp-1", day1, events)

	assert.Equal(t, int64(0), rec.WorkedMs)
	assert.Equal(t, int64(0), rec.PausedMs)
}

func TestAggregateDay_ClosedPauseInUnclosedSegment_Dropped(t *testing.T) {
	// GIVEN: a closed pause inside a work segment that never closes
	// THEN: the pause drops with its segment; net never goes negative
	events := []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockIn, day1, 9, 0),
		punch(2, timeclock.PunchPauseStart, day1, 12, 0),
		punch(3, timeclock.PunchPauseEnd, day1, 12, 30),
	}

	rec := timeclock.AggregateDay("emp-1", day1, events)

	assert.Equal(t, int64(0), rec.WorkedMs)
	assert.Equal(t, int64(0), rec.PausedMs)
	assert.Equal(t, int64(0), rec.NetMs())
}

func TestAggregateDay_OnlyStrayEvents_NeverNegative(t *testing.T) {
	events := []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockOut, day1, 9, 0),
		punch(2, timeclock.PunchPauseEnd, day1, 10, 0),
		punch(3, timeclock.PunchPauseEnd, day1, 11, 0),
	}

	rec := timeclock.AggregateDay("emp-1", day1, events)

	assert.Equal(t, int64(0), rec.NetMs())
}

func TestAggregateDay_Deterministic_PermutationInvariant(t *testing.T) {
	// Permuting the input must not change the result: the internal
	// sort normalizes order before the state machine runs.
	events := []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockIn, day1, 9, 0),
		punch(2, timeclock.PunchPauseStart, day1, 12, 0),
		punch(3, timeclock.PunchPauseEnd, day1, 12, 30),
		punch(4, timeclock.PunchClockOut, day1, 17, 0),
	}
	want := timeclock.AggregateDay("emp-1", day1, events)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]timeclock.PunchEvent, len(events))
		copy(shuffled, events)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := timeclock.AggregateDay("emp-1", day1, shuffled)
		assert.Equal(t, want, got, "permutation %d changed the result", i)
	}
}

func TestAggregateDay_TimestampTie_BrokenByID(t *testing.T) {
	// Two punches in the same millisecond: insertion order (id
	// ascending) decides, so in-then-out closes a zero-length segment
	// deterministically.
	in := punch(1, timeclock.PunchClockIn, day1, 9, 0)
	out := punch(2, timeclock.PunchClockOut, day1, 9, 0)

	a := timeclock.AggregateDay("emp-1", day1, []timeclock.PunchEvent{in, out})
	b := timeclock.AggregateDay("emp-1", day1, []timeclock.PunchEvent{out, in})

	assert.Equal(t, a, b)
	assert.Equal(t, int64(0), a.WorkedMs)
}

func TestAggregateDay_DoesNotMutateInput(t *testing.T) {
	events := []timeclock.PunchEvent{
		punch(2, timeclock.PunchClockOut, day1, 17, 0),
		punch(1, timeclock.PunchClockIn, day1, 9, 0),
	}

	timeclock.AggregateDay("emp-1", day1, events)

	assert.Equal(t, int64(2), events[0].ID, "input slice must stay untouched")
}

func TestDailyWorkRecord_Tracked(t *testing.T) {
	located := punch(2, timeclock.PunchClockOut, day1, 17, 0)
	located.Location = &timeclock.Location{Latitude: 40.4, Longitude: -3.7, Accuracy: 12}

	rec := timeclock.AggregateDay("emp-1", day1, []timeclock.PunchEvent{
		punch(1, timeclock.PunchClockIn, day1, 9, 0),
		located,
	})

	assert.True(t, rec.Tracked())
}
