package timeclock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/timeclock"
	"github.com/warp/attendance-engine/timeclock/store"
)

func reportFixture(t *testing.T) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.SaveEmployee(ctx, timeclock.Employee{ID: "emp-ana", Name: "Ana"}))
	require.NoError(t, mem.SaveEmployee(ctx, timeclock.Employee{ID: "emp-bruno", Name: "Bruno"}))

	recordDay(t, mem, "emp-ana", timeclock.NewDate(2025, time.June, 2), 9, 17)
	recordDay(t, mem, "emp-ana", timeclock.NewDate(2025, time.June, 3), 9, 13)
	recordDay(t, mem, "emp-bruno", timeclock.NewDate(2025, time.June, 3), 10, 18)
	recordDay(t, mem, "emp-bruno", timeclock.NewDate(2025, time.July, 1), 9, 17) // outside month
	return mem
}

func TestReport_GroupsSortsAndFormats(t *testing.T) {
	mem := reportFixture(t)
	gen := &timeclock.ReportGenerator{Events: mem, Employees: mem}

	rows, err := gen.Generate(context.Background(), timeclock.FilterAll,
		timeclock.YearMonth{Year: 2025, Month: time.June})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Date descending, then name ascending on the June 3 tie.
	assert.Equal(t, timeclock.NewDate(2025, time.June, 3), rows[0].Day)
	assert.Equal(t, "Ana", rows[0].EmployeeName)
	assert.Equal(t, "Bruno", rows[1].EmployeeName)
	assert.Equal(t, timeclock.NewDate(2025, time.June, 2), rows[2].Day)

	assert.Equal(t, "4h 0m", rows[0].Worked)
	assert.Equal(t, "8h 0m", rows[1].Worked)
	assert.Equal(t, "0h 0m", rows[0].Paused)
}

func TestReport_EmployeeFilter(t *testing.T) {
	mem := reportFixture(t)
	gen := &timeclock.ReportGenerator{Events: mem, Employees: mem}

	rows, err := gen.Generate(context.Background(), timeclock.FilterEmployee("emp-bruno"),
		timeclock.YearMonth{Year: 2025, Month: time.June})
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Bruno", rows[0].EmployeeName)
}

func TestReport_TrackedFlag(t *testing.T) {
	// GIVEN: one of the day's punches carries a location fix
	// THEN: the row is flagged tracked
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveEmployee(ctx, timeclock.Employee{ID: "emp-1", Name: "Ana"}))

	day := timeclock.NewDate(2025, time.June, 2)
	in := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	rec := &timeclock.Recorder{Events: mem}
	_, err := rec.Punch(ctx, "emp-1", timeclock.PunchClockIn, in, &timeclock.Location{Latitude: 40.4, Longitude: -3.7, Accuracy: 8})
	require.NoError(t, err)
	_, err = rec.Punch(ctx, "emp-1", timeclock.PunchClockOut, in.Add(4*time.Hour), nil)
	require.NoError(t, err)

	gen := &timeclock.ReportGenerator{Events: mem, Employees: mem}
	rows, err := gen.Generate(ctx, timeclock.FilterAll, timeclock.YearMonth{Year: 2025, Month: time.June})
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Tracked)
	assert.Equal(t, day, rows[0].Day)
	assert.Len(t, rows[0].Punches, 2)
}

func TestReport_UnknownEmployeeEventsSkipped(t *testing.T) {
	mem := store.NewMemory()
	recordDay(t, mem, "emp-ghost", timeclock.NewDate(2025, time.June, 2), 9, 17)

	gen := &timeclock.ReportGenerator{Events: mem, Employees: mem}
	rows, err := gen.Generate(context.Background(), timeclock.FilterAll,
		timeclock.YearMonth{Year: 2025, Month: time.June})

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0h 0m"},
		{hours(8), "8h 0m"},
		{hours(7) + minutes(30), "7h 30m"},
		{minutes(59), "0h 59m"},
		{-minutes(5), "0h 0m"}, // negative clamps
		{hours(26) + minutes(5), "26h 5m"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, timeclock.FormatDuration(c.ms), "ms=%d", c.ms)
	}
}
