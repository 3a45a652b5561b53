package timeclock

import "sync"

// =============================================================================
// DAY CACHE - Optional memoization of DailyWorkRecord
// =============================================================================

// DayCache memoizes DailyWorkRecord per (employee, calendar date).
//
// INVALIDATION CONTRACT:
//   Inserting a new punch event for employee E on date D must evict any
//   cached record for (E, D) before it is next read. The Recorder honors
//   this on every append. No other shared mutable state exists in the
//   engine.
type DayCache struct {
	mu      sync.RWMutex
	records map[dayKey]DailyWorkRecord
}

type dayKey struct {
	EmployeeID EmployeeID
	Day        string
}

func NewDayCache() *DayCache {
	return &DayCache{records: make(map[dayKey]DailyWorkRecord)}
}

func (c *DayCache) Get(id EmployeeID, day Date) (DailyWorkRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[dayKey{EmployeeID: id, Day: day.String()}]
	return rec, ok
}

func (c *DayCache) Put(rec DailyWorkRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[dayKey{EmployeeID: rec.EmployeeID, Day: rec.Day.String()}] = rec
}

// Invalidate evicts the cached record for (id, day). A miss is a no-op.
func (c *DayCache) Invalidate(id EmployeeID, day Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, dayKey{EmployeeID: id, Day: day.String()})
}
