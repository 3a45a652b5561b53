// Package store provides in-memory implementations of the timeclock
// repository interfaces, for testing and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/attendance-engine/timeclock"
)

// =============================================================================
// MEMORY STORE - In-memory EventStore + EmployeeStore
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	nextID    int64
	events    map[timeclock.EmployeeID][]timeclock.PunchEvent
	employees map[timeclock.EmployeeID]timeclock.Employee
}

func NewMemory() *Memory {
	return &Memory{
		events:    make(map[timeclock.EmployeeID][]timeclock.PunchEvent),
		employees: make(map[timeclock.EmployeeID]timeclock.Employee),
	}
}

// AppendEvent assigns the next insertion-ordered id and stores the
// event. Events are kept sorted by timestamp then id so reads are
// already normalized.
func (m *Memory) AppendEvent(_ context.Context, ev timeclock.PunchEvent) (timeclock.PunchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	ev.ID = m.nextID

	evs := m.events[ev.EmployeeID]
	i := sort.Search(len(evs), func(i int) bool {
		if evs[i].At != ev.At {
			return evs[i].At > ev.At
		}
		return evs[i].ID > ev.ID
	})
	evs = append(evs, timeclock.PunchEvent{})
	copy(evs[i+1:], evs[i:])
	evs[i] = ev
	m.events[ev.EmployeeID] = evs

	return ev, nil
}

func (m *Memory) EventsForEmployeeOnDate(_ context.Context, id timeclock.EmployeeID, day timeclock.Date) ([]timeclock.PunchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timeclock.PunchEvent
	for _, ev := range m.events[id] {
		if ev.Day.Equal(day) {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (m *Memory) EventsForEmployeeInRange(_ context.Context, id timeclock.EmployeeID, from, to timeclock.Date) ([]timeclock.PunchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timeclock.PunchEvent
	for _, ev := range m.events[id] {
		if from.BeforeOrEqual(ev.Day) && ev.Day.BeforeOrEqual(to) {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (m *Memory) EventsInMonth(_ context.Context, month timeclock.YearMonth, filter timeclock.EmployeeFilter) ([]timeclock.PunchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timeclock.PunchEvent
	for id, evs := range m.events {
		if !filter.Matches(id) {
			continue
		}
		for _, ev := range evs {
			if month.Contains(ev.Day) {
				result = append(result, ev)
			}
		}
	}
	return result, nil
}

// SaveEmployee inserts or replaces an employee record.
func (m *Memory) SaveEmployee(_ context.Context, emp timeclock.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[emp.ID] = emp
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id timeclock.EmployeeID) (timeclock.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.employees[id]
	if !ok {
		return timeclock.Employee{}, timeclock.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]timeclock.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]timeclock.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		result = append(result, emp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
