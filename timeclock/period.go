/*
period.go - Range aggregation over daily records

PURPOSE:
  Sums per-day net worked time over an arbitrary inclusive date range
  and converts to hours. Dates with no events contribute zero; the date
  set is neither assumed contiguous nor pre-sorted.
*/
package timeclock

import (
	"context"

	"github.com/shopspring/decimal"
)

// PeriodAggregator partitions an employee's events by calendar date,
// runs the daily state machine per date, and sums net milliseconds.
// Cache is optional; when set, per-day records are memoized under the
// DayCache invalidation contract.
type PeriodAggregator struct {
	Events EventStore
	Cache  *DayCache
}

// AggregateRange returns the hours worked in [from, to] inclusive.
func (p *PeriodAggregator) AggregateRange(ctx context.Context, id EmployeeID, from, to Date) (decimal.Decimal, error) {
	if to.Before(from) {
		return decimal.Zero, ErrInvalidPeriod
	}

	events, err := p.Events.EventsForEmployeeInRange(ctx, id, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	byDay := make(map[string][]PunchEvent)
	days := make(map[string]Date)
	for _, ev := range events {
		k := ev.Day.String()
		byDay[k] = append(byDay[k], ev)
		days[k] = ev.Day
	}

	var totalMs int64
	for k, dayEvents := range byDay {
		rec := p.dayRecord(id, days[k], dayEvents)
		totalMs += rec.NetMs()
	}
	return HoursFromMs(totalMs), nil
}

// DayRecord returns the reconciled record for a single employee-day,
// consulting the cache when one is configured.
func (p *PeriodAggregator) DayRecord(ctx context.Context, id EmployeeID, day Date) (DailyWorkRecord, error) {
	if p.Cache != nil {
		if rec, ok := p.Cache.Get(id, day); ok {
			return rec, nil
		}
	}
	events, err := p.Events.EventsForEmployeeOnDate(ctx, id, day)
	if err != nil {
		return DailyWorkRecord{}, err
	}
	return p.dayRecord(id, day, events), nil
}

func (p *PeriodAggregator) dayRecord(id EmployeeID, day Date, events []PunchEvent) DailyWorkRecord {
	if p.Cache != nil {
		if rec, ok := p.Cache.Get(id, day); ok {
			return rec
		}
	}
	rec := AggregateDay(id, day, events)
	if p.Cache != nil {
		p.Cache.Put(rec)
	}
	return rec
}
