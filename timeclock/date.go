package timeclock

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day, local wall clock (no timezone handling by design)
// =============================================================================

// Date is a calendar day. All timestamps in the system are treated as
// local wall clock; Date carries no zone of its own.
type Date struct {
	t time.Time // normalized to midnight UTC
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(at time.Time) Date {
	return NewDate(at.Year(), at.Month(), at.Day())
}

// ParseDate parses "YYYY-MM-DD". Unparseable input is an explicit
// validation error, never a silent zero date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// Time returns the midnight instant backing the date.
func (d Date) Time() time.Time { return d.t }

// StartOfISOWeek returns the most recent Monday (ISO weekday convention,
// Monday=1..Sunday=7); a Monday returns itself.
func (d Date) StartOfISOWeek() Date {
	wd := int(d.Weekday())
	if wd == 0 { // time.Sunday
		wd = 7
	}
	return d.AddDays(1 - wd)
}

// StartOfMonth returns the first day of the date's month.
func (d Date) StartOfMonth() Date { return NewDate(d.Year(), d.Month(), 1) }

// StartOfYear returns January 1 of the date's year.
func (d Date) StartOfYear() Date { return NewDate(d.Year(), time.January, 1) }

// DaysBetween is the calendar difference in whole days (to - from).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// YEAR-MONTH - Report selection window
// =============================================================================

type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// First returns the first day of the month.
func (ym YearMonth) First() Date { return NewDate(ym.Year, ym.Month, 1) }

// Last returns the last day of the month.
func (ym YearMonth) Last() Date {
	return NewDate(ym.Year, ym.Month+1, 1).AddDays(-1)
}

// Contains reports whether the date falls inside the month.
func (ym YearMonth) Contains(d Date) bool {
	return d.Year() == ym.Year && d.Month() == ym.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
