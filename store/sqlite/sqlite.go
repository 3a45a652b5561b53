/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements punch-event and employee persistence (the timeclock
  repository interfaces) plus the roster entities the application layer
  owns: shifts, shift assignments, requests with conversation threads,
  and payslips. Each entity gets its own table and each write its own
  statement - a deliberate replacement for the original's single
  serialized blob rewritten wholesale on every mutation.

KEY TABLES:
  employees:         Profiles + optional contract configuration
  punch_events:      Clock actions; AUTOINCREMENT id is the
                     deterministic tie-break for equal timestamps
  shifts:            Shift templates (name, start, end)
  shift_assignments: Roster: who works which shift on which date
  requests:          Vacation/permission/communication requests
  conversations:     Threaded replies on a request
  payslips:          Uploaded payslip documents (Base64 payload)

RANGE QUERIES:
  The engine asks for exactly the slice it needs (one employee-day, one
  employee-range, one month), so the full dataset never has to be held
  in memory. idx_punch_employee_day serves the hot paths.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: readers don't block and crash recovery is cheaper.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - timeclock/store.go: Interface definitions
  - timeclock/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/timeclock"
)

// Store implements the timeclock repository interfaces plus roster
// persistence using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees (profile + optional contract; both contract columns are
	-- set together or not at all)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		contract_hours TEXT,
		contract_period TEXT,
		created_at TEXT NOT NULL
	);

	-- Punch events: the raw material of all reconciliation.
	-- AUTOINCREMENT keeps ids insertion-ordered, the deterministic
	-- tie-break for equal timestamps.
	CREATE TABLE IF NOT EXISTS punch_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		day TEXT NOT NULL,
		at_ms INTEGER NOT NULL,
		latitude REAL,
		longitude REAL,
		accuracy REAL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_punch_employee_day
		ON punch_events(employee_id, day);
	CREATE INDEX IF NOT EXISTS idx_punch_day
		ON punch_events(day);

	-- Shift templates
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Roster: one row per (day, shift, employee)
	CREATE TABLE IF NOT EXISTS shift_assignments (
		id TEXT PRIMARY KEY,
		day TEXT NOT NULL,
		shift_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		UNIQUE(day, shift_id, employee_id)
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_day
		ON shift_assignments(day);
	CREATE INDEX IF NOT EXISTS idx_assignments_employee_day
		ON shift_assignments(employee_id, day);

	-- Requests (vacation, permission, communication)
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		recipient_id TEXT,
		type TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		message TEXT NOT NULL,
		status TEXT NOT NULL,
		from_admin BOOLEAN NOT NULL DEFAULT FALSE,
		response TEXT,
		response_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee
		ON requests(employee_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON requests(status);

	-- Threaded replies on a request
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		author_name TEXT NOT NULL,
		from_admin BOOLEAN NOT NULL DEFAULT FALSE,
		message TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_request
		ON conversations(request_id);

	-- Payslip documents
	CREATE TABLE IF NOT EXISTS payslips (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		month TEXT NOT NULL,
		file_name TEXT NOT NULL,
		file_data TEXT NOT NULL,
		uploaded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payslips_employee_month
		ON payslips(employee_id, month);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PUNCH EVENTS - timeclock.EventStore
// =============================================================================

// AppendEvent inserts the punch and returns it with the assigned id.
func (s *Store) AppendEvent(ctx context.Context, ev timeclock.PunchEvent) (timeclock.PunchEvent, error) {
	var lat, lon, acc sql.NullFloat64
	if ev.Location != nil {
		lat = sql.NullFloat64{Float64: ev.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: ev.Location.Longitude, Valid: true}
		acc = sql.NullFloat64{Float64: ev.Location.Accuracy, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO punch_events (employee_id, kind, day, at_ms, latitude, longitude, accuracy, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(ev.EmployeeID), string(ev.Kind), ev.Day.String(), ev.At,
		lat, lon, acc, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return timeclock.PunchEvent{}, fmt.Errorf("append punch event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return timeclock.PunchEvent{}, fmt.Errorf("append punch event: %w", err)
	}
	ev.ID = id
	return ev, nil
}

const punchColumns = `id, employee_id, kind, day, at_ms, latitude, longitude, accuracy`

// EventsForEmployeeOnDate returns the employee's punches for one date,
// ordered by timestamp then id.
func (s *Store) EventsForEmployeeOnDate(ctx context.Context, id timeclock.EmployeeID, day timeclock.Date) ([]timeclock.PunchEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+punchColumns+` FROM punch_events
		WHERE employee_id = ? AND day = ?
		ORDER BY at_ms, id`,
		string(id), day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPunchEvents(rows)
}

// EventsForEmployeeInRange returns the employee's punches for the
// inclusive date range.
func (s *Store) EventsForEmployeeInRange(ctx context.Context, id timeclock.EmployeeID, from, to timeclock.Date) ([]timeclock.PunchEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+punchColumns+` FROM punch_events
		WHERE employee_id = ? AND day BETWEEN ? AND ?
		ORDER BY at_ms, id`,
		string(id), from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPunchEvents(rows)
}

// EventsInMonth returns every punch in the calendar month, optionally
// narrowed to one employee.
func (s *Store) EventsInMonth(ctx context.Context, month timeclock.YearMonth, filter timeclock.EmployeeFilter) ([]timeclock.PunchEvent, error) {
	query := `
		SELECT ` + punchColumns + ` FROM punch_events
		WHERE day BETWEEN ? AND ?`
	args := []any{month.First().String(), month.Last().String()}
	if !filter.All() {
		query += ` AND employee_id = ?`
		args = append(args, string(filter.ID()))
	}
	query += ` ORDER BY at_ms, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPunchEvents(rows)
}

func scanPunchEvents(rows *sql.Rows) ([]timeclock.PunchEvent, error) {
	var events []timeclock.PunchEvent
	for rows.Next() {
		var (
			ev            timeclock.PunchEvent
			empID, kind   string
			day           string
			lat, lon, acc sql.NullFloat64
		)
		if err := rows.Scan(&ev.ID, &empID, &kind, &day, &ev.At, &lat, &lon, &acc); err != nil {
			return nil, err
		}
		parsed, err := timeclock.ParseDate(day)
		if err != nil {
			return nil, err
		}
		ev.EmployeeID = timeclock.EmployeeID(empID)
		ev.Kind = timeclock.PunchKind(kind)
		ev.Day = parsed
		if lat.Valid {
			ev.Location = &timeclock.Location{
				Latitude:  lat.Float64,
				Longitude: lon.Float64,
				Accuracy:  acc.Float64,
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// =============================================================================
// EMPLOYEES - timeclock.EmployeeStore
// =============================================================================

// SaveEmployee inserts or updates an employee record.
func (s *Store) SaveEmployee(ctx context.Context, emp timeclock.Employee) error {
	var hours, period sql.NullString
	if emp.Contract != nil {
		hours = sql.NullString{String: emp.Contract.HoursPerPeriod.String(), Valid: true}
		period = sql.NullString{String: string(emp.Contract.Kind), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, role, password_hash, contract_hours, contract_period, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			password_hash = excluded.password_hash,
			contract_hours = excluded.contract_hours,
			contract_period = excluded.contract_period`,
		string(emp.ID), emp.Name, string(emp.Role), emp.PasswordHash,
		hours, period, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save employee: %w", err)
	}
	return nil
}

const employeeColumns = `id, name, role, password_hash, contract_hours, contract_period`

// GetEmployee returns the employee or timeclock.ErrEmployeeNotFound.
func (s *Store) GetEmployee(ctx context.Context, id timeclock.EmployeeID) (timeclock.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+employeeColumns+` FROM employees WHERE id = ?`, string(id))
	return scanEmployee(row)
}

// GetEmployeeByName looks an employee up by login name.
func (s *Store) GetEmployeeByName(ctx context.Context, name string) (timeclock.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+employeeColumns+` FROM employees WHERE name = ?`, name)
	return scanEmployee(row)
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]timeclock.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+employeeColumns+` FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []timeclock.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes the employee record. Punch history is kept:
// the report generator skips events of employees no longer on record.
func (s *Store) DeleteEmployee(ctx context.Context, id timeclock.EmployeeID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return timeclock.ErrEmployeeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (timeclock.Employee, error) {
	var (
		emp           timeclock.Employee
		id, role      string
		hours, period sql.NullString
	)
	err := row.Scan(&id, &emp.Name, &role, &emp.PasswordHash, &hours, &period)
	if err == sql.ErrNoRows {
		return timeclock.Employee{}, timeclock.ErrEmployeeNotFound
	}
	if err != nil {
		return timeclock.Employee{}, err
	}
	emp.ID = timeclock.EmployeeID(id)
	emp.Role = timeclock.Role(role)

	// Both contract columns are written together; treat a half-set pair
	// as no contract rather than guessing.
	if hours.Valid && period.Valid {
		value, err := decimal.NewFromString(hours.String)
		if err != nil {
			return timeclock.Employee{}, fmt.Errorf("corrupt contract hours for %s: %w", id, err)
		}
		emp.Contract = &timeclock.Contract{
			HoursPerPeriod: value,
			Kind:           timeclock.PeriodKind(period.String),
		}
	}
	return emp, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

// Shift is a reusable shift template.
type Shift struct {
	ID        string
	Name      string
	StartTime string // "HH:MM"
	EndTime   string
}

// SaveShift inserts or updates a shift template.
func (s *Store) SaveShift(ctx context.Context, sh Shift) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, name, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_time = excluded.start_time,
			end_time = excluded.end_time`,
		sh.ID, sh.Name, sh.StartTime, sh.EndTime, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetShift returns the shift or nil if it does not exist.
func (s *Store) GetShift(ctx context.Context, id string) (*Shift, error) {
	var sh Shift
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_time, end_time FROM shifts WHERE id = ?`, id).
		Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// ListShifts returns all shift templates ordered by start time.
func (s *Store) ListShifts(ctx context.Context) ([]Shift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, start_time, end_time FROM shifts ORDER BY start_time, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []Shift
	for rows.Next() {
		var sh Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime); err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

// DeleteShift removes the shift template and its roster rows.
func (s *Store) DeleteShift(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_assignments WHERE shift_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// SHIFT ASSIGNMENTS
// =============================================================================

// ShiftAssignment places one employee on one shift for one date.
type ShiftAssignment struct {
	ID         string
	Day        timeclock.Date
	ShiftID    string
	EmployeeID timeclock.EmployeeID
}

// ReplaceAssignments atomically rewrites the roster for (day, shift):
// previous assignments for that pair are dropped and the given
// employees inserted. newID supplies identifiers for the new rows.
func (s *Store) ReplaceAssignments(ctx context.Context, day timeclock.Date, shiftID string, employeeIDs []timeclock.EmployeeID, newID func() string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM shift_assignments WHERE day = ? AND shift_id = ?`,
		day.String(), shiftID); err != nil {
		return err
	}
	for _, empID := range employeeIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO shift_assignments (id, day, shift_id, employee_id)
			VALUES (?, ?, ?, ?)`,
			newID(), day.String(), shiftID, string(empID)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RemoveAssignments clears the roster for (day, shift).
func (s *Store) RemoveAssignments(ctx context.Context, day timeclock.Date, shiftID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM shift_assignments WHERE day = ? AND shift_id = ?`,
		day.String(), shiftID)
	return err
}

// AssignmentsOn returns every assignment for the date.
func (s *Store) AssignmentsOn(ctx context.Context, day timeclock.Date) ([]ShiftAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, day, shift_id, employee_id FROM shift_assignments
		WHERE day = ? ORDER BY shift_id, employee_id`, day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

// AssignmentFor returns the employee's assignment on the date, or nil.
func (s *Store) AssignmentFor(ctx context.Context, id timeclock.EmployeeID, day timeclock.Date) (*ShiftAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, day, shift_id, employee_id FROM shift_assignments
		WHERE employee_id = ? AND day = ? LIMIT 1`, string(id), day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments, err := scanAssignments(rows)
	if err != nil || len(assignments) == 0 {
		return nil, err
	}
	return &assignments[0], nil
}

func scanAssignments(rows *sql.Rows) ([]ShiftAssignment, error) {
	var assignments []ShiftAssignment
	for rows.Next() {
		var (
			a          ShiftAssignment
			day, empID string
		)
		if err := rows.Scan(&a.ID, &day, &a.ShiftID, &empID); err != nil {
			return nil, err
		}
		parsed, err := timeclock.ParseDate(day)
		if err != nil {
			return nil, err
		}
		a.Day = parsed
		a.EmployeeID = timeclock.EmployeeID(empID)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// =============================================================================
// REQUESTS + CONVERSATIONS
// =============================================================================

// RequestRecord is a vacation, permission or communication request.
// An empty RecipientID means the request is addressed to the admins.
type RequestRecord struct {
	ID          string
	EmployeeID  timeclock.EmployeeID
	RecipientID string
	Type        string
	StartDate   string
	EndDate     string
	Message     string
	Status      string
	FromAdmin   bool
	Response    string
	ResponseAt  string
	CreatedAt   string
}

// ConversationRecord is one reply in a request thread.
type ConversationRecord struct {
	ID        string
	RequestID string
	Author    string
	FromAdmin bool
	Message   string
	CreatedAt string
}

// SaveRequest inserts a request, or updates its resolution fields when
// the id already exists.
func (s *Store) SaveRequest(ctx context.Context, r RequestRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (id, employee_id, recipient_id, type, start_date, end_date,
			message, status, from_admin, response, response_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			response = excluded.response,
			response_at = excluded.response_at`,
		r.ID, string(r.EmployeeID), nullable(r.RecipientID), r.Type,
		nullable(r.StartDate), nullable(r.EndDate), r.Message, r.Status,
		r.FromAdmin, nullable(r.Response), nullable(r.ResponseAt), r.CreatedAt)
	return err
}

const requestColumns = `id, employee_id, recipient_id, type, start_date, end_date,
	message, status, from_admin, response, response_at, created_at`

// GetRequest returns the request or nil if it does not exist.
func (s *Store) GetRequest(ctx context.Context, id string) (*RequestRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+requestColumns+` FROM requests WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanRequests(rows)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[0], nil
}

// ListRequests returns requests visible to the filtered employee
// (their own plus ones addressed to them), newest first.
func (s *Store) ListRequests(ctx context.Context, filter timeclock.EmployeeFilter) ([]RequestRecord, error) {
	query := `SELECT ` + requestColumns + ` FROM requests`
	var args []any
	if !filter.All() {
		query += ` WHERE employee_id = ? OR recipient_id = ?`
		args = append(args, string(filter.ID()), string(filter.ID()))
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func scanRequests(rows *sql.Rows) ([]RequestRecord, error) {
	var records []RequestRecord
	for rows.Next() {
		var (
			r                                           RequestRecord
			empID                                       string
			recipient, start, end, response, responseAt sql.NullString
		)
		if err := rows.Scan(&r.ID, &empID, &recipient, &r.Type, &start, &end,
			&r.Message, &r.Status, &r.FromAdmin, &response, &responseAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.EmployeeID = timeclock.EmployeeID(empID)
		r.RecipientID = recipient.String
		r.StartDate = start.String
		r.EndDate = end.String
		r.Response = response.String
		r.ResponseAt = responseAt.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteRequest archives a request by removing it together with its
// conversation thread.
func (s *Store) DeleteRequest(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE request_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// AddConversation appends one reply to a request thread.
func (s *Store) AddConversation(ctx context.Context, c ConversationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, request_id, author_name, from_admin, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.RequestID, c.Author, c.FromAdmin, c.Message, c.CreatedAt)
	return err
}

// ConversationsFor returns the thread for a request in chronological
// order.
func (s *Store) ConversationsFor(ctx context.Context, requestID string) ([]ConversationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, author_name, from_admin, message, created_at
		FROM conversations WHERE request_id = ? ORDER BY created_at, id`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ConversationRecord
	for rows.Next() {
		var c ConversationRecord
		if err := rows.Scan(&c.ID, &c.RequestID, &c.Author, &c.FromAdmin, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, rows.Err()
}

// =============================================================================
// PAYSLIPS
// =============================================================================

// PayslipRecord is an uploaded payslip document. FileData is the
// Base64-encoded payload; the store does not decode it.
type PayslipRecord struct {
	ID         string
	EmployeeID timeclock.EmployeeID
	Month      string // "YYYY-MM"
	FileName   string
	FileData   string
	UploadedAt string
}

// SavePayslip inserts a payslip document.
func (s *Store) SavePayslip(ctx context.Context, p PayslipRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payslips (id, employee_id, month, file_name, file_data, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.EmployeeID), p.Month, p.FileName, p.FileData, p.UploadedAt)
	return err
}

// GetPayslip returns the full payslip (payload included) or nil.
func (s *Store) GetPayslip(ctx context.Context, id string) (*PayslipRecord, error) {
	var p PayslipRecord
	var empID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, month, file_name, file_data, uploaded_at
		FROM payslips WHERE id = ?`, id).
		Scan(&p.ID, &empID, &p.Month, &p.FileName, &p.FileData, &p.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.EmployeeID = timeclock.EmployeeID(empID)
	return &p, nil
}

// ListPayslips returns payslip metadata (payload omitted) for the
// filtered employee, optionally narrowed to one month, newest first.
func (s *Store) ListPayslips(ctx context.Context, filter timeclock.EmployeeFilter, month string) ([]PayslipRecord, error) {
	query := `
		SELECT id, employee_id, month, file_name, '', uploaded_at
		FROM payslips WHERE 1=1`
	var args []any
	if !filter.All() {
		query += ` AND employee_id = ?`
		args = append(args, string(filter.ID()))
	}
	if month != "" {
		query += ` AND month = ?`
		args = append(args, month)
	}
	query += ` ORDER BY month DESC, file_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PayslipRecord
	for rows.Next() {
		var p PayslipRecord
		var empID string
		if err := rows.Scan(&p.ID, &empID, &p.Month, &p.FileName, &p.FileData, &p.UploadedAt); err != nil {
			return nil, err
		}
		p.EmployeeID = timeclock.EmployeeID(empID)
		records = append(records, p)
	}
	return records, rows.Err()
}

// DeletePayslip removes a payslip document.
func (s *Store) DeletePayslip(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM payslips WHERE id = ?`, id)
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
