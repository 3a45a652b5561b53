/*
handlers_test.go - HTTP-level tests for the API

Exercises the full stack: router -> handlers -> engine -> in-memory
SQLite. Requests carry explicit timestamps/dates so every figure is
reproducible.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/store/sqlite"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := api.NewHandler(store, zerolog.Nop())
	return api.NewRouter(h, []string{"*"})
}

// do runs one request against the router and decodes the JSON answer
// into out (skipped when out is nil).
func do(t *testing.T, router http.Handler, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out), "body: %s", rec.Body.String())
	}
	return rec
}

func createEmployee(t *testing.T, router http.Handler, name string, hours float64, period string) api.EmployeeDTO {
	t.Helper()
	req := map[string]any{"name": name, "password": "secret99"}
	if hours > 0 {
		req["contract_hours"] = hours
		req["contract_period"] = period
	}
	var dto api.EmployeeDTO
	rec := do(t, router, http.MethodPost, "/api/employees", req, &dto)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return dto
}

func punch(t *testing.T, router http.Handler, empID, kind, at string) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/employees/"+empID+"/punches",
		map[string]any{"kind": kind, "at": at}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// =============================================================================
// AUTH + EMPLOYEES
// =============================================================================

func TestLogin(t *testing.T) {
	router := newTestRouter(t)
	created := createEmployee(t, router, "Ana", 40, "weekly")

	var dto api.EmployeeDTO
	rec := do(t, router, http.MethodPost, "/api/login",
		map[string]any{"name": "Ana", "password": "secret99"}, &dto)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, dto.ID)

	rec = do(t, router, http.MethodPost, "/api/login",
		map[string]any{"name": "Ana", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/login",
		map[string]any{"name": "Nobody", "password": "secret99"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEmployeeCRUD(t *testing.T) {
	router := newTestRouter(t)
	created := createEmployee(t, router, "Ana", 40, "weekly")
	require.NotNil(t, created.Contract)
	assert.Equal(t, "weekly", created.Contract.Period)
	assert.Equal(t, "employee", created.Role)

	// Update drops the contract by omitting it.
	var updated api.EmployeeDTO
	rec := do(t, router, http.MethodPut, "/api/employees/"+created.ID,
		map[string]any{"name": "Ana Maria", "role": "admin"}, &updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "admin", updated.Role)
	assert.Nil(t, updated.Contract)

	var list []api.EmployeeDTO
	rec = do(t, router, http.MethodGet, "/api/employees", nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)

	rec = do(t, router, http.MethodDelete, "/api/employees/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/employees/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEmployee_ValidationFailures(t *testing.T) {
	router := newTestRouter(t)

	// Hours without a period
	rec := do(t, router, http.MethodPost, "/api/employees",
		map[string]any{"name": "Ana", "password": "secret99", "contract_hours": 40}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Short password
	rec = do(t, router, http.MethodPost, "/api/employees",
		map[string]any{"name": "Ana", "password": "ab"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown period kind
	rec = do(t, router, http.MethodPost, "/api/employees",
		map[string]any{"name": "Ana", "password": "secret99", "contract_hours": 40, "contract_period": "fortnightly"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// CLOCK
// =============================================================================

func TestPunchAndDayStatus(t *testing.T) {
	router := newTestRouter(t)
	emp := createEmployee(t, router, "Ana", 40, "weekly")

	punch(t, router, emp.ID, "clock_in", "2025-06-02T09:00:00Z")
	punch(t, router, emp.ID, "pause_start", "2025-06-02T13:00:00Z")
	punch(t, router, emp.ID, "pause_end", "2025-06-02T13:30:00Z")
	punch(t, router, emp.ID, "clock_out", "2025-06-02T17:30:00Z")

	var status api.DayStatusDTO
	rec := do(t, router, http.MethodGet,
		"/api/employees/"+emp.ID+"/punches?date=2025-06-02", nil, &status)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "2025-06-02", status.Date)
	assert.Len(t, status.Events, 4)
	assert.Equal(t, "8h 0m", status.Worked)
	assert.Equal(t, "0h 30m", status.Paused)
	assert.Equal(t, []string{"clock_in"}, status.Permitted)
}

func TestPunch_MidDay_PermittedActions(t *testing.T) {
	router := newTestRouter(t)
	emp := createEmployee(t, router, "Ana", 40, "weekly")
	punch(t, router, emp.ID, "clock_in", "2025-06-02T09:00:00Z")

	var status api.DayStatusDTO
	rec := do(t, router, http.MethodGet,
		"/api/employees/"+emp.ID+"/punches?date=2025-06-02", nil, &status)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"clock_out", "pause_start"}, status.Permitted)
}

func TestPunch_Invalid(t *testing.T) {
	router := newTestRouter(t)
	emp := createEmployee(t, router, "Ana", 40, "weekly")

	rec := do(t, router, http.MethodPost, "/api/employees/"+emp.ID+"/punches",
		map[string]any{"kind": "lunch"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/employees/"+emp.ID+"/punches",
		map[string]any{"kind": "clock_in", "at": "yesterday"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/employees/nope/punches",
		map[string]any{"kind": "clock_in"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// BALANCE
// =============================================================================

func TestBalance_WithContract(t *testing.T) {
	router := newTestRouter(t)
	emp := createEmployee(t, router, "Ana", 40, "weekly")

	// 8h on Monday June 2; balance asked as of Thursday June 5.
	punch(t, router, emp.ID, "clock_in", "2025-06-02T09:00:00Z")
	punch(t, router, emp.ID, "clock_out", "2025-06-02T17:00:00Z")

	var dto api.BalanceDTO
	rec := do(t, router, http.MethodGet,
		"/api/employees/"+emp.ID+"/balance?date=2025-06-05", nil, &dto)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, dto.Applicable)
	require.NotNil(t, dto.Period)
	assert.Equal(t, "weekly", dto.Period.PeriodKind)
	assert.Equal(t, "2025-06-02", dto.Period.RangeStart)
	assert.Equal(t, "8.00", dto.Period.WorkedHours)
	assert.Equal(t, "40.00", dto.Period.TargetHours)
	assert.Equal(t, "20.00", dto.Period.ProgressPercent)

	require.NotNil(t, dto.Annual)
	assert.Equal(t, 2025, dto.Annual.Year)
	assert.Equal(t, "8.00", dto.Annual.WorkedHours)
}

func TestBalance_NoContract_NotApplicable(t *testing.T) {
	router := newTestRouter(t)
	emp := createEmployee(t, router, "Ana", 0, "")

	var dto api.BalanceDTO
	rec := do(t, router, http.MethodGet,
		"/api/employees/"+emp.ID+"/balance?date=2025-06-05", nil, &dto)

	require.Equal(t, http.StatusOK, rec.Code, "no contract is a valid answer, not an error")
	assert.False(t, dto.Applicable)
	assert.Nil(t, dto.Period)
	assert.Nil(t, dto.Annual)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestMonthlyReport(t *testing.T) {
	router := newTestRouter(t)
	ana := createEmployee(t, router, "Ana", 40, "weekly")
	bruno := createEmployee(t, router, "Bruno", 0, "")

	punch(t, router, ana.ID, "clock_in", "2025-06-02T09:00:00Z")
	punch(t, router, ana.ID, "clock_out", "2025-06-02T17:00:00Z")
	punch(t, router, bruno.ID, "clock_in", "2025-06-03T10:00:00Z")
	punch(t, router, bruno.ID, "clock_out", "2025-06-03T14:00:00Z")

	var rows []api.ReportRowDTO
	rec := do(t, router, http.MethodGet, "/api/reports?month=2025-06", nil, &rows)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, rows, 2)
	assert.Equal(t, "2025-06-03", rows[0].Date, "date descending")
	assert.Equal(t, "Bruno", rows[0].EmployeeName)
	assert.Equal(t, "4h 0m", rows[0].Worked)
	assert.Equal(t, "8h 0m", rows[1].Worked)

	rows = nil
	rec = do(t, router, http.MethodGet,
		fmt.Sprintf("/api/reports?month=2025-06&employee=%s", ana.ID), nil, &rows)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].EmployeeName)

	rec = do(t, router, http.MethodGet, "/api/reports?month=junio", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnualSummary_SortedByBalanceDesc(t *testing.T) {
	router := newTestRouter(t)
	// Ana works a surplus against a tiny quota, Bruno a deficit against
	// a large one, Carla has no contract.
	ana := createEmployee(t, router, "Ana", 7, "weekly")
	bruno := createEmployee(t, router, "Bruno", 40, "weekly")
	createEmployee(t, router, "Carla", 0, "")

	for _, id := range []string{ana.ID, bruno.ID} {
		punch(t, router, id, "clock_in", "2025-01-03T09:00:00Z")
		punch(t, router, id, "clock_out", "2025-01-03T17:00:00Z")
	}

	var rows []api.AnnualSummaryRowDTO
	rec := do(t, router, http.MethodGet, "/api/reports/annual?date=2025-01-08", nil, &rows)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, rows, 3)
	assert.Equal(t, "Ana", rows[0].EmployeeName, "largest surplus first")
	assert.True(t, rows[0].Applicable)
	assert.Equal(t, "Bruno", rows[1].EmployeeName)
	assert.Equal(t, "Carla", rows[2].EmployeeName, "no contract sorts last")
	assert.False(t, rows[2].Applicable)
	assert.Empty(t, rows[2].BalanceHours)
}

// =============================================================================
// SHIFTS
// =============================================================================

func TestShiftRoster(t *testing.T) {
	router := newTestRouter(t)
	ana := createEmployee(t, router, "Ana", 40, "weekly")

	var shift api.ShiftDTO
	rec := do(t, router, http.MethodPost, "/api/shifts",
		map[string]any{"name": "Morning", "start_time": "08:00", "end_time": "16:00"}, &shift)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/shifts/assignments",
		map[string]any{"date": "2025-06-02", "shift_id": shift.ID, "employee_ids": []string{ana.ID}}, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	var assignments []api.AssignmentDTO
	rec = do(t, router, http.MethodGet, "/api/shifts/assignments?date=2025-06-02", nil, &assignments)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, assignments, 1)
	assert.Equal(t, ana.ID, assignments[0].EmployeeID)

	// Unknown shift or malformed time is rejected.
	rec = do(t, router, http.MethodPost, "/api/shifts/assignments",
		map[string]any{"date": "2025-06-02", "shift_id": "nope", "employee_ids": []string{ana.ID}}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/shifts",
		map[string]any{"name": "Bad", "start_time": "8am", "end_time": "16:00"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEmployeeShift(t *testing.T) {
	router := newTestRouter(t)
	ana := createEmployee(t, router, "Ana", 40, "weekly")

	var shift api.ShiftDTO
	rec := do(t, router, http.MethodPost, "/api/shifts",
		map[string]any{"name": "Morning", "start_time": "08:00", "end_time": "16:00"}, &shift)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/shifts/assignments",
		map[string]any{"date": "2025-06-02", "shift_id": shift.ID, "employee_ids": []string{ana.ID}}, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	// Rostered day: the shift comes back populated.
	var got api.EmployeeShiftDTO
	rec = do(t, router, http.MethodGet, "/api/employees/"+ana.ID+"/shift?date=2025-06-02", nil, &got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, got.Shift)
	assert.Equal(t, "Morning", got.Shift.Name)
	assert.Equal(t, "2025-06-02", got.Date)

	// Off-roster day: shift is null, still 200.
	rec = do(t, router, http.MethodGet, "/api/employees/"+ana.ID+"/shift?date=2025-06-03", nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Shift)

	rec = do(t, router, http.MethodGet, "/api/employees/"+ana.ID+"/shift?date=junk", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// REQUESTS + PAYSLIPS
// =============================================================================

func TestRequestLifecycle(t *testing.T) {
	router := newTestRouter(t)
	ana := createEmployee(t, router, "Ana", 40, "weekly")

	var req api.RequestDTO
	rec := do(t, router, http.MethodPost, "/api/employees/"+ana.ID+"/requests",
		map[string]any{"type": "vacation", "start_date": "2025-07-01", "end_date": "2025-07-05", "message": "summer break"}, &req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pending", req.Status)

	var resolved api.RequestDTO
	rec = do(t, router, http.MethodPost, "/api/requests/"+req.ID+"/respond",
		map[string]any{"status": "approved", "response": "enjoy"}, &resolved)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", resolved.Status)

	// Second resolution conflicts.
	rec = do(t, router, http.MethodPost, "/api/requests/"+req.ID+"/respond",
		map[string]any{"status": "rejected"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Conversation thread.
	rec = do(t, router, http.MethodPost,
		fmt.Sprintf("/api/requests/%s/conversations?author=%s", req.ID, ana.ID),
		map[string]any{"message": "thanks!"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var thread []api.ConversationDTO
	rec = do(t, router, http.MethodGet, "/api/requests/"+req.ID+"/conversations", nil, &thread)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, thread, 1)
	assert.Equal(t, "Ana", thread[0].Author)

	// Archiving removes the request and its thread.
	rec = do(t, router, http.MethodDelete, "/api/requests/"+req.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/requests/"+req.ID+"/conversations", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/requests/"+req.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayslipLifecycle(t *testing.T) {
	router := newTestRouter(t)
	ana := createEmployee(t, router, "Ana", 40, "weekly")

	var uploaded api.PayslipDTO
	rec := do(t, router, http.MethodPost, "/api/payslips",
		map[string]any{"employee_id": ana.ID, "month": "2025-06", "file_name": "june.pdf", "file_data": "JVBERi0xLjQ="}, &uploaded)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Empty(t, uploaded.FileData)

	var list []api.PayslipDTO
	rec = do(t, router, http.MethodGet, "/api/payslips?employee="+ana.ID, nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].FileData)

	var got api.PayslipDTO
	rec = do(t, router, http.MethodGet, "/api/payslips/"+uploaded.ID, nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "JVBERi0xLjQ=", got.FileData)

	// Not Base64
	rec = do(t, router, http.MethodPost, "/api/payslips",
		map[string]any{"employee_id": ana.ID, "month": "2025-06", "file_name": "x.pdf", "file_data": "not base64!!"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
