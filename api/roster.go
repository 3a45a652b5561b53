/*
roster.go - Login, employee management and shift planning handlers

PURPOSE:
  The staff-management side of the API: authentication, employee CRUD
  with contract configuration, and the shift roster.

ENDPOINTS (this file):
  Auth:
    POST   /api/login                 Name + password check (bcrypt)

  Employees:
    GET    /api/employees             List all employees
    POST   /api/employees             Create employee
    GET    /api/employees/{id}        Get employee
    PUT    /api/employees/{id}        Update employee
    DELETE /api/employees/{id}        Delete employee (punches kept)

  Shifts:
    GET    /api/shifts                List shift templates
    POST   /api/shifts                Create shift template
    PUT    /api/shifts/{id}           Update shift template
    DELETE /api/shifts/{id}           Delete shift template + roster
    GET    /api/shifts/assignments?date=  Roster for a date
    POST   /api/shifts/assignments        Replace roster for (date, shift)
    GET    /api/employees/{id}/shift?date=  One employee's shift that day

PASSWORDS:
  Stored as bcrypt hashes, compared with bcrypt.CompareHashAndPassword.
  The hash never appears in any response.

SEE ALSO:
  - handlers.go: Handler context, error helpers
  - store/sqlite/sqlite.go: Persistence
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/timeclock"
)

// =============================================================================
// AUTH
// =============================================================================

// Login handles POST /api/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	emp, err := h.Store.GetEmployeeByName(r.Context(), req.Name)
	if err != nil {
		// Same answer for unknown name and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	h.Log.Info().Str("employee", string(emp.ID)).Msg("login")
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// ListEmployees handles GET /api/employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "failed to list employees")
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, emp := range employees {
		dtos = append(dtos, toEmployeeDTO(emp))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee handles GET /api/employees/{id}.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), timeclock.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err, "employee lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee handles POST /api/employees.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	contract, err := contractFromRequest(req.ContractHours, req.ContractPeriod)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contract", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.writeDomainError(w, err, "failed to hash password")
		return
	}

	role := timeclock.RoleEmployee
	if req.Role != "" {
		role = timeclock.Role(req.Role)
	}
	emp := timeclock.Employee{
		ID:           timeclock.EmployeeID(uuid.NewString()),
		Name:         req.Name,
		Role:         role,
		PasswordHash: string(hash),
		Contract:     contract,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.writeDomainError(w, err, "failed to save employee")
		return
	}

	h.Log.Info().Str("employee", string(emp.ID)).Str("name", emp.Name).Msg("employee created")
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// UpdateEmployee handles PUT /api/employees/{id}.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), timeclock.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err, "employee lookup failed")
		return
	}

	var req UpdateEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	contract, err := contractFromRequest(req.ContractHours, req.ContractPeriod)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contract", err)
		return
	}

	emp.Name = req.Name
	emp.Contract = contract
	if req.Role != "" {
		emp.Role = timeclock.Role(req.Role)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.writeDomainError(w, err, "failed to hash password")
			return
		}
		emp.PasswordHash = string(hash)
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.writeDomainError(w, err, "failed to save employee")
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// DeleteEmployee handles DELETE /api/employees/{id}.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := timeclock.EmployeeID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		h.writeDomainError(w, err, "failed to delete employee")
		return
	}
	h.Log.Info().Str("employee", string(id)).Msg("employee deleted")
	w.WriteHeader(http.StatusNoContent)
}

// contractFromRequest builds the optional contract, validating it the
// way the engine expects.
func contractFromRequest(hours *float64, period string) (*timeclock.Contract, error) {
	if hours == nil {
		return nil, nil
	}
	c := &timeclock.Contract{
		HoursPerPeriod: decimal.NewFromFloat(*hours),
		Kind:           timeclock.PeriodKind(period),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

// ListShifts handles GET /api/shifts.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Store.ListShifts(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "failed to list shifts")
		return
	}

	dtos := make([]ShiftDTO, 0, len(shifts))
	for _, sh := range shifts {
		dtos = append(dtos, toShiftDTO(sh))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateShift handles POST /api/shifts.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	sh := sqlite.Shift{
		ID:        uuid.NewString(),
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := h.Store.SaveShift(r.Context(), sh); err != nil {
		h.writeDomainError(w, err, "failed to save shift")
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(sh))
}

// UpdateShift handles PUT /api/shifts/{id}.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetShift(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err, "shift lookup failed")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "shift not found", nil)
		return
	}

	var req CreateShiftRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	sh := sqlite.Shift{ID: id, Name: req.Name, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := h.Store.SaveShift(r.Context(), sh); err != nil {
		h.writeDomainError(w, err, "failed to save shift")
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(sh))
}

// DeleteShift handles DELETE /api/shifts/{id}.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteShift(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err, "failed to delete shift")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAssignments handles GET /api/shifts/assignments?date=YYYY-MM-DD.
func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	day, err := timeclock.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	assignments, err := h.Store.AssignmentsOn(r.Context(), day)
	if err != nil {
		h.writeDomainError(w, err, "failed to list assignments")
		return
	}

	dtos := make([]AssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		dtos = append(dtos, toAssignmentDTO(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployeeShift handles GET /api/employees/{id}/shift?date=YYYY-MM-DD.
// The clock screen uses this to show the employee's rostered shift for
// the day; shift is null when the employee is not rostered.
func (h *Handler) GetEmployeeShift(w http.ResponseWriter, r *http.Request) {
	id := timeclock.EmployeeID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		h.writeDomainError(w, err, "employee lookup failed")
		return
	}

	day, err := timeclock.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	out := EmployeeShiftDTO{EmployeeID: string(id), Date: day.String()}
	assignment, err := h.Store.AssignmentFor(r.Context(), id, day)
	if err != nil {
		h.writeDomainError(w, err, "assignment lookup failed")
		return
	}
	if assignment != nil {
		sh, err := h.Store.GetShift(r.Context(), assignment.ShiftID)
		if err != nil {
			h.writeDomainError(w, err, "shift lookup failed")
			return
		}
		if sh != nil {
			dto := toShiftDTO(*sh)
			out.Shift = &dto
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// AssignShift handles POST /api/shifts/assignments. The request
// replaces the full roster for (date, shift); an empty employee list
// clears it.
func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req AssignShiftRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	day, err := timeclock.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	sh, err := h.Store.GetShift(r.Context(), req.ShiftID)
	if err != nil {
		h.writeDomainError(w, err, "shift lookup failed")
		return
	}
	if sh == nil {
		writeError(w, http.StatusNotFound, "shift not found", nil)
		return
	}

	ids := make([]timeclock.EmployeeID, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		if _, err := h.Store.GetEmployee(r.Context(), timeclock.EmployeeID(id)); err != nil {
			h.writeDomainError(w, err, "employee lookup failed")
			return
		}
		ids = append(ids, timeclock.EmployeeID(id))
	}

	if err := h.Store.ReplaceAssignments(r.Context(), day, req.ShiftID, ids, uuid.NewString); err != nil {
		h.writeDomainError(w, err, "failed to save assignments")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
