/*
handlers.go - HTTP handlers for the clock, balances and reports

PURPOSE:
  Exposes the time-accounting engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS (this file):
  Clock:
    POST   /api/employees/{id}/punches       Record a clock action
    GET    /api/employees/{id}/punches?date= Day status (events, totals,
                                             permitted next actions)

  Balance:
    GET    /api/employees/{id}/balance?date= Period progress + annual
                                             balance

  Reports:
    GET    /api/reports?month=&employee=     Monthly per-day report
    GET    /api/reports/annual?date=         Annual staff audit

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (go-playground/validator on DTOs)
  3. Call domain logic (recorder, balance engine, report generator)
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  - 400: Validation errors, malformed dates/months/kinds
  - 404: Unknown employee, shift, request
  - 500: Storage errors
  An employee without contract configuration is NOT an error: balance
  endpoints answer 200 with applicable=false.

SEE ALSO:
  - dto.go: Request/response data structures
  - roster.go: Login, employees, shifts
  - requests.go: Requests, conversations, payslips
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/timeclock"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Recorder *timeclock.Recorder
	Periods  *timeclock.PeriodAggregator
	Balances *timeclock.BalanceEngine
	Reports  *timeclock.ReportGenerator
	Log      zerolog.Logger

	validate *validator.Validate
}

// NewHandler wires the engine components around the store. All
// components share one day cache so a punch invalidates every reader.
func NewHandler(store *sqlite.Store, log zerolog.Logger) *Handler {
	cache := timeclock.NewDayCache()
	periods := &timeclock.PeriodAggregator{Events: store, Cache: cache}
	return &Handler{
		Store:    store,
		Recorder: &timeclock.Recorder{Events: store, Cache: cache},
		Periods:  periods,
		Balances: &timeclock.BalanceEngine{Periods: periods},
		Reports:  &timeclock.ReportGenerator{Events: store, Employees: store},
		Log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// =============================================================================
// CLOCK
// =============================================================================

// RecordPunch handles POST /api/employees/{id}/punches.
func (h *Handler) RecordPunch(w http.ResponseWriter, r *http.Request) {
	id := timeclock.EmployeeID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		h.writeDomainError(w, err, "employee lookup failed")
		return
	}

	var req PunchRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	at := time.Now().UTC()
	if req.At != "" {
		parsed, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid at timestamp, want RFC3339", err)
			return
		}
		at = parsed.UTC()
	}

	var loc *timeclock.Location
	if req.Location != nil {
		loc = &timeclock.Location{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			Accuracy:  req.Location.Accuracy,
		}
	}

	ev, err := h.Recorder.Punch(r.Context(), id, timeclock.PunchKind(req.Kind), at, loc)
	if err != nil {
		h.writeDomainError(w, err, "failed to record punch")
		return
	}

	h.Log.Info().
		Str("employee", string(id)).
		Str("kind", req.Kind).
		Str("day", ev.Day.String()).
		Msg("punch recorded")
	writeJSON(w, http.StatusCreated, toPunchDTO(ev))
}

// GetDayStatus handles GET /api/employees/{id}/punches?date=YYYY-MM-DD.
// The date defaults to today.
func (h *Handler) GetDayStatus(w http.ResponseWriter, r *http.Request) {
	id := timeclock.EmployeeID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		h.writeDomainError(w, err, "employee lookup failed")
		return
	}

	day := timeclock.DateOf(time.Now().UTC())
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := timeclock.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err)
			return
		}
		day = parsed
	}

	status, err := h.Recorder.DayStatus(r.Context(), id, day)
	if err != nil {
		h.writeDomainError(w, err, "failed to load day status")
		return
	}

	dto := DayStatusDTO{
		Date:      day.String(),
		Events:    make([]PunchDTO, 0, len(status.Events)),
		WorkedMs:  status.Record.NetMs(),
		PausedMs:  status.Record.PausedMs,
		Worked:    timeclock.FormatDuration(status.Record.NetMs()),
		Paused:    timeclock.FormatDuration(status.Record.PausedMs),
		Permitted: make([]string, 0, len(status.Permitted)),
	}
	for _, ev := range status.Events {
		dto.Events = append(dto.Events, toPunchDTO(ev))
	}
	for _, kind := range status.Permitted {
		dto.Permitted = append(dto.Permitted, string(kind))
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// BALANCE
// =============================================================================

// GetBalance handles GET /api/employees/{id}/balance?date=YYYY-MM-DD.
// The date defaults to today and anchors both the current period and
// the annual window.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := timeclock.EmployeeID(chi.URLParam(r, "id"))
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err, "employee lookup failed")
		return
	}

	now := time.Now().UTC()
	if s := r.URL.Query().Get("date"); s != "" {
		day, err := timeclock.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err)
			return
		}
		now = day.Time()
	}

	dto := BalanceDTO{EmployeeID: string(id)}

	period, err := h.Balances.CurrentPeriodProgress(r.Context(), emp, now)
	if timeclock.IsNotApplicable(err) {
		// No contract configured: a valid answer, not an error.
		writeJSON(w, http.StatusOK, dto)
		return
	}
	if err != nil {
		h.writeDomainError(w, err, "failed to compute period progress")
		return
	}

	annual, err := h.Balances.AnnualBalance(r.Context(), emp, timeclock.DateOf(now))
	if err != nil {
		h.writeDomainError(w, err, "failed to compute annual balance")
		return
	}

	dto.Applicable = true
	dto.Period = &PeriodProgressDTO{
		PeriodKind:      string(period.Kind),
		RangeStart:      period.RangeStart.String(),
		RangeEnd:        period.RangeEnd.String(),
		WorkedHours:     period.WorkedHours.StringFixed(2),
		TargetHours:     period.TargetHours.StringFixed(2),
		ProgressPercent: period.ProgressPercent.StringFixed(2),
	}
	dto.Annual = &AnnualBalanceDTO{
		Year:          annual.Year,
		WorkedHours:   annual.WorkedHours.StringFixed(2),
		ExpectedHours: annual.ExpectedHours.StringFixed(2),
		BalanceHours:  annual.BalanceHours.StringFixed(2),
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// REPORTS
// =============================================================================

// GetMonthlyReport handles GET /api/reports?month=YYYY-MM&employee=id.
func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := timeclock.ParseYearMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM", err)
		return
	}

	filter := timeclock.FilterAll
	if id := r.URL.Query().Get("employee"); id != "" {
		filter = timeclock.FilterEmployee(timeclock.EmployeeID(id))
	}

	rows, err := h.Reports.Generate(r.Context(), filter, month)
	if err != nil {
		h.writeDomainError(w, err, "failed to generate report")
		return
	}

	dtos := make([]ReportRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toReportRowDTO(row))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAnnualSummary handles GET /api/reports/annual?date=YYYY-MM-DD.
// One row per employee with the year-to-date balance, largest surplus
// first. Employees without contract configuration appear with
// applicable=false so the audit still covers the whole staff.
func (h *Handler) GetAnnualSummary(w http.ResponseWriter, r *http.Request) {
	asOf := timeclock.DateOf(time.Now().UTC())
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := timeclock.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err)
			return
		}
		asOf = parsed
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "failed to list employees")
		return
	}

	type scored struct {
		dto     AnnualSummaryRowDTO
		balance decimal.Decimal
	}
	rows := make([]scored, 0, len(employees))
	for _, emp := range employees {
		row := AnnualSummaryRowDTO{
			EmployeeID:   string(emp.ID),
			EmployeeName: emp.Name,
		}

		annual, balErr := h.Balances.AnnualBalance(r.Context(), emp, asOf)
		switch {
		case timeclock.IsNotApplicable(balErr):
			worked, err := h.Periods.AggregateRange(r.Context(), emp.ID, asOf.StartOfYear(), asOf)
			if err != nil {
				h.writeDomainError(w, err, "failed to aggregate hours")
				return
			}
			row.WorkedHours = worked.StringFixed(2)
			rows = append(rows, scored{dto: row})
		case balErr != nil:
			h.writeDomainError(w, balErr, "failed to compute annual balance")
			return
		default:
			row.Applicable = true
			row.WorkedHours = annual.WorkedHours.StringFixed(2)
			row.ExpectedHours = annual.ExpectedHours.StringFixed(2)
			row.BalanceHours = annual.BalanceHours.StringFixed(2)
			rows = append(rows, scored{dto: row, balance: annual.BalanceHours})
		}
	}

	// Contract-holders by balance descending, then everyone by name.
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.dto.Applicable != b.dto.Applicable {
			return a.dto.Applicable
		}
		if a.dto.Applicable && !a.balance.Equal(b.balance) {
			return a.balance.GreaterThan(b.balance)
		}
		return a.dto.EmployeeName < b.dto.EmployeeName
	})

	dtos := make([]AnnualSummaryRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, row.dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeAndValidate parses the JSON body into dst and runs struct
// validation, writing the 400 itself on failure.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err)
		return false
	}
	return true
}

// writeDomainError maps engine errors onto HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, message string) {
	switch {
	case timeclock.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case timeclock.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
