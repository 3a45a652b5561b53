/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  them through Handler.validate before touching domain logic. DTOs stay
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - roster.go, requests.go: Uses these types
*/
package api

import (
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/timeclock"
)

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is a name + password credential pair.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// ContractDTO is the contract configuration in API responses.
type ContractDTO struct {
	Hours  string `json:"hours"`
	Period string `json:"period"`
}

// EmployeeDTO represents an employee in API responses. The password
// hash never leaves the server.
type EmployeeDTO struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Role     string       `json:"role"`
	Contract *ContractDTO `json:"contract,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee. Contract
// fields are optional but must be set together.
type CreateEmployeeRequest struct {
	Name           string   `json:"name" validate:"required"`
	Password       string   `json:"password" validate:"required,min=4"`
	Role           string   `json:"role" validate:"omitempty,oneof=admin employee"`
	ContractHours  *float64 `json:"contract_hours" validate:"omitempty,gt=0"`
	ContractPeriod string   `json:"contract_period" validate:"required_with=ContractHours,omitempty,oneof=weekly monthly"`
}

// UpdateEmployeeRequest is the request to update an employee. A nil
// password leaves the current one in place.
type UpdateEmployeeRequest struct {
	Name           string   `json:"name" validate:"required"`
	Password       *string  `json:"password" validate:"omitempty,min=4"`
	Role           string   `json:"role" validate:"omitempty,oneof=admin employee"`
	ContractHours  *float64 `json:"contract_hours" validate:"omitempty,gt=0"`
	ContractPeriod string   `json:"contract_period" validate:"required_with=ContractHours,omitempty,oneof=weekly monthly"`
}

// =============================================================================
// CLOCK
// =============================================================================

// LocationDTO is an optional GPS fix attached to a punch.
type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// PunchRequest records one clock action. At is RFC3339; when omitted
// the server clock is used.
type PunchRequest struct {
	Kind     string       `json:"kind" validate:"required,oneof=clock_in clock_out pause_start pause_end"`
	At       string       `json:"at" validate:"omitempty"`
	Location *LocationDTO `json:"location"`
}

// PunchDTO represents a stored punch event.
type PunchDTO struct {
	ID       int64        `json:"id"`
	Kind     string       `json:"kind"`
	Date     string       `json:"date"`
	AtMs     int64        `json:"at_ms"`
	Location *LocationDTO `json:"location,omitempty"`
}

// DayStatusDTO is the clock view for one employee-day: the raw events,
// the reconciled totals, and the actions that make sense next.
type DayStatusDTO struct {
	Date      string     `json:"date"`
	Events    []PunchDTO `json:"events"`
	WorkedMs  int64      `json:"worked_ms"`
	PausedMs  int64      `json:"paused_ms"`
	Worked    string     `json:"worked"`
	Paused    string     `json:"paused"`
	Permitted []string   `json:"permitted"`
}

// =============================================================================
// BALANCE
// =============================================================================

// PeriodProgressDTO is the current-period progress block of a balance
// response.
type PeriodProgressDTO struct {
	PeriodKind      string `json:"period_kind"`
	RangeStart      string `json:"range_start"`
	RangeEnd        string `json:"range_end"`
	WorkedHours     string `json:"worked_hours"`
	TargetHours     string `json:"target_hours"`
	ProgressPercent string `json:"progress_percent"`
}

// AnnualBalanceDTO is the year-to-date block of a balance response.
type AnnualBalanceDTO struct {
	Year          int    `json:"year"`
	WorkedHours   string `json:"worked_hours"`
	ExpectedHours string `json:"expected_hours"`
	BalanceHours  string `json:"balance_hours"`
}

// BalanceDTO wraps both balance figures. Applicable is false (and both
// blocks nil) for employees without contract configuration - that is a
// valid answer, not an error.
type BalanceDTO struct {
	EmployeeID string             `json:"employee_id"`
	Applicable bool               `json:"applicable"`
	Period     *PeriodProgressDTO `json:"period,omitempty"`
	Annual     *AnnualBalanceDTO  `json:"annual,omitempty"`
}

// =============================================================================
// REPORTS
// =============================================================================

// ReportRowDTO is one employee-day line of the monthly report.
type ReportRowDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	WorkedMs     int64  `json:"worked_ms"`
	PausedMs     int64  `json:"paused_ms"`
	Worked       string `json:"worked"`
	Paused       string `json:"paused"`
	Tracked      bool   `json:"tracked"`
	Punches      int    `json:"punches"`
}

// AnnualSummaryRowDTO is one employee line of the annual staff audit.
type AnnualSummaryRowDTO struct {
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	Applicable    bool   `json:"applicable"`
	WorkedHours   string `json:"worked_hours"`
	ExpectedHours string `json:"expected_hours,omitempty"`
	BalanceHours  string `json:"balance_hours,omitempty"`
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents a shift template.
type ShiftDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateShiftRequest is the request to create or update a shift
// template. Times are "HH:MM".
type CreateShiftRequest struct {
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

// AssignShiftRequest replaces the roster for (date, shift) with the
// given employees. An empty list clears it.
type AssignShiftRequest struct {
	Date        string   `json:"date" validate:"required"`
	ShiftID     string   `json:"shift_id" validate:"required"`
	EmployeeIDs []string `json:"employee_ids"`
}

// AssignmentDTO is one roster entry.
type AssignmentDTO struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	ShiftID    string `json:"shift_id"`
	EmployeeID string `json:"employee_id"`
}

// EmployeeShiftDTO is one employee's rostered shift for a day. Shift is
// null when the employee is not on the roster that day.
type EmployeeShiftDTO struct {
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Shift      *ShiftDTO `json:"shift"`
}

// =============================================================================
// REQUESTS
// =============================================================================

// CreateRequestRequest submits a vacation, permission or communication
// request. RecipientID empty means "to the admins".
type CreateRequestRequest struct {
	Type        string `json:"type" validate:"required,oneof=vacation permission communication"`
	StartDate   string `json:"start_date" validate:"required_if=Type vacation"`
	EndDate     string `json:"end_date"`
	Message     string `json:"message" validate:"required"`
	RecipientID string `json:"recipient_id"`
}

// RespondRequestRequest resolves a pending request.
type RespondRequestRequest struct {
	Status   string `json:"status" validate:"required,oneof=approved rejected"`
	Response string `json:"response"`
}

// ConversationRequest appends a reply to a request thread.
type ConversationRequest struct {
	Message string `json:"message" validate:"required"`
}

// RequestDTO represents a request in API responses.
type RequestDTO struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	RecipientID  string `json:"recipient_id,omitempty"`
	Type         string `json:"type"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Message      string `json:"message"`
	Status       string `json:"status"`
	FromAdmin    bool   `json:"from_admin"`
	Response     string `json:"response,omitempty"`
	ResponseAt   string `json:"response_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// ConversationDTO is one reply in a request thread.
type ConversationDTO struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	FromAdmin bool   `json:"from_admin"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// =============================================================================
// PAYSLIPS
// =============================================================================

// UploadPayslipRequest attaches a payslip document to an employee.
// FileData is Base64.
type UploadPayslipRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Month      string `json:"month" validate:"required"`
	FileName   string `json:"file_name" validate:"required"`
	FileData   string `json:"file_data" validate:"required,base64"`
}

// PayslipDTO represents a payslip. FileData is only populated on
// single-document download.
type PayslipDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`
	FileName   string `json:"file_name"`
	FileData   string `json:"file_data,omitempty"`
	UploadedAt string `json:"uploaded_at"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEmployeeDTO(emp timeclock.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:   string(emp.ID),
		Name: emp.Name,
		Role: string(emp.Role),
	}
	if emp.Contract != nil {
		dto.Contract = &ContractDTO{
			Hours:  emp.Contract.HoursPerPeriod.String(),
			Period: string(emp.Contract.Kind),
		}
	}
	return dto
}

func toPunchDTO(ev timeclock.PunchEvent) PunchDTO {
	dto := PunchDTO{
		ID:   ev.ID,
		Kind: string(ev.Kind),
		Date: ev.Day.String(),
		AtMs: ev.At,
	}
	if ev.Location != nil {
		dto.Location = &LocationDTO{
			Latitude:  ev.Location.Latitude,
			Longitude: ev.Location.Longitude,
			Accuracy:  ev.Location.Accuracy,
		}
	}
	return dto
}

func toReportRowDTO(row timeclock.ReportRow) ReportRowDTO {
	return ReportRowDTO{
		EmployeeID:   string(row.EmployeeID),
		EmployeeName: row.EmployeeName,
		Date:         row.Day.String(),
		WorkedMs:     row.WorkedMs,
		PausedMs:     row.PausedMs,
		Worked:       row.Worked,
		Paused:       row.Paused,
		Tracked:      row.Tracked,
		Punches:      len(row.Punches),
	}
}

func toShiftDTO(sh sqlite.Shift) ShiftDTO {
	return ShiftDTO{ID: sh.ID, Name: sh.Name, StartTime: sh.StartTime, EndTime: sh.EndTime}
}

func toAssignmentDTO(a sqlite.ShiftAssignment) AssignmentDTO {
	return AssignmentDTO{
		ID:         a.ID,
		Date:       a.Day.String(),
		ShiftID:    a.ShiftID,
		EmployeeID: string(a.EmployeeID),
	}
}

func toRequestDTO(r sqlite.RequestRecord, names map[timeclock.EmployeeID]string) RequestDTO {
	return RequestDTO{
		ID:           r.ID,
		EmployeeID:   string(r.EmployeeID),
		EmployeeName: names[r.EmployeeID],
		RecipientID:  r.RecipientID,
		Type:         r.Type,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Message:      r.Message,
		Status:       r.Status,
		FromAdmin:    r.FromAdmin,
		Response:     r.Response,
		ResponseAt:   r.ResponseAt,
		CreatedAt:    r.CreatedAt,
	}
}

func toPayslipDTO(p sqlite.PayslipRecord) PayslipDTO {
	return PayslipDTO{
		ID:         p.ID,
		EmployeeID: string(p.EmployeeID),
		Month:      p.Month,
		FileName:   p.FileName,
		FileData:   p.FileData,
		UploadedAt: p.UploadedAt,
	}
}
