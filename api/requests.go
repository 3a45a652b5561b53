/*
requests.go - Request/messaging and payslip handlers

PURPOSE:
  Vacation, permission and communication requests with threaded
  conversations, plus payslip document upload and retrieval.

ENDPOINTS (this file):
  Requests:
    GET    /api/requests?employee=          List visible requests
    POST   /api/employees/{id}/requests     Submit a request
    POST   /api/requests/{id}/respond       Approve/reject (admin)
    DELETE /api/requests/{id}               Archive request + thread
    GET    /api/requests/{id}/conversations Thread for a request
    POST   /api/requests/{id}/conversations Append a reply

  Payslips:
    GET    /api/payslips?employee=&month=   List metadata
    POST   /api/payslips                    Upload (Base64 payload)
    GET    /api/payslips/{id}               Download (payload included)
    DELETE /api/payslips/{id}               Remove

STATUS MODEL:
  vacation/permission requests start "pending" and move to "approved"
  or "rejected" exactly once; communication requests start "unread" and
  a response marks them "read". Conversations never change the status.

SEE ALSO:
  - handlers.go: Handler context, error helpers
  - store/sqlite/sqlite.go: Persistence
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/timeclock"
)

const (
	statusPending  = "pending"
	statusApproved = "approved"
	statusRejected = "rejected"
	statusUnread   = "unread"
	statusRead     = "read"

	typeCommunication = "communication"
)

// =============================================================================
// REQUESTS
// =============================================================================

// ListRequests handles GET /api/requests?employee=id. Without the
// filter it returns everything (the admin inbox).
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := timeclock.FilterAll
	if id := r.URL.Query().Get("employee"); id != "" {
		filter = timeclock.FilterEmployee(timeclock.EmployeeID(id))
	}

	records, err := h.Store.ListRequests(r.Context(), filter)
	if err != nil {
		h.writeDomainError(w, err, "failed to list requests")
		return
	}

	names, err := h.employeeNames(r)
	if err != nil {
		h.writeDomainError(w, err, "failed to list employees")
		return
	}

	dtos := make([]RequestDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toRequestDTO(rec, names))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SubmitRequest handles POST /api/employees/{id}/requests.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	id := timeclock.EmployeeID(chi.URLParam(r, "id"))
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err, "employee lookup failed")
		return
	}

	var req CreateRequestRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	for _, s := range []string{req.StartDate, req.EndDate} {
		if s != "" {
			if _, err := timeclock.ParseDate(s); err != nil {
				writeError(w, http.StatusBadRequest, "invalid date", err)
				return
			}
		}
	}

	status := statusPending
	if req.Type == typeCommunication {
		status = statusUnread
	}
	rec := sqlite.RequestRecord{
		ID:          uuid.NewString(),
		EmployeeID:  id,
		RecipientID: req.RecipientID,
		Type:        req.Type,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Message:     req.Message,
		Status:      status,
		FromAdmin:   emp.Role == timeclock.RoleAdmin,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Store.SaveRequest(r.Context(), rec); err != nil {
		h.writeDomainError(w, err, "failed to save request")
		return
	}

	h.Log.Info().
		Str("employee", string(id)).
		Str("type", req.Type).
		Str("request", rec.ID).
		Msg("request submitted")
	writeJSON(w, http.StatusCreated, toRequestDTO(rec, map[timeclock.EmployeeID]string{id: emp.Name}))
}

// RespondRequest handles POST /api/requests/{id}/respond. Resolving an
// already resolved request is a conflict.
func (h *Handler) RespondRequest(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "request lookup failed")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "request not found", nil)
		return
	}

	var req RespondRequestRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	switch rec.Status {
	case statusPending:
		rec.Status = req.Status
	case statusUnread:
		rec.Status = statusRead
	default:
		writeError(w, http.StatusConflict, "request already resolved", nil)
		return
	}
	rec.Response = req.Response
	rec.ResponseAt = time.Now().UTC().Format(time.RFC3339)

	if err := h.Store.SaveRequest(r.Context(), *rec); err != nil {
		h.writeDomainError(w, err, "failed to save request")
		return
	}

	names, err := h.employeeNames(r)
	if err != nil {
		h.writeDomainError(w, err, "failed to list employees")
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*rec, names))
}

// ArchiveRequest handles DELETE /api/requests/{id}. The request and its
// conversation thread are removed together.
func (h *Handler) ArchiveRequest(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "request lookup failed")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "request not found", nil)
		return
	}

	if err := h.Store.DeleteRequest(r.Context(), rec.ID); err != nil {
		h.writeDomainError(w, err, "failed to archive request")
		return
	}
	h.Log.Info().Str("request", rec.ID).Msg("request archived")
	w.WriteHeader(http.StatusNoContent)
}

// GetConversations handles GET /api/requests/{id}/conversations.
func (h *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "request lookup failed")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "request not found", nil)
		return
	}

	records, err := h.Store.ConversationsFor(r.Context(), rec.ID)
	if err != nil {
		h.writeDomainError(w, err, "failed to list conversations")
		return
	}

	dtos := make([]ConversationDTO, 0, len(records))
	for _, c := range records {
		dtos = append(dtos, ConversationDTO{
			ID:        c.ID,
			Author:    c.Author,
			FromAdmin: c.FromAdmin,
			Message:   c.Message,
			CreatedAt: c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddConversation handles POST /api/requests/{id}/conversations.
// ?author=employee-id attributes the reply.
func (h *Handler) AddConversation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "request lookup failed")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "request not found", nil)
		return
	}

	author, err := h.Store.GetEmployee(r.Context(), timeclock.EmployeeID(r.URL.Query().Get("author")))
	if err != nil {
		h.writeDomainError(w, err, "author lookup failed")
		return
	}

	var req ConversationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	c := sqlite.ConversationRecord{
		ID:        uuid.NewString(),
		RequestID: rec.ID,
		Author:    author.Name,
		FromAdmin: author.Role == timeclock.RoleAdmin,
		Message:   req.Message,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Store.AddConversation(r.Context(), c); err != nil {
		h.writeDomainError(w, err, "failed to save conversation")
		return
	}
	writeJSON(w, http.StatusCreated, ConversationDTO{
		ID:        c.ID,
		Author:    c.Author,
		FromAdmin: c.FromAdmin,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	})
}

// =============================================================================
// PAYSLIPS
// =============================================================================

// ListPayslips handles GET /api/payslips?employee=id&month=YYYY-MM.
// Returns metadata only; download fetches the payload.
func (h *Handler) ListPayslips(w http.ResponseWriter, r *http.Request) {
	filter := timeclock.FilterAll
	if id := r.URL.Query().Get("employee"); id != "" {
		filter = timeclock.FilterEmployee(timeclock.EmployeeID(id))
	}
	month := r.URL.Query().Get("month")
	if month != "" {
		if _, err := timeclock.ParseYearMonth(month); err != nil {
			writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM", err)
			return
		}
	}

	records, err := h.Store.ListPayslips(r.Context(), filter, month)
	if err != nil {
		h.writeDomainError(w, err, "failed to list payslips")
		return
	}

	dtos := make([]PayslipDTO, 0, len(records))
	for _, p := range records {
		dtos = append(dtos, toPayslipDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UploadPayslip handles POST /api/payslips.
func (h *Handler) UploadPayslip(w http.ResponseWriter, r *http.Request) {
	var req UploadPayslipRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if _, err := timeclock.ParseYearMonth(req.Month); err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM", err)
		return
	}
	if _, err := h.Store.GetEmployee(r.Context(), timeclock.EmployeeID(req.EmployeeID)); err != nil {
		h.writeDomainError(w, err, "employee lookup failed")
		return
	}

	p := sqlite.PayslipRecord{
		ID:         uuid.NewString(),
		EmployeeID: timeclock.EmployeeID(req.EmployeeID),
		Month:      req.Month,
		FileName:   req.FileName,
		FileData:   req.FileData,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Store.SavePayslip(r.Context(), p); err != nil {
		h.writeDomainError(w, err, "failed to save payslip")
		return
	}

	h.Log.Info().
		Str("employee", req.EmployeeID).
		Str("month", req.Month).
		Msg("payslip uploaded")
	dto := toPayslipDTO(p)
	dto.FileData = "" // metadata only in the upload response
	writeJSON(w, http.StatusCreated, dto)
}

// GetPayslip handles GET /api/payslips/{id}, payload included.
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "payslip lookup failed")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "payslip not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPayslipDTO(*p))
}

// DeletePayslip handles DELETE /api/payslips/{id}.
func (h *Handler) DeletePayslip(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePayslip(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err, "failed to delete payslip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// employeeNames builds the id -> display name map used to decorate
// request DTOs.
func (h *Handler) employeeNames(r *http.Request) (map[timeclock.EmployeeID]string, error) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[timeclock.EmployeeID]string, len(employees))
	for _, emp := range employees {
		names[emp.ID] = emp.Name
	}
	return names, nil
}
