/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Recoverer:  Panic recovery (500 instead of crash)
  2. RequestID:  Unique ID per request for tracing
  3. AccessLog:  Structured zerolog request log
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/login            Authentication
  /api/employees/*      Employee management, clock, balance
  /api/shifts/*         Shift templates and roster
  /api/requests/*       Requests and conversations
  /api/payslips/*       Payslip documents
  /api/reports/*        Monthly report and annual audit

SECURITY NOTE:
  Login verifies credentials but no session middleware guards the other
  endpoints yet; deploy behind an authenticating proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(AccessLog(h.Log, 500*time.Millisecond))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Post("/{id}/punches", h.RecordPunch)
			r.Get("/{id}/punches", h.GetDayStatus)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/shift", h.GetEmployeeShift)
			r.Post("/{id}/requests", h.SubmitRequest)
		})

		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.CreateShift)
			r.Get("/assignments", h.GetAssignments)
			r.Post("/assignments", h.AssignShift)
			r.Put("/{id}", h.UpdateShift)
			r.Delete("/{id}", h.DeleteShift)
		})

		// Request routes
		r.Route("/requests", func(r chi.Router) {
			r.Get("/", h.ListRequests)
			r.Post("/{id}/respond", h.RespondRequest)
			r.Delete("/{id}", h.ArchiveRequest)
			r.Get("/{id}/conversations", h.GetConversations)
			r.Post("/{id}/conversations", h.AddConversation)
		})

		// Payslip routes
		r.Route("/payslips", func(r chi.Router) {
			r.Get("/", h.ListPayslips)
			r.Post("/", h.UploadPayslip)
			r.Get("/{id}", h.GetPayslip)
			r.Delete("/{id}", h.DeletePayslip)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", h.GetMonthlyReport)
			r.Get("/annual", h.GetAnnualSummary)
		})
	})

	return r
}
