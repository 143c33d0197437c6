// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"github.com/gorilla/mux"

	"github.com/event-report-manager/backend/internal/api/handlers"
	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/auth"
	"github.com/event-report-manager/backend/internal/export"
	"github.com/event-report-manager/backend/internal/mail"
	"github.com/event-report-manager/backend/internal/render"
	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/websocket"
)

// Deps carries the services and repositories the route handlers need.
type Deps struct {
	DB          *storage.DB
	Events      *storage.EventRepository
	Dates       *storage.DatesRepository
	Departments *storage.DepartmentRepository
	Reports     *storage.ReportRepository
	Images      *storage.ImageRepository
	Users       *storage.UserRepository

	Renderer *render.Renderer
	Exporter *export.MonthExporter
	Mailer   *mail.Mailer
	Hub      *websocket.Hub
	JWT      *auth.JWTManager

	PDFDir   string
	ImageDir string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(d.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(d.DB, d.Hub)).Methods("GET")

	// WebSocket endpoint for render and export notifications
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(d.Hub)).Methods("GET")

	// Calendar query endpoints. Registered before /events/{id} so the
	// literal segments win.
	api.HandleFunc("/events/calendar", handlers.ListCalendar(d.DB)).Methods("GET")
	api.HandleFunc("/events/calendar/feed.ics", handlers.CalendarFeed(d.DB)).Methods("GET")
	api.HandleFunc("/events/calendar/{month:[0-9]+}/{year:[0-9]+}", handlers.ListCalendarByMonth(d.DB)).Methods("GET")
	api.HandleFunc("/events/calendar/date/{date}", handlers.ListEventsByDay(d.Dates, d.Events)).Methods("GET")
	api.HandleFunc("/events/mine", middleware.RequireAuth(d.JWT, handlers.ListMyEvents(d.Events))).Methods("GET")

	// Event endpoints
	api.HandleFunc("/events", handlers.ListEvents(d.Events)).Methods("GET")
	api.HandleFunc("/events", handlers.CreateEvent(d.Events)).Methods("POST")
	api.HandleFunc("/events/{id}", handlers.GetEvent(d.Events)).Methods("GET")
	api.HandleFunc("/events/{id}", handlers.UpdateEvent(d.Events)).Methods("PUT")
	api.HandleFunc("/events/{id}", handlers.DeleteEvent(d.Events)).Methods("DELETE")

	// Dates endpoints
	api.HandleFunc("/dates", handlers.ListDates(d.Dates)).Methods("GET")
	api.HandleFunc("/dates", handlers.CreateDates(d.Dates)).Methods("POST")
	api.HandleFunc("/dates/multiple", handlers.CreateDatesBatch(d.Dates)).Methods("POST")
	api.HandleFunc("/dates/{id}", handlers.GetDates(d.Dates)).Methods("GET")
	api.HandleFunc("/dates/{id}", handlers.UpdateDates(d.Dates)).Methods("PUT")
	api.HandleFunc("/dates/{id}", handlers.DeleteDates(d.Dates)).Methods("DELETE")

	// Department endpoints
	api.HandleFunc("/departments", handlers.ListDepartments(d.Departments)).Methods("GET")
	api.HandleFunc("/departments", handlers.CreateDepartment(d.Departments)).Methods("POST")
	api.HandleFunc("/departments/multiple", handlers.CreateDepartmentsBatch(d.Departments)).Methods("POST")
	api.HandleFunc("/departments/{id}", handlers.GetDepartment(d.Departments)).Methods("GET")
	api.HandleFunc("/departments/{id}", handlers.UpdateDepartment(d.Departments)).Methods("PUT")
	api.HandleFunc("/departments/{id}", handlers.DeleteDepartment(d.Departments)).Methods("DELETE")

	// Month-aggregate CSV export. Registered before /reports/{id}.
	api.HandleFunc("/reports/month/{month:[0-9]+}/{year:[0-9]+}", handlers.MonthReportCSV(d.Exporter, d.Hub)).Methods("GET")

	// Report endpoints
	api.HandleFunc("/reports", handlers.ListReports(d.Reports)).Methods("GET")
	api.HandleFunc("/reports", handlers.CreateReport(d.Reports, d.Events)).Methods("POST")
	api.HandleFunc("/reports/{id}", handlers.GetReport(d.Reports)).Methods("GET")
	api.HandleFunc("/reports/{id}", handlers.UpdateReport(d.Reports)).Methods("PUT")
	api.HandleFunc("/reports/{id}", handlers.DeleteReport(d.Reports)).Methods("DELETE")

	// Rendered document retrieval
	api.HandleFunc("/reports/{pk}/pdf/download", handlers.DownloadReportPDF(d.Reports, d.PDFDir)).Methods("GET")
	api.HandleFunc("/reports/{pk}/pdf/preview", handlers.PreviewReportPDF(d.Reports, d.PDFDir)).Methods("GET")
	api.HandleFunc("/reports/{pk}/pdf/send", middleware.RequireAuth(d.JWT,
		handlers.SendReportPDF(d.Reports, d.Users, d.Mailer, d.PDFDir))).Methods("GET")

	// Image upload triggers the synchronous report render
	api.HandleFunc("/images", handlers.UploadImage(d.Images, d.Reports, d.Renderer, d.Hub, d.ImageDir)).Methods("POST")
	api.HandleFunc("/images/{id}", handlers.GetImage(d.Images)).Methods("GET")
	api.HandleFunc("/images/{id}", handlers.DeleteImage(d.Images, d.Reports, d.Renderer, d.Hub)).Methods("DELETE")

	return r
}
