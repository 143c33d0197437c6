package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/artifact"
	"github.com/event-report-manager/backend/internal/mail"
	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/storage/models"
)

// ReportRequest is the request body for creating or updating a report.
type ReportRequest struct {
	EventID     string `json:"event_id"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

// ListReports returns all reports.
func ListReports(reports *storage.ReportRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := reports.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query reports")
			return
		}

		if list == nil {
			list = []models.Report{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

// CreateReport adds a new report for an event.
func CreateReport(reports *storage.ReportRepository, events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.EventID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "event_id is required")
			return
		}

		event, err := events.GetByID(r.Context(), req.EventID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query event")
			return
		}
		if event == nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown event")
			return
		}

		report := &models.Report{
			EventID:     req.EventID,
			Summary:     req.Summary,
			Description: req.Description,
		}
		if err := reports.Create(r.Context(), report); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create report")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(report)
	}
}

// GetReport returns a single report.
func GetReport(reports *storage.ReportRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := reports.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query report")
			return
		}
		if report == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Report not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// UpdateReport updates a report's free-form fields.
func UpdateReport(reports *storage.ReportRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		report := &models.Report{
			ID:          mux.Vars(r)["id"],
			Summary:     req.Summary,
			Description: req.Description,
		}
		if err := reports.Update(r.Context(), report); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Report not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteReport removes a report. Its images cascade; the rendered PDF is
// orphaned and eventually removed by the artifact sweeper.
func DeleteReport(reports *storage.ReportRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := reports.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Report not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// artifactPathForReport loads the report and recomputes its canonical PDF
// path from the event name and the earliest date start. Writes the error
// response and returns ok=false when the path cannot be derived.
func artifactPathForReport(w http.ResponseWriter, r *http.Request, reports *storage.ReportRepository, pdfDir string) (*models.ReportBundle, string, bool) {
	bundle, err := reports.GetBundle(r.Context(), mux.Vars(r)["pk"])
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query report")
		return nil, "", false
	}
	if bundle == nil {
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Report not found")
		return nil, "", false
	}
	if len(bundle.Event.Dates) == 0 {
		// Without a date there is no artifact key, so no render can exist.
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrArtifactNotFound, "No rendered document for this report")
		return nil, "", false
	}

	path := artifact.PDFPath(pdfDir, bundle.Event.Name, bundle.Event.Dates[0].Start)
	return bundle, path, true
}

// serveReportPDF streams the artifact at path, or answers 404 when it does
// not exist on disk.
func serveReportPDF(w http.ResponseWriter, path, disposition string) {
	f, err := artifact.Open(path)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrArtifactNotFound, "No rendered document for this report")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to open document")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", disposition)
	io.Copy(w, f)
}

// DownloadReportPDF serves a report's rendered PDF as an attachment.
func DownloadReportPDF(reports *storage.ReportRepository, pdfDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bundle, path, ok := artifactPathForReport(w, r, reports, pdfDir)
		if !ok {
			return
		}

		disposition := `attachment; filename="` + artifact.DownloadName(bundle.Event.Name) + `"`
		serveReportPDF(w, path, disposition)
	}
}

// PreviewReportPDF serves a report's rendered PDF inline for in-browser viewing.
func PreviewReportPDF(reports *storage.ReportRepository, pdfDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, path, ok := artifactPathForReport(w, r, reports, pdfDir)
		if !ok {
			return
		}

		serveReportPDF(w, path, "inline")
	}
}

// SendReportPDF mails a report's rendered PDF to the event's stakeholders on
// behalf of the authenticated requester. A missing artifact is a 404; a
// failed dispatch is a 502 the caller may retry.
func SendReportPDF(reports *storage.ReportRepository, users *storage.UserRepository, mailer *mail.Mailer, pdfDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFrom(r)
		if !ok {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Authentication required")
			return
		}

		bundle, path, ok := artifactPathForReport(w, r, reports, pdfDir)
		if !ok {
			return
		}

		requester := claims.DisplayName
		if requester == "" {
			if u, err := users.GetByID(r.Context(), claims.UserID); err == nil && u != nil {
				requester = u.DisplayName()
			}
		}

		var recipients []string
		if bundle.Event.CreatorID != nil {
			creator, err := users.GetByID(r.Context(), *bundle.Event.CreatorID)
			if err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query event creator")
				return
			}
			if creator != nil {
				recipients = append(recipients, creator.Email)
			}
		}

		err := mailer.SendReport(path, requester, bundle.Event.Name, recipients)
		switch {
		case errors.Is(err, artifact.ErrNotFound):
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrArtifactNotFound, "No rendered document for this report")
			return
		case errors.Is(err, mail.ErrDeliveryFailed):
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrMailDeliveryFailed, "Failed to send report email")
			return
		case err != nil:
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to send report email")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":     "sent",
			"recipients": len(recipients),
		})
	}
}
