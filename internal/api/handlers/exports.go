package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/export"
	"github.com/event-report-manager/backend/internal/websocket"
)

// MonthReportCSV generates and streams the month-aggregate CSV. The file is
// regenerated on every request and removed once streamed.
func MonthReportCSV(exporter *export.MonthExporter, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		month, year, ok := parseMonthYear(vars["month"], vars["year"])
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Month must be 1-12 and year a valid integer")
			return
		}

		path, monthName, rows, err := exporter.Generate(r.Context(), month, year)
		if err != nil {
			if errors.Is(err, export.ErrFailed) {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrExportFailed, "Failed to generate month export")
				return
			}
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to generate month export")
			return
		}
		defer os.Remove(path)

		f, err := os.Open(path)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrExportFailed, "Failed to open month export")
			return
		}
		defer f.Close()

		websocket.NewEventBroadcaster(hub).BroadcastExportCompleted(monthName, year, rows)

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+monthName+`_Report.csv"`)
		if _, err := io.Copy(w, f); err != nil {
			log.Printf("Failed to stream month export: %v", err)
		}
	}
}
