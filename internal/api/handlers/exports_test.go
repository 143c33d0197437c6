package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/event-report-manager/backend/internal/export"
	"github.com/event-report-manager/backend/internal/storage/models"
)

func monthRequest(month, year string) *http.Request {
	req := httptest.NewRequest("GET", "/api/reports/month/"+month+"/"+year, nil)
	return mux.SetURLVars(req, map[string]string{"month": month, "year": year})
}

func TestMonthReportCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := &models.Event{Name: "Open Day"}
	require.NoError(t, env.events.Create(ctx, event))
	start := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, env.dates.Create(ctx, &models.Dates{
		EventID: event.ID, Start: start, End: start.Add(time.Hour),
	}))

	exportDir := t.TempDir()
	exporter := export.NewMonthExporter(env.db, exportDir)

	rec := httptest.NewRecorder()
	MonthReportCSV(exporter, nil)(rec, monthRequest("5", "2025"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="May_Report.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Open Day")

	// The export is not cached: nothing may be left behind after streaming.
	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMonthReportCSVEmptyMonth(t *testing.T) {
	env := newTestEnv(t)
	exporter := export.NewMonthExporter(env.db, t.TempDir())

	rec := httptest.NewRecorder()
	MonthReportCSV(exporter, nil)(rec, monthRequest("1", "2030"))

	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 1, "empty month yields a header-only CSV")
	assert.Contains(t, lines[0], "Event")
}

func TestMonthReportCSVInvalidMonth(t *testing.T) {
	env := newTestEnv(t)
	exporter := export.NewMonthExporter(env.db, t.TempDir())

	rec := httptest.NewRecorder()
	MonthReportCSV(exporter, nil)(rec, monthRequest("0", "2025"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
