package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/storage/models"
)

// testEnv bundles a migrated temp database with its repositories.
type testEnv struct {
	db          *storage.DB
	events      *storage.EventRepository
	dates       *storage.DatesRepository
	departments *storage.DepartmentRepository
	reports     *storage.ReportRepository
	images      *storage.ImageRepository
	users       *storage.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(db))

	return &testEnv{
		db:          db,
		events:      storage.NewEventRepository(db),
		dates:       storage.NewDatesRepository(db),
		departments: storage.NewDepartmentRepository(db),
		reports:     storage.NewReportRepository(db),
		images:      storage.NewImageRepository(db),
		users:       storage.NewUserRepository(db),
	}
}

// seedReport creates an event with one date window and a report for it.
func (env *testEnv) seedReport(t *testing.T, eventName string, start time.Time) (*models.Event, *models.Report) {
	t.Helper()
	ctx := context.Background()

	event := &models.Event{Name: eventName}
	require.NoError(t, env.events.Create(ctx, event))
	require.NoError(t, env.dates.Create(ctx, &models.Dates{
		EventID: event.ID, Start: start, End: start.Add(4 * time.Hour),
	}))

	report := &models.Report{EventID: event.ID, Summary: "summary", Description: "description"}
	require.NoError(t, env.reports.Create(ctx, report))

	return event, report
}
