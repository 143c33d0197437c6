package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/storage/models"
)

func newExportFixture(t *testing.T) (*storage.DB, *MonthExporter) {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(db))

	return db, NewMonthExporter(db, t.TempDir())
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestGenerateMonthCSV(t *testing.T) {
	db, exporter := newExportFixture(t)
	ctx := context.Background()

	users := storage.NewUserRepository(db)
	departments := storage.NewDepartmentRepository(db)
	events := storage.NewEventRepository(db)
	dates := storage.NewDatesRepository(db)

	owner := &models.User{Email: "owner@example.com", FirstName: "Pat"}
	require.NoError(t, users.Create(ctx, owner))
	dept := &models.Department{Name: "Outreach"}
	require.NoError(t, departments.Create(ctx, dept))

	event := &models.Event{Name: "Job Fair", CreatorID: &owner.ID, DepartmentID: &dept.ID}
	require.NoError(t, events.Create(ctx, event))

	inMonth1 := time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)
	inMonth2 := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	outside := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for _, s := range []time.Time{inMonth1, inMonth2, outside} {
		require.NoError(t, dates.Create(ctx, &models.Dates{
			EventID: event.ID, Start: s, End: s.Add(4 * time.Hour),
		}))
	}

	path, monthName, rows, err := exporter.Generate(ctx, time.May, 2025)
	require.NoError(t, err)
	defer os.Remove(path)

	assert.Equal(t, "May", monthName)
	assert.Equal(t, 2, rows)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "May_2025_"))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Event", "Department", "Start", "End", "Created By"}, records[0])
	assert.Equal(t, "Job Fair", records[1][0])
	assert.Equal(t, "Outreach", records[1][1])
	assert.Equal(t, "owner@example.com", records[1][4])
}

func TestGenerateEmptyMonthHeaderOnly(t *testing.T) {
	_, exporter := newExportFixture(t)

	path, _, rows, err := exporter.Generate(context.Background(), time.January, 2030)
	require.NoError(t, err)
	defer os.Remove(path)

	assert.Zero(t, rows)
	records := readCSV(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Event", "Department", "Start", "End", "Created By"}, records[0])
}

func TestGenerateUniqueFilenames(t *testing.T) {
	_, exporter := newExportFixture(t)
	ctx := context.Background()

	path1, _, _, err := exporter.Generate(ctx, time.May, 2025)
	require.NoError(t, err)
	defer os.Remove(path1)

	path2, _, _, err := exporter.Generate(ctx, time.May, 2025)
	require.NoError(t, err)
	defer os.Remove(path2)

	assert.NotEqual(t, path1, path2, "concurrent exports must never share a file")
}
