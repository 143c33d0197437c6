package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/storage/models"
)

func newSweepFixture(t *testing.T) (*storage.DB, *storage.ReportRepository, string) {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(db))

	return db, storage.NewReportRepository(db), t.TempDir()
}

func agedPDF(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	return path
}

func TestSweepRemovesOrphans(t *testing.T) {
	db, reports, pdfDir := newSweepFixture(t)
	ctx := context.Background()

	events := storage.NewEventRepository(db)
	dates := storage.NewDatesRepository(db)

	event := &models.Event{Name: "Team Offsite"}
	require.NoError(t, events.Create(ctx, event))
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, dates.Create(ctx, &models.Dates{
		EventID: event.ID, Start: start, End: start.Add(8 * time.Hour),
	}))
	require.NoError(t, reports.Create(ctx, &models.Report{EventID: event.ID, Summary: "s"}))

	reachable := agedPDF(t, pdfDir, PDFFilename("Team Offsite", start))
	orphan := agedPDF(t, pdfDir, "Renamed Event$2025-06-10.pdf")

	s := NewSweeper(reports, nil, pdfDir, "@hourly")
	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(reachable)
	assert.NoError(t, err, "artifact with a live report must survive")
	_, err = os.Stat(orphan)
	assert.True(t, os.IsNotExist(err), "orphaned artifact must be removed")
}

func TestSweepSkipsRecentFiles(t *testing.T) {
	_, reports, pdfDir := newSweepFixture(t)

	// Fresh orphan, could be a render racing the sweep.
	fresh := filepath.Join(pdfDir, "Fresh$2025-06-10.pdf")
	require.NoError(t, os.WriteFile(fresh, []byte("%PDF-1.4"), 0o644))

	s := NewSweeper(reports, nil, pdfDir, "@hourly")
	removed, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestSweepMissingDir(t *testing.T) {
	_, reports, _ := newSweepFixture(t)

	s := NewSweeper(reports, nil, "/does/not/exist", "@hourly")
	removed, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
