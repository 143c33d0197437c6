package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/event-report-manager/backend/internal/storage/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunMigrations(db))
	return db
}

func TestGetBundleOrdersDates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	events := NewEventRepository(db)
	dates := NewDatesRepository(db)
	reports := NewReportRepository(db)

	event := &models.Event{Name: "Open Day"}
	require.NoError(t, events.Create(ctx, event))

	// Inserted out of order on purpose.
	second := time.Date(2025, 4, 22, 9, 0, 0, 0, time.UTC)
	first := time.Date(2025, 4, 20, 9, 0, 0, 0, time.UTC)
	for _, s := range []time.Time{second, first} {
		require.NoError(t, dates.Create(ctx, &models.Dates{
			EventID: event.ID, Start: s, End: s.Add(time.Hour),
		}))
	}

	report := &models.Report{EventID: event.ID, Summary: "s"}
	require.NoError(t, reports.Create(ctx, report))

	bundle, err := reports.GetBundle(ctx, report.ID)
	require.NoError(t, err)
	require.NotNil(t, bundle)

	require.Len(t, bundle.Event.Dates, 2)
	assert.Equal(t, first, bundle.Event.Dates[0].Start.UTC(),
		"the earliest window must come first, it is the artifact key date")
}

func TestGetBundleUnknownReport(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportRepository(db)

	bundle, err := reports.GetBundle(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, bundle)
}

func TestListArtifactKeysUsesEarliestStart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	events := NewEventRepository(db)
	dates := NewDatesRepository(db)
	reports := NewReportRepository(db)

	event := &models.Event{Name: "Open Day"}
	require.NoError(t, events.Create(ctx, event))

	earliest := time.Date(2025, 4, 20, 9, 0, 0, 0, time.UTC)
	later := time.Date(2025, 4, 25, 9, 0, 0, 0, time.UTC)
	for _, s := range []time.Time{later, earliest} {
		require.NoError(t, dates.Create(ctx, &models.Dates{
			EventID: event.ID, Start: s, End: s.Add(time.Hour),
		}))
	}

	// Two reports for the same event share one artifact key.
	require.NoError(t, reports.Create(ctx, &models.Report{EventID: event.ID, Summary: "a"}))
	require.NoError(t, reports.Create(ctx, &models.Report{EventID: event.ID, Summary: "b"}))

	keys, err := reports.ListArtifactKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "Open Day", keys[0].EventName)
	assert.Equal(t, earliest, keys[0].Start.UTC())
}

func TestListArtifactKeysSkipsEventsWithoutReports(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	events := NewEventRepository(db)
	dates := NewDatesRepository(db)
	reports := NewReportRepository(db)

	event := &models.Event{Name: "No Report"}
	require.NoError(t, events.Create(ctx, event))
	s := time.Date(2025, 4, 20, 9, 0, 0, 0, time.UTC)
	require.NoError(t, dates.Create(ctx, &models.Dates{
		EventID: event.ID, Start: s, End: s.Add(time.Hour),
	}))

	keys, err := reports.ListArtifactKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
