package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/storage/models"
)

func postJSON(t *testing.T, url string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest("POST", url, bytes.NewReader(buf))
}

func TestCreateDates(t *testing.T) {
	env := newTestEnv(t)
	event := &models.Event{Name: "Open Day"}
	require.NoError(t, env.events.Create(context.Background(), event))

	start := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	req := postJSON(t, "/api/dates", DatesRequest{
		EventID: event.ID, Start: start, End: start.Add(2 * time.Hour),
	})
	rec := httptest.NewRecorder()
	CreateDates(env.dates)(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	list, err := env.dates.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateDatesRejectsInvertedWindow(t *testing.T) {
	env := newTestEnv(t)
	event := &models.Event{Name: "Open Day"}
	require.NoError(t, env.events.Create(context.Background(), event))

	start := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	req := postJSON(t, "/api/dates", DatesRequest{
		EventID: event.ID, Start: start, End: start.Add(-time.Hour),
	})
	rec := httptest.NewRecorder()
	CreateDates(env.dates)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, middleware.ErrValidation, decodeError(t, rec).Error)
}

func TestCreateDatesBatch(t *testing.T) {
	env := newTestEnv(t)
	event := &models.Event{Name: "Open Day"}
	require.NoError(t, env.events.Create(context.Background(), event))

	start := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	req := postJSON(t, "/api/dates/multiple", []DatesRequest{
		{EventID: event.ID, Start: start, End: start.Add(2 * time.Hour)},
		{EventID: event.ID, Start: start.AddDate(0, 0, 1), End: start.AddDate(0, 0, 1).Add(2 * time.Hour)},
	})
	rec := httptest.NewRecorder()
	CreateDatesBatch(env.dates)(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	list, err := env.dates.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateDatesBatchAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	event := &models.Event{Name: "Open Day"}
	require.NoError(t, env.events.Create(context.Background(), event))

	start := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	req := postJSON(t, "/api/dates/multiple", []DatesRequest{
		{EventID: event.ID, Start: start, End: start.Add(2 * time.Hour)},
		{EventID: ""}, // invalid: missing event and window
	})
	rec := httptest.NewRecorder()
	CreateDatesBatch(env.dates)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, middleware.ErrValidation, resp.Error)
	assert.NotNil(t, resp.Details, "response must name the offending entries")

	// The valid first entry must not have been committed.
	list, err := env.dates.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateDatesBatchRejectsUnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	start := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	req := postJSON(t, "/api/dates/multiple", []DatesRequest{
		{EventID: "no-such-event", Start: start, End: start.Add(time.Hour)},
	})
	rec := httptest.NewRecorder()
	CreateDatesBatch(env.dates)(rec, req)

	// The foreign key rejects the insert inside the transaction.
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	list, err := env.dates.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
