package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/auth"
	"github.com/event-report-manager/backend/internal/storage/models"
)

func TestListMyEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mine := &models.User{Email: "mine@example.com"}
	require.NoError(t, env.users.Create(ctx, mine))
	other := &models.User{Email: "other@example.com"}
	require.NoError(t, env.users.Create(ctx, other))

	require.NoError(t, env.events.Create(ctx, &models.Event{Name: "Mine", CreatorID: &mine.ID}))
	require.NoError(t, env.events.Create(ctx, &models.Event{Name: "Theirs", CreatorID: &other.ID}))

	mgr := auth.NewJWTManager("test-secret", time.Hour)
	token, err := mgr.GenerateToken(mine.ID, "Me")
	require.NoError(t, err)

	handler := middleware.RequireAuth(mgr, ListMyEvents(env.events))

	req := httptest.NewRequest("GET", "/api/events/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Mine", list[0].Name)
}

func TestListMyEventsRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	handler := middleware.RequireAuth(auth.NewJWTManager("test-secret", time.Hour), ListMyEvents(env.events))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/api/events/mine", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEventValidation(t *testing.T) {
	env := newTestEnv(t)

	req := postJSON(t, "/api/events", EventRequest{Name: ""})
	rec := httptest.NewRecorder()
	CreateEvent(env.events)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, middleware.ErrValidation, decodeError(t, rec).Error)
}
