package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/event-report-manager/backend/internal/api/middleware"
)

func TestCreateDepartmentsBatch(t *testing.T) {
	env := newTestEnv(t)

	req := postJSON(t, "/api/departments/multiple", []DepartmentRequest{
		{Name: "Outreach"},
		{Name: "Facilities"},
	})
	rec := httptest.NewRecorder()
	CreateDepartmentsBatch(env.departments)(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	list, err := env.departments.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateDepartmentsBatchAllOrNothing(t *testing.T) {
	env := newTestEnv(t)

	req := postJSON(t, "/api/departments/multiple", []DepartmentRequest{
		{Name: "Outreach"},
		{Name: ""}, // invalid
	})
	rec := httptest.NewRecorder()
	CreateDepartmentsBatch(env.departments)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, middleware.ErrValidation, decodeError(t, rec).Error)

	list, err := env.departments.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
