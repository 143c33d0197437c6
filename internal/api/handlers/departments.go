package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/storage/models"
)

// DepartmentRequest is the request body for creating or updating a department.
type DepartmentRequest struct {
	Name    string  `json:"name"`
	OwnerID *string `json:"owner_id,omitempty"`
}

// ListDepartments returns all departments.
func ListDepartments(depts *storage.DepartmentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := depts.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query departments")
			return
		}

		if list == nil {
			list = []models.Department{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

// CreateDepartment adds a department.
func CreateDepartment(depts *storage.DepartmentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DepartmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name is required")
			return
		}

		dept := &models.Department{Name: req.Name, OwnerID: req.OwnerID}
		if err := depts.Create(r.Context(), dept); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create department")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(dept)
	}
}

// CreateDepartmentsBatch accepts an array of departments and persists them
// all-or-nothing.
func CreateDepartmentsBatch(depts *storage.DepartmentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reqs []DepartmentRequest
		if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Request body must be an array of departments")
			return
		}

		var invalid []map[string]string
		for i, req := range reqs {
			if req.Name == "" {
				invalid = append(invalid, map[string]string{
					"index": fmt.Sprintf("%d", i),
					"error": "name is required",
				})
			}
		}
		if len(invalid) > 0 {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "One or more departments are invalid", invalid)
			return
		}

		batch := make([]*models.Department, 0, len(reqs))
		for _, req := range reqs {
			batch = append(batch, &models.Department{Name: req.Name, OwnerID: req.OwnerID})
		}

		if err := depts.CreateBatch(r.Context(), batch); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Batch rejected: "+err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(batch)
	}
}

// GetDepartment returns a single department.
func GetDepartment(depts *storage.DepartmentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dept, err := depts.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query department")
			return
		}
		if dept == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Department not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dept)
	}
}

// UpdateDepartment updates a department.
func UpdateDepartment(depts *storage.DepartmentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DepartmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name is required")
			return
		}

		dept := &models.Department{ID: mux.Vars(r)["id"], Name: req.Name, OwnerID: req.OwnerID}
		if err := depts.Update(r.Context(), dept); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Department not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteDepartment removes a department.
func DeleteDepartment(depts *storage.DepartmentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := depts.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Department not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
