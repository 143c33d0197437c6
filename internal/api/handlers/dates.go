package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/storage/models"
)

// DatesRequest is the request body for creating or updating a date entry.
type DatesRequest struct {
	EventID string    `json:"event_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

func (req *DatesRequest) validate() error {
	if req.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("start and end are required")
	}
	if req.End.Before(req.Start) {
		return fmt.Errorf("start must not be after end")
	}
	return nil
}

// ListDates returns all date entries ordered by start.
func ListDates(dates *storage.DatesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := dates.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query dates")
			return
		}

		if list == nil {
			list = []models.Dates{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

// CreateDates adds a single date entry.
func CreateDates(dates *storage.DatesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DatesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if err := req.validate(); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}

		d := &models.Dates{EventID: req.EventID, Start: req.Start.UTC(), End: req.End.UTC()}
		if err := dates.Create(r.Context(), d); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create date")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(d)
	}
}

// CreateDatesBatch accepts an array of date entries and persists them
// all-or-nothing: any invalid element rejects the whole batch with per-item
// detail and nothing is committed.
func CreateDatesBatch(dates *storage.DatesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reqs []DatesRequest
		if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Request body must be an array of date entries")
			return
		}

		var invalid []map[string]string
		for i, req := range reqs {
			if err := req.validate(); err != nil {
				invalid = append(invalid, map[string]string{
					"index": fmt.Sprintf("%d", i),
					"error": err.Error(),
				})
			}
		}
		if len(invalid) > 0 {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "One or more entries are invalid", invalid)
			return
		}

		entries := make([]*models.Dates, 0, len(reqs))
		for _, req := range reqs {
			entries = append(entries, &models.Dates{
				EventID: req.EventID,
				Start:   req.Start.UTC(),
				End:     req.End.UTC(),
			})
		}

		if err := dates.CreateBatch(r.Context(), entries); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Batch rejected: "+err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entries)
	}
}

// GetDates returns a single date entry.
func GetDates(dates *storage.DatesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := dates.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query date")
			return
		}
		if d == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Date not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(d)
	}
}

// UpdateDates updates a date entry.
func UpdateDates(dates *storage.DatesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DatesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Start.IsZero() || req.End.IsZero() || req.End.Before(req.Start) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Valid start and end are required")
			return
		}

		d := &models.Dates{ID: mux.Vars(r)["id"], Start: req.Start.UTC(), End: req.End.UTC()}
		if err := dates.Update(r.Context(), d); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Date not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteDates removes a date entry.
func DeleteDates(dates *storage.DatesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := dates.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Date not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
