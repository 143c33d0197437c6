package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/render"
	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/storage/models"
	"github.com/event-report-manager/backend/internal/websocket"
)

// maxImageUploadBytes bounds a single image upload.
const maxImageUploadBytes = 20 << 20

// UploadImage accepts a multipart image upload for a report and synchronously
// re-renders the report's PDF before answering. When the response arrives the
// artifact on disk reflects every image uploaded so far.
func UploadImage(
	images *storage.ImageRepository,
	reports *storage.ReportRepository,
	renderer *render.Renderer,
	hub *websocket.Hub,
	imageDir string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid multipart body")
			return
		}

		reportID := r.FormValue("report")
		if reportID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "report is required")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "file is required")
			return
		}
		defer file.Close()

		report, err := reports.GetByID(r.Context(), reportID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query report")
			return
		}
		if report == nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown report")
			return
		}

		if err := os.MkdirAll(imageDir, 0o755); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to store image")
			return
		}

		blobPath := filepath.Join(imageDir, storage.GenerateID()+filepath.Ext(header.Filename))
		dst, err := os.Create(blobPath)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to store image")
			return
		}
		size, err := io.Copy(dst, file)
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(blobPath)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to store image")
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		img := &models.Image{
			ReportID:     reportID,
			FilePath:     blobPath,
			OriginalName: header.Filename,
			ContentType:  contentType,
			SizeBytes:    size,
		}
		if err := images.Create(r.Context(), img); err != nil {
			os.Remove(blobPath)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to record image")
			return
		}

		if !renderReport(w, r, reports, renderer, hub, reportID) {
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(img)
	}
}

// renderReport regenerates the report's PDF and broadcasts the outcome.
// Writes the error response and returns false on failure.
func renderReport(
	w http.ResponseWriter,
	r *http.Request,
	reports *storage.ReportRepository,
	renderer *render.Renderer,
	hub *websocket.Hub,
	reportID string,
) bool {
	bundle, err := reports.GetBundle(r.Context(), reportID)
	if err != nil || bundle == nil {
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load report for rendering")
		return false
	}

	broadcaster := websocket.NewEventBroadcaster(hub)

	if _, err := renderer.Render(r.Context(), bundle); err != nil {
		log.Printf("Render failed for report %s: %v", reportID, err)
		broadcaster.BroadcastReportRenderFailed(reportID, bundle.Event.Name, err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrRenderFailed,
			fmt.Sprintf("Failed to render report document: %v", err))
		return false
	}

	broadcaster.BroadcastReportRendered(bundle)
	return true
}

// GetImage serves an uploaded image blob.
func GetImage(images *storage.ImageRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := images.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query image")
			return
		}
		if img == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Image not found")
			return
		}

		f, err := os.Open(img.FilePath)
		if err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Image blob missing")
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", img.ContentType)
		io.Copy(w, f)
	}
}

// DeleteImage removes an image and re-renders the owning report so the PDF
// stays consistent with the surviving images.
func DeleteImage(
	images *storage.ImageRepository,
	reports *storage.ReportRepository,
	renderer *render.Renderer,
	hub *websocket.Hub,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := images.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query image")
			return
		}
		if img == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Image not found")
			return
		}

		if err := images.Delete(r.Context(), img.ID); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete image")
			return
		}
		if err := os.Remove(img.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove image blob %s: %v", img.FilePath, err)
		}

		if !renderReport(w, r, reports, renderer, hub, img.ReportID) {
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
