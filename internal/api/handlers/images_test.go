package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/artifact"
	"github.com/event-report-manager/backend/internal/render"
)

// stubEngine fakes the headless-browser PDF engine.
type stubEngine struct {
	pdf []byte
	err error
}

func (s *stubEngine) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	return s.pdf, s.err
}

func uploadRequest(t *testing.T, reportID, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("report", reportID))
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(fw, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImageRendersReport(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	event, report := env.seedReport(t, "Open Day", start)

	pdfDir := t.TempDir()
	renderer := render.New(&stubEngine{pdf: []byte("%PDF-1.4 rendered")}, pdfDir, time.Second)

	rec := httptest.NewRecorder()
	handler := UploadImage(env.images, env.reports, renderer, nil, t.TempDir())
	handler(rec, uploadRequest(t, report.ID, "photo.png", []byte("png-bytes")))

	require.Equal(t, http.StatusCreated, rec.Code)

	// The artifact must exist at its canonical path before the response.
	path := artifact.PDFPath(pdfDir, event.Name, start)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 rendered", string(got))

	images, err := env.images.ListByReport(context.Background(), report.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "photo.png", images[0].OriginalName)
}

func TestUploadImageRenderFailure(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	event, report := env.seedReport(t, "Open Day", start)

	pdfDir := t.TempDir()
	path := artifact.PDFPath(pdfDir, event.Name, start)
	require.NoError(t, artifact.WriteAtomic(path, []byte("%PDF previous")))

	renderer := render.New(&stubEngine{err: errors.New("browser crashed")}, pdfDir, time.Second)

	rec := httptest.NewRecorder()
	handler := UploadImage(env.images, env.reports, renderer, nil, t.TempDir())
	handler(rec, uploadRequest(t, report.ID, "photo.png", []byte("png-bytes")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, middleware.ErrRenderFailed, decodeError(t, rec).Error)

	// The previous artifact stays readable after the failed render.
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF previous", string(got))
}

func TestUploadImageUnknownReport(t *testing.T) {
	env := newTestEnv(t)
	renderer := render.New(&stubEngine{pdf: []byte("%PDF-1.4")}, t.TempDir(), time.Second)

	rec := httptest.NewRecorder()
	handler := UploadImage(env.images, env.reports, renderer, nil, t.TempDir())
	handler(rec, uploadRequest(t, "no-such-report", "photo.png", []byte("png-bytes")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
