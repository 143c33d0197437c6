// Package render produces the PDF document for a report from its event
// metadata and uploaded images.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/event-report-manager/backend/internal/artifact"
	"github.com/event-report-manager/backend/internal/storage/models"
)

// ErrFailed indicates the renderer could not produce a complete PDF. The
// previous artifact, if any, is left untouched on disk.
var ErrFailed = errors.New("render failed")

// Engine turns a self-contained HTML document into PDF bytes.
type Engine interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Renderer regenerates report PDFs at their canonical artifact path.
type Renderer struct {
	engine  Engine
	pdfDir  string
	timeout time.Duration

	// Renders for the same report must not interleave: two overlapping
	// image uploads would otherwise race on the same artifact path.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a renderer writing into pdfDir.
func New(engine Engine, pdfDir string, timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Renderer{
		engine:  engine,
		pdfDir:  pdfDir,
		timeout: timeout,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing renders of one report.
func (r *Renderer) lockFor(reportID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[reportID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[reportID] = l
	}
	return l
}

// Render regenerates the PDF for the given report bundle and returns the
// canonical path it was written to. The write is atomic: readers observe
// either the previous complete file or the new one. All failures are
// classified as ErrFailed.
func (r *Renderer) Render(ctx context.Context, bundle *models.ReportBundle) (string, error) {
	if len(bundle.Event.Dates) == 0 {
		return "", fmt.Errorf("%w: event %q has no dates to derive the artifact key from", ErrFailed, bundle.Event.Name)
	}

	path := artifact.PDFPath(r.pdfDir, bundle.Event.Name, bundle.Event.Dates[0].Start)

	l := r.lockFor(bundle.Report.ID)
	l.Lock()
	defer l.Unlock()

	html, err := BuildHTML(bundle)
	if err != nil {
		return "", fmt.Errorf("%w: building document: %v", ErrFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pdf, err := r.engine.RenderPDF(ctx, html)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if len(pdf) == 0 || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return "", fmt.Errorf("%w: engine returned an invalid document", ErrFailed)
	}

	if err := artifact.WriteAtomic(path, pdf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}

	return path, nil
}
