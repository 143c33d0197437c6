// Package artifact derives canonical filesystem locations for generated
// report documents and provides safe read/write access to them.
//
// A report PDF has no persisted pointer in the database. Its location is
// recomputed from (event name, earliest date start) on every access, so the
// namer here must be the single source of truth for both the render side and
// every retrieval side.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound indicates that the derived artifact path does not exist on
// disk: the report was never rendered, or its event was renamed after the
// last render and the derived key no longer matches.
var ErrNotFound = errors.New("artifact not found")

// nameSanitizer strips characters that would break the derived filename or
// escape the artifact directory. '$' is reserved as the field separator.
var nameSanitizer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"$", "_",
	"\x00", "_",
)

// SanitizeName returns the event name with path-breaking characters replaced.
func SanitizeName(eventName string) string {
	return nameSanitizer.Replace(eventName)
}

// PDFFilename returns the canonical filename for a report PDF:
// "{event_name}${YYYY-MM-DD}.pdf", the date being the start of the event's
// earliest occurrence truncated to the calendar day.
func PDFFilename(eventName string, start time.Time) string {
	return fmt.Sprintf("%s$%s.pdf", SanitizeName(eventName), start.Format("2006-01-02"))
}

// PDFPath returns the canonical path for a report PDF under pdfDir.
// Pure: identical inputs always yield an identical path.
func PDFPath(pdfDir, eventName string, start time.Time) string {
	return filepath.Join(pdfDir, PDFFilename(eventName, start))
}

// DownloadName returns the filename offered to the client when a report PDF
// is downloaded as an attachment.
func DownloadName(eventName string) string {
	return SanitizeName(eventName) + "_Report.pdf"
}

// Open opens the artifact at path for reading. A missing file is reported as
// ErrNotFound so callers can answer 404 instead of leaking a raw I/O error.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	return f, nil
}
