// Package export produces aggregate CSV documents for calendar months.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/event-report-manager/backend/internal/storage"
)

// ErrFailed indicates the exporter could not complete the query or the file
// write. No partial CSV is left behind.
var ErrFailed = errors.New("export failed")

var csvHeader = []string{"Event", "Department", "Start", "End", "Created By"}

// MonthExporter generates one CSV per (month, year) request. Results are not
// cached: a month's event volume is bounded and requests are low-frequency,
// so every call re-queries and re-writes.
type MonthExporter struct {
	db  *storage.DB
	dir string
}

// NewMonthExporter creates an exporter writing into dir.
func NewMonthExporter(db *storage.DB, dir string) *MonthExporter {
	return &MonthExporter{db: db, dir: dir}
}

// Generate writes a CSV with one row per date entry starting in the given
// month and returns the file path plus the month's English name. An empty
// month yields a valid header-only CSV. Concurrent calls for the same month
// never collide: each request gets a unique filename.
//
// The caller owns the returned file and should remove it after streaming.
// Returns the file path, the month's name, and the number of data rows.
func (e *MonthExporter) Generate(ctx context.Context, month time.Month, year int) (string, string, int, error) {
	monthName := month.String()

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := e.db.QueryContext(ctx, `
		SELECT e.name, COALESCE(dep.name, ''), d.start, d.end, COALESCE(u.email, '')
		FROM dates d
		JOIN events e ON e.id = d.event_id
		LEFT JOIN departments dep ON dep.id = e.department_id
		LEFT JOIN users u ON u.id = e.creator_id
		WHERE d.start >= ? AND d.start < ?
		ORDER BY d.start
	`, from, to)
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: querying month dates: %v", ErrFailed, err)
	}
	defer rows.Close()

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", "", 0, fmt.Errorf("%w: creating export directory: %v", ErrFailed, err)
	}

	f, err := os.CreateTemp(e.dir, fmt.Sprintf("%s_%d_*.csv", monthName, year))
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: creating export file: %v", ErrFailed, err)
	}
	path := f.Name()

	fail := func(op string, err error) (string, string, int, error) {
		f.Close()
		os.Remove(path)
		return "", "", 0, fmt.Errorf("%w: %s: %v", ErrFailed, op, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fail("writing header", err)
	}

	count := 0
	for rows.Next() {
		var eventName, deptName, creator string
		var start, end time.Time
		if err := rows.Scan(&eventName, &deptName, &start, &end, &creator); err != nil {
			return fail("scanning row", err)
		}

		record := []string{
			eventName,
			deptName,
			start.UTC().Format("2006-01-02 15:04"),
			end.UTC().Format("2006-01-02 15:04"),
			creator,
		}
		if err := w.Write(record); err != nil {
			return fail("writing row", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return fail("iterating rows", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fail("flushing CSV", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", "", 0, fmt.Errorf("%w: closing export file: %v", ErrFailed, err)
	}

	return path, monthName, count, nil
}
