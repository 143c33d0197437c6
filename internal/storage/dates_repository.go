package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/event-report-manager/backend/internal/storage/models"
)

// DatesRepository provides data access for event occurrence windows.
type DatesRepository struct {
	BaseRepository
}

// NewDatesRepository creates a new dates repository.
func NewDatesRepository(db *DB) *DatesRepository {
	return &DatesRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new date entry.
func (r *DatesRepository) Create(ctx context.Context, d *models.Dates) error {
	d.ID = GenerateID()
	d.CreatedAt = r.Now()
	d.UpdatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO dates (id, event_id, start, end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, d.ID, d.EventID, d.Start, d.End, d.CreatedAt, d.UpdatedAt)

	if err != nil {
		return fmt.Errorf("inserting date: %w", err)
	}

	return nil
}

// CreateBatch inserts multiple date entries in a single transaction.
// Any failure rolls back the whole batch.
func (r *DatesRepository) CreateBatch(ctx context.Context, entries []*models.Dates) error {
	return r.Transaction(func(tx *sql.Tx) error {
		for _, d := range entries {
			d.ID = GenerateID()
			d.CreatedAt = r.Now()
			d.UpdatedAt = r.Now()

			_, err := tx.ExecContext(ctx, `
				INSERT INTO dates (id, event_id, start, end, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, d.ID, d.EventID, d.Start, d.End, d.CreatedAt, d.UpdatedAt)
			if err != nil {
				return fmt.Errorf("inserting date for event %s: %w", d.EventID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a date entry by its ID.
func (r *DatesRepository) GetByID(ctx context.Context, id string) (*models.Dates, error) {
	d := &models.Dates{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, event_id, start, end, created_at, updated_at
		FROM dates WHERE id = ?
	`, id).Scan(&d.ID, &d.EventID, &d.Start, &d.End, &d.CreatedAt, &d.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying date: %w", err)
	}

	return d, nil
}

// List retrieves all date entries ordered by start.
func (r *DatesRepository) List(ctx context.Context) ([]models.Dates, error) {
	return r.list(ctx, `
		SELECT id, event_id, start, end, created_at, updated_at
		FROM dates ORDER BY start
	`)
}

// ListOverlappingDay retrieves all date entries whose [start, end] window
// overlaps the three-day window centered on the given day.
func (r *DatesRepository) ListOverlappingDay(ctx context.Context, day time.Time) ([]models.Dates, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	windowStart := dayStart.AddDate(0, 0, -1)
	windowEnd := dayStart.AddDate(0, 0, 2)

	return r.list(ctx, `
		SELECT id, event_id, start, end, created_at, updated_at
		FROM dates WHERE start < ? AND end >= ? ORDER BY start
	`, windowEnd, windowStart)
}

func (r *DatesRepository) list(ctx context.Context, query string, args ...any) ([]models.Dates, error) {
	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying dates: %w", err)
	}
	defer rows.Close()

	var dates []models.Dates
	for rows.Next() {
		var d models.Dates
		if err := rows.Scan(&d.ID, &d.EventID, &d.Start, &d.End, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning date: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// Update updates an existing date entry.
func (r *DatesRepository) Update(ctx context.Context, d *models.Dates) error {
	d.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE dates SET start = ?, end = ?, updated_at = ?
		WHERE id = ?
	`, d.Start, d.End, d.UpdatedAt, d.ID)

	if err != nil {
		return fmt.Errorf("updating date: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("date not found: %s", d.ID)
	}

	return nil
}

// Delete removes a date entry by ID.
func (r *DatesRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM dates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting date: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("date not found: %s", id)
	}

	return nil
}
