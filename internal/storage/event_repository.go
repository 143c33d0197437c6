package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/event-report-manager/backend/internal/storage/models"
)

// EventRepository provides data access for events.
type EventRepository struct {
	BaseRepository
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.ID = GenerateID()
	event.CreatedAt = r.Now()
	event.UpdatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO events (id, name, creator_id, department_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		event.ID, event.Name, event.CreatorID, event.DepartmentID,
		event.CreatedAt, event.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by its ID, including its ordered dates.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event := &models.Event{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, name, creator_id, department_id, created_at, updated_at
		FROM events WHERE id = ?
	`, id).Scan(
		&event.ID, &event.Name, &event.CreatorID, &event.DepartmentID,
		&event.CreatedAt, &event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}

	dates, err := r.listDates(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.Dates = dates

	return event, nil
}

// List retrieves all events with their dates.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	return r.list(ctx, `
		SELECT id, name, creator_id, department_id, created_at, updated_at
		FROM events ORDER BY name
	`)
}

// ListByCreator retrieves all events created by the given user.
func (r *EventRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Event, error) {
	return r.list(ctx, `
		SELECT id, name, creator_id, department_id, created_at, updated_at
		FROM events WHERE creator_id = ? ORDER BY name
	`, creatorID)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(
			&event.ID, &event.Name, &event.CreatorID, &event.DepartmentID,
			&event.CreatedAt, &event.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		dates, err := r.listDates(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].Dates = dates
	}

	return events, nil
}

func (r *EventRepository) listDates(ctx context.Context, eventID string) ([]models.Dates, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, event_id, start, end, created_at, updated_at
		FROM dates WHERE event_id = ? ORDER BY start
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying event dates: %w", err)
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

// Update updates an existing event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE events SET name = ?, department_id = ?, updated_at = ?
		WHERE id = ?
	`, event.Name, event.DepartmentID, event.UpdatedAt, event.ID)

	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("event not found: %s", event.ID)
	}

	return nil
}

// Delete removes an event by ID. Dates and reports cascade.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("event not found: %s", id)
	}

	return nil
}
