package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/event-report-manager/backend/internal/storage/models"
)

// ReportRepository provides data access for event reports.
type ReportRepository struct {
	BaseRepository
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new report.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	report.ID = GenerateID()
	report.CreatedAt = r.Now()
	report.UpdatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO reports (id, event_id, summary, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.ID, report.EventID, report.Summary, report.Description,
		report.CreatedAt, report.UpdatedAt)

	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}

	return nil
}

// GetByID retrieves a report by its ID.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	report := &models.Report{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, event_id, summary, description, created_at, updated_at
		FROM reports WHERE id = ?
	`, id).Scan(
		&report.ID, &report.EventID, &report.Summary, &report.Description,
		&report.CreatedAt, &report.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying report: %w", err)
	}

	return report, nil
}

// List retrieves all reports.
func (r *ReportRepository) List(ctx context.Context) ([]models.Report, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, event_id, summary, description, created_at, updated_at
		FROM reports ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(
			&report.ID, &report.EventID, &report.Summary, &report.Description,
			&report.CreatedAt, &report.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// GetBundle retrieves a report together with its owning event (ordered dates
// included) and its ordered images. Returns nil when the report is missing.
func (r *ReportRepository) GetBundle(ctx context.Context, id string) (*models.ReportBundle, error) {
	report, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, nil
	}

	bundle := &models.ReportBundle{Report: *report}

	err = r.DB().QueryRowContext(ctx, `
		SELECT id, name, creator_id, department_id, created_at, updated_at
		FROM events WHERE id = ?
	`, report.EventID).Scan(
		&bundle.Event.ID, &bundle.Event.Name, &bundle.Event.CreatorID,
		&bundle.Event.DepartmentID, &bundle.Event.CreatedAt, &bundle.Event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("querying report event: %w", err)
	}

	dateRows, err := r.DB().QueryContext(ctx, `
		SELECT id, event_id, start, end, created_at, updated_at
		FROM dates WHERE event_id = ? ORDER BY start
	`, bundle.Event.ID)
	if err != nil {
		return nil, fmt.Errorf("querying event dates: %w", err)
	}
	defer dateRows.Close()

	for dateRows.Next() {
		var d models.Dates
		if err := dateRows.Scan(&d.ID, &d.EventID, &d.Start, &d.End, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning date: %w", err)
		}
		bundle.Event.Dates = append(bundle.Event.Dates, d)
	}
	if err := dateRows.Err(); err != nil {
		return nil, err
	}

	imageRows, err := r.DB().QueryContext(ctx, `
		SELECT id, report_id, file_path, original_name, content_type, size_bytes, created_at
		FROM images WHERE report_id = ? ORDER BY created_at
	`, report.ID)
	if err != nil {
		return nil, fmt.Errorf("querying report images: %w", err)
	}
	defer imageRows.Close()

	for imageRows.Next() {
		var img models.Image
		if err := imageRows.Scan(
			&img.ID, &img.ReportID, &img.FilePath, &img.OriginalName,
			&img.ContentType, &img.SizeBytes, &img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		bundle.Images = append(bundle.Images, img)
	}

	return bundle, imageRows.Err()
}

// Update updates an existing report.
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	report.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE reports SET summary = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, report.Summary, report.Description, report.UpdatedAt, report.ID)

	if err != nil {
		return fmt.Errorf("updating report: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("report not found: %s", report.ID)
	}

	return nil
}

// Delete removes a report by ID. Images cascade.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("report not found: %s", id)
	}

	return nil
}

// ListArtifactKeys returns (event name, earliest start) pairs for every report
// that has at least one event date. The artifact sweeper uses these to decide
// which PDFs on disk are still reachable.
func (r *ReportRepository) ListArtifactKeys(ctx context.Context) ([]models.ArtifactKey, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT DISTINCT e.name, d.start
		FROM reports rep
		JOIN events e ON e.id = rep.event_id
		JOIN dates d ON d.event_id = e.id
		WHERE d.start = (SELECT MIN(d2.start) FROM dates d2 WHERE d2.event_id = e.id)
	`)
	if err != nil {
		return nil, fmt.Errorf("querying artifact keys: %w", err)
	}
	defer rows.Close()

	var keys []models.ArtifactKey
	for rows.Next() {
		var k models.ArtifactKey
		if err := rows.Scan(&k.EventName, &k.Start); err != nil {
			return nil, fmt.Errorf("scanning artifact key: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}
