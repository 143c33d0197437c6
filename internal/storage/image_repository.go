package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/event-report-manager/backend/internal/storage/models"
)

// ImageRepository provides data access for report images.
type ImageRepository struct {
	BaseRepository
}

// NewImageRepository creates a new image repository.
func NewImageRepository(db *DB) *ImageRepository {
	return &ImageRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new image record. The blob itself is written to disk by
// the caller before the row is inserted.
func (r *ImageRepository) Create(ctx context.Context, img *models.Image) error {
	img.ID = GenerateID()
	img.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO images (id, report_id, file_path, original_name, content_type, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, img.ID, img.ReportID, img.FilePath, img.OriginalName,
		img.ContentType, img.SizeBytes, img.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting image: %w", err)
	}

	return nil
}

// GetByID retrieves an image by its ID.
func (r *ImageRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	img := &models.Image{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, report_id, file_path, original_name, content_type, size_bytes, created_at
		FROM images WHERE id = ?
	`, id).Scan(
		&img.ID, &img.ReportID, &img.FilePath, &img.OriginalName,
		&img.ContentType, &img.SizeBytes, &img.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying image: %w", err)
	}

	return img, nil
}

// ListByReport retrieves all images belonging to a report, upload order.
func (r *ImageRepository) ListByReport(ctx context.Context, reportID string) ([]models.Image, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, report_id, file_path, original_name, content_type, size_bytes, created_at
		FROM images WHERE report_id = ? ORDER BY created_at
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(
			&img.ID, &img.ReportID, &img.FilePath, &img.OriginalName,
			&img.ContentType, &img.SizeBytes, &img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

// Delete removes an image record by ID.
func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM images WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("image not found: %s", id)
	}

	return nil
}
