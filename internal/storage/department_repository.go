package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/event-report-manager/backend/internal/storage/models"
)

// DepartmentRepository provides data access for departments.
type DepartmentRepository struct {
	BaseRepository
}

// NewDepartmentRepository creates a new department repository.
func NewDepartmentRepository(db *DB) *DepartmentRepository {
	return &DepartmentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new department.
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	dept.ID = GenerateID()
	dept.CreatedAt = r.Now()
	dept.UpdatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO departments (id, name, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, dept.ID, dept.Name, dept.OwnerID, dept.CreatedAt, dept.UpdatedAt)

	if err != nil {
		return fmt.Errorf("inserting department: %w", err)
	}

	return nil
}

// CreateBatch inserts multiple departments in a single transaction.
// Any failure rolls back the whole batch.
func (r *DepartmentRepository) CreateBatch(ctx context.Context, depts []*models.Department) error {
	return r.Transaction(func(tx *sql.Tx) error {
		for _, dept := range depts {
			dept.ID = GenerateID()
			dept.CreatedAt = r.Now()
			dept.UpdatedAt = r.Now()

			_, err := tx.ExecContext(ctx, `
				INSERT INTO departments (id, name, owner_id, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)
			`, dept.ID, dept.Name, dept.OwnerID, dept.CreatedAt, dept.UpdatedAt)
			if err != nil {
				return fmt.Errorf("inserting department %q: %w", dept.Name, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a department by its ID.
func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*models.Department, error) {
	dept := &models.Department{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM departments WHERE id = ?
	`, id).Scan(&dept.ID, &dept.Name, &dept.OwnerID, &dept.CreatedAt, &dept.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying department: %w", err)
	}

	return dept, nil
}

// List retrieves all departments.
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM departments ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying departments: %w", err)
	}
	defer rows.Close()

	var depts []models.Department
	for rows.Next() {
		var dept models.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.OwnerID, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning department: %w", err)
		}
		depts = append(depts, dept)
	}

	return depts, rows.Err()
}

// Update updates an existing department.
func (r *DepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	dept.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE departments SET name = ?, owner_id = ?, updated_at = ?
		WHERE id = ?
	`, dept.Name, dept.OwnerID, dept.UpdatedAt, dept.ID)

	if err != nil {
		return fmt.Errorf("updating department: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("department not found: %s", dept.ID)
	}

	return nil
}

// Delete removes a department by ID.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM departments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting department: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("department not found: %s", id)
	}

	return nil
}
