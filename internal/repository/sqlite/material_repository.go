package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/models"
	"github.com/vytor/recallflash/internal/repository"
)

type materialRepository struct {
	db *sql.DB
}

// NewMaterialRepository creates a new MaterialRepository implementation
func NewMaterialRepository(db *sql.DB) repository.MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Get(ctx context.Context, id int64) (*models.Material, error) {
	log := logger.FromContext(ctx).WithPrefix("material_repo")
	log.Debug("getting material: id=%d", id)

	var m models.Material
	err := r.db.QueryRowContext(ctx, `
SELECT id, title, subject, content, created_at
FROM materials
WHERE id = ?
`, id).Scan(&m.ID, &m.Title, &m.Subject, &m.Content, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("material not found: id=%d", id)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get material: %v", err)
		return nil, err
	}
	return &m, nil
}

func (r *materialRepository) List(ctx context.Context) ([]models.Material, error) {
	log := logger.FromContext(ctx).WithPrefix("material_repo")
	log.Debug("listing materials")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, subject, content, created_at
FROM materials
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		log.Error("failed to list materials: %v", err)
		return nil, err
	}
	defer rows.Close()

	materials := []models.Material{}
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(&m.ID, &m.Title, &m.Subject, &m.Content, &m.CreatedAt); err != nil {
			log.Error("failed to scan material row: %v", err)
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r *materialRepository) Insert(ctx context.Context, m models.Material) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("material_repo")
	log.Debug("inserting material: title=%q", m.Title)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO materials (title, subject, content)
VALUES (?, ?, ?)
`, m.Title, m.Subject, m.Content)
	if err != nil {
		log.Error("failed to insert material: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get material id: %v", err)
		return 0, err
	}
	log.Debug("material inserted: id=%d", id)
	return id, nil
}

func (r *materialRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("material_repo")
	log.Debug("deleting material: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete material: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
