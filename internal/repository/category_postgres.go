package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minsuhan/tasktalk/internal/model"
)

type PostgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategory(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) GetOrCreate(ctx context.Context, ownerID int64, name string) (model.Category, error) {
	query := `
		INSERT INTO categories (owner_id, name)
		VALUES ($1, $2)
		ON CONFLICT (owner_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, owner_id, name`

	var c model.Category
	err := r.db.QueryRowContext(ctx, query, ownerID, name).Scan(&c.ID, &c.OwnerID, &c.Name)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to get or create category: %w", err)
	}
	return c, nil
}

var _ CategoryRepository = (*PostgresCategoryRepository)(nil)
