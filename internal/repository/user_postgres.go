package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minsuhan/tasktalk/internal/model"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUser(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (username, password_hash, full_name, is_admin)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id, username, password_hash, full_name, is_admin, created_at`

	row := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.FullName, user.IsAdmin)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	query := `
		SELECT id, username, password_hash, full_name, is_admin, created_at
		FROM users
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := `
		SELECT id, username, password_hash, full_name, is_admin, created_at
		FROM users
		WHERE username = $1`

	row := r.db.QueryRowContext(ctx, query, username)
	return scanUser(row)
}

func scanUser(row scannable) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
