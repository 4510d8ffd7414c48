package repository

import (
	"context"

	"github.com/minsuhan/tasktalk/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

type CategoryRepository interface {
	GetOrCreate(ctx context.Context, ownerID int64, name string) (model.Category, error)
}
