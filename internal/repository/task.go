package repository

import (
	"context"

	"github.com/minsuhan/tasktalk/internal/model"
)

type TaskRepository interface {
	Insert(ctx context.Context, task model.Task) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, ownerID, taskID int64) error
	GetByTitle(ctx context.Context, ownerID int64, title string) (model.Task, error)
	TitleExists(ctx context.Context, ownerID int64, title string, excludeID int64) (bool, error)
	// ListByOwner returns the owner's tasks in ascending id order. Matching
	// relies on that order being stable.
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Task, error)
	List(ctx context.Context, params model.TaskListParams) ([]model.Task, error)
}

// Transactor runs fn against a repository bound to a single database
// transaction. A non-nil error from fn rolls the transaction back.
type Transactor interface {
	InTx(ctx context.Context, fn func(TaskRepository) error) error
}
