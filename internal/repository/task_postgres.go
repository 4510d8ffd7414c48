package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/minsuhan/tasktalk/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type PostgresTaskRepository struct {
	db *sql.DB // nil when bound to a transaction
	q  querier
}

func NewPostgresTask(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db, q: db}
}

func (r *PostgresTaskRepository) InTx(ctx context.Context, fn func(TaskRepository) error) error {
	if r.db == nil {
		// Already transaction-bound; reuse the same transaction.
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&PostgresTaskRepository{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const taskColumns = `t.id, t.owner_id, t.title, t.description, t.completed, t.priority, t.due_date, t.category_id, c.name, t.created_at, t.updated_at`

func (r *PostgresTaskRepository) Insert(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		INSERT INTO tasks (owner_id, title, description, completed, priority, due_date, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, owner_id, title, description, completed, priority, due_date, category_id, created_at, updated_at`

	row := r.q.QueryRowContext(ctx, query,
		task.OwnerID, task.Title, task.Description, task.Completed,
		task.Priority, task.DueDate, task.CategoryID,
	)

	return scanTaskRow(row)
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, priority = $4, due_date = $5, category_id = $6, updated_at = now()
		WHERE id = $7 AND owner_id = $8
		RETURNING id, owner_id, title, description, completed, priority, due_date, category_id, created_at, updated_at`

	row := r.q.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Completed, task.Priority,
		task.DueDate, task.CategoryID, task.ID, task.OwnerID,
	)

	return scanTaskRow(row)
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, ownerID, taskID int64) error {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	result, err := r.q.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *PostgresTaskRepository) GetByTitle(ctx context.Context, ownerID int64, title string) (model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.owner_id = $1 AND t.title = $2
		ORDER BY t.id ASC
		LIMIT 1`

	row := r.q.QueryRowContext(ctx, query, ownerID, title)
	return scanJoinedTask(row)
}

func (r *PostgresTaskRepository) TitleExists(ctx context.Context, ownerID int64, title string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tasks WHERE owner_id = $1 AND title = $2 AND id <> $3)`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, ownerID, title, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return exists, nil
}

func (r *PostgresTaskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.owner_id = $1
		ORDER BY t.id ASC`

	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

var sortColumns = map[string]string{
	"priority":   "t.priority",
	"due_date":   "t.due_date",
	"created_at": "t.created_at",
}

func (r *PostgresTaskRepository) List(ctx context.Context, params model.TaskListParams) ([]model.Task, error) {
	var (
		conds []string
		args  []any
	)

	if !params.AllOwners {
		args = append(args, params.OwnerID)
		conds = append(conds, fmt.Sprintf("t.owner_id = $%d", len(args)))
	}

	if f := params.Filters; f != nil {
		if f.Completed != nil {
			args = append(args, *f.Completed)
			conds = append(conds, fmt.Sprintf("t.completed = $%d", len(args)))
		}
		if f.Category != nil {
			args = append(args, *f.Category)
			conds = append(conds, fmt.Sprintf("lower(c.name) = lower($%d)", len(args)))
		}
		if f.Priority != nil {
			args = append(args, *f.Priority)
			conds = append(conds, fmt.Sprintf("t.priority = $%d", len(args)))
		}
		if f.DueBefore != nil {
			args = append(args, *f.DueBefore)
			conds = append(conds, fmt.Sprintf("t.due_date < $%d", len(args)))
		}
		if f.DueAfter != nil {
			args = append(args, *f.DueAfter)
			conds = append(conds, fmt.Sprintf("t.due_date > $%d", len(args)))
		}
	}

	if v := params.View; v != nil && v.ShowCompleted != nil && !*v.ShowCompleted {
		// hide completed unless an explicit completed filter is present
		if params.Filters == nil || params.Filters.Completed == nil {
			conds = append(conds, "t.completed = FALSE")
		}
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN categories c ON t.category_id = c.id`

	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}

	orderBy := "t.id ASC"
	if v := params.View; v != nil {
		if col, ok := sortColumns[v.SortBy]; ok {
			dir := "ASC"
			if strings.EqualFold(v.SortOrder, "desc") {
				dir = "DESC"
			}
			orderBy = fmt.Sprintf("%s %s, t.id ASC", col, dir)
		}
	}
	query += "\n\t\tORDER BY " + orderBy

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		task, err := scanJoinedTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scannable) (model.Task, error) {
	var (
		t          model.Task
		dueDate    sql.NullTime
		categoryID sql.NullInt64
	)
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed,
		&t.Priority, &dueDate, &categoryID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	return t, nil
}

func scanJoinedTask(row scannable) (model.Task, error) {
	var (
		t            model.Task
		dueDate      sql.NullTime
		categoryID   sql.NullInt64
		categoryName sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed,
		&t.Priority, &dueDate, &categoryID, &categoryName, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to scan task row: %w", err)
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	if categoryName.Valid {
		t.CategoryName = categoryName.String
	}
	return t, nil
}

// ensure compile-time interface compliance
var (
	_ TaskRepository = (*PostgresTaskRepository)(nil)
	_ Transactor     = (*PostgresTaskRepository)(nil)
)
