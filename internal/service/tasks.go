package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minsuhan/tasktalk/internal/intent"
	"github.com/minsuhan/tasktalk/internal/matcher"
	"github.com/minsuhan/tasktalk/internal/model"
	"github.com/minsuhan/tasktalk/internal/repository"
)

// IntentExtractor produces an Analysis for one utterance. Satisfied by
// *intent.Extractor.
type IntentExtractor interface {
	Extract(ctx context.Context, utterance string) model.Analysis
}

// TaskService is the mutation engine: it applies an extracted Analysis to the
// task store on behalf of one owner and answers with the owner's refreshed
// task list. User-visible failures travel inside the result, never as errors.
type TaskService struct {
	extractor  IntentExtractor
	repo       repository.TaskRepository
	tx         repository.Transactor
	categories repository.CategoryRepository
	logger     *slog.Logger
	newMatcher func(matcher.TaskLister) matcher.Matcher
}

type TaskOption func(*TaskService)

func WithTaskLogger(logger *slog.Logger) TaskOption {
	return func(s *TaskService) { s.logger = logger }
}

// WithMatcherFactory swaps the task matcher. The factory is invoked per
// mutation with the transaction-bound repository so matching sees the same
// snapshot the mutation will write against.
func WithMatcherFactory(fn func(matcher.TaskLister) matcher.Matcher) TaskOption {
	return func(s *TaskService) { s.newMatcher = fn }
}

func NewTaskService(
	extractor IntentExtractor,
	repo repository.TaskRepository,
	tx repository.Transactor,
	categories repository.CategoryRepository,
	opts ...TaskOption,
) *TaskService {
	s := &TaskService{
		extractor:  extractor,
		repo:       repo,
		tx:         tx,
		categories: categories,
		logger:     slog.Default(),
		newMatcher: func(l matcher.TaskLister) matcher.Matcher { return matcher.NewTitleMatcher(l) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process handles one utterance end to end: extract, mutate, refresh.
func (s *TaskService) Process(ctx context.Context, user model.User, utterance string) model.ProcessResult {
	analysis := s.extractor.Extract(ctx, utterance)
	return s.Apply(ctx, user, analysis, utterance)
}

// Apply dispatches on the analysis action. The raw utterance is carried along
// so reference titles can be reconstructed when extraction produced no draft.
func (s *TaskService) Apply(ctx context.Context, user model.User, analysis model.Analysis, utterance string) model.ProcessResult {
	switch analysis.Action {
	case model.ActionError:
		if analysis.Detail != "" {
			s.logger.Warn("extraction failed", "detail", analysis.Detail)
		}
		return errorResult(analysis.ErrorMessage)
	case model.ActionCreate:
		return s.applyCreate(ctx, user, analysis, utterance)
	case model.ActionMarkComplete:
		return s.applyStatus(ctx, user, analysis, utterance, true)
	case model.ActionMarkIncomplete:
		return s.applyStatus(ctx, user, analysis, utterance, false)
	case model.ActionUpdate:
		return s.applyUpdate(ctx, user, analysis)
	case model.ActionDelete:
		return s.applyDelete(ctx, user, analysis, utterance)
	case model.ActionQuery, model.ActionListAll:
		return s.list(ctx, user, analysis.Filters, analysis.View, "")
	default:
		return errorResult(fmt.Sprintf("Invalid action: %s", analysis.Action))
	}
}

// List returns the user's tasks for the plain read endpoint. Admins see every
// owner's tasks; this broadening never applies to mutations.
func (s *TaskService) List(ctx context.Context, user model.User, filters *model.Filters, view *model.ViewOptions) model.ProcessResult {
	return s.list(ctx, user, filters, view, "")
}

func (s *TaskService) applyCreate(ctx context.Context, user model.User, analysis model.Analysis, utterance string) model.ProcessResult {
	drafts := analysis.Drafts
	if len(drafts) == 0 {
		// nothing extracted; the utterance itself becomes the task
		drafts = []model.TaskDraft{{
			Title:    intent.NormalizeTitle(utterance),
			Priority: model.PriorityLow,
		}}
	}

	categoryIDs := make([]*int64, len(drafts))
	for i, d := range drafts {
		if d.Category == "" {
			continue
		}
		c, err := s.categories.GetOrCreate(ctx, user.ID, d.Category)
		if err != nil {
			s.logger.Warn("category resolution failed", "category", d.Category, "error", err)
			continue
		}
		id := c.ID
		categoryIDs[i] = &id
	}

	err := s.tx.InTx(ctx, func(r repository.TaskRepository) error {
		for i, d := range drafts {
			if d.Title == "" {
				return fmt.Errorf("%w: empty title", ErrInvalidInput)
			}
			task := model.Task{
				OwnerID:     user.ID,
				Title:       d.Title,
				Description: d.Description,
				Completed:   false,
				Priority:    priorityOrDefault(d.Priority),
				DueDate:     d.DueDate,
				CategoryID:  categoryIDs[i],
			}
			if _, err := r.Insert(ctx, task); err != nil {
				return fmt.Errorf("failed to insert task: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("create failed", "user_id", user.ID, "error", err)
		return errorResult("Failed to create todo. Please try again.")
	}

	noun := "todo"
	if len(drafts) != 1 {
		noun = "todos"
	}
	return s.refresh(ctx, user, fmt.Sprintf("Created %d %s successfully", len(drafts), noun))
}

var (
	statusStripWords = []string{"mark", "as", "incomplete", "completed", "complete", "done", "todo", "task"}
	deleteStripWords = []string{"delete", "remove", "todo", "task"}
)

func (s *TaskService) applyStatus(ctx context.Context, user model.User, analysis model.Analysis, utterance string, completed bool) model.ProcessResult {
	title := referenceTitle(analysis, utterance, statusStripWords)
	if title == "" {
		return errorResult("Could not tell which todo to update.")
	}

	err := s.tx.InTx(ctx, func(r repository.TaskRepository) error {
		task, err := s.newMatcher(r).Find(ctx, user.ID, title)
		if err != nil {
			return err
		}
		task.Completed = completed
		if _, err := r.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, matcher.ErrNoMatch) {
			return errorResult(fmt.Sprintf("Todo not found: %s", title))
		}
		s.logger.Error("status update failed", "user_id", user.ID, "error", err)
		return errorResult("Failed to update todo. Please try again.")
	}

	word := "complete"
	if !completed {
		word = "incomplete"
	}
	return s.refresh(ctx, user, fmt.Sprintf("Todo marked as %s", word))
}

func (s *TaskService) applyUpdate(ctx context.Context, user model.User, analysis model.Analysis) model.ProcessResult {
	switch {
	case len(analysis.Drafts) >= 2:
		return s.applyRename(ctx, user, analysis.Drafts[0].Title, analysis.Drafts[1].Title)
	case len(analysis.Drafts) == 1:
		return s.applyFieldPatch(ctx, user, analysis.Drafts[0])
	default:
		return errorResult("Missing update information")
	}
}

func (s *TaskService) applyRename(ctx context.Context, user model.User, oldTitle, newTitle string) model.ProcessResult {
	if oldTitle == "" || newTitle == "" {
		return errorResult("Missing update information")
	}

	err := s.tx.InTx(ctx, func(r repository.TaskRepository) error {
		task, err := s.newMatcher(r).Find(ctx, user.ID, oldTitle)
		if err != nil {
			return err
		}

		exists, err := r.TitleExists(ctx, user.ID, newTitle, task.ID)
		if err != nil {
			return fmt.Errorf("failed to check title collision: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: title %q already taken", ErrConflict, newTitle)
		}

		task.Title = newTitle
		if _, err := r.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to rename task: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, matcher.ErrNoMatch):
			return errorResult(fmt.Sprintf("Todo not found: %s", oldTitle))
		case errors.Is(err, ErrConflict):
			return errorResult("A todo with this title already exists")
		default:
			s.logger.Error("rename failed", "user_id", user.ID, "error", err)
			return errorResult("Failed to update todo. Please try again.")
		}
	}

	return s.refresh(ctx, user, "Todo updated successfully")
}

// applyFieldPatch is the legacy update path: a single draft whose title
// exactly matches an existing task overwrites that task's populated fields.
func (s *TaskService) applyFieldPatch(ctx context.Context, user model.User, draft model.TaskDraft) model.ProcessResult {
	err := s.tx.InTx(ctx, func(r repository.TaskRepository) error {
		task, err := r.GetByTitle(ctx, user.ID, draft.Title)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrNotFound, draft.Title)
			}
			return fmt.Errorf("failed to load task for update: %w", err)
		}

		if draft.Description != "" {
			task.Description = draft.Description
		}
		if draft.DueDate != nil {
			task.DueDate = draft.DueDate
		}
		if draft.Priority != 0 {
			task.Priority = draft.Priority
		}

		if _, err := r.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errorResult(fmt.Sprintf("Todo not found: %s", draft.Title))
		}
		s.logger.Error("field patch failed", "user_id", user.ID, "error", err)
		return errorResult("Failed to update todo. Please try again.")
	}

	return s.refresh(ctx, user, "Todo updated successfully")
}

func (s *TaskService) applyDelete(ctx context.Context, user model.User, analysis model.Analysis, utterance string) model.ProcessResult {
	title := referenceTitle(analysis, utterance, deleteStripWords)
	if title == "" {
		return errorResult("Could not tell which todo to delete.")
	}

	err := s.tx.InTx(ctx, func(r repository.TaskRepository) error {
		task, err := s.newMatcher(r).Find(ctx, user.ID, title)
		if err != nil {
			return err
		}
		if err := r.Delete(ctx, user.ID, task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, matcher.ErrNoMatch) {
			return errorResult(fmt.Sprintf("Todo not found: %s", title))
		}
		s.logger.Error("delete failed", "user_id", user.ID, "error", err)
		return errorResult("Failed to delete todo. Please try again.")
	}

	return s.refresh(ctx, user, "Todo deleted successfully")
}

func (s *TaskService) list(ctx context.Context, user model.User, filters *model.Filters, view *model.ViewOptions, message string) model.ProcessResult {
	params := model.TaskListParams{
		OwnerID:   user.ID,
		AllOwners: user.IsAdmin,
		Filters:   filters,
		View:      view,
	}
	tasks, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.Error("list failed", "user_id", user.ID, "error", err)
		return errorResult("Failed to fetch todos")
	}
	return model.ProcessResult{Todos: model.NewTaskViews(tasks), Message: message}
}

// refresh returns the owner's full task list after a mutation so the caller
// always sees an authoritative post-mutation view. No admin broadening here.
func (s *TaskService) refresh(ctx context.Context, user model.User, message string) model.ProcessResult {
	tasks, err := s.repo.List(ctx, model.TaskListParams{OwnerID: user.ID})
	if err != nil {
		s.logger.Error("refresh failed", "user_id", user.ID, "error", err)
		return errorResult("Failed to fetch todos")
	}
	return model.ProcessResult{Todos: model.NewTaskViews(tasks), Message: message}
}

// referenceTitle picks the title the user was referring to: the first draft
// if extraction produced one, otherwise the utterance with status words
// stripped out.
func referenceTitle(analysis model.Analysis, utterance string, stripWords []string) string {
	if len(analysis.Drafts) > 0 && analysis.Drafts[0].Title != "" {
		return analysis.Drafts[0].Title
	}

	text := strings.ToLower(utterance)
	for _, w := range stripWords {
		text = strings.ReplaceAll(text, w, "")
	}
	return intent.NormalizeTitle(text)
}

func priorityOrDefault(p int) int {
	if p < model.PriorityLow || p > model.PriorityHigh {
		return model.PriorityLow
	}
	return p
}

func errorResult(message string) model.ProcessResult {
	return model.ProcessResult{Todos: []model.TaskView{}, Error: message}
}
