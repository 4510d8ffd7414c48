// Package matcher resolves a textual task reference to a stored task. The
// policy is deliberately lossy: two stages of case-insensitive containment,
// no similarity scoring. It lives behind an interface so a scored matcher can
// replace it without touching the mutation engine.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minsuhan/tasktalk/internal/model"
)

// ErrNoMatch is returned when neither stage finds a task.
var ErrNoMatch = errors.New("no matching task")

type Matcher interface {
	Find(ctx context.Context, ownerID int64, reference string) (model.Task, error)
}

// TaskLister is the slice of the task repository the matcher needs. Tasks
// must come back in ascending id order so ties resolve deterministically.
type TaskLister interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Task, error)
}

type TitleMatcher struct {
	tasks TaskLister
}

func NewTitleMatcher(tasks TaskLister) *TitleMatcher {
	return &TitleMatcher{tasks: tasks}
}

// Find tries a substring match of the whole reference first, then falls back
// to matching any single word of the reference. The first hit in id order
// wins.
func (m *TitleMatcher) Find(ctx context.Context, ownerID int64, reference string) (model.Task, error) {
	ref := strings.ToLower(strings.TrimSpace(reference))
	if ref == "" {
		return model.Task{}, fmt.Errorf("%w: empty reference", ErrNoMatch)
	}

	tasks, err := m.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to load tasks for matching: %w", err)
	}

	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), ref) {
			return t, nil
		}
	}

	words := strings.Fields(ref)
	for _, t := range tasks {
		title := strings.ToLower(t.Title)
		for _, w := range words {
			if strings.Contains(title, w) {
				return t, nil
			}
		}
	}

	return model.Task{}, fmt.Errorf("%w: %s", ErrNoMatch, reference)
}

var _ Matcher = (*TitleMatcher)(nil)
