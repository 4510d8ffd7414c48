package model

import "time"

// Action is the classified intent of a single utterance.
type Action string

const (
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionQuery          Action = "query"
	ActionMarkComplete   Action = "mark_complete"
	ActionMarkIncomplete Action = "mark_incomplete"
	ActionListAll        Action = "list_all"
	ActionError          Action = "error"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionQuery,
		ActionMarkComplete, ActionMarkIncomplete, ActionListAll, ActionError:
		return true
	}
	return false
}

// TaskDraft is an unpersisted candidate task extracted from an utterance.
type TaskDraft struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    int
	Category    string
}

type Filters struct {
	Completed *bool
	Category  *string
	Priority  *int
	DueBefore *time.Time
	DueAfter  *time.Time
}

type ViewOptions struct {
	SortBy        string // "priority", "due_date", "created_at" or empty
	SortOrder     string // "asc", "desc" or empty
	ShowCompleted *bool
}

// Analysis is the structured result of intent extraction for one utterance.
// When Action is ActionError no mutation is attempted and ErrorMessage is the
// only payload; Detail may carry diagnostic text for logging.
type Analysis struct {
	Action       Action
	Drafts       []TaskDraft
	Filters      *Filters
	View         *ViewOptions
	ErrorMessage string
	Detail       string
}

func ErrorAnalysis(message, detail string) Analysis {
	return Analysis{Action: ActionError, ErrorMessage: message, Detail: detail}
}
