package handler

import (
	"net/http"
	"strconv"

	"github.com/minsuhan/tasktalk/internal/middleware"
	"github.com/minsuhan/tasktalk/internal/model"
	"github.com/minsuhan/tasktalk/internal/service"
)

// TodoHandler serves the plain read endpoint for the current user's tasks.
type TodoHandler struct {
	svc *service.TaskService
}

func NewTodoHandler(svc *service.TaskService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	user, ok := middleware.GetUser(r)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	filters, view, err := parseListQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result := h.svc.List(r.Context(), user, filters, view)
	WriteJSON(w, http.StatusOK, result)
}

func parseListQuery(r *http.Request) (*model.Filters, *model.ViewOptions, error) {
	q := r.URL.Query()

	var filters *model.Filters
	ensureFilters := func() *model.Filters {
		if filters == nil {
			filters = &model.Filters{}
		}
		return filters
	}

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, invalidParam("completed")
		}
		ensureFilters().Completed = &completed
	}
	if v := q.Get("category"); v != "" {
		category := v
		ensureFilters().Category = &category
	}
	if v := q.Get("priority"); v != "" {
		priority, err := strconv.Atoi(v)
		if err != nil || priority < model.PriorityLow || priority > model.PriorityHigh {
			return nil, nil, invalidParam("priority")
		}
		ensureFilters().Priority = &priority
	}

	var view *model.ViewOptions
	sortBy := q.Get("sort_by")
	sortOrder := q.Get("sort_order")
	if sortBy != "" || sortOrder != "" {
		switch sortBy {
		case "", "priority", "due_date", "created_at":
		default:
			return nil, nil, invalidParam("sort_by")
		}
		switch sortOrder {
		case "", "asc", "desc":
		default:
			return nil, nil, invalidParam("sort_order")
		}
		view = &model.ViewOptions{SortBy: sortBy, SortOrder: sortOrder}
	}

	return filters, view, nil
}

type paramError string

func invalidParam(name string) error {
	return paramError(name)
}

func (e paramError) Error() string {
	return "invalid query parameter: " + string(e)
}
