package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/minsuhan/tasktalk/internal/middleware"
	"github.com/minsuhan/tasktalk/internal/service"
)

// ProcessHandler accepts one free-text utterance and applies it to the
// caller's task list. Outcomes, including user-visible failures, come back in
// the result body so the host renders them uniformly.
type ProcessHandler struct {
	svc *service.TaskService
}

func NewProcessHandler(svc *service.TaskService) *ProcessHandler {
	return &ProcessHandler{svc: svc}
}

type processRequest struct {
	UserInput string `json:"user_input"`
}

func (h *ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	user, ok := middleware.GetUser(r)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if strings.TrimSpace(req.UserInput) == "" {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "user_input is required")
		return
	}

	result := h.svc.Process(r.Context(), user, req.UserInput)
	WriteJSON(w, http.StatusOK, result)
}
