package handler

import "net/http"

// HealthHandler answers load balancer probes. Liveness only; it does not
// check the database or the oracle.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
