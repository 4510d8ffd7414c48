package http

import (
	"net/http"

	"github.com/minsuhan/tasktalk/internal/http/handler"
	"github.com/minsuhan/tasktalk/internal/service"
)

func NewRouter(taskSvc *service.TaskService, authSvc *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for load balancer probes
	mux.Handle("/health", handler.NewHealthHandler())

	if authSvc != nil {
		mux.Handle("/api/v1/auth/", handler.NewAuthHandler(authSvc))
	}

	mux.Handle("/api/v1/process", handler.NewProcessHandler(taskSvc))
	mux.Handle("/api/v1/todos", handler.NewTodoHandler(taskSvc))

	return mux
}
