package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minsuhan/tasktalk/internal/service"
)

func TestNewRouter(t *testing.T) {
	taskSvc := service.NewTaskService(nil, nil, nil, nil)
	router := NewRouter(taskSvc, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
		{"process wrong method", http.MethodGet, "/api/v1/process", http.StatusMethodNotAllowed},
		{"todos wrong method", http.MethodDelete, "/api/v1/todos", http.StatusMethodNotAllowed},
		{"auth absent without auth service", http.MethodPost, "/api/v1/auth/login", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
