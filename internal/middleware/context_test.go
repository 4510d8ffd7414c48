package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/minsuhan/tasktalk/internal/model"
)

func TestSetGetUser(t *testing.T) {
	want := model.User{ID: 42, Username: "demo", IsAdmin: true}

	ctx := SetUser(context.Background(), want)
	r := httptest.NewRequest("GET", "/api/v1/todos", nil).WithContext(ctx)

	got, ok := GetUser(r)
	if !ok {
		t.Fatal("expected user in context")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetUser_Missing(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/todos", nil)

	if _, ok := GetUser(r); ok {
		t.Error("expected no user in a bare request context")
	}
}
