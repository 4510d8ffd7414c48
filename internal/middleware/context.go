package middleware

import (
	"context"
	"net/http"

	"github.com/minsuhan/tasktalk/internal/model"
)

type contextKey string

const userKey contextKey = "user"

func SetUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func GetUser(r *http.Request) (model.User, bool) {
	u, ok := r.Context().Value(userKey).(model.User)
	return u, ok
}
