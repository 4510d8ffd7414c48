package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/minsuhan/tasktalk/internal/model"
)

// ErrUserNotFound is returned by UserResolver when no user matches the id.
var ErrUserNotFound = errors.New("user not found")

// UserResolver loads the full user record (including the admin flag) for a
// token subject.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID int64) (model.User, error)
}

type AuthConfig struct {
	DevMode  bool
	Secret   []byte
	Resolver UserResolver
}

type Auth struct {
	cfg AuthConfig
}

func NewAuth(cfg AuthConfig) (*Auth, error) {
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("middleware: Resolver is required")
	}
	if !cfg.DevMode && len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("middleware: Secret is required when DevMode is false")
	}
	return &Auth{cfg: cfg}, nil
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth for health check and login
		cleanPath := path.Clean(r.URL.Path)
		if cleanPath == "/health" || strings.HasPrefix(cleanPath, "/api/v1/auth/") {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.DevMode {
			a.handleDevMode(w, r, next)
			return
		}

		a.handleJWT(w, r, next)
	})
}

func (a *Auth) handleDevMode(w http.ResponseWriter, r *http.Request, next http.Handler) {
	idStr := r.Header.Get("X-User-ID")
	if idStr == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header required in dev mode")
		return
	}
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID must be numeric")
		return
	}

	a.resolveAndContinue(w, r, next, userID)
}

func (a *Auth) handleJWT(w http.ResponseWriter, r *http.Request, next http.Handler) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header required")
		return
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
		return
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
	)

	if err != nil || !token.Valid {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
		return
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sub claim not found")
		return
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid sub claim")
		return
	}

	a.resolveAndContinue(w, r, next, userID)
}

func (a *Auth) resolveAndContinue(w http.ResponseWriter, r *http.Request, next http.Handler, userID int64) {
	user, err := a.cfg.Resolver.ResolveUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not found")
		} else {
			slog.ErrorContext(r.Context(), "user resolution failed", "error", err)
			writeAuthError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	ctx := SetUser(r.Context(), user)
	next.ServeHTTP(w, r.WithContext(ctx))
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
