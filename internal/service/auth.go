package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/minsuhan/tasktalk/internal/model"
	"github.com/minsuhan/tasktalk/internal/repository"
)

// AuthService verifies local credentials and issues HS256 access tokens.
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

type AuthOption func(*AuthService)

func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func WithAuthLogger(logger *slog.Logger) AuthOption {
	return func(s *AuthService) { s.logger = logger }
}

func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Username    string `json:"username"`
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginOutput, error) {
	if input.Username == "" || input.Password == "" {
		return LoginOutput{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LoginOutput{}, ErrInvalidCredentials
		}
		return LoginOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return LoginOutput{}, ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return LoginOutput{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return LoginOutput{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.ttl.Seconds()),
		Username:    user.Username,
	}, nil
}

// seedUser is a demo account created only in local environments.
type seedUser struct {
	username string
	password string
	fullName string
	isAdmin  bool
}

var seedUsers = []seedUser{
	{username: "demo", password: "demo1234", fullName: "Demo User", isAdmin: false},
	{username: "admin", password: "admin1234", fullName: "Admin User", isAdmin: true},
}

// SeedUsers inserts the demo accounts. Creation is upsert-based, so calling
// it repeatedly is safe and it never removes existing data.
func (s *AuthService) SeedUsers(ctx context.Context) error {
	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		user := model.User{
			Username:     su.username,
			PasswordHash: string(hash),
			FullName:     su.fullName,
			IsAdmin:      su.isAdmin,
		}
		if _, err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", su.username, err)
		}
		s.logger.Info("seeded user", "username", su.username, "is_admin", su.isAdmin)
	}
	return nil
}
