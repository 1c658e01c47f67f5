package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/auth"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
)

type AuthService struct {
	users  UserStore
	logger *log.Logger
}

func NewAuthService(users UserStore, logger *log.Logger) *AuthService {
	return &AuthService{users: users, logger: logger.WithComponent(log.ComponentAuth)}
}

// Signup registers a new user. Emails are stored lowercased so lookups are
// case-insensitive.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (core.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return core.User{}, fmt.Errorf("username and email are required")
	}
	if !strings.Contains(email, "@") {
		return core.User{}, fmt.Errorf("invalid email address")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return core.User{}, err
	}

	user, err := s.users.CreateUser(ctx, username, email, hash)
	if err != nil {
		return core.User{}, err
	}

	s.logger.InfoContext(ctx, "user signed up", log.FieldUserID, user.ID)
	return user, nil
}

// Login checks credentials and returns the user. Unknown emails and wrong
// passwords both come back as core.ErrBadCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return core.User{}, core.ErrBadCredentials
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return core.User{}, core.ErrBadCredentials
	}
	return user, nil
}
