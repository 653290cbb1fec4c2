// Package service contains the business rules sitting between the HTTP
// handlers and the repositories: guest identity, ownership checks on posts
// and comments, and home-feed pagination.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/boardmate/boardmate/internal/apperror"
	"github.com/boardmate/boardmate/internal/auth"
	"github.com/boardmate/boardmate/internal/model"
	"github.com/boardmate/boardmate/internal/repository"
	"github.com/boardmate/boardmate/internal/session"
)

const MaxNicknameLength = 40

// AuthService implements the guest login flow: no passwords, no external
// identity. A guest picks a nickname, gets a fresh user record, a persisted
// session slot and a signed token.
type AuthService struct {
	users    repository.UserRepository
	sessions *session.Store
	tokens   *auth.TokenService
	logger   *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	sessions *session.Store,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// AuthResult bundles what the handler needs to answer a login: the created
// user, the persisted session, and the token to set as a cookie.
type AuthResult struct {
	User    *model.User
	Session *model.Session
	Token   string
}

// GuestLogin creates a guest identity for the given nickname. Each login
// creates a fresh user; the session slot holds at most one identity, so
// logging in again replaces the previous guest.
func (s *AuthService) GuestLogin(ctx context.Context, nickname string) (*AuthResult, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, apperror.ValidationFailed("nickname", "nickname is required")
	}
	if len([]rune(nickname)) > MaxNicknameLength {
		return nil, apperror.ValidationFailed("nickname",
			fmt.Sprintf("nickname must be %d characters or less", MaxNicknameLength))
	}

	user, err := s.users.Create(ctx, map[string]any{
		"nickname": nickname,
		"favorite": "",
	})
	if err != nil {
		return nil, fmt.Errorf("service/auth: creating guest user: %w", err)
	}

	sess := &model.Session{
		UserID:   user.ID,
		Nickname: user.Nickname,
		IssuedAt: time.Now().UnixMilli(),
	}
	if err := s.sessions.Save(*sess); err != nil {
		return nil, fmt.Errorf("service/auth: saving session: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("guest signed in",
		slog.String("userID", user.ID),
		slog.String("nickname", user.Nickname),
	)

	return &AuthResult{User: user, Session: sess, Token: token}, nil
}

// SignOut clears the session slot. Signing out when nobody is signed in is
// a no-op.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.sessions.Clear(); err != nil {
		return fmt.Errorf("service/auth: clearing session: %w", err)
	}
	s.logger.Info("guest signed out")
	return nil
}

// CurrentSession returns the persisted session, or nil when nobody is
// signed in.
func (s *AuthService) CurrentSession(ctx context.Context) (*model.Session, error) {
	sess, err := s.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("service/auth: loading session: %w", err)
	}
	return sess, nil
}

// resolveActor returns the acting user's ID: the authenticated actor when
// present, otherwise the persisted session's user. Shared by the ownership
// checks in the post, comment and profile services.
func resolveActor(actorID string, sessions *session.Store) (string, error) {
	if actorID != "" {
		return actorID, nil
	}
	sess, err := sessions.Load()
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", nil
	}
	return sess.UserID, nil
}
