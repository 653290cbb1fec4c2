package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/boardmate/boardmate/internal/apperror"
	"github.com/boardmate/boardmate/internal/model"
	"github.com/boardmate/boardmate/internal/repository"
	"github.com/boardmate/boardmate/internal/session"
)

// ProfileService manages a guest's own user record. A guest may only edit
// their own profile, and a nickname change is reflected into the persisted
// session so the client's header stays current.
type ProfileService struct {
	users    repository.UserRepository
	sessions *session.Store
	logger   *slog.Logger
}

func NewProfileService(users repository.UserRepository, sessions *session.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *ProfileService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user", id)
	}
	return user, nil
}

// Update patches the user record after checking the actor is editing their
// own profile.
func (s *ProfileService) Update(ctx context.Context, actorID, id string, patch repository.Patch) (*model.User, error) {
	actor, err := resolveActor(actorID, s.sessions)
	if err != nil {
		return nil, err
	}
	if actor == "" || actor != id {
		return nil, apperror.Forbidden("only the profile owner may edit it")
	}

	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if err := s.syncSessionNickname(user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("userID", id))
	return user, nil
}

// syncSessionNickname rewrites the session slot when the signed-in user
// renamed themselves. IssuedAt is preserved; only the display name moves.
func (s *ProfileService) syncSessionNickname(user *model.User) error {
	sess, err := s.sessions.Load()
	if err != nil {
		return fmt.Errorf("service/profile: loading session: %w", err)
	}
	if sess == nil || sess.UserID != user.ID || sess.Nickname == user.Nickname {
		return nil
	}
	sess.Nickname = user.Nickname
	if err := s.sessions.Save(*sess); err != nil {
		return fmt.Errorf("service/profile: saving session: %w", err)
	}
	return nil
}
