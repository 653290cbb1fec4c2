package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/boardmate/boardmate/internal/apperror"
	"github.com/boardmate/boardmate/internal/demodb"
	"github.com/boardmate/boardmate/internal/model"
	"github.com/boardmate/boardmate/internal/normalize"
	"github.com/boardmate/boardmate/internal/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo stores user records. Every write passes through the normalizer,
// so a stored user always has an id, a nickname and an image URL.
type UserRepo struct {
	db     *demodb.DB
	norm   normalize.Normalizer
	logger *slog.Logger
}

func (r *UserRepo) Create(ctx context.Context, input map[string]any) (*model.User, error) {
	user := r.norm.User(input)

	rec, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("local: encoding user: %w", err)
	}
	err = r.db.Update(func(tx *demodb.Tx) error {
		return tx.Put(demodb.StoreUsers, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("local: creating user: %w", err)
	}

	r.logger.Info("user created", slog.String("id", user.ID), slog.String("nickname", user.Nickname))
	return &user, nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*model.User, error) {
	rec, err := r.db.Get(demodb.StoreUsers, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return decode[model.User](rec)
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	recs, err := r.db.List(demodb.StoreUsers)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.User](recs)
}

func (r *UserRepo) Update(ctx context.Context, id string, patch repository.Patch) (*model.User, error) {
	prev, err := r.db.Get(demodb.StoreUsers, id)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, apperror.NotFound("user", id)
	}
	prevUser, err := decode[model.User](prev)
	if err != nil {
		return nil, err
	}

	merged, err := mergePatch(prev, patch)
	if err != nil {
		return nil, err
	}
	merged["id"] = id

	user := r.norm.User(merged)
	user.UpdatedAt = nextTimestamp(prevUser.UpdatedAt, r.norm.Now())

	rec, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("local: encoding user: %w", err)
	}
	err = r.db.Update(func(tx *demodb.Tx) error {
		return tx.Put(demodb.StoreUsers, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("local: updating user %s: %w", id, err)
	}

	r.logger.Info("user updated", slog.String("id", id))
	return &user, nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	err := r.db.Update(func(tx *demodb.Tx) error {
		return tx.Delete(demodb.StoreUsers, id)
	})
	if err != nil {
		return fmt.Errorf("local: deleting user %s: %w", id, err)
	}
	return nil
}
