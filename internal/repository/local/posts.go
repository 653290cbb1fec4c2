package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/boardmate/boardmate/internal/apperror"
	"github.com/boardmate/boardmate/internal/demodb"
	"github.com/boardmate/boardmate/internal/model"
	"github.com/boardmate/boardmate/internal/normalize"
	"github.com/boardmate/boardmate/internal/repository"
	"github.com/boardmate/boardmate/internal/session"
)

var _ repository.PostRepository = (*PostRepo)(nil)

// UserLookup builds the author lookup map used by the join-simulation.
type UserLookup func(ctx context.Context) (map[string]model.User, error)

// PostRepo stores post records and attaches author fragments at read time.
//
// Lookup defaults to a full scan of the users store per call, which is fine
// for a local dataset of this size. A larger deployment would inject a
// cached or index-batched lookup instead.
type PostRepo struct {
	db       *demodb.DB
	norm     normalize.Normalizer
	sessions *session.Store
	logger   *slog.Logger

	Lookup UserLookup
}

// Create normalizes the input and resolves the author: an explicit
// authorId/user_id wins, otherwise the current session's user. A post
// without a resolvable author is rejected — everything downstream
// (profile pages, authorization) depends on it.
func (r *PostRepo) Create(ctx context.Context, input map[string]any) (*model.Post, error) {
	post := r.norm.Post(input)

	if post.AuthorID == "" {
		sess, err := r.sessions.Load()
		if err != nil {
			return nil, err
		}
		if sess != nil {
			post.AuthorID = sess.UserID
			post.AuthorIDLegacy = sess.UserID
		}
	}
	if post.AuthorID == "" {
		return nil, apperror.ValidationFailed("authorId",
			"post has no author; sign in with guest login before writing")
	}

	rec, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("local: encoding post: %w", err)
	}
	err = r.db.Update(func(tx *demodb.Tx) error {
		return tx.Put(demodb.StorePosts, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("local: creating post: %w", err)
	}

	r.logger.Info("post created", slog.String("id", post.ID), slog.String("authorId", post.AuthorID))
	return &post, nil
}

func (r *PostRepo) Get(ctx context.Context, id string) (*model.PostWithAuthor, error) {
	rec, err := r.db.Get(demodb.StorePosts, id)
	if err != nil || rec == nil {
		return nil, err
	}
	post, err := decode[model.Post](rec)
	if err != nil {
		return nil, err
	}
	users, err := r.Lookup(ctx)
	if err != nil {
		return nil, err
	}
	joined := attachAuthor(*post, users)
	return &joined, nil
}

// List returns every post, newest first, each with its author fragment
// attached. Ordering is a lexical comparison of the stored createdAt
// strings; the sortable timestamp form makes that chronological.
func (r *PostRepo) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	recs, err := r.db.List(demodb.StorePosts)
	if err != nil {
		return nil, err
	}
	posts, err := decodeAll[model.Post](recs)
	if err != nil {
		return nil, err
	}
	sortPostsDesc(posts)

	users, err := r.Lookup(ctx)
	if err != nil {
		return nil, err
	}
	joined := make([]model.PostWithAuthor, 0, len(posts))
	for _, p := range posts {
		joined = append(joined, attachAuthor(p, users))
	}
	return joined, nil
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	recs, err := r.db.ListIndex(demodb.StorePosts, "by-authorId", authorID)
	if err != nil {
		return nil, err
	}
	posts, err := decodeAll[model.Post](recs)
	if err != nil {
		return nil, err
	}
	sortPostsDesc(posts)
	return posts, nil
}

func (r *PostRepo) Update(ctx context.Context, id string, patch repository.Patch) (*model.Post, error) {
	prev, err := r.db.Get(demodb.StorePosts, id)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, apperror.NotFound("post", id)
	}
	prevPost, err := decode[model.Post](prev)
	if err != nil {
		return nil, err
	}

	merged, err := mergePatch(prev, patch)
	if err != nil {
		return nil, err
	}
	merged["id"] = id

	post := r.norm.Post(merged)
	post.UpdatedAt = nextTimestamp(prevPost.UpdatedAt, r.norm.Now())

	rec, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("local: encoding post: %w", err)
	}
	err = r.db.Update(func(tx *demodb.Tx) error {
		return tx.Put(demodb.StorePosts, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("local: updating post %s: %w", id, err)
	}

	r.logger.Info("post updated", slog.String("id", id))
	return &post, nil
}

// Delete removes the post and every comment referencing it, in one
// transaction. This is the single cascade path — no caller deletes a post
// any other way, so comments cannot be orphaned by this layer. A failed
// transaction commits nothing: no partial cascade is ever visible.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	err := r.db.Update(func(tx *demodb.Tx) error {
		if err := tx.Delete(demodb.StorePosts, id); err != nil {
			return err
		}
		return tx.DeleteIndexed(demodb.StoreComments, "by-postId", id)
	})
	if err != nil {
		return fmt.Errorf("local: deleting post %s: %w", id, err)
	}

	r.logger.Info("post deleted", slog.String("id", id))
	return nil
}

// scanUserLookup is the default UserLookup: load all users into a map keyed
// by id.
func (r *PostRepo) scanUserLookup(ctx context.Context) (map[string]model.User, error) {
	recs, err := r.db.List(demodb.StoreUsers)
	if err != nil {
		return nil, err
	}
	users, err := decodeAll[model.User](recs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// attachAuthor is the join-simulation: nest the author's image and nickname
// on the post, or nulls when the author cannot be resolved.
func attachAuthor(post model.Post, users map[string]model.User) model.PostWithAuthor {
	joined := model.PostWithAuthor{Post: post}
	if u, ok := users[post.AuthorID]; ok {
		nickname := u.Nickname
		joined.Users = model.AuthorView{ImageURL: u.ImageURL, Nickname: &nickname}
	}
	return joined
}

func sortPostsDesc(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
}
