package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/boardmate/boardmate/internal/apperror"
	"github.com/boardmate/boardmate/internal/model"
	"github.com/boardmate/boardmate/internal/repository"
	"github.com/boardmate/boardmate/internal/session"
)

const (
	DefaultHomePageSize = 6
	MaxPageSize         = 50
)

// PostService enforces the board's rules on posts: only the author may
// modify or delete one, and the home feed is paginated over the full
// newest-first listing.
type PostService struct {
	posts    repository.PostRepository
	sessions *session.Store
	logger   *slog.Logger
}

func NewPostService(posts repository.PostRepository, sessions *session.Store, logger *slog.Logger) *PostService {
	return &PostService{
		posts:    posts,
		sessions: sessions,
		logger:   logger,
	}
}

// Create writes a new post. When the caller is authenticated, the actor
// becomes the author regardless of what the payload claims; otherwise the
// repository falls back to the persisted session.
func (s *PostService) Create(ctx context.Context, actorID string, input map[string]any) (*model.Post, error) {
	if title, _ := input["title"].(string); strings.TrimSpace(title) == "" {
		return nil, apperror.ValidationFailed("title", "post title is required")
	}
	if actorID != "" {
		input = withAuthor(input, actorID)
	}

	post, err := s.posts.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*model.PostWithAuthor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.NotFound("post", id)
	}
	return post, nil
}

// List returns all posts, newest first, with author fragments attached.
func (s *PostService) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	return s.posts.List(ctx)
}

// HomePosts returns one page of the feed plus the total count, so the
// client can render page controls without a second request.
func (s *PostService) HomePosts(ctx context.Context, page, size int) (*model.HomePage, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultHomePageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	all, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}

	return &model.HomePage{
		Posts:       repository.Paginate(all, page, size),
		PostsLength: len(all),
	}, nil
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	if authorID == "" {
		return nil, apperror.ValidationFailed("authorId", "author ID is required")
	}
	return s.posts.ListByAuthor(ctx, authorID)
}

// Update applies a patch to the post after checking the actor owns it.
func (s *PostService) Update(ctx context.Context, actorID, id string, patch repository.Patch) (*model.Post, error) {
	if err := s.authorize(ctx, actorID, id); err != nil {
		return nil, err
	}

	post, err := s.posts.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post and its comments after checking ownership.
// Deleting a post that is already gone succeeds quietly.
func (s *PostService) Delete(ctx context.Context, actorID, id string) error {
	err := s.authorize(ctx, actorID, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.posts.Delete(ctx, id)
}

// authorize verifies the post exists and the actor is its author.
func (s *PostService) authorize(ctx context.Context, actorID, id string) error {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return apperror.NotFound("post", id)
	}

	actor, err := resolveActor(actorID, s.sessions)
	if err != nil {
		return err
	}
	if actor == "" || actor != post.AuthorID {
		s.logger.Warn("post modification denied",
			slog.String("postId", id),
			slog.String("actor", actor),
		)
		return apperror.Forbidden("only the author may modify this post")
	}
	return nil
}

// withAuthor copies the input with both author field spellings set, so the
// caller's map is never mutated.
func withAuthor(input map[string]any, authorID string) map[string]any {
	out := make(map[string]any, len(input)+2)
	for k, v := range input {
		out[k] = v
	}
	out["authorId"] = authorID
	out["user_id"] = authorID
	return out
}
