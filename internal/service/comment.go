package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/boardmate/boardmate/internal/apperror"
	"github.com/boardmate/boardmate/internal/model"
	"github.com/boardmate/boardmate/internal/repository"
	"github.com/boardmate/boardmate/internal/session"
)

// CommentService applies the same ownership rule as posts: only a
// comment's author may edit or remove it.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	sessions *session.Store
	logger   *slog.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	sessions *session.Store,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		sessions: sessions,
		logger:   logger,
	}
}

// Create attaches a new comment to the given post. The post must exist;
// comments never dangle from the moment they are written.
func (s *CommentService) Create(ctx context.Context, actorID, postID string, input map[string]any) (*model.Comment, error) {
	if content, _ := input["content"].(string); strings.TrimSpace(content) == "" {
		return nil, apperror.ValidationFailed("content", "comment content is required")
	}

	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.NotFound("post", postID)
	}

	in := make(map[string]any, len(input)+4)
	for k, v := range input {
		in[k] = v
	}
	in["postId"] = postID
	in["post_id"] = postID
	if actorID != "" {
		in["authorId"] = actorID
		in["user_id"] = actorID
	}

	return s.comments.Create(ctx, in)
}

// ListByPost returns the post's comments in thread order, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	if postID == "" {
		return nil, apperror.ValidationFailed("postId", "post ID is required")
	}
	return s.comments.ListByPost(ctx, postID)
}

func (s *CommentService) Update(ctx context.Context, actorID, id string, patch repository.Patch) (*model.Comment, error) {
	if err := s.authorize(ctx, actorID, id); err != nil {
		return nil, err
	}
	return s.comments.Update(ctx, id, patch)
}

func (s *CommentService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.authorize(ctx, actorID, id); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}

func (s *CommentService) authorize(ctx context.Context, actorID, id string) error {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperror.NotFound("comment", id)
	}

	actor, err := resolveActor(actorID, s.sessions)
	if err != nil {
		return err
	}
	if actor == "" || actor != comment.AuthorID {
		s.logger.Warn("comment modification denied",
			slog.String("commentId", id),
			slog.String("actor", actor),
		)
		return apperror.Forbidden("only the author may modify this comment")
	}
	return nil
}
