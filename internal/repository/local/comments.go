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
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo stores comment records. Writer and image are snapshotted from
// the author's user record at creation when the caller did not supply them;
// they are deliberately not kept in sync with later profile changes.
type CommentRepo struct {
	db     *demodb.DB
	norm   normalize.Normalizer
	logger *slog.Logger
}

func (r *CommentRepo) Create(ctx context.Context, input map[string]any) (*model.Comment, error) {
	comment := r.norm.Comment(input)

	if comment.AuthorID != "" && (comment.Writer == "" || comment.ImageURL == nil) {
		rec, err := r.db.Get(demodb.StoreUsers, comment.AuthorID)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			author, err := decode[model.User](rec)
			if err != nil {
				return nil, err
			}
			if comment.Writer == "" {
				comment.Writer = author.Nickname
			}
			if comment.ImageURL == nil {
				comment.ImageURL = author.ImageURL
			}
		}
	}

	rec, err := json.Marshal(comment)
	if err != nil {
		return nil, fmt.Errorf("local: encoding comment: %w", err)
	}
	err = r.db.Update(func(tx *demodb.Tx) error {
		return tx.Put(demodb.StoreComments, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("local: creating comment: %w", err)
	}

	r.logger.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("postId", comment.PostID),
	)
	return &comment, nil
}

func (r *CommentRepo) Get(ctx context.Context, id string) (*model.Comment, error) {
	rec, err := r.db.Get(demodb.StoreComments, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return decode[model.Comment](rec)
}

// ListByPost walks the by-postId index and returns the post's comments
// oldest first (thread order).
func (r *CommentRepo) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	recs, err := r.db.ListIndex(demodb.StoreComments, "by-postId", postID)
	if err != nil {
		return nil, err
	}
	comments, err := decodeAll[model.Comment](recs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt < comments[j].CreatedAt
	})
	return comments, nil
}

func (r *CommentRepo) Update(ctx context.Context, id string, patch repository.Patch) (*model.Comment, error) {
	prev, err := r.db.Get(demodb.StoreComments, id)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, apperror.NotFound("comment", id)
	}
	prevComment, err := decode[model.Comment](prev)
	if err != nil {
		return nil, err
	}

	merged, err := mergePatch(prev, patch)
	if err != nil {
		return nil, err
	}
	merged["id"] = id

	comment := r.norm.Comment(merged)
	comment.UpdatedAt = nextTimestamp(prevComment.UpdatedAt, r.norm.Now())

	rec, err := json.Marshal(comment)
	if err != nil {
		return nil, fmt.Errorf("local: encoding comment: %w", err)
	}
	err = r.db.Update(func(tx *demodb.Tx) error {
		return tx.Put(demodb.StoreComments, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("local: updating comment %s: %w", id, err)
	}

	r.logger.Info("comment updated", slog.String("id", id))
	return &comment, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	err := r.db.Update(func(tx *demodb.Tx) error {
		return tx.Delete(demodb.StoreComments, id)
	})
	if err != nil {
		return fmt.Errorf("local: deleting comment %s: %w", id, err)
	}
	return nil
}
