// Package repository defines the data-access contracts the rest of the
// application programs against. The demo-mode implementation over the local
// embedded database lives in repository/local; a remote backend would be an
// alternate implementation of these same interfaces.
package repository

import (
	"context"

	"github.com/boardmate/boardmate/internal/model"
)

// Patch is a shallow-merge update: keys present replace the stored values,
// keys absent keep their previous values. Nested objects (a post's
// coordinate) are replaced whole, not merged field by field.
type Patch map[string]any

// UserRepository manages user records.
type UserRepository interface {
	Create(ctx context.Context, input map[string]any) (*model.User, error)
	// Get returns (nil, nil) when no user has the id; absence is not an error.
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// Update fails with ErrNotFound when the user does not exist.
	Update(ctx context.Context, id string, patch Patch) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// PostRepository manages post records. Reads attach the denormalized author
// fragment (the join-simulation); listings come back sorted by createdAt
// descending.
type PostRepository interface {
	// Create resolves the author from the input or the current session and
	// fails with ErrValidation when neither yields one.
	Create(ctx context.Context, input map[string]any) (*model.Post, error)
	Get(ctx context.Context, id string) (*model.PostWithAuthor, error)
	List(ctx context.Context) ([]model.PostWithAuthor, error)
	ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error)
	Update(ctx context.Context, id string, patch Patch) (*model.Post, error)
	// Delete removes the post and cascades to its comments in one
	// transaction. Deleting an absent post is a no-op.
	Delete(ctx context.Context, id string) error
}

// CommentRepository manages comment records.
type CommentRepository interface {
	Create(ctx context.Context, input map[string]any) (*model.Comment, error)
	Get(ctx context.Context, id string) (*model.Comment, error)
	// ListByPost returns the post's comments sorted by createdAt ascending.
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
	Update(ctx context.Context, id string, patch Patch) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
}

// Resetter is the factory-reset affordance: clear all stores and the
// session slot in one logical operation, leaving the database usable.
type Resetter interface {
	ResetAll(ctx context.Context) error
}

// Paginate slices items into 1-indexed pages: page p of size s is the
// half-open range [(p-1)*s, p*s). Out-of-range pages yield an empty slice,
// never an error, and concatenating pages 1..ceil(len/s) reconstructs items
// in order.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
