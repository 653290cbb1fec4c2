package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("post", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("nickname", "nickname is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("only the author may delete this post"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "MigrationFailed wraps ErrMigration",
			err:       MigrationFailed(3, errors.New("bad record")),
			target:    ErrMigration,
			wantMatch: true,
		},
		{
			name:      "StorageUnavailable wraps ErrStorageUnavailable",
			err:       StorageUnavailable(errors.New("open failed")),
			target:    ErrStorageUnavailable,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("post", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "wrapped errors still match through fmt.Errorf",
			err:       fmt.Errorf("deleting post: %w", NotFound("post", "abc123")),
			target:    ErrNotFound,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("comment", "abc123"),
			wantMessage: "comment not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("nickname", "nickname is required"),
			wantMessage: "nickname is required",
		},
		{
			name:        "MigrationFailed names the target version",
			err:         MigrationFailed(4, errors.New("record is not an object")),
			wantMessage: "migration to version 4 failed: record is not an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("post", "abc123")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("favorite", "favorite must be text")
	if err.Field != "favorite" {
		t.Errorf("Field = %q, want %q", err.Field, "favorite")
	}
}
