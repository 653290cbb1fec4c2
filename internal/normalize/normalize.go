// Package normalize turns loosely-shaped input records into canonical model
// records.
//
// Inputs arrive as generic JSON objects and may be missing fields or use
// either of two historical naming conventions (authorId/createdAt vs
// user_id/created_at). Canonicalization happens exactly once, at the write
// boundary: repositories normalize before storing, migrations normalize when
// rewriting old records. Readers never re-interpret field names.
//
// The canonical name wins when both names are present with different values;
// the legacy alias is overwritten to match. Canonical records keep exposing
// both names with identical values so callers on either convention continue
// to resolve.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/boardmate/boardmate/internal/model"
)

// Normalizer canonicalizes raw records. Now and NewID are injectable so the
// transforms stay pure under test; New returns the production wiring.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

func New() Normalizer {
	return Normalizer{
		Now:   time.Now,
		NewID: func() string { return xid.New().String() },
	}
}

// User canonicalizes a user record: generated id when missing, trimmed
// nickname with the guest default, fallback avatar when no image is set,
// favorite coerced to trimmed free text.
func (n Normalizer) User(raw map[string]any) model.User {
	now := model.FormatTimestamp(n.Now())

	nickname := strings.TrimSpace(stringAt(raw, "nickname"))
	if nickname == "" {
		nickname = model.DefaultNickname
	}

	imageURL := stringPtrAt(raw, "image_url", "imageUrl")
	if imageURL == nil {
		fallback := model.FallbackAvatar
		imageURL = &fallback
	}

	createdAt := n.timestampAt(raw, now, "created_at", "createdAt")

	return model.User{
		ID:        n.idAt(raw),
		Nickname:  nickname,
		ImageURL:  imageURL,
		Favorite:  FreeText(raw["favorite"]),
		CreatedAt: createdAt,
		UpdatedAt: n.timestampAt(raw, createdAt, "updated_at", "updatedAt"),
	}
}

// Post canonicalizes a post record. The author reference may arrive as
// authorId, user_id or author_id; it stays empty when none resolves — the
// repository decides whether that is an error. Coordinates are forced
// numeric, defaulting to {0,0} when malformed or absent.
func (n Normalizer) Post(raw map[string]any) model.Post {
	now := model.FormatTimestamp(n.Now())

	authorID := stringAt(raw, "authorId", "user_id", "author_id", "userId")
	createdAt := n.timestampAt(raw, now, "createdAt", "created_at")

	return model.Post{
		ID:         n.idAt(raw),
		AuthorID:   authorID,
		Title:      stringAt(raw, "title"),
		Address:    stringAt(raw, "address"),
		Content:    stringAt(raw, "content"),
		ImageURL:   stringPtrAt(raw, "image_url", "imageUrl"),
		IsRecruit:  boolAt(raw, "is_recruit", "isRecruit"),
		Coordinate: coordinateAt(raw["coordinate"]),
		CreatedAt:  createdAt,
		UpdatedAt:  n.timestampAt(raw, createdAt, "updatedAt", "updated_at"),

		AuthorIDLegacy:  authorID,
		CreatedAtLegacy: createdAt,
	}
}

// Comment canonicalizes a comment record, keeping the snake_case aliases the
// older UI paths read in step with the canonical fields the indexes use.
func (n Normalizer) Comment(raw map[string]any) model.Comment {
	now := model.FormatTimestamp(n.Now())

	postID := stringAt(raw, "postId", "post_id")
	authorID := stringAt(raw, "authorId", "user_id")
	createdAt := n.timestampAt(raw, now, "createdAt", "created_at")

	return model.Comment{
		ID:        n.idAt(raw),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   stringAt(raw, "content"),
		Writer:    stringAt(raw, "writer"),
		ImageURL:  stringPtrAt(raw, "image_url", "imageUrl"),
		CreatedAt: createdAt,

		PostIDLegacy:    postID,
		AuthorIDLegacy:  authorID,
		CreatedAtLegacy: createdAt,
		UpdatedAt:       n.timestampAt(raw, createdAt, "updated_at", "updatedAt"),
	}
}

// FreeText coerces a loosely-typed free-text value to a trimmed string:
// strings pass through, arrays join with ", ", nil becomes empty, anything
// else is stringified.
func FreeText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.TrimSpace(strings.Join(parts, ", "))
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func (n Normalizer) idAt(raw map[string]any) string {
	if id := stringAt(raw, "id"); id != "" {
		return id
	}
	return n.NewID()
}

// timestampAt resolves the first usable timestamp under the given keys.
// Strings are assumed to already be ISO-formatted; numeric values are treated
// as epoch milliseconds (the shape older records stored).
func (n Normalizer) timestampAt(raw map[string]any, fallback string, keys ...string) string {
	for _, k := range keys {
		switch t := raw[k].(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			return model.FormatTimestamp(time.UnixMilli(int64(t)))
		}
	}
	return fallback
}

func stringAt(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringPtrAt(raw map[string]any, keys ...string) *string {
	if s := stringAt(raw, keys...); s != "" {
		return &s
	}
	return nil
}

func boolAt(raw map[string]any, keys ...string) bool {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case string:
			return t != ""
		case float64:
			return t != 0
		default:
			return true
		}
	}
	return false
}

func coordinateAt(v any) model.Coordinate {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Coordinate{}
	}
	return model.Coordinate{
		Lat: floatOf(obj["lat"]),
		Lng: floatOf(obj["lng"]),
	}
}

func floatOf(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%g", &f); err == nil {
			return f
		}
	}
	return 0
}
