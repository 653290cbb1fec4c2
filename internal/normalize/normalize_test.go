package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/boardmate/boardmate/internal/model"
)

func fixedNormalizer() Normalizer {
	seq := 0
	return Normalizer{
		Now: func() time.Time {
			return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		},
		NewID: func() string {
			seq++
			return "generated-id"
		},
	}
}

func TestUser_Defaults(t *testing.T) {
	n := fixedNormalizer()

	u := n.User(map[string]any{})

	assert.Equal(t, "generated-id", u.ID)
	assert.Equal(t, model.DefaultNickname, u.Nickname)
	if assert.NotNil(t, u.ImageURL) {
		assert.Equal(t, model.FallbackAvatar, *u.ImageURL)
	}
	assert.Equal(t, "", u.Favorite)
	assert.Equal(t, "2026-03-01T12:00:00.000Z", u.CreatedAt)
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
}

func TestUser_TrimsNickname(t *testing.T) {
	n := fixedNormalizer()

	u := n.User(map[string]any{"nickname": "  tabletop  "})
	assert.Equal(t, "tabletop", u.Nickname)

	u = n.User(map[string]any{"nickname": "   "})
	assert.Equal(t, model.DefaultNickname, u.Nickname)
}

func TestUser_FavoriteCoercion(t *testing.T) {
	n := fixedNormalizer()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string passes through trimmed", "  Catan  ", "Catan"},
		{"array joins with comma-space", []any{"Chess", "Go"}, "Chess, Go"},
		{"nil becomes empty", nil, ""},
		{"number is stringified", float64(7), "7"},
		{"bool is stringified", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := n.User(map[string]any{"favorite": tt.in})
			assert.Equal(t, tt.want, u.Favorite)
		})
	}
}

func TestPost_DualNaming(t *testing.T) {
	n := fixedNormalizer()

	t.Run("legacy names resolve", func(t *testing.T) {
		p := n.Post(map[string]any{
			"user_id":    "u1",
			"created_at": "2026-01-01T00:00:00.000Z",
		})
		assert.Equal(t, "u1", p.AuthorID)
		assert.Equal(t, "u1", p.AuthorIDLegacy)
		assert.Equal(t, "2026-01-01T00:00:00.000Z", p.CreatedAt)
		assert.Equal(t, p.CreatedAt, p.CreatedAtLegacy)
	})

	t.Run("canonical name wins over legacy", func(t *testing.T) {
		p := n.Post(map[string]any{
			"authorId": "canonical",
			"user_id":  "legacy",
		})
		assert.Equal(t, "canonical", p.AuthorID)
		assert.Equal(t, "canonical", p.AuthorIDLegacy)
	})
}

func TestPost_Coordinate(t *testing.T) {
	n := fixedNormalizer()

	p := n.Post(map[string]any{
		"coordinate": map[string]any{"lat": 37.556, "lng": 126.922},
	})
	assert.Equal(t, model.Coordinate{Lat: 37.556, Lng: 126.922}, p.Coordinate)

	p = n.Post(map[string]any{"coordinate": "not an object"})
	assert.Equal(t, model.Coordinate{}, p.Coordinate)

	p = n.Post(map[string]any{})
	assert.Equal(t, model.Coordinate{}, p.Coordinate)
}

func TestPost_NumericTimestampIsEpochMillis(t *testing.T) {
	n := fixedNormalizer()

	p := n.Post(map[string]any{
		"createdAt": float64(1768903800000), // 2026-01-20T10:10:00Z
	})
	assert.Equal(t, "2026-01-20T10:10:00.000Z", p.CreatedAt)
}

func TestComment_DualNaming(t *testing.T) {
	n := fixedNormalizer()

	c := n.Comment(map[string]any{
		"post_id": "p1",
		"user_id": "u1",
		"content": "nice",
	})
	assert.Equal(t, "p1", c.PostID)
	assert.Equal(t, "p1", c.PostIDLegacy)
	assert.Equal(t, "u1", c.AuthorID)
	assert.Equal(t, "u1", c.AuthorIDLegacy)
	assert.Equal(t, "nice", c.Content)
}

func TestIdempotent_NormalizingTwiceChangesNothing(t *testing.T) {
	n := fixedNormalizer()

	first := n.User(map[string]any{"nickname": "Sam", "favorite": []any{"Chess", "Go"}})
	second := n.User(map[string]any{
		"id":         first.ID,
		"nickname":   first.Nickname,
		"image_url":  *first.ImageURL,
		"favorite":   first.Favorite,
		"created_at": first.CreatedAt,
		"updated_at": first.UpdatedAt,
	})
	assert.Equal(t, first, second)
}

func TestTimestampOrdering_LexicalEqualsChronological(t *testing.T) {
	early := model.FormatTimestamp(time.Date(2026, 1, 9, 23, 59, 59, 0, time.UTC))
	late := model.FormatTimestamp(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	assert.Less(t, early, late)
}
