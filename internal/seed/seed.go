// Package seed loads demo fixtures through the repositories, so seeded
// records pass through the same normalization as user-written ones.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/boardmate/boardmate/internal/repository"
)

type fixtureUser struct {
	id       string
	nickname string
	favorite string
}

type fixturePost struct {
	id        string
	title     string
	content   string
	address   string
	isRecruit bool
	lat, lng  float64
	createdAt string
	authorID  string
}

var fixtureUsers = []fixtureUser{
	{id: "dummy-user-1", nickname: "Sam", favorite: "Catan"},
	{id: "dummy-user-2", nickname: "Alex", favorite: "Chess, Go"},
	{id: "dummy-user-3", nickname: "Jamie", favorite: ""},
}

var fixturePosts = []fixturePost{
	{
		id:        "dummy-post-1",
		title:     "Board game night",
		content:   "Looking for 3 players for a casual meetup.",
		address:   "Seoul Mapo-gu",
		isRecruit: false,
		lat:       37.556, lng: 126.922,
		createdAt: "2026-01-20T10:30:00.000Z",
		authorID:  "dummy-user-1",
	},
	{
		id:        "dummy-post-2",
		title:     "Weekend strategy session",
		content:   "Bring your favorite strategy game.",
		address:   "Seoul Jongno-gu",
		isRecruit: true,
		lat:       37.572, lng: 126.979,
		createdAt: "2026-01-19T14:10:00.000Z",
		authorID:  "dummy-user-2",
	},
	{
		id:        "dummy-post-3",
		title:     "Beginner-friendly table",
		content:   "New to board games? Join us for a quick intro.",
		address:   "Seoul Gangnam-gu",
		isRecruit: false,
		lat:       37.497, lng: 127.028,
		createdAt: "2026-01-18T09:00:00.000Z",
		authorID:  "dummy-user-3",
	},
}

// Run inserts the fixtures. Records carry fixed IDs, so re-running
// overwrites the same rows instead of duplicating them.
func Run(ctx context.Context, users repository.UserRepository, posts repository.PostRepository, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, u := range fixtureUsers {
		_, err := users.Create(ctx, map[string]any{
			"id":       u.id,
			"nickname": u.nickname,
			"favorite": u.favorite,
		})
		if err != nil {
			return fmt.Errorf("seed: creating user %s: %w", u.id, err)
		}
	}

	for _, p := range fixturePosts {
		_, err := posts.Create(ctx, map[string]any{
			"id":         p.id,
			"title":      p.title,
			"content":    p.content,
			"address":    p.address,
			"is_recruit": p.isRecruit,
			"coordinate": map[string]any{"lat": p.lat, "lng": p.lng},
			"created_at": p.createdAt,
			"authorId":   p.authorID,
		})
		if err != nil {
			return fmt.Errorf("seed: creating post %s: %w", p.id, err)
		}
	}

	logger.Info("demo fixtures seeded",
		slog.Int("users", len(fixtureUsers)),
		slog.Int("posts", len(fixturePosts)),
	)
	return nil
}
