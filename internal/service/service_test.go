package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardmate/boardmate/internal/apperror"
	"github.com/boardmate/boardmate/internal/auth"
	"github.com/boardmate/boardmate/internal/model"
	"github.com/boardmate/boardmate/internal/repository"
	"github.com/boardmate/boardmate/internal/session"
)

// ---------------------------------------------------------------------------
// in-memory stubs

type stubUsers struct {
	seq   int
	users map[string]*model.User
}

func newStubUsers() *stubUsers {
	return &stubUsers{users: map[string]*model.User{}}
}

func (s *stubUsers) Create(ctx context.Context, input map[string]any) (*model.User, error) {
	s.seq++
	u := &model.User{
		ID:       fmt.Sprintf("user-%d", s.seq),
		Nickname: model.DefaultNickname,
		ImageURL: strptr(model.FallbackAvatar),
	}
	if n, ok := input["nickname"].(string); ok && n != "" {
		u.Nickname = n
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubUsers) Get(ctx context.Context, id string) (*model.User, error) {
	return s.users[id], nil
}

func (s *stubUsers) List(ctx context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUsers) Update(ctx context.Context, id string, patch repository.Patch) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	if n, ok := patch["nickname"].(string); ok {
		u.Nickname = n
	}
	return u, nil
}

func (s *stubUsers) Delete(ctx context.Context, id string) error {
	delete(s.users, id)
	return nil
}

type stubPosts struct {
	seq   int
	posts map[string]*model.Post
}

func newStubPosts() *stubPosts {
	return &stubPosts{posts: map[string]*model.Post{}}
}

func (s *stubPosts) Create(ctx context.Context, input map[string]any) (*model.Post, error) {
	author, _ := input["authorId"].(string)
	if author == "" {
		return nil, apperror.ValidationFailed("authorId", "post has no author")
	}
	s.seq++
	p := &model.Post{
		ID:        fmt.Sprintf("post-%d", s.seq),
		AuthorID:  author,
		CreatedAt: fmt.Sprintf("2026-01-01T00:00:%02d.000Z", s.seq),
	}
	if t, ok := input["title"].(string); ok {
		p.Title = t
	}
	s.posts[p.ID] = p
	return p, nil
}

func (s *stubPosts) Get(ctx context.Context, id string) (*model.PostWithAuthor, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	return &model.PostWithAuthor{Post: *p}, nil
}

func (s *stubPosts) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	out := make([]model.PostWithAuthor, 0, len(s.posts))
	for i := s.seq; i >= 1; i-- {
		if p, ok := s.posts[fmt.Sprintf("post-%d", i)]; ok {
			out = append(out, model.PostWithAuthor{Post: *p})
		}
	}
	return out, nil
}

func (s *stubPosts) ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	var out []model.Post
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubPosts) Update(ctx context.Context, id string, patch repository.Patch) (*model.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	if t, ok := patch["title"].(string); ok {
		p.Title = t
	}
	return p, nil
}

func (s *stubPosts) Delete(ctx context.Context, id string) error {
	delete(s.posts, id)
	return nil
}

type stubComments struct {
	seq      int
	comments map[string]*model.Comment
}

func newStubComments() *stubComments {
	return &stubComments{comments: map[string]*model.Comment{}}
}

func (s *stubComments) Create(ctx context.Context, input map[string]any) (*model.Comment, error) {
	s.seq++
	c := &model.Comment{ID: fmt.Sprintf("comment-%d", s.seq)}
	c.PostID, _ = input["postId"].(string)
	c.AuthorID, _ = input["authorId"].(string)
	c.Content, _ = input["content"].(string)
	s.comments[c.ID] = c
	return c, nil
}

func (s *stubComments) Get(ctx context.Context, id string) (*model.Comment, error) {
	return s.comments[id], nil
}

func (s *stubComments) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubComments) Update(ctx context.Context, id string, patch repository.Patch) (*model.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	if v, ok := patch["content"].(string); ok {
		c.Content = v
	}
	return c, nil
}

func (s *stubComments) Delete(ctx context.Context, id string) error {
	delete(s.comments, id)
	return nil
}

func strptr(s string) *string { return &s }

func testSessions(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func testLogger() *slog.Logger { return slog.Default() }

func testTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("service-test-secret-0123456789")
	require.NoError(t, err)
	return ts
}

// ---------------------------------------------------------------------------
// AuthService

func TestGuestLogin(t *testing.T) {
	users := newStubUsers()
	sessions := testSessions(t)
	svc := NewAuthService(users, sessions, testTokens(t), testLogger())

	res, err := svc.GuestLogin(context.Background(), "  board fan  ")
	require.NoError(t, err)
	assert.Equal(t, "board fan", res.User.Nickname)
	assert.NotEmpty(t, res.Token)

	sess, err := sessions.Load()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, res.User.ID, sess.UserID)
	assert.Equal(t, "board fan", sess.Nickname)
	assert.Positive(t, sess.IssuedAt)
}

func TestGuestLogin_EmptyNickname(t *testing.T) {
	svc := NewAuthService(newStubUsers(), testSessions(t), testTokens(t), testLogger())

	_, err := svc.GuestLogin(context.Background(), "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGuestLogin_ReplacesPreviousSession(t *testing.T) {
	sessions := testSessions(t)
	svc := NewAuthService(newStubUsers(), sessions, testTokens(t), testLogger())

	first, err := svc.GuestLogin(context.Background(), "first")
	require.NoError(t, err)
	second, err := svc.GuestLogin(context.Background(), "second")
	require.NoError(t, err)
	require.NotEqual(t, first.User.ID, second.User.ID)

	sess, err := sessions.Load()
	require.NoError(t, err)
	assert.Equal(t, second.User.ID, sess.UserID)
}

func TestSignOut_Idempotent(t *testing.T) {
	sessions := testSessions(t)
	svc := NewAuthService(newStubUsers(), sessions, testTokens(t), testLogger())

	require.NoError(t, svc.SignOut(context.Background()))

	_, err := svc.GuestLogin(context.Background(), "guest")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(context.Background()))

	sess, err := svc.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

// ---------------------------------------------------------------------------
// PostService

func TestPostCreate_ActorOverridesPayloadAuthor(t *testing.T) {
	posts := newStubPosts()
	svc := NewPostService(posts, testSessions(t), testLogger())

	post, err := svc.Create(context.Background(), "actor-1", map[string]any{
		"title":    "hello",
		"authorId": "someone-else",
	})
	require.NoError(t, err)
	assert.Equal(t, "actor-1", post.AuthorID)
}

func TestPostCreate_EmptyTitle(t *testing.T) {
	svc := NewPostService(newStubPosts(), testSessions(t), testLogger())

	_, err := svc.Create(context.Background(), "actor-1", map[string]any{"title": " "})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestPostUpdate_NonAuthorForbidden(t *testing.T) {
	posts := newStubPosts()
	svc := NewPostService(posts, testSessions(t), testLogger())

	post, err := svc.Create(context.Background(), "author-1", map[string]any{"title": "mine"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "intruder", post.ID, repository.Patch{"title": "stolen"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := svc.Update(context.Background(), "author-1", post.ID, repository.Patch{"title": "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
}

func TestPostDelete_AbsentPostIsNoop(t *testing.T) {
	svc := NewPostService(newStubPosts(), testSessions(t), testLogger())

	err := svc.Delete(context.Background(), "anyone", "no-such-post")
	assert.NoError(t, err)
}

func TestPostUpdate_SessionFallbackActor(t *testing.T) {
	posts := newStubPosts()
	sessions := testSessions(t)
	svc := NewPostService(posts, sessions, testLogger())

	post, err := svc.Create(context.Background(), "author-1", map[string]any{"title": "mine"})
	require.NoError(t, err)

	require.NoError(t, sessions.Save(model.Session{UserID: "author-1", Nickname: "me", IssuedAt: 1}))
	_, err = svc.Update(context.Background(), "", post.ID, repository.Patch{"title": "via session"})
	assert.NoError(t, err)
}

func TestHomePosts_Pagination(t *testing.T) {
	posts := newStubPosts()
	svc := NewPostService(posts, testSessions(t), testLogger())

	for i := 0; i < 10; i++ {
		_, err := svc.Create(context.Background(), "author-1", map[string]any{
			"title": fmt.Sprintf("post %d", i),
		})
		require.NoError(t, err)
	}

	page1, err := svc.HomePosts(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Len(t, page1.Posts, 6)
	assert.Equal(t, 10, page1.PostsLength)

	page2, err := svc.HomePosts(context.Background(), 2, 6)
	require.NoError(t, err)
	assert.Len(t, page2.Posts, 4)

	page3, err := svc.HomePosts(context.Background(), 3, 6)
	require.NoError(t, err)
	assert.Empty(t, page3.Posts)
	assert.Equal(t, 10, page3.PostsLength)
}

// ---------------------------------------------------------------------------
// CommentService

func TestCommentCreate_MissingPost(t *testing.T) {
	svc := NewCommentService(newStubComments(), newStubPosts(), testSessions(t), testLogger())

	_, err := svc.Create(context.Background(), "actor-1", "ghost-post", map[string]any{"content": "hi"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCommentLifecycle_OwnershipEnforced(t *testing.T) {
	posts := newStubPosts()
	comments := newStubComments()
	svc := NewCommentService(comments, posts, testSessions(t), testLogger())

	post, err := posts.Create(context.Background(), map[string]any{"title": "t", "authorId": "author-1"})
	require.NoError(t, err)

	c, err := svc.Create(context.Background(), "commenter-1", post.ID, map[string]any{"content": "first"})
	require.NoError(t, err)
	assert.Equal(t, post.ID, c.PostID)
	assert.Equal(t, "commenter-1", c.AuthorID)

	_, err = svc.Update(context.Background(), "intruder", c.ID, repository.Patch{"content": "nope"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = svc.Delete(context.Background(), "commenter-1", c.ID)
	require.NoError(t, err)

	remaining, err := svc.ListByPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

// ---------------------------------------------------------------------------
// ProfileService

func TestProfileUpdate_OwnerOnly(t *testing.T) {
	users := newStubUsers()
	sessions := testSessions(t)
	svc := NewProfileService(users, sessions, testLogger())

	u, err := users.Create(context.Background(), map[string]any{"nickname": "before"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "someone-else", u.ID, repository.Patch{"nickname": "after"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := svc.Update(context.Background(), u.ID, u.ID, repository.Patch{"nickname": "after"})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Nickname)
}

func TestProfileUpdate_SyncsSessionNickname(t *testing.T) {
	users := newStubUsers()
	sessions := testSessions(t)
	svc := NewProfileService(users, sessions, testLogger())

	u, err := users.Create(context.Background(), map[string]any{"nickname": "before"})
	require.NoError(t, err)
	require.NoError(t, sessions.Save(model.Session{UserID: u.ID, Nickname: "before", IssuedAt: 42}))

	_, err = svc.Update(context.Background(), u.ID, u.ID, repository.Patch{"nickname": "after"})
	require.NoError(t, err)

	sess, err := sessions.Load()
	require.NoError(t, err)
	assert.Equal(t, "after", sess.Nickname)
	assert.EqualValues(t, 42, sess.IssuedAt)
}

// ---------------------------------------------------------------------------
// DemoService

type stubResetter struct {
	calls int
	err   error
}

func (s *stubResetter) ResetAll(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestDemoReset(t *testing.T) {
	r := &stubResetter{}
	svc := NewDemoService(r, testLogger())

	require.NoError(t, svc.Reset(context.Background()))
	assert.Equal(t, 1, r.calls)

	r.err = errors.New("disk on fire")
	err := svc.Reset(context.Background())
	assert.ErrorIs(t, err, r.err)
}
