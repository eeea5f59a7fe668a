package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakil-official/comment-system/pkg/envelope"
	"github.com/shakil-official/comment-system/pkg/models"
	"github.com/shakil-official/comment-system/pkg/thread"
)

type fakeAPI struct {
	mu sync.Mutex

	token     bool
	me        models.User
	meErr     error
	thread    models.PostThread
	threadErr error
	comments  models.CommentPage

	createCalls []models.CreateCommentRequest
	editCalls   []string
	deleteCalls []string
	toggleCalls []string
}

func (f *fakeAPI) HasToken() bool { return f.token }

func (f *fakeAPI) Me(ctx context.Context) (models.User, error) {
	return f.me, f.meErr
}

func (f *fakeAPI) Post(ctx context.Context, id string, page, limit int) (models.PostThread, error) {
	return f.thread, f.threadErr
}

func (f *fakeAPI) Comments(ctx context.Context, postID string, page, limit int) (models.CommentPage, error) {
	return f.comments, nil
}

func (f *fakeAPI) CreateComment(ctx context.Context, message, postID string, parentID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, models.CreateCommentRequest{Message: message, PostID: postID, ParentID: parentID})
	return nil
}

func (f *fakeAPI) EditComment(ctx context.Context, id, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editCalls = append(f.editCalls, id)
	return nil
}

func (f *fakeAPI) DeleteComment(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return nil
}

func (f *fakeAPI) ToggleReaction(ctx context.Context, id string, kind thread.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggleCalls = append(f.toggleCalls, id+":"+string(kind))
	return nil
}

func (f *fakeAPI) toggles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.toggleCalls...)
}

func ptr(s string) *string { return &s }

func loadedController(t *testing.T, api *fakeAPI) *Controller {
	t.Helper()
	c := New(api)
	require.NoError(t, c.Load(context.Background(), "p1"))
	require.Equal(t, StateReady, c.State())
	return c
}

func simpleThread() models.PostThread {
	return models.PostThread{
		Post: models.Post{ID: "p1", Title: "hello"},
		Comments: []models.Comment{
			{ID: "c1", Message: "root"},
		},
		Pagination: models.Pagination{Page: 1, TotalPages: 3},
	}
}

func TestLoadSeedsNormalizedTree(t *testing.T) {
	api := &fakeAPI{token: true, me: models.User{ID: "u1"}, thread: simpleThread()}

	c := loadedController(t, api)

	comments := c.Comments()
	require.Len(t, comments, 1)
	assert.NotNil(t, comments[0].Favorites, "seeded comments are canonical")
	assert.Equal(t, "u1", c.UserID())
	assert.Equal(t, "hello", c.Post().Title)
	page, total := c.Page()
	assert.Equal(t, 1, page)
	assert.Equal(t, 3, total)
}

func TestLoadFailureStaysOutOfReady(t *testing.T) {
	boom := errors.New("connection refused")
	api := &fakeAPI{threadErr: boom}

	c := New(api)
	err := c.Load(context.Background(), "p1")

	require.ErrorIs(t, err, boom)
	assert.NotEqual(t, StateReady, c.State())
	assert.ErrorIs(t, c.Err(), boom)
}

func TestLoadFallsBackToCommentsEndpoint(t *testing.T) {
	api := &fakeAPI{
		thread: models.PostThread{Post: models.Post{ID: "p1"}}, // no comments key
		comments: models.CommentPage{
			Data:       []models.Comment{{ID: "c9"}},
			Pagination: models.Pagination{Page: 1, TotalPages: 1},
		},
	}

	c := loadedController(t, api)

	comments := c.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "c9", comments[0].ID)
}

func TestLoadWithoutTokenSkipsIdentity(t *testing.T) {
	api := &fakeAPI{thread: simpleThread()}
	c := loadedController(t, api)
	assert.Empty(t, c.UserID())
}

func TestSubmitCommentValidation(t *testing.T) {
	api := &fakeAPI{token: true, me: models.User{ID: "u1"}, thread: simpleThread()}
	c := loadedController(t, api)

	assert.ErrorIs(t, c.SubmitComment(context.Background(), "   ", nil), ErrEmptyMessage)
	assert.Empty(t, api.createCalls, "validation failures never hit the network")

	api.token = false
	assert.ErrorIs(t, c.SubmitComment(context.Background(), "hi", nil), ErrNoCredential)
	assert.Empty(t, api.createCalls)
}

func TestSubmitCommentIsFireAndForget(t *testing.T) {
	api := &fakeAPI{token: true, me: models.User{ID: "u1"}, thread: simpleThread()}
	c := loadedController(t, api)

	require.NoError(t, c.SubmitComment(context.Background(), "a reply", ptr("c1")))

	require.Len(t, api.createCalls, 1)
	assert.Equal(t, "p1", api.createCalls[0].PostID)
	assert.Equal(t, "c1", *api.createCalls[0].ParentID)
	assert.Equal(t, 1, thread.Size(c.Comments()), "no optimistic insert; comment:new does it")
}

func TestToggleReactionOptimisticAndDeduped(t *testing.T) {
	api := &fakeAPI{token: true, me: models.User{ID: "u1"}, thread: simpleThread()}
	c := loadedController(t, api)

	require.NoError(t, c.ToggleReaction(context.Background(), "c1", thread.Like))

	got, ok := thread.FindByID(c.Comments(), "c1")
	require.True(t, ok)
	assert.Equal(t, []string{"u1"}, got.Favorites)
	assert.EqualValues(t, 1, got.FavoritesCount)
	assert.True(t, c.Pending("c1"))

	// Double-click: second toggle while pending is a no-op.
	require.NoError(t, c.ToggleReaction(context.Background(), "c1", thread.Like))
	assert.Len(t, api.toggles(), 1)

	got, _ = thread.FindByID(c.Comments(), "c1")
	assert.Equal(t, []string{"u1"}, got.Favorites, "optimistic state untouched by the dedup")
}

func TestToggleReactionRequiresUser(t *testing.T) {
	api := &fakeAPI{token: true, meErr: errors.New("me failed"), thread: simpleThread()}
	c := loadedController(t, api)

	assert.ErrorIs(t, c.ToggleReaction(context.Background(), "c1", thread.Like), ErrNoUser)
	assert.Empty(t, api.toggles())
}

func TestToggleReactionUnknownCommentIsNoop(t *testing.T) {
	api := &fakeAPI{token: true, me: models.User{ID: "u1"}, thread: simpleThread()}
	c := loadedController(t, api)

	require.NoError(t, c.ToggleReaction(context.Background(), "ghost", thread.Like))
	assert.Empty(t, api.toggles())
}

func TestReactionEventOverwritesOptimisticState(t *testing.T) {
	api := &fakeAPI{token: true, me: models.User{ID: "u1"}, thread: simpleThread()}
	c := loadedController(t, api)
	require.NoError(t, c.ToggleReaction(context.Background(), "c1", thread.Like))

	// Authoritative event disagrees with the optimistic projection.
	c.RemoteReaction(envelope.ReactionPayload{
		CommentID:      "c1",
		Favorites:      []string{"u1", "u2"},
		FavoritesCount: 2,
	})

	got, _ := thread.FindByID(c.Comments(), "c1")
	assert.Equal(t, []string{"u1", "u2"}, got.Favorites)
	assert.EqualValues(t, 2, got.FavoritesCount)
	assert.NotNil(t, got.Dislikes)
	assert.False(t, c.Pending("c1"), "confirmation releases the pending marker")

	// Released: the next toggle goes out again.
	require.NoError(t, c.ToggleReaction(context.Background(), "c1", thread.Dislike))
	assert.Len(t, api.toggles(), 2)
}

func TestPendingExpiresWithoutConfirmation(t *testing.T) {
	api := &fakeAPI{token: true, me: models.User{ID: "u1"}, thread: simpleThread()}
	c := New(api, WithPendingTTL(20*time.Millisecond))
	require.NoError(t, c.Load(context.Background(), "p1"))

	require.NoError(t, c.ToggleReaction(context.Background(), "c1", thread.Like))
	require.True(t, c.Pending("c1"))

	assert.Eventually(t, func() bool { return !c.Pending("c1") },
		time.Second, 5*time.Millisecond, "lost event must not lock the control forever")

	require.NoError(t, c.ToggleReaction(context.Background(), "c1", thread.Like))
	assert.Len(t, api.toggles(), 2)
}

func TestRemoteNewInsertsOnceAndDropsOrphans(t *testing.T) {
	api := &fakeAPI{thread: simpleThread()}
	c := loadedController(t, api)

	reply := models.Comment{ID: "c2", Parent: ptr("c1"), Message: "reply"}
	c.RemoteNew(reply)
	c.RemoteNew(reply) // duplicate delivery

	comments := c.Comments()
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Children, 1)
	assert.Equal(t, 2, thread.Size(comments))

	// Orphan: parent never seen in this snapshot.
	c.RemoteNew(models.Comment{ID: "c3", Parent: ptr("unknown")})
	assert.Equal(t, 2, thread.Size(c.Comments()))
}

func TestRemoteUpdateIdempotentAndKeepsSubtree(t *testing.T) {
	api := &fakeAPI{thread: simpleThread()}
	c := loadedController(t, api)
	c.RemoteNew(models.Comment{ID: "c2", Parent: ptr("c1")})

	update := models.Comment{ID: "c1", Message: "edited"}
	c.RemoteUpdate(update)
	once := c.Comments()
	c.RemoteUpdate(update)
	twice := c.Comments()

	assert.Equal(t, once, twice, "re-applying the same event yields the same tree")
	got, _ := thread.FindByID(twice, "c1")
	assert.Equal(t, "edited", got.Message)
	require.Len(t, got.Children, 1, "update never drops the node's subtree")
}

func TestRemoteDeletePrunesSubtree(t *testing.T) {
	api := &fakeAPI{thread: simpleThread()}
	c := loadedController(t, api)
	c.RemoteNew(models.Comment{ID: "c2", Parent: ptr("c1")})
	c.RemoteNew(models.Comment{ID: "c3", Parent: ptr("c2")})

	c.RemoteDelete("c2")

	comments := c.Comments()
	assert.True(t, thread.Contains(comments, "c1"))
	assert.False(t, thread.Contains(comments, "c2"))
	assert.False(t, thread.Contains(comments, "c3"))
}

func TestOnChangeFiresOnMutation(t *testing.T) {
	api := &fakeAPI{thread: simpleThread()}
	var mu sync.Mutex
	changes := 0
	c := New(api, WithOnChange(func() {
		mu.Lock()
		changes++
		mu.Unlock()
	}))
	require.NoError(t, c.Load(context.Background(), "p1"))
	c.RemoteNew(models.Comment{ID: "c2", Parent: ptr("c1")})

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, changes, 2)
}
