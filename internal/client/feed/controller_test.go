package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniyatwon/yatwon/internal/client/api"
	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/common"
	"github.com/uniyatwon/yatwon/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeClient overrides only the endpoints a test exercises; the embedded
// interface panics on anything unexpected.
type fakeClient struct {
	api.Client

	mu        sync.Mutex
	likeCalls int
	saveCalls int
	likeErr   error
	saveErr   error
	likeCount *int
	gate      chan struct{}

	posts []models.Post

	deleteErr   error
	deleteCalls int

	commentErr  error
	comments    []models.Comment
	commentsErr error

	profile    models.Profile
	profileErr error
	followErr  error
	followed   int
}

func (f *fakeClient) FetchPosts(ctx context.Context, category models.Category) ([]models.Post, error) {
	return f.posts, nil
}

func (f *fakeClient) ToggleLike(ctx context.Context, postID string) (*api.ToggleResult, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.likeCalls++
	f.mu.Unlock()
	if f.likeErr != nil {
		return nil, f.likeErr
	}
	return &api.ToggleResult{Count: f.likeCount}, nil
}

func (f *fakeClient) ToggleSave(ctx context.Context, postID string) (*api.ToggleResult, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.saveCalls++
	f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &api.ToggleResult{}, nil
}

func (f *fakeClient) DeletePost(ctx context.Context, postID string) error {
	f.mu.Lock()
	f.deleteCalls++
	f.mu.Unlock()
	return f.deleteErr
}

func (f *fakeClient) SubmitComment(ctx context.Context, postID, text, parentID string) error {
	return f.commentErr
}

func (f *fakeClient) FetchComments(ctx context.Context, postID string) ([]models.Comment, error) {
	return f.comments, f.commentsErr
}

func (f *fakeClient) FetchMyProfile(ctx context.Context) (models.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeClient) FetchProfile(ctx context.Context, userID string) (models.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeClient) ToggleFollow(ctx context.Context, userID string) (*api.ToggleResult, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.followed++
	f.mu.Unlock()
	if f.followErr != nil {
		return nil, f.followErr
	}
	return &api.ToggleResult{}, nil
}

func somePosts() []models.Post {
	return []models.Post{
		{ID: "p1", AuthorID: "u1", LikeCount: 5, Liked: false, Saved: false},
		{ID: "p2", AuthorID: "u2", LikeCount: 0, Liked: true},
	}
}

func loadedController(t *testing.T, client *fakeClient, viewerID string) *Controller {
	t.Helper()
	if client.posts == nil {
		client.posts = somePosts()
	}
	c := NewController(client, viewerID, testLogger())
	require.NoError(t, c.Load(context.Background(), models.CategoryNormal))
	return c
}

func TestToggleLikeOptimisticThenConfirmed(t *testing.T) {
	client := &fakeClient{}
	c := loadedController(t, client, "u1")

	require.NoError(t, c.ToggleLike(context.Background(), "p1"))

	// The flip is visible before the request resolves.
	p, ok := c.Post("p1")
	require.True(t, ok)
	assert.True(t, p.Liked)
	assert.Equal(t, 6, p.LikeCount)

	c.Wait()
	p, _ = c.Post("p1")
	assert.True(t, p.Liked)
	assert.Equal(t, 6, p.LikeCount)
}

func TestToggleLikeRollbackOnError(t *testing.T) {
	client := &fakeClient{likeErr: api.ErrUnavailable}
	c := loadedController(t, client, "u1")

	require.NoError(t, c.ToggleLike(context.Background(), "p1"))
	c.Wait()

	// The pre-toggle snapshot is restored exactly: 5 -> 6 -> 5.
	p, _ := c.Post("p1")
	assert.False(t, p.Liked)
	assert.Equal(t, 5, p.LikeCount)
}

func TestToggleLikeAuthoritativeCountWins(t *testing.T) {
	seven := 7
	client := &fakeClient{likeCount: &seven}
	c := loadedController(t, client, "u1")

	require.NoError(t, c.ToggleLike(context.Background(), "p1"))
	c.Wait()

	p, _ := c.Post("p1")
	assert.True(t, p.Liked)
	assert.Equal(t, 7, p.LikeCount)
}

func TestToggleLikeUnlikeNeverGoesNegative(t *testing.T) {
	client := &fakeClient{}
	c := loadedController(t, client, "u1")

	// p2 is liked with a zero count (stale server data).
	require.NoError(t, c.ToggleLike(context.Background(), "p2"))
	c.Wait()

	p, _ := c.Post("p2")
	assert.False(t, p.Liked)
	assert.Equal(t, 0, p.LikeCount)
}

func TestToggleLikeDuplicateWhileInFlight(t *testing.T) {
	client := &fakeClient{gate: make(chan struct{})}
	c := loadedController(t, client, "u1")

	require.NoError(t, c.ToggleLike(context.Background(), "p1"))
	err := c.ToggleLike(context.Background(), "p1")
	assert.ErrorIs(t, err, common.ErrBusy)

	// A different action on the same post is not blocked.
	go func() { client.gate <- struct{}{}; client.gate <- struct{}{} }()
	require.NoError(t, c.ToggleSave(context.Background(), "p1"))
	c.Wait()

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 1, client.likeCalls)
	assert.Equal(t, 1, client.saveCalls)
}

func TestToggleAfterCloseDoesNotTouchState(t *testing.T) {
	client := &fakeClient{gate: make(chan struct{}), likeErr: api.ErrUnavailable}
	c := loadedController(t, client, "u1")

	require.NoError(t, c.ToggleLike(context.Background(), "p1"))
	c.Close()
	close(client.gate)
	c.Wait()

	// Resolution ran after unmount; the optimistic value stays untouched
	// rather than being rolled back into a dead screen.
	p, _ := c.Post("p1")
	assert.True(t, p.Liked)
	assert.Equal(t, 6, p.LikeCount)
}

func TestToggleSaveRollback(t *testing.T) {
	client := &fakeClient{saveErr: api.ErrUnavailable}
	c := loadedController(t, client, "u1")

	require.NoError(t, c.ToggleSave(context.Background(), "p1"))
	p, _ := c.Post("p1")
	assert.True(t, p.Saved)

	c.Wait()
	p, _ = c.Post("p1")
	assert.False(t, p.Saved)
}

func TestToggleUnknownPost(t *testing.T) {
	c := loadedController(t, &fakeClient{}, "u1")
	err := c.ToggleLike(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownPost)
}

func TestDeleteOwnPost(t *testing.T) {
	client := &fakeClient{}
	c := loadedController(t, client, "u1")

	require.NoError(t, c.Delete(context.Background(), "p1"))

	_, ok := c.Post("p1")
	assert.False(t, ok)
	assert.Len(t, c.Posts(), 1)
	assert.Equal(t, 1, client.deleteCalls)
}

func TestDeleteForeignPostRefusedLocally(t *testing.T) {
	client := &fakeClient{}
	c := loadedController(t, client, "u1")

	err := c.Delete(context.Background(), "p2")
	assert.ErrorIs(t, err, common.ErrNotPermitted)
	assert.Equal(t, 0, client.deleteCalls)

	_, ok := c.Post("p2")
	assert.True(t, ok)
}

func TestDeleteKeepsPostOnServerError(t *testing.T) {
	client := &fakeClient{deleteErr: &api.RejectedError{Message: "not yours"}}
	c := loadedController(t, client, "u1")

	err := c.Delete(context.Background(), "p1")
	require.Error(t, err)

	_, ok := c.Post("p1")
	assert.True(t, ok)
}

func TestCommentRefreshesThread(t *testing.T) {
	client := &fakeClient{
		comments: []models.Comment{{ID: "c1", PostID: "p1", Description: "nice"}},
	}
	c := loadedController(t, client, "u1")

	require.NoError(t, c.Comment(context.Background(), "p1", "nice", ""))

	p, _ := c.Post("p1")
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "nice", p.Comments[0].Description)
}

func TestCommentSubmitErrorPropagates(t *testing.T) {
	client := &fakeClient{commentErr: api.ErrUnavailable}
	c := loadedController(t, client, "u1")

	err := c.Comment(context.Background(), "p1", "nice", "")
	assert.ErrorIs(t, err, api.ErrUnavailable)
}

func TestCommentRefreshFailureIsNotFatal(t *testing.T) {
	client := &fakeClient{commentsErr: api.ErrUnavailable}
	c := loadedController(t, client, "u1")

	// The comment itself succeeded, so the caller sees success.
	assert.NoError(t, c.Comment(context.Background(), "p1", "nice", ""))
}

func TestOnChangeFiresOnMutations(t *testing.T) {
	client := &fakeClient{}
	c := loadedController(t, client, "u1")

	var mu sync.Mutex
	fired := 0
	c.SetOnChange(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	require.NoError(t, c.ToggleLike(context.Background(), "p1"))
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	// Once for the optimistic flip, once for the resolution.
	assert.Equal(t, 2, fired)
}

func TestProfileFollowOptimisticAndRollback(t *testing.T) {
	client := &fakeClient{
		profile:   models.Profile{User: models.User{UUID: "u2", Name: "htet"}, Followers: 10},
		followErr: errors.New("boom"),
	}
	v := NewProfileView(client, testLogger())
	require.NoError(t, v.Load(context.Background(), "u2"))

	require.NoError(t, v.ToggleFollow(context.Background()))
	p, ok := v.Profile()
	require.True(t, ok)
	assert.True(t, p.Following)
	assert.Equal(t, 11, p.Followers)

	v.Wait()
	p, _ = v.Profile()
	assert.False(t, p.Following)
	assert.Equal(t, 10, p.Followers)
}

func TestProfileFollowConfirmed(t *testing.T) {
	client := &fakeClient{
		profile: models.Profile{User: models.User{UUID: "u2"}, Following: true, Followers: 3},
	}
	v := NewProfileView(client, testLogger())
	require.NoError(t, v.Load(context.Background(), "u2"))

	require.NoError(t, v.ToggleFollow(context.Background()))
	v.Wait()

	p, _ := v.Profile()
	assert.False(t, p.Following)
	assert.Equal(t, 2, p.Followers)
}

func TestProfileFollowBusyGuard(t *testing.T) {
	client := &fakeClient{
		profile: models.Profile{User: models.User{UUID: "u2"}},
		gate:    make(chan struct{}),
	}
	v := NewProfileView(client, testLogger())
	require.NoError(t, v.Load(context.Background(), "u2"))

	require.NoError(t, v.ToggleFollow(context.Background()))
	assert.ErrorIs(t, v.ToggleFollow(context.Background()), common.ErrBusy)

	close(client.gate)
	v.Wait()

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 1, client.followed)
}

func TestProfileFollowBeforeLoad(t *testing.T) {
	v := NewProfileView(&fakeClient{}, testLogger())
	assert.ErrorIs(t, v.ToggleFollow(context.Background()), common.ErrBusy)
}
