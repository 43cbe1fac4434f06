package thread_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/thread"
	"github.com/sabelo-news/api-go/thread/threadtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = &thread.Viewer{AccountID: "alice", Name: "Alice"}

func newService() (*thread.Service, *threadtest.MemoryStore, *thread.Broker) {
	broker := thread.NewBroker()
	store := threadtest.NewMemoryStore(broker)
	return thread.NewService(store, broker), store, broker
}

func TestSubmitCommentIgnoresBlankText(t *testing.T) {
	svc, store, _ := newService()

	for _, text := range []string{"", "   ", "\n\t "} {
		c, err := svc.SubmitComment(context.Background(), "A", alice, text, nil)
		require.NoError(t, err)
		assert.Nil(t, c)
	}
	// Blank text wins over a missing viewer: still a silent no-op.
	c, err := svc.SubmitComment(context.Background(), "A", nil, "  ", nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	assert.Equal(t, 0, store.Writes())
}

func TestSubmitCommentRequiresViewer(t *testing.T) {
	svc, store, _ := newService()

	_, err := svc.SubmitComment(context.Background(), "A", nil, "hola", nil)
	assert.ErrorIs(t, err, thread.ErrSignInRequired)
	assert.Equal(t, 0, store.Writes())
}

func TestSubmitRootComment(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	c, err := svc.SubmitComment(ctx, "A", alice, "Gran partido", nil)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, "A", c.NewsID)
	assert.Equal(t, "Alice", c.User)
	assert.Equal(t, "alice", c.UserID)
	assert.Nil(t, c.ParentID)
	assert.NotNil(t, c.Likes)
	assert.Empty(t, c.Likes)

	forest, err := svc.Forest(ctx, "A", alice)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, c.ID, forest[0].ID)
}

func TestSubmitCommentAnonymousName(t *testing.T) {
	svc, _, _ := newService()

	c, err := svc.SubmitComment(context.Background(), "A", &thread.Viewer{AccountID: "x"}, "hola", nil)
	require.NoError(t, err)
	assert.Equal(t, models.AnonymousName, c.User)
}

func TestSubmitReply(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	root, err := svc.SubmitComment(ctx, "A", alice, "root", nil)
	require.NoError(t, err)

	reply, err := svc.SubmitComment(ctx, "", &thread.Viewer{AccountID: "bob", Name: "Bob"}, "reply", &root.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)
	assert.Equal(t, "A", reply.NewsID, "a reply belongs to its parent's article")

	forest, err := svc.Forest(ctx, "A", nil)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Replies, 1)
	assert.Equal(t, reply.ID, forest[0].Replies[0].ID)
}

func TestSubmitRootCommentNeedsNews(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()

	empty := ""
	for _, parent := range []*string{nil, &empty} {
		_, err := svc.SubmitComment(ctx, "  ", alice, "hola", parent)
		assert.ErrorIs(t, err, thread.ErrNewsRequired)
	}
	assert.Equal(t, 0, store.Writes())
}

func TestSubmitReplyToUnknownParent(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()

	missing := "does-not-exist"
	_, err := svc.SubmitComment(ctx, "A", alice, "reply", &missing)
	assert.ErrorIs(t, err, thread.ErrParentNotFound)

	root, err := svc.SubmitComment(ctx, "A", alice, "root", nil)
	require.NoError(t, err)
	_, err = svc.SubmitComment(ctx, "B", alice, "reply", &root.ID)
	assert.ErrorIs(t, err, thread.ErrParentNotFound, "parent from another article")

	assert.Equal(t, 1, store.Writes())
}

func TestSubmitCommentWriteFailure(t *testing.T) {
	svc, store, _ := newService()
	store.FailWrites = errors.New("permission denied")

	c, err := svc.SubmitComment(context.Background(), "A", alice, "hola", nil)
	assert.Nil(t, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.FailWrites)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()
	store.Seed(models.Comment{ID: "c1", NewsID: "A", Likes: []string{"bob"}})

	liked := func() (bool, []string) {
		c, err := store.Get(ctx, "c1")
		require.NoError(t, err)
		return c.LikedBy(alice.AccountID), c.Likes
	}

	current, original := liked()
	require.False(t, current)

	require.NoError(t, svc.ToggleLike(ctx, "c1", alice, current))
	current, likes := liked()
	assert.True(t, current)
	assert.ElementsMatch(t, []string{"bob", "alice"}, likes)

	require.NoError(t, svc.ToggleLike(ctx, "c1", alice, current))
	_, likes = liked()
	assert.Equal(t, original, likes)
}

func TestToggleLikeIsIdempotent(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()
	store.Seed(models.Comment{ID: "c1", NewsID: "A"})

	// Two toggles from the same stale snapshot.
	require.NoError(t, svc.ToggleLike(ctx, "c1", alice, false))
	require.NoError(t, svc.ToggleLike(ctx, "c1", alice, false))

	c, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, []string(c.Likes))

	require.NoError(t, svc.ToggleLike(ctx, "c1", alice, true))
	require.NoError(t, svc.ToggleLike(ctx, "c1", alice, true))
	c, err = store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, c.Likes)
}

func TestToggleLikeErrors(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.ToggleLike(ctx, "c1", nil, false), thread.ErrSignInRequired)
	assert.ErrorIs(t, svc.ToggleLike(ctx, "missing", alice, false), thread.ErrCommentNotFound)

	store.Seed(models.Comment{ID: "c1", NewsID: "A"})
	store.FailWrites = errors.New("offline")
	err := svc.ToggleLike(ctx, "c1", alice, false)
	assert.ErrorIs(t, err, store.FailWrites)
}

func TestToggleLikeFresh(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()
	store.Seed(models.Comment{ID: "c1", NewsID: "A"})

	liked, err := svc.ToggleLikeFresh(ctx, "c1", alice)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = svc.ToggleLikeFresh(ctx, "c1", alice)
	require.NoError(t, err)
	assert.False(t, liked)

	c, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, c.Likes)

	_, err = svc.ToggleLikeFresh(ctx, "missing", alice)
	assert.ErrorIs(t, err, thread.ErrCommentNotFound)
	_, err = svc.ToggleLikeFresh(ctx, "c1", nil)
	assert.ErrorIs(t, err, thread.ErrSignInRequired)
}

func TestWatchRederivesOnEveryChange(t *testing.T) {
	svc, _, broker := newService()
	ctx, cancel := context.WithCancel(context.Background())

	forests := make(chan []*thread.Node, 16)
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, "A", alice, func(f []*thread.Node) { forests <- f })
	}()

	next := func() []*thread.Node {
		select {
		case f := <-forests:
			return f
		case <-time.After(2 * time.Second):
			t.Fatal("no snapshot delivered")
			return nil
		}
	}

	assert.Empty(t, next(), "initial snapshot")

	root, err := svc.SubmitComment(context.Background(), "A", alice, "root", nil)
	require.NoError(t, err)
	f := next()
	require.Len(t, f, 1)
	assert.False(t, f[0].LikedByViewer)

	require.NoError(t, svc.ToggleLike(context.Background(), root.ID, alice, false))
	f = next()
	require.Len(t, f, 1)
	assert.True(t, f[0].LikedByViewer)
	assert.Equal(t, 1, f[0].LikeCount)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Equal(t, 0, broker.Subscribers("A"))
}
