package services

import (
	"context"
	"testing"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/events"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	posts := newFakePosts()
	likes := newFakeLikes()
	pub := &recordingPublisher{}
	svc := NewLikeService(likes, posts, pub, nil)
	post := posts.seed("a", "demo")
	ctx := session.WithUserID(context.Background(), "viewer")

	liked, err := svc.ToggleLike(ctx, post.ID.Hex(), "")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, models.DefaultReaction, likes.likes[post.ID.Hex()]["viewer"])

	liked, err = svc.ToggleLike(ctx, post.ID.Hex(), "fire")
	require.NoError(t, err)
	assert.False(t, liked)

	require.Len(t, pub.events, 2)
	assert.True(t, pub.events[0].(events.LikeToggled).Liked)
	assert.Equal(t, "fire", pub.events[1].(events.LikeToggled).ReactionType)
}

func TestToggleLikeRejections(t *testing.T) {
	posts := newFakePosts()
	likes := newFakeLikes()
	svc := NewLikeService(likes, posts, nil, nil)

	_, err := svc.ToggleLike(context.Background(), "whatever", "like")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.ToggleLike(session.WithUserID(context.Background(), "viewer"), "000000000000000000000000", "like")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, likes.likes)
}

func TestComments(t *testing.T) {
	posts := newFakePosts()
	comments := &fakeComments{}
	users := newFakeUsers(models.User{ID: "viewer", FullName: "Vera"}, models.User{ID: "a", FullName: "Artist A"})
	svc := NewCommentService(comments, posts, users)
	post := posts.seed("a", "demo")
	ctx := session.WithUserID(context.Background(), "viewer")

	_, err := svc.AddComment(context.Background(), post.ID.Hex(), "hey")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.AddComment(ctx, post.ID.Hex(), "   ")
	assert.True(t, apperr.IsValidation(err))

	c, err := svc.AddComment(ctx, post.ID.Hex(), " great set ")
	require.NoError(t, err)
	assert.Equal(t, "great set", c.Content)
	require.NotNil(t, c.User)
	assert.Equal(t, "Vera", c.User.FullName)

	_, err = svc.AddComment(session.WithUserID(context.Background(), "a"), post.ID.Hex(), "thanks!")
	require.NoError(t, err)

	list, err := svc.ListComments(context.Background(), post.ID.Hex(), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Artist A", list[1].User.FullName)
}
