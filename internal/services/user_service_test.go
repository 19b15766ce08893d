package services

import (
	"context"
	"testing"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (*UserService, *fakeUsers, *fakeFollows) {
	users := newFakeUsers(
		models.User{ID: "alice", FullName: "Alice Keys", Location: "Austin"},
		models.User{ID: "bob", FullName: "Bob Bass"},
		models.User{ID: "carol", FullName: "Carol Keys"},
	)
	follows := newFakeFollows()
	graph := NewGraphService(follows, users, nil, nil)
	return NewUserService(users, graph, nil), users, follows
}

func TestGetProfileCountsAndFollowState(t *testing.T) {
	svc, _, follows := newUserFixture()
	follows.follow("alice", "bob")
	follows.follow("carol", "bob")
	follows.follow("bob", "carol")

	profile, err := svc.GetProfile(session.WithUserID(context.Background(), "alice"), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.FollowersCount)
	assert.Equal(t, int64(1), profile.FollowingCount)
	assert.True(t, profile.IsFollowing)

	profile, err = svc.GetProfile(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, profile.IsFollowing, "anonymous viewers never follow")

	_, err = svc.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMeRequiresSession(t *testing.T) {
	svc, _, _ := newUserFixture()

	_, err := svc.Me(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	me, err := svc.Me(session.WithUserID(context.Background(), "alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", me.ID)
}

func TestUpdateProfile(t *testing.T) {
	svc, users, _ := newUserFixture()
	ctx := session.WithUserID(context.Background(), "alice")
	name, bio := "  Alice K.  ", " Session keys player "

	updated, err := svc.UpdateProfile(ctx, models.UpdateProfileRequest{FullName: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Alice K.", updated.FullName)
	assert.Equal(t, "Session keys player", updated.Bio)
	assert.Equal(t, "Austin", updated.Location, "absent fields are untouched")
	assert.Equal(t, "Alice K.", users.byID["alice"].FullName)

	blank := "   "
	_, err = svc.UpdateProfile(ctx, models.UpdateProfileRequest{FullName: &blank})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.UpdateProfile(context.Background(), models.UpdateProfileRequest{Bio: &bio})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestSetAvatar(t *testing.T) {
	svc, users, _ := newUserFixture()

	_, err := svc.SetAvatar(session.WithUserID(context.Background(), "bob"), "https://res.cloudinary.com/demo/image/upload/user_bob.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/user_bob.jpg", users.byID["bob"].AvatarURL)
}

func TestSearch(t *testing.T) {
	svc, _, _ := newUserFixture()

	found, err := svc.Search(context.Background(), "  keys ", 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Alice Keys", found[0].FullName)
	assert.Equal(t, "Carol Keys", found[1].FullName)

	found, err = svc.Search(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
