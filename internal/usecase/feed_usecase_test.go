package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
)

func TestFeed_VisibilityAndLikes(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "author", entity.RoleUser, entity.VerificationUnverified)
	f.addUser(t, "friend", entity.RoleUser, entity.VerificationUnverified)
	f.addUser(t, "stranger", entity.RoleUser, entity.VerificationUnverified)
	require.NoError(t, f.feed.Follow(f.ctx, "friend", "author"))

	public, err := f.feed.CreatePost(f.ctx, "author", usecase.CreatePostInput{Content: "Open house #austin @friend"})
	require.NoError(t, err)
	assert.Equal(t, entity.VisibilityPublic, public.Visibility)
	assert.Equal(t, []string{"austin"}, public.Hashtags)
	assert.Equal(t, []string{"friend"}, public.Mentions)

	_, err = f.feed.CreatePost(f.ctx, "author", usecase.CreatePostInput{Content: "friends only", Visibility: entity.VisibilityFriends})
	require.NoError(t, err)
	_, err = f.feed.CreatePost(f.ctx, "author", usecase.CreatePostInput{Content: "note to self", Visibility: entity.VisibilityPrivate})
	require.NoError(t, err)
	assert.Equal(t, 3, f.user(t, "author").PostCount)

	own, err := f.feed.ListFeed(f.ctx, "author", nil, 10)
	require.NoError(t, err)
	assert.Len(t, own, 3)

	friendFeed, err := f.feed.ListFeed(f.ctx, "friend", nil, 10)
	require.NoError(t, err)
	assert.Len(t, friendFeed, 2)

	strangerFeed, err := f.feed.ListFeed(f.ctx, "stranger", nil, 10)
	require.NoError(t, err)
	require.Len(t, strangerFeed, 1)
	assert.Equal(t, public.ID, strangerFeed[0].ID)
	assert.False(t, strangerFeed[0].IsLiked)

	require.NoError(t, f.feed.LikePost(f.ctx, "stranger", public.ID))
	require.NoError(t, f.feed.LikePost(f.ctx, "stranger", public.ID))
	strangerFeed, err = f.feed.ListFeed(f.ctx, "stranger", nil, 10)
	require.NoError(t, err)
	assert.True(t, strangerFeed[0].IsLiked)
	assert.Equal(t, 1, strangerFeed[0].LikeCount, "likes are idempotent")

	require.NoError(t, f.feed.UnlikePost(f.ctx, "stranger", public.ID))
	post, err := f.repos.Posts.GetByID(f.ctx, public.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, post.LikeCount)
}

func TestFeed_DeletePostDecrementsCount(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "author", entity.RoleUser, entity.VerificationUnverified)
	f.addUser(t, "other", entity.RoleUser, entity.VerificationUnverified)
	post, err := f.feed.CreatePost(f.ctx, "author", usecase.CreatePostInput{Content: "hello"})
	require.NoError(t, err)

	assert.True(t, errors.Is(f.feed.DeletePost(f.ctx, "other", post.ID), "FORBIDDEN"))
	require.NoError(t, f.feed.DeletePost(f.ctx, "author", post.ID))
	assert.Equal(t, 0, f.user(t, "author").PostCount)
}

func TestStories_ExpiryAndViews(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "author", entity.RoleUser, entity.VerificationUnverified)
	f.addUser(t, "viewer", entity.RoleUser, entity.VerificationUnverified)
	require.NoError(t, f.feed.Follow(f.ctx, "viewer", "author"))

	_, err := f.feed.CreateStory(f.ctx, "author", usecase.CreateStoryInput{})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	story, err := f.feed.CreateStory(f.ctx, "author", usecase.CreateStoryInput{
		Media: []entity.Media{{Type: entity.MediaImage, URL: "https://img/s.jpg"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.user(t, "author").PostCount, "stories do not count as posts")

	items, err := f.feed.ListStories(f.ctx, "viewer")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].HasViewed)

	require.NoError(t, f.feed.ViewStory(f.ctx, "viewer", story.ID))
	require.NoError(t, f.feed.ViewStory(f.ctx, "viewer", story.ID))
	items, err = f.feed.ListStories(f.ctx, "viewer")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].HasViewed)
	assert.Equal(t, 1, items[0].ViewCount)

	f.clock.Advance(25 * time.Hour)
	items, err = f.feed.ListStories(f.ctx, "viewer")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, errors.IsNotFound(f.feed.ViewStory(f.ctx, "viewer", story.ID)))
}

func TestFollowCounters(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "a", entity.RoleUser, entity.VerificationUnverified)
	f.addUser(t, "b", entity.RoleUser, entity.VerificationUnverified)

	assert.True(t, errors.Is(f.feed.Follow(f.ctx, "a", "a"), "VALIDATION_ERROR"))
	require.NoError(t, f.feed.Follow(f.ctx, "a", "b"))
	require.NoError(t, f.feed.Follow(f.ctx, "a", "b"))
	assert.Equal(t, 1, f.user(t, "b").FollowerCount)
	assert.Equal(t, 1, f.user(t, "a").FollowingCount)

	require.NoError(t, f.feed.Unfollow(f.ctx, "a", "b"))
	assert.Equal(t, 0, f.user(t, "b").FollowerCount)
	assert.Equal(t, 0, f.user(t, "a").FollowingCount)
}
