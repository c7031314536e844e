package repository

import (
	"context"
	"time"

	"greia/internal/domain/entity"
)

type PostRepository interface {
	// Create writes the post and, for feed posts, increments the author's postCount.
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// Delete removes the post and, for feed posts, decrements the author's postCount.
	Delete(ctx context.Context, id string) error
	// ListRecent returns posts of the given type newest first, optionally only
	// those created before `before`.
	ListRecent(ctx context.Context, typ entity.PostType, before *time.Time, limit int) ([]*entity.Post, error)
	// ListStories returns stories by the given authors that expire after now.
	ListStories(ctx context.Context, authorIDs []string, now time.Time) ([]*entity.Post, error)

	// Like and Unlike report whether anything changed.
	Like(ctx context.Context, postID, userID string, at time.Time) (bool, error)
	Unlike(ctx context.Context, postID, userID string) (bool, error)
	LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)

	// RecordView increments viewCount on the first view per viewer.
	RecordView(ctx context.Context, storyID, viewerID string, at time.Time) (bool, error)
	ViewedBy(ctx context.Context, viewerID string, storyIDs []string) (map[string]bool, error)
}

type FollowRepository interface {
	// Follow and Unfollow adjust both users' counters with the follow row and
	// report whether anything changed.
	Follow(ctx context.Context, followerID, followeeID string, at time.Time) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowing(ctx context.Context, userID string) ([]string, error)
}
