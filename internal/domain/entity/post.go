package entity

import "time"

type PostType string

const (
	PostTypePost  PostType = "POST"
	PostTypeStory PostType = "STORY"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityFriends Visibility = "FRIENDS"
	VisibilityPrivate Visibility = "PRIVATE"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

type Post struct {
	ID           string     `json:"id" firestore:"id"`
	UserID       string     `json:"user_id" firestore:"userId"`
	Type         PostType   `json:"type" firestore:"type"`
	Content      string     `json:"content,omitempty" firestore:"content,omitempty"`
	Visibility   Visibility `json:"visibility" firestore:"visibility"`
	Location     string     `json:"location,omitempty" firestore:"location,omitempty"`
	Hashtags     []string   `json:"hashtags" firestore:"hashtags"`
	Mentions     []string   `json:"mentions" firestore:"mentions"`
	Media        []Media    `json:"media" firestore:"media"`
	LikeCount    int        `json:"like_count" firestore:"likeCount"`
	CommentCount int        `json:"comment_count" firestore:"commentCount"`
	ShareCount   int        `json:"share_count" firestore:"shareCount"`
	ViewCount    int        `json:"view_count" firestore:"viewCount"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty" firestore:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"created_at" firestore:"createdAt"`
}

// Expired is only meaningful for stories.
func (p *Post) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

// FeedItem is a post or story decorated for one viewer.
type FeedItem struct {
	*Post
	Author    *UserSummary `json:"author,omitempty"`
	IsLiked   bool         `json:"is_liked"`
	HasViewed bool         `json:"has_viewed"`
}

type Follow struct {
	ID         string    `json:"id" firestore:"id"`
	FollowerID string    `json:"follower_id" firestore:"followerId"`
	FolloweeID string    `json:"followee_id" firestore:"followeeId"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

func PairID(a, b string) string {
	return a + "_" + b
}
