package memory

import (
	"context"
	"time"

	"greia/internal/domain/entity"
	"greia/pkg/errors"
)

type postRepo struct{ s *Store }

func (r *postRepo) Create(ctx context.Context, post *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.posts[post.ID] = clone(post)
	if post.Type == entity.PostTypePost {
		if u, ok := r.s.users[post.UserID]; ok {
			u.PostCount++
		}
	}
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, errors.NotFound("Post", nil)
	}
	return clone(p), nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return errors.NotFound("Post", nil)
	}
	delete(r.s.posts, id)
	if p.Type == entity.PostTypePost {
		if u, ok := r.s.users[p.UserID]; ok && u.PostCount > 0 {
			u.PostCount--
		}
	}
	return nil
}

func (r *postRepo) ListRecent(ctx context.Context, typ entity.PostType, before *time.Time, limit int) ([]*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Post
	for _, p := range r.s.posts {
		if p.Type != typ || before != nil && !p.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, clone(p))
	}
	newestFirst(out, func(p *entity.Post) time.Time { return p.CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *postRepo) ListStories(ctx context.Context, authorIDs []string, now time.Time) ([]*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	var out []*entity.Post
	for _, p := range r.s.posts {
		if p.Type == entity.PostTypeStory && authors[p.UserID] && !p.Expired(now) {
			out = append(out, clone(p))
		}
	}
	newestFirst(out, func(p *entity.Post) time.Time { return p.CreatedAt })
	return out, nil
}

func (r *postRepo) Like(ctx context.Context, postID, userID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return false, errors.NotFound("Post", nil)
	}
	key := entity.PairID(postID, userID)
	if _, liked := r.s.likes[key]; liked {
		return false, nil
	}
	r.s.likes[key] = at
	p.LikeCount++
	return true, nil
}

func (r *postRepo) Unlike(ctx context.Context, postID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return false, errors.NotFound("Post", nil)
	}
	key := entity.PairID(postID, userID)
	if _, liked := r.s.likes[key]; !liked {
		return false, nil
	}
	delete(r.s.likes, key)
	if p.LikeCount > 0 {
		p.LikeCount--
	}
	return true, nil
}

func (r *postRepo) LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[string]bool)
	for _, id := range postIDs {
		if _, ok := r.s.likes[entity.PairID(id, userID)]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *postRepo) RecordView(ctx context.Context, storyID, viewerID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[storyID]
	if !ok || p.Type != entity.PostTypeStory {
		return false, errors.NotFound("Story", nil)
	}
	key := entity.PairID(storyID, viewerID)
	if _, seen := r.s.views[key]; seen {
		return false, nil
	}
	r.s.views[key] = at
	p.ViewCount++
	return true, nil
}

func (r *postRepo) ViewedBy(ctx context.Context, viewerID string, storyIDs []string) (map[string]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[string]bool)
	for _, id := range storyIDs {
		if _, ok := r.s.views[entity.PairID(id, viewerID)]; ok {
			out[id] = true
		}
	}
	return out, nil
}

type followRepo struct{ s *Store }

func (r *followRepo) Follow(ctx context.Context, followerID, followeeID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	followee, ok := r.s.users[followeeID]
	if !ok {
		return false, errors.NotFound("User", nil)
	}
	id := entity.PairID(followerID, followeeID)
	if _, ok := r.s.follows[id]; ok {
		return false, nil
	}
	r.s.follows[id] = &entity.Follow{ID: id, FollowerID: followerID, FolloweeID: followeeID, CreatedAt: at}
	followee.FollowerCount++
	if follower, ok := r.s.users[followerID]; ok {
		follower.FollowingCount++
	}
	return true, nil
}

func (r *followRepo) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id := entity.PairID(followerID, followeeID)
	if _, ok := r.s.follows[id]; !ok {
		return false, nil
	}
	delete(r.s.follows, id)
	if u, ok := r.s.users[followeeID]; ok && u.FollowerCount > 0 {
		u.FollowerCount--
	}
	if u, ok := r.s.users[followerID]; ok && u.FollowingCount > 0 {
		u.FollowingCount--
	}
	return true, nil
}

func (r *followRepo) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []string
	for _, f := range r.s.follows {
		if f.FollowerID == userID {
			out = append(out, f.FolloweeID)
		}
	}
	return out, nil
}
