package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

// Firestore caps "in" filters at 30 values.
const inQueryLimit = 30

type firestorePostRepository struct {
	client *firestore.Client
}

func NewFirestorePostRepository(client *firestore.Client) repository.PostRepository {
	return &firestorePostRepository{
		client: client,
	}
}

func (r *firestorePostRepository) postRef(id string) *firestore.DocumentRef {
	return r.client.Collection(postsCollection).Doc(id)
}

func (r *firestorePostRepository) Create(ctx context.Context, post *entity.Post) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(r.postRef(post.ID), post); err != nil {
			return err
		}
		if post.Type != entity.PostTypePost {
			return nil
		}
		return tx.Update(r.client.Collection(usersCollection).Doc(post.UserID), []firestore.Update{
			{Path: "postCount", Value: firestore.Increment(1)},
		})
	})
	return translate(err, "Post", "create post")
}

func (r *firestorePostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	doc, err := r.postRef(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "Post", "get post")
	}
	p, err := decodeOne[entity.Post](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse post", err)
	}
	return p, nil
}

func (r *firestorePostRepository) Delete(ctx context.Context, id string) error {
	ref := r.postRef(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		p, err := decodeOne[entity.Post](doc)
		if err != nil {
			return err
		}
		if err := tx.Delete(ref); err != nil {
			return err
		}
		if p.Type != entity.PostTypePost {
			return nil
		}
		return tx.Update(r.client.Collection(usersCollection).Doc(p.UserID), []firestore.Update{
			{Path: "postCount", Value: firestore.Increment(-1)},
		})
	})
	return translate(err, "Post", "delete post")
}

func (r *firestorePostRepository) ListRecent(ctx context.Context, typ entity.PostType, before *time.Time, limit int) ([]*entity.Post, error) {
	q := r.client.Collection(postsCollection).Where("type", "==", typ)
	if before != nil {
		q = q.Where("createdAt", "<", *before)
	}
	q = q.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	posts, err := decodeAll[entity.Post](q.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list posts", err)
	}
	return posts, nil
}

func (r *firestorePostRepository) ListStories(ctx context.Context, authorIDs []string, now time.Time) ([]*entity.Post, error) {
	var out []*entity.Post
	for start := 0; start < len(authorIDs); start += inQueryLimit {
		end := min(start+inQueryLimit, len(authorIDs))
		q := r.client.Collection(postsCollection).
			Where("type", "==", entity.PostTypeStory).
			Where("userId", "in", authorIDs[start:end]).
			Where("expiresAt", ">", now)
		stories, err := decodeAll[entity.Post](q.Documents(ctx))
		if err != nil {
			return nil, errors.Internal("Failed to list stories", err)
		}
		out = append(out, stories...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// toggle creates or deletes the marker doc and moves counter on the post by
// the matching delta. It reports whether the marker changed.
func (r *firestorePostRepository) toggle(ctx context.Context, postID string, marker *firestore.DocumentRef, data interface{}, counter string, on bool, check func(*entity.Post) error) (bool, error) {
	ref := r.postRef(postID)

	changed := false
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		changed = false

		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if check != nil {
			p, err := decodeOne[entity.Post](doc)
			if err != nil {
				return err
			}
			if err := check(p); err != nil {
				return err
			}
		}

		_, err = tx.Get(marker)
		exists := err == nil
		if err != nil && !notFound(err) {
			return err
		}
		if exists == on {
			return nil
		}

		changed = true
		delta := 1
		if on {
			err = tx.Create(marker, data)
		} else {
			delta = -1
			err = tx.Delete(marker)
		}
		if err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{{Path: counter, Value: firestore.Increment(delta)}})
	})
	if err != nil {
		return false, translate(err, "Post", "update post")
	}
	return changed, nil
}

type postMarker struct {
	PostID    string    `firestore:"postId"`
	UserID    string    `firestore:"userId"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func (r *firestorePostRepository) Like(ctx context.Context, postID, userID string, at time.Time) (bool, error) {
	marker := r.client.Collection(postLikesCollection).Doc(entity.PairID(postID, userID))
	return r.toggle(ctx, postID, marker, postMarker{PostID: postID, UserID: userID, CreatedAt: at}, "likeCount", true, nil)
}

func (r *firestorePostRepository) Unlike(ctx context.Context, postID, userID string) (bool, error) {
	marker := r.client.Collection(postLikesCollection).Doc(entity.PairID(postID, userID))
	return r.toggle(ctx, postID, marker, nil, "likeCount", false, nil)
}

func (r *firestorePostRepository) markedBy(ctx context.Context, collection, userID string, postIDs []string) (map[string]bool, error) {
	refs := make([]*firestore.DocumentRef, 0, len(postIDs))
	for _, id := range postIDs {
		refs = append(refs, r.client.Collection(collection).Doc(entity.PairID(id, userID)))
	}
	found, err := existing(ctx, r.client, refs)
	if err != nil {
		return nil, errors.Internal("Failed to read "+collection, err)
	}
	out := make(map[string]bool, len(found))
	for _, id := range postIDs {
		if found[entity.PairID(id, userID)] {
			out[id] = true
		}
	}
	return out, nil
}

func (r *firestorePostRepository) LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return r.markedBy(ctx, postLikesCollection, userID, postIDs)
}

func (r *firestorePostRepository) RecordView(ctx context.Context, storyID, viewerID string, at time.Time) (bool, error) {
	marker := r.client.Collection(storyViewsCollection).Doc(entity.PairID(storyID, viewerID))
	return r.toggle(ctx, storyID, marker, postMarker{PostID: storyID, UserID: viewerID, CreatedAt: at}, "viewCount", true,
		func(p *entity.Post) error {
			if p.Type != entity.PostTypeStory {
				return errors.NotFound("Story", nil)
			}
			return nil
		})
}

func (r *firestorePostRepository) ViewedBy(ctx context.Context, viewerID string, storyIDs []string) (map[string]bool, error) {
	return r.markedBy(ctx, storyViewsCollection, viewerID, storyIDs)
}

type firestoreFollowRepository struct {
	client *firestore.Client
}

func NewFirestoreFollowRepository(client *firestore.Client) repository.FollowRepository {
	return &firestoreFollowRepository{
		client: client,
	}
}

func (r *firestoreFollowRepository) set(ctx context.Context, followerID, followeeID string, at time.Time, on bool) (bool, error) {
	ref := r.client.Collection(followsCollection).Doc(entity.PairID(followerID, followeeID))
	followeeRef := r.client.Collection(usersCollection).Doc(followeeID)
	followerRef := r.client.Collection(usersCollection).Doc(followerID)

	changed := false
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		changed = false

		if _, err := tx.Get(followeeRef); err != nil {
			return err
		}
		_, err := tx.Get(ref)
		exists := err == nil
		if err != nil && !notFound(err) {
			return err
		}
		if exists == on {
			return nil
		}

		changed = true
		delta := 1
		if on {
			err = tx.Create(ref, &entity.Follow{ID: ref.ID, FollowerID: followerID, FolloweeID: followeeID, CreatedAt: at})
		} else {
			delta = -1
			err = tx.Delete(ref)
		}
		if err != nil {
			return err
		}
		if err := tx.Update(followeeRef, []firestore.Update{{Path: "followerCount", Value: firestore.Increment(delta)}}); err != nil {
			return err
		}
		return tx.Update(followerRef, []firestore.Update{{Path: "followingCount", Value: firestore.Increment(delta)}})
	})
	if err != nil {
		return false, translate(err, "User", "update follow")
	}
	return changed, nil
}

func (r *firestoreFollowRepository) Follow(ctx context.Context, followerID, followeeID string, at time.Time) (bool, error) {
	return r.set(ctx, followerID, followeeID, at, true)
}

func (r *firestoreFollowRepository) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	return r.set(ctx, followerID, followeeID, time.Time{}, false)
}

func (r *firestoreFollowRepository) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	follows, err := decodeAll[entity.Follow](r.client.Collection(followsCollection).
		Where("followerId", "==", userID).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list follows", err)
	}
	out := make([]string, 0, len(follows))
	for _, f := range follows {
		out = append(out, f.FolloweeID)
	}
	return out, nil
}
