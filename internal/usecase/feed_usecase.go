package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

type FeedUseCase struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	storyTTL   time.Duration
	now        Clock
}

func NewFeedUseCase(
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	storyTTL time.Duration,
	now Clock,
) *FeedUseCase {
	if storyTTL <= 0 {
		storyTTL = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &FeedUseCase{
		postRepo:   postRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
		storyTTL:   storyTTL,
		now:        now,
	}
}

type CreatePostInput struct {
	Content    string
	Visibility entity.Visibility
	Location   string
	Hashtags   []string
	Mentions   []string
	Media      []entity.Media
}

func orderMedia(media []entity.Media) []entity.Media {
	out := append([]entity.Media{}, media...)
	for i := range out {
		if out[i].Type == "" {
			out[i].Type = entity.MediaImage
		}
		out[i].Order = i
	}
	return out
}

// extractTags merges explicit tags with ones found in the text.
func extractTags(explicit []string, pattern *regexp.Regexp, text string) []string {
	tags := append([]string{}, explicit...)
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[1])
	}
	for i := range tags {
		tags[i] = strings.TrimLeft(strings.ToLower(tags[i]), "#@")
	}
	return uniqueIDs(tags)
}

func (uc *FeedUseCase) CreatePost(ctx context.Context, userID string, input CreatePostInput) (*entity.Post, error) {
	if strings.TrimSpace(input.Content) == "" && len(input.Media) == 0 {
		return nil, errors.Validation("A post needs content or media")
	}
	if input.Visibility == "" {
		input.Visibility = entity.VisibilityPublic
	}
	if !input.Visibility.Valid() {
		return nil, errors.Validation("Invalid visibility")
	}

	post := &entity.Post{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       entity.PostTypePost,
		Content:    strings.TrimSpace(input.Content),
		Visibility: input.Visibility,
		Location:   input.Location,
		Hashtags:   extractTags(input.Hashtags, hashtagPattern, input.Content),
		Mentions:   extractTags(input.Mentions, mentionPattern, input.Content),
		Media:      orderMedia(input.Media),
		CreatedAt:  uc.now(),
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		logger.Error("CreatePost Error: user=%s: %v", userID, err)
		return nil, err
	}
	return post, nil
}

// ListFeed returns public posts, friends-only posts from followed authors and
// the viewer's own posts, newest first.
func (uc *FeedUseCase) ListFeed(ctx context.Context, viewerID string, before *time.Time, limit int) ([]*entity.FeedItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	following, err := uc.followRepo.ListFollowing(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	followed := make(map[string]bool, len(following))
	for _, id := range following {
		followed[id] = true
	}

	var visible []*entity.Post
	cursor := before
	// Hidden posts are dropped after the query, so keep paging until the page is full.
	for len(visible) < limit {
		batch, err := uc.postRepo.ListRecent(ctx, entity.PostTypePost, cursor, limit*2)
		if err != nil {
			logger.Error("ListFeed Error: viewer=%s: %v", viewerID, err)
			return nil, err
		}
		for _, p := range batch {
			if canSee(p, viewerID, followed) {
				visible = append(visible, p)
				if len(visible) == limit {
					break
				}
			}
		}
		if len(batch) < limit*2 {
			break
		}
		last := batch[len(batch)-1].CreatedAt
		cursor = &last
	}

	return uc.decorate(ctx, viewerID, visible, false)
}

func canSee(p *entity.Post, viewerID string, followed map[string]bool) bool {
	if p.UserID == viewerID {
		return true
	}
	switch p.Visibility {
	case entity.VisibilityPublic:
		return true
	case entity.VisibilityFriends:
		return followed[p.UserID]
	case entity.VisibilityPrivate:
		return false
	default:
		return false
	}
}

func (uc *FeedUseCase) decorate(ctx context.Context, viewerID string, posts []*entity.Post, stories bool) ([]*entity.FeedItem, error) {
	ids := make([]string, 0, len(posts))
	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		authorIDs = append(authorIDs, p.UserID)
	}

	var marks map[string]bool
	var err error
	if stories {
		marks, err = uc.postRepo.ViewedBy(ctx, viewerID, ids)
	} else {
		marks, err = uc.postRepo.LikedBy(ctx, viewerID, ids)
	}
	if err != nil {
		return nil, err
	}
	authors, err := uc.userRepo.GetMany(ctx, uniqueIDs(authorIDs))
	if err != nil {
		return nil, err
	}

	items := make([]*entity.FeedItem, 0, len(posts))
	for _, p := range posts {
		item := &entity.FeedItem{Post: p, Author: authors[p.UserID].Summary()}
		if stories {
			item.HasViewed = marks[p.ID]
		} else {
			item.IsLiked = marks[p.ID]
		}
		items = append(items, item)
	}
	return items, nil
}

func (uc *FeedUseCase) ownPost(ctx context.Context, userID, id string, typ entity.PostType) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Type != typ {
		if typ == entity.PostTypeStory {
			return nil, errors.NotFound("Story", nil)
		}
		return nil, errors.NotFound("Post", nil)
	}
	if post.UserID != userID {
		return nil, errors.Forbidden("You can only delete your own content", nil)
	}
	return post, nil
}

func (uc *FeedUseCase) DeletePost(ctx context.Context, userID, id string) error {
	if _, err := uc.ownPost(ctx, userID, id, entity.PostTypePost); err != nil {
		return err
	}
	if err := uc.postRepo.Delete(ctx, id); err != nil {
		logger.Error("DeletePost Error: id=%s: %v", id, err)
		return err
	}
	return nil
}

func (uc *FeedUseCase) LikePost(ctx context.Context, userID, postID string) error {
	_, err := uc.postRepo.Like(ctx, postID, userID, uc.now())
	return err
}

func (uc *FeedUseCase) UnlikePost(ctx context.Context, userID, postID string) error {
	_, err := uc.postRepo.Unlike(ctx, postID, userID)
	return err
}

type CreateStoryInput struct {
	Content string
	Media   []entity.Media
}

func (uc *FeedUseCase) CreateStory(ctx context.Context, userID string, input CreateStoryInput) (*entity.Post, error) {
	if len(input.Media) == 0 {
		return nil, errors.Validation("A story needs a media item")
	}
	now := uc.now()
	expires := now.Add(uc.storyTTL)
	story := &entity.Post{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       entity.PostTypeStory,
		Content:    strings.TrimSpace(input.Content),
		Visibility: entity.VisibilityPublic,
		Hashtags:   []string{},
		Mentions:   []string{},
		Media:      orderMedia(input.Media),
		ExpiresAt:  &expires,
		CreatedAt:  now,
	}
	if err := uc.postRepo.Create(ctx, story); err != nil {
		logger.Error("CreateStory Error: user=%s: %v", userID, err)
		return nil, err
	}
	return story, nil
}

// ListStories returns unexpired stories from the viewer and followed authors.
func (uc *FeedUseCase) ListStories(ctx context.Context, viewerID string) ([]*entity.FeedItem, error) {
	following, err := uc.followRepo.ListFollowing(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	stories, err := uc.postRepo.ListStories(ctx, append([]string{viewerID}, following...), uc.now())
	if err != nil {
		logger.Error("ListStories Error: viewer=%s: %v", viewerID, err)
		return nil, err
	}
	return uc.decorate(ctx, viewerID, stories, true)
}

func (uc *FeedUseCase) ViewStory(ctx context.Context, viewerID, storyID string) error {
	story, err := uc.postRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.Type != entity.PostTypeStory || story.Expired(uc.now()) {
		return errors.NotFound("Story", nil)
	}
	_, err = uc.postRepo.RecordView(ctx, storyID, viewerID, uc.now())
	return err
}

func (uc *FeedUseCase) DeleteStory(ctx context.Context, userID, id string) error {
	if _, err := uc.ownPost(ctx, userID, id, entity.PostTypeStory); err != nil {
		return err
	}
	return uc.postRepo.Delete(ctx, id)
}

func (uc *FeedUseCase) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return errors.Validation("You cannot follow yourself")
	}
	_, err := uc.followRepo.Follow(ctx, followerID, followeeID, uc.now())
	return err
}

func (uc *FeedUseCase) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := uc.followRepo.Unfollow(ctx, followerID, followeeID)
	return err
}
