package repository

import (
	"context"
	stderrors "errors"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

const (
	usersCollection         = "users"
	professionalsCollection = "professional_info"
	listingsCollection      = "listings"
	inquiriesCollection     = "inquiries"
	transactionsCollection  = "transactions"
	chatRoomsCollection     = "chat_rooms"
	userChatRoomsCollection = "user_chat_rooms"
	messagesCollection      = "messages"
	notificationsCollection = "notifications"
	portfoliosCollection    = "portfolios"
	projectsCollection      = "projects"
	reviewsCollection       = "reviews"
	postsCollection         = "posts"
	postLikesCollection     = "post_likes"
	storyViewsCollection    = "story_views"
	followsCollection       = "follows"
	fileMetadataCollection  = "file_metadata"
)

// NewFirestoreRepositories wires every Firestore-backed store to one client.
func NewFirestoreRepositories(client *firestore.Client) repository.Repositories {
	return repository.Repositories{
		Users:         NewFirestoreUserRepository(client),
		Verifications: NewFirestoreVerificationRepository(client),
		Listings:      NewFirestoreListingRepository(client),
		Inquiries:     NewFirestoreInquiryRepository(client),
		Transactions:  NewFirestoreTransactionRepository(client),
		Chat:          NewFirestoreChatRepository(client),
		Notifications: NewFirestoreNotificationRepository(client),
		Portfolios:    NewFirestorePortfolioRepository(client),
		Posts:         NewFirestorePostRepository(client),
		Follows:       NewFirestoreFollowRepository(client),
		Files:         NewFirestoreFileMetadataRepository(client),
	}
}

// translate maps a Firestore error onto the application error taxonomy.
// Application errors raised inside transaction callbacks pass through.
func translate(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound(resource, err)
	case codes.AlreadyExists:
		return errors.Conflict(resource + " already exists")
	case codes.Aborted:
		return errors.Conflict("Concurrent update, please retry")
	}
	return errors.Internal("Failed to "+action, err)
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// decodeAll drains iter into typed values.
func decodeAll[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	var out []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}

func decodeOne[T any](doc *firestore.DocumentSnapshot) (*T, error) {
	var v T
	if err := doc.DataTo(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// getAll fetches docs by reference and decodes the ones that exist.
func getAll[T any](ctx context.Context, client *firestore.Client, refs []*firestore.DocumentRef) ([]*T, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	docs, err := client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		v, err := decodeOne[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// existing reports which of refs exist, keyed by document id.
func existing(ctx context.Context, client *firestore.Client, refs []*firestore.DocumentRef) (map[string]bool, error) {
	out := make(map[string]bool, len(refs))
	if len(refs) == 0 {
		return out, nil
	}
	docs, err := client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.Exists() {
			out[doc.Ref.ID] = true
		}
	}
	return out, nil
}

// countOf runs a server-side COUNT aggregation.
func countOf(ctx context.Context, q firestore.Query) (int64, error) {
	res, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["total"].(*firestorepb.Value)
	if !ok {
		return 0, nil
	}
	return v.GetIntegerValue(), nil
}

// sumOf runs a server-side SUM aggregation over field.
func sumOf(ctx context.Context, q firestore.Query, field string) (float64, error) {
	res, err := q.NewAggregationQuery().WithSum(field, "total").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["total"].(*firestorepb.Value)
	if !ok {
		return 0, nil
	}
	if _, isInt := v.GetValueType().(*firestorepb.Value_IntegerValue); isInt {
		return float64(v.GetIntegerValue()), nil
	}
	return v.GetDoubleValue(), nil
}
