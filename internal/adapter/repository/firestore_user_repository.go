package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(user.Email)
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	return translate(err, "User", "create user")
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "User", "get user")
	}

	user, err := decodeOne[entity.User](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	iter := r.client.Collection(usersCollection).Where("email", "==", strings.ToLower(email)).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("User", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query user", err)
	}

	user, err := decodeOne[entity.User](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return user, nil
}

func (r *firestoreUserRepository) GetMany(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, r.client.Collection(usersCollection).Doc(id))
	}

	users, err := getAll[entity.User](ctx, r.client, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get users", err)
	}
	out := make(map[string]*entity.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	updateData := map[string]interface{}{
		"name":               user.Name,
		"image":              user.Image,
		"phone":              user.Phone,
		"bio":                user.Bio,
		"role":               user.Role,
		"verificationStatus": user.VerificationStatus,
		"updatedAt":          user.UpdatedAt,
	}

	// Counters and presence are owned by their own atomic writers.
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, updateData, firestore.MergeAll)
	return translate(err, "User", "update user")
}

func (r *firestoreUserRepository) ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	users, err := decodeAll[entity.User](r.client.Collection(usersCollection).Where("role", "==", role).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list users", err)
	}
	return users, nil
}

func (r *firestoreUserRepository) SetPresence(ctx context.Context, id, onlineStatus string, at time.Time) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "onlineStatus", Value: onlineStatus},
		{Path: "lastSeen", Value: at},
	})
	return translate(err, "User", "update presence")
}
