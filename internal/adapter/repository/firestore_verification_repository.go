package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

type firestoreVerificationRepository struct {
	client *firestore.Client
}

func NewFirestoreVerificationRepository(client *firestore.Client) repository.VerificationRepository {
	return &firestoreVerificationRepository{
		client: client,
	}
}

func (r *firestoreVerificationRepository) Submit(ctx context.Context, info *entity.ProfessionalInfo) (*entity.ProfessionalInfo, error) {
	userRef := r.client.Collection(usersCollection).Doc(info.UserID)
	existingQuery := r.client.Collection(professionalsCollection).Where("userId", "==", info.UserID).Limit(1)

	stored := *info
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(userRef); err != nil {
			return err
		}

		iter := tx.Documents(existingQuery)
		doc, err := iter.Next()
		iter.Stop()
		switch {
		case err == nil:
			stored.ID = doc.Ref.ID
		case err == iterator.Done:
			if stored.ID == "" {
				stored.ID = uuid.New().String()
			}
		default:
			return err
		}

		if err := tx.Set(r.client.Collection(professionalsCollection).Doc(stored.ID), &stored); err != nil {
			return err
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: "verificationStatus", Value: entity.VerificationPending},
			{Path: "updatedAt", Value: stored.SubmittedAt},
		})
	})
	if err != nil {
		return nil, translate(err, "User", "submit verification")
	}
	return &stored, nil
}

func (r *firestoreVerificationRepository) GetByID(ctx context.Context, id string) (*entity.ProfessionalInfo, error) {
	doc, err := r.client.Collection(professionalsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "Verification", "get verification")
	}
	info, err := decodeOne[entity.ProfessionalInfo](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse verification", err)
	}
	return info, nil
}

func (r *firestoreVerificationRepository) GetByUserID(ctx context.Context, userID string) (*entity.ProfessionalInfo, error) {
	infos, err := decodeAll[entity.ProfessionalInfo](r.client.Collection(professionalsCollection).
		Where("userId", "==", userID).Limit(1).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to query verification", err)
	}
	if len(infos) == 0 {
		return nil, errors.NotFound("Verification", nil)
	}
	return infos[0], nil
}

func (r *firestoreVerificationRepository) List(ctx context.Context, st entity.ProfessionalStatus) ([]*entity.ProfessionalInfo, error) {
	q := r.client.Collection(professionalsCollection).Query
	if st != "" {
		q = q.Where("status", "==", st)
	}
	infos, err := decodeAll[entity.ProfessionalInfo](q.OrderBy("submittedAt", firestore.Desc).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list verifications", err)
	}
	return infos, nil
}

func (r *firestoreVerificationRepository) Decide(ctx context.Context, id string, fn repository.DecisionFunc) (*entity.ProfessionalInfo, *entity.User, error) {
	infoRef := r.client.Collection(professionalsCollection).Doc(id)

	var info *entity.ProfessionalInfo
	var user *entity.User
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(infoRef)
		if err != nil {
			if notFound(err) {
				return errors.NotFound("Verification", err)
			}
			return err
		}
		if info, err = decodeOne[entity.ProfessionalInfo](doc); err != nil {
			return err
		}

		userRef := r.client.Collection(usersCollection).Doc(info.UserID)
		userDoc, err := tx.Get(userRef)
		if err != nil {
			return err
		}
		if user, err = decodeOne[entity.User](userDoc); err != nil {
			return err
		}

		if err := fn(info, user); err != nil {
			return err
		}

		if err := tx.Set(infoRef, info); err != nil {
			return err
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: "role", Value: user.Role},
			{Path: "verificationStatus", Value: user.VerificationStatus},
			{Path: "updatedAt", Value: user.UpdatedAt},
		})
	})
	if err != nil {
		return nil, nil, translate(err, "User", "decide verification")
	}
	return info, user, nil
}

func (r *firestoreVerificationRepository) CountByStatus(ctx context.Context, st entity.ProfessionalStatus) (int64, error) {
	n, err := countOf(ctx, r.client.Collection(professionalsCollection).Where("status", "==", st))
	if err != nil {
		return 0, errors.Internal("Failed to count verifications", err)
	}
	return n, nil
}
