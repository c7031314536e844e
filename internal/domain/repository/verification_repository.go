package repository

import (
	"context"

	"greia/internal/domain/entity"
)

// DecisionFunc mutates a submission and its owner inside one atomic unit.
// Returning an error aborts the unit without writing anything.
type DecisionFunc func(info *entity.ProfessionalInfo, user *entity.User) error

type VerificationRepository interface {
	// Submit upserts the caller's submission keyed by userId and marks the
	// user PENDING in the same atomic unit. The stored record is returned.
	Submit(ctx context.Context, info *entity.ProfessionalInfo) (*entity.ProfessionalInfo, error)
	GetByID(ctx context.Context, id string) (*entity.ProfessionalInfo, error)
	GetByUserID(ctx context.Context, userID string) (*entity.ProfessionalInfo, error)
	// List returns submissions newest first. An empty status lists all.
	List(ctx context.Context, status entity.ProfessionalStatus) ([]*entity.ProfessionalInfo, error)
	Decide(ctx context.Context, id string, fn DecisionFunc) (*entity.ProfessionalInfo, *entity.User, error)
	CountByStatus(ctx context.Context, status entity.ProfessionalStatus) (int64, error)
}
