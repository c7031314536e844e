package usecase

import (
	"context"
	"strings"
	"time"

	"greia/internal/domain/entity"
	"greia/internal/domain/policy"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	now      Clock
}

func NewUserUseCase(userRepo repository.UserRepository, now Clock) *UserUseCase {
	if now == nil {
		now = time.Now
	}
	return &UserUseCase{
		userRepo: userRepo,
		now:      now,
	}
}

type UpdateProfileInput struct {
	Name  *string
	Phone *string
	Bio   *string
	Image *string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, errors.Validation("Name cannot be empty")
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Image != nil {
		user.Image = *input.Image
	}
	user.UpdatedAt = uc.now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		logger.Error("UpdateProfile Error: user=%s: %v", userID, err)
		return nil, err
	}
	return user, nil
}

// GetPublicProfile returns the summary other users may see.
func (uc *UserUseCase) GetPublicProfile(ctx context.Context, userID string) (*entity.UserSummary, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Summary(), nil
}

// RequireAdmin fails with Forbidden unless userID belongs to an admin.
func (uc *UserUseCase) RequireAdmin(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Unknown caller", err)
		}
		return nil, err
	}
	if !policy.IsAdmin(user.Role) {
		return nil, errors.Forbidden("Admin access required", nil)
	}
	return user, nil
}
