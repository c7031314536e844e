package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

type verificationRepo struct{ s *Store }

func (r *verificationRepo) Submit(ctx context.Context, info *entity.ProfessionalInfo) (*entity.ProfessionalInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[info.UserID]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}

	stored := clone(info)
	stored.ID = uuid.New().String()
	for _, existing := range r.s.verifications {
		if existing.UserID == info.UserID {
			stored.ID = existing.ID
			break
		}
	}
	r.s.verifications[stored.ID] = stored

	user.VerificationStatus = entity.VerificationPending
	user.UpdatedAt = info.UpdatedAt
	return clone(stored), nil
}

func (r *verificationRepo) GetByID(ctx context.Context, id string) (*entity.ProfessionalInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.verifications[id]
	if !ok {
		return nil, errors.NotFound("Verification", nil)
	}
	return clone(v), nil
}

func (r *verificationRepo) GetByUserID(ctx context.Context, userID string) (*entity.ProfessionalInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, v := range r.s.verifications {
		if v.UserID == userID {
			return clone(v), nil
		}
	}
	return nil, errors.NotFound("Verification", nil)
}

func (r *verificationRepo) List(ctx context.Context, status entity.ProfessionalStatus) ([]*entity.ProfessionalInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.ProfessionalInfo
	for _, v := range r.s.verifications {
		if status == "" || v.Status == status {
			out = append(out, clone(v))
		}
	}
	newestFirst(out, func(v *entity.ProfessionalInfo) time.Time { return v.SubmittedAt })
	return out, nil
}

func (r *verificationRepo) Decide(ctx context.Context, id string, fn repository.DecisionFunc) (*entity.ProfessionalInfo, *entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.verifications[id]
	if !ok {
		return nil, nil, errors.NotFound("Verification", nil)
	}
	storedUser, ok := r.s.users[stored.UserID]
	if !ok {
		return nil, nil, errors.NotFound("User", nil)
	}

	info, user := clone(stored), clone(storedUser)
	if err := fn(info, user); err != nil {
		return nil, nil, err
	}
	r.s.verifications[id] = info
	r.s.users[user.ID] = user
	return clone(info), clone(user), nil
}

func (r *verificationRepo) CountByStatus(ctx context.Context, status entity.ProfessionalStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, v := range r.s.verifications {
		if v.Status == status {
			n++
		}
	}
	return n, nil
}
