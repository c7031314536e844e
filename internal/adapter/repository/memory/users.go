package memory

import (
	"context"
	"strings"
	"time"

	"greia/internal/domain/entity"
	"greia/pkg/errors"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; ok {
		return errors.Conflict("User already exists")
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errors.Conflict("Email already registered")
		}
	}
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return clone(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *userRepo) GetMany(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[string]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = clone(u)
		}
	}
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r *userRepo) ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, clone(u))
		}
	}
	return out, nil
}

func (r *userRepo) SetPresence(ctx context.Context, id, onlineStatus string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.OnlineStatus = onlineStatus
	u.LastSeen = at
	return nil
}
