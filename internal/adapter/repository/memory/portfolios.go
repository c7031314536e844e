package memory

import (
	"context"
	"time"

	"greia/internal/domain/entity"
	"greia/pkg/errors"
)

type portfolioRepo struct{ s *Store }

func (r *portfolioRepo) GetOrCreate(ctx context.Context, p *entity.Portfolio) (*entity.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.portfolios {
		if existing.UserID == p.UserID {
			return clone(existing), nil
		}
	}
	r.s.portfolios[p.ID] = clone(p)
	return clone(p), nil
}

func (r *portfolioRepo) GetByID(ctx context.Context, id string) (*entity.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.portfolios[id]
	if !ok {
		return nil, errors.NotFound("Portfolio", nil)
	}
	return clone(p), nil
}

func (r *portfolioRepo) GetByUserID(ctx context.Context, userID string) (*entity.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.portfolios {
		if p.UserID == userID {
			return clone(p), nil
		}
	}
	return nil, errors.NotFound("Portfolio", nil)
}

func (r *portfolioRepo) Update(ctx context.Context, p *entity.Portfolio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.portfolios[p.ID]
	if !ok {
		return errors.NotFound("Portfolio", nil)
	}
	updated := clone(p)
	// Rating aggregates are owned by review writes.
	updated.AvgRating, updated.ReviewCount = stored.AvgRating, stored.ReviewCount
	r.s.portfolios[p.ID] = updated
	return nil
}

func (r *portfolioRepo) CreateProject(ctx context.Context, project *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.portfolios[project.PortfolioID]; !ok {
		return errors.NotFound("Portfolio", nil)
	}
	r.s.projects[project.ID] = clone(project)
	return nil
}

func (r *portfolioRepo) GetProject(ctx context.Context, portfolioID, id string) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok || p.PortfolioID != portfolioID {
		return nil, errors.NotFound("Project", nil)
	}
	return clone(p), nil
}

func (r *portfolioRepo) UpdateProject(ctx context.Context, project *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[project.ID]; !ok {
		return errors.NotFound("Project", nil)
	}
	r.s.projects[project.ID] = clone(project)
	return nil
}

func (r *portfolioRepo) DeleteProject(ctx context.Context, portfolioID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok || p.PortfolioID != portfolioID {
		return errors.NotFound("Project", nil)
	}
	delete(r.s.projects, id)
	return nil
}

func (r *portfolioRepo) ListProjects(ctx context.Context, portfolioID string) ([]*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Project
	for _, p := range r.s.projects {
		if p.PortfolioID == portfolioID {
			out = append(out, clone(p))
		}
	}
	newestFirst(out, func(p *entity.Project) time.Time { return p.CreatedAt })
	return out, nil
}

func (r *portfolioRepo) CreateReview(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.portfolios[review.PortfolioID]; !ok {
		return errors.NotFound("Portfolio", nil)
	}
	if _, ok := r.s.reviews[review.ID]; ok {
		return errors.Conflict("You have already reviewed this portfolio")
	}
	r.s.reviews[review.ID] = clone(review)
	r.recomputeRating(review.PortfolioID)
	return nil
}

func (r *portfolioRepo) GetReview(ctx context.Context, id string) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	return clone(rv), nil
}

func (r *portfolioRepo) UpdateReview(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[review.ID]; !ok {
		return errors.NotFound("Review", nil)
	}
	r.s.reviews[review.ID] = clone(review)
	r.recomputeRating(review.PortfolioID)
	return nil
}

func (r *portfolioRepo) DeleteReview(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return errors.NotFound("Review", nil)
	}
	delete(r.s.reviews, id)
	r.recomputeRating(rv.PortfolioID)
	return nil
}

func (r *portfolioRepo) ListReviews(ctx context.Context, portfolioID string) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Review
	for _, rv := range r.s.reviews {
		if rv.PortfolioID == portfolioID {
			out = append(out, clone(rv))
		}
	}
	newestFirst(out, func(rv *entity.Review) time.Time { return rv.CreatedAt })
	return out, nil
}

// recomputeRating must be called with the store lock held.
func (r *portfolioRepo) recomputeRating(portfolioID string) {
	p, ok := r.s.portfolios[portfolioID]
	if !ok {
		return
	}
	var ratings []int
	for _, rv := range r.s.reviews {
		if rv.PortfolioID == portfolioID {
			ratings = append(ratings, rv.Rating)
		}
	}
	p.AvgRating = entity.AverageRating(ratings)
	p.ReviewCount = len(ratings)
}
