package repository

import (
	"context"

	"greia/internal/domain/entity"
)

type PortfolioRepository interface {
	// GetOrCreate returns the user's portfolio, creating p when none exists.
	GetOrCreate(ctx context.Context, p *entity.Portfolio) (*entity.Portfolio, error)
	GetByID(ctx context.Context, id string) (*entity.Portfolio, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Portfolio, error)
	Update(ctx context.Context, p *entity.Portfolio) error

	CreateProject(ctx context.Context, project *entity.Project) error
	GetProject(ctx context.Context, portfolioID, id string) (*entity.Project, error)
	UpdateProject(ctx context.Context, project *entity.Project) error
	DeleteProject(ctx context.Context, portfolioID, id string) error
	ListProjects(ctx context.Context, portfolioID string) ([]*entity.Project, error)

	// Review writes recompute the portfolio's avgRating and reviewCount in the
	// same atomic unit.
	CreateReview(ctx context.Context, review *entity.Review) error
	GetReview(ctx context.Context, id string) (*entity.Review, error)
	UpdateReview(ctx context.Context, review *entity.Review) error
	DeleteReview(ctx context.Context, id string) error
	ListReviews(ctx context.Context, portfolioID string) ([]*entity.Review, error)
}
