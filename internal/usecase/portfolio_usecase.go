package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

type PortfolioUseCase struct {
	portfolioRepo repository.PortfolioRepository
	userRepo      repository.UserRepository
	now           Clock
}

func NewPortfolioUseCase(portfolioRepo repository.PortfolioRepository, userRepo repository.UserRepository, now Clock) *PortfolioUseCase {
	if now == nil {
		now = time.Now
	}
	return &PortfolioUseCase{
		portfolioRepo: portfolioRepo,
		userRepo:      userRepo,
		now:           now,
	}
}

func (uc *PortfolioUseCase) view(ctx context.Context, p *entity.Portfolio) (*entity.PortfolioView, error) {
	projects, err := uc.portfolioRepo.ListProjects(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := uc.portfolioRepo.ListReviews(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	v := &entity.PortfolioView{Portfolio: p, Projects: nonNil(projects), Reviews: nonNil(reviews)}
	if u, err := uc.userRepo.GetByID(ctx, p.UserID); err == nil {
		v.User = u.Summary()
	}
	return v, nil
}

// GetOrCreate returns the caller's portfolio, creating an empty one on first use.
func (uc *PortfolioUseCase) GetOrCreate(ctx context.Context, userID string) (*entity.PortfolioView, error) {
	now := uc.now()
	title := "My portfolio"
	if u, err := uc.userRepo.GetByID(ctx, userID); err == nil && u.Name != "" {
		title = u.Name + "'s portfolio"
	}
	p, err := uc.portfolioRepo.GetOrCreate(ctx, &entity.Portfolio{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Specialties:    []string{},
		Certifications: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		logger.Error("GetOrCreatePortfolio Error: user=%s: %v", userID, err)
		return nil, err
	}
	return uc.view(ctx, p)
}

func (uc *PortfolioUseCase) GetByID(ctx context.Context, id string) (*entity.PortfolioView, error) {
	p, err := uc.portfolioRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, p)
}

type PortfolioInput struct {
	Title          *string
	Description    *string
	Specialties    []string
	Certifications []string
	Experience     *int
	Website        *string
}

func (uc *PortfolioUseCase) Upsert(ctx context.Context, userID string, input PortfolioInput) (*entity.PortfolioView, error) {
	current, err := uc.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := current.Portfolio

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, errors.Validation("Title cannot be empty")
		}
		p.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Specialties != nil {
		p.Specialties = input.Specialties
	}
	if input.Certifications != nil {
		p.Certifications = input.Certifications
	}
	if input.Experience != nil {
		if *input.Experience < 0 {
			return nil, errors.Validation("Experience must not be negative")
		}
		p.Experience = *input.Experience
	}
	if input.Website != nil {
		p.Website = *input.Website
	}
	p.UpdatedAt = uc.now()

	if err := uc.portfolioRepo.Update(ctx, p); err != nil {
		logger.Error("UpsertPortfolio Error: user=%s: %v", userID, err)
		return nil, err
	}
	return current, nil
}

type ProjectInput struct {
	ID          string
	Title       string
	Description string
	Category    string
	Images      []string
	Location    string
	CompletedAt *time.Time
}

func (uc *PortfolioUseCase) ownPortfolio(ctx context.Context, userID string) (*entity.Portfolio, error) {
	p, err := uc.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Portfolio", err)
		}
		return nil, err
	}
	return p, nil
}

func (uc *PortfolioUseCase) AddProject(ctx context.Context, userID string, input ProjectInput) (*entity.Project, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Category) == "" {
		return nil, errors.Validation("Title and category are required")
	}
	p, err := uc.ownPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	project := &entity.Project{
		ID:          uuid.New().String(),
		PortfolioID: p.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Images:      nonNil(input.Images),
		Location:    input.Location,
		CompletedAt: input.CompletedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.portfolioRepo.CreateProject(ctx, project); err != nil {
		logger.Error("AddProject Error: portfolio=%s: %v", p.ID, err)
		return nil, err
	}
	return project, nil
}

func (uc *PortfolioUseCase) UpdateProject(ctx context.Context, userID string, input ProjectInput) (*entity.Project, error) {
	p, err := uc.ownPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	project, err := uc.portfolioRepo.GetProject(ctx, p.ID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		project.Title = strings.TrimSpace(input.Title)
	}
	if input.Category != "" {
		project.Category = strings.TrimSpace(input.Category)
	}
	if input.Description != "" {
		project.Description = input.Description
	}
	if input.Images != nil {
		project.Images = input.Images
	}
	if input.Location != "" {
		project.Location = input.Location
	}
	if input.CompletedAt != nil {
		project.CompletedAt = input.CompletedAt
	}
	project.UpdatedAt = uc.now()

	if err := uc.portfolioRepo.UpdateProject(ctx, project); err != nil {
		logger.Error("UpdateProject Error: project=%s: %v", project.ID, err)
		return nil, err
	}
	return project, nil
}

func (uc *PortfolioUseCase) DeleteProject(ctx context.Context, userID, projectID string) error {
	p, err := uc.ownPortfolio(ctx, userID)
	if err != nil {
		return err
	}
	return uc.portfolioRepo.DeleteProject(ctx, p.ID, projectID)
}

type ReviewInput struct {
	PortfolioID string
	Rating      int
	Comment     string
}

// CreateReview allows one review per reviewer and portfolio.
func (uc *PortfolioUseCase) CreateReview(ctx context.Context, reviewerID string, input ReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.Validation("Rating must be between 1 and 5")
	}
	p, err := uc.portfolioRepo.GetByID(ctx, input.PortfolioID)
	if err != nil {
		return nil, err
	}
	if p.UserID == reviewerID {
		return nil, errors.Forbidden("You cannot review your own portfolio", nil)
	}

	now := uc.now()
	review := &entity.Review{
		ID:          entity.ReviewID(reviewerID, p.ID),
		PortfolioID: p.ID,
		ReviewerID:  reviewerID,
		Rating:      input.Rating,
		Comment:     strings.TrimSpace(input.Comment),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.portfolioRepo.CreateReview(ctx, review); err != nil {
		if errors.StatusOf(err) >= 500 {
			logger.Error("CreateReview Error: portfolio=%s: %v", p.ID, err)
		}
		return nil, err
	}
	return review, nil
}

func (uc *PortfolioUseCase) ownReview(ctx context.Context, reviewerID, portfolioID string) (*entity.Review, error) {
	review, err := uc.portfolioRepo.GetReview(ctx, entity.ReviewID(reviewerID, portfolioID))
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, errors.Forbidden("You can only change your own review", nil)
	}
	return review, nil
}

func (uc *PortfolioUseCase) UpdateReview(ctx context.Context, reviewerID string, input ReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.Validation("Rating must be between 1 and 5")
	}
	review, err := uc.ownReview(ctx, reviewerID, input.PortfolioID)
	if err != nil {
		return nil, err
	}
	review.Rating = input.Rating
	review.Comment = strings.TrimSpace(input.Comment)
	review.UpdatedAt = uc.now()

	if err := uc.portfolioRepo.UpdateReview(ctx, review); err != nil {
		logger.Error("UpdateReview Error: review=%s: %v", review.ID, err)
		return nil, err
	}
	return review, nil
}

// DeleteReview takes the portfolio id; a reviewer has at most one review per portfolio.
func (uc *PortfolioUseCase) DeleteReview(ctx context.Context, reviewerID, portfolioID string) error {
	review, err := uc.ownReview(ctx, reviewerID, portfolioID)
	if err != nil {
		return err
	}
	return uc.portfolioRepo.DeleteReview(ctx, review.ID)
}
