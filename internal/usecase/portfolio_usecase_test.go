package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
)

func TestPortfolio_GetOrCreateIsStable(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "pro", entity.RoleServiceProvider, entity.VerificationVerified)

	first, err := f.portfolios.GetOrCreate(f.ctx, "pro")
	require.NoError(t, err)
	second, err := f.portfolios.GetOrCreate(f.ctx, "pro")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "User pro's portfolio", first.Title)

	title := "Kitchen remodels"
	exp := 7
	updated, err := f.portfolios.Upsert(f.ctx, "pro", usecase.PortfolioInput{Title: &title, Experience: &exp})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, 7, updated.Experience)
}

func TestPortfolio_Projects(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "pro", entity.RoleServiceProvider, entity.VerificationVerified)

	_, err := f.portfolios.AddProject(f.ctx, "pro", usecase.ProjectInput{Title: "Deck", Category: "Outdoor"})
	assert.True(t, errors.IsNotFound(err), "no portfolio yet")

	_, err = f.portfolios.GetOrCreate(f.ctx, "pro")
	require.NoError(t, err)
	_, err = f.portfolios.AddProject(f.ctx, "pro", usecase.ProjectInput{Title: "Deck"})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	project, err := f.portfolios.AddProject(f.ctx, "pro", usecase.ProjectInput{Title: "Deck", Category: "Outdoor"})
	require.NoError(t, err)

	updated, err := f.portfolios.UpdateProject(f.ctx, "pro", usecase.ProjectInput{ID: project.ID, Title: "Cedar deck"})
	require.NoError(t, err)
	assert.Equal(t, "Cedar deck", updated.Title)
	assert.Equal(t, "Outdoor", updated.Category)

	require.NoError(t, f.portfolios.DeleteProject(f.ctx, "pro", project.ID))
	view, err := f.portfolios.GetOrCreate(f.ctx, "pro")
	require.NoError(t, err)
	assert.Empty(t, view.Projects)
}

func TestPortfolio_ReviewsRecomputeRating(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "pro", entity.RoleServiceProvider, entity.VerificationVerified)
	f.addUser(t, "r1", entity.RoleUser, entity.VerificationUnverified)
	f.addUser(t, "r2", entity.RoleUser, entity.VerificationUnverified)
	p, err := f.portfolios.GetOrCreate(f.ctx, "pro")
	require.NoError(t, err)

	_, err = f.portfolios.CreateReview(f.ctx, "pro", usecase.ReviewInput{PortfolioID: p.ID, Rating: 5})
	assert.True(t, errors.Is(err, "FORBIDDEN"), "no self review")

	_, err = f.portfolios.CreateReview(f.ctx, "r1", usecase.ReviewInput{PortfolioID: p.ID, Rating: 6})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = f.portfolios.CreateReview(f.ctx, "r1", usecase.ReviewInput{PortfolioID: p.ID, Rating: 5})
	require.NoError(t, err)
	_, err = f.portfolios.CreateReview(f.ctx, "r2", usecase.ReviewInput{PortfolioID: p.ID, Rating: 2})
	require.NoError(t, err)

	_, err = f.portfolios.CreateReview(f.ctx, "r1", usecase.ReviewInput{PortfolioID: p.ID, Rating: 4})
	assert.True(t, errors.Is(err, "CONFLICT"), "one review per pair")

	view, err := f.portfolios.GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.ReviewCount)
	assert.InDelta(t, 3.5, view.AvgRating, 0.001)

	_, err = f.portfolios.UpdateReview(f.ctx, "r2", usecase.ReviewInput{PortfolioID: p.ID, Rating: 4})
	require.NoError(t, err)
	view, err = f.portfolios.GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, view.AvgRating, 0.001)

	require.NoError(t, f.portfolios.DeleteReview(f.ctx, "r1", p.ID))
	view, err = f.portfolios.GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.ReviewCount)
	assert.InDelta(t, 4.0, view.AvgRating, 0.001)
}
