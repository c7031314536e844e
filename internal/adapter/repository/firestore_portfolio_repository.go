package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

type firestorePortfolioRepository struct {
	client *firestore.Client
}

func NewFirestorePortfolioRepository(client *firestore.Client) repository.PortfolioRepository {
	return &firestorePortfolioRepository{
		client: client,
	}
}

func (r *firestorePortfolioRepository) portfolioRef(id string) *firestore.DocumentRef {
	return r.client.Collection(portfoliosCollection).Doc(id)
}

func (r *firestorePortfolioRepository) projects(portfolioID string) *firestore.CollectionRef {
	return r.portfolioRef(portfolioID).Collection(projectsCollection)
}

func (r *firestorePortfolioRepository) GetOrCreate(ctx context.Context, p *entity.Portfolio) (*entity.Portfolio, error) {
	byUser := r.client.Collection(portfoliosCollection).Where("userId", "==", p.UserID).Limit(1)

	stored := p
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		stored = p

		iter := tx.Documents(byUser)
		doc, err := iter.Next()
		iter.Stop()
		if err == nil {
			stored, err = decodeOne[entity.Portfolio](doc)
			return err
		}
		if err != iterator.Done {
			return err
		}
		return tx.Create(r.portfolioRef(p.ID), p)
	})
	if err != nil {
		return nil, translate(err, "Portfolio", "get portfolio")
	}
	return stored, nil
}

func (r *firestorePortfolioRepository) GetByID(ctx context.Context, id string) (*entity.Portfolio, error) {
	doc, err := r.portfolioRef(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "Portfolio", "get portfolio")
	}
	p, err := decodeOne[entity.Portfolio](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse portfolio", err)
	}
	return p, nil
}

func (r *firestorePortfolioRepository) GetByUserID(ctx context.Context, userID string) (*entity.Portfolio, error) {
	ps, err := decodeAll[entity.Portfolio](r.client.Collection(portfoliosCollection).
		Where("userId", "==", userID).Limit(1).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to query portfolio", err)
	}
	if len(ps) == 0 {
		return nil, errors.NotFound("Portfolio", nil)
	}
	return ps[0], nil
}

func (r *firestorePortfolioRepository) Update(ctx context.Context, p *entity.Portfolio) error {
	// avgRating and reviewCount are owned by review writes.
	_, err := r.portfolioRef(p.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: p.Title},
		{Path: "description", Value: p.Description},
		{Path: "specialties", Value: p.Specialties},
		{Path: "certifications", Value: p.Certifications},
		{Path: "experience", Value: p.Experience},
		{Path: "website", Value: p.Website},
		{Path: "updatedAt", Value: p.UpdatedAt},
	})
	return translate(err, "Portfolio", "update portfolio")
}

func (r *firestorePortfolioRepository) CreateProject(ctx context.Context, project *entity.Project) error {
	_, err := r.projects(project.PortfolioID).Doc(project.ID).Create(ctx, project)
	return translate(err, "Project", "create project")
}

func (r *firestorePortfolioRepository) GetProject(ctx context.Context, portfolioID, id string) (*entity.Project, error) {
	doc, err := r.projects(portfolioID).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "Project", "get project")
	}
	p, err := decodeOne[entity.Project](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse project", err)
	}
	return p, nil
}

func (r *firestorePortfolioRepository) UpdateProject(ctx context.Context, project *entity.Project) error {
	ref := r.projects(project.PortfolioID).Doc(project.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, project)
	})
	return translate(err, "Project", "update project")
}

func (r *firestorePortfolioRepository) DeleteProject(ctx context.Context, portfolioID, id string) error {
	_, err := r.projects(portfolioID).Doc(id).Delete(ctx, firestore.Exists)
	return translate(err, "Project", "delete project")
}

func (r *firestorePortfolioRepository) ListProjects(ctx context.Context, portfolioID string) ([]*entity.Project, error) {
	ps, err := decodeAll[entity.Project](r.projects(portfolioID).OrderBy("createdAt", firestore.Desc).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list projects", err)
	}
	return ps, nil
}

// ratingTx reads the portfolio and its current ratings, lets apply queue the
// review write and adjust the ratings, then stores the recomputed aggregate.
func (r *firestorePortfolioRepository) ratingTx(ctx context.Context, portfolioID string, apply func(tx *firestore.Transaction, ratings map[string]int) error) error {
	ref := r.portfolioRef(portfolioID)
	byPortfolio := r.client.Collection(reviewsCollection).Where("portfolioId", "==", portfolioID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if notFound(err) {
				return errors.NotFound("Portfolio", err)
			}
			return err
		}
		docs, err := tx.Documents(byPortfolio).GetAll()
		if err != nil {
			return err
		}
		ratings := make(map[string]int, len(docs))
		for _, doc := range docs {
			rv, err := decodeOne[entity.Review](doc)
			if err != nil {
				return err
			}
			ratings[rv.ID] = rv.Rating
		}

		if err := apply(tx, ratings); err != nil {
			return err
		}

		values := make([]int, 0, len(ratings))
		for _, v := range ratings {
			values = append(values, v)
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "avgRating", Value: entity.AverageRating(values)},
			{Path: "reviewCount", Value: len(values)},
		})
	})
}

func (r *firestorePortfolioRepository) CreateReview(ctx context.Context, review *entity.Review) error {
	err := r.ratingTx(ctx, review.PortfolioID, func(tx *firestore.Transaction, ratings map[string]int) error {
		if _, ok := ratings[review.ID]; ok {
			return errors.Conflict("You have already reviewed this portfolio")
		}
		ratings[review.ID] = review.Rating
		return tx.Create(r.client.Collection(reviewsCollection).Doc(review.ID), review)
	})
	return translate(err, "Review", "create review")
}

func (r *firestorePortfolioRepository) GetReview(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection(reviewsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "Review", "get review")
	}
	rv, err := decodeOne[entity.Review](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse review", err)
	}
	return rv, nil
}

func (r *firestorePortfolioRepository) UpdateReview(ctx context.Context, review *entity.Review) error {
	err := r.ratingTx(ctx, review.PortfolioID, func(tx *firestore.Transaction, ratings map[string]int) error {
		if _, ok := ratings[review.ID]; !ok {
			return errors.NotFound("Review", nil)
		}
		ratings[review.ID] = review.Rating
		return tx.Set(r.client.Collection(reviewsCollection).Doc(review.ID), review)
	})
	return translate(err, "Review", "update review")
}

func (r *firestorePortfolioRepository) DeleteReview(ctx context.Context, id string) error {
	rv, err := r.GetReview(ctx, id)
	if err != nil {
		return err
	}
	err = r.ratingTx(ctx, rv.PortfolioID, func(tx *firestore.Transaction, ratings map[string]int) error {
		if _, ok := ratings[id]; !ok {
			return errors.NotFound("Review", nil)
		}
		delete(ratings, id)
		return tx.Delete(r.client.Collection(reviewsCollection).Doc(id))
	})
	return translate(err, "Review", "delete review")
}

func (r *firestorePortfolioRepository) ListReviews(ctx context.Context, portfolioID string) ([]*entity.Review, error) {
	rvs, err := decodeAll[entity.Review](r.client.Collection(reviewsCollection).
		Where("portfolioId", "==", portfolioID).
		OrderBy("createdAt", firestore.Desc).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list reviews", err)
	}
	return rvs, nil
}
