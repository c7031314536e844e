package repository

import (
	"context"

	"greia/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// List returns one page, newest first, and the cursor for the next page
	// ("" when exhausted).
	List(ctx context.Context, filter entity.ListingFilter, cursor string, limit int) ([]*entity.Listing, string, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter entity.ListingFilter) (int64, error)
}
