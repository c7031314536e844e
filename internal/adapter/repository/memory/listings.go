package memory

import (
	"context"
	"sort"

	"greia/internal/domain/entity"
	"greia/pkg/errors"
)

type listingRepo struct{ s *Store }

func (r *listingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.listings[listing.ID] = clone(listing)
	return nil
}

func (r *listingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return clone(l), nil
}

func (r *listingRepo) matching(filter entity.ListingFilter) []*entity.Listing {
	var out []*entity.Listing
	for _, l := range r.s.listings {
		if filter.Matches(l) {
			out = append(out, clone(l))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *listingRepo) List(ctx context.Context, filter entity.ListingFilter, cursor string, limit int) ([]*entity.Listing, string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := r.matching(filter)
	start := 0
	if cursor != "" {
		for i, l := range all {
			if l.ID == cursor {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end >= len(all) {
		return all[start:], "", nil
	}
	page := all[start:end]
	return page, page[len(page)-1].ID, nil
}

func (r *listingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.listings[listing.ID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	r.s.listings[listing.ID] = clone(listing)
	return nil
}

func (r *listingRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.listings[id]; !ok {
		return errors.NotFound("Listing", nil)
	}
	delete(r.s.listings, id)
	return nil
}

func (r *listingRepo) Count(ctx context.Context, filter entity.ListingFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.matching(filter))), nil
}
