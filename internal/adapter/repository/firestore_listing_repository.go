package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

// listingQuery pushes the equality dimensions of f into Firestore. Range
// and substring dimensions are applied in process with f.Matches so that
// one composite index per equality set is enough.
func (r *firestoreListingRepository) listingQuery(f entity.ListingFilter) firestore.Query {
	q := r.client.Collection(listingsCollection).Query
	if f.Type != "" {
		q = q.Where("type", "==", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category", "==", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status", "==", f.Status)
	}
	if f.OwnerID != "" {
		q = q.Where("ownerId", "==", f.OwnerID)
	}
	if f.Furnished != nil {
		q = q.Where("furnished", "==", *f.Furnished)
	}
	return q
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	listing.LocationKey = strings.ToLower(listing.Location)
	_, err := r.client.Collection(listingsCollection).Doc(listing.ID).Create(ctx, listing)
	return translate(err, "Listing", "create listing")
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection(listingsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "Listing", "get listing")
	}
	listing, err := decodeOne[entity.Listing](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse listing", err)
	}
	return listing, nil
}

func (r *firestoreListingRepository) List(ctx context.Context, filter entity.ListingFilter, cursor string, limit int) ([]*entity.Listing, string, error) {
	q := r.listingQuery(filter).OrderBy("createdAt", firestore.Desc)
	if cursor != "" {
		snap, err := r.client.Collection(listingsCollection).Doc(cursor).Get(ctx)
		if err != nil {
			if notFound(err) {
				return nil, "", errors.BadRequest("Invalid cursor", err)
			}
			return nil, "", errors.Internal("Failed to resolve cursor", err)
		}
		q = q.StartAfter(snap)
	}

	// Over-fetch in batches until the page is full after in-process filtering.
	batch := limit * 2
	var out []*entity.Listing
	for {
		docs, err := q.Limit(batch).Documents(ctx).GetAll()
		if err != nil {
			return nil, "", errors.Internal("Failed to list listings", err)
		}
		for _, doc := range docs {
			l, err := decodeOne[entity.Listing](doc)
			if err != nil {
				return nil, "", errors.Internal("Failed to parse listing", err)
			}
			if !filter.Matches(l) {
				continue
			}
			out = append(out, l)
			if len(out) == limit {
				return out, l.ID, nil
			}
		}
		if len(docs) < batch {
			return out, "", nil
		}
		q = q.StartAfter(docs[len(docs)-1])
	}
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.LocationKey = strings.ToLower(listing.Location)
	ref := r.client.Collection(listingsCollection).Doc(listing.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, listing)
	})
	return translate(err, "Listing", "update listing")
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(listingsCollection).Doc(id).Delete(ctx, firestore.Exists)
	return translate(err, "Listing", "delete listing")
}

func (r *firestoreListingRepository) Count(ctx context.Context, filter entity.ListingFilter) (int64, error) {
	q := r.listingQuery(filter)
	if filter.EqualityOnly() {
		n, err := countOf(ctx, q)
		if err != nil {
			return 0, errors.Internal("Failed to count listings", err)
		}
		return n, nil
	}

	listings, err := decodeAll[entity.Listing](q.Documents(ctx))
	if err != nil {
		return 0, errors.Internal("Failed to count listings", err)
	}
	var n int64
	for _, l := range listings {
		if filter.Matches(l) {
			n++
		}
	}
	return n, nil
}
