package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"greia/internal/domain/entity"
	"greia/internal/domain/policy"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

type ListingUseCase struct {
	listingRepo      repository.ListingRepository
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	now              Clock
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	verificationRepo repository.VerificationRepository,
	now Clock,
) *ListingUseCase {
	if now == nil {
		now = time.Now
	}
	return &ListingUseCase{
		listingRepo:      listingRepo,
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		now:              now,
	}
}

type ListingInput struct {
	Type        entity.ListingType
	Category    string
	Title       string
	Description string
	Price       *float64
	Currency    string
	Location    string
	Features    []string
	Images      []string
	Media       []entity.Media

	PropertyType string
	Bedrooms     int
	Bathrooms    int
	Area         float64
	Furnished    bool

	ServiceType     string
	Availability    string
	DurationMinutes int

	EventDate *time.Time
	Venue     string
	Capacity  int
}

func (in ListingInput) validate() error {
	var missing []string
	if in.Type == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(in.Currency) == "" {
		missing = append(missing, "currency")
	}
	if strings.TrimSpace(in.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return errors.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}
	if !in.Type.Valid() {
		return errors.Validation("Invalid listing type")
	}
	if *in.Price < 0 {
		return errors.Validation("Price must not be negative")
	}
	return nil
}

// media merges plain image URLs and explicit media items into one ordered list.
func (in ListingInput) media() []entity.Media {
	out := make([]entity.Media, 0, len(in.Images)+len(in.Media))
	for _, url := range in.Images {
		out = append(out, entity.Media{Type: entity.MediaImage, URL: url})
	}
	out = append(out, in.Media...)
	for i := range out {
		if out[i].Type == "" {
			out[i].Type = entity.MediaImage
		}
		out[i].Order = i
	}
	return out
}

// Create is the only way to publish a listing. The caller must be verified,
// hold an unexpired license and have a role allowed to publish the type.
func (uc *ListingUseCase) Create(ctx context.Context, userID string, input ListingInput) (*entity.Listing, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Unknown caller", err)
		}
		return nil, err
	}

	now := uc.now()
	if user.VerificationStatus != entity.VerificationVerified {
		return nil, errors.Forbidden("Verification required", nil)
	}
	info, err := uc.verificationRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if info.LicenseExpired(now) {
		return nil, errors.Forbidden("License expired", nil)
	}

	if err := input.validate(); err != nil {
		return nil, err
	}
	if !policy.CanCreateListing(user.Role, input.Type) {
		return nil, errors.Forbidden("Your role cannot create "+humanize(string(input.Type))+" listings", nil)
	}

	listing := &entity.Listing{
		ID:              uuid.New().String(),
		OwnerID:         userID,
		Type:            input.Type,
		Category:        input.Category,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Price:           *input.Price,
		Currency:        strings.ToUpper(strings.TrimSpace(input.Currency)),
		Location:        strings.TrimSpace(input.Location),
		Features:        nonNil(input.Features),
		Media:           input.media(),
		Status:          entity.ListingActive,
		PropertyType:    input.PropertyType,
		Bedrooms:        input.Bedrooms,
		Bathrooms:       input.Bathrooms,
		Area:            input.Area,
		Furnished:       input.Furnished,
		ServiceType:     input.ServiceType,
		Availability:    input.Availability,
		DurationMinutes: input.DurationMinutes,
		EventDate:       input.EventDate,
		Venue:           input.Venue,
		Capacity:        input.Capacity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	listing.LocationKey = strings.ToLower(listing.Location)

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		logger.Error("CreateListing Error: owner=%s: %v", userID, err)
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUseCase) Get(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

// List defaults to active listings when no status is given.
func (uc *ListingUseCase) List(ctx context.Context, filter entity.ListingFilter, cursor string, limit int) ([]*entity.Listing, string, error) {
	if filter.Status == "" {
		filter.Status = entity.ListingActive
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, "", errors.Validation("Invalid listing type")
	}
	if !filter.Status.Valid() {
		return nil, "", errors.Validation("Invalid listing status")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	listings, next, err := uc.listingRepo.List(ctx, filter, cursor, limit)
	if err != nil {
		logger.Error("ListListings Error: %v", err)
		return nil, "", err
	}
	return listings, next, nil
}

// ListingPatch carries the fields an owner may change. Nil means unchanged.
type ListingPatch struct {
	Category    *string
	Title       *string
	Description *string
	Price       *float64
	Currency    *string
	Location    *string
	Features    []string
	Media       []entity.Media
}

func (uc *ListingUseCase) ownedListing(ctx context.Context, userID, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != userID {
		return nil, errors.Forbidden("You can only modify your own listings", nil)
	}
	return listing, nil
}

func (uc *ListingUseCase) Update(ctx context.Context, userID, id string, patch ListingPatch) (*entity.Listing, error) {
	listing, err := uc.ownedListing(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Category != nil {
		listing.Category = *patch.Category
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, errors.Validation("Title cannot be empty")
		}
		listing.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		listing.Description = *patch.Description
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, errors.Validation("Price must not be negative")
		}
		listing.Price = *patch.Price
	}
	if patch.Currency != nil {
		listing.Currency = strings.ToUpper(strings.TrimSpace(*patch.Currency))
	}
	if patch.Location != nil {
		if strings.TrimSpace(*patch.Location) == "" {
			return nil, errors.Validation("Location cannot be empty")
		}
		listing.Location = strings.TrimSpace(*patch.Location)
		listing.LocationKey = strings.ToLower(listing.Location)
	}
	if patch.Features != nil {
		listing.Features = patch.Features
	}
	if patch.Media != nil {
		media := append([]entity.Media(nil), patch.Media...)
		sort.SliceStable(media, func(i, j int) bool { return media[i].Order < media[j].Order })
		for i := range media {
			media[i].Order = i
		}
		listing.Media = media
	}
	listing.UpdatedAt = uc.now()

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		logger.Error("UpdateListing Error: id=%s: %v", id, err)
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUseCase) UpdateStatus(ctx context.Context, userID, id string, status entity.ListingStatus) (*entity.Listing, error) {
	if !status.Valid() {
		return nil, errors.Validation("Invalid listing status")
	}
	listing, err := uc.ownedListing(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	listing.Status = status
	listing.UpdatedAt = uc.now()
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		logger.Error("UpdateListingStatus Error: id=%s: %v", id, err)
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.ownedListing(ctx, userID, id); err != nil {
		return err
	}
	return uc.listingRepo.Delete(ctx, id)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
