package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
)

func rentalInput() usecase.ListingInput {
	return usecase.ListingInput{
		Type:     entity.ListingRental,
		Title:    "Two bedroom loft",
		Price:    price(2400),
		Currency: "usd",
		Location: "Austin, TX",
		Images:   []string{"https://img/1.jpg", "https://img/2.jpg"},
		Bedrooms: 2,
	}
}

func TestCreateListing_UnverifiedIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "a", entity.RoleAgent, entity.VerificationUnverified)

	_, err := f.listings.Create(f.ctx, "a", rentalInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.Contains(t, err.Error(), "Verification required")
}

func TestCreateListing_ExpiredLicenseIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.verifiedProfessional(t, "agent", entity.LicenseRealEstateAgent)
	f.clock.Advance(2 * 365 * 24 * time.Hour)

	_, err := f.listings.Create(f.ctx, "agent", rentalInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "License expired")
}

func TestCreateListing_RoleAllowList(t *testing.T) {
	f := newFixture(t)
	f.verifiedProfessional(t, "sp", entity.LicenseContractor)

	in := rentalInput()
	_, err := f.listings.Create(f.ctx, "sp", in)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	in.Type = entity.ListingService
	listing, err := f.listings.Create(f.ctx, "sp", in)
	require.NoError(t, err)
	assert.Equal(t, entity.ListingActive, listing.Status)
	assert.Equal(t, "sp", listing.OwnerID)
	assert.Equal(t, "USD", listing.Currency)
	require.Len(t, listing.Media, 2)
	assert.Equal(t, 1, listing.Media[1].Order)
}

func TestCreateListing_MissingFields(t *testing.T) {
	f := newFixture(t)
	f.verifiedProfessional(t, "agent", entity.LicenseRealEstateAgent)

	in := rentalInput()
	in.Price = nil
	in.Location = ""
	_, err := f.listings.Create(f.ctx, "agent", in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
	assert.Contains(t, err.Error(), "price, location")
}

func TestListListings_Filters(t *testing.T) {
	f := newFixture(t)
	f.verifiedProfessional(t, "agent", entity.LicenseRealEstateAgent)

	cheap := rentalInput()
	cheap.Price = price(900)
	cheap.Location = "Downtown Austin"
	_, err := f.listings.Create(f.ctx, "agent", cheap)
	require.NoError(t, err)

	sale := rentalInput()
	sale.Type = entity.ListingSale
	sale.Price = price(500000)
	sale.Location = "Dallas"
	saleListing, err := f.listings.Create(f.ctx, "agent", sale)
	require.NoError(t, err)

	items, _, err := f.listings.List(f.ctx, entity.ListingFilter{Location: "austin"}, "", 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, _, err = f.listings.List(f.ctx, entity.ListingFilter{MinPrice: price(1000)}, "", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, saleListing.ID, items[0].ID)

	_, err = f.listings.UpdateStatus(f.ctx, "agent", saleListing.ID, entity.ListingSold)
	require.NoError(t, err)
	items, _, err = f.listings.List(f.ctx, entity.ListingFilter{}, "", 10)
	require.NoError(t, err)
	assert.Len(t, items, 1, "default filter shows active listings only")
}

func TestListListings_CursorPaging(t *testing.T) {
	f := newFixture(t)
	f.verifiedProfessional(t, "agent", entity.LicenseRealEstateAgent)
	for i := 0; i < 5; i++ {
		_, err := f.listings.Create(f.ctx, "agent", rentalInput())
		require.NoError(t, err)
	}

	page1, next, err := f.listings.List(f.ctx, entity.ListingFilter{}, "", 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	require.NotEmpty(t, next)

	page2, next, err := f.listings.List(f.ctx, entity.ListingFilter{}, next, 3)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.Empty(t, next)
}

func TestUpdateListing_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.verifiedProfessional(t, "agent", entity.LicenseRealEstateAgent)
	f.addUser(t, "other", entity.RoleUser, entity.VerificationUnverified)
	listing, err := f.listings.Create(f.ctx, "agent", rentalInput())
	require.NoError(t, err)

	title := "Renovated loft"
	_, err = f.listings.Update(f.ctx, "other", listing.ID, usecase.ListingPatch{Title: &title})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	updated, err := f.listings.Update(f.ctx, "agent", listing.ID, usecase.ListingPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	require.Error(t, f.listings.Delete(f.ctx, "other", listing.ID))
	require.NoError(t, f.listings.Delete(f.ctx, "agent", listing.ID))
	_, err = f.listings.Get(f.ctx, listing.ID)
	assert.True(t, errors.IsNotFound(err))
}
