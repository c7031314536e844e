package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"greia/internal/domain/entity"
)

func TestRoleForLicense(t *testing.T) {
	cases := map[entity.LicenseType]entity.Role{
		entity.LicenseRealEstateBroker: entity.RoleBroker,
		entity.LicenseRealEstateAgent:  entity.RoleAgent,
		entity.LicensePropertyManager:  entity.RolePropertyManager,
		entity.LicenseContractor:       entity.RoleServiceProvider,
		entity.LicenseBusiness:         entity.RoleServiceProvider,
		entity.LicenseProfessional:     entity.RoleServiceProvider,
		entity.LicenseOther:            entity.RoleServiceProvider,
	}
	for license, want := range cases {
		assert.Equal(t, want, RoleForLicense(license), string(license))
	}
}

func TestCanCreateListing(t *testing.T) {
	tests := []struct {
		role entity.Role
		typ  entity.ListingType
		want bool
	}{
		{entity.RoleAgent, entity.ListingRental, true},
		{entity.RoleAgent, entity.ListingSale, true},
		{entity.RoleAgent, entity.ListingService, false},
		{entity.RoleBroker, entity.ListingSale, true},
		{entity.RolePropertyManager, entity.ListingRental, true},
		{entity.RolePropertyManager, entity.ListingService, true},
		{entity.RolePropertyManager, entity.ListingSale, false},
		{entity.RoleServiceProvider, entity.ListingService, true},
		{entity.RoleServiceProvider, entity.ListingRental, false},
		{entity.RoleUser, entity.ListingRental, false},
		{entity.RoleHost, entity.ListingEvent, false},
		{entity.RoleAdmin, entity.ListingSale, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanCreateListing(tt.role, tt.typ), "%s/%s", tt.role, tt.typ)
	}
}

func TestTransactionTypeFor(t *testing.T) {
	assert.Equal(t, entity.TransactionRental, TransactionTypeFor(entity.ListingRental))
	assert.Equal(t, entity.TransactionService, TransactionTypeFor(entity.ListingService))
	assert.Equal(t, entity.TransactionTicket, TransactionTypeFor(entity.ListingTicket))
	assert.Equal(t, entity.TransactionSale, TransactionTypeFor(entity.ListingSale))
	assert.Equal(t, entity.TransactionSale, TransactionTypeFor(entity.ListingEvent))
}

func TestConvertsToTransaction(t *testing.T) {
	assert.True(t, ConvertsToTransaction(entity.InquiryBookingRequest))
	assert.True(t, ConvertsToTransaction(entity.InquiryPurchaseIntent))
	assert.False(t, ConvertsToTransaction(entity.InquiryInformation))
	assert.False(t, ConvertsToTransaction(entity.InquiryViewing))
}

func TestCanTransitionTransaction(t *testing.T) {
	assert.True(t, CanTransitionTransaction(entity.TransactionPending, entity.TransactionConfirmed, ActorSeller))
	assert.False(t, CanTransitionTransaction(entity.TransactionPending, entity.TransactionConfirmed, ActorBuyer))
	assert.True(t, CanTransitionTransaction(entity.TransactionConfirmed, entity.TransactionCompleted, ActorSeller))
	assert.False(t, CanTransitionTransaction(entity.TransactionPending, entity.TransactionCompleted, ActorSeller))
	assert.True(t, CanTransitionTransaction(entity.TransactionPending, entity.TransactionCancelled, ActorBuyer))
	assert.True(t, CanTransitionTransaction(entity.TransactionConfirmed, entity.TransactionCancelled, ActorSeller))
	assert.False(t, CanTransitionTransaction(entity.TransactionCompleted, entity.TransactionCancelled, ActorSeller))
	assert.False(t, CanTransitionTransaction(entity.TransactionConfirmed, entity.TransactionPending, ActorSeller))
}

func TestIsProfessional(t *testing.T) {
	assert.True(t, IsProfessional(entity.RoleBroker))
	assert.False(t, IsProfessional(entity.RoleUser))
	assert.False(t, IsProfessional(entity.RoleAdmin))
	assert.True(t, IsAdmin(entity.RoleAdmin))
}
