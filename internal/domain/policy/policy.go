// Package policy holds the marketplace's authorization rules. Every function is
// pure and switches over a closed enum, so adding a role or type without
// handling it here is caught in review by the default branches.
package policy

import "greia/internal/domain/entity"

// RoleForLicense is the role granted when a verification with the given license is approved.
func RoleForLicense(t entity.LicenseType) entity.Role {
	switch t {
	case entity.LicenseRealEstateBroker:
		return entity.RoleBroker
	case entity.LicenseRealEstateAgent:
		return entity.RoleAgent
	case entity.LicensePropertyManager:
		return entity.RolePropertyManager
	case entity.LicenseContractor, entity.LicenseBusiness, entity.LicenseProfessional, entity.LicenseOther:
		return entity.RoleServiceProvider
	default:
		return entity.RoleServiceProvider
	}
}

// AllowedListingTypes returns the listing types a role may publish.
func AllowedListingTypes(r entity.Role) []entity.ListingType {
	switch r {
	case entity.RoleAgent, entity.RoleBroker:
		return []entity.ListingType{entity.ListingRental, entity.ListingSale}
	case entity.RolePropertyManager:
		return []entity.ListingType{entity.ListingRental, entity.ListingService}
	case entity.RoleServiceProvider:
		return []entity.ListingType{entity.ListingService}
	case entity.RoleUser, entity.RoleHost, entity.RoleAdmin:
		return nil
	default:
		return nil
	}
}

func CanCreateListing(r entity.Role, t entity.ListingType) bool {
	for _, allowed := range AllowedListingTypes(r) {
		if allowed == t {
			return true
		}
	}
	return false
}

// TransactionTypeFor derives the transaction type from the listing being bought or booked.
func TransactionTypeFor(t entity.ListingType) entity.TransactionType {
	switch t {
	case entity.ListingRental:
		return entity.TransactionRental
	case entity.ListingService:
		return entity.TransactionService
	case entity.ListingTicket:
		return entity.TransactionTicket
	case entity.ListingSale, entity.ListingEvent:
		return entity.TransactionSale
	default:
		return entity.TransactionSale
	}
}

func IsAdmin(r entity.Role) bool {
	return r == entity.RoleAdmin
}

// IsProfessional reports whether the role was granted through verification.
func IsProfessional(r entity.Role) bool {
	switch r {
	case entity.RoleAgent, entity.RoleBroker, entity.RolePropertyManager, entity.RoleServiceProvider:
		return true
	case entity.RoleUser, entity.RoleHost, entity.RoleAdmin:
		return false
	default:
		return false
	}
}

// ConvertsToTransaction reports whether an inquiry of this type spawns a transaction.
func ConvertsToTransaction(t entity.InquiryType) bool {
	switch t {
	case entity.InquiryBookingRequest, entity.InquiryPurchaseIntent:
		return true
	case entity.InquiryInformation, entity.InquiryViewing:
		return false
	default:
		return false
	}
}

// TransactionActor identifies which party requests a transaction status change.
type TransactionActor int

const (
	ActorBuyer TransactionActor = iota
	ActorSeller
)

// CanTransitionTransaction reports whether actor may move a transaction from one status to another.
func CanTransitionTransaction(from, to entity.TransactionStatus, actor TransactionActor) bool {
	switch to {
	case entity.TransactionConfirmed:
		return from == entity.TransactionPending && actor == ActorSeller
	case entity.TransactionCompleted:
		return from == entity.TransactionConfirmed && actor == ActorSeller
	case entity.TransactionCancelled:
		return from == entity.TransactionPending || from == entity.TransactionConfirmed
	case entity.TransactionPending:
		return false
	default:
		return false
	}
}
