package entity

import "time"

type TransactionType string

const (
	TransactionRental  TransactionType = "RENTAL"
	TransactionService TransactionType = "SERVICE"
	TransactionTicket  TransactionType = "TICKET"
	TransactionSale    TransactionType = "SALE"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionConfirmed TransactionStatus = "CONFIRMED"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionConfirmed, TransactionCompleted, TransactionCancelled:
		return true
	}
	return false
}

type Transaction struct {
	ID        string            `json:"id" firestore:"id"`
	Type      TransactionType   `json:"type" firestore:"type"`
	Status    TransactionStatus `json:"status" firestore:"status"`
	Amount    float64           `json:"amount" firestore:"amount"`
	Currency  string            `json:"currency" firestore:"currency"`
	ListingID string            `json:"listing_id" firestore:"listingId"`
	UserID    string            `json:"user_id" firestore:"userId"`     // buyer
	SellerID  string            `json:"seller_id" firestore:"sellerId"` // listing owner
	InquiryID string            `json:"inquiry_id,omitempty" firestore:"inquiryId,omitempty"`
	CreatedAt time.Time         `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time         `json:"updated_at" firestore:"updatedAt"`
}

// IsParty reports whether userID is the buyer or the seller.
func (t *Transaction) IsParty(userID string) bool {
	return t.UserID == userID || t.SellerID == userID
}
