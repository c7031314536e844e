package entity

import "time"

type InquiryType string

const (
	InquiryInformation    InquiryType = "INFORMATION"
	InquiryViewing        InquiryType = "VIEWING"
	InquiryBookingRequest InquiryType = "BOOKING_REQUEST"
	InquiryPurchaseIntent InquiryType = "PURCHASE_INTENT"
)

func (t InquiryType) Valid() bool {
	switch t {
	case InquiryInformation, InquiryViewing, InquiryBookingRequest, InquiryPurchaseIntent:
		return true
	}
	return false
}

type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "PENDING"
	InquiryAccepted  InquiryStatus = "ACCEPTED"
	InquiryRejected  InquiryStatus = "REJECTED"
	InquiryConverted InquiryStatus = "CONVERTED"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryPending, InquiryAccepted, InquiryRejected, InquiryConverted:
		return true
	}
	return false
}

type Inquiry struct {
	ID            string        `json:"id" firestore:"id"`
	CreatorID     string        `json:"creator_id" firestore:"creatorId"`
	ReceiverID    string        `json:"receiver_id" firestore:"receiverId"`
	ListingID     string        `json:"listing_id" firestore:"listingId"`
	Type          InquiryType   `json:"type" firestore:"type"`
	Message       string        `json:"message" firestore:"message"`
	Status        InquiryStatus `json:"status" firestore:"status"`
	TransactionID string        `json:"transaction_id,omitempty" firestore:"transactionId,omitempty"`
	CreatedAt     time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time     `json:"updated_at" firestore:"updatedAt"`
}

type InquiryFilter struct {
	ListingID string
	Status    InquiryStatus
	Type      InquiryType
}
