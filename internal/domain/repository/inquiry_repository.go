package repository

import (
	"context"

	"greia/internal/domain/entity"
)

// InquiryCount selects inquiries for aggregate counting. Empty fields are ignored.
type InquiryCount struct {
	CreatorID  string
	ReceiverID string
	Status     entity.InquiryStatus
}

type InquiryRepository interface {
	// Create writes the inquiry and, when txn is non-nil, the transaction it
	// converts into, as one atomic unit. If an inquiry with the same id already
	// exists nothing is written and the stored pair is returned with created=false.
	Create(ctx context.Context, inquiry *entity.Inquiry, txn *entity.Transaction) (stored *entity.Inquiry, storedTxn *entity.Transaction, created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Inquiry, error)
	// ListForUser returns inquiries created or received by userID, newest first.
	ListForUser(ctx context.Context, userID string, filter entity.InquiryFilter) ([]*entity.Inquiry, error)
	Update(ctx context.Context, id string, fn func(inquiry *entity.Inquiry) error) (*entity.Inquiry, error)
	Count(ctx context.Context, q InquiryCount) (int64, error)
}

type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// ListForUser returns transactions where userID is buyer or seller, newest first.
	ListForUser(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error)
	Update(ctx context.Context, id string, fn func(txn *entity.Transaction) error) (*entity.Transaction, error)
	CountForUser(ctx context.Context, userID string) (int64, error)
	// SumAmount totals the amount of the seller's transactions in the given status.
	SumAmount(ctx context.Context, sellerID string, status entity.TransactionStatus) (float64, error)
}
