package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"greia/internal/domain/entity"
	"greia/internal/domain/policy"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

// inquiryNamespace scopes idempotency-derived inquiry ids.
var inquiryNamespace = uuid.MustParse("6f1c8a52-3d0b-4e4f-9a57-5b2d8c1e7a90")

type InquiryUseCase struct {
	inquiryRepo   repository.InquiryRepository
	listingRepo   repository.ListingRepository
	userRepo      repository.UserRepository
	notifications *NotificationUseCase
	now           Clock
}

func NewInquiryUseCase(
	inquiryRepo repository.InquiryRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	notifications *NotificationUseCase,
	now Clock,
) *InquiryUseCase {
	if now == nil {
		now = time.Now
	}
	return &InquiryUseCase{
		inquiryRepo:   inquiryRepo,
		listingRepo:   listingRepo,
		userRepo:      userRepo,
		notifications: notifications,
		now:           now,
	}
}

type CreateInquiryInput struct {
	Type       entity.InquiryType
	Message    string
	ListingID  string
	ReceiverID string
	// IdempotencyKey makes retries of the same request return the first result.
	IdempotencyKey string
}

type InquiryResult struct {
	Inquiry     *entity.Inquiry     `json:"inquiry"`
	Transaction *entity.Transaction `json:"transaction,omitempty"`
	// Replayed is set when an idempotent retry returned an earlier result.
	Replayed bool `json:"-"`
}

func (in CreateInquiryInput) validate() error {
	var missing []string
	if in.Type == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(in.Message) == "" {
		missing = append(missing, "message")
	}
	if in.ListingID == "" {
		missing = append(missing, "listing_id")
	}
	if in.ReceiverID == "" {
		missing = append(missing, "receiver_id")
	}
	if len(missing) > 0 {
		return errors.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}
	if !in.Type.Valid() {
		return errors.Validation("Invalid inquiry type")
	}
	return nil
}

func inquiryID(callerID, idempotencyKey string) string {
	if idempotencyKey == "" {
		return uuid.New().String()
	}
	return uuid.NewSHA1(inquiryNamespace, []byte(callerID+":"+idempotencyKey)).String()
}

// CreateInquiry stores the inquiry. Booking requests and purchase intents on an
// existing listing are converted into a pending transaction in the same write.
func (uc *InquiryUseCase) CreateInquiry(ctx context.Context, callerID string, input CreateInquiryInput) (*InquiryResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := uc.now()
	inquiry := &entity.Inquiry{
		ID:         inquiryID(callerID, input.IdempotencyKey),
		CreatorID:  callerID,
		ReceiverID: input.ReceiverID,
		ListingID:  input.ListingID,
		Type:       input.Type,
		Message:    strings.TrimSpace(input.Message),
		Status:     entity.InquiryPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	var txn *entity.Transaction
	if listing != nil && policy.ConvertsToTransaction(input.Type) {
		txn = &entity.Transaction{
			ID:        uuid.NewSHA1(inquiryNamespace, []byte("txn:"+inquiry.ID)).String(),
			Type:      policy.TransactionTypeFor(listing.Type),
			Status:    entity.TransactionPending,
			Amount:    listing.Price,
			Currency:  listing.Currency,
			ListingID: listing.ID,
			UserID:    callerID,
			SellerID:  listing.OwnerID,
			InquiryID: inquiry.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		inquiry.Status = entity.InquiryConverted
		inquiry.TransactionID = txn.ID
	}

	stored, storedTxn, created, err := uc.inquiryRepo.Create(ctx, inquiry, txn)
	if err != nil {
		logger.Error("CreateInquiry Error: caller=%s listing=%s: %v", callerID, input.ListingID, err)
		return nil, err
	}
	if !created {
		return &InquiryResult{Inquiry: stored, Transaction: storedTxn, Replayed: true}, nil
	}

	senderName := callerID
	if sender, err := uc.userRepo.GetByID(ctx, callerID); err == nil {
		senderName = sender.Name
	}
	title := input.ListingID
	if listing != nil {
		title = listing.Title
	}
	uc.notifications.Notify(ctx, &entity.Notification{
		UserID:   input.ReceiverID,
		SenderID: callerID,
		Type:     entity.NotificationInquiryReceived,
		Title:    "New inquiry",
		Content:  fmt.Sprintf("New %s for %q from %s", humanize(string(input.Type)), title, senderName),
		Data:     map[string]string{"inquiryId": stored.ID, "listingId": input.ListingID},
	})

	return &InquiryResult{Inquiry: stored, Transaction: storedTxn}, nil
}

func (uc *InquiryUseCase) ListInquiries(ctx context.Context, callerID string, filter entity.InquiryFilter) ([]*entity.Inquiry, error) {
	inquiries, err := uc.inquiryRepo.ListForUser(ctx, callerID, filter)
	if err != nil {
		logger.Error("ListInquiries Error: caller=%s: %v", callerID, err)
		return nil, err
	}
	return inquiries, nil
}

// RespondToInquiry lets the receiver accept or reject a pending inquiry.
func (uc *InquiryUseCase) RespondToInquiry(ctx context.Context, callerID, id string, status entity.InquiryStatus) (*entity.Inquiry, error) {
	if status != entity.InquiryAccepted && status != entity.InquiryRejected {
		return nil, errors.Validation("Status must be ACCEPTED or REJECTED")
	}

	return uc.inquiryRepo.Update(ctx, id, func(inq *entity.Inquiry) error {
		if inq.ReceiverID != callerID {
			return errors.Forbidden("Only the receiver can respond to this inquiry", nil)
		}
		if inq.Status != entity.InquiryPending {
			return errors.Conflict("Inquiry is no longer pending")
		}
		inq.Status = status
		inq.UpdatedAt = uc.now()
		return nil
	})
}
